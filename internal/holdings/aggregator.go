// Package holdings reduces a transaction history into unit positions and
// cost basis for a single fund identity.
package holdings

import (
	"sort"

	"portfolioanalyser/internal/model"
)

// LedgerEntry pairs a transaction with the cumulative unit balance
// immediately after it.
type LedgerEntry struct {
	Transaction model.Transaction
	UnitsAfter  float64
}

// Result is the output of one aggregation pass.
//
// FinalUnits always equals the arithmetic sum of signed per-type unit
// contributions; cash-only rows appear in the ledger with an unchanged
// balance. Unmapped holds every transaction whose type was absent from the
// effects map: those rows are excluded from unit arithmetic but kept visible
// so reconciliation can report them.
type Result struct {
	Ledger     []LedgerEntry
	FinalUnits float64
	Unmapped   []model.Transaction
}

// Aggregate computes the running unit balance for an ordered transaction
// history. Transactions are processed in ascending date order; rows sharing a
// date keep their input order (stable sort), so running balances are
// reproducible for identical dates.
//
// Which types move units is decided entirely by the effects map, so new
// transaction-type vocabularies are configuration, not code change.
func Aggregate(txs []model.Transaction, effects model.UnitEffects) Result {
	ordered := make([]model.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	result := Result{Ledger: make([]LedgerEntry, 0, len(ordered))}

	var units float64
	for _, tx := range ordered {
		effect, known := effects[tx.Type]
		if !known {
			result.Unmapped = append(result.Unmapped, tx)
			continue
		}

		switch effect {
		case model.IncreasesUnits:
			units += tx.Units
		case model.DecreasesUnits:
			units -= tx.Units
		}

		result.Ledger = append(result.Ledger, LedgerEntry{
			Transaction: tx,
			UnitsAfter:  units,
		})
	}

	result.FinalUnits = units
	return result
}
