package holdings

import (
	"time"

	"portfolioanalyser/internal/model"
)

// Unit balances below this are rounding residue, not a position.
const unitEpsilon = 0.001

// CostBasis is the FIFO cost of the units still held after replaying a
// BUY/SELL history. Confidence drops when the remaining lots cannot account
// for the units the caller believes are held, which happens when purchases
// predate the imported history.
type CostBasis struct {
	Cost         float64
	UnitsMatched float64
	TotalBuys    int
	FirstBuyDate time.Time
	Confidence   float64
}

// FIFOCostBasis replays buys and sells in date order, consuming the oldest
// lots first, and prices the remaining lots at their purchase price.
//
// unitsHeld is the externally known current position; when the lots left
// after replay differ from it by more than 10%, confidence is reduced to 0.7.
// A history with no buy lots at all returns confidence 0.5.
func FIFOCostBasis(txs []model.Transaction, effects model.UnitEffects, unitsHeld float64) CostBasis {
	type lot struct {
		price     float64
		remaining float64
	}

	agg := Aggregate(txs, effects)

	var lots []lot
	basis := CostBasis{Confidence: 1.0}

	for _, entry := range agg.Ledger {
		tx := entry.Transaction
		switch effects[tx.Type] {
		case model.IncreasesUnits:
			lots = append(lots, lot{price: tx.PricePerUnit, remaining: tx.Units})
			basis.TotalBuys++
			if basis.FirstBuyDate.IsZero() {
				basis.FirstBuyDate = tx.Date
			}
		case model.DecreasesUnits:
			toSell := tx.Units
			for toSell > unitEpsilon && len(lots) > 0 {
				consumed := min(toSell, lots[0].remaining)
				lots[0].remaining -= consumed
				toSell -= consumed
				if lots[0].remaining < unitEpsilon {
					lots = lots[1:]
				}
			}
		}
	}

	if basis.TotalBuys == 0 {
		basis.Confidence = 0.5
		return basis
	}

	for _, l := range lots {
		if l.remaining > unitEpsilon {
			basis.Cost += l.remaining * l.price
			basis.UnitsMatched += l.remaining
		}
	}

	if diff := basis.UnitsMatched - unitsHeld; diff > unitsHeld*0.1 || diff < -unitsHeld*0.1 {
		basis.Confidence = 0.7
	}

	return basis
}
