// Package reconcile cross-checks the fund-name → ticker → price-history
// linkage for completeness, duplication and drift.
//
// A pass is read-only and side-effect-free: it consumes an immutable snapshot
// and emits a report. Findings are values, never errors, so a single bad
// record never blocks visibility into the rest of the dataset, and running
// the pass twice on unchanged data yields an identical report.
package reconcile

import (
	"sort"
	"time"

	"portfolioanalyser/internal/model"
)

// Snapshot is the full input to one reconciliation pass.
type Snapshot struct {
	Transactions []model.Transaction
	Mappings     []model.TickerMapping
	Prices       []model.PricePoint
	Statuses     []model.MappingStatus
}

// Run executes every check against the snapshot and returns the combined
// report. The effects map defines the transaction-type vocabulary; types
// outside it are reported, mirroring their exclusion from unit arithmetic in
// the holdings aggregator.
func Run(snap Snapshot, effects model.UnitEffects) model.ReconciliationReport {
	report := model.ReconciliationReport{
		OrphanedFunds:   checkOrphanedFunds(snap),
		CoverageGaps:    checkPriceCoverage(snap),
		DuplicatePrices: checkDuplicatePrices(snap),
		StatusDrift:     checkStatusDrift(snap),
		UnmappedTypes:   checkUnmappedTypes(snap, effects),
	}

	verified, unsure, withoutIDs := crossReference(snap)
	report.VerifiedMatches = verified
	report.UnsureMatches = unsure
	report.FundsWithoutIdentifiers = withoutIDs

	return report
}

// mappedNames returns every fund name reachable through the mapping table,
// under both its raw and standardised spellings.
func mappedNames(mappings []model.TickerMapping) map[string]bool {
	names := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		names[m.FundName] = true
		if m.MappedFundName != "" {
			names[m.MappedFundName] = true
		}
	}
	return names
}

// checkOrphanedFunds finds fund names present in non-excluded transactions
// with no corresponding ticker mapping, hence no reachable price data.
func checkOrphanedFunds(snap Snapshot) []model.OrphanedFund {
	mapped := mappedNames(snap.Mappings)

	counts := make(map[string]int)
	for _, tx := range snap.Transactions {
		if tx.Excluded {
			continue
		}
		name := tx.EffectiveFundName()
		if !mapped[name] {
			counts[name]++
		}
	}

	orphans := make([]model.OrphanedFund, 0, len(counts))
	for name, count := range counts {
		orphans = append(orphans, model.OrphanedFund{FundName: name, TransactionCount: count})
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].TransactionCount != orphans[j].TransactionCount {
			return orphans[i].TransactionCount > orphans[j].TransactionCount
		}
		return orphans[i].FundName < orphans[j].FundName
	})
	return orphans
}

// transactionSpan is the first/last transaction date and count for one
// mapped ticker, recomputed from the transaction table.
type transactionSpan struct {
	first time.Time
	last  time.Time
	count int
}

// transactionSpans aggregates non-excluded transactions per ticker through
// the mapping table.
func transactionSpans(snap Snapshot) map[string]transactionSpan {
	// A fund name can reach a ticker under either spelling.
	tickerByName := make(map[string]string)
	for _, m := range snap.Mappings {
		tickerByName[m.FundName] = m.Ticker
		if m.MappedFundName != "" {
			tickerByName[m.MappedFundName] = m.Ticker
		}
	}

	spans := make(map[string]transactionSpan)
	for _, tx := range snap.Transactions {
		if tx.Excluded {
			continue
		}
		ticker, ok := tickerByName[tx.EffectiveFundName()]
		if !ok {
			continue
		}
		span := spans[ticker]
		if span.count == 0 || tx.Date.Before(span.first) {
			span.first = tx.Date
		}
		if span.count == 0 || tx.Date.After(span.last) {
			span.last = tx.Date
		}
		span.count++
		spans[ticker] = span
	}
	return spans
}

// checkPriceCoverage finds tickers whose price history does not span their
// fund's transaction history.
func checkPriceCoverage(snap Snapshot) []model.CoverageGap {
	type priceSpan struct {
		first time.Time
		last  time.Time
		any   bool
	}
	prices := make(map[string]priceSpan)
	for _, p := range snap.Prices {
		span := prices[p.Ticker]
		if !span.any || p.Date.Before(span.first) {
			span.first = p.Date
		}
		if !span.any || p.Date.After(span.last) {
			span.last = p.Date
		}
		span.any = true
		prices[p.Ticker] = span
	}

	txSpans := transactionSpans(snap)

	var gaps []model.CoverageGap
	for _, m := range snap.Mappings {
		txSpan, ok := txSpans[m.Ticker]
		if !ok {
			continue
		}

		pSpan := prices[m.Ticker]
		gap := model.CoverageGap{
			Ticker:           m.Ticker,
			FundName:         m.FundName,
			FirstTransaction: txSpan.first,
			LastTransaction:  txSpan.last,
			FirstPrice:       pSpan.first,
			LastPrice:        pSpan.last,
			MissingBefore:    !pSpan.any || pSpan.first.After(txSpan.first),
			MissingAfter:     !pSpan.any || pSpan.last.Before(txSpan.last),
		}
		if gap.MissingBefore || gap.MissingAfter {
			gaps = append(gaps, gap)
		}
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Ticker < gaps[j].Ticker })
	return gaps
}

// checkDuplicatePrices finds more than one price row for the same
// (date, ticker) key.
func checkDuplicatePrices(snap Snapshot) []model.DuplicatePrice {
	type key struct {
		ticker string
		date   string
	}
	counts := make(map[key]model.DuplicatePrice)
	for _, p := range snap.Prices {
		k := key{ticker: p.Ticker, date: p.Date.Format("2006-01-02")}
		entry := counts[k]
		entry.Ticker = p.Ticker
		entry.Date = p.Date
		entry.Count++
		counts[k] = entry
	}

	var dups []model.DuplicatePrice
	for _, entry := range counts {
		if entry.Count > 1 {
			dups = append(dups, entry)
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Ticker != dups[j].Ticker {
			return dups[i].Ticker < dups[j].Ticker
		}
		return dups[i].Date.Before(dups[j].Date)
	})
	return dups
}

// checkStatusDrift compares each mapping_status row against aggregates
// freshly computed from the transaction table.
func checkStatusDrift(snap Snapshot) []model.StatusDrift {
	spans := transactionSpans(snap)

	var drift []model.StatusDrift
	for _, status := range snap.Statuses {
		span, ok := spans[status.Ticker]
		if !ok {
			// A status row for a ticker with no transactions at all is
			// itself drift when it claims a non-zero count.
			if status.TransactionCount != 0 {
				drift = append(drift, model.StatusDrift{
					Ticker:           status.Ticker,
					RecordedEarliest: status.EarliestDate,
					RecordedLatest:   status.LatestDate,
					RecordedCount:    status.TransactionCount,
				})
			}
			continue
		}

		if !sameDay(status.EarliestDate, span.first) ||
			!sameDay(status.LatestDate, span.last) ||
			status.TransactionCount != span.count {
			drift = append(drift, model.StatusDrift{
				Ticker:           status.Ticker,
				RecordedEarliest: status.EarliestDate,
				RecordedLatest:   status.LatestDate,
				RecordedCount:    status.TransactionCount,
				ActualEarliest:   span.first,
				ActualLatest:     span.last,
				ActualCount:      span.count,
			})
		}
	}
	sort.Slice(drift, func(i, j int) bool { return drift[i].Ticker < drift[j].Ticker })
	return drift
}

// checkUnmappedTypes counts non-excluded transactions whose type is absent
// from the configured type→effect mapping.
func checkUnmappedTypes(snap Snapshot, effects model.UnitEffects) []model.UnmappedType {
	counts := make(map[model.TransactionType]int)
	for _, tx := range snap.Transactions {
		if tx.Excluded {
			continue
		}
		if _, known := effects[tx.Type]; !known {
			counts[tx.Type]++
		}
	}

	unmapped := make([]model.UnmappedType, 0, len(counts))
	for txType, count := range counts {
		unmapped = append(unmapped, model.UnmappedType{Type: txType, TransactionCount: count})
	}
	sort.Slice(unmapped, func(i, j int) bool { return unmapped[i].Type < unmapped[j].Type })
	return unmapped
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
