package reconcile

import (
	"fmt"
	"sort"

	"portfolioanalyser/internal/model"
)

// VerifiedThreshold separates matches solid enough to act on from those
// needing manual review.
const VerifiedThreshold = 0.90

// fundIdentity is one distinct (fund, platform, wrapper) combination observed
// in BUY/SELL transactions, enriched with its identifiers.
type fundIdentity struct {
	fundName string
	platform model.Platform
	wrapper  model.TaxWrapper
	ticker   string
	sedol    string
	isin     string
}

// crossReference finds the same underlying fund held under different
// identities, matched on shared ticker, SEDOL or ISIN in that priority
// order. It also lists funds carrying no identifier at all, which can never
// be matched.
func crossReference(snap Snapshot) (verified, unsure []model.CrossReferenceMatch, withoutIDs []string) {
	identities := collectIdentities(snap)

	var matches []model.CrossReferenceMatch
	matchedPairs := make(map[string]bool)

	matches = append(matches, matchByTicker(identities, matchedPairs)...)
	matches = append(matches, matchByIdentifier(identities, matchedPairs, "sedol")...)
	matches = append(matches, matchByIdentifier(identities, matchedPairs, "isin")...)
	matches = append(matches, matchAcrossWrappers(identities)...)

	for _, m := range matches {
		if m.Confidence >= VerifiedThreshold {
			verified = append(verified, m)
		} else {
			unsure = append(unsure, m)
		}
	}

	seen := make(map[string]bool)
	for _, id := range identities {
		if id.ticker == "" && id.sedol == "" && id.isin == "" && !seen[id.fundName] {
			withoutIDs = append(withoutIDs, id.fundName)
			seen[id.fundName] = true
		}
	}
	sort.Strings(withoutIDs)

	return verified, unsure, withoutIDs
}

// collectIdentities builds the distinct fund identity list from non-excluded
// BUY/SELL transactions joined to the mapping table. The result is sorted so
// repeated passes emit matches in the same order.
func collectIdentities(snap Snapshot) []fundIdentity {
	mappingByName := make(map[string]model.TickerMapping)
	for _, m := range snap.Mappings {
		mappingByName[m.FundName] = m
		if m.MappedFundName != "" {
			mappingByName[m.MappedFundName] = m
		}
	}

	seen := make(map[string]fundIdentity)
	for _, tx := range snap.Transactions {
		if tx.Excluded || (tx.Type != model.TypeBuy && tx.Type != model.TypeSell) {
			continue
		}

		id := fundIdentity{
			fundName: tx.EffectiveFundName(),
			platform: tx.Platform,
			wrapper:  tx.TaxWrapper,
			sedol:    tx.Sedol,
			isin:     tx.Isin,
		}
		if m, ok := mappingByName[id.fundName]; ok {
			id.ticker = m.Ticker
			if id.sedol == "" {
				id.sedol = m.Sedol
			}
			if id.isin == "" {
				id.isin = m.Isin
			}
		}

		key := id.fundName + "|" + string(id.platform) + "|" + string(id.wrapper)
		if _, ok := seen[key]; !ok {
			seen[key] = id
		}
	}

	identities := make([]fundIdentity, 0, len(seen))
	for _, id := range seen {
		identities = append(identities, id)
	}
	sort.Slice(identities, func(i, j int) bool {
		if identities[i].fundName != identities[j].fundName {
			return identities[i].fundName < identities[j].fundName
		}
		if identities[i].platform != identities[j].platform {
			return identities[i].platform < identities[j].platform
		}
		return identities[i].wrapper < identities[j].wrapper
	})
	return identities
}

func pairKey(a, b fundIdentity) string {
	if b.fundName < a.fundName {
		a, b = b, a
	}
	return a.fundName + "||" + b.fundName
}

// matchByTicker pairs identities sharing a ticker across different
// platform/wrapper combinations. An additional ISIN agreement lifts the
// confidence to certainty.
func matchByTicker(identities []fundIdentity, matchedPairs map[string]bool) []model.CrossReferenceMatch {
	var matches []model.CrossReferenceMatch

	byTicker := groupBy(identities, func(id fundIdentity) string { return id.ticker })
	for _, ticker := range sortedKeys(byTicker) {
		group := byTicker[ticker]
		for i, a := range group {
			for _, b := range group[i+1:] {
				if a.platform == b.platform && a.wrapper == b.wrapper {
					continue
				}

				isinConfirmed := a.isin != "" && a.isin == b.isin
				confidence := 0.95
				matchType := "ticker"
				reason := fmt.Sprintf("same ticker: %s", ticker)
				if isinConfirmed {
					confidence = 1.0
					matchType = "ticker+isin"
					reason = fmt.Sprintf("same ticker: %s and ISIN: %s", ticker, a.isin)
				}

				matches = append(matches, newMatch(a, b, matchType, ticker, confidence, reason))
				matchedPairs[pairKey(a, b)] = true
			}
		}
	}
	return matches
}

// matchByIdentifier pairs identities sharing a SEDOL or ISIN, skipping pairs
// already matched by a higher-priority identifier.
func matchByIdentifier(identities []fundIdentity, matchedPairs map[string]bool, kind string) []model.CrossReferenceMatch {
	confidence := 0.98
	keyFn := func(id fundIdentity) string { return id.sedol }
	if kind == "isin" {
		confidence = 0.92
		keyFn = func(id fundIdentity) string { return id.isin }
	}

	var matches []model.CrossReferenceMatch
	grouped := groupBy(identities, keyFn)
	for _, identifier := range sortedKeys(grouped) {
		group := grouped[identifier]
		for i, a := range group {
			for _, b := range group[i+1:] {
				if a.platform == b.platform && a.wrapper == b.wrapper {
					continue
				}
				if matchedPairs[pairKey(a, b)] {
					continue
				}

				reason := fmt.Sprintf("same %s: %s", kind, identifier)
				matches = append(matches, newMatch(a, b, kind, identifier, confidence, reason))
				matchedPairs[pairKey(a, b)] = true
			}
		}
	}
	return matches
}

// matchAcrossWrappers finds the same ticker held in more than one tax wrapper
// on the same platform, which is a certain identity match.
func matchAcrossWrappers(identities []fundIdentity) []model.CrossReferenceMatch {
	var matches []model.CrossReferenceMatch
	seen := make(map[string]bool)

	byTicker := groupBy(identities, func(id fundIdentity) string { return id.ticker })
	for _, ticker := range sortedKeys(byTicker) {
		group := byTicker[ticker]
		for i, a := range group {
			for _, b := range group[i+1:] {
				if a.platform != b.platform || a.wrapper == b.wrapper {
					continue
				}
				key := pairKey(a, b) + "|" + string(a.wrapper) + "|" + string(b.wrapper)
				if seen[key] {
					continue
				}
				seen[key] = true

				reason := fmt.Sprintf("same fund (%s) held in %s and %s on %s",
					ticker, a.wrapper, b.wrapper, a.platform)
				matches = append(matches, newMatch(a, b, "same_platform_different_wrapper", ticker, 1.0, reason))
			}
		}
	}
	return matches
}

func newMatch(a, b fundIdentity, matchType, identifier string, confidence float64, reason string) model.CrossReferenceMatch {
	return model.CrossReferenceMatch{
		FundA:             a.fundName,
		FundB:             b.fundName,
		PlatformA:         a.platform,
		PlatformB:         b.platform,
		WrapperA:          a.wrapper,
		WrapperB:          b.wrapper,
		MatchType:         matchType,
		MatchedIdentifier: identifier,
		Confidence:        confidence,
		Reason:            reason,
	}
}

// groupBy buckets identities by a non-empty key.
func groupBy(identities []fundIdentity, keyFn func(fundIdentity) string) map[string][]fundIdentity {
	grouped := make(map[string][]fundIdentity)
	for _, id := range identities {
		if key := keyFn(id); key != "" {
			grouped[key] = append(grouped[key], id)
		}
	}
	return grouped
}

func sortedKeys(m map[string][]fundIdentity) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
