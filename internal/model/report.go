package model

import "time"

// OrphanedFund is a fund name present in transactions with no ticker mapping,
// hence no reachable price data.
type OrphanedFund struct {
	FundName         string `json:"fundName"`
	TransactionCount int    `json:"transactionCount"`
}

// CoverageGap reports a ticker whose price history does not span the fund's
// transaction history. Zero time values mean no prices exist at all.
type CoverageGap struct {
	Ticker           string    `json:"ticker"`
	FundName         string    `json:"fundName"`
	FirstTransaction time.Time `json:"firstTransaction"`
	LastTransaction  time.Time `json:"lastTransaction"`
	FirstPrice       time.Time `json:"firstPrice,omitempty"`
	LastPrice        time.Time `json:"lastPrice,omitempty"`
	MissingBefore    bool      `json:"missingBefore"`
	MissingAfter     bool      `json:"missingAfter"`
}

// DuplicatePrice reports more than one price row for the same (date, ticker).
type DuplicatePrice struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Count  int       `json:"count"`
}

// StatusDrift reports a mapping_status row whose recorded aggregates disagree
// with values freshly computed from the transaction table.
type StatusDrift struct {
	Ticker           string    `json:"ticker"`
	RecordedEarliest time.Time `json:"recordedEarliest"`
	RecordedLatest   time.Time `json:"recordedLatest"`
	RecordedCount    int       `json:"recordedCount"`
	ActualEarliest   time.Time `json:"actualEarliest"`
	ActualLatest     time.Time `json:"actualLatest"`
	ActualCount      int       `json:"actualCount"`
}

// UnmappedType reports transactions whose type is absent from the configured
// type→effect mapping. These rows are excluded from unit arithmetic by the
// holdings aggregator and must be resolved by configuration.
type UnmappedType struct {
	Type             TransactionType `json:"type"`
	TransactionCount int             `json:"transactionCount"`
}

// CrossReferenceMatch identifies the same underlying fund held under two
// different (fund, platform, wrapper) identities, matched on a shared
// identifier. Confidence >= 0.90 is treated as verified.
type CrossReferenceMatch struct {
	FundA             string     `json:"fundA"`
	FundB             string     `json:"fundB"`
	PlatformA         Platform   `json:"platformA"`
	PlatformB         Platform   `json:"platformB"`
	WrapperA          TaxWrapper `json:"wrapperA"`
	WrapperB          TaxWrapper `json:"wrapperB"`
	MatchType         string     `json:"matchType"`
	MatchedIdentifier string     `json:"matchedIdentifier"`
	Confidence        float64    `json:"confidence"`
	Reason            string     `json:"reason"`
}

// ReconciliationReport is the structured output of one reconciliation pass.
// Every finding is a value: a single bad record never blocks visibility into
// the rest of the dataset. Running the pass twice on unchanged data yields an
// identical report.
type ReconciliationReport struct {
	OrphanedFunds           []OrphanedFund        `json:"orphanedFunds"`
	CoverageGaps            []CoverageGap         `json:"coverageGaps"`
	DuplicatePrices         []DuplicatePrice      `json:"duplicatePrices"`
	StatusDrift             []StatusDrift         `json:"statusDrift"`
	UnmappedTypes           []UnmappedType        `json:"unmappedTypes"`
	VerifiedMatches         []CrossReferenceMatch `json:"verifiedMatches"`
	UnsureMatches           []CrossReferenceMatch `json:"unsureMatches"`
	FundsWithoutIdentifiers []string              `json:"fundsWithoutIdentifiers"`
}

// Clean reports whether the pass found nothing to flag. Cross-reference
// matches are informational and do not count against cleanliness.
func (r ReconciliationReport) Clean() bool {
	return len(r.OrphanedFunds) == 0 &&
		len(r.CoverageGaps) == 0 &&
		len(r.DuplicatePrices) == 0 &&
		len(r.StatusDrift) == 0 &&
		len(r.UnmappedTypes) == 0
}
