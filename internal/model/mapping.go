package model

import "time"

// TickerMapping links a fund name from the transaction table to exactly one
// price-lookup ticker. The table is manually curated and rarely changes.
type TickerMapping struct {
	ID             string    `json:"id"`
	FundName       string    `json:"fundName"`
	Ticker         string    `json:"ticker"`
	Sedol          string    `json:"sedol,omitempty"`
	Isin           string    `json:"isin,omitempty"`
	MappedFundName string    `json:"mappedFundName,omitempty"`
	VIP            bool      `json:"vip"`
	IsAutoMapped   bool      `json:"isAutoMapped"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// MappingStatus records per-ticker transaction aggregates at the time prices
// were last refreshed. Reconciliation compares these against freshly computed
// values to detect drift.
type MappingStatus struct {
	ID               string    `json:"id"`
	Ticker           string    `json:"ticker"`
	FundName         string    `json:"fundName"`
	EarliestDate     time.Time `json:"earliestDate"`
	LatestDate       time.Time `json:"latestDate"`
	TransactionCount int       `json:"transactionCount"`
	UpdatedAt        time.Time `json:"updatedAt,omitempty"`
}

// PricePoint is one daily closing price for a ticker. (date, ticker) is
// unique; the table is append-only and refreshed incrementally from the
// price feed.
type PricePoint struct {
	ID     string    `json:"id"`
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}
