package model

import "time"

// Holding is the derived current position for one (fund, tax wrapper,
// platform) key: unit balance from the transaction history, valued at the
// latest known price. Never persisted independently.
type Holding struct {
	Platform          Platform   `json:"platform"`
	TaxWrapper        TaxWrapper `json:"taxWrapper"`
	FundName          string     `json:"fundName"`
	Ticker            string     `json:"ticker,omitempty"`
	Units             float64    `json:"units"`
	CurrentPrice      float64    `json:"currentPrice"`
	CurrentValue      float64    `json:"currentValue"`
	CostBasis         float64    `json:"costBasis"`
	UnrealizedGain    float64    `json:"unrealizedGain"`
	UnrealizedGainPct float64    `json:"unrealizedGainPct"`
	PriceDate         time.Time  `json:"priceDate,omitempty"`
	FirstBuyDate      time.Time  `json:"firstBuyDate,omitempty"`
	TotalBuys         int        `json:"totalBuys"`
	Confidence        float64    `json:"confidence"`
	Notes             string     `json:"notes,omitempty"`
}

// HoldingsSummary aggregates all current holdings with portfolio totals.
type HoldingsSummary struct {
	Holdings            []Holding `json:"holdings"`
	TotalValue          float64   `json:"totalValue"`
	TotalCostBasis      float64   `json:"totalCostBasis"`
	TotalUnrealizedGain float64   `json:"totalUnrealizedGain"`
	WithoutPrices       int       `json:"withoutPrices"`
}
