package model

import "time"

// ReturnMetrics is the full set of return figures for one cash-flow schedule
// plus a terminal valuation. All currency fields are in the input currency;
// no conversion is performed.
//
// SimpleReturn, AnnualisedReturn and MWRR are nil when mathematically
// undefined for the inputs (zero contributions, returns below -100%, no IRR
// sign change). Callers should render nil as "N/A", never as 0%.
type ReturnMetrics struct {
	TotalContributions float64   `json:"totalContributions"`
	TotalWithdrawals   float64   `json:"totalWithdrawals"`
	CurrentValue       float64   `json:"currentValue"`
	TotalGain          float64   `json:"totalGain"`
	SimpleReturn       *float64  `json:"simpleReturn"`
	AnnualisedReturn   *float64  `json:"annualisedReturn"`
	MWRR               *float64  `json:"mwrr"`
	YearsInvested      float64   `json:"yearsInvested"`
	StartDate          time.Time `json:"startDate"`
	AsOf               time.Time `json:"asOf"`
}
