package model

import "time"

// CashFlow is one dated flow across the investor boundary, used only as
// return-calculator input. Negative amounts are capital the investor put in,
// positive amounts are capital returned. The sign convention belongs to the
// calculator contract, not to Transaction.
//
// CashFlows are derived from transactions on demand and never persisted.
type CashFlow struct {
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
}

// IsContribution reports whether the flow is money going into the account.
func (c CashFlow) IsContribution() bool {
	return c.Amount < 0
}

// IsWithdrawal reports whether the flow is money leaving the account.
func (c CashFlow) IsWithdrawal() bool {
	return c.Amount > 0
}
