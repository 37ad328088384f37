// Package request defines the JSON request bodies accepted by the API.
package request

// CreateTransactionRequest is the body for POST /api/transactions. Dates are
// YYYY-MM-DD strings; units and value must be positive, with the transaction
// type deciding their direction.
type CreateTransactionRequest struct {
	Platform       string  `json:"platform"`
	TaxWrapper     string  `json:"taxWrapper"`
	Date           string  `json:"date"`
	FundName       string  `json:"fundName"`
	Type           string  `json:"type"`
	Units          float64 `json:"units"`
	PricePerUnit   float64 `json:"pricePerUnit"`
	Value          float64 `json:"value"`
	Currency       string  `json:"currency,omitempty"`
	Sedol          string  `json:"sedol,omitempty"`
	Isin           string  `json:"isin,omitempty"`
	Reference      string  `json:"reference,omitempty"`
	RawDescription string  `json:"rawDescription,omitempty"`
}

// ExcludeFundRequest is the body for POST /api/transactions/exclude.
type ExcludeFundRequest struct {
	FundName string `json:"fundName"`
	Excluded bool   `json:"excluded"`
}
