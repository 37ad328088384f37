package model

import "time"

// Platform identifies the brokerage a transaction was exported from.
// The set is closed: new platforms are added here and nowhere else.
type Platform string

const (
	PlatformFidelity             Platform = "FIDELITY"
	PlatformInteractiveInvestor  Platform = "INTERACTIVE_INVESTOR"
	PlatformInvestEngine         Platform = "INVEST_ENGINE"
	PlatformDodl                 Platform = "DODL"
)

// Platforms lists every known platform, in display order.
var Platforms = []Platform{
	PlatformFidelity,
	PlatformInteractiveInvestor,
	PlatformInvestEngine,
	PlatformDodl,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// TaxWrapper is the UK account-type classification. It affects tax
// treatment only, never transaction mechanics.
type TaxWrapper string

const (
	WrapperISA   TaxWrapper = "ISA"
	WrapperSIPP  TaxWrapper = "SIPP"
	WrapperGIA   TaxWrapper = "GIA"
	WrapperOther TaxWrapper = "OTHER"
)

// TaxWrappers lists every known tax wrapper.
var TaxWrappers = []TaxWrapper{WrapperISA, WrapperSIPP, WrapperGIA, WrapperOther}

// Valid reports whether w is a known tax wrapper.
func (w TaxWrapper) Valid() bool {
	for _, known := range TaxWrappers {
		if w == known {
			return true
		}
	}
	return false
}

// TransactionType is the canonical transaction vocabulary that every
// platform export is normalised into.
type TransactionType string

const (
	TypeBuy          TransactionType = "BUY"
	TypeSell         TransactionType = "SELL"
	TypeDividend     TransactionType = "DIVIDEND"
	TypeTransferIn   TransactionType = "TRANSFER_IN"
	TypeTransferOut  TransactionType = "TRANSFER_OUT"
	TypeFee          TransactionType = "FEE"
	TypeInterest     TransactionType = "INTEREST"
	TypeSubscription TransactionType = "SUBSCRIPTION"
	TypeOther        TransactionType = "OTHER"
)

// TransactionTypes lists every canonical transaction type.
var TransactionTypes = []TransactionType{
	TypeBuy, TypeSell, TypeDividend, TypeTransferIn, TypeTransferOut,
	TypeFee, TypeInterest, TypeSubscription, TypeOther,
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Transaction is one normalised buy/sell/dividend/transfer/fee event from a
// platform export.
//
// Units are stored as positive values for every transaction type; whether a
// row increases or decreases a holding is decided solely by the type→effect
// mapping (see UnitEffects). Storing the sign in both the units field and the
// type would risk double negation on SELL/TRANSFER_OUT rows.
//
// A transaction is immutable after import except for MappedFundName and
// Excluded, which maintenance passes may update.
// (platform, date, fund_name, transaction_type, value, reference) is unique
// so re-importing the same statement line is a no-op.
type Transaction struct {
	ID             string          `json:"id"`
	Platform       Platform        `json:"platform"`
	TaxWrapper     TaxWrapper      `json:"taxWrapper"`
	Date           time.Time       `json:"date"`
	FundName       string          `json:"fundName"`
	MappedFundName string          `json:"mappedFundName,omitempty"`
	Type           TransactionType `json:"type"`
	Units          float64         `json:"units"`
	PricePerUnit   float64         `json:"pricePerUnit"`
	Value          float64         `json:"value"`
	Currency       string          `json:"currency"`
	Sedol          string          `json:"sedol,omitempty"`
	Isin           string          `json:"isin,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	RawDescription string          `json:"rawDescription,omitempty"`
	Excluded       bool            `json:"excluded"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// EffectiveFundName returns the standardised fund name when one has been
// applied, otherwise the raw name from the export.
func (t Transaction) EffectiveFundName() string {
	if t.MappedFundName != "" {
		return t.MappedFundName
	}
	return t.FundName
}

// TransactionFilter scopes transaction queries. Zero values mean "no filter".
type TransactionFilter struct {
	FundName        string
	Platform        Platform
	TaxWrapper      TaxWrapper
	StartDate       time.Time
	EndDate         time.Time
	IncludeExcluded bool
}
