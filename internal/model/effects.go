package model

// UnitEffect describes how a transaction type moves the unit balance of a
// holding.
type UnitEffect int

const (
	// CashOnly types touch money but never units (cash dividends, fees,
	// interest, cash subscriptions).
	CashOnly UnitEffect = iota
	// IncreasesUnits types add the row's units to the holding.
	IncreasesUnits
	// DecreasesUnits types remove the row's units from the holding.
	DecreasesUnits
)

// UnitEffects is the central type→effect mapping consumed by the holdings
// aggregator. A type missing from the map is a data-quality fault: the row is
// excluded from unit arithmetic and surfaced by reconciliation instead of
// being silently dropped.
type UnitEffects map[TransactionType]UnitEffect

// DefaultUnitEffects returns the standard mapping: purchases and inbound
// transfers add units, sales and outbound transfers remove them, everything
// else is cash-only. Dividends are cash-only by default; platforms that
// encode reinvestment as DIVIDEND rows should use WithReinvestedDividends.
func DefaultUnitEffects() UnitEffects {
	return UnitEffects{
		TypeBuy:          IncreasesUnits,
		TypeSell:         DecreasesUnits,
		TypeTransferIn:   IncreasesUnits,
		TypeTransferOut:  DecreasesUnits,
		TypeDividend:     CashOnly,
		TypeFee:          CashOnly,
		TypeInterest:     CashOnly,
		TypeSubscription: CashOnly,
		TypeOther:        CashOnly,
	}
}

// WithReinvestedDividends returns a copy of e where DIVIDEND rows settle in
// units rather than cash. Dividend treatment varies by platform export, so
// this is deployment configuration, not algorithm.
func (e UnitEffects) WithReinvestedDividends() UnitEffects {
	out := make(UnitEffects, len(e))
	for k, v := range e {
		out[k] = v
	}
	out[TypeDividend] = IncreasesUnits
	return out
}

// FlowEffect describes how a transaction type enters the investor cash-flow
// schedule used by the return calculator.
type FlowEffect int

const (
	// NoFlow types are internal to the account and never cross the
	// investor boundary.
	NoFlow FlowEffect = iota
	// Contribution types are capital the investor puts in (negative flows).
	Contribution
	// Withdrawal types are capital returned to the investor (positive flows).
	Withdrawal
)

// FlowEffects maps transaction types to their cash-flow role.
type FlowEffects map[TransactionType]FlowEffect

// DefaultFlowEffects returns the standard mapping: buys, inbound transfers
// and cash subscriptions are contributions; sells and outbound transfers are
// withdrawals. Dividends, fees and interest stay inside the account and do
// not generate investor flows.
func DefaultFlowEffects() FlowEffects {
	return FlowEffects{
		TypeBuy:          Contribution,
		TypeTransferIn:   Contribution,
		TypeSubscription: Contribution,
		TypeSell:         Withdrawal,
		TypeTransferOut:  Withdrawal,
		TypeDividend:     NoFlow,
		TypeFee:          NoFlow,
		TypeInterest:     NoFlow,
		TypeOther:        NoFlow,
	}
}
