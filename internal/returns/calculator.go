package returns

import (
	"fmt"
	"math"
	"sort"
	"time"

	"portfolioanalyser/internal/model"
)

// InvalidInputError reports a violated precondition. It is returned before
// any computation begins; a ReturnMetrics is never partially populated.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// Compute calculates all return metrics for a cash-flow schedule and a
// terminal valuation.
//
// Preconditions (violations return *InvalidInputError):
//   - cashFlows is non-empty
//   - every flow is dated on or before asOf
//   - currentValue >= 0
//
// Sign convention: negative amounts are capital the investor contributed,
// positive amounts are capital returned. The terminal current value is not a
// dated flow in the input; the MWRR calculation appends it internally as one
// additional positive flow dated asOf.
//
// Metrics that are mathematically undefined for the inputs (zero
// contributions, total return at or below -100%, no IRR solution in the
// search domain) come back as nil, distinct from zero.
func Compute(cashFlows []model.CashFlow, currentValue float64, asOf time.Time) (model.ReturnMetrics, error) {
	if len(cashFlows) == 0 {
		return model.ReturnMetrics{}, &InvalidInputError{Reason: "at least one cash flow is required"}
	}
	if currentValue < 0 {
		return model.ReturnMetrics{}, &InvalidInputError{Reason: "current value cannot be negative"}
	}
	for _, cf := range cashFlows {
		if cf.Date.After(asOf) {
			return model.ReturnMetrics{}, &InvalidInputError{
				Reason: fmt.Sprintf("cash flow dated %s is after as-of date %s",
					cf.Date.Format("2006-01-02"), asOf.Format("2006-01-02")),
			}
		}
	}

	flows := make([]model.CashFlow, len(cashFlows))
	copy(flows, cashFlows)
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date.Before(flows[j].Date)
	})

	var contributions, withdrawals float64
	for _, cf := range flows {
		if cf.IsContribution() {
			contributions += -cf.Amount
		} else if cf.IsWithdrawal() {
			withdrawals += cf.Amount
		}
	}

	startDate := flows[0].Date
	gain := currentValue + withdrawals - contributions
	years := yearsBetween(startDate, asOf)

	metrics := model.ReturnMetrics{
		TotalContributions: contributions,
		TotalWithdrawals:   withdrawals,
		CurrentValue:       currentValue,
		TotalGain:          gain,
		YearsInvested:      years,
		StartDate:          startDate,
		AsOf:               asOf,
	}

	if contributions != 0 {
		simple := gain / contributions
		metrics.SimpleReturn = &simple
		metrics.AnnualisedReturn = annualise(simple, years)
	}

	metrics.MWRR = moneyWeightedReturn(flows, currentValue, asOf)

	return metrics, nil
}

// annualise converts a total return into a compound annual rate. Returns nil
// when the holding period is not positive or when the total return is below
// -100%, where fractional exponentiation of a negative base is ill-defined.
func annualise(simpleReturn, years float64) *float64 {
	if years <= 0 || 1+simpleReturn < 0 {
		return nil
	}
	annualised := math.Pow(1+simpleReturn, 1/years) - 1
	return &annualised
}

// moneyWeightedReturn solves for the discount rate making the net present
// value of the schedule zero, with the current value appended as a terminal
// positive flow dated asOf. Returns nil when no solution exists in the search
// domain, which is expected for positions that never had a contribution.
func moneyWeightedReturn(flows []model.CashFlow, currentValue float64, asOf time.Time) *float64 {
	start := flows[0].Date

	schedule := make([]ScheduledFlow, 0, len(flows)+1)
	for _, cf := range flows {
		schedule = append(schedule, ScheduledFlow{
			Years:  yearsBetween(start, cf.Date),
			Amount: cf.Amount,
		})
	}
	schedule = append(schedule, ScheduledFlow{
		Years:  yearsBetween(start, asOf),
		Amount: currentValue,
	})

	rate, ok := SolveIRR(schedule, IRRLowerBound, IRRUpperBound, IRRTolerance, IRRMaxIterations)
	if !ok {
		return nil
	}
	return &rate
}

// yearsBetween returns the year fraction between two dates using the 365.25
// day convention.
func yearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / DaysPerYear
}
