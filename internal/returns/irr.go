// Package returns computes portfolio return metrics (simple return,
// annualised return, money-weighted rate of return) from an irregular
// cash-flow schedule and a terminal valuation.
//
// The package is pure computation: no I/O, no persistence, no shared state.
// Each call takes an immutable snapshot of flows and returns a new result, so
// concurrent invocations with disjoint inputs are inherently safe.
package returns

import "math"

// Fixed IRR solver constants. These are part of the contract so results are
// reproducible across reimplementations.
const (
	// IRRLowerBound and IRRUpperBound bracket the bisection search domain.
	IRRLowerBound = -0.99
	IRRUpperBound = 10.0
	// IRRTolerance is the absolute tolerance on the solved rate.
	IRRTolerance = 1e-6
	// IRRMaxIterations bounds the bisection. Halving [−0.99, 10] to 1e-6
	// needs ~34 iterations, so 200 leaves ample headroom.
	IRRMaxIterations = 200

	// DaysPerYear converts day counts to year fractions.
	DaysPerYear = 365.25
)

// ScheduledFlow is one flow positioned on the IRR time axis: Years is the
// year fraction from the schedule's earliest flow, Amount keeps the investor
// sign convention (negative in, positive out).
type ScheduledFlow struct {
	Years  float64
	Amount float64
}

// npv discounts every flow at the given rate. Rates at or below -100% make
// the discount factor ill-defined; returning +Inf keeps the bisection on the
// meaningful side of the domain, matching the bracketing behaviour callers
// rely on.
func npv(flows []ScheduledFlow, rate float64) float64 {
	if rate <= -1 {
		return math.Inf(1)
	}
	total := 0.0
	for _, f := range flows {
		total += f.Amount / math.Pow(1+rate, f.Years)
	}
	return total
}

// SolveIRR finds the rate in [lo, hi] where the schedule's net present value
// crosses zero, by bisection. It returns ok=false when no sign change exists
// in the domain (for example a schedule with no negative flow); that is an
// expected business outcome, not an error.
//
// IRR has no closed form for more than two flows, and the schedules here are
// irregular and can be as small as one contribution plus one valuation, so a
// bracketing method is used for robustness over speed.
func SolveIRR(flows []ScheduledFlow, lo, hi, tol float64, maxIter int) (rate float64, ok bool) {
	fLo := npv(flows, lo)
	fHi := npv(flows, hi)

	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, false
	}

	var mid float64
	for i := 0; i < maxIter; i++ {
		mid = (lo + hi) / 2
		fMid := npv(flows, mid)

		if fMid == 0 || (hi-lo)/2 < tol {
			return mid, true
		}

		if (fMid > 0) == (fLo > 0) {
			lo = mid
			fLo = fMid
		} else {
			hi = mid
		}
	}

	return mid, (hi-lo)/2 < tol
}
