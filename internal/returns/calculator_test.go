package returns

import (
	"errors"
	"math"
	"testing"
	"time"

	"portfolioanalyser/internal/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestComputeTypicalSchedule pins the full metric set for a multi-year
// schedule with a mid-life withdrawal, so any change to the arithmetic or
// the day-count convention shows up as a diff here.
func TestComputeTypicalSchedule(t *testing.T) {
	flows := []model.CashFlow{
		{Date: date(2021, 9, 1), Amount: -10000},
		{Date: date(2022, 4, 1), Amount: -5000},
		{Date: date(2023, 6, 1), Amount: 2000},
	}

	metrics, err := Compute(flows, 15500, date(2025, 12, 9))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if metrics.TotalContributions != 15000 {
		t.Errorf("TotalContributions = %v, want 15000", metrics.TotalContributions)
	}
	if metrics.TotalWithdrawals != 2000 {
		t.Errorf("TotalWithdrawals = %v, want 2000", metrics.TotalWithdrawals)
	}
	if metrics.TotalGain != 2500 {
		t.Errorf("TotalGain = %v, want 2500", metrics.TotalGain)
	}
	if !almostEqual(metrics.YearsInvested, 4.2710, 0.001) {
		t.Errorf("YearsInvested = %v, want ~4.2710", metrics.YearsInvested)
	}
	if metrics.SimpleReturn == nil || !almostEqual(*metrics.SimpleReturn, 1.0/6, 1e-9) {
		t.Errorf("SimpleReturn = %v, want ~0.16667", metrics.SimpleReturn)
	}
	if metrics.AnnualisedReturn == nil || !almostEqual(*metrics.AnnualisedReturn, 0.036751, 1e-4) {
		t.Errorf("AnnualisedReturn = %v, want ~0.036751", metrics.AnnualisedReturn)
	}
	if metrics.MWRR == nil || !almostEqual(*metrics.MWRR, 0.041656, 1e-4) {
		t.Errorf("MWRR = %v, want ~0.041656", metrics.MWRR)
	}
	if !metrics.StartDate.Equal(date(2021, 9, 1)) {
		t.Errorf("StartDate = %v, want 2021-09-01", metrics.StartDate)
	}
}

func TestComputePreconditions(t *testing.T) {
	asOf := date(2024, 1, 1)

	tests := []struct {
		name         string
		flows        []model.CashFlow
		currentValue float64
	}{
		{"empty schedule", nil, 100},
		{"negative current value", []model.CashFlow{{Date: date(2023, 1, 1), Amount: -100}}, -1},
		{"flow after asOf", []model.CashFlow{{Date: date(2024, 6, 1), Amount: -100}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.flows, tt.currentValue, asOf)

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("Compute() error = %v, want *InvalidInputError", err)
			}
		})
	}
}

// Withdrawal-only history: contributions are zero, so simple and annualised
// returns are undefined and must come back nil, never zero.
func TestComputeNoContributions(t *testing.T) {
	flows := []model.CashFlow{
		{Date: date(2023, 1, 1), Amount: 500},
	}

	metrics, err := Compute(flows, 0, date(2024, 1, 1))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if metrics.SimpleReturn != nil {
		t.Errorf("SimpleReturn = %v, want nil", *metrics.SimpleReturn)
	}
	if metrics.AnnualisedReturn != nil {
		t.Errorf("AnnualisedReturn = %v, want nil", *metrics.AnnualisedReturn)
	}
	// All flows positive: NPV has no sign change, so no MWRR either.
	if metrics.MWRR != nil {
		t.Errorf("MWRR = %v, want nil", *metrics.MWRR)
	}
	if metrics.TotalGain != -500 {
		t.Errorf("TotalGain = %v, want -500", metrics.TotalGain)
	}
}

// A total loss: value went to zero with no withdrawals. Simple return is
// exactly -100% and stays representable; annualised follows at -100%.
func TestComputeTotalLoss(t *testing.T) {
	flows := []model.CashFlow{
		{Date: date(2022, 1, 1), Amount: -1000},
	}

	metrics, err := Compute(flows, 0, date(2024, 1, 1))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if metrics.SimpleReturn == nil || *metrics.SimpleReturn != -1 {
		t.Errorf("SimpleReturn = %v, want -1", metrics.SimpleReturn)
	}
	if metrics.AnnualisedReturn == nil || *metrics.AnnualisedReturn != -1 {
		t.Errorf("AnnualisedReturn = %v, want -1", metrics.AnnualisedReturn)
	}
}

// Same-day contribution and valuation: zero years invested, so annualised
// return is undefined.
func TestComputeZeroDuration(t *testing.T) {
	day := date(2024, 3, 1)
	flows := []model.CashFlow{{Date: day, Amount: -1000}}

	metrics, err := Compute(flows, 1100, day)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if metrics.YearsInvested != 0 {
		t.Errorf("YearsInvested = %v, want 0", metrics.YearsInvested)
	}
	if metrics.SimpleReturn == nil || !almostEqual(*metrics.SimpleReturn, 0.1, 1e-9) {
		t.Errorf("SimpleReturn = %v, want 0.1", metrics.SimpleReturn)
	}
	if metrics.AnnualisedReturn != nil {
		t.Errorf("AnnualisedReturn = %v, want nil", *metrics.AnnualisedReturn)
	}
}

// The input slice must never be reordered or mutated; Compute sorts a copy.
func TestComputeDoesNotMutateInput(t *testing.T) {
	flows := []model.CashFlow{
		{Date: date(2023, 6, 1), Amount: -500},
		{Date: date(2022, 1, 1), Amount: -1000},
	}

	_, err := Compute(flows, 2000, date(2024, 1, 1))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if !flows[0].Date.Equal(date(2023, 6, 1)) {
		t.Error("Compute() reordered the caller's slice")
	}
}

// Unsorted input must produce the same result as sorted input; the earliest
// flow defines the start date either way.
func TestComputeUnsortedInput(t *testing.T) {
	sorted := []model.CashFlow{
		{Date: date(2022, 1, 1), Amount: -1000},
		{Date: date(2023, 1, 1), Amount: -1000},
	}
	shuffled := []model.CashFlow{sorted[1], sorted[0]}

	asOf := date(2024, 1, 1)
	a, err := Compute(sorted, 2500, asOf)
	if err != nil {
		t.Fatalf("Compute(sorted) error = %v", err)
	}
	b, err := Compute(shuffled, 2500, asOf)
	if err != nil {
		t.Fatalf("Compute(shuffled) error = %v", err)
	}

	if !a.StartDate.Equal(b.StartDate) || *a.MWRR != *b.MWRR {
		t.Errorf("order-dependent result: %+v vs %+v", a, b)
	}
}
