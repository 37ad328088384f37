package service_test

import (
	"errors"
	"math"
	"testing"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/testutil"
)

func TestCashFlowsSignConvention(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithValue(1000).WithReference("1").Build(t, db)
	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeSell).
		WithDate(testutil.Date(2023, 6, 1)).WithValue(300).WithReference("2").Build(t, db)
	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeDividend).
		WithDate(testutil.Date(2023, 7, 1)).WithValue(12).WithReference("3").Build(t, db)

	flows, err := svc.CashFlows(model.TransactionFilter{})
	if err != nil {
		t.Fatalf("CashFlows() error = %v", err)
	}

	// The dividend stays inside the account and produces no flow.
	if len(flows) != 2 {
		t.Fatalf("len(flows) = %d, want 2", len(flows))
	}
	if flows[0].Amount != -1000 {
		t.Errorf("buy flow = %v, want -1000 (money in is negative)", flows[0].Amount)
	}
	if flows[1].Amount != 300 {
		t.Errorf("sell flow = %v, want +300 (money out is positive)", flows[1].Amount)
	}
}

func TestFundReturnsEndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	// 100 units bought for £1000; latest price £12 → value £1200.
	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(100, 10).WithReference("1").Build(t, db)
	testutil.CreateMapping(t, db, "Fund A", "AAA.L")
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 12, 29), 12)

	metrics, err := svc.FundReturns("Fund A", testutil.Date(2024, 1, 1))
	if err != nil {
		t.Fatalf("FundReturns() error = %v", err)
	}

	if metrics.TotalContributions != 1000 {
		t.Errorf("TotalContributions = %v, want 1000", metrics.TotalContributions)
	}
	if metrics.CurrentValue != 1200 {
		t.Errorf("CurrentValue = %v, want 1200", metrics.CurrentValue)
	}
	if metrics.TotalGain != 200 {
		t.Errorf("TotalGain = %v, want 200", metrics.TotalGain)
	}
	if metrics.SimpleReturn == nil || math.Abs(*metrics.SimpleReturn-0.2) > 1e-9 {
		t.Errorf("SimpleReturn = %v, want 0.2", metrics.SimpleReturn)
	}
}

func TestFundReturnsUnknownFund(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	_, err := svc.FundReturns("No Such Fund", testutil.Date(2024, 1, 1))
	if !errors.Is(err, apperrors.ErrFundNotFound) {
		t.Errorf("FundReturns() error = %v, want ErrFundNotFound", err)
	}
}

// A fund without any price mapping is valued at zero but its flows still
// count, so the portfolio result understates rather than invents value.
func TestPortfolioReturnsUnpricedFund(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewTransaction().WithFund("Priced").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(100, 10).WithReference("1").Build(t, db)
	testutil.NewTransaction().WithFund("Unpriced").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(50, 10).WithReference("2").Build(t, db)
	testutil.CreateMapping(t, db, "Priced", "AAA.L")
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 12, 29), 11)

	metrics, err := svc.PortfolioReturns(testutil.Date(2024, 1, 1))
	if err != nil {
		t.Fatalf("PortfolioReturns() error = %v", err)
	}

	if metrics.TotalContributions != 1500 {
		t.Errorf("TotalContributions = %v, want 1500 (both funds' flows)", metrics.TotalContributions)
	}
	if metrics.CurrentValue != 1100 {
		t.Errorf("CurrentValue = %v, want 1100 (only the priced fund)", metrics.CurrentValue)
	}
}

func TestHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(100, 10).WithReference("1").Build(t, db)
	testutil.NewTransaction().WithFund("Fund A").WithType(model.TypeSell).
		WithDate(testutil.Date(2023, 6, 1)).WithUnits(40, 11).WithReference("2").Build(t, db)
	// A fully sold position drops out of the summary.
	testutil.NewTransaction().WithFund("Fund B").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(10, 5).WithReference("3").Build(t, db)
	testutil.NewTransaction().WithFund("Fund B").WithType(model.TypeSell).
		WithDate(testutil.Date(2023, 2, 1)).WithUnits(10, 6).WithReference("4").Build(t, db)

	testutil.CreateMapping(t, db, "Fund A", "AAA.L")
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 12, 29), 12)

	summary, err := svc.Holdings()
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}

	if len(summary.Holdings) != 1 {
		t.Fatalf("len(Holdings) = %d, want 1", len(summary.Holdings))
	}

	h := summary.Holdings[0]
	if h.FundName != "Fund A" || h.Units != 60 {
		t.Errorf("holding = %+v, want Fund A with 60 units", h)
	}
	if h.CostBasis != 600 {
		t.Errorf("CostBasis = %v, want 600 (remaining 60 units at £10)", h.CostBasis)
	}
	if h.CurrentPrice != 12 || h.CurrentValue != 720 {
		t.Errorf("value = %v at %v, want 720 at 12", h.CurrentValue, h.CurrentPrice)
	}
	if h.UnrealizedGain != 120 {
		t.Errorf("UnrealizedGain = %v, want 120", h.UnrealizedGain)
	}
	if h.Confidence != 1 || h.Notes != "" {
		t.Errorf("confidence = %v notes = %q, want full confidence and no notes", h.Confidence, h.Notes)
	}
	if summary.WithoutPrices != 0 {
		t.Errorf("WithoutPrices = %d, want 0", summary.WithoutPrices)
	}
}

// London-listed tickers quoted in pence convert to pounds before valuation.
func TestHoldingsPenceQuoteNormalised(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewTransaction().WithFund("Trust").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(10, 7).WithReference("1").Build(t, db)
	testutil.CreateMapping(t, db, "Trust", "SMT.L")
	testutil.CreatePrice(t, db, "SMT.L", testutil.Date(2023, 12, 29), 750)

	summary, err := svc.Holdings()
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(summary.Holdings) != 1 {
		t.Fatalf("len(Holdings) = %d, want 1", len(summary.Holdings))
	}

	h := summary.Holdings[0]
	if h.CurrentPrice != 7.5 {
		t.Errorf("CurrentPrice = %v, want 7.50 from a 750p quote", h.CurrentPrice)
	}
	if h.CurrentValue != 75 {
		t.Errorf("CurrentValue = %v, want 75", h.CurrentValue)
	}
}

func TestHoldingsUnpricedFundCounted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewTransaction().WithFund("No Ticker").WithType(model.TypeBuy).
		WithDate(testutil.Date(2023, 1, 1)).WithUnits(10, 5).WithReference("1").Build(t, db)

	summary, err := svc.Holdings()
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(summary.Holdings) != 1 {
		t.Fatalf("len(Holdings) = %d, want 1", len(summary.Holdings))
	}
	if summary.WithoutPrices != 1 {
		t.Errorf("WithoutPrices = %d, want 1", summary.WithoutPrices)
	}
	if summary.Holdings[0].CurrentValue != 0 {
		t.Errorf("CurrentValue = %v, want 0 without a price", summary.Holdings[0].CurrentValue)
	}
}
