package service_test

import (
	"testing"

	"portfolioanalyser/internal/testutil"
)

func TestReconciliationRunClean(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestReconciliationService(t, db)

	testutil.NewTransaction().WithFund("Fund A").WithDate(testutil.Date(2023, 3, 1)).WithReference("1").Build(t, db)
	testutil.CreateMapping(t, db, "Fund A", "AAA.L")
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 3, 1), 1.50)
	testutil.CreateStatus(t, db, "AAA.L", testutil.Date(2023, 3, 1), testutil.Date(2023, 3, 1), 1)

	report, err := svc.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Clean() {
		t.Errorf("report not clean: %+v", report)
	}
}

func TestReconciliationRunFindsOrphansAndDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestReconciliationService(t, db)

	testutil.NewTransaction().WithFund("Unmapped Fund").WithDate(testutil.Date(2023, 3, 1)).WithReference("1").Build(t, db)
	// price_history has no unique constraint, so duplicates can exist and
	// must be caught here.
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 3, 1), 1.50)
	testutil.CreatePrice(t, db, "AAA.L", testutil.Date(2023, 3, 1), 1.51)

	report, err := svc.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.OrphanedFunds) != 1 || report.OrphanedFunds[0].FundName != "Unmapped Fund" {
		t.Errorf("OrphanedFunds = %+v, want Unmapped Fund", report.OrphanedFunds)
	}
	if len(report.DuplicatePrices) != 1 || report.DuplicatePrices[0].Count != 2 {
		t.Errorf("DuplicatePrices = %+v, want one pair", report.DuplicatePrices)
	}
	if report.Clean() {
		t.Error("report.Clean() = true, want false")
	}
}
