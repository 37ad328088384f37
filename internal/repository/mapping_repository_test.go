package repository_test

import (
	"testing"

	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/testutil"
)

func TestInsertMappingAndGetMappings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMappingRepository(db)

	inserted, err := repo.InsertMapping(model.TickerMapping{
		FundName: "Fundsmith Equity",
		Ticker:   "0P0000RU81.L",
		Sedol:    "B41YBW7",
		Isin:     "GB00B41YBW71",
	})
	if err != nil {
		t.Fatalf("InsertMapping() error = %v", err)
	}
	if !inserted {
		t.Fatal("InsertMapping() inserted = false, want true")
	}

	mappings, err := repo.GetMappings()
	if err != nil {
		t.Fatalf("GetMappings() error = %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("len = %d, want 1", len(mappings))
	}

	m := mappings[0]
	if m.ID == "" {
		t.Error("m.ID is empty, want generated UUID")
	}
	if m.FundName != "Fundsmith Equity" || m.Ticker != "0P0000RU81.L" {
		t.Errorf("mapping = %+v, want Fundsmith Equity / 0P0000RU81.L", m)
	}
	if m.Sedol != "B41YBW7" || m.Isin != "GB00B41YBW71" {
		t.Errorf("identifiers = %q/%q, want B41YBW7/GB00B41YBW71", m.Sedol, m.Isin)
	}
}

func TestInsertMappingDuplicatePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMappingRepository(db)

	m := model.TickerMapping{FundName: "Fund A", Ticker: "AAA.L"}

	if _, err := repo.InsertMapping(m); err != nil {
		t.Fatalf("first InsertMapping() error = %v", err)
	}

	inserted, err := repo.InsertMapping(m)
	if err != nil {
		t.Fatalf("second InsertMapping() error = %v", err)
	}
	if inserted {
		t.Error("second InsertMapping() inserted = true, want false")
	}

	// Same ticker under a different raw name is a legitimate extra row.
	inserted, err = repo.InsertMapping(model.TickerMapping{FundName: "FUND A ACC", Ticker: "AAA.L"})
	if err != nil {
		t.Fatalf("third InsertMapping() error = %v", err)
	}
	if !inserted {
		t.Error("third InsertMapping() inserted = false, want true for new fund name")
	}
}

func TestUpsertStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMappingRepository(db)

	first := model.MappingStatus{
		Ticker:           "AAA.L",
		FundName:         "Fund A",
		EarliestDate:     testutil.Date(2023, 1, 1),
		LatestDate:       testutil.Date(2023, 6, 1),
		TransactionCount: 4,
	}
	if err := repo.UpsertStatus(first); err != nil {
		t.Fatalf("UpsertStatus() error = %v", err)
	}

	// A second upsert for the same ticker replaces the aggregates in place.
	second := first
	second.LatestDate = testutil.Date(2023, 9, 1)
	second.TransactionCount = 6
	if err := repo.UpsertStatus(second); err != nil {
		t.Fatalf("UpsertStatus() update error = %v", err)
	}

	statuses, err := repo.GetStatuses()
	if err != nil {
		t.Fatalf("GetStatuses() error = %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len = %d, want 1 after upsert of same ticker", len(statuses))
	}

	st := statuses[0]
	if st.TransactionCount != 6 {
		t.Errorf("TransactionCount = %d, want 6", st.TransactionCount)
	}
	if !st.LatestDate.Equal(testutil.Date(2023, 9, 1)) {
		t.Errorf("LatestDate = %v, want 2023-09-01", st.LatestDate)
	}
	if !st.EarliestDate.Equal(testutil.Date(2023, 1, 1)) {
		t.Errorf("EarliestDate = %v, want 2023-01-01", st.EarliestDate)
	}
}

func TestFundNameMappings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMappingRepository(db)

	inserted, err := repo.InsertFundNameMapping("FUNDSMITH EQ I ACC", "Fundsmith Equity")
	if err != nil {
		t.Fatalf("InsertFundNameMapping() error = %v", err)
	}
	if !inserted {
		t.Fatal("InsertFundNameMapping() inserted = false, want true")
	}

	// original_name is unique; a second spelling for it is rejected quietly.
	inserted, err = repo.InsertFundNameMapping("FUNDSMITH EQ I ACC", "Something Else")
	if err != nil {
		t.Fatalf("duplicate InsertFundNameMapping() error = %v", err)
	}
	if inserted {
		t.Error("duplicate InsertFundNameMapping() inserted = true, want false")
	}

	mappings, err := repo.GetFundNameMappings()
	if err != nil {
		t.Fatalf("GetFundNameMappings() error = %v", err)
	}
	if len(mappings) != 1 || mappings["FUNDSMITH EQ I ACC"] != "Fundsmith Equity" {
		t.Errorf("GetFundNameMappings() = %v, want single original spelling", mappings)
	}
}
