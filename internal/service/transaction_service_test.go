package service_test

import (
	"errors"
	"testing"
	"time"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/service"
	"portfolioanalyser/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	stored, err := svc.CreateTransaction(model.Transaction{
		Platform:     model.PlatformFidelity,
		TaxWrapper:   model.WrapperISA,
		Date:         testutil.Date(2023, 1, 16),
		FundName:     "Fund A",
		Type:         model.TypeBuy,
		Units:        100,
		PricePerUnit: 1.5,
		Value:        150,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if stored.ID == "" {
		t.Error("stored.ID is empty, want generated UUID")
	}
	if stored.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP default", stored.Currency)
	}
	if !stored.Date.Equal(testutil.Date(2023, 1, 16)) {
		t.Errorf("Date = %v, want 2023-01-16", stored.Date)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	valid := model.Transaction{
		Platform:   model.PlatformFidelity,
		TaxWrapper: model.WrapperISA,
		Date:       testutil.Date(2023, 1, 16),
		FundName:   "Fund A",
		Type:       model.TypeBuy,
		Units:      1,
		Value:      10,
	}

	tests := []struct {
		name    string
		mutate  func(*model.Transaction)
		wantErr error
	}{
		{
			name:    "unknown platform",
			mutate:  func(tx *model.Transaction) { tx.Platform = "ROBINHOOD" },
			wantErr: apperrors.ErrUnknownPlatform,
		},
		{
			name:    "unknown wrapper",
			mutate:  func(tx *model.Transaction) { tx.TaxWrapper = "401K" },
			wantErr: apperrors.ErrUnknownTaxWrapper,
		},
		{
			name:    "unknown type",
			mutate:  func(tx *model.Transaction) { tx.Type = "SHORT" },
			wantErr: apperrors.ErrUnknownTransactionType,
		},
		{
			name:    "missing fund name",
			mutate:  func(tx *model.Transaction) { tx.FundName = "" },
			wantErr: apperrors.ErrMissingRequiredField,
		},
		{
			name:    "missing date",
			mutate:  func(tx *model.Transaction) { tx.Date = time.Time{} },
			wantErr: apperrors.ErrMissingRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)

			_, err := svc.CreateTransaction(tx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateTransactionDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	tx := model.Transaction{
		Platform:   model.PlatformFidelity,
		TaxWrapper: model.WrapperISA,
		Date:       testutil.Date(2023, 1, 16),
		FundName:   "Fund A",
		Type:       model.TypeBuy,
		Units:      100,
		Value:      150,
		Reference:  "R1",
	}

	if _, err := svc.CreateTransaction(tx); err != nil {
		t.Fatalf("first CreateTransaction() error = %v", err)
	}

	_, err := svc.CreateTransaction(tx)
	if !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Errorf("second CreateTransaction() error = %v, want ErrDuplicateEntry", err)
	}
}

func TestMarkExcluded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	testutil.NewTransaction().WithFund("Fund A").WithReference("1").Build(t, db)

	updated, err := svc.MarkExcluded("Fund A", true)
	if err != nil {
		t.Fatalf("MarkExcluded() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	if _, err := svc.MarkExcluded("", true); !errors.Is(err, apperrors.ErrMissingRequiredField) {
		t.Errorf("MarkExcluded(\"\") error = %v, want ErrMissingRequiredField", err)
	}
}

func TestApplyFundNameMapping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	testutil.NewTransaction().WithFund("RAW NAME").WithReference("1").Build(t, db)

	updated, err := svc.ApplyFundNameMapping("RAW NAME", "Clean Name")
	if err != nil {
		t.Fatalf("ApplyFundNameMapping() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	names, err := svc.FundNames()
	if err != nil {
		t.Fatalf("FundNames() error = %v", err)
	}
	if len(names) != 1 || names[0] != "Clean Name" {
		t.Errorf("FundNames() = %v, want [Clean Name]", names)
	}
}

func TestParseDateParam(t *testing.T) {
	fallback := testutil.Date(2024, 1, 1)

	got, err := service.ParseDateParam("", fallback)
	if err != nil || !got.Equal(fallback) {
		t.Errorf("ParseDateParam(\"\") = %v, %v; want fallback", got, err)
	}

	got, err = service.ParseDateParam("2023-06-15", fallback)
	if err != nil || !got.Equal(testutil.Date(2023, 6, 15)) {
		t.Errorf("ParseDateParam(2023-06-15) = %v, %v", got, err)
	}

	if _, err := service.ParseDateParam("15/06/2023", fallback); !errors.Is(err, apperrors.ErrInvalidDateRange) {
		t.Errorf("ParseDateParam(15/06/2023) error = %v, want ErrInvalidDateRange", err)
	}
}
