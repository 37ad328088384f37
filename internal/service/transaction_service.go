package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
)

// TransactionService handles transaction-related business logic operations.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependency.
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// GetTransactions retrieves transactions matching the filter.
func (s *TransactionService) GetTransactions(filter model.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(filter)
}

// FundNames returns every distinct effective fund name with non-excluded
// transactions.
func (s *TransactionService) FundNames() ([]string, error) {
	return s.transactionRepo.DistinctFundNames()
}

// CreateTransaction validates and persists one manually entered transaction.
// Returns apperrors.ErrDuplicateEntry when the statement-line uniqueness rule
// rejects the row.
func (s *TransactionService) CreateTransaction(t model.Transaction) (model.Transaction, error) {
	if !t.Platform.Valid() {
		return model.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownPlatform, t.Platform)
	}
	if !t.TaxWrapper.Valid() {
		return model.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownTaxWrapper, t.TaxWrapper)
	}
	if !t.Type.Valid() {
		return model.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownTransactionType, t.Type)
	}
	if t.FundName == "" {
		return model.Transaction{}, fmt.Errorf("%w: fund name", apperrors.ErrMissingRequiredField)
	}
	if t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("%w: date", apperrors.ErrMissingRequiredField)
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	inserted, err := s.transactionRepo.InsertTransaction(t)
	if err != nil {
		return model.Transaction{}, err
	}
	if !inserted {
		return model.Transaction{}, fmt.Errorf("%w: transaction already recorded", apperrors.ErrDuplicateEntry)
	}

	// Re-read through the standard path so the caller sees exactly what was
	// stored, normalised dates included.
	stored, err := s.transactionRepo.GetTransactions(model.TransactionFilter{
		FundName:        t.FundName,
		Platform:        t.Platform,
		StartDate:       t.Date,
		EndDate:         t.Date,
		IncludeExcluded: true,
	})
	if err != nil {
		return model.Transaction{}, err
	}
	for _, candidate := range stored {
		if candidate.ID == t.ID {
			return candidate, nil
		}
	}

	return t, nil
}

// MarkExcluded flips the excluded flag for a fund's transactions and reports
// how many rows changed.
func (s *TransactionService) MarkExcluded(fundName string, excluded bool) (int64, error) {
	if fundName == "" {
		return 0, fmt.Errorf("%w: fund name", apperrors.ErrMissingRequiredField)
	}
	return s.transactionRepo.SetExcluded(fundName, excluded)
}

// ApplyFundNameMapping standardises a raw fund name across existing rows.
func (s *TransactionService) ApplyFundNameMapping(originalName, standardizedName string) (int64, error) {
	if originalName == "" || standardizedName == "" {
		return 0, fmt.Errorf("%w: fund name mapping", apperrors.ErrMissingRequiredField)
	}
	return s.transactionRepo.SetMappedFundName(originalName, standardizedName)
}

// ParseDateParam parses a YYYY-MM-DD query or request value, returning
// fallback when empty.
func ParseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDateRange, value)
	}
	return t.UTC(), nil
}
