package service

import (
	"fmt"
	"log"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/loader"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
)

// ImportService runs the platform loaders over a statement directory and
// persists the transactions they produce.
type ImportService struct {
	transactionRepo *repository.TransactionRepository
	mappingRepo     *repository.MappingRepository
	loaders         map[model.Platform]loader.Loader
}

// NewImportService creates a new ImportService with the provided repository dependencies
// and the full loader registry.
func NewImportService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		loaders:         loader.Registry(),
	}
}

// ImportResult summarises one import pass. Skipped counts rows already
// present under the statement-line uniqueness rule, so re-importing the same
// files reports everything as skipped and changes nothing.
type ImportResult struct {
	Platform model.Platform `json:"platform"`
	Loaded   int            `json:"loaded"`
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
}

// ImportAll runs every platform loader against dataDir and persists the
// results, returning one summary per platform in registry order.
func (s *ImportService) ImportAll(dataDir string) ([]ImportResult, error) {
	var results []ImportResult
	for _, platform := range model.Platforms {
		result, err := s.ImportPlatform(platform, dataDir)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ImportPlatform runs one platform's loader against dataDir and persists the
// transactions, applying the fund-name standardisation table to each row
// before insert.
func (s *ImportService) ImportPlatform(platform model.Platform, dataDir string) (ImportResult, error) {
	l, ok := s.loaders[platform]
	if !ok {
		return ImportResult{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownPlatform, platform)
	}

	transactions, err := l.Load(dataDir)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	nameMappings, err := s.mappingRepo.GetFundNameMappings()
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveMappings, err)
	}

	result := ImportResult{Platform: platform, Loaded: len(transactions)}
	for _, t := range transactions {
		if standardised, ok := nameMappings[t.FundName]; ok {
			t.MappedFundName = standardised
		}

		inserted, err := s.transactionRepo.InsertTransaction(t)
		if err != nil {
			return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	log.Printf("Imported %s: %d loaded, %d inserted, %d skipped",
		platform, result.Loaded, result.Inserted, result.Skipped)
	return result, nil
}
