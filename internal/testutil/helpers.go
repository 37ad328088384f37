package testutil

import (
	"database/sql"
	"testing"

	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/service"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		model.DefaultUnitEffects(),
		model.DefaultFlowEffects(),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(repository.NewTransactionRepository(db))
}

func NewTestReconciliationService(t *testing.T, db *sql.DB) *service.ReconciliationService {
	t.Helper()

	return service.NewReconciliationService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		model.DefaultUnitEffects(),
	)
}

func NewTestPriceService(t *testing.T, db *sql.DB, feed service.PriceFeed) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		feed,
	)
}
