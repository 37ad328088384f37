package service

import (
	"fmt"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/reconcile"
	"portfolioanalyser/internal/repository"
)

// ReconciliationService loads the full data snapshot and runs the
// reconciliation checks over it.
type ReconciliationService struct {
	transactionRepo *repository.TransactionRepository
	mappingRepo     *repository.MappingRepository
	priceRepo       *repository.PriceRepository
	unitEffects     model.UnitEffects
}

// NewReconciliationService creates a new ReconciliationService with the provided repository dependencies.
func NewReconciliationService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
	priceRepo *repository.PriceRepository,
	unitEffects model.UnitEffects,
) *ReconciliationService {
	return &ReconciliationService{
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		priceRepo:       priceRepo,
		unitEffects:     unitEffects,
	}
}

// Run loads every table as one snapshot and executes the full reconciliation
// pass. The pass itself is read-only; findings come back in the report, never
// as errors.
func (s *ReconciliationService) Run() (model.ReconciliationReport, error) {
	snapshot, err := s.loadSnapshot()
	if err != nil {
		return model.ReconciliationReport{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRunReconciliation, err)
	}

	return reconcile.Run(snapshot, s.unitEffects), nil
}

func (s *ReconciliationService) loadSnapshot() (reconcile.Snapshot, error) {
	transactions, err := s.transactionRepo.GetTransactions(model.TransactionFilter{})
	if err != nil {
		return reconcile.Snapshot{}, err
	}

	mappings, err := s.mappingRepo.GetMappings()
	if err != nil {
		return reconcile.Snapshot{}, err
	}

	prices, err := s.priceRepo.GetAllPrices()
	if err != nil {
		return reconcile.Snapshot{}, err
	}

	statuses, err := s.mappingRepo.GetStatuses()
	if err != nil {
		return reconcile.Snapshot{}, err
	}

	return reconcile.Snapshot{
		Transactions: transactions,
		Mappings:     mappings,
		Prices:       prices,
		Statuses:     statuses,
	}, nil
}
