// Package service wires the repositories, price feed and pure computation
// packages into the operations the API and CLIs expose.
package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/holdings"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/returns"
)

// PortfolioService handles return and holdings calculations across the
// transaction history.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	mappingRepo     *repository.MappingRepository
	priceRepo       *repository.PriceRepository
	unitEffects     model.UnitEffects
	flowEffects     model.FlowEffects
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
	priceRepo *repository.PriceRepository,
	unitEffects model.UnitEffects,
	flowEffects model.FlowEffects,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		priceRepo:       priceRepo,
		unitEffects:     unitEffects,
		flowEffects:     flowEffects,
	}
}

// CashFlows derives the investor cash-flow schedule from the transactions
// matching the filter. Contributions come out negative and withdrawals
// positive, the sign convention the return calculator expects. Types with no
// flow role are skipped.
func (s *PortfolioService) CashFlows(filter model.TransactionFilter) ([]model.CashFlow, error) {
	transactions, err := s.transactionRepo.GetTransactions(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	flows := make([]model.CashFlow, 0, len(transactions))
	for _, t := range transactions {
		effect, ok := s.flowEffects[t.Type]
		if !ok || effect == model.NoFlow {
			continue
		}

		amount := t.Value
		if effect == model.Contribution {
			amount = -amount
		}

		flows = append(flows, model.CashFlow{
			Date:        t.Date,
			Amount:      amount,
			Description: fmt.Sprintf("%s %s", t.Type, t.EffectiveFundName()),
		})
	}

	return flows, nil
}

// FundReturns computes the return metrics for one fund as of the given date.
// The terminal value is units held times the latest stored price for the
// fund's ticker.
func (s *PortfolioService) FundReturns(fundName string, asOf time.Time) (model.ReturnMetrics, error) {
	filter := model.TransactionFilter{FundName: fundName}

	flows, err := s.CashFlows(filter)
	if err != nil {
		return model.ReturnMetrics{}, err
	}
	if len(flows) == 0 {
		return model.ReturnMetrics{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, fundName)
	}

	value, _, err := s.fundValue(fundName)
	if err != nil {
		return model.ReturnMetrics{}, err
	}

	metrics, err := returns.Compute(flows, value, asOf)
	if err != nil {
		return model.ReturnMetrics{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputeReturns, err)
	}
	return metrics, nil
}

// PortfolioReturns computes the return metrics for the whole portfolio as of
// the given date. Funds without a price are valued at zero and logged; their
// flows still count, so the result understates rather than fabricates value.
func (s *PortfolioService) PortfolioReturns(asOf time.Time) (model.ReturnMetrics, error) {
	flows, err := s.CashFlows(model.TransactionFilter{})
	if err != nil {
		return model.ReturnMetrics{}, err
	}
	if len(flows) == 0 {
		return model.ReturnMetrics{}, fmt.Errorf("%w: no cash flows", apperrors.ErrFailedToComputeReturns)
	}

	fundNames, err := s.transactionRepo.DistinctFundNames()
	if err != nil {
		return model.ReturnMetrics{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	var totalValue float64
	for _, name := range fundNames {
		value, priced, err := s.fundValue(name)
		if err != nil {
			return model.ReturnMetrics{}, err
		}
		if !priced {
			log.Printf("No price available for %s, valued at zero", name)
			continue
		}
		totalValue += value
	}

	metrics, err := returns.Compute(flows, totalValue, asOf)
	if err != nil {
		return model.ReturnMetrics{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputeReturns, err)
	}
	return metrics, nil
}

// Holdings builds the current position for every non-excluded fund: unit
// balance from the transaction ledger, FIFO cost basis, and market value at
// the latest stored price.
func (s *PortfolioService) Holdings() (model.HoldingsSummary, error) {
	fundNames, err := s.transactionRepo.DistinctFundNames()
	if err != nil {
		return model.HoldingsSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputeHoldings, err)
	}

	tickers, err := s.tickersByFund()
	if err != nil {
		return model.HoldingsSummary{}, err
	}

	summary := model.HoldingsSummary{Holdings: []model.Holding{}}
	for _, name := range fundNames {
		transactions, err := s.transactionRepo.GetTransactions(model.TransactionFilter{FundName: name})
		if err != nil {
			return model.HoldingsSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
		}
		if len(transactions) == 0 {
			continue
		}

		result := holdings.Aggregate(transactions, s.unitEffects)
		if result.FinalUnits <= 0 {
			continue
		}

		holding := s.buildHolding(name, transactions, result, tickers[name])
		summary.Holdings = append(summary.Holdings, holding)
		summary.TotalValue += holding.CurrentValue
		summary.TotalCostBasis += holding.CostBasis
		summary.TotalUnrealizedGain += holding.UnrealizedGain
		if holding.CurrentPrice == 0 {
			summary.WithoutPrices++
		}
	}

	return summary, nil
}

func (s *PortfolioService) buildHolding(fundName string, transactions []model.Transaction, result holdings.Result, ticker string) model.Holding {
	first := transactions[0]
	basis := holdings.FIFOCostBasis(transactions, s.unitEffects, result.FinalUnits)

	holding := model.Holding{
		Platform:     first.Platform,
		TaxWrapper:   first.TaxWrapper,
		FundName:     fundName,
		Ticker:       ticker,
		Units:        result.FinalUnits,
		CostBasis:    basis.Cost,
		FirstBuyDate: basis.FirstBuyDate,
		TotalBuys:    basis.TotalBuys,
		Confidence:   basis.Confidence,
	}
	if basis.Confidence < 1 {
		holding.Notes = "cost basis reconstructed with reduced confidence"
	}

	if ticker != "" {
		if price, err := s.priceRepo.LatestPrice(ticker); err == nil {
			holding.CurrentPrice = normalisePrice(ticker, price.Close)
			holding.PriceDate = price.Date
			holding.CurrentValue = holding.Units * holding.CurrentPrice
			holding.UnrealizedGain = holding.CurrentValue - holding.CostBasis
			if holding.CostBasis > 0 {
				holding.UnrealizedGainPct = holding.UnrealizedGain / holding.CostBasis
			}
		}
	}

	return holding
}

// fundValue returns the current market value of a fund's position and
// whether a price was available for it.
func (s *PortfolioService) fundValue(fundName string) (float64, bool, error) {
	transactions, err := s.transactionRepo.GetTransactions(model.TransactionFilter{FundName: fundName})
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	result := holdings.Aggregate(transactions, s.unitEffects)
	if result.FinalUnits <= 0 {
		return 0, true, nil
	}

	tickers, err := s.tickersByFund()
	if err != nil {
		return 0, false, err
	}
	ticker := tickers[fundName]
	if ticker == "" {
		return 0, false, nil
	}

	price, err := s.priceRepo.LatestPrice(ticker)
	if err != nil {
		return 0, false, nil
	}

	return result.FinalUnits * normalisePrice(ticker, price.Close), true, nil
}

// tickersByFund indexes the mapping table by both raw and standardised fund
// name, so lookups work regardless of which spelling a transaction carries.
func (s *PortfolioService) tickersByFund() (map[string]string, error) {
	mappings, err := s.mappingRepo.GetMappings()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveMappings, err)
	}

	tickers := make(map[string]string, len(mappings))
	for _, m := range mappings {
		tickers[m.FundName] = m.Ticker
		if m.MappedFundName != "" {
			tickers[m.MappedFundName] = m.Ticker
		}
	}
	return tickers, nil
}

// normalisePrice converts LSE pence quotes to pounds. London-listed tickers
// (.L suffix) trade in pence; a close above 500 for one is taken as a pence
// quote. Transaction values are always in pounds, so holdings must be too.
func normalisePrice(ticker string, close float64) float64 {
	if strings.HasSuffix(ticker, ".L") && close > 500 {
		return close / 100
	}
	return close
}
