package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/yahoo"
)

// PriceFeed is the slice of the Yahoo client the price service needs.
// Declared here so tests can substitute a canned feed.
type PriceFeed interface {
	DailyCloses(ticker string, startDate, endDate time.Time) ([]yahoo.DailyClose, error)
	RecentCloses(ticker string) ([]yahoo.DailyClose, error)
}

// PriceService keeps the price_history table current from the price feed and
// maintains the per-ticker mapping_status aggregates.
type PriceService struct {
	transactionRepo *repository.TransactionRepository
	mappingRepo     *repository.MappingRepository
	priceRepo       *repository.PriceRepository
	feed            PriceFeed
}

// NewPriceService creates a new PriceService with the provided repository and feed dependencies.
func NewPriceService(
	transactionRepo *repository.TransactionRepository,
	mappingRepo *repository.MappingRepository,
	priceRepo *repository.PriceRepository,
	feed PriceFeed,
) *PriceService {
	return &PriceService{
		transactionRepo: transactionRepo,
		mappingRepo:     mappingRepo,
		priceRepo:       priceRepo,
		feed:            feed,
	}
}

// RefreshResult summarises one refresh pass.
type RefreshResult struct {
	TickersRefreshed int      `json:"tickersRefreshed"`
	PricesInserted   int      `json:"pricesInserted"`
	Failures         []string `json:"failures,omitempty"`
}

// RefreshPrices fetches new daily closes for every mapped ticker and appends
// them to price_history, then recomputes the mapping_status aggregates.
// Each ticker resumes from the day after its last stored price; tickers with
// no history yet are backfilled from their earliest transaction. Tickers are
// fetched one at a time and a feed failure for one never aborts the rest.
func (s *PriceService) RefreshPrices() (RefreshResult, error) {
	mappings, err := s.mappingRepo.GetMappings()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshPrices, err)
	}

	earliest, err := s.earliestTransactionByTicker(mappings)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshPrices, err)
	}

	var result RefreshResult
	for _, ticker := range distinctTickers(mappings) {
		inserted, err := s.refreshTicker(ticker, earliest[ticker])
		if err != nil {
			log.Printf("Price refresh failed for %s: %v", ticker, err)
			result.Failures = append(result.Failures, ticker)
			continue
		}
		result.TickersRefreshed++
		result.PricesInserted += inserted
	}

	if err := s.RecomputeStatuses(); err != nil {
		return result, err
	}

	return result, nil
}

func (s *PriceService) refreshTicker(ticker string, earliestTransaction time.Time) (int, error) {
	lastDate, err := s.priceRepo.LastPriceDate(ticker)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()

	var closes []yahoo.DailyClose
	switch {
	case !lastDate.IsZero():
		start := lastDate.AddDate(0, 0, 1)
		if !start.Before(now) {
			return 0, nil
		}
		closes, err = s.feed.DailyCloses(ticker, start, now)
	case !earliestTransaction.IsZero():
		closes, err = s.feed.DailyCloses(ticker, earliestTransaction, now)
	default:
		// Mapped ticker with no transactions yet; just track recent closes.
		closes, err = s.feed.RecentCloses(ticker)
	}
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, close := range closes {
		ok, err := s.priceRepo.InsertPrice(model.PricePoint{
			Ticker: ticker,
			Date:   close.Date,
			Close:  close.Close,
		})
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}

	return inserted, nil
}

// RecomputeStatuses rebuilds the mapping_status row for every mapped ticker
// from the current transaction table.
func (s *PriceService) RecomputeStatuses() error {
	mappings, err := s.mappingRepo.GetMappings()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveMappings, err)
	}

	transactions, err := s.transactionRepo.GetTransactions(model.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	type aggregate struct {
		fundName string
		earliest time.Time
		latest   time.Time
		count    int
	}

	tickerForFund := make(map[string]string, len(mappings))
	aggregates := make(map[string]*aggregate, len(mappings))
	for _, m := range mappings {
		tickerForFund[m.FundName] = m.Ticker
		if m.MappedFundName != "" {
			tickerForFund[m.MappedFundName] = m.Ticker
		}
		if _, ok := aggregates[m.Ticker]; !ok {
			aggregates[m.Ticker] = &aggregate{fundName: m.FundName}
		}
	}

	for _, t := range transactions {
		ticker := tickerForFund[t.EffectiveFundName()]
		if ticker == "" {
			continue
		}
		agg := aggregates[ticker]
		if agg.count == 0 || t.Date.Before(agg.earliest) {
			agg.earliest = t.Date
		}
		if agg.count == 0 || t.Date.After(agg.latest) {
			agg.latest = t.Date
		}
		agg.count++
	}

	for _, ticker := range sortedTickerKeys(aggregates) {
		agg := aggregates[ticker]
		if agg.count == 0 {
			continue
		}
		err := s.mappingRepo.UpsertStatus(model.MappingStatus{
			Ticker:           ticker,
			FundName:         agg.fundName,
			EarliestDate:     agg.earliest,
			LatestDate:       agg.latest,
			TransactionCount: agg.count,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// earliestTransactionByTicker finds the first transaction date reachable from
// each ticker, used as the backfill start for tickers without price history.
func (s *PriceService) earliestTransactionByTicker(mappings []model.TickerMapping) (map[string]time.Time, error) {
	transactions, err := s.transactionRepo.GetTransactions(model.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	tickerForFund := make(map[string]string, len(mappings))
	for _, m := range mappings {
		tickerForFund[m.FundName] = m.Ticker
		if m.MappedFundName != "" {
			tickerForFund[m.MappedFundName] = m.Ticker
		}
	}

	earliest := make(map[string]time.Time)
	for _, t := range transactions {
		ticker := tickerForFund[t.EffectiveFundName()]
		if ticker == "" {
			continue
		}
		if current, ok := earliest[ticker]; !ok || t.Date.Before(current) {
			earliest[ticker] = t.Date
		}
	}

	return earliest, nil
}

func distinctTickers(mappings []model.TickerMapping) []string {
	seen := make(map[string]bool, len(mappings))
	var tickers []string
	for _, m := range mappings {
		if !seen[m.Ticker] {
			seen[m.Ticker] = true
			tickers = append(tickers, m.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

func sortedTickerKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
