package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
)

// PriceRepository provides data access methods for the price_history table.
// The table is append-only: rows are never updated, only inserted as the
// price feed is refreshed.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetAllPrices retrieves the full price history ordered by ticker and date.
// Used by reconciliation, which needs the whole table as one snapshot.
func (s *PriceRepository) GetAllPrices() ([]model.PricePoint, error) {
	rows, err := s.db.Query(`
		SELECT id, ticker, date, close_price
		FROM price_history
		ORDER BY ticker ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_history table: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetPricesForTicker retrieves the price history for one ticker in ascending
// date order.
func (s *PriceRepository) GetPricesForTicker(ticker string) ([]model.PricePoint, error) {
	rows, err := s.db.Query(`
		SELECT id, ticker, date, close_price
		FROM price_history
		WHERE ticker = ?
		ORDER BY date ASC
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_history table: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// LatestPrice returns the most recent price point for a ticker.
// Returns apperrors.ErrPriceNotFound when no prices exist.
func (s *PriceRepository) LatestPrice(ticker string) (model.PricePoint, error) {
	var p model.PricePoint
	var dateStr string

	err := s.db.QueryRow(`
		SELECT id, ticker, date, close_price
		FROM price_history
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT 1
	`, ticker).Scan(&p.ID, &p.Ticker, &dateStr, &p.Close)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PricePoint{}, fmt.Errorf("%w: %s", apperrors.ErrPriceNotFound, ticker)
	}
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("failed to query latest price: %w", err)
	}

	p.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("failed to parse price date: %w", err)
	}

	return p, nil
}

// LastPriceDate returns the most recent stored date for a ticker, or the zero
// time when the ticker has no prices yet. Used to resume incremental refresh.
func (s *PriceRepository) LastPriceDate(ticker string) (time.Time, error) {
	var dateStr sql.NullString

	err := s.db.QueryRow(`SELECT MAX(date) FROM price_history WHERE ticker = ?`, ticker).Scan(&dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last price date: %w", err)
	}
	if !dateStr.Valid {
		return time.Time{}, nil
	}

	return ParseTime(dateStr.String)
}

// InsertPrice appends one price point, skipping rows whose (date, ticker) key
// already exists so incremental refreshes never create duplicates.
func (s *PriceRepository) InsertPrice(p model.PricePoint) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	dateStr := p.Date.Format("2006-01-02")

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM price_history WHERE ticker = ? AND date = ?`,
		p.Ticker, dateStr,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing price: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO price_history (id, ticker, date, close_price)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Ticker, dateStr, p.Close)
	if err != nil {
		return false, fmt.Errorf("failed to insert price: %w", err)
	}

	return true, nil
}

func scanPricePoints(rows *sql.Rows) ([]model.PricePoint, error) {
	prices := []model.PricePoint{}
	for rows.Next() {
		var p model.PricePoint
		var dateStr string

		if err := rows.Scan(&p.ID, &p.Ticker, &dateStr, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price_history results: %w", err)
		}

		var err error
		p.Date, err = ParseTime(dateStr)
		if err != nil || p.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_history table: %w", err)
	}

	return prices, nil
}
