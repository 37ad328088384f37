package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"portfolioanalyser/internal/model"
)

// MappingRepository provides data access methods for the fund_ticker_mapping,
// mapping_status and fund_name_mapping tables.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a new MappingRepository with the provided database connection.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// GetMappings retrieves all fund → ticker mappings ordered by ticker.
func (s *MappingRepository) GetMappings() ([]model.TickerMapping, error) {
	rows, err := s.db.Query(`
		SELECT id, fund_name, ticker, sedol, isin, mapped_fund_name, vip, is_auto_mapped
		FROM fund_ticker_mapping
		ORDER BY ticker ASC, fund_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_ticker_mapping table: %w", err)
	}
	defer rows.Close()

	mappings := []model.TickerMapping{}
	for rows.Next() {
		var m model.TickerMapping
		var sedol, isin, mappedName sql.NullString

		err := rows.Scan(&m.ID, &m.FundName, &m.Ticker, &sedol, &isin, &mappedName, &m.VIP, &m.IsAutoMapped)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund_ticker_mapping results: %w", err)
		}

		m.Sedol = sedol.String
		m.Isin = isin.String
		m.MappedFundName = mappedName.String
		mappings = append(mappings, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_ticker_mapping table: %w", err)
	}

	return mappings, nil
}

// InsertMapping adds a fund → ticker mapping. An existing (fund_name, ticker)
// pair is reported as inserted=false, matching the table's manual-curation
// workflow where re-running a mapping script must be harmless.
func (s *MappingRepository) InsertMapping(m model.TickerMapping) (bool, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	_, err := s.db.Exec(`
		INSERT INTO fund_ticker_mapping (id, fund_name, ticker, sedol, isin, mapped_fund_name, vip, is_auto_mapped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.FundName, m.Ticker, nullable(m.Sedol), nullable(m.Isin), nullable(m.MappedFundName), m.VIP, m.IsAutoMapped)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert ticker mapping: %w", err)
	}

	return true, nil
}

// GetStatuses retrieves all mapping_status rows ordered by ticker.
func (s *MappingRepository) GetStatuses() ([]model.MappingStatus, error) {
	rows, err := s.db.Query(`
		SELECT id, ticker, fund_name, earliest_date, latest_date, transaction_count
		FROM mapping_status
		ORDER BY ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mapping_status table: %w", err)
	}
	defer rows.Close()

	statuses := []model.MappingStatus{}
	for rows.Next() {
		var st model.MappingStatus
		var fundName, earliest, latest sql.NullString

		err := rows.Scan(&st.ID, &st.Ticker, &fundName, &earliest, &latest, &st.TransactionCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping_status results: %w", err)
		}

		st.FundName = fundName.String
		if earliest.Valid {
			if st.EarliestDate, err = ParseTime(earliest.String); err != nil {
				return nil, fmt.Errorf("failed to parse earliest date: %w", err)
			}
		}
		if latest.Valid {
			if st.LatestDate, err = ParseTime(latest.String); err != nil {
				return nil, fmt.Errorf("failed to parse latest date: %w", err)
			}
		}
		statuses = append(statuses, st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapping_status table: %w", err)
	}

	return statuses, nil
}

// UpsertStatus records freshly computed transaction aggregates for a ticker,
// replacing any previous row.
func (s *MappingRepository) UpsertStatus(st model.MappingStatus) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}

	_, err := s.db.Exec(`
		INSERT INTO mapping_status (id, ticker, fund_name, earliest_date, latest_date, transaction_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ticker) DO UPDATE SET
			fund_name = excluded.fund_name,
			earliest_date = excluded.earliest_date,
			latest_date = excluded.latest_date,
			transaction_count = excluded.transaction_count,
			updated_at = CURRENT_TIMESTAMP
	`, st.ID, st.Ticker, nullable(st.FundName),
		st.EarliestDate.Format("2006-01-02"),
		st.LatestDate.Format("2006-01-02"),
		st.TransactionCount)
	if err != nil {
		return fmt.Errorf("failed to upsert mapping status: %w", err)
	}

	return nil
}

// GetFundNameMappings returns the raw → standardised fund name table.
func (s *MappingRepository) GetFundNameMappings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT original_name, standardized_name FROM fund_name_mapping`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_name_mapping table: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var original, standardized string
		if err := rows.Scan(&original, &standardized); err != nil {
			return nil, fmt.Errorf("failed to scan fund_name_mapping results: %w", err)
		}
		mappings[original] = standardized
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_name_mapping table: %w", err)
	}

	return mappings, nil
}

// InsertFundNameMapping adds a raw → standardised name pair. Duplicates of
// original_name are reported as inserted=false.
func (s *MappingRepository) InsertFundNameMapping(originalName, standardizedName string) (bool, error) {
	_, err := s.db.Exec(`
		INSERT INTO fund_name_mapping (id, original_name, standardized_name)
		VALUES (?, ?, ?)
	`, uuid.New().String(), originalName, standardizedName)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert fund name mapping: %w", err)
	}

	return true, nil
}
