package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolioanalyser/internal/model"
)

// TransactionRepository provides data access methods for the transactions
// table. Reads return rows ordered by date ascending with (created_at, id) as
// the stable secondary key, so callers see the same tie-break order on every
// pass.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, platform, tax_wrapper, date, fund_name, mapped_fund_name,
	transaction_type, units, price_per_unit, value, currency,
	sedol, isin, reference, raw_description, excluded, created_at
`

// GetTransactions retrieves transactions matching the filter, ordered by
// date ascending. Excluded transactions are omitted unless the filter asks
// for them. Zero-valued filter fields are ignored.
func (s *TransactionRepository) GetTransactions(filter model.TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if !filter.IncludeExcluded {
		query += ` AND excluded = 0`
	}
	if filter.FundName != "" {
		query += ` AND (fund_name = ? OR mapped_fund_name = ?)`
		args = append(args, filter.FundName, filter.FundName)
	}
	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, string(filter.Platform))
	}
	if filter.TaxWrapper != "" {
		query += ` AND tax_wrapper = ?`
		args = append(args, string(filter.TaxWrapper))
	}
	if !filter.StartDate.IsZero() {
		query += ` AND date >= ?`
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if !filter.EndDate.IsZero() {
		query += ` AND date <= ?`
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	query += ` ORDER BY date ASC, created_at ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}

// InsertTransaction inserts one normalised transaction. A row violating the
// (platform, date, fund_name, transaction_type, value, reference) uniqueness
// invariant is reported as inserted=false rather than an error, so importers
// can re-run the same statement file safely.
func (s *TransactionRepository) InsertTransaction(t model.Transaction) (bool, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Currency == "" {
		t.Currency = "GBP"
	}

	query := `
		INSERT INTO transactions (
			id, platform, tax_wrapper, date, fund_name, mapped_fund_name,
			transaction_type, units, price_per_unit, value, currency,
			sedol, isin, reference, raw_description, excluded
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		t.ID,
		string(t.Platform),
		string(t.TaxWrapper),
		t.Date.Format("2006-01-02"),
		t.FundName,
		nullable(t.MappedFundName),
		string(t.Type),
		t.Units,
		t.PricePerUnit,
		t.Value,
		t.Currency,
		nullable(t.Sedol),
		nullable(t.Isin),
		nullable(t.Reference),
		nullable(t.RawDescription),
		t.Excluded,
	)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return true, nil
}

// SetMappedFundName records the standardised name for every transaction
// carrying the given raw fund name. Returns the number of rows updated.
func (s *TransactionRepository) SetMappedFundName(fundName, mappedName string) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE transactions SET mapped_fund_name = ? WHERE fund_name = ? AND mapped_fund_name IS NULL`,
		mappedName, fundName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set mapped fund name: %w", err)
	}
	return result.RowsAffected()
}

// SetExcluded flips the excluded flag for every transaction of a fund.
// Excluded funds are omitted from portfolio aggregation but keep their rows.
func (s *TransactionRepository) SetExcluded(fundName string, excluded bool) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE transactions SET excluded = ? WHERE fund_name = ? OR mapped_fund_name = ?`,
		excluded, fundName, fundName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set excluded flag: %w", err)
	}
	return result.RowsAffected()
}

// DistinctFundNames returns every distinct effective fund name among
// non-excluded transactions, ordered alphabetically.
func (s *TransactionRepository) DistinctFundNames() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT COALESCE(mapped_fund_name, fund_name) AS name
		FROM transactions
		WHERE excluded = 0
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan fund name: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund names: %w", err)
	}

	return names, nil
}

// scanTransaction reads one transaction row, translating nullable columns.
func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var platform, wrapper, txType, dateStr string
	var mappedName, sedol, isin, reference, rawDescription sql.NullString
	var createdAt sql.NullString

	err := rows.Scan(
		&t.ID,
		&platform,
		&wrapper,
		&dateStr,
		&t.FundName,
		&mappedName,
		&txType,
		&t.Units,
		&t.PricePerUnit,
		&t.Value,
		&t.Currency,
		&sedol,
		&isin,
		&reference,
		&rawDescription,
		&t.Excluded,
		&createdAt,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transactions table results: %w", err)
	}

	t.Platform = model.Platform(platform)
	t.TaxWrapper = model.TaxWrapper(wrapper)
	t.Type = model.TransactionType(txType)
	t.MappedFundName = mappedName.String
	t.Sedol = sedol.String
	t.Isin = isin.String
	t.Reference = reference.String
	t.RawDescription = rawDescription.String

	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}

	if createdAt.Valid {
		// created_at comes from SQLite's CURRENT_TIMESTAMP which is not
		// RFC3339; fall back silently because it is informational only.
		if parsed, err := parseTimestamp(createdAt.String); err == nil {
			t.CreatedAt = parsed
		}
	}

	return t, nil
}

func parseTimestamp(str string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", str); err == nil {
		return t.UTC(), nil
	}
	return ParseTime(str)
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
