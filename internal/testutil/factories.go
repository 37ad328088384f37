package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"portfolioanalyser/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test
// transactions.
//
// Example usage:
//
//	// Simple creation with defaults
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction().
//	    WithFund("Fundsmith Equity").
//	    WithType(model.TypeSell).
//	    WithUnits(10, 4.50).
//	    Build(t, db)
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder with sensible defaults: a
// Fidelity ISA buy of 100 units at £1.50 on 2023-01-16.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{tx: model.Transaction{
		ID:           uuid.New().String(),
		Platform:     model.PlatformFidelity,
		TaxWrapper:   model.WrapperISA,
		Date:         Date(2023, 1, 16),
		FundName:     "Test Fund",
		Type:         model.TypeBuy,
		Units:        100,
		PricePerUnit: 1.5,
		Value:        150,
		Currency:     "GBP",
	}}
}

// WithPlatform sets the platform.
func (b *TransactionBuilder) WithPlatform(platform model.Platform) *TransactionBuilder {
	b.tx.Platform = platform
	return b
}

// WithWrapper sets the tax wrapper.
func (b *TransactionBuilder) WithWrapper(wrapper model.TaxWrapper) *TransactionBuilder {
	b.tx.TaxWrapper = wrapper
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.tx.Date = date
	return b
}

// WithFund sets the raw fund name.
func (b *TransactionBuilder) WithFund(name string) *TransactionBuilder {
	b.tx.FundName = name
	return b
}

// WithMappedFund sets the standardised fund name.
func (b *TransactionBuilder) WithMappedFund(name string) *TransactionBuilder {
	b.tx.MappedFundName = name
	return b
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType model.TransactionType) *TransactionBuilder {
	b.tx.Type = txType
	return b
}

// WithUnits sets units and per-unit price, recomputing value.
func (b *TransactionBuilder) WithUnits(units, pricePerUnit float64) *TransactionBuilder {
	b.tx.Units = units
	b.tx.PricePerUnit = pricePerUnit
	b.tx.Value = units * pricePerUnit
	return b
}

// WithValue overrides the transaction value.
func (b *TransactionBuilder) WithValue(value float64) *TransactionBuilder {
	b.tx.Value = value
	return b
}

// WithSedol sets the SEDOL identifier.
func (b *TransactionBuilder) WithSedol(sedol string) *TransactionBuilder {
	b.tx.Sedol = sedol
	return b
}

// WithIsin sets the ISIN identifier.
func (b *TransactionBuilder) WithIsin(isin string) *TransactionBuilder {
	b.tx.Isin = isin
	return b
}

// WithReference sets the platform reference.
func (b *TransactionBuilder) WithReference(reference string) *TransactionBuilder {
	b.tx.Reference = reference
	return b
}

// Excluded marks the transaction as excluded from aggregation.
func (b *TransactionBuilder) Excluded() *TransactionBuilder {
	b.tx.Excluded = true
	return b
}

// Value returns the built transaction without persisting it, for tests that
// work on in-memory slices.
func (b *TransactionBuilder) Value() model.Transaction {
	return b.tx
}

// Build inserts the transaction into the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO transactions (
			id, platform, tax_wrapper, date, fund_name, mapped_fund_name,
			transaction_type, units, price_per_unit, value, currency,
			sedol, isin, reference, raw_description, excluded
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.tx.ID, string(b.tx.Platform), string(b.tx.TaxWrapper),
		b.tx.Date.Format("2006-01-02"), b.tx.FundName, nullIfEmpty(b.tx.MappedFundName),
		string(b.tx.Type), b.tx.Units, b.tx.PricePerUnit, b.tx.Value, b.tx.Currency,
		nullIfEmpty(b.tx.Sedol), nullIfEmpty(b.tx.Isin), nullIfEmpty(b.tx.Reference),
		nullIfEmpty(b.tx.RawDescription), b.tx.Excluded,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return b.tx
}

// CreateMapping inserts a fund → ticker mapping row and returns it.
func CreateMapping(t *testing.T, db *sql.DB, fundName, ticker string) model.TickerMapping {
	t.Helper()

	m := model.TickerMapping{
		ID:       uuid.New().String(),
		FundName: fundName,
		Ticker:   ticker,
	}

	_, err := db.Exec(`
		INSERT INTO fund_ticker_mapping (id, fund_name, ticker, vip, is_auto_mapped)
		VALUES (?, ?, ?, 0, 0)
	`, m.ID, m.FundName, m.Ticker)
	if err != nil {
		t.Fatalf("Failed to create test mapping: %v", err)
	}

	return m
}

// CreatePrice inserts one price_history row and returns it.
func CreatePrice(t *testing.T, db *sql.DB, ticker string, date time.Time, close float64) model.PricePoint {
	t.Helper()

	p := model.PricePoint{
		ID:     uuid.New().String(),
		Ticker: ticker,
		Date:   date,
		Close:  close,
	}

	_, err := db.Exec(`
		INSERT INTO price_history (id, ticker, date, close_price)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Ticker, p.Date.Format("2006-01-02"), p.Close)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	return p
}

// CreateStatus inserts one mapping_status row and returns it.
func CreateStatus(t *testing.T, db *sql.DB, ticker string, earliest, latest time.Time, count int) model.MappingStatus {
	t.Helper()

	st := model.MappingStatus{
		ID:               uuid.New().String(),
		Ticker:           ticker,
		EarliestDate:     earliest,
		LatestDate:       latest,
		TransactionCount: count,
	}

	_, err := db.Exec(`
		INSERT INTO mapping_status (id, ticker, earliest_date, latest_date, transaction_count)
		VALUES (?, ?, ?, ?, ?)
	`, st.ID, st.Ticker, st.EarliestDate.Format("2006-01-02"), st.LatestDate.Format("2006-01-02"), st.TransactionCount)
	if err != nil {
		t.Fatalf("Failed to create test mapping status: %v", err)
	}

	return st
}

// Date builds a UTC midnight time, the form every stored date takes.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
