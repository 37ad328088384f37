// Package testutil provides shared helpers for package tests: an in-memory
// database with the production schema, fluent builders for test rows, and a
// canned price feed.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migration.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE transactions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			platform VARCHAR(25) NOT NULL,
			tax_wrapper VARCHAR(10) NOT NULL,
			date DATE NOT NULL,
			fund_name TEXT NOT NULL,
			mapped_fund_name TEXT,
			transaction_type VARCHAR(15) NOT NULL,
			units FLOAT NOT NULL,
			price_per_unit FLOAT NOT NULL,
			value FLOAT NOT NULL,
			currency VARCHAR(3) NOT NULL DEFAULT 'GBP',
			sedol VARCHAR(7),
			isin VARCHAR(12),
			reference TEXT,
			raw_description TEXT,
			excluded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_statement_line UNIQUE (platform, date, fund_name, transaction_type, value, reference)
		);

		CREATE TABLE fund_ticker_mapping (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			fund_name TEXT NOT NULL,
			ticker VARCHAR(20) NOT NULL,
			sedol VARCHAR(7),
			isin VARCHAR(12),
			mapped_fund_name TEXT,
			vip BOOLEAN NOT NULL DEFAULT FALSE,
			is_auto_mapped BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_fund_ticker UNIQUE (fund_name, ticker)
		);

		CREATE TABLE mapping_status (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL UNIQUE,
			fund_name TEXT,
			earliest_date DATE,
			latest_date DATE,
			transaction_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE price_history (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL,
			date DATE NOT NULL,
			close_price FLOAT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE fund_name_mapping (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			original_name TEXT NOT NULL UNIQUE,
			standardized_name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}
