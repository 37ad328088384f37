// Package loader reads platform statement exports and converts them into
// normalised transactions. Each supported platform ships its exports in a
// different shape, so each gets its own Loader; the parsing helpers in this
// file are shared across all of them.
package loader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolioanalyser/internal/model"
)

// Loader reads every statement file for one platform from a data directory
// and returns the transactions it contains, sorted by date ascending.
type Loader interface {
	Platform() model.Platform
	Load(dataDir string) ([]model.Transaction, error)
}

// Registry returns all platform loaders keyed by platform.
func Registry() map[model.Platform]Loader {
	return map[model.Platform]Loader{
		model.PlatformFidelity:            NewFidelityLoader(),
		model.PlatformInteractiveInvestor: NewInteractiveInvestorLoader(),
		model.PlatformInvestEngine:        NewInvestEngineLoader(),
		model.PlatformDodl:                NewDodlLoader(),
	}
}

// dateFormats are the layouts platform exports have been observed to use,
// tried in order. UK day-first forms come before ISO.
var dateFormats = []string{
	"02/01/2006",          // 16/01/2023
	"2 Jan 2006",          // 16 Jan 2023
	"02 Jan 2006",
	"2006-01-02",          // 2023-01-16
	"02-01-2006",          // 16-01-2023
	"02/01/06 15:04:05",   // 16/01/23 15:30:45, InvestEngine trade timestamps
	"02/01/06",            // 16/01/23
}

// ParseDate parses a statement date string, trying each known layout in turn.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "n/a") {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date format: %q", value)
}

var moneyCleaner = regexp.MustCompile(`[£€$,\s]`)

// ParseMoney parses a monetary cell such as "£1,234.56", "1234.56", "-£500"
// or the accounting form "(£500.00)". Blank and "n/a" cells parse as zero.
func ParseMoney(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "n/a") {
		return 0
	}

	negative := strings.Contains(value, "-")
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		negative = true
		value = strings.Trim(value, "()")
	}
	cleaned := moneyCleaner.ReplaceAllString(value, "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")

	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -result
	}
	return result
}

// ParseQuantity parses a unit count cell, tolerating thousands separators.
// Blank and "n/a" cells parse as zero.
func ParseQuantity(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "n/a") {
		return 0
	}

	result, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0
	}
	return result
}

var priceCleaner = regexp.MustCompile(`(?i)[£p,\s]`)

// ParsePrice parses a per-unit price cell, normalising pence quotes such as
// "162p" to pounds. "£1.62", "162p" and "1.62" all parse; pence conversion
// only applies when the cell carries a p suffix and no pound sign.
func ParsePrice(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "n/a") {
		return 0
	}

	isPence := strings.ContainsAny(value, "pP") && !strings.Contains(value, "£")
	cleaned := priceCleaner.ReplaceAllString(value, "")

	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if isPence {
		return result / 100
	}
	return result
}

// findFiles globs a data directory for statement files matching pattern,
// returning paths in lexical order so loads are deterministic.
func findFiles(dataDir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// cell returns the value of a named column in a CSV record, or "" when the
// column is missing. Column names are matched after BOM and whitespace
// stripping because several platforms export UTF-8 BOMs.
func cell(header map[string]int, record []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// headerIndex builds a column name → position map from a CSV header row.
func headerIndex(row []string) map[string]int {
	index := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.TrimSpace(name)] = i
	}
	return index
}

// sortByDate orders transactions by date ascending, preserving file order
// for same-day rows.
func sortByDate(transactions []model.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
}
