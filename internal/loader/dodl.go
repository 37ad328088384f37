package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"portfolioanalyser/internal/model"
)

// DodlLoader reads Dodl transaction exports. Dodl has no CSV download, so
// its history arrives as hand-captured JSON with display-formatted money
// values.
type DodlLoader struct {
	filePattern string
}

// NewDodlLoader creates a loader matching the dodl_transactions*.json naming
// convention.
func NewDodlLoader() *DodlLoader {
	return &DodlLoader{filePattern: "dodl_transactions*.json"}
}

// Platform returns the platform this loader handles.
func (l *DodlLoader) Platform() model.Platform {
	return model.PlatformDodl
}

type dodlRecord struct {
	Platform        string  `json:"platform"`
	TaxWrapper      string  `json:"tax_wrapper"`
	Date            string  `json:"date"`
	FundName        string  `json:"fund_name"`
	TransactionType string  `json:"transaction_type"`
	Units           float64 `json:"units"`
	Value           string  `json:"value"`
}

// Load reads every Dodl JSON export in dataDir. The per-unit price is not
// recorded in the export and is derived from value and units.
func (l *DodlLoader) Load(dataDir string) ([]model.Transaction, error) {
	files, err := findFiles(dataDir, l.filePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("No Dodl JSON files found in %s", dataDir)
		return nil, nil
	}

	var transactions []model.Transaction
	for _, file := range files {
		rows, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		transactions = append(transactions, rows...)
	}

	sortByDate(transactions)
	log.Printf("Loaded %d Dodl transactions", len(transactions))
	return transactions, nil
}

func (l *DodlLoader) loadFile(path string) ([]model.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []dodlRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var transactions []model.Transaction
	for _, record := range records {
		t, err := l.parseRecord(record)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

func (l *DodlLoader) parseRecord(record dodlRecord) (model.Transaction, error) {
	date, err := ParseDate(record.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad Dodl record date %q: %w", record.Date, err)
	}

	txType := model.TransactionType(record.TransactionType)
	if !txType.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown Dodl transaction type %q", record.TransactionType)
	}

	wrapper := model.TaxWrapper(record.TaxWrapper)
	if !wrapper.Valid() {
		wrapper = model.WrapperOther
	}

	value := ParseMoney(record.Value)
	var price float64
	if record.Units > 0 {
		price = math.Round(value/record.Units*100) / 100
	}

	return model.Transaction{
		Platform:     model.PlatformDodl,
		TaxWrapper:   wrapper,
		Date:         date,
		FundName:     record.FundName,
		Type:         txType,
		Units:        record.Units,
		PricePerUnit: price,
		Value:        value,
	}, nil
}
