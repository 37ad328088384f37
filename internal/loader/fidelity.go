package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"portfolioanalyser/internal/model"
)

// FidelityLoader reads Fidelity TransactionHistory exports. The files carry
// six preamble rows before the real header and list one order per row.
type FidelityLoader struct {
	filePattern string
	skipRows    int
}

// NewFidelityLoader creates a loader matching Fidelity's default export
// naming.
func NewFidelityLoader() *FidelityLoader {
	return &FidelityLoader{
		filePattern: "TransactionHistory*.csv",
		skipRows:    6,
	}
}

// Platform returns the platform this loader handles.
func (l *FidelityLoader) Platform() model.Platform {
	return model.PlatformFidelity
}

// fidelityTypes maps Fidelity's "Transaction type" vocabulary onto the
// canonical types. Switch legs are ordinary buys and sells of the funds
// involved.
var fidelityTypes = map[string]model.TransactionType{
	"Buy":             model.TypeBuy,
	"Buy For Switch":  model.TypeBuy,
	"Transfer In":     model.TypeTransferIn,
	"Sell":            model.TypeSell,
	"Sell For Switch": model.TypeSell,
	"Dividend":        model.TypeDividend,
	"Fee":             model.TypeFee,
}

// Load reads every Fidelity export in dataDir. Rows that are not completed
// orders, or that do not describe a fund trade, are skipped.
func (l *FidelityLoader) Load(dataDir string) ([]model.Transaction, error) {
	files, err := findFiles(dataDir, l.filePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("No Fidelity CSV files found in %s", dataDir)
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
	log.Printf("Loaded %d Fidelity transactions", len(transactions))
	return transactions, nil
}

func (l *FidelityLoader) loadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for i := 0; i < l.skipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip preamble: %w", err)
		}
	}

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header := headerIndex(headerRow)

	var transactions []model.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if t, ok := l.parseRow(header, record); ok {
			transactions = append(transactions, t)
		}
	}

	return transactions, nil
}

func (l *FidelityLoader) parseRow(header map[string]int, record []string) (model.Transaction, bool) {
	if status := cell(header, record, "Status"); status != "" && status != "Completed" {
		return model.Transaction{}, false
	}

	rawType := cell(header, record, "Transaction type")
	txType, ok := fidelityTypes[rawType]
	if !ok || (txType != model.TypeBuy && txType != model.TypeSell && txType != model.TypeTransferIn) {
		return model.Transaction{}, false
	}

	date, err := ParseDate(cell(header, record, "Order date"))
	if err != nil {
		return model.Transaction{}, false
	}

	units := ParseQuantity(cell(header, record, "Quantity"))
	price := ParsePrice(cell(header, record, "Price per unit"))
	value := ParseMoney(cell(header, record, "Amount"))
	if value < 0 {
		value = -value
	}
	if units == 0 || value == 0 {
		return model.Transaction{}, false
	}

	return model.Transaction{
		Platform:       model.PlatformFidelity,
		TaxWrapper:     fidelityWrapper(cell(header, record, "Product Wrapper")),
		Date:           date,
		FundName:       cell(header, record, "Investments"),
		Type:           txType,
		Units:          units,
		PricePerUnit:   price,
		Value:          value,
		Sedol:          cell(header, record, "Sedol"),
		Reference:      cell(header, record, "Reference number"),
		RawDescription: rawType,
	}, true
}

func fidelityWrapper(wrapper string) model.TaxWrapper {
	upper := strings.ToUpper(wrapper)
	switch {
	case strings.Contains(upper, "SIPP"):
		return model.WrapperSIPP
	case strings.Contains(upper, "ISA"):
		return model.WrapperISA
	default:
		return model.WrapperOther
	}
}
