package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"portfolioanalyser/internal/model"
)

// InvestEngineLoader reads InvestEngine transaction exports. The files carry
// one preamble row, identify securities as "Fund Name / ISIN XXX", and state
// the tax wrapper only through the filename.
type InvestEngineLoader struct {
	filePattern string
	skipRows    int
}

// NewInvestEngineLoader creates a loader matching the invest_engine_*.csv
// export naming convention.
func NewInvestEngineLoader() *InvestEngineLoader {
	return &InvestEngineLoader{
		filePattern: "invest_engine_*.csv",
		skipRows:    1,
	}
}

// Platform returns the platform this loader handles.
func (l *InvestEngineLoader) Platform() model.Platform {
	return model.PlatformInvestEngine
}

// Load reads every InvestEngine export in dataDir.
func (l *InvestEngineLoader) Load(dataDir string) ([]model.Transaction, error) {
	files, err := findFiles(dataDir, l.filePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("No InvestEngine CSV files found in %s", dataDir)
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
	log.Printf("Loaded %d InvestEngine transactions", len(transactions))
	return transactions, nil
}

func (l *InvestEngineLoader) loadFile(path string) ([]model.Transaction, error) {
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

	wrapper := investEngineWrapper(filepath.Base(path))

	var transactions []model.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if t, ok := l.parseRow(header, record, wrapper); ok {
			transactions = append(transactions, t)
		}
	}

	return transactions, nil
}

func (l *InvestEngineLoader) parseRow(header map[string]int, record []string, wrapper model.TaxWrapper) (model.Transaction, bool) {
	units := ParseQuantity(cell(header, record, "Quantity"))
	if units == 0 {
		return model.Transaction{}, false
	}

	date, err := ParseDate(cell(header, record, "Trade Date/Time"))
	if err != nil {
		return model.Transaction{}, false
	}

	value := ParseMoney(cell(header, record, "Total Trade Value"))
	if value < 0 {
		value = -value
	}
	if value == 0 {
		return model.Transaction{}, false
	}

	securityInfo := cell(header, record, "Security / ISIN")
	fundName, isin := splitSecurityInfo(securityInfo)

	return model.Transaction{
		Platform:       model.PlatformInvestEngine,
		TaxWrapper:     wrapper,
		Date:           date,
		FundName:       fundName,
		Type:           investEngineType(cell(header, record, "Transaction Type")),
		Units:          units,
		PricePerUnit:   ParsePrice(cell(header, record, "Share Price")),
		Value:          value,
		Isin:           isin,
		RawDescription: securityInfo,
	}, true
}

// splitSecurityInfo parses InvestEngine's "Fund Name / ISIN XXX" security
// column into its parts. Cells without the ISIN marker yield an empty ISIN.
func splitSecurityInfo(securityInfo string) (fundName, isin string) {
	if name, rest, found := strings.Cut(securityInfo, " / ISIN "); found {
		return strings.TrimSpace(name), strings.TrimSpace(rest)
	}
	return strings.TrimSpace(securityInfo), ""
}

func investEngineType(rawType string) model.TransactionType {
	lower := strings.ToLower(rawType)
	switch {
	case strings.Contains(lower, "buy"):
		return model.TypeBuy
	case strings.Contains(lower, "sell"):
		return model.TypeSell
	default:
		return model.TypeOther
	}
}

// investEngineWrapper infers the tax wrapper from the export filename, the
// only place InvestEngine states it.
func investEngineWrapper(filename string) model.TaxWrapper {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "isa"):
		return model.WrapperISA
	case strings.Contains(lower, "gia"):
		return model.WrapperGIA
	case strings.Contains(lower, "sipp"):
		return model.WrapperSIPP
	default:
		return model.WrapperOther
	}
}
