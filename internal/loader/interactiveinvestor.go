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

// InteractiveInvestorLoader reads Interactive Investor transaction history
// exports. II describes trades through Debit/Credit columns rather than a
// type column, and abbreviates fund names heavily in its descriptions.
type InteractiveInvestorLoader struct {
	filePattern string
}

// NewInteractiveInvestorLoader creates a loader matching the ii_isa_*.csv
// export naming convention.
func NewInteractiveInvestorLoader() *InteractiveInvestorLoader {
	return &InteractiveInvestorLoader{filePattern: "ii_isa_*.csv"}
}

// Platform returns the platform this loader handles.
func (l *InteractiveInvestorLoader) Platform() model.Platform {
	return model.PlatformInteractiveInvestor
}

// iiFundNames expands II's abbreviated descriptions to recognisable fund
// names. Matching is substring on the uppercased description; unmatched
// descriptions fall through unchanged.
var iiFundNames = map[string]string{
	"ALLZ TECH":         "Allianz Technology Trust",
	"LIONT SPEC SIT":    "Liontrust Special Situations",
	"ISHS PHYSETCMD":    "iShares Physical Gold",
	"FDSMITH":           "Fundsmith Equity",
	"LEG & GEN US":      "L&G US Index",
	"FIL INV":           "Fidelity Investment",
	"AXA INV":           "AXA Framlington",
	"VAN LIFE":          "Vanguard LifeStrategy",
	"FIRT SENT":         "First Sentier",
	"LEGT TRUS":         "Legal & General",
	"LINK SOLU":         "Link Solutions",
	"VANGUARD":          "Vanguard",
	"GAM STAR":          "GAM Star",
	"SCOH MORT":         "Scottish Mortgage",
	"SCOTTISH MORTGAGE": "Scottish Mortgage",
	"POLAR CAP TECH":    "Polar Capital Technology",
	"ISHARES GBL EN":    "iShares Global Clean Energy",
	"LINDSELL TRAIN":    "Lindsell Train Global Equity",
	"COIE GLOB":         "Coinbase Global",
	"SPOY TECH":         "Spotify",
	"M&G SECU":          "M&G Securities",
	"FIDY FUNDSTD":      "Fidelity Funds",
	"WS BLUESTD":        "WS Blue Whale Growth",
	"WS BLUE":           "WS Blue Whale Growth",
	"BLUESTD":           "Blue Whale Growth",
	"BAIE GIFF":         "Baillie Gifford",
}

// iiFundPatterns fixes the lookup order for iiFundNames so longer patterns
// win over their prefixes ("WS BLUESTD" before "WS BLUE").
var iiFundPatterns = []string{
	"ALLZ TECH", "LIONT SPEC SIT", "ISHS PHYSETCMD", "FDSMITH",
	"LEG & GEN US", "FIL INV", "AXA INV", "VAN LIFE", "FIRT SENT",
	"LEGT TRUS", "LINK SOLU", "VANGUARD", "GAM STAR", "SCOH MORT",
	"SCOTTISH MORTGAGE", "POLAR CAP TECH", "ISHARES GBL EN",
	"LINDSELL TRAIN", "COIE GLOB", "SPOY TECH", "M&G SECU",
	"FIDY FUNDSTD", "WS BLUESTD", "WS BLUE", "BLUESTD", "BAIE GIFF",
}

// Load reads every Interactive Investor export in dataDir. Rows without a
// quantity or SEDOL are cash movements, not trades, and are skipped.
func (l *InteractiveInvestorLoader) Load(dataDir string) ([]model.Transaction, error) {
	files, err := findFiles(dataDir, l.filePattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("No Interactive Investor CSV files found in %s", dataDir)
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
	log.Printf("Loaded %d Interactive Investor transactions", len(transactions))
	return transactions, nil
}

func (l *InteractiveInvestorLoader) loadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

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

func (l *InteractiveInvestorLoader) parseRow(header map[string]int, record []string) (model.Transaction, bool) {
	units := ParseQuantity(cell(header, record, "Quantity"))
	if units == 0 {
		return model.Transaction{}, false
	}

	sedol := cell(header, record, "Sedol")
	if sedol == "" || strings.EqualFold(sedol, "n/a") {
		return model.Transaction{}, false
	}

	date, err := ParseDate(cell(header, record, "Date"))
	if err != nil {
		return model.Transaction{}, false
	}

	debit := ParseMoney(cell(header, record, "Debit"))
	credit := ParseMoney(cell(header, record, "Credit"))

	var txType model.TransactionType
	var value float64
	switch {
	case debit > 0:
		txType, value = model.TypeBuy, debit
	case credit > 0:
		txType, value = model.TypeSell, credit
	default:
		return model.Transaction{}, false
	}

	description := cell(header, record, "Description")

	return model.Transaction{
		Platform:       model.PlatformInteractiveInvestor,
		TaxWrapper:     model.WrapperISA,
		Date:           date,
		FundName:       expandIIFundName(description),
		Type:           txType,
		Units:          units,
		PricePerUnit:   ParsePrice(cell(header, record, "Price")),
		Value:          value,
		Sedol:          sedol,
		Reference:      cell(header, record, "Reference"),
		RawDescription: description,
	}, true
}

func expandIIFundName(description string) string {
	upper := strings.ToUpper(description)
	for _, pattern := range iiFundPatterns {
		if strings.Contains(upper, pattern) {
			return iiFundNames[pattern]
		}
	}
	return strings.TrimSpace(description)
}
