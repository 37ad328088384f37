// Command validate runs a reconciliation pass over the database and prints
// the findings. Exits non-zero when the report is not clean, so it can gate
// scripted imports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"portfolioanalyser/internal/config"
	"portfolioanalyser/internal/database"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/service"
)

func main() {
	jsonOutput := flag.Bool("json", false, "print the full report as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Data.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	reconciliationService := service.NewReconciliationService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
		repository.NewPriceRepository(db),
		model.DefaultUnitEffects(),
	)

	report, err := reconciliationService.Run()
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	if *jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
	} else {
		printSummary(report)
	}

	if !report.Clean() {
		os.Exit(1)
	}
}

func printSummary(report model.ReconciliationReport) {
	fmt.Printf("Orphaned funds:            %d\n", len(report.OrphanedFunds))
	for _, orphan := range report.OrphanedFunds {
		fmt.Printf("  %s (%d transactions)\n", orphan.FundName, orphan.TransactionCount)
	}

	fmt.Printf("Price coverage gaps:       %d\n", len(report.CoverageGaps))
	for _, gap := range report.CoverageGaps {
		fmt.Printf("  %s: transactions %s to %s", gap.Ticker,
			gap.FirstTransaction.Format("2006-01-02"), gap.LastTransaction.Format("2006-01-02"))
		if gap.FirstPrice.IsZero() {
			fmt.Printf(", no prices at all\n")
			continue
		}
		fmt.Printf(", prices %s to %s\n",
			gap.FirstPrice.Format("2006-01-02"), gap.LastPrice.Format("2006-01-02"))
	}

	fmt.Printf("Duplicate prices:          %d\n", len(report.DuplicatePrices))
	for _, dup := range report.DuplicatePrices {
		fmt.Printf("  %s on %s (%d rows)\n", dup.Ticker, dup.Date.Format("2006-01-02"), dup.Count)
	}

	fmt.Printf("Mapping status drift:      %d\n", len(report.StatusDrift))
	for _, drift := range report.StatusDrift {
		fmt.Printf("  %s: recorded %d transactions, actual %d\n",
			drift.Ticker, drift.RecordedCount, drift.ActualCount)
	}

	fmt.Printf("Unmapped transaction types: %d\n", len(report.UnmappedTypes))
	for _, unmapped := range report.UnmappedTypes {
		fmt.Printf("  %s (%d transactions)\n", unmapped.Type, unmapped.TransactionCount)
	}

	fmt.Printf("Cross-reference: %d verified, %d unsure, %d funds without identifiers\n",
		len(report.VerifiedMatches), len(report.UnsureMatches), len(report.FundsWithoutIdentifiers))

	if report.Clean() {
		fmt.Println("All checks passed")
	}
}
