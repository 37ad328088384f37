// Command import runs the platform statement loaders against a data
// directory and persists the transactions, reporting per-platform counts.
package main

import (
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
	platformFlag := flag.String("platform", "", "import a single platform (FIDELITY, INTERACTIVE_INVESTOR, INVEST_ENGINE, DODL); empty imports all")
	dataDir := flag.String("data", "", "statement directory (defaults to STATEMENT_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataDir == "" {
		*dataDir = cfg.Data.StatementDir
	}

	db, err := database.Open(cfg.Data.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	importService := service.NewImportService(
		repository.NewTransactionRepository(db),
		repository.NewMappingRepository(db),
	)

	var results []service.ImportResult
	if *platformFlag != "" {
		platform := model.Platform(*platformFlag)
		if !platform.Valid() {
			fmt.Fprintf(os.Stderr, "unknown platform: %s\n", *platformFlag)
			os.Exit(2)
		}
		result, err := importService.ImportPlatform(platform, *dataDir)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		results = append(results, result)
	} else {
		results, err = importService.ImportAll(*dataDir)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	}

	for _, result := range results {
		fmt.Printf("%-22s loaded %4d  inserted %4d  skipped %4d\n",
			result.Platform, result.Loaded, result.Inserted, result.Skipped)
	}
}
