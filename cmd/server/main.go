package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"portfolioanalyser/internal/api"
	"portfolioanalyser/internal/config"
	"portfolioanalyser/internal/database"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/service"
	"portfolioanalyser/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and apply pending migrations
	db, err := database.Open(cfg.Data.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Data.DatabasePath)

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// Create services
	unitEffects := model.DefaultUnitEffects()
	flowEffects := model.DefaultFlowEffects()

	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(transactionRepo)
	portfolioService := service.NewPortfolioService(
		transactionRepo,
		mappingRepo,
		priceRepo,
		unitEffects,
		flowEffects,
	)
	reconciliationService := service.NewReconciliationService(
		transactionRepo,
		mappingRepo,
		priceRepo,
		unitEffects,
	)
	priceService := service.NewPriceService(
		transactionRepo,
		mappingRepo,
		priceRepo,
		yahoo.NewFinanceClient(),
	)

	// Schedule the automatic price refresh
	scheduler := cron.New()
	if cfg.Prices.RefreshSchedule != "" {
		_, err := scheduler.AddFunc(cfg.Prices.RefreshSchedule, func() {
			result, err := priceService.RefreshPrices()
			if err != nil {
				log.Printf("Scheduled price refresh failed: %v", err)
				return
			}
			log.Printf("Scheduled price refresh: %d tickers, %d prices inserted",
				result.TickersRefreshed, result.PricesInserted)
		})
		if err != nil {
			log.Fatalf("Invalid price refresh schedule %q: %v", cfg.Prices.RefreshSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:         systemService,
		Transactions:   transactionService,
		Portfolio:      portfolioService,
		Reconciliation: reconciliationService,
		Prices:         priceService,
		PriceRepo:      priceRepo,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
