// Package api assembles the HTTP surface: routing, middleware and handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"portfolioanalyser/internal/api/handlers"
	custommiddleware "portfolioanalyser/internal/api/middleware"
	"portfolioanalyser/internal/config"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/service"
)

// Services bundles everything the router needs, so main wires dependencies
// once and NewRouter stays a pure assembly step.
type Services struct {
	System         *service.SystemService
	Transactions   *service.TransactionService
	Portfolio      *service.PortfolioService
	Reconciliation *service.ReconciliationService
	Prices         *service.PriceService
	PriceRepo      *repository.PriceRepository
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Post("/exclude", transactionHandler.ExcludeFund)
		})

		portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/returns", portfolioHandler.PortfolioReturns)
			r.Get("/holdings", portfolioHandler.Holdings)
		})

		r.Route("/funds", func(r chi.Router) {
			r.Get("/", transactionHandler.ListFundNames)
			r.Get("/{fund}/returns", portfolioHandler.FundReturns)
		})

		r.Route("/reconciliation", func(r chi.Router) {
			reconciliationHandler := handlers.NewReconciliationHandler(svc.Reconciliation)
			r.Get("/", reconciliationHandler.Report)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Prices, svc.PriceRepo)
			r.Post("/refresh", priceHandler.Refresh)
			r.Get("/{ticker}", priceHandler.History)
		})
	})

	return r
}
