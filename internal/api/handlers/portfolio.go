package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolioanalyser/internal/api/response"
	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/service"
)

// PortfolioHandler handles HTTP requests for return and holdings endpoints.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// PortfolioReturns handles GET requests for whole-portfolio return metrics.
//
// Endpoint: GET /api/portfolio/returns?asOf=YYYY-MM-DD
// Response: 200 OK with ReturnMetrics; asOf defaults to today
// Error: 400 Bad Request on a malformed asOf date
// Error: 500 Internal Server Error if the calculation fails
func (h *PortfolioHandler) PortfolioReturns(w http.ResponseWriter, r *http.Request) {
	asOf, err := service.ParseDateParam(r.URL.Query().Get("asOf"), time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf date", err.Error())
		return
	}

	metrics, err := h.portfolioService.PortfolioReturns(asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeReturns.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// FundReturns handles GET requests for one fund's return metrics.
//
// Endpoint: GET /api/funds/{fund}/returns?asOf=YYYY-MM-DD
// Response: 200 OK with ReturnMetrics
// Error: 400 Bad Request on a malformed asOf date
// Error: 404 Not Found when the fund has no transactions
// Error: 500 Internal Server Error if the calculation fails
func (h *PortfolioHandler) FundReturns(w http.ResponseWriter, r *http.Request) {
	fundName := chi.URLParam(r, "fund")

	asOf, err := service.ParseDateParam(r.URL.Query().Get("asOf"), time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid asOf date", err.Error())
		return
	}

	metrics, err := h.portfolioService.FundReturns(fundName, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeReturns.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// Holdings handles GET requests for the current holdings summary.
//
// Endpoint: GET /api/portfolio/holdings
// Response: 200 OK with HoldingsSummary
// Error: 500 Internal Server Error if the calculation fails
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.portfolioService.Holdings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
