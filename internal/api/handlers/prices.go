package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolioanalyser/internal/api/response"
	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/repository"
	"portfolioanalyser/internal/service"
)

// PriceHandler handles HTTP requests for price history endpoints.
type PriceHandler struct {
	priceService *service.PriceService
	priceRepo    *repository.PriceRepository
}

// NewPriceHandler creates a new PriceHandler with the provided dependencies.
func NewPriceHandler(priceService *service.PriceService, priceRepo *repository.PriceRepository) *PriceHandler {
	return &PriceHandler{priceService: priceService, priceRepo: priceRepo}
}

// Refresh handles POST requests to fetch new prices from the feed.
//
// Endpoint: POST /api/prices/refresh
// Response: 200 OK with RefreshResult
// Error: 500 Internal Server Error if the refresh cannot start
func (h *PriceHandler) Refresh(w http.ResponseWriter, _ *http.Request) {
	result, err := h.priceService.RefreshPrices()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// History handles GET requests for one ticker's stored price history.
//
// Endpoint: GET /api/prices/{ticker}
// Response: 200 OK with array of PricePoint
// Error: 500 Internal Server Error if retrieval fails
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	prices, err := h.priceRepo.GetPricesForTicker(ticker)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}
