package handlers

import (
	"net/http"

	"portfolioanalyser/internal/api/response"
	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/service"
)

// ReconciliationHandler handles HTTP requests for the reconciliation report.
type ReconciliationHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler with the provided service dependency.
func NewReconciliationHandler(reconciliationService *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Report handles GET requests to run a reconciliation pass and return the
// report. The pass is read-only, so GET is the right verb even though the
// work is non-trivial.
//
// Endpoint: GET /api/reconciliation
// Response: 200 OK with ReconciliationReport
// Error: 500 Internal Server Error if the snapshot cannot be loaded
func (h *ReconciliationHandler) Report(w http.ResponseWriter, _ *http.Request) {
	report, err := h.reconciliationService.Run()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunReconciliation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
