package handlers

import (
	"net/http"

	"portfolioanalyser/internal/api/response"
	"portfolioanalyser/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// Health checks the health of the system and database connectivity.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable when the database
// is unreachable.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	status := h.systemService.Health()
	if status.Status != "ok" {
		response.RespondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	response.RespondJSON(w, http.StatusOK, status)
}

// Version reports the application version.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with {"version": "..."}
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string]string{"version": service.Version})
}
