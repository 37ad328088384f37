package service

import (
	"database/sql"

	"portfolioanalyser/internal/database"
)

// Version is the application version, stamped at build time via
// -ldflags "-X portfolioanalyser/internal/service.Version=...".
var Version = "dev"

// SystemService reports process-level status for the health endpoints.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService with the provided database connection.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// HealthStatus is the response payload for the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// Health checks database reachability and reports overall status.
func (s *SystemService) Health() HealthStatus {
	status := HealthStatus{Status: "ok", Database: "ok", Version: Version}
	if err := database.HealthCheck(s.db); err != nil {
		status.Status = "degraded"
		status.Database = err.Error()
	}
	return status
}
