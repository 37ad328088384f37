package validation

import (
	"fmt"
	"strings"
	"time"

	"portfolioanalyser/internal/api/request"
	"portfolioanalyser/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - platform: Must be a known platform value
//   - taxWrapper: Must be a known tax wrapper value
//   - date: Must be in YYYY-MM-DD format
//   - fundName: Must be non-empty
//   - type: Must be a known transaction type
//   - units: Must be non-negative (zero is valid for cash-only types)
//   - value: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if !model.Platform(req.Platform).Valid() {
		errors["platform"] = fmt.Sprintf("unknown platform: %s", req.Platform)
	}

	if !model.TaxWrapper(req.TaxWrapper).Valid() {
		errors["taxWrapper"] = fmt.Sprintf("unknown tax wrapper: %s", req.TaxWrapper)
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if strings.TrimSpace(req.FundName) == "" {
		errors["fundName"] = "fundName is required"
	}

	if !model.TransactionType(req.Type).Valid() {
		errors["type"] = fmt.Sprintf("unknown type: %s", req.Type)
	}

	if req.Units < 0 {
		errors["units"] = "units must not be negative"
	}

	if req.Value <= 0 {
		errors["value"] = "value must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
