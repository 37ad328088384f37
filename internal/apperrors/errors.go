package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrMappingNotFound indicates that a fund has no ticker mapping.
	ErrMappingNotFound = errors.New("ticker mapping not found")

	// ErrPriceNotFound indicates no price record for a specific ticker.
	ErrPriceNotFound = errors.New("price not found")

	// ErrMappingStatusNotFound indicates that a ticker has no mapping status row.
	ErrMappingStatusNotFound = errors.New("mapping status not found")

	// ErrFundNotFound indicates that no transactions exist for the given fund name.
	ErrFundNotFound = errors.New("fund not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrUnknownPlatform indicates a platform value outside the closed vocabulary.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrUnknownTransactionType indicates a transaction type outside the closed vocabulary.
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrUnknownTaxWrapper indicates a tax wrapper outside the closed vocabulary.
	ErrUnknownTaxWrapper = errors.New("unknown tax wrapper")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveMappings     = errors.New("failed to retrieve ticker mappings")
	ErrFailedToRetrievePrices       = errors.New("failed to retrieve price history")
	ErrFailedToComputeReturns       = errors.New("failed to compute returns")
	ErrFailedToComputeHoldings      = errors.New("failed to compute holdings")
	ErrFailedToRunReconciliation    = errors.New("failed to run reconciliation")
	ErrFailedToRefreshPrices        = errors.New("failed to refresh prices")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrInvalidCSVHeaders            = errors.New("invalid CSV headers")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a mapping exists but its fund has no transactions).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
