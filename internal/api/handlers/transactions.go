package handlers

import (
	"errors"
	"net/http"
	"time"

	"portfolioanalyser/internal/api/request"
	"portfolioanalyser/internal/api/response"
	"portfolioanalyser/internal/apperrors"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/service"
	"portfolioanalyser/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListTransactions handles GET requests to retrieve transactions, optionally
// filtered by query parameters.
//
// Endpoint: GET /api/transactions?fund=&platform=&taxWrapper=&from=&to=&includeExcluded=
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request on a malformed date filter
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	transactions, err := h.transactionService.GetTransactions(filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// ListFundNames handles GET requests to retrieve every distinct fund name.
//
// Endpoint: GET /api/funds
// Response: 200 OK with array of strings
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListFundNames(w http.ResponseWriter, _ *http.Request) {
	names, err := h.transactionService.FundNames()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, names)
}

// CreateTransaction handles POST requests to record a manually entered
// transaction.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest
// Response: 201 Created with the stored Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the statement-line uniqueness rule rejects the row
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	transaction, err := h.transactionService.CreateTransaction(model.Transaction{
		Platform:       model.Platform(req.Platform),
		TaxWrapper:     model.TaxWrapper(req.TaxWrapper),
		Date:           date.UTC(),
		FundName:       req.FundName,
		Type:           model.TransactionType(req.Type),
		Units:          req.Units,
		PricePerUnit:   req.PricePerUnit,
		Value:          req.Value,
		Currency:       req.Currency,
		Sedol:          req.Sedol,
		Isin:           req.Isin,
		Reference:      req.Reference,
		RawDescription: req.RawDescription,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// ExcludeFund handles POST requests to flip the excluded flag for a fund.
//
// Endpoint: POST /api/transactions/exclude
// Request Body: ExcludeFundRequest
// Response: 200 OK with {"updated": n}
// Error: 400 Bad Request if the body is invalid
// Error: 500 Internal Server Error if the update fails
func (h *TransactionHandler) ExcludeFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ExcludeFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	updated, err := h.transactionService.MarkExcluded(req.FundName, req.Excluded)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingRequiredField) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update exclusion", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func parseTransactionFilter(r *http.Request) (model.TransactionFilter, error) {
	query := r.URL.Query()

	filter := model.TransactionFilter{
		FundName:        query.Get("fund"),
		Platform:        model.Platform(query.Get("platform")),
		TaxWrapper:      model.TaxWrapper(query.Get("taxWrapper")),
		IncludeExcluded: query.Get("includeExcluded") == "true",
	}

	var err error
	if filter.StartDate, err = service.ParseDateParam(query.Get("from"), time.Time{}); err != nil {
		return model.TransactionFilter{}, err
	}
	if filter.EndDate, err = service.ParseDateParam(query.Get("to"), time.Time{}); err != nil {
		return model.TransactionFilter{}, err
	}

	return filter, nil
}
