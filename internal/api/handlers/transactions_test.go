package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolioanalyser/internal/api/handlers"
	"portfolioanalyser/internal/model"
	"portfolioanalyser/internal/testutil"
)

func TestListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	testutil.NewTransaction().WithFund("Fund A").WithReference("1").Build(t, db)
	testutil.NewTransaction().WithFund("Fund B").WithReference("2").Build(t, db)

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions",
		map[string]string{"fund": "Fund A"})
	rec := httptest.NewRecorder()
	handler.ListTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var transactions []model.Transaction
	if err := json.NewDecoder(rec.Body).Decode(&transactions); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(transactions) != 1 || transactions[0].FundName != "Fund A" {
		t.Errorf("transactions = %+v, want only Fund A", transactions)
	}
}

func TestListTransactionsBadDateFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions",
		map[string]string{"from": "16/01/2023"})
	rec := httptest.NewRecorder()
	handler.ListTransactions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	body := `{
		"platform": "FIDELITY",
		"taxWrapper": "ISA",
		"date": "2023-01-16",
		"fundName": "Fund A",
		"type": "BUY",
		"units": 100,
		"pricePerUnit": 1.5,
		"value": 150
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateTransaction(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var stored model.Transaction
	if err := json.NewDecoder(rec.Body).Decode(&stored); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stored.ID == "" || stored.FundName != "Fund A" {
		t.Errorf("stored = %+v, want persisted Fund A row with ID", stored)
	}
}

func TestCreateTransactionValidationFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown platform",
			body: `{"platform":"ROBINHOOD","taxWrapper":"ISA","date":"2023-01-16","fundName":"F","type":"BUY","units":1,"value":10}`,
		},
		{
			name: "bad date format",
			body: `{"platform":"FIDELITY","taxWrapper":"ISA","date":"16/01/2023","fundName":"F","type":"BUY","units":1,"value":10}`,
		},
		{
			name: "missing fund name",
			body: `{"platform":"FIDELITY","taxWrapper":"ISA","date":"2023-01-16","fundName":"","type":"BUY","units":1,"value":10}`,
		},
		{
			name: "unknown field rejected",
			body: `{"platform":"FIDELITY","taxWrapper":"ISA","date":"2023-01-16","fundName":"F","type":"BUY","units":1,"value":10,"bogus":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.CreateTransaction(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCreateTransactionDuplicateConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	body := `{"platform":"FIDELITY","taxWrapper":"ISA","date":"2023-01-16","fundName":"Fund A","type":"BUY","units":100,"value":150,"reference":"R1"}`

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateTransaction(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want %d", rec.Code, http.StatusCreated)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec = httptest.NewRecorder()
	handler.CreateTransaction(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("second status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestExcludeFund(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	testutil.NewTransaction().WithFund("Fund A").WithReference("1").Build(t, db)

	body := `{"fundName":"Fund A","excluded":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/exclude", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ExcludeFund(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var result map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["updated"] != 1 {
		t.Errorf("updated = %d, want 1", result["updated"])
	}
}

func TestListFundNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

	testutil.NewTransaction().WithFund("Fund B").WithReference("1").Build(t, db)
	testutil.NewTransaction().WithFund("Fund A").WithReference("2").Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
	rec := httptest.NewRecorder()
	handler.ListFundNames(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var names []string
	if err := json.NewDecoder(rec.Body).Decode(&names); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(names) != 2 || names[0] != "Fund A" {
		t.Errorf("names = %v, want alphabetical [Fund A, Fund B]", names)
	}
}
