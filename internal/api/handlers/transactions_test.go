package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/middleware"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/testutil"
)

// failingFetcher always reports the upstream as unavailable.
type failingFetcher struct{}

func (failingFetcher) GetPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, apperrors.ErrPriceUnavailable
}

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB, model.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	transactionRepo := repository.NewTransactionRepository(db)
	ledgerService := service.NewLedgerService(transactionRepo)
	importService := service.NewImportService(transactionRepo, ledgerService)
	priceService := service.NewPriceService(failingFetcher{}, time.Minute)

	user := testutil.CreateUser(t, db)

	return NewTransactionHandler(ledgerService, importService, priceService), db, user
}

func authed(req *http.Request, user model.User) *http.Request {
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		req := authed(httptest.NewRequest(http.MethodGet, "/api/transaction", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns the user's transactions", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)

		tx1 := testutil.NewTransaction(user.ID).Build(t, db)
		tx2 := testutil.NewTransaction(user.ID).Build(t, db)

		req := authed(httptest.NewRequest(http.MethodGet, "/api/transaction", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(response))
		}

		found := make(map[string]bool)
		for _, tx := range response {
			found[tx.ID] = true
		}
		if !found[tx1.ID] || !found[tx2.ID] {
			t.Error("Expected both transactions in the response")
		}
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		db.Close()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/transaction", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("creates transaction and returns the updated summary", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		body := `{"date":"2024-01-01","usd_spent":"100.00","btc_price":"50000.00","btc_bought":200000}`
		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body)), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response CreateTransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Transaction.ID == "" {
			t.Error("Expected a transaction ID")
		}
		if response.Transaction.BtcSats != 200000 {
			t.Errorf("Expected 200000 satoshis, got %d", response.Transaction.BtcSats)
		}
		if response.Summary.Count != 1 {
			t.Errorf("Expected summary count 1, got %d", response.Summary.Count)
		}
	})

	t.Run("returns 400 on validation failure", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		body := `{"date":"2024-01-01","usd_spent":"-5","btc_price":"50000.00","btc_bought":200000}`
		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body)), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(`{bad`)), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on unknown fields", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		body := `{"date":"2024-01-01","usd_spent":"100","btc_price":"50000","btc_bought":200000,"shares":3}`
		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction", strings.NewReader(body)), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("deletes and returns the updated summary", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		tx := testutil.CreateTransaction(t, db, user.ID)

		req := authed(testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/transaction/"+tx.ID,
			map[string]string{"uuid": tx.ID},
		), user)
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response DeleteTransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Summary.Count != 0 {
			t.Errorf("Expected empty ledger, got count %d", response.Summary.Count)
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := authed(testutil.NewRequestWithURLParams(
			http.MethodDelete,
			"/api/transaction/"+id,
			map[string]string{"uuid": id},
		), user)
		w := httptest.NewRecorder()

		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_BulkDeleteTransactions(t *testing.T) {
	t.Run("reports per-ID outcomes", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		tx := testutil.CreateTransaction(t, db, user.ID)
		missing := testutil.MakeID()

		body, _ := json.Marshal(map[string][]string{"ids": {tx.ID, missing}})
		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction/bulk-delete", bytes.NewReader(body)), user)
		w := httptest.NewRecorder()

		handler.BulkDeleteTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.BulkDeleteResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response.Deleted) != 1 || response.Deleted[0] != tx.ID {
			t.Errorf("Expected %s deleted, got %v", tx.ID, response.Deleted)
		}
		if len(response.Failed) != 1 || response.Failed[0].ID != missing {
			t.Errorf("Expected failure for %s, got %v", missing, response.Failed)
		}
	})

	t.Run("returns 400 for empty id list", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		req := authed(httptest.NewRequest(http.MethodPost, "/api/transaction/bulk-delete", strings.NewReader(`{"ids":[]}`)), user)
		w := httptest.NewRecorder()

		handler.BulkDeleteTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_Summary(t *testing.T) {
	t.Run("returns aggregate figures", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		testutil.CreateTransaction(t, db, user.ID)
		testutil.CreateTransaction(t, db, user.ID)

		req := authed(httptest.NewRequest(http.MethodGet, "/api/transaction/summary", nil), user)
		w := httptest.NewRecorder()

		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Summary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Count != 2 {
			t.Errorf("Expected count 2, got %d", response.Count)
		}
		if response.TotalBtcSats != 400000 {
			t.Errorf("Expected 400000 satoshis, got %d", response.TotalBtcSats)
		}
	})
}

func TestTransactionHandler_Valuation(t *testing.T) {
	t.Run("manual price override drives the valuation", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		// 100.00 at 50,000.00 for 0.002 BTC.
		testutil.CreateTransaction(t, db, user.ID)

		req := authed(testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/transaction/valuation",
			map[string]string{"price": "60000"},
		), user)
		w := httptest.NewRecorder()

		handler.Valuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Valuation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.PriceAvailable {
			t.Error("Expected price_available true")
		}
		if response.SumBtcValue.String() != "120" {
			t.Errorf("Expected sum value 120, got %s", response.SumBtcValue)
		}
		if response.GainOrLoss.String() != "20" {
			t.Errorf("Expected gain 20, got %s", response.GainOrLoss)
		}
	})

	t.Run("oracle failure degrades instead of erroring", func(t *testing.T) {
		handler, db, user := setupTransactionHandler(t)
		testutil.CreateTransaction(t, db, user.ID)

		req := authed(httptest.NewRequest(http.MethodGet, "/api/transaction/valuation", nil), user)
		w := httptest.NewRecorder()

		handler.Valuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Valuation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.PriceAvailable {
			t.Error("Expected price_available false when the oracle is down")
		}
		if response.Summary.Count != 1 {
			t.Errorf("Expected ledger figures present, got count %d", response.Summary.Count)
		}
	})

	t.Run("returns 400 for a non-positive price override", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		for _, price := range []string{"0", "-1", "abc"} {
			req := authed(testutil.NewRequestWithQueryParams(
				http.MethodGet,
				"/api/transaction/valuation",
				map[string]string{"price": price},
			), user)
			w := httptest.NewRecorder()

			handler.Valuation(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("price=%q: expected 400, got %d", price, w.Code)
			}
		}
	})
}

func TestTransactionHandler_ImportTransactions(t *testing.T) {
	importRequest := func(t *testing.T, csv string) *http.Request {
		t.Helper()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "transactions.csv")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte(csv)); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Failed to close multipart writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/transaction/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	t.Run("imports rows and reports per-row failures", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		csv := "date,usd_spent,btc_price,btc_bought\n" +
			"2024-01-01,100.00,50000.00,0.002\n" +
			"2024-02-01,-5,40000.00,0.005\n"

		req := authed(importRequest(t, csv), user)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.ImportResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Imported != 1 || response.Failed != 1 {
			t.Errorf("Expected 1 imported and 1 failed, got %d/%d", response.Imported, response.Failed)
		}
		if len(response.Errors) != 1 || response.Errors[0].Row != 2 {
			t.Errorf("Expected a failure on row 2, got %v", response.Errors)
		}
	})

	t.Run("returns 400 for invalid headers", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		req := authed(importRequest(t, "date,usd_spent\n2024-01-01,100.00\n"), user)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when the file part is missing", func(t *testing.T) {
		handler, _, user := setupTransactionHandler(t)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		if err := writer.Close(); err != nil {
			t.Fatalf("Failed to close multipart writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/transaction/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, authed(req, user))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
