package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/middleware"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/response"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

// maxImportSize bounds the accepted CSV upload size.
const maxImportSize = 10 << 20 // 10 MiB

// TransactionHandler handles HTTP requests for ledger endpoints. It serves as
// the HTTP layer adapter, parsing requests and delegating business logic to
// the ledger, import and price services.
type TransactionHandler struct {
	ledgerService *service.LedgerService
	importService *service.ImportService
	priceService  *service.PriceService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(ledgerService *service.LedgerService, importService *service.ImportService, priceService *service.PriceService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		importService: importService,
		priceService:  priceService,
	}
}

// CreateTransactionResponse is the create response: the new transaction plus
// the authoritative post-mutation summary, so clients need no follow-up read.
type CreateTransactionResponse struct {
	Transaction model.TransactionResponse `json:"transaction"`
	Summary     model.Summary             `json:"summary"`
}

// DeleteTransactionResponse carries the post-mutation summary after a delete.
type DeleteTransactionResponse struct {
	Summary model.Summary `json:"summary"`
}

// ListTransactions handles GET requests for the authenticated user's ledger.
// Transactions are sorted by date ascending, stable on ties.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of TransactionResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	transactions, err := h.ledgerService.GetTransactions(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	responses := make([]model.TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = t.Response()
	}

	response.RespondJSON(w, http.StatusOK, responses)
}

// CreateTransaction handles POST requests to record a purchase.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (date, usd_spent, btc_price, btc_bought)
// Response: 201 Created with CreateTransactionResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, summary, err := h.ledgerService.CreateTransaction(r.Context(), user.ID, req)
	if err != nil {
		if isValidationError(err) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, CreateTransactionResponse{
		Transaction: transaction.Response(),
		Summary:     summary,
	})
}

// DeleteTransaction handles DELETE requests to remove a transaction.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 200 OK with DeleteTransactionResponse
// Error: 400 Bad Request if the transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	transactionID := chi.URLParam(r, "uuid")

	summary, err := h.ledgerService.DeleteTransaction(r.Context(), user.ID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, DeleteTransactionResponse{Summary: summary})
}

// BulkDeleteTransactions handles POST requests to delete a set of transactions.
// Every ID is attempted independently; the response reports which succeeded
// and which failed, plus the summary after the whole batch.
//
// Endpoint: POST /api/transaction/bulk-delete
// Request Body: BulkDeleteRequest (ids)
// Response: 200 OK with BulkDeleteResult
// Error: 400 Bad Request if the body is invalid or ids is empty
// Error: 500 Internal Server Error if the batch could not run
func (h *TransactionHandler) BulkDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	req, err := parseJSON[request.BulkDeleteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if len(req.IDs) == 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "ids cannot be empty")
		return
	}

	result, err := h.ledgerService.DeleteTransactions(r.Context(), user.ID, req.IDs)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transactions", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Summary handles GET requests for the aggregate figures over the ledger.
//
// Endpoint: GET /api/transaction/summary
// Response: 200 OK with Summary
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	summary, err := h.ledgerService.Summarize(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Valuation handles GET requests for the mark-to-market view of the ledger.
//
// The effective price is, in order of precedence: the price query parameter
// (a manual override, rejected if not a positive decimal), then the oracle
// quote for the requested currency. When the oracle is unavailable and no
// override is given, the response still carries the ledger figures with
// price_available=false.
//
// Endpoint: GET /api/transaction/valuation?currency=usd&price=61234.50
// Response: 200 OK with Valuation
// Error: 400 Bad Request if the price override is invalid
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *TransactionHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	currency := strings.ToLower(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = "usd"
	}

	var price *decimal.Decimal
	if override := r.URL.Query().Get("price"); override != "" {
		parsed, err := decimal.NewFromString(override)
		if err != nil || !parsed.IsPositive() {
			response.RespondError(w, http.StatusBadRequest, "validation failed", "price must be a positive decimal")
			return
		}
		price = &parsed
	} else if quote, err := h.priceService.GetPrice(r.Context(), currency); err == nil {
		price = &quote.Price
	}

	transactions, err := h.ledgerService.GetTransactions(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, service.BuildValuation(transactions, currency, price))
}

// ImportTransactions handles POST requests to bulk-import purchases from a
// CSV file upload. Rows fail or succeed independently; the response reports
// per-row failures and the summary after the batch.
//
// Endpoint: POST /api/transaction/import (multipart/form-data, field "file")
// Response: 200 OK with ImportResult
// Error: 400 Bad Request if the file is missing or its headers are invalid
// Error: 500 Internal Server Error if the import could not run
func (h *TransactionHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.RespondError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(r.Context(), user.ID, file)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCSVHeaders) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCSVHeaders.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
