package handlers

import (
	"net/http"
	"strings"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/response"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

// PriceHandler handles HTTP requests for Bitcoin price quotes.
type PriceHandler struct {
	priceService    *service.PriceService
	defaultCurrency string
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceService, defaultCurrency string) *PriceHandler {
	return &PriceHandler{
		priceService:    priceService,
		defaultCurrency: defaultCurrency,
	}
}

// Price handles GET requests for the current Bitcoin price.
//
// Endpoint: GET /api/bitcoin/price?currency=usd
// Response: 200 OK with PriceQuote
// Error: 502 Bad Gateway if the upstream price source is unavailable
func (h *PriceHandler) Price(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToLower(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = h.defaultCurrency
	}

	quote, err := h.priceService.GetPrice(r.Context(), currency)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, "bitcoin price unavailable", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}
