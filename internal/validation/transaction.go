package validation

import (
	"strings"
	"time"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - usd_spent: Must be positive with at most two fractional digits
//   - btc_price: Must be positive with at most two fractional digits
//   - btc_bought: Must be a positive satoshi count
//
// The three numeric fields are accepted independently; no cross-check is made
// that usd_spent / btc_price matches btc_bought. The ledger stores what the
// caller reports, not what the arithmetic implies.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if !req.UsdSpent.IsPositive() {
		errors["usd_spent"] = "usd_spent must be positive"
	} else if _, err := money.USDToCents(req.UsdSpent); err != nil {
		errors["usd_spent"] = err.Error()
	}

	if !req.BtcPrice.IsPositive() {
		errors["btc_price"] = "btc_price must be positive"
	} else if _, err := money.USDToCents(req.BtcPrice); err != nil {
		errors["btc_price"] = err.Error()
	}

	if req.BtcSats <= 0 {
		errors["btc_bought"] = "btc_bought must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
