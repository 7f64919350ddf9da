package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
)

// Transaction represents a single Bitcoin purchase belonging to one user.
// Monetary fields are stored as exact integer subunits: fiat amounts in cents,
// Bitcoin quantities in satoshis.
type Transaction struct {
	ID            string
	UserID        string
	Date          time.Time
	UsdCents      money.Cents
	BtcPriceCents money.Cents
	BtcSats       money.Sats
	CreatedAt     time.Time
}

// TransactionResponse is the wire representation of a transaction.
// Fiat amounts are rendered as two-digit decimals, the Bitcoin quantity both
// as integer satoshis and as an eight-digit decimal for display.
type TransactionResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	UsdSpent  decimal.Decimal `json:"usd_spent"`
	BtcPrice  decimal.Decimal `json:"btc_price"`
	BtcSats   int64           `json:"btc_bought_sats"`
	BtcBought decimal.Decimal `json:"btc_bought"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}

// Response converts a stored transaction into its wire representation.
func (t Transaction) Response() TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Date:      t.Date.Format("2006-01-02"),
		UsdSpent:  t.UsdCents.Decimal(),
		BtcPrice:  t.BtcPriceCents.Decimal(),
		BtcSats:   int64(t.BtcSats),
		BtcBought: t.BtcSats.BTC(),
		CreatedAt: t.CreatedAt,
	}
}
