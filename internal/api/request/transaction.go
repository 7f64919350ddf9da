package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body for recording a purchase. Fiat fields
// accept JSON numbers or strings; btc_bought is given in integer satoshis.
type CreateTransactionRequest struct {
	Date     string          `json:"date"`
	UsdSpent decimal.Decimal `json:"usd_spent"`
	BtcPrice decimal.Decimal `json:"btc_price"`
	BtcSats  int64           `json:"btc_bought"`
}

// BulkDeleteRequest is the body for deleting a set of transactions by ID.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
