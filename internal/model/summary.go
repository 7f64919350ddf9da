package model

import "github.com/shopspring/decimal"

// Summary holds aggregate figures over one user's ledger. It is derived state:
// always reconstructible from the transactions and never a source of truth.
type Summary struct {
	Count          int             `json:"count"`
	TotalUsdSpent  decimal.Decimal `json:"total_usd_spent"`
	AvgBtcPrice    decimal.Decimal `json:"avg_btc_price"`
	TotalBtcBought decimal.Decimal `json:"total_btc_bought"`
	TotalBtcSats   int64           `json:"total_btc_bought_sats"`
}

// Valuation joins a ledger snapshot with a current price quote. When no price
// is available the mark-to-market fields are omitted rather than zeroed.
type Valuation struct {
	Summary        Summary          `json:"summary"`
	PriceAvailable bool             `json:"price_available"`
	Currency       string           `json:"currency,omitempty"`
	BtcPrice       *decimal.Decimal `json:"btc_price,omitempty"`
	SumBtcValue    *decimal.Decimal `json:"sum_btc_value_today,omitempty"`
	GainOrLoss     *decimal.Decimal `json:"gain_or_loss,omitempty"`
	GainOrLossPct  *decimal.Decimal `json:"gain_or_loss_percent,omitempty"`
	Rows           []ValuationRow   `json:"rows"`
}

// ValuationRow is the per-transaction display row: the stored purchase fields
// plus the mark-to-market value at the effective price.
type ValuationRow struct {
	TransactionResponse
	BtcValueToday *decimal.Decimal `json:"btc_value_today,omitempty"`
}
