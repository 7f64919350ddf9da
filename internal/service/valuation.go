package service

import (
	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// BuildValuation joins a ledger snapshot with an effective price quote into
// the figures a display surface needs. Pure function: no I/O, no stored state.
//
// Per-row values are computed from the raw ledger rows rather than the
// Summary, because the price is volatile and never part of the persisted
// aggregate. When price is nil the mark-to-market fields are left unset and
// PriceAvailable is false; the ledger figures are still returned.
func BuildValuation(transactions []model.Transaction, currency string, price *decimal.Decimal) model.Valuation {
	valuation := model.Valuation{
		Summary:        Summarize(transactions),
		PriceAvailable: price != nil,
		Currency:       currency,
		Rows:           make([]model.ValuationRow, len(transactions)),
	}

	sum := decimal.Zero
	for i, t := range transactions {
		row := model.ValuationRow{TransactionResponse: t.Response()}
		if price != nil {
			value := t.BtcSats.BTC().Mul(*price)
			sum = sum.Add(value)
			rounded := value.Round(2)
			row.BtcValueToday = &rounded
		}
		valuation.Rows[i] = row
	}

	if price != nil {
		valuation.BtcPrice = price

		sumRounded := sum.Round(2)
		valuation.SumBtcValue = &sumRounded

		gain := sum.Sub(valuation.Summary.TotalUsdSpent).Round(2)
		valuation.GainOrLoss = &gain

		pct := decimal.Zero
		if !valuation.Summary.TotalUsdSpent.IsZero() {
			pct = gain.Div(valuation.Summary.TotalUsdSpent).Mul(oneHundred).Round(2)
		}
		valuation.GainOrLossPct = &pct
	}

	return valuation
}
