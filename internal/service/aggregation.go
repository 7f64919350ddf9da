package service

import (
	"github.com/shopspring/decimal"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/money"
)

// Aggregation over a ledger is pure integer arithmetic: fiat in cents, BTC in
// satoshis. Only the final Summary converts back to decimals for display.
//
// The average price is the unweighted mean of per-transaction prices, not a
// USD-weighted cost basis. That matches the behavior this tracker has always
// shown; changing it would silently move every user's displayed average.

// Summarize computes the aggregate figures over a ledger snapshot.
// An empty snapshot yields all-zero figures, never an error.
func Summarize(transactions []model.Transaction) model.Summary {
	var acc Accumulator
	for _, t := range transactions {
		acc.Add(t)
	}
	return acc.Summary()
}

// Accumulator maintains ledger aggregates incrementally. Adding and then
// removing the same transaction restores the previous state exactly, so an
// accumulator fed any sequence of add/delete operations always agrees with a
// full recompute over the resulting ledger.
type Accumulator struct {
	count      int64
	usdCents   int64
	priceCents int64
	sats       int64
}

// Add folds one transaction into the running aggregates.
func (a *Accumulator) Add(t model.Transaction) {
	a.count++
	a.usdCents += int64(t.UsdCents)
	a.priceCents += int64(t.BtcPriceCents)
	a.sats += int64(t.BtcSats)
}

// Remove reverses a prior Add of the same transaction.
func (a *Accumulator) Remove(t model.Transaction) {
	a.count--
	a.usdCents -= int64(t.UsdCents)
	a.priceCents -= int64(t.BtcPriceCents)
	a.sats -= int64(t.BtcSats)
}

// Summary converts the running integer aggregates into a Summary.
func (a *Accumulator) Summary() model.Summary {
	return summaryFromTotals(a.count, a.usdCents, a.priceCents, a.sats)
}

// summaryFromTotals builds a Summary from integer subunit totals. The average
// price is rounded to the cent, the precision prices are stored at.
func summaryFromTotals(count, usdCents, priceCents, sats int64) model.Summary {
	summary := model.Summary{
		Count:          int(count),
		TotalUsdSpent:  money.Cents(usdCents).Decimal(),
		AvgBtcPrice:    decimal.Zero,
		TotalBtcBought: money.Sats(sats).BTC(),
		TotalBtcSats:   sats,
	}
	if count > 0 {
		summary.AvgBtcPrice = money.Cents(priceCents).Decimal().
			Div(decimal.NewFromInt(count)).
			Round(2)
	}
	return summary
}
