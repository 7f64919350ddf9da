package model

import "github.com/shopspring/decimal"

// PriceQuote is a current Bitcoin price in a single fiat currency.
// Cached reports whether the quote was served from the short-lived cache
// rather than fetched from the upstream source.
type PriceQuote struct {
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	Cached   bool            `json:"cached"`
}
