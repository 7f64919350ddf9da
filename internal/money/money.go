// Package money provides exact integer subunit types for the two currencies the
// ledger deals in: fiat amounts as cents and Bitcoin amounts as satoshis.
// All ledger arithmetic happens on these integer types so repeated summation
// never accumulates floating-point drift.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SatsPerBTC is the number of satoshis in one whole Bitcoin.
const SatsPerBTC = 100_000_000

// btcExponent is the number of fractional digits a BTC amount can carry.
const btcExponent = 8

// centsExponent is the number of fractional digits a fiat amount can carry.
const centsExponent = 2

// Sats is a Bitcoin quantity in satoshis (1e-8 BTC).
type Sats int64

// Cents is a fiat amount in minor units (1e-2 of the fiat unit).
type Cents int64

// ParseBTC converts a decimal BTC string (e.g. "0.00123456") into satoshis.
// Values are rounded half away from zero at the eighth fractional digit.
// Inputs carrying more than one satoshi of information beyond that digit are
// rejected rather than silently truncated.
func ParseBTC(s string) (Sats, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid BTC amount %q: %w", s, err)
	}
	return BTCToSats(d)
}

// BTCToSats converts a decimal BTC quantity into satoshis, applying the same
// rounding and rejection rules as ParseBTC.
func BTCToSats(d decimal.Decimal) (Sats, error) {
	shifted := d.Shift(btcExponent)
	rounded := shifted.Round(0) // round half away from zero
	if shifted.Sub(rounded).Abs().GreaterThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("BTC amount %s exceeds satoshi precision", d.String())
	}
	if !rounded.IsInteger() || !rounded.BigInt().IsInt64() {
		return 0, fmt.Errorf("BTC amount %s out of range", d.String())
	}
	return Sats(rounded.IntPart()), nil
}

// BTC returns the satoshi quantity as a decimal number of whole Bitcoin.
func (s Sats) BTC() decimal.Decimal {
	return decimal.New(int64(s), -btcExponent)
}

// String renders the quantity as a decimal BTC string with all eight
// fractional digits, e.g. "0.00200000".
func (s Sats) String() string {
	return s.BTC().StringFixed(btcExponent)
}

// ParseUSD converts a decimal fiat string (e.g. "100.00") into cents.
// Amounts with more than two fractional digits of information are rejected.
func ParseUSD(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid fiat amount %q: %w", s, err)
	}
	return USDToCents(d)
}

// USDToCents converts a decimal fiat amount into integer cents, rejecting
// amounts that do not fit the two-digit minor unit exactly.
func USDToCents(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(centsExponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("fiat amount %s has sub-cent precision", d.String())
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("fiat amount %s out of range", d.String())
	}
	return Cents(shifted.IntPart()), nil
}

// Decimal returns the cent amount as a decimal in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -centsExponent)
}

// String renders the amount in major units with two fractional digits,
// e.g. "100.00".
func (c Cents) String() string {
	return c.Decimal().StringFixed(centsExponent)
}
