package domain

import "github.com/shopspring/decimal"

// AmountPlaces is the number of decimal places every computed amount is rounded to.
const AmountPlaces = 1

// ZeroAmount is zero at the ledger's scale.
var ZeroAmount = decimal.New(0, -AmountPlaces)

// Stored documents carry amounts as JSON numbers, the layout the browser client reads.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Round rounds d to one decimal place, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// BpsRate converts basis points into a fraction, so 500 becomes 0.05.
func BpsRate(bps int) decimal.Decimal {
	return decimal.New(int64(bps), -4)
}
