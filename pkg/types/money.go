package types

import "github.com/shopspring/decimal"

// DisplayAmount renders an integer amount in the smallest currency unit
// as a fixed two-decimal string for API payloads ("1999" -> "19.99").
func DisplayAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
