package sim

import "github.com/shopspring/decimal"

// DefaultMarginRate reserves 10% of notional while a position is open.
var DefaultMarginRate = decimal.RequireFromString("0.10")

// Margin is the capital reserved for qty lots at price.
func Margin(price decimal.Decimal, qty int64, rate decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(abs(qty))).Mul(rate)
}
