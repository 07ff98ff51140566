package sim

import "github.com/shopspring/decimal"

// PnL is the profit of a signed position moved from entry to exit. Longs
// gain when price rises, shorts when it falls.
func PnL(entry, exit decimal.Decimal, position, lotSize int64) decimal.Decimal {
	if position == 0 {
		return decimal.Zero
	}
	return exit.Sub(entry).Mul(decimal.NewFromInt(position)).Mul(decimal.NewFromInt(lotSize))
}
