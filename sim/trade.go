package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is what closing a position paid out.
type Settlement struct {
	Side           Side
	Quantity       int64
	EntryPrice     decimal.Decimal
	ExitPrice      decimal.Decimal
	PnL            decimal.Decimal
	MarginReleased decimal.Decimal
	Balance        decimal.Decimal
}

// openTrade tracks the journal identity of the current position.
type openTrade struct {
	ID   string
	Date time.Time
}
