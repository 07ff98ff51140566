// Package indicators provides streaming trend indicators over daily closes.
package indicators

import "github.com/shopspring/decimal"

// Indicator computes a single streaming value from closes.
// It is deterministic and safe to use in live games and replays.
type Indicator interface {
	// Name returns a stable identifier like "EMA(10)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next close.
	Update(close decimal.Decimal)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value is zero until Ready.
	Value() decimal.Decimal
}
