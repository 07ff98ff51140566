package journal

import (
	"iter"

	"github.com/shopspring/decimal"
)

// ProfitLedger is the per-tick profit curve of one game: realized profit to
// date plus the floating P&L of the open position. It only grows.
type ProfitLedger struct {
	samples  []decimal.Decimal
	realized decimal.Decimal
}

func NewProfitLedger() *ProfitLedger {
	return &ProfitLedger{}
}

// Append adds one sample.
func (l *ProfitLedger) Append(v decimal.Decimal) {
	l.samples = append(l.samples, v)
}

// Realize adds a closed trade's P&L to the running realized total.
func (l *ProfitLedger) Realize(pnl decimal.Decimal) {
	l.realized = l.realized.Add(pnl)
}

func (l *ProfitLedger) Realized() decimal.Decimal { return l.realized }

func (l *ProfitLedger) Len() int { return len(l.samples) }

// Last returns the newest sample. ok is false when nothing has been
// recorded, which is not the same as a zero profit.
func (l *ProfitLedger) Last() (decimal.Decimal, bool) {
	if len(l.samples) == 0 {
		return decimal.Zero, false
	}
	return l.samples[len(l.samples)-1], true
}

// All yields (tick, profit) for the samples present when All was called.
// Samples appended during iteration are not visited.
func (l *ProfitLedger) All() iter.Seq2[int, decimal.Decimal] {
	snap := l.samples[:len(l.samples):len(l.samples)]
	return func(yield func(int, decimal.Decimal) bool) {
		for i, v := range snap {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Since returns a copy of the samples from index n on, for incremental
// chart redraws. n past the end yields an empty slice.
func (l *ProfitLedger) Since(n int) []decimal.Decimal {
	if n < 0 {
		n = 0
	}
	if n >= len(l.samples) {
		return nil
	}
	out := make([]decimal.Decimal, len(l.samples)-n)
	copy(out, l.samples[n:])
	return out
}

// MaxDrawdown is the largest peak-to-trough fall of the curve, measured in
// money. It is zero for a curve that never falls.
func (l *ProfitLedger) MaxDrawdown() decimal.Decimal {
	var peak, dd decimal.Decimal
	for i, v := range l.samples {
		if i == 0 || v.GreaterThan(peak) {
			peak = v
		}
		if d := peak.Sub(v); d.GreaterThan(dd) {
			dd = d
		}
	}
	return dd
}
