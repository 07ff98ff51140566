package indicators

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimpleMA is a streaming Simple Moving Average.
type SimpleMA struct {
	period int
	closes []decimal.Decimal
	sum    decimal.Decimal
}

// NewMA panics if period is not positive.
func NewMA(period int) *SimpleMA {
	if period <= 0 {
		panic(fmt.Sprintf("indicators: period must be positive, got %d", period))
	}
	return &SimpleMA{
		period: period,
		closes: make([]decimal.Decimal, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("MA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int {
	return m.period
}

func (m *SimpleMA) Reset() {
	m.closes = m.closes[:0]
	m.sum = decimal.Zero
}

func (m *SimpleMA) Update(c decimal.Decimal) {
	m.closes = append(m.closes, c)
	m.sum = m.sum.Add(c)
	// Keep only the last 'period' closes
	if len(m.closes) > m.period {
		m.sum = m.sum.Sub(m.closes[0])
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool {
	return len(m.closes) >= m.period
}

func (m *SimpleMA) Value() decimal.Decimal {
	if !m.Ready() {
		return decimal.Zero
	}
	return m.sum.Div(decimal.NewFromInt(int64(len(m.closes))))
}

// ExponentialMA is a streaming Exponential Moving Average seeded with the
// simple average of its first period closes.
type ExponentialMA struct {
	period     int
	multiplier decimal.Decimal
	ema        decimal.Decimal
	count      int
	warmupSum  decimal.Decimal
}

// NewEMA panics if period is not positive.
func NewEMA(period int) *ExponentialMA {
	if period <= 0 {
		panic(fmt.Sprintf("indicators: period must be positive, got %d", period))
	}
	return &ExponentialMA{
		period:     period,
		multiplier: decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1))),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = decimal.Zero
	e.count = 0
	e.warmupSum = decimal.Zero
}

func (e *ExponentialMA) Update(c decimal.Decimal) {
	if e.count < e.period {
		e.warmupSum = e.warmupSum.Add(c)
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum.Div(decimal.NewFromInt(int64(e.period)))
		}
		return
	}
	e.ema = c.Sub(e.ema).Mul(e.multiplier).Add(e.ema)
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() decimal.Decimal {
	if !e.Ready() {
		return decimal.Zero
	}
	return e.ema
}
