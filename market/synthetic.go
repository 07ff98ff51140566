package market

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// pricePlaces bounds the precision of generated prices.
const pricePlaces = 4

// Perturb returns a copy of base whose closes, from the third day on, follow
// a random walk anchored at the previous day: close[i] = close[i-1] * |1 - z/100|
// with z drawn from a standard normal. Dates are unchanged.
func Perturb(base *PriceSeries, rng *rand.Rand) (*PriceSeries, error) {
	points := base.Points()
	for i := 2; i < len(points); i++ {
		points[i].Close = step(points[i-1].Close, rng)
	}
	return NewPriceSeries(points)
}

// Synthetic builds a fresh weekday-only series of the given length starting at
// start (moved forward to a weekday) and open, using the same walk as Perturb.
func Synthetic(start time.Time, days int, open decimal.Decimal, rng *rand.Rand) (*PriceSeries, error) {
	if days < 1 {
		return nil, &ValidationError{Index: -1, Reason: fmt.Sprintf("cannot generate %d days", days)}
	}

	points := make([]PricePoint, 0, days)
	day := nextWeekday(CalendarDay(start))
	price := open
	for i := 0; i < days; i++ {
		if i > 0 {
			day = nextWeekday(day.AddDate(0, 0, 1))
			price = step(price, rng)
		}
		points = append(points, PricePoint{Date: day, Close: price})
	}
	return NewPriceSeries(points)
}

func step(prev decimal.Decimal, rng *rand.Rand) decimal.Decimal {
	factor := math.Abs(1 - rng.NormFloat64()/100)
	next := prev.Mul(decimal.NewFromFloat(factor)).Round(pricePlaces)
	if !next.IsPositive() {
		return prev
	}
	return next
}

func nextWeekday(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
