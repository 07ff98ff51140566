package market

import (
	"fmt"
)

// PriceSeries is an ordered, validated run of daily closes. It is never
// modified after construction; accessors hand out copies.
type PriceSeries struct {
	points []PricePoint
}

// NewPriceSeries validates points and builds a series. Dates are normalized
// to UTC calendar days, must be strictly increasing, and every close must be
// positive. An empty input is rejected.
func NewPriceSeries(points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, &ValidationError{Index: -1, Reason: "no price rows"}
	}

	out := make([]PricePoint, len(points))
	for i, p := range points {
		if p.Date.IsZero() {
			return nil, &ValidationError{Index: i, Reason: "missing date"}
		}
		if !p.Close.IsPositive() {
			return nil, &ValidationError{Index: i, Reason: fmt.Sprintf("close %s is not positive", p.Close)}
		}
		day := CalendarDay(p.Date)
		if i > 0 && !day.After(out[i-1].Date) {
			return nil, &ValidationError{
				Index:  i,
				Reason: fmt.Sprintf("date %s does not follow %s", day.Format(DateLayout), out[i-1].Day()),
			}
		}
		out[i] = PricePoint{Date: day, Close: p.Close}
	}

	return &PriceSeries{points: out}, nil
}

// Len is the number of trading days in the series.
func (s *PriceSeries) Len() int {
	return len(s.points)
}

// At returns the i-th day.
func (s *PriceSeries) At(i int) (PricePoint, error) {
	if i < 0 || i >= len(s.points) {
		return PricePoint{}, fmt.Errorf("price index %d out of range [0,%d)", i, len(s.points))
	}
	return s.points[i], nil
}

// First returns the opening day of the series.
func (s *PriceSeries) First() PricePoint { return s.points[0] }

// Last returns the final day of the series.
func (s *PriceSeries) Last() PricePoint { return s.points[len(s.points)-1] }

// Points returns a copy of the underlying days.
func (s *PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.points))
	copy(out, s.points)
	return out
}
