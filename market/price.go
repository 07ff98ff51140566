package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date key used across the game (news files,
// leaderboard play dates, replay scripts).
const DateLayout = "2006-01-02"

// ErrInvalidSeries is matched by every ValidationError.
var ErrInvalidSeries = errors.New("invalid price series")

// PricePoint is one trading day: the calendar date and its closing price.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// Day returns the point's date formatted with DateLayout.
func (p PricePoint) Day() string {
	return p.Date.Format(DateLayout)
}

// ValidationError reports why a sequence of points cannot form a series.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid price series: %s", e.Reason)
	}
	return fmt.Sprintf("invalid price series at row %d: %s", e.Index, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSeries }

// CalendarDay truncates t to midnight UTC of the calendar day it falls on in
// its own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a DateLayout string into a UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
