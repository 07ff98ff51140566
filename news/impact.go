// Package news decides what headline, if any, accompanies each trading day
// and how a random headline moves that day's price.
package news

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Impact classifies how a headline moves the price.
type Impact int

const (
	NoImpact Impact = iota
	Bullish
	StrongBullish
	Bearish
	StrongBearish
)

var (
	mulBullish       = decimal.RequireFromString("1.01")
	mulStrongBullish = decimal.RequireFromString("1.02")
	mulBearish       = decimal.RequireFromString("0.99")
	mulStrongBearish = decimal.RequireFromString("0.98")
)

// Multiplier is the factor applied to the base price on the day the
// headline runs.
func (i Impact) Multiplier() decimal.Decimal {
	switch i {
	case Bullish:
		return mulBullish
	case StrongBullish:
		return mulStrongBullish
	case Bearish:
		return mulBearish
	case StrongBearish:
		return mulStrongBearish
	default:
		return decimal.NewFromInt(1)
	}
}

func (i Impact) String() string {
	switch i {
	case Bullish:
		return "bullish"
	case StrongBullish:
		return "strong_bullish"
	case Bearish:
		return "bearish"
	case StrongBearish:
		return "strong_bearish"
	default:
		return "none"
	}
}

// ParseImpact accepts the names produced by String.
func ParseImpact(s string) (Impact, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		return Bullish, nil
	case "strong_bullish", "strong-bullish":
		return StrongBullish, nil
	case "bearish":
		return Bearish, nil
	case "strong_bearish", "strong-bearish":
		return StrongBearish, nil
	case "", "none":
		return NoImpact, nil
	}
	return NoImpact, fmt.Errorf("unknown impact %q", s)
}

// Color is the presentation class of a day's headline.
type Color string

const (
	ColorNone          Color = ""
	ColorScripted      Color = "scripted"
	ColorBullish       Color = "bullish"
	ColorStrongBullish Color = "strong-bullish"
	ColorBearish       Color = "bearish"
	ColorStrongBearish Color = "strong-bearish"
)

func (i Impact) Color() Color {
	switch i {
	case Bullish:
		return ColorBullish
	case StrongBullish:
		return ColorStrongBullish
	case Bearish:
		return ColorBearish
	case StrongBearish:
		return ColorStrongBearish
	default:
		return ColorNone
	}
}
