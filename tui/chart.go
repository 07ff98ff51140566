package tui

import (
	"strings"

	"github.com/shopspring/decimal"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one block per sample, scaled between the smallest and
// largest sample. Samples at or above zero are green, the rest red.
func Sparkline(samples []decimal.Decimal) string {
	if len(samples) == 0 {
		return ""
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	span := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(sparkBlocks) - 1))

	var up, down strings.Builder
	var b strings.Builder
	flush := func() {
		if up.Len() > 0 {
			b.WriteString(UpStyle.Render(up.String()))
			up.Reset()
		}
		if down.Len() > 0 {
			b.WriteString(DownStyle.Render(down.String()))
			down.Reset()
		}
	}

	for _, v := range samples {
		i := 0
		if span.IsPositive() {
			i = int(v.Sub(lo).Div(span).Mul(top).Round(0).IntPart())
		}
		if v.IsNegative() {
			if up.Len() > 0 {
				flush()
			}
			down.WriteRune(sparkBlocks[i])
			continue
		}
		if down.Len() > 0 {
			flush()
		}
		up.WriteRune(sparkBlocks[i])
	}
	flush()
	return b.String()
}
