package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProfitLedgerEmpty(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	_, ok := l.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Since(0))

	n := 0
	for range l.All() {
		n++
	}
	assert.Zero(t, n)

	// an explicit zero is data
	l.Append(decimal.Zero)
	v, ok := l.Last()
	assert.True(t, ok)
	assert.True(t, v.IsZero())
}

func TestProfitLedgerAppendAndIterate(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	for _, s := range []string{"0", "10", "-5", "20"} {
		l.Append(d(s))
	}

	var got []string
	for i, v := range l.All() {
		assert.Equal(t, len(got), i)
		got = append(got, v.String())
	}
	assert.Equal(t, []string{"0", "10", "-5", "20"}, got)

	tail := l.Since(2)
	assert.Len(t, tail, 2)
	assert.True(t, tail[0].Equal(d("-5")))
	assert.Nil(t, l.Since(4))

	// mutating the copy does not reach the ledger
	tail[0] = d("999")
	assert.True(t, l.Since(2)[0].Equal(d("-5")))
}

func TestProfitLedgerAllIsSnapshot(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	l.Append(d("1"))
	l.Append(d("2"))

	seen := 0
	for range l.All() {
		l.Append(d("3"))
		seen++
	}
	assert.Equal(t, 2, seen)
	assert.Equal(t, 4, l.Len())
}

func TestProfitLedgerEarlyBreak(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	for i := 0; i < 5; i++ {
		l.Append(decimal.NewFromInt(int64(i)))
	}
	seen := 0
	for i := range l.All() {
		if i == 1 {
			break
		}
		seen++
	}
	assert.Equal(t, 1, seen)
}

func TestProfitLedgerRealized(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	assert.True(t, l.Realized().IsZero())
	l.Realize(d("20"))
	l.Realize(d("-7.5"))
	assert.True(t, l.Realized().Equal(d("12.5")))
}

func TestProfitLedgerMaxDrawdown(t *testing.T) {
	t.Parallel()

	l := NewProfitLedger()
	assert.True(t, l.MaxDrawdown().IsZero())
	for _, s := range []string{"0", "30", "10", "25", "-5", "40"} {
		l.Append(d(s))
	}
	assert.True(t, l.MaxDrawdown().Equal(d("35")))
}
