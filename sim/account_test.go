package sim

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func newAccount(t *testing.T, balance string) *Account {
	t.Helper()
	cfg := DefaultAccountConfig()
	cfg.InitialBalance = dec(balance)
	a, err := NewAccount(cfg)
	require.NoError(t, err)
	return a
}

func TestAccountLongScenario(t *testing.T) {
	t.Parallel()

	a := newAccount(t, "10000")

	margin, err := a.Open(Long, dec("1000"), 1)
	require.NoError(t, err)
	assertDec(t, "100", margin)
	assertDec(t, "9900", a.Balance())
	assert.Equal(t, int64(1), a.Position())
	assertDec(t, "1000", a.EntryPrice())

	assertDec(t, "10", a.FloatingPnL(dec("1010")))

	s, err := a.Close(dec("1020"))
	require.NoError(t, err)
	assertDec(t, "20", s.PnL)
	assertDec(t, "100", s.MarginReleased)
	assertDec(t, "10020", s.Balance)
	assertDec(t, "10020", a.Balance())
	assert.Equal(t, Long, s.Side)
	assert.True(t, a.Flat())
	assert.True(t, a.EntryPrice().IsZero())
}

func TestAccountShortScenario(t *testing.T) {
	t.Parallel()

	a := newAccount(t, "10020")

	margin, err := a.Open(Short, dec("950"), 2)
	require.NoError(t, err)
	assertDec(t, "190", margin)
	assertDec(t, "9830", a.Balance())
	assert.Equal(t, int64(-2), a.Position())

	s, err := a.Close(dec("940"))
	require.NoError(t, err)
	assertDec(t, "20", s.PnL)
	assertDec(t, "190", s.MarginReleased)
	assertDec(t, "10040", a.Balance())
	assert.Equal(t, Short, s.Side)
	assert.Equal(t, int64(2), s.Quantity)
}

func TestAccountCloseWhenFlat(t *testing.T) {
	t.Parallel()

	a := newAccount(t, "10000")
	_, err := a.Close(dec("1000"))
	assert.ErrorIs(t, err, ErrNoOpenPosition)
	assertDec(t, "10000", a.Balance())
	assert.True(t, a.Flat())
}

func TestAccountRoundTripIdentity(t *testing.T) {
	t.Parallel()

	prices := []string{"0.01", "1", "857.25", "1000", "1012.3456", "99999.99"}
	qtys := []int64{1, 2, 7, 50}
	for _, p := range prices {
		for _, q := range qtys {
			for _, side := range []Side{Long, Short} {
				a := newAccount(t, "10000000")
				before := a.Balance()

				_, err := a.Open(side, dec(p), q)
				require.NoError(t, err)
				s, err := a.Close(dec(p))
				require.NoError(t, err)

				assert.True(t, s.PnL.IsZero(), "%s %s x%d", side, p, q)
				assert.True(t, before.Equal(a.Balance()), "%s %s x%d: %s != %s", side, p, q, before, a.Balance())
			}
		}
	}
}

func TestAccountFloatingPnLIsPure(t *testing.T) {
	t.Parallel()

	a := newAccount(t, "10000")
	_, err := a.Open(Short, dec("900"), 3)
	require.NoError(t, err)

	balance, pos, entry := a.Balance(), a.Position(), a.EntryPrice()
	for i := 0; i < 100; i++ {
		assertDec(t, "-30", a.FloatingPnL(dec("910")))
	}
	assert.True(t, balance.Equal(a.Balance()))
	assert.Equal(t, pos, a.Position())
	assert.True(t, entry.Equal(a.EntryPrice()))

	flat := newAccount(t, "10000")
	assert.True(t, flat.FloatingPnL(dec("1234")).IsZero())
}

func TestAccountSecondOpenRejected(t *testing.T) {
	t.Parallel()

	for _, second := range []Side{Long, Short} {
		a := newAccount(t, "10000")
		_, err := a.Open(Long, dec("1000"), 1)
		require.NoError(t, err)

		balance, pos, entry := a.Balance(), a.Position(), a.EntryPrice()
		_, err = a.Open(second, dec("1005"), 1)
		assert.ErrorIs(t, err, ErrPositionAlreadyOpen)
		assert.True(t, balance.Equal(a.Balance()))
		assert.Equal(t, pos, a.Position())
		assert.True(t, entry.Equal(a.EntryPrice()))
	}
}

func TestAccountInsufficientFunds(t *testing.T) {
	t.Parallel()

	a := newAccount(t, "99.99")
	_, err := a.Open(Long, dec("1000"), 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assertDec(t, "99.99", a.Balance())
	assert.True(t, a.Flat())

	// exactly enough is allowed
	b := newAccount(t, "100")
	_, err = b.Open(Long, dec("1000"), 1)
	require.NoError(t, err)
	assert.True(t, b.Balance().IsZero())
}

func TestAccountValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		side  Side
		price string
		qty   int64
	}{
		{"zero quantity", Long, "1000", 0},
		{"negative quantity", Short, "1000", -1},
		{"zero price", Long, "0", 1},
		{"negative price", Long, "-5", 1},
		{"bad side", Side(0), "1000", 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := newAccount(t, "10000")
			_, err := a.Open(tt.side, dec(tt.price), tt.qty)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
			assertDec(t, "10000", a.Balance())
			assert.True(t, a.Flat())
		})
	}

	a := newAccount(t, "10000")
	_, err := a.Open(Long, dec("1000"), 1)
	require.NoError(t, err)
	_, err = a.Close(dec("0"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(1), a.Position())
}

func TestNewAccountValidation(t *testing.T) {
	t.Parallel()

	bad := []AccountConfig{
		{InitialBalance: dec("0"), LotSize: 1, MarginRate: DefaultMarginRate},
		{InitialBalance: dec("100"), LotSize: 0, MarginRate: DefaultMarginRate},
		{InitialBalance: dec("100"), LotSize: 1, MarginRate: dec("0")},
		{InitialBalance: dec("100"), LotSize: 1, MarginRate: dec("1.5")},
	}
	for _, cfg := range bad {
		_, err := NewAccount(cfg)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestAccountLotSizeAndEquity(t *testing.T) {
	t.Parallel()

	a, err := NewAccount(AccountConfig{InitialBalance: dec("100000"), LotSize: 100, MarginRate: DefaultMarginRate})
	require.NoError(t, err)

	_, err = a.Open(Long, dec("800"), 2)
	require.NoError(t, err)
	assertDec(t, "160", a.MarginUsed())
	assertDec(t, "2000", a.FloatingPnL(dec("810")))
	assertDec(t, "102000", a.Equity(dec("810")))
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	s, err := ParseSide("BUY")
	require.NoError(t, err)
	assert.Equal(t, Long, s)
	s, err = ParseSide("short")
	require.NoError(t, err)
	assert.Equal(t, Short, s)
	_, err = ParseSide("hold")
	assert.ErrorIs(t, err, ErrValidation)
}
