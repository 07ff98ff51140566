package news

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpactMultipliers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		impact Impact
		want   string
		color  Color
	}{
		{Bullish, "1.01", ColorBullish},
		{StrongBullish, "1.02", ColorStrongBullish},
		{Bearish, "0.99", ColorBearish},
		{StrongBearish, "0.98", ColorStrongBearish},
		{NoImpact, "1", ColorNone},
	}
	for _, tt := range tests {
		assert.True(t, tt.impact.Multiplier().Equal(decimal.RequireFromString(tt.want)), tt.impact.String())
		assert.Equal(t, tt.color, tt.impact.Color())

		back, err := ParseImpact(tt.impact.String())
		require.NoError(t, err)
		assert.Equal(t, tt.impact, back)
	}

	_, err := ParseImpact("sideways")
	assert.Error(t, err)
}

func TestNewPoolValidates(t *testing.T) {
	t.Parallel()

	_, err := NewPool(nil)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = NewPool([]Event{{Text: "x", Impact: Bullish, Weight: 0}})
	assert.Error(t, err)

	_, err = NewPool([]Event{{Text: "x", Weight: 1}})
	assert.Error(t, err)

	_, err = NewPool([]Event{{Impact: Bullish, Weight: 1}})
	assert.Error(t, err)

	assert.Equal(t, 9, DefaultPool().Len())
}

func TestPoolDrawFollowsWeights(t *testing.T) {
	t.Parallel()

	p, err := NewPool([]Event{
		{Text: "heavy", Impact: Bullish, Weight: 9},
		{Text: "light", Impact: Bearish, Weight: 1},
	})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(42, 42))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[p.Draw(rng).Text]++
	}
	assert.InDelta(t, 9000, counts["heavy"], 300)
	assert.InDelta(t, 1000, counts["light"], 300)
}

func TestModelScriptedDoesNotMovePrice(t *testing.T) {
	t.Parallel()

	m, err := NewModel(Options{
		Script:      BuiltinScript(),
		Pool:        DefaultPool(),
		Probability: 1,
		Rand:        rand.New(rand.NewPCG(1, 1)),
	})
	require.NoError(t, err)

	base := decimal.RequireFromString("780.5")
	out := m.Apply("2008-09-15", base)
	assert.Contains(t, out.Text, "Lehman")
	assert.Equal(t, ColorScripted, out.Color)
	assert.False(t, out.Adjusted)
	assert.True(t, out.Price.Equal(base))
	assert.True(t, m.Scripted("2008-09-15"))
}

func TestModelDecisionIsStablePerDate(t *testing.T) {
	t.Parallel()

	m, err := NewModel(Options{
		Pool:        DefaultPool(),
		Probability: 0.5,
		Rand:        rand.New(rand.NewPCG(9, 9)),
	})
	require.NoError(t, err)

	base := decimal.NewFromInt(900)
	first := make(map[string]Outcome)
	start := time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		first[d] = m.Apply(d, base)
	}
	for d, want := range first {
		got := m.Apply(d, base)
		assert.Equal(t, want.Text, got.Text, d)
		assert.True(t, want.Price.Equal(got.Price), d)
	}
}

func TestModelSeedReproducible(t *testing.T) {
	t.Parallel()

	run := func(seed uint64) []decimal.Decimal {
		m, err := NewModel(Options{
			Pool:        DefaultPool(),
			Probability: DefaultProbability,
			Rand:        rand.New(rand.NewPCG(seed, seed)),
		})
		require.NoError(t, err)
		start := time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)
		prices := make([]decimal.Decimal, 253)
		for i := range prices {
			d := start.AddDate(0, 0, i).Format("2006-01-02")
			prices[i] = m.Apply(d, decimal.NewFromInt(int64(800+i))).Price
		}
		return prices
	}

	a, b := run(2008), run(2008)
	adjusted := 0
	for i := range a {
		assert.True(t, a[i].Equal(b[i]), "day %d", i)
		if !a[i].Equal(decimal.NewFromInt(int64(800 + i))) {
			adjusted++
		}
	}
	// roughly one day in five carries a random headline
	assert.Greater(t, adjusted, 20)
	assert.Less(t, adjusted, 90)
}

func TestModelWithoutPool(t *testing.T) {
	t.Parallel()

	m, err := NewModel(Options{Probability: 1})
	require.NoError(t, err)
	out := m.Apply("2008-03-03", decimal.NewFromInt(970))
	assert.Empty(t, out.Text)
	assert.False(t, out.Adjusted)

	_, err = NewModel(Options{Probability: 1.5})
	assert.Error(t, err)
	_, err = NewModel(Options{Pool: DefaultPool(), Probability: 0.2})
	assert.Error(t, err)
}

func TestLoadScriptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "my_news.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"2008-03-17": "Bear Stearns sold to JPMorgan",
		"2008-10-08": ["Coordinated rate cut", "Gold spikes"]
	}`), 0o644))

	s, err := LoadScriptFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Bear Stearns sold to JPMorgan", s["2008-03-17"])
	assert.Equal(t, "Coordinated rate cut；Gold spikes", s["2008-10-08"])

	merged := BuiltinScript().Merge(s)
	assert.Len(t, merged, 6)
}

func TestLoadScriptFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadScriptFile(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)

	_, err = ParseScript([]byte(`{"not a date": "x"}`))
	assert.Error(t, err)

	_, err = ParseScript([]byte(`[1, 2]`))
	assert.Error(t, err)
}
