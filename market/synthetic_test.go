package market

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticIsSeedReproducible(t *testing.T) {
	t.Parallel()

	start := day(2008, 1, 1)
	a, err := Synthetic(start, 253, px("840"), rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := Synthetic(start, 253, px("840"), rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	c, err := Synthetic(start, 253, px("840"), rand.New(rand.NewPCG(8, 8)))
	require.NoError(t, err)

	assert.Equal(t, 253, a.Len())
	assert.Equal(t, a.Points(), b.Points())
	assert.NotEqual(t, a.Points(), c.Points())

	for _, p := range a.Points() {
		assert.NotEqual(t, time.Saturday, p.Date.Weekday())
		assert.NotEqual(t, time.Sunday, p.Date.Weekday())
		assert.True(t, p.Close.IsPositive())
	}
	assert.True(t, a.First().Close.Equal(px("840")))
}

func TestPerturbKeepsFirstTwoDays(t *testing.T) {
	t.Parallel()

	base, err := Synthetic(day(2008, 1, 1), 20, px("900"), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	out, err := Perturb(base, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.Equal(t, base.Len(), out.Len())

	bp, op := base.Points(), out.Points()
	assert.Equal(t, bp[0], op[0])
	assert.Equal(t, bp[1], op[1])
	for i := range bp {
		assert.Equal(t, bp[i].Date, op[i].Date)
	}
	assert.NotEqual(t, bp[2:], op[2:])
}

func TestSyntheticRejectsZeroDays(t *testing.T) {
	t.Parallel()

	_, err := Synthetic(day(2008, 1, 1), 0, px("900"), rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, ErrInvalidSeries)
}
