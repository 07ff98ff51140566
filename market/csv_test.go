package market

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVPandasLayout(t *testing.T) {
	t.Parallel()

	// index column without a name, as written by DataFrame.to_csv
	data := `,Close
2008-01-02 05:00:00,857.0
2008-01-03 05:00:00,
2008-01-04 05:00:00,863.1
`
	s, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "2008-01-04", s.Last().Day())
	assert.True(t, s.Last().Close.Equal(px("863.1")))
}

func TestReadCSVNamedColumns(t *testing.T) {
	t.Parallel()

	data := `Date,Open,Close,Volume
2008-09-15,780,785.5,100
2008-09-16,786,780.25,120
`
	s, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.First().Close.Equal(px("785.5")))
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no close column", "Date,Open\n2008-01-02,1\n"},
		{"header only", "Date,Close\n"},
		{"bad date", "Date,Close\nyesterday,1\n"},
		{"bad close", "Date,Close\n2008-01-02,abc\n"},
		{"negative close", "Date,Close\n2008-01-02,-3\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSeries), "got %v", err)
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := NewPriceSeries([]PricePoint{
		{Date: day(2008, 1, 2), Close: px("857.25")},
		{Date: day(2008, 1, 3), Close: px("866")},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "gold.csv")
	require.NoError(t, WriteCSV(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Close\n2008-01-02,857.25\n2008-01-03,866\n", string(data))

	back, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, s.Points(), back.Points())
}

func TestCachedSource(t *testing.T) {
	t.Parallel()

	remote, err := NewPriceSeries([]PricePoint{
		{Date: day(2008, 1, 2), Close: px("857")},
	})
	require.NoError(t, err)

	calls := 0
	src := &CachedSource{
		Path: filepath.Join(t.TempDir(), "cache.csv"),
		Remote: SourceFunc(func(ctx context.Context) (*PriceSeries, error) {
			calls++
			return remote, nil
		}),
	}

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 1, calls)

	// second load comes from the cache written by the first
	got, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, remote.Points(), got.Points())
	assert.Equal(t, 1, calls)
}

func TestCachedSourceNoRemote(t *testing.T) {
	t.Parallel()

	src := &CachedSource{Path: filepath.Join(t.TempDir(), "missing.csv")}
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSeries))
}
