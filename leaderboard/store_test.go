package leaderboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s := NewCSVStore(filepath.Join(t.TempDir(), "leaderboard.csv"))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	top, err := NewBoard(s).Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestCSVStoreAppendAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leaderboard.csv")
	s := NewCSVStore(path)

	a := NewRecord("ada", decimal.NewFromInt(100000), decimal.RequireFromString("120000"), t0)
	b := NewRecord("bob", decimal.NewFromInt(100000), decimal.RequireFromString("95000.456"), t0.Add(1))
	require.NoError(t, s.Append(ctx, a))
	require.NoError(t, s.Append(ctx, b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"player_name,final_balance,profit_loss,return_rate,play_date\n"+
			"ada,120000.00,20000.00,20.00,2026-03-01 12:00:00\n"+
			"bob,95000.46,-4999.54,-5.00,2026-03-01 12:00:00\n",
		string(data))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ada", got[0].PlayerName)
	assert.True(t, got[0].ReturnRatePercent.Equal(decimal.NewFromInt(20)))
	assert.True(t, got[1].FinalBalance.Equal(decimal.RequireFromString("95000.46")))
	assert.True(t, got[0].Timestamp.Equal(t0))
}

func TestCSVStoreCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing column", "player_name,final_balance\nada,1\n"},
		{"bad number", "player_name,final_balance,profit_loss,return_rate,play_date\nada,lots,1,1,2026-03-01 12:00:00\n"},
		{"bad date", "player_name,final_balance,profit_loss,return_rate,play_date\nada,1,1,1,yesterday\n"},
		{"short row", "player_name,final_balance,profit_loss,return_rate,play_date\nada,1\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "lb.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := NewCSVStore(path).Load(context.Background())
			assert.ErrorIs(t, err, ErrCorruptStore)

			_, _, err = NewBoard(NewCSVStore(path)).Rank(context.Background(), "ada")
			assert.ErrorIs(t, err, ErrCorruptStore)
		})
	}
}

func TestCSVStoreEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lb.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	got, err := NewCSVStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	board := NewBoard(s)
	require.NoError(t, board.Record(ctx, NewRecord("ada", decimal.NewFromInt(100000), decimal.NewFromInt(90000), t0)))
	require.NoError(t, board.Record(ctx, NewRecord("ada", decimal.NewFromInt(100000), decimal.NewFromInt(130000), t0.Add(60))))
	require.NoError(t, board.Record(ctx, NewRecord("bob", decimal.NewFromInt(100000), decimal.NewFromInt(110000), t0.Add(120))))

	top, err := board.Top(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "bob"}, names(top))
	assert.True(t, top[0].ReturnRatePercent.Equal(decimal.NewFromInt(30)))

	rank, ok, err := board.Rank(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, rank)

	hist, err := board.History(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.True(t, hist[0].FinalBalance.Equal(decimal.NewFromInt(130000)))
	assert.NotEmpty(t, hist[0].ID)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := Open("", filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)

	s, err = Open("sqlite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", "")
	assert.Error(t, err)
}
