package replay

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/journal"
	"github.com/rustyeddy/magnate/market"
	"github.com/rustyeddy/magnate/sim"
)

// 2008-09-15 .. 2008-09-19
func week(t *testing.T) *market.PriceSeries {
	t.Helper()
	day := time.Date(2008, 9, 15, 0, 0, 0, 0, time.UTC)
	var points []market.PricePoint
	for i, c := range []int64{760, 780, 800, 790, 770} {
		points = append(points, market.PricePoint{Date: day.AddDate(0, 0, i), Close: decimal.NewFromInt(c)})
	}
	s, err := market.NewPriceSeries(points)
	require.NoError(t, err)
	return s
}

func newClock(t *testing.T, j journal.Journal, log *zap.Logger) *sim.Clock {
	t.Helper()
	acct, err := sim.NewAccount(sim.DefaultAccountConfig())
	require.NoError(t, err)
	c, err := sim.NewClock(week(t), nil, acct, sim.ClockConfig{Player: "ada", Journal: j, Logger: log})
	require.NoError(t, err)
	return c
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReplayJournalsTrades(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "magnate.sqlite")

	steps, err := Load(writeScript(t, `date,action,quantity
2008-09-15,BUY,2
2008-09-17,CLOSE,
2008-09-18,sell,1
`))
	require.NoError(t, err)
	require.Len(t, steps, 3)

	j, err := journal.NewSQLite(dbPath)
	require.NoError(t, err)
	defer j.Close()

	clock := newClock(t, j, nil)
	err = Run(ctx, clock, steps, Options{Strict: true})
	require.ErrorIs(t, err, sim.ErrEnded)

	// long +80, short closed at the end +20
	res, ok := clock.Result()
	require.True(t, ok)
	assert.Equal(t, "100100", res.FinalBalance.String())
	assert.False(t, res.EndedEarly)
	assert.Equal(t, 5, res.Days)

	trades, err := j.ListTrades(ctx, clock.GameID())
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, journal.ReasonPlayer, trades[0].Reason)
	assert.Equal(t, "80", trades[0].RealizedPL.String())
	assert.Equal(t, journal.ReasonEndGame, trades[1].Reason)
	assert.Equal(t, "short", trades[1].Side)

	// one equity row per tick
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM equity WHERE game_id = ?`, clock.GameID()).Scan(&n))
	assert.Equal(t, 5, n)
}

func TestReplayEndEarly(t *testing.T) {
	steps, err := Parse(strings.NewReader("2008-09-16,BUY,1\n2008-09-17,END,\n2008-09-19,SELL,1\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	clock := newClock(t, nil, nil)
	err = Run(context.Background(), clock, steps, Options{Renderer: game.NewConsole(&out)})
	require.ErrorIs(t, err, sim.ErrEnded)

	res, _ := clock.Result()
	assert.True(t, res.EndedEarly)
	assert.Equal(t, 3, res.Days)
	assert.Equal(t, "100020", res.FinalBalance.String())
	assert.Contains(t, out.String(), "Game ended")
}

func TestReplaySkipsMissingDates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	steps, err := Parse(strings.NewReader("2008-09-14,BUY,1\n2008-09-16,BUY,1\n2008-12-01,CLOSE,\n"))
	require.NoError(t, err)

	clock := newClock(t, nil, zap.New(core))
	err = Run(context.Background(), clock, steps, Options{Logger: zap.New(core)})
	require.ErrorIs(t, err, sim.ErrEnded)

	assert.Equal(t, 1, logs.FilterMessage("replay step skipped, no trading on that date").Len())
	assert.Equal(t, 1, logs.FilterMessage("replay step never ran").Len())

	// bought 780 on the 16th, forced out at 770
	res, _ := clock.Result()
	assert.Equal(t, "99990", res.FinalBalance.String())
}

func TestReplayRejections(t *testing.T) {
	steps, err := Parse(strings.NewReader("2008-09-15,CLOSE,\n2008-09-16,BUY,1\n"))
	require.NoError(t, err)

	t.Run("lenient", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		clock := newClock(t, nil, nil)
		err := Run(context.Background(), clock, steps, Options{Logger: zap.New(core)})
		require.ErrorIs(t, err, sim.ErrEnded)
		assert.Equal(t, 1, logs.FilterMessage("replay action rejected").Len())
	})

	t.Run("strict", func(t *testing.T) {
		clock := newClock(t, nil, nil)
		err := Run(context.Background(), clock, steps, Options{Strict: true})
		require.ErrorIs(t, err, sim.ErrNoOpenPosition)
		assert.Contains(t, err.Error(), "line 1")
		assert.Equal(t, sim.Running, clock.State())
	})
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clock := newClock(t, nil, nil)
	err := Run(ctx, clock, nil, Options{})
	require.ErrorIs(t, err, sim.ErrEnded)
	res, _ := clock.Result()
	assert.True(t, res.EndedEarly)
	assert.Equal(t, 0, res.Days)
}

func TestParse(t *testing.T) {
	steps, err := Parse(strings.NewReader("# warm-up\nDate,Action,Quantity\n2008-09-15, buy ,3\n2008-09-15,close\n"))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, game.Action{Kind: game.ActBuy, Qty: 3}, steps[0].Action)
	assert.Equal(t, game.Action{Kind: game.ActClose}, steps[1].Action)
	assert.Equal(t, 4, steps[1].Line)

	bad := []struct {
		name string
		data string
	}{
		{"bad date", "15/09/2008,BUY,1\n"},
		{"bad action", "2008-09-15,HOLD,1\n"},
		{"bad quantity", "2008-09-15,BUY,lots\n"},
		{"missing action", "2008-09-15\n"},
		{"out of order", "2008-09-16,BUY,1\n2008-09-15,CLOSE,\n"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
