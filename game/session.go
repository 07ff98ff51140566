// Package game assembles a playable session from configuration: prices,
// news, the margin account, the journal and the leaderboard.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/config"
	"github.com/rustyeddy/magnate/journal"
	"github.com/rustyeddy/magnate/leaderboard"
	"github.com/rustyeddy/magnate/market"
	"github.com/rustyeddy/magnate/sim"
)

// DefaultPlayer names a player who did not give a name.
const DefaultPlayer = "player"

// Options override parts of the configuration, mostly for tests and replays.
type Options struct {
	// Series skips the configured price source.
	Series *market.PriceSeries
	// Store replaces the configured leaderboard store.
	Store leaderboard.Store
	// Journal replaces the configured journal.
	Journal journal.Journal
	Logger  *zap.Logger
	Now     func() time.Time
}

// Session is one game from first tick to summary.
type Session struct {
	cfg   *config.Config
	seed  uint64
	clock *sim.Clock
	board *leaderboard.Board
	trail *recorder
	log   *zap.Logger

	saveErr error
}

// Summary is what a player sees after the game.
type Summary struct {
	Result sim.Result
	Rank   int
	Ranked bool
	// SaveErr is set when the result could not be added to the leaderboard.
	SaveErr error
	Report  journal.GameReport
}

// NewSession loads everything the configuration names and returns a session
// whose clock has not started.
func NewSession(ctx context.Context, cfg *config.Config, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	series := opts.Series
	if series == nil {
		s, err := LoadSeries(ctx, cfg, seed, log)
		if err != nil {
			return nil, err
		}
		series = s
	}

	model, err := NewsModel(cfg.News, seed, log)
	if err != nil {
		return nil, err
	}

	acct, err := sim.NewAccount(sim.AccountConfig{
		InitialBalance: decimal.NewFromFloat(cfg.Account.Balance),
		LotSize:        cfg.Account.LotSize,
		MarginRate:     decimal.NewFromFloat(cfg.Account.MarginRate),
	})
	if err != nil {
		return nil, err
	}

	total, minIntv, err := cfg.Game.Durations()
	if err != nil {
		return nil, err
	}

	sink := opts.Journal
	if sink == nil {
		if sink, err = OpenJournal(cfg.Journal); err != nil {
			return nil, err
		}
	}

	store := opts.Store
	if store == nil {
		if store, err = leaderboard.Open(cfg.Leaderboard.Type, cfg.Leaderboard.Path); err != nil {
			sink.Close()
			return nil, err
		}
	}

	s := &Session{
		cfg:   cfg,
		seed:  seed,
		board: leaderboard.NewBoard(store),
		trail: &recorder{next: sink},
		log:   log,
	}

	player := strings.TrimSpace(cfg.Game.Player)
	if player == "" {
		player = DefaultPlayer
	}

	s.clock, err = sim.NewClock(series, model, acct, sim.ClockConfig{
		Player:        player,
		TotalDuration: total,
		MinInterval:   minIntv,
		Journal:       s.trail,
		OnEnd:         s.record,
		Logger:        log,
		Now:           opts.Now,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	log.Info("session ready",
		zap.String("game", s.clock.GameID()),
		zap.String("player", player),
		zap.String("mode", cfg.Game.Mode),
		zap.Uint64("seed", seed),
		zap.Int("days", series.Len()),
	)
	return s, nil
}

// OpenJournal returns the trade and equity sink named by cfg.
func OpenJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Discard, nil
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

func (s *Session) Clock() *sim.Clock { return s.clock }
func (s *Session) Seed() uint64      { return s.seed }

// Board is the leaderboard the session records into.
func (s *Session) Board() *leaderboard.Board { return s.board }

// record is the clock's end hook.
func (s *Session) record(res sim.Result) error {
	rec := leaderboard.NewRecord(res.Player, res.InitialBalance, res.FinalBalance, res.FinishedAt)
	if err := s.board.Record(context.Background(), rec); err != nil {
		s.saveErr = err
		return err
	}
	s.log.Info("leaderboard updated", zap.String("player", res.Player), zap.String("record", rec.ID))
	return nil
}

// Summary reports a finished game with the player's leaderboard rank. A
// leaderboard that cannot be read leaves the game unranked.
func (s *Session) Summary(ctx context.Context) (Summary, error) {
	res, ok := s.clock.Result()
	if !ok {
		return Summary{}, fmt.Errorf("summary: game is %s", s.clock.State())
	}

	sum := Summary{Result: res, SaveErr: s.saveErr}
	rank, ranked, err := s.board.Rank(ctx, res.Player)
	if err != nil {
		s.log.Warn("leaderboard unreadable", zap.Error(err))
	} else {
		sum.Rank, sum.Ranked = rank, ranked
	}

	sum.Report = journal.GameReport{
		GameID:       res.GameID,
		Player:       res.Player,
		Mode:         s.cfg.Game.Mode,
		Created:      res.FinishedAt,
		Start:        res.Start,
		End:          res.End,
		Days:         res.Days,
		StartBalance: res.InitialBalance,
		EndBalance:   res.FinalBalance,
		NetPL:        res.ProfitLoss,
		ReturnPct:    res.ReturnRatePercent,
		MaxDrawdown:  s.clock.Ledger().MaxDrawdown(),
		Trades:       s.trail.trades,
		Rank:         sum.Rank,
	}
	sum.Report.Tally()
	return sum, nil
}

// Finish turns the error that ended the clock into a summary. Anything other
// than a normal end is returned as is.
func (s *Session) Finish(ctx context.Context, err error) (Summary, error) {
	if !errors.Is(err, sim.ErrEnded) {
		return Summary{}, err
	}
	return s.Summary(ctx)
}

// Close releases the journal and the leaderboard store.
func (s *Session) Close() error {
	return errors.Join(s.trail.Close(), s.board.Close())
}

// recorder keeps the session's trades for the report and forwards
// everything to the configured journal.
type recorder struct {
	next   journal.Journal
	trades []journal.TradeRecord
}

func (r *recorder) RecordTrade(t journal.TradeRecord) error {
	r.trades = append(r.trades, t)
	return r.next.RecordTrade(t)
}

func (r *recorder) RecordEquity(e journal.EquitySnapshot) error { return r.next.RecordEquity(e) }
func (r *recorder) Close() error                               { return r.next.Close() }
