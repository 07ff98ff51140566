package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/journal"
	"github.com/rustyeddy/magnate/market"
	"github.com/rustyeddy/magnate/news"
	"github.com/rustyeddy/magnate/pkg/id"
)

const (
	DefaultTotalDuration = 10 * time.Minute
	DefaultMinInterval   = 200 * time.Millisecond
)

// State is the clock lifecycle.
type State int

const (
	Created State = iota
	Running
	Paused
	Ended
	Halted
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Series is the price data a clock replays. *market.PriceSeries satisfies it.
type Series interface {
	Len() int
	At(i int) (market.PricePoint, error)
}

// NewsSource decides each day's headline. *news.Model satisfies it.
type NewsSource interface {
	Apply(date string, base decimal.Decimal) news.Outcome
}

// DayOutcome is what one tick produced.
type DayOutcome struct {
	Index     int
	Date      time.Time
	BasePrice decimal.Decimal
	Price     decimal.Decimal
	NewsText  string
	NewsColor news.Color
	Impact    news.Impact
	Profit    decimal.Decimal
}

func (d DayOutcome) Day() string { return d.Date.Format(market.DateLayout) }

// Result is the final state of a finished game.
type Result struct {
	GameID            string
	Player            string
	InitialBalance    decimal.Decimal
	FinalBalance      decimal.Decimal
	ProfitLoss        decimal.Decimal
	ReturnRatePercent decimal.Decimal
	Days              int
	TotalDays         int
	Start             time.Time
	End               time.Time
	EndedEarly        bool
	FinishedAt        time.Time
	// Settlement is the forced close at the end, nil when already flat.
	Settlement *Settlement
}

// EndHook receives the result exactly once when the game ends.
type EndHook func(Result) error

type ClockConfig struct {
	GameID string
	Player string

	// TotalDuration is the wall-clock target for replaying the whole
	// series; MinInterval floors the per-day interval.
	TotalDuration time.Duration
	MinInterval   time.Duration

	Journal journal.Journal
	Ledger  *journal.ProfitLedger
	OnEnd   EndHook
	Logger  *zap.Logger
	Now     func() time.Time
}

// Clock drives a game one trading day per Tick. It owns the account's
// trading boundary and the profit ledger. Tick and the trading methods must
// be called from one goroutine.
type Clock struct {
	series  Series
	news    NewsSource
	acct    *Account
	ledger  *journal.ProfitLedger
	journal journal.Journal
	onEnd   EndHook
	log     *zap.Logger
	now     func() time.Time

	gameID string
	player string

	state    State
	index    int
	baseIntv time.Duration
	speed    int

	last     DayOutcome
	hasPrice bool
	first    time.Time
	open     *openTrade
	haltErr  error
	result   Result
}

func NewClock(series Series, ns NewsSource, acct *Account, cfg ClockConfig) (*Clock, error) {
	if series == nil || series.Len() == 0 {
		return nil, &DataError{Index: 0, Err: errors.New("empty price series")}
	}
	if acct == nil {
		return nil, fmt.Errorf("%w: account is required", ErrValidation)
	}
	if cfg.TotalDuration <= 0 {
		cfg.TotalDuration = DefaultTotalDuration
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.Discard
	}
	if cfg.Ledger == nil {
		cfg.Ledger = journal.NewProfitLedger()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.GameID == "" {
		cfg.GameID = id.New()
	}

	return &Clock{
		series:   series,
		news:     ns,
		acct:     acct,
		ledger:   cfg.Ledger,
		journal:  cfg.Journal,
		onEnd:    cfg.OnEnd,
		log:      cfg.Logger.With(zap.String("game", cfg.GameID)),
		now:      cfg.Now,
		gameID:   cfg.GameID,
		player:   cfg.Player,
		baseIntv: TickInterval(series.Len(), cfg.TotalDuration, cfg.MinInterval),
		speed:    1,
	}, nil
}

// TickInterval spreads total over days, never going below min.
func TickInterval(days int, total, min time.Duration) time.Duration {
	if days <= 0 {
		return min
	}
	return max(min, total/time.Duration(days))
}

func (c *Clock) Start() error {
	switch c.state {
	case Created:
		c.state = Running
		c.log.Info("game started", zap.Int("days", c.series.Len()), zap.Duration("interval", c.Interval()))
		return nil
	case Running:
		return nil
	default:
		return fmt.Errorf("start: clock is %s", c.state)
	}
}

// Pause withholds ticks until Resume. Trading stays open.
func (c *Clock) Pause() error {
	switch c.state {
	case Running:
		c.state = Paused
		return nil
	case Paused:
		return nil
	default:
		return fmt.Errorf("pause: clock is %s", c.state)
	}
}

func (c *Clock) Resume() error {
	switch c.state {
	case Paused:
		c.state = Running
		return nil
	case Running:
		return nil
	default:
		return fmt.Errorf("resume: clock is %s", c.state)
	}
}

// SetSpeed scales the tick rate; 2 halves the interval.
func (c *Clock) SetSpeed(factor int) error {
	if factor < 1 {
		return fmt.Errorf("%w: speed factor %d must be at least 1", ErrValidation, factor)
	}
	c.speed = factor
	return nil
}

func (c *Clock) Speed() int { return c.speed }

// Interval is the wall-clock time between ticks at the current speed.
func (c *Clock) Interval() time.Duration { return c.baseIntv / time.Duration(c.speed) }

// Tick advances one day. Once the series is exhausted it ends the game and
// returns ErrEnded, as does every later call. A day that cannot be priced
// halts the clock with a *DataError, which every later call repeats.
func (c *Clock) Tick() (DayOutcome, error) {
	switch c.state {
	case Created, Paused:
		return DayOutcome{}, ErrNotRunning
	case Ended:
		return DayOutcome{}, ErrEnded
	case Halted:
		return DayOutcome{}, c.haltErr
	}

	if c.index >= c.series.Len() {
		return DayOutcome{}, c.finish(journal.ReasonEndGame)
	}

	p, err := c.series.At(c.index)
	if err != nil {
		return DayOutcome{}, c.halt(&DataError{Index: c.index, Err: err})
	}
	if !p.Close.IsPositive() {
		return DayOutcome{}, c.halt(&DataError{Index: c.index, Date: p.Day(), Err: fmt.Errorf("close %s is not positive", p.Close)})
	}

	out := DayOutcome{Index: c.index, Date: p.Date, BasePrice: p.Close, Price: p.Close}
	if c.news != nil {
		n := c.news.Apply(p.Day(), p.Close)
		if !n.Price.IsPositive() {
			return DayOutcome{}, c.halt(&DataError{Index: c.index, Date: p.Day(), Err: fmt.Errorf("news-adjusted price %s is not positive", n.Price)})
		}
		out.Price = n.Price
		out.NewsText = n.Text
		out.NewsColor = n.Color
		out.Impact = n.Impact
	}

	floating := c.acct.FloatingPnL(out.Price)
	out.Profit = c.ledger.Realized().Add(floating)
	c.ledger.Append(out.Profit)

	if err := c.journal.RecordEquity(journal.EquitySnapshot{
		GameID:     c.gameID,
		Day:        out.Index,
		Date:       out.Date,
		Price:      out.Price,
		Balance:    c.acct.Balance(),
		Equity:     c.acct.Equity(out.Price),
		MarginUsed: c.acct.MarginUsed(),
		FloatingPL: floating,
		Profit:     out.Profit,
		News:       out.NewsText,
	}); err != nil {
		c.log.Warn("journal equity failed", zap.Int("day", out.Index), zap.Error(err))
	}

	if c.index == 0 {
		c.first = out.Date
	}
	c.last = out
	c.hasPrice = true
	c.index++
	return out, nil
}

// End finishes the game early at the current tradable price.
func (c *Clock) End() error {
	switch c.state {
	case Ended:
		return ErrEnded
	case Halted:
		return c.haltErr
	}
	return c.finish(journal.ReasonEndEarly)
}

func (c *Clock) halt(err *DataError) error {
	c.state = Halted
	c.haltErr = err
	c.log.Error("clock halted", zap.Int("day", err.Index), zap.Error(err))
	return err
}

func (c *Clock) finish(reason string) error {
	c.state = Ended

	var settled *Settlement
	if !c.acct.Flat() && c.hasPrice {
		s, err := c.settle(c.last.Price, reason)
		if err != nil {
			// unreachable with a positive last price
			c.log.Error("forced close failed", zap.Error(err))
		} else {
			settled = &s
		}
	}

	final := c.acct.Balance()
	initial := c.acct.InitialBalance()
	pl := final.Sub(initial)
	c.result = Result{
		GameID:            c.gameID,
		Player:            c.player,
		InitialBalance:    initial,
		FinalBalance:      final,
		ProfitLoss:        pl,
		ReturnRatePercent: pl.Div(initial).Mul(decimal.NewFromInt(100)),
		Days:              c.index,
		TotalDays:         c.series.Len(),
		Start:             c.first,
		End:               c.last.Date,
		EndedEarly:        reason == journal.ReasonEndEarly,
		FinishedAt:        c.now(),
		Settlement:        settled,
	}

	c.log.Info("game over",
		zap.String("player", c.player),
		zap.String("final_balance", final.StringFixed(2)),
		zap.String("return_pct", c.result.ReturnRatePercent.StringFixed(2)),
		zap.Bool("ended_early", c.result.EndedEarly),
	)

	if c.onEnd != nil {
		if err := c.onEnd(c.result); err != nil {
			c.log.Warn("end hook failed", zap.Error(err))
			return errors.Join(ErrEnded, fmt.Errorf("end hook: %w", err))
		}
	}
	return ErrEnded
}

// settle closes the position and books it in the ledger and journal.
func (c *Clock) settle(price decimal.Decimal, reason string) (Settlement, error) {
	s, err := c.acct.Close(price)
	if err != nil {
		return s, err
	}
	c.ledger.Realize(s.PnL)

	rec := journal.TradeRecord{
		GameID:     c.gameID,
		Side:       s.Side.String(),
		Quantity:   s.Quantity,
		EntryPrice: s.EntryPrice,
		ExitPrice:  s.ExitPrice,
		CloseDate:  c.last.Date,
		RealizedPL: s.PnL,
		Reason:     reason,
	}
	if c.open != nil {
		rec.TradeID = c.open.ID
		rec.OpenDate = c.open.Date
	} else {
		rec.TradeID = id.New()
		rec.OpenDate = c.last.Date
	}
	c.open = nil

	if err := c.journal.RecordTrade(rec); err != nil {
		c.log.Warn("journal trade failed", zap.String("trade", rec.TradeID), zap.Error(err))
	}
	return s, nil
}

func (c *Clock) State() State                  { return c.state }
func (c *Clock) GameID() string                { return c.gameID }
func (c *Clock) Player() string                { return c.player }
func (c *Clock) Account() *Account             { return c.acct }
func (c *Clock) Ledger() *journal.ProfitLedger { return c.ledger }
func (c *Clock) Index() int                    { return c.index }
func (c *Clock) Days() int                     { return c.series.Len() }

// Current is the most recently completed tick. ok is false before the first.
func (c *Clock) Current() (DayOutcome, bool) { return c.last, c.hasPrice }

// Result is valid once State is Ended.
func (c *Clock) Result() (Result, bool) { return c.result, c.state == Ended }
