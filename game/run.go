package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/sim"
)

// ActionKind is a player command.
type ActionKind int

const (
	ActBuy ActionKind = iota + 1
	ActSell
	ActClose
	ActPause
	ActResume
	ActSpeed
	ActEnd
)

// Action is a command sent to a running game.
type Action struct {
	Kind ActionKind
	Qty  int64
}

// ParseAction reads a console command: "b [qty]", "s [qty]", "c", "p", "r",
// "f" (toggle x2 speed) or "q" (end now). Quantity defaults to 1.
func ParseAction(line string) (Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty command")
	}

	var a Action
	switch fields[0] {
	case "b", "buy":
		a.Kind = ActBuy
	case "s", "sell":
		a.Kind = ActSell
	case "c", "close":
		return Action{Kind: ActClose}, nil
	case "p", "pause":
		return Action{Kind: ActPause}, nil
	case "r", "resume":
		return Action{Kind: ActResume}, nil
	case "f", "fast", "speed":
		return Action{Kind: ActSpeed}, nil
	case "q", "quit", "end":
		return Action{Kind: ActEnd}, nil
	default:
		return Action{}, fmt.Errorf("unknown command %q", fields[0])
	}

	a.Qty = 1
	if len(fields) > 1 {
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("bad quantity %q", fields[1])
		}
		a.Qty = n
	}
	return a, nil
}

// Renderer shows a headless game.
type Renderer interface {
	Day(d sim.DayOutcome, acct *sim.Account)
	Action(r sim.ActionResult)
	Notice(msg string)
	Summary(s Summary)
}

// Apply performs one action on the clock. ended reports that the action
// finished the game, with the clock's terminal error in err.
func Apply(clock *sim.Clock, a Action) (res sim.ActionResult, ended bool, err error) {
	switch a.Kind {
	case ActBuy:
		return clock.Buy(a.Qty), false, nil
	case ActSell:
		return clock.Sell(a.Qty), false, nil
	case ActClose:
		return clock.ClosePosition(), false, nil
	case ActPause:
		return status(clock.Pause(), "Paused"), false, nil
	case ActResume:
		return status(clock.Resume(), "Resumed"), false, nil
	case ActSpeed:
		next := 2
		if clock.Speed() > 1 {
			next = 1
		}
		if err := clock.SetSpeed(next); err != nil {
			return status(err, ""), false, nil
		}
		return status(nil, fmt.Sprintf("Speed x%d", next)), false, nil
	case ActEnd:
		return sim.ActionResult{OK: true, Message: "Game ended"}, true, clock.End()
	default:
		return status(fmt.Errorf("%w: unknown action %d", sim.ErrValidation, a.Kind), ""), false, nil
	}
}

func status(err error, msg string) sim.ActionResult {
	if err != nil {
		return sim.ActionResult{Message: err.Error(), Err: err}
	}
	return sim.ActionResult{OK: true, Message: msg}
}

// Run plays the session in real time, one tick per clock interval, applying
// actions as they arrive. Cancelling ctx ends the game early. The game is
// recorded on the leaderboard when it ends; a halted game returns its data
// error.
func (s *Session) Run(ctx context.Context, r Renderer, actions <-chan Action) (Summary, error) {
	clock := s.clock
	if err := clock.Start(); err != nil {
		return Summary{}, err
	}

	interval := clock.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("run cancelled, ending game", zap.Error(ctx.Err()))
			return s.conclude(context.WithoutCancel(ctx), r, clock.End())

		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			res, ended, err := Apply(clock, a)
			r.Action(res)
			if ended {
				return s.conclude(ctx, r, err)
			}
			if iv := clock.Interval(); iv != interval {
				interval = iv
				ticker.Reset(interval)
			}

		case <-ticker.C:
			if clock.State() == sim.Paused {
				continue
			}
			d, err := clock.Tick()
			if err != nil {
				return s.conclude(ctx, r, err)
			}
			r.Day(d, clock.Account())
		}
	}
}

func (s *Session) conclude(ctx context.Context, r Renderer, err error) (Summary, error) {
	sum, err := s.Finish(ctx, err)
	if err != nil {
		r.Notice(fmt.Sprintf("game halted: %v", err))
		return sum, err
	}
	r.Summary(sum)
	return sum, nil
}
