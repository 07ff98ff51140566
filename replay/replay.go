// Package replay plays a scripted session against the game clock with no
// wall-clock delay.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/market"
	"github.com/rustyeddy/magnate/sim"
)

// Step is one scripted action, applied right after the tick for Date.
type Step struct {
	Line   int
	Date   string
	Action game.Action
}

// Options controls how replay behaves.
type Options struct {
	// Renderer, when set, is shown every day and every action.
	Renderer game.Renderer
	// Strict stops the replay at the first rejected action.
	Strict bool
	Logger *zap.Logger
}

// Load reads a script file.
//
// Format, one action per row, header optional:
//
//	date,action,quantity
//	2008-09-15,BUY,2
//	2008-09-29,CLOSE,
//	2008-10-10,END,
//
// Actions (case-insensitive): BUY and SELL take a quantity (default 1);
// CLOSE and END take none. Rows must be in date order.
func Load(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	steps, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

func Parse(r io.Reader) ([]Step, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	var steps []Step
	for first := true; ; first = false {
		row, err := cr.Read()
		if err == io.EOF {
			return steps, nil
		}
		if err != nil {
			return nil, err
		}
		if first && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}
		line, _ := cr.FieldPos(0)

		step, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		step.Line = line
		if n := len(steps); n > 0 && step.Date < steps[n-1].Date {
			return nil, fmt.Errorf("line %d: %s is before %s", line, step.Date, steps[n-1].Date)
		}
		steps = append(steps, step)
	}
}

func parseRow(row []string) (Step, error) {
	if len(row) < 2 {
		return Step{}, fmt.Errorf("need date,action: %v", row)
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	day, err := market.ParseDay(row[0])
	if err != nil {
		return Step{}, fmt.Errorf("bad date %q: %w", row[0], err)
	}
	step := Step{Date: day.Format(market.DateLayout)}

	qty := int64(1)
	if len(row) >= 3 && row[2] != "" {
		qty, err = strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return Step{}, fmt.Errorf("bad quantity %q: %w", row[2], err)
		}
	}

	switch strings.ToUpper(row[1]) {
	case "BUY":
		step.Action = game.Action{Kind: game.ActBuy, Qty: qty}
	case "SELL":
		step.Action = game.Action{Kind: game.ActSell, Qty: qty}
	case "CLOSE":
		step.Action = game.Action{Kind: game.ActClose}
	case "END":
		step.Action = game.Action{Kind: game.ActEnd}
	default:
		return Step{}, fmt.Errorf("unknown action %q", row[1])
	}
	return step, nil
}

// Run starts the clock and ticks it as fast as possible, applying each step
// after the tick of its date. It returns the error that stopped the clock:
// sim.ErrEnded (possibly joined with an end hook failure) for a finished
// game, a *sim.DataError for a halted one. Steps whose date never traded are
// logged and skipped. In strict mode a rejected action stops the replay and
// leaves the game unfinished.
func Run(ctx context.Context, clock *sim.Clock, steps []Step, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := clock.Start(); err != nil {
		return err
	}

	next := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Info("replay cancelled, ending game", zap.Error(err))
			return clock.End()
		}

		d, err := clock.Tick()
		if err != nil {
			for _, s := range steps[next:] {
				log.Warn("replay step never ran", zap.Int("line", s.Line), zap.String("date", s.Date))
			}
			return err
		}
		if opts.Renderer != nil {
			opts.Renderer.Day(d, clock.Account())
		}

		day := d.Day()
		for next < len(steps) && steps[next].Date < day {
			log.Warn("replay step skipped, no trading on that date",
				zap.Int("line", steps[next].Line), zap.String("date", steps[next].Date))
			next++
		}
		for next < len(steps) && steps[next].Date == day {
			s := steps[next]
			next++

			res, ended, err := game.Apply(clock, s.Action)
			if opts.Renderer != nil {
				opts.Renderer.Action(res)
			}
			if ended {
				return err
			}
			if !res.OK {
				log.Warn("replay action rejected", zap.Int("line", s.Line), zap.String("date", day), zap.Error(res.Err))
				if opts.Strict {
					return fmt.Errorf("line %d: %w", s.Line, res.Err)
				}
			}
		}
	}
}
