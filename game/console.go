package game

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/magnate/news"
	"github.com/rustyeddy/magnate/sim"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)

	headline = map[news.Color]*color.Color{
		news.ColorScripted:      color.New(color.FgMagenta, color.Bold),
		news.ColorBullish:       color.New(color.FgGreen),
		news.ColorStrongBullish: color.New(color.FgGreen, color.Bold),
		news.ColorBearish:       color.New(color.FgRed),
		news.ColorStrongBearish: color.New(color.FgRed, color.Bold),
	}
)

// Console prints a headless game line by line.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Day(d sim.DayOutcome, acct *sim.Account) {
	fmt.Fprintf(c.w, "%s  %s  ", accent.Sprint(d.Day()), neutral.Sprintf("%10s", d.Price.StringFixed(2)))

	switch {
	case acct.Flat():
		fmt.Fprint(c.w, "flat")
	default:
		side := "long"
		if acct.Position() < 0 {
			side = "short"
		}
		fmt.Fprintf(c.w, "%s %d @ %s", side, abs(acct.Position()), acct.EntryPrice().StringFixed(2))
	}
	fmt.Fprintf(c.w, "  P&L %s", signed(d.Profit))

	if d.NewsText != "" {
		style, ok := headline[d.NewsColor]
		if !ok {
			style = neutral
		}
		fmt.Fprintf(c.w, "  %s", style.Sprint(d.NewsText))
	}
	fmt.Fprintln(c.w)
}

func (c *Console) Action(r sim.ActionResult) {
	if r.OK {
		success.Fprintln(c.w, r.Message)
		return
	}
	warn.Fprintln(c.w, r.Message)
}

func (c *Console) Notice(msg string) {
	danger.Fprintln(c.w, msg)
}

func (c *Console) Summary(s Summary) {
	res := s.Result
	fmt.Fprintln(c.w)
	accent.Fprintln(c.w, "GAME OVER")
	fmt.Fprintf(c.w, "Player:        %s\n", res.Player)
	fmt.Fprintf(c.w, "Days played:   %d of %d\n", res.Days, res.TotalDays)
	fmt.Fprintf(c.w, "Final balance: %s\n", neutral.Sprint(res.FinalBalance.StringFixed(2)))
	fmt.Fprintf(c.w, "Profit/loss:   %s\n", signed(res.ProfitLoss))
	fmt.Fprintf(c.w, "Return rate:   %s%%\n", signed(res.ReturnRatePercent))
	if s.Ranked {
		fmt.Fprintf(c.w, "Rank:          #%d\n", s.Rank)
	}
	if s.SaveErr != nil {
		warn.Fprintf(c.w, "Result not saved: %v\n", s.SaveErr)
	}
}

func signed(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return success.Sprint("+" + d.StringFixed(2))
	case -1:
		return danger.Sprint(d.StringFixed(2))
	default:
		return neutral.Sprint(d.StringFixed(2))
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
