package journal

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// GameReport is the end-of-game summary, rendered as an Org-mode entry.
type GameReport struct {
	GameID  string
	Player  string
	Mode    string
	Created time.Time

	Start time.Time
	End   time.Time
	Days  int

	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	NetPL        decimal.Decimal
	ReturnPct    decimal.Decimal
	MaxDrawdown  decimal.Decimal

	Trades []TradeRecord
	Wins   int
	Losses int

	// Rank on the leaderboard after this game; 0 when unknown.
	Rank int
}

// Tally counts winning and losing trades. Break-even trades count as
// neither.
func (r *GameReport) Tally() {
	r.Wins, r.Losses = 0, 0
	for _, t := range r.Trades {
		switch t.RealizedPL.Sign() {
		case 1:
			r.Wins++
		case -1:
			r.Losses++
		}
	}
}

// WinRate is the share of trades that made money, in percent.
func (r *GameReport) WinRate() decimal.Decimal {
	if len(r.Trades) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.Wins * 100)).Div(decimal.NewFromInt(int64(len(r.Trades))))
}

var reportFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"day":   func(t time.Time) string { return t.Format(time.DateOnly) },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"trade": FormatTradeOrg,
}

var reportTmpl = template.Must(template.New("game").Funcs(reportFuncs).Parse(GameOrgTemplate))

func (r *GameReport) WriteOrg(w io.Writer) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return fmt.Errorf("render game report: %w", err)
	}
	return nil
}

const GameOrgTemplate = `* GAME: {{.Player}} {{day .Start}} .. {{day .End}}
:PROPERTIES:
:GAME_ID:     {{.GameID}}
:PLAYER:      {{.Player}}
:MODE:        {{if .Mode}}{{.Mode}}{{else}}historical{{end}}
:DAYS:        {{.Days}}
:START_BAL:   {{money .StartBalance}}
:END_BAL:     {{money .EndBalance}}
:NET_PL:      {{money .NetPL}}
:RETURN_PCT:  {{money .ReturnPct}}
:MAX_DD:      {{money .MaxDrawdown}}
:TRADES:      {{len .Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{money .WinRate}}
{{- if .Rank}}
:RANK:        {{.Rank}}
{{- end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Summary
- Final balance: *{{money .EndBalance}}*
- Profit/loss:   *{{money .NetPL}}*
- Return:        *{{money .ReturnPct}}%*
{{- if .Trades}}

** Trades
{{- range .Trades}}

{{trade .}}
{{- end}}
{{- end}}
`

// FormatTradeOrg renders a TradeRecord as an Org-mode subheading.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*** %s %d @ %s -> %s (%s)\n", t.Side, t.Quantity, t.EntryPrice.StringFixed(2), t.ExitPrice.StringFixed(2), shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":OPEN_DATE: %s\n", t.OpenDate.Format(time.DateOnly))
	fmt.Fprintf(&b, ":CLOSE_DATE: %s\n", t.CloseDate.Format(time.DateOnly))
	fmt.Fprintf(&b, ":REALIZED_PL: %s\n", t.RealizedPL.StringFixed(2))
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:")
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
