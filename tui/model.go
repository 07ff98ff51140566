// Package tui is the bubbletea play screen. Each clock tick is a tea.Tick
// message, so the game loop and the key handlers share one goroutine.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/indicators"
	"github.com/rustyeddy/magnate/news"
	"github.com/rustyeddy/magnate/sim"
)

const (
	maxHeadlines = 6
	trendPeriod  = 10
)

type keyMap struct {
	Buy   key.Binding
	Sell  key.Binding
	Close key.Binding
	Pause key.Binding
	Speed key.Binding
	End   key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Buy:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy")),
	Sell:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell")),
	Close: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close")),
	Pause: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
	Speed: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "x2 speed")),
	End:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end game")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Buy, k.Sell, k.Close, k.Pause, k.Speed, k.End, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// tickMsg asks for the next trading day. gen drops ticks scheduled before a
// pause or speed change.
type tickMsg struct{ gen int }

type headline struct {
	date  string
	text  string
	color news.Color
}

// Model is the play screen for one session.
type Model struct {
	sess  *game.Session
	clock *sim.Clock
	log   *zap.Logger

	qty       textinput.Model
	headlines []headline
	change    decimal.Decimal
	hasChange bool
	trend     indicators.Indicator
	status    string
	statusBad bool
	gen       int
	width     int

	summary *game.Summary
	err     error
}

// New returns a model for a session whose clock has not started.
func New(sess *game.Session, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}

	qty := textinput.New()
	qty.Placeholder = "1"
	qty.Prompt = ""
	qty.Width = 6
	qty.CharLimit = 6
	qty.SetValue("1")
	qty.Focus()

	return &Model{
		sess:  sess,
		clock: sess.Clock(),
		log:   log,
		qty:   qty,
		trend: indicators.NewEMA(trendPeriod),
	}
}

// Init starts the clock.
func (m *Model) Init() tea.Cmd {
	if err := m.clock.Start(); err != nil {
		m.err = err
		return nil
	}
	return tea.Batch(textinput.Blink, m.nextTick())
}

// Summary is set once the game is over.
func (m *Model) Summary() (game.Summary, bool) {
	if m.summary == nil {
		return game.Summary{}, false
	}
	return *m.summary, true
}

// Err is the error that stopped the game, if it did not end normally.
func (m *Model) Err() error { return m.err }

func (m *Model) over() bool { return m.summary != nil || m.err != nil }

func (m *Model) nextTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.clock.Interval(), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.clock.State() != sim.Running {
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) tick() tea.Cmd {
	prev, hadPrev := m.clock.Current()
	d, err := m.clock.Tick()
	if err != nil {
		m.conclude(err)
		return nil
	}
	m.change, m.hasChange = d.Price.Sub(prev.Price), hadPrev
	m.trend.Update(d.Price)
	if d.NewsText != "" {
		m.headlines = append([]headline{{date: d.Day(), text: d.NewsText, color: d.NewsColor}}, m.headlines...)
		if len(m.headlines) > maxHeadlines {
			m.headlines = m.headlines[:maxHeadlines]
		}
	}
	return m.nextTick()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.over() {
		if key.Matches(msg, keys.Quit) || msg.Type == tea.KeyEnter {
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.conclude(m.clock.End())
		return tea.Quit
	case key.Matches(msg, keys.End):
		m.act(game.Action{Kind: game.ActEnd})
	case key.Matches(msg, keys.Buy):
		m.act(game.Action{Kind: game.ActBuy, Qty: m.quantity()})
	case key.Matches(msg, keys.Sell):
		m.act(game.Action{Kind: game.ActSell, Qty: m.quantity()})
	case key.Matches(msg, keys.Close):
		m.act(game.Action{Kind: game.ActClose})
	case key.Matches(msg, keys.Pause):
		if m.clock.State() == sim.Paused {
			m.act(game.Action{Kind: game.ActResume})
			m.gen++
			return m.nextTick()
		}
		m.act(game.Action{Kind: game.ActPause})
	case key.Matches(msg, keys.Speed):
		m.act(game.Action{Kind: game.ActSpeed})
		m.gen++
		return m.nextTick()
	default:
		if isQtyKey(msg) {
			var cmd tea.Cmd
			m.qty, cmd = m.qty.Update(msg)
			return cmd
		}
	}
	return nil
}

func isQtyKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// quantity is the typed lot count; anything unparsable becomes 0 and the
// account rejects it.
func (m *Model) quantity() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(m.qty.Value()), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (m *Model) act(a game.Action) {
	res, ended, err := game.Apply(m.clock, a)
	m.status, m.statusBad = res.Message, !res.OK
	if ended {
		m.conclude(err)
	}
}

func (m *Model) conclude(err error) {
	sum, err := m.sess.Finish(context.Background(), err)
	if err != nil {
		m.log.Error("game stopped", zap.Error(err))
		m.err = err
		return
	}
	m.summary = &sum
}

// View renders the screen.
func (m *Model) View() string {
	if m.summary != nil {
		return m.summaryView(*m.summary)
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.marketView(), " ", m.accountView()))
	b.WriteString("\n")
	b.WriteString(PanelStyle.Render(m.profitView()))
	b.WriteString("\n")
	b.WriteString(PanelStyle.Render(m.newsView()))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s  ", LabelStyle.Render("Lots:"), m.qty.View())
	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render(m.err.Error()))
	case m.statusBad:
		b.WriteString(ErrorStyle.Render(m.status))
	default:
		b.WriteString(StatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(keys.help()))
	return b.String()
}

func (m *Model) header() string {
	state := strings.ToUpper(m.clock.State().String())
	return fmt.Sprintf("%s  %s  day %d/%d  x%d  %s",
		TitleStyle.Render("MAGNATE"),
		ValueStyle.Render(m.clock.Player()),
		m.clock.Index(), m.clock.Days(),
		m.clock.Speed(),
		StatusStyle.Render(state),
	)
}

func (m *Model) marketView() string {
	d, ok := m.clock.Current()
	if !ok {
		return PanelStyle.Render(TitleStyle.Render("Gold") + "\n" + LabelStyle.Render("waiting for the open"))
	}

	change := ""
	if m.hasChange {
		change = signed(m.change)
	}

	lines := []string{
		TitleStyle.Render("Gold"),
		LabelStyle.Render(d.Day()),
		PriceStyle.Render(d.Price.StringFixed(2)) + " " + change,
		m.trendView(d.Price),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) trendView(price decimal.Decimal) string {
	label := LabelStyle.Render(m.trend.Name())
	if !m.trend.Ready() {
		return label + " " + LabelStyle.Render("--")
	}
	v := m.trend.Value()
	switch price.Cmp(v) {
	case 1:
		return label + " " + UpStyle.Render(v.StringFixed(2)+" above")
	case -1:
		return label + " " + DownStyle.Render(v.StringFixed(2)+" below")
	default:
		return label + " " + ValueStyle.Render(v.StringFixed(2))
	}
}

func (m *Model) accountView() string {
	acct := m.clock.Account()
	var price decimal.Decimal
	if d, ok := m.clock.Current(); ok {
		price = d.Price
	}

	position := "flat"
	if !acct.Flat() {
		side := "long"
		if acct.Position() < 0 {
			side = "short"
		}
		position = fmt.Sprintf("%s %d @ %s", side, abs(acct.Position()), acct.EntryPrice().StringFixed(2))
	}

	row := func(label, value string) string {
		return LabelStyle.Render(fmt.Sprintf("%-13s", label)) + value
	}
	lines := []string{
		TitleStyle.Render("Account"),
		row("Balance", ValueStyle.Render(acct.Balance().StringFixed(2))),
		row("Position", ValueStyle.Render(position)),
		row("Margin used", ValueStyle.Render(acct.MarginUsed().StringFixed(2))),
		row("Floating P&L", signed(acct.FloatingPnL(price))),
		row("Equity", ValueStyle.Render(acct.Equity(price).StringFixed(2))),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) profitView() string {
	width := 60
	if m.width > 10 {
		width = m.width - 6
	}
	ledger := m.clock.Ledger()
	samples := ledger.Since(max(0, ledger.Len()-width))

	profit := decimal.Zero
	if last, ok := ledger.Last(); ok {
		profit = last
	}
	return TitleStyle.Render("Profit") + " " + signed(profit) + "\n" + Sparkline(samples)
}

func (m *Model) newsView() string {
	lines := []string{TitleStyle.Render("News")}
	if len(m.headlines) == 0 {
		lines = append(lines, LabelStyle.Render("no news yet"))
	}
	for _, h := range m.headlines {
		lines = append(lines, LabelStyle.Render(h.date)+" "+newsStyle(h.color).Render(h.text))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) summaryView(s game.Summary) string {
	res := s.Result
	lines := []string{
		TitleStyle.Render("GAME OVER"),
		"",
		LabelStyle.Render("Player         ") + ValueStyle.Render(res.Player),
		LabelStyle.Render("Days played    ") + ValueStyle.Render(fmt.Sprintf("%d of %d", res.Days, res.TotalDays)),
		LabelStyle.Render("Final balance  ") + ValueStyle.Render(res.FinalBalance.StringFixed(2)),
		LabelStyle.Render("Profit/loss    ") + signed(res.ProfitLoss),
		LabelStyle.Render("Return rate    ") + signed(res.ReturnRatePercent) + "%",
	}
	if s.Ranked {
		lines = append(lines, LabelStyle.Render("Rank           ")+PriceStyle.Render(fmt.Sprintf("#%d", s.Rank)))
	}
	if s.SaveErr != nil {
		lines = append(lines, ErrorStyle.Render("Result not saved: "+s.SaveErr.Error()))
	}
	lines = append(lines, "", HelpStyle.Render("press q to quit"))
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func signed(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return UpStyle.Render("+" + d.StringFixed(2))
	case -1:
		return DownStyle.Render(d.StringFixed(2))
	default:
		return ValueStyle.Render(d.StringFixed(2))
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
