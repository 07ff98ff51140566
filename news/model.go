package news

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// DefaultProbability is the chance that an unscripted day draws a headline.
const DefaultProbability = 0.20

// Options configures a Model.
type Options struct {
	Script      Script
	Pool        *Pool // nil disables random headlines
	Probability float64
	Rand        *rand.Rand
}

// Outcome is the headline decision for one day.
type Outcome struct {
	Text     string
	Color    Color
	Impact   Impact
	Price    decimal.Decimal
	Adjusted bool
}

// Model layers scripted headlines over random ones. The random decision for
// a date, including "no headline", is made once and reused for the rest of
// the run. A Model is not safe for concurrent use.
type Model struct {
	script  Script
	pool    *Pool
	p       float64
	rng     *rand.Rand
	decided map[string]*Event
}

func NewModel(opts Options) (*Model, error) {
	if opts.Probability < 0 || opts.Probability > 1 {
		return nil, fmt.Errorf("news probability %v outside [0, 1]", opts.Probability)
	}
	if opts.Pool != nil && opts.Rand == nil {
		return nil, fmt.Errorf("news model: random pool requires a random source")
	}
	script := opts.Script
	if script == nil {
		script = Script{}
	}
	return &Model{
		script:  script,
		pool:    opts.Pool,
		p:       opts.Probability,
		rng:     opts.Rand,
		decided: make(map[string]*Event),
	}, nil
}

// Apply returns the headline for date and the price to trade at. base is
// never modified; an adjusted price is only valid for that day.
func (m *Model) Apply(date string, base decimal.Decimal) Outcome {
	if text, ok := m.script[date]; ok {
		return Outcome{Text: text, Color: ColorScripted, Price: base}
	}

	ev, ok := m.decided[date]
	if !ok {
		ev = m.draw()
		m.decided[date] = ev
	}
	if ev == nil {
		return Outcome{Price: base}
	}
	return Outcome{
		Text:     ev.Text,
		Color:    ev.Impact.Color(),
		Impact:   ev.Impact,
		Price:    base.Mul(ev.Impact.Multiplier()),
		Adjusted: true,
	}
}

func (m *Model) draw() *Event {
	if m.pool == nil || m.p == 0 {
		return nil
	}
	if m.rng.Float64() >= m.p {
		return nil
	}
	ev := m.pool.Draw(m.rng)
	return &ev
}

// Scripted reports whether date has a scripted headline.
func (m *Model) Scripted(date string) bool {
	_, ok := m.script[date]
	return ok
}
