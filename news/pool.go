package news

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Event is a headline that can be drawn at random.
type Event struct {
	Text   string
	Impact Impact
	// Weight is relative sampling mass, not a probability.
	Weight int
}

// Pool is a weighted set of events. Draws are independent, so the same
// event can run on several days.
type Pool struct {
	events []Event
	total  int
}

var ErrEmptyPool = errors.New("news pool has no events")

// NewPool validates events and builds a pool. Every event needs text, an
// impact and a positive weight.
func NewPool(events []Event) (*Pool, error) {
	if len(events) == 0 {
		return nil, ErrEmptyPool
	}
	p := &Pool{events: make([]Event, len(events))}
	for i, ev := range events {
		if ev.Text == "" {
			return nil, fmt.Errorf("event %d: empty text", i)
		}
		if ev.Impact == NoImpact {
			return nil, fmt.Errorf("event %d (%s): impact is required", i, ev.Text)
		}
		if ev.Weight <= 0 {
			return nil, fmt.Errorf("event %d (%s): weight %d must be positive", i, ev.Text, ev.Weight)
		}
		p.events[i] = ev
		p.total += ev.Weight
	}
	return p, nil
}

// Draw picks one event with probability proportional to its weight.
func (p *Pool) Draw(rng *rand.Rand) Event {
	r := rng.IntN(p.total)
	for _, ev := range p.events {
		if r < ev.Weight {
			return ev
		}
		r -= ev.Weight
	}
	return p.events[len(p.events)-1]
}

func (p *Pool) Len() int { return len(p.events) }

// Events returns a copy of the pool's events.
func (p *Pool) Events() []Event {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// DefaultPool is the stock set of macro headlines.
func DefaultPool() *Pool {
	p, err := NewPool([]Event{
		{Text: "Fed Raises Interest Rates by 0.25%", Impact: Bearish, Weight: 3},
		{Text: "Fed Raises Interest Rates by 0.5%", Impact: StrongBearish, Weight: 2},
		{Text: "Fed Raises Interest Rates by 0.75%", Impact: StrongBearish, Weight: 1},
		{Text: "Fed Cuts Interest Rates by 0.25%", Impact: Bullish, Weight: 3},
		{Text: "Fed Cuts Interest Rates by 0.5%", Impact: StrongBullish, Weight: 2},
		{Text: "Fed Cuts Interest Rates by 0.75%", Impact: StrongBullish, Weight: 1},
		{Text: "War Breaks Out", Impact: StrongBullish, Weight: 1},
		{Text: "Geopolitical Tensions Escalate", Impact: Bullish, Weight: 2},
		{Text: "New Rescue Act Passes", Impact: StrongBearish, Weight: 1},
	})
	if err != nil {
		panic(err)
	}
	return p
}
