// Package leaderboard persists finished games and ranks players by their
// best return.
package leaderboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/magnate/pkg/id"
)

// Record is one finished game. A player may have many.
type Record struct {
	ID                string
	PlayerName        string
	FinalBalance      decimal.Decimal
	ProfitLoss        decimal.Decimal
	ReturnRatePercent decimal.Decimal
	Timestamp         time.Time
}

// NewRecord derives profit and return from the starting and final balance.
func NewRecord(player string, initial, final decimal.Decimal, at time.Time) Record {
	pl := final.Sub(initial)
	rr := decimal.Zero
	if !initial.IsZero() {
		rr = pl.Div(initial).Mul(decimal.NewFromInt(100))
	}
	return Record{
		ID:                id.NewAt(at),
		PlayerName:        player,
		FinalBalance:      final,
		ProfitLoss:        pl,
		ReturnRatePercent: rr,
		Timestamp:         at,
	}
}

// compare orders records best first: higher return, then higher final
// balance, then the earlier game.
func compare(a, b Record) int {
	if c := b.ReturnRatePercent.Cmp(a.ReturnRatePercent); c != 0 {
		return c
	}
	if c := b.FinalBalance.Cmp(a.FinalBalance); c != 0 {
		return c
	}
	return cmp.Compare(a.Timestamp.UnixNano(), b.Timestamp.UnixNano())
}

// Sort orders records best first in place.
func Sort(records []Record) {
	slices.SortStableFunc(records, compare)
}

// Best keeps each player's best record.
func Best(records []Record) []Record {
	best := make(map[string]Record, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		cur, ok := best[r.PlayerName]
		if !ok {
			order = append(order, r.PlayerName)
			best[r.PlayerName] = r
			continue
		}
		if compare(r, cur) < 0 {
			best[r.PlayerName] = r
		}
	}
	out := make([]Record, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	return out
}

// TopN returns the first n players by their best record. n <= 0 returns
// every player.
func TopN(records []Record, n int) []Record {
	out := Best(records)
	Sort(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Rank is the 1-based position of the player's best record among all
// records. ok is false when the player has none.
func Rank(player string, records []Record) (rank int, ok bool) {
	var mine *Record
	for i := range records {
		r := &records[i]
		if r.PlayerName != player {
			continue
		}
		if mine == nil || compare(*r, *mine) < 0 {
			mine = r
		}
	}
	if mine == nil {
		return 0, false
	}

	rank = 1
	for _, r := range records {
		if compare(r, *mine) < 0 {
			rank++
		}
	}
	return rank, true
}
