package leaderboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(name, rr, balance string, minutes int) Record {
	return Record{
		PlayerName:        name,
		FinalBalance:      decimal.RequireFromString(balance),
		ReturnRatePercent: decimal.RequireFromString(rr),
		Timestamp:         t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func names(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PlayerName
	}
	return out
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	r := NewRecord("ada", decimal.NewFromInt(100000), decimal.RequireFromString("112345.5"), t0)
	assert.Equal(t, "ada", r.PlayerName)
	assert.Equal(t, "12345.5", r.ProfitLoss.String())
	assert.Equal(t, "12.35", r.ReturnRatePercent.StringFixed(2))
	assert.Len(t, r.ID, 26)
	assert.Equal(t, t0, r.Timestamp)
}

func TestTopNOnePerPlayerSorted(t *testing.T) {
	t.Parallel()

	all := []Record{
		rec("ada", "5", "105000", 0),
		rec("bob", "12", "112000", 1),
		rec("ada", "20", "120000", 2),
		rec("cy", "-3", "97000", 3),
		rec("bob", "1", "101000", 4),
		rec("dee", "12", "112000", 5),
	}

	top := TopN(all, 10)
	assert.Equal(t, []string{"ada", "bob", "dee", "cy"}, names(top))
	assert.Equal(t, "20", top[0].ReturnRatePercent.String())

	seen := map[string]bool{}
	for i, r := range top {
		assert.False(t, seen[r.PlayerName], "duplicate %s", r.PlayerName)
		seen[r.PlayerName] = true
		if i > 0 {
			assert.False(t, r.ReturnRatePercent.GreaterThan(top[i-1].ReturnRatePercent))
		}
	}

	assert.Equal(t, []string{"ada", "bob"}, names(TopN(all, 2)))
	assert.Len(t, TopN(all, 0), 4)
	assert.Empty(t, TopN(nil, 5))
}

func TestTieBreak(t *testing.T) {
	t.Parallel()

	all := []Record{
		rec("late", "10", "110000", 9),
		rec("rich", "10", "220000", 5),
		rec("early", "10", "110000", 1),
	}
	assert.Equal(t, []string{"rich", "early", "late"}, names(TopN(all, 0)))

	rank, ok := Rank("early", all)
	assert.True(t, ok)
	assert.Equal(t, 2, rank)
}

func TestRankUsesBestRecord(t *testing.T) {
	t.Parallel()

	all := []Record{
		rec("ada", "-5", "95000", 0),
		rec("bob", "8", "108000", 1),
		rec("ada", "9", "109000", 2),
		rec("cy", "30", "130000", 3),
	}

	rank, ok := Rank("ada", all)
	assert.True(t, ok)
	assert.Equal(t, 2, rank)

	rank, ok = Rank("cy", all)
	assert.True(t, ok)
	assert.Equal(t, 1, rank)

	// behind cy and ada's best row; ada's losing row does not count
	rank, _ = Rank("bob", all)
	assert.Equal(t, 3, rank)

	_, ok = Rank("nobody", all)
	assert.False(t, ok)
}
