// Package journal records what happened in a game: one trade record per
// realized close and one equity snapshot per simulated day.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Close reasons.
const (
	ReasonPlayer   = "player"
	ReasonEndGame  = "end-of-game"
	ReasonEndEarly = "ended-early"
)

// TradeRecord is a realized round trip.
type TradeRecord struct {
	GameID     string
	TradeID    string
	Side       string // long or short
	Quantity   int64
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	OpenDate   time.Time
	CloseDate  time.Time
	RealizedPL decimal.Decimal
	Reason     string
}

// EquitySnapshot is the account state after a tick.
type EquitySnapshot struct {
	GameID     string
	Day        int
	Date       time.Time
	Price      decimal.Decimal
	Balance    decimal.Decimal
	Equity     decimal.Decimal
	MarginUsed decimal.Decimal
	FloatingPL decimal.Decimal
	Profit     decimal.Decimal
	News       string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything.
var Discard Journal = discard{}

type discard struct{}

func (discard) RecordTrade(TradeRecord) error     { return nil }
func (discard) RecordEquity(EquitySnapshot) error { return nil }
func (discard) Close() error                      { return nil }
