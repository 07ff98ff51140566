package sim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/journal"
	"github.com/rustyeddy/magnate/pkg/id"
)

// ActionResult reports a player action. Rejections carry OK=false, the
// cause in Err and a readable Message; they never change state.
type ActionResult struct {
	OK      bool
	Message string
	Err     error

	Date    time.Time
	Price   decimal.Decimal
	Margin  decimal.Decimal
	PnL     decimal.Decimal
	Balance decimal.Decimal
}

// Buy opens a long position of qty lots at the current tradable price.
func (c *Clock) Buy(qty int64) ActionResult { return c.openPosition(Long, qty) }

// Sell opens a short position of qty lots at the current tradable price.
func (c *Clock) Sell(qty int64) ActionResult { return c.openPosition(Short, qty) }

// ClosePosition flattens the open position at the current tradable price.
func (c *Clock) ClosePosition() ActionResult {
	price, err := c.tradablePrice()
	if err != nil {
		return c.reject(err)
	}

	s, err := c.settle(price, journal.ReasonPlayer)
	if err != nil {
		return c.reject(err)
	}

	msg := fmt.Sprintf("Closed %s %d @ %s: P&L %s, margin released %s, balance %s",
		s.Side, s.Quantity, price.StringFixed(2), s.PnL.StringFixed(2), s.MarginReleased.StringFixed(2), s.Balance.StringFixed(2))
	c.log.Info("position closed",
		zap.String("side", s.Side.String()),
		zap.Int64("qty", s.Quantity),
		zap.String("price", price.String()),
		zap.String("pnl", s.PnL.String()),
	)
	return ActionResult{
		OK:      true,
		Message: msg,
		Date:    c.last.Date,
		Price:   price,
		Margin:  s.MarginReleased,
		PnL:     s.PnL,
		Balance: s.Balance,
	}
}

func (c *Clock) openPosition(side Side, qty int64) ActionResult {
	price, err := c.tradablePrice()
	if err != nil {
		return c.reject(err)
	}

	margin, err := c.acct.Open(side, price, qty)
	if err != nil {
		return c.reject(err)
	}
	c.open = &openTrade{ID: id.New(), Date: c.last.Date}

	verb := "Bought"
	if side == Short {
		verb = "Sold short"
	}
	c.log.Info("position opened",
		zap.String("side", side.String()),
		zap.Int64("qty", qty),
		zap.String("price", price.String()),
		zap.String("margin", margin.String()),
	)
	return ActionResult{
		OK:      true,
		Message: fmt.Sprintf("%s %d @ %s, margin used %s", verb, qty, price.StringFixed(2), margin.StringFixed(2)),
		Date:    c.last.Date,
		Price:   price,
		Margin:  margin,
		Balance: c.acct.Balance(),
	}
}

// tradablePrice is the price of the last completed tick. Trading is allowed
// while paused but not before the first tick or after the game.
func (c *Clock) tradablePrice() (decimal.Decimal, error) {
	switch c.state {
	case Ended:
		return decimal.Zero, ErrEnded
	case Halted:
		return decimal.Zero, c.haltErr
	}
	if !c.hasPrice {
		return decimal.Zero, fmt.Errorf("%w: no price yet", ErrNotRunning)
	}
	return c.last.Price, nil
}

func (c *Clock) reject(err error) ActionResult {
	c.log.Debug("action rejected", zap.Error(err))
	return ActionResult{
		OK:      false,
		Message: err.Error(),
		Err:     err,
		Date:    c.last.Date,
		Price:   c.last.Price,
		Balance: c.acct.Balance(),
	}
}
