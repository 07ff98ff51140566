package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountConfig sets up a fresh account.
type AccountConfig struct {
	InitialBalance decimal.Decimal
	LotSize        int64
	MarginRate     decimal.Decimal
}

func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		InitialBalance: decimal.NewFromInt(100000),
		LotSize:        1,
		MarginRate:     DefaultMarginRate,
	}
}

// Account holds at most one margined position. It is flat when position is
// zero, and then entry is zero too. Failed operations leave it untouched.
// An Account is not safe for concurrent use.
type Account struct {
	initial    decimal.Decimal
	balance    decimal.Decimal
	position   int64
	entry      decimal.Decimal
	lotSize    int64
	marginRate decimal.Decimal
}

func NewAccount(cfg AccountConfig) (*Account, error) {
	if !cfg.InitialBalance.IsPositive() {
		return nil, fmt.Errorf("%w: initial balance %s must be positive", ErrValidation, cfg.InitialBalance)
	}
	if cfg.LotSize <= 0 {
		return nil, fmt.Errorf("%w: lot size %d must be positive", ErrValidation, cfg.LotSize)
	}
	if !cfg.MarginRate.IsPositive() || cfg.MarginRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: margin rate %s must be in (0, 1]", ErrValidation, cfg.MarginRate)
	}
	return &Account{
		initial:    cfg.InitialBalance,
		balance:    cfg.InitialBalance,
		lotSize:    cfg.LotSize,
		marginRate: cfg.MarginRate,
	}, nil
}

// Open takes a position of qty lots at price and returns the margin it
// reserved.
func (a *Account) Open(side Side, price decimal.Decimal, qty int64) (decimal.Decimal, error) {
	if !side.valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown side %d", ErrValidation, int(side))
	}
	if err := validate(price, qty); err != nil {
		return decimal.Zero, err
	}
	if a.position != 0 {
		return decimal.Zero, fmt.Errorf("%w: %s %d @ %s, close it first",
			ErrPositionAlreadyOpen, sideOf(a.position), abs(a.position), a.entry.StringFixed(2))
	}

	margin := Margin(price, qty, a.marginRate)
	if a.balance.LessThan(margin) {
		return decimal.Zero, fmt.Errorf("%w: margin %s exceeds balance %s",
			ErrInsufficientFunds, margin.StringFixed(2), a.balance.StringFixed(2))
	}

	a.balance = a.balance.Sub(margin)
	a.position = int64(side) * qty
	a.entry = price
	return margin, nil
}

// Close flattens the position at price. The P&L is credited first and the
// reserved margin released after it.
func (a *Account) Close(price decimal.Decimal) (Settlement, error) {
	if !price.IsPositive() {
		return Settlement{}, fmt.Errorf("%w: price %s must be positive", ErrValidation, price)
	}
	if a.position == 0 {
		return Settlement{}, ErrNoOpenPosition
	}

	pnl := PnL(a.entry, price, a.position, a.lotSize)
	released := a.MarginUsed()

	s := Settlement{
		Side:           sideOf(a.position),
		Quantity:       abs(a.position),
		EntryPrice:     a.entry,
		ExitPrice:      price,
		PnL:            pnl,
		MarginReleased: released,
	}

	a.balance = a.balance.Add(pnl)
	a.balance = a.balance.Add(released)
	a.position = 0
	a.entry = decimal.Zero

	s.Balance = a.balance
	return s, nil
}

// FloatingPnL is the unrealized P&L at price. It has no side effects.
func (a *Account) FloatingPnL(price decimal.Decimal) decimal.Decimal {
	return PnL(a.entry, price, a.position, a.lotSize)
}

// MarginUsed is the margin reserved by the open position.
func (a *Account) MarginUsed() decimal.Decimal {
	if a.position == 0 {
		return decimal.Zero
	}
	return Margin(a.entry, a.position, a.marginRate)
}

// Equity is balance plus reserved margin plus floating P&L at price.
func (a *Account) Equity(price decimal.Decimal) decimal.Decimal {
	return a.balance.Add(a.MarginUsed()).Add(a.FloatingPnL(price))
}

func (a *Account) Balance() decimal.Decimal        { return a.balance }
func (a *Account) InitialBalance() decimal.Decimal { return a.initial }
func (a *Account) Position() int64                 { return a.position }
func (a *Account) EntryPrice() decimal.Decimal     { return a.entry }
func (a *Account) LotSize() int64                  { return a.lotSize }
func (a *Account) Flat() bool                      { return a.position == 0 }

func validate(price decimal.Decimal, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity %d must be a positive whole number", ErrValidation, qty)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price %s must be positive", ErrValidation, price)
	}
	return nil
}
