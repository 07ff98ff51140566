package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects bad input before any state changes.
	ErrValidation = errors.New("invalid input")

	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrPositionAlreadyOpen = errors.New("position already open")
	ErrNoOpenPosition      = errors.New("no open position")

	// ErrIrrecoverableData means the clock could not get a usable price and
	// has halted.
	ErrIrrecoverableData = errors.New("irrecoverable price data")

	ErrNotRunning = errors.New("clock is not running")
	ErrEnded      = errors.New("game has ended")
)

// DataError describes the day the clock could not price.
type DataError struct {
	Index int
	Date  string
	Err   error
}

func (e *DataError) Error() string {
	if e.Date != "" {
		return fmt.Sprintf("price data for day %d (%s): %v", e.Index, e.Date, e.Err)
	}
	return fmt.Sprintf("price data for day %d: %v", e.Index, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

func (e *DataError) Is(target error) bool { return target == ErrIrrecoverableData }
