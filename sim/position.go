package sim

import (
	"fmt"
	"strings"
)

// Side is the direction of a position.
type Side int

const (
	Long  Side = 1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

func (s Side) valid() bool { return s == Long || s == Short }

func ParseSide(str string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "long", "buy":
		return Long, nil
	case "short", "sell":
		return Short, nil
	}
	return 0, fmt.Errorf("%w: unknown side %q", ErrValidation, str)
}

func sideOf(position int64) Side {
	if position < 0 {
		return Short
	}
	return Long
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
