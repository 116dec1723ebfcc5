package state

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrUnknownCard     = errors.New("unknown card")
	ErrDeckEmpty       = errors.New("deck is empty")
)

// InvariantError reports state that should be impossible, such as a registered
// card that is missing from the zone it claims to be in. The operation that
// detects it aborts without mutating anything.
type InvariantError struct {
	Op     string
	CardID string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant broken in %s (card %s): %s", e.Op, e.CardID, e.Detail)
}
