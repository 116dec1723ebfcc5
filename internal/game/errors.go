package game

import (
	"errors"
	"fmt"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

var (
	// ErrNotStarted is returned for actions submitted before Start.
	ErrNotStarted = errors.New("game not started")
	// ErrAlreadyStarted is returned when seats change after Start.
	ErrAlreadyStarted = errors.New("game already started")
)

// ValidationError reports an action rejected by the rules. The board is
// unchanged when it is returned.
type ValidationError struct {
	Action Action
	Result rules.LegalityResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("illegal %s by %s: %s (%s)", e.Action.Type, e.Action.PlayerID, e.Result.Message, e.Result.Reason)
}

// Reason is the machine-readable rejection code.
func (e *ValidationError) Reason() rules.Reason {
	return e.Result.Reason
}

// IsValidation reports whether err is a rejected action and returns its reason.
func IsValidation(err error) (rules.Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason(), true
	}
	return "", false
}
