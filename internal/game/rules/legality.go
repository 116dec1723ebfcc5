package rules

import (
	"fmt"
)

// Reason is a machine-readable code explaining why something is not legal.
type Reason string

const (
	ReasonGameOver          Reason = "game_over"
	ReasonWrongPhase        Reason = "wrong_phase"
	ReasonNotYourTurn       Reason = "not_your_turn"
	ReasonUnknownPlayer     Reason = "unknown_player"
	ReasonUnknownCard       Reason = "unknown_card"
	ReasonWrongZone         Reason = "wrong_zone"
	ReasonNotOwner          Reason = "not_owner"
	ReasonAlreadyInked      Reason = "already_inked"
	ReasonNotInkable        Reason = "not_inkable"
	ReasonInsufficientInk   Reason = "insufficient_ink"
	ReasonWrongCardType     Reason = "wrong_card_type"
	ReasonExerted           Reason = "exerted"
	ReasonDrying            Reason = "drying"
	ReasonNoLore            Reason = "no_lore"
	ReasonNoStrength        Reason = "no_strength"
	ReasonReckless          Reason = "reckless"
	ReasonRestricted        Reason = "restricted"
	ReasonInvalidTarget     Reason = "invalid_target"
	ReasonDefenderReady     Reason = "defender_ready"
	ReasonEvasive           Reason = "evasive"
	ReasonBodyguard         Reason = "bodyguard"
	ReasonNoShift           Reason = "no_shift"
	ReasonShiftName         Reason = "shift_name_mismatch"
	ReasonNotSong           Reason = "not_song"
	ReasonSingerTooWeak     Reason = "singer_too_weak"
	ReasonNoAbility         Reason = "no_ability"
	ReasonAlreadyAtLocation Reason = "already_at_location"
	ReasonMustChallenge     Reason = "must_challenge"
	ReasonUnknownAction     Reason = "unknown_action"
	ReasonSourceGone        Reason = "source_gone"
)

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  Reason
	Message string
	Details map[string]string
}

// Legal is the passing result.
func Legal() LegalityResult {
	return LegalityResult{Legal: true}
}

// Illegal builds a failing result with a formatted human-readable message.
func Illegal(reason Reason, format string, args ...any) LegalityResult {
	return LegalityResult{
		Legal:   false,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// With attaches a detail key to the result.
func (r LegalityResult) With(key, value string) LegalityResult {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
	return r
}

// GameStateAccessor provides the game facts needed to check queued triggers.
type GameStateAccessor interface {
	// CardExists reports whether the card is registered in any zone.
	CardExists(cardID string) bool
	// HasPlayer reports whether the player is registered.
	HasPlayer(playerID string) bool
	// GameOver reports whether a winner has been recorded.
	GameOver() bool
}

// LegalityChecker validates queued triggers before resolution.
type LegalityChecker struct {
	gameState GameStateAccessor
}

// NewLegalityChecker creates a new legality checker.
func NewLegalityChecker(gameState GameStateAccessor) *LegalityChecker {
	return &LegalityChecker{gameState: gameState}
}

// CheckPendingTrigger reports whether a queued trigger may still resolve.
// A source that left play may still resolve its trigger (banish triggers
// resolve from the discard), but it must still exist somewhere.
func (lc *LegalityChecker) CheckPendingTrigger(item PendingTrigger) LegalityResult {
	if lc == nil || lc.gameState == nil {
		return Legal()
	}
	if lc.gameState.GameOver() {
		return Illegal(ReasonGameOver, "game is over").With("trigger_id", item.ID)
	}
	if item.Controller != "" && !lc.gameState.HasPlayer(item.Controller) {
		return Illegal(ReasonUnknownPlayer, "controller %s not found", item.Controller).
			With("controller_id", item.Controller)
	}
	if item.SourceID != "" && !lc.gameState.CardExists(item.SourceID) {
		return Illegal(ReasonSourceGone, "source %s no longer exists", item.SourceID).
			With("source_id", item.SourceID)
	}
	return Legal()
}
