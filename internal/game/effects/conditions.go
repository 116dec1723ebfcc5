package effects

import (
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// ConditionsMet evaluates every condition against the current board. An
// empty list is always met.
func (s *System) ConditionsMet(conds []ability.Condition, source *state.Card, controller string) bool {
	for _, cond := range conds {
		if !s.conditionMet(cond, source, controller) {
			return false
		}
	}
	return true
}

func (s *System) conditionMet(cond ability.Condition, source *state.Card, controller string) bool {
	player, ok := s.game.Player(controller)
	if !ok {
		return false
	}
	switch cond.Kind {
	case ability.ConditionPlayedViaShift:
		return source != nil && source.Markers.PlayedViaShift()
	case ability.ConditionSelfDamaged:
		return source != nil && source.Damage > 0
	case ability.ConditionSelfUndamaged:
		return source != nil && source.Damage == 0
	case ability.ConditionSelfExerted:
		return source != nil && source.Exerted
	case ability.ConditionYourTurn:
		return s.game.ActivePlayer() == controller
	case ability.ConditionControlsNamed, ability.ConditionControlsOtherNamed:
		for _, c := range player.Play {
			if cond.Kind == ability.ConditionControlsOtherNamed && source != nil && c.ID == source.ID {
				continue
			}
			if strings.EqualFold(c.Name(), cond.Name) {
				return true
			}
		}
		return false
	case ability.ConditionHandAtLeast:
		return len(player.Hand) >= cond.Value
	case ability.ConditionAtLocation:
		if source == nil {
			return false
		}
		_, at := source.Markers.Location()
		return at
	case ability.ConditionSongPlayedThisTurn:
		return s.history != nil && s.history.SongsPlayed(controller) > 0
	case ability.ConditionCharactersAtLeast:
		return len(player.Characters()) >= cond.Value
	}
	return false
}

// EvalAmount resolves a literal or computed amount from the controller's point of view.
func (s *System) EvalAmount(amount ability.Amount, source *state.Card, controller string) int {
	if amount.IsLiteral() {
		return amount.Value
	}
	mult := amount.Value
	if mult == 0 {
		mult = 1
	}
	player, ok := s.game.Player(controller)
	if !ok {
		return 0
	}
	switch amount.Kind {
	case ability.AmountPerOwnCharacter:
		return mult * len(player.Characters())
	case ability.AmountPerOtherCharacter:
		n := 0
		for _, c := range player.Characters() {
			if source == nil || c.ID != source.ID {
				n++
			}
		}
		return mult * n
	case ability.AmountPerCardInHand:
		return mult * len(player.Hand)
	case ability.AmountSelfDamage:
		if source == nil {
			return 0
		}
		return mult * source.Damage
	case ability.AmountSelfStrength:
		if source == nil {
			return 0
		}
		return mult * s.ModifiedStat(source, ability.StatStrength)
	case ability.AmountPerOpposingDamaged:
		n := 0
		for _, opp := range s.game.Opponents(controller) {
			for _, c := range opp.Characters() {
				if c.Damage > 0 {
					n++
				}
			}
		}
		return mult * n
	}
	return 0
}
