package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// challenge exerts the attacker, resolves challenge triggers and then has
// both combatants deal damage at the same time. Locations deal no damage.
func (e *Engine) challenge(ctx context.Context, a Action) error {
	attacker, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	defender, err := e.card(a.TargetID)
	if err != nil {
		return err
	}

	e.exert(attacker, attacker.ID)
	e.publish(rules.NewEvent(rules.EventChallengeDeclared, defender.ID, attacker.ID, a.PlayerID))
	e.resolveTriggers(ctx)
	if e.game.GameOver() {
		return nil
	}
	if !attacker.InPlay() || !defender.InPlay() {
		e.logger.Debug("challenge fizzled",
			zap.String("attacker", attacker.ID),
			zap.String("defender", defender.ID),
		)
		return nil
	}

	attack := e.effects.ModifiedStat(attacker, ability.StatStrength)
	if bonus, ok := e.effects.KeywordValue(attacker, ability.Challenger); ok {
		attack += bonus
	}
	counter := 0
	if defender.IsCharacter() {
		counter = e.effects.ModifiedStat(defender, ability.StatStrength)
	}

	toDefender := e.dealDamage(defender, attack, attacker.ID)
	toAttacker := e.dealDamage(attacker, counter, defender.ID)
	e.logger.Effect("challenge damage",
		zap.String("attacker", attacker.ID),
		zap.String("defender", defender.ID),
		zap.Int("to_defender", toDefender),
		zap.Int("to_attacker", toAttacker),
	)

	e.banishIfLethal(defender, attacker.ID, true)
	e.banishIfLethal(attacker, defender.ID, true)
	return nil
}
