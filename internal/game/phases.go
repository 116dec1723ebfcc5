package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// beginTurn runs Ready, Set and Draw for the turn player and stops in Main.
func (e *Engine) beginTurn(ctx context.Context) {
	active := e.game.ActivePlayer()
	e.watchers.ResetAll()
	e.effects.Prune()
	e.publish(rules.NewEvent(rules.EventTurnStarted, "", "", active))
	e.logger.Info("turn started",
		zap.Int("turn", e.game.Turns.TurnNumber()),
		zap.String("player", active),
	)

	e.readyStep(active)
	steps := []struct {
		step rules.Step
		run  func()
	}{
		{rules.StepSet, func() { e.setStep(ctx, active) }},
		{rules.StepDraw, func() { e.drawStep(active) }},
	}
	for _, s := range steps {
		e.advance(ctx, s.step)
		if e.game.GameOver() {
			return
		}
		if s.run(); e.game.GameOver() {
			return
		}
	}
	e.advance(ctx, rules.StepMain)
}

// advance moves the clock to step within the current turn and announces it.
func (e *Engine) advance(ctx context.Context, step rules.Step) {
	e.game.Turns.AdvanceTo(step)
	e.effects.Prune()
	evt := rules.NewEvent(rules.EventStepChanged, "", "", e.game.ActivePlayer())
	evt.Data = step.String()
	e.publish(evt)
	e.resolveTriggers(ctx)
	e.checkWinner()
}

// readyStep readies the turn player's cards and dries their characters.
func (e *Engine) readyStep(playerID string) {
	p, ok := e.game.Player(playerID)
	if !ok {
		return
	}
	for _, c := range p.Play {
		c.Drying = false
		if !c.Exerted {
			continue
		}
		if e.effects.HasRestriction(c, ability.CantReady) {
			e.logger.Debug("card stays exerted", zap.String("card", c.ID))
			continue
		}
		c.Exerted = false
		e.publish(rules.NewEvent(rules.EventReadied, c.ID, "", playerID))
	}
}

// setStep readies the inkwell and collects lore from locations. Start of turn
// triggers have already resolved when the step was announced.
func (e *Engine) setStep(ctx context.Context, playerID string) {
	p, ok := e.game.Player(playerID)
	if !ok {
		return
	}
	if e.effects.PlayerRestricted(playerID, ability.InkwellCantReady) {
		e.logger.Debug("inkwell stays exerted", zap.String("player", playerID))
	} else {
		for _, c := range p.Inkwell {
			c.Exerted = false
		}
	}
	for _, loc := range p.Locations() {
		if lore := e.effects.ModifiedStat(loc, ability.StatLore); lore > 0 {
			e.gainLore(playerID, lore, loc.ID)
		}
	}
	e.resolveTriggers(ctx)
}

// drawStep draws one card plus bonuses. The first player skips the draw on
// the first turn of the game.
func (e *Engine) drawStep(playerID string) {
	if e.game.Turns.TurnNumber() == 1 && playerID == e.game.FirstPlayer {
		e.logger.Debug("first player skips draw", zap.String("player", playerID))
		return
	}
	e.draw(playerID, 1+e.effects.DrawBonus(playerID), "")
}

// passTurn runs the End step and the next player's beginning phase.
func (e *Engine) passTurn(ctx context.Context) error {
	active := e.game.ActivePlayer()
	e.game.Turns.AdvanceTo(rules.StepEnd)
	e.publish(rules.NewEvent(rules.EventTurnEnding, "", "", active))
	e.resolveTriggers(ctx)
	e.checkWinner()
	if e.game.GameOver() {
		return nil
	}

	if p, ok := e.game.Player(active); ok {
		p.InkedThisTurn = false
	}
	next := e.game.NextPlayer(active)
	e.game.Turns.AdvanceStep(next)
	e.effects.Prune()
	e.logger.Debug("turn passed",
		zap.String("from", active),
		zap.String("to", next),
		zap.Int("turn", e.game.Turns.TurnNumber()),
	)
	e.beginTurn(ctx)
	return nil
}
