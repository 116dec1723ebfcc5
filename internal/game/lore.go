package game

import (
	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// gainLore adds lore and checks for a winner at once, whatever granted it.
func (e *Engine) gainLore(playerID string, amount int, sourceID string) {
	p, ok := e.game.Player(playerID)
	if !ok || amount <= 0 {
		return
	}
	p.Lore += amount
	e.publish(rules.NewEventWithAmount(rules.EventLoreGained, "", sourceID, playerID, amount))
	e.logger.Effect("lore gained",
		zap.String("player", playerID),
		zap.Int("amount", amount),
		zap.Int("lore", p.Lore),
		zap.String("source", sourceID),
	)
	e.checkWinner()
}

// loseLore removes lore down to zero.
func (e *Engine) loseLore(playerID string, amount int, sourceID string) {
	p, ok := e.game.Player(playerID)
	if !ok || amount <= 0 {
		return
	}
	if amount > p.Lore {
		amount = p.Lore
	}
	if amount == 0 {
		return
	}
	p.Lore -= amount
	e.publish(rules.NewEventWithAmount(rules.EventLoreLost, "", sourceID, playerID, amount))
	e.logger.Effect("lore lost", zap.String("player", playerID), zap.Int("amount", amount), zap.Int("lore", p.Lore))
}

// checkWinner records the first player, from the turn player onward, whose
// lore reached their goal.
func (e *Engine) checkWinner() bool {
	if e.game.GameOver() {
		return true
	}
	start := e.game.ActivePlayer()
	id := start
	for i := 0; i < len(e.game.PlayerIDs()); i++ {
		if p, ok := e.game.Player(id); ok && p.Lore >= p.LoreGoal {
			e.setWinner(id, "lore")
			return true
		}
		id = e.game.NextPlayer(id)
	}
	return false
}

func (e *Engine) setWinner(playerID, reason string) {
	if e.game.GameOver() {
		return
	}
	e.game.Winner = playerID
	evt := rules.NewEvent(rules.EventGameWon, "", "", playerID)
	evt.Data = reason
	e.publish(evt)
	e.logger.Info("game won",
		zap.String("winner", playerID),
		zap.String("reason", reason),
		zap.Int("turn", e.game.Turns.TurnNumber()),
	)
}
