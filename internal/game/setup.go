package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// Start shuffles every deck, deals opening hands, runs the mulligan and plays
// the first player's beginning phase. The first seated player goes first.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return ErrAlreadyStarted
	}
	ids := e.game.PlayerIDs()
	if len(ids) < 2 {
		return fmt.Errorf("start game: need at least 2 players, have %d", len(ids))
	}

	for _, id := range ids {
		if err := e.game.ShuffleDeck(id, e.rng); err != nil {
			return err
		}
		for i := 0; i < e.opts.OpeningHand; i++ {
			if _, err := e.game.Draw(id); err != nil {
				return fmt.Errorf("deal opening hand to %s: %w", id, err)
			}
		}
	}

	if !e.opts.SkipMulligan {
		for _, id := range ids {
			if err := e.mulligan(ctx, id); err != nil {
				return err
			}
		}
	}

	if err := e.game.Begin(ids[0]); err != nil {
		return err
	}
	e.started = true

	e.logger.Info("game started",
		zap.Strings("players", ids),
		zap.String("first_player", ids[0]),
		zap.Int64("seed", e.opts.Seed),
	)
	e.publish(rules.NewEvent(rules.EventGameStarted, "", "", ids[0]))
	e.beginTurn(ctx)
	return nil
}

// mulligan lets a player put any number of cards from the opening hand on
// the bottom of the deck, draw that many and shuffle.
func (e *Engine) mulligan(ctx context.Context, playerID string) error {
	p, err := e.player(playerID)
	if err != nil {
		return err
	}
	req := choice.Request{
		PlayerID: playerID,
		Kind:     choice.KindMulligan,
		Prompt:   "Choose any cards to put on the bottom of your deck",
		Options:  cardOptions(p.Hand),
		Min:      0,
		Max:      len(p.Hand),
		Optional: true,
	}
	out, err := e.broker.Request(ctx, req)
	if err != nil {
		return fmt.Errorf("mulligan for %s: %w", playerID, err)
	}
	if out.Skipped() {
		return nil
	}

	for _, id := range out.Selected {
		if err := e.game.MoveCard(id, state.ZoneDeck, state.PositionBottom); err != nil {
			return err
		}
	}
	for range out.Selected {
		if _, err := e.game.Draw(playerID); err != nil {
			return fmt.Errorf("mulligan redraw for %s: %w", playerID, err)
		}
	}
	if err := e.game.ShuffleDeck(playerID, e.rng); err != nil {
		return err
	}
	p.Mulliganed = true

	evt := rules.NewEventWithAmount(rules.EventMulligan, "", "", playerID, len(out.Selected))
	evt.Targets = out.Selected
	e.publish(evt)
	e.logger.Action("mulligan", zap.String("player", playerID), zap.Int("cards", len(out.Selected)))
	return nil
}

func cardOptions(cards []*state.Card) []choice.Option {
	opts := make([]choice.Option, 0, len(cards))
	for _, c := range cards {
		opts = append(opts, choice.Option{ID: c.ID, Label: c.FullName(), Valid: true, CardID: c.ID})
	}
	return opts
}
