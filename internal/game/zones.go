package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// enterPlay moves a card into play and registers its triggered abilities.
func (e *Engine) enterPlay(c *state.Card) error {
	if err := e.game.MoveCard(c.ID, state.ZonePlay, state.PositionTop); err != nil {
		return err
	}
	c.Drying = c.IsCharacter()
	e.registerTriggers(c)
	return nil
}

// leavePlay moves a card out of play, announces evt and then drops the
// card's triggers, so the card's own leave-play triggers still fire. Cards
// stacked under it go to the discard.
func (e *Engine) leavePlay(c *state.Card, to state.Zone, pos state.Position, evt rules.Event) error {
	under := append([]string(nil), c.Markers.CardsUnder()...)
	if c.IsLocation() {
		for _, ch := range e.game.CharactersAt(c.ID) {
			ch.Markers.Clear(state.MarkerAtLocation)
		}
	}
	if err := e.game.MoveCard(c.ID, to, pos); err != nil {
		return err
	}
	c.ResetRuntime()
	e.effects.ForgetCard(c.ID)
	for _, id := range under {
		if err := e.game.MoveCard(id, state.ZoneDiscard, state.PositionTop); err != nil {
			return err
		}
	}

	e.publish(evt)
	e.triggers.UnregisterSource(c.ID)
	return nil
}

// banish sends a card in play to its owner's discard.
func (e *Engine) banish(c *state.Card, by string, inChallenge bool) error {
	if !c.InPlay() {
		return nil
	}
	evt := rules.NewEventWithFlag(rules.EventBanished, c.ID, by, c.Owner, inChallenge)
	evt.Data = string(c.Type())
	if err := e.leavePlay(c, state.ZoneDiscard, state.PositionTop, evt); err != nil {
		return err
	}
	e.logger.Effect("banished",
		zap.String("card", c.ID),
		zap.String("name", c.FullName()),
		zap.String("by", by),
		zap.Bool("in_challenge", inChallenge),
	)
	return nil
}

// lethal reports whether a character or location has taken as much damage
// as its willpower.
func (e *Engine) lethal(c *state.Card) bool {
	if !c.InPlay() || !(c.IsCharacter() || c.IsLocation()) {
		return false
	}
	willpower := e.effects.ModifiedStat(c, ability.StatWillpower)
	return c.Damage >= willpower && (c.Damage > 0 || willpower <= 0)
}

// banishIfLethal banishes c when its damage reached its willpower.
func (e *Engine) banishIfLethal(c *state.Card, by string, inChallenge bool) bool {
	if !e.lethal(c) {
		return false
	}
	if err := e.banish(c, by, inChallenge); err != nil {
		e.logger.Error("banish failed", zap.String("card", c.ID), zap.Error(err))
		return false
	}
	return true
}

// checkLethal banishes every card whose willpower no longer covers its damage.
func (e *Engine) checkLethal() {
	for _, c := range e.game.CardsInPlay() {
		e.banishIfLethal(c, "", false)
	}
}

// dealDamage puts damage on c after Resist and returns the amount dealt.
func (e *Engine) dealDamage(c *state.Card, amount int, sourceID string) int {
	if !c.InPlay() || amount <= 0 {
		return 0
	}
	dealt := amount - e.effects.ModifiedResist(c)
	if dealt <= 0 {
		e.logger.Debug("damage prevented", zap.String("card", c.ID), zap.Int("amount", amount))
		return 0
	}
	c.Damage += dealt
	e.publish(rules.NewEventWithAmount(rules.EventDamageDealt, c.ID, sourceID, c.Owner, dealt))
	return dealt
}

// heal removes up to amount damage from c.
func (e *Engine) heal(c *state.Card, amount int, sourceID string) {
	if !c.InPlay() || c.Damage == 0 || amount <= 0 {
		return
	}
	if amount > c.Damage {
		amount = c.Damage
	}
	c.Damage -= amount
	e.publish(rules.NewEventWithAmount(rules.EventDamageRemoved, c.ID, sourceID, c.Owner, amount))
}

func (e *Engine) exert(c *state.Card, sourceID string) {
	if c.Exerted {
		return
	}
	c.Exerted = true
	e.publish(rules.NewEvent(rules.EventExerted, c.ID, sourceID, c.Owner))
}

func (e *Engine) ready(c *state.Card, sourceID string) {
	if !c.Exerted || e.effects.HasRestriction(c, ability.CantReady) {
		return
	}
	c.Exerted = false
	e.publish(rules.NewEvent(rules.EventReadied, c.ID, sourceID, c.Owner))
}

// draw draws n cards for playerID. Drawing from an empty deck loses the game.
func (e *Engine) draw(playerID string, n int, sourceID string) {
	for i := 0; i < n && !e.game.GameOver(); i++ {
		c, err := e.game.Draw(playerID)
		if errors.Is(err, state.ErrDeckEmpty) {
			e.deckOut(playerID)
			return
		}
		if err != nil {
			e.logger.Error("draw failed", zap.String("player", playerID), zap.Error(err))
			return
		}
		e.publish(rules.NewEvent(rules.EventCardDrawn, c.ID, sourceID, playerID))
	}
}

// deckOut ends the game in favour of the next opponent.
func (e *Engine) deckOut(playerID string) {
	winner := e.game.NextPlayer(playerID)
	e.logger.Info("deck out", zap.String("player", playerID))
	e.setWinner(winner, "deck_out")
}

// discardFromHand moves a hand card to its owner's discard.
func (e *Engine) discardFromHand(c *state.Card, sourceID string) error {
	if err := e.game.MoveCard(c.ID, state.ZoneDiscard, state.PositionTop); err != nil {
		return err
	}
	e.publish(rules.NewEvent(rules.EventCardDiscarded, c.ID, sourceID, c.Owner))
	return nil
}

// moveZone carries out a move-zone effect on one card.
func (e *Engine) moveZone(c *state.Card, dest ability.Destination, sourceID string) error {
	if c.InPlay() {
		switch dest {
		case ability.DestinationDiscard:
			return e.banish(c, sourceID, false)
		case ability.DestinationHand:
			return e.leavePlay(c, state.ZoneHand, state.PositionTop, rules.NewEvent(rules.EventReturnedToHand, c.ID, sourceID, c.Owner))
		case ability.DestinationInkwell:
			evt := rules.NewEvent(rules.EventZoneChange, c.ID, sourceID, c.Owner)
			evt.Data = state.ZoneInkwell.String()
			if err := e.leavePlay(c, state.ZoneInkwell, state.PositionTop, evt); err != nil {
				return err
			}
			c.Exerted = true
			return nil
		case ability.DestinationDeckBottom:
			evt := rules.NewEvent(rules.EventZoneChange, c.ID, sourceID, c.Owner)
			evt.Data = state.ZoneDeck.String()
			return e.leavePlay(c, state.ZoneDeck, state.PositionBottom, evt)
		}
		return nil
	}

	switch dest {
	case ability.DestinationDiscard:
		if c.Zone == state.ZoneHand {
			return e.discardFromHand(c, sourceID)
		}
	case ability.DestinationHand:
		if err := e.game.MoveCard(c.ID, state.ZoneHand, state.PositionTop); err != nil {
			return err
		}
		e.publish(rules.NewEvent(rules.EventReturnedToHand, c.ID, sourceID, c.Owner))
	case ability.DestinationInkwell:
		if err := e.game.MoveCard(c.ID, state.ZoneInkwell, state.PositionTop); err != nil {
			return err
		}
		c.Exerted = true
	case ability.DestinationDeckBottom:
		if err := e.game.MoveCard(c.ID, state.ZoneDeck, state.PositionBottom); err != nil {
			return err
		}
	}
	return nil
}
