package game

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/effects"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/watchers"
)

func (e *Engine) inkCard(a Action) error {
	c, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	p, err := e.player(a.PlayerID)
	if err != nil {
		return err
	}
	if err := e.game.MoveCard(c.ID, state.ZoneInkwell, state.PositionTop); err != nil {
		return err
	}
	c.Exerted = false
	p.InkedThisTurn = true
	e.publish(rules.NewEvent(rules.EventCardInked, c.ID, "", p.ID))
	return nil
}

// playCard pays for a card from hand and puts it into play, or resolves it
// when it is an action.
func (e *Engine) playCard(ctx context.Context, a Action) error {
	c, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	p, err := e.player(a.PlayerID)
	if err != nil {
		return err
	}

	switch a.Mode {
	case PlayWithInk:
		if err := p.ExertInk(e.effects.ModifiedCost(c, p.ID)); err != nil {
			return err
		}
		e.effects.ConsumeCostModifiers(c, p.ID)
	case PlayShift:
		cost, _ := e.shiftCost(c, p.ID)
		if err := p.ExertInk(cost); err != nil {
			return err
		}
		e.effects.ConsumeCostModifiers(c, p.ID)
	case PlaySing:
		for _, id := range a.Singers {
			singer, err := e.card(id)
			if err != nil {
				return err
			}
			e.exert(singer, c.ID)
		}
	}

	if c.IsCharacter() || c.IsItem() || c.IsLocation() {
		return e.putIntoPlay(ctx, c, a)
	}
	return e.resolveActionCard(ctx, c, a)
}

func (e *Engine) putIntoPlay(ctx context.Context, c *state.Card, a Action) error {
	if a.Mode == PlayShift {
		if err := e.shiftOnto(c, a.TargetID); err != nil {
			return err
		}
	} else {
		if err := e.enterPlay(c); err != nil {
			return err
		}
		if c.IsCharacter() && e.effects.HasKeyword(c, ability.Bodyguard) {
			r := &resolution{source: c, controller: c.Owner, def: ability.Definition{ID: string(ability.Bodyguard), Name: string(ability.Bodyguard)}}
			if e.confirm(ctx, r, c.FullName()+" may enter play exerted. Exert it?") {
				e.exert(c, c.ID)
			}
		}
	}

	evt := rules.NewEvent(rules.EventCardPlayed, c.ID, "", a.PlayerID)
	evt.Data = string(c.Type())
	if a.Mode == PlayShift {
		evt.Metadata["shift"] = a.TargetID
	}
	e.publish(evt)
	e.logger.Action("card played",
		zap.String("player", a.PlayerID),
		zap.String("card", c.ID),
		zap.String("name", c.FullName()),
		zap.String("mode", string(a.Mode)),
	)
	return nil
}

// shiftOnto puts c into play on top of the same-named character ontoID. The
// new card keeps the old one's exerted state, damage, drying and location.
func (e *Engine) shiftOnto(c *state.Card, ontoID string) error {
	base, err := e.card(ontoID)
	if err != nil {
		return err
	}
	exerted, damage, drying := base.Exerted, base.Damage, base.Drying
	location, atLocation := base.Markers.Location()
	under := append(append([]string(nil), base.Markers.CardsUnder()...), base.ID)

	if err := e.enterPlay(c); err != nil {
		return err
	}
	c.Exerted, c.Damage, c.Drying = exerted, damage, drying
	if atLocation {
		c.Markers.Set(state.LocationMarker{LocationID: location})
	}
	c.Markers.Set(state.CardsUnderMarker{CardIDs: under})
	c.Markers.Set(state.ShiftMarker{OntoID: base.ID})

	if err := e.game.MoveCard(base.ID, state.ZoneUnder, state.PositionTop); err != nil {
		return err
	}
	base.ResetRuntime()
	e.effects.Retarget(base.ID, c.ID)
	e.triggers.UnregisterSource(base.ID)
	e.logger.Effect("shifted", zap.String("card", c.ID), zap.String("onto", base.ID), zap.Int("under", len(under)))
	return nil
}

// resolveActionCard puts an action or song into the discard and resolves it.
func (e *Engine) resolveActionCard(ctx context.Context, c *state.Card, a Action) error {
	if err := e.game.MoveCard(c.ID, state.ZoneDiscard, state.PositionTop); err != nil {
		return err
	}
	if a.Mode == PlaySing {
		evt := rules.NewEvent(rules.EventSongSung, c.ID, "", a.PlayerID)
		evt.Targets = append([]string(nil), a.Singers...)
		e.publish(evt)
	}
	evt := rules.NewEvent(rules.EventCardPlayed, c.ID, "", a.PlayerID)
	evt.Data = string(c.Type())
	if c.IsSong() {
		evt.Metadata[watchers.MetaSong] = "true"
	}
	e.publish(evt)
	e.logger.Action("card played",
		zap.String("player", a.PlayerID),
		zap.String("card", c.ID),
		zap.String("name", c.FullName()),
		zap.String("mode", string(a.Mode)),
	)

	for _, def := range c.AbilitiesOfKind(ability.KindAction) {
		if e.game.GameOver() {
			break
		}
		e.resolveAbility(ctx, c, def, a.PlayerID, nil)
		e.checkLethal()
	}
	return nil
}

// quest exerts a character and gains its lore. A Support character may add
// its strength to another of the player's characters this turn.
func (e *Engine) quest(ctx context.Context, a Action) error {
	c, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	lore := e.effects.ModifiedStat(c, ability.StatLore)
	e.exert(c, c.ID)
	e.publish(rules.NewEventWithAmount(rules.EventQuested, c.ID, "", a.PlayerID, lore))
	e.gainLore(a.PlayerID, lore, c.ID)
	if e.game.GameOver() || !e.effects.HasKeyword(c, ability.Support) {
		return nil
	}
	return e.support(ctx, c)
}

func (e *Engine) support(ctx context.Context, c *state.Card) error {
	strength := e.effects.ModifiedStat(c, ability.StatStrength)
	if strength <= 0 {
		return nil
	}
	p, err := e.player(c.Owner)
	if err != nil {
		return err
	}
	var others []*state.Card
	for _, ch := range p.Characters() {
		if ch.ID != c.ID {
			others = append(others, ch)
		}
	}
	out, err := e.broker.Request(ctx, choice.Request{
		PlayerID: c.Owner,
		Kind:     choice.KindTarget,
		Prompt:   "Support: choose another character to get +" + strconv.Itoa(strength) + " strength",
		Options:  cardOptions(others),
		Min:      0,
		Max:      1,
		Optional: true,
		Hint:     choice.HintBeneficial,
		Source:   choice.Source{CardID: c.ID, AbilityID: string(ability.Support)},
	})
	if err != nil {
		return err
	}
	if out.Skipped() {
		return nil
	}
	e.addEffect(effects.NewEffectBuilder(c.ID, c.Owner).
		Targeting(out.Selected[0]).
		ThisTurn().
		ModifyStat(ability.StatStrength, strength))
	return nil
}

// useAbility pays an activated ability's cost and resolves it.
func (e *Engine) useAbility(ctx context.Context, a Action) error {
	c, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	p, err := e.player(a.PlayerID)
	if err != nil {
		return err
	}
	def, _ := c.Ability(a.AbilityID)
	if cost := def.Cost; cost != nil {
		if err := p.ExertInk(cost.Ink); err != nil {
			return err
		}
		if cost.Exert {
			e.exert(c, c.ID)
		}
		if cost.BanishSelf {
			if err := e.banish(c, c.ID, false); err != nil {
				return err
			}
		}
	}

	evt := rules.NewEvent(rules.EventAbilityActivated, c.ID, "", p.ID)
	evt.Data = def.ID
	e.publish(evt)
	e.resolveAbility(ctx, c, def, p.ID, nil)
	e.checkLethal()
	return nil
}

// move pays the move cost and puts a character at a location.
func (e *Engine) move(a Action) error {
	mover, err := e.card(a.CardID)
	if err != nil {
		return err
	}
	location, err := e.card(a.TargetID)
	if err != nil {
		return err
	}
	p, err := e.player(a.PlayerID)
	if err != nil {
		return err
	}
	if err := p.ExertInk(e.effects.ModifiedMoveCost(mover, location)); err != nil {
		return err
	}
	mover.Markers.Set(state.LocationMarker{LocationID: location.ID})
	e.publish(rules.NewEvent(rules.EventMovedToLocation, mover.ID, location.ID, p.ID))
	e.logger.Action("moved", zap.String("card", mover.ID), zap.String("location", location.ID))
	return nil
}
