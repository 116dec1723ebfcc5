package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/effects"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/targeting"
)

// resolution carries one ability through its effect list. Effects that refer
// back to "them" or "that character" read the previous targets.
type resolution struct {
	source     *state.Card
	def        ability.Definition
	controller string
	event      *rules.Event

	prevCards   []*state.Card
	prevPlayers []string
}

func (r *resolution) sourceID() string {
	if r.source == nil {
		return ""
	}
	return r.source.ID
}

func (r *resolution) choiceSource() choice.Source {
	return choice.Source{CardID: r.sourceID(), AbilityID: r.def.ID, Text: r.def.Text}
}

// resolveAbility applies def's effects in order on behalf of controller.
// evt is the event that fired a triggered ability and nil otherwise.
func (e *Engine) resolveAbility(ctx context.Context, source *state.Card, def ability.Definition, controller string, evt *rules.Event) {
	r := &resolution{source: source, def: def, controller: controller, event: evt}

	if def.Optional && !e.confirm(ctx, r, fmt.Sprintf("Use %s?", abilityLabel(source, def))) {
		e.logger.Debug("ability declined", zap.String("ability", def.ID), zap.String("player", controller))
		return
	}

	for _, eff := range def.Effects {
		if e.game.GameOver() {
			return
		}
		// A chosen target may be declined through the target request itself.
		if eff.Optional && eff.Target.Scope != ability.ScopeChosen &&
			!e.confirm(ctx, r, fmt.Sprintf("%s: apply %s?", abilityLabel(source, def), eff.Type)) {
			r.prevCards, r.prevPlayers = nil, nil
			continue
		}
		if err := e.applyEffect(ctx, r, eff); err != nil {
			e.logger.Error("effect failed",
				zap.String("ability", def.ID),
				zap.String("effect", string(eff.Type)),
				zap.Error(err),
			)
		}
	}

	done := rules.NewEvent(rules.EventAbilityResolved, r.sourceID(), "", controller)
	done.Data = def.ID
	e.publish(done)
	e.logger.Effect("ability resolved",
		zap.String("card", r.sourceID()),
		zap.String("ability", def.ID),
		zap.String("text", def.Text),
	)
}

func abilityLabel(source *state.Card, def ability.Definition) string {
	name := def.Name
	if name == "" {
		name = string(def.Kind)
	}
	if source == nil {
		return name
	}
	return source.FullName() + " - " + name
}

// confirm asks the controller a yes/no question.
func (e *Engine) confirm(ctx context.Context, r *resolution, prompt string) bool {
	out, err := e.broker.Request(ctx, choice.Request{
		PlayerID: r.controller,
		Kind:     choice.KindMay,
		Prompt:   prompt,
		Options: []choice.Option{
			{ID: choice.OptionYes, Label: "Yes", Valid: true},
			{ID: choice.OptionNo, Label: "No", Valid: true},
		},
		Min:      1,
		Max:      1,
		Optional: true,
		Source:   r.choiceSource(),
	})
	if err != nil {
		e.logger.Error("confirmation failed", zap.String("player", r.controller), zap.Error(err))
		return false
	}
	return out.Accepted()
}

// playerEffect reports whether an effect type acts on players rather than cards.
func playerEffect(t ability.EffectType) bool {
	switch t {
	case ability.EffectDraw, ability.EffectGainLore, ability.EffectLoseLore,
		ability.EffectDiscard, ability.EffectDrawBonus, ability.EffectMoveCostReduction:
		return true
	}
	return false
}

func (e *Engine) targetContext(r *resolution) targeting.Context {
	return targeting.Context{Game: e.game, Source: r.source, Controller: r.controller, Stats: e.effects}
}

// selectPlayers resolves a player selector.
func (e *Engine) selectPlayers(r *resolution, sel ability.Selector) []string {
	switch sel.Scope {
	case ability.ScopePrevious:
		if len(r.prevPlayers) > 0 {
			return r.prevPlayers
		}
		var owners []string
		for _, c := range r.prevCards {
			owners = append(owners, c.Owner)
		}
		return owners
	case ability.ScopeSelf, "":
		return []string{r.controller}
	}
	return targeting.Players(sel, e.targetContext(r))
}

// selectCards resolves a card selector, asking the controller for chosen targets.
func (e *Engine) selectCards(ctx context.Context, r *resolution, eff ability.Effect) []*state.Card {
	sel := eff.Target
	switch sel.Scope {
	case ability.ScopeSelf, "":
		if r.source == nil {
			return nil
		}
		return []*state.Card{r.source}
	case ability.ScopePrevious:
		return r.prevCards
	case ability.ScopeEventCard:
		if c := e.eventCard(r); c != nil {
			return []*state.Card{c}
		}
		return nil
	case ability.ScopeAll:
		return targeting.Candidates(sel, e.targetContext(r))
	case ability.ScopeChosen:
		return e.chooseCards(ctx, r, eff)
	}
	return nil
}

// eventCard is the other card involved in the triggering event.
func (e *Engine) eventCard(r *resolution) *state.Card {
	if r.event == nil {
		return nil
	}
	id := r.event.TargetID
	if id == "" || id == r.sourceID() {
		id = r.event.SourceID
	}
	if id == "" || id == r.sourceID() {
		return nil
	}
	c, _ := e.game.Card(id)
	return c
}

func hintFor(eff ability.Effect, amount int) choice.Hint {
	switch eff.Type {
	case ability.EffectDamage, ability.EffectMoveZone, ability.EffectExert, ability.EffectRestrict:
		return choice.HintHarmful
	case ability.EffectReady, ability.EffectHeal, ability.EffectGrantKeyword:
		return choice.HintBeneficial
	case ability.EffectModifyStat:
		if amount < 0 {
			return choice.HintHarmful
		}
		return choice.HintBeneficial
	}
	return choice.HintNeutral
}

// chooseCards asks the controller to pick targets among the legal candidates.
func (e *Engine) chooseCards(ctx context.Context, r *resolution, eff ability.Effect) []*state.Card {
	sel := eff.Target
	tctx := e.targetContext(r)
	candidates := targeting.Candidates(sel, tctx)

	min := sel.MinChoices()
	if eff.Optional {
		min = 0
	}
	amount := e.effects.EvalAmount(eff.Amount, r.source, r.controller)
	req := choice.Request{
		PlayerID: r.controller,
		Kind:     choice.KindTarget,
		Prompt:   "Choose " + targeting.Describe(sel),
		Options:  cardOptions(candidates),
		Min:      min,
		Max:      sel.MaxChoices(),
		Optional: eff.Optional,
		Hint:     hintFor(eff, amount),
		Source:   r.choiceSource(),
	}
	out, err := e.broker.Request(ctx, req)
	if err != nil {
		e.logger.Error("target choice failed", zap.String("player", r.controller), zap.Error(err))
		return nil
	}
	if out.Skipped() {
		return nil
	}

	requirement := targeting.RequirementFor(sel, eff.Optional)
	if n := len(candidates); requirement.MinTargets > n {
		requirement.MinTargets = n
	}
	if eff.Optional {
		requirement.MinTargets = 0
	}
	selection := &targeting.TargetSelection{Targets: out.Selected, Requirement: requirement}
	if err := targeting.NewTargetValidator(tctx).ValidateTargetSelection(selection, sel); err != nil {
		e.logger.Error("chosen targets rejected", zap.Strings("targets", out.Selected), zap.Error(err))
		return nil
	}

	chosen := make([]*state.Card, 0, len(out.Selected))
	for _, id := range out.Selected {
		if c, ok := e.game.Card(id); ok {
			chosen = append(chosen, c)
		}
	}
	e.logger.Debug("targets chosen",
		zap.String("ability", r.def.ID),
		zap.String("targets", targeting.FormatTargets(out.Selected)),
	)
	return chosen
}

func cardIDsOf(cards []*state.Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// addEffect registers a temporary effect and announces it.
func (e *Engine) addEffect(eff effects.ActiveEffect) {
	added := e.effects.Add(eff)
	evt := rules.NewEvent(rules.EventEffectCreated, "", added.SourceID, added.Controller)
	evt.Data = string(added.Kind)
	evt.Targets = added.TargetIDs
	e.publish(evt)
	e.logger.Debug("effect created",
		zap.String("effect", added.EffectID),
		zap.String("kind", string(added.Kind)),
		zap.String("targets", targeting.FormatTargets(added.TargetIDs)),
		zap.String("player", added.PlayerID),
		zap.String("expires", added.ExpiresAt.String()),
	)
}

// applyEffect carries out one effect of a resolving ability.
func (e *Engine) applyEffect(ctx context.Context, r *resolution, eff ability.Effect) error {
	amount := e.effects.EvalAmount(eff.Amount, r.source, r.controller)
	src := r.sourceID()
	builder := func() *effects.EffectBuilder {
		return effects.NewEffectBuilder(src, r.controller).Lasting(eff.Duration)
	}

	if playerEffect(eff.Type) || (eff.Target.TargetsPlayers() && (eff.Type == ability.EffectRestrict || eff.Type == ability.EffectCostReduction)) {
		players := e.selectPlayers(r, eff.Target)
		r.prevPlayers, r.prevCards = players, nil
		for _, pid := range players {
			if e.game.GameOver() {
				return nil
			}
			switch eff.Type {
			case ability.EffectDraw:
				e.draw(pid, amount, src)
			case ability.EffectGainLore:
				e.gainLore(pid, amount, src)
			case ability.EffectLoseLore:
				e.loseLore(pid, amount, src)
			case ability.EffectDiscard:
				if err := e.discardChosen(ctx, r, pid, amount); err != nil {
					return err
				}
			case ability.EffectDrawBonus:
				e.addEffect(builder().ForPlayer(pid).DrawBonus(amount))
			case ability.EffectMoveCostReduction:
				e.addEffect(builder().ForPlayer(pid).ReduceMoveCost(amount))
			case ability.EffectRestrict:
				e.addEffect(builder().ForPlayer(pid).Restrict(eff.Restriction))
			case ability.EffectCostReduction:
				e.addEffect(builder().ForPlayer(pid).ReduceCost(eff.CardType, amount, eff.OneShot))
			}
		}
		return nil
	}

	cards := e.selectCards(ctx, r, eff)
	r.prevCards, r.prevPlayers = cards, nil
	if len(cards) == 0 {
		return nil
	}
	ids := cardIDsOf(cards)

	switch eff.Type {
	case ability.EffectModifyStat:
		e.addEffect(builder().Targeting(ids...).ModifyStat(eff.Stat, amount))
		return nil
	case ability.EffectSetStat:
		e.addEffect(builder().Targeting(ids...).SetStat(eff.Stat, amount))
		return nil
	case ability.EffectGrantKeyword:
		e.addEffect(builder().Targeting(ids...).GrantKeyword(eff.Keyword, eff.KeywordValue))
		return nil
	case ability.EffectRestrict:
		e.addEffect(builder().Targeting(ids...).Restrict(eff.Restriction))
		return nil
	case ability.EffectCostReduction:
		e.addEffect(builder().ForPlayer(r.controller).Targeting(ids...).ReduceCost(eff.CardType, amount, eff.OneShot))
		return nil
	}

	for _, c := range cards {
		if e.game.GameOver() {
			return nil
		}
		switch eff.Type {
		case ability.EffectDamage:
			e.dealDamage(c, amount, src)
			e.banishIfLethal(c, src, false)
		case ability.EffectMoveZone:
			if err := e.moveZone(c, eff.Destination, src); err != nil {
				return err
			}
		case ability.EffectExert:
			if c.InPlay() {
				e.exert(c, src)
			}
		case ability.EffectReady:
			if c.InPlay() {
				e.ready(c, src)
			}
		case ability.EffectHeal:
			e.heal(c, amount, src)
		default:
			e.logger.Warn("effect not applicable to cards", zap.String("effect", string(eff.Type)))
		}
	}
	return nil
}

// discardChosen makes playerID discard n cards of their choice.
func (e *Engine) discardChosen(ctx context.Context, r *resolution, playerID string, n int) error {
	p, err := e.player(playerID)
	if err != nil {
		return err
	}
	if n <= 0 || len(p.Hand) == 0 {
		return nil
	}
	out, err := e.broker.Request(ctx, choice.Request{
		PlayerID: playerID,
		Kind:     choice.KindDiscard,
		Prompt:   fmt.Sprintf("Choose %d card(s) to discard", n),
		Options:  cardOptions(p.Hand),
		Min:      n,
		Max:      n,
		Source:   r.choiceSource(),
	})
	if err != nil {
		return fmt.Errorf("discard choice for %s: %w", playerID, err)
	}
	for _, id := range out.Selected {
		c, err := e.card(id)
		if err != nil {
			return err
		}
		if err := e.discardFromHand(c, r.sourceID()); err != nil {
			return err
		}
	}
	return nil
}
