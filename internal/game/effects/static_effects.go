package effects

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/targeting"
)

// StaticEffect is one effect node of a static ability, live while its source
// card is in play and its conditions hold.
type StaticEffect struct {
	id         string
	source     *state.Card
	controller string
	effect     ability.Effect
	amount     int
	game       *state.Game
}

// NewStaticEffect binds an effect node of a static ability to its source.
func NewStaticEffect(game *state.Game, source *state.Card, abilityID string, index int, effect ability.Effect, amount int) *StaticEffect {
	seed := fmt.Sprintf("%s|%s|%d", source.ID, abilityID, index)
	return &StaticEffect{
		id:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String(),
		source:     source,
		controller: source.Owner,
		effect:     effect,
		amount:     amount,
		game:       game,
	}
}

// ID returns the unique identifier.
func (e *StaticEffect) ID() string {
	return e.id
}

// Layer identifies the layer in which the effect applies.
func (e *StaticEffect) Layer() Layer {
	switch e.effect.Type {
	case ability.EffectGrantKeyword:
		return LayerAbility
	case ability.EffectSetStat:
		return LayerStatReplacement
	case ability.EffectModifyStat:
		return LayerStat
	case ability.EffectCostReduction, ability.EffectMoveCostReduction:
		return LayerCost
	case ability.EffectRestrict:
		return LayerRestriction
	}
	return 0
}

// AppliesTo determines whether the snapshot should receive the modification.
func (e *StaticEffect) AppliesTo(snapshot *Snapshot) bool {
	card := snapshot.Card
	sel := e.effect.Target
	switch e.effect.Type {
	case ability.EffectCostReduction:
		if snapshot.Payer != e.controller {
			return false
		}
	case ability.EffectMoveCostReduction:
		if snapshot.Payer != e.controller || !card.IsLocation() {
			return false
		}
		return sel.Scope != ability.ScopeSelf || card.ID == e.source.ID
	}
	if sel.Scope == ability.ScopeSelf {
		return card.ID == e.source.ID
	}
	if sel.Scope != ability.ScopeAll {
		return false
	}
	ctx := targeting.Context{Game: e.game, Source: e.source, Controller: e.controller}
	return targeting.Matches(sel, card, ctx)
}

// Apply mutates the snapshot.
func (e *StaticEffect) Apply(snapshot *Snapshot) {
	switch e.effect.Type {
	case ability.EffectGrantKeyword:
		snapshot.AddKeyword(e.effect.Keyword, e.effect.KeywordValue)
	case ability.EffectSetStat:
		snapshot.ReplaceStat(e.effect.Stat, e.amount)
	case ability.EffectModifyStat:
		snapshot.AddStat(e.effect.Stat, e.amount)
	case ability.EffectCostReduction:
		snapshot.Cost -= e.amount
	case ability.EffectMoveCostReduction:
		snapshot.MoveCost -= e.amount
	case ability.EffectRestrict:
		snapshot.Restrictions[e.effect.Restriction] = true
	}
}
