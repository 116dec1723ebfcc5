package effects

import (
	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// EffectBuilder provides a fluent API for creating temporary effects.
type EffectBuilder struct {
	sourceID   string
	controller string
	targetIDs  []string
	playerID   string
	duration   ability.Duration
}

// NewEffectBuilder creates a new effect builder. Effects last this turn unless
// another duration is set.
func NewEffectBuilder(sourceID, controller string) *EffectBuilder {
	return &EffectBuilder{
		sourceID:   sourceID,
		controller: controller,
		duration:   ability.DurationThisTurn,
	}
}

// Targeting sets the target card ids.
func (b *EffectBuilder) Targeting(targetIDs ...string) *EffectBuilder {
	b.targetIDs = append([]string(nil), targetIDs...)
	return b
}

// ForPlayer scopes the effect to a player instead of cards.
func (b *EffectBuilder) ForPlayer(playerID string) *EffectBuilder {
	b.playerID = playerID
	return b
}

// Lasting sets the duration.
func (b *EffectBuilder) Lasting(d ability.Duration) *EffectBuilder {
	b.duration = d
	return b
}

// ThisTurn sets the duration to the end of the current turn.
func (b *EffectBuilder) ThisTurn() *EffectBuilder {
	return b.Lasting(ability.DurationThisTurn)
}

// UntilStartOfNextTurn sets the duration to the start of the controller's next turn.
func (b *EffectBuilder) UntilStartOfNextTurn() *EffectBuilder {
	return b.Lasting(ability.DurationUntilStartOfNextTurn)
}

// Permanent sets the duration to permanent.
func (b *EffectBuilder) Permanent() *EffectBuilder {
	return b.Lasting(ability.DurationPermanent)
}

func (b *EffectBuilder) base(kind Kind) ActiveEffect {
	return ActiveEffect{
		Kind:       kind,
		SourceID:   b.sourceID,
		Controller: b.controller,
		TargetIDs:  b.targetIDs,
		PlayerID:   b.playerID,
		Duration:   b.duration,
	}
}

// ModifyStat creates a stat modifier.
func (b *EffectBuilder) ModifyStat(stat ability.Stat, delta int) ActiveEffect {
	e := b.base(KindStatModifier)
	e.Stat = stat
	e.Amount = delta
	return e
}

// SetStat creates a stat replacement.
func (b *EffectBuilder) SetStat(stat ability.Stat, value int) ActiveEffect {
	e := b.base(KindStatReplacement)
	e.Stat = stat
	e.Amount = value
	return e
}

// GrantKeyword creates a keyword grant.
func (b *EffectBuilder) GrantKeyword(kw ability.Keyword, value int) ActiveEffect {
	e := b.base(KindKeywordGrant)
	e.Keyword = kw
	e.KeywordValue = value
	return e
}

// Restrict creates a restriction on the targets, or on the player when no card is targeted.
func (b *EffectBuilder) Restrict(kind ability.Restriction) ActiveEffect {
	e := b.base(KindRestriction)
	e.Restriction = kind
	return e
}

// ReduceCost creates a cost modifier for cards of cardType the player plays.
func (b *EffectBuilder) ReduceCost(cardType catalog.CardType, amount int, oneShot bool) ActiveEffect {
	e := b.base(KindCostModifier)
	e.CardType = cardType
	e.Amount = amount
	e.OneShot = oneShot
	return e
}

// ReduceMoveCost creates a move cost modifier for the player.
func (b *EffectBuilder) ReduceMoveCost(amount int) ActiveEffect {
	e := b.base(KindMoveCostModifier)
	e.Amount = amount
	return e
}

// DrawBonus creates an extra draw for the player's Draw step.
func (b *EffectBuilder) DrawBonus(amount int) ActiveEffect {
	e := b.base(KindDrawBonus)
	e.Amount = amount
	return e
}
