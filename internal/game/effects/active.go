package effects

import (
	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// Kind is the variant of a temporary effect.
type Kind string

const (
	KindRestriction      Kind = "restriction"
	KindStatModifier     Kind = "stat_modifier"
	KindStatReplacement  Kind = "stat_replacement"
	KindKeywordGrant     Kind = "keyword_grant"
	KindCostModifier     Kind = "cost_modifier"
	KindMoveCostModifier Kind = "move_cost_modifier"
	KindDrawBonus        Kind = "draw_bonus"
)

// ActiveEffect is a temporary continuous effect created by resolving an ability.
type ActiveEffect struct {
	EffectID   string
	Kind       Kind
	SourceID   string
	Controller string
	// TargetIDs are the cards affected. Player-scoped effects use PlayerID instead.
	TargetIDs []string
	PlayerID  string

	Stat         ability.Stat
	Amount       int
	Keyword      ability.Keyword
	KeywordValue int
	Restriction  ability.Restriction
	// CardType narrows cost modifiers; empty matches any card.
	CardType catalog.CardType

	Duration  ability.Duration
	ExpiresAt rules.Clock
	// OneShot cost modifiers are consumed by the first card paid with them.
	OneShot  bool
	Consumed bool
	Seq      int
}

// ID returns the effect id.
func (e ActiveEffect) ID() string { return e.EffectID }

// ActiveAt reports whether the effect applies at now. Expired effects never
// apply even before Prune removes them.
func (e ActiveEffect) ActiveAt(now rules.Clock) bool {
	if e.Consumed {
		return false
	}
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// Targets reports whether cardID is one of the effect's targets.
func (e ActiveEffect) Targets(cardID string) bool {
	for _, id := range e.TargetIDs {
		if id == cardID {
			return true
		}
	}
	return false
}

// Layer identifies the layer in which the effect applies.
func (e ActiveEffect) Layer() Layer {
	switch e.Kind {
	case KindKeywordGrant:
		return LayerAbility
	case KindStatReplacement:
		return LayerStatReplacement
	case KindStatModifier:
		return LayerStat
	case KindCostModifier, KindMoveCostModifier:
		return LayerCost
	case KindRestriction:
		return LayerRestriction
	}
	return 0
}

// AppliesTo determines whether the snapshot should receive the modification.
func (e ActiveEffect) AppliesTo(snapshot *Snapshot) bool {
	card := snapshot.Card
	switch e.Kind {
	case KindCostModifier:
		if e.Targets(card.ID) {
			return true
		}
		return len(e.TargetIDs) == 0 && e.PlayerID == snapshot.Payer && !card.InPlay() &&
			(e.CardType == "" || e.CardType == card.Type())
	case KindMoveCostModifier:
		return e.PlayerID == snapshot.Payer && card.IsLocation()
	case KindDrawBonus:
		return false
	}
	return e.Targets(card.ID)
}

// Apply mutates the snapshot.
func (e ActiveEffect) Apply(snapshot *Snapshot) {
	switch e.Kind {
	case KindKeywordGrant:
		snapshot.AddKeyword(e.Keyword, e.KeywordValue)
	case KindStatReplacement:
		snapshot.ReplaceStat(e.Stat, e.Amount)
	case KindStatModifier:
		snapshot.AddStat(e.Stat, e.Amount)
	case KindCostModifier:
		snapshot.Cost -= e.Amount
	case KindMoveCostModifier:
		snapshot.MoveCost -= e.Amount
	case KindRestriction:
		snapshot.Restrictions[e.Restriction] = true
	}
}
