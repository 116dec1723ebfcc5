package targeting

import (
	"fmt"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// StatReader supplies modified characteristics so that filters such as
// "with 2 strength or less" see the current value rather than the printed one.
type StatReader interface {
	ModifiedStat(card *state.Card, stat ability.Stat) int
	HasKeyword(card *state.Card, kw ability.Keyword) bool
}

// Context is the point of view a selector is evaluated from.
type Context struct {
	Game       *state.Game
	Source     *state.Card
	Controller string
	// Stats may be nil, in which case base values are used.
	Stats StatReader
}

func (ctx Context) strength(card *state.Card) int {
	if ctx.Stats == nil {
		return card.BaseStrength
	}
	return ctx.Stats.ModifiedStat(card, ability.StatStrength)
}

func (ctx Context) warded(card *state.Card) bool {
	if ctx.Stats == nil {
		_, ok := card.PrintedKeyword(ability.Ward)
		return ok
	}
	return ctx.Stats.HasKeyword(card, ability.Ward)
}

// Matches reports whether card satisfies the selector's owner, type, zone and filter.
// It does not apply Ward; see Candidates.
func Matches(sel ability.Selector, card *state.Card, ctx Context) bool {
	if card == nil {
		return false
	}
	if card.Zone != zoneOf(sel.Zone) {
		return false
	}
	switch sel.Owner {
	case ability.OwnerYou:
		if card.Owner != ctx.Controller {
			return false
		}
	case ability.OwnerOpponent:
		if card.Owner == ctx.Controller {
			return false
		}
	}
	if sel.CardType != "" && card.Type() != sel.CardType {
		return false
	}
	if sel.ExcludeSelf && ctx.Source != nil && card.ID == ctx.Source.ID {
		return false
	}
	f := sel.Filter
	if f.CostAtMost > 0 && card.BaseCost > f.CostAtMost {
		return false
	}
	if f.StrengthAtMost > 0 && ctx.strength(card) > f.StrengthAtMost {
		return false
	}
	if f.Damaged && card.Damage == 0 {
		return false
	}
	if f.Exerted && !card.Exerted {
		return false
	}
	if f.Subtype != "" && !card.Def.HasSubtype(f.Subtype) {
		return false
	}
	if f.Name != "" && !strings.EqualFold(card.Name(), f.Name) {
		return false
	}
	if f.AtLocation {
		if _, ok := card.Markers.Location(); !ok {
			return false
		}
	}
	return true
}

// Candidates lists the cards a selector can pick, in seat order then zone order.
// Opposing cards with Ward are excluded from chosen selectors.
func Candidates(sel ability.Selector, ctx Context) []*state.Card {
	if ctx.Game == nil {
		return nil
	}
	switch sel.Scope {
	case ability.ScopeSelf:
		if ctx.Source != nil && ctx.Source.InPlay() {
			return []*state.Card{ctx.Source}
		}
		return nil
	case ability.ScopeChosen, ability.ScopeAll:
	default:
		return nil
	}

	var out []*state.Card
	zone := zoneOf(sel.Zone)
	for _, p := range ctx.Game.Players() {
		for _, card := range p.Zone(zone) {
			if !Matches(sel, card, ctx) {
				continue
			}
			if sel.Scope == ability.ScopeChosen && card.Owner != ctx.Controller && ctx.warded(card) {
				continue
			}
			out = append(out, card)
		}
	}
	return out
}

// Players resolves a player selector to player ids in seat order.
func Players(sel ability.Selector, ctx Context) []string {
	if ctx.Game == nil {
		return nil
	}
	switch sel.Scope {
	case ability.ScopeController:
		return []string{ctx.Controller}
	case ability.ScopeOpponents:
		var out []string
		for _, p := range ctx.Game.Opponents(ctx.Controller) {
			out = append(out, p.ID)
		}
		return out
	case ability.ScopeEachPlayer:
		return ctx.Game.PlayerIDs()
	}
	return nil
}

// TargetValidator validates that selected targets are legal for a selector.
type TargetValidator struct {
	ctx Context
}

// NewTargetValidator creates a validator evaluating from ctx.
func NewTargetValidator(ctx Context) *TargetValidator {
	return &TargetValidator{ctx: ctx}
}

// ValidateTarget checks a single target id against the selector.
func (tv *TargetValidator) ValidateTarget(targetID string, sel ability.Selector) error {
	if sel.TargetsPlayers() {
		for _, id := range Players(sel, tv.ctx) {
			if id == targetID {
				return nil
			}
		}
		return fmt.Errorf("player %s is not a legal target", targetID)
	}
	for _, card := range Candidates(sel, tv.ctx) {
		if card.ID == targetID {
			return nil
		}
	}
	return fmt.Errorf("card %s is not a legal target", targetID)
}

// ValidateTargetSelection validates cardinality and every target of selection.
func (tv *TargetValidator) ValidateTargetSelection(selection *TargetSelection, sel ability.Selector) error {
	if err := selection.Validate(); err != nil {
		return err
	}
	for _, targetID := range selection.Targets {
		if err := tv.ValidateTarget(targetID, sel); err != nil {
			return fmt.Errorf("invalid target %s: %w", targetID, err)
		}
	}
	return nil
}

func zoneOf(z ability.Zone) state.Zone {
	switch z {
	case ability.ZoneHand:
		return state.ZoneHand
	case ability.ZoneDiscard:
		return state.ZoneDiscard
	}
	return state.ZonePlay
}
