package effects

import (
	"github.com/google/uuid"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// History answers questions about what already happened this turn.
type History interface {
	SongsPlayed(playerID string) int
}

// System owns the temporary effects of one game and answers modified-value queries.
type System struct {
	game       *state.Game
	history    History
	active     []ActiveEffect
	seq        int
	evaluating map[string]bool
}

// NewSystem creates an ability system over game. history may be nil.
func NewSystem(game *state.Game, history History) *System {
	return &System{
		game:       game,
		history:    history,
		evaluating: make(map[string]bool),
	}
}

// Add registers a temporary effect and returns it with its id, sequence
// number and expiry filled in. Player-level restrictions are stored on the
// player instead.
func (s *System) Add(effect ActiveEffect) ActiveEffect {
	if effect.EffectID == "" {
		effect.EffectID = uuid.NewString()
	}
	if effect.ExpiresAt.IsZero() {
		effect.ExpiresAt = s.expiry(effect)
	}
	s.seq++
	effect.Seq = s.seq

	if effect.Kind == KindRestriction && len(effect.TargetIDs) == 0 && effect.PlayerID != "" {
		if p, ok := s.game.Player(effect.PlayerID); ok {
			p.AddRestriction(state.Restriction{Kind: effect.Restriction, SourceID: effect.SourceID, ExpiresAt: effect.ExpiresAt})
		}
		return effect
	}
	s.active = append(s.active, effect)
	return effect
}

func (s *System) expiry(effect ActiveEffect) rules.Clock {
	now := s.game.Now()
	switch effect.Duration {
	case ability.DurationThisTurn:
		return rules.StartOfTurn(now.Turn + 1)
	case ability.DurationUntilStartOfNextTurn:
		return rules.StartOfTurn(now.Turn + s.game.TurnsUntilNext(effect.Controller))
	case ability.DurationDuringNextTurn:
		whose := effect.PlayerID
		if len(effect.TargetIDs) > 0 {
			if c, ok := s.game.Card(effect.TargetIDs[0]); ok {
				whose = c.Owner
			}
		}
		return rules.StartOfTurn(now.Turn + s.game.TurnsUntilNext(whose) + 1)
	}
	return rules.Clock{}
}

// Active returns the effects that apply now, oldest first.
func (s *System) Active() []ActiveEffect {
	now := s.game.Now()
	var out []ActiveEffect
	for _, e := range s.active {
		if e.ActiveAt(now) {
			out = append(out, e)
		}
	}
	return out
}

// Len is the number of stored effects including expired ones not yet pruned.
func (s *System) Len() int {
	return len(s.active)
}

// Evaluate computes the card's characteristics from base values, static
// abilities of cards in play in seat and play order, then temporary effects
// newest first. payer selects whose cost modifiers apply.
func (s *System) Evaluate(card *state.Card, payer string) *Snapshot {
	snapshot := NewSnapshot(card, payer)
	if s.evaluating[card.ID] {
		return snapshot
	}
	s.evaluating[card.ID] = true
	defer delete(s.evaluating, card.ID)

	apply(snapshot, s.statics(card), s.temporaries())
	return snapshot
}

func (s *System) statics(card *state.Card) []ContinuousEffect {
	sources := s.game.CardsInPlay()
	if !card.InPlay() {
		sources = append(sources, card)
	}
	var out []ContinuousEffect
	for _, src := range sources {
		for _, def := range src.Abilities {
			if def.Kind != ability.KindStatic {
				continue
			}
			if !s.ConditionsMet(def.Conditions, src, src.Owner) {
				continue
			}
			for i, eff := range def.Effects {
				if !src.InPlay() && eff.Target.Scope != ability.ScopeSelf {
					continue
				}
				out = append(out, NewStaticEffect(s.game, src, def.ID, i, eff, s.EvalAmount(eff.Amount, src, src.Owner)))
			}
		}
	}
	return out
}

func (s *System) temporaries() []ContinuousEffect {
	now := s.game.Now()
	var out []ContinuousEffect
	for i := len(s.active) - 1; i >= 0; i-- {
		if s.active[i].ActiveAt(now) {
			out = append(out, s.active[i])
		}
	}
	return out
}

// ModifiedStat returns the current strength, willpower or lore of card.
func (s *System) ModifiedStat(card *state.Card, stat ability.Stat) int {
	return s.Evaluate(card, card.Owner).Stat(stat)
}

// ModifiedCost returns the ink playerID pays to play card.
func (s *System) ModifiedCost(card *state.Card, playerID string) int {
	return s.Evaluate(card, playerID).Cost
}

// ModifiedKeywords returns the keywords card currently has with their values.
func (s *System) ModifiedKeywords(card *state.Card) map[ability.Keyword]int {
	return s.Evaluate(card, card.Owner).Keywords
}

// HasKeyword reports whether card currently has kw.
func (s *System) HasKeyword(card *state.Card, kw ability.Keyword) bool {
	_, ok := s.ModifiedKeywords(card)[kw]
	return ok
}

// KeywordValue returns the value of a valued keyword and whether card has it.
func (s *System) KeywordValue(card *state.Card, kw ability.Keyword) (int, bool) {
	v, ok := s.ModifiedKeywords(card)[kw]
	return v, ok
}

// ModifiedResist is the damage reduction of card: its Resist keyword value
// plus any resist marker.
func (s *System) ModifiedResist(card *state.Card) int {
	v, _ := s.KeywordValue(card, ability.Resist)
	return v + card.Markers.Resist()
}

// ModifiedMoveCost returns the ink mover's owner pays to move it to location.
func (s *System) ModifiedMoveCost(mover, location *state.Card) int {
	return s.Evaluate(location, mover.Owner).MoveCost
}

// HasRestriction reports whether a card-level restriction applies to card.
func (s *System) HasRestriction(card *state.Card, kind ability.Restriction) bool {
	return s.Evaluate(card, card.Owner).Restrictions[kind]
}

// PlayerRestricted reports whether a player-level restriction applies to playerID.
func (s *System) PlayerRestricted(playerID string, kind ability.Restriction) bool {
	if p, ok := s.game.Player(playerID); ok && p.HasRestriction(kind, s.game.Now()) {
		return true
	}
	for _, eff := range s.playerStatics(ability.EffectRestrict) {
		if eff.effect.Restriction == kind && includesPlayer(eff.effect.Target, eff.controller, playerID) {
			return true
		}
	}
	return false
}

// DrawBonus is the number of extra cards playerID draws in the Draw step.
func (s *System) DrawBonus(playerID string) int {
	total := 0
	now := s.game.Now()
	for _, e := range s.active {
		if e.Kind == KindDrawBonus && e.PlayerID == playerID && e.ActiveAt(now) {
			total += e.Amount
		}
	}
	for _, eff := range s.playerStatics(ability.EffectDrawBonus) {
		if includesPlayer(eff.effect.Target, eff.controller, playerID) {
			total += eff.amount
		}
	}
	return total
}

// ConsumeCostModifiers marks the one-shot cost modifiers paid by playing card as used.
func (s *System) ConsumeCostModifiers(card *state.Card, playerID string) {
	snapshot := NewSnapshot(card, playerID)
	now := s.game.Now()
	for i := range s.active {
		e := &s.active[i]
		if e.OneShot && e.Kind == KindCostModifier && e.ActiveAt(now) && e.AppliesTo(snapshot) {
			e.Consumed = true
		}
	}
}

// playerStatics returns the live static effects of typ that target players.
func (s *System) playerStatics(typ ability.EffectType) []*StaticEffect {
	var out []*StaticEffect
	for _, src := range s.game.CardsInPlay() {
		for _, def := range src.Abilities {
			if def.Kind != ability.KindStatic || !s.ConditionsMet(def.Conditions, src, src.Owner) {
				continue
			}
			for i, eff := range def.Effects {
				if eff.Type == typ && eff.Target.TargetsPlayers() {
					out = append(out, NewStaticEffect(s.game, src, def.ID, i, eff, s.EvalAmount(eff.Amount, src, src.Owner)))
				}
			}
		}
	}
	return out
}

func includesPlayer(sel ability.Selector, controller, playerID string) bool {
	switch sel.Scope {
	case ability.ScopeController:
		return playerID == controller
	case ability.ScopeOpponents:
		return playerID != controller
	case ability.ScopeEachPlayer:
		return true
	}
	return false
}
