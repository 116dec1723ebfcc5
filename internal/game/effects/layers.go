// Package effects computes modified card characteristics from base values,
// static abilities of cards in play and temporary continuous effects.
//
// Nothing is cached: every query recomputes from the current board, so a
// result is never stale after a mutation.
package effects

import (
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// Layer orders the application of continuous effects.
type Layer int

const (
	LayerAbility Layer = 1 + iota
	LayerStatReplacement
	LayerStat
	LayerCost
	LayerRestriction
)

var layerOrder = []Layer{
	LayerAbility,
	LayerStatReplacement,
	LayerStat,
	LayerCost,
	LayerRestriction,
}

// Snapshot represents the characteristics of a card while continuous effects are evaluated.
type Snapshot struct {
	Card *state.Card
	// Payer is the player whose cost modifiers apply to Cost and MoveCost.
	Payer string

	Strength     int
	Willpower    int
	Lore         int
	Cost         int
	MoveCost     int
	Keywords     map[ability.Keyword]int
	Restrictions map[ability.Restriction]bool

	replaced map[ability.Stat]bool
}

// NewSnapshot constructs a snapshot holding the card's base values.
func NewSnapshot(card *state.Card, payer string) *Snapshot {
	s := &Snapshot{Card: card, Payer: payer}
	s.Reset()
	return s
}

// Reset restores derived characteristics to their base values.
func (s *Snapshot) Reset() {
	c := s.Card
	s.Strength = c.BaseStrength
	s.Willpower = c.BaseWillpower
	s.Lore = c.BaseLore
	s.Cost = c.BaseCost
	s.MoveCost = c.BaseMoveCost
	s.Keywords = make(map[ability.Keyword]int)
	s.Restrictions = make(map[ability.Restriction]bool)
	s.replaced = make(map[ability.Stat]bool)
	for _, def := range c.Abilities {
		if def.Kind == ability.KindKeyword {
			s.AddKeyword(def.Keyword, def.KeywordValue)
		}
	}
	for kw, v := range c.Markers.Keywords() {
		s.AddKeyword(kw, v)
	}
}

// AddKeyword grants kw. Resist and Challenger stack; other values keep the highest.
func (s *Snapshot) AddKeyword(kw ability.Keyword, value int) {
	current, has := s.Keywords[kw]
	switch {
	case !has:
		s.Keywords[kw] = value
	case kw == ability.Resist || kw == ability.Challenger:
		s.Keywords[kw] = current + value
	case value > current:
		s.Keywords[kw] = value
	}
}

// Stat returns the current value of stat.
func (s *Snapshot) Stat(stat ability.Stat) int {
	switch stat {
	case ability.StatStrength:
		return s.Strength
	case ability.StatWillpower:
		return s.Willpower
	case ability.StatLore:
		return s.Lore
	}
	return 0
}

// AddStat adds delta to stat.
func (s *Snapshot) AddStat(stat ability.Stat, delta int) {
	switch stat {
	case ability.StatStrength:
		s.Strength += delta
	case ability.StatWillpower:
		s.Willpower += delta
	case ability.StatLore:
		s.Lore += delta
	}
}

// ReplaceStat sets stat unless a replacement was already applied. Replacements
// are applied newest first, so the most recent one wins.
func (s *Snapshot) ReplaceStat(stat ability.Stat, value int) {
	if s.replaced[stat] {
		return
	}
	s.replaced[stat] = true
	s.AddStat(stat, value-s.Stat(stat))
}

func (s *Snapshot) floor() {
	for _, v := range []*int{&s.Strength, &s.Willpower, &s.Lore, &s.Cost, &s.MoveCost} {
		if *v < 0 {
			*v = 0
		}
	}
}

// ContinuousEffect defines behaviour for modifying card characteristics.
type ContinuousEffect interface {
	ID() string
	Layer() Layer
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

// apply runs every effect against the snapshot, layer by layer. Within a layer
// statics apply before temporaries, except stat replacements where the newest
// temporary is considered first.
func apply(snapshot *Snapshot, statics, temporaries []ContinuousEffect) {
	snapshot.Reset()
	for _, layer := range layerOrder {
		first, second := statics, temporaries
		if layer == LayerStatReplacement {
			first, second = temporaries, statics
		}
		for _, group := range [][]ContinuousEffect{first, second} {
			for _, effect := range group {
				if effect.Layer() == layer && effect.AppliesTo(snapshot) {
					effect.Apply(snapshot)
				}
			}
		}
	}
	snapshot.floor()
}
