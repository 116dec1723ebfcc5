package game

import (
	"sort"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// LegalActions lists every action playerID may take now, in a stable order.
// Sing Together is offered with one singer group: the fewest ready
// characters, strongest first, that reach the required value.
func (e *Engine) LegalActions(playerID string) []Action {
	p, ok := e.game.Player(playerID)
	if !ok || e.game.GameOver() || !e.started {
		return nil
	}

	var candidates []Action
	for _, c := range p.Hand {
		candidates = append(candidates, Ink(playerID, c.ID), Play(playerID, c.ID))
		if c.IsCharacter() {
			if _, ok := e.effects.KeywordValue(c, ability.Shift); ok {
				for _, base := range p.Characters() {
					if strings.EqualFold(base.Name(), c.Name()) {
						candidates = append(candidates, PlayViaShift(playerID, c.ID, base.ID))
					}
				}
			}
		}
		if c.IsSong() {
			candidates = append(candidates, e.singActions(p, c)...)
		}
	}

	opponents := e.game.Opponents(playerID)
	for _, c := range p.Play {
		if c.IsCharacter() {
			candidates = append(candidates, Quest(playerID, c.ID))
			for _, opp := range opponents {
				for _, target := range opp.Play {
					candidates = append(candidates, Challenge(playerID, c.ID, target.ID))
				}
			}
			for _, loc := range p.Locations() {
				candidates = append(candidates, Move(playerID, c.ID, loc.ID))
			}
		}
		for _, def := range c.AbilitiesOfKind(ability.KindActivated) {
			candidates = append(candidates, UseAbility(playerID, c.ID, def.ID))
		}
	}
	candidates = append(candidates, PassTurn(playerID))

	legal := make([]Action, 0, len(candidates))
	for _, a := range candidates {
		if e.Validate(a).Legal {
			legal = append(legal, a)
		}
	}
	return legal
}

func (e *Engine) singActions(p *state.Player, song *state.Card) []Action {
	var ready []*state.Card
	for _, c := range p.Characters() {
		if !c.Exerted && !c.Drying {
			ready = append(ready, c)
		}
	}

	var out []Action
	for _, c := range ready {
		out = append(out, Sing(p.ID, song.ID, c.ID))
	}

	need, ok := song.PrintedKeyword(ability.SingTogether)
	if !ok || len(ready) < 2 {
		return out
	}
	sort.SliceStable(ready, func(i, j int) bool { return e.singValue(ready[i]) > e.singValue(ready[j]) })
	var (
		group []string
		total int
	)
	for _, c := range ready {
		group = append(group, c.ID)
		total += e.singValue(c)
		if total >= need {
			break
		}
	}
	if total >= need && len(group) > 1 {
		out = append(out, Sing(p.ID, song.ID, group...))
	}
	return out
}
