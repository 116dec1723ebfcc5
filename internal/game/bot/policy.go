// Package bot drives non-interactive players with a heuristic policy.
package bot

import (
	"math"
	"math/rand"

	"github.com/inkwell-tcg/inkwell-engine/internal/game"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/effects"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// winScore outranks every other action.
const winScore = 1000

// View is the part of the engine a policy reads. Policies never mutate what
// it returns.
type View interface {
	Game() *state.Game
	Effects() *effects.System
	LegalActions(playerID string) []game.Action
}

// Policy scores legal actions by lore, tempo and card advantage.
type Policy struct {
	view    View
	profile Profile
	rng     *rand.Rand
}

// NewPolicy creates a policy reading view.
func NewPolicy(view View, profile Profile, seed int64) *Policy {
	return &Policy{
		view:    view,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Profile returns the policy's weights.
func (p *Policy) Profile() Profile { return p.profile }

// DecideAction picks the best scoring legal action of playerID. PassTurn
// scores zero, so the policy passes once nothing else is worth doing.
func (p *Policy) DecideAction(playerID string) game.Action {
	legal := p.view.LegalActions(playerID)
	if len(legal) == 0 {
		return game.PassTurn(playerID)
	}

	best, bestScore := legal[0], math.Inf(-1)
	for _, a := range legal {
		score := p.scoreAction(a)
		if score < winScore {
			score += (p.rng.Float64() - 0.5) * p.profile.Randomness
		}
		if score > bestScore {
			best, bestScore = a, score
		}
	}
	return best
}

// DecideMulligan returns the opening cards to put back.
func (p *Policy) DecideMulligan(hand []*state.Card) []string {
	var out []string
	for _, c := range hand {
		if c.BaseCost > p.profile.MulliganCost {
			out = append(out, c.ID)
		}
	}
	return out
}

func (p *Policy) scoreAction(a game.Action) float64 {
	switch a.Type {
	case game.ActionInkCard:
		return p.scoreInk(a)
	case game.ActionPlayCard:
		return p.scorePlay(a)
	case game.ActionQuest:
		return p.scoreQuest(a)
	case game.ActionChallenge:
		return p.scoreChallenge(a)
	case game.ActionMove:
		return p.scoreMove(a)
	case game.ActionUseAbility:
		return 1.5
	}
	return 0
}

func (p *Policy) card(id string) *state.Card {
	c, _ := p.view.Game().Card(id)
	return c
}

func (p *Policy) player(id string) *state.Player {
	pl, _ := p.view.Game().Player(id)
	return pl
}

func (p *Policy) stat(c *state.Card, s ability.Stat) float64 {
	return float64(p.view.Effects().ModifiedStat(c, s))
}

// value is what a card is worth on the board.
func (p *Policy) value(c *state.Card) float64 {
	v := float64(c.BaseCost)
	if c.IsCharacter() || c.IsLocation() {
		v += 2 * p.stat(c, ability.StatLore)
	}
	return v
}

// scoreInk inks early and prefers cards that are hard to use soon.
func (p *Policy) scoreInk(a game.Action) float64 {
	c, pl := p.card(a.CardID), p.player(a.PlayerID)
	if c == nil || pl == nil {
		return 0
	}
	if len(pl.Inkwell) >= 7 {
		return 0.5
	}
	score := 20 - 0.5*p.value(c) - 0.2*float64(len(c.Abilities))
	if c.BaseCost > len(pl.Inkwell)+2 {
		score += 1
	}
	return score
}

func (p *Policy) scorePlay(a game.Action) float64 {
	c := p.card(a.CardID)
	if c == nil {
		return 0
	}
	greed, aggression := p.profile.Greed, p.profile.Aggression

	score := 1 + float64(c.BaseCost)
	switch {
	case c.IsCharacter():
		score += p.stat(c, ability.StatLore)*(1+greed) + p.stat(c, ability.StatStrength)*aggression*0.5
	case c.IsLocation():
		score += p.stat(c, ability.StatLore) * (1 + greed)
	default:
		score += 0.5 * float64(len(c.Abilities))
	}

	switch a.Mode {
	case game.PlayShift:
		score += 1.5
	case game.PlaySing:
		score++
		for _, id := range a.Singers {
			if singer := p.card(id); singer != nil {
				score -= p.stat(singer, ability.StatLore) * (0.5 + greed)
			}
		}
	}
	return score
}

func (p *Policy) scoreQuest(a game.Action) float64 {
	c, pl := p.card(a.CardID), p.player(a.PlayerID)
	if c == nil || pl == nil {
		return 0
	}
	lore := p.stat(c, ability.StatLore)
	if pl.Lore+int(lore) >= pl.LoreGoal {
		return winScore
	}
	score := lore * (2 + 2*p.profile.Greed)
	if remaining := p.stat(c, ability.StatWillpower) - float64(c.Damage); p.threat(c) >= remaining {
		score -= p.value(c) * p.profile.Caution * 0.5
	}
	return score
}

// threat is the most damage an opposing character could deal c in a
// challenge next turn.
func (p *Policy) threat(c *state.Card) float64 {
	fx := p.view.Effects()
	evasive := fx.HasKeyword(c, ability.Evasive)
	resist := float64(fx.ModifiedResist(c))

	best := 0.0
	for _, opp := range p.view.Game().Opponents(c.Owner) {
		for _, o := range opp.Characters() {
			if evasive && !fx.HasKeyword(o, ability.Evasive) {
				continue
			}
			dmg := p.stat(o, ability.StatStrength)
			if bonus, ok := fx.KeywordValue(o, ability.Challenger); ok {
				dmg += float64(bonus)
			}
			if dmg -= resist; dmg > best {
				best = dmg
			}
		}
	}
	return best
}

func (p *Policy) scoreChallenge(a game.Action) float64 {
	att, def := p.card(a.CardID), p.card(a.TargetID)
	if att == nil || def == nil {
		return 0
	}
	fx := p.view.Effects()

	attack := p.stat(att, ability.StatStrength)
	if bonus, ok := fx.KeywordValue(att, ability.Challenger); ok {
		attack += float64(bonus)
	}
	dealt := math.Max(0, attack-float64(fx.ModifiedResist(def)))
	kills := float64(def.Damage)+dealt >= p.stat(def, ability.StatWillpower)

	taken := 0.0
	if def.IsCharacter() {
		taken = math.Max(0, p.stat(def, ability.StatStrength)-float64(fx.ModifiedResist(att)))
	}
	dies := float64(att.Damage)+taken >= p.stat(att, ability.StatWillpower)

	aggression := p.profile.Aggression
	if opp := p.player(def.Owner); opp != nil && opp.LoreGoal-opp.Lore <= 5 {
		aggression *= 1.5
	}

	var score float64
	if kills {
		score += p.value(def) * (1 + aggression)
	} else {
		score += dealt * 0.4 * aggression
	}
	if dies {
		score -= p.value(att) * (0.5 + p.profile.Caution)
	}
	if !fx.HasKeyword(att, ability.Reckless) {
		score -= p.stat(att, ability.StatLore) * p.profile.Greed
	}
	return score
}

func (p *Policy) scoreMove(a game.Action) float64 {
	loc := p.card(a.TargetID)
	mover := p.card(a.CardID)
	if loc == nil || mover == nil {
		return 0
	}
	cost := float64(p.view.Effects().ModifiedMoveCost(mover, loc))
	return p.stat(loc, ability.StatLore)*(1+p.profile.Greed) - 0.5*cost
}
