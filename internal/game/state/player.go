package state

import (
	"fmt"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// Restriction is a player-level restriction such as "your inkwell can't ready".
// A zero ExpiresAt means it never expires.
type Restriction struct {
	Kind      ability.Restriction
	SourceID  string
	ExpiresAt rules.Clock
}

// ActiveAt reports whether the restriction still applies at now.
func (r Restriction) ActiveAt(now rules.Clock) bool {
	return r.ExpiresAt.IsZero() || now.Before(r.ExpiresAt)
}

// Player holds one seat's zones and counters.
type Player struct {
	ID       string
	Name     string
	Lore     int
	LoreGoal int

	Deck    []*Card
	Hand    []*Card
	Play    []*Card
	Discard []*Card
	Inkwell []*Card
	Under   []*Card

	Restrictions  []Restriction
	InkedThisTurn bool
	Mulliganed    bool
}

func newPlayer(id, name string, loreGoal int) *Player {
	return &Player{ID: id, Name: name, LoreGoal: loreGoal}
}

// Zone returns the slice backing zone z.
func (p *Player) Zone(z Zone) []*Card {
	switch z {
	case ZoneDeck:
		return p.Deck
	case ZoneHand:
		return p.Hand
	case ZonePlay:
		return p.Play
	case ZoneDiscard:
		return p.Discard
	case ZoneInkwell:
		return p.Inkwell
	case ZoneUnder:
		return p.Under
	}
	return nil
}

func (p *Player) setZone(z Zone, cards []*Card) {
	switch z {
	case ZoneDeck:
		p.Deck = cards
	case ZoneHand:
		p.Hand = cards
	case ZonePlay:
		p.Play = cards
	case ZoneDiscard:
		p.Discard = cards
	case ZoneInkwell:
		p.Inkwell = cards
	case ZoneUnder:
		p.Under = cards
	default:
		panic(fmt.Sprintf("setZone: invalid zone %s", z))
	}
}

// ReadyInk counts the ready cards in the inkwell.
func (p *Player) ReadyInk() int {
	n := 0
	for _, c := range p.Inkwell {
		if !c.Exerted {
			n++
		}
	}
	return n
}

// ExertInk exerts n ready inkwell cards, oldest first. It changes nothing
// when there is not enough ready ink.
func (p *Player) ExertInk(n int) error {
	if n <= 0 {
		return nil
	}
	if ready := p.ReadyInk(); ready < n {
		return fmt.Errorf("need %d ink, have %d ready", n, ready)
	}
	for _, c := range p.Inkwell {
		if n == 0 {
			break
		}
		if !c.Exerted {
			c.Exerted = true
			n--
		}
	}
	return nil
}

// HasRestriction reports whether a player-level restriction of kind is active at now.
func (p *Player) HasRestriction(kind ability.Restriction, now rules.Clock) bool {
	for _, r := range p.Restrictions {
		if r.Kind == kind && r.ActiveAt(now) {
			return true
		}
	}
	return false
}

// AddRestriction records a player-level restriction.
func (p *Player) AddRestriction(r Restriction) {
	p.Restrictions = append(p.Restrictions, r)
}

// PruneRestrictions drops restrictions that expired by now.
func (p *Player) PruneRestrictions(now rules.Clock) {
	kept := p.Restrictions[:0]
	for _, r := range p.Restrictions {
		if r.ActiveAt(now) {
			kept = append(kept, r)
		}
	}
	p.Restrictions = kept
}

// Characters returns the player's characters in play.
func (p *Player) Characters() []*Card {
	var out []*Card
	for _, c := range p.Play {
		if c.IsCharacter() {
			out = append(out, c)
		}
	}
	return out
}

// Locations returns the player's locations in play.
func (p *Player) Locations() []*Card {
	var out []*Card
	for _, c := range p.Play {
		if c.IsLocation() {
			out = append(out, c)
		}
	}
	return out
}

// CardCount is the number of instances the player owns across all zones.
func (p *Player) CardCount() int {
	total := 0
	for _, z := range Zones {
		total += len(p.Zone(z))
	}
	return total
}
