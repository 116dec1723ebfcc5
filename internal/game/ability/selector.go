package ability

import "github.com/inkwell-tcg/inkwell-engine/internal/catalog"

// Scope says how a selector turns into concrete targets.
type Scope string

const (
	// ScopeSelf is the ability's source card.
	ScopeSelf Scope = "self"
	// ScopeChosen asks the controller to pick cards.
	ScopeChosen Scope = "chosen"
	// ScopeAll takes every matching card in play.
	ScopeAll Scope = "all"
	// ScopeController is the ability's controller.
	ScopeController Scope = "controller"
	// ScopeOpponents is every opponent of the controller.
	ScopeOpponents Scope = "opponents"
	// ScopeEachPlayer is every player.
	ScopeEachPlayer Scope = "each_player"
	// ScopeEventCard is the other card of the triggering event (the challenger, the banished card).
	ScopeEventCard Scope = "event_card"
	// ScopePrevious reuses the targets of the previous effect in the same ability.
	ScopePrevious Scope = "previous"
)

// Owner restricts whose cards match.
type Owner string

const (
	OwnerAny      Owner = ""
	OwnerYou      Owner = "you"
	OwnerOpponent Owner = "opponent"
)

// Zone names where a card selector looks. The zero value is play.
type Zone string

const (
	ZonePlay    Zone = ""
	ZoneHand    Zone = "hand"
	ZoneDiscard Zone = "discard"
)

// Selector describes a set of cards or players.
type Selector struct {
	Scope       Scope
	Owner       Owner
	Zone        Zone
	CardType    catalog.CardType
	ExcludeSelf bool
	Count       int
	UpTo        bool
	Filter      Filter
}

// Filter narrows card selectors.
type Filter struct {
	CostAtMost     int
	StrengthAtMost int
	Damaged        bool
	Exerted        bool
	Subtype        string
	Name           string
	AtLocation     bool
}

// TargetsPlayers reports whether the selector resolves to players.
func (s Selector) TargetsPlayers() bool {
	switch s.Scope {
	case ScopeController, ScopeOpponents, ScopeEachPlayer:
		return true
	}
	return false
}

// MaxChoices is how many cards a chosen selector may pick.
func (s Selector) MaxChoices() int {
	if s.Count <= 0 {
		return 1
	}
	return s.Count
}

// MinChoices is how many cards a chosen selector must pick when able.
func (s Selector) MinChoices() int {
	if s.UpTo {
		return 0
	}
	return s.MaxChoices()
}

// Self selects the source card.
func Self() Selector {
	return Selector{Scope: ScopeSelf}
}

// Controller selects the ability's controller.
func Controller() Selector {
	return Selector{Scope: ScopeController}
}
