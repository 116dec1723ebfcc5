// Package state is the authoritative store of players, zones and card instances.
//
// The store enforces that every registered card is in exactly one zone and
// that cards only ever move between zones. It knows nothing about rules; the
// engine is its only writer.
package state

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// Position selects where a moved card is inserted in an ordered zone.
type Position int

const (
	// PositionTop is the top of the zone: index 0 of the deck, the most recent discard.
	PositionTop Position = iota
	// PositionBottom is the bottom of the zone.
	PositionBottom
)

// Game is the mutable state of one game.
type Game struct {
	ID          string
	FirstPlayer string
	Winner      string
	Turns       *rules.TurnManager

	players map[string]*Player
	order   []string
	cards   map[string]*Card
	serials map[string]int
}

// NewGame creates an empty game.
func NewGame(id string) *Game {
	return &Game{
		ID:      id,
		players: make(map[string]*Player),
		cards:   make(map[string]*Card),
		serials: make(map[string]int),
		Turns:   rules.NewTurnManager(""),
	}
}

// AddPlayer registers a player in the next seat.
func (g *Game) AddPlayer(id, name string, loreGoal int) (*Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("add player: empty id: %w", ErrUnknownPlayer)
	}
	if _, exists := g.players[id]; exists {
		return nil, fmt.Errorf("add player %s: %w", id, ErrDuplicatePlayer)
	}
	if name == "" {
		name = id
	}
	p := newPlayer(id, name, loreGoal)
	g.players[id] = p
	g.order = append(g.order, id)
	return p, nil
}

// Player looks a player up by id.
func (g *Game) Player(id string) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Players returns the players in seat order.
func (g *Game) Players() []*Player {
	out := make([]*Player, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.players[id])
	}
	return out
}

// PlayerIDs returns the player ids in seat order.
func (g *Game) PlayerIDs() []string {
	return append([]string(nil), g.order...)
}

// Opponents returns every other player in seat order starting after id.
func (g *Game) Opponents(id string) []*Player {
	var out []*Player
	next := id
	for i := 0; i < len(g.order)-1; i++ {
		next = g.NextPlayer(next)
		if next == id {
			break
		}
		out = append(out, g.players[next])
	}
	return out
}

// NextPlayer returns the player seated after id.
func (g *Game) NextPlayer(id string) string {
	for i, pid := range g.order {
		if pid == id {
			return g.order[(i+1)%len(g.order)]
		}
	}
	if len(g.order) > 0 {
		return g.order[0]
	}
	return ""
}

// TurnsUntilNext returns how many turns pass before playerID next starts a
// turn, counting from the current turn. For the turn player it is a full round.
func (g *Game) TurnsUntilNext(playerID string) int {
	n := 1
	for next := g.NextPlayer(g.Turns.ActivePlayer()); next != playerID && n < len(g.order); next = g.NextPlayer(next) {
		n++
	}
	return n
}

// Begin sets the first player and resets the turn clock.
func (g *Game) Begin(firstPlayer string) error {
	if _, ok := g.players[firstPlayer]; !ok {
		return fmt.Errorf("begin with %s: %w", firstPlayer, ErrUnknownPlayer)
	}
	g.FirstPlayer = firstPlayer
	g.Turns = rules.NewTurnManager(firstPlayer)
	return nil
}

// Now returns the current clock.
func (g *Game) Now() rules.Clock {
	return g.Turns.Now()
}

// ActivePlayer returns the turn player.
func (g *Game) ActivePlayer() string {
	return g.Turns.ActivePlayer()
}

// GameOver reports whether a winner has been recorded.
func (g *Game) GameOver() bool {
	return g.Winner != ""
}

// HasPlayer reports whether the player is registered.
func (g *Game) HasPlayer(playerID string) bool {
	_, ok := g.players[playerID]
	return ok
}

// CardExists reports whether the card is registered.
func (g *Game) CardExists(cardID string) bool {
	_, ok := g.cards[cardID]
	return ok
}

// CreateCard registers a new instance of def owned by owner. The card is not
// in a zone until AddToZone is called.
func (g *Game) CreateCard(def catalog.Definition, owner string) (*Card, error) {
	if _, ok := g.players[owner]; !ok {
		return nil, fmt.Errorf("create card for %s: %w", owner, ErrUnknownPlayer)
	}
	g.serials[owner]++
	id := fmt.Sprintf("%s-%03d", owner, g.serials[owner])
	card := NewCard(id, def, owner)
	g.cards[id] = card
	return card, nil
}

// Card looks a card up by id.
func (g *Game) Card(id string) (*Card, bool) {
	c, ok := g.cards[id]
	return c, ok
}

// AddToZone places an unplaced card into zone.
func (g *Game) AddToZone(cardID string, zone Zone, pos Position) error {
	card, ok := g.cards[cardID]
	if !ok {
		return fmt.Errorf("add %s to %s: %w", cardID, zone, ErrUnknownCard)
	}
	if card.Zone != ZoneNone {
		return &InvariantError{Op: "AddToZone", CardID: cardID, Detail: fmt.Sprintf("already in %s", card.Zone)}
	}
	owner := g.players[card.Owner]
	owner.setZone(zone, insert(owner.Zone(zone), card, zone, pos))
	card.Zone = zone
	return nil
}

// MoveCard moves a card from its current zone to zone as one step: the card is
// removed and inserted, or nothing changes.
func (g *Game) MoveCard(cardID string, to Zone, pos Position) error {
	card, ok := g.cards[cardID]
	if !ok {
		return fmt.Errorf("move %s to %s: %w", cardID, to, ErrUnknownCard)
	}
	if to == ZoneNone {
		return &InvariantError{Op: "MoveCard", CardID: cardID, Detail: "cannot move to no zone"}
	}
	owner := g.players[card.Owner]
	from := card.Zone
	src := owner.Zone(from)
	idx := indexOf(src, cardID)
	if idx < 0 {
		return &InvariantError{Op: "MoveCard", CardID: cardID, Detail: fmt.Sprintf("not found in %s", from)}
	}

	remaining := make([]*Card, 0, len(src)-1)
	remaining = append(remaining, src[:idx]...)
	remaining = append(remaining, src[idx+1:]...)
	if from == to {
		owner.setZone(to, insert(remaining, card, to, pos))
		return nil
	}
	owner.setZone(from, remaining)
	owner.setZone(to, insert(owner.Zone(to), card, to, pos))
	card.Zone = to
	return nil
}

// Locate returns the zone and index of a card.
func (g *Game) Locate(cardID string) (Zone, int, bool) {
	card, ok := g.cards[cardID]
	if !ok {
		return ZoneNone, -1, false
	}
	owner := g.players[card.Owner]
	idx := indexOf(owner.Zone(card.Zone), cardID)
	if idx < 0 {
		return ZoneNone, -1, false
	}
	return card.Zone, idx, true
}

// Draw moves the top card of the player's deck into their hand.
func (g *Game) Draw(playerID string) (*Card, error) {
	p, ok := g.players[playerID]
	if !ok {
		return nil, fmt.Errorf("draw for %s: %w", playerID, ErrUnknownPlayer)
	}
	if len(p.Deck) == 0 {
		return nil, ErrDeckEmpty
	}
	top := p.Deck[0]
	if err := g.MoveCard(top.ID, ZoneHand, PositionTop); err != nil {
		return nil, err
	}
	return top, nil
}

// ShuffleDeck shuffles a player's deck with rng.
func (g *Game) ShuffleDeck(playerID string, rng *rand.Rand) error {
	p, ok := g.players[playerID]
	if !ok {
		return fmt.Errorf("shuffle for %s: %w", playerID, ErrUnknownPlayer)
	}
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
	return nil
}

// CardsInPlay returns every card in play, in seat order then play order.
func (g *Game) CardsInPlay() []*Card {
	var out []*Card
	for _, id := range g.order {
		out = append(out, g.players[id].Play...)
	}
	return out
}

// CharactersAt returns the characters currently at a location.
func (g *Game) CharactersAt(locationID string) []*Card {
	var out []*Card
	for _, c := range g.CardsInPlay() {
		if at, ok := c.Markers.Location(); ok && at == locationID {
			out = append(out, c)
		}
	}
	return out
}

// TotalCards is the number of registered instances.
func (g *Game) TotalCards() int {
	return len(g.cards)
}

func indexOf(cards []*Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// insert places card into an ordered zone. The deck's top is index 0; the
// discard's top is its last element; other zones append.
func insert(cards []*Card, card *Card, zone Zone, pos Position) []*Card {
	atFront := false
	switch zone {
	case ZoneDeck:
		atFront = pos == PositionTop
	case ZoneDiscard:
		atFront = pos == PositionBottom
	}
	if atFront {
		out := make([]*Card, 0, len(cards)+1)
		out = append(out, card)
		return append(out, cards...)
	}
	return append(cards, card)
}
