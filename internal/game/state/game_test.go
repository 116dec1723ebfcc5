package state

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

func newTestGame(t *testing.T, deckSize int) *Game {
	t.Helper()
	g := NewGame("test")
	for _, id := range []string{"alice", "bob"} {
		_, err := g.AddPlayer(id, "", 20)
		require.NoError(t, err)
		for i := 0; i < deckSize; i++ {
			c, err := g.CreateCard(catalog.Definition{ID: "c", Name: "Card", Type: catalog.TypeCharacter, Strength: 1, Willpower: 1, Lore: 1}, id)
			require.NoError(t, err)
			require.NoError(t, g.AddToZone(c.ID, ZoneDeck, PositionBottom))
		}
	}
	require.NoError(t, g.Begin("alice"))
	return g
}

func TestAddPlayerRejectsDuplicates(t *testing.T) {
	g := NewGame("g")
	_, err := g.AddPlayer("alice", "Alice", 20)
	require.NoError(t, err)
	_, err = g.AddPlayer("alice", "Again", 20)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
	_, err = g.AddPlayer("  ", "", 20)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestDrawPreservesRemainingDeckOrder(t *testing.T) {
	const m, n = 10, 4
	g := newTestGame(t, m)
	alice, _ := g.Player("alice")
	before := cardIDs(alice.Deck)

	for i := 0; i < n; i++ {
		_, err := g.Draw("alice")
		require.NoError(t, err)
	}

	assert.Len(t, alice.Deck, m-n)
	assert.Len(t, alice.Hand, n)
	assert.Equal(t, before[n:], cardIDs(alice.Deck))
	assert.Equal(t, before[:n], cardIDs(alice.Hand))
	for _, c := range alice.Hand {
		assert.Equal(t, ZoneHand, c.Zone)
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	g := newTestGame(t, 1)
	_, err := g.Draw("bob")
	require.NoError(t, err)
	_, err = g.Draw("bob")
	assert.ErrorIs(t, err, ErrDeckEmpty)
	_, err = g.Draw("nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestMoveCardConservesCards(t *testing.T) {
	g := newTestGame(t, 8)
	rng := rand.New(rand.NewSource(7))
	total := g.TotalCards()
	alice, _ := g.Player("alice")

	require.NoError(t, g.ShuffleDeck("alice", rng))
	for i := 0; i < 5; i++ {
		_, err := g.Draw("alice")
		require.NoError(t, err)
	}
	require.NoError(t, g.MoveCard(alice.Hand[0].ID, ZoneInkwell, PositionTop))
	require.NoError(t, g.MoveCard(alice.Hand[0].ID, ZonePlay, PositionTop))
	require.NoError(t, g.MoveCard(alice.Play[0].ID, ZoneDiscard, PositionTop))
	require.NoError(t, g.MoveCard(alice.Hand[0].ID, ZoneDeck, PositionBottom))

	assert.Equal(t, total, g.TotalCards())
	assert.Equal(t, 8, alice.CardCount())
	seen := map[string]int{}
	for _, p := range g.Players() {
		for _, z := range Zones {
			for _, c := range p.Zone(z) {
				seen[c.ID]++
				assert.Equal(t, z, c.Zone, "card %s zone field", c.ID)
			}
		}
	}
	assert.Len(t, seen, total)
	for id, count := range seen {
		assert.Equal(t, 1, count, "card %s appears once", id)
	}
}

func TestMoveCardPositions(t *testing.T) {
	g := newTestGame(t, 4)
	alice, _ := g.Player("alice")
	deck := cardIDs(alice.Deck)

	require.NoError(t, g.MoveCard(deck[3], ZoneDeck, PositionTop))
	assert.Equal(t, []string{deck[3], deck[0], deck[1], deck[2]}, cardIDs(alice.Deck))

	require.NoError(t, g.MoveCard(deck[0], ZoneDiscard, PositionTop))
	require.NoError(t, g.MoveCard(deck[1], ZoneDiscard, PositionTop))
	require.NoError(t, g.MoveCard(deck[2], ZoneDiscard, PositionBottom))
	assert.Equal(t, []string{deck[2], deck[0], deck[1]}, cardIDs(alice.Discard), "discard top is the last element")

	zone, idx, ok := g.Locate(deck[1])
	require.True(t, ok)
	assert.Equal(t, ZoneDiscard, zone)
	assert.Equal(t, 2, idx)
}

func TestMoveCardInvariantBreak(t *testing.T) {
	g := newTestGame(t, 2)
	alice, _ := g.Player("alice")
	card := alice.Deck[0]

	// corrupt the claimed zone without moving the card
	card.Zone = ZoneHand
	err := g.MoveCard(card.ID, ZonePlay, PositionTop)
	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "MoveCard", inv.Op)
	assert.Len(t, alice.Deck, 2, "deck untouched")
	assert.Empty(t, alice.Play)

	err = g.AddToZone(alice.Deck[1].ID, ZoneHand, PositionTop)
	require.True(t, errors.As(err, &inv))

	err = g.MoveCard("missing", ZoneHand, PositionTop)
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestExertInkAllOrNothing(t *testing.T) {
	g := newTestGame(t, 3)
	alice, _ := g.Player("alice")
	for len(alice.Deck) > 0 {
		require.NoError(t, g.MoveCard(alice.Deck[0].ID, ZoneInkwell, PositionTop))
	}
	require.Equal(t, 3, alice.ReadyInk())

	assert.Error(t, alice.ExertInk(4))
	assert.Equal(t, 3, alice.ReadyInk())
	require.NoError(t, alice.ExertInk(2))
	assert.Equal(t, 1, alice.ReadyInk())
}

func TestRestrictionExpiry(t *testing.T) {
	p := newPlayer("p", "p", 20)
	p.AddRestriction(Restriction{Kind: "cant_quest", ExpiresAt: rules.StartOfTurn(3)})
	p.AddRestriction(Restriction{Kind: "inkwell_cant_ready"})

	now := rules.Clock{Turn: 2, Step: rules.StepMain}
	assert.True(t, p.HasRestriction("cant_quest", now))
	later := rules.StartOfTurn(3)
	assert.False(t, p.HasRestriction("cant_quest", later))
	assert.True(t, p.HasRestriction("inkwell_cant_ready", later))

	p.PruneRestrictions(later)
	assert.Len(t, p.Restrictions, 1)
}

func TestTurnOrderHelpers(t *testing.T) {
	g := NewGame("g")
	for _, id := range []string{"a", "b", "c"} {
		_, err := g.AddPlayer(id, "", 20)
		require.NoError(t, err)
	}
	require.NoError(t, g.Begin("b"))

	assert.Equal(t, "c", g.NextPlayer("b"))
	assert.Equal(t, "a", g.NextPlayer("c"))
	opp := g.Opponents("b")
	require.Len(t, opp, 2)
	assert.Equal(t, "c", opp[0].ID)
	assert.Equal(t, "a", opp[1].ID)

	assert.Equal(t, 1, g.TurnsUntilNext("c"))
	assert.Equal(t, 2, g.TurnsUntilNext("a"))
	assert.Equal(t, 3, g.TurnsUntilNext("b"))
	assert.ErrorIs(t, g.Begin("z"), ErrUnknownPlayer)
}

func TestMarkers(t *testing.T) {
	m := make(Markers)
	assert.Equal(t, 0, m.Resist())
	m.Set(ResistMarker{Amount: 2})
	m.Set(LocationMarker{LocationID: "loc"})
	assert.Equal(t, 2, m.Resist())
	at, ok := m.Location()
	require.True(t, ok)
	assert.Equal(t, "loc", at)

	m.Set(ResistMarker{Amount: 1})
	assert.Equal(t, 1, m.Resist(), "same kind replaces")
	m.Clear(MarkerAtLocation)
	_, ok = m.Location()
	assert.False(t, ok)

	_, ok = GetMarker[ShiftMarker](m, MarkerResist)
	assert.False(t, ok, "kind and type must agree")
}

func TestChecksumDeterministic(t *testing.T) {
	build := func() *Game {
		g := newTestGame(t, 6)
		rng := rand.New(rand.NewSource(42))
		require.NoError(t, g.ShuffleDeck("alice", rng))
		require.NoError(t, g.ShuffleDeck("bob", rng))
		_, err := g.Draw("alice")
		require.NoError(t, err)
		return g
	}
	a, err := build().Checksum()
	require.NoError(t, err)
	b, err := build().Checksum()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	g := build()
	alice, _ := g.Player("alice")
	alice.Hand[0].Damage = 1
	c, err := g.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
