package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

func board(t *testing.T) *state.Game {
	t.Helper()
	g := state.NewGame("targeting")
	for _, id := range []string{"p1", "p2"} {
		_, err := g.AddPlayer(id, "", 20)
		require.NoError(t, err)
	}
	require.NoError(t, g.Begin("p1"))
	return g
}

func put(t *testing.T, g *state.Game, owner string, zone state.Zone, def catalog.Definition, abilities ...ability.Definition) *state.Card {
	t.Helper()
	c, err := g.CreateCard(def, owner)
	require.NoError(t, err)
	c.Abilities = abilities
	require.NoError(t, g.AddToZone(c.ID, zone, state.PositionTop))
	return c
}

func char(name string, cost, strength int) catalog.Definition {
	return catalog.Definition{Name: name, Type: catalog.TypeCharacter, Cost: cost, Strength: strength, Willpower: 3, Lore: 1}
}

func TestCandidatesRespectFiltersAndWard(t *testing.T) {
	g := board(t)
	source := put(t, g, "p1", state.ZonePlay, char("Source", 2, 2))
	mine := put(t, g, "p1", state.ZonePlay, char("Mine", 5, 4))
	small := put(t, g, "p2", state.ZonePlay, char("Small", 2, 1))
	warded := put(t, g, "p2", state.ZonePlay, char("Warded", 2, 1), ability.Definition{Kind: ability.KindKeyword, Keyword: ability.Ward})
	put(t, g, "p2", state.ZoneHand, char("InHand", 1, 1))

	ctx := Context{Game: g, Source: source, Controller: "p1"}

	opposing := ability.Selector{Scope: ability.ScopeChosen, Owner: ability.OwnerOpponent, CardType: catalog.TypeCharacter}
	assert.Equal(t, []*state.Card{small}, Candidates(opposing, ctx), "ward hides opposing cards from chosen selectors")

	all := opposing
	all.Scope = ability.ScopeAll
	assert.Equal(t, []*state.Card{small, warded}, Candidates(all, ctx))

	cheap := ability.Selector{Scope: ability.ScopeChosen, ExcludeSelf: true, Filter: ability.Filter{CostAtMost: 2}}
	assert.Equal(t, []*state.Card{small}, Candidates(cheap, ctx))

	yours := ability.Selector{Scope: ability.ScopeChosen, Owner: ability.OwnerYou}
	assert.Equal(t, []*state.Card{source, mine}, Candidates(yours, ctx))

	assert.Equal(t, []*state.Card{source}, Candidates(ability.Self(), ctx))
}

func TestPlayersSelector(t *testing.T) {
	g := board(t)
	ctx := Context{Game: g, Controller: "p2"}
	assert.Equal(t, []string{"p2"}, Players(ability.Controller(), ctx))
	assert.Equal(t, []string{"p1"}, Players(ability.Selector{Scope: ability.ScopeOpponents}, ctx))
	assert.Equal(t, []string{"p1", "p2"}, Players(ability.Selector{Scope: ability.ScopeEachPlayer}, ctx))
}

func TestValidateTargetSelection(t *testing.T) {
	g := board(t)
	source := put(t, g, "p1", state.ZonePlay, char("Source", 2, 2))
	a := put(t, g, "p2", state.ZonePlay, char("A", 2, 2))
	b := put(t, g, "p2", state.ZonePlay, char("B", 2, 2))

	sel := ability.Selector{Scope: ability.ScopeChosen, Owner: ability.OwnerOpponent, Count: 2, UpTo: true}
	v := NewTargetValidator(Context{Game: g, Source: source, Controller: "p1"})

	ok := &TargetSelection{Targets: []string{a.ID, b.ID}, Requirement: RequirementFor(sel, false)}
	assert.NoError(t, v.ValidateTargetSelection(ok, sel))

	dup := &TargetSelection{Targets: []string{a.ID, a.ID}, Requirement: RequirementFor(sel, false)}
	assert.Error(t, v.ValidateTargetSelection(dup, sel))

	own := &TargetSelection{Targets: []string{source.ID}, Requirement: RequirementFor(sel, false)}
	assert.Error(t, v.ValidateTargetSelection(own, sel))

	none := &TargetSelection{Requirement: RequirementFor(sel, false)}
	assert.True(t, none.IsComplete(), "up to selectors accept zero targets")
}

func TestDescribeAndFormat(t *testing.T) {
	sel := ability.Selector{Scope: ability.ScopeChosen, Owner: ability.OwnerOpponent, CardType: catalog.TypeCharacter, Count: 2, UpTo: true}
	assert.Equal(t, "up to 2 opposing characters", Describe(sel))
	assert.Equal(t, []string{"a", "b"}, ParseTargets(FormatTargets([]string{"a", "b"})))
	assert.Empty(t, ParseTargets(""))
}
