package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

func testDeck() []catalog.Definition {
	cards := []catalog.Definition{
		{ID: "scout", Name: "Scout", Type: catalog.TypeCharacter, Cost: 1, Inkable: true, Strength: 1, Willpower: 2, Lore: 1},
		{ID: "sage", Name: "Sage", Type: catalog.TypeCharacter, Cost: 2, Inkable: true, Strength: 1, Willpower: 2, Lore: 2},
		{ID: "knight", Name: "Knight", Type: catalog.TypeCharacter, Cost: 3, Inkable: true, Strength: 3, Willpower: 3, Lore: 1,
			TextSections: []string{"Bodyguard"}},
		{ID: "bolt", Name: "Bolt", Type: catalog.TypeAction, Cost: 2, Inkable: false,
			TextSections: []string{"Deal 2 damage to chosen character."}},
		{ID: "ballad", Name: "Ballad", Type: catalog.TypeAction, Subtypes: []string{"Song"}, Cost: 3, Inkable: true,
			TextSections: []string{"Draw a card."}},
	}
	var deck []catalog.Definition
	for _, c := range cards {
		for i := 0; i < 6; i++ {
			deck = append(deck, c)
		}
	}
	return deck
}

func newBotGame(t *testing.T, seed int64, limits Limits) (*game.Engine, *Driver) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := game.New(logger, game.Options{GameID: "bot-game", Seed: seed, OpeningHand: 7})
	driver := NewDriver(engine, logger, limits)
	for i, id := range []string{"north", "south"} {
		profile, err := LookupProfile(ProfileNames()[i])
		require.NoError(t, err)
		_, err = driver.Seat(id, testDeck(), profile, seed+int64(i))
		require.NoError(t, err)
	}
	return engine, driver
}

func TestBotGameTerminatesWithWinner(t *testing.T) {
	engine, driver := newBotGame(t, 11, Limits{})

	res, err := driver.PlayGame(context.Background())
	require.NoError(t, err)
	assert.True(t, engine.GameOver())
	assert.Contains(t, []string{"north", "south"}, res.Winner)
	assert.Equal(t, engine.Winner(), res.Winner)
	assert.Positive(t, res.Actions)
	assert.LessOrEqual(t, res.Turns, defaultMaxTurns)
}

func TestDriverLogsThroughChannels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := game.New(zaptest.NewLogger(t), game.Options{GameID: "bot-game", Seed: 11, OpeningHand: 7})
	driver := NewDriver(engine, zap.New(core), Limits{MaxActionsPerTurn: 1})
	for i, id := range []string{"north", "south"} {
		_, err := driver.Seat(id, testDeck(), profiles[DefaultProfile], int64(i))
		require.NoError(t, err)
	}

	_, err := driver.PlayGame(context.Background())
	require.NoError(t, err)

	finished := logs.FilterMessage("bot game finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, "info", finished[0].ContextMap()["channel"])
	for _, entry := range logs.FilterMessage("bot hit action ceiling, forcing pass").All() {
		assert.Equal(t, "warn", entry.ContextMap()["channel"])
	}
}

func TestBotGameIsDeterministic(t *testing.T) {
	first, d1 := newBotGame(t, 5, Limits{})
	second, d2 := newBotGame(t, 5, Limits{})

	r1, err := d1.PlayGame(context.Background())
	require.NoError(t, err)
	r2, err := d2.PlayGame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	sum1, err := first.Game().Checksum()
	require.NoError(t, err)
	sum2, err := second.Game().Checksum()
	require.NoError(t, err)
	assert.Equal(t, sum1, sum2)
}

func TestDecideActionIsAlwaysLegal(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{})
	require.NoError(t, engine.Start(context.Background()))

	for turn := 0; turn < 10 && !engine.GameOver(); turn++ {
		player := engine.Game().ActivePlayer()
		action := driver.policies[player].DecideAction(player)
		assert.True(t, engine.Validate(action).Legal, "policy chose %s", action)
		_, err := driver.TakeTurn(context.Background())
		require.NoError(t, err)
	}
}

func TestActionCeilingForcesPass(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{MaxActionsPerTurn: 1})
	require.NoError(t, engine.Start(context.Background()))
	first := engine.Game().ActivePlayer()

	n, err := driver.TakeTurn(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 2)
	assert.NotEqual(t, first, engine.Game().ActivePlayer())
}

// placed puts a vanilla card straight into a zone.
func placed(t *testing.T, g *state.Game, owner string, def catalog.Definition, zone state.Zone) *state.Card {
	t.Helper()
	c, err := g.CreateCard(def, owner)
	require.NoError(t, err)
	require.NoError(t, g.AddToZone(c.ID, zone, state.PositionTop))
	return c
}

func TestDecideActionTakesWinningQuest(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{})
	require.NoError(t, engine.Start(context.Background()))
	g := engine.Game()
	player := g.ActivePlayer()

	hero := placed(t, g, player, catalog.Definition{
		ID: "hero", Name: "Hero", Type: catalog.TypeCharacter, Cost: 2, Strength: 2, Willpower: 2, Lore: 2,
	}, state.ZonePlay)
	p, _ := g.Player(player)
	p.Lore = p.LoreGoal - 2

	assert.Equal(t, game.Quest(player, hero.ID), driver.policies[player].DecideAction(player))
}

func TestDecideActionPrefersKillingChallenge(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{})
	require.NoError(t, engine.Start(context.Background()))
	g := engine.Game()
	player := g.ActivePlayer()
	opponent := g.Opponents(player)[0].ID

	attacker := placed(t, g, player, catalog.Definition{
		ID: "brute", Name: "Brute", Type: catalog.TypeCharacter, Cost: 4, Strength: 4, Willpower: 5, Lore: 0,
	}, state.ZonePlay)
	victim := placed(t, g, opponent, catalog.Definition{
		ID: "star", Name: "Star", Type: catalog.TypeCharacter, Cost: 5, Strength: 1, Willpower: 3, Lore: 3,
	}, state.ZonePlay)
	victim.Exerted = true
	p, _ := g.Player(player)
	p.InkedThisTurn = true

	assert.Equal(t, game.Challenge(player, attacker.ID, victim.ID), driver.policies[player].DecideAction(player))
}

func TestRespondToChoiceRequest(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{})
	g := engine.Game()
	policy := driver.policies["north"]

	mine := placed(t, g, "north", catalog.Definition{ID: "a", Name: "A", Type: catalog.TypeCharacter, Cost: 2, Lore: 1}, state.ZonePlay)
	theirsSmall := placed(t, g, "south", catalog.Definition{ID: "b", Name: "B", Type: catalog.TypeCharacter, Cost: 1, Lore: 1}, state.ZonePlay)
	theirsBig := placed(t, g, "south", catalog.Definition{ID: "c", Name: "C", Type: catalog.TypeCharacter, Cost: 5, Lore: 3}, state.ZonePlay)

	options := []choice.Option{
		{ID: mine.ID, CardID: mine.ID, Valid: true},
		{ID: theirsSmall.ID, CardID: theirsSmall.ID, Valid: true},
		{ID: theirsBig.ID, CardID: theirsBig.ID, Valid: true},
	}

	t.Run("harmful picks best opposing card", func(t *testing.T) {
		req := choice.Request{ID: "r1", PlayerID: "north", Kind: choice.KindTarget, Options: options, Min: 1, Max: 1, Hint: choice.HintHarmful}
		resp := policy.RespondToChoiceRequest(req)
		assert.Equal(t, []string{theirsBig.ID}, resp.Selected)
		assert.NoError(t, choice.Validate(req, resp))
	})

	t.Run("beneficial picks own card", func(t *testing.T) {
		req := choice.Request{ID: "r2", PlayerID: "north", Kind: choice.KindTarget, Options: options, Min: 1, Max: 1, Hint: choice.HintBeneficial}
		assert.Equal(t, []string{mine.ID}, policy.RespondToChoiceRequest(req).Selected)
	})

	t.Run("optional harmful with only own cards declines", func(t *testing.T) {
		req := choice.Request{ID: "r3", PlayerID: "north", Kind: choice.KindTarget, Options: options[:1], Min: 0, Max: 1,
			Optional: true, Hint: choice.HintHarmful}
		assert.True(t, policy.RespondToChoiceRequest(req).Declined)
	})

	t.Run("mandatory harmful with only own cards still answers", func(t *testing.T) {
		req := choice.Request{ID: "r4", PlayerID: "north", Kind: choice.KindTarget, Options: options[:1], Min: 1, Max: 1, Hint: choice.HintHarmful}
		resp := policy.RespondToChoiceRequest(req)
		assert.NoError(t, choice.Validate(req, resp))
	})

	t.Run("neutral picks a valid option", func(t *testing.T) {
		req := choice.Request{ID: "r5", PlayerID: "north", Kind: choice.KindTarget, Options: options, Min: 2, Max: 2}
		resp := policy.RespondToChoiceRequest(req)
		assert.Len(t, resp.Selected, 2)
		assert.NoError(t, choice.Validate(req, resp))
	})

	t.Run("may says yes", func(t *testing.T) {
		req := choice.Request{ID: "r6", PlayerID: "north", Kind: choice.KindMay, Optional: true, Min: 1, Max: 1,
			Options: []choice.Option{{ID: choice.OptionYes, Valid: true}, {ID: choice.OptionNo, Valid: true}}}
		assert.Equal(t, []string{choice.OptionYes}, policy.RespondToChoiceRequest(req).Selected)
	})

	t.Run("discard drops the cheapest card", func(t *testing.T) {
		req := choice.Request{ID: "r7", PlayerID: "north", Kind: choice.KindDiscard, Options: options, Min: 1, Max: 1}
		assert.Equal(t, []string{theirsSmall.ID}, policy.RespondToChoiceRequest(req).Selected)
	})
}

func TestDecideMulligan(t *testing.T) {
	engine, driver := newBotGame(t, 3, Limits{})
	g := engine.Game()
	policy := driver.policies["north"]
	cheap := placed(t, g, "north", catalog.Definition{ID: "cheap", Name: "Cheap", Type: catalog.TypeCharacter, Cost: 2}, state.ZoneHand)
	pricey := placed(t, g, "north", catalog.Definition{ID: "pricey", Name: "Pricey", Type: catalog.TypeCharacter, Cost: 8}, state.ZoneHand)

	assert.Equal(t, []string{pricey.ID}, policy.DecideMulligan([]*state.Card{cheap, pricey}))
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("")
	require.NoError(t, err)
	assert.Equal(t, profiles[DefaultProfile], p)

	_, err = LookupProfile("reckless-gambler")
	assert.Error(t, err)
}
