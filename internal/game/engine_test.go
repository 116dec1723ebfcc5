package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

func assertConserved(t *testing.T, g *state.Game) {
	t.Helper()
	total := 0
	for _, p := range g.Players() {
		total += p.CardCount()
	}
	assert.Equal(t, g.TotalCards(), total, "cards were created or lost")
}

func TestProcessBeforeStart(t *testing.T) {
	h := newUnstartedHarness(t)
	err := h.engine.Process(h.ctx, PassTurn(alice))
	assert.True(t, errors.Is(err, ErrNotStarted))
	assert.Nil(t, h.engine.LegalActions(alice))

	require.NoError(t, h.engine.Start(h.ctx))
	assert.ErrorIs(t, h.engine.Start(h.ctx), ErrAlreadyStarted)
	assert.ErrorIs(t, h.engine.AddPlayer(Seat{PlayerID: "carol", Handler: h.handler("carol")}), ErrAlreadyStarted)
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	e := New(zaptest.NewLogger(t), Options{})
	require.NoError(t, e.AddPlayer(Seat{PlayerID: alice, Deck: fillerDeck(5), Handler: choice.HandlerFunc(
		func(_ context.Context, req choice.Request) (choice.Response, error) { return defaultAnswer(req), nil },
	)}))
	assert.Error(t, e.Start(context.Background()))
	assert.False(t, e.Started())
}

func TestStartDealsOpeningHandsAndSkipsFirstDraw(t *testing.T) {
	h := newHarness(t, withOpeningHand(7))
	g := h.engine.Game()

	assert.Equal(t, alice, g.ActivePlayer())
	assert.Equal(t, alice, g.FirstPlayer)
	assert.Equal(t, rules.StepMain, g.Turns.CurrentStep())
	assert.Equal(t, 1, g.Turns.TurnNumber())
	assert.Len(t, h.player(alice).Hand, 7)
	assert.Len(t, h.player(alice).Deck, 13)

	h.do(PassTurn(alice))
	assert.Equal(t, bob, g.ActivePlayer())
	assert.Equal(t, 2, g.Turns.TurnNumber())
	assert.Equal(t, rules.StepMain, g.Turns.CurrentStep())
	assert.Len(t, h.player(bob).Hand, 8)
	assert.Len(t, h.player(bob).Deck, 12)
	assertConserved(t, g)
}

func TestMulliganPutsCardsBackAndRedraws(t *testing.T) {
	h := newUnstartedHarness(t, withOpeningHand(7), withMulligan())
	h.answers[alice] = func(req choice.Request) choice.Response {
		require.Equal(t, choice.KindMulligan, req.Kind)
		return choice.Select(req, req.Options[0].ID, req.Options[1].ID)
	}
	require.NoError(t, h.engine.Start(h.ctx))

	assert.Len(t, h.player(alice).Hand, 7)
	assert.Len(t, h.player(alice).Deck, 13)
	assert.True(t, h.player(alice).Mulliganed)
	assert.False(t, h.player(bob).Mulliganed)

	mulligans := h.eventsOf(rules.EventMulligan)
	require.Len(t, mulligans, 1)
	assert.Equal(t, 2, mulligans[0].Amount)
	assert.Len(t, h.requestsOf(choice.KindMulligan), 2)
}

func TestActionsOutsideYourTurnAreRejected(t *testing.T) {
	h := newHarness(t)
	c := h.inHand(bob, character("Bob's Card", 1, 1, 1, 1))

	h.reject(Ink(bob, c.ID), rules.ReasonNotYourTurn)
	h.reject(Ink("nobody", c.ID), rules.ReasonUnknownPlayer)
	h.reject(Action{Type: "DANCE", PlayerID: alice}, rules.ReasonUnknownAction)
}

func TestInkCardOncePerTurn(t *testing.T) {
	h := newHarness(t)
	first := h.inHand(alice, character("First", 2, 1, 1, 1))
	second := h.inHand(alice, character("Second", 2, 1, 1, 1))
	dryDef := character("Uninkable", 1, 1, 1, 1)
	dryDef.Inkable = false
	dry := h.inHand(alice, dryDef)

	h.reject(Ink(alice, dry.ID), rules.ReasonNotInkable)
	h.do(Ink(alice, first.ID))
	assert.Equal(t, state.ZoneInkwell, first.Zone)
	assert.Equal(t, 1, h.player(alice).ReadyInk())
	h.reject(Ink(alice, second.ID), rules.ReasonAlreadyInked)

	h.passTo(bob)
	h.passTo(alice)
	h.do(Ink(alice, second.ID))
	assert.Equal(t, 2, h.player(alice).ReadyInk())
}

func TestPlayCharacterPaysInkAndEntersDrying(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 3)
	c := h.inHand(alice, character("Mickey Mouse", 3, 2, 3, 2))

	h.do(Play(alice, c.ID))
	assert.True(t, c.InPlay())
	assert.True(t, c.Drying)
	assert.Equal(t, 0, h.player(alice).ReadyInk())
	h.reject(Quest(alice, c.ID), rules.ReasonDrying)

	h.passTo(bob)
	h.passTo(alice)
	assert.False(t, c.Drying)
	assert.Equal(t, 3, h.player(alice).ReadyInk(), "inkwell readies in the Set step")

	h.do(Quest(alice, c.ID))
	assert.Equal(t, 2, h.player(alice).Lore)
	assert.True(t, c.Exerted)
	h.reject(Quest(alice, c.ID), rules.ReasonExerted)
	assertConserved(t, h.engine.Game())
}

func TestPlayWithoutEnoughInkChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	c := h.inHand(alice, character("Expensive", 3, 2, 3, 2))

	h.reject(Play(alice, c.ID), rules.ReasonInsufficientInk)
	assert.Equal(t, state.ZoneHand, c.Zone)
	assert.Equal(t, 2, h.player(alice).ReadyInk())
}

func TestCostReductionIsUsedForValidationAndPayment(t *testing.T) {
	h := newHarness(t)
	h.inPlay(alice, item("Discount Sign", "You pay 1 {I} less to play characters."))
	h.giveInk(alice, 2)
	c := h.inHand(alice, character("Three Drop", 3, 2, 3, 1))

	assert.Equal(t, 2, h.engine.Effects().ModifiedCost(c, alice))
	assert.Contains(t, h.engine.LegalActions(alice), Play(alice, c.ID))
	h.do(Play(alice, c.ID))
	assert.Equal(t, 0, h.player(alice).ReadyInk())
}

func TestOneShotCostReductionIsConsumed(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 4)
	herald := h.inHand(alice, character("Herald", 1, 1, 1, 1,
		"When you play this character, you pay 2 {I} less for the next character you play this turn."))
	first := h.inHand(alice, character("First Follower", 3, 1, 1, 1))
	second := h.inHand(alice, character("Second Follower", 3, 1, 1, 1))

	h.do(Play(alice, herald.ID))
	assert.Equal(t, 1, h.engine.Effects().ModifiedCost(first, alice))
	h.do(Play(alice, first.ID))
	assert.Equal(t, 2, h.player(alice).ReadyInk())
	assert.Equal(t, 3, h.engine.Effects().ModifiedCost(second, alice))
}

func TestLoreGoalWinsFromAbility(t *testing.T) {
	h := newHarness(t)
	h.player(alice).Lore = 18
	h.giveInk(alice, 1)
	herald := h.inHand(alice, character("Town Crier", 1, 1, 1, 1, "When you play this character, gain 2 lore."))

	h.do(Play(alice, herald.ID))
	assert.True(t, h.engine.GameOver())
	assert.Equal(t, alice, h.engine.Winner())
	assert.Equal(t, 20, h.player(alice).Lore)
	require.Len(t, h.eventsOf(rules.EventGameWon), 1)

	h.reject(PassTurn(alice), rules.ReasonGameOver)
	assert.Empty(t, h.engine.LegalActions(alice))
}

func TestLoreGoalWinsFromLocationInSetStep(t *testing.T) {
	h := newHarness(t, withLoreGoal(5))
	h.player(alice).Lore = 4
	h.inPlay(alice, location("Lighthouse", 2, 5, 1, 1))

	h.do(PassTurn(alice))
	assert.False(t, h.engine.GameOver())
	h.do(PassTurn(bob))
	assert.Equal(t, alice, h.engine.Winner())
	assert.Equal(t, rules.StepSet, h.engine.Game().Turns.CurrentStep())
}

func TestDeckOutLosesTheGame(t *testing.T) {
	h := newHarness(t, withDeck(bob, nil))

	h.do(PassTurn(alice))
	assert.True(t, h.engine.GameOver())
	assert.Equal(t, alice, h.engine.Winner())
	won := h.eventsOf(rules.EventGameWon)
	require.Len(t, won, 1)
	assert.Equal(t, "deck_out", won[0].Data)
}

func TestDrawBonusAddsToDrawStep(t *testing.T) {
	h := newHarness(t)
	h.inPlay(bob, item("Library", "You draw an additional card during your draw step."))

	h.do(PassTurn(alice))
	assert.Len(t, h.player(bob).Hand, 2)
	assert.Len(t, h.eventsOf(rules.EventCardDrawn), 2)
}

func TestRejectedActionLeavesChecksumUnchanged(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Attacker", 3, 3, 4, 1))
	defender := h.inPlay(bob, character("Ready Defender", 2, 2, 3, 1))

	h.reject(Challenge(alice, attacker.ID, defender.ID), rules.ReasonDefenderReady)
	h.reject(Quest(alice, defender.ID), rules.ReasonNotOwner)
	h.reject(Move(alice, attacker.ID, defender.ID), rules.ReasonNotOwner)
	h.reject(UseAbility(alice, attacker.ID, "missing"), rules.ReasonNoAbility)
	assert.False(t, attacker.Exerted)
}

func TestLegalActionsAreAllValid(t *testing.T) {
	h := newHarness(t, withOpeningHand(5))
	h.giveInk(alice, 3)
	h.inPlay(alice, character("Quester", 2, 1, 2, 1))
	h.exerted(bob, character("Target", 2, 1, 1, 1))

	actions := h.engine.LegalActions(alice)
	require.NotEmpty(t, actions)
	assert.Contains(t, actions, PassTurn(alice))
	var types = make(map[ActionType]bool)
	for _, a := range actions {
		assert.True(t, h.engine.Validate(a).Legal, "action %s", a)
		types[a.Type] = true
	}
	assert.True(t, types[ActionInkCard])
	assert.True(t, types[ActionQuest])
	assert.True(t, types[ActionChallenge])
	assert.Empty(t, h.engine.LegalActions(bob))
}

func TestEffectsExpireAtEndOfTurn(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 1)
	c := h.inPlay(alice, character("Pumped", 2, 1, 3, 1))
	boost := h.inHand(alice, action("Pump Up", 1, "Chosen character gets +2 {S} this turn."))
	h.answers[alice] = pick(c.ID)

	h.do(Play(alice, boost.ID))
	assert.Equal(t, 3, h.engine.Effects().ModifiedStat(c, ability.StatStrength))
	assert.Equal(t, state.ZoneDiscard, boost.Zone)

	h.do(PassTurn(alice))
	assert.Equal(t, 1, h.engine.Effects().ModifiedStat(c, ability.StatStrength))
}

func TestReplayReproducesGame(t *testing.T) {
	build := func() *testHarness {
		h := newHarness(t, withOpeningHand(7))
		return h
	}
	first := build()
	replay := NewReplay("test-game", 7)
	first.engine.Record(replay)

	for i := 0; i < 6 && !first.engine.GameOver(); i++ {
		actions := first.engine.LegalActions(first.engine.Game().ActivePlayer())
		require.NotEmpty(t, actions)
		first.do(actions[0])
	}
	require.Equal(t, 6, replay.Len())

	dir := t.TempDir()
	require.NoError(t, replay.SaveToFile(dir))
	loaded, err := LoadReplayFromFile(dir, "test-game")
	require.NoError(t, err)
	assert.Equal(t, replay.Actions(), loaded.Actions())
	assert.Equal(t, int64(7), loaded.Seed)

	second := build()
	require.NoError(t, loaded.Verify(second.ctx, second.engine))
	want, _ := first.engine.Game().Checksum()
	got, _ := second.engine.Game().Checksum()
	assert.Equal(t, want, got)
}

func TestReplayRecorderSavesAttachedGame(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	recorder := NewReplayRecorder(nil, dir)
	replay := recorder.Attach(h.engine)

	h.do(PassTurn(alice))
	got, ok := recorder.GetReplay("test-game")
	require.True(t, ok)
	assert.Same(t, replay, got)
	assert.Equal(t, 1, got.Len())

	require.NoError(t, recorder.SaveReplay("test-game"))
	_, ok = recorder.GetReplay("test-game")
	assert.False(t, ok)
	loaded, err := recorder.LoadReplay("test-game")
	require.NoError(t, err)
	assert.Equal(t, []Action{PassTurn(alice)}, loaded.Actions())
}
