package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

func TestTriggersResolveInOrder(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 1)
	first := h.inPlay(alice, character("Cheerleader", 2, 1, 2, 1, "Whenever you play a character, gain 1 lore."))
	second := h.inPlay(alice, character("Scout", 2, 1, 2, 1, "Whenever you play a character, draw a card."))
	newcomer := h.inHand(alice, character("Newcomer", 1, 1, 1, 1))

	h.do(Play(alice, newcomer.ID))

	resolved := h.eventsOf(rules.EventAbilityResolved)
	require.Len(t, resolved, 2)
	assert.Equal(t, first.ID, resolved[0].TargetID)
	assert.Equal(t, second.ID, resolved[1].TargetID)
	assert.Equal(t, 1, h.player(alice).Lore)
	assert.Len(t, h.player(alice).Hand, 1)
}

func TestOwnPlayTriggerDoesNotCountAsAnotherCharacter(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	fan := h.inHand(alice, character("Fan", 2, 1, 2, 1, "Whenever you play a character, gain 1 lore."))

	h.do(Play(alice, fan.ID))
	assert.Equal(t, 0, h.player(alice).Lore)
	assert.Empty(t, h.eventsOf(rules.EventAbilityResolved))
}

func TestOptionalAbilityCanBeDeclined(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	reader := h.inHand(alice, character("Reader", 1, 1, 1, 1, "When you play this character, you may draw a card."))
	second := h.inHand(alice, character("Second Reader", 1, 1, 1, 1, "When you play this character, you may draw a card."))
	h.answers[alice] = func(req choice.Request) choice.Response { return choice.Decline(req) }

	h.do(Play(alice, reader.ID))
	assert.Len(t, h.player(alice).Hand, 1)
	require.Len(t, h.requestsOf(choice.KindMay), 1)

	delete(h.answers, alice)
	h.do(Play(alice, second.ID))
	assert.Len(t, h.player(alice).Hand, 1, "drew one card after playing the other")
}

func TestChosenDamageSkipsWard(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	bolt := h.inHand(alice, action("Bolt", 2, "Deal 2 damage to chosen character."))
	warded := h.inPlay(bob, character("Warded", 2, 1, 2, 1, "Ward"))
	plain := h.inPlay(bob, character("Plain", 2, 1, 2, 1))

	h.do(Play(alice, bolt.ID))

	targets := h.requestsOf(choice.KindTarget)
	require.Len(t, targets, 1)
	var offered []string
	for _, o := range targets[0].ValidOptions() {
		offered = append(offered, o.ID)
	}
	assert.NotContains(t, offered, warded.ID)
	assert.Contains(t, offered, plain.ID)

	assert.Equal(t, state.ZoneDiscard, plain.Zone)
	assert.True(t, warded.InPlay())
	assert.Equal(t, state.ZoneDiscard, bolt.Zone)
}

func TestChosenTargetIsHonoured(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	bolt := h.inHand(alice, action("Bolt", 2, "Deal 2 damage to chosen character."))
	big := h.inPlay(bob, character("Big", 4, 1, 5, 1))
	h.inPlay(bob, character("Small", 1, 1, 2, 1))
	h.answers[alice] = pick(big.ID)

	h.do(Play(alice, bolt.ID))
	assert.Equal(t, 2, big.Damage)
}

func TestInteractiveInvalidTargetIsRejectedAndAskedAgain(t *testing.T) {
	requests := make(chan choice.Request, 1)
	async := choice.NewAsyncHandler(nil, func(req choice.Request) { requests <- req })
	h := newHarness(t, withHandler(alice, async))
	h.giveInk(alice, 2)
	bolt := h.inHand(alice, action("Bolt", 2, "Deal 2 damage to chosen character."))
	first := h.inPlay(bob, character("First", 2, 1, 3, 1))
	second := h.inPlay(bob, character("Second", 2, 1, 3, 1))

	done := make(chan error, 1)
	go func() { done <- h.engine.Process(h.ctx, Play(alice, bolt.ID)) }()

	req := <-requests
	err := async.Submit(choice.Select(req, first.ID, second.ID))
	require.ErrorIs(t, err, choice.ErrInvalidResponse)
	assert.Len(t, async.Pending(), 1, "rejected answer leaves the request open")
	assert.Equal(t, 0, first.Damage)
	assert.Equal(t, 0, second.Damage)

	require.NoError(t, async.Submit(choice.Select(req, second.ID)))
	require.NoError(t, <-done)
	assert.Equal(t, 0, first.Damage)
	assert.Equal(t, 2, second.Damage)
	assert.Empty(t, async.Pending())
}

func TestReturnToHandClearsRuntimeState(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 2)
	bounce := h.inHand(alice, action("Bounce", 2, "Return chosen character with cost 2 or less to their player's hand."))
	target := h.exerted(bob, character("Target", 2, 1, 4, 1))
	target.Damage = 2
	h.inPlay(bob, character("Too Expensive", 5, 1, 4, 1))
	h.answers[alice] = pick(target.ID)

	h.do(Play(alice, bounce.ID))
	assert.Equal(t, state.ZoneHand, target.Zone)
	assert.Equal(t, 0, target.Damage)
	assert.False(t, target.Exerted)
	assert.Len(t, h.eventsOf(rules.EventReturnedToHand), 1)
	assertConserved(t, h.engine.Game())
}

func TestOpponentDiscards(t *testing.T) {
	h := newHarness(t, withOpeningHand(3))
	h.giveInk(alice, 2)
	scheme := h.inHand(alice, action("Scheme", 2, "Each opponent chooses and discards a card."))

	h.do(Play(alice, scheme.ID))
	assert.Len(t, h.player(bob).Hand, 2)
	assert.Len(t, h.player(bob).Discard, 1)
	discard := h.requestsOf(choice.KindDiscard)
	require.Len(t, discard, 1)
	assert.Equal(t, bob, discard[0].PlayerID)
}

func TestSupportAddsStrength(t *testing.T) {
	h := newHarness(t)
	helper := h.inPlay(alice, character("Helper", 2, 2, 3, 1, "Support"))
	friend := h.inPlay(alice, character("Friend", 2, 1, 3, 1))

	h.do(Quest(alice, helper.ID))
	assert.Equal(t, 1, h.player(alice).Lore)
	assert.Equal(t, 3, h.engine.Effects().ModifiedStat(friend, ability.StatStrength))

	h.do(PassTurn(alice))
	assert.Equal(t, 1, h.engine.Effects().ModifiedStat(friend, ability.StatStrength))
}

func TestQuestTriggers(t *testing.T) {
	h := newHarness(t)
	bard := h.inPlay(alice, character("Bard", 2, 1, 3, 2, "Whenever this character quests, each opponent loses 1 lore."))
	h.player(bob).Lore = 1

	h.do(Quest(alice, bard.ID))
	assert.Equal(t, 2, h.player(alice).Lore)
	assert.Equal(t, 0, h.player(bob).Lore)
	assert.Equal(t, 1, h.engine.Stats(alice).Quests)
}

func TestActivatedAbility(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 1)
	lamp := h.inPlay(alice, item("Lamp", "{E}, 1 {I} - Draw a card."))
	abilities := lamp.AbilitiesOfKind(ability.KindActivated)
	require.Len(t, abilities, 1)
	use := UseAbility(alice, lamp.ID, abilities[0].ID)

	h.do(use)
	assert.True(t, lamp.Exerted)
	assert.Equal(t, 0, h.player(alice).ReadyInk())
	assert.Len(t, h.player(alice).Hand, 1)
	h.reject(use, rules.ReasonExerted)
}

func TestMoveToLocation(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 1)
	harbor := h.inPlay(alice, location("Harbor", 2, 5, 1, 1))
	sailor := h.inPlay(alice, character("Sailor", 2, 1, 3, 1))

	h.do(Move(alice, sailor.ID, harbor.ID))
	at, ok := sailor.Markers.Location()
	require.True(t, ok)
	assert.Equal(t, harbor.ID, at)
	assert.Equal(t, 0, h.player(alice).ReadyInk())
	assert.Len(t, h.engine.Game().CharactersAt(harbor.ID), 1)
	h.reject(Move(alice, sailor.ID, harbor.ID), rules.ReasonAlreadyAtLocation)

	h.passTo(bob)
	h.passTo(alice)
	assert.Equal(t, 1, h.player(alice).Lore, "locations give lore in the Set step")
}

func TestShiftKeepsStateAndStacksCards(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 4)
	baseDef := character("Stitch", 2, 2, 3, 1)
	baseDef.ID, baseDef.Version = "stitch-new-dog", "New Dog"
	base := h.exerted(alice, baseDef)
	base.Damage = 1

	topDef := character("Stitch", 6, 4, 5, 3, "Shift 4")
	topDef.ID, topDef.Version = "stitch-rock-star", "Rock Star"
	top := h.inHand(alice, topDef)

	h.reject(Play(alice, top.ID), rules.ReasonInsufficientInk)
	h.do(PlayViaShift(alice, top.ID, base.ID))

	assert.True(t, top.InPlay())
	assert.True(t, top.Exerted)
	assert.Equal(t, 1, top.Damage)
	assert.Equal(t, []string{base.ID}, top.Markers.CardsUnder())
	assert.Equal(t, state.ZoneUnder, base.Zone)
	assert.Equal(t, 0, base.Damage)
	assert.Equal(t, 0, h.player(alice).ReadyInk())

	played := h.eventsOf(rules.EventCardPlayed)
	require.Len(t, played, 1)
	assert.Equal(t, base.ID, played[0].Metadata["shift"])
	assertConserved(t, h.engine.Game())

	// the stack leaves play together
	top.Damage = 5
	h.engine.checkLethal()
	assert.Equal(t, state.ZoneDiscard, top.Zone)
	assert.Equal(t, state.ZoneDiscard, base.Zone)
	assertConserved(t, h.engine.Game())
}

func TestShiftNeedsMatchingName(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 4)
	other := h.inPlay(alice, character("Gadget", 2, 1, 3, 1))
	top := h.inHand(alice, character("Stitch", 6, 4, 5, 3, "Shift 4"))

	h.reject(PlayViaShift(alice, top.ID, other.ID), rules.ReasonShiftName)
	plain := h.inHand(alice, character("Plain", 2, 1, 1, 1))
	h.reject(PlayViaShift(alice, plain.ID, other.ID), rules.ReasonNoShift)
}

func TestSingSong(t *testing.T) {
	h := newHarness(t)
	tune := h.inHand(alice, song("Little Tune", 3, "Draw a card."))
	singer := h.inPlay(alice, character("Crooner", 3, 1, 3, 1))
	mumbler := h.inPlay(alice, character("Mumbler", 2, 1, 3, 1))

	h.reject(Sing(alice, tune.ID, mumbler.ID), rules.ReasonSingerTooWeak)
	h.reject(Play(alice, tune.ID), rules.ReasonInsufficientInk)
	assert.Contains(t, h.engine.LegalActions(alice), Sing(alice, tune.ID, singer.ID))

	h.do(Sing(alice, tune.ID, singer.ID))
	assert.True(t, singer.Exerted)
	assert.Equal(t, state.ZoneDiscard, tune.Zone)
	assert.Len(t, h.player(alice).Hand, 1)
	assert.Equal(t, 1, h.engine.Stats(alice).SongsSung)

	sung := h.eventsOf(rules.EventSongSung)
	require.Len(t, sung, 1)
	assert.Equal(t, []string{singer.ID}, sung[0].Targets)
}

func TestSingerKeyword(t *testing.T) {
	h := newHarness(t)
	ballad := h.inHand(alice, song("Ballad", 5, "Gain 2 lore."))
	diva := h.inPlay(alice, character("Diva", 2, 1, 3, 1, "Singer 5"))

	h.do(Sing(alice, ballad.ID, diva.ID))
	assert.Equal(t, 2, h.player(alice).Lore)
}

func TestSingTogether(t *testing.T) {
	h := newHarness(t)
	anthem := h.inHand(alice, song("Anthem", 7, "Sing Together 6", "Gain 3 lore."))
	first := h.inPlay(alice, character("First Voice", 3, 1, 3, 1))
	second := h.inPlay(alice, character("Second Voice", 3, 1, 3, 1))
	tired := h.inPlay(alice, character("Tired Voice", 4, 1, 3, 1))
	tired.Exerted = true

	h.reject(Sing(alice, anthem.ID, first.ID), rules.ReasonSingerTooWeak)
	h.reject(Sing(alice, anthem.ID, first.ID, tired.ID), rules.ReasonExerted)
	h.reject(Sing(alice, anthem.ID, first.ID, first.ID), rules.ReasonInvalidTarget)

	var group Action
	for _, a := range h.engine.LegalActions(alice) {
		if a.Mode == PlaySing && len(a.Singers) > 1 {
			group = a
		}
	}
	require.NotEmpty(t, group.Singers)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, group.Singers)

	h.do(group)
	assert.True(t, first.Exerted)
	assert.True(t, second.Exerted)
	assert.Equal(t, 3, h.player(alice).Lore)
}

func TestSongPlayedTrigger(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 1)
	h.inPlay(alice, character("Fanboy", 2, 1, 3, 1, "Whenever you play a song, gain 1 lore."))
	jingle := h.inHand(alice, song("Jingle", 1, "Draw a card."))

	h.do(Play(alice, jingle.ID))
	assert.Equal(t, 1, h.player(alice).Lore)
}

func TestStartAndEndOfTurnTriggers(t *testing.T) {
	h := newHarness(t)
	h.inPlay(alice, character("Early Bird", 2, 1, 3, 1, "At the start of your turn, gain 1 lore."))
	h.inPlay(alice, character("Night Owl", 2, 1, 3, 1, "At the end of your turn, draw a card."))

	h.do(PassTurn(alice))
	assert.Len(t, h.player(alice).Hand, 1)
	assert.Equal(t, 0, h.player(alice).Lore)

	h.do(PassTurn(bob))
	assert.Equal(t, 1, h.player(alice).Lore)
}

func TestStaticKeywordDuringYourTurn(t *testing.T) {
	h := newHarness(t)
	sneak := h.inPlay(alice, character("Sneak", 2, 1, 3, 1, "During your turn, this character gains Evasive."))

	assert.True(t, h.engine.Effects().HasKeyword(sneak, ability.Evasive))
	h.do(PassTurn(alice))
	assert.False(t, h.engine.Effects().HasKeyword(sneak, ability.Evasive))
}

func TestStaticBuffLeavesWithSource(t *testing.T) {
	h := newHarness(t)
	captain := h.inPlay(alice, character("Captain", 3, 2, 2, 1, "Your other characters get +1 {S}."))
	crew := h.inPlay(alice, character("Crew", 2, 1, 3, 1))

	assert.Equal(t, 2, h.engine.Effects().ModifiedStat(crew, ability.StatStrength))
	assert.Equal(t, 2, h.engine.Effects().ModifiedStat(captain, ability.StatStrength))

	captain.Damage = 2
	h.engine.checkLethal()
	assert.Equal(t, 1, h.engine.Effects().ModifiedStat(crew, ability.StatStrength))
}
