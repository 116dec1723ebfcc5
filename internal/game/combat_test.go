package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

func TestChallengeDealsDamageBothWays(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Attacker", 3, 3, 4, 1))
	defender := h.exerted(bob, character("Defender", 2, 2, 3, 1))

	h.do(Challenge(alice, attacker.ID, defender.ID))

	assert.Equal(t, state.ZoneDiscard, defender.Zone)
	assert.Equal(t, 0, defender.Damage, "banished cards lose their damage")
	assert.Equal(t, 2, attacker.Damage)
	assert.True(t, attacker.Exerted)
	assert.True(t, attacker.InPlay())

	banished := h.eventsOf(rules.EventBanished)
	require.Len(t, banished, 1)
	assert.Equal(t, defender.ID, banished[0].TargetID)
	assert.Equal(t, attacker.ID, banished[0].SourceID)
	assert.True(t, banished[0].Flag, "banished in a challenge")
	assert.Equal(t, 1, h.engine.Stats(alice).Challenges)
	assertConserved(t, h.engine.Game())
}

func TestChallengeBanishesBoth(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Glass Cannon", 2, 3, 2, 1))
	defender := h.exerted(bob, character("Brute", 2, 3, 3, 1))

	h.do(Challenge(alice, attacker.ID, defender.ID))
	assert.Equal(t, state.ZoneDiscard, attacker.Zone)
	assert.Equal(t, state.ZoneDiscard, defender.Zone)
	assert.Len(t, h.eventsOf(rules.EventBanished), 2)
}

func TestChallengeResistAndChallenger(t *testing.T) {
	h := newHarness(t)
	weak := h.inPlay(alice, character("Weakling", 1, 2, 5, 1))
	tough := h.exerted(bob, character("Tough", 3, 0, 3, 1, "Resist +2"))

	h.do(Challenge(alice, weak.ID, tough.ID))
	assert.Equal(t, 0, tough.Damage, "resist never goes below zero")
	assert.True(t, tough.InPlay())

	bruiser := h.inPlay(alice, character("Bruiser", 2, 1, 3, 1, "Challenger +2"))
	victim := h.exerted(bob, character("Victim", 2, 1, 3, 1))
	h.do(Challenge(alice, bruiser.ID, victim.ID))
	assert.Equal(t, state.ZoneDiscard, victim.Zone)
	assert.Equal(t, 1, bruiser.Damage)
}

func TestChallengeRules(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Attacker", 3, 3, 4, 1))
	ready := h.inPlay(bob, character("Ready", 2, 1, 3, 1))
	flyer := h.exerted(bob, character("Flyer", 2, 1, 3, 1, "Evasive"))
	friend := h.exerted(alice, character("Friend", 2, 1, 3, 1))

	h.reject(Challenge(alice, attacker.ID, ready.ID), rules.ReasonDefenderReady)
	h.reject(Challenge(alice, attacker.ID, flyer.ID), rules.ReasonEvasive)
	h.reject(Challenge(alice, attacker.ID, friend.ID), rules.ReasonInvalidTarget)
	h.reject(Challenge(alice, friend.ID, flyer.ID), rules.ReasonExerted)

	wings := h.inPlay(alice, character("Wings", 2, 2, 3, 1, "Evasive"))
	h.do(Challenge(alice, wings.ID, flyer.ID))
	assert.Equal(t, 2, flyer.Damage)
}

func TestDryingCharacterNeedsRushToChallenge(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 4)
	slow := h.inHand(alice, character("Slowpoke", 2, 2, 3, 1))
	quick := h.inHand(alice, character("Speedy", 2, 2, 3, 1, "Rush"))
	target := h.exerted(bob, character("Target", 1, 1, 5, 1))

	h.do(Play(alice, slow.ID))
	h.do(Play(alice, quick.ID))
	h.reject(Challenge(alice, slow.ID, target.ID), rules.ReasonDrying)
	h.do(Challenge(alice, quick.ID, target.ID))
	assert.Equal(t, 2, target.Damage)
}

func TestBodyguardMustBeChallengedFirst(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Attacker", 3, 5, 5, 1))
	guard := h.exerted(bob, character("Guard", 2, 1, 2, 1, "Bodyguard"))
	bystander := h.exerted(bob, character("Bystander", 2, 1, 2, 1))
	keep := h.inPlay(bob, location("Keep", 2, 4, 1, 1))

	h.reject(Challenge(alice, attacker.ID, bystander.ID), rules.ReasonBodyguard)
	assert.True(t, h.engine.Validate(Challenge(alice, attacker.ID, keep.ID)).Legal, "locations ignore Bodyguard")

	h.do(Challenge(alice, attacker.ID, guard.ID))
	assert.Equal(t, state.ZoneDiscard, guard.Zone)

	other := h.inPlay(alice, character("Other", 2, 2, 3, 1))
	h.do(Challenge(alice, other.ID, bystander.ID))
	assert.Equal(t, state.ZoneDiscard, bystander.Zone)
}

func TestBodyguardMayEnterExerted(t *testing.T) {
	h := newHarness(t)
	h.giveInk(alice, 4)
	first := h.inHand(alice, character("Loyal Guard", 2, 1, 3, 1, "Bodyguard"))
	second := h.inHand(alice, character("Lazy Guard", 2, 1, 3, 1, "Bodyguard"))

	h.do(Play(alice, first.ID))
	assert.True(t, first.Exerted)
	require.Len(t, h.requestsOf(choice.KindMay), 1)

	h.answers[alice] = func(req choice.Request) choice.Response { return choice.Decline(req) }
	h.do(Play(alice, second.ID))
	assert.False(t, second.Exerted)
}

func TestRecklessMustChallenge(t *testing.T) {
	h := newHarness(t)
	hothead := h.inPlay(alice, character("Hothead", 2, 2, 3, 2, "Reckless"))
	target := h.exerted(bob, character("Target", 1, 1, 5, 1))

	h.reject(Quest(alice, hothead.ID), rules.ReasonReckless)
	h.reject(PassTurn(alice), rules.ReasonMustChallenge)
	assert.NotContains(t, h.engine.LegalActions(alice), PassTurn(alice))

	h.do(Challenge(alice, hothead.ID, target.ID))
	h.do(PassTurn(alice))
	assert.Equal(t, bob, h.engine.Game().ActivePlayer())
}

func TestRecklessMayPassWithoutTargets(t *testing.T) {
	h := newHarness(t)
	h.inPlay(alice, character("Hothead", 2, 2, 3, 2, "Reckless"))
	h.inPlay(bob, character("Ready Target", 1, 1, 5, 1))

	h.do(PassTurn(alice))
}

func TestChallengeLocation(t *testing.T) {
	h := newHarness(t)
	camper := h.inPlay(bob, character("Camper", 2, 1, 3, 1))
	fort := h.inPlay(bob, location("Fort", 2, 2, 1, 1))
	camper.Markers.Set(state.LocationMarker{LocationID: fort.ID})
	raider := h.inPlay(alice, character("Raider", 3, 3, 3, 1))

	h.do(Challenge(alice, raider.ID, fort.ID))
	assert.Equal(t, state.ZoneDiscard, fort.Zone)
	assert.Equal(t, 0, raider.Damage, "locations deal no damage")
	_, at := camper.Markers.Location()
	assert.False(t, at, "characters leave a banished location")
}

func TestChallengeTriggersResolveBeforeDamage(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Duelist", 2, 1, 3, 1,
		"Whenever this character challenges another character, this character gets +2 {S} this turn."))
	defender := h.exerted(bob, character("Defender", 2, 0, 3, 1))

	h.do(Challenge(alice, attacker.ID, defender.ID))
	assert.Equal(t, state.ZoneDiscard, defender.Zone)
	assert.Len(t, h.eventsOf(rules.EventAbilityResolved), 1)
}

func TestBanishedInChallengeTrigger(t *testing.T) {
	h := newHarness(t)
	attacker := h.inPlay(alice, character("Attacker", 3, 3, 4, 1))
	h.exerted(bob, character("Martyr", 2, 1, 1, 1,
		"When this character is banished in a challenge, each opponent loses 1 lore."))
	h.player(alice).Lore = 3

	defender := h.player(bob).Play[0]
	h.do(Challenge(alice, attacker.ID, defender.ID))
	assert.Equal(t, 2, h.player(alice).Lore)
}
