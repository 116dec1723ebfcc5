package game

import (
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

// Validate checks an action against the rules without changing anything.
func (e *Engine) Validate(action Action) rules.LegalityResult {
	if e.game.GameOver() {
		return rules.Illegal(rules.ReasonGameOver, "game is over, %s won", e.game.Winner)
	}
	if !e.game.HasPlayer(action.PlayerID) {
		return rules.Illegal(rules.ReasonUnknownPlayer, "player %s not found", action.PlayerID)
	}
	if e.game.ActivePlayer() != action.PlayerID {
		return rules.Illegal(rules.ReasonNotYourTurn, "it is %s's turn", e.game.ActivePlayer())
	}
	if step := e.game.Turns.CurrentStep(); step != rules.StepMain {
		return rules.Illegal(rules.ReasonWrongPhase, "actions are only legal in the main phase, now %s", step)
	}

	switch action.Type {
	case ActionInkCard:
		return e.validateInk(action)
	case ActionPlayCard:
		return e.validatePlay(action)
	case ActionQuest:
		return e.validateQuest(action)
	case ActionChallenge:
		return e.validateChallenge(action)
	case ActionUseAbility:
		return e.validateAbility(action)
	case ActionMove:
		return e.validateMove(action)
	case ActionPassTurn:
		return e.validatePass(action)
	}
	return rules.Illegal(rules.ReasonUnknownAction, "unknown action %q", action.Type)
}

// ownCard checks that id is a card of player in zone.
func (e *Engine) ownCard(id, player string, zone state.Zone) (*state.Card, rules.LegalityResult) {
	c, ok := e.game.Card(id)
	if !ok {
		return nil, rules.Illegal(rules.ReasonUnknownCard, "card %s not found", id).With("card_id", id)
	}
	if c.Owner != player {
		return nil, rules.Illegal(rules.ReasonNotOwner, "%s does not belong to %s", c.FullName(), player).With("card_id", id)
	}
	if c.Zone != zone {
		return nil, rules.Illegal(rules.ReasonWrongZone, "%s is in %s, not %s", c.FullName(), c.Zone, zone).With("card_id", id)
	}
	return c, rules.Legal()
}

func (e *Engine) validateInk(action Action) rules.LegalityResult {
	c, res := e.ownCard(action.CardID, action.PlayerID, state.ZoneHand)
	if !res.Legal {
		return res
	}
	p, _ := e.game.Player(action.PlayerID)
	if p.InkedThisTurn {
		return rules.Illegal(rules.ReasonAlreadyInked, "already put a card into the inkwell this turn")
	}
	if !c.Def.Inkable {
		return rules.Illegal(rules.ReasonNotInkable, "%s is not inkable", c.FullName()).With("card_id", c.ID)
	}
	return rules.Legal()
}

func (e *Engine) validatePlay(action Action) rules.LegalityResult {
	c, res := e.ownCard(action.CardID, action.PlayerID, state.ZoneHand)
	if !res.Legal {
		return res
	}
	p, _ := e.game.Player(action.PlayerID)

	switch action.Mode {
	case PlayWithInk:
		if cost := e.effects.ModifiedCost(c, p.ID); cost > p.ReadyInk() {
			return rules.Illegal(rules.ReasonInsufficientInk, "%s costs %d, %d ink ready", c.FullName(), cost, p.ReadyInk()).
				With("card_id", c.ID)
		}
		return rules.Legal()
	case PlayShift:
		return e.validateShift(c, p, action.TargetID)
	case PlaySing:
		return e.validateSing(c, p, action.Singers)
	}
	return rules.Illegal(rules.ReasonUnknownAction, "unknown play mode %q", action.Mode)
}

// shiftCost is the printed Shift value less whatever the card's cost is
// currently reduced by.
func (e *Engine) shiftCost(c *state.Card, payer string) (int, bool) {
	value, ok := e.effects.KeywordValue(c, ability.Shift)
	if !ok {
		return 0, false
	}
	discount := c.BaseCost - e.effects.ModifiedCost(c, payer)
	if cost := value - discount; cost > 0 {
		return cost, true
	}
	return 0, true
}

func (e *Engine) validateShift(c *state.Card, p *state.Player, ontoID string) rules.LegalityResult {
	if !c.IsCharacter() {
		return rules.Illegal(rules.ReasonWrongCardType, "only characters can shift")
	}
	cost, ok := e.shiftCost(c, p.ID)
	if !ok {
		return rules.Illegal(rules.ReasonNoShift, "%s has no Shift", c.FullName()).With("card_id", c.ID)
	}
	base, res := e.ownCard(ontoID, p.ID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	if !base.IsCharacter() || !strings.EqualFold(base.Name(), c.Name()) {
		return rules.Illegal(rules.ReasonShiftName, "%s cannot shift onto %s", c.FullName(), base.FullName()).
			With("target_id", base.ID)
	}
	if cost > p.ReadyInk() {
		return rules.Illegal(rules.ReasonInsufficientInk, "shift costs %d, %d ink ready", cost, p.ReadyInk())
	}
	return rules.Legal()
}

// singValue is how much a character counts for when singing songs.
func (e *Engine) singValue(c *state.Card) int {
	if v, ok := e.effects.KeywordValue(c, ability.Singer); ok && v > c.BaseCost {
		return v
	}
	return c.BaseCost
}

func (e *Engine) validateSing(song *state.Card, p *state.Player, singers []string) rules.LegalityResult {
	if !song.IsSong() {
		return rules.Illegal(rules.ReasonNotSong, "%s is not a song", song.FullName()).With("card_id", song.ID)
	}
	if len(singers) == 0 {
		return rules.Illegal(rules.ReasonInvalidTarget, "no singer chosen")
	}
	together, canTogether := e.effects.KeywordValue(song, ability.SingTogether)
	if len(singers) > 1 && !canTogether {
		return rules.Illegal(rules.ReasonSingerTooWeak, "%s cannot be sung together", song.FullName())
	}

	total := 0
	seen := make(map[string]bool, len(singers))
	for _, id := range singers {
		if seen[id] {
			return rules.Illegal(rules.ReasonInvalidTarget, "singer %s listed twice", id)
		}
		seen[id] = true
		singer, res := e.ownCard(id, p.ID, state.ZonePlay)
		if !res.Legal {
			return res
		}
		if !singer.IsCharacter() {
			return rules.Illegal(rules.ReasonWrongCardType, "%s cannot sing", singer.FullName())
		}
		if singer.Exerted {
			return rules.Illegal(rules.ReasonExerted, "%s is exerted", singer.FullName()).With("card_id", id)
		}
		if singer.Drying {
			return rules.Illegal(rules.ReasonDrying, "%s is still drying", singer.FullName()).With("card_id", id)
		}
		total += e.singValue(singer)
	}

	required := song.BaseCost
	if len(singers) > 1 {
		required = together
	}
	if total < required {
		return rules.Illegal(rules.ReasonSingerTooWeak, "singers count for %d, %s needs %d", total, song.FullName(), required)
	}
	return rules.Legal()
}

func (e *Engine) validateQuest(action Action) rules.LegalityResult {
	c, res := e.ownCard(action.CardID, action.PlayerID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	if !c.IsCharacter() {
		return rules.Illegal(rules.ReasonWrongCardType, "only characters quest")
	}
	if c.Exerted {
		return rules.Illegal(rules.ReasonExerted, "%s is exerted", c.FullName()).With("card_id", c.ID)
	}
	if c.Drying {
		return rules.Illegal(rules.ReasonDrying, "%s is still drying", c.FullName()).With("card_id", c.ID)
	}
	if e.effects.HasKeyword(c, ability.Reckless) {
		return rules.Illegal(rules.ReasonReckless, "%s is reckless and can't quest", c.FullName()).With("card_id", c.ID)
	}
	if e.effects.HasRestriction(c, ability.CantQuest) {
		return rules.Illegal(rules.ReasonRestricted, "%s can't quest", c.FullName()).With("card_id", c.ID)
	}
	if e.effects.ModifiedStat(c, ability.StatLore) <= 0 {
		return rules.Illegal(rules.ReasonNoLore, "%s has no lore", c.FullName()).With("card_id", c.ID)
	}
	return rules.Legal()
}

// canAttack checks the attacker side of a challenge.
func (e *Engine) canAttack(c *state.Card) rules.LegalityResult {
	if !c.IsCharacter() {
		return rules.Illegal(rules.ReasonWrongCardType, "only characters challenge")
	}
	if c.Exerted {
		return rules.Illegal(rules.ReasonExerted, "%s is exerted", c.FullName()).With("card_id", c.ID)
	}
	if c.Drying && !e.effects.HasKeyword(c, ability.Rush) {
		return rules.Illegal(rules.ReasonDrying, "%s is still drying", c.FullName()).With("card_id", c.ID)
	}
	if e.effects.HasRestriction(c, ability.CantChallenge) {
		return rules.Illegal(rules.ReasonRestricted, "%s can't challenge", c.FullName()).With("card_id", c.ID)
	}
	if e.effects.ModifiedStat(c, ability.StatStrength) <= 0 {
		return rules.Illegal(rules.ReasonNoStrength, "%s has no strength", c.FullName()).With("card_id", c.ID)
	}
	return rules.Legal()
}

// canBeChallenged checks one defender against an attacker, ignoring Bodyguard.
func (e *Engine) canBeChallenged(attacker, defender *state.Card) rules.LegalityResult {
	if !defender.InPlay() || defender.Owner == attacker.Owner {
		return rules.Illegal(rules.ReasonInvalidTarget, "%s is not an opposing card in play", defender.FullName())
	}
	if defender.IsLocation() {
		return rules.Legal()
	}
	if !defender.IsCharacter() {
		return rules.Illegal(rules.ReasonInvalidTarget, "%s can't be challenged", defender.FullName())
	}
	if defender.Ready() && !e.effects.HasKeyword(attacker, ability.ChallengeReady) {
		return rules.Illegal(rules.ReasonDefenderReady, "%s is ready", defender.FullName()).With("target_id", defender.ID)
	}
	if e.effects.HasKeyword(defender, ability.Evasive) && !e.effects.HasKeyword(attacker, ability.Evasive) {
		return rules.Illegal(rules.ReasonEvasive, "%s has Evasive", defender.FullName()).With("target_id", defender.ID)
	}
	if e.effects.HasRestriction(defender, ability.CantBeChallenged) {
		return rules.Illegal(rules.ReasonRestricted, "%s can't be challenged", defender.FullName()).With("target_id", defender.ID)
	}
	return rules.Legal()
}

// challengeTargets lists every card attacker may legally challenge.
func (e *Engine) challengeTargets(attacker *state.Card) []*state.Card {
	var open, guards []*state.Card
	for _, opp := range e.game.Opponents(attacker.Owner) {
		for _, c := range opp.Play {
			if !e.canBeChallenged(attacker, c).Legal {
				continue
			}
			open = append(open, c)
			if c.IsCharacter() && e.effects.HasKeyword(c, ability.Bodyguard) {
				guards = append(guards, c)
			}
		}
	}
	if len(guards) == 0 {
		return open
	}
	out := guards
	for _, c := range open {
		if c.IsLocation() {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) validateChallenge(action Action) rules.LegalityResult {
	attacker, res := e.ownCard(action.CardID, action.PlayerID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	if res := e.canAttack(attacker); !res.Legal {
		return res
	}
	defender, ok := e.game.Card(action.TargetID)
	if !ok {
		return rules.Illegal(rules.ReasonUnknownCard, "card %s not found", action.TargetID)
	}
	if res := e.canBeChallenged(attacker, defender); !res.Legal {
		return res
	}
	if defender.IsCharacter() && !e.effects.HasKeyword(defender, ability.Bodyguard) {
		for _, c := range e.challengeTargets(attacker) {
			if c.IsCharacter() && e.effects.HasKeyword(c, ability.Bodyguard) {
				return rules.Illegal(rules.ReasonBodyguard, "%s must be challenged first", c.FullName()).With("target_id", c.ID)
			}
		}
	}
	return rules.Legal()
}

func (e *Engine) validateAbility(action Action) rules.LegalityResult {
	c, res := e.ownCard(action.CardID, action.PlayerID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	def, ok := c.Ability(action.AbilityID)
	if !ok || def.Kind != ability.KindActivated {
		return rules.Illegal(rules.ReasonNoAbility, "%s has no activated ability %s", c.FullName(), action.AbilityID).
			With("card_id", c.ID)
	}
	cost := def.Cost
	if cost == nil {
		return rules.Legal()
	}
	if cost.Exert {
		if c.Exerted {
			return rules.Illegal(rules.ReasonExerted, "%s is exerted", c.FullName()).With("card_id", c.ID)
		}
		if c.IsCharacter() && c.Drying {
			return rules.Illegal(rules.ReasonDrying, "%s is still drying", c.FullName()).With("card_id", c.ID)
		}
	}
	p, _ := e.game.Player(action.PlayerID)
	if cost.Ink > p.ReadyInk() {
		return rules.Illegal(rules.ReasonInsufficientInk, "ability costs %d, %d ink ready", cost.Ink, p.ReadyInk())
	}
	return rules.Legal()
}

func (e *Engine) validateMove(action Action) rules.LegalityResult {
	mover, res := e.ownCard(action.CardID, action.PlayerID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	if !mover.IsCharacter() {
		return rules.Illegal(rules.ReasonWrongCardType, "only characters move")
	}
	location, res := e.ownCard(action.TargetID, action.PlayerID, state.ZonePlay)
	if !res.Legal {
		return res
	}
	if !location.IsLocation() {
		return rules.Illegal(rules.ReasonWrongCardType, "%s is not a location", location.FullName())
	}
	if at, ok := mover.Markers.Location(); ok && at == location.ID {
		return rules.Illegal(rules.ReasonAlreadyAtLocation, "%s is already at %s", mover.FullName(), location.FullName())
	}
	p, _ := e.game.Player(action.PlayerID)
	if cost := e.effects.ModifiedMoveCost(mover, location); cost > p.ReadyInk() {
		return rules.Illegal(rules.ReasonInsufficientInk, "moving costs %d, %d ink ready", cost, p.ReadyInk())
	}
	return rules.Legal()
}

// validatePass blocks the turn from ending while a Reckless character could challenge.
func (e *Engine) validatePass(action Action) rules.LegalityResult {
	p, _ := e.game.Player(action.PlayerID)
	for _, c := range p.Characters() {
		if !e.effects.HasKeyword(c, ability.Reckless) || !e.canAttack(c).Legal {
			continue
		}
		if len(e.challengeTargets(c)) > 0 {
			return rules.Illegal(rules.ReasonMustChallenge, "%s is reckless and must challenge", c.FullName()).With("card_id", c.ID)
		}
	}
	return rules.Legal()
}
