package game

import (
	"fmt"
	"strings"
)

// ActionType names a main-phase action.
type ActionType string

const (
	ActionInkCard    ActionType = "INK_CARD"
	ActionPlayCard   ActionType = "PLAY_CARD"
	ActionQuest      ActionType = "QUEST"
	ActionChallenge  ActionType = "CHALLENGE"
	ActionUseAbility ActionType = "USE_ABILITY"
	ActionMove       ActionType = "MOVE"
	ActionPassTurn   ActionType = "PASS_TURN"
)

// PlayMode says how a PlayCard action is paid for.
type PlayMode string

const (
	PlayWithInk PlayMode = ""
	// PlayShift stacks the card onto a same-named character (Action.TargetID).
	PlayShift PlayMode = "shift"
	// PlaySing exerts Action.Singers instead of paying ink. More than one
	// singer requires Sing Together.
	PlaySing PlayMode = "sing"
)

// Action is one player decision submitted to the engine.
//
// CardID is the card acting: the card inked or played, the quester, the
// challenger, the ability source or the mover. TargetID is the challenged
// card, the Shift base or the destination location.
type Action struct {
	Type      ActionType `json:"type"`
	PlayerID  string     `json:"playerId"`
	CardID    string     `json:"cardId,omitempty"`
	TargetID  string     `json:"targetId,omitempty"`
	AbilityID string     `json:"abilityId,omitempty"`
	Mode      PlayMode   `json:"mode,omitempty"`
	Singers   []string   `json:"singers,omitempty"`
}

func (a Action) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s", a.Type, a.PlayerID)
	if a.CardID != "" {
		fmt.Fprintf(&b, " card=%s", a.CardID)
	}
	if a.Mode != PlayWithInk {
		fmt.Fprintf(&b, " mode=%s", a.Mode)
	}
	if a.TargetID != "" {
		fmt.Fprintf(&b, " target=%s", a.TargetID)
	}
	if len(a.Singers) > 0 {
		fmt.Fprintf(&b, " singers=%s", strings.Join(a.Singers, ","))
	}
	if a.AbilityID != "" {
		fmt.Fprintf(&b, " ability=%s", a.AbilityID)
	}
	b.WriteString(")")
	return b.String()
}

// Ink puts a card from hand into the inkwell.
func Ink(playerID, cardID string) Action {
	return Action{Type: ActionInkCard, PlayerID: playerID, CardID: cardID}
}

// Play plays a card from hand paying ink.
func Play(playerID, cardID string) Action {
	return Action{Type: ActionPlayCard, PlayerID: playerID, CardID: cardID}
}

// PlayViaShift plays cardID on top of ontoID.
func PlayViaShift(playerID, cardID, ontoID string) Action {
	return Action{Type: ActionPlayCard, PlayerID: playerID, CardID: cardID, Mode: PlayShift, TargetID: ontoID}
}

// Sing plays a song by exerting one or more singers.
func Sing(playerID, songID string, singers ...string) Action {
	return Action{Type: ActionPlayCard, PlayerID: playerID, CardID: songID, Mode: PlaySing, Singers: singers}
}

// Quest sends a character on a quest.
func Quest(playerID, cardID string) Action {
	return Action{Type: ActionQuest, PlayerID: playerID, CardID: cardID}
}

// Challenge has attackerID challenge defenderID.
func Challenge(playerID, attackerID, defenderID string) Action {
	return Action{Type: ActionChallenge, PlayerID: playerID, CardID: attackerID, TargetID: defenderID}
}

// UseAbility activates an ability of a card in play.
func UseAbility(playerID, cardID, abilityID string) Action {
	return Action{Type: ActionUseAbility, PlayerID: playerID, CardID: cardID, AbilityID: abilityID}
}

// Move moves a character to a location.
func Move(playerID, characterID, locationID string) Action {
	return Action{Type: ActionMove, PlayerID: playerID, CardID: characterID, TargetID: locationID}
}

// PassTurn ends the main phase.
func PassTurn(playerID string) Action {
	return Action{Type: ActionPassTurn, PlayerID: playerID}
}
