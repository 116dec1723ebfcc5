// Package ability defines the structured form of printed card abilities.
//
// Definitions are produced by the compiler, attached to card instances and
// never mutated afterwards. The engine resolves triggered and activated
// definitions; the effects package reads static and keyword definitions.
package ability

import (
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
)

// Kind classifies a definition.
type Kind string

const (
	KindTriggered Kind = "triggered"
	KindStatic    Kind = "static"
	KindActivated Kind = "activated"
	KindKeyword   Kind = "keyword"
	// KindAction is the resolution text of an action or song card.
	KindAction Kind = "action"
)

// Trigger is the event a triggered ability waits for.
type Trigger string

const (
	TriggerOnPlay                Trigger = "on_play"
	TriggerOnQuest               Trigger = "on_quest"
	TriggerOnChallenge           Trigger = "on_challenge"
	TriggerOnChallenged          Trigger = "on_challenged"
	TriggerOnBanished            Trigger = "on_banished"
	TriggerOnBanishedInChallenge Trigger = "on_banished_in_challenge"
	TriggerOnBanishInChallenge   Trigger = "on_banish_in_challenge"
	TriggerStartOfTurn           Trigger = "start_of_turn"
	TriggerEndOfTurn             Trigger = "end_of_turn"
	TriggerOnSongPlayed          Trigger = "on_song_played"
	TriggerOnCharacterPlayed     Trigger = "on_character_played"
	TriggerOnMove                Trigger = "on_move"
)

// Keyword is a printed keyword.
type Keyword string

const (
	Bodyguard    Keyword = "Bodyguard"
	Challenger   Keyword = "Challenger"
	Evasive      Keyword = "Evasive"
	Reckless     Keyword = "Reckless"
	Resist       Keyword = "Resist"
	Rush         Keyword = "Rush"
	Shift        Keyword = "Shift"
	Singer       Keyword = "Singer"
	SingTogether Keyword = "Sing Together"
	Support      Keyword = "Support"
	Ward         Keyword = "Ward"

	// ChallengeReady is never printed as a keyword; it carries
	// "this character can challenge ready characters".
	ChallengeReady Keyword = "Challenge Ready"
)

var keywordsByName = map[string]Keyword{
	"bodyguard":       Bodyguard,
	"challenger":      Challenger,
	"evasive":         Evasive,
	"reckless":        Reckless,
	"resist":          Resist,
	"rush":            Rush,
	"shift":           Shift,
	"singer":          Singer,
	"sing together":   SingTogether,
	"support":         Support,
	"ward":            Ward,
	"challenge ready": ChallengeReady,
}

// ParseKeyword maps a printed keyword name to a Keyword.
func ParseKeyword(name string) (Keyword, bool) {
	kw, ok := keywordsByName[strings.ToLower(strings.TrimSpace(name))]
	return kw, ok
}

// Valued reports whether the keyword carries a number (Resist +2, Shift 5).
func (k Keyword) Valued() bool {
	switch k {
	case Challenger, Resist, Shift, Singer, SingTogether:
		return true
	}
	return false
}

// Stat is a numeric card characteristic.
type Stat string

const (
	StatStrength  Stat = "strength"
	StatWillpower Stat = "willpower"
	StatLore      Stat = "lore"
)

// EffectType tags the effect node variant.
type EffectType string

const (
	EffectDamage        EffectType = "damage"
	EffectDraw          EffectType = "draw"
	EffectModifyStat    EffectType = "modify_stat"
	EffectSetStat       EffectType = "set_stat"
	EffectGrantKeyword  EffectType = "grant_keyword"
	EffectMoveZone      EffectType = "move_zone"
	EffectGainLore      EffectType = "gain_lore"
	EffectLoseLore      EffectType = "lose_lore"
	EffectExert         EffectType = "exert"
	EffectReady         EffectType = "ready"
	EffectHeal          EffectType = "heal"
	EffectDiscard       EffectType = "discard"
	EffectRestrict      EffectType = "restrict"
	EffectCostReduction EffectType = "cost_reduction"
	EffectDrawBonus     EffectType = "draw_bonus"

	// EffectMoveCostReduction lowers the ink paid to move characters to locations.
	EffectMoveCostReduction EffectType = "move_cost_reduction"
)

// Destination is where a move-zone effect sends its targets.
type Destination string

const (
	DestinationDiscard    Destination = "discard"
	DestinationHand       Destination = "hand"
	DestinationInkwell    Destination = "inkwell"
	DestinationDeckBottom Destination = "deck_bottom"
)

// Restriction forbids something while active.
type Restriction string

const (
	CantQuest        Restriction = "cant_quest"
	CantChallenge    Restriction = "cant_challenge"
	CantReady        Restriction = "cant_ready"
	CantBeChallenged Restriction = "cant_be_challenged"
	InkwellCantReady Restriction = "inkwell_cant_ready"
)

// Duration tags how long a resolved effect lasts.
type Duration string

const (
	DurationPermanent            Duration = ""
	DurationThisTurn             Duration = "this_turn"
	DurationUntilStartOfNextTurn Duration = "until_start_of_next_turn"
	DurationDuringNextTurn       Duration = "during_next_turn"
)

// Definition is one compiled ability.
type Definition struct {
	ID           string
	CardID       string
	Kind         Kind
	Name         string
	Trigger      Trigger
	Conditions   []Condition
	Cost         *Cost
	Effects      []Effect
	Keyword      Keyword
	KeywordValue int
	Optional     bool
	Text         string
}

// Cost is the activation cost of an activated ability.
type Cost struct {
	Ink        int
	Exert      bool
	BanishSelf bool
}

// Effect is one node of an ability's ordered effect list.
type Effect struct {
	Type         EffectType
	Target       Selector
	Amount       Amount
	Stat         Stat
	Keyword      Keyword
	KeywordValue int
	Destination  Destination
	Restriction  Restriction
	Duration     Duration
	Optional     bool
	// CardType narrows cost reductions ("the next character you play").
	CardType catalog.CardType
	// OneShot effects are consumed by the first card they apply to.
	OneShot bool
}

// AmountKind says how an amount is computed.
type AmountKind string

const (
	AmountLiteral            AmountKind = "literal"
	AmountPerOwnCharacter    AmountKind = "per_own_character"
	AmountPerOtherCharacter  AmountKind = "per_other_own_character"
	AmountPerCardInHand      AmountKind = "per_card_in_hand"
	AmountSelfDamage         AmountKind = "self_damage"
	AmountSelfStrength       AmountKind = "self_strength"
	AmountPerOpposingDamaged AmountKind = "per_opposing_damaged"
)

// Amount is a literal number or a multiplier over a counted quantity.
type Amount struct {
	Kind  AmountKind
	Value int
}

// Literal returns a fixed amount.
func Literal(n int) Amount {
	return Amount{Kind: AmountLiteral, Value: n}
}

// IsLiteral reports whether the amount needs no board evaluation.
func (a Amount) IsLiteral() bool {
	return a.Kind == "" || a.Kind == AmountLiteral
}

// ConditionKind names a condition evaluated against the board.
type ConditionKind string

const (
	ConditionPlayedViaShift     ConditionKind = "played_via_shift"
	ConditionSelfDamaged        ConditionKind = "self_damaged"
	ConditionSelfUndamaged      ConditionKind = "self_undamaged"
	ConditionSelfExerted        ConditionKind = "self_exerted"
	ConditionYourTurn           ConditionKind = "your_turn"
	ConditionControlsNamed      ConditionKind = "controls_named"
	ConditionControlsOtherNamed ConditionKind = "controls_other_named"
	ConditionHandAtLeast        ConditionKind = "hand_at_least"
	ConditionAtLocation         ConditionKind = "at_location"
	ConditionSongPlayedThisTurn ConditionKind = "song_played_this_turn"
	ConditionCharactersAtLeast  ConditionKind = "characters_at_least"
)

// Condition gates a triggered or static ability.
type Condition struct {
	Kind  ConditionKind
	Value int
	Name  string
}
