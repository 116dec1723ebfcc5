package compiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
}

// number parses a digit string or a small number word. It returns 0 when
// the token is empty or unknown.
func number(s string) int {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if n, ok := numberWords[s]; ok {
		return n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func signed(s string) int {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return -number(s[1:])
	}
	return number(s)
}

var (
	upToPrefix  = regexp.MustCompile(`^up to (\d+|two|three|four) (.+)$`)
	targetNoun  = regexp.MustCompile(`^(?:([a-z']+) )?(character|item|location|card)s?\b`)
	strengthMax = regexp.MustCompile(`^ with (\d+) \{s\} or less`)
	costMax     = regexp.MustCompile(`^ with cost (\d+) or less`)
	namedSuffix = regexp.MustCompile(`^ named ([a-z0-9' .-]+)`)
)

var cardTypes = map[string]catalog.CardType{
	"character": catalog.TypeCharacter,
	"item":      catalog.TypeItem,
	"location":  catalog.TypeLocation,
	"action":    catalog.TypeAction,
	"song":      catalog.TypeAction,
}

// parseTarget turns a noun phrase such as "chosen opposing character with
// cost 3 or less" into a selector.
func parseTarget(phrase string) (ability.Selector, bool) {
	p := strings.TrimSpace(phrase)
	switch p {
	case "this character", "this item", "this location", "this card":
		return ability.Self(), true
	case "you":
		return ability.Controller(), true
	case "each opponent", "each of your opponents", "your opponents":
		return ability.Selector{Scope: ability.ScopeOpponents}, true
	case "each player":
		return ability.Selector{Scope: ability.ScopeEachPlayer}, true
	}

	var sel ability.Selector
	if m := upToPrefix.FindStringSubmatch(p); m != nil {
		sel.Count = number(m[1])
		sel.UpTo = true
		p = m[2]
	}

	fromZone := false
	switch {
	case strings.HasPrefix(p, "another chosen "):
		sel.Scope, sel.ExcludeSelf = ability.ScopeChosen, true
		p = strings.TrimPrefix(p, "another chosen ")
	case strings.HasPrefix(p, "chosen "):
		sel.Scope = ability.ScopeChosen
		p = strings.TrimPrefix(p, "chosen ")
	case strings.HasPrefix(p, "each of your other "), strings.HasPrefix(p, "your other "):
		sel.Scope, sel.Owner, sel.ExcludeSelf = ability.ScopeAll, ability.OwnerYou, true
		p = strings.TrimPrefix(strings.TrimPrefix(p, "each of "), "your other ")
	case strings.HasPrefix(p, "each of your "), strings.HasPrefix(p, "all of your "), strings.HasPrefix(p, "your "):
		sel.Scope, sel.Owner = ability.ScopeAll, ability.OwnerYou
		p = p[strings.Index(p, "your ")+len("your "):]
	case strings.HasPrefix(p, "each "), strings.HasPrefix(p, "all "):
		sel.Scope = ability.ScopeAll
		p = p[strings.Index(p, " ")+1:]
	case strings.HasPrefix(p, "a "), strings.HasPrefix(p, "an "):
		sel.Scope = ability.ScopeChosen
		p = p[strings.Index(p, " ")+1:]
		fromZone = true
	default:
		return ability.Selector{}, false
	}

	for {
		switch {
		case strings.HasPrefix(p, "opposing "):
			sel.Owner = ability.OwnerOpponent
			p = strings.TrimPrefix(p, "opposing ")
			continue
		case strings.HasPrefix(p, "damaged "):
			sel.Filter.Damaged = true
			p = strings.TrimPrefix(p, "damaged ")
			continue
		case strings.HasPrefix(p, "exerted "):
			sel.Filter.Exerted = true
			p = strings.TrimPrefix(p, "exerted ")
			continue
		case strings.HasPrefix(p, "other "):
			sel.ExcludeSelf = true
			p = strings.TrimPrefix(p, "other ")
			continue
		}
		break
	}

	m := targetNoun.FindStringSubmatch(p)
	if m == nil {
		return ability.Selector{}, false
	}
	qualifier, noun := m[1], m[2]
	if noun == "card" {
		if t, ok := cardTypes[qualifier]; ok {
			sel.CardType = t
			if qualifier == "song" {
				sel.Filter.Subtype = "Song"
			}
		} else if qualifier != "" {
			return ability.Selector{}, false
		}
	} else {
		sel.CardType = cardTypes[noun]
		if qualifier != "" {
			sel.Filter.Subtype = qualifier
		}
	}
	rest := p[len(m[0]):]

	for rest != "" {
		switch {
		case strings.HasPrefix(rest, " of yours"):
			sel.Owner = ability.OwnerYou
			rest = strings.TrimPrefix(rest, " of yours")
		case strings.HasPrefix(rest, " at a location"):
			sel.Filter.AtLocation = true
			rest = strings.TrimPrefix(rest, " at a location")
		case strings.HasPrefix(rest, " in play"):
			rest = strings.TrimPrefix(rest, " in play")
		case strings.HasPrefix(rest, " from your discard"):
			sel.Zone, sel.Owner = ability.ZoneDiscard, ability.OwnerYou
			rest = strings.TrimPrefix(rest, " from your discard")
		case strengthMax.MatchString(rest):
			sm := strengthMax.FindStringSubmatch(rest)
			sel.Filter.StrengthAtMost = number(sm[1])
			rest = rest[len(sm[0]):]
		case costMax.MatchString(rest):
			cm := costMax.FindStringSubmatch(rest)
			sel.Filter.CostAtMost = number(cm[1])
			rest = rest[len(cm[0]):]
		case namedSuffix.MatchString(rest):
			nm := namedSuffix.FindStringSubmatch(rest)
			sel.Filter.Name = strings.TrimSpace(nm[1])
			rest = rest[len(nm[0]):]
		default:
			return ability.Selector{}, false
		}
	}

	if fromZone != (sel.Zone != ability.ZonePlay) {
		return ability.Selector{}, false
	}
	if noun == "card" && sel.Zone == ability.ZonePlay {
		return ability.Selector{}, false
	}
	return sel, true
}

var pronouns = map[string]bool{
	"he": true, "she": true, "it": true, "they": true,
	"him": true, "her": true, "them": true,
}

var conditionPhrases = []struct {
	re    *regexp.Regexp
	build func(m []string) ability.Condition
}{
	{regexp.MustCompile(`^you used shift to play (?:him|her|them|it|this character)$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionPlayedViaShift}
	}},
	{regexp.MustCompile(`^this character has no damage$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionSelfUndamaged}
	}},
	{regexp.MustCompile(`^this character (?:has damage|is damaged)$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionSelfDamaged}
	}},
	{regexp.MustCompile(`^this character is exerted$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionSelfExerted}
	}},
	{regexp.MustCompile(`^it's your turn$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionYourTurn}
	}},
	{regexp.MustCompile(`^you have another character named (.+) in play$`), func(m []string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionControlsOtherNamed, Name: m[1]}
	}},
	{regexp.MustCompile(`^you have a character named (.+) in play$`), func(m []string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionControlsNamed, Name: m[1]}
	}},
	{regexp.MustCompile(`^you have (\d+) or more cards in your hand$`), func(m []string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionHandAtLeast, Value: number(m[1])}
	}},
	{regexp.MustCompile(`^this character is at a location$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionAtLocation}
	}},
	{regexp.MustCompile(`^you've played a song this turn$`), func([]string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionSongPlayedThisTurn}
	}},
	{regexp.MustCompile(`^you have (\d+) or more (?:other )?characters in play$`), func(m []string) ability.Condition {
		return ability.Condition{Kind: ability.ConditionCharactersAtLeast, Value: number(m[1])}
	}},
}

// parseCondition maps an "if"/"while" phrase to a condition.
func parseCondition(phrase string) (ability.Condition, bool) {
	phrase = strings.TrimSpace(phrase)
	for _, c := range conditionPhrases {
		if m := c.re.FindStringSubmatch(phrase); m != nil {
			return c.build(m), true
		}
	}
	return ability.Condition{}, false
}

var triggerPhrases = map[string]ability.Trigger{
	"you play this character":                                  ability.TriggerOnPlay,
	"you play this item":                                       ability.TriggerOnPlay,
	"you play this location":                                   ability.TriggerOnPlay,
	"this character quests":                                    ability.TriggerOnQuest,
	"this character challenges":                                ability.TriggerOnChallenge,
	"this character challenges another character":              ability.TriggerOnChallenge,
	"this character is challenged":                             ability.TriggerOnChallenged,
	"this character is banished":                               ability.TriggerOnBanished,
	"this character is banished in a challenge":                ability.TriggerOnBanishedInChallenge,
	"this character banishes another character in a challenge": ability.TriggerOnBanishInChallenge,
	"you play a song":                                          ability.TriggerOnSongPlayed,
	"you play a character":                                     ability.TriggerOnCharacterPlayed,
	"you play another character":                               ability.TriggerOnCharacterPlayed,
	"this character moves to a location":                       ability.TriggerOnMove,
	"the start of your turn":                                   ability.TriggerStartOfTurn,
	"the end of your turn":                                     ability.TriggerEndOfTurn,
}
