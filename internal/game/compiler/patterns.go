package compiler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// pattern recognizes one shape of printed ability. A handler that returns
// false rejects the match and the next pattern is tried.
type pattern struct {
	name        string
	specificity int
	re          *regexp.Regexp
	example     string
	handle      func(m []string, c clause) ([]ability.Definition, bool)
}

// table is a list of patterns ordered by descending specificity.
type table []pattern

func newTable(ps ...pattern) table {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].specificity > ps[j].specificity })
	return table(ps)
}

// match returns the definitions of the first pattern accepting text.
func (t table) match(text string, c clause) ([]ability.Definition, string, bool) {
	for _, p := range t {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if defs, ok := p.handle(m, c); ok {
			return defs, p.name, true
		}
	}
	return nil, "", false
}

func keyword(kw ability.Keyword, value int) []ability.Definition {
	return []ability.Definition{{Kind: ability.KindKeyword, Keyword: kw, KeywordValue: value}}
}

var keywordTable = newTable(
	pattern{
		name:        "shift",
		specificity: 20,
		re:          regexp.MustCompile(`^shift (\d+)(?: \{i\})?\.?$`),
		example:     "Shift 5 {I} (You may pay 5 {I} to play this on top of one of your characters named Stitch.)",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			return keyword(ability.Shift, number(m[1])), true
		},
	},
	pattern{
		name:        "plus-keyword",
		specificity: 20,
		re:          regexp.MustCompile(`^(challenger|resist) \+(\d+)\.?$`),
		example:     "Resist +1 (Damage dealt to this character is reduced by 1.)",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			kw, ok := ability.ParseKeyword(m[1])
			return keyword(kw, number(m[2])), ok
		},
	},
	pattern{
		name:        "singer",
		specificity: 20,
		re:          regexp.MustCompile(`^(singer|sing together) (\d+)\.?$`),
		example:     "Singer 5 (This character counts as cost 5 to sing songs.)",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			kw, ok := ability.ParseKeyword(m[1])
			return keyword(kw, number(m[2])), ok
		},
	},
	pattern{
		name:        "flag-keyword",
		specificity: 10,
		re:          regexp.MustCompile(`^(bodyguard|evasive|reckless|rush|support|ward)\.?$`),
		example:     "Evasive (Only characters with Evasive can challenge this character.)",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			kw, ok := ability.ParseKeyword(m[1])
			return keyword(kw, 0), ok
		},
	},
)

func triggered(trigger ability.Trigger, conds []ability.Condition, effectText string) ([]ability.Definition, bool) {
	effects, ok := parseEffects(effectText)
	if !ok {
		return nil, false
	}
	return []ability.Definition{{Kind: ability.KindTriggered, Trigger: trigger, Conditions: conds, Effects: effects}}, true
}

// triggerOf maps the phrase between "when"/"whenever"/"at" and the comma.
// "at" only introduces turn boundaries.
func triggerOf(word, phrase string) (ability.Trigger, bool) {
	t, ok := triggerPhrases[strings.TrimSpace(phrase)]
	if !ok {
		return "", false
	}
	turnBoundary := t == ability.TriggerStartOfTurn || t == ability.TriggerEndOfTurn
	return t, turnBoundary == (word == "at")
}

var triggeredTable = newTable(
	pattern{
		name:        "shift-play",
		specificity: 40,
		re:          regexp.MustCompile(`^when you play this character, if you used shift to play (?:him|her|them|it), (.+)$`),
		example:     "When you play this character, if you used Shift to play her, you may draw a card.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			return triggered(ability.TriggerOnPlay, []ability.Condition{{Kind: ability.ConditionPlayedViaShift}}, m[1])
		},
	},
	pattern{
		name:        "play-and-quest",
		specificity: 40,
		re:          regexp.MustCompile(`^when you play this character and whenever (?:he|she|they|it) quests, (.+)$`),
		example:     "When you play this character and whenever he quests, each opponent loses 1 lore.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			play, ok := triggered(ability.TriggerOnPlay, nil, m[1])
			if !ok {
				return nil, false
			}
			quest, _ := triggered(ability.TriggerOnQuest, nil, m[1])
			return append(play, quest...), true
		},
	},
	pattern{
		name:        "conditional-trigger",
		specificity: 30,
		re:          regexp.MustCompile(`^(when|whenever|at) ([^,]+), if ([^,]+), (.+)$`),
		example:     "At the end of your turn, if this character is exerted, you may draw a card.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			trigger, ok := triggerOf(m[1], m[2])
			if !ok {
				return nil, false
			}
			cond, ok := parseCondition(m[3])
			if !ok {
				return nil, false
			}
			return triggered(trigger, []ability.Condition{cond}, m[4])
		},
	},
	pattern{
		name:        "trigger",
		specificity: 10,
		re:          regexp.MustCompile(`^(when|whenever|at) ([^,]+), (.+)$`),
		example:     "Whenever this character quests, gain 1 lore.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			trigger, ok := triggerOf(m[1], m[2])
			if !ok {
				return nil, false
			}
			return triggered(trigger, nil, m[3])
		},
	},
)

const costPart = `(?:\{e\}|\d+ \{i\}|banish this (?:character|item|location))`

var (
	inkCost   = regexp.MustCompile(`(\d+) \{i\}`)
	costSplit = regexp.MustCompile(`\s*,\s*`)
)

func parseCost(text string) *ability.Cost {
	cost := &ability.Cost{}
	for _, part := range costSplit.Split(text, -1) {
		switch {
		case part == "{e}":
			cost.Exert = true
		case strings.HasPrefix(part, "banish this"):
			cost.BanishSelf = true
		default:
			if m := inkCost.FindStringSubmatch(part); m != nil {
				cost.Ink += number(m[1])
			}
		}
	}
	return cost
}

var activatedTable = newTable(
	pattern{
		name:        "activated",
		specificity: 10,
		re:          regexp.MustCompile(`^(` + costPart + `(?:\s*,\s*` + costPart + `)*)\s*(?:—|–|-)\s*(.+)$`),
		example:     "{E}, 2 {I} — Draw a card.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			effects, ok := parseEffects(m[2])
			if !ok {
				return nil, false
			}
			return []ability.Definition{{Kind: ability.KindActivated, Cost: parseCost(m[1]), Effects: effects}}, true
		},
	},
)

func static(conds []ability.Condition, text string) ([]ability.Definition, bool) {
	effects, ok := parseEffects(text)
	if !ok {
		return nil, false
	}
	for _, e := range effects {
		// Statics describe ongoing modifiers, not one-time actions.
		switch e.Type {
		case ability.EffectModifyStat, ability.EffectSetStat, ability.EffectGrantKeyword,
			ability.EffectRestrict, ability.EffectCostReduction, ability.EffectMoveCostReduction,
			ability.EffectDrawBonus:
		default:
			return nil, false
		}
	}
	return []ability.Definition{{Kind: ability.KindStatic, Conditions: conds, Effects: effects}}, true
}

var staticTable = newTable(
	pattern{
		name:        "during-your-turn",
		specificity: 30,
		re:          regexp.MustCompile(`^during your turn, (.+)$`),
		example:     "During your turn, this character gains Evasive.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			return static([]ability.Condition{{Kind: ability.ConditionYourTurn}}, m[1])
		},
	},
	pattern{
		name:        "conditional-static",
		specificity: 20,
		re:          regexp.MustCompile(`^(?:while|if) ([^,]+), (.+)$`),
		example:     "While this character has no damage, he gets +2 {S}.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			cond, ok := parseCondition(m[1])
			if !ok {
				return nil, false
			}
			return static([]ability.Condition{cond}, m[2])
		},
	},
	pattern{
		name:        "static",
		specificity: 0,
		re:          regexp.MustCompile(`^(.+)$`),
		example:     "Your other characters get +1 {S}.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			return static(nil, m[1])
		},
	},
)

var actionTable = newTable(
	pattern{
		name:        "action",
		specificity: 0,
		re:          regexp.MustCompile(`^(.+)$`),
		example:     "Deal 3 damage to chosen character.",
		handle: func(m []string, _ clause) ([]ability.Definition, bool) {
			effects, ok := parseEffects(m[1])
			if !ok {
				return nil, false
			}
			return []ability.Definition{{Kind: ability.KindAction, Effects: effects}}, true
		},
	},
)

var tables = map[category]table{
	categoryKeyword:   keywordTable,
	categoryTriggered: triggeredTable,
	categoryActivated: activatedTable,
	categoryStatic:    staticTable,
	categoryAction:    actionTable,
}
