package compiler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// effectPattern compiles one imperative sentence into effect nodes.
type effectPattern struct {
	name        string
	specificity int
	re          *regexp.Regexp
	example     string
	build       func(m []string, s *sentence) ([]ability.Effect, bool)
}

// sentence carries what the parser knows about the sentence being compiled.
type sentence struct {
	amount   ability.AmountKind
	duration ability.Duration
	// prev is the target of the last compiled effect; pronouns refer to it.
	prev *ability.Selector
}

// subject resolves the grammatical subject or object of a sentence.
func (s *sentence) subject(phrase string) (ability.Selector, bool) {
	phrase = strings.TrimSpace(phrase)
	if pronouns[phrase] {
		if s.prev == nil || s.prev.Scope == ability.ScopeSelf {
			return ability.Self(), true
		}
		return ability.Selector{Scope: ability.ScopePrevious}, true
	}
	return parseTarget(phrase)
}

// amount builds an amount from the sentence's number token. A computed
// suffix turns the number into a multiplier.
func (s *sentence) amountOf(token string) (ability.Amount, bool) {
	n := number(token)
	if s.amount != "" {
		if n == 0 {
			n = 1
		}
		return ability.Amount{Kind: s.amount, Value: n}, true
	}
	if n == 0 {
		return ability.Amount{}, false
	}
	return ability.Literal(n), true
}

var statSymbols = map[string]ability.Stat{
	"s": ability.StatStrength,
	"w": ability.StatWillpower,
	"l": ability.StatLore,
}

var restrictions = map[string]ability.Restriction{
	"quest":         ability.CantQuest,
	"challenge":     ability.CantChallenge,
	"ready":         ability.CantReady,
	"be challenged": ability.CantBeChallenged,
}

var effectTable = sortEffects([]effectPattern{
	{
		name:        "each-player-draws",
		specificity: 20,
		re:          regexp.MustCompile(`^each (player|opponent) draws (a|an|\d+|two|three) cards?$`),
		example:     "Each player draws 2 cards.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[2])
			scope := ability.ScopeEachPlayer
			if m[1] == "opponent" {
				scope = ability.ScopeOpponents
			}
			return []ability.Effect{{Type: ability.EffectDraw, Target: ability.Selector{Scope: scope}, Amount: amount}}, ok
		},
	},
	{
		name:        "draw",
		specificity: 10,
		re:          regexp.MustCompile(`^(?:you )?draw (a|an|\d+|two|three) cards?$`),
		example:     "Draw a card.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			return []ability.Effect{{Type: ability.EffectDraw, Target: ability.Controller(), Amount: amount}}, ok
		},
	},
	{
		name:        "gain-lore",
		specificity: 10,
		re:          regexp.MustCompile(`^(?:you )?gain (\d+|a) lore$`),
		example:     "Gain 2 lore.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			return []ability.Effect{{Type: ability.EffectGainLore, Target: ability.Controller(), Amount: amount}}, ok
		},
	},
	{
		name:        "lose-lore",
		specificity: 20,
		re:          regexp.MustCompile(`^(each opponent|chosen opponent) loses (\d+|a) lore$`),
		example:     "Each opponent loses 1 lore.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[2])
			return []ability.Effect{{Type: ability.EffectLoseLore, Target: ability.Selector{Scope: ability.ScopeOpponents}, Amount: amount}}, ok
		},
	},
	{
		name:        "deal-damage",
		specificity: 10,
		re:          regexp.MustCompile(`^deal (?:(\d+) )?damage to (.+)$`),
		example:     "Deal 2 damage to chosen character.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			target, tok := s.subject(m[2])
			return []ability.Effect{{Type: ability.EffectDamage, Target: target, Amount: amount}}, ok && tok
		},
	},
	{
		name:        "banish",
		specificity: 10,
		re:          regexp.MustCompile(`^banish (.+)$`),
		example:     "Banish chosen opposing item.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectMoveZone, Target: target, Destination: ability.DestinationDiscard}}, ok
		},
	},
	{
		name:        "return-to-hand",
		specificity: 20,
		re:          regexp.MustCompile(`^return (.+?) to (?:their|its|his|her|your) (?:player's )?hand$`),
		example:     "Return chosen character with cost 2 or less to their player's hand.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectMoveZone, Target: target, Destination: ability.DestinationHand}}, ok
		},
	},
	{
		name:        "put-into-inkwell",
		specificity: 20,
		re:          regexp.MustCompile(`^put (.+?) into (?:their|its|his|her|your) (?:player's )?inkwell facedown(?: and exerted)?$`),
		example:     "Put chosen opposing character into their player's inkwell facedown and exerted.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectMoveZone, Target: target, Destination: ability.DestinationInkwell}}, ok
		},
	},
	{
		name:        "put-on-deck-bottom",
		specificity: 20,
		re:          regexp.MustCompile(`^put (.+?) on the bottom of (?:their|its|his|her|your) (?:player's )?deck$`),
		example:     "Put chosen item on the bottom of their player's deck.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectMoveZone, Target: target, Destination: ability.DestinationDeckBottom}}, ok
		},
	},
	{
		name:        "exert",
		specificity: 10,
		re:          regexp.MustCompile(`^exert (.+)$`),
		example:     "Exert chosen opposing character.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectExert, Target: target}}, ok
		},
	},
	{
		name:        "ready",
		specificity: 10,
		re:          regexp.MustCompile(`^ready (.+)$`),
		example:     "Ready chosen character.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{Type: ability.EffectReady, Target: target}}, ok
		},
	},
	{
		name:        "remove-damage",
		specificity: 10,
		re:          regexp.MustCompile(`^remove up to (\d+) damage from (.+)$`),
		example:     "Remove up to 3 damage from chosen character.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			target, tok := s.subject(m[2])
			return []ability.Effect{{Type: ability.EffectHeal, Target: target, Amount: amount}}, ok && tok
		},
	},
	{
		name:        "modify-stat",
		specificity: 10,
		re:          regexp.MustCompile(`^(.+?) gets? ([+-]\d+) \{(s|w|l)\}(?: and ([+-]\d+) \{(s|w|l)\})?$`),
		example:     "Chosen character gets +2 {S} this turn.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			if !ok {
				return nil, false
			}
			out := []ability.Effect{{
				Type: ability.EffectModifyStat, Target: target, Stat: statSymbols[m[3]],
				Amount: ability.Literal(signed(m[2])), Duration: s.duration,
			}}
			if m[4] != "" {
				second := target
				if second.Scope == ability.ScopeChosen {
					second = ability.Selector{Scope: ability.ScopePrevious}
				}
				out = append(out, ability.Effect{
					Type: ability.EffectModifyStat, Target: second, Stat: statSymbols[m[5]],
					Amount: ability.Literal(signed(m[4])), Duration: s.duration,
				})
			}
			if s.amount != "" {
				for i := range out {
					out[i].Amount = ability.Amount{Kind: s.amount, Value: out[i].Amount.Value}
				}
			}
			return out, true
		},
	},
	{
		name:        "set-stat",
		specificity: 15,
		re:          regexp.MustCompile(`^(.+?)'s? \{(s|w|l)\} (?:becomes|is) (\d+)$`),
		example:     "This character's {S} becomes 5.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{
				Type: ability.EffectSetStat, Target: target, Stat: statSymbols[m[2]],
				Amount: ability.Literal(number(m[3])), Duration: s.duration,
			}}, ok
		},
	},
	{
		name:        "grant-keyword",
		specificity: 10,
		re:          regexp.MustCompile(`^(.+?) gains? (bodyguard|challenger|evasive|reckless|resist|rush|support|ward|singer)(?: \+?(\d+))?$`),
		example:     "Chosen character gains Evasive until the start of your next turn.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			kw, kok := ability.ParseKeyword(m[2])
			if kw.Valued() && m[3] == "" {
				return nil, false
			}
			return []ability.Effect{{
				Type: ability.EffectGrantKeyword, Target: target, Keyword: kw,
				KeywordValue: number(m[3]), Duration: s.duration,
			}}, ok && kok
		},
	},
	{
		name:        "challenge-ready",
		specificity: 20,
		re:          regexp.MustCompile(`^(.+?) can challenge ready characters$`),
		example:     "This character can challenge ready characters.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			return []ability.Effect{{
				Type: ability.EffectGrantKeyword, Target: target, Keyword: ability.ChallengeReady, Duration: s.duration,
			}}, ok
		},
	},
	{
		name:        "restrict",
		specificity: 10,
		re:          regexp.MustCompile(`^(.+?) can't (quest|challenge|ready|be challenged)(?: or (quest|challenge))?$`),
		example:     "Chosen opposing character can't quest during their next turn.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			target, ok := s.subject(m[1])
			if !ok {
				return nil, false
			}
			out := []ability.Effect{{
				Type: ability.EffectRestrict, Target: target, Restriction: restrictions[m[2]], Duration: s.duration,
			}}
			if m[3] != "" {
				second := target
				if second.Scope == ability.ScopeChosen {
					second = ability.Selector{Scope: ability.ScopePrevious}
				}
				out = append(out, ability.Effect{
					Type: ability.EffectRestrict, Target: second, Restriction: restrictions[m[3]], Duration: s.duration,
				})
			}
			return out, true
		},
	},
	{
		name:        "opponents-discard",
		specificity: 20,
		re:          regexp.MustCompile(`^each opponent chooses and discards (a|an|\d+|two) cards?$`),
		example:     "Each opponent chooses and discards a card.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			return []ability.Effect{{Type: ability.EffectDiscard, Target: ability.Selector{Scope: ability.ScopeOpponents}, Amount: amount}}, ok
		},
	},
	{
		name:        "discard",
		specificity: 10,
		re:          regexp.MustCompile(`^(?:choose and )?discard (a|an|\d+|two) cards?$`),
		example:     "Choose and discard a card.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			return []ability.Effect{{Type: ability.EffectDiscard, Target: ability.Controller(), Amount: amount}}, ok
		},
	},
	{
		name:        "next-play-discount",
		specificity: 20,
		re:          regexp.MustCompile(`^you pay (\d+) \{i\} less for the next (character|item|action|location|card) you play$`),
		example:     "You pay 2 {I} less for the next character you play this turn.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			duration := s.duration
			if duration == ability.DurationPermanent {
				duration = ability.DurationThisTurn
			}
			return []ability.Effect{{
				Type: ability.EffectCostReduction, Target: ability.Controller(), Amount: amount,
				CardType: cardTypes[m[2]], OneShot: true, Duration: duration,
			}}, ok
		},
	},
	{
		name:        "play-discount",
		specificity: 20,
		re:          regexp.MustCompile(`^you pay (\d+) \{i\} less to play (this character|this item|this location|characters|items|actions|songs|locations)$`),
		example:     "You pay 1 {I} less to play characters.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			target := ability.Self()
			if !strings.HasPrefix(m[2], "this ") {
				noun := strings.TrimSuffix(m[2], "s")
				target = ability.Selector{Scope: ability.ScopeAll, Owner: ability.OwnerYou, Zone: ability.ZoneHand, CardType: cardTypes[noun]}
				if noun == "song" {
					target.Filter.Subtype = "Song"
				}
			}
			return []ability.Effect{{Type: ability.EffectCostReduction, Target: target, Amount: amount, Duration: s.duration}}, ok
		},
	},
	{
		name:        "move-discount",
		specificity: 20,
		re:          regexp.MustCompile(`^you pay (\d+) \{i\} less to move (?:your )?characters? (here|to (?:a )?locations?)$`),
		example:     "You pay 1 {I} less to move your characters here.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			target := ability.Selector{Scope: ability.ScopeAll, CardType: catalog.TypeLocation, Owner: ability.OwnerYou}
			if m[2] == "here" {
				target = ability.Self()
			}
			return []ability.Effect{{Type: ability.EffectMoveCostReduction, Target: target, Amount: amount, Duration: s.duration}}, ok
		},
	},
	{
		name:        "extra-draw",
		specificity: 20,
		re:          regexp.MustCompile(`^you draw (\d+|an|a) additional cards? (?:during|in) your draw step$`),
		example:     "You draw an additional card during your draw step.",
		build: func(m []string, s *sentence) ([]ability.Effect, bool) {
			amount, ok := s.amountOf(m[1])
			return []ability.Effect{{Type: ability.EffectDrawBonus, Target: ability.Controller(), Amount: amount, Duration: s.duration}}, ok
		},
	},
})

func sortEffects(ps []effectPattern) []effectPattern {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].specificity > ps[j].specificity })
	return ps
}

var durationSuffixes = []struct {
	suffix   string
	duration ability.Duration
}{
	{" this turn", ability.DurationThisTurn},
	{" until the start of your next turn", ability.DurationUntilStartOfNextTurn},
	{" during their next turn", ability.DurationDuringNextTurn},
	{" during his next turn", ability.DurationDuringNextTurn},
	{" during her next turn", ability.DurationDuringNextTurn},
	{" during its next turn", ability.DurationDuringNextTurn},
	{" at the start of their next turn", ability.DurationDuringNextTurn},
	{" at the start of its next turn", ability.DurationDuringNextTurn},
}

var amountSuffixes = []struct {
	suffix string
	kind   ability.AmountKind
}{
	{" for each other character you have in play", ability.AmountPerOtherCharacter},
	{" for each character you have in play", ability.AmountPerOwnCharacter},
	{" for each card in your hand", ability.AmountPerCardInHand},
	{" for each damaged character your opponents have in play", ability.AmountPerOpposingDamaged},
	{" for each opposing damaged character", ability.AmountPerOpposingDamaged},
	{" equal to the damage on this character", ability.AmountSelfDamage},
	{" equal to this character's {s}", ability.AmountSelfStrength},
	{" equal to his {s}", ability.AmountSelfStrength},
	{" equal to her {s}", ability.AmountSelfStrength},
	{" equal to its {s}", ability.AmountSelfStrength},
	{" equal to their {s}", ability.AmountSelfStrength},
}

var sequenceSplitters = []string{", then, ", ", then ", " and then ", ", and ", " and "}

// parseEffects compiles effect text made of one or more sentences. The whole
// text fails if any part of it is not understood.
func parseEffects(text string) ([]ability.Effect, bool) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "."))
	if text == "" {
		return nil, false
	}
	var out []ability.Effect
	var prev *ability.Selector
	for _, part := range strings.Split(text, ". ") {
		effects, ok := parseSequence(part, prev)
		if !ok {
			return nil, false
		}
		out = append(out, effects...)
		if n := len(out); n > 0 {
			prev = &out[n-1].Target
		}
	}
	return out, len(out) > 0
}

// parseSequence tries the whole clause first and then every split point.
func parseSequence(text string, prev *ability.Selector) ([]ability.Effect, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "then, ")
	text = strings.TrimPrefix(text, "then ")

	optional := false
	if strings.HasPrefix(text, "you may ") {
		optional = true
		text = strings.TrimPrefix(text, "you may ")
	}

	effects, ok := parseSentence(text, prev)
	if !ok {
		effects, ok = splitSequence(text, prev)
	}
	if !ok {
		return nil, false
	}
	if optional {
		for i := range effects {
			effects[i].Optional = true
		}
	}
	return effects, true
}

// splitSequence looks for a split point where both halves compile.
func splitSequence(text string, prev *ability.Selector) ([]ability.Effect, bool) {
	for _, sep := range sequenceSplitters {
		from := 0
		for {
			idx := strings.Index(text[from:], sep)
			if idx < 0 {
				break
			}
			idx += from
			if left, ok := parseSequence(text[:idx], prev); ok {
				last := prev
				if n := len(left); n > 0 {
					last = &left[n-1].Target
				}
				if right, ok := parseSequence(text[idx+len(sep):], last); ok {
					return append(left, right...), true
				}
			}
			from = idx + len(sep)
		}
	}
	return nil, false
}

// parseSentence compiles a single imperative clause.
func parseSentence(text string, prev *ability.Selector) ([]ability.Effect, bool) {
	s, text := prepare(text, prev)
	effects, _, ok := matchEffect(text, s)
	return effects, ok
}

// prepare strips duration and computed-amount phrases from text.
func prepare(text string, prev *ability.Selector) (*sentence, string) {
	s := &sentence{prev: prev}
	for _, d := range durationSuffixes {
		if strings.HasSuffix(text, d.suffix) {
			s.duration = d.duration
			text = strings.TrimSuffix(text, d.suffix)
			break
		}
	}
	for _, a := range amountSuffixes {
		if strings.HasSuffix(text, a.suffix) {
			s.amount = a.kind
			text = strings.TrimSuffix(text, a.suffix)
			break
		}
	}
	// "deal damage equal to his {s} to chosen character" puts the amount in the middle.
	if s.amount == "" {
		for _, a := range amountSuffixes {
			if idx := strings.Index(text, a.suffix); idx >= 0 {
				s.amount = a.kind
				text = text[:idx] + text[idx+len(a.suffix):]
				break
			}
		}
	}
	return s, text
}

// matchEffect returns the effects built by the first pattern that accepts text.
func matchEffect(text string, s *sentence) ([]ability.Effect, string, bool) {
	for _, p := range effectTable {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if effects, ok := p.build(m, s); ok {
			return effects, p.name, true
		}
	}
	return nil, "", false
}
