package compiler

import (
	"regexp"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// category selects the pattern table a clause is compiled with.
type category string

const (
	categoryKeyword   category = "keyword"
	categoryTriggered category = "triggered"
	categoryActivated category = "activated"
	categoryStatic    category = "static"
	categoryAction    category = "action"
)

// clause is one printed ability after both input shapes are normalized.
type clause struct {
	index    int
	category category
	name     string
	// raw is the printed text, kept for diagnostics.
	raw string
	// text is lower-cased with reminder text removed.
	text string
}

var (
	reminderText   = regexp.MustCompile(`\s*\([^)]*\)`)
	abilityName    = regexp.MustCompile(`^([A-Z0-9][A-Z0-9'’!?,.\- ]*[A-Z0-9!?'’])\s+(.+)$`)
	spaces         = regexp.MustCompile(`\s+`)
	activatedArrow = regexp.MustCompile(`^(?:\{e\}|\d+ \{i\}|banish this [a-z]+)(?:\s*,\s*(?:\{e\}|\d+ \{i\}|banish this [a-z]+))*\s*(?:—|–|-)\s*`)
)

// clauses normalizes the two supported input shapes into one ordered list.
func clauses(def catalog.Definition) []clause {
	var out []clause
	add := func(cat category, name, raw string) {
		text := normalizeText(raw)
		if text == "" {
			return
		}
		if cat == "" {
			cat = classify(def, text)
		}
		out = append(out, clause{index: len(out), category: cat, name: name, raw: raw, text: text})
	}

	if len(def.Abilities) > 0 {
		for _, a := range def.Abilities {
			switch strings.ToLower(a.Type) {
			case "keyword":
				raw := a.FullText
				if raw == "" {
					raw = strings.TrimSpace(a.Keyword + " " + a.KeywordValue)
				}
				add(categoryKeyword, a.Keyword, raw)
			default:
				raw := a.Effect
				if raw == "" {
					raw = a.FullText
				}
				name, body := splitName(raw)
				if a.Name != "" {
					name = a.Name
				}
				add(categoryFor(a.Type), name, body)
			}
		}
		return out
	}

	seen := make(map[ability.Keyword]bool)
	for _, kw := range def.Keywords {
		if k, ok := keywordOf(normalizeText(kw)); ok {
			seen[k] = true
		}
		add(categoryKeyword, kw, kw)
	}
	for _, section := range def.TextSections {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if k, ok := keywordOf(normalizeText(line)); ok {
				if seen[k] && !k.Valued() {
					continue
				}
				seen[k] = true
				add(categoryKeyword, string(k), line)
				continue
			}
			name, body := splitName(line)
			add("", name, body)
		}
	}
	return dedupeKeywords(out)
}

// dedupeKeywords keeps one clause per keyword, preferring the one with a value.
func dedupeKeywords(in []clause) []clause {
	best := make(map[ability.Keyword]int)
	for i, c := range in {
		if c.category != categoryKeyword {
			continue
		}
		k, ok := keywordOf(c.text)
		if !ok {
			continue
		}
		if j, exists := best[k]; !exists || (!hasDigit(in[j].text) && hasDigit(c.text)) {
			best[k] = i
		}
	}
	var out []clause
	for i, c := range in {
		if c.category == categoryKeyword {
			if k, ok := keywordOf(c.text); ok && best[k] != i {
				continue
			}
		}
		c.index = len(out)
		out = append(out, c)
	}
	return out
}

func categoryFor(typ string) category {
	switch strings.ToLower(typ) {
	case "triggered":
		return categoryTriggered
	case "activated":
		return categoryActivated
	case "static":
		return categoryStatic
	case "action":
		return categoryAction
	}
	return ""
}

// classify picks a category from the text of a flat-shape section.
func classify(def catalog.Definition, text string) category {
	switch {
	case strings.HasPrefix(text, "when ") || strings.HasPrefix(text, "whenever ") ||
		strings.HasPrefix(text, "at the start of") || strings.HasPrefix(text, "at the end of"):
		return categoryTriggered
	case activatedArrow.MatchString(text):
		return categoryActivated
	case def.Type == catalog.TypeAction:
		return categoryAction
	}
	return categoryStatic
}

// splitName separates a leading upper-case ability name from its text.
func splitName(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	m := abilityName.FindStringSubmatch(raw)
	if m == nil {
		return "", raw
	}
	letters := 0
	for _, r := range m[1] {
		if r >= 'A' && r <= 'Z' {
			letters++
		}
	}
	if letters < 2 {
		return "", raw
	}
	return strings.TrimSpace(m[1]), m[2]
}

// normalizeText lower-cases text, strips reminder text and collapses spaces.
func normalizeText(raw string) string {
	text := reminderText.ReplaceAllString(raw, "")
	text = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`).Replace(text)
	text = spaces.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.ToLower(text)
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

var (
	keywordLine  = regexp.MustCompile(`^(bodyguard|challenger|evasive|reckless|resist|rush|shift|singer|sing together|support|ward)\b`)
	keywordValue = regexp.MustCompile(`^\+?(\d+)(?: \{i\})?\.?$`)
)

// keywordOf reports whether a normalized line is a keyword ability line.
func keywordOf(text string) (ability.Keyword, bool) {
	m := keywordLine.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	rest := strings.TrimSpace(text[len(m[0]):])
	// "Support" alone is a keyword; "Support your friends" would not be.
	if rest != "" && !keywordValue.MatchString(rest) {
		return "", false
	}
	return ability.ParseKeyword(m[1])
}
