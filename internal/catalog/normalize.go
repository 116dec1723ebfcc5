package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeName folds case, strips diacritics, unifies dashes and collapses whitespace,
// so "Stitch -  Rock  Star" and "stitch - rock star" resolve to the same card.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	stripped = strings.Map(func(r rune) rune {
		switch r {
		case '–', '—', '−':
			return '-'
		case '’', '‘':
			return '\''
		}
		return r
	}, stripped)
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}
