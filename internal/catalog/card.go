// Package catalog holds static card definitions and resolves deck lists against them.
package catalog

import (
	"strings"
)

// CardType is the printed card type.
type CardType string

const (
	TypeCharacter CardType = "character"
	TypeAction    CardType = "action"
	TypeItem      CardType = "item"
	TypeLocation  CardType = "location"
)

// Definition is one printed card.
type Definition struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Version   string   `json:"version,omitempty" yaml:"version,omitempty"`
	Cost      int      `json:"cost" yaml:"cost"`
	Type      CardType `json:"type" yaml:"type"`
	Subtypes  []string `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
	Ink       string   `json:"ink,omitempty" yaml:"ink,omitempty"`
	Inkable   bool     `json:"inkable" yaml:"inkable"`
	Strength  int      `json:"strength,omitempty" yaml:"strength,omitempty"`
	Willpower int      `json:"willpower,omitempty" yaml:"willpower,omitempty"`
	Lore      int      `json:"lore,omitempty" yaml:"lore,omitempty"`
	MoveCost  int      `json:"moveCost,omitempty" yaml:"moveCost,omitempty"`
	Promo     bool     `json:"promo,omitempty" yaml:"promo,omitempty"`

	// Abilities is the explicit ability-object shape.
	Abilities []AbilityText `json:"abilities,omitempty" yaml:"abilities,omitempty"`
	// Keywords and TextSections are the flat shape used by older exports.
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	TextSections []string `json:"textSections,omitempty" yaml:"textSections,omitempty"`
}

// AbilityText is a single printed ability in the explicit shape.
type AbilityText struct {
	Type         string `json:"type" yaml:"type"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Keyword      string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	KeywordValue string `json:"keywordValue,omitempty" yaml:"keywordValue,omitempty"`
	Effect       string `json:"effect,omitempty" yaml:"effect,omitempty"`
	FullText     string `json:"fullText,omitempty" yaml:"fullText,omitempty"`
}

// FullName is "Name - Version", or just the name for unversioned cards.
func (d Definition) FullName() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + " - " + d.Version
}

// HasSubtype reports whether the card carries the subtype, case-insensitively.
func (d Definition) HasSubtype(subtype string) bool {
	for _, s := range d.Subtypes {
		if strings.EqualFold(s, subtype) {
			return true
		}
	}
	return false
}

// IsSong reports whether the card is a song action.
func (d Definition) IsSong() bool {
	return d.Type == TypeAction && d.HasSubtype("Song")
}
