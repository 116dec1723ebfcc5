package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile is the top-level YAML structure of a deck file.
type DeckFile struct {
	Decks []DeckList `yaml:"decks"`
}

// DeckList is a named deck.
type DeckList struct {
	Name  string      `yaml:"name"`
	Cards []DeckEntry `yaml:"cards"`
}

// DeckEntry is a card name and how many copies to include.
type DeckEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// LoadDeckFile parses a YAML deck file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// Deck returns the named deck, or the Nth deck when name is empty and n > 0.
func (df *DeckFile) Deck(name string, n int) (DeckList, error) {
	if name != "" {
		for _, deck := range df.Decks {
			if NormalizeName(deck.Name) == NormalizeName(name) {
				return deck, nil
			}
		}
		return DeckList{}, fmt.Errorf("deck %q not found", name)
	}
	if n < 1 || n > len(df.Decks) {
		return DeckList{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return df.Decks[n-1], nil
}

// Size is the total number of cards in the list.
func (d DeckList) Size() int {
	total := 0
	for _, entry := range d.Cards {
		if entry.Count <= 0 {
			total++
			continue
		}
		total += entry.Count
	}
	return total
}
