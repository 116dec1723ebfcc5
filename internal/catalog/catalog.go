package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog indexes definitions by id and normalized name.
type Catalog struct {
	defs   []Definition
	byID   map[string]int
	byName map[string]int
}

// New builds a catalog. On duplicate full names the first canonical print wins;
// a promo is only kept until a non-promo print with the same name shows up.
func New(defs []Definition) *Catalog {
	c := &Catalog{
		defs:   make([]Definition, 0, len(defs)),
		byID:   make(map[string]int, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		idx := len(c.defs)
		c.defs = append(c.defs, def)
		if def.ID != "" {
			if _, exists := c.byID[def.ID]; !exists {
				c.byID[def.ID] = idx
			}
		}
		for _, key := range nameKeys(def) {
			prev, exists := c.byName[key]
			if !exists || (c.defs[prev].Promo && !def.Promo) {
				c.byName[key] = idx
			}
		}
	}
	return c
}

func nameKeys(def Definition) []string {
	full := NormalizeName(def.FullName())
	keys := []string{full}
	if def.Version != "" {
		keys = append(keys, NormalizeName(def.Name+" "+def.Version))
	}
	return keys
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// All returns the definitions in load order.
func (c *Catalog) All() []Definition {
	return append([]Definition(nil), c.defs...)
}

// ByID looks a definition up by id.
func (c *Catalog) ByID(id string) (Definition, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[idx], true
}

// Lookup resolves a printed name, case-insensitive and whitespace-normalized.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	idx, ok := c.byName[NormalizeName(name)]
	if !ok {
		return Definition{}, false
	}
	return c.defs[idx], true
}

// ResolveDeck expands a deck list into one definition per physical card.
func (c *Catalog) ResolveDeck(entries []DeckEntry) ([]Definition, error) {
	var out []Definition
	var missing []string
	for _, entry := range entries {
		def, ok := c.Lookup(entry.Name)
		if !ok {
			missing = append(missing, entry.Name)
			continue
		}
		count := entry.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			out = append(out, def)
		}
	}
	if len(missing) > 0 {
		return out, &UnknownCardsError{Names: missing}
	}
	return out, nil
}

// UnknownCardsError lists deck entries the catalog could not resolve.
type UnknownCardsError struct {
	Names []string
}

func (e *UnknownCardsError) Error() string {
	return fmt.Sprintf("unknown cards: %s", strings.Join(e.Names, ", "))
}

// LoadFile reads a catalog from a JSON or YAML array of definitions.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	return New(defs), nil
}

// Decode parses catalog bytes; the format follows the file extension.
func Decode(path string, data []byte) ([]Definition, error) {
	var defs []Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse catalog YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse catalog JSON: %w", err)
		}
	}
	return defs, nil
}
