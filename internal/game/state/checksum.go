package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum computes a deterministic hash of the board. Two games driven by the
// same seed and the same decisions produce the same checksum.
func (g *Game) Checksum() (string, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(g.canonical())); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// canonical renders the state independent of map iteration order. Ordered
// zones keep their order; unordered zones are sorted by card id.
func (g *Game) canonical() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%s|%s|%s|%s\n",
		g.ID,
		g.FirstPlayer,
		g.Winner,
		g.Turns.Now(),
	))

	for _, id := range g.order {
		p := g.players[id]
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%d|%d|%t|%t|%d\n",
			id,
			p.Lore,
			p.LoreGoal,
			p.InkedThisTurn,
			p.Mulliganed,
			len(p.Restrictions),
		))
		for _, z := range Zones {
			ids := cardIDs(p.Zone(z))
			if z != ZoneDeck && z != ZoneDiscard {
				sort.Strings(ids)
			}
			buf.WriteString(fmt.Sprintf("  %s:%s\n", z, strings.Join(ids, ",")))
		}
	}

	ids := make([]string, 0, len(g.cards))
	for id := range g.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := g.cards[id]
		buf.WriteString(fmt.Sprintf("CARD:%s|%s|%s|%s|%t|%d|%t\n",
			id,
			c.FullName(),
			c.Owner,
			c.Zone,
			c.Exerted,
			c.Damage,
			c.Drying,
		))

		kinds := make([]string, 0, len(c.Markers))
		for kind := range c.Markers {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			buf.WriteString(fmt.Sprintf("  MARKER:%s=%s\n", kind, renderMarker(c.Markers[MarkerKind(kind)])))
		}
	}

	return buf.String()
}

func renderMarker(m Marker) string {
	switch v := m.(type) {
	case KeywordsMarker:
		kws := make([]string, 0, len(v.Keywords))
		for kw, n := range v.Keywords {
			kws = append(kws, fmt.Sprintf("%s:%d", kw, n))
		}
		sort.Strings(kws)
		return strings.Join(kws, ",")
	case CardsUnderMarker:
		return strings.Join(v.CardIDs, ",")
	default:
		return fmt.Sprintf("%+v", v)
	}
}

func cardIDs(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
