package state

import (
	"fmt"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// Zone is where a card instance currently lives.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneDeck
	ZoneHand
	ZonePlay
	ZoneDiscard
	ZoneInkwell
	// ZoneUnder holds cards stacked beneath a shifted character.
	ZoneUnder
)

var zoneNames = map[Zone]string{
	ZoneNone:    "NONE",
	ZoneDeck:    "DECK",
	ZoneHand:    "HAND",
	ZonePlay:    "PLAY",
	ZoneDiscard: "DISCARD",
	ZoneInkwell: "INKWELL",
	ZoneUnder:   "UNDER",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(z))
}

// Zones lists every real zone in canonical order.
var Zones = []Zone{ZoneDeck, ZoneHand, ZonePlay, ZoneDiscard, ZoneInkwell, ZoneUnder}

// Card is one physical card instance.
type Card struct {
	ID    string
	Def   catalog.Definition
	Owner string
	Zone  Zone

	Exerted bool
	Damage  int
	// Drying is set when a character enters play and cleared at its owner's next Ready step.
	Drying bool

	BaseStrength  int
	BaseWillpower int
	BaseLore      int
	BaseCost      int
	BaseMoveCost  int

	Markers   Markers
	Abilities []ability.Definition
}

// NewCard creates an instance of def owned by owner. It is not in any zone yet.
func NewCard(id string, def catalog.Definition, owner string) *Card {
	return &Card{
		ID:            id,
		Def:           def,
		Owner:         owner,
		Zone:          ZoneNone,
		BaseStrength:  def.Strength,
		BaseWillpower: def.Willpower,
		BaseLore:      def.Lore,
		BaseCost:      def.Cost,
		BaseMoveCost:  def.MoveCost,
		Markers:       make(Markers),
	}
}

// Name is the card's printed name without version.
func (c *Card) Name() string { return c.Def.Name }

// FullName is the printed name with version.
func (c *Card) FullName() string { return c.Def.FullName() }

// Type is the printed card type.
func (c *Card) Type() catalog.CardType { return c.Def.Type }

// IsCharacter reports whether the card is a character.
func (c *Card) IsCharacter() bool { return c.Def.Type == catalog.TypeCharacter }

// IsLocation reports whether the card is a location.
func (c *Card) IsLocation() bool { return c.Def.Type == catalog.TypeLocation }

// IsItem reports whether the card is an item.
func (c *Card) IsItem() bool { return c.Def.Type == catalog.TypeItem }

// IsSong reports whether the card is a song.
func (c *Card) IsSong() bool { return c.Def.IsSong() }

// InPlay reports whether the card is in play.
func (c *Card) InPlay() bool { return c.Zone == ZonePlay }

// Ready reports whether the card is not exerted.
func (c *Card) Ready() bool { return !c.Exerted }

// AbilitiesOfKind returns the card's abilities of kind in printed order.
func (c *Card) AbilitiesOfKind(kind ability.Kind) []ability.Definition {
	var out []ability.Definition
	for _, def := range c.Abilities {
		if def.Kind == kind {
			out = append(out, def)
		}
	}
	return out
}

// Ability finds an ability by id.
func (c *Card) Ability(id string) (ability.Definition, bool) {
	for _, def := range c.Abilities {
		if def.ID == id {
			return def, true
		}
	}
	return ability.Definition{}, false
}

// PrintedKeyword returns the value of a printed keyword ability and whether the card has it.
func (c *Card) PrintedKeyword(kw ability.Keyword) (int, bool) {
	for _, def := range c.Abilities {
		if def.Kind == ability.KindKeyword && def.Keyword == kw {
			return def.KeywordValue, true
		}
	}
	return 0, false
}

// ResetRuntime clears the fields that do not survive leaving play.
func (c *Card) ResetRuntime() {
	c.Exerted = false
	c.Damage = 0
	c.Drying = false
	c.Markers = make(Markers)
}
