package state

import (
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// MarkerKind keys the marker map on a card.
type MarkerKind string

const (
	MarkerResist         MarkerKind = "resist"
	MarkerCardsUnder     MarkerKind = "cards_under"
	MarkerKeywords       MarkerKind = "keywords"
	MarkerPlayedViaShift MarkerKind = "played_via_shift"
	MarkerAtLocation     MarkerKind = "at_location"
)

// Marker is a transient tag carried by a card instance.
type Marker interface {
	Kind() MarkerKind
}

// ResistMarker adds printed-independent resist, e.g. from a location.
type ResistMarker struct {
	Amount int
}

func (ResistMarker) Kind() MarkerKind { return MarkerResist }

// CardsUnderMarker lists the instances stacked beneath a shifted character, bottom first.
type CardsUnderMarker struct {
	CardIDs []string
}

func (CardsUnderMarker) Kind() MarkerKind { return MarkerCardsUnder }

// KeywordsMarker holds keywords granted to the card outside the effect system.
type KeywordsMarker struct {
	Keywords map[ability.Keyword]int
}

func (KeywordsMarker) Kind() MarkerKind { return MarkerKeywords }

// ShiftMarker records that the card was played via Shift.
type ShiftMarker struct {
	OntoID string
}

func (ShiftMarker) Kind() MarkerKind { return MarkerPlayedViaShift }

// LocationMarker records the location a character is at.
type LocationMarker struct {
	LocationID string
}

func (LocationMarker) Kind() MarkerKind { return MarkerAtLocation }

// Markers is the marker map of a card, one marker per kind.
type Markers map[MarkerKind]Marker

// Set stores a marker, replacing any marker of the same kind.
func (m Markers) Set(marker Marker) {
	m[marker.Kind()] = marker
}

// Clear removes the marker of kind.
func (m Markers) Clear(kind MarkerKind) {
	delete(m, kind)
}

// Has reports whether a marker of kind is present.
func (m Markers) Has(kind MarkerKind) bool {
	_, ok := m[kind]
	return ok
}

// GetMarker returns the marker of kind with its concrete type.
func GetMarker[T Marker](m Markers, kind MarkerKind) (T, bool) {
	var zero T
	marker, ok := m[kind]
	if !ok {
		return zero, false
	}
	typed, ok := marker.(T)
	return typed, ok
}

// Resist returns the marker resist amount.
func (m Markers) Resist() int {
	r, _ := GetMarker[ResistMarker](m, MarkerResist)
	return r.Amount
}

// CardsUnder returns the ids of the cards beneath this one.
func (m Markers) CardsUnder() []string {
	u, _ := GetMarker[CardsUnderMarker](m, MarkerCardsUnder)
	return u.CardIDs
}

// Keywords returns marker-granted keywords.
func (m Markers) Keywords() map[ability.Keyword]int {
	k, _ := GetMarker[KeywordsMarker](m, MarkerKeywords)
	return k.Keywords
}

// PlayedViaShift reports whether the card was played via Shift.
func (m Markers) PlayedViaShift() bool {
	return m.Has(MarkerPlayedViaShift)
}

// Location returns the location id a character is at.
func (m Markers) Location() (string, bool) {
	l, ok := GetMarker[LocationMarker](m, MarkerAtLocation)
	return l.LocationID, ok
}

func (m Markers) clone() Markers {
	out := make(Markers, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
