// Package watchers tracks facts about the current turn and the whole game
// from the engine's event stream.
package watchers

import (
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
)

// Watcher keys.
const (
	KeyCardsPlayed = "CardsPlayedWatcher"
	KeyBanished    = "CharactersBanishedWatcher"
	KeyCardsDrawn  = "CardsDrawnWatcher"
	KeyGameStats   = "GameStatsWatcher"
)

// MetaSong marks a card-played event whose card is a song.
const MetaSong = "song"

// CardsPlayedWatcher tracks cards played by players this turn.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	played map[string][]string // playerID -> card ids
	songs  map[string]int
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(KeyCardsPlayed),
		played:      make(map[string][]string),
		songs:       make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed {
		return
	}
	playerID := event.PlayerID
	if playerID == "" {
		playerID = event.Controller
	}
	if playerID == "" || event.TargetID == "" {
		return
	}
	w.played[playerID] = append(w.played[playerID], event.TargetID)
	if event.Metadata[MetaSong] == "true" {
		w.songs[playerID]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[string][]string)
	w.songs = make(map[string]int)
}

// CardsPlayed returns the ids of the cards a player played this turn.
func (w *CardsPlayedWatcher) CardsPlayed(playerID string) []string {
	return w.played[playerID]
}

// SongsPlayed returns how many songs a player played this turn.
func (w *CardsPlayedWatcher) SongsPlayed(playerID string) int {
	return w.songs[playerID]
}

// CharactersBanishedWatcher tracks characters banished this turn.
type CharactersBanishedWatcher struct {
	*rules.BaseWatcher
	byOwner     map[string]int // ownerID -> count
	inChallenge int
}

// NewCharactersBanishedWatcher creates a new banished watcher.
func NewCharactersBanishedWatcher() *CharactersBanishedWatcher {
	return &CharactersBanishedWatcher{
		BaseWatcher: rules.NewBaseWatcher(KeyBanished),
		byOwner:     make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CharactersBanishedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventBanished {
		return
	}
	w.byOwner[event.PlayerID]++
	if event.Flag {
		w.inChallenge++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CharactersBanishedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.byOwner = make(map[string]int)
	w.inChallenge = 0
}

// AmountByOwner returns how many of the owner's characters were banished.
func (w *CharactersBanishedWatcher) AmountByOwner(ownerID string) int {
	return w.byOwner[ownerID]
}

// InChallenge returns how many characters were banished in challenges.
func (w *CharactersBanishedWatcher) InChallenge() int {
	return w.inChallenge
}

// TotalAmount returns the total number of characters banished.
func (w *CharactersBanishedWatcher) TotalAmount() int {
	total := 0
	for _, n := range w.byOwner {
		total += n
	}
	return total
}

// CardsDrawnWatcher tracks cards drawn by players this turn.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	drawn map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(KeyCardsDrawn),
		drawn:       make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDrawn || event.PlayerID == "" {
		return
	}
	w.drawn[event.PlayerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.drawn = make(map[string]int)
}

// Count returns the number of cards a player drew this turn.
func (w *CardsDrawnWatcher) Count(playerID string) int {
	return w.drawn[playerID]
}

// PlayerStats is the running tally of one player's game.
type PlayerStats struct {
	CardsPlayed   int
	CardsInked    int
	Quests        int
	Challenges    int
	Banished      int
	LoreGained    int
	SongsSung     int
	AbilitiesUsed int
}

// GameStatsWatcher accumulates per-player totals over the whole game. It is
// not cleared between turns.
type GameStatsWatcher struct {
	*rules.BaseWatcher
	stats map[string]*PlayerStats
	turns int
}

// NewGameStatsWatcher creates a new game stats watcher.
func NewGameStatsWatcher() *GameStatsWatcher {
	return &GameStatsWatcher{
		BaseWatcher: rules.NewBaseWatcher(KeyGameStats),
		stats:       make(map[string]*PlayerStats),
	}
}

func (w *GameStatsWatcher) player(id string) *PlayerStats {
	s, ok := w.stats[id]
	if !ok {
		s = &PlayerStats{}
		w.stats[id] = s
	}
	return s
}

// Watch implements the Watcher interface.
func (w *GameStatsWatcher) Watch(event rules.Event) {
	if event.PlayerID == "" && event.Type != rules.EventTurnStarted {
		return
	}
	switch event.Type {
	case rules.EventTurnStarted:
		w.turns++
	case rules.EventCardPlayed:
		w.player(event.PlayerID).CardsPlayed++
	case rules.EventCardInked:
		w.player(event.PlayerID).CardsInked++
	case rules.EventQuested:
		w.player(event.PlayerID).Quests++
	case rules.EventChallengeDeclared:
		w.player(event.PlayerID).Challenges++
	case rules.EventBanished:
		w.player(event.PlayerID).Banished++
	case rules.EventLoreGained:
		w.player(event.PlayerID).LoreGained += event.Amount
	case rules.EventSongSung:
		w.player(event.PlayerID).SongsSung++
	case rules.EventAbilityActivated:
		w.player(event.PlayerID).AbilitiesUsed++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset keeps the totals; game statistics span every turn.
func (w *GameStatsWatcher) Reset() {}

// Stats returns a copy of a player's totals.
func (w *GameStatsWatcher) Stats(playerID string) PlayerStats {
	if s, ok := w.stats[playerID]; ok {
		return *s
	}
	return PlayerStats{}
}

// Turns returns the number of turns started.
func (w *GameStatsWatcher) Turns() int {
	return w.turns
}
