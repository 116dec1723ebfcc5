package rules

import (
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game/Turn events
	EventGameStarted EventType = "GAME_STARTED"
	EventMulligan    EventType = "MULLIGAN"
	EventTurnStarted EventType = "TURN_STARTED"
	EventStepChanged EventType = "STEP_CHANGED"
	EventTurnEnding  EventType = "TURN_ENDING"
	EventGameWon     EventType = "GAME_WON"

	// Card movement events
	EventCardDrawn       EventType = "CARD_DRAWN"
	EventCardInked       EventType = "CARD_INKED"
	EventCardPlayed      EventType = "CARD_PLAYED"
	EventCardDiscarded   EventType = "CARD_DISCARDED"
	EventReturnedToHand  EventType = "RETURNED_TO_HAND"
	EventZoneChange      EventType = "ZONE_CHANGE"
	EventMovedToLocation EventType = "MOVED_TO_LOCATION"

	// Song events
	EventSongSung EventType = "SONG_SUNG"

	// Lore events
	EventQuested    EventType = "QUESTED"
	EventLoreGained EventType = "LORE_GAINED"
	EventLoreLost   EventType = "LORE_LOST"

	// Challenge/Damage events
	EventChallengeDeclared EventType = "CHALLENGE_DECLARED"
	EventDamageDealt       EventType = "DAMAGE_DEALT"
	EventDamageRemoved     EventType = "DAMAGE_REMOVED"
	EventBanished          EventType = "BANISHED"

	// Readiness events
	EventExerted EventType = "EXERTED"
	EventReadied EventType = "READIED"

	// Ability events
	EventAbilityActivated EventType = "ABILITY_ACTIVATED"
	EventAbilityResolved  EventType = "ABILITY_RESOLVED"
	EventEffectCreated    EventType = "EFFECT_CREATED"
)

// Event represents a state change that other subsystems may react to.
//
// TargetID is the card the event happened to and SourceID the card that caused
// it: for EventChallengeDeclared the attacker is the source and the defender the
// target; for EventBanished in a challenge the source is the other combatant and
// Flag is set.
type Event struct {
	Type       EventType
	ID         string
	TargetID   string
	SourceID   string
	Controller string
	PlayerID   string
	Amount     int
	Flag       bool
	Data       string
	Targets    []string
	Turn       int
	Timestamp  time.Time
	Metadata   map[string]string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType
	callback  Listener
}

// EventBus is a synchronous publish/subscribe bus. Listeners are called in
// subscription order so that delivery is deterministic.
type EventBus struct {
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: callback})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	for _, sub := range append([]subscription(nil), bus.subs...) {
		if sub.eventType != "" && sub.eventType != event.Type {
			continue
		}
		sub.callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: playerID,
		PlayerID:   playerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}

// NewEventWithFlag creates a new event with a flag value.
func NewEventWithFlag(eventType EventType, targetID, sourceID, playerID string, flag bool) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Flag = flag
	return evt
}
