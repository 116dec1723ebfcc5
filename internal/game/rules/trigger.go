package rules

import (
	"github.com/google/uuid"
)

// AbilityTrigger encapsulates the logic for reacting to a specific event on
// behalf of one triggered ability.
type AbilityTrigger struct {
	ID         string
	AbilityID  string
	SourceID   string
	Controller string
	EventType  EventType
	Condition  func(Event) bool
	Once       bool
}

// PendingTrigger is a trigger that fired and waits in the queue for resolution.
type PendingTrigger struct {
	ID         string
	AbilityID  string
	SourceID   string
	Controller string
	Event      Event
}

// TriggerManager stores and evaluates ability triggers against events.
// Triggers are evaluated in registration order.
type TriggerManager struct {
	triggers []AbilityTrigger
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{}
}

// Register adds a new trigger to the manager.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.triggers = append(tm.triggers, trigger)
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.filter(func(t AbilityTrigger) bool { return t.ID != id })
}

// UnregisterSource removes every trigger owned by a source card.
func (tm *TriggerManager) UnregisterSource(sourceID string) {
	tm.filter(func(t AbilityTrigger) bool { return t.SourceID != sourceID })
}

// Len returns the number of registered triggers.
func (tm *TriggerManager) Len() int {
	return len(tm.triggers)
}

// Handle evaluates the provided event against all registered triggers and
// returns the pending triggers they produce, in registration order.
func (tm *TriggerManager) Handle(event Event) []PendingTrigger {
	if len(tm.triggers) == 0 {
		return nil
	}

	var (
		pending []PendingTrigger
		fired   = make(map[string]bool)
	)
	for _, trigger := range tm.triggers {
		if trigger.EventType != event.Type {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		pending = append(pending, PendingTrigger{
			ID:         uuid.NewString(),
			AbilityID:  trigger.AbilityID,
			SourceID:   trigger.SourceID,
			Controller: trigger.Controller,
			Event:      event,
		})
		if trigger.Once {
			fired[trigger.ID] = true
		}
	}

	if len(fired) > 0 {
		tm.filter(func(t AbilityTrigger) bool { return !fired[t.ID] })
	}
	return pending
}

func (tm *TriggerManager) filter(keep func(AbilityTrigger) bool) {
	kept := tm.triggers[:0]
	for _, t := range tm.triggers {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	tm.triggers = kept
}
