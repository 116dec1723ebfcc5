package rules

import "errors"

// ErrQueueEmpty is returned when popping an empty trigger queue.
var ErrQueueEmpty = errors.New("trigger queue empty")

// TriggerQueue holds fired triggers until the engine resolves them.
// Triggers resolve first-in first-out; triggers raised while one resolves
// are appended behind the ones already waiting.
type TriggerQueue struct {
	items []PendingTrigger
}

// NewTriggerQueue creates an empty queue.
func NewTriggerQueue() *TriggerQueue {
	return &TriggerQueue{items: make([]PendingTrigger, 0, 8)}
}

// Push appends triggers to the back of the queue.
func (q *TriggerQueue) Push(items ...PendingTrigger) {
	q.items = append(q.items, items...)
}

// Pop removes the trigger at the front of the queue.
func (q *TriggerQueue) Pop() (PendingTrigger, error) {
	if len(q.items) == 0 {
		return PendingTrigger{}, ErrQueueEmpty
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Peek returns the front trigger without removing it.
func (q *TriggerQueue) Peek() (PendingTrigger, bool) {
	if len(q.items) == 0 {
		return PendingTrigger{}, false
	}
	return q.items[0], true
}

// Remove deletes a queued trigger by ID.
func (q *TriggerQueue) Remove(id string) (PendingTrigger, bool) {
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return item, true
		}
	}
	return PendingTrigger{}, false
}

// List returns a copy of the queued triggers, front first.
func (q *TriggerQueue) List() []PendingTrigger {
	return append([]PendingTrigger(nil), q.items...)
}

// Len returns the number of queued triggers.
func (q *TriggerQueue) Len() int {
	return len(q.items)
}

// IsEmpty returns whether the queue is empty.
func (q *TriggerQueue) IsEmpty() bool {
	return len(q.items) == 0
}
