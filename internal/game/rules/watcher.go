package rules

// Watcher observes events and tracks per-turn facts used by conditions and stats.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)
	// Reset clears per-turn state; called when a turn ends.
	Reset()
	// Key returns a unique key for this watcher instance.
	Key() string
}

// BaseWatcher provides the key and condition flag shared by watchers.
type BaseWatcher struct {
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher with the given key.
func NewBaseWatcher(key string) *BaseWatcher {
	return &BaseWatcher{key: key}
}

// Key returns the unique key for this watcher.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// ConditionMet returns whether the watched condition happened this turn.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// WatcherRegistry manages the watchers of one game.
type WatcherRegistry struct {
	watchers []Watcher
	byKey    map[string]Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		byKey: make(map[string]Watcher),
	}
}

// Add registers a watcher, replacing any watcher with the same key.
func (wr *WatcherRegistry) Add(watcher Watcher) {
	if watcher == nil {
		return
	}
	key := watcher.Key()
	if _, exists := wr.byKey[key]; exists {
		wr.Remove(key)
	}
	wr.byKey[key] = watcher
	wr.watchers = append(wr.watchers, watcher)
}

// Remove unregisters a watcher by key.
func (wr *WatcherRegistry) Remove(key string) {
	if _, ok := wr.byKey[key]; !ok {
		return
	}
	delete(wr.byKey, key)
	for i, w := range wr.watchers {
		if w.Key() == key {
			wr.watchers = append(wr.watchers[:i], wr.watchers[i+1:]...)
			break
		}
	}
}

// Get retrieves a watcher by key.
func (wr *WatcherRegistry) Get(key string) Watcher {
	return wr.byKey[key]
}

// Notify forwards the event to every watcher in registration order.
func (wr *WatcherRegistry) Notify(event Event) {
	for _, watcher := range wr.watchers {
		watcher.Watch(event)
	}
}

// ResetAll resets every watcher.
func (wr *WatcherRegistry) ResetAll() {
	for _, watcher := range wr.watchers {
		watcher.Reset()
	}
}
