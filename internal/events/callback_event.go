package events

import "sync"

// CallbackEvent fans a value out to subscribed callback functions.
// T is the type of the value passed to each callback.
type CallbackEvent[T any] struct {
	mu          sync.RWMutex
	subscribers map[uint64]func(T)
	nextID      uint64
	replayLast  bool
	last        *T
}

// NewCallbackEvent creates a CallbackEvent.
// replayLast: when true, a callback registered after at least one Notify
// is invoked immediately with the most recent value.
func NewCallbackEvent[T any](replayLast bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{
		subscribers: make(map[uint64]func(T)),
		replayLast:  replayLast,
	}
}

// Listen subscribes a callback to future Notify calls and returns a
// deregistration function.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("events: callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subscribers[id] = callback
	replay := e.last
	e.mu.Unlock()

	// Invoke outside the lock so the callback may call back into the event.
	if e.replayLast && replay != nil {
		callback(*replay)
	}

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

// Notify invokes every subscribed callback with value. Callbacks run on the
// notifier's goroutine, outside the internal lock. Thread-safe.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		v := value
		e.last = &v
	}
	targets := make([]func(T), 0, len(e.subscribers))
	for _, cb := range e.subscribers {
		targets = append(targets, cb)
	}
	e.mu.Unlock()

	for _, cb := range targets {
		cb(value)
	}
}

// ListenerCount reports the number of active subscriptions.
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers)
}
