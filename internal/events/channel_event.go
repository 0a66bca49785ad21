package events

import "sync"

// ChannelEvent fans a value out to subscribed channels.
// T is the type of the value delivered on Notify.
type ChannelEvent[T any] struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan<- T
	nextID      uint64
	replayLast  bool
	last        *T
}

// NewChannelEvent creates a ChannelEvent.
// replayLast: when true, a subscriber added after at least one Notify
// immediately receives the most recent value.
func NewChannelEvent[T any](replayLast bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{
		subscribers: make(map[uint64]chan<- T),
		replayLast:  replayLast,
	}
}

// Listen subscribes a channel to future Notify calls and returns a
// deregistration function. Delivery is non-blocking: a full channel is
// skipped rather than blocking the notifier.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("events: channel cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subscribers[id] = ch
	replay := e.last
	e.mu.Unlock()

	// Replay outside the lock so a same-goroutine receive can't deadlock.
	if e.replayLast && replay != nil {
		select {
		case ch <- *replay:
		default:
		}
	}

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

// Notify delivers value to every subscribed channel. Thread-safe.
func (e *ChannelEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		v := value
		e.last = &v
	}
	targets := make([]chan<- T, 0, len(e.subscribers))
	for _, ch := range e.subscribers {
		targets = append(targets, ch)
	}
	e.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- value:
		default:
		}
	}
}

// ListenerCount reports the number of active subscriptions.
func (e *ChannelEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers)
}
