package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackEvent_NotifyInvokesAllListeners(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var mu sync.Mutex
	var got1, got2 []int
	unregister1 := event.Listen(func(v int) {
		mu.Lock()
		got1 = append(got1, v)
		mu.Unlock()
	})
	unregister2 := event.Listen(func(v int) {
		mu.Lock()
		got2 = append(got2, v)
		mu.Unlock()
	})
	require.Equal(t, 2, event.ListenerCount())

	event.Notify(3)
	event.Notify(5)

	mu.Lock()
	assert.Equal(t, []int{3, 5}, got1)
	assert.Equal(t, []int{3, 5}, got2)
	mu.Unlock()

	unregister1()
	unregister2()
	assert.Equal(t, 0, event.ListenerCount())
}

func TestCallbackEvent_UnregisterStopsDelivery(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var got []string
	unregister := event.Listen(func(v string) { got = append(got, v) })
	unregister()

	event.Notify("late")
	assert.Empty(t, got)
}

func TestCallbackEvent_ReplayLast(t *testing.T) {
	event := NewCallbackEvent[string](true)

	var early []string
	unregisterEarly := event.Listen(func(v string) { early = append(early, v) })
	assert.Empty(t, early, "no replay before first Notify")

	event.Notify("finish")
	assert.Equal(t, []string{"finish"}, early)

	var late []string
	unregisterLate := event.Listen(func(v string) { late = append(late, v) })
	assert.Equal(t, []string{"finish"}, late, "late subscriber replays last value")

	unregisterEarly()
	unregisterLate()
}

func TestCallbackEvent_NoReplayWhenDisabled(t *testing.T) {
	event := NewCallbackEvent[string](false)
	event.Notify("first")

	var got []string
	unregister := event.Listen(func(v string) { got = append(got, v) })
	defer unregister()

	assert.Empty(t, got)
}

func TestCallbackEvent_NilCallbackPanics(t *testing.T) {
	event := NewCallbackEvent[int](false)
	assert.Panics(t, func() { event.Listen(nil) })
}

func TestCallbackEvent_ListenerMayUnregisterItself(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var calls int
	var unregister func()
	unregister = event.Listen(func(int) {
		calls++
		unregister()
	})

	event.Notify(1)
	event.Notify(2)
	assert.Equal(t, 1, calls)
}
