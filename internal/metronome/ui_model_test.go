package metronome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUIModel(t *testing.T) (*UIModel, chan string) {
	t.Helper()
	logChan := make(chan string, 16)
	m := NewUIModel(testLogger(), logChan)
	t.Cleanup(m.Shutdown)
	return m, logChan
}

func receiveWithin[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for value")
		panic("unreachable")
	}
}

func TestUIModel_NilDependenciesPanic(t *testing.T) {
	assert.Panics(t, func() { NewUIModel(nil, make(chan string)) })
	assert.Panics(t, func() { NewUIModel(testLogger(), nil) })
}

func TestUIModel_LogLinesBufferedAndNotified(t *testing.T) {
	m, logChan := newTestUIModel(t)

	lineChan := make(chan string, 4)
	unregister := m.ListenToLog(lineChan)
	defer unregister()

	logChan <- "first line\n"
	logChan <- "second line\n"

	assert.Equal(t, "first line\n", receiveWithin(t, lineChan, time.Second))
	assert.Equal(t, "second line\n", receiveWithin(t, lineChan, time.Second))

	require.Eventually(t, func() bool { return len(m.GetLogTail(10)) == 2 },
		time.Second, time.Millisecond)
	assert.Equal(t, []string{"first line\n", "second line\n"}, m.GetLogTail(10))
}

func TestUIModel_GetLogTailBounds(t *testing.T) {
	m, logChan := newTestUIModel(t)

	for i := 0; i < 5; i++ {
		logChan <- "line\n"
	}
	require.Eventually(t, func() bool { return len(m.GetLogTail(10)) == 5 },
		time.Second, time.Millisecond)

	assert.Len(t, m.GetLogTail(3), 3)
	assert.Empty(t, m.GetLogTail(0))
	assert.Empty(t, m.GetLogTail(-1))
}

func TestUIModel_PaceState(t *testing.T) {
	m, _ := newTestUIModel(t)

	state := PaceState{
		Settings:     PaceSettings{Cadence: 20, DriveTime: 1, RecoverTime: 2},
		DerivedField: PaceFieldRecoverTime,
	}
	m.SetPaceState(state)

	assert.Equal(t, state, m.GetPaceState())

	// Late listeners get the current state replayed.
	ch := make(chan PaceState, 1)
	unregister := m.ListenToPaceState(ch)
	defer unregister()
	assert.Equal(t, state, receiveWithin(t, ch, time.Second))
}

func TestUIModel_CycleStatusDeduplicates(t *testing.T) {
	m, _ := newTestUIModel(t)

	m.SetCycleStatus(CycleStatusCycling)

	ch := make(chan CycleStatus, 4)
	unregister := m.ListenToCycleStatus(ch)
	defer unregister()
	assert.Equal(t, CycleStatusCycling, receiveWithin(t, ch, time.Second))

	// Setting the same status again must not notify.
	m.SetCycleStatus(CycleStatusCycling)
	select {
	case status := <-ch:
		t.Fatalf("unexpected duplicate notification: %v", status)
	case <-time.After(50 * time.Millisecond):
	}

	m.SetCycleStatus(CycleStatusIdle)
	assert.Equal(t, CycleStatusIdle, receiveWithin(t, ch, time.Second))
}

func TestUIModel_StrokeEffectsFanOut(t *testing.T) {
	m, _ := newTestUIModel(t)

	cueChan := make(chan CueID, 4)
	stopChan := make(chan struct{}, 1)
	visualChan := make(chan VisualState, 4)
	defer m.ListenToCues(cueChan)()
	defer m.ListenToStopCues(stopChan)()
	defer m.ListenToVisualState(visualChan)()

	m.PlayCue(CueCatch)
	assert.Equal(t, CueCatch, receiveWithin(t, cueChan, time.Second))

	m.SetVisualState(VisualStateCatch)
	assert.Equal(t, VisualStateCatch, receiveWithin(t, visualChan, time.Second))
	assert.Equal(t, VisualStateCatch, m.GetVisualState())

	m.StopCues()
	receiveWithin(t, stopChan, time.Second)
}

func TestUIModel_CloseApplication(t *testing.T) {
	m, _ := newTestUIModel(t)

	ch := make(chan struct{}, 1)
	unregister := m.ListenToCloseApplication(ch)
	defer unregister()

	m.RequestCloseApplication()
	receiveWithin(t, ch, time.Second)
}
