package metronome

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/rowing-metronome/internal/events"
	"github.com/lowaak/rowing-metronome/internal/go_func_utils"
)

// PaceState is what the view renders for the three pace fields.
type PaceState struct {
	Settings     PaceSettings
	DerivedField PaceField // which field was last derived, "" if none yet
}

// UIModel is the observable state shared between the core and the views.
// It also implements StrokeEffects: the scheduler's cues and highlights are
// fanned out to whatever views are listening.
type UIModel struct {
	logEvent              *events.ChannelEvent[string]
	closeApplicationEvent *events.ChannelEvent[struct{}]
	paceStateEvent        *events.ChannelEvent[PaceState]
	cycleStatusEvent      *events.ChannelEvent[CycleStatus]
	visualStateEvent      *events.ChannelEvent[VisualState]
	cueEvent              *events.ChannelEvent[CueID]
	stopCuesEvent         *events.ChannelEvent[struct{}]

	mu          sync.RWMutex
	paceState   PaceState
	cycleStatus CycleStatus
	visualState VisualState

	logMu    sync.RWMutex
	logLines []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *log.Logger
}

const maxLogLines = 1000

// NewUIModel creates a UIModel and starts consuming uiLogChan into the log
// line buffer.
func NewUIModel(logger *log.Logger, uiLogChan <-chan string) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &UIModel{
		logEvent:              events.NewChannelEvent[string](false),
		closeApplicationEvent: events.NewChannelEvent[struct{}](true),
		paceStateEvent:        events.NewChannelEvent[PaceState](true),
		cycleStatusEvent:      events.NewChannelEvent[CycleStatus](true),
		visualStateEvent:      events.NewChannelEvent[VisualState](true),
		cueEvent:              events.NewChannelEvent[CueID](false),
		stopCuesEvent:         events.NewChannelEvent[struct{}](false),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}

	go_func_utils.SafeGoWG(logger, &m.wg, func() { m.readFromLogChannel(ctx, uiLogChan) })

	return m
}

// Shutdown stops the model's goroutines and waits for them to finish.
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// --- Pace state ---

// ListenToPaceState registers a channel for pace display updates.
// Returns a deregistration function.
func (m *UIModel) ListenToPaceState(ch chan<- PaceState) func() {
	return m.paceStateEvent.Listen(ch)
}

// GetPaceState returns the current pace display state.
func (m *UIModel) GetPaceState() PaceState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paceState
}

// SetPaceState updates the pace display state and notifies listeners.
func (m *UIModel) SetPaceState(state PaceState) {
	m.mu.Lock()
	m.paceState = state
	m.mu.Unlock()

	m.paceStateEvent.Notify(state)
}

// --- Cycle status ---

// ListenToCycleStatus registers a channel for scheduler status changes.
// Returns a deregistration function.
func (m *UIModel) ListenToCycleStatus(ch chan<- CycleStatus) func() {
	return m.cycleStatusEvent.Listen(ch)
}

// GetCycleStatus returns the last observed scheduler status.
func (m *UIModel) GetCycleStatus() CycleStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cycleStatus
}

// SetCycleStatus records the scheduler status and notifies listeners.
func (m *UIModel) SetCycleStatus(status CycleStatus) {
	m.mu.Lock()
	if m.cycleStatus == status {
		m.mu.Unlock()
		return
	}
	m.cycleStatus = status
	m.mu.Unlock()

	m.cycleStatusEvent.Notify(status)
}

// --- Stroke effects (scheduler-facing) ---

// PlayCue forwards an audio cue to listening views.
func (m *UIModel) PlayCue(cue CueID) {
	m.cueEvent.Notify(cue)
}

// StopCues tells listening views to silence any in-progress audio.
func (m *UIModel) StopCues() {
	m.stopCuesEvent.Notify(struct{}{})
}

// SetVisualState records the rower highlight and notifies listeners.
func (m *UIModel) SetVisualState(state VisualState) {
	m.mu.Lock()
	m.visualState = state
	m.mu.Unlock()

	m.visualStateEvent.Notify(state)
}

// GetVisualState returns the current rower highlight.
func (m *UIModel) GetVisualState() VisualState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visualState
}

// ListenToVisualState registers a channel for highlight changes.
// Returns a deregistration function.
func (m *UIModel) ListenToVisualState(ch chan<- VisualState) func() {
	return m.visualStateEvent.Listen(ch)
}

// ListenToCues registers a channel for audio cues.
// Returns a deregistration function.
func (m *UIModel) ListenToCues(ch chan<- CueID) func() {
	return m.cueEvent.Listen(ch)
}

// ListenToStopCues registers a channel for silence requests.
// Returns a deregistration function.
func (m *UIModel) ListenToStopCues(ch chan<- struct{}) func() {
	return m.stopCuesEvent.Listen(ch)
}

// --- Application lifecycle ---

// ListenToCloseApplication registers a channel for the close signal.
// Returns a deregistration function.
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.Listen(ch)
}

// RequestCloseApplication signals that the application should close.
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// --- Log pane ---

// ListenToLog registers a channel for new log lines.
// Returns a deregistration function.
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// GetLogTail returns the last n log lines.
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n > len(m.logLines) {
		n = len(m.logLines)
	}
	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}

// readFromLogChannel buffers log lines for the pane and notifies listeners.
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}
