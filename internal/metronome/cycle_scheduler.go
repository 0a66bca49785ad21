package metronome

import (
	"log"
	"sync"
	"time"

	"github.com/lowaak/rowing-metronome/internal/events"
	"github.com/lowaak/rowing-metronome/internal/go_func_utils"
)

// StrokeEffects is the output collaborator the scheduler drives. The core
// triggers these side effects but does not implement them; the UI layer does.
type StrokeEffects interface {
	// PlayCue triggers a discrete audio cue.
	PlayCue(cue CueID)
	// StopCues silences any in-progress audio.
	StopCues()
	// SetVisualState sets the rower highlight (VisualStateNone clears it).
	SetVisualState(state VisualState)
}

// cycleRun holds everything owned by one start-to-stop run: its timers and a
// cancelled flag checked before every side effect. Cancelling the run means
// no effect dispatched through it can fire afterwards.
type cycleRun struct {
	timers *TimerSet

	mu        sync.Mutex
	cancelled bool
}

func newCycleRun() *cycleRun {
	return &cycleRun{timers: NewTimerSet()}
}

// do runs fn unless the run has been cancelled. The lock is held across fn
// so a concurrent cancel cannot slip between the check and the effect.
func (r *cycleRun) do(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled {
		return false
	}
	fn()
	return true
}

func (r *cycleRun) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// wait suspends for d under label. False means the run was cancelled, before,
// during, or immediately after the delay; the caller must abandon its sequence.
func (r *cycleRun) wait(d time.Duration, label string) bool {
	if r.isCancelled() {
		return false
	}
	if !r.timers.Wait(d, label) {
		return false
	}
	return !r.isCancelled()
}

// cancel marks the run cancelled, then cancels every pending delay. The flag
// is set first so a wait that registers concurrently still observes it.
func (r *cycleRun) cancel() {
	r.mu.Lock()
	r.cancelled = true
	r.mu.Unlock()
	r.timers.CancelAll()
}

// CycleScheduler runs the repeating stroke cycle: a countdown, then per
// iteration a cue sequence and two highlight sequences, all re-triggered at
// each self-timed iteration boundary (60/cadence seconds).
//
// States: Idle -> Countdown -> Cycling -> Idle. Start while not Idle is a
// silent no-op (toggle contract: callers stop first for restart semantics);
// Stop is safe from any state.
type CycleScheduler struct {
	effects StrokeEffects
	logger  *log.Logger

	countdownDuration time.Duration
	highlightDuration time.Duration

	statusEvent *events.CallbackEvent[CycleStatus]

	mu     sync.Mutex
	status CycleStatus
	run    *cycleRun // current run, nil when idle

	// Serializes status notifications in state-change order; see publish.
	notifyMu sync.Mutex

	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewCycleScheduler creates an idle scheduler. countdown is the lead-in
// before the first stroke; highlight is how long catch/finish stay lit.
func NewCycleScheduler(effects StrokeEffects, countdown, highlight time.Duration, logger *log.Logger) *CycleScheduler {
	if effects == nil {
		panic("CycleScheduler: effects cannot be nil")
	}
	if logger == nil {
		panic("CycleScheduler: logger cannot be nil")
	}
	return &CycleScheduler{
		effects:           effects,
		logger:            logger,
		countdownDuration: countdown,
		highlightDuration: highlight,
		statusEvent:       events.NewCallbackEvent[CycleStatus](true),
		status:            CycleStatusIdle,
	}
}

// ListenToStatus registers a callback for status changes. The most recent
// change is replayed to new listeners. Returns a deregistration function.
// Callbacks run on the scheduler's goroutines and must not call back into it.
func (s *CycleScheduler) ListenToStatus(callback func(CycleStatus)) func() {
	return s.statusEvent.Listen(callback)
}

// publish delivers a status change to listeners. Callers hold s.mu; publish
// takes the notify lock before releasing it, so notifications always arrive
// in the order the status changes were made even when Start and Stop race.
func (s *CycleScheduler) publish(status CycleStatus) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	s.statusEvent.Notify(status)
	s.notifyMu.Unlock()
}

// Status returns the current scheduler status.
func (s *CycleScheduler) Status() CycleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start begins the countdown followed by the repeating stroke cycle.
// No-op unless idle and all three pace values are positive.
func (s *CycleScheduler) Start(pace PaceSettings) {
	s.mu.Lock()
	if s.status != CycleStatusIdle {
		s.mu.Unlock()
		s.logger.Printf("CycleScheduler: not idle, ignoring start")
		return
	}
	if !pace.Complete() {
		s.mu.Unlock()
		s.logger.Printf("CycleScheduler: pace incomplete, ignoring start (cadence=%v drive=%v recover=%v)",
			pace.Cadence, pace.DriveTime, pace.RecoverTime)
		return
	}
	run := newCycleRun()
	s.run = run
	s.status = CycleStatusCountdown
	s.publish(CycleStatusCountdown)

	s.logger.Printf("CycleScheduler: starting (cadence=%.2f spm, drive=%.2fs, recover=%.2fs)",
		pace.Cadence, pace.DriveTime, pace.RecoverTime)

	go_func_utils.SafeGoWG(s.logger, &s.wg, func() { s.runCycle(run, pace) })
}

// Stop cancels every outstanding delay, clears the visual state, silences
// audio, and forces the scheduler idle. Safe to call from any state.
func (s *CycleScheduler) Stop() {
	s.mu.Lock()
	run := s.run
	s.run = nil
	wasRunning := s.status != CycleStatusIdle
	s.status = CycleStatusIdle
	if wasRunning {
		s.publish(CycleStatusIdle)
	} else {
		s.mu.Unlock()
	}

	if run != nil {
		run.cancel()
	}

	// Cleared unconditionally so a stop from any state leaves a clean slate.
	s.effects.SetVisualState(VisualStateNone)
	s.effects.StopCues()

	if wasRunning {
		s.logger.Printf("CycleScheduler: stopped")
	}
}

// Shutdown stops the scheduler and waits for all run goroutines to finish.
// Safe to call multiple times - only the first call has effect.
func (s *CycleScheduler) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.logger.Printf("CycleScheduler: shutting down")
		s.Stop()
		s.wg.Wait()
		s.logger.Printf("CycleScheduler: shutdown complete")
	})
}

// transition moves the scheduler to the given status, but only if run is
// still the current run (a stop may have intervened).
func (s *CycleScheduler) transition(run *cycleRun, to CycleStatus) bool {
	s.mu.Lock()
	if s.run != run {
		s.mu.Unlock()
		return false
	}
	s.status = to
	s.publish(to)
	return true
}

// runCycle is the main sequence of one run: countdown, then loop iterations
// until cancelled. The iteration boundary is self-timed at 60/cadence
// seconds rather than depending on an external animation tick, so the cue
// and highlight timers cannot drift apart from the visual loop.
func (s *CycleScheduler) runCycle(run *cycleRun, pace PaceSettings) {
	run.do(func() { s.effects.PlayCue(CueCountdown) })
	if !run.wait(s.countdownDuration, timerLabelCountdown) {
		return
	}
	if !s.transition(run, CycleStatusCycling) {
		return
	}

	boundary := time.Duration(60 / pace.Cadence * float64(time.Second))
	drive := time.Duration(pace.DriveTime * float64(time.Second))
	recoverTime := time.Duration(pace.RecoverTime * float64(time.Second))

	for {
		// Three independent sub-sequences per iteration. None waits for
		// another; they interleave by real time only.
		go_func_utils.SafeGoWG(s.logger, &s.wg, func() { s.runCueSequence(run, drive, recoverTime) })
		go_func_utils.SafeGoWG(s.logger, &s.wg, func() { s.runCatchHighlight(run) })
		go_func_utils.SafeGoWG(s.logger, &s.wg, func() { s.runFinishHighlight(run, drive) })

		if !run.wait(boundary, timerLabelIterationBoundary) {
			return
		}
	}
}

// runCueSequence plays the catch cue at the start of the drive and the
// recover cue at the finish.
func (s *CycleScheduler) runCueSequence(run *cycleRun, drive, recoverTime time.Duration) {
	if !run.do(func() { s.effects.PlayCue(CueCatch) }) {
		return
	}
	if !run.wait(drive, timerLabelCueRecover) {
		return
	}
	if !run.do(func() { s.effects.PlayCue(CueRecover) }) {
		return
	}
	// The sequence idles out the recovery; the next iteration boundary
	// re-triggers it.
	run.wait(recoverTime, timerLabelCueRest)
}

// runCatchHighlight flashes the catch highlight at the start of the drive.
func (s *CycleScheduler) runCatchHighlight(run *cycleRun) {
	if !run.do(func() { s.effects.SetVisualState(VisualStateCatch) }) {
		return
	}
	if !run.wait(s.highlightDuration, timerLabelCatchHighlight) {
		return
	}
	run.do(func() { s.effects.SetVisualState(VisualStateNone) })
}

// runFinishHighlight flashes the finish highlight at the end of the drive.
func (s *CycleScheduler) runFinishHighlight(run *cycleRun, drive time.Duration) {
	if !run.wait(drive, timerLabelFinishDelay) {
		return
	}
	if !run.do(func() { s.effects.SetVisualState(VisualStateFinish) }) {
		return
	}
	if !run.wait(s.highlightDuration, timerLabelFinishHighlight) {
		return
	}
	run.do(func() { s.effects.SetVisualState(VisualStateNone) })
}
