package metronome

import (
	"sync"
	"time"
)

// TimerSet provides cancellable delays keyed by label. One run of the cycle
// scheduler owns one TimerSet, so a global stop can cancel every pending
// delay without knowing which sub-sequences are mid-wait.
type TimerSet struct {
	mu      sync.Mutex
	pending map[string]chan struct{}
}

// NewTimerSet creates an empty TimerSet.
func NewTimerSet() *TimerSet {
	return &TimerSet{pending: make(map[string]chan struct{})}
}

// Wait blocks for d and reports whether the full duration elapsed. A false
// return means the wait was cancelled; a cancelled wait never "fires".
// Waiting on a label that is already pending supersedes the earlier wait.
func (ts *TimerSet) Wait(d time.Duration, label string) bool {
	cancel := make(chan struct{})

	ts.mu.Lock()
	if prev, ok := ts.pending[label]; ok {
		close(prev)
	}
	ts.pending[label] = cancel
	ts.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		ts.mu.Lock()
		// Only remove our own entry; a newer wait may have replaced it.
		if ts.pending[label] == cancel {
			delete(ts.pending, label)
		}
		ts.mu.Unlock()
		return true
	case <-cancel:
		return false
	}
}

// Cancel cancels the pending wait under label, if any.
func (ts *TimerSet) Cancel(label string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ch, ok := ts.pending[label]; ok {
		close(ch)
		delete(ts.pending, label)
	}
}

// CancelAll cancels every pending wait.
func (ts *TimerSet) CancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for label, ch := range ts.pending {
		close(ch)
		delete(ts.pending, label)
	}
}

// PendingCount reports the number of outstanding waits.
func (ts *TimerSet) PendingCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.pending)
}
