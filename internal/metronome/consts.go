package metronome

import "time"

// PaceField identifies one of the three user-editable pace values.
type PaceField string

const (
	PaceFieldCadence     PaceField = "cadence"
	PaceFieldDriveTime   PaceField = "drive_time"
	PaceFieldRecoverTime PaceField = "recover_time"
)

// AllPaceFields lists the pace fields in display order.
var AllPaceFields = []PaceField{
	PaceFieldCadence,
	PaceFieldDriveTime,
	PaceFieldRecoverTime,
}

// PaceFieldInfo contains display information for a pace field.
type PaceFieldInfo struct {
	ID          PaceField
	DisplayName string
	Unit        string
	FormatStr   string // Printf format string for the value
}

// AllPaceFieldInfos defines metadata for all pace fields.
var AllPaceFieldInfos = map[PaceField]PaceFieldInfo{
	PaceFieldCadence: {
		ID:          PaceFieldCadence,
		DisplayName: "Stroke Rate",
		Unit:        "spm",
		FormatStr:   "%.2f",
	},
	PaceFieldDriveTime: {
		ID:          PaceFieldDriveTime,
		DisplayName: "Drive Time",
		Unit:        "s",
		FormatStr:   "%.2f",
	},
	PaceFieldRecoverTime: {
		ID:          PaceFieldRecoverTime,
		DisplayName: "Recover Time",
		Unit:        "s",
		FormatStr:   "%.2f",
	},
}

// GetPaceFieldInfo returns the metadata for a given pace field.
func GetPaceFieldInfo(id PaceField) (PaceFieldInfo, bool) {
	info, ok := AllPaceFieldInfos[id]
	return info, ok
}

// CueID identifies an audio cue the scheduler can trigger.
type CueID string

const (
	CueCountdown CueID = "countdown"
	CueCatch     CueID = "catch"
	CueRecover   CueID = "recover"
)

// VisualState identifies the highlight the rower display should show.
type VisualState string

const (
	VisualStateNone   VisualState = ""
	VisualStateCatch  VisualState = "catch"
	VisualStateFinish VisualState = "finish"
)

// CycleStatus represents the current state of the cycle scheduler.
type CycleStatus int

const (
	CycleStatusIdle      CycleStatus = iota // Not running
	CycleStatusCountdown                    // Countdown cue playing before the first stroke
	CycleStatusCycling                      // Stroke cycle repeating
)

// String returns a short display name for the status.
func (s CycleStatus) String() string {
	switch s {
	case CycleStatusCountdown:
		return "Countdown"
	case CycleStatusCycling:
		return "Rowing"
	default:
		return "Stopped"
	}
}

// Timer labels used by the cycle scheduler. Each concurrently pending delay
// in one run has a distinct label so a global stop can cancel all of them.
const (
	timerLabelCountdown         = "countdown"
	timerLabelIterationBoundary = "iteration_boundary"
	timerLabelCueRecover        = "cue_recover"
	timerLabelCueRest           = "cue_rest"
	timerLabelCatchHighlight    = "catch_highlight"
	timerLabelFinishDelay       = "finish_delay"
	timerLabelFinishHighlight   = "finish_highlight"
)

// Default timing constants. The countdown matches the lead-in of the
// countdown cue; both are overridable through configuration.
const (
	DefaultCountdownDuration = 3300 * time.Millisecond
	DefaultHighlightDuration = 250 * time.Millisecond
)
