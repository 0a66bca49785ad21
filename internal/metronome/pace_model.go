package metronome

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"
	"sync"
)

// ErrInvalidPace indicates numerically inconsistent inputs: the derived
// value would be negative or the known values leave nothing to divide by.
// Recoverable - the model resets itself and the user re-enters values.
var ErrInvalidPace = errors.New("pace values are inconsistent")

// ErrInternal indicates a precondition violation in the calling code, such
// as deriving before two distinct fields have been edited.
var ErrInternal = errors.New("internal pace model error")

// PaceSettings holds the three pace values. When all three are non-zero the
// invariant Cadence == Round2(60/(DriveTime+RecoverTime)) holds.
type PaceSettings struct {
	Cadence     float64 // strokes per minute
	DriveTime   float64 // seconds
	RecoverTime float64 // seconds
}

// Get returns the value stored under the given field.
func (s PaceSettings) Get(field PaceField) float64 {
	switch field {
	case PaceFieldCadence:
		return s.Cadence
	case PaceFieldDriveTime:
		return s.DriveTime
	case PaceFieldRecoverTime:
		return s.RecoverTime
	}
	return 0
}

// set stores value under the given field and reports whether the field is known.
func (s *PaceSettings) set(field PaceField, value float64) bool {
	switch field {
	case PaceFieldCadence:
		s.Cadence = value
	case PaceFieldDriveTime:
		s.DriveTime = value
	case PaceFieldRecoverTime:
		s.RecoverTime = value
	default:
		return false
	}
	return true
}

// Complete reports whether all three values are positive. Pace values are
// never negative; a zero field is one that has not been filled in yet.
func (s PaceSettings) Complete() bool {
	return s.Cadence > 0 && s.DriveTime > 0 && s.RecoverTime > 0
}

// Round2 rounds to two decimal places, halves away from zero. It operates on
// the shortest decimal representation of x, so decimal ties like 2.345
// (binary 2.34499...) still round up instead of truncating.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(x, 'g', -1, 64))
	if !ok {
		return math.Round(x*100) / 100
	}
	out, _ := strconv.ParseFloat(r.FloatString(2), 64)
	return out
}

// PaceModel owns the pace settings and tracks which two fields were most
// recently edited so the remaining one can be derived.
type PaceModel struct {
	mu       sync.Mutex
	settings PaceSettings
	recent   []PaceField // last two distinct edited fields, oldest first
	logger   *log.Logger
}

// NewPaceModel creates a PaceModel with all fields zero.
func NewPaceModel(logger *log.Logger) *PaceModel {
	if logger == nil {
		panic("PaceModel: logger cannot be nil")
	}
	return &PaceModel{logger: logger}
}

// RecordEdit parses raw (invalid, empty or negative input counts as 0),
// stores it under field, and records the edit. It never derives anything
// itself; callers check Ready and then call DeriveRemaining.
func (m *PaceModel) RecordEdit(field PaceField, raw string) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.settings.set(field, value) {
		m.logger.Printf("PaceModel: ignoring edit of unknown field %q", field)
		return
	}
	m.touchLocked(field)
	m.logger.Printf("PaceModel: %s = %v (recent: %v)", field, value, m.recent)
}

// touchLocked records field as most recently edited. A repeat of the current
// most-recent entry is a no-op; the buffer never exceeds two entries.
func (m *PaceModel) touchLocked(field PaceField) {
	n := len(m.recent)
	if n > 0 && m.recent[n-1] == field {
		return
	}
	// Re-editing the older entry moves it to the front of the window.
	for i, f := range m.recent {
		if f == field {
			m.recent = append(m.recent[:i], m.recent[i+1:]...)
			break
		}
	}
	m.recent = append(m.recent, field)
	if len(m.recent) > 2 {
		m.recent = m.recent[len(m.recent)-2:]
	}
}

// Ready reports whether two distinct fields have been edited, i.e. whether
// the third can be derived.
func (m *PaceModel) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recent) == 2
}

// Settings returns a copy of the current pace values.
func (m *PaceModel) Settings() PaceSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// DeriveRemaining computes the one field absent from the recency window from
// the two present ones, stores it, and returns which field was derived.
//
// On ErrInvalidPace the model has already performed a full reset (all fields
// zero, recency cleared); it is never left partially updated. ErrInternal
// means the caller violated the two-edits precondition.
func (m *PaceModel) DeriveRemaining() (PaceField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []PaceField
	for _, field := range AllPaceFields {
		if !m.inRecentLocked(field) {
			candidates = append(candidates, field)
		}
	}
	if len(candidates) != 1 {
		return "", fmt.Errorf("%w: %d candidate fields, want 1 (recent: %v)",
			ErrInternal, len(candidates), m.recent)
	}

	target := candidates[0]
	value, err := m.deriveLocked(target)
	if err != nil {
		m.logger.Printf("PaceModel: derive %s failed (%v), resetting", target, err)
		m.resetLocked()
		return target, err
	}

	m.settings.set(target, value)
	m.logger.Printf("PaceModel: derived %s = %v", target, value)
	return target, nil
}

// deriveLocked computes the value for target from the other two fields.
func (m *PaceModel) deriveLocked(target PaceField) (float64, error) {
	s := m.settings
	switch target {
	case PaceFieldCadence:
		iterationDuration := s.DriveTime + s.RecoverTime
		if iterationDuration <= 0 {
			return 0, fmt.Errorf("%w: drive+recover = %v", ErrInvalidPace, iterationDuration)
		}
		return Round2(60 / iterationDuration), nil
	case PaceFieldDriveTime:
		if s.Cadence <= 0 {
			return 0, fmt.Errorf("%w: cadence = %v", ErrInvalidPace, s.Cadence)
		}
		drive := Round2(60/s.Cadence - s.RecoverTime)
		if drive < 0 {
			return 0, fmt.Errorf("%w: drive time = %v", ErrInvalidPace, drive)
		}
		return drive, nil
	case PaceFieldRecoverTime:
		if s.Cadence <= 0 {
			return 0, fmt.Errorf("%w: cadence = %v", ErrInvalidPace, s.Cadence)
		}
		recoverTime := Round2(60/s.Cadence - s.DriveTime)
		if recoverTime < 0 {
			return 0, fmt.Errorf("%w: recover time = %v", ErrInvalidPace, recoverTime)
		}
		return recoverTime, nil
	}
	return 0, fmt.Errorf("%w: unknown field %q", ErrInternal, target)
}

func (m *PaceModel) inRecentLocked(field PaceField) bool {
	for _, f := range m.recent {
		if f == field {
			return true
		}
	}
	return false
}

// Reset zeroes all fields and clears the edit history. Idempotent.
func (m *PaceModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *PaceModel) resetLocked() {
	m.settings = PaceSettings{}
	m.recent = nil
}
