package metronome

import (
	"fmt"
	"math"
	"time"
)

// AnimationParams are the two numbers the rower animation needs: how long one
// full stroke takes and what share of it is the drive. This replaces the
// original string-built keyframes; rendering is the view's concern.
type AnimationParams struct {
	CycleDuration    time.Duration // one full stroke, 60/cadence seconds
	DriveFractionPct float64       // share of the cycle spent in the drive, 0..100
}

// ComputeAnimationParams derives the animation parameters from a complete
// pace. Fails if any value is zero or negative.
func ComputeAnimationParams(pace PaceSettings) (AnimationParams, error) {
	if !pace.Complete() || pace.Cadence < 0 || pace.DriveTime < 0 || pace.RecoverTime < 0 {
		return AnimationParams{}, fmt.Errorf("%w: animation needs a complete pace", ErrInvalidPace)
	}
	return AnimationParams{
		CycleDuration:    time.Duration(60 / pace.Cadence * float64(time.Second)),
		DriveFractionPct: 100 * pace.DriveTime / (pace.DriveTime + pace.RecoverTime),
	}, nil
}

// rowerFrames are the drive positions from catch to finish. The recovery
// plays them in reverse, sliding back up to the catch.
var rowerFrames = []string{
	`     _o
      |\_
  ____|__\_____
 (_____________)`,
	`      o
     /|\_
  ___/|__\_____
 (_____________)`,
	`      o_
      /|_\_
  ___/_|___\___
 (_____________)`,
	`       o__
       |\__\_
  _____|___\___
 (_____________)`,
}

// FrameCount reports the number of distinct rower positions.
func FrameCount() int {
	return len(rowerFrames)
}

// RowerFrame returns the art for position i, clamped to the valid range.
func RowerFrame(i int) string {
	if i < 0 {
		i = 0
	}
	if i >= len(rowerFrames) {
		i = len(rowerFrames) - 1
	}
	return rowerFrames[i]
}

// FrameIndexAt maps a point in time to a rower position: forward through the
// frames over the drive fraction of the cycle, backward over the recovery.
// elapsed is time since the cycle began and may span many cycles.
func FrameIndexAt(params AnimationParams, elapsed time.Duration) int {
	if params.CycleDuration <= 0 {
		return 0
	}
	phase := math.Mod(float64(elapsed), float64(params.CycleDuration)) / float64(params.CycleDuration) * 100
	if phase < 0 {
		phase += 100
	}

	n := len(rowerFrames)
	drive := params.DriveFractionPct
	if phase < drive || drive >= 100 {
		if drive <= 0 {
			return 0
		}
		idx := int(phase / drive * float64(n))
		if idx >= n {
			idx = n - 1
		}
		return idx
	}

	recovery := (phase - drive) / (100 - drive)
	idx := n - 1 - int(recovery*float64(n))
	if idx < 0 {
		idx = 0
	}
	return idx
}

// FrameAt is FrameIndexAt plus the art lookup.
func FrameAt(params AnimationParams, elapsed time.Duration) string {
	return RowerFrame(FrameIndexAt(params, elapsed))
}
