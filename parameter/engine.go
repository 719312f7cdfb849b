package parameter

import "time"

// Event Pacing
const (
	// MinEventInterval is the floor between generated discrete events
	MinEventInterval = 100 * time.Millisecond

	// ReducedMotionEventInterval replaces MinEventInterval when the
	// user prefers reduced motion
	ReducedMotionEventInterval = 300 * time.Millisecond

	// ReducedMotionDensityScale multiplies event density under
	// reduced motion
	ReducedMotionDensityScale = 0.3
)

// Activity Mapping
const (
	// ActivityPointerWeight and ActivityScrollWeight combine pointer
	// speed and scroll velocity into a single activity level
	ActivityPointerWeight = 0.6
	ActivityScrollWeight  = 0.4

	// UnfocusedActivityScale damps activity while the window lacks focus
	UnfocusedActivityScale = 0.3

	// ClickEnergyDecay is the exponential time constant for the
	// click-energy contribution to tension
	ClickEnergyDecay = 450 * time.Millisecond
)

// Frame Timing
const (
	// FirstFrameDt is assumed for the very first frame (about 60fps)
	FirstFrameDt = 16 * time.Millisecond

	// PointerDecayRate is the per-frame decay applied to the tracked
	// pointer position while the sentinel is active
	PointerDecayRate = 0.02
)

// Note Durations
const (
	// PluckDuration is the timed length of click plucks
	PluckDuration = 280 * time.Millisecond
)
