package parameter

import "time"

// Polyphony
const (
	// DefaultPolyphony is the simultaneous voice ceiling
	DefaultPolyphony = 8

	// MinPolyphony is the lowest accepted ceiling
	MinPolyphony = 1
)

// Release and Disposal Timing
const (
	// DefaultRelease is the release tail applied when no explicit
	// release time is given (stopAllNotes, timed-note expiry)
	DefaultRelease = 300 * time.Millisecond

	// StealRelease is the fast release used when a voice is stolen
	StealRelease = 25 * time.Millisecond

	// DisposalMargin is added after every release before the backend
	// handle is disposed, so tails are never cut off
	DisposalMargin = 100 * time.Millisecond
)

// Crossfade and Sustained Slots
const (
	// CrossfadeWindow is the gain ramp length for double-buffer handoff
	CrossfadeWindow = 180 * time.Millisecond

	// NavChordHold is how long a navigation chord sustains before it
	// auto-fades if no further navigation arrives
	NavChordHold = 8 * time.Second

	// SlotFadeOutRelease is the release applied to a buffer once its
	// fade-down ramp completes
	SlotFadeOutRelease = 150 * time.Millisecond
)

// Held Notes
const (
	// GlideTime is the portamento length for held-note re-pitching
	GlideTime = 60 * time.Millisecond

	// HoldRelease is the release applied on pointer-up
	HoldRelease = 250 * time.Millisecond
)
