// Package voice bounds the number of simultaneously sounding voices,
// guarantees every allocated voice is disposed exactly once, and gives
// sustained, replaceable sounds safe crossfade semantics.
package voice

import "time"

// ID identifies one allocated voice. IDs are minted monotonically per
// allocation and never reused, so a stop can never race a later
// allocation of the same id.
type ID int64

// None is the sentinel returned when an allocation is refused
// (unregistered voice kind).
const None ID = 0

// Backend is one sound-producing unit owned by exactly one voice slot.
// Implementations render a (pitch, velocity, duration) triple into
// sound; the controller never touches audio itself.
//
// For a given backend the controller guarantees the call order
// Trigger, then Release, then Dispose, and calls Dispose exactly once.
type Backend interface {
	// Trigger starts the attack. A positive duration makes the backend
	// schedule its own release after that long; zero sustains the voice
	// until Release is called.
	Trigger(pitch int, velocity float64, duration time.Duration)

	// Release starts the release tail.
	Release(tail time.Duration)

	// GlideTo re-pitches a sounding voice with a portamento ramp
	// instead of a retrigger.
	GlideTo(pitch int, glide time.Duration)

	// RampGain moves the voice gain toward level over ramp. A zero
	// ramp snaps immediately.
	RampGain(level float64, ramp time.Duration)

	// Dispose frees the backend resources.
	Dispose()
}

// BackendFactory creates a fresh Backend for each allocation.
type BackendFactory func() Backend
