package parameter

import "time"

// Pitch Mapping
const (
	// DefaultOctave anchors degree 0 at MIDI 60 (middle C for a C root)
	DefaultOctave = 4

	// ChordOctave is where sustained pad chords are voiced
	ChordOctave = 3

	// SemitonesPerOctave for degree wrapping
	SemitonesPerOctave = 12

	// MinMIDIPitch / MaxMIDIPitch clamp all emitted pitches
	MinMIDIPitch = 0
	MaxMIDIPitch = 127
)

// Modulation
const (
	// ModulationBaseInterval scales the time between automatic key
	// changes; the effective threshold is base / (rate + 0.01)
	ModulationBaseInterval = 10 * time.Second

	// TensionSmoothing is the per-frame lerp factor toward the
	// activity-driven tension target
	TensionSmoothing = 0.1

	// DefaultTension is the tension level at engine construction
	DefaultTension = 0.3
)
