package core

// MusicParams are smoothed continuous musical parameters, all 0..1,
// suitable for direct mapping to audio controls by the host.
type MusicParams struct {
	// Master is the overall intensity / master level
	Master float64
	// Warmth is harmonic richness / tonal warmth
	Warmth float64
	// Brightness is a filter cutoff proxy (higher = brighter)
	Brightness float64
	// Width is stereo spread
	Width float64
	// Motion is modulation depth / movement amount
	Motion float64
	// Reverb is spatial depth / reverb send
	Reverb float64
	// Density is voice or note activity level
	Density float64
	// Tension is harmonic complexity level
	Tension float64
}

// HarmonySnapshot is a read-only copy of the current harmonic state.
type HarmonySnapshot struct {
	// Root is the root pitch class (0-11, 0 = C)
	Root int
	// RootName is the display name of the root
	RootName string
	// ModeName is the active mode ("custom" after an explicit scale)
	ModeName string
	// Scale is the active interval set
	Scale []int
	// Chord is the active chord as MIDI pitches
	Chord []int
	// Locked reports whether automatic chord derivation is suspended
	Locked bool
	// Tension is the harmonic tension level (0..1)
	Tension float64
}

// MusicEventType discriminates discrete musical events
type MusicEventType int

const (
	// MusicPluck is a short melodic gesture (click, tap)
	MusicPluck MusicEventType = iota
	// MusicPadChord is a sustained harmonic bed (section change, hover)
	MusicPadChord
	// MusicCadence marks a key/mode transition
	MusicCadence
	// MusicAccent is rhythmic emphasis without pitch
	MusicAccent
	// MusicMute is a fade-out / silence trigger
	MusicMute
)

func (t MusicEventType) String() string {
	names := [...]string{"pluck", "pad_chord", "cadence", "accent", "mute"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// MusicEvent is a discrete musical event produced alongside voice
// triggers. Every event carries a salience (0..1) so the host can
// filter, scale, or ignore by importance.
type MusicEvent struct {
	Type MusicEventType

	// Note is the MIDI pitch (Pluck)
	Note int
	// Notes are the chord MIDI pitches (PadChord)
	Notes []int
	// Velocity is 0..1 (Pluck, PadChord)
	Velocity float64

	// ToRoot, ToMode describe the destination key (Cadence)
	ToRoot int
	ToMode string

	// Strength is the emphasis amount (Accent)
	Strength float64
	// On is the mute direction (Mute)
	On bool

	Salience float64
}

// Diagnostics is an opt-in snapshot for debugging and overlays.
type Diagnostics struct {
	Key              int
	Mode             string
	Chord            string
	RawActivity      float64
	SmoothingAttack  float64
	SmoothingRelease float64
	TimeSinceEventMs uint64
	ActiveVoices     int
}

// OutputFrame is the per-frame engine output: smoothed params, the
// harmonic state, any discrete events, and optional diagnostics.
type OutputFrame struct {
	Params      MusicParams
	Harmony     HarmonySnapshot
	Events      []MusicEvent
	Diagnostics *Diagnostics
}
