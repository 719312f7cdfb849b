package core

import "strings"

// Preset selects an overall musical character: scale, chord pool,
// modulation pacing, and per-behavior voice assignments.
type Preset int

const (
	// PresetAmbient is lush and dreamy: lydian, slow modulation, rich chords
	PresetAmbient Preset = iota
	// PresetMinimal is sparse and calm: pentatonic, reduced-motion friendly
	PresetMinimal
	// PresetDramatic is tense and cinematic: dorian, higher tension ceiling
	PresetDramatic
	// PresetPlayful is bright and bouncy: major pentatonic, quicker changes
	PresetPlayful
	PresetCount
)

func (p Preset) String() string {
	names := [...]string{"ambient", "minimal", "dramatic", "playful"}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// PresetFromName parses a preset name, case-insensitive.
// Returns PresetAmbient, false for unrecognized names.
func PresetFromName(name string) (Preset, bool) {
	switch strings.ToLower(name) {
	case "ambient":
		return PresetAmbient, true
	case "minimal":
		return PresetMinimal, true
	case "dramatic":
		return PresetDramatic, true
	case "playful":
		return PresetPlayful, true
	}
	return PresetAmbient, false
}
