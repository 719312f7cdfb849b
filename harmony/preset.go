package harmony

import "github.com/auralith/sonic-ux/core"

// presetProfile holds the harmonic character of a preset.
type presetProfile struct {
	defaultMode    string
	modulationRate float64
	tensionCeiling float64
	eventDensity   float64
	chordPool      []string
}

var presetProfiles = [core.PresetCount]presetProfile{
	core.PresetAmbient: {
		defaultMode:    "lydian",
		modulationRate: 0.1,
		tensionCeiling: 0.5,
		eventDensity:   0.6,
		chordPool:      []string{"I", "IV", "vi", "V"},
	},
	core.PresetMinimal: {
		defaultMode:    "pentatonic_major",
		modulationRate: 0.05,
		tensionCeiling: 0.3,
		eventDensity:   0.3,
		chordPool:      []string{"I", "IV"},
	},
	core.PresetDramatic: {
		defaultMode:    "dorian",
		modulationRate: 0.2,
		tensionCeiling: 0.9,
		eventDensity:   0.8,
		chordPool:      []string{"i", "VI", "VII", "iv"},
	},
	core.PresetPlayful: {
		defaultMode:    "pentatonic_major",
		modulationRate: 0.3,
		tensionCeiling: 0.4,
		eventDensity:   1.0,
		chordPool:      []string{"I", "V", "vi", "IV"},
	},
}

func profileFor(p core.Preset) presetProfile {
	if p < 0 || p >= core.PresetCount {
		return presetProfiles[core.PresetAmbient]
	}
	return presetProfiles[p]
}

// PresetMode returns the default mode name for a preset.
func PresetMode(p core.Preset) string {
	return profileFor(p).defaultMode
}

// PresetEventDensity returns the event density multiplier for a preset.
func PresetEventDensity(p core.Preset) float64 {
	return profileFor(p).eventDensity
}
