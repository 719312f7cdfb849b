package harmony

import "strings"

// ModeCustom is the mode name reported after an explicit SetScale.
const ModeCustom = "custom"

// modeTable maps mode names to ascending semitone offsets from the root.
// Every set starts at 0, stays below 12, and has length 5 or 7.
var modeTable = map[string][]int{
	"major":            {0, 2, 4, 5, 7, 9, 11},
	"minor":            {0, 2, 3, 5, 7, 8, 10},
	"dorian":           {0, 2, 3, 5, 7, 9, 10},
	"mixolydian":       {0, 2, 4, 5, 7, 9, 10},
	"lydian":           {0, 2, 4, 6, 7, 9, 11},
	"phrygian":         {0, 1, 3, 5, 7, 8, 10},
	"pentatonic_major": {0, 2, 4, 7, 9},
	"pentatonic_minor": {0, 3, 5, 7, 10},
}

// normalizeModeName lowercases and joins multi-word names.
func normalizeModeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ModeIntervals returns a copy of the interval set for a mode name.
// The second return is false for unrecognized names.
func ModeIntervals(name string) ([]int, bool) {
	intervals, ok := modeTable[normalizeModeName(name)]
	if !ok {
		return nil, false
	}
	out := make([]int, len(intervals))
	copy(out, intervals)
	return out, true
}

// lookupMode resolves a mode name to its intervals, falling back to the
// major table for unrecognized names. Returns the canonical name actually
// used.
func lookupMode(name string) ([]int, string) {
	n := normalizeModeName(name)
	if intervals, ok := ModeIntervals(n); ok {
		return intervals, n
	}
	intervals, _ := ModeIntervals("major")
	return intervals, "major"
}

// ModeNames lists the recognized mode names in a stable order.
func ModeNames() []string {
	return []string{
		"major", "minor", "dorian", "mixolydian",
		"lydian", "phrygian", "pentatonic_major", "pentatonic_minor",
	}
}

// minorFamily reports whether a mode has a lowered third, used by
// relative modulation to decide which direction to toggle.
func minorFamily(name string) bool {
	switch normalizeModeName(name) {
	case "minor", "dorian", "phrygian", "pentatonic_minor":
		return true
	}
	return false
}
