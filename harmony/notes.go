package harmony

import "strings"

// pitchClassTable maps note names (naturals, sharps, flats) to 0-11.
var pitchClassTable = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// chromaticNames is the reverse lookup table: naturals where they exist,
// sharps otherwise.
var chromaticNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// canonicalNoteName uppercases the letter and preserves the accidental
// ("eb" -> "Eb", "f#" -> "F#").
func canonicalNoteName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	head := strings.ToUpper(name[:1])
	tail := strings.ToLower(name[1:])
	return head + tail
}

// PitchClass resolves a note name to its pitch class 0-11.
// Unrecognized names resolve to 0 (C) with ok=false; callers that need
// strictness can check ok, everything else proceeds with the default.
func PitchClass(name string) (pc int, ok bool) {
	pc, ok = pitchClassTable[canonicalNoteName(name)]
	return pc, ok
}

// NoteName returns the display name for a pitch class, preferring
// natural names over accidentals.
func NoteName(pc int) string {
	return chromaticNames[((pc%12)+12)%12]
}
