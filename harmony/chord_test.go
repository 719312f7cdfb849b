package harmony

import "testing"

// TestParseDegree verifies Roman-numeral resolution with case quality
func TestParseDegree(t *testing.T) {
	cases := []struct {
		label   string
		degree  int
		quality ChordQuality
	}{
		{"I", 0, QualityMajor},
		{"ii", 1, QualityMinor},
		{"IV", 3, QualityMajor},
		{"V", 4, QualityMajor},
		{"vi", 5, QualityMinor},
		{"vii", 6, QualityDiminished},
		{"VII", 6, QualityMajor},
	}
	for _, c := range cases {
		d, q := ParseDegree(c.label)
		if d != c.degree || q != c.quality {
			t.Errorf("ParseDegree(%q) = (%d, %v), want (%d, %v)",
				c.label, d, q, c.degree, c.quality)
		}
	}
}

// TestParseDegreeUnknownDefaultsToTonic verifies the permissive default
func TestParseDegreeUnknownDefaultsToTonic(t *testing.T) {
	d, q := ParseDegree("IX")
	if d != 0 || q != QualityMajor {
		t.Errorf("Expected tonic/major default, got (%d, %v)", d, q)
	}
	if ValidDegree("IX") {
		t.Error("Expected IX to be invalid")
	}
	if !ValidDegree("iii") {
		t.Error("Expected iii to be valid")
	}
}

// TestNoteNameRoundTrip verifies name<->pitch-class lookup
func TestNoteNameRoundTrip(t *testing.T) {
	for pc := 0; pc < 12; pc++ {
		got, ok := PitchClass(NoteName(pc))
		if !ok || got != pc {
			t.Errorf("PitchClass(NoteName(%d)) = %d ok=%v", pc, got, ok)
		}
	}
}

// TestPitchClassAccidentalsAndCase verifies flats and lowercase input
func TestPitchClassAccidentalsAndCase(t *testing.T) {
	if pc, ok := PitchClass("Eb"); !ok || pc != 3 {
		t.Errorf("PitchClass(Eb) = %d ok=%v", pc, ok)
	}
	if pc, ok := PitchClass("f#"); !ok || pc != 6 {
		t.Errorf("PitchClass(f#) = %d ok=%v", pc, ok)
	}
	pc, ok := PitchClass("H")
	if ok {
		t.Error("Expected H to be unrecognized")
	}
	if pc != 0 {
		t.Errorf("Expected unrecognized name to default to 0, got %d", pc)
	}
}
