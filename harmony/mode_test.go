package harmony

import "testing"

// TestModeTableInvariants verifies every mode starts at 0, ascends
// strictly, stays below 12, and has 5 or 7 degrees
func TestModeTableInvariants(t *testing.T) {
	for name, intervals := range modeTable {
		if len(intervals) != 5 && len(intervals) != 7 {
			t.Errorf("mode %q has %d degrees, want 5 or 7", name, len(intervals))
		}
		if intervals[0] != 0 {
			t.Errorf("mode %q does not start at 0", name)
		}
		for i := 1; i < len(intervals); i++ {
			if intervals[i] <= intervals[i-1] {
				t.Errorf("mode %q intervals not strictly increasing at %d", name, i)
			}
		}
		if intervals[len(intervals)-1] >= 12 {
			t.Errorf("mode %q has interval >= 12", name)
		}
	}
}

// TestModeIntervals verifies known tables and the miss path
func TestModeIntervals(t *testing.T) {
	major, ok := ModeIntervals("major")
	if !ok {
		t.Fatal("Expected major mode to resolve")
	}
	want := []int{0, 2, 4, 5, 7, 9, 11}
	for i := range want {
		if major[i] != want[i] {
			t.Errorf("major[%d] = %d, want %d", i, major[i], want[i])
		}
	}

	pent, ok := ModeIntervals("Pentatonic Minor")
	if !ok {
		t.Fatal("Expected spaced name to normalize")
	}
	if len(pent) != 5 || pent[1] != 3 {
		t.Errorf("pentatonic_minor = %v", pent)
	}

	if _, ok := ModeIntervals("hyperdorian"); ok {
		t.Error("Expected unknown mode to miss")
	}
}

// TestLookupModeFallback verifies the permissive major fallback
func TestLookupModeFallback(t *testing.T) {
	intervals, name := lookupMode("no-such-mode")
	if name != "major" {
		t.Errorf("Expected fallback name major, got %q", name)
	}
	if len(intervals) != 7 || intervals[3] != 5 {
		t.Errorf("Expected major intervals, got %v", intervals)
	}
}

// TestModeIntervalsReturnsCopy verifies callers cannot mutate the table
func TestModeIntervalsReturnsCopy(t *testing.T) {
	a, _ := ModeIntervals("major")
	a[0] = 99
	b, _ := ModeIntervals("major")
	if b[0] != 0 {
		t.Error("ModeIntervals leaked the internal table")
	}
}
