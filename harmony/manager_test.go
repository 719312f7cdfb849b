package harmony

import (
	"testing"
	"time"

	"github.com/auralith/sonic-ux/core"
)

func newTestManager() *Manager {
	m := NewManager(42, core.PresetAmbient)
	m.SetKey("C", "major")
	return m
}

// TestScaleNoteAnchor verifies degree 0 of C major at octave 4 is MIDI 60
func TestScaleNoteAnchor(t *testing.T) {
	m := newTestManager()
	if got := m.ScaleNote(0, 4); got != 60 {
		t.Errorf("ScaleNote(0, 4) = %d, want 60", got)
	}
}

// TestScaleNoteWrapping verifies octave wrapping for out-of-range and
// negative degrees
func TestScaleNoteWrapping(t *testing.T) {
	m := newTestManager()
	cases := []struct {
		degree, octave, want int
	}{
		{0, 4, 60},
		{2, 4, 64},  // E4
		{6, 4, 71},  // B4
		{7, 4, 72},  // wraps a full octave
		{9, 4, 76},  // E5
		{-1, 4, 59}, // B3
		{-7, 4, 48}, // C3
	}
	for _, c := range cases {
		if got := m.ScaleNote(c.degree, c.octave); got != c.want {
			t.Errorf("ScaleNote(%d, %d) = %d, want %d", c.degree, c.octave, got, c.want)
		}
	}
}

// TestScaleNoteIsPure verifies repeated calls with fixed state agree
func TestScaleNoteIsPure(t *testing.T) {
	m := newTestManager()
	first := m.ScaleNote(5, 3)
	for i := 0; i < 10; i++ {
		if got := m.ScaleNote(5, 3); got != first {
			t.Fatalf("ScaleNote mutated state: call %d = %d, first = %d", i, got, first)
		}
	}
}

// TestChordViInCMajor verifies that vi in C major builds
// from degrees {5, 7, 9} under modulo-7 wrapping
func TestChordViInCMajor(t *testing.T) {
	m := newTestManager()
	got := m.Chord("vi", 4)
	want := []int{69, 72, 76} // A4, C5, E5
	if len(got) != 3 {
		t.Fatalf("Chord returned %d notes", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Chord(vi, 4)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestChordTonesQuantizeUnchanged verifies chord tones are always in-scale
func TestChordTonesQuantizeUnchanged(t *testing.T) {
	m := newTestManager()
	for _, note := range m.Chord("I", 4) {
		if q := m.QuantizeToScale(note); q != note {
			t.Errorf("QuantizeToScale(%d) = %d, expected chord tone unchanged", note, q)
		}
	}
}

// TestChordUnknownLabelBuildsTonic verifies the permissive default
func TestChordUnknownLabelBuildsTonic(t *testing.T) {
	m := newTestManager()
	unknown := m.Chord("XIV", 4)
	tonic := m.Chord("I", 4)
	for i := range tonic {
		if unknown[i] != tonic[i] {
			t.Errorf("Expected unknown label to build tonic triad, got %v", unknown)
		}
	}
}

// TestQuantizeToScale verifies nearest-pitch quantization and the
// ascending-scan tie break
func TestQuantizeToScale(t *testing.T) {
	m := newTestManager()
	cases := []struct {
		in, want int
	}{
		{60, 60}, // C stays
		{61, 60}, // C# ties C/D, ascending scan keeps C
		{63, 62}, // D# ties D/E, scan keeps D
		{66, 65}, // F# ties F/G, scan keeps F
		{70, 69}, // A# ties A/B, scan keeps A
		{59, 59}, // B stays
	}
	for _, c := range cases {
		if got := m.QuantizeToScale(c.in); got != c.want {
			t.Errorf("QuantizeToScale(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

// TestSetKeyUnknownNamesDegrade verifies safe defaults for bad input
func TestSetKeyUnknownNamesDegrade(t *testing.T) {
	m := newTestManager()
	m.SetKey("X$", "ultralocrian")
	if m.Root() != 0 {
		t.Errorf("Expected unknown root to default to 0, got %d", m.Root())
	}
	if m.ModeName() != "major" {
		t.Errorf("Expected unknown mode to fall back to major, got %q", m.ModeName())
	}
}

// TestSetScaleCustom verifies explicit interval sets tag the mode custom
func TestSetScaleCustom(t *testing.T) {
	m := newTestManager()
	m.SetScale([]int{0, 2, 5, 7, 10})
	if m.ModeName() != ModeCustom {
		t.Errorf("Expected mode %q, got %q", ModeCustom, m.ModeName())
	}
	if m.ScaleLen() != 5 {
		t.Errorf("Expected 5 degrees, got %d", m.ScaleLen())
	}
}

// TestModulateDominantSubdominantInverse verifies one dominant followed
// by one subdominant returns to the original root (+7 +5 = 12 = 0 mod 12)
func TestModulateDominantSubdominantInverse(t *testing.T) {
	m := newTestManager()
	start := m.Root()
	m.Modulate(core.ModulationDominant)
	m.Modulate(core.ModulationSubdominant)
	if m.Root() != start {
		t.Errorf("dominant+subdominant root = %d, want %d", m.Root(), start)
	}
}

// TestModulateDominantFourTimes verifies the exact modulo arithmetic:
// four fifths up is +28 = +4 mod 12, not a round trip
func TestModulateDominantFourTimes(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 4; i++ {
		m.Modulate(core.ModulationDominant)
	}
	if m.Root() != 4 {
		t.Errorf("four dominants from C = %d, want 4 (E)", m.Root())
	}
}

// TestModulateRelativeToggles verifies the major<->minor swap at ±3
func TestModulateRelativeToggles(t *testing.T) {
	m := newTestManager()
	m.Modulate(core.ModulationRelative)
	if m.Root() != 9 || m.ModeName() != "minor" {
		t.Errorf("relative of C major = %d %s, want 9 minor", m.Root(), m.ModeName())
	}
	m.Modulate(core.ModulationRelative)
	if m.Root() != 0 || m.ModeName() != "major" {
		t.Errorf("relative of A minor = %d %s, want 0 major", m.Root(), m.ModeName())
	}
}

// TestModulateRefreshesRootName verifies reverse display-name lookup
func TestModulateRefreshesRootName(t *testing.T) {
	m := newTestManager()
	m.Modulate(core.ModulationDominant)
	if m.RootName() != "G" {
		t.Errorf("Expected root name G, got %q", m.RootName())
	}
}

// TestLockedHarmonyInvariant verifies setKey changes the scale but not
// the active chord while locked
func TestLockedHarmonyInvariant(t *testing.T) {
	m := newTestManager()
	before := m.ActiveChord()

	m.LockHarmony()
	m.SetKey("D", "minor")

	if m.Root() != 2 {
		t.Errorf("Expected root 2 after setKey, got %d", m.Root())
	}
	after := m.ActiveChord()
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("Locked chord changed: %v -> %v", before, after)
		}
	}

	// Manual SetChord still works while locked
	m.SetChord([]int{50, 53, 57})
	if got := m.ActiveChord(); got[0] != 50 {
		t.Errorf("SetChord ignored while locked: %v", got)
	}

	// Unlocking rederives from the current key
	m.UnlockHarmony()
	tonic := m.Chord("i", 4)
	got := m.ActiveChord()
	if got[0] != tonic[0] {
		t.Errorf("Expected unlock to rederive tonic %v, got %v", tonic, got)
	}
}

// TestChordPool verifies rotation setup and the deterministic section map
func TestChordPool(t *testing.T) {
	m := newTestManager()
	m.SetChordPool([]string{"I", "V"})

	if got := m.PoolChordForSection(0); got != "I" {
		t.Errorf("PoolChordForSection(0) = %q, want I", got)
	}
	if got := m.PoolChordForSection(3); got != "V" {
		t.Errorf("PoolChordForSection(3) = %q, want V", got)
	}

	for i := 0; i < 20; i++ {
		label := m.RandomChordFromPool()
		if label != "I" && label != "V" {
			t.Fatalf("RandomChordFromPool returned %q outside the pool", label)
		}
	}
}

// TestRandomScaleNoteInScale verifies random notes always quantize to
// themselves
func TestRandomScaleNoteInScale(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 50; i++ {
		n := m.RandomScaleNote(4)
		if q := m.QuantizeToScale(n); q != n {
			t.Fatalf("RandomScaleNote produced out-of-scale pitch %d", n)
		}
	}
}

// TestUpdateTensionTracksActivity verifies tension moves toward the
// activity-driven target and stays bounded
func TestUpdateTensionTracksActivity(t *testing.T) {
	m := newTestManager()
	for i := 0; i < 200; i++ {
		m.Update(16*time.Millisecond, 1.0)
	}
	if m.Tension() < 0.4 {
		t.Errorf("Expected tension to approach the ambient ceiling 0.5, got %f", m.Tension())
	}
	if m.Tension() > 1.0 {
		t.Errorf("Tension exceeded 1.0: %f", m.Tension())
	}
}

// TestUpdateModulationEventuallyFires verifies the automatic modulation
// clock changes the root given enough simulated time
func TestUpdateModulationEventuallyFires(t *testing.T) {
	m := NewManager(7, core.PresetPlayful)
	m.SetKey("C", "major")
	fired := false
	for i := 0; i < 10000; i++ {
		if _, _, occurred := m.Update(100*time.Millisecond, 0.5); occurred {
			fired = true
			break
		}
	}
	if !fired {
		t.Error("Expected an automatic modulation within the simulated window")
	}
}

// TestSnapshotCopies verifies the snapshot does not alias internal state
func TestSnapshotCopies(t *testing.T) {
	m := newTestManager()
	snap := m.Snapshot()
	snap.Scale[0] = 99
	if m.Scale()[0] != 0 {
		t.Error("Snapshot aliased the internal scale")
	}
	if snap.RootName != "C" || snap.ModeName != "major" {
		t.Errorf("Snapshot = %s %s, want C major", snap.RootName, snap.ModeName)
	}
}
