package harmony

import (
	"math/rand"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/parameter"
)

// Manager is the single source of truth for which pitches are currently
// valid, and translates abstract musical requests (scale degrees,
// Roman-numeral chords) into concrete MIDI pitches.
//
// Every lookup degrades to a documented safe default instead of failing:
// unknown roots resolve to C, unknown modes to major, unknown chord
// labels to the tonic. There is no input that leaves the state invalid.
//
// Manager is not safe for concurrent use; the engine facade serializes
// access.
type Manager struct {
	root     int
	rootName string
	modeName string
	scale    []int
	chord    []int
	locked   bool

	chordPool []string

	preset                 core.Preset
	tension                float64
	modulationRateOverride float64 // negative = unset
	sinceModulation        time.Duration

	rng *rand.Rand
}

// NewManager creates a manager keyed to the preset's default mode with a
// C root.
func NewManager(seed uint64, preset core.Preset) *Manager {
	m := &Manager{
		preset:                 preset,
		tension:                parameter.DefaultTension,
		modulationRateOverride: -1,
		rng:                    rand.New(rand.NewSource(int64(seed))),
	}
	profile := profileFor(preset)
	m.chordPool = append([]string(nil), profile.chordPool...)
	m.SetKey("C", profile.defaultMode)
	return m
}

// SetKey changes the root and mode. Unrecognized root names resolve to
// pitch class 0 and unrecognized modes to the major table. Unless the
// harmony is locked, the active chord is recomputed as the tonic triad.
// In-flight voices are unaffected.
func (m *Manager) SetKey(rootName, modeName string) {
	pc, _ := PitchClass(rootName)
	m.setKeyPitchClass(pc, modeName)
}

func (m *Manager) setKeyPitchClass(pc int, modeName string) {
	m.root = ((pc % 12) + 12) % 12
	m.rootName = NoteName(m.root)
	m.scale, m.modeName = lookupMode(modeName)
	m.rederiveChord()
}

// shiftRoot moves the root while preserving a custom scale; named modes
// go through the normal table lookup.
func (m *Manager) shiftRoot(pc int) {
	if m.modeName == ModeCustom {
		m.root = ((pc % 12) + 12) % 12
		m.rootName = NoteName(m.root)
		m.rederiveChord()
		return
	}
	m.setKeyPitchClass(pc, m.modeName)
}

// SetScale installs an explicit ascending interval set and tags the mode
// as custom. Intervals are normalized into the 0-11 range.
func (m *Manager) SetScale(intervals []int) {
	if len(intervals) == 0 {
		return
	}
	scale := make([]int, len(intervals))
	for i, iv := range intervals {
		scale[i] = ((iv % 12) + 12) % 12
	}
	m.scale = scale
	m.modeName = ModeCustom
	m.rederiveChord()
}

// rederiveChord recomputes the active chord as the tonic triad unless
// the harmony is locked.
func (m *Manager) rederiveChord() {
	if m.locked {
		return
	}
	m.chord = m.buildChord(0, parameter.DefaultOctave)
}

// ScaleNote maps a scale degree to a MIDI pitch. Degrees wrap modulo the
// scale length with each full wrap shifting by an octave; negative
// degrees descend. Octave 4 anchors degree 0 of a C root at MIDI 60.
func (m *Manager) ScaleNote(degree, octave int) int {
	n := len(m.scale)
	if n == 0 {
		return clampMIDI(m.root + parameter.SemitonesPerOctave*(octave+1))
	}
	wrapped := ((degree % n) + n) % n
	octShift := (degree - wrapped) / n
	pitch := m.root + m.scale[wrapped] +
		parameter.SemitonesPerOctave*(octave+1+octShift)
	return clampMIDI(pitch)
}

// RandomScaleNote returns a uniformly random degree of the scale in the
// given octave.
func (m *Manager) RandomScaleNote(octave int) int {
	if len(m.scale) == 0 {
		return m.ScaleNote(0, octave)
	}
	return m.ScaleNote(m.rng.Intn(len(m.scale)), octave)
}

// QuantizeToScale returns the nearest in-key pitch to an arbitrary MIDI
// pitch by absolute semitone distance within the pitch class. Ties break
// on the first interval encountered in ascending scan order.
func (m *Manager) QuantizeToScale(pitch int) int {
	if len(m.scale) == 0 {
		return clampMIDI(pitch)
	}
	rel := (((pitch - m.root) % 12) + 12) % 12
	bestDelta := 0
	bestDist := 13
	for _, iv := range m.scale {
		for _, delta := range []int{iv - rel, iv - rel + 12, iv - rel - 12} {
			dist := delta
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				bestDelta = delta
			}
		}
	}
	return clampMIDI(pitch + bestDelta)
}

// Chord builds the diatonic triad for a Roman-numeral label by stacking
// scale degrees {d, d+2, d+4}. Unknown labels build the tonic triad.
func (m *Manager) Chord(label string, octave int) []int {
	degree, _ := ParseDegree(label)
	return m.buildChord(degree, octave)
}

func (m *Manager) buildChord(degree, octave int) []int {
	return []int{
		m.ScaleNote(degree, octave),
		m.ScaleNote(degree+2, octave),
		m.ScaleNote(degree+4, octave),
	}
}

// SetChord installs an explicit chord. Works regardless of lock state.
func (m *Manager) SetChord(pitches []int) {
	chord := make([]int, len(pitches))
	for i, p := range pitches {
		chord[i] = clampMIDI(p)
	}
	m.chord = chord
}

// Modulate shifts the key by a conventional relation: relative toggles
// the major/minor family moving the root by three semitones, dominant
// shifts up a fifth, subdominant up a fourth. The display root name is
// refreshed by reverse lookup.
func (m *Manager) Modulate(kind core.ModulationKind) {
	switch kind {
	case core.ModulationRelative:
		if minorFamily(m.modeName) {
			m.setKeyPitchClass(m.root+3, "major")
		} else {
			m.setKeyPitchClass(m.root-3+12, "minor")
		}
	case core.ModulationDominant:
		m.shiftRoot(m.root + 7)
	case core.ModulationSubdominant:
		m.shiftRoot(m.root + 5)
	}
}

// LockHarmony suspends automatic chord recomputation on key changes.
// The active chord becomes externally authoritative until unlocked.
func (m *Manager) LockHarmony() {
	m.locked = true
}

// UnlockHarmony resumes automatic chord derivation.
func (m *Manager) UnlockHarmony() {
	m.locked = false
	m.rederiveChord()
}

// Locked reports whether automatic chord derivation is suspended.
func (m *Manager) Locked() bool {
	return m.locked
}

// SetChordPool replaces the rotation pool of chord degree labels used by
// navigation logic. Empty or nil leaves the pool unchanged.
func (m *Manager) SetChordPool(labels []string) {
	if len(labels) == 0 {
		return
	}
	m.chordPool = append([]string(nil), labels...)
}

// ChordPool returns a copy of the current pool.
func (m *Manager) ChordPool() []string {
	return append([]string(nil), m.chordPool...)
}

// RandomChordFromPool picks a label from the pool, defaulting to the
// tonic when the pool is empty.
func (m *Manager) RandomChordFromPool() string {
	if len(m.chordPool) == 0 {
		return "I"
	}
	return m.chordPool[m.rng.Intn(len(m.chordPool))]
}

// PoolChordForSection maps a section index onto the pool deterministically,
// so revisiting a section lands on the same chord.
func (m *Manager) PoolChordForSection(section uint32) string {
	if len(m.chordPool) == 0 {
		return "I"
	}
	return m.chordPool[int(section)%len(m.chordPool)]
}

// SetPreset switches the harmonic character: default mode, chord pool,
// and modulation pacing.
func (m *Manager) SetPreset(p core.Preset) {
	m.preset = p
	profile := profileFor(p)
	m.chordPool = append([]string(nil), profile.chordPool...)
	m.SetKey(m.rootName, profile.defaultMode)
}

// Preset returns the active preset.
func (m *Manager) Preset() core.Preset {
	return m.preset
}

// SetModulationRate overrides the preset's automatic modulation rate.
func (m *Manager) SetModulationRate(rate float64) {
	if rate < 0 {
		rate = 0
	} else if rate > 1 {
		rate = 1
	}
	m.modulationRateOverride = rate
}

// Update advances the modulation clock and tension tracking. It returns
// the new root and mode with occurred=true when an automatic modulation
// fires.
func (m *Manager) Update(dt time.Duration, activity float64) (root int, mode string, occurred bool) {
	m.sinceModulation += dt

	target := activity * profileFor(m.preset).tensionCeiling
	m.tension += (target - m.tension) * parameter.TensionSmoothing

	rate := m.modulationRateOverride
	if rate < 0 {
		rate = profileFor(m.preset).modulationRate
	}
	threshold := time.Duration(float64(parameter.ModulationBaseInterval) / (rate + 0.01))

	if m.sinceModulation > threshold && m.rng.Float64() < rate {
		m.sinceModulation = 0
		m.shiftRoot(m.pickModulationTarget())
		return m.root, m.modeName, true
	}
	return 0, "", false
}

// pickModulationTarget chooses a musically sensible destination root:
// up a fifth, up a fourth, the relative key, or up a minor third.
func (m *Manager) pickModulationTarget() int {
	options := [4]int{
		(m.root + 7) % 12,
		(m.root + 5) % 12,
		(m.root + 9) % 12,
		(m.root + 3) % 12,
	}
	return options[m.rng.Intn(len(options))]
}

// Root returns the root pitch class.
func (m *Manager) Root() int {
	return m.root
}

// RootName returns the display name of the root.
func (m *Manager) RootName() string {
	return m.rootName
}

// ModeName returns the active mode name.
func (m *Manager) ModeName() string {
	return m.modeName
}

// Scale returns a copy of the active interval set.
func (m *Manager) Scale() []int {
	return append([]int(nil), m.scale...)
}

// ScaleLen returns the number of degrees in the active scale.
func (m *Manager) ScaleLen() int {
	return len(m.scale)
}

// ActiveChord returns a copy of the active chord pitches.
func (m *Manager) ActiveChord() []int {
	return append([]int(nil), m.chord...)
}

// Tension returns the current harmonic tension level.
func (m *Manager) Tension() float64 {
	return m.tension
}

// Snapshot captures the full harmonic state for output frames.
func (m *Manager) Snapshot() core.HarmonySnapshot {
	return core.HarmonySnapshot{
		Root:     m.root,
		RootName: m.rootName,
		ModeName: m.modeName,
		Scale:    m.Scale(),
		Chord:    m.ActiveChord(),
		Locked:   m.locked,
		Tension:  m.tension,
	}
}

func clampMIDI(pitch int) int {
	if pitch < parameter.MinMIDIPitch {
		return parameter.MinMIDIPitch
	}
	if pitch > parameter.MaxMIDIPitch {
		return parameter.MaxMIDIPitch
	}
	return pitch
}
