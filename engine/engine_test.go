package engine

import (
	"testing"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/voice"
)

// nullBackend satisfies the voice backend contract without sound.
type nullBackend struct{}

func (nullBackend) Trigger(pitch int, velocity float64, duration time.Duration) {}
func (nullBackend) Release(tail time.Duration)                                  {}
func (nullBackend) GlideTo(pitch int, glide time.Duration)                      {}
func (nullBackend) RampGain(level float64, ramp time.Duration)                  {}
func (nullBackend) Dispose()                                                    {}

func testEngine(cfg ...*Config) *Engine {
	e := New(cfg...)
	for k := core.VoicePluck; k < core.VoiceKindCount; k++ {
		e.RegisterVoice(k, func() voice.Backend { return nullBackend{} })
	}
	return e
}

func baseFrame(t uint64) core.InteractionFrame {
	return core.InteractionFrame{
		TMs:        t,
		PointerX:   0.5,
		PointerY:   0.5,
		ScrollY:    0,
		Focus:      true,
		TabFocused: true,
		ViewportW:  1920,
		ViewportH:  1080,
	}
}

// TestEngineDefaults verifies construction state.
func TestEngineDefaults(t *testing.T) {
	e := testEngine()
	if !e.Enabled() {
		t.Error("engine not enabled after construction")
	}
	if e.Preset() != core.PresetAmbient {
		t.Errorf("preset = %v, want ambient", e.Preset())
	}
}

// TestUpdateProducesBoundedParams verifies that every output parameter
// stays in 0..1 across frames.
func TestUpdateProducesBoundedParams(t *testing.T) {
	e := testEngine()
	frame := baseFrame(16)
	frame.PointerSpeed = 0.8
	frame.ScrollV = -0.9

	var out core.OutputFrame
	for i := 0; i < 10; i++ {
		frame.TMs += 16
		out = e.Update(frame)
	}
	params := []float64{
		out.Params.Master, out.Params.Warmth, out.Params.Brightness,
		out.Params.Width, out.Params.Motion, out.Params.Reverb,
		out.Params.Density, out.Params.Tension,
	}
	for i, p := range params {
		if p < 0 || p > 1 {
			t.Errorf("param %d = %v, out of range", i, p)
		}
	}
	if out.Harmony.RootName == "" {
		t.Error("harmony snapshot missing root name")
	}
}

// TestDisabledEngineIsSilent verifies that a disabled engine produces a
// zero frame and ignores events.
func TestDisabledEngineIsSilent(t *testing.T) {
	e := testEngine()
	e.SetEnabled(false)

	out := e.Update(baseFrame(16))
	if len(out.Events) != 0 {
		t.Errorf("disabled update produced %d events", len(out.Events))
	}
	events := e.Event(core.InteractionEvent{Type: core.EventClick, X: 0.5, Y: 0.5})
	if len(events) != 0 {
		t.Errorf("disabled event produced %d events", len(events))
	}
	if id := e.PlayNote(60, 0.5, 0, core.VoicePluck); id != voice.None {
		t.Errorf("disabled PlayNote returned %d, want None", id)
	}
	if e.Voices().ActiveCount() != 0 {
		t.Error("disabled engine allocated voices")
	}
}

// TestClickTriggersPluck verifies that a click allocates a timed pluck
// voice and emits a pluck event with salience.
func TestClickTriggersPluck(t *testing.T) {
	e := testEngine()
	events := e.Event(core.InteractionEvent{Type: core.EventClick, X: 0.3, Y: 0.4, TargetID: 7})
	if len(events) != 1 || events[0].Type != core.MusicPluck {
		t.Fatalf("click events = %v, want one pluck", events)
	}
	if events[0].Salience <= 0 || events[0].Salience > 1 {
		t.Errorf("pluck salience = %v, out of range", events[0].Salience)
	}
	if e.Voices().ActiveCount() != 1 {
		t.Errorf("active voices = %d, want 1", e.Voices().ActiveCount())
	}
}

// TestNavTriggersChordSlot verifies that navigation voices a chord on
// the nav slot.
func TestNavTriggersChordSlot(t *testing.T) {
	e := testEngine()
	events := e.Event(core.InteractionEvent{Type: core.EventNav, SectionID: 2})
	if len(events) != 1 || events[0].Type != core.MusicPadChord {
		t.Fatalf("nav events = %v, want one pad chord", events)
	}
	if len(events[0].Notes) != 3 {
		t.Errorf("chord notes = %d, want 3", len(events[0].Notes))
	}
	if got := len(e.Voices().SlotVoices(core.SlotNav)); got != 3 {
		t.Errorf("nav slot voices = %d, want 3", got)
	}
}

// TestSectionChangeInFrame verifies that a section change seen in a
// frame also voices a chord.
func TestSectionChangeInFrame(t *testing.T) {
	e := testEngine()
	e.Update(baseFrame(16))

	frame := baseFrame(32)
	frame.SectionID = 3
	out := e.Update(frame)

	var chord *core.MusicEvent
	for i := range out.Events {
		if out.Events[i].Type == core.MusicPadChord {
			chord = &out.Events[i]
		}
	}
	if chord == nil {
		t.Fatal("no pad chord on section change")
	}
	if chord.Salience < 0.8 {
		t.Errorf("section chord salience = %v, want high", chord.Salience)
	}
}

// TestHoverEndFadesSlot verifies hover lifecycle against the hover slot.
func TestHoverEndFadesSlot(t *testing.T) {
	e := testEngine()
	// Hover events are density-gated; advance time and retry until one
	// lands.
	var voiced bool
	for i := uint32(1); i <= 50 && !voiced; i++ {
		e.Update(baseFrame(uint64(i) * 200))
		events := e.Event(core.InteractionEvent{Type: core.EventHoverStart, HoverID: i})
		voiced = len(events) > 0
	}
	if !voiced {
		t.Fatal("no hover chord emitted across 50 attempts")
	}
	if len(e.Voices().SlotVoices(core.SlotHover)) == 0 {
		t.Fatal("hover slot empty after hover start")
	}
	e.Event(core.InteractionEvent{Type: core.EventHoverEnd, HoverID: 1})
	// StopSlot ramps down then releases; the slot list survives until
	// the fade completes, so only verify no panic and engine liveness.
	if !e.Enabled() {
		t.Error("engine disabled by hover end")
	}
}

// TestHoldFollowsPointer verifies that press-drag-release drives a
// single glide session rather than new allocations.
func TestHoldFollowsPointer(t *testing.T) {
	e := testEngine()

	frame := baseFrame(16)
	frame.PointerDown = true
	frame.PointerX = 0.1
	e.Update(frame)
	if !e.Voices().HoldActive() {
		t.Fatal("hold not active after pointer down")
	}
	if e.Voices().ActiveCount() != 1 {
		t.Errorf("active voices = %d, want 1", e.Voices().ActiveCount())
	}

	frame.TMs = 32
	frame.PointerX = 0.9
	e.Update(frame)
	if e.Voices().ActiveCount() != 1 {
		t.Errorf("drag allocated a new voice: %d active", e.Voices().ActiveCount())
	}

	frame.TMs = 48
	frame.PointerDown = false
	e.Update(frame)
	if e.Voices().HoldActive() {
		t.Error("hold still active after pointer up")
	}
}

// TestMuteOnTabUnfocus verifies the mute event when the tab loses focus
// while the window reports focus.
func TestMuteOnTabUnfocus(t *testing.T) {
	e := testEngine()
	e.Event(core.InteractionEvent{Type: core.EventClick, X: 0.5, Y: 0.5})

	frame := baseFrame(16)
	frame.TabFocused = false
	out := e.Update(frame)

	var muted bool
	for _, ev := range out.Events {
		if ev.Type == core.MusicMute && ev.On {
			muted = true
		}
	}
	if !muted {
		t.Error("no mute event on tab unfocus")
	}
}

// TestApplyPresetSwitchesCharacter verifies preset application reaches
// the harmony manager.
func TestApplyPresetSwitchesCharacter(t *testing.T) {
	e := testEngine()
	e.ApplyPreset(core.PresetDramatic)
	if e.Preset() != core.PresetDramatic {
		t.Errorf("preset = %v, want dramatic", e.Preset())
	}
	snap := e.Harmony()
	if snap.ModeName != "dorian" {
		t.Errorf("mode = %q, want dorian", snap.ModeName)
	}
}

// TestDiagnosticsToggle verifies the opt-in diagnostics block.
func TestDiagnosticsToggle(t *testing.T) {
	e := testEngine()
	if out := e.Update(baseFrame(16)); out.Diagnostics != nil {
		t.Error("diagnostics present while disabled")
	}
	e.SetDiagnostics(true)
	out := e.Update(baseFrame(32))
	if out.Diagnostics == nil {
		t.Fatal("diagnostics missing while enabled")
	}
	if out.Diagnostics.Mode == "" {
		t.Error("diagnostics mode empty")
	}
}

// TestActivityCalculation verifies weighting and the focus damp.
func TestActivityCalculation(t *testing.T) {
	e := testEngine()
	frame := baseFrame(16)
	frame.PointerSpeed = 1
	frame.ScrollV = 1
	if got := e.calculateActivity(frame); got != 1 {
		t.Errorf("activity = %v, want 1 (clamped)", got)
	}
	frame.Focus = false
	got := e.calculateActivity(frame)
	want := 0.3
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("unfocused activity = %v, want %v", got, want)
	}
}

// TestLoadConfigEnvOverrides verifies the environment loader.
func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SONIC_UX_SEED", "99")
	t.Setenv("SONIC_UX_PRESET", "playful")
	t.Setenv("SONIC_UX_POLYPHONY", "4")
	t.Setenv("SONIC_UX_DIAGNOSTICS", "true")
	t.Setenv("SONIC_UX_CHORD_POOL", `["I","vi"]`)

	cfg := LoadConfig()
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Seed)
	}
	if cfg.Preset != core.PresetPlayful {
		t.Errorf("preset = %v, want playful", cfg.Preset)
	}
	if cfg.Polyphony != 4 {
		t.Errorf("polyphony = %d, want 4", cfg.Polyphony)
	}
	if !cfg.Diagnostics {
		t.Error("diagnostics not set")
	}
	if len(cfg.ChordPool) != 2 || cfg.ChordPool[0] != "I" {
		t.Errorf("chord pool = %v, want [I vi]", cfg.ChordPool)
	}
}

// TestLoadConfigIgnoresGarbage verifies unparseable values keep defaults.
func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("SONIC_UX_SEED", "not-a-number")
	t.Setenv("SONIC_UX_PRESET", "baroque")
	t.Setenv("SONIC_UX_POLYPHONY", "0")

	cfg := LoadConfig()
	def := DefaultConfig()
	if cfg.Seed != def.Seed || cfg.Preset != def.Preset || cfg.Polyphony != def.Polyphony {
		t.Errorf("garbage env changed defaults: %+v", cfg)
	}
}
