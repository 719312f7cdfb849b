package engine

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/harmony"
	"github.com/auralith/sonic-ux/parameter"
	"github.com/auralith/sonic-ux/smoothing"
	"github.com/auralith/sonic-ux/voice"
)

// behaviorKinds maps each behavior to the voice kind it triggers.
type behaviorKinds struct {
	pluck core.VoiceKind
	chord core.VoiceKind
	hover core.VoiceKind
	hold  core.VoiceKind
}

// presetKinds is the per-preset voice assignment applied by ApplyPreset.
var presetKinds = [core.PresetCount]behaviorKinds{
	core.PresetAmbient:  {pluck: core.VoiceBell, chord: core.VoicePad, hover: core.VoicePad, hold: core.VoiceDrone},
	core.PresetMinimal:  {pluck: core.VoicePluck, chord: core.VoicePluck, hover: core.VoicePluck, hold: core.VoicePluck},
	core.PresetDramatic: {pluck: core.VoicePluck, chord: core.VoicePad, hover: core.VoiceDrone, hold: core.VoiceBass},
	core.PresetPlayful:  {pluck: core.VoiceBell, chord: core.VoicePluck, hover: core.VoiceBell, hold: core.VoicePluck},
}

// Engine is the public surface of the harmonic voice engine. It composes
// the harmony manager, the voice lifecycle controller, and the parameter
// smoother: interaction frames and events go in, voice triggers go to
// the registered backends, and an OutputFrame of smoothed parameters and
// musical events comes back for the host.
//
// All methods are safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	log *slog.Logger

	smoother *smoothing.ParamSmoother
	harmony  *harmony.Manager
	events   *eventGenerator
	voices   *voice.Controller

	pointerX smoothing.DecayingValue
	pointerY smoothing.DecayingValue

	lastTMs       uint64
	reducedMotion bool
	enabled       atomic.Bool
	diagnostics   atomic.Bool

	clickEnergy float64
	rawActivity float64
	currentKind behaviorKinds
	holding     bool
}

// New creates an engine from the given configuration. Passing no config
// uses defaults; a nil config entry is ignored.
func New(cfg ...*Config) *Engine {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	events := newEventGenerator(config.Seed)
	events.applyPreset(config.Preset)

	e := &Engine{
		log:         log,
		smoother:    smoothing.NewParamSmoother(),
		harmony:     harmony.NewManager(config.Seed, config.Preset),
		events:      events,
		voices:      voice.NewController(config.Polyphony, log),
		pointerX:    smoothing.NewDecayingValue(0.5, parameter.PointerDecayRate),
		pointerY:    smoothing.NewDecayingValue(0.5, parameter.PointerDecayRate),
		currentKind: presetKinds[config.Preset],
	}
	if len(config.ChordPool) > 0 {
		e.harmony.SetChordPool(config.ChordPool)
	}
	e.enabled.Store(true)
	e.diagnostics.Store(config.Diagnostics)
	return e
}

// RegisterVoice installs a backend factory for a voice kind. Until a
// kind is registered, triggers for it degrade to silent no-ops.
func (e *Engine) RegisterVoice(kind core.VoiceKind, factory voice.BackendFactory) {
	e.voices.RegisterVoice(kind, factory)
}

// Voices exposes the lifecycle controller for direct note control.
func (e *Engine) Voices() *voice.Controller {
	return e.voices
}

// Update processes one interaction frame: decays tracked pointer state,
// recomputes parameter targets, advances smoothing, generates musical
// events, and drives the voice controller. Returns the frame's output.
// A disabled engine returns a zero frame and triggers nothing.
func (e *Engine) Update(frame core.InteractionFrame) core.OutputFrame {
	if !e.enabled.Load() {
		return core.OutputFrame{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dt := parameter.FirstFrameDt
	if e.lastTMs != 0 && frame.TMs > e.lastTMs {
		dt = time.Duration(frame.TMs-e.lastTMs) * time.Millisecond
	}
	e.lastTMs = frame.TMs
	e.decayClickEnergy(dt)

	if frame.ReducedMotion != e.reducedMotion {
		e.reducedMotion = frame.ReducedMotion
		if e.reducedMotion {
			e.smoother.ApplyReducedMotion()
		} else {
			e.smoother.ApplyNormalMotion()
		}
		e.events.applyReducedMotion(e.reducedMotion)
	}

	e.pointerX.Update(frame.PointerX)
	e.pointerY.Update(frame.PointerY)

	e.rawActivity = e.calculateActivity(frame)
	e.updateParams(frame, e.rawActivity)
	e.smoother.Update()

	events := e.events.update(dt, frame.SectionID, frame.HoverID, e.rawActivity, e.harmony)

	if !frame.TabFocused && frame.Focus {
		events = append(events, core.MusicEvent{Type: core.MusicMute, On: true, Salience: 1})
	}

	for _, ev := range events {
		e.renderLocked(ev)
	}
	e.updateHoldLocked(frame)

	out := core.OutputFrame{
		Params: core.MusicParams{
			Master:     e.smoother.Master.Value(),
			Warmth:     e.smoother.Warmth.Value(),
			Brightness: e.smoother.Brightness.Value(),
			Width:      e.smoother.Width.Value(),
			Motion:     e.smoother.Motion.Value(),
			Reverb:     e.smoother.Reverb.Value(),
			Density:    e.smoother.Density.Value(),
			Tension:    e.smoother.Tension.Value(),
		},
		Harmony: e.harmony.Snapshot(),
		Events:  events,
	}
	if e.diagnostics.Load() {
		out.Diagnostics = e.buildDiagnosticsLocked()
	}
	return out
}

// Event processes one discrete interaction event, triggering voices and
// returning the musical events it produced. A disabled engine ignores
// events entirely.
func (e *Engine) Event(ev core.InteractionEvent) []core.MusicEvent {
	if !e.enabled.Load() {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.Type == core.EventClick {
		weight := ev.EffectiveWeight()
		intensity := clampUnit(0.6 + weight*0.4 + ev.Y*0.1)
		if intensity > e.clickEnergy {
			e.clickEnergy = intensity
		}
	}

	events := e.events.processEvent(ev, e.harmony)
	for _, me := range events {
		e.renderLocked(me)
	}
	if ev.Type == core.EventHoverEnd {
		e.voices.StopSlot(core.SlotHover)
	}
	return events
}

// SetSection reports a section change as a navigation event.
func (e *Engine) SetSection(sectionID uint32) {
	e.Event(core.InteractionEvent{Type: core.EventNav, SectionID: sectionID})
}

// renderLocked maps one musical event onto the voice controller.
func (e *Engine) renderLocked(ev core.MusicEvent) {
	switch ev.Type {
	case core.MusicPluck:
		e.voices.PlayNote(ev.Note, ev.Velocity, parameter.PluckDuration, e.currentKind.pluck)
	case core.MusicPadChord:
		// Soft low-velocity chords come from hover, full chords from
		// navigation.
		if ev.Velocity < 0.3 {
			e.voices.PlaySlot(core.SlotHover, ev.Notes, ev.Velocity, e.currentKind.hover, 0)
		} else {
			e.voices.PlaySlot(core.SlotNav, ev.Notes, ev.Velocity, e.currentKind.chord, parameter.NavChordHold)
		}
	case core.MusicCadence:
		// The next chord trigger voices the new key; nothing sounds now.
	case core.MusicAccent:
		// Unpitched; left to the host's params mapping.
	case core.MusicMute:
		if ev.On {
			e.voices.StopAllNotes()
		}
	}
}

// updateHoldLocked drives the held-note session from pointer state:
// press starts a voice, movement glides it, release ends it.
func (e *Engine) updateHoldLocked(frame core.InteractionFrame) {
	if !frame.PointerDown {
		if e.holding {
			e.voices.EndHold()
			e.holding = false
		}
		return
	}

	px, py := frame.PointerX, frame.PointerY
	if !frame.HasPointer() {
		px, py = e.pointerX.Value(), e.pointerY.Value()
	}

	n := e.harmony.ScaleLen()
	if n < 1 {
		n = 1
	}
	degree := int(clampUnit(px) * float64(n))
	if degree >= n {
		degree = n - 1
	}
	note := e.harmony.ScaleNote(degree, parameter.DefaultOctave)

	if !e.holding {
		velocity := 0.35 + clampUnit(py)*0.65
		if velocity < 0.2 {
			velocity = 0.2
		}
		e.holding = e.voices.StartHold(note, velocity, e.currentKind.hold) != voice.None
		return
	}
	e.voices.UpdateHold(note)
}

// calculateActivity combines pointer speed and scroll velocity into one
// activity level, damped while the window lacks focus.
func (e *Engine) calculateActivity(frame core.InteractionFrame) float64 {
	raw := frame.PointerSpeed*parameter.ActivityPointerWeight + abs(frame.ScrollV)*parameter.ActivityScrollWeight
	if !frame.Focus {
		raw *= parameter.UnfocusedActivityScale
	}
	return clampUnit(raw)
}

func (e *Engine) decayClickEnergy(dt time.Duration) {
	e.clickEnergy *= decayFactor(dt, parameter.ClickEnergyDecay)
}

// updateParams maps the frame and activity level onto parameter targets.
func (e *Engine) updateParams(frame core.InteractionFrame, activity float64) {
	px, py := frame.PointerX, frame.PointerY
	if !frame.HasPointer() {
		px, py = e.pointerX.Value(), e.pointerY.Value()
	}

	width := abs(px-0.5) * 2
	brightness := clampUnit(py)

	master := 0.55 + activity*0.45
	hoverBoost := 0.0
	if frame.HoverID > 0 {
		hoverBoost = 0.2
	}
	warmth := clampUnit(0.3 + frame.PointerSpeed*0.5 + hoverBoost)
	motion := activity * 0.6

	scrollEnergy := clampUnit(abs(frame.ScrollV))
	reducedBoost := 0.0
	if frame.ReducedMotion {
		reducedBoost = 0.2
	}
	reverb := clampUnit(0.2 + scrollEnergy*0.6 + reducedBoost)

	scrollSpike := clampUnit((scrollEnergy - 0.4) / 0.6)
	tension := clampUnit(e.harmony.Tension()*0.35 + scrollSpike*0.35 + e.clickEnergy*0.4)

	e.smoother.Master.SetTarget(master)
	e.smoother.Warmth.SetTarget(warmth)
	e.smoother.Brightness.SetTarget(brightness)
	e.smoother.Width.SetTarget(width)
	e.smoother.Motion.SetTarget(motion)
	e.smoother.Reverb.SetTarget(reverb)
	e.smoother.Density.SetTarget(activity)
	e.smoother.Tension.SetTarget(tension)
}

func (e *Engine) buildDiagnosticsLocked() *core.Diagnostics {
	return &core.Diagnostics{
		Key:              e.harmony.Root(),
		Mode:             e.harmony.ModeName(),
		Chord:            e.harmony.RootName(),
		RawActivity:      e.rawActivity,
		SmoothingAttack:  e.smoother.Master.Attack(),
		SmoothingRelease: e.smoother.Master.Release(),
		TimeSinceEventMs: uint64(e.events.timeSince() / time.Millisecond),
		ActiveVoices:     e.voices.ActiveCount(),
	}
}

// SetEnabled gates the engine. Disabling stops every active voice and
// suppresses further allocation until re-enabled.
func (e *Engine) SetEnabled(enabled bool) {
	was := e.enabled.Swap(enabled)
	if was && !enabled {
		e.voices.StopAllNotes()
		e.mu.Lock()
		e.holding = false
		e.mu.Unlock()
	}
}

// Enabled reports whether the engine is processing input.
func (e *Engine) Enabled() bool {
	return e.enabled.Load()
}

// SetDiagnostics toggles the diagnostics block on output frames.
func (e *Engine) SetDiagnostics(enabled bool) {
	e.diagnostics.Store(enabled)
}

// ApplyPreset switches the musical character: harmony tables, event
// density, and per-behavior voice assignments.
func (e *Engine) ApplyPreset(p core.Preset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p < 0 || p >= core.PresetCount {
		p = core.PresetAmbient
	}
	e.harmony.SetPreset(p)
	e.events.applyPreset(p)
	if e.reducedMotion {
		e.events.applyReducedMotion(true)
	}
	e.currentKind = presetKinds[p]
}

// Preset returns the active preset.
func (e *Engine) Preset() core.Preset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.harmony.Preset()
}

// SetKey changes the root and mode, with permissive name resolution.
func (e *Engine) SetKey(rootName, modeName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.SetKey(rootName, modeName)
}

// SetScale installs an explicit interval set, tagging the mode custom.
func (e *Engine) SetScale(intervals []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.SetScale(intervals)
}

// Modulate shifts the key in the given direction.
func (e *Engine) Modulate(kind core.ModulationKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.Modulate(kind)
}

// SetChordPool configures the labels navigation chords rotate through.
func (e *Engine) SetChordPool(labels []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.SetChordPool(labels)
}

// SetChord installs an explicit chord, honored even while locked.
func (e *Engine) SetChord(pitches []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.SetChord(pitches)
}

// LockHarmony suspends automatic chord derivation on key changes.
func (e *Engine) LockHarmony() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.LockHarmony()
}

// UnlockHarmony resumes automatic chord derivation.
func (e *Engine) UnlockHarmony() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.UnlockHarmony()
}

// SetModulationRate overrides the preset's automatic modulation rate.
func (e *Engine) SetModulationRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.harmony.SetModulationRate(rate)
}

// Harmony returns a snapshot of the current harmonic state.
func (e *Engine) Harmony() core.HarmonySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.harmony.Snapshot()
}

// PlayNote triggers a voice directly, bypassing event generation. The
// enable gate still applies.
func (e *Engine) PlayNote(pitch int, velocity float64, duration time.Duration, kind core.VoiceKind) voice.ID {
	if !e.enabled.Load() {
		return voice.None
	}
	return e.voices.PlayNote(pitch, velocity, duration, kind)
}

// StopNote releases a playing voice.
func (e *Engine) StopNote(id voice.ID, release time.Duration) {
	e.voices.StopNote(id, release)
}

// StopAllNotes releases every active voice.
func (e *Engine) StopAllNotes() {
	e.voices.StopAllNotes()
	e.mu.Lock()
	e.holding = false
	e.mu.Unlock()
}

// SetPolyphonyLimit changes the simultaneous voice ceiling.
func (e *Engine) SetPolyphonyLimit(n int) {
	e.voices.SetPolyphonyLimit(n)
}

func decayFactor(dt, tau time.Duration) float64 {
	if tau <= 0 {
		return 0
	}
	return math.Exp(-float64(dt) / float64(tau))
}
