package engine

import (
	"math/rand"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/harmony"
	"github.com/auralith/sonic-ux/parameter"
)

// eventGenerator converts interaction events and frame-level state
// changes into musical events, paced by a minimum interval and a
// density gate.
type eventGenerator struct {
	rng            *rand.Rand
	timeSinceEvent time.Duration
	minInterval    time.Duration
	density        float64

	lastSectionID uint32
	lastHoverID   uint32
}

func newEventGenerator(seed uint64) *eventGenerator {
	return &eventGenerator{
		rng:         rand.New(rand.NewSource(int64(seed))),
		minInterval: parameter.MinEventInterval,
		density:     0.6,
	}
}

// setDensity sets the event density gate (0..1, lower = fewer events).
func (g *eventGenerator) setDensity(density float64) {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	g.density = density
}

func (g *eventGenerator) applyPreset(p core.Preset) {
	g.setDensity(harmony.PresetEventDensity(p))
}

func (g *eventGenerator) applyReducedMotion(reduced bool) {
	if reduced {
		g.density *= parameter.ReducedMotionDensityScale
		g.minInterval = parameter.ReducedMotionEventInterval
	} else {
		g.minInterval = parameter.MinEventInterval
	}
}

// processEvent turns one discrete interaction event into musical events.
func (g *eventGenerator) processEvent(ev core.InteractionEvent, h *harmony.Manager) []core.MusicEvent {
	var out []core.MusicEvent

	switch ev.Type {
	case core.EventClick:
		// Position shapes the pluck: higher on screen is louder and
		// an octave up, x picks the degree.
		velocity := 0.5 + (1-ev.Y)*0.3
		octave := 3 + clampIntUnit(int(ev.Y*2), 2)
		degree := clampIntUnit(int(ev.X*5), 4)
		note := h.ScaleNote(degree, octave)

		centerDist := (abs(ev.X-0.5) + abs(ev.Y-0.5)) / 2
		salience := (1 - centerDist) * velocity * ev.EffectiveWeight()

		out = append(out, core.MusicEvent{
			Type:     core.MusicPluck,
			Note:     note,
			Velocity: velocity,
			Salience: clampUnit(salience),
		})
		g.timeSinceEvent = 0

	case core.EventNav:
		label := h.PoolChordForSection(ev.SectionID)
		out = append(out, core.MusicEvent{
			Type:     core.MusicPadChord,
			Notes:    h.Chord(label, parameter.ChordOctave),
			Velocity: 0.4,
			Salience: 0.8,
		})
		g.lastSectionID = ev.SectionID
		g.timeSinceEvent = 0

	case core.EventHoverStart:
		if ev.HoverID != g.lastHoverID && g.shouldEmit() {
			out = append(out, core.MusicEvent{
				Type:     core.MusicPadChord,
				Notes:    h.Chord(h.RandomChordFromPool(), parameter.DefaultOctave),
				Velocity: 0.2,
				Salience: 0.3,
			})
			g.lastHoverID = ev.HoverID
			g.timeSinceEvent = 0
		}

	case core.EventHoverEnd:
		// Silent; the facade fades the hover slot.
	}

	return out
}

// update advances frame-level event state: section-change chords,
// modulation cadences, and activity accents.
func (g *eventGenerator) update(dt time.Duration, sectionID, hoverID uint32, activity float64, h *harmony.Manager) []core.MusicEvent {
	g.timeSinceEvent += dt
	var out []core.MusicEvent

	if sectionID != g.lastSectionID {
		label := h.PoolChordForSection(sectionID)
		out = append(out, core.MusicEvent{
			Type:     core.MusicPadChord,
			Notes:    h.Chord(label, parameter.ChordOctave),
			Velocity: 0.5,
			Salience: 0.9,
		})
		g.lastSectionID = sectionID
		g.timeSinceEvent = 0
	}

	if toRoot, toMode, ok := h.Update(dt, activity); ok {
		out = append(out, core.MusicEvent{
			Type:     core.MusicCadence,
			ToRoot:   toRoot,
			ToMode:   toMode,
			Salience: 0.7,
		})
	}

	if activity > 0.7 && g.shouldEmit() && g.rng.Float64() < activity*0.1 {
		out = append(out, core.MusicEvent{
			Type:     core.MusicAccent,
			Strength: activity,
			Salience: activity * 0.6,
		})
		g.timeSinceEvent = 0
	}

	g.lastHoverID = hoverID
	return out
}

func (g *eventGenerator) shouldEmit() bool {
	return g.timeSinceEvent > g.minInterval && g.rng.Float64() < g.density
}

func (g *eventGenerator) timeSince() time.Duration {
	return g.timeSinceEvent
}

func clampIntUnit(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
