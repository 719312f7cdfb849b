package playback

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/auralith/sonic-ux/core"
)

// envState tracks the envelope phase of a synth voice.
type envState int

const (
	envIdle envState = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// kindParams is the per-kind envelope and tone shaping.
type kindParams struct {
	attack  time.Duration
	decay   time.Duration
	sustain float64
	release time.Duration
	level   float64
}

var kindTable = [core.VoiceKindCount]kindParams{
	core.VoicePluck: {attack: 4 * time.Millisecond, decay: 180 * time.Millisecond, sustain: 0.25, release: 250 * time.Millisecond, level: 0.5},
	core.VoicePad:   {attack: 350 * time.Millisecond, decay: 400 * time.Millisecond, sustain: 0.8, release: 600 * time.Millisecond, level: 0.35},
	core.VoiceBell:  {attack: 2 * time.Millisecond, decay: 500 * time.Millisecond, sustain: 0, release: 300 * time.Millisecond, level: 0.4},
	core.VoiceDrone: {attack: 600 * time.Millisecond, decay: 300 * time.Millisecond, sustain: 0.9, release: 900 * time.Millisecond, level: 0.3},
	core.VoiceBass:  {attack: 8 * time.Millisecond, decay: 220 * time.Millisecond, sustain: 0.5, release: 280 * time.Millisecond, level: 0.55},
}

// NoteFreq converts a MIDI note number to frequency in Hz.
func NoteFreq(note int) float64 {
	return 440.0 * math.Pow(2, float64(note-69)/12.0)
}

// synthVoice is one pitched generator streamed by the mixer. The
// controller mutates it (release, glide, gain ramps) from timer and
// caller goroutines while the speaker streams it, so all state is
// guarded by its own mutex.
type synthVoice struct {
	mu   sync.Mutex
	kind core.VoiceKind
	rate beep.SampleRate

	freq       float64
	targetFreq float64
	freqStep   float64
	glideLeft  int

	gain       float64
	targetGain float64
	gainStep   float64
	rampLeft   int

	velocity float64
	phase    float64
	modPhase float64
	filter   float64

	state     envState
	envLevel  float64
	relStart  float64
	envPos    int
	attack    int
	decay     int
	sustain   float64
	release   int
	releaseAt int
	pos       int

	active bool
	done   bool
}

func newSynthVoice(kind core.VoiceKind, rate beep.SampleRate) *synthVoice {
	if kind < 0 || kind >= core.VoiceKindCount {
		kind = core.VoicePluck
	}
	return &synthVoice{
		kind:       kind,
		rate:       rate,
		gain:       1,
		targetGain: 1,
	}
}

// trigger starts the attack. A positive duration schedules an automatic
// release that many samples in.
func (v *synthVoice) trigger(pitch int, velocity float64, duration time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done {
		return
	}

	p := kindTable[v.kind]
	v.freq = NoteFreq(pitch)
	v.targetFreq = v.freq
	v.glideLeft = 0
	v.velocity = velocity * p.level
	v.phase = 0
	v.modPhase = 0
	v.filter = 0

	v.attack = v.rate.N(p.attack)
	v.decay = v.rate.N(p.decay)
	v.sustain = p.sustain
	v.release = v.rate.N(p.release)
	v.releaseAt = 0
	if duration > 0 {
		v.releaseAt = v.rate.N(duration)
	}

	v.state = envAttack
	v.envPos = 0
	v.envLevel = 0
	v.pos = 0
	v.active = true
}

// startRelease enters the release phase from the current level.
func (v *synthVoice) startRelease(tail time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active || v.state == envRelease || v.state == envIdle {
		return
	}
	if tail > 0 {
		v.release = v.rate.N(tail)
	}
	v.enterReleaseLocked()
}

func (v *synthVoice) enterReleaseLocked() {
	v.state = envRelease
	v.relStart = v.envLevel
	v.envPos = 0
}

// glideTo slews the frequency toward a new pitch over the glide window.
func (v *synthVoice) glideTo(pitch int, glide time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active {
		return
	}
	v.targetFreq = NoteFreq(pitch)
	n := v.rate.N(glide)
	if n <= 0 {
		v.freq = v.targetFreq
		v.glideLeft = 0
		return
	}
	v.freqStep = (v.targetFreq - v.freq) / float64(n)
	v.glideLeft = n
}

// rampGain moves the voice gain toward level over the ramp window.
func (v *synthVoice) rampGain(level float64, ramp time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	v.targetGain = level
	n := v.rate.N(ramp)
	if n <= 0 {
		v.gain = level
		v.rampLeft = 0
		return
	}
	v.gainStep = (level - v.gain) / float64(n)
	v.rampLeft = n
}

// dispose silences the voice permanently; the mixer drops it on the
// next stream call.
func (v *synthVoice) dispose() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.done = true
	v.active = false
	v.state = envIdle
}

// Stream implements beep.Streamer.
func (v *synthVoice) Stream(samples [][2]float64) (n int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.done || !v.active {
		return 0, false
	}

	for i := range samples {
		if !v.active {
			return i, false
		}

		raw := v.sampleLocked()
		env := v.advanceEnvelopeLocked()
		s := raw * env * v.velocity * v.gain

		samples[i][0] = s
		samples[i][1] = s

		v.advanceRampsLocked()
		v.pos++
		if v.releaseAt > 0 && v.pos >= v.releaseAt && v.state != envRelease {
			v.enterReleaseLocked()
			v.releaseAt = 0
		}
	}
	return len(samples), true
}

func (v *synthVoice) Err() error { return nil }

func (v *synthVoice) sampleLocked() float64 {
	var raw float64
	switch v.kind {
	case core.VoiceBass:
		// Saw through a one-pole filter that closes as the note decays
		saw := 2.0*v.phase - 1.0
		cutoff := 0.3 - 0.2*v.envLevel
		v.filter += cutoff * (saw - v.filter)
		raw = v.filter

	case core.VoicePluck:
		// FM pair, modulation index tracking the envelope
		modIndex := 3.0 * v.envLevel
		v.modPhase += v.freq * 2 / float64(v.rate)
		if v.modPhase >= 1 {
			v.modPhase -= 1
		}
		mod := math.Sin(2 * math.Pi * v.modPhase)
		raw = math.Sin(2*math.Pi*v.phase + modIndex*mod)

	case core.VoiceBell:
		// Fundamental plus a fading octave partial
		raw = 0.7*math.Sin(2*math.Pi*v.phase) + 0.3*v.envLevel*math.Sin(4*math.Pi*v.phase)

	case core.VoicePad, core.VoiceDrone:
		// Detuned oscillator stack for width
		detune := 0.003
		osc1 := math.Sin(2 * math.Pi * v.phase)
		osc2 := math.Sin(2 * math.Pi * v.phase * (1 + detune))
		osc3 := math.Sin(2 * math.Pi * v.phase * (1 - detune))
		raw = (osc1 + osc2 + osc3) / 3

	default:
		raw = math.Sin(2 * math.Pi * v.phase)
	}

	v.phase += v.freq / float64(v.rate)
	if v.phase >= 1 {
		v.phase -= 1
	}
	return raw
}

func (v *synthVoice) advanceEnvelopeLocked() float64 {
	switch v.state {
	case envAttack:
		if v.attack > 0 {
			v.envLevel = float64(v.envPos) / float64(v.attack)
		} else {
			v.envLevel = 1
		}
		v.envPos++
		if v.envPos >= v.attack {
			v.state = envDecay
			v.envPos = 0
		}

	case envDecay:
		if v.decay > 0 {
			t := float64(v.envPos) / float64(v.decay)
			v.envLevel = 1 - t*(1-v.sustain)
		} else {
			v.envLevel = v.sustain
		}
		v.envPos++
		if v.envPos >= v.decay {
			if v.sustain > 0 {
				v.state = envSustain
			} else {
				v.enterReleaseLocked()
			}
		}

	case envSustain:
		v.envLevel = v.sustain

	case envRelease:
		if v.release > 0 {
			t := float64(v.envPos) / float64(v.release)
			v.envLevel = v.relStart * (1 - t)
		} else {
			v.envLevel = 0
		}
		v.envPos++
		if v.envPos >= v.release || v.envLevel <= 0.001 {
			v.state = envIdle
			v.envLevel = 0
			v.active = false
		}
	}
	return v.envLevel
}

func (v *synthVoice) advanceRampsLocked() {
	if v.glideLeft > 0 {
		v.freq += v.freqStep
		v.glideLeft--
		if v.glideLeft == 0 {
			v.freq = v.targetFreq
		}
	}
	if v.rampLeft > 0 {
		v.gain += v.gainStep
		v.rampLeft--
		if v.rampLeft == 0 {
			v.gain = v.targetGain
		}
	}
}
