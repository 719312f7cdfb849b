// Package playback is the reference synthesis backend: each voice is a
// small software synth streamed through one shared beep mixer. When no
// audio device can be opened the output degrades to silent mode and
// every voice operation becomes a no-op, so the engine keeps working
// without sound.
package playback

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/voice"
)

const defaultSampleRate = beep.SampleRate(48000)

// Output owns the mixer and the speaker session. One Output serves all
// voices of an engine.
type Output struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	mixer *beep.Mixer

	initialized atomic.Bool
	silentMode  atomic.Bool
}

// NewOutput creates an output at the default sample rate.
func NewOutput() *Output {
	return &Output{
		rate:  defaultSampleRate,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer. A speaker that
// cannot open switches to silent mode instead of failing.
func (o *Output) Initialize() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized.Load() {
		return nil
	}

	if err := speaker.Init(o.rate, o.rate.N(100*time.Millisecond)); err != nil {
		o.silentMode.Store(true)
		o.initialized.Store(true)
		return nil
	}

	speaker.Play(o.mixer)
	o.initialized.Store(true)
	return nil
}

// SilentMode reports whether the speaker failed to open.
func (o *Output) SilentMode() bool {
	return o.silentMode.Load()
}

// Close stops all sound and clears the mixer. The speaker itself stays
// open; beep has no teardown.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized.Load() || o.silentMode.Load() {
		o.initialized.Store(false)
		return
	}
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	o.initialized.Store(false)
}

// Factory returns a backend factory for the voice kind, streaming
// through this output's mixer.
func (o *Output) Factory(kind core.VoiceKind) voice.BackendFactory {
	return func() voice.Backend {
		sv := newSynthVoice(kind, o.rate)
		if o.initialized.Load() && !o.silentMode.Load() {
			speaker.Lock()
			o.mixer.Add(sv)
			speaker.Unlock()
		}
		return &synthBackend{voice: sv}
	}
}

// Register installs factories for every voice kind on a registrar such
// as the engine or the voice controller.
func (o *Output) Register(r interface {
	RegisterVoice(core.VoiceKind, voice.BackendFactory)
}) {
	for k := core.VoicePluck; k < core.VoiceKindCount; k++ {
		r.RegisterVoice(k, o.Factory(k))
	}
}

// synthBackend adapts a synthVoice to the controller's backend contract.
type synthBackend struct {
	voice *synthVoice
}

func (b *synthBackend) Trigger(pitch int, velocity float64, duration time.Duration) {
	b.voice.trigger(pitch, velocity, duration)
}

func (b *synthBackend) Release(tail time.Duration) {
	b.voice.startRelease(tail)
}

func (b *synthBackend) GlideTo(pitch int, glide time.Duration) {
	b.voice.glideTo(pitch, glide)
}

func (b *synthBackend) RampGain(level float64, ramp time.Duration) {
	b.voice.rampGain(level, ramp)
}

func (b *synthBackend) Dispose() {
	b.voice.dispose()
}
