// Package midiout renders voices as MIDI messages on a hardware or
// virtual output port. Pitch glides within the bend range become pitch
// bend, wider glides retrigger; gain ramps map to channel expression.
package midiout

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/voice"
)

// bendRangeSemitones is the assumed receiver pitch-bend range.
const bendRangeSemitones = 2

// Standard control change numbers.
const (
	ccExpression  uint8 = 11
	ccAllNotesOff uint8 = 123
)

// kindChannel routes each voice kind to its own MIDI channel so the
// receiver can assign per-kind patches.
var kindChannel = [core.VoiceKindCount]uint8{
	core.VoicePluck: 0,
	core.VoicePad:   1,
	core.VoiceBell:  2,
	core.VoiceDrone: 3,
	core.VoiceBass:  4,
}

// Device is an open MIDI output port shared by all voices. A device
// that fails to open runs in silent mode: every message is dropped and
// the engine keeps working without sound.
type Device struct {
	mu     sync.Mutex
	log    *slog.Logger
	drv    *rtmididrv.Driver
	out    drivers.Out
	send   func(midi.Message) error
	silent bool
}

// Open connects to the first output port whose name contains portName
// (case-insensitive), or the first available port when portName is
// empty. Failure to find or open a port yields a silent device, not an
// error.
func Open(portName string, log *slog.Logger) *Device {
	if log == nil {
		log = slog.Default()
	}
	d := &Device{log: log}

	drv, err := rtmididrv.New()
	if err != nil {
		log.Warn("midi driver unavailable, running silent", "err", err)
		d.silent = true
		return d
	}
	d.drv = drv

	outs, err := drv.Outs()
	if err != nil || len(outs) == 0 {
		log.Warn("no midi outputs, running silent")
		d.silent = true
		return d
	}

	var port drivers.Out
	for _, o := range outs {
		if portName == "" || strings.Contains(strings.ToLower(o.String()), strings.ToLower(portName)) {
			port = o
			break
		}
	}
	if port == nil {
		log.Warn("midi port not found, running silent", "port", portName)
		d.silent = true
		return d
	}

	if err := port.Open(); err != nil {
		log.Warn("midi port open failed, running silent", "port", port.String(), "err", err)
		d.silent = true
		return d
	}

	send, err := midi.SendTo(port)
	if err != nil {
		log.Warn("midi send setup failed, running silent", "err", err)
		d.silent = true
		return d
	}

	d.out = port
	d.send = send
	log.Info("midi output connected", "port", port.String())
	return d
}

// Silent reports whether the device dropped to silent mode.
func (d *Device) Silent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.silent
}

// Close silences every channel and releases the port and driver.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.silent && d.send != nil {
		for ch := uint8(0); ch < 16; ch++ {
			d.send(midi.ControlChange(ch, ccAllNotesOff, 0))
		}
	}
	if d.out != nil {
		d.out.Close()
		d.out = nil
	}
	if d.drv != nil {
		d.drv.Close()
		d.drv = nil
	}
	d.silent = true
}

func (d *Device) sendMsg(msg midi.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.silent || d.send == nil {
		return
	}
	if err := d.send(msg); err != nil {
		d.log.Warn("midi send failed", "err", err)
	}
}

// Factory returns a backend factory emitting on the kind's channel.
func (d *Device) Factory(kind core.VoiceKind) voice.BackendFactory {
	if kind < 0 || kind >= core.VoiceKindCount {
		kind = core.VoicePluck
	}
	ch := kindChannel[kind]
	return func() voice.Backend {
		return &midiBackend{dev: d, channel: ch}
	}
}

// Register installs factories for every voice kind on a registrar such
// as the engine or the voice controller.
func (d *Device) Register(r interface {
	RegisterVoice(core.VoiceKind, voice.BackendFactory)
}) {
	for k := core.VoicePluck; k < core.VoiceKindCount; k++ {
		r.RegisterVoice(k, d.Factory(k))
	}
}

// midiBackend is one sounding note on the shared device.
type midiBackend struct {
	dev     *Device
	channel uint8

	mu       sync.Mutex
	key      uint8
	sounding bool
	offTimer *time.Timer
}

func (b *midiBackend) Trigger(pitch int, velocity float64, duration time.Duration) {
	key := clampKey(pitch)
	vel := uint8(clamp01(velocity) * 127)

	b.mu.Lock()
	if b.sounding {
		b.dev.sendMsg(midi.NoteOff(b.channel, b.key))
	}
	b.key = key
	b.sounding = true
	if b.offTimer != nil {
		b.offTimer.Stop()
		b.offTimer = nil
	}
	if duration > 0 {
		b.offTimer = time.AfterFunc(duration, b.noteOff)
	}
	b.mu.Unlock()

	b.dev.sendMsg(midi.NoteOn(b.channel, key, vel))
}

// Release sends NoteOff immediately; the receiver's own envelope
// renders the tail.
func (b *midiBackend) Release(tail time.Duration) {
	b.noteOff()
}

func (b *midiBackend) GlideTo(pitch int, glide time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.sounding {
		return
	}

	delta := pitch - int(b.key)
	if delta == 0 {
		return
	}
	if delta >= -bendRangeSemitones && delta <= bendRangeSemitones {
		bend := int16(delta * 8191 / bendRangeSemitones)
		b.dev.sendMsg(midi.Pitchbend(b.channel, bend))
		return
	}

	// Outside the bend range: retrigger at the new pitch.
	b.dev.sendMsg(midi.NoteOff(b.channel, b.key))
	b.key = clampKey(pitch)
	b.dev.sendMsg(midi.Pitchbend(b.channel, 0))
	b.dev.sendMsg(midi.NoteOn(b.channel, b.key, 90))
}

func (b *midiBackend) RampGain(level float64, ramp time.Duration) {
	b.dev.sendMsg(midi.ControlChange(b.channel, ccExpression, uint8(clamp01(level)*127)))
}

func (b *midiBackend) Dispose() {
	b.noteOff()
}

func (b *midiBackend) noteOff() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.sounding {
		return
	}
	b.sounding = false
	if b.offTimer != nil {
		b.offTimer.Stop()
		b.offTimer = nil
	}
	b.dev.sendMsg(midi.NoteOff(b.channel, b.key))
}

func clampKey(pitch int) uint8 {
	if pitch < 0 {
		return 0
	}
	if pitch > 127 {
		return 127
	}
	return uint8(pitch)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
