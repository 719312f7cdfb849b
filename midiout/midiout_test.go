package midiout

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/auralith/sonic-ux/core"
)

func silentDevice() *Device {
	return &Device{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		silent: true,
	}
}

// recordingDevice captures messages instead of sending them.
func recordingDevice(sink *[]midi.Message) *Device {
	return &Device{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		send: func(msg midi.Message) error {
			*sink = append(*sink, msg)
			return nil
		},
	}
}

// TestSilentDeviceDropsEverything verifies the full backend contract is
// a safe no-op without a port.
func TestSilentDeviceDropsEverything(t *testing.T) {
	d := silentDevice()
	if !d.Silent() {
		t.Fatal("device not silent")
	}
	b := d.Factory(core.VoicePad)()
	b.Trigger(60, 0.8, 50*time.Millisecond)
	b.GlideTo(62, 10*time.Millisecond)
	b.RampGain(0.3, 0)
	b.Release(0)
	b.Dispose()
	d.Close()
}

// TestTriggerAndReleaseMessages verifies the NoteOn/NoteOff pairing.
func TestTriggerAndReleaseMessages(t *testing.T) {
	var sink []midi.Message
	d := recordingDevice(&sink)

	b := d.Factory(core.VoiceBell)()
	b.Trigger(72, 1.0, 0)
	b.Release(100 * time.Millisecond)

	if len(sink) != 2 {
		t.Fatalf("messages = %d, want 2", len(sink))
	}
	var ch, key, vel uint8
	if !sink[0].GetNoteOn(&ch, &key, &vel) {
		t.Fatalf("first message %v is not NoteOn", sink[0])
	}
	if ch != kindChannel[core.VoiceBell] || key != 72 || vel != 127 {
		t.Errorf("NoteOn = ch %d key %d vel %d", ch, key, vel)
	}
	if !sink[1].GetNoteOff(&ch, &key, &vel) {
		t.Fatalf("second message %v is not NoteOff", sink[1])
	}
	if key != 72 {
		t.Errorf("NoteOff key = %d, want 72", key)
	}
}

// TestReleaseIdempotent verifies repeated release sends one NoteOff.
func TestReleaseIdempotent(t *testing.T) {
	var sink []midi.Message
	d := recordingDevice(&sink)

	b := d.Factory(core.VoicePluck)()
	b.Trigger(60, 0.5, 0)
	b.Release(0)
	b.Release(0)
	b.Dispose()

	offs := 0
	for _, m := range sink {
		var ch, key, vel uint8
		if m.GetNoteOff(&ch, &key, &vel) {
			offs++
		}
	}
	if offs != 1 {
		t.Errorf("NoteOff count = %d, want 1", offs)
	}
}

// TestGlideWithinBendRangeUsesPitchbend verifies small glides bend
// rather than retrigger.
func TestGlideWithinBendRangeUsesPitchbend(t *testing.T) {
	var sink []midi.Message
	d := recordingDevice(&sink)

	b := d.Factory(core.VoiceDrone)()
	b.Trigger(60, 0.5, 0)
	b.GlideTo(62, 10*time.Millisecond)

	last := sink[len(sink)-1]
	var ch uint8
	var rel int16
	var abs uint16
	if !last.GetPitchBend(&ch, &rel, &abs) {
		t.Fatalf("last message %v is not pitch bend", last)
	}
	if rel <= 0 {
		t.Errorf("bend = %d, want positive for upward glide", rel)
	}
}

// TestGlideBeyondBendRangeRetriggers verifies wide glides fall back to
// NoteOff plus NoteOn.
func TestGlideBeyondBendRangeRetriggers(t *testing.T) {
	var sink []midi.Message
	d := recordingDevice(&sink)

	b := d.Factory(core.VoiceDrone)()
	b.Trigger(60, 0.5, 0)
	sink = sink[:0]
	b.GlideTo(72, 10*time.Millisecond)

	var sawOff, sawOn bool
	for _, m := range sink {
		var ch, key, vel uint8
		if m.GetNoteOff(&ch, &key, &vel) {
			sawOff = true
		}
		if m.GetNoteOn(&ch, &key, &vel) {
			sawOn = true
			if key != 72 {
				t.Errorf("retrigger key = %d, want 72", key)
			}
		}
	}
	if !sawOff || !sawOn {
		t.Errorf("wide glide messages = %v, want NoteOff and NoteOn", sink)
	}
}

// TestClampKey verifies out-of-range pitches clamp to MIDI range.
func TestClampKey(t *testing.T) {
	if clampKey(-5) != 0 {
		t.Error("negative pitch not clamped to 0")
	}
	if clampKey(200) != 127 {
		t.Error("high pitch not clamped to 127")
	}
	if clampKey(64) != 64 {
		t.Error("in-range pitch altered")
	}
}
