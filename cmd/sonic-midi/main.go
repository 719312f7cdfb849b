// Command sonic-midi plays a scripted interaction session to a MIDI
// output port, for checking receiver patches without a terminal UI.
// The port is matched by substring; with no argument the first output
// is used.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/engine"
	"github.com/auralith/sonic-ux/midiout"
)

func main() {
	port := flag.String("port", "", "substring of the MIDI output port name")
	preset := flag.String("preset", "ambient", "preset: ambient|minimal|dramatic|playful")
	seconds := flag.Int("seconds", 20, "session length")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg := engine.LoadConfig()
	cfg.Logger = log
	if p, ok := core.PresetFromName(*preset); ok {
		cfg.Preset = p
	}
	eng := engine.New(cfg)

	dev := midiout.Open(*port, log)
	defer dev.Close()
	if dev.Silent() {
		fmt.Fprintln(os.Stderr, "no MIDI output available")
		os.Exit(1)
	}
	dev.Register(eng)

	start := time.Now()
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	section := uint32(0)
	nextClick := time.Second
	nextNav := 4 * time.Second

	for now := range ticker.C {
		elapsed := now.Sub(start)
		if elapsed > time.Duration(*seconds)*time.Second {
			break
		}

		// Slow circular pointer sweep drives the continuous params.
		t := elapsed.Seconds()
		frame := core.InteractionFrame{
			TMs:          uint64(elapsed / time.Millisecond),
			PointerX:     0.5 + 0.4*osc(t/7),
			PointerY:     0.5 + 0.4*osc(t/5+0.25),
			PointerSpeed: 0.3,
			SectionID:    section,
			Focus:        true,
			TabFocused:   true,
		}
		eng.Update(frame)

		if elapsed >= nextClick {
			eng.Event(core.InteractionEvent{Type: core.EventClick, X: frame.PointerX, Y: frame.PointerY})
			nextClick += 1500 * time.Millisecond
		}
		if elapsed >= nextNav {
			section++
			eng.SetSection(section)
			nextNav += 5 * time.Second
		}
	}

	eng.StopAllNotes()
	// Let release tails finish before the port closes.
	time.Sleep(500 * time.Millisecond)
}

// osc is a slow triangle oscillation in -1..1.
func osc(t float64) float64 {
	t -= float64(int(t))
	if t < 0 {
		t += 1
	}
	if t < 0.5 {
		return 4*t - 1
	}
	return 3 - 4*t
}
