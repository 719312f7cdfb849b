// Command sonic-pad is an interactive terminal playground: mouse motion,
// clicks, and scrolling become interaction input, and the engine's voice
// triggers play through the synthesis backend. The top rows show the
// current key, chord, preset, and smoothed parameters.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/engine"
	"github.com/auralith/sonic-ux/playback"
)

const frameInterval = 33 * time.Millisecond

type pad struct {
	screen tcell.Screen
	eng    *engine.Engine
	out    *playback.Output
	log    *slog.Logger

	width, height int

	pointerX, pointerY float64
	lastX, lastY       float64
	pointerSpeed       float64
	pointerDown        bool
	scrollV            float64
	sectionID          uint32
	hoverID            uint32
	reducedMotion      bool

	startTime time.Time
	lastFrame core.OutputFrame
}

func newPad(log *slog.Logger) (*pad, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	cfg := engine.LoadConfig()
	cfg.Logger = log
	eng := engine.New(cfg)

	out := playback.NewOutput()
	if err := out.Initialize(); err != nil {
		return nil, err
	}
	if out.SilentMode() {
		log.Warn("no audio device, running silent")
	}
	out.Register(eng)

	p := &pad{
		screen:    screen,
		eng:       eng,
		out:       out,
		log:       log,
		pointerX:  -1,
		pointerY:  -1,
		startTime: time.Now(),
	}
	p.width, p.height = screen.Size()
	return p, nil
}

func (p *pad) run() {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				close(quit)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case ev := <-events:
			if !p.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			p.frame()
			p.draw()
		}
	}
}

func (p *pad) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.width, p.height = ev.Size()
		p.screen.Sync()

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return false
		case ev.Rune() == 'p':
			p.eng.ApplyPreset((p.eng.Preset() + 1) % core.PresetCount)
		case ev.Rune() == 'm':
			p.eng.Modulate(core.ModulationRelative)
		case ev.Rune() == 'd':
			p.eng.Modulate(core.ModulationDominant)
		case ev.Rune() == 's':
			p.eng.Modulate(core.ModulationSubdominant)
		case ev.Rune() == 'l':
			if p.lastFrame.Harmony.Locked {
				p.eng.UnlockHarmony()
			} else {
				p.eng.LockHarmony()
			}
		case ev.Rune() == 'r':
			p.reducedMotion = !p.reducedMotion
		case ev.Rune() >= '1' && ev.Rune() <= '9':
			p.sectionID = uint32(ev.Rune() - '0')
			p.eng.SetSection(p.sectionID)
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		p.trackPointer(x, y)

		btn := ev.Buttons()
		switch {
		case btn&tcell.WheelUp != 0:
			p.scrollV = -0.8
		case btn&tcell.WheelDown != 0:
			p.scrollV = 0.8
		case btn&tcell.Button1 != 0:
			if !p.pointerDown {
				p.pointerDown = true
				p.eng.Event(core.InteractionEvent{
					Type:     core.EventClick,
					X:        p.pointerX,
					Y:        p.pointerY,
					TargetID: p.hoverID,
				})
			}
		default:
			p.pointerDown = false
		}

		// The bottom third of the screen acts as a hover strip split
		// into zones.
		if y > p.height*2/3 && p.width > 0 {
			zone := uint32(x*6/p.width) + 1
			if zone != p.hoverID {
				if p.hoverID != 0 {
					p.eng.Event(core.InteractionEvent{Type: core.EventHoverEnd, HoverID: p.hoverID})
				}
				p.hoverID = zone
				p.eng.Event(core.InteractionEvent{Type: core.EventHoverStart, HoverID: zone})
			}
		} else if p.hoverID != 0 {
			p.eng.Event(core.InteractionEvent{Type: core.EventHoverEnd, HoverID: p.hoverID})
			p.hoverID = 0
		}
	}
	return true
}

func (p *pad) trackPointer(x, y int) {
	if p.width <= 1 || p.height <= 1 {
		return
	}
	nx := float64(x) / float64(p.width-1)
	ny := float64(y) / float64(p.height-1)

	if p.pointerX >= 0 {
		dx, dy := nx-p.lastX, ny-p.lastY
		speed := (abs(dx) + abs(dy)) * 12
		if speed > 1 {
			speed = 1
		}
		p.pointerSpeed = speed
	}
	p.lastX, p.lastY = nx, ny
	p.pointerX, p.pointerY = nx, ny
}

func (p *pad) frame() {
	frame := core.InteractionFrame{
		TMs:           uint64(time.Since(p.startTime) / time.Millisecond),
		ViewportW:     uint32(p.width),
		ViewportH:     uint32(p.height),
		PointerX:      p.pointerX,
		PointerY:      p.pointerY,
		PointerSpeed:  p.pointerSpeed,
		PointerDown:   p.pointerDown,
		ScrollV:       p.scrollV,
		HoverID:       p.hoverID,
		SectionID:     p.sectionID,
		Focus:         true,
		TabFocused:    true,
		ReducedMotion: p.reducedMotion,
	}
	p.lastFrame = p.eng.Update(frame)

	// Inputs decay between events.
	p.pointerSpeed *= 0.8
	p.scrollV *= 0.7
}

func (p *pad) draw() {
	p.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	h := p.lastFrame.Harmony
	lock := ""
	if h.Locked {
		lock = " [locked]"
	}
	p.drawText(0, 0, style, fmt.Sprintf("key %s %s%s  preset %s  section %d  voices %d",
		h.RootName, h.ModeName, lock, p.eng.Preset(), p.sectionID, p.eng.Voices().ActiveCount()))

	m := p.lastFrame.Params
	p.drawText(0, 1, dim, fmt.Sprintf("master %.2f warmth %.2f bright %.2f width %.2f motion %.2f reverb %.2f density %.2f tension %.2f",
		m.Master, m.Warmth, m.Brightness, m.Width, m.Motion, m.Reverb, m.Density, m.Tension))

	p.drawText(0, 2, dim, "move: plucks on click  drag: glide  wheel: tension  1-9: sections  bottom strip: hover pads")
	p.drawText(0, 3, dim, "keys: [p]reset [m]relative [d]ominant [s]ubdominant [l]ock [r]educed-motion [q]uit")

	// Hover strip boundary
	stripY := p.height * 2 / 3
	for x := 0; x < p.width; x++ {
		p.screen.SetContent(x, stripY, tcell.RuneHLine, nil, dim)
	}

	for _, ev := range p.lastFrame.Events {
		if ev.Type == core.MusicCadence {
			p.log.Info("cadence", "to_root", ev.ToRoot, "to_mode", ev.ToMode)
		}
	}

	p.screen.Show()
}

func (p *pad) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		if x+i >= p.width {
			return
		}
		p.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (p *pad) close() {
	p.eng.StopAllNotes()
	p.out.Close()
	p.screen.Fini()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func main() {
	logFile, err := os.OpenFile("sonic-pad.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, nil))
	slog.SetDefault(log)

	p, err := newPad(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer p.close()

	p.run()
}
