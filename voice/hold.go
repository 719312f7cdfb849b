package voice

import (
	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/parameter"
)

// holdState tracks the single persistent voice behind a press-and-glide
// gesture. The zero value means no session.
type holdState struct {
	id     ID
	active bool
}

// StartHold begins a held-note session: one sustained voice that later
// UpdateHold calls re-pitch via portamento instead of allocating new
// voices. Starting while a session is active restarts it.
func (c *Controller) StartHold(pitch int, velocity float64, kind core.VoiceKind) ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hold.active {
		c.stopLocked(c.hold.id, parameter.HoldRelease)
	}
	id := c.playNoteLocked(pitch, velocity, 0, kind, 1)
	if id == None {
		c.hold = holdState{}
		return None
	}
	c.hold = holdState{id: id, active: true}
	return id
}

// UpdateHold glides the held voice to a new pitch. No allocation
// happens; if the voice was stolen or no session is active the call is
// a no-op.
func (c *Controller) UpdateHold(pitch int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hold.active {
		return
	}
	v, ok := c.active[c.hold.id]
	if !ok || v.stopped {
		c.hold = holdState{}
		return
	}
	if v.pitch == pitch {
		return
	}
	v.pitch = pitch
	v.backend.GlideTo(pitch, parameter.GlideTime)
}

// EndHold releases the held voice and closes the session. Ending with
// no session is a no-op.
func (c *Controller) EndHold() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hold.active {
		return
	}
	c.stopLocked(c.hold.id, parameter.HoldRelease)
	c.hold = holdState{}
}

// HoldActive reports whether a held-note session is in progress.
func (c *Controller) HoldActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hold.active {
		return false
	}
	v, ok := c.active[c.hold.id]
	return ok && !v.stopped
}
