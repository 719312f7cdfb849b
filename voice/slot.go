package voice

import (
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/parameter"
)

// slotBuffer is one half of a double-buffered sustained slot. Timers
// are stored so a retrigger can cancel them deterministically rather
// than letting a stale callback release a freshly triggered voice.
type slotBuffer struct {
	voices []ID

	// gen increments on every retrigger. Timer callbacks capture the
	// generation they were scheduled for and bail if the buffer has
	// moved on, since Stop cannot cancel a callback already blocked on
	// the controller mutex.
	gen uint64

	// fadeTimer auto-fades this buffer once its hold duration elapses
	fadeTimer *time.Timer
	// releaseTimer releases this buffer's voices once a fade-down
	// ramp completes
	releaseTimer *time.Timer
}

// slotPair alternates two buffers per category so a new sustained sound
// fades in while the previous one fades out. At steady state at most
// one buffer is audible; both overlap only inside the fade window.
type slotPair struct {
	bufs [2]slotBuffer
	cur  int
}

// PlaySlot triggers a new sustained chord on a double-buffered slot.
// The incoming buffer's pending timers are cancelled and its leftovers
// silenced, the new notes fade in over the crossfade window, and the
// previous buffer fades out and releases. A positive hold auto-fades
// the new notes once the hold elapses with no retrigger.
//
// Returns the ids of the newly triggered voices.
func (c *Controller) PlaySlot(cat core.SlotCategory, pitches []int, velocity float64, kind core.VoiceKind, hold time.Duration) []ID {
	if cat < 0 || cat >= core.SlotCategoryCount {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	pair := &c.slots[cat]
	incoming := 1 - pair.cur
	in := &pair.bufs[incoming]
	prev := &pair.bufs[pair.cur]

	// Reset the incoming buffer: cancel anything it still has pending
	// and silence leftovers immediately.
	in.gen++
	c.cancelBufferTimersLocked(in)
	for _, id := range in.voices {
		if v, ok := c.active[id]; ok {
			v.backend.RampGain(0, 0)
		}
		c.stopLocked(id, parameter.StealRelease)
	}
	in.voices = nil

	// Trigger the new notes silent, then ramp up.
	for _, p := range pitches {
		id := c.playNoteLocked(p, velocity, 0, kind, 0)
		if id == None {
			continue
		}
		in.voices = append(in.voices, id)
		c.active[id].backend.RampGain(1, parameter.CrossfadeWindow)
	}

	// Fade the previous buffer down; release once the ramp completes.
	// Any pending auto-fade on it is superseded.
	c.cancelBufferTimersLocked(prev)
	if len(prev.voices) > 0 {
		for _, id := range prev.voices {
			if v, ok := c.active[id]; ok {
				v.backend.RampGain(0, parameter.CrossfadeWindow)
			}
		}
		prevIdx, prevGen := pair.cur, prev.gen
		prev.releaseTimer = time.AfterFunc(parameter.CrossfadeWindow, func() {
			c.releaseBuffer(cat, prevIdx, prevGen, parameter.SlotFadeOutRelease)
		})
	}

	pair.cur = incoming

	if hold > 0 {
		inGen := in.gen
		in.fadeTimer = time.AfterFunc(hold, func() {
			c.fadeOutBuffer(cat, incoming, inGen)
		})
	}
	return append([]ID(nil), in.voices...)
}

// StopSlot fades out and releases the category's current buffer. Used
// when a hover ends or a sustained bed should stop on demand.
func (c *Controller) StopSlot(cat core.SlotCategory) {
	if cat < 0 || cat >= core.SlotCategoryCount {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fadeOutBufferLocked(cat, c.slots[cat].cur)
}

// SlotVoices returns the ids currently held by the category's active
// buffer.
func (c *Controller) SlotVoices(cat core.SlotCategory) []ID {
	if cat < 0 || cat >= core.SlotCategoryCount {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pair := &c.slots[cat]
	return append([]ID(nil), pair.bufs[pair.cur].voices...)
}

// fadeOutBuffer is the auto-fade timer callback: the hold duration
// elapsed with no retrigger.
func (c *Controller) fadeOutBuffer(cat core.SlotCategory, idx int, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A retrigger may have reset this buffer between the timer firing
	// and the lock being acquired.
	if c.slots[cat].bufs[idx].gen != gen {
		return
	}
	c.fadeOutBufferLocked(cat, idx)
}

func (c *Controller) fadeOutBufferLocked(cat core.SlotCategory, idx int) {
	buf := &c.slots[cat].bufs[idx]
	if len(buf.voices) == 0 {
		return
	}
	for _, id := range buf.voices {
		if v, ok := c.active[id]; ok {
			v.backend.RampGain(0, parameter.CrossfadeWindow)
		}
	}
	if buf.releaseTimer != nil {
		buf.releaseTimer.Stop()
	}
	gen := buf.gen
	buf.releaseTimer = time.AfterFunc(parameter.CrossfadeWindow, func() {
		c.releaseBuffer(cat, idx, gen, parameter.SlotFadeOutRelease)
	})
}

// releaseBuffer stops a buffer's voices after its fade-down ramp. Stale
// invocations find the generation advanced and do nothing.
func (c *Controller) releaseBuffer(cat core.SlotCategory, idx int, gen uint64, tail time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := &c.slots[cat].bufs[idx]
	if buf.gen != gen {
		return
	}
	for _, id := range buf.voices {
		c.stopLocked(id, tail)
	}
	buf.voices = nil
}

// cancelBufferTimersLocked cancels the buffer's pending auto-fade and
// release timers. Scheduled retriggers always supersede them.
func (c *Controller) cancelBufferTimersLocked(buf *slotBuffer) {
	if buf.fadeTimer != nil {
		buf.fadeTimer.Stop()
		buf.fadeTimer = nil
	}
	if buf.releaseTimer != nil {
		buf.releaseTimer.Stop()
		buf.releaseTimer = nil
	}
}
