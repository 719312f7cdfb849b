package voice

import (
	"log/slog"
	"sync"
	"time"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/parameter"
)

// activeVoice is one entry in the voice slot registry.
type activeVoice struct {
	id          ID
	kind        core.VoiceKind
	pitch       int
	velocity    float64
	allocatedAt time.Time
	backend     Backend

	disposeTimer *time.Timer
	stopped      bool
}

// Controller owns the voice slot registry. All mutation happens under a
// single mutex; timer callbacks re-check registry liveness after
// reacquiring it, since a timer can fire between any two caller
// statements.
type Controller struct {
	mu        sync.Mutex
	log       *slog.Logger
	factories map[core.VoiceKind]BackendFactory
	active    map[ID]*activeVoice
	limit     int
	nextID    ID
	now       func() time.Time

	slots [core.SlotCategoryCount]slotPair
	hold  holdState
}

// NewController creates a controller with the given polyphony ceiling.
// A non-positive limit selects the default ceiling. A nil logger falls
// back to slog.Default.
func NewController(limit int, log *slog.Logger) *Controller {
	if limit <= 0 {
		limit = parameter.DefaultPolyphony
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		log:       log,
		factories: make(map[core.VoiceKind]BackendFactory),
		active:    make(map[ID]*activeVoice),
		limit:     limit,
		now:       time.Now,
	}
}

// RegisterVoice installs the factory used for a voice kind. Replacing a
// factory affects future allocations only.
func (c *Controller) RegisterVoice(kind core.VoiceKind, factory BackendFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[kind] = factory
}

// SetPolyphonyLimit changes the voice ceiling. Values below the minimum
// are clamped. Voices already sounding are not evicted; the new ceiling
// applies from the next allocation.
func (c *Controller) SetPolyphonyLimit(n int) {
	if n < parameter.MinPolyphony {
		n = parameter.MinPolyphony
	}
	c.mu.Lock()
	c.limit = n
	c.mu.Unlock()
}

// PolyphonyLimit returns the current ceiling.
func (c *Controller) PolyphonyLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limit
}

// ActiveCount returns the number of undisposed voices.
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// ActiveIDs returns the ids of all undisposed voices.
func (c *Controller) ActiveIDs() []ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]ID, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	return ids
}

// PlayNote allocates a voice and triggers its attack. A positive
// duration plays a timed note that releases and disposes on its own;
// zero sustains the voice until StopNote. When the ceiling is reached
// the oldest voice is stolen first. Returns None if kind has no
// registered factory.
func (c *Controller) PlayNote(pitch int, velocity float64, duration time.Duration, kind core.VoiceKind) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playNoteLocked(pitch, velocity, duration, kind, 1)
}

// playNoteLocked performs the allocation. gain is the initial voice
// gain; crossfaded slots start voices at 0 and ramp up.
func (c *Controller) playNoteLocked(pitch int, velocity float64, duration time.Duration, kind core.VoiceKind, gain float64) ID {
	factory, ok := c.factories[kind]
	if !ok {
		c.log.Warn("voice kind not registered", "kind", kind.String())
		return None
	}

	// Ceiling is a precondition: free capacity before allocating,
	// never after.
	for len(c.active) >= c.limit {
		if !c.stealOldestLocked() {
			break
		}
	}

	c.nextID++
	id := c.nextID
	backend := factory()
	if gain != 1 {
		backend.RampGain(gain, 0)
	}

	v := &activeVoice{
		id:          id,
		kind:        kind,
		pitch:       pitch,
		velocity:    clampUnit(velocity),
		allocatedAt: c.now(),
		backend:     backend,
	}
	c.active[id] = v
	backend.Trigger(pitch, v.velocity, duration)

	if duration > 0 {
		// The backend handles the timed release itself; the registry
		// entry lives until the tail has rung out.
		wait := duration + parameter.DefaultRelease + parameter.DisposalMargin
		v.disposeTimer = time.AfterFunc(wait, func() { c.disposeVoice(id) })
	}
	return id
}

// stealOldestLocked releases the voice with the smallest allocation
// timestamp using the fast steal release, removing it from the registry
// immediately so capacity is freed synchronously. Returns false if
// there was nothing to steal.
func (c *Controller) stealOldestLocked() bool {
	var oldest *activeVoice
	for _, v := range c.active {
		if oldest == nil || v.allocatedAt.Before(oldest.allocatedAt) {
			oldest = v
		}
	}
	if oldest == nil {
		return false
	}
	if oldest.disposeTimer != nil {
		oldest.disposeTimer.Stop()
	}
	delete(c.active, oldest.id)
	backend := oldest.backend
	if !oldest.stopped {
		backend.Release(parameter.StealRelease)
	}
	time.AfterFunc(parameter.StealRelease+parameter.DisposalMargin, backend.Dispose)
	return true
}

// StopNote triggers a timed release and schedules disposal. Stopping an
// unknown or already-stopped voice is a no-op. A non-positive release
// selects the default release tail.
func (c *Controller) StopNote(id ID, release time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked(id, release)
}

func (c *Controller) stopLocked(id ID, release time.Duration) {
	v, ok := c.active[id]
	if !ok || v.stopped {
		return
	}
	if release <= 0 {
		release = parameter.DefaultRelease
	}
	v.stopped = true
	if v.disposeTimer != nil {
		v.disposeTimer.Stop()
	}
	v.backend.Release(release)
	v.disposeTimer = time.AfterFunc(release+parameter.DisposalMargin, func() { c.disposeVoice(id) })
}

// StopAllNotes stops every active voice with the default release and
// clears all sustained slots and the hold session. Used on mute,
// disable, and tab-hidden transitions.
func (c *Controller) StopAllNotes() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for cat := range c.slots {
		pair := &c.slots[cat]
		for i := range pair.bufs {
			pair.bufs[i].gen++
			c.cancelBufferTimersLocked(&pair.bufs[i])
			pair.bufs[i].voices = nil
		}
	}
	c.hold = holdState{}

	for id := range c.active {
		c.stopLocked(id, parameter.DefaultRelease)
	}
}

// disposeVoice removes a voice from the registry and frees its backend.
// Disposal is idempotent: a voice already removed by a racing timer is
// ignored.
func (c *Controller) disposeVoice(id ID) {
	c.mu.Lock()
	v, ok := c.active[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.active, id)
	c.mu.Unlock()
	v.backend.Dispose()
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
