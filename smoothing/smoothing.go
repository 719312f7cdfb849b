// Package smoothing provides attack/release parameter smoothing and
// decaying value tracking for anti-zipper transitions.
package smoothing

// Default coefficients, biased toward slow movement so parameter changes
// never feel twitchy.
const (
	defaultAttack  = 0.05
	defaultRelease = 0.02

	reducedAttack  = 0.02
	reducedRelease = 0.01

	settledEpsilon = 0.001
)

// SmoothedParam is a single parameter with separate attack and release
// lerp coefficients (0..1, higher = faster).
type SmoothedParam struct {
	current float64
	target  float64
	attack  float64
	release float64
}

// NewSmoothedParam creates a parameter at an initial value with the
// default coefficients.
func NewSmoothedParam(initial float64) SmoothedParam {
	return SmoothedParam{
		current: initial,
		target:  initial,
		attack:  defaultAttack,
		release: defaultRelease,
	}
}

// SetTarget sets the value the parameter moves toward.
func (p *SmoothedParam) SetTarget(target float64) {
	p.target = target
}

// Value returns the current smoothed value.
func (p *SmoothedParam) Value() float64 {
	return p.current
}

// Target returns the target value.
func (p *SmoothedParam) Target() float64 {
	return p.target
}

// Update advances the smoothed value one step. Rising values use the
// attack coefficient, falling values the release coefficient.
func (p *SmoothedParam) Update() {
	coeff := p.release
	if p.target > p.current {
		coeff = p.attack
	}
	p.current += (p.target - p.current) * coeff
}

// Settled reports whether the value has effectively reached its target.
func (p *SmoothedParam) Settled() bool {
	d := p.current - p.target
	if d < 0 {
		d = -d
	}
	return d < settledEpsilon
}

// SetCoefficients replaces the attack and release coefficients, clamped
// to (0, 1].
func (p *SmoothedParam) SetCoefficients(attack, release float64) {
	p.attack = clampCoeff(attack)
	p.release = clampCoeff(release)
}

// Attack returns the attack coefficient.
func (p *SmoothedParam) Attack() float64 {
	return p.attack
}

// Release returns the release coefficient.
func (p *SmoothedParam) Release() float64 {
	return p.release
}

func clampCoeff(c float64) float64 {
	if c < 0.001 {
		return 0.001
	}
	if c > 1 {
		return 1
	}
	return c
}

// ParamSmoother bundles the full set of continuous musical parameters.
type ParamSmoother struct {
	Master     SmoothedParam
	Warmth     SmoothedParam
	Brightness SmoothedParam
	Width      SmoothedParam
	Motion     SmoothedParam
	Reverb     SmoothedParam
	Density    SmoothedParam
	Tension    SmoothedParam
}

// NewParamSmoother creates a smoother with neutral starting values.
func NewParamSmoother() *ParamSmoother {
	return &ParamSmoother{
		Master:     NewSmoothedParam(0.5),
		Warmth:     NewSmoothedParam(0.5),
		Brightness: NewSmoothedParam(0.5),
		Width:      NewSmoothedParam(0.3),
		Motion:     NewSmoothedParam(0),
		Reverb:     NewSmoothedParam(0.4),
		Density:    NewSmoothedParam(0),
		Tension:    NewSmoothedParam(0),
	}
}

func (s *ParamSmoother) each(f func(p *SmoothedParam)) {
	f(&s.Master)
	f(&s.Warmth)
	f(&s.Brightness)
	f(&s.Width)
	f(&s.Motion)
	f(&s.Reverb)
	f(&s.Density)
	f(&s.Tension)
}

// Update advances every parameter one step.
func (s *ParamSmoother) Update() {
	s.each(func(p *SmoothedParam) { p.Update() })
}

// ApplyReducedMotion slows all coefficients for reduced-motion users.
func (s *ParamSmoother) ApplyReducedMotion() {
	s.each(func(p *SmoothedParam) { p.SetCoefficients(reducedAttack, reducedRelease) })
}

// ApplyNormalMotion restores the default smoothing profile.
func (s *ParamSmoother) ApplyNormalMotion() {
	s.each(func(p *SmoothedParam) { p.SetCoefficients(defaultAttack, defaultRelease) })
}

// DecayingValue tracks a value that decays toward zero when the input
// carries the "no data" sentinel (any negative value).
type DecayingValue struct {
	current   float64
	decayRate float64
	lastValid float64
}

// NewDecayingValue creates a tracker at an initial value.
func NewDecayingValue(initial, decayRate float64) DecayingValue {
	if decayRate < 0 {
		decayRate = 0
	} else if decayRate > 1 {
		decayRate = 1
	}
	return DecayingValue{current: initial, decayRate: decayRate, lastValid: initial}
}

// Update feeds a new input. Sentinel values decay the current value;
// valid values replace it.
func (d *DecayingValue) Update(value float64) {
	if value < 0 {
		d.current *= 1 - d.decayRate
		return
	}
	d.current = value
	d.lastValid = value
}

// Value returns the current value.
func (d *DecayingValue) Value() float64 {
	return d.current
}

// LastValid returns the last non-sentinel input.
func (d *DecayingValue) LastValid() float64 {
	return d.lastValid
}
