package integrators

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultStepRate    = 120.0
	MinStepRate        = 15.0
	DefaultMaxSubsteps = 1200

	// fraction of a sub-step forgiven when counting whole sub-steps; covers
	// float products like (1.0/120)*120 and nanosecond clock truncation
	substepEpsilon = 1e-6
)

// Substepper advances a spring in fixed sub-steps of 1/rate seconds using
// semi-implicit Euler. Small fixed steps keep stiff springs stable no matter
// how irregularly the caller drives it.
type Substepper struct {
	rate     float64
	maxSteps int
}

// NewSubstepper clamps rate to MinStepRate. maxSteps <= 0 disables the cap.
func NewSubstepper(rate float64, maxSteps int) *Substepper {
	return &Substepper{rate: ClampRate(rate), maxSteps: maxSteps}
}

// ClampRate floors rate at MinStepRate; below it the integration diverges.
func ClampRate(rate float64) float64 {
	return math.Max(rate, MinStepRate)
}

func (s *Substepper) Rate() float64     { return s.rate }
func (s *Substepper) Interval() float64 { return 1 / s.rate }
func (s *Substepper) MaxSteps() int     { return s.maxSteps }

func (s *Substepper) SetRate(rate float64) { s.rate = ClampRate(rate) }

// Due reports how many whole sub-steps fit in elapsed and how much of
// elapsed they consume. When the cap truncates the count, the whole
// interval is reported consumed so the backlog is dropped.
func (s *Substepper) Due(elapsed float64) (n int, consumed float64) {
	if elapsed <= 0 || math.IsNaN(elapsed) {
		return 0, 0
	}
	whole := math.Floor(elapsed*s.rate + substepEpsilon)
	if whole < 1 {
		return 0, 0
	}
	if s.maxSteps > 0 && whole > float64(s.maxSteps) {
		return s.maxSteps, elapsed
	}
	return int(whole), whole / s.rate
}

// Step performs one sub-step: velocity first, then position from the new velocity.
func (s *Substepper) Step(m dynamo.Model, p dynamo.Phase, target float64) dynamo.Phase {
	a := m.Acceleration(p.Pos, target, p.Vel)
	p.Vel += a / s.rate
	p.Pos += p.Vel / s.rate
	return p
}

// SemiImplicit is the Substepper's update rule as a plain dt integrator.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (e *SemiImplicit) Step(m dynamo.Model, p dynamo.Phase, target, dt float64) dynamo.Phase {
	a := m.Acceleration(p.Pos, target, p.Vel)
	p.Vel += a * dt
	p.Pos += p.Vel * dt
	return p
}
