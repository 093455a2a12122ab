package dynamo

import (
	"fmt"
	"math"
)

// Phase is the state of a one-dimensional oscillator.
type Phase struct {
	Pos float64
	Vel float64
}

func (p Phase) IsValid() bool {
	return isFinite(p.Pos) && isFinite(p.Vel)
}

// Model computes the instantaneous acceleration of a body at p pulled toward target.
type Model interface {
	Acceleration(pos, target, vel float64) float64
}

// Damped is implemented by models that are a linear damped spring.
type Damped interface {
	Coefficients() (tension, friction, mass float64)
}

// Hamiltonian is implemented by models with a notion of stored energy.
type Hamiltonian interface {
	Energy(p Phase, target float64) float64
}

type Integrator interface {
	Step(m Model, p Phase, target, dt float64) Phase
}

// Sample is one observed frame of a running spring.
type Sample struct {
	Time   float64
	Phase  Phase
	Target float64
	Value  Value
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
