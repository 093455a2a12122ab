package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// Euler is explicit forward Euler. It gains energy on undamped springs and
// is kept as a baseline for comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m dynamo.Model, p dynamo.Phase, target, dt float64) dynamo.Phase {
	a := m.Acceleration(p.Pos, target, p.Vel)
	return dynamo.Phase{
		Pos: p.Pos + dt*p.Vel,
		Vel: p.Vel + dt*a,
	}
}
