package integrators

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/springsim/internal/dynamo"
)

// Analytic advances a linear damped spring with the closed-form solution
// from harmonica. Models that are not dynamo.Damped fall back to
// semi-implicit Euler.
type Analytic struct {
	spring harmonica.Spring
	key    [4]float64
	ready  bool
}

func NewAnalytic() *Analytic {
	return &Analytic{}
}

func (a *Analytic) Step(m dynamo.Model, p dynamo.Phase, target, dt float64) dynamo.Phase {
	d, ok := m.(dynamo.Damped)
	if !ok {
		return (&SemiImplicit{}).Step(m, p, target, dt)
	}
	tension, friction, mass := d.Coefficients()

	key := [4]float64{dt, tension, friction, mass}
	if !a.ready || key != a.key {
		omega := math.Sqrt(tension / mass)
		zeta := friction / (2 * math.Sqrt(tension*mass))
		a.spring = harmonica.NewSpring(dt, omega, zeta)
		a.key = key
		a.ready = true
	}

	pos, vel := a.spring.Update(p.Pos, p.Vel, target)
	return dynamo.Phase{Pos: pos, Vel: vel}
}

// FrameInterval is the step length of n frames per second.
func FrameInterval(n int) float64 {
	return harmonica.FPS(n)
}
