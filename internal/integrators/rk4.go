package integrators

import "github.com/san-kum/springsim/internal/dynamo"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(m dynamo.Model, p dynamo.Phase, target, dt float64) dynamo.Phase {
	deriv := func(x, v float64) (dx, dv float64) {
		return v, m.Acceleration(x, target, v)
	}

	k1x, k1v := deriv(p.Pos, p.Vel)
	k2x, k2v := deriv(p.Pos+dt*0.5*k1x, p.Vel+dt*0.5*k1v)
	k3x, k3v := deriv(p.Pos+dt*0.5*k2x, p.Vel+dt*0.5*k2v)
	k4x, k4v := deriv(p.Pos+dt*k3x, p.Vel+dt*k3v)

	dt6 := dt / 6.0
	return dynamo.Phase{
		Pos: p.Pos + dt6*(k1x+2*k2x+2*k3x+k4x),
		Vel: p.Vel + dt6*(k1v+2*k2v+2*k3v+k4v),
	}
}
