// Package physics provides the force model behind a spring animation.
//
// [Oscillator] is a single damped harmonic oscillator pulled toward a
// target. It implements [dynamo.Model] for the integrators, and
// [dynamo.Damped] and [dynamo.Hamiltonian] for the analytic stepper and
// the energy metrics:
//
//	osc := physics.NewOscillator()
//	a := osc.Acceleration(pos, target, vel)
//	e := osc.Energy(dynamo.Phase{Pos: pos, Vel: vel}, target)
//
// # Damping Regimes
//
// [Oscillator.DampingRatio] reports ζ = c / (2·√(k·m)). The default
// parameters (tension 170, friction 26, mass 1) sit just under critical
// damping, which settles quickly with no visible overshoot.
package physics
