// Package dynamo provides the primitives shared by the spring packages.
//
// The package defines the value and state types every other package speaks:
//
//   - [Value]: tagged scalar-or-vector value seen by callers
//   - [Phase]: position and velocity of a one-dimensional oscillator
//   - [Model]: acceleration law (force model)
//   - [Integrator]: advances a [Phase] by a time step
//
// # Example
//
//	osc := physics.NewOscillator()
//	step := integrators.NewRK4()
//	p := dynamo.Phase{Pos: 0}
//	p = step.Step(osc, p, 100, 1.0/120)
//
// # Errors
//
// Invalid parameters and shapes are reported with [ErrDomain] and
// [ErrShapeMismatch], usually wrapped in a [ParamError].
package dynamo
