package physics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultTension  = 170.0
	DefaultFriction = 26.0
	DefaultMass     = 1.0
)

type Oscillator struct {
	Tension  float64
	Friction float64
	Mass     float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{
		Tension:  DefaultTension,
		Friction: DefaultFriction,
		Mass:     DefaultMass,
	}
}

// Acceleration is the pure force law. It fails only for a non-positive mass.
func Acceleration(pos, target, vel, tension, friction, mass float64) (float64, error) {
	if mass <= 0 {
		return 0, &dynamo.ParamError{Param: "mass", Value: mass, Wrapped: dynamo.ErrDomain}
	}
	return accel(pos, target, vel, tension, friction, mass), nil
}

func accel(pos, target, vel, tension, friction, mass float64) float64 {
	force := -tension * (pos - target)
	damping := -friction * vel
	return (force + damping) / mass
}

// Acceleration assumes the oscillator passed Validate.
func (o *Oscillator) Acceleration(pos, target, vel float64) float64 {
	return accel(pos, target, vel, o.Tension, o.Friction, o.Mass)
}

func (o *Oscillator) Coefficients() (tension, friction, mass float64) {
	return o.Tension, o.Friction, o.Mass
}

// Validate checks every coefficient, reporting the first one out of range.
func (o *Oscillator) Validate() error {
	if err := CheckTension(o.Tension); err != nil {
		return err
	}
	if err := CheckFriction(o.Friction); err != nil {
		return err
	}
	return CheckMass(o.Mass)
}

func CheckTension(v float64) error {
	if !finite(v) || v <= 0 {
		return &dynamo.ParamError{Param: "tension", Value: v, Wrapped: dynamo.ErrDomain}
	}
	return nil
}

func CheckFriction(v float64) error {
	if !finite(v) || v < 0 {
		return &dynamo.ParamError{Param: "friction", Value: v, Wrapped: dynamo.ErrDomain}
	}
	return nil
}

func CheckMass(v float64) error {
	if !finite(v) || v <= 0 {
		return &dynamo.ParamError{Param: "mass", Value: v, Wrapped: dynamo.ErrDomain}
	}
	return nil
}

// Energy is kinetic plus spring potential relative to target.
func (o *Oscillator) Energy(p dynamo.Phase, target float64) float64 {
	d := p.Pos - target
	return 0.5*o.Mass*p.Vel*p.Vel + 0.5*o.Tension*d*d
}

// AngularFrequency is the undamped natural frequency √(k/m) in rad/s.
func (o *Oscillator) AngularFrequency() float64 {
	return math.Sqrt(o.Tension / o.Mass)
}

func (o *Oscillator) DampingRatio() float64 {
	return o.Friction / (2 * math.Sqrt(o.Tension*o.Mass))
}

func (o *Oscillator) GetParams() map[string]float64 {
	return map[string]float64{
		"tension":  o.Tension,
		"friction": o.Friction,
		"mass":     o.Mass,
	}
}

func (o *Oscillator) SetParam(name string, value float64) error {
	switch name {
	case "tension":
		if err := CheckTension(value); err != nil {
			return err
		}
		o.Tension = value
	case "friction":
		if err := CheckFriction(value); err != nil {
			return err
		}
		o.Friction = value
	case "mass":
		if err := CheckMass(value); err != nil {
			return err
		}
		o.Mass = value
	default:
		return &dynamo.ParamError{Param: name, Value: value, Wrapped: dynamo.ErrDomain}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
