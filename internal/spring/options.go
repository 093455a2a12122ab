package spring

import (
	"log/slog"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

const DefaultPrecision = 0.01

// Callback receives the visible value and the spring that produced it.
type Callback func(v dynamo.Value, s *Spring)

// Scheduler drives registered springs by calling Tick until they rest.
type Scheduler interface {
	Register(s *Spring)
	Unregister(s *Spring)
}

// Options configures a Spring. Start from DefaultOptions; a zero Options
// has a zero mass and is rejected by New.
type Options struct {
	Value  dynamo.Value
	Target dynamo.Value

	Tension   float64
	Friction  float64
	Mass      float64
	Precision float64

	// StepRate is sub-steps per simulated second, floored at integrators.MinStepRate.
	StepRate float64
	// MaxSubsteps caps sub-steps per tick; <= 0 disables the cap.
	MaxSubsteps int

	OnStart    Callback
	OnFrame    Callback
	OnRest     Callback
	OnComplete Callback

	Scheduler Scheduler
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Value:       dynamo.Scalar(0),
		Target:      dynamo.Scalar(0),
		Tension:     physics.DefaultTension,
		Friction:    physics.DefaultFriction,
		Mass:        physics.DefaultMass,
		Precision:   DefaultPrecision,
		StepRate:    integrators.DefaultStepRate,
		MaxSubsteps: integrators.DefaultMaxSubsteps,
	}
}

// Params is a snapshot of a spring's numeric parameters.
type Params struct {
	Tension     float64
	Friction    float64
	Mass        float64
	Precision   float64
	StepRate    float64
	MaxSubsteps int
}
