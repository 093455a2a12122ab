package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

// Simulator drives a spring with a fixed elapsed time per frame and records
// what it sees. It stands in for a display clock when output must be
// reproducible.
type Simulator struct {
	metrics   []dynamo.Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

// Run starts sp if it is resting and ticks it by cfg.Dt until it rests or
// cfg.Duration passes. The starting state is recorded at t=0.
func (s *Simulator) Run(ctx context.Context, sp *spring.Spring, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	result := &Result{
		Times:      make([]float64, 0, frames+1),
		Values:     make([]dynamo.Value, 0, frames+1),
		Positions:  make([]float64, 0, frames+1),
		Velocities: make([]float64, 0, frames+1),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
		SettleTime: -1,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if sp.Resting() {
		sp.Start()
	}

	t := 0.0
	s.observe(result, t, sp)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sp.TickBy(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !sp.Phase().IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		s.observe(result, t, sp)

		if sp.Resting() {
			if sp.RestingAtTarget() {
				result.Settled = true
				result.SettleTime = t
			}
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(r *Result, t float64, sp *spring.Spring) {
	sample := dynamo.Sample{Time: t, Phase: sp.Phase(), Target: sp.Goal(), Value: sp.Value()}
	r.record(t, sample.Value, sample.Phase)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnSample(sample)
	}
}

// Trace integrates m directly with integ at a fixed dt, without the
// lifecycle or any rest detection. It is used to compare steppers.
func (s *Simulator) Trace(ctx context.Context, m dynamo.Model, integ dynamo.Integrator, p0 dynamo.Phase, target float64, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	result := &Result{
		Times:      make([]float64, 0, steps+1),
		Values:     make([]dynamo.Value, 0, steps+1),
		Positions:  make([]float64, 0, steps+1),
		Velocities: make([]float64, 0, steps+1),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
		SettleTime: -1,
	}

	for _, mt := range s.metrics {
		mt.Reset()
	}

	p := p0
	t := 0.0
	s.observePhase(result, t, p, target)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next := integ.Step(m, p, target, cfg.Dt)
		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		p = next
		t += cfg.Dt
		result.StepsTaken++
		s.observePhase(result, t, p, target)
	}

	for _, mt := range s.metrics {
		result.Metrics[mt.Name()] = mt.Value()
	}

	return result, nil
}

func (s *Simulator) observePhase(r *Result, t float64, p dynamo.Phase, target float64) {
	sample := dynamo.Sample{Time: t, Phase: p, Target: target, Value: dynamo.Scalar(p.Pos)}
	r.record(t, sample.Value, p)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnSample(sample)
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
