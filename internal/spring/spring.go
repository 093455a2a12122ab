package spring

import (
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

type Spring struct {
	osc       physics.Oscillator
	precision float64
	stepper   *integrators.Substepper

	// scalar state; means of the vectors in vector mode
	pos   float64
	start float64
	goal  float64
	vel   float64

	startValue  dynamo.Value
	targetValue dynamo.Value // broadcast to the value's arity
	rawTarget   dynamo.Value // as assigned
	kind        dynamo.Kind

	resting  bool
	anchor   time.Time
	anchored bool
	carry    float64

	completed  bool
	snapped    bool
	registered bool

	onStart    Callback
	onFrame    Callback
	onRest     Callback
	onComplete Callback

	scheduler Scheduler
	clock     func() time.Time
	logger    *slog.Logger
}

// New validates opts and returns a resting spring at opts.Value.
func New(opts Options) (*Spring, error) {
	osc := physics.Oscillator{Tension: opts.Tension, Friction: opts.Friction, Mass: opts.Mass}
	if err := osc.Validate(); err != nil {
		return nil, err
	}
	if err := checkPrecision(opts.Precision); err != nil {
		return nil, err
	}
	if err := checkStepRate(opts.StepRate); err != nil {
		return nil, err
	}

	s := &Spring{
		osc:        osc,
		precision:  opts.Precision,
		stepper:    integrators.NewSubstepper(opts.StepRate, opts.MaxSubsteps),
		resting:    true,
		onStart:    opts.OnStart,
		onFrame:    opts.OnFrame,
		onRest:     opts.OnRest,
		onComplete: opts.OnComplete,
		scheduler:  opts.Scheduler,
		clock:      opts.Clock,
		logger:     opts.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if err := s.Set(opts.Value, opts.Target); err != nil {
		return nil, err
	}
	return s, nil
}

// Start sets the spring running and fires OnStart. Registration with the
// scheduler happens at most once however often Start is called.
func (s *Spring) Start() *Spring {
	s.resting = false
	s.completed = false
	s.register()
	s.logger.Debug("spring: start", "value", s.Value(), "target", s.rawTarget, "velocity", s.vel)
	if s.onStart != nil {
		s.onStart(s.Value(), s)
	}
	return s
}

// Pause rests the spring where it is, keeping its velocity for a later Start.
func (s *Spring) Pause() *Spring {
	s.halt()
	s.logger.Debug("spring: pause", "value", s.Value(), "velocity", s.vel)
	if s.onRest != nil {
		s.onRest(s.Value(), s)
	}
	return s
}

// Stop rests the spring where it is and zeroes its velocity.
func (s *Spring) Stop() *Spring {
	s.vel = 0
	s.halt()
	s.logger.Debug("spring: stop", "value", s.Value())
	if s.onRest != nil {
		s.onRest(s.Value(), s)
	}
	return s
}

// Complete snaps the spring onto its target and fires OnRest then
// OnComplete. Until the next Start, further calls only re-snap.
func (s *Spring) Complete() *Spring {
	s.pos = s.goal
	s.vel = 0
	s.snapped = true
	s.halt()
	if s.completed {
		return s
	}
	s.completed = true
	s.logger.Debug("spring: complete", "value", s.Value())
	if s.onRest != nil {
		s.onRest(s.Value(), s)
	}
	if s.onComplete != nil {
		s.onComplete(s.Value(), s)
	}
	return s
}

func (s *Spring) halt() {
	s.resting = true
	s.anchored = false
	s.carry = 0
	s.unregister()
}

// Tick advances the spring by the wall-clock time since the previous tick.
// The first tick after a Start or Pause advances exactly one sub-step.
func (s *Spring) Tick() *Spring {
	return s.advance(0, false)
}

// TickBy advances the spring by elapsed seconds. Time short of a whole
// sub-step is carried into the next TickBy. A negative or non-finite
// elapsed advances nothing and leaves the carried time as it was.
func (s *Spring) TickBy(elapsed float64) *Spring {
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	return s.advance(elapsed, true)
}

// GetValue ticks on the wall clock and returns the fresh value.
func (s *Spring) GetValue() dynamo.Value {
	return s.Tick().Value()
}

func (s *Spring) advance(dt float64, explicit bool) *Spring {
	if s.resting {
		return s
	}
	if s.RestingAtTarget() {
		return s.Complete()
	}

	var elapsed float64
	switch {
	case explicit:
		elapsed = s.carry + dt
	case !s.anchored:
		s.anchor = s.clock()
		s.anchored = true
		elapsed = s.stepper.Interval()
	default:
		elapsed = s.clock().Sub(s.anchor).Seconds()
	}

	n, consumed := s.stepper.Due(elapsed)
	if explicit {
		s.carry = 0
		if c := elapsed - consumed; c > 0 && !math.IsNaN(c) {
			s.carry = c
		}
	}
	if s.anchored {
		s.anchor = s.anchor.Add(time.Duration(consumed * float64(time.Second)))
	}

	for i := 0; i < n; i++ {
		p := s.stepper.Step(&s.osc, dynamo.Phase{Pos: s.pos, Vel: s.vel}, s.goal)
		s.pos, s.vel = p.Pos, p.Vel
		s.snapped = false

		if s.onFrame != nil {
			s.onFrame(s.Value(), s)
		}
		if s.resting {
			break
		}
		if s.RestingAtTarget() {
			s.Complete()
			break
		}
	}
	return s
}

func (s *Spring) register() {
	if s.scheduler == nil || s.registered {
		return
	}
	s.registered = true
	s.scheduler.Register(s)
}

func (s *Spring) unregister() {
	if s.scheduler == nil || !s.registered {
		return
	}
	s.registered = false
	s.scheduler.Unregister(s)
}

// RestingAtTarget reports both distance to the target and speed under the precision.
func (s *Spring) RestingAtTarget() bool {
	return math.Abs(s.pos-s.goal) < s.precision && math.Abs(s.vel) < s.precision
}

func (s *Spring) RestingAtStart() bool {
	return math.Abs(s.pos-s.start) < s.precision && math.Abs(s.vel) < s.precision
}

func (s *Spring) Resting() bool     { return s.resting }
func (s *Spring) Velocity() float64 { return s.vel }

// Position is the internal scalar; the mean of the visible value in vector mode.
func (s *Spring) Position() float64 { return s.pos }

// Goal is the internal scalar target.
func (s *Spring) Goal() float64 { return s.goal }

func (s *Spring) Phase() dynamo.Phase {
	return dynamo.Phase{Pos: s.pos, Vel: s.vel}
}

func (s *Spring) Kind() dynamo.Kind { return s.kind }

// Model returns a copy of the force model.
func (s *Spring) Model() physics.Oscillator { return s.osc }

func (s *Spring) StepRate() float64 { return s.stepper.Rate() }

func (s *Spring) Params() Params {
	return Params{
		Tension:     s.osc.Tension,
		Friction:    s.osc.Friction,
		Mass:        s.osc.Mass,
		Precision:   s.precision,
		StepRate:    s.stepper.Rate(),
		MaxSubsteps: s.stepper.MaxSteps(),
	}
}

func (s *Spring) SetTension(v float64) error {
	if err := physics.CheckTension(v); err != nil {
		return err
	}
	s.osc.Tension = v
	return nil
}

func (s *Spring) SetFriction(v float64) error {
	if err := physics.CheckFriction(v); err != nil {
		return err
	}
	s.osc.Friction = v
	return nil
}

func (s *Spring) SetMass(v float64) error {
	if err := physics.CheckMass(v); err != nil {
		return err
	}
	s.osc.Mass = v
	return nil
}

func (s *Spring) SetPrecision(v float64) error {
	if err := checkPrecision(v); err != nil {
		return err
	}
	s.precision = v
	return nil
}

// SetStepRate floors rate at integrators.MinStepRate.
func (s *Spring) SetStepRate(rate float64) error {
	if err := checkStepRate(rate); err != nil {
		return err
	}
	s.stepper.SetRate(rate)
	return nil
}

func checkPrecision(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &dynamo.ParamError{Param: "precision", Value: v, Wrapped: dynamo.ErrDomain}
	}
	return nil
}

func checkStepRate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &dynamo.ParamError{Param: "step_rate", Value: v, Wrapped: dynamo.ErrDomain}
	}
	return nil
}
