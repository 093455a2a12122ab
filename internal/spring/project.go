package spring

import "github.com/san-kum/springsim/internal/dynamo"

// SetValue moves the spring's start and current position to v. It does
// not touch the velocity or the resting state. A vector v must match the
// arity of a vector target.
func (s *Spring) SetValue(v dynamo.Value) error {
	return s.Set(v, s.rawTarget)
}

// SetTarget changes the goal. A resting spring stays resting. Unlike the
// lifecycle methods it returns an error rather than the spring, so it does
// not chain; on error the spring is left unchanged.
//
//	if err := s.SetTarget(dynamo.Scalar(50)); err != nil {
//	    return err
//	}
//	s.Start()
func (s *Spring) SetTarget(v dynamo.Value) error {
	if err := checkValue("target", v); err != nil {
		return err
	}
	target, err := resolveTarget(s.startValue, v)
	if err != nil {
		return err
	}
	s.rawTarget = v
	s.targetValue = target
	s.goal = v.Mean()
	s.snapped = false
	return nil
}

// Set assigns value and target together, so both may change arity at once.
func (s *Spring) Set(value, target dynamo.Value) error {
	if err := checkValue("value", value); err != nil {
		return err
	}
	if err := checkValue("target", target); err != nil {
		return err
	}
	resolved, err := resolveTarget(value, target)
	if err != nil {
		return err
	}

	s.startValue = value
	s.kind = value.Kind()
	s.start = value.Mean()
	s.pos = s.start

	s.rawTarget = target
	s.targetValue = resolved
	s.goal = target.Mean()

	s.snapped = false
	return nil
}

// Target returns the target as it was assigned.
func (s *Spring) Target() dynamo.Value {
	return s.rawTarget
}

// From returns the start value as last assigned.
func (s *Spring) From() dynamo.Value {
	return s.startValue
}

// Value is the visible value. Vectors are rebuilt from the scalar
// progress; at rest the exact start or target vector is returned.
func (s *Spring) Value() dynamo.Value {
	if s.kind == dynamo.KindScalar {
		return dynamo.Scalar(s.pos)
	}
	switch {
	case s.snapped:
		return s.targetValue
	case s.RestingAtStart():
		return s.startValue
	case s.RestingAtTarget():
		return s.targetValue
	}

	span := s.goal - s.start
	if span == 0 {
		span = 1
	}
	ratio := (s.pos - s.start) / span

	out := make([]float64, s.startValue.Len())
	for i := range out {
		from := s.startValue.At(i)
		out[i] = (s.targetValue.At(i)-from)*ratio + from
	}
	return dynamo.Vector(out...)
}

func checkValue(name string, v dynamo.Value) error {
	if v.IsVector() && v.Len() == 0 {
		return &dynamo.ParamError{Param: name + " length", Value: 0, Wrapped: dynamo.ErrShapeMismatch}
	}
	if !v.IsFinite() {
		return &dynamo.ParamError{Param: name, Value: v.Mean(), Wrapped: dynamo.ErrInvalidState}
	}
	return nil
}

// resolveTarget shapes target for projection against value.
func resolveTarget(value, target dynamo.Value) (dynamo.Value, error) {
	if !value.IsVector() {
		return target, nil
	}
	if !target.IsVector() {
		return target.Broadcast(value.Len()), nil
	}
	if target.Len() != value.Len() {
		return dynamo.Value{}, &dynamo.ShapeError{Value: value.Len(), Target: target.Len()}
	}
	return target, nil
}
