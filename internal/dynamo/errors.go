package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for spring operations.
var (
	// ErrDomain indicates a physical parameter outside its valid range.
	ErrDomain = errors.New("dynamo: parameter out of physical domain")

	// ErrShapeMismatch indicates value and target vectors that cannot be projected onto each other.
	ErrShapeMismatch = errors.New("dynamo: vector shape mismatch")

	// ErrInvalidState indicates a position or velocity that is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Param   string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g", e.Wrapped.Error(), e.Param, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// ShapeError reports the two arities that disagreed.
type ShapeError struct {
	Value  int
	Target int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: value has %d components, target has %d", ErrShapeMismatch.Error(), e.Value, e.Target)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
