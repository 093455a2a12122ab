package dynamo

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindScalar Kind = iota
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is either a single number or an ordered vector of numbers.
// The zero Value is Scalar(0).
type Value struct {
	kind   Kind
	scalar float64
	vec    []float64
}

func Scalar(f float64) Value {
	return Value{kind: KindScalar, scalar: f}
}

// Vector copies fs into a vector Value.
func Vector(fs ...float64) Value {
	vec := make([]float64, len(fs))
	copy(vec, fs)
	return Value{kind: KindVector, vec: vec}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsVector() bool { return v.kind == KindVector }

// Len is 1 for a scalar.
func (v Value) Len() int {
	if v.kind == KindScalar {
		return 1
	}
	return len(v.vec)
}

// At returns component i. A scalar answers every index with itself.
func (v Value) At(i int) float64 {
	if v.kind == KindScalar {
		return v.scalar
	}
	return v.vec[i]
}

// Mean is the arithmetic mean of the components. An empty vector has mean 0.
func (v Value) Mean() float64 {
	if v.kind == KindScalar {
		return v.scalar
	}
	if len(v.vec) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range v.vec {
		sum += f
	}
	return sum / float64(len(v.vec))
}

// Float is the scalar itself, or the mean of a vector.
func (v Value) Float() float64 {
	return v.Mean()
}

func (v Value) Slice() []float64 {
	if v.kind == KindScalar {
		return []float64{v.scalar}
	}
	out := make([]float64, len(v.vec))
	copy(out, v.vec)
	return out
}

// Broadcast repeats a scalar n times. Vectors are returned unchanged.
func (v Value) Broadcast(n int) Value {
	if v.kind == KindVector {
		return v
	}
	vec := make([]float64, n)
	for i := range vec {
		vec[i] = v.scalar
	}
	return Value{kind: KindVector, vec: vec}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindScalar {
		return v.scalar == o.scalar
	}
	if len(v.vec) != len(o.vec) {
		return false
	}
	for i := range v.vec {
		if v.vec[i] != o.vec[i] {
			return false
		}
	}
	return true
}

func (v Value) IsFinite() bool {
	if v.kind == KindScalar {
		return isFinite(v.scalar)
	}
	for _, f := range v.vec {
		if !isFinite(f) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if v.kind == KindScalar {
		return strconv.FormatFloat(v.scalar, 'g', -1, 64)
	}
	parts := make([]string, len(v.vec))
	for i, f := range v.vec {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ValueOf builds a scalar from a single element and a vector otherwise.
func ValueOf(fs []float64) Value {
	if len(fs) == 1 {
		return Scalar(fs[0])
	}
	return Vector(fs...)
}
