// Package fuzzy implements graded truth values: a value paired with a degree
// of membership in [0,1]. Execution results travel as sets of such values and
// are reduced to crisp decisions by a pluggable Defuzzification.
package fuzzy

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegreeOutOfRange is returned when a degree lies outside [0,1].
var ErrDegreeOutOfRange = errors.New("fuzzy degree out of range [0,1]")

// Value is an immutable (value, degree) pair.
type Value[T any] struct {
	value  T
	degree float64
}

// New creates a value with the given degree.
func New[T any](value T, degree float64) (Value[T], error) {
	if math.IsNaN(degree) || degree < 0 || degree > 1 {
		return Value[T]{}, fmt.Errorf("%w: %v", ErrDegreeOutOfRange, degree)
	}
	return Value[T]{value: value, degree: degree}, nil
}

// Of creates a value with full membership.
func Of[T any](value T) Value[T] {
	return Value[T]{value: value, degree: 1}
}

// Must is New that panics on an invalid degree. For literals in code and tests.
func Must[T any](value T, degree float64) Value[T] {
	v, err := New(value, degree)
	if err != nil {
		panic(err)
	}
	return v
}

// Value returns the payload.
func (v Value[T]) Value() T {
	return v.value
}

// Degree returns the membership degree.
func (v Value[T]) Degree() float64 {
	return v.degree
}

func (v Value[T]) String() string {
	return fmt.Sprintf("(%v, %g)", v.value, v.degree)
}

// True is (true, 1).
func True() Value[bool] { return Of(true) }

// False is (false, 1).
func False() Value[bool] { return Of(false) }
