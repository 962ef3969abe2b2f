// Package term provides the value model shared by the unifier and the
// execution layer: raw values, variables and literals.
//
// Literals are immutable once built. Variables inside a literal are templates:
// they carry a name and a kind, never a value. Values live in the variables an
// execution context owns.
package term

import (
	"fmt"
	"math"
	"reflect"
)

// Term is any value that can appear as a literal argument or annotation.
type Term interface {
	fmt.Stringer
	// Ground reports whether the term contains no free variable.
	Ground() bool
}

// Raw wraps an opaque value (string, number, bool, struct, ...).
type Raw struct {
	value any
}

// NewRaw wraps value as a term. A Term passed in is returned unchanged.
func NewRaw(value any) Term {
	if t, ok := value.(Term); ok {
		return t
	}
	return Raw{value: value}
}

// Value returns the wrapped value.
func (r Raw) Value() any {
	return r.value
}

// Bool returns the wrapped value as a boolean.
func (r Raw) Bool() (bool, bool) {
	b, ok := r.value.(bool)
	return b, ok
}

// Float returns the wrapped value as float64 when it is numeric.
func (r Raw) Float() (float64, bool) {
	return toFloat(r.value)
}

// Ground is true for plain values; a list is ground when every element is.
func (r Raw) Ground() bool {
	list, ok := r.value.([]Term)
	if !ok {
		return true
	}
	for _, t := range list {
		if !t.Ground() {
			return false
		}
	}
	return true
}

// Equal compares two raw values. Numbers compare by value across kinds.
func (r Raw) Equal(other Raw) bool {
	return rawEqual(r.value, other.value)
}

func (r Raw) String() string {
	switch v := r.value.(type) {
	case nil:
		return "nil"
	case string:
		return v
	case []Term:
		return listString(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal reports structural equality of two terms. Variables compare by name.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Raw:
		y, ok := b.(Raw)
		return ok && x.Equal(y)
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name() == y.Name()
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Equal(y)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// BoolOf extracts a boolean from a raw term or a bound variable.
func BoolOf(t Term) (bool, bool) {
	switch v := t.(type) {
	case Raw:
		return v.Bool()
	case *Variable:
		value, ok := v.Get()
		if !ok {
			return false, false
		}
		return BoolOf(value)
	}
	return false, false
}

func rawEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && (fa == fb || (math.IsNaN(fa) && math.IsNaN(fb)))
	}
	if ta, ok := a.([]Term); ok {
		tb, ok := b.([]Term)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == tb && ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
