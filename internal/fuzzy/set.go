package fuzzy

// Set is the graded outcome of one execution step.
type Set []Value[bool]

// Success is the canonical "unambiguously succeeded" distribution.
func Success() Set {
	return Set{{value: true, degree: 1}, {value: false, degree: 0}}
}

// Fail is the canonical "unambiguously failed" distribution.
func Fail() Set {
	return Set{{value: false, degree: 1}, {value: true, degree: 0}}
}

// FromBool maps a crisp result onto Success or Fail.
func FromBool(ok bool) Set {
	if ok {
		return Success()
	}
	return Fail()
}

// Single wraps one value.
func Single(v Value[bool]) Set {
	return Set{v}
}

// Identity is the neutral element of Conjunction.
func Identity() Value[bool] {
	return Value[bool]{value: true, degree: 1}
}

// Conjunction is the pointwise minimum of degrees and the logical AND of values.
func Conjunction(a, b Value[bool]) Value[bool] {
	return Value[bool]{
		value:  a.value && b.value,
		degree: min(a.degree, b.degree),
	}
}

// Reduce folds values by Conjunction, starting from Identity.
func Reduce(values Set) Value[bool] {
	var acc accumulator
	acc.reset()
	for _, v := range values {
		acc.add(v)
	}
	return acc.result()
}

// accumulator is the mutable fold state of Reduce; it never leaves this file.
type accumulator struct {
	value  bool
	degree float64
}

func (a *accumulator) reset() {
	a.value, a.degree = true, 1
}

func (a *accumulator) add(v Value[bool]) {
	a.value = a.value && v.value
	a.degree = min(a.degree, v.degree)
}

func (a *accumulator) result() Value[bool] {
	return Value[bool]{value: a.value, degree: a.degree}
}
