// Package unify matches pattern literals against concrete literals and
// searches a belief store for the first literal that satisfies a pattern.
package unify

import (
	"agentcore/internal/term"
)

// Unify matches pattern against value and returns the bindings it produced.
//
// A pattern variable takes the value found at its position; when that value
// is itself a free variable the binding holds the *term.Variable, marking a
// relocation from the pattern's name to the value's name. Raw values must be
// equal, nested literals are unified recursively, and a variable that repeats
// within pattern must meet equal values. Annotations take no part.
func Unify(pattern, value *term.Literal) (term.Bindings, bool) {
	return UnifyWith(nil, pattern, value)
}

// UnifyWith is Unify starting from seed bindings. Seeded names behave as
// constants and are kept in the result. seed is not modified.
func UnifyWith(seed term.Bindings, pattern, value *term.Literal) (term.Bindings, bool) {
	b := make(term.Bindings, len(seed)+pattern.Arity())
	for k, v := range seed {
		b[k] = v
	}
	if !unifyLiteral(b, pattern, value) {
		return nil, false
	}
	return b, true
}

func unifyLiteral(b term.Bindings, p, v *term.Literal) bool {
	if p.Negated() != v.Negated() || p.Functor() != v.Functor() || p.Arity() != v.Arity() {
		return false
	}
	for i := 0; i < p.Arity(); i++ {
		if !unifyTerm(b, p.Arg(i), v.Arg(i)) {
			return false
		}
	}
	return true
}

func unifyTerm(b term.Bindings, p, v term.Term) bool {
	v = deref(v)

	switch pt := p.(type) {
	case *term.Variable:
		if pt.Any() {
			return true
		}
		if value, ok := pt.Get(); ok {
			return unifyTerm(b, value, v)
		}
		if existing, ok := b[pt.Name()]; ok {
			return same(existing, v)
		}
		if vv, ok := v.(*term.Variable); ok && vv.Any() {
			return true
		}
		b[pt.Name()] = v
		return true

	case *term.Literal:
		vl, ok := v.(*term.Literal)
		return ok && unifyLiteral(b, pt, vl)

	case term.Raw:
		vr, ok := v.(term.Raw)
		if !ok {
			return false
		}
		pl, pok := pt.Value().([]term.Term)
		vlist, vok := vr.Value().([]term.Term)
		if pok && vok {
			if len(pl) != len(vlist) {
				return false
			}
			for i := range pl {
				if !unifyTerm(b, pl[i], vlist[i]) {
					return false
				}
			}
			return true
		}
		return pt.Equal(vr)

	default:
		return term.Equal(p, v)
	}
}

// deref replaces a bound variable by its value.
func deref(t term.Term) term.Term {
	for {
		v, ok := t.(*term.Variable)
		if !ok {
			return t
		}
		value, bound := v.Get()
		if !bound {
			return t
		}
		t = value
	}
}

func same(a, b term.Term) bool {
	av, aok := a.(*term.Variable)
	bv, bok := b.(*term.Variable)
	if aok && bok {
		return av.Name() == bv.Name()
	}
	if aok || bok {
		return false
	}
	return term.Equal(a, b)
}

// Frequency counts the occurrences of every non-wildcard variable among the
// argument positions of l, nested literals included.
func Frequency(l *term.Literal) map[string]int {
	out := make(map[string]int)
	for _, v := range l.ArgVariables() {
		if v.Any() {
			continue
		}
		out[v.Name()]++
	}
	return out
}

// Duplicates returns the names that occur more than once in l, in first
// occurrence order.
func Duplicates(l *term.Literal) []string {
	freq := Frequency(l)
	var out []string
	seen := make(map[string]bool)
	for _, v := range l.ArgVariables() {
		name := v.Name()
		if v.Any() || seen[name] || freq[name] < 2 {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Names returns the distinct non-wildcard variable names of l in first
// occurrence order.
func Names(l *term.Literal) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range l.ArgVariables() {
		if v.Any() || seen[v.Name()] {
			continue
		}
		seen[v.Name()] = true
		out = append(out, v.Name())
	}
	return out
}
