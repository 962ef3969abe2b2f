package term

import (
	"strings"
)

// Path is a fully-qualified functor name, segments separated by "/".
type Path string

// NewPath joins segments into a path.
func NewPath(parts ...string) Path {
	return Path(strings.Join(parts, "/"))
}

// Parts splits the path into its segments.
func (p Path) Parts() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), "/")
}

// Suffix returns the last segment.
func (p Path) Suffix() string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func (p Path) String() string {
	return string(p)
}

// Literal is a compound term: an optional negation, an optional parallel
// ("at") marker, a functor path, ordered arguments and unordered annotations.
// A Literal is immutable; the With* methods return modified copies.
type Literal struct {
	negated     bool
	at          bool
	functor     Path
	args        []Term
	annotations []Term
}

// NewLiteral builds a literal. Non-Term arguments are wrapped with NewRaw.
func NewLiteral(functor string, args ...any) *Literal {
	l := &Literal{functor: Path(functor)}
	if len(args) > 0 {
		l.args = make([]Term, len(args))
		for i, a := range args {
			l.args[i] = NewRaw(a)
		}
	}
	return l
}

// WithNegation returns a copy with the negation flag set to negated.
func (l *Literal) WithNegation(negated bool) *Literal {
	c := l.clone()
	c.negated = negated
	return c
}

// WithAt returns a copy with the parallel marker set to at.
func (l *Literal) WithAt(at bool) *Literal {
	c := l.clone()
	c.at = at
	return c
}

// WithAnnotations returns a copy carrying the given annotations.
func (l *Literal) WithAnnotations(annotations ...Term) *Literal {
	c := l.clone()
	c.annotations = append([]Term(nil), annotations...)
	return c
}

func (l *Literal) clone() *Literal {
	return &Literal{
		negated:     l.negated,
		at:          l.at,
		functor:     l.functor,
		args:        l.args,
		annotations: l.annotations,
	}
}

// Negated reports the strong-negation flag.
func (l *Literal) Negated() bool { return l.negated }

// At reports the parallel marker.
func (l *Literal) At() bool { return l.at }

// Functor returns the functor path.
func (l *Literal) Functor() Path { return l.functor }

// Arity returns the number of ordered arguments.
func (l *Literal) Arity() int { return len(l.args) }

// Arg returns the i-th argument.
func (l *Literal) Arg(i int) Term { return l.args[i] }

// Args returns the ordered arguments. The slice is a copy.
func (l *Literal) Args() []Term {
	return append([]Term(nil), l.args...)
}

// Annotations returns the annotations. The slice is a copy.
func (l *Literal) Annotations() []Term {
	return append([]Term(nil), l.annotations...)
}

// Flatten walks arguments and annotations depth-first, descending into nested
// literals and term lists, and returns every term it meets.
func (l *Literal) Flatten() []Term {
	var out []Term
	flatten(l.args, &out)
	flatten(l.annotations, &out)
	return out
}

// FlattenArgs is Flatten restricted to the ordered arguments.
func (l *Literal) FlattenArgs() []Term {
	var out []Term
	flatten(l.args, &out)
	return out
}

func flatten(terms []Term, out *[]Term) {
	for _, t := range terms {
		*out = append(*out, t)
		switch v := t.(type) {
		case *Literal:
			flatten(v.args, out)
			flatten(v.annotations, out)
		case Raw:
			if list, ok := v.value.([]Term); ok {
				flatten(list, out)
			}
		}
	}
}

// Variables returns every variable in arguments and annotations, in
// traversal order, duplicates included.
func (l *Literal) Variables() []*Variable {
	return variablesOf(l.Flatten())
}

// ArgVariables returns every variable in the ordered arguments.
func (l *Literal) ArgVariables() []*Variable {
	return variablesOf(l.FlattenArgs())
}

func variablesOf(terms []Term) []*Variable {
	var out []*Variable
	for _, t := range terms {
		if v, ok := t.(*Variable); ok {
			out = append(out, v)
		}
	}
	return out
}

// Ground reports whether every argument is ground.
func (l *Literal) Ground() bool {
	for _, a := range l.args {
		if !a.Ground() {
			return false
		}
	}
	return true
}

// Equal is structural equality over negation, functor and ordered arguments.
// Annotations and the parallel marker do not take part.
func (l *Literal) Equal(other *Literal) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	if l.negated != other.negated || l.functor != other.functor || len(l.args) != len(other.args) {
		return false
	}
	for i := range l.args {
		if !Equal(l.args[i], other.args[i]) {
			return false
		}
	}
	return true
}

// Allocate returns a copy where every variable that lookup resolves is
// replaced by its value. Unresolved variables stay in place.
func (l *Literal) Allocate(lookup func(name string) (Term, bool)) *Literal {
	c := l.clone()
	c.args = allocate(l.args, lookup)
	c.annotations = allocate(l.annotations, lookup)
	return c
}

// Substitute is Allocate over a binding map.
func (l *Literal) Substitute(b Bindings) *Literal {
	return l.Allocate(b.Lookup)
}

func allocate(terms []Term, lookup func(string) (Term, bool)) []Term {
	if terms == nil {
		return nil
	}
	out := make([]Term, len(terms))
	for i, t := range terms {
		switch v := t.(type) {
		case *Variable:
			if v.Any() {
				out[i] = v
				continue
			}
			if value, ok := lookup(v.Name()); ok && value != nil {
				out[i] = value
			} else {
				out[i] = v
			}
		case *Literal:
			out[i] = v.Allocate(lookup)
		case Raw:
			if list, ok := v.value.([]Term); ok {
				out[i] = Raw{value: allocate(list, lookup)}
			} else {
				out[i] = v
			}
		default:
			out[i] = t
		}
	}
	return out
}

func (l *Literal) String() string {
	var sb strings.Builder
	if l.at {
		sb.WriteString("@")
	}
	if l.negated {
		sb.WriteString("~")
	}
	sb.WriteString(string(l.functor))
	if len(l.args) > 0 {
		sb.WriteString("(")
		sb.WriteString(joinTerms(l.args))
		sb.WriteString(")")
	}
	if len(l.annotations) > 0 {
		sb.WriteString("[")
		sb.WriteString(joinTerms(l.annotations))
		sb.WriteString("]")
	}
	return sb.String()
}

func listString(terms []Term) string {
	return "[" + joinTerms(terms) + "]"
}

func joinTerms(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
