package execution

import (
	"fmt"
	"maps"
	"slices"

	"agentcore/internal/term"
)

// Annotation functors recognised on rules and plans.
const (
	AnnotationParallel    = "parallel"
	AnnotationAtomic      = "atomic"
	AnnotationDescription = "description"
	AnnotationConstant    = "constant"
)

// Annotations are the execution flags of a rule or plan.
type Annotations struct {
	// Parallel runs every body statement concurrently.
	Parallel bool
	// Atomic reports success whatever the body does.
	Atomic      bool
	Description string
	// Constants are bound in every activation.
	Constants map[string]term.Term
}

// ParseAnnotations reads annotation literals such as parallel, atomic,
// description("...") and constant(Name, value). Unknown functors are ignored.
func ParseAnnotations(literals ...*term.Literal) (Annotations, error) {
	var a Annotations
	for _, l := range literals {
		switch l.Functor().Suffix() {
		case AnnotationParallel:
			a.Parallel = true
		case AnnotationAtomic:
			a.Atomic = true
		case AnnotationDescription:
			if l.Arity() != 1 {
				return a, fmt.Errorf("annotation %s: want 1 argument, got %d", l, l.Arity())
			}
			a.Description = l.Arg(0).String()
		case AnnotationConstant:
			if l.Arity() != 2 {
				return a, fmt.Errorf("annotation %s: want 2 arguments, got %d", l, l.Arity())
			}
			if !l.Arg(1).Ground() {
				return a, fmt.Errorf("annotation %s: %w", l, ErrNotGround)
			}
			if a.Constants == nil {
				a.Constants = make(map[string]term.Term)
			}
			a.Constants[constantName(l.Arg(0))] = l.Arg(1)
		}
	}
	return a, nil
}

func constantName(t term.Term) string {
	if v, ok := t.(*term.Variable); ok {
		return v.Name()
	}
	return t.String()
}

// constants returns the annotation constants as bound variables, sorted by name.
func (a Annotations) constants() []*term.Variable {
	out := make([]*term.Variable, 0, len(a.Constants))
	for _, name := range slices.Sorted(maps.Keys(a.Constants)) {
		out = append(out, term.NewVariable(name).Set(a.Constants[name]))
	}
	return out
}
