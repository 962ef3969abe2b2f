package execution

import (
	"context"
	"fmt"
	"time"

	"agentcore/internal/fuzzy"
	"agentcore/internal/term"
	"agentcore/internal/unify"
)

// unification is the construction-time part every unify node shares.
type unification struct {
	pattern    *term.Literal
	expected   int
	constraint Execution
}

func newUnification(pattern *term.Literal, constraint Execution) (unification, error) {
	names := unify.Names(pattern)
	if len(names) == 0 {
		return unification{}, fmt.Errorf("%w: %s", ErrNoVariables, pattern)
	}
	if dups := unify.Duplicates(pattern); len(dups) > 0 {
		return unification{}, fmt.Errorf("%w: %v in %s", ErrDuplicateVariable, dups, pattern)
	}
	return unification{pattern: pattern, expected: len(names), constraint: constraint}, nil
}

// check evaluates the constraint for a candidate on a fork of ectx.
func (u unification) check(ectx *Context) unify.Constraint {
	if u.constraint == nil {
		return nil
	}
	return func(ctx context.Context, candidate term.Bindings) (bool, error) {
		fork := ectx.Fork()
		if err := fork.Bind(candidate); err != nil {
			return false, err
		}
		r, err := u.constraint.Execute(ctx, false, fork, nil)
		if err != nil {
			return false, err
		}
		if !succeeded(ectx.Agent(), r.Fuzzy) {
			return false, nil
		}
		if value, ok := outputBool(r); ok {
			return value, nil
		}
		return true, nil
	}
}

func (u unification) variables() []*term.Variable {
	return append(copies(u.pattern.ArgVariables()), variablesOf(u.constraint)...)
}

func (u unification) children() []Execution {
	if u.constraint == nil {
		return nil
	}
	return []Execution{u.constraint}
}

func (u unification) describe(source string) string {
	s := ">>" + u.pattern.String()
	if source != "" {
		s += " << " + source
	}
	if u.constraint != nil {
		s += " && " + u.constraint.String()
	}
	return s
}

func toResult(v fuzzy.Value[bool]) Result {
	return resultOf(v.Value())
}

// DefaultUnify searches the belief base for a literal matching its pattern.
type DefaultUnify struct {
	unification
}

// NewDefaultUnify validates pattern: it needs at least one non-wildcard
// variable and no variable may repeat.
func NewDefaultUnify(pattern *term.Literal, constraint Execution) (*DefaultUnify, error) {
	u, err := newUnification(pattern, constraint)
	if err != nil {
		return nil, err
	}
	return &DefaultUnify{unification: u}, nil
}

func (d *DefaultUnify) Kind() Kind { return KindUnify }

func (d *DefaultUnify) Execute(ctx context.Context, parallel bool, ectx *Context, _ []term.Term) (Result, error) {
	agent := ectx.Agent()
	start := time.Now()
	v, err := agent.Unifier().UnifyScope(ctx, ectx, d.pattern, d.expected, d.check(ectx), parallel || d.pattern.At())
	if err != nil {
		return Failed(), err
	}
	collector(agent).ObserveUnification(d.pattern.Functor().String(), v.Value(), time.Since(start))
	return toResult(v), nil
}

func (d *DefaultUnify) Variables() []*term.Variable { return d.variables() }
func (d *DefaultUnify) Children() []Execution       { return d.children() }
func (d *DefaultUnify) String() string              { return d.describe("") }

// LiteralUnify matches its pattern against one ground literal given at
// construction.
type LiteralUnify struct {
	unification
	source *term.Literal
}

// NewLiteralUnify fails with ErrNotGround when source has free variables.
func NewLiteralUnify(pattern, source *term.Literal, constraint Execution) (*LiteralUnify, error) {
	if !source.Ground() {
		return nil, fmt.Errorf("%w: %s", ErrNotGround, source)
	}
	u, err := newUnification(pattern, constraint)
	if err != nil {
		return nil, err
	}
	return &LiteralUnify{unification: u, source: source}, nil
}

func (l *LiteralUnify) Kind() Kind { return KindUnify }

func (l *LiteralUnify) Execute(ctx context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	v, err := ectx.Agent().Unifier().UnifyLiteral(ctx, ectx, l.pattern, l.source, l.expected, l.check(ectx))
	if err != nil {
		return Failed(), err
	}
	return toResult(v), nil
}

func (l *LiteralUnify) Variables() []*term.Variable { return l.variables() }
func (l *LiteralUnify) Children() []Execution       { return l.children() }
func (l *LiteralUnify) String() string              { return l.describe(l.source.String()) }

// VariableUnify matches its pattern against the literal held by a context
// variable at execution time. A free variable, or one holding something
// other than a literal, fails.
type VariableUnify struct {
	unification
	source *term.Variable
}

func NewVariableUnify(pattern *term.Literal, source *term.Variable, constraint Execution) (*VariableUnify, error) {
	u, err := newUnification(pattern, constraint)
	if err != nil {
		return nil, err
	}
	return &VariableUnify{unification: u, source: source}, nil
}

func (v *VariableUnify) Kind() Kind { return KindUnify }

func (v *VariableUnify) Execute(ctx context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	value, ok := ectx.Value(v.source.Name())
	if !ok {
		return Failed(), nil
	}
	literal, ok := value.(*term.Literal)
	if !ok {
		return Failed(), nil
	}
	result, err := ectx.Agent().Unifier().UnifyLiteral(ctx, ectx, v.pattern, literal, v.expected, v.check(ectx))
	if err != nil {
		return Failed(), err
	}
	return toResult(result), nil
}

func (v *VariableUnify) Variables() []*term.Variable {
	return append(v.variables(), v.source.ShallowCopy())
}
func (v *VariableUnify) Children() []Execution { return v.children() }
func (v *VariableUnify) String() string        { return v.describe(v.source.String()) }
