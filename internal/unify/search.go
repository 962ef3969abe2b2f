package unify

import (
	"context"
	"fmt"

	"agentcore/internal/beliefbase"
	"agentcore/internal/fuzzy"
	"agentcore/internal/logging"
	"agentcore/internal/parallel"
	"agentcore/internal/term"
)

// Scope is the execution state a belief search reads from and writes into.
type Scope interface {
	Beliefs() beliefbase.BeliefBase
	// Value returns the current value of a bound variable.
	Value(name string) (term.Term, bool)
	// Bind writes values into the scope's variables.
	Bind(values term.Bindings) error
}

// Constraint is evaluated for every candidate that unified with the right
// number of variables. It must not mutate the caller.
type Constraint func(ctx context.Context, candidate term.Bindings) (bool, error)

// Unifier searches belief stores. The zero value searches sequentially even
// when asked for parallel search.
type Unifier struct {
	workers int
}

// New creates a Unifier whose parallel searches run at most workers
// candidates at once (unbounded when workers <= 0).
func New(workers int) *Unifier {
	return &Unifier{workers: workers}
}

// Workers returns the parallel worker bound.
func (u *Unifier) Workers() int {
	return u.workers
}

// Unify is the package-level Unify.
func (u *Unifier) Unify(pattern, value *term.Literal) (term.Bindings, bool) {
	return Unify(pattern, value)
}

// UnifyScope searches the scope's beliefs for literals with the functor,
// negation and arity of pattern. A candidate matches when it unifies with
// pattern binding exactly expected distinct variables and constraint (if
// any) holds. Variables the scope already binds are treated as constants
// and still count. The lowest matching candidate index wins in both
// sequential and parallel mode; its bindings are written into scope.
// On exhaustion the result is false and scope is unchanged.
func (u *Unifier) UnifyScope(ctx context.Context, scope Scope, pattern *term.Literal, expected int, constraint Constraint, concurrent bool) (fuzzy.Value[bool], error) {
	names := Names(pattern)
	seed := seedFrom(scope, names)

	beliefs, err := scope.Beliefs().Lookup(pattern.Functor())
	if err != nil {
		return fuzzy.False(), fmt.Errorf("belief lookup %s: %w", pattern.Functor(), err)
	}
	candidates := beliefs[:0:0]
	for _, b := range beliefs {
		if b.Negated() == pattern.Negated() && b.Arity() == pattern.Arity() {
			candidates = append(candidates, b)
		}
	}

	results := make([]term.Bindings, len(candidates))
	idx, err := parallel.First(ctx, len(candidates), concurrent, u.workers, func(ctx context.Context, i int) (bool, error) {
		b, ok := UnifyWith(seed, pattern, candidates[i])
		if !ok || count(b, names) != expected {
			return false, nil
		}
		if constraint != nil {
			ok, err := constraint(ctx, b)
			if err != nil || !ok {
				return false, err
			}
		}
		results[i] = b
		return true, nil
	})
	if err != nil {
		return fuzzy.False(), err
	}
	if idx == parallel.NotFound {
		logging.UnifyDebug("%s: no match among %d candidates", pattern, len(candidates))
		return fuzzy.False(), nil
	}

	logging.UnifyDebug("%s matched %s with %s", pattern, candidates[idx], results[idx])
	if err := scope.Bind(results[idx]); err != nil {
		return fuzzy.False(), err
	}
	return fuzzy.True(), nil
}

// UnifyLiteral matches pattern against the single literal value under the
// same counting, seeding and constraint rules as UnifyScope.
func (u *Unifier) UnifyLiteral(ctx context.Context, scope Scope, pattern, value *term.Literal, expected int, constraint Constraint) (fuzzy.Value[bool], error) {
	names := Names(pattern)
	b, ok := UnifyWith(seedFrom(scope, names), pattern, value)
	if !ok || count(b, names) != expected {
		return fuzzy.False(), nil
	}
	if constraint != nil {
		ok, err := constraint(ctx, b)
		if err != nil || !ok {
			return fuzzy.False(), err
		}
	}
	if err := scope.Bind(b); err != nil {
		return fuzzy.False(), err
	}
	return fuzzy.True(), nil
}

func seedFrom(scope Scope, names []string) term.Bindings {
	seed := make(term.Bindings)
	for _, name := range names {
		if value, ok := scope.Value(name); ok {
			seed[name] = value
		}
	}
	return seed
}

func count(b term.Bindings, names []string) int {
	n := 0
	for _, name := range names {
		if _, ok := b[name]; ok {
			n++
		}
	}
	return n
}
