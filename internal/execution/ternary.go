package execution

import (
	"context"
	"fmt"

	"agentcore/internal/term"
)

// Ternary is "condition ? whenTrue : whenFalse". A failing condition takes
// the false branch. A succeeding condition must emit exactly one boolean
// term, which picks the branch; anything else is ErrIllegalState. A nil
// branch succeeds.
type Ternary struct {
	condition Execution
	whenTrue  Execution
	whenFalse Execution
}

func NewTernary(condition, whenTrue, whenFalse Execution) *Ternary {
	return &Ternary{condition: condition, whenTrue: whenTrue, whenFalse: whenFalse}
}

func (t *Ternary) Kind() Kind { return KindTernary }

func (t *Ternary) Execute(ctx context.Context, parallel bool, ectx *Context, args []term.Term) (Result, error) {
	r, err := t.condition.Execute(ctx, parallel, ectx, args)
	if err != nil {
		return Failed(), err
	}

	branch := t.whenFalse
	if succeeded(ectx.Agent(), r.Fuzzy) {
		if len(r.Return) != 1 {
			return Failed(), fmt.Errorf("%w: condition %s emitted %d terms, want 1", ErrIllegalState, t.condition, len(r.Return))
		}
		value, ok := term.BoolOf(r.Return[0])
		if !ok {
			return Failed(), fmt.Errorf("%w: condition %s emitted non-boolean %s", ErrIllegalState, t.condition, r.Return[0])
		}
		if value {
			branch = t.whenTrue
		}
	}

	if branch == nil {
		return Succeed(), nil
	}
	return branch.Execute(ctx, parallel, ectx, args)
}

func (t *Ternary) Variables() []*term.Variable {
	return variablesOf(t.condition, t.whenTrue, t.whenFalse)
}

func (t *Ternary) Children() []Execution {
	out := []Execution{t.condition}
	for _, b := range []Execution{t.whenTrue, t.whenFalse} {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (t *Ternary) String() string {
	return fmt.Sprintf("%s ? %s : %s", t.condition, branchString(t.whenTrue), branchString(t.whenFalse))
}

func branchString(e Execution) string {
	if e == nil {
		return "()"
	}
	return e.String()
}
