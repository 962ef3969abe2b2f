package execution

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"agentcore/internal/fuzzy"
	"agentcore/internal/logging"
	"agentcore/internal/term"
)

// Body is the statement list of a rule or plan.
type Body struct {
	statements  []Execution
	annotations Annotations
}

// NewBody creates a body.
func NewBody(annotations Annotations, statements ...Execution) *Body {
	return &Body{statements: statements, annotations: annotations}
}

func (b *Body) Statements() []Execution  { return slices.Clone(b.statements) }
func (b *Body) Annotations() Annotations { return b.annotations }

// Variables returns fresh copies of the statements' variables, one per name.
func (b *Body) Variables() []*term.Variable {
	return unique(variablesOf(b.statements...))
}

// Execute runs the statements against ectx. Sequential bodies stop at the
// first statement that does not succeed; parallel bodies run every
// statement. The result holds every collected outcome, so it defuzzifies as
// their conjunction. Atomic bodies always succeed.
func (b *Body) Execute(ctx context.Context, ectx *Context) (fuzzy.Set, error) {
	var (
		collected fuzzy.Set
		err       error
	)
	if b.annotations.Parallel {
		collected, err = b.executeParallel(ctx, ectx)
	} else {
		collected, err = b.executeSequential(ctx, ectx)
	}
	if err != nil {
		return fuzzy.Fail(), err
	}
	if b.annotations.Atomic {
		return fuzzy.Success(), nil
	}
	if len(collected) == 0 {
		return fuzzy.Success(), nil
	}
	return collected, nil
}

func (b *Body) executeSequential(ctx context.Context, ectx *Context) (fuzzy.Set, error) {
	var collected fuzzy.Set
	for _, st := range b.statements {
		r, err := st.Execute(ctx, false, ectx, nil)
		if err != nil {
			return nil, err
		}
		collected = append(collected, r.Fuzzy...)
		if !succeeded(ectx.Agent(), r.Fuzzy) {
			logging.ExecutionDebug("%s: statement %s failed", ectx.Instance().Name(), st)
			break
		}
	}
	return collected, nil
}

func (b *Body) executeParallel(ctx context.Context, ectx *Context) (fuzzy.Set, error) {
	results := make([]fuzzy.Set, len(b.statements))
	g, gctx := errgroup.WithContext(ctx)
	for i, st := range b.statements {
		g.Go(func() error {
			r, err := st.Execute(gctx, true, ectx, nil)
			if err != nil {
				return err
			}
			results[i] = r.Fuzzy
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var collected fuzzy.Set
	for _, r := range results {
		collected = append(collected, r...)
	}
	return collected, nil
}

func (b *Body) String() string {
	parts := make([]string, len(b.statements))
	for i, st := range b.statements {
		parts[i] = st.String()
	}
	return strings.Join(parts, "; ")
}

// unique keeps the first variable of every name.
func unique(vars []*term.Variable) []*term.Variable {
	seen := make(map[string]bool, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if seen[v.Name()] {
			continue
		}
		seen[v.Name()] = true
		out = append(out, v)
	}
	return out
}
