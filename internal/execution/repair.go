package execution

import (
	"context"
	"strings"

	"agentcore/internal/term"
)

// Repair tries alternatives in order and returns the first that succeeds.
// An alternative emitting exactly one boolean is judged by that boolean.
type Repair struct {
	alternatives []Execution
}

func NewRepair(alternatives ...Execution) *Repair {
	return &Repair{alternatives: alternatives}
}

func (r *Repair) Kind() Kind { return KindRepair }

func (r *Repair) Execute(ctx context.Context, parallel bool, ectx *Context, args []term.Term) (Result, error) {
	for _, alt := range r.alternatives {
		res, err := alt.Execute(ctx, parallel, ectx, args)
		if err != nil {
			return Failed(), err
		}
		if value, ok := outputBool(res); ok {
			if value {
				return Succeed(res.Return...), nil
			}
			continue
		}
		if succeeded(ectx.Agent(), res.Fuzzy) {
			return res, nil
		}
	}
	return Failed(), nil
}

func (r *Repair) Variables() []*term.Variable { return variablesOf(r.alternatives...) }
func (r *Repair) Children() []Execution       { return r.alternatives }

func (r *Repair) String() string {
	parts := make([]string, len(r.alternatives))
	for i, a := range r.alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " << ")
}
