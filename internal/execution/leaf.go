package execution

import (
	"context"
	"fmt"
	"strings"

	"agentcore/internal/term"
)

func resolve(ectx *Context, t term.Term) (term.Term, bool) {
	switch v := t.(type) {
	case *term.Variable:
		if value, ok := v.Get(); ok {
			return value, true
		}
		return ectx.Value(v.Name())
	case *term.Literal:
		return ectx.Allocate(v), true
	default:
		return t, true
	}
}

func termVariables(terms ...term.Term) []*term.Variable {
	var out []*term.Variable
	for _, t := range terms {
		switch v := t.(type) {
		case *term.Variable:
			if !v.Any() {
				out = append(out, v.ShallowCopy())
			}
		case *term.Literal:
			out = append(out, copies(v.Variables())...)
		}
	}
	return out
}

// Constant emits one term, resolved against the context. An unbound
// variable fails.
type Constant struct {
	value term.Term
}

func NewConstant(value any) *Constant {
	return &Constant{value: term.NewRaw(value)}
}

func (c *Constant) Kind() Kind { return KindConstant }

func (c *Constant) Execute(_ context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	value, ok := resolve(ectx, c.value)
	if !ok {
		return Failed(), nil
	}
	return Succeed(value), nil
}

func (c *Constant) Variables() []*term.Variable { return termVariables(c.value) }
func (c *Constant) String() string              { return c.value.String() }

// Operator is a relational operator.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Compare evaluates "left op right" and emits one boolean term. Ordering
// operators compare numbers, or strings when both sides are strings. An
// unbound operand fails.
type Compare struct {
	op          Operator
	left, right term.Term
}

func NewCompare(op Operator, left, right any) (*Compare, error) {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
	return &Compare{op: op, left: term.NewRaw(left), right: term.NewRaw(right)}, nil
}

func (c *Compare) Kind() Kind { return KindCompare }

func (c *Compare) Execute(_ context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	left, lok := resolve(ectx, c.left)
	right, rok := resolve(ectx, c.right)
	if !lok || !rok {
		return Failed(), nil
	}
	value, err := c.evaluate(left, right)
	if err != nil {
		return Failed(), err
	}
	return Succeed(term.NewRaw(value)), nil
}

func (c *Compare) evaluate(left, right term.Term) (bool, error) {
	switch c.op {
	case OpEqual:
		return term.Equal(left, right), nil
	case OpNotEqual:
		return !term.Equal(left, right), nil
	}

	cmp, err := order(left, right)
	if err != nil {
		return false, fmt.Errorf("%s: %w", c, err)
	}
	switch c.op {
	case OpLess:
		return cmp < 0, nil
	case OpLessEqual:
		return cmp <= 0, nil
	case OpGreater:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func order(left, right term.Term) (int, error) {
	lr, lok := left.(term.Raw)
	rr, rok := right.(term.Raw)
	if lok && rok {
		if a, ok := lr.Float(); ok {
			if b, ok := rr.Float(); ok {
				switch {
				case a < b:
					return -1, nil
				case a > b:
					return 1, nil
				}
				return 0, nil
			}
		}
		a, aok := lr.Value().(string)
		b, bok := rr.Value().(string)
		if aok && bok {
			return strings.Compare(a, b), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot order %s and %s", ErrIllegalState, left, right)
}

func (c *Compare) Variables() []*term.Variable { return termVariables(c.left, c.right) }

func (c *Compare) String() string {
	return fmt.Sprintf("%s %s %s", c.left, c.op, c.right)
}

// Not negates its inner node: a single boolean output is inverted and
// re-emitted, otherwise the defuzzified outcome is inverted.
type Not struct {
	inner Execution
}

func NewNot(inner Execution) *Not {
	return &Not{inner: inner}
}

func (n *Not) Kind() Kind { return KindNot }

func (n *Not) Execute(ctx context.Context, parallel bool, ectx *Context, args []term.Term) (Result, error) {
	r, err := n.inner.Execute(ctx, parallel, ectx, args)
	if err != nil {
		return Failed(), err
	}
	if value, ok := outputBool(r); ok {
		return Succeed(term.NewRaw(!value)), nil
	}
	return resultOf(!succeeded(ectx.Agent(), r.Fuzzy)), nil
}

func (n *Not) Variables() []*term.Variable { return n.inner.Variables() }
func (n *Not) Children() []Execution       { return []Execution{n.inner} }
func (n *Not) String() string              { return "~" + n.inner.String() }
