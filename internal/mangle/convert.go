package mangle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/mangle/ast"

	"agentcore/internal/term"
)

// ErrUnsupported is returned for terms the fact store cannot represent:
// nested literals, lists, free variables and values of unknown type.
var ErrUnsupported = errors.New("term not representable as a mangle constant")

// negationPrefix marks the predicate symbol of a strongly negated belief.
const negationPrefix = "~"

func predicateSymbol(l *term.Literal) string {
	if l.Negated() {
		return negationPrefix + string(l.Functor())
	}
	return string(l.Functor())
}

// literalToAtom converts a ground, flat literal into a fact atom.
func literalToAtom(l *term.Literal) (ast.Atom, error) {
	args := make([]ast.BaseTerm, l.Arity())
	for i := range args {
		c, err := termToConstant(l.Arg(i))
		if err != nil {
			return ast.Atom{}, fmt.Errorf("%s arg %d: %w", l, i, err)
		}
		args[i] = c
	}
	return ast.Atom{
		Predicate: ast.PredicateSym{Symbol: predicateSymbol(l), Arity: len(args)},
		Args:      args,
	}, nil
}

// atomToLiteral is the inverse of literalToAtom.
func atomToLiteral(atom ast.Atom) *term.Literal {
	symbol := atom.Predicate.Symbol
	negated := strings.HasPrefix(symbol, negationPrefix)
	if negated {
		symbol = strings.TrimPrefix(symbol, negationPrefix)
	}
	args := make([]any, len(atom.Args))
	for i, arg := range atom.Args {
		args[i] = baseTermToTerm(arg)
	}
	return term.NewLiteral(symbol, args...).WithNegation(negated)
}

func termToConstant(t term.Term) (ast.BaseTerm, error) {
	if v, ok := t.(*term.Variable); ok {
		value, bound := v.Get()
		if !bound {
			return nil, fmt.Errorf("%w: free variable %s", ErrUnsupported, v)
		}
		t = value
	}
	raw, ok := t.(term.Raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
	return convertValueToConstant(raw.Value())
}

// convertValueToConstant converts a Go value to a Mangle constant.
// Identifier-like strings become names, other strings become strings.
func convertValueToConstant(value any) (ast.BaseTerm, error) {
	switch v := value.(type) {
	case string:
		if isName(v) {
			return ast.Name("/" + v)
		}
		return ast.String(v), nil
	case bool:
		if v {
			return ast.TrueConstant, nil
		}
		return ast.FalseConstant, nil
	case int:
		return ast.Number(int64(v)), nil
	case int8:
		return ast.Number(int64(v)), nil
	case int16:
		return ast.Number(int64(v)), nil
	case int32:
		return ast.Number(int64(v)), nil
	case int64:
		return ast.Number(v), nil
	case uint:
		return ast.Number(int64(v)), nil
	case uint8:
		return ast.Number(int64(v)), nil
	case uint16:
		return ast.Number(int64(v)), nil
	case uint32:
		return ast.Number(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupported, v)
		}
		return ast.Number(int64(v)), nil
	case float32:
		return ast.Float64(float64(v)), nil
	case float64:
		return ast.Float64(v), nil
	default:
		return nil, fmt.Errorf("%w: value of type %T", ErrUnsupported, value)
	}
}

func baseTermToTerm(bt ast.BaseTerm) term.Term {
	switch v := bt.(type) {
	case ast.Constant:
		return term.NewRaw(constantToValue(v))
	case ast.Variable:
		return term.NewVariable(v.Symbol)
	default:
		return term.NewRaw(fmt.Sprintf("%v", bt))
	}
}

func constantToValue(c ast.Constant) any {
	switch c.Type {
	case ast.NameType:
		switch c.Symbol {
		case ast.TrueConstant.Symbol:
			return true
		case ast.FalseConstant.Symbol:
			return false
		}
		return strings.TrimPrefix(c.Symbol, "/")
	case ast.StringType, ast.BytesType:
		return c.Symbol
	case ast.NumberType:
		return c.NumValue
	case ast.Float64Type:
		return math.Float64frombits(uint64(c.NumValue))
	default:
		return c.String()
	}
}

// isName reports whether s can be written as a Mangle name constant.
func isName(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	for _, part := range strings.Split(s, "/") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case i > 0 && (r >= '0' && r <= '9' || r == '_' || r == '.'):
			default:
				return false
			}
		}
	}
	return true
}
