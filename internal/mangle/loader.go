package mangle

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/parse"

	"agentcore/internal/beliefbase"
	"agentcore/internal/execution"
	"agentcore/internal/logging"
	"agentcore/internal/term"
)

// ErrUnsupportedClause is returned for Mangle constructs with no agent
// counterpart, such as transforms or function applications.
var ErrUnsupportedClause = errors.New("unsupported clause")

// comparisons maps Mangle built-in comparison predicates to operators.
var comparisons = map[string]execution.Operator{
	":lt": execution.OpLess,
	":le": execution.OpLessEqual,
	":gt": execution.OpGreater,
	":ge": execution.OpGreaterEqual,
}

// Program is a loaded Mangle source unit: ground facts become beliefs and
// clauses with premises become rules.
//
// A premise whose predicate heads some clause resolves through the rule set;
// any other premise searches the belief base. Facts for a predicate that is
// also a rule head are therefore only reachable through rules. Declaration
// descriptors carry the annotations of a predicate's rules.
type Program struct {
	Beliefs []*term.Literal
	Rules   *execution.RuleSet
}

// LoadProgram parses and compiles a Mangle program.
func LoadProgram(r io.Reader) (*Program, error) {
	unit, err := parse.Unit(r)
	if err != nil {
		logging.BootError("mangle parse failed: %v", err)
		return nil, fmt.Errorf("mangle parse failed: %w", err)
	}

	annotations, err := declAnnotations(unit.Decls)
	if err != nil {
		return nil, err
	}

	heads := make(map[string]bool)
	for _, clause := range unit.Clauses {
		if len(clause.Premises) > 0 {
			heads[clause.Head.Predicate.Symbol] = true
		}
	}

	program := &Program{}
	builder := execution.NewRuleSetBuilder()
	for _, clause := range unit.Clauses {
		if clause.Transform != nil {
			return nil, fmt.Errorf("%w: transform in %s", ErrUnsupportedClause, clause)
		}
		if len(clause.Premises) == 0 {
			fact, err := compileFact(clause.Head)
			if err != nil {
				return nil, err
			}
			program.Beliefs = append(program.Beliefs, fact)
			continue
		}
		rule, err := compileRule(clause, heads, annotations[clause.Head.Predicate.Symbol])
		if err != nil {
			return nil, err
		}
		builder.Add(rule)
	}

	rules, err := builder.Build()
	if err != nil {
		return nil, err
	}
	program.Rules = rules
	logging.Boot("loaded mangle program: %d beliefs, %d rules", len(program.Beliefs), rules.Len())
	return program, nil
}

// LoadProgramString is LoadProgram over a string.
func LoadProgramString(source string) (*Program, error) {
	return LoadProgram(strings.NewReader(source))
}

// Assert adds every belief of the program to bb.
func (p *Program) Assert(bb beliefbase.BeliefBase) error {
	for _, belief := range p.Beliefs {
		if _, err := bb.Add(belief); err != nil {
			return fmt.Errorf("assert %s: %w", belief, err)
		}
	}
	return nil
}

func compileFact(head ast.Atom) (*term.Literal, error) {
	for _, arg := range head.Args {
		if _, ok := arg.(ast.Constant); !ok {
			return nil, fmt.Errorf("fact %s: %w", head, beliefbase.ErrNotGround)
		}
	}
	return atomToLiteral(head), nil
}

// declAnnotations reads rule annotations from declaration descriptors:
//
//	Decl busy(X) descr [parallel(), atomic(), doc("..."), constant(Limit, 10)].
//
// doc is the Mangle spelling of the description annotation. Descriptors the
// interpreter does not know, such as mode, are ignored.
func declAnnotations(decls []ast.Decl) (map[string]execution.Annotations, error) {
	out := make(map[string]execution.Annotations)
	for _, decl := range decls {
		if len(decl.Descr) == 0 {
			continue
		}
		sym := decl.DeclaredAtom.Predicate.Symbol
		literals := make([]*term.Literal, 0, len(decl.Descr))
		for _, descr := range decl.Descr {
			l, err := atomLiteral(descr)
			if err != nil {
				return nil, fmt.Errorf("decl %s: %w", sym, err)
			}
			if descr.Predicate.Symbol == "doc" {
				l = renamed(l, execution.AnnotationDescription)
			}
			literals = append(literals, l)
		}
		a, err := execution.ParseAnnotations(literals...)
		if err != nil {
			return nil, fmt.Errorf("decl %s: %w", sym, err)
		}
		out[sym] = a
	}
	return out, nil
}

func renamed(l *term.Literal, functor string) *term.Literal {
	args := make([]any, l.Arity())
	for i, a := range l.Args() {
		args[i] = a
	}
	return term.NewLiteral(functor, args...)
}

func compileRule(clause ast.Clause, heads map[string]bool, annotations execution.Annotations) (*execution.Rule, error) {
	identifier, err := atomLiteral(clause.Head)
	if err != nil {
		return nil, err
	}
	statements := make([]execution.Execution, 0, len(clause.Premises))
	for _, premise := range clause.Premises {
		stmt, err := compilePremise(premise, heads)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", clause.Head, err)
		}
		statements = append(statements, stmt)
	}
	return execution.NewRule(identifier, annotations, statements...), nil
}

func compilePremise(premise ast.Term, heads map[string]bool) (execution.Execution, error) {
	switch p := premise.(type) {
	case ast.Atom:
		if op, ok := comparisons[p.Predicate.Symbol]; ok {
			return compileComparison(op, p.Args[0], p.Args[1])
		}
		l, err := atomLiteral(p)
		if err != nil {
			return nil, err
		}
		if heads[p.Predicate.Symbol] {
			return execution.NewAchievementRule(l), nil
		}
		return execution.NewDefaultUnify(l, nil)
	case ast.NegAtom:
		inner, err := compilePremise(p.Atom, heads)
		if err != nil {
			return nil, err
		}
		return execution.NewNot(inner), nil
	case ast.Eq:
		return compileComparison(execution.OpEqual, p.Left, p.Right)
	case ast.Ineq:
		return compileComparison(execution.OpNotEqual, p.Left, p.Right)
	default:
		return nil, fmt.Errorf("%w: premise %s", ErrUnsupportedClause, premise)
	}
}

// compileComparison wraps the comparison in a repair so a false result
// fails the statement.
func compileComparison(op execution.Operator, left, right ast.BaseTerm) (execution.Execution, error) {
	l, err := operand(left)
	if err != nil {
		return nil, err
	}
	r, err := operand(right)
	if err != nil {
		return nil, err
	}
	cmp, err := execution.NewCompare(op, l, r)
	if err != nil {
		return nil, err
	}
	return execution.NewRepair(cmp), nil
}

func operand(bt ast.BaseTerm) (term.Term, error) {
	switch bt.(type) {
	case ast.Constant, ast.Variable:
		return baseTermToTerm(bt), nil
	default:
		return nil, fmt.Errorf("%w: expression %s", ErrUnsupportedClause, bt)
	}
}

func atomLiteral(atom ast.Atom) (*term.Literal, error) {
	args := make([]any, len(atom.Args))
	for i, arg := range atom.Args {
		t, err := operand(arg)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return term.NewLiteral(atom.Predicate.Symbol, args...), nil
}

// ParseLiteral parses a single atom such as "likes(/tom, Z)" or the query
// form "?likes(/tom, Z).".
func ParseLiteral(query string) (*term.Literal, error) {
	clean := strings.TrimSpace(query)
	if clean == "" {
		return nil, fmt.Errorf("empty query")
	}
	clean = strings.TrimSpace(strings.TrimPrefix(clean, "?"))
	clean = strings.TrimSpace(strings.TrimSuffix(clean, "."))

	atom, err := parse.Atom(clean)
	if err != nil {
		atom, err = parse.Atom(clean + ".")
		if err != nil {
			return nil, fmt.Errorf("failed to parse query %q: %w", query, err)
		}
	}
	return atomLiteral(atom)
}
