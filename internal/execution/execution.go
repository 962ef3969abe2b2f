// Package execution implements the interpreter's executable units: the
// activation context, the node contract and its node kinds, rules with
// their resolution state machine, and plans.
package execution

import (
	"context"
	"fmt"

	"agentcore/internal/fuzzy"
	"agentcore/internal/term"
)

// Kind enumerates the node kinds.
type Kind int

const (
	KindBeliefAction Kind = iota
	KindUnify
	KindAchievementGoal
	KindAchievementRule
	KindTernary
	KindRepair
	KindConstant
	KindCompare
	KindNot
)

var kindNames = [...]string{
	KindBeliefAction:    "belief-action",
	KindUnify:           "unify",
	KindAchievementGoal: "achievement-goal",
	KindAchievementRule: "achievement-rule",
	KindTernary:         "ternary",
	KindRepair:          "repair",
	KindConstant:        "constant",
	KindCompare:         "compare",
	KindNot:             "not",
}

// Kinds lists every node kind.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Result is a graded outcome plus the terms a node emitted.
type Result struct {
	Fuzzy  fuzzy.Set
	Return []term.Term
}

// Succeed is the result of a node that finished without a graded outcome.
func Succeed(ret ...term.Term) Result {
	return Result{Fuzzy: fuzzy.Success(), Return: ret}
}

// Failed is the canonical failing result.
func Failed() Result {
	return Result{Fuzzy: fuzzy.Fail()}
}

func resultOf(ok bool) Result {
	if ok {
		return Succeed()
	}
	return Failed()
}

// Execution is an executable unit. Nodes are immutable and shared between
// activations; all mutable state lives in the Context.
type Execution interface {
	Kind() Kind
	// Execute runs the node. parallel is advisory.
	Execute(ctx context.Context, parallel bool, ectx *Context, args []term.Term) (Result, error)
	// Variables returns fresh copies of every variable the node references.
	Variables() []*term.Variable
	String() string
}

// Composite is implemented by nodes that contain other nodes.
type Composite interface {
	Children() []Execution
}

// Walk visits e and every node nested in it, depth-first.
func Walk(e Execution, visit func(Execution)) {
	if e == nil {
		return
	}
	visit(e)
	if c, ok := e.(Composite); ok {
		for _, child := range c.Children() {
			Walk(child, visit)
		}
	}
}

func copies(vars []*term.Variable) []*term.Variable {
	out := make([]*term.Variable, 0, len(vars))
	for _, v := range vars {
		if v.Any() {
			continue
		}
		out = append(out, v.Copy())
	}
	return out
}

func variablesOf(nodes ...Execution) []*term.Variable {
	var out []*term.Variable
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.Variables()...)
		}
	}
	return out
}

// outputBool returns the single boolean emitted by a result.
func outputBool(r Result) (value, ok bool) {
	if len(r.Return) != 1 {
		return false, false
	}
	return term.BoolOf(r.Return[0])
}
