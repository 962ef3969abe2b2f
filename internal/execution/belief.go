package execution

import (
	"context"
	"fmt"

	"agentcore/internal/term"
)

// BeliefAction adds or deletes the allocated form of a literal. It always
// succeeds; a change in the belief base is announced to the agent as a
// deferred +belief or -belief trigger.
type BeliefAction struct {
	literal *term.Literal
	add     bool
}

// NewAddBelief creates a "+literal" action.
func NewAddBelief(l *term.Literal) *BeliefAction {
	return &BeliefAction{literal: l, add: true}
}

// NewDeleteBelief creates a "-literal" action.
func NewDeleteBelief(l *term.Literal) *BeliefAction {
	return &BeliefAction{literal: l}
}

func (b *BeliefAction) Kind() Kind { return KindBeliefAction }

func (b *BeliefAction) Execute(ctx context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	agent := ectx.Agent()
	belief := ectx.Allocate(b.literal)

	var (
		changed bool
		err     error
		kind    = TriggerAddBelief
	)
	if b.add {
		changed, err = agent.Beliefs().Add(belief)
	} else {
		changed, err = agent.Beliefs().Remove(belief)
		kind = TriggerDeleteBelief
	}
	if err != nil {
		return Failed(), fmt.Errorf("%s: %w", b, err)
	}
	if changed {
		if _, err := agent.Trigger(ctx, NewTrigger(kind, belief), false); err != nil {
			return Failed(), err
		}
	}
	return Succeed(), nil
}

func (b *BeliefAction) Variables() []*term.Variable {
	return copies(b.literal.Variables())
}

func (b *BeliefAction) String() string {
	if b.add {
		return "+" + b.literal.String()
	}
	return "-" + b.literal.String()
}
