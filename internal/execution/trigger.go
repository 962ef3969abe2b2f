package execution

import (
	"fmt"

	"agentcore/internal/term"
)

// TriggerType is the kind of event a plan reacts to.
type TriggerType int

const (
	TriggerAddBelief TriggerType = iota
	TriggerDeleteBelief
	TriggerAddGoal
	TriggerDeleteGoal
)

var triggerSymbols = [...]string{
	TriggerAddBelief:    "+",
	TriggerDeleteBelief: "-",
	TriggerAddGoal:      "+!",
	TriggerDeleteGoal:   "-!",
}

func (t TriggerType) String() string {
	if t < 0 || int(t) >= len(triggerSymbols) {
		return fmt.Sprintf("trigger(%d)", int(t))
	}
	return triggerSymbols[t]
}

// ParseTriggerType maps "+", "-", "+!" and "-!" to a TriggerType.
func ParseTriggerType(s string) (TriggerType, error) {
	for i, sym := range triggerSymbols {
		if sym == s {
			return TriggerType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger type %q", s)
}

// Trigger is an event for the agent: a type and a literal.
type Trigger struct {
	Type    TriggerType
	Literal *term.Literal
}

func NewTrigger(t TriggerType, l *term.Literal) Trigger {
	return Trigger{Type: t, Literal: l}
}

// AddGoal is shorthand for a +! trigger.
func AddGoal(l *term.Literal) Trigger { return NewTrigger(TriggerAddGoal, l) }

// DeleteGoal is shorthand for a -! trigger.
func DeleteGoal(l *term.Literal) Trigger { return NewTrigger(TriggerDeleteGoal, l) }

func (t Trigger) String() string {
	return t.Type.String() + t.Literal.String()
}
