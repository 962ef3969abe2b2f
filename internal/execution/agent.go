package execution

import (
	"context"

	"agentcore/internal/beliefbase"
	"agentcore/internal/fuzzy"
	"agentcore/internal/stats"
	"agentcore/internal/unify"
)

// Agent is the collaborator every execution runs against.
type Agent interface {
	Beliefs() beliefbase.BeliefBase
	Rules() *RuleSet
	Unifier() *unify.Unifier
	Defuzzification() fuzzy.Defuzzification
	// Trigger hands an event to the agent. Immediate triggers run inline and
	// return the plan's result; deferred ones are queued and report success.
	Trigger(ctx context.Context, t Trigger, immediate bool) (fuzzy.Set, error)
	Stats() stats.Collector
}

// Instance is the running rule or plan a context belongs to.
type Instance interface {
	Name() string
}

func collector(a Agent) stats.Collector {
	return stats.OrNop(a.Stats())
}

func succeeded(a Agent, set fuzzy.Set) bool {
	return a.Defuzzification().Defuzzify(set)
}
