package execution

import (
	"context"

	"agentcore/internal/term"
)

// AchievementGoal triggers a +! event for its allocated literal. Immediate
// goals run inline and return the plan's result; deferred goals are queued
// by the agent and succeed at once.
type AchievementGoal struct {
	literal   *term.Literal
	immediate bool
}

func NewAchievementGoal(l *term.Literal, immediate bool) *AchievementGoal {
	return &AchievementGoal{literal: l, immediate: immediate}
}

func (a *AchievementGoal) Kind() Kind { return KindAchievementGoal }

func (a *AchievementGoal) Execute(ctx context.Context, _ bool, ectx *Context, _ []term.Term) (Result, error) {
	set, err := ectx.Agent().Trigger(ctx, AddGoal(ectx.Allocate(a.literal)), a.immediate)
	if err != nil {
		return Failed(), err
	}
	if !a.immediate {
		return Succeed(), nil
	}
	return Result{Fuzzy: set}, nil
}

func (a *AchievementGoal) Variables() []*term.Variable {
	return copies(a.literal.Variables())
}

func (a *AchievementGoal) String() string {
	if a.immediate {
		return "!!" + a.literal.String()
	}
	return "!" + a.literal.String()
}
