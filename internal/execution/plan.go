package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentcore/internal/fuzzy"
	"agentcore/internal/logging"
	"agentcore/internal/term"
)

// Constants bound in every plan activation.
const (
	PlanSuccessful      = "PlanSuccessful"
	PlanFail            = "PlanFail"
	PlanRuns            = "PlanRuns"
	PlanSuccessfulRatio = "PlanSuccessfulRatio"
	PlanFailRatio       = "PlanFailRatio"
)

// PlanCounters are the run statistics an agent keeps per plan.
type PlanCounters struct {
	Successful uint64
	Fail       uint64
}

func (c PlanCounters) constants() []*term.Variable {
	runs := c.Successful + c.Fail
	var success, fail float64
	if runs > 0 {
		success = float64(c.Successful) / float64(runs)
		fail = float64(c.Fail) / float64(runs)
	}
	return []*term.Variable{
		term.NewConstant(PlanSuccessful, c.Successful),
		term.NewConstant(PlanFail, c.Fail),
		term.NewConstant(PlanRuns, runs),
		term.NewConstant(PlanSuccessfulRatio, success),
		term.NewConstant(PlanFailRatio, fail),
	}
}

// Plan is "trigger : condition <- body".
type Plan struct {
	trigger   Trigger
	condition Execution
	body      *Body
}

// NewPlan creates a plan. condition may be nil.
func NewPlan(trigger Trigger, condition Execution, annotations Annotations, statements ...Execution) *Plan {
	return &Plan{trigger: trigger, condition: condition, body: NewBody(annotations, statements...)}
}

func (p *Plan) Trigger() Trigger     { return p.trigger }
func (p *Plan) Condition() Execution { return p.condition }
func (p *Plan) Body() *Body          { return p.body }
func (p *Plan) Name() string         { return p.trigger.String() }

// Variables returns fresh copies of every variable of the plan, one per name.
func (p *Plan) Variables() []*term.Variable {
	vars := p.body.annotations.constants()
	vars = append(vars, copies(p.trigger.Literal.ArgVariables())...)
	vars = append(vars, variablesOf(p.condition)...)
	vars = append(vars, p.body.Variables()...)
	return unique(vars)
}

// Instantiate creates an activation context bound to values, with the run
// statistics constants taken from counters.
func (p *Plan) Instantiate(agent Agent, values term.Bindings, counters PlanCounters) (*Context, error) {
	vars := append(counters.constants(), p.Variables()...)
	return instantiate(agent, p, unique(vars), p.body.annotations, values)
}

// Applicable runs the guard in ectx. A plan without a guard always applies;
// otherwise the guard must succeed and emit exactly one boolean, which
// decides.
func (p *Plan) Applicable(ctx context.Context, ectx *Context) (bool, error) {
	if p.condition == nil {
		return true, nil
	}
	r, err := p.condition.Execute(ctx, false, ectx, nil)
	if err != nil {
		return false, err
	}
	if !succeeded(ectx.Agent(), r.Fuzzy) {
		return false, nil
	}
	value, ok := outputBool(r)
	return ok && value, nil
}

// Execute runs the body. When it does not succeed the agent receives a
// deferred -! trigger for the allocated trigger literal.
func (p *Plan) Execute(ctx context.Context, ectx *Context) (fuzzy.Set, error) {
	agent := ectx.Agent()
	log := logging.Get(logging.CategoryPlan).WithActivation(uuid.NewString())
	start := time.Now()

	log.Debug("%s with %s", p.Name(), ectx.Bindings())
	set, err := p.body.Execute(ctx, ectx)
	if err != nil {
		return fuzzy.Fail(), fmt.Errorf("plan %s: %w", p.Name(), err)
	}

	ok := succeeded(agent, set)
	collector(agent).ObservePlan(p.Name(), ok, time.Since(start))
	if !ok {
		goal := ectx.Allocate(p.trigger.Literal)
		log.Info("%s failed, deleting goal %s", p.Name(), goal)
		if _, err := agent.Trigger(ctx, DeleteGoal(goal), false); err != nil {
			return set, err
		}
	}
	return set, nil
}

func (p *Plan) String() string {
	s := p.trigger.String()
	if p.condition != nil {
		s += " : " + p.condition.String()
	}
	return s + " <- " + p.body.String()
}
