// Package agent is the reference collaborator for the interpreter: it owns
// the belief base, rule set and plan library, queues deferred triggers and
// runs one reasoning cycle at a time.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"agentcore/internal/beliefbase"
	"agentcore/internal/config"
	"agentcore/internal/execution"
	"agentcore/internal/fuzzy"
	"agentcore/internal/logging"
	"agentcore/internal/mangle"
	"agentcore/internal/stats"
	"agentcore/internal/term"
	"agentcore/internal/unify"
)

// Agent implements execution.Agent.
type Agent struct {
	id      string
	beliefs beliefbase.BeliefBase
	rules   *execution.RuleSet
	plans   []*execution.Plan
	unifier *unify.Unifier
	defuzz  fuzzy.Defuzzification
	stats   stats.Collector
	slow    time.Duration

	mu       sync.Mutex
	queue    []execution.Trigger
	counters []execution.PlanCounters
}

var _ execution.Agent = (*Agent)(nil)

// Option configures an Agent.
type Option func(*Agent)

func WithBeliefs(bb beliefbase.BeliefBase) Option { return func(a *Agent) { a.beliefs = bb } }
func WithRules(rs *execution.RuleSet) Option      { return func(a *Agent) { a.rules = rs } }
func WithUnifier(u *unify.Unifier) Option         { return func(a *Agent) { a.unifier = u } }
func WithStats(c stats.Collector) Option          { return func(a *Agent) { a.stats = c } }

// WithPlans sets the plan library. Earlier plans take precedence.
func WithPlans(plans ...*execution.Plan) Option {
	return func(a *Agent) { a.plans = plans }
}

func WithDefuzzification(d fuzzy.Defuzzification) Option {
	return func(a *Agent) { a.defuzz = d }
}

// WithSlowThreshold logs goals that take longer than d.
func WithSlowThreshold(d time.Duration) Option {
	return func(a *Agent) { a.slow = d }
}

// New creates an agent with an in-memory belief base, an empty rule set,
// crisp defuzzification and no statistics unless options say otherwise.
func New(opts ...Option) *Agent {
	a := &Agent{
		id:      uuid.NewString(),
		beliefs: beliefbase.NewMemory(0),
		unifier: unify.New(0),
		defuzz:  fuzzy.Crisp{},
		stats:   stats.Nop{},
		slow:    250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rules == nil {
		a.rules, _ = execution.NewRuleSetBuilder().Build()
	}
	a.counters = make([]execution.PlanCounters, len(a.plans))
	logging.Agent("agent %s created: %d rules, %d plans", a.id, a.rules.Len(), len(a.plans))
	return a
}

// NewFromConfig creates an agent whose belief backend, worker bound and
// defuzzification strategy come from cfg. Options are applied afterwards.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var bb beliefbase.BeliefBase
	switch cfg.BeliefBase.Backend {
	case "mangle":
		bb = mangle.NewStore(mangle.Config{FactLimit: cfg.BeliefBase.FactLimit})
	default:
		bb = beliefbase.NewMemory(cfg.BeliefBase.FactLimit)
	}
	d, err := fuzzy.NewDefuzzification(cfg.Engine.Defuzzification.Strategy, cfg.Engine.Defuzzification.Threshold)
	if err != nil {
		return nil, fmt.Errorf("defuzzification: %w", err)
	}
	base := []Option{
		WithBeliefs(bb),
		WithUnifier(unify.New(cfg.Workers())),
		WithDefuzzification(d),
		WithSlowThreshold(cfg.GetSlowThreshold()),
	}
	return New(append(base, opts...)...), nil
}

func (a *Agent) ID() string                              { return a.id }
func (a *Agent) Beliefs() beliefbase.BeliefBase          { return a.beliefs }
func (a *Agent) Rules() *execution.RuleSet               { return a.rules }
func (a *Agent) Unifier() *unify.Unifier                 { return a.unifier }
func (a *Agent) Defuzzification() fuzzy.Defuzzification { return a.defuzz }
func (a *Agent) Stats() stats.Collector                  { return a.stats }

// Trigger queues t, or handles it inline when immediate.
func (a *Agent) Trigger(ctx context.Context, t execution.Trigger, immediate bool) (fuzzy.Set, error) {
	stats.OrNop(a.stats).ObserveTrigger(t.Type.String(), immediate)
	if !immediate {
		a.mu.Lock()
		a.queue = append(a.queue, t)
		a.mu.Unlock()
		logging.Get(logging.CategoryAgent).Debug("queued %s", t)
		return fuzzy.Success(), nil
	}
	return a.handle(ctx, t)
}

// AddBelief adds l and queues a + trigger when it was not already believed.
func (a *Agent) AddBelief(ctx context.Context, l *term.Literal) (bool, error) {
	added, err := a.beliefs.Add(l)
	if err != nil || !added {
		return added, err
	}
	_, err = a.Trigger(ctx, execution.NewTrigger(execution.TriggerAddBelief, l), false)
	return true, err
}

// Pending returns the number of queued triggers.
func (a *Agent) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Counters returns the run statistics of the i-th plan.
func (a *Agent) Counters(i int) execution.PlanCounters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters[i]
}

// Cycle handles every trigger queued before the call. Triggers queued while
// the cycle runs wait for the next one. Handler errors are logged and
// returned together; a cancelled context stops the cycle.
func (a *Agent) Cycle(ctx context.Context) (int, error) {
	a.mu.Lock()
	batch := a.queue
	a.queue = nil
	a.mu.Unlock()

	var errs []error
	for i, t := range batch {
		if err := ctx.Err(); err != nil {
			a.requeue(batch[i:])
			return i, err
		}
		if _, err := a.handle(ctx, t); err != nil {
			logging.AgentWarn("%s: %v", t, err)
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
		}
	}
	return len(batch), errors.Join(errs...)
}

func (a *Agent) requeue(ts []execution.Trigger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(append([]execution.Trigger(nil), ts...), a.queue...)
}

// Run cycles until the queue is empty or maxCycles cycles ran (0 = no
// bound). It returns the number of triggers handled.
func (a *Agent) Run(ctx context.Context, maxCycles int) (int, error) {
	total := 0
	for cycles := 0; maxCycles <= 0 || cycles < maxCycles; cycles++ {
		if a.Pending() == 0 {
			break
		}
		n, err := a.Cycle(ctx)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// handle runs the first applicable plan for t. Without one, a +! goal fails
// and every other event is ignored.
func (a *Agent) handle(ctx context.Context, t execution.Trigger) (fuzzy.Set, error) {
	for i, p := range a.plans {
		pt := p.Trigger()
		if pt.Type != t.Type || pt.Literal.Functor() != t.Literal.Functor() {
			continue
		}
		b, ok := a.unifier.Unify(pt.Literal, t.Literal)
		if !ok {
			continue
		}
		values, _ := b.Values()
		ectx, err := p.Instantiate(a, values, a.Counters(i))
		if err != nil {
			return fuzzy.Fail(), err
		}
		applicable, err := p.Applicable(ctx, ectx)
		if err != nil {
			return fuzzy.Fail(), err
		}
		if !applicable {
			logging.PlanDebug("%s: plan %s not applicable", t, p.Name())
			continue
		}
		logging.PlanDebug("%s: selected plan %s with %s", t, p.Name(), values)

		set, err := p.Execute(ctx, ectx)
		a.record(i, err == nil && a.defuzz.Defuzzify(set))
		return set, err
	}

	if t.Type == execution.TriggerAddGoal {
		logging.AgentWarn("no applicable plan for %s", t)
		return fuzzy.Fail(), nil
	}
	return fuzzy.Success(), nil
}

func (a *Agent) record(i int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ok {
		a.counters[i].Successful++
	} else {
		a.counters[i].Fail++
	}
}

// query is the instance of a top-level goal.
type query string

func (q query) Name() string { return "?" + string(q) }

// Solve resolves goal against the rule set and returns the bindings of the
// goal's variables. parallel evaluates rule candidates concurrently.
func (a *Agent) Solve(ctx context.Context, goal *term.Literal, parallel bool) (term.Bindings, bool, error) {
	timer := logging.StartTimer(logging.CategoryAgent, "solve "+goal.String())
	defer timer.StopWithThreshold(a.slow)

	ectx, err := execution.Instantiate(a, query(goal.String()), goal.Variables())
	if err != nil {
		return nil, false, err
	}
	r, err := execution.NewAchievementRule(goal).Execute(ctx, parallel, ectx, nil)
	if err != nil {
		return nil, false, err
	}
	ok := a.defuzz.Defuzzify(r.Fuzzy)
	if !ok {
		return term.Bindings{}, false, nil
	}
	return ectx.Bindings(), true, nil
}
