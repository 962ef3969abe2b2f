package execution

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"agentcore/internal/fuzzy"
	"agentcore/internal/logging"
	"agentcore/internal/parallel"
	"agentcore/internal/term"
	"agentcore/internal/unify"
)

// Rule is "identifier :- body". Rules are resolved by functor through a
// RuleSet; bodies refer to other rules by functor, never by pointer.
type Rule struct {
	identifier *term.Literal
	body       *Body
}

func NewRule(identifier *term.Literal, annotations Annotations, statements ...Execution) *Rule {
	return &Rule{identifier: identifier, body: NewBody(annotations, statements...)}
}

func (r *Rule) Identifier() *term.Literal { return r.identifier }
func (r *Rule) Functor() term.Path        { return r.identifier.Functor() }
func (r *Rule) Body() *Body               { return r.body }
func (r *Rule) Name() string              { return r.identifier.String() }

// Variables returns fresh copies of the identifier, body and constant
// variables, one per name. Constants come first so they win.
func (r *Rule) Variables() []*term.Variable {
	vars := r.body.annotations.constants()
	vars = append(vars, copies(r.identifier.ArgVariables())...)
	vars = append(vars, r.body.Variables()...)
	return unique(vars)
}

// Instantiate creates an activation context bound to values.
func (r *Rule) Instantiate(agent Agent, values term.Bindings) (*Context, error) {
	return instantiate(agent, r, r.Variables(), r.body.annotations, values)
}

// Execute runs the body in ectx.
func (r *Rule) Execute(ctx context.Context, ectx *Context) (fuzzy.Set, error) {
	return r.body.Execute(ctx, ectx)
}

func (r *Rule) String() string {
	return r.identifier.String() + " :- " + r.body.String()
}

func instantiate(agent Agent, instance Instance, vars []*term.Variable, a Annotations, values term.Bindings) (*Context, error) {
	if a.Parallel {
		for i, v := range vars {
			m := term.NewMutexVariable(v.Name())
			if value, ok := v.Get(); ok {
				m.Set(value)
			}
			vars[i] = m
		}
	}
	ectx, err := Instantiate(agent, instance, vars)
	if err != nil {
		return nil, err
	}
	if err := ectx.Bind(values); err != nil {
		return nil, err
	}
	return ectx, nil
}

// RuleID indexes a rule inside its RuleSet.
type RuleID int

// RuleSet is an immutable arena of rules with a functor index.
type RuleSet struct {
	rules []*Rule
	index map[term.Path][]RuleID
}

// Rule returns the rule with the given id.
func (s *RuleSet) Rule(id RuleID) (*Rule, bool) {
	if s == nil || id < 0 || int(id) >= len(s.rules) {
		return nil, false
	}
	return s.rules[id], true
}

// Lookup returns the rules for functor in declaration order.
func (s *RuleSet) Lookup(functor term.Path) []*Rule {
	if s == nil {
		return nil
	}
	ids := s.IDs(functor)
	out := make([]*Rule, len(ids))
	for i, id := range ids {
		out[i], _ = s.Rule(id)
	}
	return out
}

// IDs returns the ids of the rules for functor.
func (s *RuleSet) IDs(functor term.Path) []RuleID {
	if s == nil {
		return nil
	}
	return slices.Clone(s.index[functor])
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// RuleSetBuilder collects rules; Build resolves the references between them.
type RuleSetBuilder struct {
	rules []*Rule
}

func NewRuleSetBuilder() *RuleSetBuilder {
	return &RuleSetBuilder{}
}

// Add appends a rule and returns the id it will have in the built set.
func (b *RuleSetBuilder) Add(r *Rule) RuleID {
	b.rules = append(b.rules, r)
	return RuleID(len(b.rules) - 1)
}

// Build freezes the arena. Every AchievementRule in any rule body must name
// a functor defined in the set; forward and mutual references are fine.
func (b *RuleSetBuilder) Build() (*RuleSet, error) {
	s := &RuleSet{
		rules: slices.Clone(b.rules),
		index: make(map[term.Path][]RuleID),
	}
	for i, r := range s.rules {
		s.index[r.Functor()] = append(s.index[r.Functor()], RuleID(i))
	}

	var errs []error
	for _, r := range s.rules {
		for _, st := range r.body.statements {
			Walk(st, func(e Execution) {
				ar, ok := e.(*AchievementRule)
				if !ok {
					return
				}
				if _, ok := s.index[ar.Functor()]; !ok {
					errs = append(errs, fmt.Errorf("%w %s (in %s)", ErrUnknownRule, ar.Functor(), r.Name()))
				}
			})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// AchievementRule resolves a goal literal against the agent's rules.
//
// The caller literal is allocated from the context and unified with every
// candidate's identifier in declaration order. Each candidate runs in its own
// activation; the lowest-index candidate whose body defuzzifies to success
// wins, and the values its rule variables took are written back into the
// caller's free variables. No rule, or no successful rule, is a plain
// failure and leaves the caller untouched.
type AchievementRule struct {
	literal *term.Literal
}

func NewAchievementRule(l *term.Literal) *AchievementRule {
	return &AchievementRule{literal: l}
}

func (a *AchievementRule) Kind() Kind         { return KindAchievementRule }
func (a *AchievementRule) Functor() term.Path { return a.literal.Functor() }

func (a *AchievementRule) Execute(ctx context.Context, concurrent bool, ectx *Context, _ []term.Term) (Result, error) {
	agent := ectx.Agent()
	start := time.Now()
	rules := agent.Rules().Lookup(a.literal.Functor())
	if len(rules) == 0 {
		logging.RuleDebug("%s: no rules", a.literal)
		collector(agent).ObserveRule(a.Functor().String(), 0, false, time.Since(start))
		return Failed(), nil
	}

	caller := ectx.Allocate(a.literal)
	relocated := make([]term.Bindings, len(rules))

	idx, err := parallel.First(ctx, len(rules), concurrent || a.literal.At(), agent.Unifier().Workers(), func(ctx context.Context, i int) (bool, error) {
		merge, ok, err := a.candidate(ctx, agent, rules[i], caller)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			logging.Get(logging.CategoryRule).Warn("%s: candidate %s failed: %v", caller, rules[i].Name(), err)
			return false, nil
		}
		if ok {
			relocated[i] = merge
		}
		return ok, nil
	})
	if err != nil {
		return Failed(), err
	}

	ok := idx != parallel.NotFound
	collector(agent).ObserveRule(a.Functor().String(), len(rules), ok, time.Since(start))
	if !ok {
		logging.RuleDebug("%s: %d candidates exhausted", caller, len(rules))
		return Failed(), nil
	}

	logging.RuleDebug("%s resolved by %s relocating %s", caller, rules[idx].Name(), relocated[idx])
	if err := ectx.Bind(relocated[idx]); err != nil {
		return Failed(), err
	}
	return Succeed(), nil
}

// candidate runs one rule against the allocated caller literal and returns
// the caller bindings to merge if it succeeds.
func (a *AchievementRule) candidate(ctx context.Context, agent Agent, r *Rule, caller *term.Literal) (term.Bindings, bool, error) {
	b, ok := unify.Unify(r.Identifier(), caller)
	if !ok {
		return nil, false, nil
	}
	values, relocations := b.Values()

	rctx, err := r.Instantiate(agent, values)
	if err != nil {
		return nil, false, err
	}
	set, err := r.Execute(ctx, rctx)
	if err != nil {
		return nil, false, err
	}
	if !succeeded(agent, set) {
		return nil, false, nil
	}

	// A caller variable repeated in the goal receives several rule
	// variables; their values must agree.
	merge := make(term.Bindings, len(relocations))
	for _, ruleVar := range slices.Sorted(maps.Keys(relocations)) {
		value, ok := rctx.Value(ruleVar)
		if !ok {
			continue
		}
		callerVar := relocations[ruleVar]
		if prev, seen := merge[callerVar]; seen && !term.Equal(prev, value) {
			logging.RuleDebug("%s: %s relocates %s=%s and %s", caller, r.Name(), callerVar, prev, value)
			return nil, false, nil
		}
		merge[callerVar] = value
	}
	return merge, true, nil
}

func (a *AchievementRule) Variables() []*term.Variable {
	return copies(a.literal.Variables())
}

func (a *AchievementRule) String() string {
	return "$" + a.literal.String()
}
