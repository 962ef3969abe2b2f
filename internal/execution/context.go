package execution

import (
	"maps"
	"sync"

	"agentcore/internal/beliefbase"
	"agentcore/internal/term"
)

// Context is one activation of a rule or plan: the agent, the running
// instance and the activation's variables keyed by name. A context owns its
// variables; Duplicate and Fork hand out independent copies.
type Context struct {
	agent    Agent
	instance Instance

	mu   sync.RWMutex
	vars map[string]*term.Variable
}

// Instantiate builds a context holding copies of vars. Bound variables keep
// their values. The first variable of a given name wins.
func Instantiate(agent Agent, instance Instance, vars []*term.Variable) (*Context, error) {
	if agent == nil {
		return nil, ErrNilAgent
	}
	if instance == nil {
		return nil, ErrNilInstance
	}
	c := &Context{
		agent:    agent,
		instance: instance,
		vars:     make(map[string]*term.Variable, len(vars)),
	}
	for _, v := range vars {
		if v == nil || v.Any() {
			continue
		}
		if _, ok := c.vars[v.Name()]; !ok {
			c.vars[v.Name()] = v.Copy()
		}
	}
	return c, nil
}

func (c *Context) Agent() Agent       { return c.agent }
func (c *Context) Instance() Instance { return c.instance }

// Beliefs returns the agent's belief base.
func (c *Context) Beliefs() beliefbase.BeliefBase {
	return c.agent.Beliefs()
}

// Variables returns the name-keyed variable map. The map is a copy; the
// variables are the context's own.
func (c *Context) Variables() map[string]*term.Variable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.vars)
}

// Variable returns the context variable called name.
func (c *Context) Variable(name string) (*term.Variable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[name]
	return v, ok
}

// Value returns the value of name when it is bound.
func (c *Context) Value(name string) (term.Term, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[name]
	if !ok {
		return nil, false
	}
	return v.Get()
}

// Bind sets every named variable to its value, creating variables the
// context does not know yet. Relocation entries and wildcards are skipped.
func (c *Context) Bind(values term.Bindings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, value := range values {
		if name == term.Wildcard {
			continue
		}
		if _, relocation := value.(*term.Variable); relocation {
			continue
		}
		v, ok := c.vars[name]
		if !ok {
			v = term.NewVariable(name)
			c.vars[name] = v
		}
		v.Set(value)
	}
	return nil
}

// Bindings returns a snapshot of every bound variable.
func (c *Context) Bindings() term.Bindings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(term.Bindings, len(c.vars))
	for name, v := range c.vars {
		if value, ok := v.Get(); ok {
			out[name] = value
		}
	}
	return out
}

// Allocate substitutes every bound variable of l.
func (c *Context) Allocate(l *term.Literal) *term.Literal {
	return l.Allocate(c.Value)
}

// Duplicate returns a context with the same agent and instance whose
// variables are unbound copies of this context's variables.
func (c *Context) Duplicate() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := &Context{agent: c.agent, instance: c.instance, vars: make(map[string]*term.Variable, len(c.vars))}
	for name, v := range c.vars {
		d.vars[name] = v.ShallowCopy()
	}
	return d
}

// Fork is Duplicate keeping the current values.
func (c *Context) Fork() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := &Context{agent: c.agent, instance: c.instance, vars: make(map[string]*term.Variable, len(c.vars))}
	for name, v := range c.vars {
		d.vars[name] = v.Copy()
	}
	return d
}

func (c *Context) String() string {
	return c.instance.Name() + " " + c.Bindings().String()
}
