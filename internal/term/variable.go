package term

import "sync"

// Wildcard is the name of the "any" variable. It matches everything and is
// never recorded as a binding.
const Wildcard = "_"

// Variable is a named slot. Inside a literal it is a template; inside an
// execution context it holds the activation's value.
type Variable struct {
	name  string
	mutex bool

	mu    *sync.Mutex
	bound bool
	value Term
}

// NewVariable creates an unbound variable.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// NewMutexVariable creates an unbound variable whose reads and writes are
// serialized, for use from concurrently executing body statements.
func NewMutexVariable(name string) *Variable {
	return &Variable{name: name, mutex: true, mu: new(sync.Mutex)}
}

// NewConstant creates a variable bound at construction.
func NewConstant(name string, value any) *Variable {
	v := NewVariable(name)
	v.Set(NewRaw(value))
	return v
}

// Name returns the qualified variable name.
func (v *Variable) Name() string {
	return v.name
}

// Any reports whether v is the wildcard.
func (v *Variable) Any() bool {
	return v.name == Wildcard
}

// Mutex reports whether access to v is serialized.
func (v *Variable) Mutex() bool {
	return v.mutex
}

// Bound reports whether v holds a value.
func (v *Variable) Bound() bool {
	_, ok := v.Get()
	return ok
}

// Get returns the value and whether v is bound.
func (v *Variable) Get() (Term, bool) {
	if v.mu != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
	}
	return v.value, v.bound
}

// Set binds v and returns it.
func (v *Variable) Set(value Term) *Variable {
	if v.mu != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
	}
	v.value = value
	v.bound = value != nil
	return v
}

// Unset clears the binding.
func (v *Variable) Unset() {
	v.Set(nil)
}

// ShallowCopy returns a new unbound variable with the same name and kind.
func (v *Variable) ShallowCopy() *Variable {
	if v.mutex {
		return NewMutexVariable(v.name)
	}
	return NewVariable(v.name)
}

// Copy returns a new variable with the same name, kind and value.
func (v *Variable) Copy() *Variable {
	c := v.ShallowCopy()
	if value, ok := v.Get(); ok {
		c.Set(value)
	}
	return c
}

// Ground reports whether v is bound to a ground value.
func (v *Variable) Ground() bool {
	value, ok := v.Get()
	return ok && value.Ground()
}

func (v *Variable) String() string {
	return v.name
}
