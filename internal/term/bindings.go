package term

import (
	"maps"
	"slices"
	"strings"
)

// Bindings maps variable names to the terms they were bound to during a
// unification. A *Variable value marks a relocation: the named pattern
// variable is paired with a still-free variable of the other side.
type Bindings map[string]Term

// Lookup returns the binding for name.
func (b Bindings) Lookup(name string) (Term, bool) {
	t, ok := b[name]
	return t, ok
}

// Clone returns an independent copy.
func (b Bindings) Clone() Bindings {
	if b == nil {
		return Bindings{}
	}
	return maps.Clone(b)
}

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// Values splits b into plain value bindings and relocation pairs
// (pattern variable name -> free variable name on the other side).
func (b Bindings) Values() (values Bindings, relocations map[string]string) {
	values = make(Bindings, len(b))
	relocations = make(map[string]string)
	for name, t := range b {
		if v, ok := t.(*Variable); ok {
			relocations[name] = v.Name()
			continue
		}
		values[name] = t
	}
	return values, relocations
}

func (b Bindings) String() string {
	parts := make([]string, 0, len(b))
	for _, name := range b.Names() {
		parts = append(parts, name+"="+b[name].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
