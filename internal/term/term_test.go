package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralString(t *testing.T) {
	l := NewLiteral("likes", "tom", NewVariable("Z")).
		WithAnnotations(NewLiteral("source", "self"))
	assert.Equal(t, "likes(tom, Z)[source(self)]", l.String())
	assert.Equal(t, "@~likes(tom, Z)[source(self)]", l.WithNegation(true).WithAt(true).String())
	assert.Equal(t, "ping", NewLiteral("ping").String())
}

func TestLiteralEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Literal
		equal bool
	}{
		{"same", NewLiteral("f", 1, "a"), NewLiteral("f", 1, "a"), true},
		{"numeric kinds", NewLiteral("f", 1), NewLiteral("f", 1.0), true},
		{"functor", NewLiteral("f", 1), NewLiteral("g", 1), false},
		{"negation", NewLiteral("f", 1), NewLiteral("f", 1).WithNegation(true), false},
		{"arity", NewLiteral("f", 1), NewLiteral("f", 1, 2), false},
		{"order", NewLiteral("f", 1, 2), NewLiteral("f", 2, 1), false},
		{"annotations ignored", NewLiteral("f", 1).WithAnnotations(NewRaw("x")), NewLiteral("f", 1), true},
		{"variables by name", NewLiteral("f", NewVariable("X")), NewLiteral("f", NewVariable("X")), true},
		{"nested", NewLiteral("f", NewLiteral("g", "a")), NewLiteral("f", NewLiteral("g", "b")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestLiteralFlatten(t *testing.T) {
	x, y, z := NewVariable("X"), NewVariable("Y"), NewVariable("Z")
	l := NewLiteral("f", x, NewLiteral("g", y, NewRaw([]Term{z, NewRaw(1)}))).
		WithAnnotations(NewLiteral("a", NewVariable("A")))

	flat := l.Flatten()
	require.Len(t, flat, 8)

	var names []string
	for _, v := range l.Variables() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"X", "Y", "Z", "A"}, names)

	names = names[:0]
	for _, v := range l.ArgVariables() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"X", "Y", "Z"}, names)
}

func TestLiteralArgsAreCopies(t *testing.T) {
	l := NewLiteral("f", 1, 2)
	args := l.Args()
	args[0] = NewRaw(99)
	assert.Equal(t, "f(1, 2)", l.String())
}

func TestLiteralAllocate(t *testing.T) {
	l := NewLiteral("likes", NewVariable("X"), NewLiteral("pair", NewVariable("Y"), NewVariable(Wildcard)))
	out := l.Substitute(Bindings{"X": NewRaw("tom"), "_": NewRaw("ignored")})

	assert.Equal(t, "likes(tom, pair(Y, _))", out.String())
	assert.False(t, out.Ground())
	assert.Equal(t, "likes(X, pair(Y, _))", l.String(), "source literal must not change")

	out = out.Substitute(Bindings{"Y": NewRaw("jerry")})
	assert.Equal(t, "likes(tom, pair(jerry, _))", out.String())
}

func TestVariableShallowCopy(t *testing.T) {
	v := NewMutexVariable("X").Set(NewRaw(1))
	c := v.ShallowCopy()

	assert.Equal(t, "X", c.Name())
	assert.True(t, c.Mutex())
	assert.False(t, c.Bound())

	c.Set(NewRaw(2))
	value, ok := v.Get()
	require.True(t, ok)
	assert.Equal(t, 1, value.(Raw).Value())

	cp := v.Copy()
	value, ok = cp.Get()
	require.True(t, ok)
	assert.Equal(t, 1, value.(Raw).Value())
}

func TestVariableUnset(t *testing.T) {
	v := NewConstant("Score", 0.5)
	assert.True(t, v.Ground())
	v.Unset()
	assert.False(t, v.Bound())
	assert.True(t, NewVariable(Wildcard).Any())
}

func TestBindingsValues(t *testing.T) {
	b := Bindings{"X": NewRaw("tom"), "Y": NewVariable("Z")}
	values, relocations := b.Values()
	assert.Equal(t, Bindings{"X": NewRaw("tom")}, values)
	assert.Equal(t, map[string]string{"Y": "Z"}, relocations)
	assert.Equal(t, "{X=tom, Y=Z}", b.String())
}

func TestBoolOf(t *testing.T) {
	b, ok := BoolOf(NewRaw(true))
	assert.True(t, ok)
	assert.True(t, b)

	b, ok = BoolOf(NewVariable("B").Set(NewRaw(false)))
	assert.True(t, ok)
	assert.False(t, b)

	_, ok = BoolOf(NewRaw("true"))
	assert.False(t, ok)
}

func TestRawListGround(t *testing.T) {
	assert.True(t, NewRaw([]Term{NewRaw(1), NewRaw("a")}).Ground())
	assert.False(t, NewRaw([]Term{NewRaw(1), NewVariable("X")}).Ground())
	assert.True(t, NewRaw([]Term{NewVariable("X").Set(NewRaw(2))}).Ground())
	assert.False(t, NewRaw([]Term{NewRaw([]Term{NewVariable("Y")})}).Ground(), "nested list")
	assert.False(t, NewLiteral("items", []Term{NewVariable("X")}).Ground())
}
