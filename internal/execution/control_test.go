package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentcore/internal/fuzzy"
	"agentcore/internal/term"
)

func boolResult(b bool) Result { return Succeed(term.NewRaw(b)) }

func TestTernaryBranches(t *testing.T) {
	agent := newFakeAgent()
	ectx := caller(t, agent)
	yes := emit{result: Succeed(term.NewRaw("yes"))}
	no := emit{result: Succeed(term.NewRaw("no"))}

	tests := []struct {
		name      string
		condition Execution
		want      string
	}{
		{"true output", emit{result: boolResult(true)}, "yes"},
		{"false output", emit{result: boolResult(false)}, "no"},
		{"failed condition", emit{result: Failed()}, "no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewTernary(tt.condition, yes, no).Execute(context.Background(), false, ectx, nil)
			require.NoError(t, err)
			require.Len(t, r.Return, 1)
			assert.Equal(t, tt.want, r.Return[0].String())
		})
	}
}

func TestTernaryMalformedOutput(t *testing.T) {
	ectx := caller(t, newFakeAgent())
	for name, cond := range map[string]Execution{
		"no output":   emit{result: Succeed()},
		"two outputs": emit{result: Succeed(term.NewRaw(true), term.NewRaw(false))},
		"not boolean": emit{result: Succeed(term.NewRaw("x"))},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewTernary(cond, nil, nil).Execute(context.Background(), false, ectx, nil)
			assert.ErrorIs(t, err, ErrIllegalState)
		})
	}
}

func TestRepair(t *testing.T) {
	agent := newFakeAgent()
	ectx := caller(t, agent)
	var calls int

	r, err := NewRepair(
		emit{result: Failed()},
		emit{result: boolResult(false)},
		emit{result: boolResult(true)},
		emit{result: Succeed(), calls: &calls},
	).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.True(t, agent.defuzz.Defuzzify(r.Fuzzy))
	assert.Zero(t, calls, "later alternatives are not run")

	r, err = NewRepair(emit{result: Failed()}, emit{result: boolResult(false)}).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.Equal(t, fuzzy.Fail(), r.Fuzzy)
}

func TestCompare(t *testing.T) {
	ectx := caller(t, newFakeAgent(), v("N"))
	require.NoError(t, ectx.Bind(term.Bindings{"N": term.NewRaw(5)}))

	tests := []struct {
		op    Operator
		right any
		want  bool
	}{
		{OpEqual, 5.0, true},
		{OpNotEqual, 5, false},
		{OpLess, 6, true},
		{OpLessEqual, 5, true},
		{OpGreater, 5, false},
		{OpGreaterEqual, 1, true},
	}
	for _, tt := range tests {
		c, err := NewCompare(tt.op, v("N"), tt.right)
		require.NoError(t, err)
		r, err := c.Execute(context.Background(), false, ectx, nil)
		require.NoError(t, err)
		got, ok := outputBool(r)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, c.String())
	}

	c, _ := NewCompare(OpLess, "abc", "abd")
	r, err := c.Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	got, _ := outputBool(r)
	assert.True(t, got)

	c, _ = NewCompare(OpLess, "abc", 1)
	_, err = c.Execute(context.Background(), false, ectx, nil)
	assert.ErrorIs(t, err, ErrIllegalState)

	c, _ = NewCompare(OpEqual, v("Unbound"), 1)
	r, err = c.Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.Equal(t, fuzzy.Fail(), r.Fuzzy)

	_, err = NewCompare("<>", 1, 2)
	assert.Error(t, err)
}

func TestNotAndConstant(t *testing.T) {
	agent := newFakeAgent()
	ectx := caller(t, agent, term.NewConstant("C", "k"))

	r, err := NewNot(emit{result: boolResult(true)}).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	got, ok := outputBool(r)
	require.True(t, ok)
	assert.False(t, got)

	r, err = NewNot(emit{result: Failed()}).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.True(t, agent.defuzz.Defuzzify(r.Fuzzy))

	r, err = NewConstant(v("C")).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	require.Len(t, r.Return, 1)
	assert.Equal(t, "k", r.Return[0].String())
}

func TestBodySequentialStopsAtFailure(t *testing.T) {
	agent := newFakeAgent()
	var after int
	body := NewBody(Annotations{}, emit{result: Succeed()}, emit{result: Failed()}, emit{result: Succeed(), calls: &after})

	set, err := body.Execute(context.Background(), caller(t, agent))
	require.NoError(t, err)
	assert.False(t, agent.defuzz.Defuzzify(set))
	assert.Zero(t, after)

	set, err = NewBody(Annotations{}).Execute(context.Background(), caller(t, agent))
	require.NoError(t, err)
	assert.True(t, agent.defuzz.Defuzzify(set), "empty body succeeds")
}

func TestBodyParallelRunsEverything(t *testing.T) {
	agent := newFakeAgent(lit("a", 1), lit("b", 2))
	ectx := caller(t, agent)
	body := NewBody(Annotations{Parallel: true},
		mustUnify(t, lit("a", v("A"))),
		mustUnify(t, lit("b", v("B"))),
		mustUnify(t, lit("c", v("C"))),
	)

	set, err := body.Execute(context.Background(), ectx)
	require.NoError(t, err)
	assert.False(t, agent.defuzz.Defuzzify(set))
	assert.Equal(t, "{A=1, B=2}", ectx.Bindings().String())
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 9)
	seen := map[string]bool{}
	for _, k := range kinds {
		assert.False(t, seen[k.String()])
		seen[k.String()] = true
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
}
