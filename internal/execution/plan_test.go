package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentcore/internal/term"
)

func TestPlanFailureDeletesGoal(t *testing.T) {
	agent := newFakeAgent()
	p := NewPlan(AddGoal(lit("greet", v("Who"))), nil, Annotations{}, emit{result: Failed()})

	ectx, err := p.Instantiate(agent, term.Bindings{"Who": term.NewRaw("tom")}, PlanCounters{})
	require.NoError(t, err)
	set, err := p.Execute(context.Background(), ectx)
	require.NoError(t, err)
	assert.False(t, agent.defuzz.Defuzzify(set))
	assert.Equal(t, []string{"-!greet(tom)"}, agent.recorded())
}

func TestPlanSuccessSendsNothing(t *testing.T) {
	agent := newFakeAgent()
	p := NewPlan(AddGoal(lit("greet")), nil, Annotations{}, emit{result: Succeed()})
	ectx, err := p.Instantiate(agent, nil, PlanCounters{})
	require.NoError(t, err)
	_, err = p.Execute(context.Background(), ectx)
	require.NoError(t, err)
	assert.Empty(t, agent.recorded())
}

func TestPlanApplicable(t *testing.T) {
	agent := newFakeAgent()
	ectx := caller(t, agent)

	tests := []struct {
		name      string
		condition Execution
		want      bool
	}{
		{"no guard", nil, true},
		{"true", emit{result: boolResult(true)}, true},
		{"false", emit{result: boolResult(false)}, false},
		{"failed guard", emit{result: Failed()}, false},
		{"no output", emit{result: Succeed()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlan(AddGoal(lit("g")), tt.condition, Annotations{})
			got, err := p.Applicable(context.Background(), ectx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanStatisticsConstants(t *testing.T) {
	agent := newFakeAgent()
	p := NewPlan(AddGoal(lit("g")), nil, Annotations{})

	ectx, err := p.Instantiate(agent, nil, PlanCounters{Successful: 3, Fail: 1})
	require.NoError(t, err)
	b := ectx.Bindings()
	assert.Equal(t, "3", b[PlanSuccessful].String())
	assert.Equal(t, "1", b[PlanFail].String())
	assert.Equal(t, "4", b[PlanRuns].String())
	assert.Equal(t, "0.75", b[PlanSuccessfulRatio].String())
	assert.Equal(t, "0.25", b[PlanFailRatio].String())

	ectx, err = p.Instantiate(agent, nil, PlanCounters{})
	require.NoError(t, err)
	assert.Equal(t, "0", ectx.Bindings()[PlanSuccessfulRatio].String())
}

func TestBeliefActionAndGoal(t *testing.T) {
	agent := newFakeAgent()
	ectx := caller(t, agent, v("X"))
	require.NoError(t, ectx.Bind(term.Bindings{"X": term.NewRaw("tom")}))

	_, err := NewAddBelief(lit("here", v("X"))).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	got, err := agent.beliefs.Lookup("here")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "here(tom)", got[0].String())

	// adding again changes nothing and triggers nothing
	_, err = NewAddBelief(lit("here", v("X"))).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)

	_, err = NewDeleteBelief(lit("here", v("X"))).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, agent.beliefs.Len())

	_, err = NewAddBelief(lit("here", v("Y"))).Execute(context.Background(), false, ectx, nil)
	assert.Error(t, err, "free variable cannot be stored")

	r, err := NewAchievementGoal(lit("visit", v("X")), false).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.True(t, agent.defuzz.Defuzzify(r.Fuzzy))

	agent.result = Failed().Fuzzy
	r, err = NewAchievementGoal(lit("visit", v("X")), true).Execute(context.Background(), false, ectx, nil)
	require.NoError(t, err)
	assert.False(t, agent.defuzz.Defuzzify(r.Fuzzy))

	assert.Equal(t, []string{"+here(tom)", "-here(tom)", "+!visit(tom)", "+!visit(tom)"}, agent.recorded())
}

func TestTriggerTypes(t *testing.T) {
	for _, s := range []string{"+", "-", "+!", "-!"} {
		tt, err := ParseTriggerType(s)
		require.NoError(t, err)
		assert.Equal(t, s, tt.String())
	}
	_, err := ParseTriggerType("?")
	assert.Error(t, err)
	assert.Equal(t, "+!likes(tom, Z)", AddGoal(lit("likes", "tom", v("Z"))).String())
}
