package unify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"agentcore/internal/beliefbase"
	"agentcore/internal/term"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func v(name string) *term.Variable { return term.NewVariable(name) }

func TestUnifySoundness(t *testing.T) {
	tests := []struct {
		pattern *term.Literal
		value   *term.Literal
	}{
		{term.NewLiteral("knows", v("X"), v("Y")), term.NewLiteral("knows", "tom", "jerry")},
		{term.NewLiteral("knows", "tom", v("Y")), term.NewLiteral("knows", "tom", "jerry")},
		{term.NewLiteral("p", term.NewLiteral("g", v("X")), 3), term.NewLiteral("p", term.NewLiteral("g", 1.5), 3)},
		{term.NewLiteral("p", []term.Term{v("A"), term.NewRaw(2)}), term.NewLiteral("p", []term.Term{term.NewRaw("a"), term.NewRaw(2)})},
		{term.NewLiteral("same", v("X"), v("X")), term.NewLiteral("same", 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.pattern.String(), func(t *testing.T) {
			b, ok := Unify(tt.pattern, tt.value)
			require.True(t, ok)
			assert.True(t, tt.pattern.Substitute(b).Equal(tt.value), "%s with %s", tt.pattern, b)
		})
	}
}

func TestUnifyMismatch(t *testing.T) {
	pattern := term.NewLiteral("knows", v("X"), "jerry")
	tests := map[string]*term.Literal{
		"functor":  term.NewLiteral("likes", "tom", "jerry"),
		"arity":    term.NewLiteral("knows", "tom"),
		"negation": term.NewLiteral("knows", "tom", "jerry").WithNegation(true),
		"raw":      term.NewLiteral("knows", "tom", "spike"),
		"kind":     term.NewLiteral("knows", "tom", term.NewLiteral("jerry")),
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			b, ok := Unify(pattern, value)
			assert.False(t, ok)
			assert.Nil(t, b)
		})
	}

	_, ok := Unify(term.NewLiteral("same", v("X"), v("X")), term.NewLiteral("same", 1, 2))
	assert.False(t, ok, "repeated variable must meet equal values")
}

func TestUnifyRawPatternAgainstFreeVariableFails(t *testing.T) {
	_, ok := Unify(term.NewLiteral("knows", "tom"), term.NewLiteral("knows", v("X")))
	assert.False(t, ok)
}

func TestUnifyRelocationAndWildcard(t *testing.T) {
	b, ok := Unify(
		term.NewLiteral("likes", v("X"), v("Y"), v(term.Wildcard)),
		term.NewLiteral("likes", "tom", v("Z"), "ignored"),
	)
	require.True(t, ok)
	require.Len(t, b, 2)
	assert.Equal(t, "tom", b["X"].String())

	z, isVar := b["Y"].(*term.Variable)
	require.True(t, isVar, "free value variable yields a relocation")
	assert.Equal(t, "Z", z.Name())

	values, relocations := b.Values()
	assert.Len(t, values, 1)
	assert.Equal(t, map[string]string{"Y": "Z"}, relocations)
}

func TestUnifyBoundValueVariable(t *testing.T) {
	bound := term.NewConstant("Z", "jerry")
	b, ok := Unify(term.NewLiteral("likes", v("Y")), term.NewLiteral("likes", bound))
	require.True(t, ok)
	assert.Equal(t, "jerry", b["Y"].String())
}

func TestUnifyWithSeedDoesNotMutateSeed(t *testing.T) {
	seed := term.Bindings{"X": term.NewRaw("tom")}
	_, ok := UnifyWith(seed, term.NewLiteral("knows", v("X"), v("Y")), term.NewLiteral("knows", "ann", "bob"))
	assert.False(t, ok)

	b, ok := UnifyWith(seed, term.NewLiteral("knows", v("X"), v("Y")), term.NewLiteral("knows", "tom", "bob"))
	require.True(t, ok)
	assert.Len(t, b, 2)
	assert.Len(t, seed, 1)
}

func TestNamesAndDuplicates(t *testing.T) {
	l := term.NewLiteral("f", v("X"), v("_"), term.NewLiteral("g", v("Y"), v("X")), v("_"))
	assert.Equal(t, []string{"X", "Y"}, Names(l))
	assert.Equal(t, []string{"X"}, Duplicates(l))
	assert.Equal(t, map[string]int{"X": 2, "Y": 1}, Frequency(l))

	assert.Empty(t, Duplicates(term.NewLiteral("f", v("_"), v("_"), v("A"))))
}

// scope is a minimal Scope over a variable map.
type scope struct {
	beliefs beliefbase.BeliefBase
	vars    map[string]term.Term
}

func newScope(beliefs ...*term.Literal) *scope {
	m := beliefbase.NewMemory(0)
	for _, b := range beliefs {
		if _, err := m.Add(b); err != nil {
			panic(err)
		}
	}
	return &scope{beliefs: m, vars: map[string]term.Term{}}
}

func (s *scope) Beliefs() beliefbase.BeliefBase { return s.beliefs }

func (s *scope) Value(name string) (term.Term, bool) {
	t, ok := s.vars[name]
	return t, ok
}

func (s *scope) Bind(values term.Bindings) error {
	for k, t := range values {
		s.vars[k] = t
	}
	return nil
}

func knows() *scope {
	return newScope(
		term.NewLiteral("knows", "tom", "jerry"),
		term.NewLiteral("knows", "tom", "spike"),
		term.NewLiteral("knows", "ann", "bob"),
		term.NewLiteral("knows", "ann", "bob", "extra"),
	)
}

func TestUnifyScope(t *testing.T) {
	ctx := context.Background()
	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", concurrent), func(t *testing.T) {
			u := New(4)

			s := knows()
			got, err := u.UnifyScope(ctx, s, term.NewLiteral("knows", "tom", v("Y")), 1, nil, concurrent)
			require.NoError(t, err)
			assert.True(t, got.Value())
			assert.Equal(t, "jerry", s.vars["Y"].String())

			s = knows()
			notJerry := func(_ context.Context, b term.Bindings) (bool, error) {
				return b["Y"].String() != "jerry", nil
			}
			got, err = u.UnifyScope(ctx, s, term.NewLiteral("knows", "tom", v("Y")), 1, notJerry, concurrent)
			require.NoError(t, err)
			assert.True(t, got.Value())
			assert.Equal(t, "spike", s.vars["Y"].String())

			s = knows()
			s.vars["X"] = term.NewRaw("ann")
			got, err = u.UnifyScope(ctx, s, term.NewLiteral("knows", v("X"), v("Y")), 2, nil, concurrent)
			require.NoError(t, err)
			assert.True(t, got.Value())
			assert.Equal(t, "bob", s.vars["Y"].String())
		})
	}
}

func TestUnifyScopeExhaustionLeavesScope(t *testing.T) {
	u := New(0)
	s := knows()
	s.vars["X"] = term.NewRaw("nobody")

	got, err := u.UnifyScope(context.Background(), s, term.NewLiteral("knows", v("X"), v("Y")), 2, nil, true)
	require.NoError(t, err)
	assert.False(t, got.Value())
	if diff := cmp.Diff(map[string]string{"X": "nobody"}, render(s.vars)); diff != "" {
		t.Errorf("scope changed (-want +got):\n%s", diff)
	}

	// wrong expected count
	got, err = u.UnifyScope(context.Background(), knows(), term.NewLiteral("knows", "tom", v("Y")), 2, nil, false)
	require.NoError(t, err)
	assert.False(t, got.Value())
}

func TestUnifyScopeParallelEquivalence(t *testing.T) {
	const n = 64
	for k := 0; k < n; k += 7 {
		var beliefs []*term.Literal
		for i := 0; i < n; i++ {
			tag := "miss"
			if i == k {
				tag = "hit"
			}
			beliefs = append(beliefs, term.NewLiteral("item", i, tag))
		}
		pattern := term.NewLiteral("item", v("I"), "hit")

		seq := newScope(beliefs...)
		par := newScope(beliefs...)
		u := New(3)
		_, err := u.UnifyScope(context.Background(), seq, pattern, 1, nil, false)
		require.NoError(t, err)
		_, err = u.UnifyScope(context.Background(), par, pattern, 1, nil, true)
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprint(k), seq.vars["I"].String())
		if diff := cmp.Diff(render(seq.vars), render(par.vars)); diff != "" {
			t.Errorf("k=%d sequential and parallel differ (-seq +par):\n%s", k, diff)
		}
	}
}

func TestUnifyScopeConstraintError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(0).UnifyScope(context.Background(), knows(), term.NewLiteral("knows", "tom", v("Y")), 1,
		func(context.Context, term.Bindings) (bool, error) { return false, boom }, true)
	assert.ErrorIs(t, err, boom)
}

// A slow match on the first candidate wins over a constraint error on a
// later one in both modes.
func TestUnifyScopeMatchBeforeConstraintError(t *testing.T) {
	boom := errors.New("boom")
	constraint := func(_ context.Context, b term.Bindings) (bool, error) {
		if b["T"].String() == "slowhit" {
			time.Sleep(20 * time.Millisecond)
			return true, nil
		}
		return false, boom
	}
	for _, concurrent := range []bool{false, true} {
		s := newScope(
			term.NewLiteral("item", 0, "slowhit"),
			term.NewLiteral("item", 1, "bad"),
		)
		got, err := New(0).UnifyScope(context.Background(), s, term.NewLiteral("item", v("I"), v("T")), 2, constraint, concurrent)
		require.NoError(t, err, "parallel=%v", concurrent)
		assert.True(t, got.Value(), "parallel=%v", concurrent)
		assert.Equal(t, map[string]string{"I": "0", "T": "slowhit"}, render(s.vars), "parallel=%v", concurrent)
	}
}

type brokenStore struct{ beliefbase.BeliefBase }

var errStore = errors.New("store offline")

func (brokenStore) Lookup(term.Path) ([]*term.Literal, error) { return nil, errStore }

func TestUnifyScopeLookupErrorPropagates(t *testing.T) {
	s := &scope{beliefs: brokenStore{}, vars: map[string]term.Term{}}
	_, err := New(0).UnifyScope(context.Background(), s, term.NewLiteral("knows", v("X")), 1, nil, false)
	assert.ErrorIs(t, err, errStore)
}

func render(vars map[string]term.Term) map[string]string {
	out := make(map[string]string, len(vars))
	for k, t := range vars {
		out[k] = t.String()
	}
	return out
}

func TestUnifyLiteral(t *testing.T) {
	u := New(0)
	s := newScope()
	got, err := u.UnifyLiteral(context.Background(), s, term.NewLiteral("pair", v("A"), v("B")), term.NewLiteral("pair", 1, 2), 2, nil)
	require.NoError(t, err)
	assert.True(t, got.Value())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, render(s.vars))

	s = newScope()
	got, err = u.UnifyLiteral(context.Background(), s, term.NewLiteral("pair", v("A"), v("B")), term.NewLiteral("pair", 1), 2, nil)
	require.NoError(t, err)
	assert.False(t, got.Value())
	assert.Empty(t, s.vars)
}
