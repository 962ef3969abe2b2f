package fuzzy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBounds(t *testing.T) {
	for _, degree := range []float64{-0.01, 1.01} {
		_, err := New(true, degree)
		assert.True(t, errors.Is(err, ErrDegreeOutOfRange), "degree %v", degree)
	}
	for _, degree := range []float64{0, 0.5, 1} {
		v, err := New(true, degree)
		require.NoError(t, err)
		assert.Equal(t, degree, v.Degree())
	}
	assert.Panics(t, func() { Must(false, 2) })
	assert.Equal(t, 1.0, Of("x").Degree())
}

func TestConjunction(t *testing.T) {
	a := Must(true, 0.7)
	b := Must(false, 0.4)
	c := Must(true, 0.9)

	got := Conjunction(a, b)
	assert.False(t, got.Value())
	assert.Equal(t, 0.4, got.Degree())

	assert.Equal(t, Conjunction(Conjunction(a, b), c), Conjunction(a, Conjunction(b, c)))
	assert.Equal(t, Conjunction(a, c), Conjunction(c, a))
	assert.Equal(t, a, Conjunction(a, Identity()))
}

func TestReduce(t *testing.T) {
	assert.Equal(t, Identity(), Reduce(nil))
	assert.Equal(t, Must(true, 0.3), Reduce(Set{Must(true, 0.3), Must(true, 0.8)}))
	assert.Equal(t, Must(false, 0.0), Reduce(Success()))
}

func TestCrisp(t *testing.T) {
	var d Defuzzification = Crisp{}
	assert.True(t, d.Defuzzify(Success()))
	assert.False(t, d.Defuzzify(Fail()))
	assert.True(t, d.Defuzzify(nil))
	assert.True(t, d.Defuzzify(Set{Must(true, 0.2)}))
	assert.False(t, d.Defuzzify(append(Success(), Fail()...)))
}

func TestThreshold(t *testing.T) {
	d, err := NewDefuzzification(StrategyThreshold, 0.5)
	require.NoError(t, err)
	assert.Equal(t, StrategyThreshold, d.Name())

	assert.True(t, d.Defuzzify(Set{Must(true, 0.6)}))
	assert.False(t, d.Defuzzify(Set{Must(true, 0.4)}))
	assert.True(t, d.Defuzzify(Success()))
	assert.False(t, d.Defuzzify(Fail()))
}

func TestNewDefuzzification(t *testing.T) {
	d, err := NewDefuzzification("", 0)
	require.NoError(t, err)
	assert.Equal(t, StrategyCrisp, d.Name())

	_, err = NewDefuzzification(StrategyThreshold, 1.5)
	assert.ErrorIs(t, err, ErrDegreeOutOfRange)

	_, err = NewDefuzzification("weighted", 0)
	assert.Error(t, err)
}

func TestFromBool(t *testing.T) {
	assert.Equal(t, Success(), FromBool(true))
	assert.Equal(t, Fail(), FromBool(false))
	assert.Equal(t, "(true, 0.5)", Must(true, 0.5).String())
}
