package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDifficultyCurve(t *testing.T) {
	c, err := LoadDifficultyCurve(DifficultySpec{Script: "difficulty.tengo"})
	require.NoError(t, err)
	assert.Equal(t, "difficulty.tengo", c.Name())

	cases := []struct {
		progress, elapsed, want float64
	}{
		{0, 0, 0},
		{0.5, 60, 1.5},
		{0.25, 0, 0.5},
		{1, 600, 3},
	}
	for _, tc := range cases {
		got, err := c.Eval(tc.progress, tc.elapsed)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-9, "progress=%v elapsed=%v", tc.progress, tc.elapsed)
	}
}

func TestDifficultyCurveUsesBase(t *testing.T) {
	c, err := LoadDifficultyCurve(DifficultySpec{Script: "scripts/difficulty.tengo", Base: 1})
	require.NoError(t, err)
	got, err := c.Eval(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestConstantCurveWithoutScript(t *testing.T) {
	c, err := LoadDifficultyCurve(DifficultySpec{Base: 0.75})
	require.NoError(t, err)
	got, err := c.Eval(1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)

	var nilCurve *DifficultyCurve
	got, err = nilCurve.Eval(1, 1)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestDifficultyCurveIntegerResult(t *testing.T) {
	c, err := NewDifficultyCurve("int", []byte(`curve := func(p, e, b) { return 2 }`), 0)
	require.NoError(t, err)
	got, err := c.Eval(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestDifficultyCurveErrors(t *testing.T) {
	_, err := NewDifficultyCurve("missing", []byte(`ramp := func(p, e, b) { return p }`), 0)
	assert.Error(t, err, "curve must be defined")

	c, err := NewDifficultyCurve("string", []byte(`curve := func(p, e, b) { return "hard" }`), 0)
	require.NoError(t, err)
	_, err = c.Eval(0, 0)
	assert.ErrorContains(t, err, "want a number")

	_, err = LoadDifficultyCurve(DifficultySpec{Script: "absent.tengo"})
	assert.Error(t, err)
}
