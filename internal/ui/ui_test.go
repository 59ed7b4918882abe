package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mad-ising/internal/core"
)

var betaControl = core.ParameterControl{
	Key: "beta", Label: "beta", Type: core.ParamTypeFloat,
	Step: 0.05, Min: 0, HasMin: true, Max: 5, HasMax: true,
}

func TestNextValueClampsAndSnaps(t *testing.T) {
	v, ok := NextValue(betaControl, 0.5, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.55, v, 1e-12)

	v, ok = NextValue(betaControl, 0.02, -1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = NextValue(betaControl, 0, -1)
	assert.False(t, ok)
	_, ok = NextValue(betaControl, 5, 1)
	assert.False(t, ok)
	_, ok = NextValue(betaControl, 1, 0)
	assert.False(t, ok)
}

func TestFormatControlValue(t *testing.T) {
	assert.Equal(t, "0.44", FormatControlValue(betaControl, 0.44))
	assert.Equal(t, "1.0", FormatControlValue(core.ParameterControl{Step: 0.1}, 1))
	assert.Equal(t, "0.125", FormatControlValue(core.ParameterControl{Step: 0.005}, 0.125))
}

func TestControlStatesReadSnapshot(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:   "Couplings",
		Params: []core.Parameter{core.FloatParam("beta", "Inverse temperature", 0.44)},
	}}}
	missing := core.ParameterControl{Key: "B", Step: 0.05}
	states := ControlStates([]core.ParameterControl{betaControl, missing}, snap)

	assert.True(t, states[0].HasValue)
	assert.Equal(t, 0.44, states[0].Value)
	assert.Equal(t, "0.44", states[0].Text)
	assert.False(t, states[1].HasValue)
	assert.Equal(t, "--", states[1].Text)
}

func TestTraceEvictsOldest(t *testing.T) {
	tr := NewTrace(3)
	for _, v := range []float64{1, 2} {
		tr.Push(v)
	}
	assert.Equal(t, []float64{1, 2}, tr.Values())

	for _, v := range []float64{3, 4, 5} {
		tr.Push(v)
	}
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, []float64{3, 4, 5}, tr.Values())

	tr.Reset()
	assert.Empty(t, tr.Values())
}
