package ising

import (
	"math"

	"mad-ising/internal/core"
)

// Parameters reports the configuration and live observables grouped for display.
func (m *Model) Parameters() core.ParameterSnapshot {
	attempted, accepted := m.Acceptance()
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				core.IntParam("size", "Size", m.cfg.Size),
				core.FloatParam("rho", "Initial density", m.cfg.Rho),
				core.Int64Param("seed", "Seed", m.cfg.Seed),
			},
		},
		{
			Name: "Couplings",
			Params: []core.Parameter{
				core.FloatParam("J", "Exchange coupling J", m.cfg.Params.J),
				core.FloatParam("B", "External field B", m.cfg.Params.B),
				core.FloatParam("beta", "Inverse temperature", m.cfg.Params.Beta),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				core.IntParam("steps", "Macrosteps", m.cfg.Steps),
				core.IntParam("sweeps", "Sweeps done", m.sweeps),
				core.Int64Param("attempted", "Trials attempted", int64(attempted)),
				core.Int64Param("accepted", "Trials accepted", int64(accepted)),
			},
		},
		{
			Name: "Observables",
			Params: []core.Parameter{
				core.FloatParam("magnetisation", "Magnetisation", m.Magnetisation()),
				core.FloatParam("energy", "Total energy", m.Energy()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the couplings adjustable while the model runs.
func (m *Model) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "beta", Label: "beta", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true, Max: 5, HasMax: true},
		{Key: "B", Label: "B", Type: core.ParamTypeFloat, Step: 0.05, Min: -2, HasMin: true, Max: 2, HasMax: true},
		{Key: "J", Label: "J", Type: core.ParamTypeFloat, Step: 0.1, Min: -2, HasMin: true, Max: 2, HasMax: true},
	}
}

// SetFloatParameter replaces one coupling, clamped to its control bounds. It
// reports false for unknown keys and non-finite values.
func (m *Model) SetFloatParameter(key string, value float64) bool {
	if !finite(value) {
		return false
	}
	var ctrl *core.ParameterControl
	for _, c := range m.ParameterControls() {
		if c.Key == key {
			c := c
			ctrl = &c
			break
		}
	}
	if ctrl == nil {
		return false
	}
	if ctrl.HasMin {
		value = math.Max(value, ctrl.Min)
	}
	if ctrl.HasMax {
		value = math.Min(value, ctrl.Max)
	}
	p := m.cfg.Params
	switch key {
	case "beta":
		p.Beta = value
	case "B":
		p.B = value
	case "J":
		p.J = value
	}
	m.cfg.Params = p
	return true
}
