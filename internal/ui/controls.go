package ui

import (
	"math"
	"strconv"

	"mad-ising/internal/core"
)

// ControlState pairs an adjustable control with the value last read from the
// simulation.
type ControlState struct {
	Control  core.ParameterControl
	Value    float64
	Text     string
	HasValue bool
}

// ControlStates resolves the current value of every control from snap.
func ControlStates(controls []core.ParameterControl, snap core.ParameterSnapshot) []ControlState {
	out := make([]ControlState, len(controls))
	for i, ctrl := range controls {
		out[i] = ControlState{Control: ctrl, Text: "--"}
		param, ok := snap.Lookup(ctrl.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		out[i].Value = v
		out[i].Text = FormatControlValue(ctrl, v)
		out[i].HasValue = true
	}
	return out
}

// NextValue moves current one step in direction and clamps it to the control
// bounds. It reports false when the value would not change.
func NextValue(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	target := current + float64(direction)*step
	if ctrl.HasMin && target < ctrl.Min {
		target = ctrl.Min
	}
	if ctrl.HasMax && target > ctrl.Max {
		target = ctrl.Max
	}
	// Values stay on the step grid.
	target = math.Round(target/step) * step
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

// FormatControlValue prints value with a precision matching the control step.
func FormatControlValue(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
