package app

import (
	"fmt"
	"strconv"
	"time"

	"lifegrid/internal/core"
	"lifegrid/pkg/life"
)

// Controls exposes engine state and tunables to the HUD.
type Controls struct {
	engine *life.Engine
}

// NewControls wraps engine for HUD consumption.
func NewControls(engine *life.Engine) *Controls {
	return &Controls{engine: engine}
}

// Parameters returns the values shown on the HUD.
func (c *Controls) Parameters() core.ParameterSnapshot {
	snap := c.engine.Snapshot()
	size := snap.Grid.Size()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				intParam("generation", "Generation", snap.Generation),
				intParam("population", "Population", snap.Grid.Population()),
				{Key: "size", Label: "Size", Type: core.ParamTypeInt, Value: fmt.Sprintf("%dx%d", size.H, size.W)},
				boolParam("paused", "Paused", snap.Paused),
				intParam("pending", "Pending", snap.PendingSteps),
			},
		},
		{
			Name: "Tuning",
			Params: []core.Parameter{
				intParam("step_ms", "Step ms", int(c.engine.StepDuration()/time.Millisecond)),
				floatParam("density", "Density", c.engine.Density()),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (c *Controls) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "step_ms", Label: "Step ms", Type: core.ParamTypeInt, Step: 10, Min: 10, Max: 2000, HasMin: true, HasMax: true},
		{Key: "density", Label: "Density", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetIntParameter applies an integer control.
func (c *Controls) SetIntParameter(key string, value int) bool {
	switch key {
	case "step_ms":
		return c.engine.SetStepDuration(time.Duration(value)*time.Millisecond) == nil
	}
	return false
}

// SetFloatParameter applies a floating point control.
func (c *Controls) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "density":
		return c.engine.SetDensity(value) == nil
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
