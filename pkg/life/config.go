package life

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"lifegrid/pkg/grid"
)

// Config holds the recognized simulation and presentation options.
type Config struct {
	Width  int
	Height int

	// CellSize and Spacing are pixel measurements for renderers; the engine
	// itself ignores them.
	CellSize int
	Spacing  int

	StepDurationMs int
	InitialPattern string

	Seed    int64
	Density float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:          64,
		Height:         48,
		CellSize:       10,
		Spacing:        1,
		StepDurationMs: 100,
		InitialPattern: "glider",
		Seed:           42,
		Density:        grid.DefaultProbability,
	}
}

// StepDuration converts StepDurationMs to a time.Duration.
func (c Config) StepDuration() time.Duration {
	return time.Duration(c.StepDurationMs) * time.Millisecond
}

// Validate reports every option that cannot be used to build an engine.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", grid.ErrInvalidDimension, c.Height, c.Width))
	}
	if c.StepDurationMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dms", ErrInvalidStepDuration, c.StepDurationMs))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("life: cell size must be positive, got %d", c.CellSize))
	}
	if c.Spacing < 0 {
		errs = append(errs, fmt.Errorf("life: spacing must not be negative, got %d", c.Spacing))
	}
	if c.Density < 0 || c.Density > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", grid.ErrInvalidProbability, c.Density))
	}
	if _, err := ParseSeed(c.InitialPattern); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FromMap populates a Config from a flag-style string map. Unparseable or
// out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["cell_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["spacing"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Spacing = parsed
		}
	}
	if v, ok := cfg["step_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.StepDurationMs = parsed
		}
	}
	if v, ok := cfg["pattern"]; ok {
		if _, err := ParseSeed(v); err == nil {
			c.InitialPattern = v
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	return c
}
