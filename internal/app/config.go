package app

import (
	"flag"

	"lifegrid/pkg/life"
)

// Config represents the command-line parameters for the GUI.
type Config struct {
	Life life.Config

	// Run is the number of generations started automatically.
	Run int
	// Steps is the number of generations started by the run key.
	Steps int

	HUDWidth  int
	Resizable bool
	LogLevel  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Life:     life.DefaultConfig(),
		Steps:    100,
		HUDWidth: 220,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Life.Width, "w", c.Life.Width, "grid width in cells")
	fs.IntVar(&c.Life.Height, "h", c.Life.Height, "grid height in cells")
	fs.IntVar(&c.Life.CellSize, "cell", c.Life.CellSize, "cell size in pixels")
	fs.IntVar(&c.Life.Spacing, "spacing", c.Life.Spacing, "gap between cells in pixels")
	fs.IntVar(&c.Life.StepDurationMs, "step-ms", c.Life.StepDurationMs, "delay between generations in milliseconds")
	fs.StringVar(&c.Life.InitialPattern, "pattern", c.Life.InitialPattern, "initial pattern: blank|random|blinker|glider")
	fs.Int64Var(&c.Life.Seed, "seed", c.Life.Seed, "seed for random fills")
	fs.Float64Var(&c.Life.Density, "density", c.Life.Density, "live-cell probability for random fills")
	fs.IntVar(&c.Run, "run", c.Run, "generations to run at startup")
	fs.IntVar(&c.Steps, "steps", c.Steps, "generations started by the G key")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.BoolVar(&c.Resizable, "resizable", c.Resizable, "resize the grid with the window (clears the grid)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug|info|warn|error|none")
}
