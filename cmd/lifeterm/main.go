package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/urfave/cli"

	"lifegrid/internal/core"
	"lifegrid/internal/term"
	"lifegrid/pkg/life"
)

func main() {
	app := cli.NewApp()
	app.Name = "lifeterm"
	app.Usage = "Conway's Game of Life on a toroidal grid, in the terminal"
	app.Flags = flags(life.DefaultConfig())
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func flags(def life.Config) []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "width, W", Value: def.Width, Usage: "grid width in cells"},
		cli.IntFlag{Name: "height, H", Value: def.Height, Usage: "grid height in cells"},
		cli.IntFlag{Name: "step-ms", Value: def.StepDurationMs, Usage: "delay between generations in milliseconds"},
		cli.StringFlag{Name: "pattern, p", Value: def.InitialPattern, Usage: "initial pattern: blank|random|blinker|glider"},
		cli.Int64Flag{Name: "seed", Value: def.Seed, Usage: "seed for random fills"},
		cli.Float64Flag{Name: "density", Value: def.Density, Usage: "live-cell probability for random fills"},
		cli.IntFlag{Name: "steps, n", Value: 100, Usage: "generations to run (headless) or started by the g key"},
		cli.IntFlag{Name: "run", Usage: "generations to run at startup"},
		cli.BoolFlag{Name: "headless", Usage: "run --steps generations without a screen and print the final grid"},
		cli.BoolFlag{Name: "fit", Usage: "resize the grid to the terminal (clears the grid)"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level: debug|info|warn|error|none"},
		cli.StringFlag{Name: "log-file", Usage: "log destination for the interactive mode (default: discard)"},
	}
}

func configFrom(c *cli.Context) life.Config {
	cfg := life.DefaultConfig()
	cfg.Width = c.Int("width")
	cfg.Height = c.Int("height")
	cfg.StepDurationMs = c.Int("step-ms")
	cfg.InitialPattern = c.String("pattern")
	cfg.Seed = c.Int64("seed")
	cfg.Density = c.Float64("density")
	return cfg
}

func run(c *cli.Context) error {
	cfg := configFrom(c)
	if err := cfg.Validate(); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if c.Bool("headless") {
		logger, err := core.NewLogger(os.Stderr, c.String("log-level"))
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		return headless(cfg, c.Int("steps"), os.Stdout, logger)
	}

	var w io.Writer = io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	logger, err := core.NewLogger(w, c.String("log-level"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	return interactive(cfg, c, logger)
}

func headless(cfg life.Config, steps int, out io.Writer, logger log.Logger) error {
	q := &life.Queue{}
	eng, err := life.New(cfg, q, nil)
	if err != nil {
		return err
	}
	eng.SetLogger(logger)
	if err := eng.Step(steps); err != nil {
		return err
	}
	q.Drain()
	snap := eng.Snapshot()
	level.Info(logger).Log("msg", "done", "generation", snap.Generation, "population", snap.Grid.Population())
	_, err = io.WriteString(out, snap.Grid.String())
	return err
}

func interactive(cfg life.Config, c *cli.Context, logger log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	runner := term.NewRunner(screen, logger)
	runner.Steps = c.Int("steps")
	runner.Fit = c.Bool("fit")

	eng, err := life.New(cfg, life.TimerScheduler{}, runner.Render)
	if err != nil {
		return err
	}
	eng.SetLogger(logger)
	runner.Attach(eng)
	if err := eng.Step(c.Int("run")); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	level.Info(logger).Log("msg", "starting", "width", cfg.Width, "height", cfg.Height, "pattern", cfg.InitialPattern)
	return runner.Run(ctx)
}
