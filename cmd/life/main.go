//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/log/level"
	"github.com/hajimehoshi/ebiten/v2"

	"lifegrid/internal/app"
	"lifegrid/internal/core"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger, err := core.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	game, err := app.New(cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "cannot start", "err", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("lifegrid: " + cfg.Life.InitialPattern)
	ebiten.SetWindowSize(game.WindowSize())
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		level.Error(logger).Log("msg", "game loop failed", "err", err)
		os.Exit(1)
	}
}
