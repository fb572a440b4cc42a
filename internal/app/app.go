//go:build ebiten

package app

import (
	"image/color"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lifegrid/internal/core"
	"lifegrid/internal/render"
	"lifegrid/internal/ui"
	"lifegrid/pkg/life"
)

// Game adapts a life.Engine to the ebiten.Game interface. All engine work,
// including scheduled generations, runs on the ebiten update goroutine.
type Game struct {
	engine  *life.Engine
	sched   *core.Deferred
	painter *render.GridPainter
	hud     *ui.HUD
	logger  log.Logger

	frame     life.Frame
	steps     int
	resizable bool
	outW      int
	outH      int
}

// New constructs a Game from cfg.
func New(cfg *Config, logger log.Logger) (*Game, error) {
	g := &Game{
		sched:     core.NewDeferred(),
		painter:   render.NewGridPainter(render.Layout{CellSize: cfg.Life.CellSize, Spacing: cfg.Life.Spacing}),
		logger:    logger,
		steps:     cfg.Steps,
		resizable: cfg.Resizable,
	}
	engine, err := life.New(cfg.Life, g.sched, g.onFrame)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logger)
	g.engine = engine
	g.frame = engine.Snapshot()
	g.hud = ui.NewHUD(NewControls(engine), cfg.HUDWidth)
	if cfg.Run > 0 {
		g.report(engine.Step(cfg.Run))
	}
	return g, nil
}

// WindowSize returns the initial window size in pixels.
func (g *Game) WindowSize() (int, int) {
	w, h := g.painter.Layout().CanvasSize(g.frame.Grid.Height(), g.frame.Grid.Width())
	return w + g.hud.Width(), h
}

func (g *Game) onFrame(f life.Frame) { g.frame = f }

func (g *Game) report(err error) {
	if err != nil {
		level.Warn(g.logger).Log("msg", "operation rejected", "err", err)
	}
}

// Update handles input and runs generations whose delay has elapsed.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.report(g.engine.TogglePause())
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.report(g.engine.Step(1))
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.report(g.engine.Step(g.steps))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.report(g.engine.Reset(life.SeedRandomGrid))
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.report(g.engine.Reset(life.SeedBlankGrid))
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.report(g.engine.AddPattern(life.Blinker))
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.report(g.engine.AddPattern(life.Glider))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		grid := g.frame.Grid
		if row, col, ok := g.painter.Layout().CellAt(x, y, grid.Height(), grid.Width()); ok {
			g.report(g.engine.ToggleCell(row, col))
		}
	}

	g.hud.Update(g.canvasWidth())
	g.sched.RunDue()
	return nil
}

// Draw renders the latest frame and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 220, G: 220, B: 220, A: 255})
	g.painter.Blit(screen, g.frame.Grid)
	g.hud.Draw(screen, g.canvasWidth())
}

// Layout returns the logical screen size. In resizable mode a change in the
// window's cell capacity is forwarded to the engine as a resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.resizable && (outsideWidth != g.outW || outsideHeight != g.outH) {
		g.outW, g.outH = outsideWidth, outsideHeight
		rows, cols := g.painter.Layout().GridSize(outsideWidth-g.hud.Width(), outsideHeight)
		size := g.frame.Grid.Size()
		if rows > 0 && cols > 0 && (rows != size.H || cols != size.W) {
			g.report(g.engine.Resize(rows, cols))
		}
	}
	if g.resizable {
		return outsideWidth, outsideHeight
	}
	return g.WindowSize()
}

func (g *Game) canvasWidth() int {
	w, _ := g.painter.Layout().CanvasSize(g.frame.Grid.Height(), g.frame.Grid.Width())
	return w
}
