// Package term draws a life.Engine in a terminal and maps keys and mouse
// clicks onto engine operations.
package term

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"lifegrid/pkg/life"
)

// Each cell is drawn two columns wide so that it looks roughly square.
const cellColumns = 2

var errQuit = errors.New("quit requested")

var (
	liveStyle   = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	deadStyle   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// Runner connects a tcell screen to an engine.
type Runner struct {
	screen tcell.Screen
	engine *life.Engine
	logger log.Logger

	// Steps is the number of generations started by the run key.
	Steps int
	// Fit resizes the engine grid to the terminal on every resize event.
	Fit bool

	frames     chan life.Frame
	buttonDown bool
}

// NewRunner builds a Runner for screen. Attach must be called before Run.
func NewRunner(screen tcell.Screen, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		screen: screen,
		logger: logger,
		Steps:  100,
		frames: make(chan life.Frame, 1),
	}
}

// Attach sets the engine driven by the runner.
func (r *Runner) Attach(engine *life.Engine) { r.engine = engine }

// Render is a life.RenderFunc. It keeps only the newest undrawn frame so a
// slow terminal never blocks the engine.
func (r *Runner) Render(f life.Frame) {
	for {
		select {
		case r.frames <- f:
			return
		default:
		}
		select {
		case <-r.frames:
		default:
		}
	}
}

// Run draws frames and handles input until the user quits or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return errors.New("term: no engine attached")
	}
	g, ctx := errgroup.WithContext(ctx)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go r.screen.ChannelEvents(events, quit)

	g.Go(func() error {
		<-ctx.Done()
		close(quit)
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if r.HandleEvent(ev) {
					return errQuit
				}
			}
		}
	})
	g.Go(func() error {
		r.Draw(r.engine.Snapshot())
		for {
			select {
			case <-ctx.Done():
				return nil
			case f := <-r.frames:
				r.Draw(f)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// HandleEvent applies a single terminal event and reports whether the user
// asked to quit.
func (r *Runner) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return r.handleKey(ev)
	case *tcell.EventMouse:
		r.handleMouse(ev)
	case *tcell.EventResize:
		r.screen.Sync()
		if r.Fit {
			w, h := ev.Size()
			rows, cols := h-1, w/cellColumns
			if rows > 0 && cols > 0 {
				r.report(r.engine.Resize(rows, cols))
				return false
			}
		}
		r.Render(r.engine.Snapshot())
	}
	return false
}

func (r *Runner) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case ' ':
		r.report(r.engine.TogglePause())
	case 'n':
		r.report(r.engine.Step(1))
	case 'g':
		r.report(r.engine.Step(r.Steps))
	case 'r':
		r.report(r.engine.Reset(life.SeedRandomGrid))
	case 'c':
		r.report(r.engine.Reset(life.SeedBlankGrid))
	case 'b':
		r.report(r.engine.AddPattern(life.Blinker))
	case 'l':
		r.report(r.engine.AddPattern(life.Glider))
	}
	return false
}

func (r *Runner) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !r.buttonDown {
		x, y := ev.Position()
		r.report(r.engine.ToggleCell(y, x/cellColumns))
	}
	r.buttonDown = pressed
}

func (r *Runner) report(err error) {
	if err != nil {
		level.Debug(r.logger).Log("msg", "operation rejected", "err", err)
	}
}

// Draw paints f and a status line below it, clipped to the screen.
func (r *Runner) Draw(f life.Frame) {
	s := r.screen
	s.Clear()
	sw, sh := s.Size()
	g := f.Grid
	for row := 0; row < g.Height() && row < sh; row++ {
		for col := 0; col < g.Width() && col*cellColumns < sw; col++ {
			style := deadStyle
			ch := ' '
			if g.Get(row, col) {
				style = liveStyle
				ch = '█'
			}
			for i := 0; i < cellColumns; i++ {
				s.SetContent(col*cellColumns+i, row, ch, nil, style)
			}
		}
	}
	if g.Height() < sh {
		drawText(s, 0, g.Height(), sw, statusStyle, StatusLine(f))
	}
	s.Show()
}

// StatusLine summarizes a frame for the bottom of the screen.
func StatusLine(f life.Frame) string {
	state := "running"
	if f.Paused {
		state = "paused"
	}
	return fmt.Sprintf("gen %d  pop %d  %s  pending %d  [space] pause  [n] step  [g] run  [r] random  [c] clear  [q] quit",
		f.Generation, f.Grid.Population(), state, f.PendingSteps)
}

func drawText(s tcell.Screen, x, y, maxX int, style tcell.Style, text string) {
	for _, ch := range text {
		if x >= maxX {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}
