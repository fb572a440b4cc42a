package life

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"lifegrid/pkg/core"
	"lifegrid/pkg/grid"
)

var (
	// ErrInvalidStepCount is returned by Step for negative counts.
	ErrInvalidStepCount = errors.New("life: negative step count")
	// ErrInvalidStepDuration is returned for non-positive step durations.
	ErrInvalidStepDuration = errors.New("life: step duration must be positive")
)

// Frame is an immutable view of the engine handed to renderers.
type Frame struct {
	Grid         *grid.Grid
	Generation   int
	Paused       bool
	PendingSteps int
}

// RenderFunc receives a frame after every change to the visible grid.
type RenderFunc func(Frame)

// Engine owns the current grid and drives generation steps through a
// Scheduler. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	cur          *grid.Grid
	generation   int
	stepDuration time.Duration
	paused       bool
	pending      int

	// chain is the token of the most recent step chain. A scheduled
	// continuation only runs while chainActive is set and its token matches.
	chain       uint64
	chainActive bool
	remaining   int

	density float64
	rng     *core.RNG
	sched   Scheduler
	render  RenderFunc
	logger  log.Logger
}

// New builds an engine from cfg, seeding the first grid from
// cfg.InitialPattern. A nil scheduler runs continuations immediately and a nil
// render func discards frames.
func New(cfg Config, sched Scheduler, render RenderFunc) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed, err := ParseSeed(cfg.InitialPattern)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	e := &Engine{
		stepDuration: cfg.StepDuration(),
		density:      cfg.Density,
		rng:          core.NewRNG(cfg.Seed),
		sched:        sched,
		render:       render,
		logger:       log.NewNopLogger(),
	}
	g, err := e.build(seed, cfg.Height, cfg.Width)
	if err != nil {
		return nil, err
	}
	e.cur = g
	return e, nil
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NewNopLogger()
	}
	e.mu.Lock()
	e.logger = l
	e.mu.Unlock()
}

// Step advances count generations. The first generation is computed before
// Step returns; the rest are scheduled stepDuration apart. Zero is a no-op.
// While paused a single generation is computed and the remainder is added to
// the pending count.
func (e *Engine) Step(count int) error {
	if count < 0 {
		e.mu.Lock()
		level.Debug(e.logger).Log("msg", "step rejected", "count", count)
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInvalidStepCount, count)
	}
	if count == 0 {
		return nil
	}

	e.mu.Lock()
	remaining := count - 1
	if e.chainActive {
		remaining += e.remaining
	}
	e.chain++
	token := e.chain
	frame, again := e.advanceLocked(remaining)
	delay := e.stepDuration
	e.mu.Unlock()

	e.emit(frame)
	if again {
		e.schedule(delay, token)
	}
	return nil
}

func (e *Engine) schedule(delay time.Duration, token uint64) {
	e.sched.Schedule(delay, func() { e.continueChain(token) })
}

func (e *Engine) continueChain(token uint64) {
	e.mu.Lock()
	if !e.chainActive || e.chain != token {
		e.mu.Unlock()
		return
	}
	frame, again := e.advanceLocked(e.remaining - 1)
	delay := e.stepDuration
	e.mu.Unlock()

	e.emit(frame)
	if again {
		e.schedule(delay, token)
	}
}

// advanceLocked computes one generation and records what is left of the
// chain. It reports whether another continuation must be scheduled.
func (e *Engine) advanceLocked(remaining int) (Frame, bool) {
	e.cur = NextGeneration(e.cur)
	e.generation++

	e.chainActive = false
	e.remaining = 0
	switch {
	case e.paused:
		e.pending += remaining
	case remaining > 0:
		e.chainActive = true
		e.remaining = remaining
	}
	return e.frameLocked(), e.chainActive
}

// Pause stops the active chain and remembers how many generations it had
// left. Work already in progress is not interrupted.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused {
		return
	}
	e.paused = true
	if e.chainActive {
		e.pending += e.remaining
		e.chainActive = false
		e.remaining = 0
	}
	level.Debug(e.logger).Log("msg", "paused", "pending", e.pending, "generation", e.generation)
}

// Resume clears the paused flag and continues with the pending generations.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if !e.paused {
		e.mu.Unlock()
		return nil
	}
	e.paused = false
	n := e.pending
	e.pending = 0
	level.Debug(e.logger).Log("msg", "resumed", "pending", n, "generation", e.generation)
	e.mu.Unlock()
	return e.Step(n)
}

// TogglePause pauses a running engine or resumes a paused one.
func (e *Engine) TogglePause() error {
	if e.Paused() {
		return e.Resume()
	}
	e.Pause()
	return nil
}

// ToggleCell flips a single cell on the live grid without advancing.
func (e *Engine) ToggleCell(row, col int) error {
	e.mu.Lock()
	if err := e.cur.Toggle(row, col); err != nil {
		level.Debug(e.logger).Log("msg", "toggle rejected", "err", err)
		e.mu.Unlock()
		return err
	}
	frame := e.frameLocked()
	e.mu.Unlock()
	e.emit(frame)
	return nil
}

// Reset replaces the grid according to seed, keeping its dimensions. The
// paused flag and pending count are left alone.
func (e *Engine) Reset(seed Seed) error {
	e.mu.Lock()
	g, err := e.build(seed, e.cur.Height(), e.cur.Width())
	if err != nil {
		level.Debug(e.logger).Log("msg", "reset rejected", "seed", seed, "err", err)
		e.mu.Unlock()
		return err
	}
	e.cur = g
	e.generation = 0
	level.Debug(e.logger).Log("msg", "reset", "seed", seed, "population", g.Population())
	frame := e.frameLocked()
	e.mu.Unlock()
	e.emit(frame)
	return nil
}

// AddPattern stamps p onto the live grid without clearing it.
func (e *Engine) AddPattern(p Pattern) error {
	e.mu.Lock()
	if err := e.cur.SetPattern(p.Cells); err != nil {
		level.Debug(e.logger).Log("msg", "pattern rejected", "pattern", p.Name, "err", err)
		e.mu.Unlock()
		return err
	}
	frame := e.frameLocked()
	e.mu.Unlock()
	e.emit(frame)
	return nil
}

// Resize discards the current grid and replaces it with a blank one of the
// new dimensions.
func (e *Engine) Resize(height, width int) error {
	g, err := grid.New(height, width)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.cur = g
	e.generation = 0
	level.Debug(e.logger).Log("msg", "resized", "height", height, "width", width)
	frame := e.frameLocked()
	e.mu.Unlock()
	e.emit(frame)
	return nil
}

// SetStepDuration changes the delay between chained generations. Chains
// already scheduled keep their current delay for the next continuation.
func (e *Engine) SetStepDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidStepDuration, d)
	}
	e.mu.Lock()
	e.stepDuration = d
	e.mu.Unlock()
	return nil
}

// SetDensity changes the live-cell probability used by random resets.
func (e *Engine) SetDensity(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", grid.ErrInvalidProbability, p)
	}
	e.mu.Lock()
	e.density = p
	e.mu.Unlock()
	return nil
}

// Density returns the live-cell probability used by random resets.
func (e *Engine) Density() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.density
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// PendingSteps returns the generations remembered while paused.
func (e *Engine) PendingSteps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Running reports whether a step chain is waiting on the scheduler.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chainActive
}

// StepDuration returns the delay between chained generations.
func (e *Engine) StepDuration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepDuration
}

// Generation returns the number of generations since the last reset.
func (e *Engine) Generation() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Size returns the current grid dimensions.
func (e *Engine) Size() core.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur.Size()
}

func (e *Engine) frameLocked() Frame {
	return Frame{
		Grid:         e.cur.Clone(),
		Generation:   e.generation,
		Paused:       e.paused,
		PendingSteps: e.pending,
	}
}

func (e *Engine) emit(f Frame) {
	if e.render != nil {
		e.render(f)
	}
}

func (e *Engine) build(seed Seed, height, width int) (*grid.Grid, error) {
	switch seed.Kind {
	case SeedBlank:
		return grid.New(height, width)
	case SeedRandom:
		return grid.NewRandom(height, width, e.density, e.rng.Source())
	case SeedPattern:
		p, err := LookupPattern(seed.Pattern)
		if err != nil {
			return nil, err
		}
		g, err := grid.New(height, width)
		if err != nil {
			return nil, err
		}
		if err := g.SetPattern(p.Cells); err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: seed kind %d", ErrUnknownPattern, seed.Kind)
	}
}
