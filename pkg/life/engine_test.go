package life

import (
	"errors"
	"sync"
	"testing"
	"time"

	"lifegrid/pkg/grid"
)

type frameLog struct {
	mu     sync.Mutex
	frames []Frame
}

func (l *frameLog) record(f Frame) {
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()
}

func (l *frameLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func newTestEngine(t *testing.T, h, w int, pattern string, sched Scheduler) (*Engine, *frameLog) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Height = h
	cfg.Width = w
	cfg.InitialPattern = pattern
	cfg.Seed = 7
	frames := &frameLog{}
	e, err := New(cfg, sched, frames.record)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, frames
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := New(cfg, nil, nil); !errors.Is(err, grid.ErrInvalidDimension) {
		t.Fatalf("err=%v, want ErrInvalidDimension", err)
	}
	cfg = DefaultConfig()
	cfg.InitialPattern = "pulsar"
	if _, err := New(cfg, nil, nil); !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("err=%v, want ErrUnknownPattern", err)
	}
	cfg = DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.InitialPattern = "glider"
	if _, err := New(cfg, nil, nil); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds for oversized pattern", err)
	}
}

func TestStepChainUsesScheduler(t *testing.T) {
	q := &Queue{}
	e, frames := newTestEngine(t, 8, 8, "blinker", q)

	if err := e.Step(3); err != nil {
		t.Fatal(err)
	}
	if frames.len() != 1 || e.Generation() != 1 {
		t.Fatalf("after Step: frames=%d generation=%d, want 1/1", frames.len(), e.Generation())
	}
	if !e.Running() || q.Len() != 1 {
		t.Fatalf("chain not scheduled: running=%v queued=%d", e.Running(), q.Len())
	}

	if ran := q.Drain(); ran != 2 {
		t.Fatalf("drained %d continuations, want 2", ran)
	}
	if frames.len() != 3 || e.Generation() != 3 {
		t.Fatalf("after drain: frames=%d generation=%d, want 3/3", frames.len(), e.Generation())
	}
	if e.Running() {
		t.Fatal("chain still active after final step")
	}
	want := patternGrid(t, 8, 8, []grid.Cell{{Row: 4, Col: 2}, {Row: 4, Col: 3}, {Row: 4, Col: 4}})
	if got := e.Snapshot().Grid; !got.Equal(want) {
		t.Fatalf("grid after 3 steps:\n%s\nwant:\n%s", got, want)
	}
}

func TestStepZeroAndNegative(t *testing.T) {
	q := &Queue{}
	e, frames := newTestEngine(t, 8, 8, "blinker", q)
	before := e.Snapshot().Grid

	if err := e.Step(0); err != nil {
		t.Fatalf("Step(0) err=%v", err)
	}
	if err := e.Step(-2); !errors.Is(err, ErrInvalidStepCount) {
		t.Fatalf("Step(-2) err=%v, want ErrInvalidStepCount", err)
	}
	if frames.len() != 0 || q.Len() != 0 || e.Generation() != 0 {
		t.Fatal("no-op steps produced work")
	}
	if !e.Snapshot().Grid.Equal(before) {
		t.Fatal("no-op steps changed the grid")
	}
}

func TestImmediateSchedulerCompletesChain(t *testing.T) {
	e, frames := newTestEngine(t, 20, 20, "glider", nil)
	if err := e.Step(4); err != nil {
		t.Fatal(err)
	}
	if frames.len() != 4 || e.Generation() != 4 {
		t.Fatalf("frames=%d generation=%d, want 4/4", frames.len(), e.Generation())
	}
}

func TestPauseResumeIsTransparent(t *testing.T) {
	qa := &Queue{}
	a, _ := newTestEngine(t, 16, 16, "random", qa)
	qb := &Queue{}
	b, _ := newTestEngine(t, 16, 16, "random", qb)
	if !a.Snapshot().Grid.Equal(b.Snapshot().Grid) {
		t.Fatal("same seed produced different starting grids")
	}

	a.Step(5)
	qa.Drain()

	b.Step(5)
	b.Pause()
	if !b.Paused() || b.PendingSteps() != 4 {
		t.Fatalf("paused=%v pending=%d, want true/4", b.Paused(), b.PendingSteps())
	}
	qb.Drain()
	if b.Generation() != 1 {
		t.Fatalf("retired continuation advanced the grid: generation=%d", b.Generation())
	}
	if err := b.Resume(); err != nil {
		t.Fatal(err)
	}
	qb.Drain()

	if b.Generation() != 5 || b.PendingSteps() != 0 {
		t.Fatalf("generation=%d pending=%d, want 5/0", b.Generation(), b.PendingSteps())
	}
	if !a.Snapshot().Grid.Equal(b.Snapshot().Grid) {
		t.Fatal("pause/resume changed the outcome")
	}
}

func TestPauseMidChain(t *testing.T) {
	q := &Queue{}
	e, _ := newTestEngine(t, 8, 8, "blinker", q)
	e.Step(5)
	q.RunNext()
	e.Pause()
	if e.Generation() != 2 || e.PendingSteps() != 3 {
		t.Fatalf("generation=%d pending=%d, want 2/3", e.Generation(), e.PendingSteps())
	}
	if e.Snapshot().PendingSteps != 3 || !e.Snapshot().Paused {
		t.Fatal("snapshot does not reflect pause state")
	}
}

func TestStepWhilePausedAdvancesOnce(t *testing.T) {
	q := &Queue{}
	e, frames := newTestEngine(t, 8, 8, "blinker", q)
	e.Pause()
	e.Step(3)
	if e.Generation() != 1 || e.PendingSteps() != 2 || q.Len() != 0 {
		t.Fatalf("generation=%d pending=%d queued=%d, want 1/2/0", e.Generation(), e.PendingSteps(), q.Len())
	}
	if frames.len() != 1 {
		t.Fatalf("frames=%d, want 1", frames.len())
	}
}

func TestResumeWithoutPendingIsNoop(t *testing.T) {
	q := &Queue{}
	e, frames := newTestEngine(t, 8, 8, "blinker", q)
	e.Pause()
	if err := e.Resume(); err != nil {
		t.Fatal(err)
	}
	if e.Paused() || frames.len() != 0 || e.Generation() != 0 {
		t.Fatalf("paused=%v frames=%d generation=%d", e.Paused(), frames.len(), e.Generation())
	}
}

func TestTogglePause(t *testing.T) {
	q := &Queue{}
	e, _ := newTestEngine(t, 8, 8, "blinker", q)
	e.Step(4)
	if err := e.TogglePause(); err != nil || !e.Paused() {
		t.Fatalf("first toggle: paused=%v err=%v", e.Paused(), err)
	}
	if err := e.TogglePause(); err != nil || e.Paused() {
		t.Fatalf("second toggle: paused=%v err=%v", e.Paused(), err)
	}
	q.Drain()
	if e.Generation() != 4 {
		t.Fatalf("generation=%d, want 4", e.Generation())
	}
}

func TestTogglesWhilePausedAreVisible(t *testing.T) {
	q := &Queue{}
	e, _ := newTestEngine(t, 8, 8, "blank", q)
	e.Step(3)
	e.Pause()
	for _, c := range Blinker.Cells {
		if err := e.ToggleCell(c.Row, c.Col); err != nil {
			t.Fatal(err)
		}
	}
	e.Resume()
	q.Drain()
	want := patternGrid(t, 8, 8, Blinker.Cells)
	if got := e.Snapshot().Grid; !got.Equal(want) {
		t.Fatalf("grid after resume:\n%s\nwant:\n%s", got, want)
	}
}

func TestNewStepMergesActiveChain(t *testing.T) {
	q := &Queue{}
	e, _ := newTestEngine(t, 8, 8, "blinker", q)
	e.Step(3)
	e.Step(2)
	if e.Generation() != 2 {
		t.Fatalf("generation=%d, want 2", e.Generation())
	}
	q.Drain()
	if e.Generation() != 5 {
		t.Fatalf("generation=%d, want 5", e.Generation())
	}
}

func TestToggleCell(t *testing.T) {
	e, frames := newTestEngine(t, 8, 8, "blank", &Queue{})
	if err := e.ToggleCell(2, 5); err != nil {
		t.Fatal(err)
	}
	if frames.len() != 1 || !e.Snapshot().Grid.Get(2, 5) {
		t.Fatal("toggle not applied or not rendered")
	}
	if e.Generation() != 0 {
		t.Fatal("toggle advanced a generation")
	}
	before := e.Snapshot().Grid
	if err := e.ToggleCell(8, 0); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("err=%v, want ErrOutOfBounds", err)
	}
	if frames.len() != 1 || !e.Snapshot().Grid.Equal(before) {
		t.Fatal("rejected toggle changed state")
	}
}

func TestResetKeepsPauseState(t *testing.T) {
	q := &Queue{}
	e, frames := newTestEngine(t, 8, 8, "random", q)
	e.Step(6)
	e.Pause()
	if err := e.Reset(SeedBlinker); err != nil {
		t.Fatal(err)
	}
	if !e.Paused() || e.PendingSteps() != 5 {
		t.Fatalf("paused=%v pending=%d, want true/5", e.Paused(), e.PendingSteps())
	}
	if e.Generation() != 0 {
		t.Fatalf("generation=%d, want 0", e.Generation())
	}
	if got, want := e.Snapshot().Grid, patternGrid(t, 8, 8, Blinker.Cells); !got.Equal(want) {
		t.Fatalf("reset grid:\n%s\nwant:\n%s", got, want)
	}
	if frames.len() != 2 {
		t.Fatalf("frames=%d, want 2", frames.len())
	}

	if err := e.Reset(SeedBlankGrid); err != nil {
		t.Fatal(err)
	}
	if e.Snapshot().Grid.Population() != 0 {
		t.Fatal("blank reset left live cells")
	}
	if err := e.Reset(Seed{Kind: SeedPattern, Pattern: "nope"}); !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("err=%v, want ErrUnknownPattern", err)
	}
}

func TestAddPatternIsAdditive(t *testing.T) {
	e, _ := newTestEngine(t, 10, 10, "glider", &Queue{})
	if err := e.AddPattern(Blinker); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Grid.Population(); got != 8 {
		t.Fatalf("population=%d, want 8", got)
	}
}

func TestResize(t *testing.T) {
	e, frames := newTestEngine(t, 8, 8, "blinker", &Queue{})
	if err := e.Resize(10, 12); err != nil {
		t.Fatal(err)
	}
	snap := e.Snapshot()
	if snap.Grid.Height() != 10 || snap.Grid.Width() != 12 || snap.Grid.Population() != 0 {
		t.Fatalf("resized grid %dx%d pop=%d", snap.Grid.Height(), snap.Grid.Width(), snap.Grid.Population())
	}
	if frames.len() != 1 {
		t.Fatalf("frames=%d, want 1", frames.len())
	}
	if err := e.Resize(0, 3); !errors.Is(err, grid.ErrInvalidDimension) {
		t.Fatalf("err=%v, want ErrInvalidDimension", err)
	}
	if s := e.Size(); s.H != 10 || s.W != 12 {
		t.Fatalf("size changed after rejected resize: %+v", s)
	}
}

func TestSetStepDuration(t *testing.T) {
	e, _ := newTestEngine(t, 8, 8, "blank", nil)
	if err := e.SetStepDuration(0); !errors.Is(err, ErrInvalidStepDuration) {
		t.Fatalf("err=%v, want ErrInvalidStepDuration", err)
	}
	if err := e.SetStepDuration(250 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if e.StepDuration() != 250*time.Millisecond {
		t.Fatalf("duration=%v", e.StepDuration())
	}
}

func TestSchedulerReceivesStepDuration(t *testing.T) {
	var delays []time.Duration
	q := &Queue{}
	sched := SchedulerFunc(func(d time.Duration, fn func()) {
		delays = append(delays, d)
		q.Schedule(d, fn)
	})
	e, _ := newTestEngine(t, 8, 8, "blinker", sched)
	e.SetStepDuration(30 * time.Millisecond)
	e.Step(3)
	q.Drain()
	if len(delays) != 2 {
		t.Fatalf("scheduled %d continuations, want 2", len(delays))
	}
	for _, d := range delays {
		if d != 30*time.Millisecond {
			t.Fatalf("delay=%v, want 30ms", d)
		}
	}
}

func TestTimerSchedulerRunsChain(t *testing.T) {
	done := make(chan struct{})
	var once sync.Once
	cfg := DefaultConfig()
	cfg.Height, cfg.Width = 8, 8
	cfg.InitialPattern = "blinker"
	cfg.StepDurationMs = 1
	e, err := New(cfg, TimerScheduler{}, func(f Frame) {
		if f.Generation == 10 {
			once.Do(func() { close(done) })
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Step(10)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("chain stalled at generation %d", e.Generation())
	}
	if got, want := e.Snapshot().Grid, patternGrid(t, 8, 8, Blinker.Cells); !got.Equal(want) {
		t.Fatalf("grid after 10 steps:\n%s\nwant:\n%s", got, want)
	}
}

func TestTimerSchedulerPauseStopsChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height, cfg.Width = 8, 8
	cfg.InitialPattern = "blinker"
	cfg.StepDurationMs = 1
	e, err := New(cfg, TimerScheduler{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.Step(1000)
	time.Sleep(5 * time.Millisecond)
	e.Pause()
	gen := e.Generation()
	time.Sleep(20 * time.Millisecond)
	if e.Generation() != gen {
		t.Fatalf("generation moved from %d to %d after pause", gen, e.Generation())
	}
	if gen+e.PendingSteps() != 1000 {
		t.Fatalf("generation %d + pending %d != 1000", gen, e.PendingSteps())
	}
}

func TestSetDensity(t *testing.T) {
	e, _ := newTestEngine(t, 6, 6, "blank", nil)
	if err := e.SetDensity(-0.1); !errors.Is(err, grid.ErrInvalidProbability) {
		t.Fatalf("err=%v, want ErrInvalidProbability", err)
	}
	if err := e.SetDensity(1); err != nil {
		t.Fatal(err)
	}
	e.Reset(SeedRandomGrid)
	if got := e.Snapshot().Grid.Population(); got != 36 {
		t.Fatalf("population=%d, want 36 at density 1", got)
	}
}
