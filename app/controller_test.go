package app

import (
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/utils"
)

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.TotalWidth, cfg.TotalHeight, cfg.CellSize = 100, 50, 10 // 5 rows x 10 cols
	cfg.IntervalMs = 1
	cfg.Seed = 99
	return cfg
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := New(testConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func mustDispatch(t *testing.T, c *Controller, cmd Command) State {
	t.Helper()
	st, err := c.Dispatch(cmd)
	if err != nil {
		t.Fatalf("Dispatch(%T): %v", cmd, err)
	}
	return st
}

func TestNewState(t *testing.T) {
	st := newController(t).State()

	if st.Generation != FirstGeneration {
		t.Errorf("generation = %d, want %d", st.Generation, FirstGeneration)
	}
	if st.Rows != 5 || st.Cols != 10 {
		t.Errorf("board %dx%d rows x cols, want 5x10", st.Rows, st.Cols)
	}
	if st.Running || st.IntervalMs != 1 || st.Theme != utils.ThemeLight || len(st.LiveCells) != 0 {
		t.Errorf("unexpected initial state %+v", st)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CellSize = 0
	if _, err := New(cfg); !errors.Is(err, utils.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestToggleCell(t *testing.T) {
	c := newController(t)

	st := mustDispatch(t, c, ToggleCell{X: 9, Y: 4})
	if len(st.LiveCells) != 1 || st.LiveCells[0] != (model.Cell{X: 9, Y: 4}) {
		t.Errorf("LiveCells = %v after toggle", st.LiveCells)
	}

	st = mustDispatch(t, c, ToggleCell{X: 9, Y: 4})
	if len(st.LiveCells) != 0 {
		t.Errorf("LiveCells = %v after second toggle", st.LiveCells)
	}
}

func TestToggleCellOutOfRange(t *testing.T) {
	c := newController(t)
	mustDispatch(t, c, ToggleCell{X: 0, Y: 0})

	// The inclusive upper bound is a valid index nowhere.
	for _, cmd := range []ToggleCell{{X: 10, Y: 0}, {X: 0, Y: 5}, {X: -1, Y: 0}} {
		st, err := c.Dispatch(cmd)
		if !errors.Is(err, utils.ErrOutOfRange) {
			t.Errorf("%+v: expected ErrOutOfRange, got %v", cmd, err)
		}
		if len(st.LiveCells) != 1 {
			t.Errorf("%+v: rejected toggle changed the board: %v", cmd, st.LiveCells)
		}
	}
}

func TestSetInterval(t *testing.T) {
	c := newController(t)

	if st := mustDispatch(t, c, SetInterval{Ms: 250}); st.IntervalMs != 250 {
		t.Errorf("IntervalMs = %d, want 250", st.IntervalMs)
	}

	for _, ms := range []int{0, -5} {
		st, err := c.Dispatch(SetInterval{Ms: ms})
		if !errors.Is(err, utils.ErrInvalidConfig) {
			t.Errorf("%d ms: expected ErrInvalidConfig, got %v", ms, err)
		}
		if st.IntervalMs != 250 {
			t.Errorf("%d ms: interval changed to %d", ms, st.IntervalMs)
		}
	}
}

func TestStepCountsGenerations(t *testing.T) {
	c := newController(t)
	for _, x := range []int{1, 2, 3} {
		mustDispatch(t, c, ToggleCell{X: x, Y: 2})
	}

	st := mustDispatch(t, c, Step{})
	if st.Generation != 2 || st.Running {
		t.Errorf("after step: generation %d running %v", st.Generation, st.Running)
	}
	want := []model.Cell{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}
	if len(st.LiveCells) != 3 || st.LiveCells[0] != want[0] || st.LiveCells[2] != want[2] {
		t.Errorf("LiveCells = %v, want %v", st.LiveCells, want)
	}

	if st = mustDispatch(t, c, Step{}); st.Generation != 3 {
		t.Errorf("generation = %d, want 3", st.Generation)
	}
}

func TestClearResetsGeneration(t *testing.T) {
	c := newController(t)
	mustDispatch(t, c, ToggleCell{X: 1, Y: 1})
	mustDispatch(t, c, Step{})
	mustDispatch(t, c, Step{})

	st := mustDispatch(t, c, Clear{})
	if st.Generation != FirstGeneration || len(st.LiveCells) != 0 {
		t.Errorf("after clear: generation %d, %d live cells", st.Generation, len(st.LiveCells))
	}
}

func TestRandomize(t *testing.T) {
	cfg := testConfig()
	cfg.Probability = 1
	c, err := New(cfg, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	mustDispatch(t, c, Step{})
	st := mustDispatch(t, c, Randomize{})
	if len(st.LiveCells) != 50 {
		t.Errorf("%d live cells, want 50", len(st.LiveCells))
	}
	if st.Generation != 2 {
		t.Errorf("randomize changed generation to %d", st.Generation)
	}
}

func TestRandomizeSeeded(t *testing.T) {
	a := newController(t)
	b := newController(t)

	sa := mustDispatch(t, a, Randomize{})
	sb := mustDispatch(t, b, Randomize{})
	if !a.Board().Equal(b.Board()) || len(sa.LiveCells) != len(sb.LiveCells) {
		t.Error("controllers with the same seed randomized differently")
	}
}

func TestToggleTheme(t *testing.T) {
	c := newController(t)

	if st := mustDispatch(t, c, ToggleTheme{}); st.Theme != utils.ThemeDark {
		t.Errorf("theme = %q, want dark", st.Theme)
	}
	if st := mustDispatch(t, c, ToggleTheme{}); st.Theme != utils.ThemeLight {
		t.Errorf("theme = %q, want light", st.Theme)
	}
}

func TestWithBoard(t *testing.T) {
	board, err := model.NewBoard(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	_ = board.Set(3, 2, true)

	st := newController(t, WithBoard(board)).State()
	if st.Rows != 3 || st.Cols != 4 || len(st.LiveCells) != 1 {
		t.Errorf("state %+v does not reflect the given board", st)
	}
}

func TestRunAndStop(t *testing.T) {
	g := NewWithT(t)

	var notified atomic.Int32
	c := newController(t, WithListener(func(st State) {
		notified.Add(1)
	}))
	for _, x := range []int{1, 2, 3} {
		mustDispatch(t, c, ToggleCell{X: x, Y: 2})
	}

	st := mustDispatch(t, c, Run{})
	g.Expect(st.Running).To(BeTrue())

	// A second Run while running is a no-op.
	_, err := c.Dispatch(Run{})
	g.Expect(err).NotTo(HaveOccurred())

	g.Eventually(func() int { return c.State().Generation }).Should(BeNumerically(">=", 4))
	g.Eventually(notified.Load).Should(BeNumerically(">=", int32(3)))

	st = mustDispatch(t, c, Stop{})
	g.Expect(st.Running).To(BeFalse())

	// At most the generation in flight at Stop still lands.
	stopped := st.Generation
	g.Consistently(func() int { return c.State().Generation }, 50*time.Millisecond).
		Should(BeNumerically("<=", stopped+1))

	// Stop again is harmless.
	_, err = c.Dispatch(Stop{})
	g.Expect(err).NotTo(HaveOccurred())
}

func TestListenerSeesEveryGeneration(t *testing.T) {
	g := NewWithT(t)

	gens := make(chan int, 1024)
	c := newController(t, WithListener(func(st State) {
		select {
		case gens <- st.Generation:
		default:
		}
	}))

	mustDispatch(t, c, Run{})
	var got []int
	g.Eventually(func() int {
		for {
			select {
			case n := <-gens:
				got = append(got, n)
			default:
				return len(got)
			}
		}
	}).Should(BeNumerically(">=", 3))
	mustDispatch(t, c, Stop{})

	for i, n := range got {
		g.Expect(n).To(Equal(FirstGeneration+1+i), "generation %d out of order in %v", i, got)
	}
}

func TestSetIntervalWhileRunning(t *testing.T) {
	g := NewWithT(t)
	c := newController(t)

	mustDispatch(t, c, Run{})
	g.Eventually(func() int { return c.State().Generation }).Should(BeNumerically(">=", 3))

	// A long interval takes effect from the next wait on.
	mustDispatch(t, c, SetInterval{Ms: 60_000})
	settled := c.State().Generation
	g.Consistently(func() int { return c.State().Generation }, 50*time.Millisecond).
		Should(BeNumerically("<=", settled+1))
}

func TestClearWhileRunning(t *testing.T) {
	g := NewWithT(t)
	c := newController(t)

	mustDispatch(t, c, Run{})
	g.Eventually(func() int { return c.State().Generation }).Should(BeNumerically(">=", 3))

	st := mustDispatch(t, c, Clear{})
	g.Expect(st.Running).To(BeTrue())
	g.Expect(st.LiveCells).To(BeEmpty())
}

func TestStepWhileRunningStops(t *testing.T) {
	g := NewWithT(t)
	c := newController(t)

	mustDispatch(t, c, Run{})
	st := mustDispatch(t, c, Step{})
	g.Expect(st.Running).To(BeFalse())
}

func TestControllersAreIndependent(t *testing.T) {
	a := newController(t)
	b := newController(t)

	mustDispatch(t, a, Step{})
	mustDispatch(t, a, Step{})
	mustDispatch(t, a, ToggleTheme{})

	st := b.State()
	if st.Generation != FirstGeneration || st.Theme != utils.ThemeLight {
		t.Errorf("second controller affected by the first: %+v", st)
	}
}

type bogus struct{ Command }

func TestUnknownCommand(t *testing.T) {
	c := newController(t)
	if _, err := c.Dispatch(bogus{}); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestStepWhileGenerationInFlight(t *testing.T) {
	g := NewWithT(t)

	var (
		mu    sync.Mutex
		frame *State
	)
	c := newController(t, WithListener(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		frame = &st
	}))
	for _, x := range []int{1, 2, 3} {
		mustDispatch(t, c, ToggleCell{X: x, Y: 2})
	}
	vertical := []model.Cell{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}
	horizontal := []model.Cell{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}

	// Holding mu keeps the first generation waiting in the listener path
	// while Step replaces the board underneath it.
	c.mu.Lock()
	g.Expect(c.apply(Run{})).To(Succeed())
	g.Eventually(func() []model.Cell { return c.sim.LiveCells() }).Should(Equal(vertical))
	g.Expect(c.apply(Step{})).To(Succeed())
	c.mu.Unlock()

	g.Eventually(func() *State {
		mu.Lock()
		defer mu.Unlock()
		return frame
	}).ShouldNot(BeNil())

	st := c.State()
	g.Expect(st.Generation).To(Equal(3))
	g.Expect(st.Running).To(BeFalse())
	g.Expect(st.LiveCells).To(Equal(horizontal))

	mu.Lock()
	defer mu.Unlock()
	g.Expect(frame.Generation).To(Equal(st.Generation))
	g.Expect(frame.Running).To(BeFalse())
	g.Expect(frame.LiveCells).To(Equal(horizontal))
	g.Expect(frame.Seq).To(BeNumerically("<", st.Seq))
}

func TestStateSeqGrows(t *testing.T) {
	c := newController(t)

	first := c.State()
	second := mustDispatch(t, c, ToggleTheme{})
	_, err := c.Dispatch(SetInterval{Ms: 0})
	if err == nil {
		t.Fatal("expected an error for a zero interval")
	}
	third := c.State()

	if !(first.Seq < second.Seq && second.Seq < third.Seq) {
		t.Errorf("Seq not increasing: %d, %d, %d", first.Seq, second.Seq, third.Seq)
	}
}
