package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/sim"
	"github.com/sheikhrachel/lifeboard/utils"
)

// FirstGeneration is the counter value of a fresh or cleared board
const FirstGeneration = 1

// State is what a presentation layer needs to draw one frame. Seq grows with
// every snapshot, so a later State always carries a larger Seq.
type State struct {
	Seq        uint64
	Running    bool
	IntervalMs int
	Generation int
	Theme      string
	Rows, Cols int
	LiveCells  []model.Cell
}

// Listener is told about every generation the run loop produces. It runs on
// the run loop goroutine.
type Listener func(State)

// Option configures a Controller
type Option func(*Controller)

// WithListener registers the generation listener
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithRand sets the random source used by Randomize
func WithRand(src *rand.Rand) Option {
	return func(c *Controller) { c.rng = src }
}

// WithBoard starts from board instead of an empty board of the configured size
func WithBoard(board *model.Board) Option {
	return func(c *Controller) { c.initial = board }
}

// WithLogger sets the logger for the controller and its simulator
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller applies commands to one simulation and owns its state,
// including the generation counter. Controllers are independent of each
// other, so several can run in one process.
type Controller struct {
	mu          sync.Mutex
	sim         *sim.Simulator
	seq         uint64
	generation  int
	theme       string
	intervalMs  atomic.Int64
	probability float64
	rng         *rand.Rand
	initial     *model.Board
	handle      *sim.Handle
	listener    Listener
	logger      *slog.Logger
}

// New builds a controller from a validated config
func New(cfg utils.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "[New] bad config")
	}

	c := &Controller{
		generation:  FirstGeneration,
		theme:       cfg.Theme,
		probability: cfg.Probability,
		logger:      slog.Default(),
	}
	c.intervalMs.Store(int64(cfg.IntervalMs))
	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		c.rng = rand.New(rand.NewPCG(uint64(seed), 0))
	}

	board := c.initial
	if board == nil {
		rows, cols := cfg.Dimensions()
		var err error
		if board, err = model.NewBoard(rows, cols); err != nil {
			return nil, errors.Wrap(err, "[New] failed to create board")
		}
	}
	c.initial = nil
	c.sim = sim.New(board, sim.WithLogger(c.logger))

	return c, nil
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Board returns a copy of the current board
func (c *Controller) Board() *model.Board {
	return c.sim.Board()
}

// snapshot must be called with mu held
func (c *Controller) snapshot() State {
	c.seq++
	board := c.sim.Board()
	return State{
		Seq:        c.seq,
		Running:    c.sim.Running(),
		IntervalMs: int(c.intervalMs.Load()),
		Generation: c.generation,
		Theme:      c.theme,
		Rows:       board.Rows(),
		Cols:       board.Cols(),
		LiveCells:  board.LiveCells(),
	}
}

// Dispatch applies one command and returns the resulting state. A rejected
// command leaves the state unchanged.
func (c *Controller) Dispatch(cmd Command) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.apply(cmd); err != nil {
		c.logger.Debug("command rejected", "command", describe(cmd), "err", err)
		return c.snapshot(), err
	}
	return c.snapshot(), nil
}

func (c *Controller) apply(cmd Command) error {
	switch cmd := cmd.(type) {
	case ToggleCell:
		return c.sim.Toggle(cmd.X, cmd.Y)
	case SetInterval:
		if cmd.Ms <= 0 {
			return errors.Wrapf(utils.ErrInvalidConfig, "[Dispatch] non-positive interval: %d", cmd.Ms)
		}
		c.intervalMs.Store(int64(cmd.Ms))
	case Run:
		if c.sim.Running() {
			return nil
		}
		h, err := c.sim.Run(context.Background(), c.interval, c.onGeneration)
		if err != nil {
			return err
		}
		c.handle = h
	case Stop:
		c.sim.Stop()
	case Step:
		c.sim.StepOnce()
		c.generation++
	case Randomize:
		return c.sim.Randomize(c.rng, c.probability)
	case Clear:
		c.sim.Clear()
		c.generation = FirstGeneration
	case ToggleTheme:
		if c.theme == utils.ThemeDark {
			c.theme = utils.ThemeLight
		} else {
			c.theme = utils.ThemeDark
		}
	default:
		return errors.Errorf("[Dispatch] unknown command %T", cmd)
	}
	return nil
}

func (c *Controller) interval() time.Duration {
	return time.Duration(c.intervalMs.Load()) * time.Millisecond
}

// onGeneration publishes the board as it is once mu is held. A Step or Clear
// dispatched while this generation waited for mu has already replaced the
// board the loop computed.
func (c *Controller) onGeneration(*model.Board) {
	c.mu.Lock()
	c.generation++
	st := c.snapshot()
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(st)
	}
}

// Close stops the run loop and waits for it to exit. It must not be called
// from a Listener.
func (c *Controller) Close() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()

	c.sim.Stop()
	if h != nil {
		h.Wait()
	}
}

func describe(cmd Command) string {
	switch cmd.(type) {
	case ToggleCell:
		return "toggle-cell"
	case SetInterval:
		return "set-interval"
	case Run:
		return "run"
	case Stop:
		return "stop"
	case Step:
		return "step"
	case Randomize:
		return "randomize"
	case Clear:
		return "clear"
	case ToggleTheme:
		return "toggle-theme"
	}
	return "unknown"
}
