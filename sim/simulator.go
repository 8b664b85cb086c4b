package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/utils"
)

// State is the run-loop state of a Simulator
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// IntervalFunc returns the wait before the next generation. It is called
// once per iteration, so changes apply from the next tick on.
type IntervalFunc func() time.Duration

// GenerationFunc receives a snapshot of every generation produced by Run.
type GenerationFunc func(board *model.Board)

// Option configures a Simulator
type Option func(*Simulator)

// WithLogger sets the logger used for run-loop diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// Simulator owns the current board and drives it through generations.
//
// Every read and mutation of the board, including the step itself, happens
// under mu. A toggle issued while a run is active therefore lands on the board
// the next step will read, never on one a step is already computing from.
type Simulator struct {
	mu     sync.Mutex
	board  *model.Board
	active *Handle // nil when idle
	last   *Handle // most recently started run, possibly still winding down
	logger *slog.Logger
}

// New creates a Simulator starting from board. The simulator keeps board;
// callers should not mutate it afterwards.
func New(board *model.Board, opts ...Option) *Simulator {
	s := &Simulator{
		board:  board,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Board returns a copy of the current board
func (s *Simulator) Board() *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// LiveCells lists the current live cells in row-major order
func (s *Simulator) LiveCells() []model.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.LiveCells()
}

// Toggle flips one cell of the current board
func (s *Simulator) Toggle(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Toggle(x, y)
}

// Set sets one cell of the current board
func (s *Simulator) Set(x, y int, alive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Set(x, y, alive)
}

// Randomize refills the current board from src
func (s *Simulator) Randomize(src *rand.Rand, probability float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Randomize(src, probability)
}

// Clear replaces the current board with an empty one
func (s *Simulator) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = s.board.WithEmpty()
}

// Replace swaps in a copy of board, which must match the current dimensions
func (s *Simulator) Replace(board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if board.Rows() != s.board.Rows() || board.Cols() != s.board.Cols() {
		return errors.Wrapf(utils.ErrInvalidConfig, "[Replace] board %dx%d does not match %dx%d",
			board.Cols(), board.Rows(), s.board.Cols(), s.board.Rows())
	}
	s.board = board.Clone()
	return nil
}

// State reports whether a run loop is active
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return Running
	}
	return Idle
}

// Running is shorthand for State() == Running
func (s *Simulator) Running() bool {
	return s.State() == Running
}

// advance replaces the current board with its next generation and returns a
// snapshot of it
func (s *Simulator) advance() *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = Step(s.board)
	return s.board.Clone()
}

// Run starts the run loop: one generation immediately, then one more after
// every interval() until the handle is stopped or ctx is done. A negative
// interval is treated as zero. onGeneration may be nil.
func (s *Simulator) Run(ctx context.Context, interval IntervalFunc, onGeneration GenerationFunc) (*Handle, error) {
	if interval == nil {
		return nil, errors.Wrap(utils.ErrInvalidConfig, "[Run] nil interval provider")
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, errors.Wrap(utils.ErrAlreadyRunning, "[Run] stop the active run first")
	}
	h := newHandle(ctx, s)
	prev := s.last
	s.active, s.last = h, h
	s.mu.Unlock()

	s.logger.Debug("run loop started")
	go s.loop(h, prev, interval, onGeneration)
	return h, nil
}

func (s *Simulator) loop(h, prev *Handle, interval IntervalFunc, onGeneration GenerationFunc) {
	defer close(h.done)
	defer h.Stop()

	// A stopped run may still be delivering its last generation.
	if prev != nil {
		select {
		case <-prev.done:
		case <-h.ctx.Done():
			return
		}
	}

	for {
		if h.ctx.Err() != nil {
			return
		}

		board := s.advance()
		if onGeneration != nil {
			onGeneration(board)
		}

		wait := max(interval(), 0)
		timer := time.NewTimer(wait)
		select {
		case <-h.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Stop ends the active run, if any. It never blocks and may be called from
// inside a GenerationFunc.
func (s *Simulator) Stop() {
	s.mu.Lock()
	h := s.active
	s.mu.Unlock()
	h.Stop()
}

// StepOnce stops any active run and advances exactly one generation.
func (s *Simulator) StepOnce() *model.Board {
	s.Stop()
	return s.advance()
}

// release marks h as no longer active
func (s *Simulator) release(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == h {
		s.active = nil
		s.logger.Debug("run loop stopped")
	}
}
