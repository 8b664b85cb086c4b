package utils

import "github.com/pkg/errors"

// Error kinds shared by the board, the simulator and the controller.
// Wrapped errors keep their kind, so callers match with errors.Is.
var (
	// ErrOutOfRange means a coordinate lies outside the board.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidConfig means a dimension, probability or interval is unusable.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrAlreadyRunning means a run loop is already active on the simulator.
	ErrAlreadyRunning = errors.New("simulation already running")
)
