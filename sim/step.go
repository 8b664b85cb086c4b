package sim

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/lifeboard/model"
	"github.com/sheikhrachel/lifeboard/rules"
	"github.com/sheikhrachel/lifeboard/utils"
)

// Step computes the next generation of current into a new board.
// current is only read.
func Step(current *model.Board) *model.Board {
	next := current.WithEmpty()
	fillNext(next, current)
	return next
}

// StepInto writes the next generation of current into dst, which must have
// the same dimensions and must not be current itself.
func StepInto(dst, current *model.Board) error {
	if current.Rows() == 0 || current.Cols() == 0 {
		return errors.Wrapf(utils.ErrInvalidConfig, "[StepInto] empty %dx%d board", current.Cols(), current.Rows())
	}
	if dst.Rows() != current.Rows() || dst.Cols() != current.Cols() {
		return errors.Wrapf(utils.ErrInvalidConfig, "[StepInto] dst %dx%d does not match board %dx%d",
			dst.Cols(), dst.Rows(), current.Cols(), current.Rows())
	}
	if dst == current {
		return errors.Wrap(utils.ErrInvalidConfig, "[StepInto] dst aliases the input board")
	}
	fillNext(dst, current)
	return nil
}

// fillNext splits rows across workers; every worker writes a disjoint band of
// dst. dst and current must differ and share dimensions.
func fillNext(dst, current *model.Board) {
	var (
		eg            errgroup.Group
		height        = current.Rows()
		width         = current.Cols()
		numWorkers    = max(1, min(runtime.NumCPU(), height))
		rowsPerWorker = (height + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, height)
		)
		if startRow >= height {
			break
		}

		eg.Go(func() error {
			for y := startRow; y < endRow; y++ {
				for x := range width {
					dst.Put(x, y, rules.ApplyConwayRules(current.Neighbors(x, y), current.Alive(x, y)))
				}
			}
			return nil
		})
	}

	// Workers never fail; Wait only joins them.
	eg.Wait()
}
