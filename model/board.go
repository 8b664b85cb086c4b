package model

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifeboard/utils"
)

// neighborOffsets lists the 8 surrounding cells as (dy, dx).
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1},
	{1, 1}, {1, 0}, {1, -1}, {0, -1},
}

// Cell is a grid coordinate
type Cell struct {
	X, Y int
}

// Board is a fixed-size grid of cell states. Cells are stored row-major as
// cells[y][x]; the dimensions never change after construction.
type Board struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewBoard creates an empty board with the specified dimensions
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(utils.ErrInvalidConfig, "[NewBoard] non-positive dimensions: %dx%d", rows, cols)
	}
	return newBoard(rows, cols), nil
}

func newBoard(rows, cols int) *Board {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// Rows returns the height of the board
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the width of the board
func (b *Board) Cols() int {
	return b.cols
}

// InBounds reports whether (x, y) addresses a cell of the board
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.cols && y >= 0 && y < b.rows
}

func (b *Board) checkBounds(op string, x, y int) error {
	if !b.InBounds(x, y) {
		return errors.Wrapf(utils.ErrOutOfRange, "[%s] (%d,%d) outside %dx%d board", op, x, y, b.cols, b.rows)
	}
	return nil
}

// Get returns the state of a cell
func (b *Board) Get(x, y int) (bool, error) {
	if err := b.checkBounds("Get", x, y); err != nil {
		return false, err
	}
	return b.cells[y][x], nil
}

// Set sets a cell to alive (true) or dead (false)
func (b *Board) Set(x, y int, alive bool) error {
	if err := b.checkBounds("Set", x, y); err != nil {
		return err
	}
	b.cells[y][x] = alive
	return nil
}

// Toggle flips a single cell
func (b *Board) Toggle(x, y int) error {
	if err := b.checkBounds("Toggle", x, y); err != nil {
		return err
	}
	b.cells[y][x] = !b.cells[y][x]
	return nil
}

// CountLiveNeighbors counts the live cells among the 8 neighbors of (x, y).
// Neighbors beyond the edge count as dead; the board does not wrap.
func (b *Board) CountLiveNeighbors(x, y int) (int, error) {
	if err := b.checkBounds("CountLiveNeighbors", x, y); err != nil {
		return 0, err
	}
	return b.Neighbors(x, y), nil
}

// Neighbors is CountLiveNeighbors without the bounds check on (x, y) itself.
// Callers iterating the board's own coordinates use it in the hot loop.
func (b *Board) Neighbors(x, y int) int {
	count := 0
	for _, d := range neighborOffsets {
		ny, nx := y+d[0], x+d[1]
		if nx >= 0 && nx < b.cols && ny >= 0 && ny < b.rows && b.cells[ny][nx] {
			count++
		}
	}
	return count
}

// Alive is Get without the error, for coordinates known to be in bounds
func (b *Board) Alive(x, y int) bool {
	return b.cells[y][x]
}

// Put is Set without the bounds check, for coordinates known to be in bounds
func (b *Board) Put(x, y int, alive bool) {
	b.cells[y][x] = alive
}

// LiveCells lists live coordinates in row-major order (y outer, x inner)
func (b *Board) LiveCells() []Cell {
	var cells []Cell
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// CountLiving returns the total number of living cells
func (b *Board) CountLiving() (count int) {
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] {
				count++
			}
		}
	}
	return
}

// Randomize sets every cell live with the given probability, drawing from src
func (b *Board) Randomize(src *rand.Rand, probability float64) error {
	if probability < 0 || probability > 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "[Randomize] probability outside [0,1]: %v", probability)
	}
	for y := range b.rows {
		for x := range b.cols {
			b.cells[y][x] = src.Float64() < probability
		}
	}
	return nil
}

// Clear clears all cells
func (b *Board) Clear() {
	for y := range b.rows {
		clear(b.cells[y])
	}
}

// WithEmpty returns a fresh empty board of the same dimensions
func (b *Board) WithEmpty() *Board {
	return newBoard(b.rows, b.cols)
}

// Clone returns a deep copy
func (b *Board) Clone() *Board {
	c := newBoard(b.rows, b.cols)
	for y := range b.rows {
		copy(c.cells[y], b.cells[y])
	}
	return c
}

// Equal reports whether both boards have the same dimensions and cell states
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] != other.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// Hash returns an MD5 hash of the current board state
func (b *Board) Hash() string {
	h := md5.New()
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String draws the board with '#' for live and '.' for dead cells
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols + 1))
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
