package model

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	// ansiClear moves the cursor home and clears the screen
	ansiClear = "\033[H\033[2J"
)

// TerminalRenderer draws boards as text frames
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the board, two columns per cell
func (r *TerminalRenderer) Display(b *Board) error {
	w := bufio.NewWriter(r.Out)
	for y := range b.rows {
		for x := range b.cols {
			if b.cells[y][x] {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "[Display] failed to write frame")
	}
	return nil
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	if _, err := io.WriteString(r.Out, ansiClear); err != nil {
		return errors.Wrap(err, "[Clear] failed to clear terminal")
	}
	return nil
}
