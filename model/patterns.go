package model

import (
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/lifeboard/utils"
)

// Pattern is a small live-cell template, rows of '#' (live) and '.' (dead)
type Pattern struct {
	Name string
	Rows []string
}

var patterns = map[string]Pattern{
	"block":      {Name: "block", Rows: []string{"##", "##"}},
	"blinker":    {Name: "blinker", Rows: []string{"###"}},
	"glider":     {Name: "glider", Rows: []string{".#.", "..#", "###"}},
	"toad":       {Name: "toad", Rows: []string{".###", "###."}},
	"beacon":     {Name: "beacon", Rows: []string{"##..", "##..", "..##", "..##"}},
	"rpentomino": {Name: "rpentomino", Rows: []string{".##", "##.", ".#."}},
}

// LookupPattern returns a built-in pattern by name
func LookupPattern(name string) (Pattern, bool) {
	p, ok := patterns[name]
	return p, ok
}

// PatternNames lists the built-in patterns alphabetically
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Width returns the widest row of the pattern
func (p Pattern) Width() int {
	w := 0
	for _, row := range p.Rows {
		w = max(w, len(row))
	}
	return w
}

// Height returns the number of rows in the pattern
func (p Pattern) Height() int {
	return len(p.Rows)
}

// Place stamps the pattern with its top-left corner at (startX, startY).
// Only live cells are written. The whole pattern must fit on the board.
func (b *Board) Place(p Pattern, startX, startY int) error {
	if !b.InBounds(startX, startY) || !b.InBounds(startX+p.Width()-1, startY+p.Height()-1) {
		return errors.Wrapf(utils.ErrOutOfRange, "[Place] %s at (%d,%d) does not fit %dx%d board",
			p.Name, startX, startY, b.cols, b.rows)
	}
	for y, row := range p.Rows {
		for x, c := range row {
			if c == '#' {
				b.cells[startY+y][startX+x] = true
			}
		}
	}
	return nil
}

// PlaceCentered stamps the pattern in the middle of the board
func (b *Board) PlaceCentered(p Pattern) error {
	return b.Place(p, (b.cols-p.Width())/2, (b.rows-p.Height())/2)
}

// InjectRandom brings count randomly chosen cells to life. Cells already
// alive may be picked again.
func (b *Board) InjectRandom(src *rand.Rand, count int) {
	if b.rows == 0 || b.cols == 0 {
		return
	}
	for range count {
		b.cells[src.IntN(b.rows)][src.IntN(b.cols)] = true
	}
}

// Reseed clears the board, sprinkles live cells at density and stamps gliders
// and blinkers where the board has room for them
func (b *Board) Reseed(src *rand.Rand, density float64) error {
	if density < 0 || density > 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "[Reseed] density outside [0,1]: %v", density)
	}
	b.Clear()
	for y := range b.rows {
		for x := range b.cols {
			if src.Float64() < density {
				b.cells[y][x] = true
			}
		}
	}

	if b.cols < 10 || b.rows < 10 {
		return nil
	}
	type stamp struct {
		p    Pattern
		x, y int
	}
	glider, blinker := patterns["glider"], patterns["blinker"]
	stamps := []stamp{
		{glider, 5, 5},
		{blinker, b.cols / 4, b.rows / 4},
	}
	if b.cols >= 20 && b.rows >= 15 {
		stamps = append(stamps, stamp{glider, b.cols - 8, 5})
	}
	if b.cols >= 30 {
		stamps = append(stamps, stamp{blinker, 3 * b.cols / 4, 3 * b.rows / 4})
	}
	for _, st := range stamps {
		if err := b.Place(st.p, st.x, st.y); err != nil {
			return err
		}
	}
	return nil
}
