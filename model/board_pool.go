package model

import "sync"

// BoardToPool returns a board to the pool for reuse
func BoardToPool(board *Board, pool *BoardPool) {
	if pool == nil || board == nil {
		return
	}

	pool.Put(board)
}

// BoardPool recycles boards of one fixed size between generations
type BoardPool struct {
	rows, cols int
	pool       sync.Pool
}

func NewBoardPool(rows, cols int) *BoardPool {
	p := &BoardPool{rows: rows, cols: cols}
	p.pool.New = func() interface{} {
		return newBoard(rows, cols)
	}
	return p
}

// Get retrieves an empty board from the pool
func (p *BoardPool) Get() *Board {
	return p.pool.Get().(*Board)
}

// Put clears the board and returns it to the pool. Boards of another size
// are dropped.
func (p *BoardPool) Put(b *Board) {
	if b.rows != p.rows || b.cols != p.cols {
		return
	}
	b.Clear()
	p.pool.Put(b)
}
