package model

// historySize is how many recent board hashes are kept for cycle detection
const historySize = 5

// History remembers recent board hashes to spot still lifes and short cycles
type History struct {
	hashes []string
}

// Update adds the board's hash to history and maintains size
func (h *History) Update(b *Board) {
	h.hashes = append(h.hashes, b.Hash())

	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant checks if the board repeats one of the last three recorded
// states, which covers still lifes and period 2 and 3 oscillators.
func (h *History) IsStagnant(b *Board) bool {
	if len(h.hashes) < 3 {
		return false
	}

	current := b.Hash()
	for i := 1; i <= 3; i++ {
		if h.hashes[len(h.hashes)-i] == current {
			return true
		}
	}
	return false
}

// Reset forgets all recorded states
func (h *History) Reset() {
	h.hashes = nil
}
