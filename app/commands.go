package app

// Command is a user control dispatched to Controller.Dispatch
type Command interface {
	command()
}

// ToggleCell flips the cell at grid coordinates (X, Y)
type ToggleCell struct {
	X, Y int
}

// SetInterval changes the wait between generations, in milliseconds
type SetInterval struct {
	Ms int
}

// Run starts the run loop
type Run struct{}

// Stop ends the run loop
type Stop struct{}

// Step advances a single generation and leaves the loop stopped
type Step struct{}

// Randomize refills the board at the configured probability
type Randomize struct{}

// Clear empties the board and resets the generation counter
type Clear struct{}

// ToggleTheme switches between the light and dark themes
type ToggleTheme struct{}

func (ToggleCell) command()  {}
func (SetInterval) command() {}
func (Run) command()         {}
func (Stop) command()        {}
func (Step) command()        {}
func (Randomize) command()   {}
func (Clear) command()       {}
func (ToggleTheme) command() {}
