package rules

/*
ApplyConwayRules decides whether a cell is alive in the next generation.

A live cell survives with 2 or 3 live neighbors and dies otherwise.
A dead cell is born with exactly 3 live neighbors.
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}
