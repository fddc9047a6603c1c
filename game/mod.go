package game

import "golang.org/x/exp/slices"

// Cell is a board coordinate. Rows grow downwards, columns to the right.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Offset returns the cell displaced by dx columns and dy rows.
func (c Cell) Offset(dx, dy int) Cell {
	return Cell{Row: c.Row + dy, Col: c.Col + dx}
}

// Action moves one unit to a destination. It is what AI collaborators pick
// from and hand back.
type Action struct {
	UnitID string `json:"unitId"`
	From   Cell   `json:"from"`
	To     Cell   `json:"to"`
}

func compareCells(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

// sortCells orders cells row-major and drops duplicates.
func sortCells(cells []Cell) []Cell {
	slices.SortFunc(cells, compareCells)
	return slices.Compact(cells)
}
