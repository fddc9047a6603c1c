package game

// Board holds the grid dimensions. Obstacles are carried for renderers and
// game data round-trips but do not affect move legality.
type Board struct {
	Width     int
	Height    int
	obstacles map[Cell]struct{}
}

// NewBoard returns a width x height board. Obstacles must lie on the board.
func NewBoard(width, height int, obstacles ...Cell) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, configErr("board", "dimensions must be positive, got %dx%d", width, height)
	}
	b := Board{Width: width, Height: height, obstacles: make(map[Cell]struct{}, len(obstacles))}
	for _, o := range obstacles {
		if !b.InBounds(o) {
			return Board{}, configErr("board", "obstacle (%d, %d) is off the board", o.Row, o.Col)
		}
		b.obstacles[o] = struct{}{}
	}
	return b, nil
}

// InBounds reports whether c lies in [0,Height) x [0,Width).
func (b Board) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < b.Height && c.Col >= 0 && c.Col < b.Width
}

// IsObstacle reports whether c was declared an obstacle.
func (b Board) IsObstacle(c Cell) bool {
	_, ok := b.obstacles[c]
	return ok
}

// Obstacles returns the declared obstacles in row-major order.
func (b Board) Obstacles() []Cell {
	out := make([]Cell, 0, len(b.obstacles))
	for c := range b.obstacles {
		out = append(out, c)
	}
	return sortCells(out)
}
