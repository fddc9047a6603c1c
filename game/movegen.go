package game

// LegalMoves returns the cells u may move to, row-major and without
// duplicates. Captures are included; removing the captured unit is left to
// the ActionResolver whatever the rule kind.
func LegalMoves(b Board, t UnitType, u *Unit, occ Occupancy) []Cell {
	var cells []Cell
	for _, r := range t.Rules {
		if r.Kind == KindSlide {
			cells = append(cells, slide(b, u, r, occ)...)
			continue
		}
		target := u.Position.Offset(r.DX, r.DY)
		if !b.InBounds(target) {
			continue
		}
		switch r.Kind {
		case KindJump:
			if !occ.friendly(target, u.OwnerID) {
				cells = append(cells, target)
			}
		case KindMove:
			if _, taken := occ[target]; !taken {
				cells = append(cells, target)
			}
		case KindCapture:
			if occ.enemy(target, u.OwnerID) {
				cells = append(cells, target)
			}
		}
	}
	return sortCells(cells)
}

// slide walks from the unit towards (DX, DY) one cell at a time. The walk
// ends off the board, before a friendly unit, on an enemy unit, or after
// max(|DX|, |DY|) steps.
func slide(b Board, u *Unit, r MovementRule, occ Occupancy) []Cell {
	stepX, stepY := sign(r.DX), sign(r.DY)
	steps := max(abs(r.DX), abs(r.DY))

	var cells []Cell
	c := u.Position
	for i := 0; i < steps; i++ {
		c = c.Offset(stepX, stepY)
		if !b.InBounds(c) || occ.friendly(c, u.OwnerID) {
			break
		}
		cells = append(cells, c)
		if occ.enemy(c, u.OwnerID) {
			break
		}
	}
	return cells
}
