package search

// LineOfSight walks the grid line between two coordinates and reports
// whether it is clear. The endpoints themselves never block; blocked is
// consulted for every intermediate cell.
func LineOfSight(blocked func(Coord) bool, from, to Coord) bool {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			return true
		}
		if blocked(Coord{X: x, Y: y}) {
			return false
		}
	}
}
