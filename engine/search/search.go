// Package search implements the generic graph algorithms the engine's
// pathfinding queries delegate to: A* shortest path, flood-fill
// reachability, and grid line of sight. Every query returns an owned
// result object — there are no shared result buffers, so consecutive
// queries never overwrite each other.
package search

// Coord is one cell of the search space.
type Coord struct {
	X int
	Y int
}

// Manhattan returns the grid distance between two coordinates.
func Manhattan(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Graph is the contract an agent exposes to the algorithms: step
// enumeration and step feasibility/cost.
type Graph interface {
	// Neighbors returns the coordinates adjacent to c.
	Neighbors(c Coord) []Coord
	// Cost returns the cost of stepping from one cell to an adjacent
	// one. ok reports whether the step is legal at all.
	Cost(from, to Coord) (cost int, ok bool)
}

// Path is an owned shortest-path result, start and goal inclusive.
type Path struct {
	Steps []Coord
	Cost  int
}

// Goal returns the final coordinate of the path.
func (p *Path) Goal() Coord {
	return p.Steps[len(p.Steps)-1]
}
