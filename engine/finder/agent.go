// Package finder bridges entity-specific movement, attack, and visibility
// rules into the generic graph algorithms of engine/search. A UnitAgent
// wraps the current world state and an ordered group of co-moving units;
// a Finder composes agents with the search routines to answer the
// engine's pathfinding query families.
package finder

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/search"
	"github.com/nathoo/warcore/engine/world"
)

// UnitAgent adapts a world state plus a group of co-located, co-owned
// units to the search.Graph contract: step feasibility, step cost, and
// occupancy legality.
type UnitAgent struct {
	ws    *world.State
	units []*world.Entity
}

// NewUnitAgent validates and wraps a unit group. All units must be live,
// placed on the same site, and owned by the same faction.
func NewUnitAgent(ws *world.State, units []*world.Entity) (*UnitAgent, error) {
	if ws == nil {
		return nil, fault.Invariant("NewUnitAgent requires a world")
	}
	if len(units) == 0 {
		return nil, fault.Invariant("NewUnitAgent requires at least one unit")
	}
	first := units[0]
	for _, u := range units {
		if ws.Entity(u.ID()) != u {
			return nil, fault.Invalid("unit %s is not part of this world", u.Name())
		}
		if u.Site() == nil {
			return nil, fault.Invalid("unit %s is not placed", u.Name())
		}
		if u.Site() != first.Site() || u.Owner() != first.Owner() {
			return nil, fault.Invalid("units %s and %s cannot move together", first.Name(), u.Name())
		}
	}
	return &UnitAgent{ws: ws, units: units}, nil
}

// Start returns the group's current coordinate.
func (a *UnitAgent) Start() search.Coord {
	s := a.units[0].Site()
	return search.Coord{X: s.X(), Y: s.Y()}
}

// Movement returns the smallest remaining movement among the group; the
// group can only travel as far as its slowest member.
func (a *UnitAgent) Movement() int {
	min := a.units[0].Counters.Value(world.VarMovement)
	for _, u := range a.units[1:] {
		if m := u.Counters.Value(world.VarMovement); m < min {
			min = m
		}
	}
	return min
}

// Neighbors returns the orthogonally adjacent, in-bounds coordinates.
func (a *UnitAgent) Neighbors(c search.Coord) []search.Coord {
	candidates := [4]search.Coord{
		{X: c.X, Y: c.Y - 1},
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
	}
	out := make([]search.Coord, 0, 4)
	for _, nb := range candidates {
		if a.ws.SiteAt(nb.X, nb.Y) != nil {
			out = append(out, nb)
		}
	}
	return out
}

// Cost returns the terrain cost of stepping into a cell. Cells holding
// enemy units are impassable.
func (a *UnitAgent) Cost(from, to search.Coord) (int, bool) {
	site := a.ws.SiteAt(to.X, to.Y)
	if site == nil {
		return 0, false
	}
	for _, u := range site.Units() {
		if u.Owner() != a.units[0].Owner() {
			return 0, false
		}
	}
	return site.MoveCost(), true
}

// CanOccupy reports whether the group may end its move on the cell.
func (a *UnitAgent) CanOccupy(c search.Coord) bool {
	site := a.ws.SiteAt(c.X, c.Y)
	if site == nil {
		return false
	}
	for _, u := range site.Units() {
		if u.Owner() != a.units[0].Owner() {
			return false
		}
	}
	return true
}
