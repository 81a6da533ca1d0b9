package search

import "sort"

// Reachability is an owned flood-fill result: every coordinate reachable
// within the budget, with its cheapest cost.
type Reachability struct {
	costs map[Coord]int
}

// Contains reports whether c was reached.
func (r *Reachability) Contains(c Coord) bool {
	_, ok := r.costs[c]
	return ok
}

// Cost returns the cheapest cost to reach c.
func (r *Reachability) Cost(c Coord) (int, bool) {
	cost, ok := r.costs[c]
	return cost, ok
}

// Coords returns the reached coordinates in deterministic row-major
// order. The start coordinate is included at cost zero.
func (r *Reachability) Coords() []Coord {
	out := make([]Coord, 0, len(r.costs))
	for c := range r.costs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Reachable flood-fills outward from start, visiting every coordinate
// whose cheapest path cost stays within budget. The result is owned by
// the caller.
func Reachable(g Graph, start Coord, budget int) *Reachability {
	r := &Reachability{costs: map[Coord]int{start: 0}}
	frontier := []Coord{start}
	for len(frontier) > 0 {
		var next []Coord
		for _, cur := range frontier {
			for _, nb := range g.Neighbors(cur) {
				stepCost, ok := g.Cost(cur, nb)
				if !ok {
					continue
				}
				newCost := r.costs[cur] + stepCost
				if newCost > budget {
					continue
				}
				if old, seen := r.costs[nb]; seen && old <= newCost {
					continue
				}
				r.costs[nb] = newCost
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return r
}
