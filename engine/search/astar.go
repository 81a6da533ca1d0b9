package search

import "container/heap"

// AStar finds the cheapest path from start to the nearest of the goals.
// Ties break deterministically by insertion order. The returned Path is
// owned by the caller; ok is false when no goal is reachable.
func AStar(g Graph, start Coord, goals []Coord) (*Path, bool) {
	if len(goals) == 0 {
		return nil, false
	}
	goalSet := make(map[Coord]bool, len(goals))
	for _, goal := range goals {
		goalSet[goal] = true
	}

	h := func(c Coord) int {
		best := Manhattan(c, goals[0])
		for _, goal := range goals[1:] {
			if d := Manhattan(c, goal); d < best {
				best = d
			}
		}
		return best
	}

	open := &nodeQueue{}
	heap.Init(open)
	heap.Push(open, &node{coord: start, priority: h(start)})

	costSoFar := map[Coord]int{start: 0}
	cameFrom := map[Coord]Coord{}
	seq := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if goalSet[cur.coord] {
			return rebuild(cameFrom, start, cur.coord, costSoFar[cur.coord]), true
		}
		for _, next := range g.Neighbors(cur.coord) {
			stepCost, ok := g.Cost(cur.coord, next)
			if !ok {
				continue
			}
			newCost := costSoFar[cur.coord] + stepCost
			if old, seen := costSoFar[next]; seen && newCost >= old {
				continue
			}
			costSoFar[next] = newCost
			cameFrom[next] = cur.coord
			seq++
			heap.Push(open, &node{coord: next, priority: newCost + h(next), seq: seq})
		}
	}
	return nil, false
}

func rebuild(cameFrom map[Coord]Coord, start, goal Coord, cost int) *Path {
	var rev []Coord
	for c := goal; ; {
		rev = append(rev, c)
		if c == start {
			break
		}
		c = cameFrom[c]
	}
	steps := make([]Coord, len(rev))
	for i, c := range rev {
		steps[len(rev)-1-i] = c
	}
	return &Path{Steps: steps, Cost: cost}
}

type node struct {
	coord    Coord
	priority int
	seq      int
	index    int
}

type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}
