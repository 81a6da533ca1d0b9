package finder

import (
	"sort"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/search"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// Finder answers the engine's pathfinding query families against one
// world state. Results are owned values; a Finder holds no query state
// and may be discarded freely.
type Finder struct {
	ws *world.State
}

// New creates a Finder over the given world.
func New(ws *world.State) *Finder {
	return &Finder{ws: ws}
}

// ReachableSites returns every site the unit group can move to this
// turn, bounded by the smallest remaining movement in the group. The
// group's own site is excluded.
func (f *Finder) ReachableSites(units []*world.Entity) ([]*world.Site, error) {
	agent, err := NewUnitAgent(f.ws, units)
	if err != nil {
		return nil, err
	}
	start := agent.Start()
	reach := search.Reachable(agent, start, agent.Movement())
	var out []*world.Site
	for _, c := range reach.Coords() {
		if c == start || !agent.CanOccupy(c) {
			continue
		}
		out = append(out, f.ws.SiteAt(c.X, c.Y))
	}
	return out, nil
}

// Path returns the cheapest path for the unit group to the target site,
// ignoring the per-turn movement budget (callers clip against it).
func (f *Finder) Path(units []*world.Entity, target *world.Site) (*search.Path, error) {
	return f.PathToNearest(units, []*world.Site{target})
}

// PathToNearest returns the cheapest path from the unit group to the
// nearest of several target sites, or an invalid-command error when none
// is reachable.
func (f *Finder) PathToNearest(units []*world.Entity, targets []*world.Site) (*search.Path, error) {
	agent, err := NewUnitAgent(f.ws, units)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fault.Invariant("PathToNearest requires at least one target")
	}
	goals := make([]search.Coord, len(targets))
	for i, t := range targets {
		goals[i] = search.Coord{X: t.X(), Y: t.Y()}
	}
	path, ok := search.AStar(agent, agent.Start(), goals)
	if !ok {
		return nil, fault.Invalid("no path from %s", units[0].Site().Ref().Name)
	}
	return path, nil
}

// AttackTargets returns the enemy units the attacker can strike from its
// current site, honoring range and line of sight.
func (f *Finder) AttackTargets(attacker *world.Entity) ([]*world.Entity, error) {
	if attacker == nil || attacker.Site() == nil {
		return nil, fault.Invalid("attacker is not placed")
	}
	var out []*world.Entity
	var walkErr error
	f.ws.EachEntity(func(e *world.Entity) bool {
		if e.Kind() != types.KindUnit || e.Owner() == attacker.Owner() || e.Site() == nil {
			return true
		}
		ok, err := f.AreUnitsInAttackRange(attacker, e)
		if err != nil {
			walkErr = err
			return false
		}
		if ok {
			out = append(out, e)
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	sortByID(out)
	return out, nil
}

// AreUnitsInAttackRange reports whether the attacker can strike the
// target from its current site. The range test runs first; the
// visibility algorithm is only consulted when the target is in range and
// the attacker's class demands line of sight.
func (f *Finder) AreUnitsInAttackRange(attacker, target *world.Entity) (bool, error) {
	if attacker == nil || target == nil {
		return false, fault.Invariant("attack range check requires two units")
	}
	if attacker.Site() == nil {
		return false, fault.Invalid("%s is not placed", attacker.Name())
	}
	return f.InRangeFrom(attacker, attacker.Site(), target)
}

// InRangeFrom answers the what-if variant: could the attacker strike the
// target if it stood on the given site. AI evaluation uses this without
// moving anything.
func (f *Finder) InRangeFrom(attacker *world.Entity, from *world.Site, target *world.Entity) (bool, error) {
	if from == nil {
		return false, fault.Invariant("InRangeFrom requires a site")
	}
	if target.Site() == nil {
		return false, fault.Invalid("%s is not placed", target.Name())
	}
	a := search.Coord{X: from.X(), Y: from.Y()}
	b := search.Coord{X: target.Site().X(), Y: target.Site().Y()}

	if search.Manhattan(a, b) > attacker.Attributes.Value(world.VarRange) {
		return false, nil
	}
	if !attacker.Class().LineOfSight {
		return true, nil
	}
	return search.LineOfSight(func(c search.Coord) bool {
		site := f.ws.SiteAt(c.X, c.Y)
		return site == nil || site.BlocksAttack()
	}, a, b), nil
}

// sortByID keeps query results deterministic regardless of entity table
// iteration order.
func sortByID(entities []*world.Entity) {
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID() < entities[j].ID()
	})
}
