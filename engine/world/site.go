package world

import (
	"fmt"

	"github.com/nathoo/warcore/types"
)

// Site is one fixed map cell: a nullable owner plus ordered entity stacks
// per kind. A populated site holds exactly one background terrain, always
// at stack index 0. Valuation and blocks-attack are derived from the
// terrain stack and recomputed lazily when it changes.
type Site struct {
	x, y  int
	owner *Faction

	terrains []*Entity
	units    []*Entity
	effects  []*Entity

	valuation    int
	blocksAttack bool
	dirty        bool
}

func newSite(x, y int) *Site {
	return &Site{x: x, y: y, dirty: true}
}

// X returns the site's column.
func (s *Site) X() int { return s.x }

// Y returns the site's row.
func (s *Site) Y() int { return s.y }

// Owner returns the owning faction, or nil for neutral sites.
func (s *Site) Owner() *Faction { return s.owner }

// Terrains returns the terrain stack, background first.
func (s *Site) Terrains() []*Entity { return s.terrains }

// Units returns the unit stack in placement order.
func (s *Site) Units() []*Entity { return s.units }

// Effects returns the effect stack in placement order.
func (s *Site) Effects() []*Entity { return s.effects }

// Background returns the background terrain, or nil when the site is
// unpopulated.
func (s *Site) Background() *Entity {
	if len(s.terrains) > 0 && s.terrains[0].IsBackground() {
		return s.terrains[0]
	}
	return nil
}

// MoveCost returns the movement cost of entering this site, taken from the
// background terrain class. Unpopulated sites cost 1.
func (s *Site) MoveCost() int {
	if bg := s.Background(); bg != nil && bg.Class().MoveCost > 0 {
		return bg.Class().MoveCost
	}
	return 1
}

// Valuation returns the site's derived worth, recomputing it if the
// terrain stack changed since the last query.
func (s *Site) Valuation() int {
	s.refresh()
	return s.valuation
}

// BlocksAttack reports whether terrain on this site blocks line of sight.
func (s *Site) BlocksAttack() bool {
	s.refresh()
	return s.blocksAttack
}

func (s *Site) refresh() {
	if !s.dirty {
		return
	}
	s.valuation = 0
	s.blocksAttack = false
	for _, t := range s.terrains {
		s.valuation += t.Class().Valuation
		if t.Class().BlocksAttack {
			s.blocksAttack = true
		}
	}
	s.dirty = false
}

// markDirty schedules a lazy recompute of the derived flags.
func (s *Site) markDirty() {
	s.dirty = true
}

// Invalidate schedules a lazy recompute of the derived flags. Terrain
// rule hooks call this when the stack changes underneath them.
func (s *Site) Invalidate() {
	s.markDirty()
}

func (s *Site) stack(kind types.EntityKind) *[]*Entity {
	switch kind {
	case types.KindTerrain:
		return &s.terrains
	case types.KindEffect:
		return &s.effects
	default:
		return &s.units
	}
}

func (s *Site) add(e *Entity) {
	st := s.stack(e.Kind())
	if e.IsBackground() {
		// Background terrain always occupies index 0.
		*st = append([]*Entity{e}, *st...)
	} else {
		*st = append(*st, e)
	}
	if e.Kind() == types.KindTerrain {
		s.markDirty()
	}
}

func (s *Site) remove(e *Entity) {
	st := s.stack(e.Kind())
	for i, other := range *st {
		if other == e {
			*st = append((*st)[:i], (*st)[i+1:]...)
			break
		}
	}
	if e.Kind() == types.KindTerrain {
		s.markDirty()
	}
}

// Label is the display name cached into site references.
func (s *Site) Label() string {
	return fmt.Sprintf("(%d,%d)", s.x, s.y)
}
