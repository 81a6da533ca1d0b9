package rules

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// baseBehavior carries the hooks shared by every kind: decisive-resource
// depletion and no-op notifications.
type baseBehavior struct{}

func (baseBehavior) CheckDepletion(ws *world.State, e *world.Entity) bool {
	for _, resourceID := range e.Class().Decisive {
		if e.Resources.Value(resourceID) <= 0 {
			return true
		}
	}
	return false
}

func (baseBehavior) OnSiteChanged(ws *world.State, e *world.Entity) {}

func (baseBehavior) OnVariableChanged(ws *world.State, e *world.Entity, class *types.VariableClass) {
}

// unitBehavior: units may be owned by anyone and placed anywhere a site
// exists, or held in inventory.
type unitBehavior struct{ baseBehavior }

func (unitBehavior) ValidateOwner(ws *world.State, e *world.Entity, f *world.Faction) error {
	return nil
}

func (unitBehavior) ValidateSite(ws *world.State, e *world.Entity, s *world.Site) error {
	return nil
}

// terrainBehavior: a placed terrain must share its site's owner, and
// background terrains are exempt from depletion. Terrain changes
// invalidate the site's derived valuation, and transitively the world's.
type terrainBehavior struct{ baseBehavior }

func (terrainBehavior) ValidateOwner(ws *world.State, e *world.Entity, f *world.Faction) error {
	if e.Site() != nil && e.Site().Owner() != f {
		return fault.Invalid("terrain %s must share the owner of %s", e.Name(), e.Site().Ref().Name)
	}
	return nil
}

func (terrainBehavior) ValidateSite(ws *world.State, e *world.Entity, s *world.Site) error {
	if s != nil && e.Owner() != s.Owner() {
		return fault.Invalid("terrain %s cannot be placed on %s owned by another faction", e.Name(), s.Ref().Name)
	}
	return nil
}

func (b terrainBehavior) CheckDepletion(ws *world.State, e *world.Entity) bool {
	if e.IsBackground() {
		return false
	}
	return b.baseBehavior.CheckDepletion(ws, e)
}

func (terrainBehavior) OnSiteChanged(ws *world.State, e *world.Entity) {
	if s := e.Site(); s != nil {
		s.Invalidate()
	}
	ws.InvalidateValuation()
}

// effectBehavior: effects must always be placed and must share their
// site's owner.
type effectBehavior struct{ baseBehavior }

func (effectBehavior) ValidateOwner(ws *world.State, e *world.Entity, f *world.Faction) error {
	if e.Site() != nil && e.Site().Owner() != f {
		return fault.Invalid("effect %s must share the owner of %s", e.Name(), e.Site().Ref().Name)
	}
	return nil
}

func (effectBehavior) ValidateSite(ws *world.State, e *world.Entity, s *world.Site) error {
	if s == nil {
		return fault.Invalid("effect %s must always be placed", e.Name())
	}
	if e.Owner() != s.Owner() {
		return fault.Invalid("effect %s cannot be placed on %s owned by another faction", e.Name(), s.Ref().Name)
	}
	return nil
}

// upgradeBehavior: upgrades live in a faction's inventory, never on the
// map, and always have an owner.
type upgradeBehavior struct{ baseBehavior }

func (upgradeBehavior) ValidateOwner(ws *world.State, e *world.Entity, f *world.Faction) error {
	if f == nil {
		return fault.Invalid("upgrade %s requires an owner", e.Name())
	}
	return nil
}

func (upgradeBehavior) ValidateSite(ws *world.State, e *world.Entity, s *world.Site) error {
	if s != nil {
		return fault.Invalid("upgrade %s cannot be placed on the map", e.Name())
	}
	return nil
}
