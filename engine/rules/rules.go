// Package rules provides the engine's built-in rule implementations: the
// default entity behaviors (owner/site validation, depletion, invalidation
// hooks) and the default factory that attaches them. Scenario rule scripts
// replace pieces of this package through the same interfaces.
package rules

import (
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// DefaultFactory creates entities and factions with the built-in behavior
// variants. It is the factory used when a scenario supplies no rule
// script.
type DefaultFactory struct{}

// NewDefaultFactory returns the built-in factory.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{}
}

// CreateEntity builds an entity with the default behavior for its kind.
func (f *DefaultFactory) CreateEntity(ws *world.State, class *types.EntityClass, id string) (*world.Entity, error) {
	return world.NewEntity(id, class, ws.Classes(), BehaviorFor(class.Kind))
}

// CreateFaction builds a faction with no scripted extensions.
func (f *DefaultFactory) CreateFaction(ws *world.State, class *types.FactionClass) (*world.Faction, error) {
	return world.NewFaction(class, ws.Classes())
}

// Initialize is called exactly once after the first world is built. The
// default rules need no setup.
func (f *DefaultFactory) Initialize(ws *world.State) error {
	return nil
}

// BehaviorFor returns the built-in behavior variant for an entity kind.
func BehaviorFor(kind types.EntityKind) world.Behavior {
	switch kind {
	case types.KindTerrain:
		return terrainBehavior{}
	case types.KindEffect:
		return effectBehavior{}
	case types.KindUpgrade:
		return upgradeBehavior{}
	default:
		return unitBehavior{}
	}
}
