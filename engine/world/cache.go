package world

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/types"
)

// Well-known variable class IDs the built-in rules depend on. Scenarios
// must define these; the loader validates their presence.
const (
	VarMovement = "movement"
	VarStrength = "strength"
	VarRange    = "range"
	VarHits     = "hits"
)

// ClassCache indexes a scenario's immutable class definitions for O(1)
// lookup. It is an explicitly owned value handed to WorldState
// construction, with a load/clear lifecycle tied to scenario load and
// unload — never process-wide state.
type ClassCache struct {
	variables map[string]*types.VariableClass
	entities  map[string]*types.EntityClass
	factions  map[string]*types.FactionClass
	loaded    bool
}

// NewClassCache creates an empty, unloaded cache.
func NewClassCache() *ClassCache {
	return &ClassCache{}
}

// Load indexes the scenario's definitions. Loading twice without an
// intervening Clear is a programmer error.
func (c *ClassCache) Load(scn *types.ScenarioDef) error {
	if scn == nil {
		return fault.Invariant("Load requires a scenario")
	}
	if c.loaded {
		return fault.Invariant("class cache is already loaded")
	}
	c.variables = make(map[string]*types.VariableClass, len(scn.Variables))
	for id, vc := range scn.Variables {
		c.variables[id] = vc
	}
	c.entities = make(map[string]*types.EntityClass, len(scn.Entities))
	for id, ec := range scn.Entities {
		c.entities[id] = ec
	}
	c.factions = make(map[string]*types.FactionClass, len(scn.Factions))
	for _, fc := range scn.Factions {
		c.factions[fc.ID] = fc
	}
	c.loaded = true
	return nil
}

// Clear drops all indexed definitions, allowing a new Load.
func (c *ClassCache) Clear() {
	c.variables = nil
	c.entities = nil
	c.factions = nil
	c.loaded = false
}

// Variable returns the variable class for id, or nil.
func (c *ClassCache) Variable(id string) *types.VariableClass {
	return c.variables[id]
}

// Entity returns the entity class for id, or nil.
func (c *ClassCache) Entity(id string) *types.EntityClass {
	return c.entities[id]
}

// Faction returns the faction class for id, or nil.
func (c *ClassCache) Faction(id string) *types.FactionClass {
	return c.factions[id]
}
