package world

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/variable"
	"github.com/nathoo/warcore/types"
)

// Behavior is the capability set of rule hooks attached to every entity.
// The built-in defaults live in engine/rules; a scenario's rule script may
// supply variants at load time. The engine only ever calls through this
// interface — it never special-cases which implementation is active.
type Behavior interface {
	// ValidateOwner is invoked before the entity's owner changes. It
	// succeeds silently or fails with an invalid-command error carrying
	// a human-readable reason.
	ValidateOwner(ws *State, e *Entity, f *Faction) error
	// ValidateSite is invoked before the entity's site changes.
	ValidateSite(ws *State, e *Entity, s *Site) error
	// CheckDepletion reports whether the entity should be removed from
	// the world after a resource change (decisive resource at zero).
	CheckDepletion(ws *State, e *Entity) bool
	// OnSiteChanged runs after the entity's site changed, letting the
	// variant propagate invalidation.
	OnSiteChanged(ws *State, e *Entity)
	// OnVariableChanged runs after one of the entity's variables changed.
	OnVariableChanged(ws *State, e *Entity, class *types.VariableClass)
}

// Entity is one placed or inventoried game object: a unit, terrain,
// effect, or upgrade. Its identifier is unique and immutable; everything
// else mutates only through State.
type Entity struct {
	id    string
	name  string
	class *types.EntityClass
	owner *Faction
	site  *Site

	Attributes variable.Container
	Counters   variable.Container
	Resources  variable.Container

	// Modifiers holds per-variable-class modifier totals applied on top
	// of basic attribute values during modifier recomputation.
	Modifiers map[string]int

	behavior Behavior
}

// NewEntity builds an entity of the given class with its containers seeded
// from the class's initial attribute and resource values. Factories call
// this and attach their behavior variant.
func NewEntity(id string, class *types.EntityClass, cache *ClassCache, behavior Behavior) (*Entity, error) {
	if class == nil {
		return nil, fault.Invariant("NewEntity requires an entity class")
	}
	if behavior == nil {
		return nil, fault.Invariant("NewEntity requires a behavior for %q", id)
	}
	e := &Entity{
		id:         id,
		name:       class.Name,
		class:      class,
		Attributes: variable.NewContainer(types.Attribute, 0),
		Counters:   variable.NewContainer(types.Attribute, 0),
		Resources:  variable.NewContainer(types.Resource, 0),
		Modifiers:  map[string]int{},
		behavior:   behavior,
	}
	for classID, value := range class.Attributes {
		vc := cache.Variable(classID)
		if vc == nil {
			return nil, fault.Invariant("entity class %q references unknown variable %q", class.ID, classID)
		}
		if _, err := e.Attributes.SetValue(vc, value, true); err != nil {
			return nil, err
		}
	}
	for classID, value := range class.Resources {
		vc := cache.Variable(classID)
		if vc == nil {
			return nil, fault.Invariant("entity class %q references unknown variable %q", class.ID, classID)
		}
		if _, err := e.Resources.SetValue(vc, value, true); err != nil {
			return nil, err
		}
		if _, err := e.Resources.SetValue(vc, value, false); err != nil {
			return nil, err
		}
	}
	// Units with a movement attribute carry a moves-left counter that
	// upkeep resets each turn.
	if mv, ok := e.Attributes.Get(VarMovement); ok {
		vc := cache.Variable(VarMovement)
		if _, err := e.Counters.SetValue(vc, mv.Value, true); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ID returns the entity's unique, immutable identifier.
func (e *Entity) ID() string { return e.id }

// Name returns the entity's display name.
func (e *Entity) Name() string { return e.name }

// Class returns the entity's immutable class definition.
func (e *Entity) Class() *types.EntityClass { return e.class }

// Kind returns the entity's concrete variant.
func (e *Entity) Kind() types.EntityKind { return e.class.Kind }

// Owner returns the owning faction, or nil when unowned.
func (e *Entity) Owner() *Faction { return e.owner }

// Site returns the site the entity is placed on, or nil when it sits in a
// faction's inventory.
func (e *Entity) Site() *Site { return e.site }

// Placed reports whether the entity occupies a site.
func (e *Entity) Placed() bool { return e.site != nil }

// IsBackground reports whether the entity is a background terrain.
func (e *Entity) IsBackground() bool {
	return e.class.Kind == types.KindTerrain && e.class.Background
}

// clone copies the entity's value state. Graph edges (owner, site) are
// re-linked by State.Clone.
func (e *Entity) clone() *Entity {
	out := &Entity{
		id:         e.id,
		name:       e.name,
		class:      e.class,
		Attributes: e.Attributes.Clone(),
		Counters:   e.Counters.Clone(),
		Resources:  e.Resources.Clone(),
		Modifiers:  make(map[string]int, len(e.Modifiers)),
		behavior:   e.behavior,
	}
	for id, v := range e.Modifiers {
		out.Modifiers[id] = v
	}
	return out
}
