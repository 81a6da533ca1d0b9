package world

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/variable"
	"github.com/nathoo/warcore/types"
)

// Faction is one competing side: its owned sites and entities, its
// counters and resources, its home site, and its resignation flag.
type Faction struct {
	id    string
	class *types.FactionClass

	units    []*Entity
	terrains []*Entity
	effects  []*Entity
	upgrades []*Entity
	sites    []*Site

	Counters  variable.Container
	Resources variable.Container

	home     *Site
	resigned bool
	settings types.FactionSettings

	// built counts instances built per entity class, against BuildCount.
	built map[string]int
}

// NewFaction builds a faction of the given class with starting resources
// seeded from the class definition. Factories call this.
func NewFaction(class *types.FactionClass, cache *ClassCache) (*Faction, error) {
	if class == nil {
		return nil, fault.Invariant("NewFaction requires a faction class")
	}
	f := &Faction{
		id:        class.ID,
		class:     class,
		Counters:  variable.NewContainer(types.Attribute, variable.Faction),
		Resources: variable.NewContainer(types.Resource, variable.Faction),
		built:     map[string]int{},
	}
	for classID, value := range class.Resources {
		vc := cache.Variable(classID)
		if vc == nil {
			return nil, fault.Invariant("faction class %q references unknown variable %q", class.ID, classID)
		}
		if _, err := f.Resources.SetValue(vc, value, true); err != nil {
			return nil, err
		}
		if _, err := f.Resources.SetValue(vc, value, false); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ID returns the faction's identifier.
func (f *Faction) ID() string { return f.id }

// Name returns the faction's display name.
func (f *Faction) Name() string { return f.class.Name }

// Class returns the faction's immutable class definition.
func (f *Faction) Class() *types.FactionClass { return f.class }

// Units returns the faction's units, placed and inventoried.
func (f *Faction) Units() []*Entity { return f.units }

// Terrains returns the faction's owned terrains.
func (f *Faction) Terrains() []*Entity { return f.terrains }

// Effects returns the faction's owned effects.
func (f *Faction) Effects() []*Entity { return f.effects }

// Upgrades returns the faction's upgrades.
func (f *Faction) Upgrades() []*Entity { return f.upgrades }

// Sites returns the faction's owned sites.
func (f *Faction) Sites() []*Site { return f.sites }

// Home returns the faction's home site, or nil once lost.
func (f *Faction) Home() *Site { return f.home }

// Resigned reports whether the faction has resigned.
func (f *Faction) Resigned() bool { return f.resigned }

// Resign marks the faction as resigned; the next defeat check removes it.
func (f *Faction) Resign() { f.resigned = true }

// Settings returns the faction's read-only player configuration.
func (f *Faction) Settings() types.FactionSettings { return f.settings }

// Size returns the number of entities the faction owns.
func (f *Faction) Size() int {
	return len(f.units) + len(f.terrains) + len(f.effects) + len(f.upgrades)
}

// Strength sums the strength attribute over the faction's units.
func (f *Faction) Strength() int {
	total := 0
	for _, u := range f.units {
		total += u.Attributes.Value(VarStrength)
	}
	return total
}

// RecordBuild counts one construction of the class against the faction's
// build allowance. The create-entity instruction calls this; pre-placed
// scenario entities do not count.
func (f *Faction) RecordBuild(class *types.EntityClass) {
	f.built[class.ID]++
}

// BuildsRemaining returns how many more instances of the class this
// faction may build.
func (f *Faction) BuildsRemaining(class *types.EntityClass) int {
	remaining := class.BuildCount - f.built[class.ID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanBuild checks every rule gating construction of the class: the class
// must be buildable, listed for this faction, under its build count, and
// affordable. The returned error names the violated rule.
func (f *Faction) CanBuild(class *types.EntityClass) error {
	if class.BuildCount == 0 {
		return fault.Invalid("%s cannot be built", class.Name)
	}
	listed := false
	for _, id := range f.class.Buildable {
		if id == class.ID {
			listed = true
			break
		}
	}
	if !listed {
		return fault.Invalid("%s cannot build %s", f.Name(), class.Name)
	}
	if f.BuildsRemaining(class) == 0 {
		return fault.Invalid("%s has no builds left for %s", f.Name(), class.Name)
	}
	for resourceID, cost := range class.Cost {
		if f.Resources.Value(resourceID) < cost {
			return fault.Invalid("%s lacks %s to build %s", f.Name(), resourceID, class.Name)
		}
	}
	return nil
}

func (f *Faction) collection(kind types.EntityKind) *[]*Entity {
	switch kind {
	case types.KindTerrain:
		return &f.terrains
	case types.KindEffect:
		return &f.effects
	case types.KindUpgrade:
		return &f.upgrades
	default:
		return &f.units
	}
}

func (f *Faction) addEntity(e *Entity) {
	coll := f.collection(e.Kind())
	*coll = append(*coll, e)
}

func (f *Faction) removeEntity(e *Entity) {
	coll := f.collection(e.Kind())
	for i, other := range *coll {
		if other == e {
			*coll = append((*coll)[:i], (*coll)[i+1:]...)
			return
		}
	}
}

func (f *Faction) addSite(s *Site) {
	f.sites = append(f.sites, s)
}

func (f *Faction) removeSite(s *Site) {
	for i, other := range f.sites {
		if other == s {
			f.sites = append(f.sites[:i], f.sites[i+1:]...)
			break
		}
	}
	if f.home == s {
		f.home = nil
	}
}
