package world

import (
	"fmt"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/history"
	"github.com/nathoo/warcore/types"
)

// Factory creates the engine's domain objects. The default implementation
// lives in engine/rules; a scenario's rule script may supply its own. The
// engine works identically either way and never downcasts past this
// interface.
type Factory interface {
	// CreateEntity builds an entity of the class with its behavior
	// variant attached.
	CreateEntity(ws *State, class *types.EntityClass, id string) (*Entity, error)
	// CreateFaction builds a faction of the class.
	CreateFaction(ws *State, class *types.FactionClass) (*Faction, error)
	// Initialize runs exactly once after the first full State is built,
	// before any command executes.
	Initialize(ws *State) error
}

// State is the complete, clonable snapshot of the game world: the site
// grid, the surviving factions in turn order, the global entity table, and
// the history. It is the only component permitted to mutate game objects.
type State struct {
	cache    *ClassCache
	scenario *types.ScenarioDef
	factory  Factory

	grid     [][]*Site // indexed [y][x]
	factions []*Faction
	entities map[string]*Entity

	// classCounts numbers instances per entity class for identifiers and
	// disambiguating names. Never reset, even after deletions.
	classCounts map[string]int

	turn     int
	active   int
	gameOver bool
	winner   *Faction

	History *history.History
	RNG     *RNG

	needValuation bool
}

// Initialize builds the authoritative State for a scenario: factions from
// the definitions via the factory, the site grid with the scenario's
// default terrain, area-by-area entity placement, disambiguating unit
// names, and an initial modifier pass. It is called once per game.
func Initialize(scn *types.ScenarioDef, cache *ClassCache, factory Factory, settings *types.Settings) (*State, error) {
	if scn == nil || cache == nil || factory == nil {
		return nil, fault.Invariant("Initialize requires scenario, cache, and factory")
	}
	if scn.Map.Width <= 0 || scn.Map.Height <= 0 {
		return nil, fault.Invariant("scenario map has invalid dimensions %dx%d", scn.Map.Width, scn.Map.Height)
	}

	ws := &State{
		cache:       cache,
		scenario:    scn,
		factory:     factory,
		entities:    map[string]*Entity{},
		classCounts: map[string]int{},
		History:     history.New(),
		RNG:         NewRNG(scn.Seed),
	}

	ws.grid = make([][]*Site, scn.Map.Height)
	for y := range ws.grid {
		ws.grid[y] = make([]*Site, scn.Map.Width)
		for x := range ws.grid[y] {
			ws.grid[y][x] = newSite(x, y)
		}
	}

	// Factions in definition order; turn order follows.
	for _, fc := range scn.Factions {
		f, err := factory.CreateFaction(ws, fc)
		if err != nil {
			return nil, err
		}
		if settings != nil {
			f.settings = settings.Factions[fc.ID]
		}
		if !f.settings.IsComputer {
			f.settings.UseScripting = false
		}
		ws.factions = append(ws.factions, f)
		if err := ws.History.FactionFor(f.id).Append(history.FactionCreated, 0, f.Size(), f.Strength()); err != nil {
			return nil, err
		}
	}

	// Default background terrain on every site.
	if scn.Map.DefaultTerrain != "" {
		for _, row := range ws.grid {
			for _, site := range row {
				if _, err := ws.CreateEntity(scn.Map.DefaultTerrain, nil, site); err != nil {
					return nil, err
				}
			}
		}
	}

	// Home sites before areas, so area definitions may refine them.
	for _, f := range ws.factions {
		site := ws.SiteAt(f.class.HomeX, f.class.HomeY)
		if site == nil {
			return nil, fault.Invariant("faction %q home (%d,%d) is off the map", f.id, f.class.HomeX, f.class.HomeY)
		}
		if err := ws.SetSiteOwner(site, f); err != nil {
			return nil, err
		}
		f.home = site
	}

	for _, area := range scn.Areas {
		if err := ws.populateArea(area); err != nil {
			return nil, err
		}
	}

	ws.RecomputeModifiers()

	if err := factory.Initialize(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// populateArea applies one area definition to its map region.
func (ws *State) populateArea(area types.AreaDef) error {
	var owner *Faction
	if area.Owner != "" {
		owner = FactionRef{ID: area.Owner}.Resolve(ws)
		if owner == nil {
			return fault.Invariant("area references unknown faction %q", area.Owner)
		}
	}

	var sites []*Site
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			site := ws.SiteAt(x, y)
			if site == nil {
				return fault.Invariant("area cell (%d,%d) is off the map", x, y)
			}
			sites = append(sites, site)
		}
	}

	for _, site := range sites {
		if owner != nil {
			if err := ws.SetSiteOwner(site, owner); err != nil {
				return err
			}
		}
		if area.Terrain != "" {
			class := ws.cache.Entity(area.Terrain)
			if class == nil {
				return fault.Invariant("area references unknown terrain class %q", area.Terrain)
			}
			// A new background terrain replaces the entire prior stack;
			// foreground terrain stacks on top of the existing background.
			// Either way the site keeps exactly one background terrain.
			if class.Background {
				for _, t := range append([]*Entity(nil), site.terrains...) {
					if err := ws.DeleteEntity(t); err != nil {
						return err
					}
				}
			}
			if _, err := ws.CreateEntity(area.Terrain, site.owner, site); err != nil {
				return err
			}
		}
		for _, effectClass := range area.Effects {
			if _, err := ws.CreateEntity(effectClass, site.owner, site); err != nil {
				return err
			}
		}
	}

	// Units fill the region in reading order, one per site.
	for i, unitClass := range area.Units {
		if i >= len(sites) {
			return fault.Invariant("area at (%d,%d) defines more units than sites", area.X, area.Y)
		}
		if _, err := ws.CreateEntity(unitClass, owner, sites[i]); err != nil {
			return err
		}
	}
	return nil
}

// Scenario returns the scenario the state was initialized from.
func (ws *State) Scenario() *types.ScenarioDef { return ws.scenario }

// Classes returns the owned class cache.
func (ws *State) Classes() *ClassCache { return ws.cache }

// Width returns the map width in sites.
func (ws *State) Width() int {
	if len(ws.grid) == 0 {
		return 0
	}
	return len(ws.grid[0])
}

// Height returns the map height in sites.
func (ws *State) Height() int { return len(ws.grid) }

// SiteAt returns the site at (x, y), or nil when out of bounds.
func (ws *State) SiteAt(x, y int) *Site {
	if y < 0 || y >= len(ws.grid) || x < 0 || x >= len(ws.grid[y]) {
		return nil
	}
	return ws.grid[y][x]
}

// Factions returns the surviving factions in turn order.
func (ws *State) Factions() []*Faction { return ws.factions }

// ActiveFaction returns the faction whose turn it is, or nil when no
// faction survives.
func (ws *State) ActiveFaction() *Faction {
	if len(ws.factions) == 0 {
		return nil
	}
	return ws.factions[ws.active]
}

// ActiveFactionIndex returns the index of the active faction.
func (ws *State) ActiveFactionIndex() int { return ws.active }

// Turn returns the current turn index.
func (ws *State) Turn() int { return ws.turn }

// GameOver reports whether the game has ended.
func (ws *State) GameOver() bool { return ws.gameOver }

// Winner returns the winning faction, or nil for a draw or a running
// game.
func (ws *State) Winner() *Faction { return ws.winner }

// Entity returns the live entity with the given identifier, or nil.
func (ws *State) Entity(id string) *Entity { return ws.entities[id] }

// EntityCount returns the number of live entities.
func (ws *State) EntityCount() int { return len(ws.entities) }

// EachEntity calls fn for every live entity until fn returns false.
// Iteration order is unspecified.
func (ws *State) EachEntity(fn func(*Entity) bool) {
	for _, e := range ws.entities {
		if !fn(e) {
			return
		}
	}
}

// CreateEntity instantiates a class through the factory, validates the
// owner and site against the entity's rule hooks, links it into the live
// graph, and records its creation.
func (ws *State) CreateEntity(classID string, owner *Faction, site *Site) (*Entity, error) {
	class := ws.cache.Entity(classID)
	if class == nil {
		return nil, fault.Invalid("unknown entity class %q", classID)
	}
	// The counter only commits once validation has passed, so a rejected
	// create leaves the world untouched.
	n := ws.classCounts[classID] + 1
	id := fmt.Sprintf("%s-%d", classID, n)

	e, err := ws.factory.CreateEntity(ws, class, id)
	if err != nil {
		return nil, err
	}
	if class.Multiple {
		e.name = fmt.Sprintf("%s %d", class.Name, n)
	}

	if err := e.behavior.ValidateOwner(ws, e, owner); err != nil {
		return nil, err
	}
	if owner != nil {
		e.owner = owner
		owner.addEntity(e)
	}
	if site != nil {
		// Site rules may depend on the owner link, so validate after it.
		if err := e.behavior.ValidateSite(ws, e, site); err != nil {
			if owner != nil {
				owner.removeEntity(e)
				e.owner = nil
			}
			return nil, err
		}
	}

	ws.classCounts[classID] = n
	ws.entities[id] = e
	if site != nil {
		e.site = site
		site.add(e)
		e.behavior.OnSiteChanged(ws, e)
	}
	if err := ws.History.EntityFor(id).Append(history.EntityCreated, ws.turn, classID); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntity detaches the entity from the live graph and records the
// terminal delete event. The object's identity remains reachable through
// previously created references, which now resolve to nil.
func (ws *State) DeleteEntity(e *Entity) error {
	if e == nil {
		return fault.Invariant("DeleteEntity requires an entity")
	}
	if ws.entities[e.id] != e {
		return fault.Invariant("entity %q is not part of this world", e.id)
	}
	if e.site != nil {
		e.site.remove(e)
		e.site = nil
	}
	if e.owner != nil {
		e.owner.removeEntity(e)
		e.owner = nil
	}
	delete(ws.entities, e.id)
	return ws.History.EntityFor(e.id).Append(history.EntityDeleted, ws.turn, "")
}

// PlaceEntity moves the entity onto a site (or into inventory when site is
// nil), enforcing the entity's site rules.
func (ws *State) PlaceEntity(e *Entity, site *Site) error {
	if e == nil {
		return fault.Invariant("PlaceEntity requires an entity")
	}
	if err := e.behavior.ValidateSite(ws, e, site); err != nil {
		return err
	}
	if e.site != nil {
		e.site.remove(e)
	}
	e.site = site
	if site != nil {
		site.add(e)
	}
	e.behavior.OnSiteChanged(ws, e)
	return nil
}

// SetEntityOwner transfers the entity to a faction (or to neutral when f
// is nil), enforcing the entity's owner rules.
func (ws *State) SetEntityOwner(e *Entity, f *Faction) error {
	if e == nil {
		return fault.Invariant("SetEntityOwner requires an entity")
	}
	if err := e.behavior.ValidateOwner(ws, e, f); err != nil {
		return err
	}
	if e.owner != nil {
		e.owner.removeEntity(e)
	}
	e.owner = f
	if f != nil {
		f.addEntity(e)
	}
	return nil
}

// SetEntityName renames the entity and records the change.
func (ws *State) SetEntityName(e *Entity, name string) error {
	if e == nil {
		return fault.Invariant("SetEntityName requires an entity")
	}
	e.name = name
	return ws.History.EntityFor(e.id).Append(history.EntitySetName, ws.turn, name)
}

// SetEntityClass swaps the entity's class template (upgrade morphs) and
// records the change. Variable containers keep their current values.
func (ws *State) SetEntityClass(e *Entity, class *types.EntityClass) error {
	if e == nil || class == nil {
		return fault.Invariant("SetEntityClass requires an entity and a class")
	}
	if class.Kind != e.class.Kind {
		return fault.Invariant("class %q changes entity kind", class.ID)
	}
	e.class = class
	return ws.History.EntityFor(e.id).Append(history.EntitySetClass, ws.turn, class.ID)
}

// SetEntityVariable routes a value change to the entity's attribute or
// resource container, fires the variable hook, and runs the depletion
// check after resource changes. It reports whether state changed.
func (ws *State) SetEntityVariable(e *Entity, vc *types.VariableClass, value int) (bool, error) {
	if e == nil || vc == nil {
		return false, fault.Invariant("SetEntityVariable requires an entity and a variable class")
	}
	var changed bool
	var err error
	switch vc.Category {
	case types.Attribute:
		changed, err = e.Attributes.SetValue(vc, value, false)
	default:
		changed, err = e.Resources.SetValue(vc, value, false)
	}
	if err != nil || !changed {
		return false, err
	}
	e.behavior.OnVariableChanged(ws, e, vc)
	if vc.Category == types.Resource && e.behavior.CheckDepletion(ws, e) {
		if err := ws.DeleteEntity(e); err != nil {
			return true, err
		}
	}
	return true, nil
}

// SetEntityCounter sets a per-turn counter on the entity, such as the
// moves-left counter reset by upkeep. Counters never trigger depletion.
func (ws *State) SetEntityCounter(e *Entity, vc *types.VariableClass, value int) (bool, error) {
	if e == nil || vc == nil {
		return false, fault.Invariant("SetEntityCounter requires an entity and a variable class")
	}
	return e.Counters.SetValue(vc, value, false)
}

// SetFactionResource sets a faction resource value. It reports whether
// state changed.
func (ws *State) SetFactionResource(f *Faction, vc *types.VariableClass, value int) (bool, error) {
	if f == nil || vc == nil {
		return false, fault.Invariant("SetFactionResource requires a faction and a variable class")
	}
	return f.Resources.SetValue(vc, value, false)
}

// SetSiteOwner transfers a site to a faction (nil for neutral). Placed
// terrains and effects follow their site's owner.
func (ws *State) SetSiteOwner(site *Site, f *Faction) error {
	if site == nil {
		return fault.Invariant("SetSiteOwner requires a site")
	}
	if site.owner == f {
		return nil
	}
	if site.owner != nil {
		site.owner.removeSite(site)
	}
	site.owner = f
	if f != nil {
		f.addSite(site)
	}
	for _, stack := range [][]*Entity{site.terrains, site.effects} {
		for _, e := range stack {
			if err := ws.SetEntityOwner(e, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// AdvanceFaction moves the active index to the next surviving faction,
// wrapping to index 0 and incrementing the turn counter when the last
// faction finishes. It reports whether this transition began a new turn —
// a wrap, not merely index 0 recurring after an elimination.
func (ws *State) AdvanceFaction() bool {
	if len(ws.factions) == 0 {
		return false
	}
	ws.active++
	if ws.active >= len(ws.factions) {
		ws.active = 0
		ws.turn++
		return true
	}
	return false
}

// DeleteFaction removes a faction out of turn order: its units and
// effects leave the world, its terrains and sites turn neutral, and the
// active index stays valid. The terminal history event is recorded first,
// while size and strength are still observable.
func (ws *State) DeleteFaction(f *Faction) error {
	idx := -1
	for i, other := range ws.factions {
		if other == f {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fault.Invariant("faction %q is not part of this world", f.id)
	}
	if err := ws.History.FactionFor(f.id).Append(history.FactionDeleted, ws.turn, f.Size(), f.Strength()); err != nil {
		return err
	}

	for _, u := range append([]*Entity(nil), f.units...) {
		if err := ws.DeleteEntity(u); err != nil {
			return err
		}
	}
	for _, e := range append([]*Entity(nil), f.effects...) {
		if err := ws.DeleteEntity(e); err != nil {
			return err
		}
	}
	for _, u := range append([]*Entity(nil), f.upgrades...) {
		if err := ws.DeleteEntity(u); err != nil {
			return err
		}
	}
	for _, site := range append([]*Site(nil), f.sites...) {
		if err := ws.SetSiteOwner(site, nil); err != nil {
			return err
		}
	}
	// Any terrains left in inventory turn neutral.
	for _, t := range append([]*Entity(nil), f.terrains...) {
		if err := ws.SetEntityOwner(t, nil); err != nil {
			return err
		}
	}

	ws.factions = append(ws.factions[:idx], ws.factions[idx+1:]...)
	if idx < ws.active {
		ws.active--
	}
	if ws.active >= len(ws.factions) {
		ws.active = 0
	}
	return nil
}

// CheckDefeat removes factions that have resigned or lost everything.
// Guarded against re-entry once the game is over.
func (ws *State) CheckDefeat() error {
	if ws.gameOver {
		return nil
	}
	for _, f := range append([]*Faction(nil), ws.factions...) {
		if f.resigned || (len(f.units) == 0 && len(f.sites) == 0) {
			if err := ws.DeleteFaction(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckVictory ends the game when at most one faction survives. Guarded
// against re-entry once the game is over.
func (ws *State) CheckVictory() error {
	if ws.gameOver {
		return nil
	}
	switch len(ws.factions) {
	case 0:
		ws.gameOver = true
	case 1:
		ws.gameOver = true
		ws.winner = ws.factions[0]
		return ws.History.FactionFor(ws.winner.id).Append(history.FactionVictory, ws.turn, ws.winner.Size(), ws.winner.Strength())
	}
	return nil
}

// RecordAdvance appends the per-faction advance event when a faction's
// turn begins.
func (ws *State) RecordAdvance(f *Faction) error {
	return ws.History.FactionFor(f.id).Append(history.FactionAdvanced, ws.turn, f.Size(), f.Strength())
}

// InvalidateValuation marks the world as needing a valuation recompute.
// Terrain hooks call this transitively from their sites.
func (ws *State) InvalidateValuation() { ws.needValuation = true }

// ValuationDirty reports whether any site's valuation changed since the
// last recompute pass.
func (ws *State) ValuationDirty() bool { return ws.needValuation }

// FactionValuation sums the valuation of every site the faction owns and
// clears the dirty flag.
func (ws *State) FactionValuation(f *Faction) int {
	total := 0
	for _, site := range f.sites {
		total += site.Valuation()
	}
	ws.needValuation = false
	return total
}
