package command

import (
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

// Instructions re-resolve every reference at execution time. Programs
// are built against a live world, but by the time an instruction runs an
// earlier step may have deleted a unit or turned a site over, so each
// Execute validates its own preconditions and fails with an
// invalid-command error instead of trusting the program.

func findFaction(ws *world.State, id string) *world.Faction {
	for _, f := range ws.Factions() {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

func requireEntity(ws *world.State, id string) (*world.Entity, error) {
	e := ws.Entity(id)
	if e == nil {
		return nil, fault.Invalid("no such entity %q", id)
	}
	return e, nil
}

func requireSite(ws *world.State, x, y int) (*world.Site, error) {
	s := ws.SiteAt(x, y)
	if s == nil {
		return nil, fault.Invalid("(%d,%d) is outside the map", x, y)
	}
	return s, nil
}

// createEntity instantiates one entity of a class for a faction,
// optionally placed. The created reference is captured for the owning
// command to report.
type createEntity struct {
	ClassID string
	OwnerID string
	X, Y    int
	Place   bool

	// Created is filled on success so the expanding command can refer
	// to the new entity without holding a live pointer.
	Created world.EntityRef
}

func (in *createEntity) Type() string { return "createEntity" }

func (in *createEntity) Execute(ctx *Context) (bool, error) {
	ws := ctx.World
	var owner *world.Faction
	if in.OwnerID != "" {
		if owner = findFaction(ws, in.OwnerID); owner == nil {
			return false, fault.Invalid("no such faction %q", in.OwnerID)
		}
	}
	var site *world.Site
	if in.Place {
		var err error
		if site, err = requireSite(ws, in.X, in.Y); err != nil {
			return false, err
		}
	}
	e, err := ws.CreateEntity(in.ClassID, owner, site)
	if err != nil {
		return false, err
	}
	if owner != nil && e.Class().BuildCount > 0 {
		owner.RecordBuild(e.Class())
	}
	in.Created = e.Ref()
	return true, nil
}

// deleteEntity removes one entity from the world. A reference that no
// longer resolves is treated as already done rather than an error, since
// depletion may have removed the entity between program and execution.
type deleteEntity struct {
	EntityID string
}

func (in *deleteEntity) Type() string { return "deleteEntity" }

func (in *deleteEntity) Execute(ctx *Context) (bool, error) {
	e := ctx.World.Entity(in.EntityID)
	if e == nil {
		return false, nil
	}
	return true, ctx.World.DeleteEntity(e)
}

// placeEntity moves an entity onto a site, or back to its owner's
// inventory when Place is false.
type placeEntity struct {
	EntityID string
	X, Y     int
	Place    bool
}

func (in *placeEntity) Type() string { return "placeEntity" }

func (in *placeEntity) Execute(ctx *Context) (bool, error) {
	e, err := requireEntity(ctx.World, in.EntityID)
	if err != nil {
		return false, err
	}
	var site *world.Site
	if in.Place {
		if site, err = requireSite(ctx.World, in.X, in.Y); err != nil {
			return false, err
		}
	}
	if e.Site() == site {
		return false, nil
	}
	return true, ctx.World.PlaceEntity(e, site)
}

// setOwner transfers an entity to a faction, or to neutral when
// OwnerID is empty.
type setOwner struct {
	EntityID string
	OwnerID  string
}

func (in *setOwner) Type() string { return "setOwner" }

func (in *setOwner) Execute(ctx *Context) (bool, error) {
	e, err := requireEntity(ctx.World, in.EntityID)
	if err != nil {
		return false, err
	}
	var f *world.Faction
	if in.OwnerID != "" {
		if f = findFaction(ctx.World, in.OwnerID); f == nil {
			return false, fault.Invalid("no such faction %q", in.OwnerID)
		}
	}
	if e.Owner() == f {
		return false, nil
	}
	return true, ctx.World.SetEntityOwner(e, f)
}

// setVariable writes one entity variable. The category routing and the
// depletion check live in the world layer.
type setVariable struct {
	EntityID string
	VarID    string
	Value    int
}

func (in *setVariable) Type() string { return "setVariable" }

func (in *setVariable) Execute(ctx *Context) (bool, error) {
	e, err := requireEntity(ctx.World, in.EntityID)
	if err != nil {
		return false, err
	}
	vc := ctx.World.Classes().Variable(in.VarID)
	if vc == nil {
		return false, fault.Invalid("no such variable class %q", in.VarID)
	}
	return ctx.World.SetEntityVariable(e, vc, in.Value)
}

// setCounter writes one per-turn entity counter, such as moves-left.
type setCounter struct {
	EntityID string
	VarID    string
	Value    int
}

func (in *setCounter) Type() string { return "setCounter" }

func (in *setCounter) Execute(ctx *Context) (bool, error) {
	e, err := requireEntity(ctx.World, in.EntityID)
	if err != nil {
		return false, err
	}
	vc := ctx.World.Classes().Variable(in.VarID)
	if vc == nil {
		return false, fault.Invalid("no such variable class %q", in.VarID)
	}
	return ctx.World.SetEntityCounter(e, vc, in.Value)
}

// setResource writes one faction resource.
type setResource struct {
	FactionID string
	VarID     string
	Value     int
}

func (in *setResource) Type() string { return "setResource" }

func (in *setResource) Execute(ctx *Context) (bool, error) {
	f := findFaction(ctx.World, in.FactionID)
	if f == nil {
		return false, fault.Invalid("no such faction %q", in.FactionID)
	}
	vc := ctx.World.Classes().Variable(in.VarID)
	if vc == nil {
		return false, fault.Invalid("no such variable class %q", in.VarID)
	}
	return ctx.World.SetFactionResource(f, vc, in.Value)
}

// captureSite turns a site over to a faction. Placed terrains and
// effects follow the site's owner.
type captureSite struct {
	X, Y      int
	FactionID string
}

func (in *captureSite) Type() string { return "captureSite" }

func (in *captureSite) Execute(ctx *Context) (bool, error) {
	site, err := requireSite(ctx.World, in.X, in.Y)
	if err != nil {
		return false, err
	}
	var f *world.Faction
	if in.FactionID != "" {
		if f = findFaction(ctx.World, in.FactionID); f == nil {
			return false, fault.Invalid("no such faction %q", in.FactionID)
		}
	}
	if site.Owner() == f {
		return false, nil
	}
	return true, ctx.World.SetSiteOwner(site, f)
}

// resignFaction marks a faction as resigned; the defeat sweep after the
// command removes it.
type resignFaction struct {
	FactionID string
}

func (in *resignFaction) Type() string { return "resignFaction" }

func (in *resignFaction) Execute(ctx *Context) (bool, error) {
	f := findFaction(ctx.World, in.FactionID)
	if f == nil {
		return false, fault.Invalid("no such faction %q", in.FactionID)
	}
	if f.Resigned() {
		return false, nil
	}
	f.Resign()
	return true, nil
}

// advanceFaction rotates the active faction, wrapping into a new turn
// after the last one.
type advanceFaction struct{}

func (in *advanceFaction) Type() string { return "advanceFaction" }

func (in *advanceFaction) Execute(ctx *Context) (bool, error) {
	return ctx.World.AdvanceFaction(), nil
}

// beginFaction runs start-of-turn upkeep for one faction: the advance is
// recorded, site income is credited, and every unit's moves-left counter
// resets to its movement attribute.
type beginFaction struct {
	FactionID string
}

func (in *beginFaction) Type() string { return "beginFaction" }

func (in *beginFaction) Execute(ctx *Context) (bool, error) {
	ws := ctx.World
	f := findFaction(ws, in.FactionID)
	if f == nil {
		return false, fault.Invalid("no such faction %q", in.FactionID)
	}
	if err := ws.RecordAdvance(f); err != nil {
		return false, err
	}

	if income := ws.Scenario().IncomeResource; income != "" {
		vc := ws.Classes().Variable(income)
		if vc == nil {
			return false, fault.Invariant("income resource %q is not a variable class", income)
		}
		gain := ws.FactionValuation(f)
		if gain != 0 {
			have := f.Resources.Value(income)
			if _, err := ws.SetFactionResource(f, vc, have+gain); err != nil {
				return false, err
			}
		}
	}

	mv := ws.Classes().Variable(world.VarMovement)
	for _, u := range f.Units() {
		if full, ok := u.Attributes.Get(world.VarMovement); ok {
			if _, err := ws.SetEntityCounter(u, mv, full.Value); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// message emits narrative text to the front end.
type message struct {
	Text string
}

func (in *message) Type() string { return "message" }

func (in *message) Execute(ctx *Context) (bool, error) {
	ctx.Say(in.Text)
	return false, nil
}

// mapView asks the front end to focus the map on a site.
type mapView struct {
	X, Y int
}

func (in *mapView) Type() string { return "mapView" }

func (in *mapView) Execute(ctx *Context) (bool, error) {
	if ctx.Notify != nil {
		ctx.Notify(Event{Kind: EventMapView, X: in.X, Y: in.Y})
	}
	return false, nil
}
