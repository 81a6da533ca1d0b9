package command

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

func init() {
	register("build", func(data json.RawMessage) (Command, error) {
		c := &Build{}
		if err := json.Unmarshal(data, &c.buildData); err != nil {
			return nil, fault.Invalid("malformed build command: %v", err)
		}
		return c, nil
	})
}

type buildData struct {
	ClassID string `json:"class"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Place   bool   `json:"place"`
}

// Build constructs one new entity for the active faction, paying its
// cost. Units, terrains, and effects go onto an owned site; upgrades go
// into the faction's inventory.
type Build struct {
	base
	buildData

	create *createEntity
}

// NewBuild builds a placed construction command.
func NewBuild(classID string, x, y int) *Build {
	return &Build{buildData: buildData{ClassID: classID, X: x, Y: y, Place: true}}
}

// NewBuildUpgrade builds an inventory-only construction command.
func NewBuildUpgrade(classID string) *Build {
	return &Build{buildData: buildData{ClassID: classID}}
}

func (c *Build) Type() string { return "build" }

func (c *Build) Element() (Element, error) { return makeElement(c.Type(), c.buildData) }

// Created returns a weak reference to the entity the command built.
// Zero before execution.
func (c *Build) Created() world.EntityRef {
	if c.create == nil {
		return world.EntityRef{}
	}
	return c.create.Created
}

func (c *Build) Validate(ws *world.State) error {
	f := ws.ActiveFaction()
	if f == nil {
		return fault.Invalid("no faction is active")
	}
	class := ws.Classes().Entity(c.ClassID)
	if class == nil {
		return fault.Invalid("unknown entity class %q", c.ClassID)
	}
	if err := f.CanBuild(class); err != nil {
		return err
	}
	if class.Kind == types.KindUpgrade {
		if c.Place {
			return fault.Invalid("%s is an upgrade and cannot be placed", class.Name)
		}
		return nil
	}
	if !c.Place {
		return fault.Invalid("%s must be built on a site", class.Name)
	}
	site := ws.SiteAt(c.X, c.Y)
	if site == nil {
		return fault.Invalid("(%d,%d) is outside the map", c.X, c.Y)
	}
	if site.Owner() != f {
		return fault.Invalid("%s does not hold %s", f.Name(), site.Label())
	}
	return nil
}

func (c *Build) Program(ws *world.State) ([]Instruction, error) {
	f := ws.ActiveFaction()
	class := ws.Classes().Entity(c.ClassID)

	c.create = &createEntity{
		ClassID: c.ClassID,
		OwnerID: f.ID(),
		X:       c.X,
		Y:       c.Y,
		Place:   c.Place,
	}
	program := []Instruction{c.create}
	for varID, cost := range class.Cost {
		program = append(program, &setResource{
			FactionID: f.ID(),
			VarID:     varID,
			Value:     f.Resources.Value(varID) - cost,
		})
	}
	program = append(program, &message{Text: fmt.Sprintf("%s builds %s.", f.Name(), class.Name)})
	if c.Place {
		program = append(program, &mapView{X: c.X, Y: c.Y})
	}
	return program, nil
}
