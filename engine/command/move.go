package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/finder"
	"github.com/nathoo/warcore/engine/world"
)

func init() {
	register("move", func(data json.RawMessage) (Command, error) {
		c := &Move{}
		if err := json.Unmarshal(data, &c.moveData); err != nil {
			return nil, fault.Invalid("malformed move command: %v", err)
		}
		return c, nil
	})
}

type moveData struct {
	UnitIDs []string `json:"units"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
}

// Move walks a group of co-located units to a reachable site, spending
// their moves-left counters by the path cost. Arriving on an unowned
// site captures it.
type Move struct {
	base
	moveData
}

// NewMove builds a movement command for one or more units.
func NewMove(unitIDs []string, x, y int) *Move {
	return &Move{moveData: moveData{UnitIDs: unitIDs, X: x, Y: y}}
}

func (c *Move) Type() string { return "move" }

func (c *Move) Element() (Element, error) { return makeElement(c.Type(), c.moveData) }

func (c *Move) resolve(ws *world.State) ([]*world.Entity, error) {
	f := ws.ActiveFaction()
	if f == nil {
		return nil, fault.Invalid("no faction is active")
	}
	if len(c.UnitIDs) == 0 {
		return nil, fault.Invalid("move needs at least one unit")
	}
	units := make([]*world.Entity, 0, len(c.UnitIDs))
	for _, id := range c.UnitIDs {
		e, err := requireEntity(ws, id)
		if err != nil {
			return nil, err
		}
		units = append(units, e)
	}
	if units[0].Owner() != f {
		return nil, fault.Invalid("%s does not command %s", f.Name(), units[0].Name())
	}
	return units, nil
}

func (c *Move) Validate(ws *world.State) error {
	units, err := c.resolve(ws)
	if err != nil {
		return err
	}
	// Agent construction enforces that the group is placed, co-located,
	// and single-owner.
	agent, err := finder.NewUnitAgent(ws, units)
	if err != nil {
		return err
	}
	target, err := requireSite(ws, c.X, c.Y)
	if err != nil {
		return err
	}
	path, err := finder.New(ws).Path(units, target)
	if err != nil {
		return err
	}
	if path.Cost > agent.Movement() {
		return fault.Invalid("%s is out of reach this turn", target.Label())
	}
	return nil
}

func (c *Move) Program(ws *world.State) ([]Instruction, error) {
	units, err := c.resolve(ws)
	if err != nil {
		return nil, err
	}
	f := ws.ActiveFaction()
	target, err := requireSite(ws, c.X, c.Y)
	if err != nil {
		return nil, err
	}
	path, err := finder.New(ws).Path(units, target)
	if err != nil {
		return nil, err
	}

	var program []Instruction
	names := make([]string, 0, len(units))
	for _, u := range units {
		program = append(program,
			&placeEntity{EntityID: u.ID(), X: c.X, Y: c.Y, Place: true},
			&setCounter{
				EntityID: u.ID(),
				VarID:    world.VarMovement,
				Value:    u.Counters.Value(world.VarMovement) - path.Cost,
			},
		)
		names = append(names, u.Name())
	}
	if target.Owner() != f {
		program = append(program, &captureSite{X: c.X, Y: c.Y, FactionID: f.ID()})
	}
	program = append(program,
		&message{Text: fmt.Sprintf("%s moves to %s.", strings.Join(names, ", "), target.Label())},
		&mapView{X: c.X, Y: c.Y},
	)
	return program, nil
}
