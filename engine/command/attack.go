package command

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/finder"
	"github.com/nathoo/warcore/engine/world"
)

func init() {
	register("attack", func(data json.RawMessage) (Command, error) {
		c := &Attack{}
		if err := json.Unmarshal(data, &c.attackData); err != nil {
			return nil, fault.Invalid("malformed attack command: %v", err)
		}
		return c, nil
	})
}

type attackData struct {
	AttackerID string `json:"attacker"`
	TargetID   string `json:"target"`
}

// Attack has one unit strike an enemy unit in range. Damage comes off
// the target's hits resource; depletion removes it from the world. The
// attacker's remaining movement is spent.
type Attack struct {
	base
	attackData
}

// NewAttack builds an attack command.
func NewAttack(attackerID, targetID string) *Attack {
	return &Attack{attackData: attackData{AttackerID: attackerID, TargetID: targetID}}
}

func (c *Attack) Type() string { return "attack" }

func (c *Attack) Element() (Element, error) { return makeElement(c.Type(), c.attackData) }

func (c *Attack) resolve(ws *world.State) (attacker, target *world.Entity, err error) {
	f := ws.ActiveFaction()
	if f == nil {
		return nil, nil, fault.Invalid("no faction is active")
	}
	if attacker, err = requireEntity(ws, c.AttackerID); err != nil {
		return nil, nil, err
	}
	if target, err = requireEntity(ws, c.TargetID); err != nil {
		return nil, nil, err
	}
	if attacker.Owner() != f {
		return nil, nil, fault.Invalid("%s does not command %s", f.Name(), attacker.Name())
	}
	if target.Owner() == f {
		return nil, nil, fault.Invalid("%s fights for %s", target.Name(), f.Name())
	}
	return attacker, target, nil
}

func (c *Attack) Validate(ws *world.State) error {
	attacker, target, err := c.resolve(ws)
	if err != nil {
		return err
	}
	if attacker.Counters.Value(world.VarMovement) < 1 {
		return fault.Invalid("%s has no movement left", attacker.Name())
	}
	ok, err := finder.New(ws).AreUnitsInAttackRange(attacker, target)
	if err != nil {
		return err
	}
	if !ok {
		return fault.Invalid("%s cannot reach %s", attacker.Name(), target.Name())
	}
	return nil
}

func (c *Attack) Program(ws *world.State) ([]Instruction, error) {
	attacker, target, err := c.resolve(ws)
	if err != nil {
		return nil, err
	}

	// The swing is rolled here; replays re-program against the same RNG
	// position and land the identical blow.
	strength := attacker.Attributes.Value(world.VarStrength)
	damage := strength + ws.RNG.Roll(6) - 3
	if damage < 1 {
		damage = 1
	}
	remaining := target.Resources.Value(world.VarHits) - damage

	program := []Instruction{
		&setVariable{EntityID: target.ID(), VarID: world.VarHits, Value: remaining},
		&setCounter{EntityID: attacker.ID(), VarID: world.VarMovement, Value: 0},
	}
	text := fmt.Sprintf("%s hits %s for %d.", attacker.Name(), target.Name(), damage)
	if remaining <= 0 {
		text = fmt.Sprintf("%s destroys %s.", attacker.Name(), target.Name())
	}
	program = append(program, &message{Text: text})
	if target.Placed() {
		s := target.Site()
		program = append(program, &mapView{X: s.X(), Y: s.Y()})
	}
	return program, nil
}
