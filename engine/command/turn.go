package command

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

// Turn brackets are commands like any other so the log replays turn
// boundaries exactly, but they are only issued by the engine's turn
// driver — instruction queues reject them.

func init() {
	register("beginTurn", func(data json.RawMessage) (Command, error) {
		c := &BeginTurn{}
		if err := json.Unmarshal(data, &c.turnData); err != nil {
			return nil, fault.Invalid("malformed beginTurn command: %v", err)
		}
		return c, nil
	})
	register("endTurn", func(data json.RawMessage) (Command, error) {
		c := &EndTurn{}
		if err := json.Unmarshal(data, &c.turnData); err != nil {
			return nil, fault.Invalid("malformed endTurn command: %v", err)
		}
		return c, nil
	})
}

type turnData struct {
	FactionID string `json:"faction"`
}

// BeginTurn opens a faction's turn: the advance is recorded, site income
// is credited, and unit movement counters reset.
type BeginTurn struct {
	base
	turnData
}

// NewBeginTurn builds the opening bracket for a faction's turn.
func NewBeginTurn(factionID string) *BeginTurn {
	return &BeginTurn{turnData: turnData{FactionID: factionID}}
}

func (c *BeginTurn) Type() string { return "beginTurn" }

func (c *BeginTurn) Element() (Element, error) { return makeElement(c.Type(), c.turnData) }

func (c *BeginTurn) Validate(ws *world.State) error {
	f := ws.ActiveFaction()
	if f == nil {
		return fault.Invalid("no faction is active")
	}
	if f.ID() != c.FactionID {
		return fault.Invalid("it is not %s's turn", c.FactionID)
	}
	return nil
}

func (c *BeginTurn) Program(ws *world.State) ([]Instruction, error) {
	f := ws.ActiveFaction()
	return []Instruction{
		&beginFaction{FactionID: c.FactionID},
		&message{Text: fmt.Sprintf("Turn %d: %s to move.", ws.Turn()+1, f.Name())},
	}, nil
}

// EndTurn closes a faction's turn and rotates the active faction.
type EndTurn struct {
	base
	turnData
}

// NewEndTurn builds the closing bracket for a faction's turn.
func NewEndTurn(factionID string) *EndTurn {
	return &EndTurn{turnData: turnData{FactionID: factionID}}
}

func (c *EndTurn) Type() string { return "endTurn" }

func (c *EndTurn) Element() (Element, error) { return makeElement(c.Type(), c.turnData) }

func (c *EndTurn) Validate(ws *world.State) error {
	f := ws.ActiveFaction()
	if f == nil {
		return fault.Invalid("no faction is active")
	}
	if f.ID() != c.FactionID {
		return fault.Invalid("it is not %s's turn", c.FactionID)
	}
	return nil
}

func (c *EndTurn) Program(ws *world.State) ([]Instruction, error) {
	return []Instruction{&advanceFaction{}}, nil
}

// IsTurnBracket reports whether the command is one of the turn-boundary
// brackets, which only the turn driver may issue.
func IsTurnBracket(cmd Command) bool {
	switch cmd.(type) {
	case *BeginTurn, *EndTurn:
		return true
	}
	return false
}
