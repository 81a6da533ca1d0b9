package command

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

func init() {
	register("resign", func(data json.RawMessage) (Command, error) {
		c := &Resign{}
		if err := json.Unmarshal(data, &c.resignData); err != nil {
			return nil, fault.Invalid("malformed resign command: %v", err)
		}
		return c, nil
	})
}

type resignData struct {
	FactionID string `json:"faction"`
}

// Resign concedes the game for a faction. The defeat sweep after the
// command removes it from play.
type Resign struct {
	base
	resignData
}

// NewResign builds a resignation command.
func NewResign(factionID string) *Resign {
	return &Resign{resignData: resignData{FactionID: factionID}}
}

func (c *Resign) Type() string { return "resign" }

func (c *Resign) Element() (Element, error) { return makeElement(c.Type(), c.resignData) }

func (c *Resign) Validate(ws *world.State) error {
	f := findFaction(ws, c.FactionID)
	if f == nil {
		return fault.Invalid("no such faction %q", c.FactionID)
	}
	if f != ws.ActiveFaction() {
		return fault.Invalid("%s can only resign on its own turn", f.Name())
	}
	return nil
}

func (c *Resign) Program(ws *world.State) ([]Instruction, error) {
	f := findFaction(ws, c.FactionID)
	return []Instruction{
		&resignFaction{FactionID: c.FactionID},
		&message{Text: fmt.Sprintf("%s resigns.", f.Name())},
	}, nil
}
