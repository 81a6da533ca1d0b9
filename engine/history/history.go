// Package history implements the append-only command log and the
// per-object event trails that make every game replayable from its
// initial configuration.
package history

import (
	"encoding/json"

	"github.com/nathoo/warcore/engine/fault"
)

// CommandRecord is one executed command in the log: the turn it ran on and
// its serialized wire element.
type CommandRecord struct {
	Turn    int             `json:"turn"`
	Element json.RawMessage `json:"element"`
}

// History is the full record of a game: the ordered command log, the
// completed-turn counter, and per-object event trails.
type History struct {
	Commands  []CommandRecord `json:"commands"`
	FullTurns int             `json:"fullTurns"`

	Entities map[string]*EntityHistory  `json:"-"`
	Factions map[string]*FactionHistory `json:"-"`
}

// New creates an empty history.
func New() *History {
	return &History{
		Entities: map[string]*EntityHistory{},
		Factions: map[string]*FactionHistory{},
	}
}

// AddCommand appends a serialized command executed on the given turn.
// FullTurns advances when turn exceeds it by exactly one; a larger jump or
// a regression is a programmer error.
func (h *History) AddCommand(element json.RawMessage, turn int) error {
	switch {
	case turn == h.FullTurns:
		// Mid-turn command.
	case turn == h.FullTurns+1:
		h.FullTurns = turn
	default:
		return fault.Invariant("command turn %d does not follow full turns %d", turn, h.FullTurns)
	}
	h.Commands = append(h.Commands, CommandRecord{Turn: turn, Element: element})
	return nil
}

// AddCommands merges a possibly-longer history from a remote or alternate
// source. Histories that are behind the current one (fewer commands or
// fewer full turns) are rejected. It reports whether anything changed; an
// already-subsumed equal history is a no-op.
func (h *History) AddCommands(other *History) (bool, error) {
	if other == nil {
		return false, fault.Invariant("AddCommands requires a history")
	}
	if other.FullTurns < h.FullTurns || len(other.Commands) < len(h.Commands) {
		return false, fault.Invariant("merged history is behind: %d/%d commands, %d/%d turns",
			len(other.Commands), len(h.Commands), other.FullTurns, h.FullTurns)
	}
	if other.FullTurns == h.FullTurns && len(other.Commands) == len(h.Commands) {
		return false, nil
	}
	for _, rec := range other.Commands[len(h.Commands):] {
		h.Commands = append(h.Commands, CommandRecord{Turn: rec.Turn, Element: rec.Element})
	}
	h.FullTurns = other.FullTurns
	return true, nil
}

// EntityFor returns the event trail for an entity ID, creating it on first
// use.
func (h *History) EntityFor(id string) *EntityHistory {
	eh, ok := h.Entities[id]
	if !ok {
		eh = &EntityHistory{ID: id}
		h.Entities[id] = eh
	}
	return eh
}

// FactionFor returns the event trail for a faction ID, creating it on
// first use.
func (h *History) FactionFor(id string) *FactionHistory {
	fh, ok := h.Factions[id]
	if !ok {
		fh = &FactionHistory{ID: id}
		h.Factions[id] = fh
	}
	return fh
}

// Clone returns an independent deep copy.
func (h *History) Clone() *History {
	out := New()
	out.FullTurns = h.FullTurns
	out.Commands = make([]CommandRecord, len(h.Commands))
	copy(out.Commands, h.Commands)
	for id, eh := range h.Entities {
		out.Entities[id] = eh.clone()
	}
	for id, fh := range h.Factions {
		out.Factions[id] = fh.clone()
	}
	return out
}
