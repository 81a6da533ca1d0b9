// Package replay implements JSON serialization of a game and its
// reconstruction by replaying the command log against a freshly
// initialized world.
package replay

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nathoo/warcore/engine"
	"github.com/nathoo/warcore/engine/command"
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

// FormatVersion marks the save layout.
const FormatVersion = "1"

// Save is the JSON-serializable game format: scenario identity plus the
// complete command log. World state is not serialized; it is rebuilt
// deterministically by replay.
type Save struct {
	Version   string            `json:"version"`
	Scenario  string            `json:"scenario"`
	Game      string            `json:"game"`
	FullTurns int               `json:"full_turns"`
	Commands  []json.RawMessage `json:"commands"`
}

// NewGameID mints the identifier stored in a save file.
func NewGameID() string { return uuid.NewString() }

// Snapshot captures the world's command log into a save.
func Snapshot(ws *world.State, scenario, gameID string) *Save {
	s := &Save{
		Version:   FormatVersion,
		Scenario:  scenario,
		Game:      gameID,
		FullTurns: ws.History.FullTurns,
		Commands:  make([]json.RawMessage, 0, len(ws.History.Commands)),
	}
	for _, rec := range ws.History.Commands {
		s.Commands = append(s.Commands, rec.Element)
	}
	return s
}

// Marshal serializes a save to indented JSON.
func Marshal(s *Save) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a save.
func Unmarshal(data []byte) (*Save, error) {
	var s Save
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fault.Invalid("malformed save file: %v", err)
	}
	if s.Commands == nil {
		s.Commands = []json.RawMessage{}
	}
	return &s, nil
}

// Apply replays the save's command log through the engine. The engine
// must wrap a freshly initialized world for the same scenario, before
// Start. Elements with unknown types are skipped; the rebuilt history
// must reach the save's recorded turn count.
func (s *Save) Apply(eng *engine.Engine) error {
	for _, raw := range s.Commands {
		cmd, err := command.Decode(raw)
		if err != nil {
			return err
		}
		if cmd == nil {
			continue
		}
		if err := eng.Execute(cmd); err != nil {
			return err
		}
	}
	if got := eng.World().History.FullTurns; got != s.FullTurns {
		return fault.Invariant("replay reached turn %d, save recorded %d", got, s.FullTurns)
	}
	return nil
}
