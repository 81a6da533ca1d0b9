// Package command implements the player-facing command pipeline. A
// Command carries a validated intent (build, move, attack, resign, turn
// brackets) and expands into a program of atomic Instructions; only
// instructions mutate world state. Both levels serialize to named JSON
// elements so the command log replays byte-for-byte.
package command

import (
	"encoding/json"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

// Phase tracks a command's progress through the pipeline. Transitions
// are strictly forward and single-step.
type Phase int

const (
	Constructed Phase = iota
	Validated
	Expanded
	Executed
	Recorded
)

func (p Phase) String() string {
	switch p {
	case Constructed:
		return "constructed"
	case Validated:
		return "validated"
	case Expanded:
		return "expanded"
	case Executed:
		return "executed"
	case Recorded:
		return "recorded"
	}
	return "unknown"
}

// Command is one player-level intent. Commands never mutate world state
// themselves: Validate checks preconditions read-only, Program expands
// the command into the instruction sequence that performs it.
type Command interface {
	// Type is the command's stable wire name.
	Type() string
	// Phase returns the command's pipeline phase.
	Phase() Phase
	// Advance moves the command one phase forward. Skipping or
	// repeating a phase is an invariant violation.
	Advance(to Phase) error
	// Validate checks the command's preconditions against the world
	// without mutating it. Failures are invalid-command errors.
	Validate(ws *world.State) error
	// Program expands the command into its instruction sequence. It
	// may consult the world and the world's RNG but must not mutate
	// game state.
	Program(ws *world.State) ([]Instruction, error)
	// Element returns the command's wire representation.
	Element() (Element, error)
}

// Instruction is one atomic world mutation. Execute re-checks its own
// preconditions so a stale program fails cleanly instead of corrupting
// state; it reports whether anything changed.
type Instruction interface {
	// Type is the instruction's stable wire name.
	Type() string
	// Execute applies the mutation and reports whether state changed.
	Execute(ctx *Context) (bool, error)
}

// EventKind discriminates the user-visible notifications instructions
// emit while executing.
type EventKind int

const (
	// EventMessage carries narrative or reporting text.
	EventMessage EventKind = iota
	// EventMapView asks the front end to focus the map on a site.
	EventMapView
)

// Event is one user-visible notification produced during execution.
type Event struct {
	Kind EventKind
	Text string
	X, Y int
}

// Context is the execution environment handed to every instruction.
type Context struct {
	World *world.State
	// Queue enqueues a follow-up command to run after the current one.
	// Turn-bracket commands are rejected. Nil when queuing is
	// unavailable (direct instruction tests).
	Queue func(Command) error
	// Notify delivers a user-visible event. Nil during silent
	// evaluation, such as computer-player lookahead on a cloned world.
	Notify func(Event)
}

// Say delivers a message event when a notifier is attached.
func (ctx *Context) Say(text string) {
	if ctx.Notify != nil {
		ctx.Notify(Event{Kind: EventMessage, Text: text})
	}
}

// base carries the phase state machine shared by all commands.
type base struct {
	phase Phase
}

func (b *base) Phase() Phase { return b.phase }

func (b *base) Advance(to Phase) error {
	if to != b.phase+1 {
		return fault.Invariant("command phase cannot move from %s to %s", b.phase, to)
	}
	b.phase = to
	return nil
}

// Element is the named JSON envelope every command serializes to.
type Element struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func makeElement(name string, payload any) (Element, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Element{}, fault.Invariant("encoding %s element: %v", name, err)
	}
	return Element{Type: name, Data: data}, nil
}

// Encode serializes a command to its wire element.
func Encode(cmd Command) (json.RawMessage, error) {
	el, err := cmd.Element()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(el)
	if err != nil {
		return nil, fault.Invariant("encoding %s command: %v", cmd.Type(), err)
	}
	return raw, nil
}

// DescribeElement renders one logged wire element as a short line for
// history listings.
func DescribeElement(raw json.RawMessage) (string, error) {
	var el Element
	if err := json.Unmarshal(raw, &el); err != nil {
		return "", fault.Invalid("malformed command element: %v", err)
	}
	if len(el.Data) == 0 {
		return el.Type, nil
	}
	return el.Type + " " + string(el.Data), nil
}

// decoders maps wire names to payload decoders. Unknown names are
// skipped by Decode rather than registered lazily.
var decoders = map[string]func(json.RawMessage) (Command, error){}

func register(name string, fn func(json.RawMessage) (Command, error)) {
	decoders[name] = fn
}

// Decode deserializes one wire element back into a command. Elements
// with an unrecognized type decode to (nil, nil) so logs written by
// newer versions replay past features this build does not know.
func Decode(raw json.RawMessage) (Command, error) {
	var el Element
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, fault.Invalid("malformed command element: %v", err)
	}
	fn, ok := decoders[el.Type]
	if !ok {
		return nil, nil
	}
	return fn(el.Data)
}
