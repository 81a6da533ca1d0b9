// Package engine hosts the command execution pipeline. It drives each
// command through its phases, hands instructions an execution context,
// sweeps defeat and victory once per command, and records the survivors
// in the world's history log.
package engine

import (
	"github.com/nathoo/warcore/engine/command"
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/world"
)

// Engine executes commands against one world. It is synchronous and
// single-threaded; computer players evaluate candidate commands on
// clones with a nil notifier.
type Engine struct {
	ws     *world.State
	notify func(command.Event)
	queue  []command.Command
}

// New wraps a world for command execution. notify may be nil for silent
// evaluation.
func New(ws *world.State, notify func(command.Event)) *Engine {
	return &Engine{ws: ws, notify: notify}
}

// World returns the engine's world.
func (e *Engine) World() *world.State { return e.ws }

// Execute runs one command through the full pipeline, then drains any
// commands the program queued. Validation failures leave the world
// untouched and unrecorded; instruction failures after validation are
// engine defects and surface as invariant errors.
func (e *Engine) Execute(cmd command.Command) error {
	if err := e.run(cmd); err != nil {
		return err
	}
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		if err := e.run(next); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) run(cmd command.Command) error {
	if e.ws.GameOver() {
		return fault.Invalid("the game is over")
	}

	if err := cmd.Validate(e.ws); err != nil {
		return err
	}
	if err := cmd.Advance(command.Validated); err != nil {
		return err
	}

	program, err := cmd.Program(e.ws)
	if err != nil {
		return err
	}
	if err := cmd.Advance(command.Expanded); err != nil {
		return err
	}

	ctx := &command.Context{
		World:  e.ws,
		Queue:  e.enqueue,
		Notify: e.notify,
	}
	for _, in := range program {
		if _, err := in.Execute(ctx); err != nil {
			if fault.IsInvariant(err) {
				return err
			}
			// Validation vouched for the whole program; a mid-program
			// rejection means the world is part-way mutated.
			return fault.Invariant("instruction %s failed after validation: %v", in.Type(), err)
		}
	}
	if err := cmd.Advance(command.Executed); err != nil {
		return err
	}

	if err := e.ws.CheckDefeat(); err != nil {
		return err
	}
	if err := e.ws.CheckVictory(); err != nil {
		return err
	}

	raw, err := command.Encode(cmd)
	if err != nil {
		return err
	}
	if err := e.ws.History.AddCommand(raw, e.ws.Turn()); err != nil {
		return err
	}
	return cmd.Advance(command.Recorded)
}

// enqueue is the queue callback handed to instructions. Turn brackets
// belong to the turn driver and are rejected here.
func (e *Engine) enqueue(cmd command.Command) error {
	if command.IsTurnBracket(cmd) {
		return fault.Invalid("%s commands cannot be queued", cmd.Type())
	}
	e.queue = append(e.queue, cmd)
	return nil
}

// Start opens the first faction's turn. Call once, after Initialize and
// before any player command.
func (e *Engine) Start() error {
	f := e.ws.ActiveFaction()
	if f == nil {
		return fault.Invalid("no faction is active")
	}
	return e.Execute(command.NewBeginTurn(f.ID()))
}

// EndTurn closes the active faction's turn and opens the next one. Both
// brackets land in the history log, so replays walk the same boundary.
func (e *Engine) EndTurn() error {
	f := e.ws.ActiveFaction()
	if f == nil {
		return fault.Invalid("no faction is active")
	}
	if err := e.Execute(command.NewEndTurn(f.ID())); err != nil {
		return err
	}
	if e.ws.GameOver() {
		return nil
	}
	next := e.ws.ActiveFaction()
	if next == nil {
		return nil
	}
	return e.Execute(command.NewBeginTurn(next.ID()))
}
