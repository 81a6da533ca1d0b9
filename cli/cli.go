package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/warcore/engine"
	"github.com/nathoo/warcore/engine/command"
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/replay"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// CLI handles terminal interaction with the players. All factions share
// one terminal; the prompt names whose turn it is.
type CLI struct {
	Scenario *types.ScenarioDef
	In       io.Reader
	Out      io.Writer
	SaveDir  string
	// ScenarioName identifies the scenario inside save files.
	ScenarioName string
	// NewWorld builds a fresh initialized world for /load replays.
	NewWorld func() (*world.State, error)
	// EchoInput echoes each input line after the prompt, for script
	// playback.
	EchoInput bool

	eng    *engine.Engine
	gameID string
}

// New creates a CLI owning an engine over the given world.
func New(ws *world.State, scenarioName string) *CLI {
	home, _ := os.UserHomeDir()
	c := &CLI{
		Scenario:     ws.Scenario(),
		In:           os.Stdin,
		Out:          os.Stdout,
		SaveDir:      filepath.Join(home, ".warcore", "saves"),
		ScenarioName: scenarioName,
		gameID:       replay.NewGameID(),
	}
	c.eng = engine.New(ws, c.notify)
	return c
}

// Run starts the game loop: intro, opening turn, then prompt → parse →
// execute → print until the game ends or the terminal closes.
func (c *CLI) Run() error {
	if c.Scenario.Intro != "" {
		c.printLine(c.Scenario.Intro)
		c.printLine("")
	}
	if err := c.eng.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.In)
	for {
		ws := c.eng.World()
		if ws.GameOver() {
			c.printOutcome()
			return nil
		}
		c.print(fmt.Sprintf("%s> ", ws.ActiveFaction().Name()))
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil
			}
			continue
		}
		c.step(input)
	}
}

// step parses and executes one game command line.
func (c *CLI) step(input string) {
	intent, err := Parse(input)
	if err != nil {
		c.printSystem(err.Error())
		return
	}

	ws := c.eng.World()
	f := ws.ActiveFaction()
	switch intent.Kind {
	case IntentNone:
		return
	case IntentEndTurn:
		err = c.eng.EndTurn()
	case IntentResign:
		err = c.eng.Execute(command.NewResign(f.ID()))
	case IntentBuild:
		if intent.Place {
			err = c.eng.Execute(command.NewBuild(intent.ClassID, intent.X, intent.Y))
		} else {
			err = c.eng.Execute(command.NewBuildUpgrade(intent.ClassID))
		}
	case IntentMove:
		err = c.eng.Execute(command.NewMove(intent.UnitIDs, intent.X, intent.Y))
	case IntentAttack:
		err = c.eng.Execute(command.NewAttack(intent.UnitIDs[0], intent.UnitIDs[1]))
	}

	if err != nil {
		if fault.IsInvalid(err) {
			c.printLine(err.Error())
		} else {
			c.printSystem(fmt.Sprintf("engine error: %v", err))
		}
	}
}

// notify renders instruction events as they execute.
func (c *CLI) notify(ev command.Event) {
	switch ev.Kind {
	case command.EventMessage:
		c.printLine(ev.Text)
	case command.EventMapView:
		// The plain terminal has no viewport to scroll; ignored.
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should
// exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/save":
		c.cmdSave(arg)
	case "/load":
		c.cmdLoad(arg)
	case "/map":
		c.printLine(c.renderMap())
	case "/factions":
		c.cmdFactions()
	case "/history":
		c.cmdHistory()
	case "/help":
		c.cmdHelp()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	data, err := replay.Marshal(replay.Snapshot(c.eng.World(), c.ScenarioName, c.gameID))
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if c.NewWorld == nil {
		c.printSystem("Loading is not available in this session.")
		return
	}
	if name == "" {
		name = "quicksave"
	}
	data, err := os.ReadFile(filepath.Join(c.SaveDir, name+".json"))
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	save, err := replay.Unmarshal(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	if save.Scenario != c.ScenarioName {
		c.printSystem(fmt.Sprintf("Save %s belongs to scenario %q.", name, save.Scenario))
		return
	}

	ws, err := c.NewWorld()
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	// Replay silently; the rebuilt world's events already happened.
	eng := engine.New(ws, nil)
	if err := save.Apply(eng); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.eng = engine.New(ws, c.notify)
	c.gameID = save.Game
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, ws.Turn()+1))
	c.printLine(c.renderMap())
}

func (c *CLI) cmdFactions() {
	ws := c.eng.World()
	for i, f := range ws.Factions() {
		marker := " "
		if i == ws.ActiveFactionIndex() {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-12s size %-3d strength %-4d", marker, f.Name(), f.Size(), f.Strength())
		c.printLine(line + formatResources(f))
	}
}

func (c *CLI) cmdHistory() {
	h := c.eng.World().History
	c.printSystem(fmt.Sprintf("%d command(s), %d full turn(s)", len(h.Commands), h.FullTurns))
	for _, rec := range h.Commands {
		el, err := command.DescribeElement(rec.Element)
		if err != nil {
			el = "?"
		}
		c.printLine(fmt.Sprintf("  turn %d  %s", rec.Turn+1, el))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /map          — Draw the map",
		"  /factions     — List factions, sizes, resources",
		"  /history      — Show the command log",
		"  /quit         — Exit",
		"",
		"Game commands:",
		"  build <class> [x y]        (b) — Build on an owned site, or an upgrade",
		"  move <unit> [unit...] x y  (m) — Move units to a reachable site",
		"  attack <attacker> <target> (a) — Attack an enemy unit in range",
		"  end                        (e) — End your turn",
		"  resign                         — Concede the game",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printOutcome() {
	ws := c.eng.World()
	if w := ws.Winner(); w != nil {
		c.printLine(fmt.Sprintf("%s wins on turn %d.", w.Name(), ws.Turn()+1))
	} else {
		c.printLine(fmt.Sprintf("The game ends in a draw on turn %d.", ws.Turn()+1))
	}
}

func (c *CLI) printLine(text string) { fmt.Fprintln(c.Out, text) }

func (c *CLI) print(text string) { fmt.Fprint(c.Out, text) }

func (c *CLI) printSystem(text string) { fmt.Fprintf(c.Out, "[%s]\n", text) }
