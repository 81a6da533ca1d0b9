package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/warcore/cli"
	"github.com/nathoo/warcore/engine"
	"github.com/nathoo/warcore/engine/command"
	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/replay"
	"github.com/nathoo/warcore/engine/world"
)

// session holds the state shared across Bubble Tea's value copies of
// the model: the notifier writes here while commands execute.
type session struct {
	events         []string
	focusX, focusY int
	focusSet       bool
}

// rawLine stores an unstyled log line with its classification, so the
// log re-styles cleanly when the terminal is resized.
type rawLine struct {
	text     string
	isInput  bool
	isSystem bool
	isError  bool
}

// gameOutputMsg carries output lines into the Update loop.
type gameOutputMsg struct {
	input    string
	lines    []string
	isSystem bool
	isError  bool
}

// Model is the Bubble Tea model for the WarCore TUI.
type Model struct {
	eng    *engine.Engine
	shared *session

	scenarioName string
	saveDir      string
	gameID       string

	viewport viewport.Model
	input    textinput.Model
	rec      *recall
	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
}

// New creates a TUI model owning an engine over the given world.
func New(ws *world.State, scenarioName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	shared := &session{}
	home, _ := os.UserHomeDir()
	return Model{
		eng:          engine.New(ws, shared.notify),
		shared:       shared,
		scenarioName: scenarioName,
		saveDir:      filepath.Join(home, ".warcore", "saves"),
		gameID:       replay.NewGameID(),
		input:        ti,
		rec:          newRecall(100),
	}
}

// Run starts the Bubble Tea program.
func Run(ws *world.State, scenarioName string) error {
	p := tea.NewProgram(New(ws, scenarioName), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (s *session) notify(ev command.Event) {
	switch ev.Kind {
	case command.EventMessage:
		s.events = append(s.events, ev.Text)
	case command.EventMapView:
		s.focusX, s.focusY = ev.X, ev.Y
		s.focusSet = true
	}
}

// drain collects the events the last command produced.
func (s *session) drain() []string {
	out := s.events
	s.events = nil
	return out
}

// Init opens the first faction's turn.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		var lines []string
		scn := m.eng.World().Scenario()
		lines = append(lines, scn.Title+" v"+scn.Version)
		if scn.Intro != "" {
			lines = append(lines, "", scn.Intro)
		}
		if err := m.eng.Start(); err != nil {
			return gameOutputMsg{lines: []string{err.Error()}, isError: true}
		}
		return gameOutputMsg{lines: append(lines, m.shared.drain()...)}
	})
}

// Update handles key presses, window resizes, and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - m.mapHeight() - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "up":
			if prev, ok := m.rec.older(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if next, ok := m.rec.newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil
		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)
	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.rec.push(input)

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	lines, isErr := m.step(input)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines, isError: isErr})
	return m, nil
}

// step parses and executes one game command line, returning the lines
// to log.
func (m Model) step(input string) ([]string, bool) {
	intent, err := cli.Parse(input)
	if err != nil {
		return []string{err.Error()}, true
	}

	ws := m.eng.World()
	if ws.GameOver() {
		return []string{"The game is over."}, true
	}
	f := ws.ActiveFaction()
	switch intent.Kind {
	case cli.IntentNone:
		return nil, false
	case cli.IntentEndTurn:
		err = m.eng.EndTurn()
	case cli.IntentResign:
		err = m.eng.Execute(command.NewResign(f.ID()))
	case cli.IntentBuild:
		if intent.Place {
			err = m.eng.Execute(command.NewBuild(intent.ClassID, intent.X, intent.Y))
		} else {
			err = m.eng.Execute(command.NewBuildUpgrade(intent.ClassID))
		}
	case cli.IntentMove:
		err = m.eng.Execute(command.NewMove(intent.UnitIDs, intent.X, intent.Y))
	case cli.IntentAttack:
		err = m.eng.Execute(command.NewAttack(intent.UnitIDs[0], intent.UnitIDs[1]))
	}

	lines := m.shared.drain()
	if err != nil {
		if fault.IsInvalid(err) {
			return append(lines, err.Error()), true
		}
		return append(lines, fmt.Sprintf("engine error: %v", err)), true
	}
	return lines, false
}

// handleMeta dispatches meta-commands. Returns output lines and a quit
// flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch parts[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return m.cmdSave(arg), false
	case "/factions":
		return m.cmdFactions(), false
	case "/history":
		return m.cmdHistory(), false
	case "/help":
		return m.cmdHelp(), false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0])}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	data, err := replay.Marshal(replay.Snapshot(m.eng.World(), m.scenarioName, m.gameID))
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdFactions() []string {
	ws := m.eng.World()
	var out []string
	for i, f := range ws.Factions() {
		marker := " "
		if i == ws.ActiveFactionIndex() {
			marker = "*"
		}
		out = append(out, fmt.Sprintf("%s %-12s size %-3d strength %d", marker, f.Name(), f.Size(), f.Strength()))
	}
	return out
}

func (m *Model) cmdHistory() []string {
	h := m.eng.World().History
	out := []string{fmt.Sprintf("%d command(s), %d full turn(s)", len(h.Commands), h.FullTurns)}
	for _, rec := range h.Commands {
		el, err := command.DescribeElement(rec.Element)
		if err != nil {
			el = "?"
		}
		out = append(out, fmt.Sprintf("  turn %d  %s", rec.Turn+1, el))
	}
	return out
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /factions     — List factions and sizes",
		"  /history      — Show the command log",
		"  /quit         — Exit",
		"",
		"Game commands:",
		"  build <class> [x y]        (b)",
		"  move <unit> [unit...] x y  (m)",
		"  attack <attacker> <target> (a)",
		"  end                        (e)",
		"  resign",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: line, isSystem: msg.isSystem, isError: msg.isError})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-styles the whole log at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var styled []string
	for _, rl := range m.rawLines {
		switch {
		case rl.text == "":
			styled = append(styled, "")
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(rl.text))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(rl.text))
		case rl.isError:
			styled = append(styled, styleError.Render(rl.text))
		default:
			styled = append(styled, styleMessage.Render(rl.text))
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// mapHeight is the number of terminal rows the map pane occupies.
func (m Model) mapHeight() int {
	return m.eng.World().Height() + 1 // grid + legend
}

// View renders the layout: map, legend, log viewport, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.renderMap() + "\n" + m.renderLegend() + "\n" +
		m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled; those
// keys navigate input history instead.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
