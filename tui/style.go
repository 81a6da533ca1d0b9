package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/warcore/engine/world"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleNeutral = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleFocus = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// colorByName maps the color names scenarios use to terminal colors.
var colorByName = map[string]lipgloss.Color{
	"red":    "203",
	"blue":   "75",
	"green":  "114",
	"yellow": "221",
	"purple": "135",
	"cyan":   "51",
	"orange": "208",
	"white":  "255",
	"gray":   "245",
}

// factionPalette assigns colors to factions whose class names no color.
var factionPalette = []lipgloss.Color{"203", "75", "114", "221", "135", "51", "208", "255"}

// factionStyle returns the render style for one faction's units and
// ground, preferring the scenario's declared color.
func factionStyle(f *world.Faction, idx int) lipgloss.Style {
	if c, ok := colorByName[f.Class().Color]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(factionPalette[idx%len(factionPalette)])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
