package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/warcore/engine/variable"
)

// renderStatusBar produces a full-width inverted status line showing the
// turn, the active faction, and its resources.
func (m Model) renderStatusBar() string {
	ws := m.eng.World()

	var left string
	switch {
	case ws.GameOver() && ws.Winner() != nil:
		left = fmt.Sprintf(" %s wins", ws.Winner().Name())
	case ws.GameOver():
		left = " Draw"
	default:
		f := ws.ActiveFaction()
		var res []string
		f.Resources.Each(func(v variable.Variable) bool {
			res = append(res, fmt.Sprintf("%s %d", v.Class.ID, v.Value))
			return true
		})
		left = fmt.Sprintf(" %s | %s", f.Name(), strings.Join(res, "  "))
	}
	right := fmt.Sprintf("Turn %d ", ws.Turn()+1)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
