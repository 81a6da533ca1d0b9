package tui

import (
	"strings"

	"github.com/nathoo/warcore/engine/world"
)

// renderMap draws the site grid in faction colors. Each cell is the
// upper first letter of the topmost unit's class, the upper letter of a
// placed foreground terrain, or the lower letter of the background,
// tinted with the owning faction's color. The focused site (last
// mapView event) renders bold.
func (m Model) renderMap() string {
	ws := m.eng.World()

	styles := make(map[*world.Faction]int)
	for i, f := range ws.Factions() {
		styles[f] = i
	}

	var b strings.Builder
	for y := 0; y < ws.Height(); y++ {
		for x := 0; x < ws.Width(); x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			s := ws.SiteAt(x, y)
			cell := siteGlyph(s)
			style := styleNeutral
			if f := s.Owner(); f != nil {
				style = factionStyle(f, styles[f])
			}
			if m.shared.focusSet && m.shared.focusX == x && m.shared.focusY == y {
				style = style.Inherit(styleFocus)
			}
			b.WriteString(style.Render(cell))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func siteGlyph(s *world.Site) string {
	switch {
	case len(s.Units()) > 0:
		return upperInitial(s.Units()[0].Class().ID)
	case len(s.Terrains()) > 1:
		return upperInitial(s.Terrains()[1].Class().ID)
	case len(s.Terrains()) == 1:
		return lowerInitial(s.Terrains()[0].Class().ID)
	}
	return "?"
}

func upperInitial(id string) string {
	if id == "" {
		return "?"
	}
	return strings.ToUpper(id[:1])
}

func lowerInitial(id string) string {
	if id == "" {
		return "?"
	}
	return strings.ToLower(id[:1])
}

// renderLegend lists the factions under the map, each in its color.
func (m Model) renderLegend() string {
	ws := m.eng.World()
	parts := make([]string, 0, len(ws.Factions()))
	for i, f := range ws.Factions() {
		name := f.Name()
		if i == ws.ActiveFactionIndex() {
			name = "*" + name
		}
		parts = append(parts, factionStyle(f, i).Render(name))
	}
	return strings.Join(parts, "  ")
}
