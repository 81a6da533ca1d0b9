package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/warcore/engine/variable"
	"github.com/nathoo/warcore/engine/world"
)

// renderMap draws the site grid as text. Each cell is two characters:
// what stands there and who holds the ground. Units show as the upper
// first letter of their class, placed foreground terrain as the upper
// first letter, background terrain as the lower one. The second
// character is the owning faction's index, or '.' for neutral ground.
func (c *CLI) renderMap() string {
	ws := c.eng.World()
	ownerIdx := map[*world.Faction]int{}
	for i, f := range ws.Factions() {
		ownerIdx[f] = i
	}

	var b strings.Builder
	for y := 0; y < ws.Height(); y++ {
		for x := 0; x < ws.Width(); x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(siteCell(ws.SiteAt(x, y), ownerIdx))
		}
		b.WriteByte('\n')
	}
	for i, f := range ws.Factions() {
		fmt.Fprintf(&b, "%d=%s ", i, f.Name())
	}
	return strings.TrimRight(b.String(), " \n")
}

func siteCell(s *world.Site, ownerIdx map[*world.Faction]int) string {
	symbol := byte('?')
	switch {
	case len(s.Units()) > 0:
		symbol = upperInitial(s.Units()[0].Class().ID)
	case len(s.Terrains()) > 1:
		// Foreground terrain sits above the background at index 0.
		symbol = upperInitial(s.Terrains()[1].Class().ID)
	case len(s.Terrains()) == 1:
		symbol = lowerInitial(s.Terrains()[0].Class().ID)
	}

	owner := byte('.')
	if f := s.Owner(); f != nil {
		owner = byte('0' + ownerIdx[f]%10)
	}
	return string([]byte{symbol, owner})
}

func upperInitial(id string) byte {
	if id == "" {
		return '?'
	}
	ch := id[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	return ch
}

func lowerInitial(id string) byte {
	if id == "" {
		return '?'
	}
	ch := id[0]
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	return ch
}

// formatResources lists a faction's resources as "  gold 100  iron 20".
func formatResources(f *world.Faction) string {
	var b strings.Builder
	f.Resources.Each(func(v variable.Variable) bool {
		fmt.Fprintf(&b, "  %s %d", v.Class.ID, v.Value)
		return true
	})
	return b.String()
}
