package world

import (
	"github.com/nathoo/warcore/engine/variable"
	"github.com/nathoo/warcore/types"
)

// RecomputeModifiers rebuilds every unit's modifier map from the effects
// and upgrades that apply to it, then imports the combined attribute
// values. Effect classes contribute their attribute values as deltas to
// units sharing their site; upgrade classes contribute to every unit of
// their owner. Containers that end up unchanged keep their shared storage.
func (ws *State) RecomputeModifiers() {
	for _, e := range ws.entities {
		if e.Kind() != types.KindUnit {
			continue
		}
		mods := map[string]int{}
		if e.site != nil {
			for _, eff := range e.site.effects {
				for classID, delta := range eff.Class().Attributes {
					mods[classID] += delta
				}
			}
		}
		if e.owner != nil {
			for _, up := range e.owner.upgrades {
				for classID, delta := range up.Class().Attributes {
					mods[classID] += delta
				}
			}
		}
		e.Modifiers = mods

		// Attributes derive from initial + modifiers, clamped by class.
		combined := map[string]int{}
		e.Attributes.Each(func(v variable.Variable) bool {
			combined[v.Class.ID] = v.Initial + mods[v.Class.ID]
			return true
		})
		e.Attributes.ImportChanges(combined)
	}
}
