package world

// References are stable, identity-carrying handles that survive across
// independent deep copies of a State. They deliberately do not extend the
// lifetime of their referent: resolution is an O(1) table lookup against
// whichever snapshot the caller holds, and yields nil once the referent is
// gone. The display name is cached at reference-creation time so a dead
// referent can still be named in messages.

// EntityRef identifies an entity across snapshots.
type EntityRef struct {
	ID   string
	Name string
}

// Ref returns a cross-snapshot reference to the entity.
func (e *Entity) Ref() EntityRef {
	return EntityRef{ID: e.id, Name: e.name}
}

// Resolve returns the referenced entity within ws, or nil when it no
// longer exists there.
func (r EntityRef) Resolve(ws *State) *Entity {
	if ws == nil {
		return nil
	}
	return ws.entities[r.ID]
}

// FactionRef identifies a faction across snapshots.
type FactionRef struct {
	ID   string
	Name string
}

// Ref returns a cross-snapshot reference to the faction.
func (f *Faction) Ref() FactionRef {
	return FactionRef{ID: f.id, Name: f.Name()}
}

// Resolve returns the referenced faction within ws, or nil when it has
// been removed there.
func (r FactionRef) Resolve(ws *State) *Faction {
	if ws == nil {
		return nil
	}
	for _, f := range ws.factions {
		if f.id == r.ID {
			return f
		}
	}
	return nil
}

// SiteRef identifies a map cell across snapshots. Sites are fixed, so a
// SiteRef only fails to resolve against a differently sized map.
type SiteRef struct {
	X    int
	Y    int
	Name string
}

// Ref returns a cross-snapshot reference to the site.
func (s *Site) Ref() SiteRef {
	return SiteRef{X: s.x, Y: s.y, Name: s.Label()}
}

// Resolve returns the referenced site within ws, or nil when the
// coordinate is out of bounds.
func (r SiteRef) Resolve(ws *State) *Site {
	if ws == nil {
		return nil
	}
	return ws.SiteAt(r.X, r.Y)
}
