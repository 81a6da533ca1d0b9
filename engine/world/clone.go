package world

// Clone produces a fully independent deep copy of the world for AI search
// and replay. Factions, sites, and entities are copied transitively and
// every ownership and occupancy edge is re-linked, so no reference into
// the parent state survives. Immutable class definitions and behavior
// variants are shared; variable containers share storage copy-on-write.
func (ws *State) Clone() *State {
	out := &State{
		cache:         ws.cache,
		scenario:      ws.scenario,
		factory:       ws.factory,
		entities:      make(map[string]*Entity, len(ws.entities)),
		classCounts:   make(map[string]int, len(ws.classCounts)),
		turn:          ws.turn,
		active:        ws.active,
		gameOver:      ws.gameOver,
		History:       ws.History.Clone(),
		RNG:           ws.RNG.Clone(),
		needValuation: ws.needValuation,
	}
	for id, n := range ws.classCounts {
		out.classCounts[id] = n
	}

	factionOf := make(map[*Faction]*Faction, len(ws.factions))
	for _, f := range ws.factions {
		nf := &Faction{
			id:        f.id,
			class:     f.class,
			Counters:  f.Counters.Clone(),
			Resources: f.Resources.Clone(),
			resigned:  f.resigned,
			settings:  f.settings,
			built:     make(map[string]int, len(f.built)),
		}
		for id, n := range f.built {
			nf.built[id] = n
		}
		out.factions = append(out.factions, nf)
		factionOf[f] = nf
	}
	if ws.winner != nil {
		out.winner = factionOf[ws.winner]
	}

	siteOf := make(map[*Site]*Site, len(ws.grid)*ws.Width())
	out.grid = make([][]*Site, len(ws.grid))
	for y, row := range ws.grid {
		out.grid[y] = make([]*Site, len(row))
		for x, site := range row {
			ns := &Site{
				x:            site.x,
				y:            site.y,
				valuation:    site.valuation,
				blocksAttack: site.blocksAttack,
				dirty:        site.dirty,
			}
			out.grid[y][x] = ns
			siteOf[site] = ns
		}
	}

	entityOf := make(map[*Entity]*Entity, len(ws.entities))
	for id, e := range ws.entities {
		ne := e.clone()
		out.entities[id] = ne
		entityOf[e] = ne
	}

	// Re-link every edge through the translation maps.
	for e, ne := range entityOf {
		if e.owner != nil {
			ne.owner = factionOf[e.owner]
		}
		if e.site != nil {
			ne.site = siteOf[e.site]
		}
	}
	for site, ns := range siteOf {
		if site.owner != nil {
			ns.owner = factionOf[site.owner]
		}
		ns.terrains = mapEntities(site.terrains, entityOf)
		ns.units = mapEntities(site.units, entityOf)
		ns.effects = mapEntities(site.effects, entityOf)
	}
	for f, nf := range factionOf {
		nf.units = mapEntities(f.units, entityOf)
		nf.terrains = mapEntities(f.terrains, entityOf)
		nf.effects = mapEntities(f.effects, entityOf)
		nf.upgrades = mapEntities(f.upgrades, entityOf)
		for _, site := range f.sites {
			nf.sites = append(nf.sites, siteOf[site])
		}
		if f.home != nil {
			nf.home = siteOf[f.home]
		}
	}
	return out
}

func mapEntities(src []*Entity, entityOf map[*Entity]*Entity) []*Entity {
	if len(src) == 0 {
		return nil
	}
	out := make([]*Entity, len(src))
	for i, e := range src {
		out[i] = entityOf[e]
	}
	return out
}
