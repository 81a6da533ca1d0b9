package world_test

import (
	"testing"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/rules"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// testScenario builds a small two-faction scenario in code: a 5x5 plains
// map, a warrior unit class, a castle terrain, a banner effect, and a
// steel upgrade. Each faction starts with one warrior and 100 gold.
func testScenario() *types.ScenarioDef {
	attr := func(id string, max int) *types.VariableClass {
		return &types.VariableClass{ID: id, Name: id, Category: types.Attribute, Min: 0, Max: max, Scale: 1}
	}
	res := func(id string, max int) *types.VariableClass {
		return &types.VariableClass{ID: id, Name: id, Category: types.Resource, Min: 0, Max: max, Scale: 1}
	}
	return &types.ScenarioDef{
		Title:   "Border Skirmish",
		Version: "1",
		Seed:    7,
		Variables: map[string]*types.VariableClass{
			world.VarMovement: attr(world.VarMovement, 9),
			world.VarStrength: attr(world.VarStrength, 9),
			world.VarRange:    attr(world.VarRange, 9),
			world.VarHits:     res(world.VarHits, 20),
			"gold":            res("gold", 9999),
		},
		Entities: map[string]*types.EntityClass{
			"warrior": {
				ID: "warrior", Name: "Warrior", Kind: types.KindUnit,
				Attributes: map[string]int{world.VarMovement: 2, world.VarStrength: 3, world.VarRange: 1},
				Resources:  map[string]int{world.VarHits: 10},
				Cost:       map[string]int{"gold": 40},
				BuildCount: 10,
				Multiple:   true,
				Decisive:   []string{world.VarHits},
			},
			"plains": {
				ID: "plains", Name: "Plains", Kind: types.KindTerrain,
				Background: true,
				MoveCost:   1,
			},
			"castle": {
				ID: "castle", Name: "Castle", Kind: types.KindTerrain,
				Cost:         map[string]int{"gold": 100},
				BuildCount:   2,
				Valuation:    5,
				BlocksAttack: true,
			},
			"banner": {
				ID: "banner", Name: "Banner", Kind: types.KindEffect,
				Attributes: map[string]int{world.VarStrength: 1},
			},
			"steel": {
				ID: "steel", Name: "Steel Weapons", Kind: types.KindUpgrade,
				Attributes: map[string]int{world.VarStrength: 2},
				Cost:       map[string]int{"gold": 80},
				BuildCount: 1,
			},
		},
		Factions: []*types.FactionClass{
			{
				ID: "rome", Name: "Rome", Color: "red",
				Buildable: []string{"warrior", "castle", "steel"},
				Resources: map[string]int{"gold": 100},
				HomeX:     0, HomeY: 0,
			},
			{
				ID: "gaul", Name: "Gaul", Color: "blue",
				Buildable: []string{"warrior", "castle", "steel"},
				Resources: map[string]int{"gold": 100},
				HomeX:     4, HomeY: 4,
			},
		},
		IncomeResource: "gold",
		Map:            types.MapDef{Width: 5, Height: 5, DefaultTerrain: "plains"},
		Areas: []types.AreaDef{
			{X: 1, Y: 1, Width: 1, Height: 1, Owner: "rome", Units: []string{"warrior"}},
			{X: 3, Y: 3, Width: 1, Height: 1, Owner: "gaul", Units: []string{"warrior"}},
		},
	}
}

func newTestWorld(t *testing.T) *world.State {
	t.Helper()
	return buildWorld(t, testScenario())
}

func buildWorld(t *testing.T, scn *types.ScenarioDef) *world.State {
	t.Helper()
	cache := world.NewClassCache()
	if err := cache.Load(scn); err != nil {
		t.Fatalf("cache load: %v", err)
	}
	ws, err := world.Initialize(scn, cache, rules.NewDefaultFactory(), nil)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return ws
}

func factionByID(t *testing.T, ws *world.State, id string) *world.Faction {
	t.Helper()
	f := world.FactionRef{ID: id}.Resolve(ws)
	if f == nil {
		t.Fatalf("faction %q not found", id)
	}
	return f
}

func TestInitialize(t *testing.T) {
	ws := newTestWorld(t)

	if ws.Width() != 5 || ws.Height() != 5 {
		t.Fatalf("map is %dx%d, want 5x5", ws.Width(), ws.Height())
	}
	if got := len(ws.Factions()); got != 2 {
		t.Fatalf("len(Factions) = %d, want 2", got)
	}
	if ws.ActiveFaction().ID() != "rome" {
		t.Errorf("active faction = %q, want first-defined rome", ws.ActiveFaction().ID())
	}
	if ws.Turn() != 0 {
		t.Errorf("Turn = %d, want 0", ws.Turn())
	}

	// Every site carries exactly one background terrain.
	for y := 0; y < ws.Height(); y++ {
		for x := 0; x < ws.Width(); x++ {
			site := ws.SiteAt(x, y)
			if site.Background() == nil {
				t.Fatalf("site (%d,%d) has no background terrain", x, y)
			}
			if len(site.Terrains()) != 1 {
				t.Fatalf("site (%d,%d) has %d terrains, want 1", x, y, len(site.Terrains()))
			}
		}
	}

	rome := factionByID(t, ws, "rome")
	if rome.Home() != ws.SiteAt(0, 0) {
		t.Error("rome home is not (0,0)")
	}
	if got := rome.Resources.Value("gold"); got != 100 {
		t.Errorf("rome gold = %d, want 100", got)
	}
	if len(rome.Units()) != 1 {
		t.Fatalf("rome has %d units, want 1", len(rome.Units()))
	}
	warrior := rome.Units()[0]
	if warrior.Site() != ws.SiteAt(1, 1) {
		t.Error("rome warrior is not at (1,1)")
	}
	if got := warrior.Counters.Value(world.VarMovement); got != 2 {
		t.Errorf("warrior movement counter = %d, want 2 (seeded from attribute)", got)
	}
	// Home terrain follows the site's owner.
	if bg := ws.SiteAt(0, 0).Background(); bg.Owner() != rome {
		t.Error("background terrain on rome's home site is not owned by rome")
	}
}

func TestInitialize_AreaTerrainReplacesBackground(t *testing.T) {
	scn := testScenario()
	scn.Areas = append(scn.Areas, types.AreaDef{X: 2, Y: 2, Width: 1, Height: 1, Terrain: "plains"})
	ws := buildWorld(t, scn)

	site := ws.SiteAt(2, 2)
	if len(site.Terrains()) != 1 {
		t.Fatalf("site (2,2) has %d terrains after area terrain, want 1", len(site.Terrains()))
	}
}

func TestInitialize_ForegroundAreaTerrainKeepsBackground(t *testing.T) {
	scn := testScenario()
	scn.Areas = append(scn.Areas, types.AreaDef{X: 2, Y: 2, Width: 1, Height: 1, Owner: "rome", Terrain: "castle"})
	ws := buildWorld(t, scn)

	site := ws.SiteAt(2, 2)
	if len(site.Terrains()) != 2 {
		t.Fatalf("site (2,2) has %d terrains, want plains under castle", len(site.Terrains()))
	}
	bg := site.Background()
	if bg == nil {
		t.Fatal("site (2,2) lost its background terrain")
	}
	if bg.Class().ID != "plains" {
		t.Errorf("background = %q, want plains", bg.Class().ID)
	}
	if !site.BlocksAttack() {
		t.Error("castle on (2,2) does not block attacks")
	}
}

func TestInitialize_RejectsOffMapHome(t *testing.T) {
	scn := testScenario()
	scn.Factions[1].HomeX = 9
	cache := world.NewClassCache()
	if err := cache.Load(scn); err != nil {
		t.Fatal(err)
	}
	_, err := world.Initialize(scn, cache, rules.NewDefaultFactory(), nil)
	if !fault.IsInvariant(err) {
		t.Errorf("got %v, want invariant error for off-map home", err)
	}
}

func TestAdvanceFaction(t *testing.T) {
	ws := newTestWorld(t)

	if ws.AdvanceFaction() {
		t.Error("advance to second faction reported a new turn")
	}
	if ws.ActiveFaction().ID() != "gaul" {
		t.Fatalf("active = %q, want gaul", ws.ActiveFaction().ID())
	}
	if !ws.AdvanceFaction() {
		t.Error("wrap to first faction did not report a new turn")
	}
	if ws.ActiveFaction().ID() != "rome" || ws.Turn() != 1 {
		t.Errorf("after wrap: active %q turn %d, want rome turn 1", ws.ActiveFaction().ID(), ws.Turn())
	}
}

func TestDeleteFaction(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	gaul := factionByID(t, ws, "gaul")
	ws.AdvanceFaction() // gaul active

	if err := ws.DeleteFaction(rome); err != nil {
		t.Fatal(err)
	}
	if ws.ActiveFaction() != gaul {
		t.Error("deleting an earlier faction changed the active faction")
	}
	if (world.FactionRef{ID: "rome"}).Resolve(ws) != nil {
		t.Error("deleted faction still resolves")
	}
	// Units leave the world, sites and terrains turn neutral.
	if len(ws.SiteAt(1, 1).Units()) != 0 {
		t.Error("deleted faction's unit still on the map")
	}
	if owner := ws.SiteAt(0, 0).Owner(); owner != nil {
		t.Errorf("deleted faction's home still owned by %q", owner.ID())
	}
	if bg := ws.SiteAt(0, 0).Background(); bg.Owner() != nil {
		t.Error("terrain on a neutralized site kept its owner")
	}

	if err := ws.DeleteFaction(gaul); err != nil {
		t.Fatal(err)
	}
	if ws.ActiveFaction() != nil {
		t.Error("ActiveFaction is non-nil with no factions left")
	}
}

func TestDeleteFaction_ActiveLastWrapsToFirst(t *testing.T) {
	scn := testScenario()
	scn.Factions = append(scn.Factions, &types.FactionClass{
		ID: "iberia", Name: "Iberia", Color: "green",
		Buildable: []string{"warrior"},
		Resources: map[string]int{"gold": 100},
		HomeX:     4, HomeY: 0,
	})
	ws := buildWorld(t, scn)
	ws.AdvanceFaction()
	ws.AdvanceFaction()
	iberia := ws.ActiveFaction()
	if iberia.ID() != "iberia" {
		t.Fatalf("active = %q, want iberia", iberia.ID())
	}

	if err := ws.DeleteFaction(iberia); err != nil {
		t.Fatal(err)
	}
	if ws.ActiveFactionIndex() != 0 {
		t.Errorf("active index = %d, want wrap to 0", ws.ActiveFactionIndex())
	}
	if ws.ActiveFaction().ID() != "rome" {
		t.Errorf("active = %q, want rome", ws.ActiveFaction().ID())
	}
}

func TestCheckDefeatAndVictory(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	gaul := factionByID(t, ws, "gaul")

	gaul.Resign()
	if err := ws.CheckDefeat(); err != nil {
		t.Fatal(err)
	}
	if err := ws.CheckVictory(); err != nil {
		t.Fatal(err)
	}
	if !ws.GameOver() {
		t.Fatal("game is not over with one faction left")
	}
	if ws.Winner() != rome {
		t.Error("winner is not the surviving faction")
	}

	// The victory event lands on the winner's trail.
	events := ws.History.FactionFor("rome").Events
	if len(events) == 0 || events[len(events)-1].Type != "victory" {
		t.Error("victory event missing from winner's history")
	}
}

func TestDepletion_DecisiveResourceRemovesUnit(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	warrior := rome.Units()[0]
	ref := warrior.Ref()
	hits := ws.Classes().Variable(world.VarHits)

	changed, err := ws.SetEntityVariable(warrior, hits, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("setting hits to zero reported no change")
	}
	if ref.Resolve(ws) != nil {
		t.Error("unit with depleted decisive resource still in the world")
	}
	if len(rome.Units()) != 0 {
		t.Error("depleted unit still listed by its faction")
	}
}

func TestModifiers(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	warrior := rome.Units()[0]

	if _, err := ws.CreateEntity("banner", rome, warrior.Site()); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.CreateEntity("steel", rome, nil); err != nil {
		t.Fatal(err)
	}
	ws.RecomputeModifiers()

	// Base 3, +1 banner on the site, +2 steel upgrade.
	if got := warrior.Attributes.Value(world.VarStrength); got != 6 {
		t.Errorf("modified strength = %d, want 6", got)
	}
	if got := warrior.Modifiers[world.VarStrength]; got != 3 {
		t.Errorf("strength modifier total = %d, want 3", got)
	}

	// Moving away from the banner drops the site bonus.
	if err := ws.PlaceEntity(warrior, ws.SiteAt(2, 1)); err != nil {
		t.Fatal(err)
	}
	ws.RecomputeModifiers()
	if got := warrior.Attributes.Value(world.VarStrength); got != 5 {
		t.Errorf("strength after leaving effect site = %d, want 5", got)
	}
}

func TestBuildAccounting_Affordability(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	castle := ws.Classes().Entity("castle")
	gold := ws.Classes().Variable("gold")

	// 100 gold exactly covers the castle.
	if err := rome.CanBuild(castle); err != nil {
		t.Fatalf("affordable build rejected: %v", err)
	}
	if _, err := ws.SetFactionResource(rome, gold, 50); err != nil {
		t.Fatal(err)
	}
	if err := rome.CanBuild(castle); !fault.IsInvalid(err) {
		t.Errorf("unaffordable build: got %v, want invalid-command error", err)
	}
}

func TestBuildAccounting_Limits(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	warrior := ws.Classes().Entity("warrior")
	castle := ws.Classes().Entity("castle")
	plains := ws.Classes().Entity("plains")

	if err := rome.CanBuild(warrior); err != nil {
		t.Fatalf("warrior build rejected: %v", err)
	}
	if got := rome.BuildsRemaining(castle); got != 2 {
		t.Errorf("castle builds remaining = %d, want 2", got)
	}
	rome.RecordBuild(castle)
	rome.RecordBuild(castle)
	if err := rome.CanBuild(castle); !fault.IsInvalid(err) {
		t.Errorf("exhausted build count: got %v, want invalid-command error", err)
	}
	// Background terrain has build count zero.
	if err := rome.CanBuild(plains); !fault.IsInvalid(err) {
		t.Errorf("unbuildable class: got %v, want invalid-command error", err)
	}
}

func TestFactionValuation(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")

	if got := ws.FactionValuation(rome); got != 0 {
		t.Fatalf("initial valuation = %d, want 0", got)
	}
	if _, err := ws.CreateEntity("castle", rome, ws.SiteAt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if !ws.ValuationDirty() {
		t.Error("terrain placement did not mark valuation dirty")
	}
	if got := ws.FactionValuation(rome); got != 5 {
		t.Errorf("valuation with castle = %d, want 5", got)
	}
	if ws.ValuationDirty() {
		t.Error("FactionValuation did not clear the dirty flag")
	}
}

func TestSetSiteOwner_ReownsTerrain(t *testing.T) {
	ws := newTestWorld(t)
	gaul := factionByID(t, ws, "gaul")
	site := ws.SiteAt(2, 0)

	if err := ws.SetSiteOwner(site, gaul); err != nil {
		t.Fatal(err)
	}
	if site.Background().Owner() != gaul {
		t.Error("background terrain did not follow its site's new owner")
	}
	if got := len(gaul.Sites()); got != 2 {
		t.Errorf("gaul owns %d sites, want 2", got)
	}
}

func TestClone_Isolation(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	warrior := rome.Units()[0]
	ref := warrior.Ref()
	hits := ws.Classes().Variable(world.VarHits)

	clone := ws.Clone()
	cloneRome := factionByID(t, clone, "rome")
	if cloneRome == rome {
		t.Fatal("clone shares faction objects with the original")
	}
	cloneWarrior := ref.Resolve(clone)
	if cloneWarrior == nil || cloneWarrior == warrior {
		t.Fatal("clone shares entity objects with the original")
	}
	if cloneWarrior.Owner() != cloneRome {
		t.Error("cloned entity's owner edge points outside the clone")
	}
	if cloneWarrior.Site() == warrior.Site() {
		t.Error("cloned entity's site edge points outside the clone")
	}

	// Mutations on the clone never leak back.
	if _, err := clone.SetEntityVariable(cloneWarrior, hits, 4); err != nil {
		t.Fatal(err)
	}
	if err := clone.PlaceEntity(cloneWarrior, clone.SiteAt(2, 2)); err != nil {
		t.Fatal(err)
	}
	clone.AdvanceFaction()

	if got := warrior.Resources.Value(world.VarHits); got != 10 {
		t.Errorf("original hits = %d after clone mutation, want 10", got)
	}
	if warrior.Site() != ws.SiteAt(1, 1) {
		t.Error("original unit moved when the clone's copy moved")
	}
	if ws.ActiveFaction().ID() != "rome" {
		t.Error("original turn order changed when the clone advanced")
	}
	if clone.Turn() == ws.Turn() && clone.ActiveFactionIndex() == ws.ActiveFactionIndex() {
		t.Error("clone did not advance independently")
	}
}

func TestClone_PreservesRNGPosition(t *testing.T) {
	ws := newTestWorld(t)
	ws.RNG.Roll(6)
	ws.RNG.Roll(6)

	clone := ws.Clone()
	if clone.RNG == ws.RNG {
		t.Fatal("clone shares the RNG object")
	}
	if clone.RNG.Position() != ws.RNG.Position() {
		t.Errorf("clone RNG position = %d, want %d", clone.RNG.Position(), ws.RNG.Position())
	}
	if clone.RNG.Seed() != ws.RNG.Seed() {
		t.Errorf("clone RNG seed = %d, want %d", clone.RNG.Seed(), ws.RNG.Seed())
	}
	// The restored stream must continue exactly where the original's did.
	for i := 0; i < 20; i++ {
		if got, want := clone.RNG.Roll(6), ws.RNG.Roll(6); got != want {
			t.Fatalf("roll %d after clone = %d, want %d", i, got, want)
		}
	}
}

func TestRefs(t *testing.T) {
	ws := newTestWorld(t)
	rome := factionByID(t, ws, "rome")
	warrior := rome.Units()[0]
	eref := warrior.Ref()
	fref := rome.Ref()
	sref := ws.SiteAt(1, 1).Ref()

	if eref.Resolve(ws) != warrior {
		t.Error("entity ref does not resolve to its referent")
	}
	if fref.Resolve(ws) != rome {
		t.Error("faction ref does not resolve to its referent")
	}
	if sref.Resolve(ws) != ws.SiteAt(1, 1) {
		t.Error("site ref does not resolve to its referent")
	}
	if fref.Name != "Rome" {
		t.Errorf("faction ref cached name %q, want Rome", fref.Name)
	}

	if err := ws.DeleteEntity(warrior); err != nil {
		t.Fatal(err)
	}
	if eref.Resolve(ws) != nil {
		t.Error("ref to a deleted entity still resolves")
	}
	if eref.Name == "" {
		t.Error("ref lost its cached name after deletion")
	}

	if (world.SiteRef{X: 7, Y: 7}).Resolve(ws) != nil {
		t.Error("out-of-bounds site ref resolved")
	}
	if eref.Resolve(nil) != nil {
		t.Error("resolving against a nil world did not return nil")
	}
}

func TestRNG_Deterministic(t *testing.T) {
	a := world.NewRNG(7)
	b := world.NewRNG(7)
	for i := 0; i < 10; i++ {
		if x, y := a.Roll(6), b.Roll(6); x != y {
			t.Fatalf("roll %d diverged: %d vs %d", i, x, y)
		}
	}
	if a.Position() != 10 {
		t.Errorf("position = %d, want 10", a.Position())
	}
}
