package finder_test

import (
	"testing"

	"github.com/nathoo/warcore/engine/fault"
	"github.com/nathoo/warcore/engine/finder"
	"github.com/nathoo/warcore/engine/rules"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// battlefield builds a 5x5 plains map with a forest column at x=2
// (rows 0-2, movement cost 3), a rome warrior at (1,1), and a gaul
// warrior at (3,3).
func battlefield(t *testing.T) *world.State {
	t.Helper()
	attr := func(id string) *types.VariableClass {
		return &types.VariableClass{ID: id, Name: id, Category: types.Attribute, Min: 0, Max: 9, Scale: 1}
	}
	scn := &types.ScenarioDef{
		Title: "Forest Crossing",
		Seed:  3,
		Variables: map[string]*types.VariableClass{
			world.VarMovement: attr(world.VarMovement),
			world.VarStrength: attr(world.VarStrength),
			world.VarRange:    attr(world.VarRange),
			world.VarHits:     {ID: world.VarHits, Name: world.VarHits, Category: types.Resource, Min: 0, Max: 20, Scale: 1},
		},
		Entities: map[string]*types.EntityClass{
			"warrior": {
				ID: "warrior", Name: "Warrior", Kind: types.KindUnit,
				Attributes: map[string]int{world.VarMovement: 2, world.VarStrength: 3, world.VarRange: 1},
				Resources:  map[string]int{world.VarHits: 10},
				BuildCount: 10, Multiple: true,
				Decisive: []string{world.VarHits},
			},
			"archer": {
				ID: "archer", Name: "Archer", Kind: types.KindUnit,
				Attributes: map[string]int{world.VarMovement: 2, world.VarStrength: 2, world.VarRange: 2},
				Resources:  map[string]int{world.VarHits: 8},
				BuildCount: 10, Multiple: true,
				Decisive:    []string{world.VarHits},
				LineOfSight: true,
			},
			"plains": {ID: "plains", Name: "Plains", Kind: types.KindTerrain, Background: true, MoveCost: 1},
			"forest": {ID: "forest", Name: "Forest", Kind: types.KindTerrain, Background: true, MoveCost: 3},
			"castle": {
				ID: "castle", Name: "Castle", Kind: types.KindTerrain,
				BuildCount: 2, Valuation: 5, BlocksAttack: true,
			},
		},
		Factions: []*types.FactionClass{
			{ID: "rome", Name: "Rome", Resources: map[string]int{}, HomeX: 0, HomeY: 0},
			{ID: "gaul", Name: "Gaul", Resources: map[string]int{}, HomeX: 4, HomeY: 4},
		},
		Map: types.MapDef{Width: 5, Height: 5, DefaultTerrain: "plains"},
		Areas: []types.AreaDef{
			{X: 2, Y: 0, Width: 1, Height: 3, Terrain: "forest"},
			{X: 1, Y: 1, Width: 1, Height: 1, Owner: "rome", Units: []string{"warrior"}},
			{X: 3, Y: 3, Width: 1, Height: 1, Owner: "gaul", Units: []string{"warrior"}},
		},
	}
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

func unitOf(t *testing.T, ws *world.State, factionID string) *world.Entity {
	t.Helper()
	f := world.FactionRef{ID: factionID}.Resolve(ws)
	if f == nil || len(f.Units()) == 0 {
		t.Fatalf("faction %q has no units", factionID)
	}
	return f.Units()[0]
}

func place(t *testing.T, ws *world.State, classID, factionID string, x, y int) *world.Entity {
	t.Helper()
	f := world.FactionRef{ID: factionID}.Resolve(ws)
	e, err := ws.CreateEntity(classID, f, ws.SiteAt(x, y))
	if err != nil {
		t.Fatalf("place %s at (%d,%d): %v", classID, x, y, err)
	}
	return e
}

func TestNewUnitAgent_Validation(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	gaul := unitOf(t, ws, "gaul")

	if _, err := finder.NewUnitAgent(ws, nil); !fault.IsInvariant(err) {
		t.Errorf("empty group: got %v, want invariant error", err)
	}
	if _, err := finder.NewUnitAgent(ws, []*world.Entity{rome, gaul}); !fault.IsInvalid(err) {
		t.Errorf("mixed owners: got %v, want invalid-command error", err)
	}

	other := place(t, ws, "warrior", "rome", 0, 1)
	if _, err := finder.NewUnitAgent(ws, []*world.Entity{rome, other}); !fault.IsInvalid(err) {
		t.Errorf("split sites: got %v, want invalid-command error", err)
	}

	if err := ws.DeleteEntity(other); err != nil {
		t.Fatal(err)
	}
	if _, err := finder.NewUnitAgent(ws, []*world.Entity{other}); !fault.IsInvalid(err) {
		t.Errorf("deleted unit: got %v, want invalid-command error", err)
	}
}

func TestUnitAgent_GroupMovesAtSlowestPace(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	other := place(t, ws, "warrior", "rome", 1, 1)
	mv := ws.Classes().Variable(world.VarMovement)
	if _, err := ws.SetEntityCounter(other, mv, 1); err != nil {
		t.Fatal(err)
	}

	agent, err := finder.NewUnitAgent(ws, []*world.Entity{rome, other})
	if err != nil {
		t.Fatal(err)
	}
	if got := agent.Movement(); got != 1 {
		t.Errorf("group movement = %d, want the slowest member's 1", got)
	}
}

func TestReachableSites(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	f := finder.New(ws)

	sites, err := f.ReachableSites([]*world.Entity{rome})
	if err != nil {
		t.Fatal(err)
	}

	byCoord := map[[2]int]bool{}
	for _, s := range sites {
		byCoord[[2]int{s.X(), s.Y()}] = true
	}
	if byCoord[[2]int{1, 1}] {
		t.Error("reachable set includes the start site")
	}
	if !byCoord[[2]int{1, 3}] {
		t.Error("(1,3) at cost 2 is missing")
	}
	// The forest at (2,1) costs 3 to enter, over the movement budget,
	// and blocks the cheap route east.
	if byCoord[[2]int{2, 1}] {
		t.Error("forest cell beyond the movement budget is present")
	}
	if byCoord[[2]int{3, 1}] {
		t.Error("cell behind the forest wall is present")
	}
}

func TestReachableSites_EnemyUnitsBlock(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	place(t, ws, "warrior", "gaul", 1, 2)

	sites, err := finder.New(ws).ReachableSites([]*world.Entity{rome})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range sites {
		if s.X() == 1 && s.Y() == 2 {
			t.Error("enemy-held site is in the reachable set")
		}
		if s.X() == 1 && s.Y() == 3 {
			t.Error("site only reachable through the enemy is present")
		}
	}
}

func TestPath_CrossesExpensiveTerrainWhenCheapest(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")

	path, err := finder.New(ws).Path([]*world.Entity{rome}, ws.SiteAt(3, 1))
	if err != nil {
		t.Fatal(err)
	}
	// Straight through the forest: 3 to enter (2,1), 1 to enter (3,1).
	if path.Cost != 4 {
		t.Errorf("path cost = %d, want 4", path.Cost)
	}
	if g := path.Goal(); g.X != 3 || g.Y != 1 {
		t.Errorf("goal = (%d,%d), want (3,1)", g.X, g.Y)
	}
}

func TestPathToNearest(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	f := finder.New(ws)

	path, err := f.PathToNearest([]*world.Entity{rome}, []*world.Site{ws.SiteAt(4, 4), ws.SiteAt(1, 4)})
	if err != nil {
		t.Fatal(err)
	}
	if g := path.Goal(); g.X != 1 || g.Y != 4 {
		t.Errorf("goal = (%d,%d), want the nearer (1,4)", g.X, g.Y)
	}

	if _, err := f.PathToNearest([]*world.Entity{rome}, nil); !fault.IsInvariant(err) {
		t.Errorf("no targets: got %v, want invariant error", err)
	}
}

func TestAreUnitsInAttackRange(t *testing.T) {
	ws := battlefield(t)
	rome := unitOf(t, ws, "rome")
	gaul := unitOf(t, ws, "gaul")
	f := finder.New(ws)

	// Distance (1,1)-(3,3) is 4, far beyond the warrior's range of 1.
	ok, err := f.AreUnitsInAttackRange(rome, gaul)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("target four cells away is in range 1")
	}

	near := place(t, ws, "warrior", "gaul", 1, 2)
	ok, err = f.AreUnitsInAttackRange(rome, near)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("adjacent enemy is not in range")
	}
}

func TestAttackRange_LineOfSight(t *testing.T) {
	ws := battlefield(t)
	f := finder.New(ws)
	archer := place(t, ws, "archer", "rome", 1, 3)
	target := unitOf(t, ws, "gaul") // at (3,3), distance 2

	ok, err := f.AreUnitsInAttackRange(archer, target)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("archer cannot strike a visible target at range 2")
	}

	// A castle between them blocks the shot.
	if _, err := ws.CreateEntity("castle", nil, ws.SiteAt(2, 3)); err != nil {
		t.Fatal(err)
	}
	ok, err = f.AreUnitsInAttackRange(archer, target)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("archer shoots through a sight-blocking castle")
	}

	// A warrior in the same spot ignores line of sight entirely, but its
	// range of 1 still keeps the target out of reach.
	warrior := place(t, ws, "warrior", "rome", 1, 3)
	ok, err = f.AreUnitsInAttackRange(warrior, target)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("warrior strikes at distance 2 with range 1")
	}
}

func TestAttackTargets_Deterministic(t *testing.T) {
	ws := battlefield(t)
	f := finder.New(ws)
	archer := place(t, ws, "archer", "rome", 3, 0)
	place(t, ws, "warrior", "gaul", 3, 1)
	place(t, ws, "warrior", "gaul", 4, 0)

	targets, err := f.AttackTargets(archer)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}
	for i := 1; i < len(targets); i++ {
		if targets[i-1].ID() >= targets[i].ID() {
			t.Errorf("targets out of ID order: %s before %s", targets[i-1].ID(), targets[i].ID())
		}
	}
}
