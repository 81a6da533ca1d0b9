package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/warcore/engine/world"
)

const validScenario = `
Scenario {
	title = "Border Skirmish",
	author = "test",
	version = "1",
	seed = 7,
	income = "gold",
}

Map { width = 5, height = 5, terrain = "plains" }
`

const validContent = `
Attribute "movement" { min = 0, max = 9 }
Attribute "strength" { min = 0, max = 9 }
Attribute "range" { min = 0, max = 9 }
Resource "hits" { min = 0, max = 20 }
Resource "gold" { min = 0, max = 9999 }

UnitClass "warrior" {
	name = "Warrior",
	attributes = { movement = 2, strength = 3, range = 1 },
	resources = { hits = 10 },
	cost = { gold = 40 },
	build_count = 10,
	multiple = true,
	decisive = { "hits" },
}

TerrainClass "plains" {
	name = "Plains",
	background = true,
	move_cost = 1,
}

Faction "rome" {
	name = "Rome",
	color = "red",
	buildable = { "warrior" },
	resources = { gold = 100 },
	home = { x = 0, y = 0 },
}

Faction "gaul" {
	name = "Gaul",
	color = "blue",
	buildable = { "warrior" },
	resources = { gold = 100 },
	home = { x = 4, y = 4 },
}

Area { x = 1, y = 1, owner = "rome", units = { "warrior" } }
`

func writeScenario(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeScenario(t, map[string]string{
		"scenario.lua": validScenario,
		"content.lua":  validContent,
	})
	res, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer res.Close()
	scn := res.Scenario

	if scn.Title != "Border Skirmish" || scn.Seed != 7 {
		t.Errorf("scenario header = %q seed %d", scn.Title, scn.Seed)
	}
	if scn.IncomeResource != "gold" {
		t.Errorf("income = %q, want gold", scn.IncomeResource)
	}
	if len(scn.Variables) != 5 {
		t.Errorf("got %d variables, want 5", len(scn.Variables))
	}
	if len(scn.Entities) != 2 {
		t.Errorf("got %d entity classes, want 2", len(scn.Entities))
	}

	warrior := scn.Entities["warrior"]
	if warrior == nil {
		t.Fatal("warrior class missing")
	}
	if warrior.Attributes["movement"] != 2 || warrior.Cost["gold"] != 40 {
		t.Errorf("warrior compiled wrong: %+v", warrior)
	}
	if !warrior.Multiple || !reflect.DeepEqual(warrior.Decisive, []string{"hits"}) {
		t.Errorf("warrior flags compiled wrong: %+v", warrior)
	}

	// Turn order follows definition order.
	if scn.Factions[0].ID != "rome" || scn.Factions[1].ID != "gaul" {
		t.Errorf("faction order = %s, %s", scn.Factions[0].ID, scn.Factions[1].ID)
	}
	if scn.Factions[1].HomeX != 4 || scn.Factions[1].HomeY != 4 {
		t.Errorf("gaul home = (%d,%d), want (4,4)", scn.Factions[1].HomeX, scn.Factions[1].HomeY)
	}

	if scn.Map.Width != 5 || scn.Map.DefaultTerrain != "plains" {
		t.Errorf("map = %+v", scn.Map)
	}
	if len(scn.Areas) != 1 || scn.Areas[0].Width != 1 {
		t.Errorf("areas = %+v (area width defaults to 1)", scn.Areas)
	}

	// No script hooks means the VM is discarded.
	if res.vm != nil {
		t.Error("VM kept alive for a scenario with no script hooks")
	}
}

func TestLoad_MissingScenarioTable(t *testing.T) {
	dir := writeScenario(t, map[string]string{"content.lua": validContent})
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "Scenario") {
		t.Errorf("got %v, want missing Scenario error", err)
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("got %v, want no-files error", err)
	}
}

func TestLoad_DuplicateClass(t *testing.T) {
	dir := writeScenario(t, map[string]string{
		"scenario.lua": validScenario,
		"content.lua":  validContent + "\nUnitClass \"warrior\" { }\n",
	})
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "defined twice") {
		t.Errorf("got %v, want duplicate definition error", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mangle   string
		wantPart string
	}{
		{
			"missing title",
			strings.Replace(validScenario, `title = "Border Skirmish",`, "", 1),
			"title is required",
		},
		{
			"unknown default terrain",
			strings.Replace(validScenario, `terrain = "plains"`, `terrain = "swamp"`, 1),
			"undefined class",
		},
		{
			"income is not a resource",
			strings.Replace(validScenario, `income = "gold",`, `income = "strength",`, 1),
			"not a resource",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeScenario(t, map[string]string{
				"scenario.lua": tt.mangle,
				"content.lua":  validContent,
			})
			_, err := Load(dir)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("got %v, want *ValidationError", err)
			}
			if !strings.Contains(ve.Error(), tt.wantPart) {
				t.Errorf("error %q does not mention %q", ve.Error(), tt.wantPart)
			}
		})
	}
}

func TestLoad_SandboxBlocksFileAccess(t *testing.T) {
	dir := writeScenario(t, map[string]string{
		"scenario.lua": validScenario + "\ndofile(\"other.lua\")\n",
		"content.lua":  validContent,
	})
	if _, err := Load(dir); err == nil {
		t.Error("dofile ran inside the sandbox")
	}
}

func TestLoad_SandboxRemovesLuaRandomness(t *testing.T) {
	dir := writeScenario(t, map[string]string{
		"scenario.lua": validScenario + "\nlocal x = math.random(6)\n",
		"content.lua":  validContent,
	})
	if _, err := Load(dir); err == nil {
		t.Error("math.random survived the sandbox")
	}
}

func TestLoad_ScriptHooks(t *testing.T) {
	hooks := `
function CreateFaction(f)
	if f.id == "rome" then
		return { gold = 250 }
	end
end

function CreateEntity(e)
	if e.class == "warrior" then
		return { hits = 15 }
	end
end
`
	dir := writeScenario(t, map[string]string{
		"scenario.lua": validScenario,
		"content.lua":  validContent,
		"rules.lua":    hooks,
	})
	res, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer res.Close()

	cache := world.NewClassCache()
	if err := cache.Load(res.Scenario); err != nil {
		t.Fatal(err)
	}
	ws, err := world.Initialize(res.Scenario, cache, res.Factory(), nil)
	if err != nil {
		t.Fatalf("initialize with script factory: %v", err)
	}

	rome := world.FactionRef{ID: "rome"}.Resolve(ws)
	if got := rome.Resources.Value("gold"); got != 250 {
		t.Errorf("scripted rome gold = %d, want 250", got)
	}
	gaul := world.FactionRef{ID: "gaul"}.Resolve(ws)
	if got := gaul.Resources.Value("gold"); got != 100 {
		t.Errorf("unscripted gaul gold = %d, want 100", got)
	}
	if got := rome.Units()[0].Resources.Value("hits"); got != 15 {
		t.Errorf("scripted warrior hits = %d, want 15", got)
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"units.lua", "scenario.lua", "areas.lua"})
	want := []string{"scenario.lua", "areas.lua", "units.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "factions:\n  gaul:\n    computer: true\n    scripting: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if !s.Factions["gaul"].IsComputer || !s.Factions["gaul"].UseScripting {
		t.Errorf("gaul settings = %+v", s.Factions["gaul"])
	}
	if s.Factions["rome"].IsComputer {
		t.Error("unlisted faction defaults to computer")
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if s.Factions == nil || len(s.Factions) != 0 {
		t.Errorf("settings = %+v, want empty", s)
	}
}

func TestLoadSettings_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("factions: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("malformed settings parsed without error")
	}
}
