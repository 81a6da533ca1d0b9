// Package loader loads Lua scenario content into Go structs. Class
// definitions compile into an immutable types.ScenarioDef and the VM is
// discarded — unless the scenario defines rule-script hooks, in which
// case the VM stays alive behind a world.Factory.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/warcore/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	scenario  *lua.LTable
	variables []rawVariable
	entities  []rawEntity
	factions  []rawFaction
	mapDef    *lua.LTable
	areas     []*lua.LTable
}

// Result is a loaded scenario: the compiled definition plus, when the
// scenario scripts factory hooks, the live VM serving them.
type Result struct {
	Scenario *types.ScenarioDef

	vm      *lua.LState
	scripts scriptHooks
}

// Close releases the scenario's VM, if one was kept alive for scripting.
func (r *Result) Close() {
	if r.vm != nil {
		r.vm.Close()
		r.vm = nil
	}
}

// Load reads all .lua files from dir, compiles them into a scenario
// definition, and validates every cross-reference. scenario.lua runs
// first; the remaining files run alphabetically.
func Load(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	scn, err := compile(coll)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compiling scenario data: %w", err)
	}
	if err := validate(scn); err != nil {
		L.Close()
		return nil, err
	}

	res := &Result{Scenario: scn, scripts: findScriptHooks(L)}
	if res.scripts.any() {
		res.vm = L
	} else {
		L.Close()
	}
	return res, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed to preserve determinism; combat randomness
	// comes from the engine's positional RNG, never from Lua.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}

// sortedLuaFiles returns .lua files with scenario.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var scenarioFile string
	var others []string
	for _, f := range files {
		if f == "scenario.lua" {
			scenarioFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if scenarioFile != "" {
		return append([]string{scenarioFile}, others...)
	}
	return others
}
