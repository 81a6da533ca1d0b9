package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/warcore/types"
)

// rawVariable holds a variable class table before compilation.
type rawVariable struct {
	id       string
	category types.VariableCategory
	table    *lua.LTable
}

// rawEntity holds an entity class table before compilation.
type rawEntity struct {
	id    string
	kind  types.EntityKind
	table *lua.LTable
}

// rawFaction holds a faction class table before compilation.
type rawFaction struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToIntMap converts a Lua table to a map[string]int.
func tableToIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[string(ks)] = int(n)
		}
	})
	return m
}

// tableToStringList converts a Lua array to a []string.
func tableToStringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var list []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			list = append(list, string(s))
		}
	}
	return list
}

// compile converts all collected Lua data into a ScenarioDef.
func compile(coll *collector) (*types.ScenarioDef, error) {
	if coll.scenario == nil {
		return nil, fmt.Errorf("no Scenario{} definition found")
	}
	scn := &types.ScenarioDef{
		Title:          getString(coll.scenario, "title"),
		Author:         getString(coll.scenario, "author"),
		Version:        getString(coll.scenario, "version"),
		Intro:          getString(coll.scenario, "intro"),
		Seed:           int64(getInt(coll.scenario, "seed", 0)),
		IncomeResource: getString(coll.scenario, "income"),
		Variables:      map[string]*types.VariableClass{},
		Entities:       map[string]*types.EntityClass{},
	}

	for _, raw := range coll.variables {
		if _, dup := scn.Variables[raw.id]; dup {
			return nil, fmt.Errorf("variable class %q defined twice", raw.id)
		}
		scn.Variables[raw.id] = compileVariable(raw)
	}
	for _, raw := range coll.entities {
		if _, dup := scn.Entities[raw.id]; dup {
			return nil, fmt.Errorf("entity class %q defined twice", raw.id)
		}
		scn.Entities[raw.id] = compileEntity(raw)
	}
	for _, raw := range coll.factions {
		scn.Factions = append(scn.Factions, compileFaction(raw))
	}

	if coll.mapDef == nil {
		return nil, fmt.Errorf("no Map{} definition found")
	}
	scn.Map = types.MapDef{
		Width:          getInt(coll.mapDef, "width", 0),
		Height:         getInt(coll.mapDef, "height", 0),
		DefaultTerrain: getString(coll.mapDef, "terrain"),
	}

	for _, tbl := range coll.areas {
		scn.Areas = append(scn.Areas, types.AreaDef{
			X:       getInt(tbl, "x", 0),
			Y:       getInt(tbl, "y", 0),
			Width:   getInt(tbl, "width", 1),
			Height:  getInt(tbl, "height", 1),
			Owner:   getString(tbl, "owner"),
			Terrain: getString(tbl, "terrain"),
			Units:   tableToStringList(getTable(tbl, "units")),
			Effects: tableToStringList(getTable(tbl, "effects")),
		})
	}
	return scn, nil
}

func compileVariable(raw rawVariable) *types.VariableClass {
	vc := &types.VariableClass{
		ID:       raw.id,
		Name:     getString(raw.table, "name"),
		Category: raw.category,
		Min:      getInt(raw.table, "min", 0),
		Max:      getInt(raw.table, "max", 0),
		Scale:    getInt(raw.table, "scale", 1),
		Limited:  getBool(raw.table, "limited", false),
	}
	if vc.Name == "" {
		vc.Name = raw.id
	}
	return vc
}

func compileEntity(raw rawEntity) *types.EntityClass {
	tbl := raw.table
	ec := &types.EntityClass{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Kind:         raw.kind,
		Attributes:   tableToIntMap(getTable(tbl, "attributes")),
		Resources:    tableToIntMap(getTable(tbl, "resources")),
		Cost:         tableToIntMap(getTable(tbl, "cost")),
		BuildCount:   getInt(tbl, "build_count", 0),
		Multiple:     getBool(tbl, "multiple", false),
		Decisive:     tableToStringList(getTable(tbl, "decisive")),
		LineOfSight:  getBool(tbl, "line_of_sight", false),
		Background:   getBool(tbl, "background", false),
		BlocksAttack: getBool(tbl, "blocks_attack", false),
		MoveCost:     getInt(tbl, "move_cost", 0),
		Valuation:    getInt(tbl, "valuation", 0),
	}
	if ec.Name == "" {
		ec.Name = raw.id
	}
	return ec
}

func compileFaction(raw rawFaction) *types.FactionClass {
	tbl := raw.table
	fc := &types.FactionClass{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		Color:     getString(tbl, "color"),
		Buildable: tableToStringList(getTable(tbl, "buildable")),
		Resources: tableToIntMap(getTable(tbl, "resources")),
	}
	if fc.Name == "" {
		fc.Name = raw.id
	}
	if home := getTable(tbl, "home"); home != nil {
		fc.HomeX = getInt(home, "x", 0)
		fc.HomeY = getInt(home, "y", 0)
	}
	return fc
}
