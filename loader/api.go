package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/warcore/types"
)

// registerAPI registers all Lua constructors as globals. Class
// constructors are curried: UnitClass "warrior" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Scenario { title = "...", seed = 42, income = "gold", ... }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		coll.scenario = L.CheckTable(1)
		return 0
	}))

	variable := func(category types.VariableCategory) lua.LGFunction {
		return func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.variables = append(coll.variables, rawVariable{id: id, category: category, table: tbl})
				return 0
			}))
			return 1
		}
	}
	L.SetGlobal("Attribute", L.NewFunction(variable(types.Attribute)))
	L.SetGlobal("Resource", L.NewFunction(variable(types.Resource)))

	entity := func(kind types.EntityKind) lua.LGFunction {
		return func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.entities = append(coll.entities, rawEntity{id: id, kind: kind, table: tbl})
				return 0
			}))
			return 1
		}
	}
	L.SetGlobal("UnitClass", L.NewFunction(entity(types.KindUnit)))
	L.SetGlobal("TerrainClass", L.NewFunction(entity(types.KindTerrain)))
	L.SetGlobal("EffectClass", L.NewFunction(entity(types.KindEffect)))
	L.SetGlobal("UpgradeClass", L.NewFunction(entity(types.KindUpgrade)))

	// Faction "rome" { ... } — definition order is turn order.
	L.SetGlobal("Faction", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.factions = append(coll.factions, rawFaction{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Map { width = 10, height = 10, terrain = "plains" }
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		coll.mapDef = L.CheckTable(1)
		return 0
	}))

	// Area { x=0, y=0, width=3, height=3, owner="rome", ... }
	L.SetGlobal("Area", L.NewFunction(func(L *lua.LState) int {
		coll.areas = append(coll.areas, L.CheckTable(1))
		return 0
	}))
}
