package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/warcore/engine/rules"
	"github.com/nathoo/warcore/engine/world"
	"github.com/nathoo/warcore/types"
)

// scriptHooks records which factory globals the scenario defined.
type scriptHooks struct {
	createEntity  *lua.LFunction
	createFaction *lua.LFunction
	initialize    *lua.LFunction
}

func (h scriptHooks) any() bool {
	return h.createEntity != nil || h.createFaction != nil || h.initialize != nil
}

func findScriptHooks(L *lua.LState) scriptHooks {
	get := func(name string) *lua.LFunction {
		if fn, ok := L.GetGlobal(name).(*lua.LFunction); ok {
			return fn
		}
		return nil
	}
	return scriptHooks{
		createEntity:  get("CreateEntity"),
		createFaction: get("CreateFaction"),
		initialize:    get("InitializeWorld"),
	}
}

// Factory returns the rule factory for this scenario: the Lua-backed
// one when the scenario defined script hooks, the built-in defaults
// otherwise.
func (r *Result) Factory() world.Factory {
	if r.vm == nil {
		return rules.NewDefaultFactory()
	}
	return &scriptFactory{vm: r.vm, hooks: r.scripts}
}

// scriptFactory creates entities and factions through the built-in
// defaults, then lets the scenario's Lua hooks adjust initial variable
// values. The VM belongs to the Result and must outlive the world.
type scriptFactory struct {
	vm    *lua.LState
	hooks scriptHooks
}

func (f *scriptFactory) CreateEntity(ws *world.State, class *types.EntityClass, id string) (*world.Entity, error) {
	e, err := world.NewEntity(id, class, ws.Classes(), rules.BehaviorFor(class.Kind))
	if err != nil {
		return nil, err
	}
	if f.hooks.createEntity == nil {
		return e, nil
	}

	arg := f.vm.NewTable()
	arg.RawSetString("id", lua.LString(id))
	arg.RawSetString("class", lua.LString(class.ID))
	overrides, err := f.call(f.hooks.createEntity, "CreateEntity", arg)
	if err != nil {
		return nil, err
	}
	for varID, value := range overrides {
		vc := ws.Classes().Variable(varID)
		if vc == nil {
			return nil, fmt.Errorf("CreateEntity script set unknown variable %q", varID)
		}
		// Resources seed current value alongside initial, the same way
		// class definitions do; attributes reset on the initial write.
		if vc.Category == types.Resource {
			if _, err := e.Resources.SetValue(vc, value, true); err != nil {
				return nil, err
			}
			if _, err := e.Resources.SetValue(vc, value, false); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := e.Attributes.SetValue(vc, value, true); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (f *scriptFactory) CreateFaction(ws *world.State, class *types.FactionClass) (*world.Faction, error) {
	fac, err := world.NewFaction(class, ws.Classes())
	if err != nil {
		return nil, err
	}
	if f.hooks.createFaction == nil {
		return fac, nil
	}

	arg := f.vm.NewTable()
	arg.RawSetString("id", lua.LString(class.ID))
	overrides, err := f.call(f.hooks.createFaction, "CreateFaction", arg)
	if err != nil {
		return nil, err
	}
	for varID, value := range overrides {
		vc := ws.Classes().Variable(varID)
		if vc == nil {
			return nil, fmt.Errorf("CreateFaction script set unknown variable %q", varID)
		}
		if _, err := fac.Resources.SetValue(vc, value, true); err != nil {
			return nil, err
		}
		if _, err := fac.Resources.SetValue(vc, value, false); err != nil {
			return nil, err
		}
	}
	return fac, nil
}

func (f *scriptFactory) Initialize(ws *world.State) error {
	if f.hooks.initialize == nil {
		return nil
	}
	arg := f.vm.NewTable()
	arg.RawSetString("title", lua.LString(ws.Scenario().Title))
	arg.RawSetString("factions", lua.LNumber(len(ws.Factions())))
	_, err := f.call(f.hooks.initialize, "InitializeWorld", arg)
	return err
}

// call invokes one script hook with a single table argument and returns
// the integer fields of its returned table, if any.
func (f *scriptFactory) call(fn *lua.LFunction, name string, arg *lua.LTable) (map[string]int, error) {
	if err := f.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		return nil, fmt.Errorf("%s script: %w", name, err)
	}
	ret := f.vm.Get(-1)
	f.vm.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, nil
	}
	return tableToIntMap(tbl), nil
}
