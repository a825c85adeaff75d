// Package loader loads Lua battle scenarios into Go structs at load time.
// The Lua VM is discarded after loading, so no Lua runs during a battle.
package loader

import (
	"fmt"
	"sort"

	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
	lua "github.com/yuin/gopher-lua"
)

// rawShip holds a ship table before compilation.
type rawShip struct {
	id    string
	side  string
	table *lua.LTable
}

// rawTerrain holds an island or reef table before compilation.
type rawTerrain struct {
	kind  string
	table *lua.LTable
}

// rawTrigger holds a trigger table before compilation.
type rawTrigger struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

type rawExpect struct {
	name string
	expr string
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{}

	if coll.battle == nil {
		return nil, fmt.Errorf("no Battle{} definition found")
	}
	defs.Battle = compileBattle(coll.battle)

	for _, raw := range coll.ships {
		defs.Ships = append(defs.Ships, compileShip(raw))
	}

	for i, raw := range coll.terrain {
		td, err := compileTerrain(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling %s #%d: %w", raw.kind, i+1, err)
		}
		defs.Terrain = append(defs.Terrain, td)
	}

	for _, raw := range coll.triggers {
		defs.Triggers = append(defs.Triggers, compileTrigger(raw))
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	for _, raw := range coll.expects {
		defs.Expect = append(defs.Expect, types.ExpectDef{Name: raw.name, Expr: raw.expr})
	}

	return defs, nil
}

func compileBattle(tbl *lua.LTable) types.BattleDef {
	return types.BattleDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Mission: getString(tbl, "mission"),
		Width:   getInt(tbl, "width"),
		Height:  getInt(tbl, "height"),
		Seed:    int64(getNumber(tbl, "seed")),
	}
}

func compileShip(raw rawShip) types.ShipDef {
	tbl := raw.table
	return types.ShipDef{
		ID:     raw.id,
		Side:   types.Faction(raw.side),
		Name:   getString(tbl, "name"),
		Class:  getString(tbl, "class"),
		At:     getString(tbl, "at"),
		Health: getInt(tbl, "health"),
		OPFOR:  getBool(tbl, "opfor", false),
	}
}

func compileTerrain(raw rawTerrain) (types.TerrainDef, error) {
	at := getString(raw.table, "at")
	if at == "" {
		return types.TerrainDef{}, fmt.Errorf("missing at")
	}
	return types.TerrainDef{
		Kind:   grid.TerrainKind(raw.kind),
		At:     at,
		Radius: getNumber(raw.table, "radius"),
	}, nil
}

func compileTrigger(raw rawTrigger) types.TriggerDef {
	td := types.TriggerDef{
		ID:   raw.id,
		When: getString(raw.table, "when"),
		Once: getBool(raw.table, "once", true),
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		td.Effects = compileEffects(effTbl)
	}
	return td
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	})
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	effType := getString(tbl, "type")
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			key := string(ks)
			if key != "type" {
				params[key] = toGoValue(v)
			}
		}
	})
	return types.Effect{
		Type:   effType,
		Params: params,
	}
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{
		EventType: raw.eventType,
		Ship:      getString(raw.table, "ship"),
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// sortedLuaFiles returns .lua files in a directory, with battle.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var battleFile string
	var others []string
	for _, f := range files {
		if f == "battle.lua" {
			battleFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if battleFile != "" {
		return append([]string{battleFile}, others...)
	}
	return others
}
