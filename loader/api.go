package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Battle { title = "...", mission = "...", width = 30, height = 30 }
	L.SetGlobal("Battle", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.battle = tbl
		return 0
	}))

	// Player "id" { ... } and Enemy "id" { ... }: curried, the first call
	// takes the ID and returns a function that takes the ship table.
	L.SetGlobal("Player", shipConstructor(L, coll, "player"))
	L.SetGlobal("Enemy", shipConstructor(L, coll, "enemy"))

	// Island { at = "K12", radius = 2 }, Reef { ... }
	L.SetGlobal("Island", terrainConstructor(L, coll, "island"))
	L.SetGlobal("Reef", terrainConstructor(L, coll, "reef"))

	// Trigger "id" { when = "turn >= 3", once = true, effects = { ... } }
	L.SetGlobal("Trigger", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.triggers = append(coll.triggers, rawTrigger{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// On("event_type", { ship = "...", effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))

	// Expect("name", "expression")
	L.SetGlobal("Expect", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		expr := L.CheckString(2)
		coll.expects = append(coll.expects, rawExpect{name: name, expr: expr})
		return 0
	}))

	// Effects { effect1, effect2, ... }: pass-through, returns the table.
	L.SetGlobal("Effects", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))
}

func shipConstructor(L *lua.LState, coll *collector, side string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.ships = append(coll.ships, rawShip{id: id, side: side, table: tbl})
			return 0
		}))
		return 1
	})
}

func terrainConstructor(L *lua.LState, coll *collector, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.terrain = append(coll.terrain, rawTerrain{kind: kind, table: tbl})
		return 0
	})
}

// effect builds an effect table with the given type and fields.
func effect(L *lua.LState, effType string, fields ...any) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(effType))
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		tbl.RawSetString(key, fields[i+1].(lua.LValue))
	}
	return tbl
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		L.Push(effect(L, "say", "text", lua.LString(text)))
		return 1
	}))

	// MoveShip("ship", "K20")
	L.SetGlobal("MoveShip", L.NewFunction(func(L *lua.LState) int {
		ship := L.CheckString(1)
		to := L.CheckString(2)
		L.Push(effect(L, "move_ship", "ship", lua.LString(ship), "to", lua.LString(to)))
		return 1
	}))

	// DamageShip("ship", amount)
	L.SetGlobal("DamageShip", L.NewFunction(func(L *lua.LState) int {
		ship := L.CheckString(1)
		amount := L.CheckNumber(2)
		L.Push(effect(L, "damage_ship", "ship", lua.LString(ship), "amount", amount))
		return 1
	}))

	// RepairShip("ship", amount)
	L.SetGlobal("RepairShip", L.NewFunction(func(L *lua.LState) int {
		ship := L.CheckString(1)
		amount := L.CheckNumber(2)
		L.Push(effect(L, "repair_ship", "ship", lua.LString(ship), "amount", amount))
		return 1
	}))

	// SinkShip("ship")
	L.SetGlobal("SinkShip", L.NewFunction(func(L *lua.LState) int {
		ship := L.CheckString(1)
		L.Push(effect(L, "sink_ship", "ship", lua.LString(ship)))
		return 1
	}))

	// DamageOutpost(amount)
	L.SetGlobal("DamageOutpost", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(effect(L, "damage_outpost", "amount", amount))
		return 1
	}))

	// SpawnEnemy { id = "...", name = "...", class = "...", at = "...", health = 800 }
	L.SetGlobal("SpawnEnemy", L.NewFunction(func(L *lua.LState) int {
		src := L.CheckTable(1)
		tbl := effect(L, "spawn_enemy")
		src.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok && ks != "type" {
				tbl.RawSetString(string(ks), v)
			}
		})
		L.Push(tbl)
		return 1
	}))

	// EmitEvent("type")
	L.SetGlobal("EmitEvent", L.NewFunction(func(L *lua.LState) int {
		event := L.CheckString(1)
		L.Push(effect(L, "emit_event", "event", lua.LString(event)))
		return 1
	}))

	// Stop()
	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		L.Push(effect(L, "stop"))
		return 1
	}))
}
