package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua constructors as globals. Definitions
// with IDs are curried — `Meter "trust" { ... }` — while the four
// singletons (Game, Player, Movement, Time) take one table.
func registerAPI(L *lua.LState, coll *collector) {
	single := func(name string, dst **lua.LTable) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			*dst = L.CheckTable(1)
			return 0
		}))
	}
	single("Game", &coll.game)
	single("Player", &coll.player)
	single("Movement", &coll.movement)
	single("Time", &coll.time)

	curried := func(name string, dst *[]rawDef) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				*dst = append(*dst, rawDef{id: id, table: L.CheckTable(1)})
				return 0
			}))
			return 1
		}))
	}
	curried("Meter", &coll.meters)
	curried("Flag", &coll.flags)
	curried("Item", &coll.items)
	curried("Clothing", &coll.clothing)
	curried("Outfit", &coll.outfits)
	curried("Character", &coll.characters)
	curried("Zone", &coll.zones)
	curried("Location", &coll.locations)
	curried("Node", &coll.nodes)
	curried("Event", &coll.events)
	curried("Arc", &coll.arcs)
	curried("Modifier", &coll.modifiers)
	curried("Action", &coll.actions)
}
