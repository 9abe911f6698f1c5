// Package loader loads Lua game content into Go structs at load time.
// The Lua VM is sandboxed and discarded after loading — zero Lua at
// runtime. Content files declare meters, characters, the map, nodes,
// events, arcs, and modifiers through curried global constructors.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/solenne/loom/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game     *lua.LTable
	player   *lua.LTable
	movement *lua.LTable
	time     *lua.LTable

	meters     []rawDef
	flags      []rawDef
	items      []rawDef
	clothing   []rawDef
	outfits    []rawDef
	characters []rawDef
	zones      []rawDef
	locations  []rawDef
	nodes      []rawDef
	events     []rawDef
	arcs       []rawDef
	modifiers  []rawDef
	actions    []rawDef
}

// rawDef is one curried constructor call before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// Load reads every .lua file from dir, compiles the collected tables
// into an immutable GameDef, and validates cross-references.
func Load(dir string) (*types.GameDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
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
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	if err := validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// sortedLuaFiles puts game.lua first so global config exists before the
// content files run; the rest load alphabetically.
func sortedLuaFiles(files []string) []string {
	sort.Strings(files)
	for i, f := range files {
		if f == "game.lua" {
			copy(files[1:i+1], files[:i])
			files[0] = "game.lua"
			break
		}
	}
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes filesystem, loading, and nondeterminism escapes.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
