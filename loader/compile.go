package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/solenne/loom/types"
)

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

// getNumber returns a numeric field from a Lua table, or the default.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or the default.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns an array-style string list field.
func getStringList(tbl *lua.LTable, key string) []string {
	t := getTable(tbl, key)
	if t == nil {
		return nil
	}
	var out []string
	t.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// toGoValue converts a scalar Lua value to its Go form. Numbers are
// always float64 so flag comparisons see one numeric type.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	default:
		return nil
	}
}

// compileGuard reads the when/when_all/when_any keys of a table.
func compileGuard(tbl *lua.LTable) types.Guard {
	if tbl == nil {
		return types.Guard{}
	}
	return types.Guard{
		When:    getString(tbl, "when"),
		WhenAll: getStringList(tbl, "when_all"),
		WhenAny: getStringList(tbl, "when_any"),
	}
}

// guardValue accepts either a bare expression string or a guard table,
// for fields like `locked` and `discover_when`.
func guardValue(tbl *lua.LTable, key string) types.Guard {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LString:
		return types.Guard{When: string(v)}
	case *lua.LTable:
		return compileGuard(v)
	}
	return types.Guard{}
}

// compileEffects compiles an array-style table of effect tables.
func compileEffects(tbl *lua.LTable) ([]types.Effect, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.Effect
	var ferr error
	tbl.ForEach(func(k, v lua.LValue) {
		if ferr != nil {
			return
		}
		et, ok := v.(*lua.LTable)
		if !ok {
			ferr = fmt.Errorf("effect %v is not a table", k)
			return
		}
		eff, err := compileEffect(et)
		if err != nil {
			ferr = err
			return
		}
		out = append(out, eff)
	})
	return out, ferr
}

// compileEffect compiles one effect table by its type tag. Every effect
// may carry when/when_all/when_any as its guard; for conditional the
// guard selects the branch.
func compileEffect(tbl *lua.LTable) (types.Effect, error) {
	kind := getString(tbl, "type")
	guarded := types.Guarded{Guard: compileGuard(tbl)}

	switch kind {
	case "meter_change":
		op := types.MeterOp(getString(tbl, "op"))
		if op == "" {
			op = types.OpAdd
		}
		return &types.MeterChange{
			Guarded:     guarded,
			Target:      getString(tbl, "target"),
			Meter:       getString(tbl, "meter"),
			Op:          op,
			Value:       getNumber(tbl, "value", 0),
			RespectCaps: getBool(tbl, "respect_caps", true),
			CapPerTurn:  getBool(tbl, "cap_per_turn", true),
		}, nil

	case "flag_set":
		return &types.FlagSet{
			Guarded: guarded,
			Key:     getString(tbl, "key"),
			Value:   toGoValue(tbl.RawGetString("value")),
		}, nil

	case "inventory_add":
		return &types.InventoryAdd{Guarded: guarded, Target: getString(tbl, "target"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"), Count: getInt(tbl, "count", 1)}, nil
	case "inventory_remove":
		return &types.InventoryRemove{Guarded: guarded, Target: getString(tbl, "target"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"), Count: getInt(tbl, "count", 1)}, nil
	case "inventory_take":
		return &types.InventoryTake{Guarded: guarded, Target: getString(tbl, "target"), Source: getString(tbl, "source"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"), Count: getInt(tbl, "count", 1)}, nil
	case "inventory_drop":
		return &types.InventoryDrop{Guarded: guarded, Target: getString(tbl, "target"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"), Count: getInt(tbl, "count", 1)}, nil
	case "inventory_give":
		return &types.InventoryGive{Guarded: guarded, Target: getString(tbl, "target"), Source: getString(tbl, "source"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"), Count: getInt(tbl, "count", 1)}, nil
	case "inventory_purchase":
		return &types.InventoryPurchase{Guarded: guarded, Target: getString(tbl, "target"), Source: getString(tbl, "source"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"),
			Count: getInt(tbl, "count", 1), Price: getNumber(tbl, "price", 0)}, nil
	case "inventory_sell":
		return &types.InventorySell{Guarded: guarded, Target: getString(tbl, "target"), Source: getString(tbl, "source"),
			Kind: types.ItemKind(getString(tbl, "item_type")), Item: getString(tbl, "item"),
			Count: getInt(tbl, "count", 1), Price: getNumber(tbl, "price", 0)}, nil

	case "clothing_put_on":
		return &types.ClothingPutOn{Guarded: guarded, Target: getString(tbl, "target"),
			Item: getString(tbl, "item"), Condition: types.ClothState(getString(tbl, "condition"))}, nil
	case "clothing_take_off":
		return &types.ClothingTakeOff{Guarded: guarded, Target: getString(tbl, "target"), Item: getString(tbl, "item")}, nil
	case "clothing_state":
		return &types.ClothingSetState{Guarded: guarded, Target: getString(tbl, "target"),
			Item: getString(tbl, "item"), Condition: types.ClothState(getString(tbl, "condition"))}, nil
	case "clothing_slot_state":
		return &types.ClothingSlotState{Guarded: guarded, Target: getString(tbl, "target"),
			Slot: getString(tbl, "slot"), Condition: types.ClothState(getString(tbl, "condition"))}, nil
	case "outfit_put_on":
		return &types.OutfitPutOn{Guarded: guarded, Target: getString(tbl, "target"), Outfit: getString(tbl, "item")}, nil
	case "outfit_take_off":
		return &types.OutfitTakeOff{Guarded: guarded, Target: getString(tbl, "target"), Outfit: getString(tbl, "item")}, nil

	case "move":
		return &types.Move{Guarded: guarded, Direction: getString(tbl, "direction"),
			With: getStringList(tbl, "with_characters")}, nil
	case "move_to":
		return &types.MoveTo{Guarded: guarded, Location: getString(tbl, "location"),
			With: getStringList(tbl, "with_characters")}, nil
	case "travel_to":
		return &types.TravelTo{Guarded: guarded, Location: getString(tbl, "location"),
			Method: getString(tbl, "method"), With: getStringList(tbl, "with_characters")}, nil

	case "advance_time":
		return &types.AdvanceTime{Guarded: guarded, Minutes: getInt(tbl, "minutes", 0)}, nil
	case "goto":
		return &types.Goto{Guarded: guarded, Node: getString(tbl, "node")}, nil

	case "conditional":
		thenEffs, err := compileEffects(getTable(tbl, "then"))
		if err != nil {
			return nil, err
		}
		elseEffs, err := compileEffects(getTable(tbl, "otherwise"))
		if err != nil {
			return nil, err
		}
		return &types.Conditional{Guarded: guarded, Then: thenEffs, Otherwise: elseEffs}, nil

	case "random":
		choicesTbl := getTable(tbl, "choices")
		if choicesTbl == nil {
			return nil, fmt.Errorf("random effect has no choices")
		}
		var choices []types.WeightedEffects
		var ferr error
		choicesTbl.ForEach(func(_, v lua.LValue) {
			if ferr != nil {
				return
			}
			ct, ok := v.(*lua.LTable)
			if !ok {
				ferr = fmt.Errorf("random choice is not a table")
				return
			}
			effs, err := compileEffects(getTable(ct, "effects"))
			if err != nil {
				ferr = err
				return
			}
			choices = append(choices, types.WeightedEffects{Weight: getInt(ct, "weight", 1), Effects: effs})
		})
		if ferr != nil {
			return nil, ferr
		}
		return &types.Random{Guarded: guarded, Choices: choices}, nil

	case "apply_modifier":
		return &types.ApplyModifier{Guarded: guarded, Target: getString(tbl, "target"),
			Modifier: getString(tbl, "modifier_id"), Duration: getInt(tbl, "duration", 0)}, nil
	case "remove_modifier":
		return &types.RemoveModifier{Guarded: guarded, Target: getString(tbl, "target"),
			Modifier: getString(tbl, "modifier_id")}, nil

	case "unlock":
		return &types.Unlock{Guarded: guarded,
			Items: getStringList(tbl, "items"), Clothing: getStringList(tbl, "clothing"),
			Outfits: getStringList(tbl, "outfits"), Zones: getStringList(tbl, "zones"),
			Locations: getStringList(tbl, "locations"), Actions: getStringList(tbl, "actions"),
			Endings: getStringList(tbl, "endings")}, nil
	case "lock":
		return &types.Lock{Guarded: guarded,
			Items: getStringList(tbl, "items"), Clothing: getStringList(tbl, "clothing"),
			Outfits: getStringList(tbl, "outfits"), Zones: getStringList(tbl, "zones"),
			Locations: getStringList(tbl, "locations"), Actions: getStringList(tbl, "actions"),
			Endings: getStringList(tbl, "endings")}, nil
	}
	return nil, fmt.Errorf("unknown effect type %q", kind)
}

// compile converts the collected Lua tables into a GameDef.
func compile(coll *collector) (*types.GameDef, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := &types.GameDef{
		Meters:     map[string]types.MeterDef{},
		Flags:      map[string]types.FlagDef{},
		Items:      map[string]types.ItemDef{},
		Clothing:   map[string]types.ClothingDef{},
		Outfits:    map[string]types.OutfitDef{},
		Characters: map[string]types.CharacterDef{},
		Zones:      map[string]types.ZoneDef{},
		Locations:  map[string]types.LocationDef{},
		Nodes:      map[string]types.NodeDef{},
		Events:     map[string]types.EventDef{},
		Arcs:       map[string]types.ArcDef{},
		Modifiers:  map[string]types.ModifierDef{},
		Actions:    map[string]types.ActionDef{},
	}

	defs.Meta = types.GameMeta{
		Title:         getString(coll.game, "title"),
		Author:        getString(coll.game, "author"),
		Version:       getString(coll.game, "version"),
		Intro:         getString(coll.game, "intro"),
		StartNode:     getString(coll.game, "start_node"),
		StartLocation: getString(coll.game, "start_location"),
		StartZone:     getString(coll.game, "start_zone"),
		Seed:          int64(getNumber(coll.game, "seed", 0)),
	}

	for _, raw := range coll.meters {
		defs.Meters[raw.id] = types.MeterDef{
			ID:              raw.id,
			Name:            getString(raw.table, "name"),
			Min:             getNumber(raw.table, "min", 0),
			Max:             getNumber(raw.table, "max", 100),
			Default:         getNumber(raw.table, "default", 0),
			DeltaCapPerTurn: getNumber(raw.table, "delta_cap_per_turn", 0),
			DayDecay:        getNumber(raw.table, "day_decay", 0),
			Hidden:          getBool(raw.table, "hidden", false),
			Scope:           getString(raw.table, "scope"),
		}
	}

	for _, raw := range coll.flags {
		defs.Flags[raw.id] = types.FlagDef{
			ID:      raw.id,
			Default: toGoValue(raw.table.RawGetString("default")),
			Hidden:  getBool(raw.table, "hidden", false),
		}
	}

	for _, raw := range coll.items {
		use, err := compileEffects(getTable(raw.table, "use_effects"))
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", raw.id, err)
		}
		defs.Items[raw.id] = types.ItemDef{
			ID:          raw.id,
			Name:        defaulted(getString(raw.table, "name"), raw.id),
			Description: getString(raw.table, "description"),
			Category:    getString(raw.table, "category"),
			Value:       getNumber(raw.table, "value", 0),
			Usable:      getBool(raw.table, "usable", len(use) > 0),
			UseEffects:  use,
			Locked:      getBool(raw.table, "locked", false),
		}
	}

	for _, raw := range coll.clothing {
		defs.Clothing[raw.id] = types.ClothingDef{
			ID:          raw.id,
			Name:        defaulted(getString(raw.table, "name"), raw.id),
			Description: getString(raw.table, "description"),
			Occupies:    getStringList(raw.table, "occupies"),
			Conceals:    getStringList(raw.table, "conceals"),
			Value:       getNumber(raw.table, "value", 0),
			Locked:      getBool(raw.table, "locked", false),
		}
	}

	for _, raw := range coll.outfits {
		od := types.OutfitDef{
			ID:     raw.id,
			Name:   defaulted(getString(raw.table, "name"), raw.id),
			Locked: getBool(raw.table, "locked", false),
		}
		if pieces := getTable(raw.table, "pieces"); pieces != nil {
			pieces.ForEach(func(_, v lua.LValue) {
				switch pv := v.(type) {
				case lua.LString:
					od.Pieces = append(od.Pieces, types.OutfitPiece{Item: string(pv)})
				case *lua.LTable:
					od.Pieces = append(od.Pieces, types.OutfitPiece{
						Item:      getString(pv, "item"),
						Condition: types.ClothState(getString(pv, "condition")),
					})
				}
			})
		}
		defs.Outfits[raw.id] = od
	}

	for _, raw := range coll.characters {
		cd, err := compileCharacter(raw)
		if err != nil {
			return nil, err
		}
		defs.Characters[raw.id] = cd
	}
	if coll.player != nil {
		cd, err := compileCharacter(rawDef{id: "player", table: coll.player})
		if err != nil {
			return nil, err
		}
		defs.Characters["player"] = cd
	}

	for _, raw := range coll.zones {
		defs.Zones[raw.id] = types.ZoneDef{
			ID:           raw.id,
			Name:         defaulted(getString(raw.table, "name"), raw.id),
			Locations:    getStringList(raw.table, "locations"),
			TimeCost:     getInt(raw.table, "time_cost", 0),
			TimeCategory: getString(raw.table, "time_category"),
			Locked:       guardValue(raw.table, "locked"),
			DiscoverWhen: guardValue(raw.table, "discover_when"),
		}
	}

	for _, raw := range coll.locations {
		connections := map[string]string{}
		if ct := getTable(raw.table, "connections"); ct != nil {
			ct.ForEach(func(k, v lua.LValue) {
				ks, kok := k.(lua.LString)
				vs, vok := v.(lua.LString)
				if kok && vok {
					connections[string(ks)] = string(vs)
				}
			})
		}
		defs.Locations[raw.id] = types.LocationDef{
			ID:           raw.id,
			Name:         defaulted(getString(raw.table, "name"), raw.id),
			Description:  getString(raw.table, "description"),
			Zone:         getString(raw.table, "zone"),
			Connections:  connections,
			Locked:       guardValue(raw.table, "locked"),
			DiscoverWhen: guardValue(raw.table, "discover_when"),
		}
	}

	for _, raw := range coll.nodes {
		nd, err := compileNode(raw)
		if err != nil {
			return nil, err
		}
		defs.Nodes[raw.id] = nd
	}

	for _, raw := range coll.events {
		ed, err := compileEvent(raw)
		if err != nil {
			return nil, err
		}
		defs.Events[raw.id] = ed
		defs.EventOrder = append(defs.EventOrder, raw.id)
	}

	for _, raw := range coll.arcs {
		ad, err := compileArc(raw)
		if err != nil {
			return nil, err
		}
		defs.Arcs[raw.id] = ad
		defs.ArcOrder = append(defs.ArcOrder, raw.id)
	}

	for _, raw := range coll.modifiers {
		md, err := compileModifier(raw)
		if err != nil {
			return nil, err
		}
		defs.Modifiers[raw.id] = md
		defs.ModOrder = append(defs.ModOrder, raw.id)
	}

	for _, raw := range coll.actions {
		effs, err := compileEffects(getTable(raw.table, "effects"))
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", raw.id, err)
		}
		defs.Actions[raw.id] = types.ActionDef{
			ID:           raw.id,
			Text:         defaulted(getString(raw.table, "text"), raw.id),
			Guard:        compileGuard(raw.table),
			Effects:      effs,
			Unlocked:     getBool(raw.table, "unlocked", true),
			TimeCost:     getInt(raw.table, "time_cost", 0),
			TimeCategory: getString(raw.table, "time_category"),
			SkipAI:       getBool(raw.table, "skip_ai", false),
		}
	}

	if err := compileMovement(coll.movement, defs); err != nil {
		return nil, err
	}
	if err := compileTime(coll.time, defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func defaulted(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func compileCharacter(raw rawDef) (types.CharacterDef, error) {
	cd := types.CharacterDef{
		ID:          raw.id,
		Name:        defaulted(getString(raw.table, "name"), raw.id),
		Description: getString(raw.table, "description"),
		Appearance:  getString(raw.table, "appearance"),
		Outfit:      getString(raw.table, "outfit"),
		Wardrobe:    getStringList(raw.table, "wardrobe"),
	}

	if gatesTbl := getTable(raw.table, "gates"); gatesTbl != nil {
		var ferr error
		gatesTbl.ForEach(func(_, v lua.LValue) {
			gt, ok := v.(*lua.LTable)
			if !ok {
				ferr = fmt.Errorf("character %s: gate is not a table", raw.id)
				return
			}
			cd.Gates = append(cd.Gates, types.GateDef{
				ID:         getString(gt, "id"),
				Guard:      compileGuard(gt),
				Acceptance: getString(gt, "acceptance"),
				Refusal:    getString(gt, "refusal"),
			})
		})
		if ferr != nil {
			return cd, ferr
		}
	}

	if schedTbl := getTable(raw.table, "schedule"); schedTbl != nil {
		schedTbl.ForEach(func(_, v lua.LValue) {
			st, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			cd.Schedule = append(cd.Schedule, types.ScheduleEntry{
				Location: getString(st, "location"),
				Days:     getStringList(st, "days"),
				From:     getInt(st, "from", 0),
				To:       getInt(st, "to", 0),
				Guard:    compileGuard(st),
			})
		})
	}

	if invTbl := getTable(raw.table, "inventory"); invTbl != nil {
		cd.Inventory = map[string]int{}
		invTbl.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vn, vok := v.(lua.LNumber)
			if kok && vok {
				cd.Inventory[string(ks)] = int(vn)
			}
		})
	}

	if metersTbl := getTable(raw.table, "meters"); metersTbl != nil {
		cd.Meters = map[string]float64{}
		metersTbl.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vn, vok := v.(lua.LNumber)
			if kok && vok {
				cd.Meters[string(ks)] = float64(vn)
			}
		})
	}
	return cd, nil
}

func compileChoices(tbl *lua.LTable, owner string) ([]types.ChoiceDef, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.ChoiceDef
	var ferr error
	tbl.ForEach(func(_, v lua.LValue) {
		if ferr != nil {
			return
		}
		ct, ok := v.(*lua.LTable)
		if !ok {
			ferr = fmt.Errorf("%s: choice is not a table", owner)
			return
		}
		effs, err := compileEffects(getTable(ct, "effects"))
		if err != nil {
			ferr = fmt.Errorf("%s: %w", owner, err)
			return
		}
		out = append(out, types.ChoiceDef{
			ID:           getString(ct, "id"),
			Text:         getString(ct, "text"),
			Guard:        compileGuard(ct),
			Effects:      effs,
			Goto:         getString(ct, "goto"),
			TimeCost:     getInt(ct, "time_cost", 0),
			TimeCategory: getString(ct, "time_category"),
			SkipAI:       getBool(ct, "skip_ai", false),
		})
	})
	return out, ferr
}

func compileNode(raw rawDef) (types.NodeDef, error) {
	choices, err := compileChoices(getTable(raw.table, "choices"), "node "+raw.id)
	if err != nil {
		return types.NodeDef{}, err
	}
	onEnter, err := compileEffects(getTable(raw.table, "on_enter"))
	if err != nil {
		return types.NodeDef{}, fmt.Errorf("node %s: %w", raw.id, err)
	}
	onExit, err := compileEffects(getTable(raw.table, "on_exit"))
	if err != nil {
		return types.NodeDef{}, fmt.Errorf("node %s: %w", raw.id, err)
	}

	nd := types.NodeDef{
		ID:           raw.id,
		Title:        defaulted(getString(raw.table, "title"), raw.id),
		Type:         types.NodeType(defaulted(getString(raw.table, "type"), string(types.NodeScene))),
		Beats:        getStringList(raw.table, "beats"),
		Choices:      choices,
		OnEnter:      onEnter,
		OnExit:       onExit,
		TimeBehavior: getString(raw.table, "time_behavior"),
	}

	if trTbl := getTable(raw.table, "transitions"); trTbl != nil {
		trTbl.ForEach(func(_, v lua.LValue) {
			tt, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			nd.Transitions = append(nd.Transitions, types.TransitionDef{
				To:    getString(tt, "to"),
				Guard: compileGuard(tt),
			})
		})
	}
	return nd, nil
}

func compileEvent(raw rawDef) (types.EventDef, error) {
	choices, err := compileChoices(getTable(raw.table, "choices"), "event "+raw.id)
	if err != nil {
		return types.EventDef{}, err
	}
	onEnter, err := compileEffects(getTable(raw.table, "on_enter"))
	if err != nil {
		return types.EventDef{}, fmt.Errorf("event %s: %w", raw.id, err)
	}
	onExit, err := compileEffects(getTable(raw.table, "on_exit"))
	if err != nil {
		return types.EventDef{}, fmt.Errorf("event %s: %w", raw.id, err)
	}

	ed := types.EventDef{
		ID:          raw.id,
		Guard:       compileGuard(raw.table),
		Probability: getInt(raw.table, "probability", 100),
		Cooldown:    getInt(raw.table, "cooldown", 0),
		OncePerGame: getBool(raw.table, "once_per_game", false),
		Beats:       getStringList(raw.table, "beats"),
		Choices:     choices,
		OnEnter:     onEnter,
		OnExit:      onExit,
	}

	if trTbl := getTable(raw.table, "triggers"); trTbl != nil {
		var ferr error
		trTbl.ForEach(func(_, v lua.LValue) {
			if ferr != nil {
				return
			}
			tt, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			effs, err := compileEffects(getTable(tt, "effects"))
			if err != nil {
				ferr = fmt.Errorf("event %s: %w", raw.id, err)
				return
			}
			ed.Triggers = append(ed.Triggers, types.TriggerDef{
				Guard:   compileGuard(tt),
				Effects: effs,
			})
		})
		if ferr != nil {
			return ed, ferr
		}
	}
	return ed, nil
}

func compileArc(raw rawDef) (types.ArcDef, error) {
	ad := types.ArcDef{
		ID:         raw.id,
		Name:       defaulted(getString(raw.table, "name"), raw.id),
		Repeatable: getBool(raw.table, "repeatable", false),
	}
	stagesTbl := getTable(raw.table, "stages")
	if stagesTbl == nil {
		return ad, fmt.Errorf("arc %s has no stages", raw.id)
	}
	var ferr error
	stagesTbl.ForEach(func(_, v lua.LValue) {
		if ferr != nil {
			return
		}
		st, ok := v.(*lua.LTable)
		if !ok {
			ferr = fmt.Errorf("arc %s: stage is not a table", raw.id)
			return
		}
		onEnter, err := compileEffects(getTable(st, "on_enter"))
		if err != nil {
			ferr = fmt.Errorf("arc %s: %w", raw.id, err)
			return
		}
		onExit, err := compileEffects(getTable(st, "on_exit"))
		if err != nil {
			ferr = fmt.Errorf("arc %s: %w", raw.id, err)
			return
		}
		ad.Stages = append(ad.Stages, types.StageDef{
			ID:          getString(st, "id"),
			Description: getString(st, "description"),
			Guard:       compileGuard(st),
			OnEnter:     onEnter,
			OnExit:      onExit,
		})
	})
	return ad, ferr
}

func compileModifier(raw rawDef) (types.ModifierDef, error) {
	onEnter, err := compileEffects(getTable(raw.table, "on_enter"))
	if err != nil {
		return types.ModifierDef{}, fmt.Errorf("modifier %s: %w", raw.id, err)
	}
	onExit, err := compileEffects(getTable(raw.table, "on_exit"))
	if err != nil {
		return types.ModifierDef{}, fmt.Errorf("modifier %s: %w", raw.id, err)
	}

	md := types.ModifierDef{
		ID:             raw.id,
		Name:           defaulted(getString(raw.table, "name"), raw.id),
		Group:          getString(raw.table, "group"),
		Stacking:       types.StackRule(defaulted(getString(raw.table, "stacking"), string(types.StackAll))),
		Priority:       getInt(raw.table, "priority", 0),
		Guard:          compileGuard(raw.table),
		Duration:       getInt(raw.table, "duration", 0),
		OnEnter:        onEnter,
		OnExit:         onExit,
		AllowGates:     getStringList(raw.table, "allow_gates"),
		DisallowGates:  getStringList(raw.table, "disallow_gates"),
		TimeMultiplier: getNumber(raw.table, "time_multiplier", 0),
	}

	if clampTbl := getTable(raw.table, "clamp_meters"); clampTbl != nil {
		md.ClampMeters = map[string]types.MeterClamp{}
		clampTbl.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			ct, vok := v.(*lua.LTable)
			if !kok || !vok {
				return
			}
			clamp := types.MeterClamp{}
			if n, ok := ct.RawGetString("min").(lua.LNumber); ok {
				f := float64(n)
				clamp.Min = &f
			}
			if n, ok := ct.RawGetString("max").(lua.LNumber); ok {
				f := float64(n)
				clamp.Max = &f
			}
			md.ClampMeters[string(ks)] = clamp
		})
	}
	return md, nil
}

func compileMovement(tbl *lua.LTable, defs *types.GameDef) error {
	defs.Movement.Methods = map[string]types.TravelMethodDef{}
	defs.Movement.Distances = map[string]map[string]float64{}
	if tbl == nil {
		return nil
	}
	defs.Movement.LocalTimeCost = getInt(tbl, "local_time_cost", 0)
	defs.Movement.LocalTimeCategory = getString(tbl, "local_time_category")

	if methods := getTable(tbl, "methods"); methods != nil {
		methods.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			mt, vok := v.(*lua.LTable)
			if !kok || !vok {
				return
			}
			defs.Movement.Methods[string(ks)] = types.TravelMethodDef{
				ID:                  string(ks),
				Name:                defaulted(getString(mt, "name"), string(ks)),
				TimeCostPerDistance: getNumber(mt, "time_cost_per_distance", 0),
				Speed:               getNumber(mt, "speed", 0),
				Category:            getString(mt, "category"),
				Active:              getBool(mt, "active", false),
			}
		})
	}

	if distances := getTable(tbl, "distances"); distances != nil {
		distances.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			dt, vok := v.(*lua.LTable)
			if !kok || !vok {
				return
			}
			row := map[string]float64{}
			dt.ForEach(func(k2, v2 lua.LValue) {
				ks2, kok2 := k2.(lua.LString)
				vn, vok2 := v2.(lua.LNumber)
				if kok2 && vok2 {
					row[string(ks2)] = float64(vn)
				}
			})
			defs.Movement.Distances[string(ks)] = row
		})
	}
	return nil
}

func compileTime(tbl *lua.LTable, defs *types.GameDef) error {
	defs.Time.Categories = map[string]int{}
	if tbl == nil {
		return nil
	}
	defs.Time.StartDay = getInt(tbl, "start_day", 1)
	defs.Time.StartMinutes = getInt(tbl, "start_minutes", 0)
	defs.Time.StartWeekday = getString(tbl, "start_weekday")
	defs.Time.Weekdays = getStringList(tbl, "weekdays")
	defs.Time.DefaultConversation = getInt(tbl, "default_conversation", 0)
	defs.Time.DefaultChoice = getInt(tbl, "default_choice", 0)
	defs.Time.DefaultMovement = getInt(tbl, "default_movement", 0)
	defs.Time.NodeVisitCap = getInt(tbl, "node_visit_cap", 0)
	defs.Time.MoneyMeter = getString(tbl, "money_meter")

	if slots := getTable(tbl, "slots"); slots != nil {
		slots.ForEach(func(_, v lua.LValue) {
			st, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			defs.Time.Slots = append(defs.Time.Slots, types.SlotDef{
				Name: getString(st, "name"),
				From: getInt(st, "from", 0),
				To:   getInt(st, "to", 0),
			})
		})
	}

	if cats := getTable(tbl, "categories"); cats != nil {
		cats.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vn, vok := v.(lua.LNumber)
			if kok && vok {
				defs.Time.Categories[string(ks)] = int(vn)
			}
		})
	}

	var err error
	defs.Time.DayEndEffects, err = compileEffects(getTable(tbl, "day_end_effects"))
	if err != nil {
		return fmt.Errorf("time config: %w", err)
	}
	defs.Time.DayStartEffects, err = compileEffects(getTable(tbl, "day_start_effects"))
	if err != nil {
		return fmt.Errorf("time config: %w", err)
	}
	return nil
}
