package loader

import (
	"fmt"
	"sort"

	"github.com/solenne/loom/types"
)

// validate cross-checks every reference in the compiled content and
// collects all problems before reporting, so authors fix a whole batch
// at once.
func validate(defs *types.GameDef) error {
	v := &validator{defs: defs}

	v.checkMeta()
	v.checkMeters()
	v.checkItems()
	v.checkOutfits()
	v.checkCharacters()
	v.checkZones()
	v.checkLocations()
	v.checkNodes()
	v.checkEvents()
	v.checkArcs()
	v.checkModifiers()
	v.checkActions()
	v.checkMovement()
	v.checkTime()

	if len(v.problems) == 0 {
		return nil
	}
	sort.Strings(v.problems)
	msg := v.problems[0]
	for _, p := range v.problems[1:] {
		msg += "\n" + p
	}
	return fmt.Errorf("content validation failed (%d problems):\n%s", len(v.problems), msg)
}

type validator struct {
	defs     *types.GameDef
	problems []string
}

func (v *validator) errorf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) checkMeta() {
	m := v.defs.Meta
	if m.StartNode == "" {
		v.errorf("game: start_node is required")
	} else if _, ok := v.defs.Nodes[m.StartNode]; !ok {
		v.errorf("game: start_node %q is not a defined node", m.StartNode)
	}
	if m.StartLocation == "" {
		v.errorf("game: start_location is required")
	} else if _, ok := v.defs.Locations[m.StartLocation]; !ok {
		v.errorf("game: start_location %q is not a defined location", m.StartLocation)
	}
	if m.StartZone != "" {
		if _, ok := v.defs.Zones[m.StartZone]; !ok {
			v.errorf("game: start_zone %q is not a defined zone", m.StartZone)
		}
	}
	if loc, ok := v.defs.Locations[m.StartLocation]; ok && m.StartZone != "" && loc.Zone != m.StartZone {
		v.errorf("game: start_location %q is not in start_zone %q", m.StartLocation, m.StartZone)
	}
}

func (v *validator) checkMeters() {
	for id, md := range v.defs.Meters {
		if md.Min > md.Max {
			v.errorf("meter %s: min %g exceeds max %g", id, md.Min, md.Max)
		}
		if md.Default < md.Min || md.Default > md.Max {
			v.errorf("meter %s: default %g outside [%g, %g]", id, md.Default, md.Min, md.Max)
		}
		if md.DeltaCapPerTurn < 0 {
			v.errorf("meter %s: delta_cap_per_turn must not be negative", id)
		}
	}
}

func (v *validator) checkItems() {
	for id, it := range v.defs.Items {
		v.checkEffects(fmt.Sprintf("item %s use_effects", id), it.UseEffects)
	}
}

func (v *validator) checkOutfits() {
	for id, od := range v.defs.Outfits {
		if len(od.Pieces) == 0 {
			v.errorf("outfit %s: has no pieces", id)
		}
		for _, p := range od.Pieces {
			if _, ok := v.defs.Clothing[p.Item]; !ok {
				v.errorf("outfit %s: piece %q is not a defined clothing item", id, p.Item)
			}
		}
	}
}

func (v *validator) checkCharacters() {
	for id, cd := range v.defs.Characters {
		if cd.Outfit != "" {
			if _, ok := v.defs.Outfits[cd.Outfit]; !ok {
				v.errorf("character %s: outfit %q is not a defined outfit", id, cd.Outfit)
			}
		}
		for _, c := range cd.Wardrobe {
			if _, ok := v.defs.Clothing[c]; !ok {
				v.errorf("character %s: wardrobe item %q is not a defined clothing item", id, c)
			}
		}
		for item := range cd.Inventory {
			if !v.knownHoldable(item) {
				v.errorf("character %s: inventory item %q is not defined", id, item)
			}
		}
		for meter := range cd.Meters {
			if _, ok := v.defs.Meters[meter]; !ok {
				v.errorf("character %s: meter %q is not defined", id, meter)
			}
		}
		seen := map[string]bool{}
		for _, g := range cd.Gates {
			if g.ID == "" {
				v.errorf("character %s: gate without id", id)
				continue
			}
			if seen[g.ID] {
				v.errorf("character %s: duplicate gate id %q", id, g.ID)
			}
			seen[g.ID] = true
		}
		for _, se := range cd.Schedule {
			if _, ok := v.defs.Locations[se.Location]; !ok {
				v.errorf("character %s: schedule location %q is not defined", id, se.Location)
			}
			if se.From >= se.To {
				v.errorf("character %s: schedule window [%d, %d) at %s is empty", id, se.From, se.To, se.Location)
			}
		}
	}
}

func (v *validator) checkZones() {
	for id, zd := range v.defs.Zones {
		for _, loc := range zd.Locations {
			ld, ok := v.defs.Locations[loc]
			if !ok {
				v.errorf("zone %s: location %q is not defined", id, loc)
				continue
			}
			if ld.Zone != id {
				v.errorf("zone %s: location %q declares zone %q", id, loc, ld.Zone)
			}
		}
		if zd.TimeCost > 0 && zd.TimeCategory != "" {
			v.errorf("zone %s: time_cost and time_category are exclusive", id)
		}
		if zd.TimeCategory != "" {
			v.checkCategory(fmt.Sprintf("zone %s", id), zd.TimeCategory)
		}
	}
}

func (v *validator) checkLocations() {
	for id, ld := range v.defs.Locations {
		if ld.Zone == "" {
			v.errorf("location %s: zone is required", id)
		} else if _, ok := v.defs.Zones[ld.Zone]; !ok {
			v.errorf("location %s: zone %q is not defined", id, ld.Zone)
		}
		for dir, dest := range ld.Connections {
			dd, ok := v.defs.Locations[dest]
			if !ok {
				v.errorf("location %s: connection %s -> %q is not a defined location", id, dir, dest)
				continue
			}
			if dd.Zone != ld.Zone {
				v.errorf("location %s: connection %s -> %q crosses zones (use travel methods)", id, dir, dest)
			}
		}
	}
}

func (v *validator) checkNodes() {
	choiceOwner := map[string]string{}
	for id, nd := range v.defs.Nodes {
		v.checkEffects(fmt.Sprintf("node %s on_enter", id), nd.OnEnter)
		v.checkEffects(fmt.Sprintf("node %s on_exit", id), nd.OnExit)
		v.checkChoices(fmt.Sprintf("node %s", id), nd.Choices, choiceOwner)
		for _, tr := range nd.Transitions {
			if _, ok := v.defs.Nodes[tr.To]; !ok {
				v.errorf("node %s: transition to undefined node %q", id, tr.To)
			}
		}
		switch nd.Type {
		case types.NodeScene, types.NodeHub, types.NodeEncounter, types.NodeEnding:
		default:
			v.errorf("node %s: unknown type %q", id, nd.Type)
		}
		if nd.TimeBehavior != "" {
			v.checkCategory(fmt.Sprintf("node %s time_behavior", id), nd.TimeBehavior)
		}
	}
	for id, ed := range v.defs.Events {
		v.checkChoices(fmt.Sprintf("event %s", id), ed.Choices, choiceOwner)
	}
}

func (v *validator) checkChoices(owner string, choices []types.ChoiceDef, seen map[string]string) {
	for _, c := range choices {
		if c.ID == "" {
			v.errorf("%s: choice without id", owner)
			continue
		}
		if prev, dup := seen[c.ID]; dup {
			v.errorf("%s: choice id %q already used by %s", owner, c.ID, prev)
		}
		seen[c.ID] = owner
		v.checkEffects(fmt.Sprintf("%s choice %s", owner, c.ID), c.Effects)
		if c.Goto != "" {
			if _, ok := v.defs.Nodes[c.Goto]; !ok {
				v.errorf("%s: choice %s goto undefined node %q", owner, c.ID, c.Goto)
			}
		}
		if c.TimeCategory != "" {
			v.checkCategory(fmt.Sprintf("%s choice %s", owner, c.ID), c.TimeCategory)
		}
	}
}

func (v *validator) checkEvents() {
	for id, ed := range v.defs.Events {
		if ed.Probability < 0 || ed.Probability > 100 {
			v.errorf("event %s: probability %d outside [0, 100]", id, ed.Probability)
		}
		if ed.Cooldown < 0 {
			v.errorf("event %s: cooldown must not be negative", id)
		}
		v.checkEffects(fmt.Sprintf("event %s on_enter", id), ed.OnEnter)
		v.checkEffects(fmt.Sprintf("event %s on_exit", id), ed.OnExit)
		for i, tr := range ed.Triggers {
			v.checkEffects(fmt.Sprintf("event %s trigger %d", id, i), tr.Effects)
		}
	}
}

func (v *validator) checkArcs() {
	for id, ad := range v.defs.Arcs {
		seen := map[string]bool{}
		for _, st := range ad.Stages {
			if st.ID == "" {
				v.errorf("arc %s: stage without id", id)
				continue
			}
			if seen[st.ID] {
				v.errorf("arc %s: duplicate stage id %q", id, st.ID)
			}
			seen[st.ID] = true
			v.checkEffects(fmt.Sprintf("arc %s stage %s on_enter", id, st.ID), st.OnEnter)
			v.checkEffects(fmt.Sprintf("arc %s stage %s on_exit", id, st.ID), st.OnExit)
		}
	}
}

func (v *validator) checkModifiers() {
	for id, md := range v.defs.Modifiers {
		switch md.Stacking {
		case types.StackAll, types.StackHighest, types.StackLowest:
		default:
			v.errorf("modifier %s: unknown stacking rule %q", id, md.Stacking)
		}
		if md.Stacking != types.StackAll && md.Group == "" {
			v.errorf("modifier %s: stacking %q requires a group", id, md.Stacking)
		}
		if md.Duration < 0 {
			v.errorf("modifier %s: duration must not be negative", id)
		}
		if md.TimeMultiplier < 0 {
			v.errorf("modifier %s: time_multiplier must not be negative", id)
		}
		for meter := range md.ClampMeters {
			if _, ok := v.defs.Meters[meter]; !ok {
				v.errorf("modifier %s: clamp meter %q is not defined", id, meter)
			}
		}
		v.checkEffects(fmt.Sprintf("modifier %s on_enter", id), md.OnEnter)
		v.checkEffects(fmt.Sprintf("modifier %s on_exit", id), md.OnExit)
	}
}

func (v *validator) checkActions() {
	for id, ad := range v.defs.Actions {
		v.checkEffects(fmt.Sprintf("action %s", id), ad.Effects)
		if ad.TimeCategory != "" {
			v.checkCategory(fmt.Sprintf("action %s", id), ad.TimeCategory)
		}
	}
}

func (v *validator) checkMovement() {
	for id, m := range v.defs.Movement.Methods {
		set := 0
		if m.TimeCostPerDistance > 0 {
			set++
		}
		if m.Speed > 0 {
			set++
		}
		if m.Category != "" {
			set++
			v.checkCategory(fmt.Sprintf("travel method %s", id), m.Category)
		}
		if set != 1 {
			v.errorf("travel method %s: exactly one of time_cost_per_distance, speed, category must be set", id)
		}
	}
	for from, row := range v.defs.Movement.Distances {
		if _, ok := v.defs.Zones[from]; !ok {
			v.errorf("movement distances: zone %q is not defined", from)
		}
		for to, d := range row {
			if _, ok := v.defs.Zones[to]; !ok {
				v.errorf("movement distances: zone %q is not defined", to)
			}
			if d <= 0 {
				v.errorf("movement distances: %s -> %s distance must be positive", from, to)
			}
		}
	}
	if v.defs.Movement.LocalTimeCost > 0 && v.defs.Movement.LocalTimeCategory != "" {
		v.errorf("movement: local_time_cost and local_time_category are exclusive")
	}
	if v.defs.Movement.LocalTimeCategory != "" {
		v.checkCategory("movement local_time_category", v.defs.Movement.LocalTimeCategory)
	}
}

func (v *validator) checkTime() {
	t := v.defs.Time
	if t.StartMinutes < 0 || t.StartMinutes >= 1440 {
		v.errorf("time: start_minutes %d outside [0, 1440)", t.StartMinutes)
	}
	if t.StartWeekday != "" && len(t.Weekdays) > 0 && !contains(t.Weekdays, t.StartWeekday) {
		v.errorf("time: start_weekday %q not in weekdays", t.StartWeekday)
	}
	for _, s := range t.Slots {
		if s.From >= s.To {
			v.errorf("time: slot %q window [%d, %d) is empty", s.Name, s.From, s.To)
		}
	}
	if t.MoneyMeter != "" {
		if _, ok := v.defs.Meters[t.MoneyMeter]; !ok {
			v.errorf("time: money_meter %q is not a defined meter", t.MoneyMeter)
		}
	}
	v.checkEffects("time day_end_effects", t.DayEndEffects)
	v.checkEffects("time day_start_effects", t.DayStartEffects)
}

// checkEffects validates references inside an effect list, recursing
// into conditional and random branches.
func (v *validator) checkEffects(where string, effs []types.Effect) {
	for _, e := range effs {
		switch eff := e.(type) {
		case *types.MeterChange:
			if _, ok := v.defs.Meters[eff.Meter]; !ok {
				v.errorf("%s: meter %q is not defined", where, eff.Meter)
			}
			v.checkOwnerRef(where, eff.Target)
		case *types.FlagSet:
			if _, ok := v.defs.Flags[eff.Key]; !ok {
				v.errorf("%s: flag %q is not defined", where, eff.Key)
			}
		case *types.InventoryAdd:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventoryRemove:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventoryTake:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventoryDrop:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventoryGive:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventoryPurchase:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.InventorySell:
			v.checkItemRef(where, eff.Kind, eff.Item)
			v.checkCount(where, eff.Count)
		case *types.ClothingPutOn:
			v.checkClothingRef(where, eff.Item)
		case *types.ClothingTakeOff:
			v.checkClothingRef(where, eff.Item)
		case *types.ClothingSetState:
			v.checkClothingRef(where, eff.Item)
		case *types.OutfitPutOn:
			v.checkOutfitRef(where, eff.Outfit)
		case *types.OutfitTakeOff:
			v.checkOutfitRef(where, eff.Outfit)
		case *types.MoveTo:
			v.checkLocationRef(where, eff.Location)
		case *types.TravelTo:
			v.checkLocationRef(where, eff.Location)
			if eff.Method != "" {
				if _, ok := v.defs.Movement.Methods[eff.Method]; !ok {
					v.errorf("%s: travel method %q is not defined", where, eff.Method)
				}
			}
		case *types.Goto:
			if _, ok := v.defs.Nodes[eff.Node]; !ok {
				v.errorf("%s: goto undefined node %q", where, eff.Node)
			}
		case *types.Conditional:
			v.checkEffects(where, eff.Then)
			v.checkEffects(where, eff.Otherwise)
		case *types.Random:
			if len(eff.Choices) == 0 {
				v.errorf("%s: random effect has no choices", where)
			}
			for _, c := range eff.Choices {
				if c.Weight <= 0 {
					v.errorf("%s: random choice weight must be positive", where)
				}
				v.checkEffects(where, c.Effects)
			}
		case *types.ApplyModifier:
			if _, ok := v.defs.Modifiers[eff.Modifier]; !ok {
				v.errorf("%s: modifier %q is not defined", where, eff.Modifier)
			}
			v.checkOwnerRef(where, eff.Target)
		case *types.RemoveModifier:
			if _, ok := v.defs.Modifiers[eff.Modifier]; !ok {
				v.errorf("%s: modifier %q is not defined", where, eff.Modifier)
			}
			v.checkOwnerRef(where, eff.Target)
		case *types.Unlock:
			v.checkLockLists(where, eff.Items, eff.Clothing, eff.Outfits, eff.Zones, eff.Locations, eff.Actions)
		case *types.Lock:
			v.checkLockLists(where, eff.Items, eff.Clothing, eff.Outfits, eff.Zones, eff.Locations, eff.Actions)
		}
	}
}

func (v *validator) checkLockLists(where string, items, clothing, outfits, zones, locations, actions []string) {
	for _, id := range items {
		if _, ok := v.defs.Items[id]; !ok {
			v.errorf("%s: item %q is not defined", where, id)
		}
	}
	for _, id := range clothing {
		v.checkClothingRef(where, id)
	}
	for _, id := range outfits {
		v.checkOutfitRef(where, id)
	}
	for _, id := range zones {
		if _, ok := v.defs.Zones[id]; !ok {
			v.errorf("%s: zone %q is not defined", where, id)
		}
	}
	for _, id := range locations {
		v.checkLocationRef(where, id)
	}
	for _, id := range actions {
		if _, ok := v.defs.Actions[id]; !ok {
			v.errorf("%s: action %q is not defined", where, id)
		}
	}
}

func (v *validator) checkOwnerRef(where, target string) {
	if target == "" || target == "player" {
		return
	}
	if _, ok := v.defs.Characters[target]; ok {
		return
	}
	if _, ok := v.defs.Locations[target]; ok {
		return
	}
	v.errorf("%s: target %q is not a defined character or location", where, target)
}

func (v *validator) checkItemRef(where string, kind types.ItemKind, item string) {
	switch kind {
	case types.KindItem:
		if _, ok := v.defs.Items[item]; !ok {
			v.errorf("%s: item %q is not defined", where, item)
		}
	case types.KindClothing:
		v.checkClothingRef(where, item)
	case types.KindOutfit:
		v.checkOutfitRef(where, item)
	case "":
		if !v.knownHoldable(item) {
			v.errorf("%s: %q is not a defined item, clothing, or outfit", where, item)
		}
	default:
		v.errorf("%s: unknown item kind %q", where, kind)
	}
}

func (v *validator) checkClothingRef(where, id string) {
	if _, ok := v.defs.Clothing[id]; !ok {
		v.errorf("%s: clothing %q is not defined", where, id)
	}
}

func (v *validator) checkOutfitRef(where, id string) {
	if _, ok := v.defs.Outfits[id]; !ok {
		v.errorf("%s: outfit %q is not defined", where, id)
	}
}

func (v *validator) checkLocationRef(where, id string) {
	if _, ok := v.defs.Locations[id]; !ok {
		v.errorf("%s: location %q is not defined", where, id)
	}
}

func (v *validator) checkCategory(where, cat string) {
	if _, ok := v.defs.Time.Categories[cat]; !ok {
		v.errorf("%s: time category %q is not defined", where, cat)
	}
}

func (v *validator) checkCount(where string, count int) {
	if count <= 0 {
		v.errorf("%s: count must be positive", where)
	}
}

func (v *validator) knownHoldable(id string) bool {
	if _, ok := v.defs.Items[id]; ok {
		return true
	}
	if _, ok := v.defs.Clothing[id]; ok {
		return true
	}
	_, ok := v.defs.Outfits[id]
	return ok
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
