package types

// Guard is the optional condition on an effect, gate, event, or transition.
// At most one of the three fields is set; the zero value always passes.
type Guard struct {
	When    string   // single DSL expression
	WhenAll []string // all must be truthy
	WhenAny []string // at least one must be truthy
}

// Empty reports whether the guard has no conditions.
func (g Guard) Empty() bool {
	return g.When == "" && len(g.WhenAll) == 0 && len(g.WhenAny) == 0
}

// MeterOp is the arithmetic operation of a MeterChange.
type MeterOp string

const (
	OpAdd      MeterOp = "add"
	OpSubtract MeterOp = "subtract"
	OpSet      MeterOp = "set"
	OpMultiply MeterOp = "multiply"
	OpDivide   MeterOp = "divide"
)

// ClothState is the wear condition of a worn clothing item.
type ClothState string

const (
	ClothIntact    ClothState = "intact"
	ClothOpened    ClothState = "opened"
	ClothDisplaced ClothState = "displaced"
	ClothRemoved   ClothState = "removed"
)

// ItemKind distinguishes the three entries sharing the inventory namespace.
type ItemKind string

const (
	KindItem     ItemKind = "item"
	KindClothing ItemKind = "clothing"
	KindOutfit   ItemKind = "outfit"
)

// Effect is one atomic declarative state mutation. The set of kinds is
// closed: every variant lives in this file and carries Guarded, so the
// resolver's type switch covers the whole catalog.
type Effect interface {
	EffectGuard() Guard
	isEffect()
}

// Guarded is embedded by every effect variant to carry its guard.
type Guarded struct {
	Guard Guard
}

func (g Guarded) EffectGuard() Guard { return g.Guard }
func (Guarded) isEffect()            {}

// MeterChange adjusts one meter on one owner.
type MeterChange struct {
	Guarded
	Target      string
	Meter       string
	Op          MeterOp
	Value       float64
	RespectCaps bool // clamp to [min,max]; loader defaults true
	CapPerTurn  bool // honor the per-turn cumulative delta budget; loader defaults true
}

// FlagSet writes a scalar flag.
type FlagSet struct {
	Guarded
	Key   string
	Value any
}

// InventoryAdd creates count of an item in the target's inventory.
type InventoryAdd struct {
	Guarded
	Target string
	Kind   ItemKind
	Item   string
	Count  int
}

// InventoryRemove deletes count of an item from the target's inventory.
type InventoryRemove struct {
	Guarded
	Target string
	Kind   ItemKind
	Item   string
	Count  int
}

// InventoryTake moves an item from a source owner (default: the current
// location) into the target's inventory.
type InventoryTake struct {
	Guarded
	Target string
	Source string
	Kind   ItemKind
	Item   string
	Count  int
}

// InventoryDrop moves an item from the target to the current location.
type InventoryDrop struct {
	Guarded
	Target string
	Kind   ItemKind
	Item   string
	Count  int
}

// InventoryGive moves an item between two owners.
type InventoryGive struct {
	Guarded
	Target string // receiver
	Source string // giver
	Kind   ItemKind
	Item   string
	Count  int
}

// InventoryPurchase moves an item from source to target and money the other way.
type InventoryPurchase struct {
	Guarded
	Target string // buyer
	Source string // seller
	Kind   ItemKind
	Item   string
	Count  int
	Price  float64 // per unit; 0 means the item's defined value
}

// InventorySell is the reverse of InventoryPurchase.
type InventorySell struct {
	Guarded
	Target string // seller
	Source string // buyer
	Kind   ItemKind
	Item   string
	Count  int
	Price  float64
}

// ClothingPutOn wears an owned clothing item in the given condition.
type ClothingPutOn struct {
	Guarded
	Target    string
	Item      string
	Condition ClothState // empty means intact
}

// ClothingTakeOff stops wearing an item entirely (it stays owned).
type ClothingTakeOff struct {
	Guarded
	Target string
	Item   string
}

// ClothingSetState sets the condition of a worn item.
type ClothingSetState struct {
	Guarded
	Target    string
	Item      string
	Condition ClothState
}

// ClothingSlotState sets the condition of whatever item occupies a slot.
type ClothingSlotState struct {
	Guarded
	Target    string
	Slot      string
	Condition ClothState
}

// OutfitPutOn wears a known outfit, merging its pieces in definition order.
type OutfitPutOn struct {
	Guarded
	Target string
	Outfit string
}

// OutfitTakeOff removes every worn piece of the outfit.
type OutfitTakeOff struct {
	Guarded
	Target string
	Outfit string
}

// Move performs local movement by direction within the current zone.
type Move struct {
	Guarded
	Direction string
	With      []string
}

// MoveTo performs local movement to a named location in the current zone.
type MoveTo struct {
	Guarded
	Location string
	With     []string
}

// TravelTo performs zone travel using a configured method.
type TravelTo struct {
	Guarded
	Location string
	Method   string
	With     []string
}

// AdvanceTime adds minutes to the clock at the end-of-turn advance.
type AdvanceTime struct {
	Guarded
	Minutes int
}

// Goto forces a node transition at the transition phase.
type Goto struct {
	Guarded
	Node string
}

// Conditional applies exactly one branch depending on its guard.
// Effects inside each branch still carry their own guards.
type Conditional struct {
	Guarded
	Then      []Effect
	Otherwise []Effect
}

// Random applies one weighted branch chosen by the turn's seeded RNG.
type Random struct {
	Guarded
	Choices []WeightedEffects
}

// WeightedEffects is one branch of a Random effect.
type WeightedEffects struct {
	Weight  int
	Effects []Effect
}

// ApplyModifier activates a modifier on an owner.
type ApplyModifier struct {
	Guarded
	Target   string
	Modifier string
	Duration int // minutes; 0 means the modifier's default
}

// RemoveModifier deactivates a modifier on an owner.
type RemoveModifier struct {
	Guarded
	Target   string
	Modifier string
}

// Unlock marks content as available.
type Unlock struct {
	Guarded
	Items     []string
	Clothing  []string
	Outfits   []string
	Zones     []string
	Locations []string
	Actions   []string
	Endings   []string
}

// Lock is the inverse of Unlock.
type Lock struct {
	Guarded
	Items     []string
	Clothing  []string
	Outfits   []string
	Zones     []string
	Locations []string
	Actions   []string
	Endings   []string
}
