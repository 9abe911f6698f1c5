package types

// GameMeta holds game metadata from the Lua content files.
type GameMeta struct {
	Title         string
	Author        string
	Version       string
	Intro         string
	StartNode     string
	StartLocation string
	StartZone     string
	Seed          int64
}

// MeterDef defines one bounded numeric meter.
type MeterDef struct {
	ID              string
	Name            string
	Min             float64
	Max             float64
	Default         float64
	DeltaCapPerTurn float64 // 0 = uncapped
	DayDecay        float64 // subtracted at each day rollover
	Hidden          bool    // excluded from state summaries
	Scope           string  // "player", "character", or "" for both
}

// FlagDef defines one scalar flag. The default's Go type fixes the flag type.
type FlagDef struct {
	ID      string
	Default any
	Hidden  bool
}

// ItemDef defines one plain inventory item.
type ItemDef struct {
	ID          string
	Name        string
	Description string
	Category    string
	Value       float64 // base price
	Usable      bool
	UseEffects  []Effect // applied when the player uses the item
	Locked      bool     // unavailable until unlocked
}

// ClothingDef defines one wearable piece.
type ClothingDef struct {
	ID          string
	Name        string
	Description string
	Occupies    []string // body slots claimed while worn and not removed
	Conceals    []string // slots hidden while worn intact or opened
	Value       float64
	Locked      bool
}

// OutfitPiece is one entry of an outfit in declaration order.
type OutfitPiece struct {
	Item      string
	Condition ClothState // empty means intact
}

// OutfitDef defines a named set of clothing pieces.
// Order matters: on slot conflicts the later-declared piece wins.
type OutfitDef struct {
	ID     string
	Name   string
	Pieces []OutfitPiece
	Locked bool
}

// GateDef defines one consent/behavior boundary for a character.
type GateDef struct {
	ID         string
	Guard      Guard
	Acceptance string
	Refusal    string
}

// ScheduleEntry places a character at a location during a time window.
type ScheduleEntry struct {
	Location string
	Days     []string // weekday names; empty = every day
	From     int      // minutes since midnight, inclusive
	To       int      // minutes since midnight, exclusive
	Guard    Guard
}

// CharacterDef defines one non-player character.
type CharacterDef struct {
	ID          string
	Name        string
	Description string
	Appearance  string
	Gates       []GateDef // evaluation order = authoring order
	Schedule    []ScheduleEntry
	Inventory   map[string]int     // starting items
	Outfit      string             // starting outfit
	Wardrobe    []string           // owned clothing beyond the outfit
	Meters      map[string]float64 // starting meter overrides
}

// ZoneDef groups locations and carries local movement cost.
type ZoneDef struct {
	ID           string
	Name         string
	Locations    []string
	TimeCost     int    // minutes for local movement; exclusive with TimeCategory
	TimeCategory string
	Locked       Guard // truthy guard = locked
	DiscoverWhen Guard
}

// LocationDef defines one location within a zone.
type LocationDef struct {
	ID           string
	Name         string
	Description  string
	Zone         string
	Connections  map[string]string // direction -> location ID
	Locked       Guard
	DiscoverWhen Guard
}

// TransitionDef is one authored node transition, checked in order.
type TransitionDef struct {
	To    string
	Guard Guard
}

// ChoiceDef is one authored choice on a node or event.
type ChoiceDef struct {
	ID           string
	Text         string
	Guard        Guard
	Effects      []Effect // on_select
	Goto         string
	TimeCost     int
	TimeCategory string
	SkipAI       bool // deterministic choice, no Writer/Checker round-trip
}

// NodeType classifies an authored story unit.
type NodeType string

const (
	NodeScene     NodeType = "scene"
	NodeHub       NodeType = "hub"
	NodeEncounter NodeType = "encounter"
	NodeEnding    NodeType = "ending"
)

// NodeDef defines one story node.
type NodeDef struct {
	ID           string
	Title        string
	Type         NodeType
	Beats        []string
	Choices      []ChoiceDef
	Transitions  []TransitionDef
	OnEnter      []Effect
	OnExit       []Effect
	TimeBehavior string // overrides the default action time category at this node
}

// TriggerDef is one conditional effect bundle inside an event.
type TriggerDef struct {
	Guard   Guard
	Effects []Effect
}

// EventDef defines one conditionally or randomly triggered overlay.
type EventDef struct {
	ID          string
	Guard       Guard // trigger condition
	Probability int   // 1..100 pool weight; 100 fires immediately once eligible
	Cooldown    int   // turns before re-eligibility; 0 = none
	OncePerGame bool
	Beats       []string
	Choices     []ChoiceDef
	OnEnter     []Effect
	OnExit      []Effect
	Triggers    []TriggerDef
}

// StageDef is one milestone stage of an arc.
type StageDef struct {
	ID          string
	Description string
	Guard       Guard
	OnEnter     []Effect
	OnExit      []Effect
}

// ArcDef defines one ordered milestone progression.
type ArcDef struct {
	ID         string
	Name       string
	Repeatable bool
	Stages     []StageDef // authoring order
}

// StackRule controls how modifiers in the same group combine.
type StackRule string

const (
	StackAll     StackRule = "all"
	StackHighest StackRule = "highest"
	StackLowest  StackRule = "lowest"
)

// MeterClamp tightens a meter's range while a modifier is active.
type MeterClamp struct {
	Min *float64
	Max *float64
}

// ModifierDef defines one status overlay.
type ModifierDef struct {
	ID             string
	Name           string
	Group          string
	Stacking       StackRule // defaults to all
	Priority       int       // compared by highest/lowest stacking
	Guard          Guard     // auto-activation condition; empty = manual only
	Duration       int       // default minutes; 0 = conditionally active
	OnEnter        []Effect
	OnExit         []Effect
	AllowGates     []string // gate IDs forced open while active
	DisallowGates  []string // gate IDs forced shut while active
	ClampMeters    map[string]MeterClamp
	TimeMultiplier float64 // 0 treated as 1.0
}

// ActionDef defines one global action available outside node choices.
type ActionDef struct {
	ID           string
	Text         string
	Guard        Guard
	Effects      []Effect
	Unlocked     bool // available from game start
	TimeCost     int
	TimeCategory string
	SkipAI       bool
}

// TravelMethodDef defines one zone travel method. Exactly one of
// TimeCostPerDistance, Speed, or Category is set.
type TravelMethodDef struct {
	ID                  string
	Name                string
	TimeCostPerDistance float64 // minutes per distance unit
	Speed               float64 // distance units per hour
	Category            string  // time category applied per distance unit
	Active              bool    // subject to modifier time multipliers
}

// MovementConfig carries global movement settings.
type MovementConfig struct {
	LocalTimeCost     int    // default minutes for local movement
	LocalTimeCategory string // exclusive with LocalTimeCost
	Methods           map[string]TravelMethodDef
	Distances         map[string]map[string]float64 // zone -> zone -> distance
}

// SlotDef is a derived display window of the day ("morning", "evening"...).
type SlotDef struct {
	Name string
	From int // minutes, inclusive
	To   int // minutes, exclusive
}

// TimeConfig carries the clock configuration.
type TimeConfig struct {
	StartDay            int
	StartMinutes        int
	StartWeekday        string
	Weekdays            []string // cycle; defaults to the seven English names
	Slots               []SlotDef
	Categories          map[string]int // category name -> minutes
	DefaultConversation int            // minutes for AI-narrated actions
	DefaultChoice       int            // minutes for deterministic choices
	DefaultMovement     int            // minutes for movement without zone cost
	NodeVisitCap        int            // per-node conversation minutes cap; 0 = uncapped
	DayEndEffects       []Effect
	DayStartEffects     []Effect
	MoneyMeter          string // meter used by purchase/sell; default "money"
}

// GameDef is the complete immutable authored content of one game.
type GameDef struct {
	Meta       GameMeta
	Meters     map[string]MeterDef
	Flags      map[string]FlagDef
	Items      map[string]ItemDef
	Clothing   map[string]ClothingDef
	Outfits    map[string]OutfitDef
	Characters map[string]CharacterDef
	Zones      map[string]ZoneDef
	Locations  map[string]LocationDef
	Nodes      map[string]NodeDef
	Events     map[string]EventDef
	EventOrder []string // authoring order, for deterministic scans
	Arcs       map[string]ArcDef
	ArcOrder   []string
	Modifiers  map[string]ModifierDef
	ModOrder   []string
	Actions    map[string]ActionDef
	Movement   MovementConfig
	Time       TimeConfig
}
