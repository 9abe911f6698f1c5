package types

// ClothingState is one character's worn clothing.
// Slot occupancy is derived from each worn item's Occupies list; it is
// never stored directly.
type ClothingState struct {
	Outfit string                `json:"outfit,omitempty"`
	Items  map[string]ClothState `json:"items,omitempty"`
}

// ModifierState is one active modifier instance.
type ModifierState struct {
	Remaining *int `json:"remaining,omitempty"` // minutes; nil = conditionally active
}

// ArcState is the per-arc progression pointer.
type ArcState struct {
	Stage   string   `json:"stage,omitempty"`
	History []string `json:"history,omitempty"`
}

// NarrativeEntry is one recorded exchange of the session.
type NarrativeEntry struct {
	Turn   int    `json:"turn"`
	Action string `json:"action"`
	Text   string `json:"text"`
}

// UnlockKind names a lockable content category.
type UnlockKind string

const (
	UnlockItems     UnlockKind = "items"
	UnlockClothing  UnlockKind = "clothing"
	UnlockOutfits   UnlockKind = "outfits"
	UnlockZones     UnlockKind = "zones"
	UnlockLocations UnlockKind = "locations"
	UnlockActions   UnlockKind = "actions"
	UnlockEndings   UnlockKind = "endings"
)

// Clock is the unified minutes-based game clock.
type Clock struct {
	Day     int    `json:"day"`
	Minutes int    `json:"minutes"` // [0, 1440)
	Weekday string `json:"weekday"`
}

// GameState is the complete mutable state of one session. It is mutated
// only through the effect resolver during a turn.
type GameState struct {
	Meters    map[string]map[string]float64        `json:"meters"`
	Flags     map[string]any                       `json:"flags"`
	Inventory map[string]map[string]int            `json:"inventory"`
	Clothing  map[string]*ClothingState            `json:"clothing"`
	Modifiers map[string]map[string]*ModifierState `json:"modifiers"`
	Arcs      map[string]*ArcState                 `json:"arcs"`

	LocationCurrent     string          `json:"location_current"`
	LocationPrevious    string          `json:"location_previous,omitempty"`
	ZoneCurrent         string          `json:"zone_current"`
	DiscoveredLocations map[string]bool `json:"discovered_locations"`
	DiscoveredZones     map[string]bool `json:"discovered_zones"`

	Time              Clock    `json:"time"`
	PresentCharacters []string `json:"present_characters"`

	Cooldowns     map[string]int  `json:"cooldowns"`      // event -> remaining turns
	EventsHistory []string        `json:"events_history"`
	FiredOnce     map[string]bool `json:"fired_once"` // once_per_game events already fired

	Unlocked map[UnlockKind]map[string]bool `json:"unlocked"`
	Locked   map[UnlockKind]map[string]bool `json:"locked"` // runtime lock overrides

	CurrentNode      string              `json:"current_node"`
	VisitedNodes     []string            `json:"visited_nodes"`
	NodeVisitMinutes int                 `json:"node_visit_minutes"` // conversation time at the current node
	NarrativeHistory []NarrativeEntry    `json:"narrative_history"`
	MemoryLog        map[string][]string `json:"memory_log"` // character -> memories

	TurnCount   int   `json:"turn_count"`
	RNGBaseSeed int64 `json:"rng_base_seed"`
}
