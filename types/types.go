// Package types defines the shared data structures for the Loom runtime.
// This package contains only type definitions — no logic beyond the marker
// methods needed to keep the effect sum type closed.
package types

// ActionType classifies a player action submitted to the engine.
type ActionType string

const (
	ActionSay    ActionType = "say"    // free text spoken in-character
	ActionDo     ActionType = "do"     // free text physical action
	ActionChoice ActionType = "choice" // authored choice by ID
	ActionMove   ActionType = "move"   // local movement by direction
	ActionTravel ActionType = "travel" // zone travel to a location
	ActionUse    ActionType = "use"    // use an inventory item
	ActionGlobal ActionType = "global" // unlocked global action by ID
	ActionWait   ActionType = "wait"
)

// Action is one player action as submitted by a client.
type Action struct {
	Type     ActionType
	Text     string   // say/do free text
	ChoiceID string   // choice/global action ID
	Target   string   // move direction or travel destination
	Method   string   // travel method
	Item     string   // item ID for use actions
	With     []string // companion character IDs for movement
}

// Choice is one selectable option surfaced to the player after a turn.
type Choice struct {
	ID       string
	Text     string
	Type     string // "node", "event", "move", "travel", "action"
	Disabled bool
	Metadata map[string]string
}

// TurnResult is the output of one full turn of the pipeline.
type TurnResult struct {
	Narrative       string
	ActionSummary   string
	Choices         []Choice
	Summary         StateSummary
	EventsFired     []string
	Milestones      []string
	TimeAdvanced    int // minutes
	LocationChanged bool
	Errors          []string
}

// StateSummary is the visibility-filtered view of state returned to clients.
type StateSummary struct {
	Node      string
	NodeTitle string
	Location  string
	Zone      string
	Day       int
	Minutes   int
	Weekday   string
	Slot      string
	Present   []string
	Meters    map[string]map[string]float64
	Flags     map[string]any
	Inventory map[string]map[string]int
	Clothing  map[string]WornSummary
	Modifiers map[string][]string
	GameOver  bool
	EndingID  string
}

// WornSummary describes one character's visible clothing for display.
type WornSummary struct {
	Outfit  string
	Visible []string // item IDs currently visible (not removed, not concealed)
}

// GateResult is the outcome of evaluating one consent gate for one character.
type GateResult struct {
	Allow bool
	Text  string // acceptance or refusal narration, may be empty
}
