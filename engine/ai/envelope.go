package ai

import (
	"sort"

	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Envelope is everything the prompts know about the turn: where and when
// it happens, who is present, what the story has been, and what the
// player just did.
type Envelope struct {
	Title               string
	Intro               string
	Day                 int
	Weekday             string
	TimeOfDay           string // derived display slot, may be empty
	Location            string
	LocationDescription string
	Beats               []string // current node beats plus any fired event's beats
	Characters          []CharacterCard
	Recent              []types.NarrativeEntry
	Action              string // formatted action summary

	// PlayerMeters and Connections exist so the Checker only proposes
	// references that can validate.
	PlayerMeters map[string]float64
	Connections  []string // one-step reachable location IDs
}

// CharacterCard is one present character as the prompts see them:
// appearance, visible meters, what they will and will not go along with,
// and what they remember.
type CharacterCard struct {
	ID          string
	Name        string
	Description string
	Appearance  string
	Outfit      string
	Visible     []string
	Meters      map[string]float64
	Gates       map[string]types.GateResult
	Memories    []string
}

// historyWindow is how many recent exchanges the prompts see.
const historyWindow = 8

// BuildEnvelope assembles the turn envelope from current state. Gate
// results come from this turn's snapshot so the prompts and the
// validator agree on what is permitted.
func BuildEnvelope(defs *types.GameDef, s *types.GameState, gateSnap map[string]map[string]types.GateResult, beats []string, action string) *Envelope {
	env := &Envelope{
		Title:     defs.Meta.Title,
		Intro:     defs.Meta.Intro,
		Day:       s.Time.Day,
		Weekday:   s.Time.Weekday,
		TimeOfDay: state.Slot(defs, s.Time.Minutes),
		Location:  s.LocationCurrent,
		Beats:     beats,
		Action:    action,
	}
	if ld, ok := defs.Locations[s.LocationCurrent]; ok {
		env.Location = ld.Name
		env.LocationDescription = ld.Description
		for _, dest := range ld.Connections {
			env.Connections = append(env.Connections, dest)
		}
		sort.Strings(env.Connections)
	}
	env.PlayerMeters = visibleMeters(defs, s, state.Player)

	if n := len(s.NarrativeHistory); n > historyWindow {
		env.Recent = s.NarrativeHistory[n-historyWindow:]
	} else {
		env.Recent = s.NarrativeHistory
	}

	for _, id := range s.PresentCharacters {
		cd, ok := defs.Characters[id]
		if !ok {
			continue
		}
		card := CharacterCard{
			ID:          id,
			Name:        cd.Name,
			Description: cd.Description,
			Appearance:  cd.Appearance,
			Visible:     state.VisibleItems(s, defs, id),
			Gates:       gateSnap[id],
			Memories:    s.MemoryLog[id],
		}
		if cs, worn := s.Clothing[id]; worn {
			card.Outfit = cs.Outfit
		}
		card.Meters = visibleMeters(defs, s, id)
		env.Characters = append(env.Characters, card)
	}
	return env
}

func visibleMeters(defs *types.GameDef, s *types.GameState, owner string) map[string]float64 {
	out := map[string]float64{}
	for meter, v := range s.Meters[owner] {
		if md, ok := defs.Meters[meter]; ok && md.Hidden {
			continue
		}
		out[meter] = v
	}
	return out
}
