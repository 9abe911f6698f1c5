// Package movement validates and performs local moves and zone travel.
// A move either fully succeeds, mutating location, discovery, and
// presence, or fails with an error and touches nothing. Time cost is
// returned to the caller; the clock advances once per turn.
package movement

import (
	"fmt"
	"sort"

	"github.com/solenne/loom/engine/clock"
	"github.com/solenne/loom/engine/eval"
	"github.com/solenne/loom/engine/state"
	"github.com/solenne/loom/types"
)

// Kind selects how the destination is named.
type Kind int

const (
	Local   Kind = iota // by connection direction within the zone
	LocalTo             // by location ID within the zone
	Zone                // by location ID in another zone, via a travel method
)

// Request is one movement attempt.
type Request struct {
	Kind      Kind
	Direction string
	Location  string
	Method    string
	With      []string // companion character IDs
}

// Result reports a performed movement.
type Result struct {
	Destination string
	Minutes     int
}

// Perform validates and executes one movement. On success the state's
// location, zone, discovery sets, and present characters are updated and
// the time cost is returned. On failure the state is untouched.
func Perform(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator, req Request) (Result, error) {
	var (
		dest types.LocationDef
		cost int
		err  error
	)
	switch req.Kind {
	case Local, LocalTo:
		dest, err = resolveLocal(defs, s, ev, req)
		if err != nil {
			return Result{}, err
		}
		cost = localCost(defs, s)
		cost = clock.Scale(cost, clock.Multiplier(s, defs))
	case Zone:
		var method types.TravelMethodDef
		dest, method, err = resolveZone(defs, s, ev, req)
		if err != nil {
			return Result{}, err
		}
		cost, err = travelCost(defs, s.ZoneCurrent, dest.Zone, method)
		if err != nil {
			return Result{}, err
		}
		if method.Active {
			cost = clock.Scale(cost, clock.Multiplier(s, defs))
		}
	default:
		return Result{}, fmt.Errorf("unknown movement kind %d", req.Kind)
	}

	companions, err := willingCompanions(defs, s, ev, req)
	if err != nil {
		return Result{}, err
	}

	s.LocationPrevious = s.LocationCurrent
	s.LocationCurrent = dest.ID
	s.ZoneCurrent = dest.Zone
	state.Discover(s, defs, dest.ID)
	state.RefreshPresence(s, defs, ev.Pass, companions...)

	return Result{Destination: dest.ID, Minutes: cost}, nil
}

func resolveLocal(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator, req Request) (types.LocationDef, error) {
	cur, ok := defs.Locations[s.LocationCurrent]
	if !ok {
		return types.LocationDef{}, fmt.Errorf("current location %q undefined", s.LocationCurrent)
	}

	var destID string
	if req.Kind == Local {
		destID, ok = cur.Connections[req.Direction]
		if !ok {
			return types.LocationDef{}, fmt.Errorf("no connection %q from %q", req.Direction, cur.ID)
		}
	} else {
		destID = req.Location
	}

	dest, ok := defs.Locations[destID]
	if !ok {
		return types.LocationDef{}, fmt.Errorf("unknown location %q", destID)
	}
	if dest.Zone != s.ZoneCurrent {
		return types.LocationDef{}, fmt.Errorf("%q is outside zone %q; zone travel required", destID, s.ZoneCurrent)
	}
	if state.LocationLocked(s, defs, destID, ev.Pass) {
		return types.LocationDef{}, fmt.Errorf("location %q is locked", destID)
	}
	return dest, nil
}

func resolveZone(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator, req Request) (types.LocationDef, types.TravelMethodDef, error) {
	dest, ok := defs.Locations[req.Location]
	if !ok {
		return types.LocationDef{}, types.TravelMethodDef{}, fmt.Errorf("unknown location %q", req.Location)
	}
	if dest.Zone == s.ZoneCurrent {
		return types.LocationDef{}, types.TravelMethodDef{}, fmt.Errorf("%q is in the current zone; local movement required", req.Location)
	}
	method, ok := defs.Movement.Methods[req.Method]
	if !ok {
		return types.LocationDef{}, types.TravelMethodDef{}, fmt.Errorf("unknown travel method %q", req.Method)
	}
	if state.ZoneLocked(s, defs, dest.Zone, ev.Pass) {
		return types.LocationDef{}, types.TravelMethodDef{}, fmt.Errorf("zone %q is locked", dest.Zone)
	}
	if state.LocationLocked(s, defs, dest.ID, ev.Pass) {
		return types.LocationDef{}, types.TravelMethodDef{}, fmt.Errorf("location %q is locked", dest.ID)
	}
	return dest, method, nil
}

// travelCost computes zone travel minutes from whichever single costing
// field the method defines.
func travelCost(defs *types.GameDef, from, to string, method types.TravelMethodDef) (int, error) {
	dist, ok := distance(defs, from, to)
	if !ok {
		return 0, fmt.Errorf("no distance from %q to %q", from, to)
	}
	switch {
	case method.TimeCostPerDistance > 0:
		return roundMinutes(dist * method.TimeCostPerDistance), nil
	case method.Speed > 0:
		return roundMinutes(dist / method.Speed * 60), nil
	case method.Category != "":
		m, ok := clock.CategoryMinutes(defs, method.Category)
		if !ok {
			return 0, fmt.Errorf("travel method %q uses unknown category %q", method.ID, method.Category)
		}
		return roundMinutes(dist * float64(m)), nil
	}
	return 0, fmt.Errorf("travel method %q has no cost", method.ID)
}

// distance looks up the authored zone distance in either direction.
func distance(defs *types.GameDef, from, to string) (float64, bool) {
	if d, ok := defs.Movement.Distances[from][to]; ok {
		return d, true
	}
	d, ok := defs.Movement.Distances[to][from]
	return d, ok
}

func roundMinutes(m float64) int {
	return int(m + 0.5)
}

func localCost(defs *types.GameDef, s *types.GameState) int {
	if zd, ok := defs.Zones[s.ZoneCurrent]; ok {
		if zd.TimeCost > 0 {
			return zd.TimeCost
		}
		if zd.TimeCategory != "" {
			if m, ok := clock.CategoryMinutes(defs, zd.TimeCategory); ok {
				return m
			}
		}
	}
	if defs.Movement.LocalTimeCost > 0 {
		return defs.Movement.LocalTimeCost
	}
	if defs.Movement.LocalTimeCategory != "" {
		if m, ok := clock.CategoryMinutes(defs, defs.Movement.LocalTimeCategory); ok {
			return m
		}
	}
	return defs.Time.DefaultMovement
}

// willingCompanions checks every named companion's willingness gate. One
// unwilling or absent companion rejects the whole movement.
func willingCompanions(defs *types.GameDef, s *types.GameState, ev *eval.Evaluator, req Request) ([]string, error) {
	if len(req.With) == 0 {
		return nil, nil
	}
	action := "move"
	if req.Kind == Zone {
		action = "travel"
	}
	companions := append([]string(nil), req.With...)
	sort.Strings(companions)
	for _, id := range companions {
		if _, ok := defs.Characters[id]; !ok {
			return nil, fmt.Errorf("unknown companion %q", id)
		}
		if !state.IsPresent(s, id) {
			return nil, fmt.Errorf("companion %q is not here", id)
		}
		if !Willing(defs, ev, id, action) {
			return nil, fmt.Errorf("%s will not come along", id)
		}
	}
	return companions, nil
}

// Willing resolves a companion's follow gate: follow_player_<action>
// first, then the generic follow_player. A character defining neither
// gate follows freely.
func Willing(defs *types.GameDef, ev *eval.Evaluator, char, action string) bool {
	cd, ok := defs.Characters[char]
	if !ok {
		return false
	}
	specific := "follow_player_" + action
	for _, name := range []string{specific, "follow_player"} {
		for _, gd := range cd.Gates {
			if gd.ID != name {
				continue
			}
			if res, ok := ev.Gates[char][name]; ok {
				return res.Allow
			}
			return ev.Pass(gd.Guard)
		}
	}
	return true
}
