package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// the clock, the current location, who is present, and the player's
// visible meters.
func (m Model) renderStatusBar() string {
	defs := m.engine.Defs
	s := m.engine.State

	locName := s.LocationCurrent
	if ld, ok := defs.Locations[s.LocationCurrent]; ok {
		locName = ld.Name
	}

	slot := m.summary.Slot
	left := fmt.Sprintf(" Day %d, %s", s.Time.Day, s.Time.Weekday)
	if slot != "" {
		left += " " + slot
	}
	left += " | " + locName

	if len(s.PresentCharacters) > 0 {
		names := make([]string, 0, len(s.PresentCharacters))
		for _, id := range s.PresentCharacters {
			if cd, ok := defs.Characters[id]; ok {
				names = append(names, cd.Name)
			} else {
				names = append(names, id)
			}
		}
		left += " | " + strings.Join(names, ", ")
	}

	right := fmt.Sprintf("T:%d ", s.TurnCount)
	if meters := m.meterSummary(); meters != "" {
		candidate := meters + " | " + right
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// meterSummary formats the player's non-hidden meters for the status bar.
func (m Model) meterSummary() string {
	player := m.engine.State.Meters["player"]
	if len(player) == 0 {
		return ""
	}
	names := make([]string, 0, len(player))
	for name := range player {
		if md, ok := m.engine.Defs.Meters[name]; ok && md.Hidden {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %.0f", name, player[name]))
	}
	return strings.Join(parts, " ")
}
