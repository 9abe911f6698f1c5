package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleDisabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindChoice
	kindDisabled
	kindSystem
	kindError
	kindInput
)

// renderLine applies the style for a given lineKind.
func renderLine(line string, kind lineKind) string {
	switch kind {
	case kindInput:
		return stylePlayerInput.Render(line)
	case kindChoice:
		return styleChoice.Render(line)
	case kindDisabled:
		return styleDisabled.Render(line)
	case kindSystem:
		return styleSystem.Render("[" + line + "]")
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}
