// Package tui provides the Bubble Tea terminal client for the Loom
// runtime: scrollback viewport, numbered option list, status bar, and
// a text input for free-form actions.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/solenne/loom/cli"
	"github.com/solenne/loom/engine"
	"github.com/solenne/loom/engine/save"
	"github.com/solenne/loom/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the game client.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *inputHistory

	rawLines []rawLine
	choices  []types.Choice
	summary  types.StateSummary

	width    int
	height   int
	ready    bool
	busy     bool // a turn is in flight; input is held
	gameOver bool
	quitting bool
	saveDir  string
}

// turnMsg carries a finished turn back into the Update loop.
type turnMsg struct {
	input  string
	result *types.TurnResult
	err    error
}

// systemMsg carries meta-command output.
type systemMsg struct {
	input string
	lines []string
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 512
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		engine:  eng,
		input:   ti,
		history: newInputHistory(100),
		saveDir: filepath.Join(home, ".loom", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init produces the intro text and opening scene.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.openingOutput())
}

func (m Model) openingOutput() tea.Cmd {
	return func() tea.Msg {
		defs := m.engine.Defs
		s := m.engine.State

		var lines []string
		if defs.Meta.Title != "" {
			header := defs.Meta.Title
			if defs.Meta.Author != "" {
				header += " by " + defs.Meta.Author
			}
			lines = append(lines, header, "")
		}
		if defs.Meta.Intro != "" {
			lines = append(lines, defs.Meta.Intro, "")
		}
		if nd, ok := defs.Nodes[s.CurrentNode]; ok {
			lines = append(lines, nd.Beats...)
		}
		if ld, ok := defs.Locations[s.LocationCurrent]; ok && ld.Description != "" {
			lines = append(lines, ld.Description)
		}
		return systemMsg{lines: lines}
	}
}

// Update handles key presses, window resizes, and finished turns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Older(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.Reset()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case turnMsg:
		m.busy = false
		m = m.appendTurn(msg)

	case systemMsg:
		m = m.appendSystem(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Remember(input)
	m.history.Reset()

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendSystem(systemMsg{input: input, lines: output})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.gameOver {
		m = m.appendSystem(systemMsg{input: input, lines: []string{"The story has ended. /quit to leave."}})
		return m, nil
	}

	action, err := cli.ParseAction(input, m.choices)
	if err != nil {
		m = m.appendSystem(systemMsg{input: input, lines: []string{err.Error()}})
		return m, nil
	}

	m.busy = true
	eng := m.engine
	return m, func() tea.Msg {
		result, err := eng.ProcessTurn(context.Background(), action)
		return turnMsg{input: input, result: result, err: err}
	}
}

// appendTurn renders one finished turn into the scrollback.
func (m Model) appendTurn(msg turnMsg) Model {
	m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, kind: kindInput})

	if msg.err != nil {
		m.rawLines = append(m.rawLines, rawLine{text: msg.err.Error(), kind: kindError}, rawLine{})
		m.refreshViewport()
		return m
	}
	result := msg.result

	if result.Narrative != "" {
		m.rawLines = append(m.rawLines, rawLine{text: result.Narrative, kind: kindNarrative})
	}
	for _, e := range result.Errors {
		m.rawLines = append(m.rawLines, rawLine{text: e, kind: kindError})
	}
	for _, ms := range result.Milestones {
		m.rawLines = append(m.rawLines, rawLine{text: "Milestone: " + ms, kind: kindSystem})
	}

	m.summary = result.Summary
	m.choices = result.Choices
	if result.Summary.GameOver {
		m.gameOver = true
		m.choices = nil
		m.rawLines = append(m.rawLines,
			rawLine{},
			rawLine{text: "The End — " + result.Summary.NodeTitle, kind: kindSystem})
	} else {
		m.rawLines = append(m.rawLines, rawLine{})
		for i, ch := range result.Choices {
			kind := kindChoice
			if ch.Disabled {
				kind = kindDisabled
			}
			m.rawLines = append(m.rawLines, rawLine{
				text: fmt.Sprintf(" %2d. %s", i+1, ch.Text), kind: kind,
			})
		}
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

func (m Model) appendSystem(msg systemMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, kind: kindInput})
	}
	for _, line := range msg.lines {
		kind := kindSystem
		if line == "" {
			kind = kindNarrative
		}
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: kind})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current
// width and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLine(wordWrap(rl.text, width), rl.kind))
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit the given width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wLen := len(word)
		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}
		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return result.String()
}

// View renders the full layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	input := m.input.View()
	if m.busy {
		input = styleSystem.Render("… the scene unfolds …")
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + input
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return m.cmdSave(arg), false
	case "/load":
		return m.cmdLoad(arg), false
	case "/state":
		return m.cmdState(), false
	case "/help":
		return m.cmdHelp(), false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Encode(m.engine.State, m.engine.Defs.Meta)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	s, err := save.Decode(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.engine.State = s
	m.choices = nil
	m.gameOver = false
	return []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, s.TurnCount)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /state        — Show current state",
		"  /quit         — Exit game",
		"",
		"Play:",
		"  <number>            — Pick a listed option",
		"  say <words>         — Say something (or just \"quote it\")",
		"  do <anything>       — Describe what you do (or just type it)",
		"  go <direction>      — Move within the area",
		"  travel <place> [by] — Travel to another area",
		"  use <item>          — Use something you're carrying",
		"  wait (z)            — Let time pass",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	output := []string{
		fmt.Sprintf("Turn: %d", s.TurnCount),
		fmt.Sprintf("Node: %s", s.CurrentNode),
		fmt.Sprintf("Location: %s (zone %s)", s.LocationCurrent, s.ZoneCurrent),
		fmt.Sprintf("Clock: day %d, %d minutes, %s", s.Time.Day, s.Time.Minutes, s.Time.Weekday),
	}
	for meter, v := range s.Meters["player"] {
		output = append(output, fmt.Sprintf("  %s = %g", meter, v))
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
