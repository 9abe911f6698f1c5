// Package cli provides the plain terminal client: prompt, input
// parsing, meta-command dispatch, and turn output formatting.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solenne/loom/engine"
	"github.com/solenne/loom/engine/save"
	"github.com/solenne/loom/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)

	choices []types.Choice // numbered options from the last turn
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".loom", "saves"),
	}
}

// Run starts the game loop: intro, opening scene, then
// prompt -> parse -> turn -> output until quit or an ending.
func (c *CLI) Run(ctx context.Context) error {
	c.printOpening()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil
			}
			continue
		}

		action, err := ParseAction(input, c.choices)
		if err != nil {
			c.printSystem(err.Error())
			continue
		}

		result, err := c.Engine.ProcessTurn(ctx, action)
		if err != nil {
			c.printSystem(fmt.Sprintf("Turn failed: %v", err))
			continue
		}
		c.printResult(result)

		if result.Summary.GameOver {
			return nil
		}
	}
}

// printOpening shows the intro, the starting scene's beats, and the
// starting location before the first prompt.
func (c *CLI) printOpening() {
	defs := c.Engine.Defs
	s := c.Engine.State

	if defs.Meta.Title != "" {
		c.printLine(defs.Meta.Title)
		c.printLine("")
	}
	if defs.Meta.Intro != "" {
		c.printLine(defs.Meta.Intro)
		c.printLine("")
	}
	if nd, ok := defs.Nodes[s.CurrentNode]; ok {
		for _, beat := range nd.Beats {
			c.printLine(beat)
		}
	}
	if ld, ok := defs.Locations[s.LocationCurrent]; ok && ld.Description != "" {
		c.printLine(ld.Description)
	}
	c.printLine("")
	c.printLine("Type what you do or say, or /help for commands.")
}

// printResult renders one turn: narrative, warnings, milestones, the
// status line, and the numbered option list.
func (c *CLI) printResult(result *types.TurnResult) {
	c.printLine("")
	if result.Narrative != "" {
		c.printLine(result.Narrative)
	}
	for _, err := range result.Errors {
		c.printSystem(err)
	}
	for _, m := range result.Milestones {
		c.printSystem("Milestone: " + m)
	}

	sum := result.Summary
	if sum.GameOver {
		c.printLine("")
		c.printSystem(fmt.Sprintf("The End — %s", sum.NodeTitle))
		return
	}

	c.printLine("")
	c.printLine(c.statusLine(sum))
	c.choices = result.Choices
	for i, ch := range result.Choices {
		marker := " "
		if ch.Disabled {
			marker = "x"
		}
		c.printLine(fmt.Sprintf(" %s%2d. %s", marker, i+1, ch.Text))
	}
}

func (c *CLI) statusLine(sum types.StateSummary) string {
	loc := sum.Location
	if ld, ok := c.Engine.Defs.Locations[sum.Location]; ok {
		loc = ld.Name
	}
	line := fmt.Sprintf("[Day %d, %s %s — %s]", sum.Day, sum.Weekday, sum.Slot, loc)
	if len(sum.Present) > 0 {
		names := make([]string, 0, len(sum.Present))
		for _, id := range sum.Present {
			if cd, ok := c.Engine.Defs.Characters[id]; ok {
				names = append(names, cd.Name)
			} else {
				names = append(names, id)
			}
		}
		line += " Present: " + strings.Join(names, ", ")
	}
	return line
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/save":
		c.cmdSave(arg)
	case "/load":
		c.cmdLoad(arg)
	case "/state":
		c.cmdState()
	case "/help":
		c.cmdHelp()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Encode(c.Engine.State, c.Engine.Defs.Meta)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}
	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	s, err := save.Decode(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Engine.State = s
	c.choices = nil
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, s.TurnCount))
	c.printOpening()
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Turn: %d", s.TurnCount))
	c.printSystem(fmt.Sprintf("Node: %s", s.CurrentNode))
	c.printSystem(fmt.Sprintf("Location: %s (zone %s)", s.LocationCurrent, s.ZoneCurrent))
	c.printSystem(fmt.Sprintf("Clock: day %d, %d minutes, %s", s.Time.Day, s.Time.Minutes, s.Time.Weekday))
	meters := make([]string, 0, len(s.Meters["player"]))
	for name, v := range s.Meters["player"] {
		meters = append(meters, fmt.Sprintf("%s=%g", name, v))
	}
	sort.Strings(meters)
	c.printSystem("Meters: " + strings.Join(meters, " "))
	inv := make([]string, 0, len(s.Inventory["player"]))
	for item, n := range s.Inventory["player"] {
		inv = append(inv, fmt.Sprintf("%s x%d", item, n))
	}
	sort.Strings(inv)
	c.printSystem("Inventory: " + strings.Join(inv, ", "))
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
