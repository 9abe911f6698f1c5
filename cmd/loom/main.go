// Loom is an AI-narrated, deterministic narrative game runtime.
// Usage: loom [--version] [--plain] [--script <file>] [--seed <n>]
//
//	[--offline] [--session <id>] [--sessions] <game_directory>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/solenne/loom/cli"
	"github.com/solenne/loom/engine"
	"github.com/solenne/loom/engine/ai"
	"github.com/solenne/loom/engine/save"
	"github.com/solenne/loom/loader"
	"github.com/solenne/loom/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	offline := false
	listSessions := false
	var gameDir, scriptFile, sessionID string
	var seed int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("loom %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--offline":
			offline = true
		case "--sessions":
			listSessions = true
		case "--script":
			scriptFile = stringArg(args, &i, "--script")
		case "--session":
			sessionID = stringArg(args, &i, "--session")
		case "--seed":
			v, err := strconv.ParseInt(stringArg(args, &i, "--seed"), 10, 64)
			if err != nil {
				fatal("--seed requires an integer: %v", err)
			}
			seed = v
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: loom [--version] [--plain] [--script <file>] [--seed <n>] [--offline] [--session <id>] [--sessions] <game_directory>\n")
		os.Exit(1)
	}

	// .env is optional; the variable may come from the environment.
	_ = godotenv.Load()

	defs, err := loader.Load(gameDir)
	if err != nil {
		fatal("loading game: %v", err)
	}
	if seed != 0 {
		defs.Meta.Seed = seed
	}

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".loom")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fatal("creating data directory: %v", err)
	}
	store, err := save.Open(filepath.Join(dataDir, "sessions.db"), defs.Meta)
	if err != nil {
		fatal("opening session store: %v", err)
	}
	defer store.Close()

	if listSessions {
		printSessions(store)
		return
	}

	writer, checker, cleanup := makeAI(offline)
	defer cleanup()

	var eng *engine.Engine
	if sessionID != "" {
		s, err := store.Load(sessionID)
		if err != nil {
			fatal("loading session %s: %v", sessionID, err)
		}
		eng = engine.Restore(defs, s, writer, checker)
	} else {
		eng = engine.New(defs, writer, checker)
		sessionID = save.NewSessionID()
	}
	eng.Store = store
	eng.SessionID = sessionID

	// Script mode: read commands from a file, force plain, echo input.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatal("opening script: %v", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		if err := c.Run(context.Background()); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Use the plain CLI if requested or when stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		if err := c.Run(context.Background()); err != nil {
			fatal("%v", err)
		}
		return
	}

	if err := tui.Run(eng); err != nil {
		fatal("%v", err)
	}
}

// makeAI wires the Writer and Checker: Gemini when a key is available,
// otherwise the deterministic offline stub.
func makeAI(offline bool) (ai.Writer, ai.Checker, func()) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if offline || apiKey == "" {
		if !offline {
			slog.Warn("GEMINI_API_KEY not set, running with the offline narrator")
		}
		return ai.Stub{}, ai.Stub{}, func() {}
	}
	model := os.Getenv("GEMINI_MODEL")
	g, err := ai.NewGemini(context.Background(), apiKey, model)
	if err != nil {
		slog.Warn("gemini unavailable, running with the offline narrator", "error", err)
		return ai.Stub{}, ai.Stub{}, func() {}
	}
	return g, g, g.Close
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func printSessions(store *save.Store) {
	sessions, err := store.List()
	if err != nil {
		fatal("listing sessions: %v", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		return
	}
	for _, s := range sessions {
		fmt.Printf("%s  %s  turn %d  %s\n", s.ID, s.Game, s.Turn, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func stringArg(args []string, i *int, flag string) string {
	if *i+1 >= len(args) {
		fatal("%s requires a value", flag)
	}
	*i++
	return args[*i]
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
