// navalcmd runs a naval battle scenario and its mission objective.
// Usage: navalcmd [--version] [--plain] [--script <file>] [--trace] [--debug]
// [--mission <type>] [--seed <n>] <scenario_directory>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/meekantifun/naval-command-sub002/cli"
	"github.com/meekantifun/naval-command-sub002/engine"
	"github.com/meekantifun/naval-command-sub002/loader"
	"github.com/meekantifun/naval-command-sub002/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: navalcmd [--version] [--plain] [--script <file>] [--trace] [--debug] [--mission <type>] [--seed <n>] <scenario_directory>\n"

func main() {
	plain := false
	trace := false
	debug := false
	var scenarioDir, scriptFile, mission string
	var seed int64
	seedSet := false

	args := os.Args[1:]
	next := func(i int, flag string) string {
		if i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		return args[i+1]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("navalcmd %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--debug":
			debug = true
		case "--script":
			scriptFile = next(i, "--script")
			i++
		case "--mission":
			mission = next(i, "--mission")
			i++
		case "--seed":
			n, err := strconv.ParseInt(next(i, "--seed"), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed, seedSet = n, true
			i++
		default:
			if scenarioDir == "" {
				scenarioDir = args[i]
			}
		}
	}

	if scenarioDir == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	defs, err := loader.Load(scenarioDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	if !seedSet {
		seed = defs.Battle.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	b, err := engine.NewBattle(defs, mission, seed, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting battle: %v\n", err)
		os.Exit(1)
	}

	// Script mode: open file, force plain, echo orders.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s by %s\n\n", defs.Battle.Title, defs.Battle.Version, defs.Battle.Author)
		c := cli.New(b, defs, log)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s by %s\n\n", defs.Battle.Title, defs.Battle.Version, defs.Battle.Author)
		c := cli.New(b, defs, log)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(b, defs, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
