// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the naval battle engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine"
	"github.com/meekantifun/naval-command-sub002/engine/report"
	"github.com/meekantifun/naval-command-sub002/engine/rules"
	"github.com/meekantifun/naval-command-sub002/engine/save"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// CLI handles terminal interaction with the commander.
type CLI struct {
	Battle    *engine.Battle
	Defs      *state.Defs
	Log       *slog.Logger
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given battle.
func New(b *engine.Battle, defs *state.Defs, log *slog.Logger) *CLI {
	if log == nil {
		log = slog.Default()
	}
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".navalcmd", "saves")
	return &CLI{
		Battle:  b,
		Defs:    defs,
		Log:     log,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the battle loop. It shows the intro and mission briefing, then
// loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Defs.Battle.Intro != "" {
		c.printLine(c.Defs.Battle.Intro)
		c.printLine("")
	}
	for _, line := range c.Battle.Briefing {
		c.printLine(line)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last order.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Battle.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the battle should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/report":
		c.cmdReport()

	case "/expect":
		c.cmdExpect(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := c.Battle.Save()
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

	c.Log.Info("battle saved", "path", path, "turn", c.Battle.World.Turn)
	c.printSystem(fmt.Sprintf("Battle saved to %s.", name))
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

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	b, err := engine.Replay(c.Defs, sd, c.Log)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Battle = b
	c.lastCmd = ""
	c.printSystem(fmt.Sprintf("Battle loaded from %s (turn %d).", name, sd.Turn))

	c.printResult(c.Battle.Step("look"))
}

func (c *CLI) cmdReport() {
	data, err := report.Marshal(c.Battle.Report())
	if err != nil {
		c.printSystem(fmt.Sprintf("Report failed: %v", err))
		return
	}
	c.printLine(string(data))
}

// cmdExpect checks one ad-hoc expression, or every scenario expectation
// when none is given.
func (c *CLI) cmdExpect(src string) {
	env := rules.NewEnv(c.Battle.Report())

	if src != "" {
		p, err := rules.Compile("adhoc", src)
		if err != nil {
			c.printSystem(fmt.Sprintf("Bad expression: %v", err))
			return
		}
		ok, err := p.Eval(env)
		if err != nil {
			c.printSystem(fmt.Sprintf("Eval failed: %v", err))
			return
		}
		c.printSystem(fmt.Sprintf("%s => %t", src, ok))
		return
	}

	if len(c.Defs.Expect) == 0 {
		c.printSystem("This scenario defines no expectations.")
		return
	}
	failed := 0
	for _, o := range rules.CheckAll(c.Defs.Expect, env) {
		switch {
		case o.Err != nil:
			failed++
			c.printSystem(fmt.Sprintf("ERROR %s: %v", o.Name, o.Err))
		case o.Pass:
			c.printSystem(fmt.Sprintf("PASS  %s", o.Name))
		default:
			failed++
			c.printSystem(fmt.Sprintf("FAIL  %s (%s)", o.Name, o.Expr))
		}
	}
	c.printSystem(fmt.Sprintf("%d of %d expectations met.", len(c.Defs.Expect)-failed, len(c.Defs.Expect)))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]    Save battle (default: quicksave)",
		"  /load [name]    Load battle (default: quicksave)",
		"  /report         Objective report as JSON",
		"  /expect [expr]  Check an expression, or the scenario's expectations",
		"  /quit           Exit",
		"  /help           Show this help",
		"  /state          Debug: dump battle state",
		"  /trace          Toggle debug trace output",
		"",
		"Orders:",
		"  next (n, end turn)          End the turn",
		"  look (l, status)            Objective status",
		"  ships (fleet)               List every ship",
		"  move <ship> to <coord>      Sail a ship, e.g. move kestrel to K20",
		"  hit <ship> for <amount>     Damage a ship (fire at, attack)",
		"  sink <ship>                 Sink a ship outright",
		"  bombard [amount]            Shell the outpost (rolled if no amount)",
		"  again (g)                   Repeat your last order",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	b := c.Battle
	c.printSystem(fmt.Sprintf("Battle: %s (%s)", b.Defs.Battle.Title, b.Mission()))
	c.printSystem(fmt.Sprintf("Turn: %d  Resolution: %s", b.World.Turn, b.Resolution))
	c.printSystem(fmt.Sprintf("Seed: %d  RNG position: %d", b.RNG.Seed(), b.RNG.Position()))
	c.printSystem(fmt.Sprintf("Afloat: %d player, %d enemy",
		len(state.AlivePlayers(b.World)), len(state.AliveEnemies(b.World))))
	c.printSystem(fmt.Sprintf("Orders logged: %d", len(b.CommandLog)))
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
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
