package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meekantifun/naval-command-sub002/engine"
	"github.com/meekantifun/naval-command-sub002/engine/report"
	"github.com/meekantifun/naval-command-sub002/engine/rules"
	"github.com/meekantifun/naval-command-sub002/engine/save"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text         string
	kind         lineKind
	isInput      bool // true for echoed commander input
	isSystem     bool // true for system messages
	preformatted bool // true for map and report lines, which are never wrapped
}

// Model is the Bubble Tea model for the battle TUI.
type Model struct {
	battle *engine.Battle
	defs   *state.Defs
	log    *slog.Logger

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated battle log lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// battleOutputMsg carries output from the engine into the Update loop.
type battleOutputMsg struct {
	input        string   // echoed commander input (empty for intro)
	lines        []string // output lines
	isSystem     bool     // true for meta-command output
	preformatted bool     // true for /map and /report output
}

// New creates a TUI model wired to the given battle.
func New(b *engine.Battle, defs *state.Defs, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		battle:  b,
		defs:    defs,
		log:     log,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".navalcmd", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(b *engine.Battle, defs *state.Defs, log *slog.Logger) error {
	m := New(b, defs, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro and briefing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		bd := m.defs.Battle
		title := bd.Title
		if bd.Version != "" {
			title += " v" + bd.Version
		}
		if bd.Author != "" {
			title += " by " + bd.Author
		}
		lines = append(lines, title, "")

		if bd.Intro != "" {
			lines = append(lines, bd.Intro, "")
		}
		lines = append(lines, m.battle.Briefing...)

		return battleOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, battle output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // 1 status bar + 1 input line

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
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case battleOutputMsg:
		m = m.appendOutput(msg)
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

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(battleOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	switch input {
	case "/map":
		m = m.appendOutput(battleOutputMsg{input: input, lines: m.cmdMap(), preformatted: true})
		return m, nil
	case "/report":
		m = m.appendOutput(battleOutputMsg{input: input, lines: m.cmdReport(), preformatted: true})
		return m, nil
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(battleOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Battle order.
	result := m.battle.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	m = m.appendOutput(battleOutputMsg{input: input, lines: output})
	return m, nil
}

// appendOutput adds lines to the battle log and refreshes the viewport.
func (m Model) appendOutput(msg battleOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem, preformatted: msg.preformatted}
		if !msg.isSystem && !msg.preformatted {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between orders.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		if rl.preformatted {
			styled = append(styled, styleBoardLine(rl.text))
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindObjective:
		return styleObjective.Render(line)
	case kindSinking:
		return styleSinking.Render(line)
	case kindVictory:
		return styleVictory.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
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

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/expect":
		return m.cmdExpect(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdMap() []string {
	width := m.width
	if width == 0 {
		width = 80
	}
	return renderBoard(m.battle.World.Grid, m.battle.Report().Ships, width)
}

func (m *Model) cmdReport() []string {
	data, err := report.Marshal(m.battle.Report())
	if err != nil {
		return []string{fmt.Sprintf("Report failed: %v", err)}
	}
	return strings.Split(string(data), "\n")
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := m.battle.Save()
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

	m.log.Info("battle saved", "path", path, "turn", m.battle.World.Turn)
	return []string{fmt.Sprintf("Battle saved to %s.", name)}
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

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	b, err := engine.Replay(m.defs, sd, m.log)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.battle = b
	m.lastCmd = ""

	output := []string{fmt.Sprintf("Battle loaded from %s (turn %d).", name, sd.Turn)}
	result := m.battle.Step("look")
	output = append(output, result.Output...)
	return output
}

func (m *Model) cmdExpect(src string) []string {
	env := rules.NewEnv(m.battle.Report())
	if src != "" {
		p, err := rules.Compile("adhoc", src)
		if err != nil {
			return []string{fmt.Sprintf("Bad expression: %v", err)}
		}
		ok, err := p.Eval(env)
		if err != nil {
			return []string{fmt.Sprintf("Eval failed: %v", err)}
		}
		return []string{fmt.Sprintf("%s => %t", src, ok)}
	}

	if len(m.defs.Expect) == 0 {
		return []string{"This scenario defines no expectations."}
	}
	var out []string
	for _, o := range rules.CheckAll(m.defs.Expect, env) {
		switch {
		case o.Err != nil:
			out = append(out, fmt.Sprintf("ERROR %s: %v", o.Name, o.Err))
		case o.Pass:
			out = append(out, "PASS  "+o.Name)
		default:
			out = append(out, fmt.Sprintf("FAIL  %s (%s)", o.Name, o.Expr))
		}
	}
	return out
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]    Save battle (default: quicksave)",
		"  /load [name]    Load battle (default: quicksave)",
		"  /map            Draw the battlefield",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for order history",
	}
}

func (m *Model) cmdState() []string {
	b := m.battle
	return []string{
		fmt.Sprintf("Battle: %s (%s)", b.Defs.Battle.Title, b.Mission()),
		fmt.Sprintf("Turn: %d  Resolution: %s", b.World.Turn, b.Resolution),
		fmt.Sprintf("Seed: %d  RNG position: %d", b.RNG.Seed(), b.RNG.Position()),
		fmt.Sprintf("Afloat: %d player, %d enemy",
			len(state.AlivePlayers(b.World)), len(state.AliveEnemies(b.World))),
		fmt.Sprintf("Orders logged: %d", len(b.CommandLog)),
	}
}

func (m *Model) formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
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
