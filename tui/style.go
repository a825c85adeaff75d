package tui

import (
	"strings"

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

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleObjective = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSinking = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTurn
	kindObjective
	kindSinking
	kindVictory
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "-- Turn "):
		return kindTurn
	case strings.HasPrefix(line, "Mission accomplished"):
		return kindVictory
	case strings.HasPrefix(line, "Mission failed"),
		strings.HasPrefix(line, "no ship called"),
		strings.HasPrefix(line, "which "),
		strings.Contains(line, " cannot sail to "):
		return kindError
	case strings.HasPrefix(line, "Objective:"),
		strings.HasPrefix(line, "Mission:"):
		return kindObjective
	case strings.HasSuffix(line, " is sunk!"):
		return kindSinking
	default:
		return kindNarrative
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
