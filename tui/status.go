package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/meekantifun/naval-command-sub002/engine/report"
	"github.com/meekantifun/naval-command-sub002/types"
)

// statusParts splits the status line into its left and right halves:
// mission and progress on the left, fleet strength and turn on the right.
func statusParts(r report.Report) (left, right string) {
	left = fmt.Sprintf(" %s | %d/%d", r.Name, r.Progress, r.Required)
	switch r.Resolution {
	case types.Victory:
		left += " | VICTORY"
	case types.Defeat:
		left += " | DEFEAT"
	}

	players, enemies := 0, 0
	for _, s := range r.Ships {
		if !s.Alive {
			continue
		}
		switch s.Faction {
		case types.FactionPlayer:
			players++
		case types.FactionEnemy:
			enemies++
		}
	}
	right = fmt.Sprintf("Fleet: %d vs %d | T:%d ", players, enemies, r.Turn)
	return left, right
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	left, right := statusParts(m.battle.Report())

	// Drop fleet strength when the bar is too narrow.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = fmt.Sprintf("T:%d ", m.battle.World.Turn)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
