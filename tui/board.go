package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/report"
	"github.com/meekantifun/naval-command-sub002/types"
)

var terrainGlyphs = map[grid.TerrainKind]rune{
	grid.Ocean:           '.',
	grid.Island:          '#',
	grid.Reef:            '%',
	grid.Spawn:           '.',
	grid.ResourceZone:    'R',
	grid.ResourceRadius:  'r',
	grid.Outpost:         'O',
	grid.DestinationZone: 'D',
	grid.SalvageZone:     'W',
	grid.SalvageRadius:   'w',
}

var (
	styleBoardPlayer = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	styleBoardEnemy  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleBoardConvoy = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleBoardLand   = lipgloss.NewStyle().Foreground(lipgloss.Color("136"))
	styleBoardZone   = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
	styleBoardSea    = lipgloss.NewStyle().Foreground(lipgloss.Color("24"))
)

// shipGlyph picks the marker drawn for a ship.
func shipGlyph(s report.Ship) rune {
	switch {
	case s.Boss:
		return 'B'
	case s.Faction == types.FactionPlayer:
		return 'P'
	case s.Faction == types.FactionConvoy:
		return 'C'
	default:
		return 'E'
	}
}

// boardGlyphs lays the battlefield out one rune per cell, row 1 at the top.
// Afloat ships are drawn over terrain; sunk ships are omitted.
func boardGlyphs(g *grid.Grid, ships []report.Ship) [][]rune {
	rows := make([][]rune, g.Height)
	for r := range rows {
		row := make([]rune, g.Width)
		for c := range row {
			kind := g.Get(coord.C(c, r+1)).Kind
			glyph, ok := terrainGlyphs[kind]
			if !ok {
				glyph = '?'
			}
			row[c] = glyph
		}
		rows[r] = row
	}
	for _, s := range ships {
		if !s.Alive || !g.InBounds(s.At) {
			continue
		}
		rows[s.At.Row-1][s.At.Col] = shipGlyph(s)
	}
	return rows
}

func styleGlyph(r rune) string {
	s := string(r)
	switch r {
	case 'P':
		return styleBoardPlayer.Render(s)
	case 'E', 'B':
		return styleBoardEnemy.Render(s)
	case 'C':
		return styleBoardConvoy.Render(s)
	case '#', '%':
		return styleBoardLand.Render(s)
	case '.':
		return styleBoardSea.Render(s)
	default:
		return styleBoardZone.Render(s)
	}
}

// boardGutter is the width of the row-number column.
const boardGutter = 4

// renderBoard draws the battlefield, unstyled, with a column header and row
// labels. Boards wider than maxWidth are refused with a single explanatory
// line.
func renderBoard(g *grid.Grid, ships []report.Ship, maxWidth int) []string {
	const gutter = boardGutter
	if g.Width+gutter > maxWidth {
		return []string{"The battlefield is too wide to draw here. Widen the terminal or use /report."}
	}

	// Column letters every five cells.
	header := []byte(strings.Repeat(" ", gutter+g.Width))
	for c := 0; c < g.Width; c += 5 {
		letters := strings.TrimRight(coord.Encode(c, 1), "0123456789")
		copy(header[gutter+c:], letters)
	}

	lines := []string{strings.TrimRight(string(header), " ")}
	for i, row := range boardGlyphs(g, ships) {
		lines = append(lines, fmt.Sprintf("%*d %s", gutter-1, i+1, string(row)))
	}
	lines = append(lines, "P player  E enemy  B boss  C convoy  # island  % reef  O outpost  R resources  D destination  W wreck")
	return lines
}

// styleBoardLine colours the cells of a board row. Header and legend lines
// are rendered plain.
func styleBoardLine(line string) string {
	if len(line) <= boardGutter || line[boardGutter-2] < '0' || line[boardGutter-2] > '9' {
		return styleSystem.Render(line)
	}
	var b strings.Builder
	b.WriteString(styleSystem.Render(line[:boardGutter]))
	for _, r := range line[boardGutter:] {
		b.WriteString(styleGlyph(r))
	}
	return b.String()
}
