// Package spawn finds valid, unoccupied cells for ships entering the battle.
package spawn

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	// DefaultAttempts bounds the random search in each zone.
	DefaultAttempts = 100
	// EdgeDepth is how many rows or columns an edge zone spans.
	EdgeDepth = 8
)

// Provider draws random cells inside a zone rectangle until one is open
// water, unoccupied and not already taken.
type Provider struct {
	Rand     objective.Rand
	Attempts int
}

// New returns a provider with the default attempt bound.
func New(r objective.Rand) *Provider {
	return &Provider{Rand: r, Attempts: DefaultAttempts}
}

// Rect is an inclusive zone rectangle.
type Rect struct {
	MinCol, MaxCol int
	MinRow, MaxRow int
}

// ZoneRect returns the rectangle a zone covers on g. Enemies hold the north
// edge and players the south.
func ZoneRect(g *grid.Grid, zone objective.SpawnZone) Rect {
	depth := min(EdgeDepth, g.Height, g.Width)
	full := Rect{MinCol: 0, MaxCol: g.Width - 1, MinRow: 1, MaxRow: g.Height}
	switch zone {
	case objective.ZoneNorth, objective.ZoneEnemySide:
		full.MaxRow = depth
	case objective.ZoneSouth, objective.ZonePlayerSide:
		full.MinRow = g.Height - depth + 1
	case objective.ZoneWest:
		full.MaxCol = depth - 1
	case objective.ZoneEast:
		full.MinCol = g.Width - depth
	case objective.ZoneCenter:
		full = Rect{
			MinCol: g.Width / 3, MaxCol: max(g.Width/3, 2*g.Width/3-1),
			MinRow: 1 + g.Height/3, MaxRow: max(1+g.Height/3, 2*g.Height/3),
		}
	}
	return full
}

// Valid reports whether c can take a new ship.
func Valid(w *types.World, c coord.Coord, taken []coord.Coord) bool {
	if !w.Grid.InBounds(c) {
		return false
	}
	switch w.Grid.Get(c).Kind {
	case grid.Ocean, grid.Spawn:
	default:
		return false
	}
	for _, t := range taken {
		if t == c {
			return false
		}
	}
	return !state.Occupied(w, c)
}

// SpawnPosition implements objective.SpawnProvider.
func (p *Provider) SpawnPosition(w *types.World, zone objective.SpawnZone, taken []coord.Coord) (coord.Coord, error) {
	r := ZoneRect(w.Grid, zone)
	cols, rows := r.MaxCol-r.MinCol+1, r.MaxRow-r.MinRow+1
	if cols <= 0 || rows <= 0 {
		return coord.Coord{}, fmt.Errorf("%w: zone %s is empty", objective.ErrSpawnPositionUnavailable, zone)
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	for i := 0; i < attempts; i++ {
		c := coord.C(r.MinCol+p.Rand.Intn(cols), r.MinRow+p.Rand.Intn(rows))
		if Valid(w, c, taken) {
			return c, nil
		}
	}
	return coord.Coord{}, fmt.Errorf("%w: zone %s after %d attempts", objective.ErrSpawnPositionUnavailable, zone, attempts)
}
