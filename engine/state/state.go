// Package state builds the battle world from scenario definitions and
// answers entity queries against it. Every query iterates ships in ID order
// so ties resolve deterministically.
package state

import (
	"fmt"
	"sort"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/types"
)

// Defs holds the immutable scenario definitions loaded from Lua.
type Defs struct {
	Battle   types.BattleDef
	Ships    []types.ShipDef
	Terrain  []types.TerrainDef
	Triggers []types.TriggerDef
	Handlers []types.EventHandler
	Expect   []types.ExpectDef
}

// Default hull points for ships defined without health.
const DefaultShipHealth = 1000

// NewWorld creates a fresh battle world from definitions: an ocean grid with
// scenario terrain painted on and every defined ship afloat at full health.
func NewWorld(defs *Defs) (*types.World, error) {
	width, height := defs.Battle.Width, defs.Battle.Height
	if width <= 0 {
		width = grid.DefaultWidth
	}
	if height <= 0 {
		height = grid.DefaultHeight
	}
	w := &types.World{
		Grid:    grid.New(width, height),
		Players: map[string]*types.Ship{},
		Enemies: map[string]*types.Ship{},
	}

	for _, td := range defs.Terrain {
		at, err := coord.Parse(td.At)
		if err != nil {
			return nil, fmt.Errorf("terrain %s: %w", td.Kind, err)
		}
		w.Grid.SetKind(at, td.Kind)
		if td.Radius > 0 {
			w.Grid.FillRadius(at, td.Radius, grid.IsOcean, td.Kind)
		}
	}
	// Scenario terrain is base terrain, not an overlay.
	w.Grid.Each(func(c coord.Coord, cell grid.Cell) {
		if cell.OriginalKind != "" {
			w.Grid.SetKind(c, cell.Kind)
		}
	})

	for _, sd := range defs.Ships {
		at, err := coord.Parse(sd.At)
		if err != nil {
			return nil, fmt.Errorf("ship %s: %w", sd.ID, err)
		}
		health := sd.Health
		if health <= 0 {
			health = DefaultShipHealth
		}
		ship := &types.Ship{
			ID:        sd.ID,
			Name:      sd.Name,
			Class:     sd.Class,
			Faction:   sd.Side,
			Position:  at,
			Health:    health,
			MaxHealth: health,
			Alive:     true,
			OPFOR:     sd.OPFOR,
		}
		if ship.Name == "" {
			ship.Name = sd.ID
		}
		if sd.Side == types.FactionEnemy {
			w.Enemies[sd.ID] = ship
		} else {
			ship.Faction = types.FactionPlayer
			w.Players[sd.ID] = ship
		}
	}

	return w, nil
}

// Sorted returns the ships of m ordered by ID.
func Sorted(m map[string]*types.Ship) []*types.Ship {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*types.Ship, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// IsAlive reports whether a ship is afloat.
func IsAlive(s *types.Ship) bool {
	return s != nil && s.Alive && s.Health > 0
}

// AlivePlayers returns afloat player ships in ID order.
func AlivePlayers(w *types.World) []*types.Ship {
	return alive(Sorted(w.Players))
}

// AliveEnemies returns afloat enemy ships in ID order.
func AliveEnemies(w *types.World) []*types.Ship {
	return alive(Sorted(w.Enemies))
}

func alive(ships []*types.Ship) []*types.Ship {
	out := ships[:0]
	for _, s := range ships {
		if IsAlive(s) {
			out = append(out, s)
		}
	}
	return out
}

// PlayersWithin returns afloat player ships within radius of center.
func PlayersWithin(w *types.World, center coord.Coord, radius float64) []*types.Ship {
	var out []*types.Ship
	for _, s := range AlivePlayers(w) {
		if coord.Within(s.Position, center, radius) {
			out = append(out, s)
		}
	}
	return out
}

// NearestAlive returns the afloat ship closest to origin. Ties go to the
// first ship encountered. It returns nil for empty or all-sunk input.
func NearestAlive(ships []*types.Ship, origin coord.Coord) *types.Ship {
	var best *types.Ship
	bestDist := 0.0
	for _, s := range ships {
		if !IsAlive(s) {
			continue
		}
		d := coord.Distance(s.Position, origin)
		if best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// Centroid returns the rounded mean position of ships, or fallback when
// ships is empty.
func Centroid(ships []*types.Ship, fallback coord.Coord) coord.Coord {
	if len(ships) == 0 {
		return fallback
	}
	var sumCol, sumRow int
	for _, s := range ships {
		sumCol += s.Position.Col
		sumRow += s.Position.Row
	}
	n := len(ships)
	return coord.C((sumCol+n/2)/n, (sumRow+n/2)/n)
}

// FindShip looks up a player or enemy ship by ID.
func FindShip(w *types.World, id string) (*types.Ship, bool) {
	if s, ok := w.Players[id]; ok {
		return s, true
	}
	if s, ok := w.Enemies[id]; ok {
		return s, true
	}
	return nil, false
}

// Occupied reports whether an afloat player or enemy ship sits at c.
func Occupied(w *types.World, c coord.Coord) bool {
	for _, m := range []map[string]*types.Ship{w.Players, w.Enemies} {
		for _, s := range m {
			if IsAlive(s) && s.Position == c {
				return true
			}
		}
	}
	return false
}
