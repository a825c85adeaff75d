package objective

import (
	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/types"
)

// Placement bounds. Every random search in a mission setup is bounded and
// ends in a documented fallback instead of looping.
const (
	// PlacementAttempts bounds each random search for a usable cell.
	PlacementAttempts = 50
	// SpacingRetries bounds the extra searches made to honour a minimum
	// spacing between zones. After that the last candidate is accepted.
	SpacingRetries = 30
	// IslandMargin keeps carved islands away from the map edges.
	IslandMargin = 10
	// EdgeInset is how far from the map edge convoy lanes start and end.
	EdgeInset = 2
)

// randomCell picks a cell at least margin cells inside every map edge. The
// margin is dropped on maps too small to honour it.
func randomCell(g *grid.Grid, r Rand, margin int) coord.Coord {
	if g.Width-2*margin <= 0 || g.Height-2*margin <= 0 {
		margin = 0
	}
	return coord.C(
		margin+r.Intn(g.Width-2*margin),
		margin+1+r.Intn(g.Height-2*margin),
	)
}

// carveIsland carves a five-cell cross at a random open-ocean spot. After
// PlacementAttempts misses it carves at the map centre regardless of what
// is there.
func carveIsland(w *types.World, env *Env) coord.Coord {
	g := w.Grid
	for i := 0; i < PlacementAttempts; i++ {
		c := randomCell(g, env.Rand, IslandMargin)
		if g.CrossFits(c) {
			g.CarveCross(c)
			return c
		}
	}
	c := g.Center()
	env.logger().Warn("island placement exhausted, carving at map centre",
		"attempts", PlacementAttempts, "at", c.String())
	g.CarveCross(c)
	return c
}

// locateOrCarveCross returns the centre of an existing cross-shaped island,
// carving a new one when the map has none.
func locateOrCarveCross(w *types.World, env *Env) coord.Coord {
	if c, ok := w.Grid.FindCrossCenter(); ok {
		return c
	}
	return carveIsland(w, env)
}

// spawnOr asks the spawn provider for a cell and falls back to the given
// coordinate when it has none.
func spawnOr(w *types.World, env *Env, zone SpawnZone, taken []coord.Coord, fallback coord.Coord) coord.Coord {
	if env.Spawner != nil {
		c, err := env.Spawner.SpawnPosition(w, zone, taken)
		if err == nil {
			return c
		}
		env.logger().Warn("spawn search exhausted, using fallback",
			"zone", zone, "fallback", fallback.String(), "error", err)
	}
	return fallback
}

// farthestSide returns the map edge farthest from c. Ties prefer north,
// then south, west, east.
func farthestSide(g *grid.Grid, c coord.Coord) SpawnZone {
	best, bestDist := ZoneNorth, c.Row-1
	for _, cand := range []struct {
		zone SpawnZone
		dist int
	}{
		{ZoneSouth, g.Height - c.Row},
		{ZoneWest, c.Col},
		{ZoneEast, g.Width - 1 - c.Col},
	} {
		if cand.dist > bestDist {
			best, bestDist = cand.zone, cand.dist
		}
	}
	return best
}

// edgeLane spreads n lanes evenly along an edge and returns lane i's start.
func edgeLane(g *grid.Grid, zone SpawnZone, i, n int) coord.Coord {
	switch zone {
	case ZoneSouth:
		return coord.C((i+1)*g.Width/(n+1), g.Height-EdgeInset)
	case ZoneWest:
		return coord.C(EdgeInset, 1+(i+1)*(g.Height-1)/(n+1))
	case ZoneEast:
		return coord.C(g.Width-1-EdgeInset, 1+(i+1)*(g.Height-1)/(n+1))
	default:
		return coord.C((i+1)*g.Width/(n+1), 1+EdgeInset)
	}
}

// acrossFrom projects c onto the opposite edge of the map from zone.
func acrossFrom(g *grid.Grid, zone SpawnZone, c coord.Coord) coord.Coord {
	switch zone {
	case ZoneSouth:
		return coord.C(c.Col, 1+EdgeInset)
	case ZoneWest:
		return coord.C(g.Width-1-EdgeInset, c.Row)
	case ZoneEast:
		return coord.C(EdgeInset, c.Row)
	default:
		return coord.C(c.Col, g.Height-EdgeInset)
	}
}

// convoyShips flattens objective-owned convoy ships into plain ship pointers.
func convoyShips(ships []*ConvoyShip) []*types.Ship {
	out := make([]*types.Ship, 0, len(ships))
	for _, s := range ships {
		out = append(out, &s.Ship)
	}
	return out
}

// OwnedShips returns the synthetic ships an objective instance owns, so
// battle input can target them like any other ship.
func OwnedShips(inst Instance) []*types.Ship {
	switch v := inst.(type) {
	case *ConvoyEscortState:
		return convoyShips(v.Ships)
	case *ConvoyInterceptionState:
		return convoyShips(v.Ships)
	default:
		return nil
	}
}

// ConvoyShip is a mission-owned transport with a destination.
type ConvoyShip struct {
	types.Ship
	Destination coord.Coord `json:"destination"`
	Captured    bool        `json:"captured,omitempty"`
	Escaped     bool        `json:"escaped,omitempty"`
	Delivered   bool        `json:"delivered,omitempty"`
}
