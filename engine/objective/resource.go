package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	ResourceRadius        = 3
	ResourceTurnsRequired = 8
	// ResourceMaxPerTurn caps how many ships in the zone count each turn.
	ResourceMaxPerTurn = 3
)

// ResourceAcquisitionState tracks a resource_acquisition mission.
type ResourceAcquisitionState struct {
	Island        coord.Coord `json:"island"`
	ResourceZone  coord.Coord `json:"resource_zone"`
	Radius        float64     `json:"radius"`
	TurnsRequired int         `json:"turns_required"`
	TurnsProgress int         `json:"turns_progress"`
}

func (*ResourceAcquisitionState) Type() MissionType { return ResourceAcquisition }
func (*ResourceAcquisitionState) isInstance()       {}

func (s *ResourceAcquisitionState) Progress() (int, int) {
	return s.TurnsProgress, s.TurnsRequired
}

func resourceAcquisitionDefinition() Definition {
	return Definition{
		Type:        ResourceAcquisition,
		Name:        "Resource Acquisition",
		Description: "Hold the waters beside the resource island until the cargo is loaded.",
		Reward:      Reward{XP: 400, Currency: 1500},
		Setup:       setupResource,
		Check: func(_ *types.World, inst Instance) bool {
			s := inst.(*ResourceAcquisitionState)
			return s.TurnsProgress >= s.TurnsRequired
		},
		Process: processResource,
	}
}

func setupResource(w *types.World, env *Env) (SetupResult, error) {
	g := w.Grid
	island := locateOrCarveCross(w, env)
	zone, ok := oceanBeside(g, island)
	if !ok {
		island = carveIsland(w, env)
		zone, ok = oceanBeside(g, island)
		if !ok {
			// Only reachable on a map with no ocean left at all.
			zone = island
		}
	}

	g.Overlay(zone, grid.ResourceZone)
	g.FillRadius(zone, ResourceRadius, grid.IsOcean, grid.ResourceRadius)

	inst := &ResourceAcquisitionState{
		Island:        island,
		ResourceZone:  zone,
		Radius:        ResourceRadius,
		TurnsRequired: ResourceTurnsRequired,
	}
	return SetupResult{
		Instance: inst,
		Announcement: fmt.Sprintf("Objective: hold the resource zone at %s for %d ship-turns.",
			zone, inst.TurnsRequired),
	}, nil
}

// oceanBeside finds an open-ocean cell touching the island centred on c.
// The cross arms are tried first, then every shore cell nearest first.
func oceanBeside(g *grid.Grid, c coord.Coord) (coord.Coord, bool) {
	for _, cell := range grid.CrossCells(c) {
		if g.Get(cell).Kind != grid.Island {
			continue
		}
		if o, ok := g.AdjacentOcean(cell); ok {
			return o, true
		}
	}
	var best coord.Coord
	found := false
	bestDist := 0.0
	for _, shore := range g.ShoreCells() {
		d := coord.Distance(shore, c)
		if !found || d < bestDist {
			best, bestDist, found = shore, d, true
		}
	}
	if !found {
		return coord.Coord{}, false
	}
	return g.AdjacentOcean(best)
}

func processResource(w *types.World, inst Instance) []string {
	s := inst.(*ResourceAcquisitionState)
	n := len(state.PlayersWithin(w, s.ResourceZone, s.Radius))
	if n == 0 {
		return nil
	}
	gain := min(n, ResourceMaxPerTurn)
	s.TurnsProgress += gain
	return []string{fmt.Sprintf("Resource loading: %d/%d (+%d)", s.TurnsProgress, s.TurnsRequired, gain)}
}
