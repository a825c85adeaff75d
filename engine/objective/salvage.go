package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	SalvageZoneCount  = 3
	SalvageRadius     = 5
	SalvageRequired   = 5
	SalvageMinSpacing = 20
)

var wreckNames = []string{"Wreck of the Meridian", "Wreck of the Halcyon", "Wreck of the Corvina"}

// SalvageZone is one wreck site and its recovery progress.
type SalvageZone struct {
	ID        int         `json:"id"`
	WreckName string      `json:"wreck_name"`
	Center    coord.Coord `json:"center"`
	Radius    float64     `json:"radius"`
	Progress  int         `json:"progress"`
	Required  int         `json:"required"`
	Captured  bool        `json:"captured"`
}

// SalvageSuppliesState tracks a salvage_supplies mission.
type SalvageSuppliesState struct {
	Zones          []*SalvageZone `json:"zones"`
	ZonesCompleted int            `json:"zones_completed"`
	ZonesRequired  int            `json:"zones_required"`
}

func (*SalvageSuppliesState) Type() MissionType { return SalvageSupplies }
func (*SalvageSuppliesState) isInstance()       {}

func (s *SalvageSuppliesState) Progress() (int, int) {
	return s.ZonesCompleted, s.ZonesRequired
}

func salvageSuppliesDefinition() Definition {
	return Definition{
		Type:        SalvageSupplies,
		Name:        "Salvage Supplies",
		Description: "Recover supplies from three wreck sites.",
		Reward:      Reward{XP: 550, Currency: 1600},
		Setup:       setupSalvage,
		Check: func(_ *types.World, inst Instance) bool {
			s := inst.(*SalvageSuppliesState)
			return s.ZonesCompleted >= s.ZonesRequired
		},
		Process: processSalvage,
	}
}

func setupSalvage(w *types.World, env *Env) (SetupResult, error) {
	g := w.Grid
	g.RevertOverlay(grid.SalvageZone)
	g.RevertOverlay(grid.SalvageRadius)

	inst := &SalvageSuppliesState{ZonesRequired: SalvageZoneCount}
	var centers []coord.Coord
	for i := 0; i < SalvageZoneCount; i++ {
		c := placeSalvageZone(g, env, i, centers)
		centers = append(centers, c)
		g.Overlay(c, grid.SalvageZone)
		g.FillRadius(c, SalvageRadius, grid.IsOcean, grid.SalvageRadius)
		inst.Zones = append(inst.Zones, &SalvageZone{
			ID:        i + 1,
			WreckName: wreckNames[i%len(wreckNames)],
			Center:    c,
			Radius:    SalvageRadius,
			Required:  SalvageRequired,
		})
	}

	return SetupResult{
		Instance: inst,
		Announcement: fmt.Sprintf("Objective: salvage supplies from %d wrecks at %s, %s and %s.",
			len(centers), centers[0], centers[1], centers[2]),
	}, nil
}

// placeSalvageZone finds a centre for zone i. A random ocean search runs up
// to PlacementAttempts times, repeated up to SpacingRetries more times while
// the result sits within SalvageMinSpacing of an earlier zone. If no spaced
// cell turns up the last ocean candidate is used; with no ocean candidate at
// all it falls back to the first open-ocean cell in the margin box, then to
// a fixed per-zone default.
func placeSalvageZone(g *grid.Grid, env *Env, i int, placed []coord.Coord) coord.Coord {
	margin := SalvageRadius + 1
	var last coord.Coord
	found := false
	for retry := 0; retry <= SpacingRetries; retry++ {
		c, ok := randomOcean(g, env.Rand, margin)
		if !ok {
			break
		}
		last, found = c, true
		if spacedFrom(c, placed, SalvageMinSpacing) {
			return c
		}
	}
	if found {
		env.logger().Warn("salvage spacing not met, accepting closest try", "zone", i+1, "at", last.String())
		return last
	}
	if c, ok := firstOcean(g, margin); ok {
		env.logger().Warn("salvage ocean search exhausted, using first open cell", "zone", i+1, "at", c.String())
		return c
	}
	c := defaultSalvageCenter(g, i)
	env.logger().Warn("no open ocean for salvage zone, using default", "zone", i+1, "at", c.String())
	return c
}

func randomOcean(g *grid.Grid, r Rand, margin int) (coord.Coord, bool) {
	for i := 0; i < PlacementAttempts; i++ {
		c := randomCell(g, r, margin)
		if grid.IsOcean(g.Get(c)) {
			return c, true
		}
	}
	return coord.Coord{}, false
}

// firstOcean scans the margin box in row-major order.
func firstOcean(g *grid.Grid, margin int) (coord.Coord, bool) {
	for row := 1 + margin; row <= g.Height-margin; row++ {
		for col := margin; col < g.Width-margin; col++ {
			c := coord.C(col, row)
			if grid.IsOcean(g.Get(c)) {
				return c, true
			}
		}
	}
	return coord.Coord{}, false
}

func defaultSalvageCenter(g *grid.Grid, i int) coord.Coord {
	switch i % SalvageZoneCount {
	case 0:
		return coord.C(g.Width/4, max(g.Height/4, 1))
	case 1:
		return coord.C(3*g.Width/4, max(g.Height/4, 1))
	default:
		return coord.C(g.Width/2, max(3*g.Height/4, 1))
	}
}

func spacedFrom(c coord.Coord, placed []coord.Coord, spacing float64) bool {
	for _, p := range placed {
		if coord.Distance(c, p) < spacing {
			return false
		}
	}
	return true
}

func processSalvage(w *types.World, inst Instance) []string {
	s := inst.(*SalvageSuppliesState)
	var msgs []string
	for _, z := range s.Zones {
		if z.Captured {
			continue
		}
		ships := state.PlayersWithin(w, z.Center, z.Radius)
		if len(ships) == 0 {
			continue
		}
		z.Progress++
		msgs = append(msgs, fmt.Sprintf("%s salvaging %s: %d/%d", ships[0].Name, z.WreckName, z.Progress, z.Required))
		if z.Progress >= z.Required {
			z.Captured = true
			s.ZonesCompleted++
			msgs = append(msgs, fmt.Sprintf("%s recovered (%d/%d).", z.WreckName, s.ZonesCompleted, s.ZonesRequired))
		}
	}
	return msgs
}
