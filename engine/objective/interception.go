package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	InterceptionShips         = 5
	InterceptionRequired      = 3
	InterceptionCaptureRadius = 2
	InterceptionEscapeRadius  = 3
	InterceptionSpeed         = 2
	InterceptionShipHealth    = 800
)

// ConvoyInterceptionState tracks a convoy_interception mission. The enemy
// transports belong to the instance and are never added to the enemy fleet.
type ConvoyInterceptionState struct {
	Ships            []*ConvoyShip `json:"ships"`
	SpawnEdge        SpawnZone     `json:"spawn_edge"`
	ShipsCaptured    int           `json:"ships_captured"`
	ShipsEscaped     int           `json:"ships_escaped"`
	RequiredCaptures int           `json:"required_captures"`
	CaptureRadius    float64       `json:"capture_radius"`
	EscapeRadius     float64       `json:"escape_radius"`
	Speed            float64       `json:"speed"`
	Lost             bool          `json:"lost,omitempty"`
}

func (*ConvoyInterceptionState) Type() MissionType { return ConvoyInterception }
func (*ConvoyInterceptionState) isInstance()       {}

func (s *ConvoyInterceptionState) Progress() (int, int) {
	return s.ShipsCaptured, s.RequiredCaptures
}

// Failed reports whether escapes and sinkings have left too few transports
// at sea to meet the quota.
func (s *ConvoyInterceptionState) Failed() bool { return s.Lost }

func convoyInterceptionDefinition() Definition {
	return Definition{
		Type:        ConvoyInterception,
		Name:        "Convoy Interception",
		Description: "Intercept the enemy supply convoy before it crosses the map.",
		Reward:      Reward{XP: 650, Currency: 2200},
		Setup:       setupInterception,
		Check: func(_ *types.World, inst Instance) bool {
			s := inst.(*ConvoyInterceptionState)
			return s.ShipsCaptured >= s.RequiredCaptures
		},
		Process: processInterception,
	}
}

func setupInterception(w *types.World, env *Env) (SetupResult, error) {
	g := w.Grid
	centroid := state.Centroid(state.AlivePlayers(w), g.Center())
	edge := farthestSide(g, centroid)

	inst := &ConvoyInterceptionState{
		SpawnEdge:        edge,
		RequiredCaptures: InterceptionRequired,
		CaptureRadius:    InterceptionCaptureRadius,
		EscapeRadius:     InterceptionEscapeRadius,
		Speed:            InterceptionSpeed,
	}
	taken := make([]coord.Coord, 0, InterceptionShips)
	for i := 0; i < InterceptionShips; i++ {
		at := spawnOr(w, env, edge, taken, edgeLane(g, edge, i, InterceptionShips))
		taken = append(taken, at)
		inst.Ships = append(inst.Ships, &ConvoyShip{
			Ship: types.Ship{
				ID:        fmt.Sprintf("supply-%d", i+1),
				Name:      fmt.Sprintf("Enemy Supply Ship %d", i+1),
				Class:     "Transport",
				Faction:   types.FactionConvoy,
				Position:  at,
				Health:    InterceptionShipHealth,
				MaxHealth: InterceptionShipHealth,
				Alive:     true,
			},
			Destination: acrossFrom(g, edge, at),
		})
	}

	return SetupResult{
		Instance: inst,
		Announcement: fmt.Sprintf("Objective: an enemy convoy of %d ships is crossing from the %s. Capture %d of them.",
			InterceptionShips, edge, inst.RequiredCaptures),
	}, nil
}

// processInterception resolves each transport still at sea: capture by a
// nearby player first, then escape at the destination, else it sails on.
// Sunk transports are neither captured nor escaped and are skipped.
func processInterception(w *types.World, inst Instance) []string {
	s := inst.(*ConvoyInterceptionState)
	players := state.AlivePlayers(w)
	var msgs []string
	for _, ship := range s.Ships {
		if ship.Captured || ship.Escaped || !state.IsAlive(&ship.Ship) {
			continue
		}
		if captor := firstWithin(players, ship.Position, s.CaptureRadius); captor != nil {
			ship.Captured = true
			s.ShipsCaptured++
			msgs = append(msgs, fmt.Sprintf("%s captured %s (%d/%d).",
				captor.Name, ship.Name, s.ShipsCaptured, s.RequiredCaptures))
			continue
		}
		if coord.Within(ship.Position, ship.Destination, s.EscapeRadius) {
			ship.Escaped = true
			s.ShipsEscaped++
			msgs = append(msgs, fmt.Sprintf("%s escaped.", ship.Name))
			continue
		}
		ship.Position = coord.StepToward(ship.Position, ship.Destination, s.Speed)
	}

	if s.Lost {
		return msgs
	}
	pending, sunk := 0, 0
	for _, ship := range s.Ships {
		switch {
		case ship.Captured || ship.Escaped:
		case state.IsAlive(&ship.Ship):
			pending++
		default:
			sunk++
		}
	}
	if s.ShipsCaptured+pending < s.RequiredCaptures {
		s.Lost = true
		msgs = append(msgs, fmt.Sprintf("Too few supply ships left to take: %d captured, %d escaped, %d sunk, %d required.",
			s.ShipsCaptured, s.ShipsEscaped, sunk, s.RequiredCaptures))
	}
	return msgs
}

func firstWithin(ships []*types.Ship, at coord.Coord, radius float64) *types.Ship {
	for _, p := range ships {
		if coord.Within(p.Position, at, radius) {
			return p
		}
	}
	return nil
}
