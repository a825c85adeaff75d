package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	EscortDestinationRadius = 5
	EscortMinShips          = 3
	EscortMaxShips          = 5
	EscortShipHealth        = 600
	// EscortEdgeOffset is how many rows in from the far edge the destination sits.
	EscortEdgeOffset = 8
	// DestinationAttempts bounds the search for an open destination centre.
	DestinationAttempts = 30
)

// ConvoyEscortState tracks a convoy_escort mission. Ships move and deliver
// under the battle loop's control; RecordDeliveries updates the counters.
type ConvoyEscortState struct {
	FollowTarget       string        `json:"follow_target,omitempty"`
	Destination        coord.Coord   `json:"destination"`
	DestinationRadius  float64       `json:"destination_radius"`
	Ships              []*ConvoyShip `json:"ships"`
	ShipsDelivered     int           `json:"ships_delivered"`
	RequiredDeliveries int           `json:"required_deliveries"`
	Lost               bool          `json:"lost,omitempty"`
}

func (*ConvoyEscortState) Type() MissionType { return ConvoyEscort }
func (*ConvoyEscortState) isInstance()       {}

func (s *ConvoyEscortState) Progress() (int, int) {
	return s.ShipsDelivered, s.RequiredDeliveries
}

// Failed reports whether too many transports were sunk to meet the quota.
func (s *ConvoyEscortState) Failed() bool { return s.Lost }

// RequiredDeliveries returns the delivery quota for n ships: 60% rounded up.
func RequiredDeliveries(n int) int {
	return (n*3 + 4) / 5
}

func convoyEscortDefinition() Definition {
	return Definition{
		Type:        ConvoyEscort,
		Name:        "Convoy Escort",
		Description: "See the transports safely across to the destination zone.",
		Reward:      Reward{XP: 600, Currency: 1800},
		Setup:       setupEscort,
		Check: func(_ *types.World, inst Instance) bool {
			s := inst.(*ConvoyEscortState)
			return s.ShipsDelivered >= s.RequiredDeliveries
		},
		Process: processEscort,
	}
}

func setupEscort(w *types.World, env *Env) (SetupResult, error) {
	g := w.Grid
	players := state.AlivePlayers(w)

	inst := &ConvoyEscortState{DestinationRadius: EscortDestinationRadius}
	if len(players) > 0 {
		inst.FollowTarget = players[env.Rand.Intn(len(players))].ID
	}

	centroid := state.Centroid(players, g.Center())
	nearZone, farRow := ZoneNorth, g.Height-EscortEdgeOffset
	if centroid.Row > g.Height/2 {
		nearZone, farRow = ZoneSouth, 1+EscortEdgeOffset
	}

	inst.Destination = coord.C(g.Width/2, farRow)
	found := false
	for i := 0; i < DestinationAttempts; i++ {
		c := coord.C(randomCell(g, env.Rand, EscortDestinationRadius+1).Col, farRow)
		if grid.IsOceanOrReef(g.Get(c)) {
			inst.Destination, found = c, true
			break
		}
	}
	if !found {
		env.logger().Warn("destination search exhausted, using default",
			"attempts", DestinationAttempts, "at", inst.Destination.String())
	}
	g.FillRadius(inst.Destination, inst.DestinationRadius, grid.IsOceanOrReef, grid.DestinationZone)

	n := EscortMinShips + env.Rand.Intn(EscortMaxShips-EscortMinShips+1)
	taken := make([]coord.Coord, 0, n)
	for i := 0; i < n; i++ {
		at := spawnOr(w, env, nearZone, taken, edgeLane(g, nearZone, i, n))
		taken = append(taken, at)
		inst.Ships = append(inst.Ships, &ConvoyShip{
			Ship: types.Ship{
				ID:        fmt.Sprintf("convoy-%d", i+1),
				Name:      fmt.Sprintf("Transport %d", i+1),
				Class:     "Transport",
				Faction:   types.FactionConvoy,
				Position:  at,
				Health:    EscortShipHealth,
				MaxHealth: EscortShipHealth,
				Alive:     true,
			},
			Destination: inst.Destination,
		})
	}
	inst.RequiredDeliveries = RequiredDeliveries(n)

	return SetupResult{
		Instance: inst,
		Announcement: fmt.Sprintf("Objective: escort the convoy to %s. %d of %d transports must arrive.",
			inst.Destination, inst.RequiredDeliveries, n),
	}, nil
}

// processEscort only detects failure. Deliveries are recorded by the battle
// loop through RecordDeliveries after it moves the transports.
func processEscort(_ *types.World, inst Instance) []string {
	s := inst.(*ConvoyEscortState)
	if s.Lost {
		return nil
	}
	pending := 0
	for _, ship := range s.Ships {
		if !ship.Delivered && state.IsAlive(&ship.Ship) {
			pending++
		}
	}
	if s.ShipsDelivered+pending >= s.RequiredDeliveries {
		return nil
	}
	s.Lost = true
	return []string{fmt.Sprintf("Too many transports lost: %d delivered, %d still afloat, %d required.",
		s.ShipsDelivered, pending, s.RequiredDeliveries)}
}

// RecordDeliveries marks every afloat transport inside the destination zone
// as delivered and returns an announcement for each.
func RecordDeliveries(_ *types.World, s *ConvoyEscortState) []string {
	var msgs []string
	for _, ship := range s.Ships {
		if ship.Delivered || !state.IsAlive(&ship.Ship) {
			continue
		}
		if coord.Within(ship.Position, s.Destination, s.DestinationRadius) {
			ship.Delivered = true
			s.ShipsDelivered++
			msgs = append(msgs, fmt.Sprintf("%s reached the destination (%d/%d).",
				ship.Name, s.ShipsDelivered, s.RequiredDeliveries))
		}
	}
	return msgs
}
