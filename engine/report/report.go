// Package report builds the objective status report the display layer and
// scripted assertions read. A report is a snapshot; building one never
// mutates the world or the instance.
package report

import (
	"encoding/json"
	"sort"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// Report is the JSON-serializable objective status.
type Report struct {
	Mission     objective.MissionType `json:"mission"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Turn        int                   `json:"turn"`
	Resolution  types.Resolution      `json:"resolution"`
	Progress    int                   `json:"progress"`
	Required    int                   `json:"required"`
	Failed      bool                  `json:"failed"`
	Reward      objective.Reward      `json:"reward"`
	// Counters holds the mission-specific tallies, keyed in camelCase.
	Counters map[string]int `json:"counters"`
	Points   []Point        `json:"points,omitempty"`
	Ships    []Ship         `json:"ships"`
}

// Point is a labelled location of interest on the grid.
type Point struct {
	Label  string      `json:"label"`
	At     coord.Coord `json:"at"`
	Radius float64     `json:"radius,omitempty"`
	Done   bool        `json:"done,omitempty"`
}

// Ship is one vessel's line in the report.
type Ship struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Class     string        `json:"class,omitempty"`
	Faction   types.Faction `json:"faction"`
	At        coord.Coord   `json:"at"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	Alive     bool          `json:"alive"`
	Boss      bool          `json:"boss,omitempty"`
	Status    string        `json:"status,omitempty"`
}

// Build snapshots the world and the instance created from def.
func Build(w *types.World, def objective.Definition, inst objective.Instance, res types.Resolution) Report {
	r := Report{
		Mission:     def.Type,
		Name:        def.Name,
		Description: def.Description,
		Turn:        w.Turn,
		Resolution:  res,
		Reward:      def.Reward,
		Counters:    map[string]int{},
	}
	if res == "" {
		r.Resolution = types.InProgress
	}
	if inst == nil {
		r.Ships = ships(w, nil)
		return r
	}
	r.Progress, r.Required = inst.Progress()
	if f, ok := inst.(objective.Failer); ok {
		r.Failed = f.Failed()
	}

	var statuses map[string]string
	switch v := inst.(type) {
	case *objective.DestroyAllState:
		sunk, initial := v.Progress()
		r.Counters["initialEnemies"] = initial
		r.Counters["enemiesSunk"] = sunk
		r.Counters["enemiesAfloat"] = len(state.AliveEnemies(w))

	case *objective.ResourceAcquisitionState:
		r.Counters["turnsProgress"] = v.TurnsProgress
		r.Counters["turnsRequired"] = v.TurnsRequired
		r.Counters["shipsInZone"] = len(state.PlayersWithin(w, v.ResourceZone, v.Radius))
		r.Points = append(r.Points, Point{Label: "Resource zone", At: v.ResourceZone, Radius: v.Radius})

	case *objective.ConvoyEscortState:
		afloat, lost := 0, 0
		statuses = map[string]string{}
		for _, s := range v.Ships {
			switch {
			case s.Delivered:
				statuses[s.ID] = "delivered"
			case !state.IsAlive(&s.Ship):
				statuses[s.ID] = "lost"
				lost++
			default:
				statuses[s.ID] = "underway"
				afloat++
			}
		}
		r.Counters["shipsDelivered"] = v.ShipsDelivered
		r.Counters["requiredDeliveries"] = v.RequiredDeliveries
		r.Counters["shipsAfloat"] = afloat
		r.Counters["shipsLost"] = lost
		r.Points = append(r.Points, Point{Label: "Destination", At: v.Destination, Radius: v.DestinationRadius})

	case *objective.CaptureOutpostState:
		r.Counters["outpostHealth"] = v.Health
		r.Counters["outpostMaxHealth"] = v.MaxHealth
		r.Counters["captureProgress"] = v.CaptureProgress
		r.Counters["captureRequired"] = v.CaptureRequired
		r.Counters["outpostDestroyed"] = boolInt(v.Destroyed)
		r.Points = append(r.Points, Point{Label: "Outpost", At: v.Outpost, Radius: v.CaptureRadius, Done: v.Destroyed})

	case *objective.DefeatBossState:
		if boss, ok := w.Enemies[v.BossID]; ok {
			r.Counters["bossHealth"] = boss.Health
			r.Counters["bossMaxHealth"] = boss.MaxHealth
		}
		r.Counters["bossPromoted"] = boolInt(v.Promoted)

	case *objective.SalvageSuppliesState:
		r.Counters["zonesCompleted"] = v.ZonesCompleted
		r.Counters["zonesRequired"] = v.ZonesRequired
		for _, z := range v.Zones {
			r.Points = append(r.Points, Point{Label: z.WreckName, At: z.Center, Radius: z.Radius, Done: z.Captured})
		}

	case *objective.ConvoyInterceptionState:
		statuses = map[string]string{}
		for _, s := range v.Ships {
			switch {
			case s.Captured:
				statuses[s.ID] = "captured"
			case s.Escaped:
				statuses[s.ID] = "escaped"
			case !state.IsAlive(&s.Ship):
				statuses[s.ID] = "sunk"
			default:
				statuses[s.ID] = "underway"
			}
		}
		r.Counters["shipsCaptured"] = v.ShipsCaptured
		r.Counters["shipsEscaped"] = v.ShipsEscaped
		r.Counters["requiredCaptures"] = v.RequiredCaptures
	}

	all := ships(w, objective.OwnedShips(inst))
	for i := range all {
		all[i].Status = statuses[all[i].ID]
	}
	r.Ships = all
	return r
}

// ships lists players, enemies and owned ships, each group in ID order.
func ships(w *types.World, owned []*types.Ship) []Ship {
	var out []Ship
	add := func(s *types.Ship) {
		out = append(out, Ship{
			ID:        s.ID,
			Name:      s.Name,
			Class:     s.Class,
			Faction:   s.Faction,
			At:        s.Position,
			Health:    s.Health,
			MaxHealth: s.MaxHealth,
			Alive:     state.IsAlive(s),
			Boss:      s.Boss,
		})
	}
	for _, s := range state.Sorted(w.Players) {
		add(s)
	}
	for _, s := range state.Sorted(w.Enemies) {
		add(s)
	}
	sorted := append([]*types.Ship(nil), owned...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, s := range sorted {
		add(s)
	}
	return out
}

// Marshal renders a report as indented JSON.
func Marshal(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
