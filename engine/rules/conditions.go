// Package rules compiles boolean battle conditions with expr and evaluates
// them against an objective report. Scenario triggers and expectations are
// both built on it.
package rules

import (
	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/report"
)

// Env wraps a report snapshot and exposes helper methods callable from
// expressions, e.g. `turn >= 5 && !Alive("flagship")`.
type Env struct {
	Turn         int            `expr:"turn"`
	Mission      string         `expr:"mission"`
	Resolution   string         `expr:"resolution"`
	Progress     int            `expr:"progress"`
	Required     int            `expr:"required"`
	Failed       bool           `expr:"failed"`
	PlayersAlive int            `expr:"playersAlive"`
	EnemiesAlive int            `expr:"enemiesAlive"`
	Counters     map[string]int `expr:"counters"`

	ships map[string]report.Ship
}

// NewEnv builds an expression environment from a report.
func NewEnv(r report.Report) Env {
	env := Env{
		Turn:       r.Turn,
		Mission:    string(r.Mission),
		Resolution: string(r.Resolution),
		Progress:   r.Progress,
		Required:   r.Required,
		Failed:     r.Failed,
		Counters:   r.Counters,
		ships:      make(map[string]report.Ship, len(r.Ships)),
	}
	if env.Counters == nil {
		env.Counters = map[string]int{}
	}
	for _, s := range r.Ships {
		env.ships[s.ID] = s
		if !s.Alive {
			continue
		}
		switch s.Faction {
		case "player":
			env.PlayersAlive++
		case "enemy":
			env.EnemiesAlive++
		}
	}
	return env
}

// Alive reports whether the ship with the given ID is afloat.
func (e Env) Alive(id string) bool {
	return e.ships[id].Alive
}

// Health returns a ship's hull points, zero for unknown ships.
func (e Env) Health(id string) int {
	return e.ships[id].Health
}

// At returns a ship's coordinate label, "" for unknown ships.
func (e Env) At(id string) string {
	s, ok := e.ships[id]
	if !ok {
		return ""
	}
	return s.At.String()
}

// Near reports whether an afloat ship is within radius of the labelled cell.
func (e Env) Near(id, label string, radius int) bool {
	s, ok := e.ships[id]
	if !ok || !s.Alive {
		return false
	}
	c, err := coord.Parse(label)
	if err != nil {
		return false
	}
	return coord.Within(s.At, c, float64(radius))
}

// Count returns a mission counter, zero when the mission has none by that name.
func (e Env) Count(name string) int {
	return e.Counters[name]
}
