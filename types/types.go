// Package types defines the shared data structures for the naval battle
// simulator. This package contains only type definitions, no logic.
package types

import (
	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
)

// Intent is the parsed representation of a battle command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Effect is a single input applied to the battle (a move, a hit, a sinking).
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is something that happened as a result of an effect.
type Event struct {
	Type string
	Data map[string]any
}

// Resolution is the state of a battle with respect to its objective.
type Resolution string

const (
	InProgress Resolution = "in_progress"
	Victory    Resolution = "victory"
	Defeat     Resolution = "defeat"
)

// Result is the output of a single battle step.
type Result struct {
	Effects    []Effect
	Events     []Event
	Output     []string
	Resolution Resolution
}

// Faction identifies which side a ship fights for.
type Faction string

const (
	FactionPlayer Faction = "player"
	FactionEnemy  Faction = "enemy"
	FactionConvoy Faction = "convoy"
)

// Ship is any vessel on the battlefield: player ships, AI and OPFOR
// enemies, bosses, and objective-owned convoy ships.
type Ship struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Class     string      `json:"class"`
	Faction   Faction     `json:"faction"`
	Position  coord.Coord `json:"position"`
	Health    int         `json:"health"`
	MaxHealth int         `json:"max_health"`
	Alive     bool        `json:"alive"`
	OPFOR     bool        `json:"opfor,omitempty"`    // enemy controlled by a human opponent
	Boss      bool        `json:"boss,omitempty"`     // promoted or spawned mission boss
	Immobile  bool        `json:"immobile,omitempty"` // cannot be moved by battle input
}

// World is the shared battle state objectives read and mutate.
type World struct {
	Grid    *grid.Grid
	Players map[string]*Ship
	Enemies map[string]*Ship
	Turn    int
}

// BattleDef holds scenario metadata from Lua.
type BattleDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Mission string
	Width   int
	Height  int
	Seed    int64
}

// ShipDef is the scenario definition of a starting ship.
type ShipDef struct {
	ID     string
	Side   Faction // FactionPlayer or FactionEnemy
	Name   string
	Class  string
	At     string // coordinate label
	Health int
	OPFOR  bool
}

// TerrainDef paints base terrain before the mission is set up.
type TerrainDef struct {
	Kind   grid.TerrainKind
	At     string // coordinate label
	Radius float64
}

// ExpectDef is a named boolean expression checked against the objective report.
type ExpectDef struct {
	Name string
	Expr string
}

// TriggerDef fires its effects on the first turn (or every turn, unless
// Once is set) that its When expression holds.
type TriggerDef struct {
	ID      string
	When    string
	Once    bool
	Effects []Effect
}

// EventHandler reacts to events emitted by effects. Ship, when set, limits
// the handler to events about that ship.
type EventHandler struct {
	EventType string
	Ship      string
	Effects   []Effect
}
