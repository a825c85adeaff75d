// Package objective defines the mission objectives a battle can be fought
// for. Each mission type is a Definition: static metadata plus three
// functions (Setup, Check, Process) that take the world explicitly and
// operate on the Instance that Setup produced.
//
// Instances form a closed set of variants, one per mission type. Code that
// needs variant fields narrows with a type switch first.
package objective

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// ErrUnknownMissionType is returned when a mission type has no catalog entry.
var ErrUnknownMissionType = errors.New("unknown mission type")

// ErrSpawnPositionUnavailable is returned by a SpawnProvider whose bounded
// search found no valid cell. Mission setups never propagate it; they apply
// their documented fallback coordinate instead.
var ErrSpawnPositionUnavailable = errors.New("spawn position unavailable")

// MissionType names a mission.
type MissionType string

const (
	DestroyAll          MissionType = "destroy_all"
	ResourceAcquisition MissionType = "resource_acquisition"
	ConvoyEscort        MissionType = "convoy_escort"
	CaptureOutpost      MissionType = "capture_outpost"
	DefeatBoss          MissionType = "defeat_boss"
	SalvageSupplies     MissionType = "salvage_supplies"
	ConvoyInterception  MissionType = "convoy_interception"
)

// Reward is granted to the fleet when a mission succeeds.
type Reward struct {
	XP       int `json:"xp"`
	Currency int `json:"currency"`
}

// Instance is the live, per-battle state of one mission. The concrete type
// is always the variant produced by the matching Definition's Setup.
type Instance interface {
	Type() MissionType
	// Progress reports a headline counter and its target for display.
	Progress() (current, required int)
	isInstance()
}

// Failer is implemented by variants that can end a battle in defeat. Fail
// detection happens in Process, which latches the flag and announces it.
type Failer interface {
	Failed() bool
}

// SpawnZone hints where a SpawnProvider should look for a cell.
type SpawnZone string

const (
	ZoneEnemySide  SpawnZone = "enemy_side"
	ZonePlayerSide SpawnZone = "player_side"
	ZoneCenter     SpawnZone = "center"
	ZoneNorth      SpawnZone = "north"
	ZoneSouth      SpawnZone = "south"
	ZoneWest       SpawnZone = "west"
	ZoneEast       SpawnZone = "east"
)

// SpawnProvider produces valid, unoccupied spawn cells. Cells in taken must
// not be returned. It returns ErrSpawnPositionUnavailable when its search is
// exhausted.
type SpawnProvider interface {
	SpawnPosition(w *types.World, zone SpawnZone, taken []coord.Coord) (coord.Coord, error)
}

// Rand is the randomness mission setups draw on.
type Rand interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
	// WeightedSelect returns an index chosen with probability proportional to weights.
	WeightedSelect(weights []int) int
}

// Env carries the collaborators a Setup needs besides the world.
type Env struct {
	Rand    Rand
	Spawner SpawnProvider
	Log     *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Log == nil {
		return slog.Default()
	}
	return e.Log
}

// SetupResult is what a Definition's Setup returns.
type SetupResult struct {
	Instance     Instance
	Announcement string
	// Archetypes lists the boss archetypes a defeat_boss mission draws from.
	Archetypes []BossArchetype
}

// Definition is the immutable description of one mission type.
type Definition struct {
	Type        MissionType
	Name        string
	Description string
	Reward      Reward
	Setup       func(w *types.World, env *Env) (SetupResult, error)
	Check       func(w *types.World, inst Instance) bool
	// Process runs once per turn before Check. Nil means the mission has
	// no per-turn progress.
	Process func(w *types.World, inst Instance) []string
}

// Catalog maps mission types to their definitions.
type Catalog map[MissionType]Definition

// DefaultCatalog returns the seven built-in missions.
func DefaultCatalog() Catalog {
	c := Catalog{}
	for _, def := range []Definition{
		destroyAllDefinition(),
		resourceAcquisitionDefinition(),
		convoyEscortDefinition(),
		captureOutpostDefinition(),
		defeatBossDefinition(),
		salvageSuppliesDefinition(),
		convoyInterceptionDefinition(),
	} {
		c[def.Type] = def
	}
	return c
}

// Lookup returns the definition for t.
func (c Catalog) Lookup(t MissionType) (Definition, error) {
	def, ok := c[t]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownMissionType, t)
	}
	return def, nil
}

// Types returns the registered mission types in sorted order.
func (c Catalog) Types() []MissionType {
	out := make([]MissionType, 0, len(c))
	for t := range c {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseMissionType validates a mission type name against the default catalog.
func ParseMissionType(name string) (MissionType, error) {
	t := MissionType(name)
	if _, ok := DefaultCatalog()[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMissionType, name)
	}
	return t, nil
}

// Refresh recomputes the tallies Progress reads from the world for missions
// that derive them from fleet state. Check calls it; the battle loop also
// calls it after every order so reports between turns stay current.
func Refresh(w *types.World, inst Instance) {
	switch s := inst.(type) {
	case *DestroyAllState:
		s.Remaining = len(state.AliveEnemies(w))
	case *DefeatBossState:
		boss, ok := w.Enemies[s.BossID]
		s.Sunk = !ok || !state.IsAlive(boss)
	}
}
