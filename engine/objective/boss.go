package objective

import (
	"fmt"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// BossReportInterval is how often, in turns, the boss's hull is reported.
const BossReportInterval = 5

// BossArchetype is one kind of boss a defeat_boss mission can field.
type BossArchetype struct {
	Name   string `json:"name"`
	Class  string `json:"class"`
	Health int    `json:"health"`
	Weight int    `json:"weight"`
	// RequiresIsland bosses are placed on an island and cannot move.
	RequiresIsland bool `json:"requires_island,omitempty"`
}

// BossArchetypes returns the archetypes in selection order.
func BossArchetypes() []BossArchetype {
	return []BossArchetype{
		{Name: "Abyssal Dreadnought", Class: "Battleship", Health: 6000, Weight: 40},
		{Name: "Storm Carrier", Class: "Carrier", Health: 4500, Weight: 35},
		{Name: "Harbor Princess", Class: "Installation", Health: 5000, Weight: 25, RequiresIsland: true},
	}
}

// bossClassPriority orders the class substrings preferred when promoting an
// existing enemy to boss.
var bossClassPriority = []string{"battleship", "carrier", "cruiser", "destroyer", "submarine"}

// DefeatBossState tracks a defeat_boss mission.
type DefeatBossState struct {
	BossID    string `json:"boss_id"`
	Archetype string `json:"archetype"`
	Promoted  bool   `json:"promoted"`
	MaxHealth int    `json:"max_health"`
	Sunk      bool   `json:"sunk"`
}

func (*DefeatBossState) Type() MissionType { return DefeatBoss }
func (*DefeatBossState) isInstance()       {}

func (s *DefeatBossState) Progress() (int, int) {
	if s.Sunk {
		return 1, 1
	}
	return 0, 1
}

func defeatBossDefinition() Definition {
	return Definition{
		Type:        DefeatBoss,
		Name:        "Defeat the Flagship",
		Description: "A legendary enemy commands these waters. Sink it.",
		Reward:      Reward{XP: 1000, Currency: 3000},
		Setup:       setupBoss,
		Check: func(w *types.World, inst Instance) bool {
			Refresh(w, inst)
			return inst.(*DefeatBossState).Sunk
		},
		Process: processBoss,
	}
}

// findBoss returns the first afloat boss among the enemies.
func findBoss(w *types.World) *types.Ship {
	for _, e := range state.AliveEnemies(w) {
		if e.Boss {
			return e
		}
	}
	return nil
}

// pickBossCandidate chooses the enemy to promote: the first ship whose class
// matches the highest-priority substring, else the first candidate.
func pickBossCandidate(candidates []*types.Ship) *types.Ship {
	if len(candidates) == 0 {
		return nil
	}
	for _, want := range bossClassPriority {
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Class), want) {
				return c
			}
		}
	}
	return candidates[0]
}

func setupBoss(w *types.World, env *Env) (SetupResult, error) {
	archetypes := BossArchetypes()

	if boss := findBoss(w); boss != nil {
		inst := &DefeatBossState{BossID: boss.ID, Archetype: boss.Name, MaxHealth: boss.MaxHealth}
		return SetupResult{
			Instance:     inst,
			Announcement: fmt.Sprintf("Objective: sink the %s.", boss.Name),
			Archetypes:   archetypes,
		}, nil
	}

	weights := make([]int, len(archetypes))
	for i, a := range archetypes {
		weights[i] = a.Weight
	}
	arch := archetypes[env.Rand.WeightedSelect(weights)]

	var candidates []*types.Ship
	for _, e := range state.AliveEnemies(w) {
		if !e.OPFOR {
			candidates = append(candidates, e)
		}
	}
	boss := pickBossCandidate(candidates)
	promoted := boss != nil
	if !promoted {
		boss = &types.Ship{
			ID:       freeEnemyID(w, "boss"),
			Faction:  types.FactionEnemy,
			Position: edgeLane(w.Grid, ZoneNorth, 0, 1),
			Alive:    true,
		}
		w.Enemies[boss.ID] = boss
	}

	if arch.RequiresIsland {
		boss.Position = locateOrCarveCross(w, env)
	} else {
		boss.Position = spawnOr(w, env, ZoneEnemySide, nil, boss.Position)
	}
	boss.Name = arch.Name
	boss.Class = arch.Class
	boss.Health = arch.Health
	boss.MaxHealth = arch.Health
	boss.Boss = true
	boss.Immobile = arch.RequiresIsland

	env.logger().Debug("boss fielded", "id", boss.ID, "archetype", arch.Name, "promoted", promoted)

	inst := &DefeatBossState{
		BossID:    boss.ID,
		Archetype: arch.Name,
		Promoted:  promoted,
		MaxHealth: arch.Health,
	}
	return SetupResult{
		Instance: inst,
		Announcement: fmt.Sprintf("Objective: the %s (%d HP) has appeared at %s. Sink it.",
			arch.Name, arch.Health, boss.Position),
		Archetypes: archetypes,
	}, nil
}

func freeEnemyID(w *types.World, base string) string {
	id := base
	for i := 2; ; i++ {
		if _, taken := w.Enemies[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

func processBoss(w *types.World, inst Instance) []string {
	s := inst.(*DefeatBossState)
	if w.Turn <= 0 || w.Turn%BossReportInterval != 0 {
		return nil
	}
	boss, ok := w.Enemies[s.BossID]
	if !ok || !state.IsAlive(boss) || boss.MaxHealth <= 0 {
		return nil
	}
	pct := boss.Health * 100 / boss.MaxHealth
	return []string{fmt.Sprintf("%s hull at %d%% (%d/%d).", boss.Name, pct, boss.Health, boss.MaxHealth)}
}
