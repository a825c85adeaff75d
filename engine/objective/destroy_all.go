package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// DestroyAllState tracks a destroy_all mission. OPFOR ships count.
type DestroyAllState struct {
	InitialEnemies int `json:"initial_enemies"`
	Remaining      int `json:"remaining"`
}

func (*DestroyAllState) Type() MissionType { return DestroyAll }
func (*DestroyAllState) isInstance()       {}

// Progress reports enemies sunk out of those afloat at setup. Reinforcements
// spawned later can push Remaining past the initial count; progress then
// reads zero.
func (s *DestroyAllState) Progress() (int, int) {
	return max(s.InitialEnemies-s.Remaining, 0), s.InitialEnemies
}

func destroyAllDefinition() Definition {
	return Definition{
		Type:        DestroyAll,
		Name:        "Search and Destroy",
		Description: "Sink every enemy vessel in the area.",
		Reward:      Reward{XP: 500, Currency: 1000},
		Setup: func(w *types.World, _ *Env) (SetupResult, error) {
			n := len(state.AliveEnemies(w))
			inst := &DestroyAllState{InitialEnemies: n, Remaining: n}
			return SetupResult{
				Instance:     inst,
				Announcement: fmt.Sprintf("Objective: sink all %d enemy ships.", n),
			}, nil
		},
		Check: func(w *types.World, inst Instance) bool {
			Refresh(w, inst)
			return inst.(*DestroyAllState).Remaining == 0
		},
	}
}
