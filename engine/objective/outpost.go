package objective

import (
	"fmt"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

const (
	OutpostHealth          = 1500
	OutpostCaptureRadius   = 3
	OutpostCaptureRequired = 5
)

// CaptureOutpostState tracks a capture_outpost mission: destroy the
// outpost's defences, then hold its waters.
type CaptureOutpostState struct {
	Outpost         coord.Coord `json:"outpost"`
	Health          int         `json:"health"`
	MaxHealth       int         `json:"max_health"`
	Destroyed       bool        `json:"destroyed"`
	CaptureRadius   float64     `json:"capture_radius"`
	CaptureProgress int         `json:"capture_progress"`
	CaptureRequired int         `json:"capture_required"`
}

func (*CaptureOutpostState) Type() MissionType { return CaptureOutpost }
func (*CaptureOutpostState) isInstance()       {}

func (s *CaptureOutpostState) Progress() (int, int) {
	return s.CaptureProgress, s.CaptureRequired
}

// DamageOutpost lowers the outpost's health, never below zero, and returns
// the remaining health.
func (s *CaptureOutpostState) DamageOutpost(amount int) int {
	if amount > 0 {
		s.Health = max(s.Health-amount, 0)
	}
	return s.Health
}

func captureOutpostDefinition() Definition {
	return Definition{
		Type:        CaptureOutpost,
		Name:        "Capture Outpost",
		Description: "Knock out the island outpost, then hold its waters.",
		Reward:      Reward{XP: 700, Currency: 2000},
		Setup: func(w *types.World, env *Env) (SetupResult, error) {
			at := locateOrCarveCross(w, env)
			w.Grid.Overlay(at, grid.Outpost)
			inst := &CaptureOutpostState{
				Outpost:         at,
				Health:          OutpostHealth,
				MaxHealth:       OutpostHealth,
				CaptureRadius:   OutpostCaptureRadius,
				CaptureRequired: OutpostCaptureRequired,
			}
			return SetupResult{
				Instance:     inst,
				Announcement: fmt.Sprintf("Objective: destroy the outpost at %s (%d HP), then capture it.", at, inst.Health),
			}, nil
		},
		Check: func(_ *types.World, inst Instance) bool {
			s := inst.(*CaptureOutpostState)
			return s.Destroyed && s.CaptureProgress >= s.CaptureRequired
		},
		Process: processOutpost,
	}
}

func processOutpost(w *types.World, inst Instance) []string {
	s := inst.(*CaptureOutpostState)
	if !s.Destroyed {
		if s.Health > 0 {
			return nil
		}
		s.Destroyed = true
		return []string{fmt.Sprintf("The outpost at %s has been destroyed. Move in to capture it.", s.Outpost)}
	}
	if s.CaptureProgress >= s.CaptureRequired {
		return nil
	}
	if len(state.PlayersWithin(w, s.Outpost, s.CaptureRadius)) == 0 {
		return nil
	}
	s.CaptureProgress++
	return []string{fmt.Sprintf("Capturing outpost: %d/%d", s.CaptureProgress, s.CaptureRequired)}
}
