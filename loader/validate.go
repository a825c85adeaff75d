package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/rules"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":            true,
	"move_ship":      true,
	"damage_ship":    true,
	"repair_ship":    true,
	"sink_ship":      true,
	"damage_outpost": true,
	"spawn_enemy":    true,
	"emit_event":     true,
	"stop":           true,
}

// Events the engine emits. Handlers for anything else only fire on
// EmitEvent, so they are warned about rather than rejected.
var knownEvents = map[string]bool{
	"ship_moved":      true,
	"ship_damaged":    true,
	"ship_repaired":   true,
	"ship_sunk":       true,
	"ship_spawned":    true,
	"outpost_damaged": true,
}

// Largest battlefield a scenario may declare.
const maxDimension = 200

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Battle.Title == "" {
		ve.Errors = append(ve.Errors, "Battle.title is required")
	}
	if m := defs.Battle.Mission; m != "" {
		if _, err := objective.ParseMissionType(m); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Battle.mission: %v", err))
		}
	}

	width, height := defs.Battle.Width, defs.Battle.Height
	if width == 0 {
		width = grid.DefaultWidth
	}
	if height == 0 {
		height = grid.DefaultHeight
	}
	if width < 10 || width > maxDimension || height < 10 || height > maxDimension {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"battlefield %dx%d out of range (10 to %d per side)", width, height, maxDimension))
	}
	bounds := grid.New(width, height)

	// Ship IDs unique across both sides; every ship placed on the map.
	ids := map[string]bool{}
	occupied := map[coord.Coord]string{}
	players := 0
	for _, sd := range defs.Ships {
		if ids[sd.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate ship ID %q", sd.ID))
		}
		ids[sd.ID] = true
		if sd.Side == types.FactionPlayer {
			players++
		}

		at, err := coord.Parse(sd.At)
		if err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("ship %q: %v", sd.ID, err))
			continue
		}
		if !bounds.InBounds(at) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("ship %q at %s is off the map", sd.ID, at))
			continue
		}
		if other, ok := occupied[at]; ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("ships %q and %q both start at %s", other, sd.ID, at))
		}
		occupied[at] = sd.ID
		if sd.Health < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("ship %q has negative health", sd.ID))
		}
	}
	if players == 0 {
		ve.Warnings = append(ve.Warnings, "no Player ships defined")
	}

	for _, td := range defs.Terrain {
		at, err := coord.Parse(td.At)
		if err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: %v", td.Kind, err))
			continue
		}
		if !bounds.InBounds(at) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at %s is off the map", td.Kind, at))
		}
		if id, ok := occupied[at]; ok && td.Kind == grid.Island {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("ship %q starts on an island at %s", id, at))
		}
	}

	// Trigger IDs unique; conditions compile.
	triggerIDs := map[string]bool{}
	for _, td := range defs.Triggers {
		if triggerIDs[td.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate trigger ID %q", td.ID))
		}
		triggerIDs[td.ID] = true
		if strings.TrimSpace(td.When) == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("trigger %q has no when expression", td.ID))
		} else if _, err := rules.Compile(td.ID, td.When); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("trigger %q: %v", td.ID, err))
		}
		validateEffects(td.Effects, ids, ve)
	}

	for _, h := range defs.Handlers {
		if !knownEvents[h.EventType] && !emitted(defs, h.EventType) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"handler for %q never fires: no effect emits it", h.EventType))
		}
		if h.Ship != "" && !ids[h.Ship] && !isTemplate(h.Ship) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"handler for %q watches ship %q, which is not defined", h.EventType, h.Ship))
		}
		validateEffects(h.Effects, ids, ve)
	}

	expectNames := map[string]bool{}
	for _, ed := range defs.Expect {
		if expectNames[ed.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate expectation %q", ed.Name))
		}
		expectNames[ed.Name] = true
		if _, err := rules.Compile(ed.Name, ed.Expr); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("expectation %q: %v", ed.Name, err))
		}
	}

	for _, w := range ve.Warnings {
		slog.Warn("scenario", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateEffects checks effect types and their ship references. Ships
// spawned by spawn_enemy become valid references for later effects.
func validateEffects(effects []types.Effect, ids map[string]bool, ve *ValidationError) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown effect type %q", eff.Type))
			continue
		}

		switch eff.Type {
		case "move_ship", "damage_ship", "repair_ship", "sink_ship":
			ship, _ := eff.Params["ship"].(string)
			if ship != "" && !ids[ship] && !isTemplate(ship) {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"effect %s references ship %q, which is not defined", eff.Type, ship))
			}
		case "spawn_enemy":
			id, _ := eff.Params["id"].(string)
			if id == "" {
				ve.Errors = append(ve.Errors, "effect spawn_enemy needs an id")
			} else {
				ids[id] = true
			}
			if at, _ := eff.Params["at"].(string); at != "" {
				if _, err := coord.Parse(strings.ToUpper(at)); err != nil {
					ve.Errors = append(ve.Errors, fmt.Sprintf("effect spawn_enemy %q: %v", id, err))
				}
			} else {
				ve.Errors = append(ve.Errors, fmt.Sprintf("effect spawn_enemy %q needs a position", id))
			}
		case "emit_event":
			if ev, _ := eff.Params["event"].(string); ev == "" {
				ve.Errors = append(ve.Errors, "effect emit_event needs an event type")
			}
		}

		if eff.Type == "move_ship" {
			if to, _ := eff.Params["to"].(string); !isTemplate(to) {
				if _, err := coord.Parse(strings.ToUpper(to)); err != nil {
					ve.Errors = append(ve.Errors, fmt.Sprintf("effect move_ship: %v", err))
				}
			}
		}
	}
}

// emitted reports whether any effect in the scenario emits eventType.
func emitted(defs *state.Defs, eventType string) bool {
	check := func(effs []types.Effect) bool {
		for _, eff := range effs {
			if eff.Type == "emit_event" && eff.Params["event"] == eventType {
				return true
			}
		}
		return false
	}
	for _, td := range defs.Triggers {
		if check(td.Effects) {
			return true
		}
	}
	for _, h := range defs.Handlers {
		if check(h.Effects) {
			return true
		}
	}
	return false
}

// isTemplate returns true if the string contains a template variable.
func isTemplate(s string) bool {
	return strings.Contains(s, "{") && strings.Contains(s, "}")
}
