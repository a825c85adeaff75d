// Package effects implements centralized battle mutation via the Apply
// function. Every effect type is one atomic operation. Effects are the
// external combat results the objective engine only reads.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// Context carries what template interpolation and ship lookup need.
type Context struct {
	Instance objective.Instance
	Ship     string // ID of the ship the order or event is about
}

// Apply applies a list of effects to the world, mutating it.
// Returns events emitted and output text collected.
func Apply(w *types.World, effs []types.Effect, ctx Context) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effs {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, interpolate(text, w, ctx))

		case "move_ship":
			ship, ok := lookup(w, ctx, eff)
			if !ok {
				output = append(output, fmt.Sprintf("[no ship %q]", param(eff, "ship")))
				continue
			}
			to, err := coord.Parse(strings.ToUpper(param(eff, "to")))
			if err != nil {
				output = append(output, fmt.Sprintf("[%v]", err))
				continue
			}
			if reason := blocked(w, ship, to); reason != "" {
				output = append(output, fmt.Sprintf("%s cannot sail to %s: %s.", ship.Name, to, reason))
				continue
			}
			from := ship.Position
			ship.Position = to
			output = append(output, fmt.Sprintf("%s sails from %s to %s.", ship.Name, from, to))
			events = append(events, types.Event{
				Type: "ship_moved",
				Data: map[string]any{"ship": ship.ID, "from": from.String(), "to": to.String()},
			})

		case "damage_ship":
			ship, ok := lookup(w, ctx, eff)
			if !ok {
				output = append(output, fmt.Sprintf("[no ship %q]", param(eff, "ship")))
				continue
			}
			if !state.IsAlive(ship) {
				output = append(output, fmt.Sprintf("%s is already on the bottom.", ship.Name))
				continue
			}
			amount := toInt(eff.Params["amount"])
			if amount <= 0 {
				continue
			}
			ship.Health = max(ship.Health-amount, 0)
			output = append(output, fmt.Sprintf("%s takes %d damage (%d/%d).", ship.Name, amount, ship.Health, ship.MaxHealth))
			events = append(events, types.Event{
				Type: "ship_damaged",
				Data: map[string]any{"ship": ship.ID, "amount": amount, "remaining": ship.Health},
			})
			if ship.Health == 0 {
				events = append(events, sink(ship, &output))
			}

		case "repair_ship":
			ship, ok := lookup(w, ctx, eff)
			if !ok || !state.IsAlive(ship) {
				continue
			}
			amount := toInt(eff.Params["amount"])
			if amount <= 0 {
				continue
			}
			ship.Health = min(ship.Health+amount, ship.MaxHealth)
			output = append(output, fmt.Sprintf("%s repairs to %d/%d.", ship.Name, ship.Health, ship.MaxHealth))
			events = append(events, types.Event{
				Type: "ship_repaired",
				Data: map[string]any{"ship": ship.ID, "amount": amount, "current": ship.Health},
			})

		case "sink_ship":
			ship, ok := lookup(w, ctx, eff)
			if !ok {
				output = append(output, fmt.Sprintf("[no ship %q]", param(eff, "ship")))
				continue
			}
			if !state.IsAlive(ship) {
				output = append(output, fmt.Sprintf("%s is already on the bottom.", ship.Name))
				continue
			}
			ship.Health = 0
			events = append(events, sink(ship, &output))

		case "damage_outpost":
			outpost, ok := ctx.Instance.(*objective.CaptureOutpostState)
			if !ok {
				output = append(output, "There is no outpost to bombard.")
				continue
			}
			if outpost.Destroyed || outpost.Health == 0 {
				output = append(output, "The outpost's defences are already silenced.")
				continue
			}
			amount := toInt(eff.Params["amount"])
			remaining := outpost.DamageOutpost(amount)
			output = append(output, fmt.Sprintf("Shells strike the outpost at %s (%d/%d).", outpost.Outpost, remaining, outpost.MaxHealth))
			events = append(events, types.Event{
				Type: "outpost_damaged",
				Data: map[string]any{"amount": amount, "remaining": remaining},
			})

		case "spawn_enemy":
			id := param(eff, "id")
			if id == "" {
				continue
			}
			if _, exists := state.FindShip(w, id); exists {
				output = append(output, fmt.Sprintf("[ship %q already exists]", id))
				continue
			}
			at, err := coord.Parse(strings.ToUpper(param(eff, "at")))
			if err != nil || !w.Grid.InBounds(at) {
				output = append(output, fmt.Sprintf("[cannot spawn %s at %q]", id, param(eff, "at")))
				continue
			}
			health := toInt(eff.Params["health"])
			if health <= 0 {
				health = state.DefaultShipHealth
			}
			ship := &types.Ship{
				ID:        id,
				Name:      param(eff, "name"),
				Class:     param(eff, "class"),
				Faction:   types.FactionEnemy,
				Position:  at,
				Health:    health,
				MaxHealth: health,
				Alive:     true,
			}
			if ship.Name == "" {
				ship.Name = id
			}
			w.Enemies[id] = ship
			output = append(output, fmt.Sprintf("%s appears at %s.", ship.Name, at))
			events = append(events, types.Event{
				Type: "ship_spawned",
				Data: map[string]any{"ship": id, "at": at.String()},
			})

		case "emit_event":
			event, _ := eff.Params["event"].(string)
			events = append(events, types.Event{
				Type: event,
				Data: map[string]any{},
			})

		case "stop":
			return events, output

		default:
			// Unknown effect type: ignore silently.
		}
	}

	return events, output
}

// sink marks a ship as sunk and returns the ship_sunk event.
func sink(ship *types.Ship, output *[]string) types.Event {
	ship.Alive = false
	*output = append(*output, fmt.Sprintf("%s is sunk!", ship.Name))
	return types.Event{
		Type: "ship_sunk",
		Data: map[string]any{"ship": ship.ID, "faction": string(ship.Faction)},
	}
}

// blocked returns why ship cannot move to c, or "" when it can.
func blocked(w *types.World, ship *types.Ship, c coord.Coord) string {
	switch {
	case !state.IsAlive(ship):
		return "it has been sunk"
	case ship.Immobile:
		return "it cannot move"
	case !w.Grid.InBounds(c):
		return "that is off the map"
	}
	switch w.Grid.Get(c).Kind {
	case grid.Island, grid.Outpost, grid.ResourceZone:
		return "that is land"
	}
	return ""
}

// lookup finds the ship an effect names, defaulting to the context ship.
func lookup(w *types.World, ctx Context, eff types.Effect) (*types.Ship, bool) {
	id := param(eff, "ship")
	if id == "" {
		id = ctx.Ship
	}
	if s, ok := state.FindShip(w, id); ok {
		return s, true
	}
	for _, s := range objective.OwnedShips(ctx.Instance) {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// interpolate replaces template variables in text.
func interpolate(text string, w *types.World, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	r := strings.NewReplacer(
		"{turn}", strconv.Itoa(w.Turn),
		"{ship}", ctx.Ship,
	)
	text = r.Replace(text)

	if strings.Contains(text, "{ship.name}") {
		name := ctx.Ship
		if s, ok := lookup(w, ctx, types.Effect{}); ok {
			name = s.Name
		}
		text = strings.ReplaceAll(text, "{ship.name}", name)
	}

	if strings.Contains(text, "{mission}") {
		mission := ""
		if ctx.Instance != nil {
			mission = string(ctx.Instance.Type())
		}
		text = strings.ReplaceAll(text, "{mission}", mission)
	}
	return text
}

func param(eff types.Effect, key string) string {
	v, _ := eff.Params[key].(string)
	return v
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}
