package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/effects"
	"github.com/meekantifun/naval-command-sub002/engine/events"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/parser"
	"github.com/meekantifun/naval-command-sub002/engine/report"
	"github.com/meekantifun/naval-command-sub002/engine/resolve"
	"github.com/meekantifun/naval-command-sub002/engine/rules"
	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// EscortSpeed is how many cells an escorted transport steams per turn.
const EscortSpeed = 2

// Battle is one game session: the world, its objective instance and the
// command log that reproduces it.
type Battle struct {
	Defs       *state.Defs
	World      *types.World
	Engine     *Engine
	RNG        *RNG
	Definition objective.Definition
	Instance   objective.Instance
	Resolution types.Resolution
	// Briefing holds the mission announcement produced at setup.
	Briefing   []string
	Archetypes []objective.BossArchetype
	CommandLog []string

	triggers []*rules.Trigger
	log      *slog.Logger
}

// NewBattle builds the world from defs and starts its mission. A non-empty
// mission overrides the scenario's; an empty one in both falls back to
// destroy_all. seed seeds every random draw in the battle.
func NewBattle(defs *state.Defs, mission string, seed int64, log *slog.Logger) (*Battle, error) {
	if log == nil {
		log = slog.Default()
	}
	if mission == "" {
		mission = defs.Battle.Mission
	}
	if mission == "" {
		mission = string(objective.DestroyAll)
	}
	mt, err := objective.ParseMissionType(mission)
	if err != nil {
		return nil, err
	}

	w, err := state.NewWorld(defs)
	if err != nil {
		return nil, err
	}
	triggers, err := rules.CompileTriggers(defs.Triggers)
	if err != nil {
		return nil, err
	}

	rng := NewRNG(seed)
	eng := New(rng, log)
	res, err := eng.Start(mt, w)
	if err != nil {
		return nil, err
	}
	def, _ := eng.Catalog.Lookup(mt)

	b := &Battle{
		Defs:       defs,
		World:      w,
		Engine:     eng,
		RNG:        rng,
		Definition: def,
		Instance:   res.Instance,
		Resolution: types.InProgress,
		Archetypes: res.Archetypes,
		triggers:   triggers,
		log:        log,
	}
	b.Briefing = append(b.Briefing, fmt.Sprintf("Mission: %s. %s", def.Name, def.Description))
	if res.Announcement != "" {
		b.Briefing = append(b.Briefing, res.Announcement)
	}
	log.Info("battle started", "title", defs.Battle.Title, "mission", mt, "seed", seed,
		"players", len(w.Players), "enemies", len(w.Enemies))
	return b, nil
}

// Mission returns the battle's mission type.
func (b *Battle) Mission() objective.MissionType {
	return b.Definition.Type
}

// Report snapshots the objective status.
func (b *Battle) Report() report.Report {
	return report.Build(b.World, b.Definition, b.Instance, b.Resolution)
}

// Over reports whether the objective has been resolved.
func (b *Battle) Over() bool {
	return b.Resolution != types.InProgress
}

// Step processes one order and returns the result.
func (b *Battle) Step(input string) types.Result {
	var result types.Result

	// 0. Battle over: block all orders.
	if b.Over() {
		result.Output = append(result.Output, "The battle is over. Use /load to restore a save or /quit to exit.")
		result.Resolution = b.Resolution
		return result
	}

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Log the order.
	b.CommandLog = append(b.CommandLog, input)

	// 3. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "Orders, captain?")
		result.Resolution = b.Resolution
		return result
	}

	switch intent.Verb {
	case "next":
		b.endTurn(&result)
	case "look":
		result.Output = append(result.Output, b.describe()...)
	case "ships":
		result.Output = append(result.Output, b.roster()...)
	case "help":
		result.Output = append(result.Output, "Orders: next, move <ship> to <coord>, hit <ship> for <amount>, sink <ship>, bombard [amount], look, ships.")
	case "move", "hit", "sink":
		b.shipOrder(intent, &result)
	case "bombard":
		b.bombard(intent, &result)
	default:
		result.Output = append(result.Output, fmt.Sprintf("Unknown order %q. Type help for a list.", intent.Verb))
	}

	result.Resolution = b.Resolution
	return result
}

// shipOrder handles orders addressed to one ship.
func (b *Battle) shipOrder(intent types.Intent, result *types.Result) {
	if intent.Object == "" {
		result.Output = append(result.Output, fmt.Sprintf("%s which ship?", capitalize(intent.Verb)))
		return
	}
	ship, err := resolve.Ship(b.World, objective.OwnedShips(b.Instance), intent.Object)
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return
	}

	var eff types.Effect
	switch intent.Verb {
	case "move":
		if intent.Target == "" {
			result.Output = append(result.Output, fmt.Sprintf("Move %s to where?", ship.Name))
			return
		}
		eff = types.Effect{Type: "move_ship", Params: map[string]any{"ship": ship.ID, "to": strings.ToUpper(intent.Target)}}
	case "hit":
		amount, err := strconv.Atoi(intent.Target)
		if err != nil || amount <= 0 {
			result.Output = append(result.Output, fmt.Sprintf("Hit %s for how much?", ship.Name))
			return
		}
		eff = types.Effect{Type: "damage_ship", Params: map[string]any{"ship": ship.ID, "amount": amount}}
	case "sink":
		eff = types.Effect{Type: "sink_ship", Params: map[string]any{"ship": ship.ID}}
	}
	b.apply([]types.Effect{eff}, effects.Context{Instance: b.Instance, Ship: ship.ID}, result)
}

// bombard shells the outpost. Without an amount, the damage is rolled.
func (b *Battle) bombard(intent types.Intent, result *types.Result) {
	raw := intent.Target
	if raw == "" {
		raw = intent.Object
	}
	amount, err := strconv.Atoi(raw)
	if err != nil || amount <= 0 {
		amount = b.RNG.Roll(6) * 100
	}
	b.apply([]types.Effect{{Type: "damage_outpost", Params: map[string]any{"amount": amount}}},
		effects.Context{Instance: b.Instance}, result)
}

// endTurn advances the turn counter, steams escorted transports, advances
// the objective and fires scenario triggers.
func (b *Battle) endTurn(result *types.Result) {
	b.World.Turn++
	result.Output = append(result.Output, fmt.Sprintf("-- Turn %d --", b.World.Turn))

	if escort, ok := b.Instance.(*objective.ConvoyEscortState); ok {
		b.steamConvoy(escort)
		result.Output = append(result.Output, objective.RecordDeliveries(b.World, escort)...)
	}

	out, err := b.Engine.Advance(b.World, b.Instance)
	if err != nil {
		b.log.Error("advance failed", "turn", b.World.Turn, "error", err)
		result.Output = append(result.Output, fmt.Sprintf("[objective error: %v]", err))
		return
	}
	result.Output = append(result.Output, out.Messages...)

	fired := rules.Fire(b.triggers, rules.NewEnv(b.Report()), b.log)
	for _, t := range fired {
		b.apply(t.Effects, effects.Context{Instance: b.Instance}, result)
	}

	b.Resolution = out.Resolution
	switch b.Resolution {
	case types.Victory:
		r := b.Definition.Reward
		result.Output = append(result.Output, fmt.Sprintf("Mission accomplished: %s. Reward: %d XP, %d credits.",
			b.Definition.Name, r.XP, r.Currency))
	case types.Defeat:
		result.Output = append(result.Output, fmt.Sprintf("Mission failed: %s.", b.Definition.Name))
	}
	if b.Over() {
		b.log.Info("battle resolved", "mission", b.Mission(), "turn", b.World.Turn, "resolution", b.Resolution)
	}
}

// steamConvoy moves every afloat, undelivered transport toward the
// destination. A transport whose next cell is land holds position.
func (b *Battle) steamConvoy(s *objective.ConvoyEscortState) {
	for _, ship := range s.Ships {
		if ship.Delivered || !state.IsAlive(&ship.Ship) {
			continue
		}
		next := coord.StepToward(ship.Position, s.Destination, EscortSpeed)
		switch b.World.Grid.Get(next).Kind {
		case grid.Island, grid.Outpost, grid.ResourceZone:
			b.log.Debug("transport blocked", "ship", ship.ID, "at", ship.Position, "next", next)
			continue
		}
		ship.Position = next
	}
}

// apply applies effects, dispatches the events they emit to scenario
// handlers in a single pass, and applies the handlers' effects. Events from
// handler effects are not re-dispatched.
func (b *Battle) apply(effs []types.Effect, ctx effects.Context, result *types.Result) {
	evts, output := effects.Apply(b.World, effs, ctx)
	result.Effects = append(result.Effects, effs...)
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, output...)

	for _, r := range events.Dispatch(evts, b.Defs.Handlers) {
		rctx := effects.Context{Instance: b.Instance, Ship: r.Ship}
		evts2, output2 := effects.Apply(b.World, r.Effects, rctx)
		result.Effects = append(result.Effects, r.Effects...)
		result.Events = append(result.Events, evts2...)
		result.Output = append(result.Output, output2...)
	}
	objective.Refresh(b.World, b.Instance)
}

// describe summarizes the objective for the look order.
func (b *Battle) describe() []string {
	r := b.Report()
	lines := []string{
		fmt.Sprintf("%s (turn %d): %s", r.Name, r.Turn, r.Description),
		fmt.Sprintf("Progress: %d/%d.", r.Progress, r.Required),
	}
	for _, p := range r.Points {
		status := ""
		if p.Done {
			status = " (done)"
		}
		lines = append(lines, fmt.Sprintf("  %s at %s, radius %g%s", p.Label, p.At, p.Radius, status))
	}
	if len(r.Counters) > 0 {
		keys := make([]string, 0, len(r.Counters))
		for k := range r.Counters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, r.Counters[k]))
		}
		lines = append(lines, "  "+strings.Join(parts, ", "))
	}
	return lines
}

// roster lists every ship on the board.
func (b *Battle) roster() []string {
	var lines []string
	for _, s := range b.Report().Ships {
		status := s.Status
		if status == "" {
			status = "afloat"
			if !s.Alive {
				status = "sunk"
			}
		}
		boss := ""
		if s.Boss {
			boss = " [boss]"
		}
		lines = append(lines, fmt.Sprintf("  %-10s %-22s %-8s %-5s %5d/%-5d %s%s",
			s.ID, s.Name, s.Faction, s.At, s.Health, s.MaxHealth, status, boss))
	}
	if len(lines) == 0 {
		return []string{"No ships on the board."}
	}
	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
