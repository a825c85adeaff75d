// Package engine provides the mission objective engine that starts and
// advances a battle's objective, and Battle, the turn loop that wires
// parsing, resolution, effects, events and triggers around it.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/engine/objective"
	"github.com/meekantifun/naval-command-sub002/engine/spawn"
	"github.com/meekantifun/naval-command-sub002/types"
)

// ErrNoInstance is returned by Advance when no objective has been started.
var ErrNoInstance = errors.New("no objective instance")

// Engine looks up mission definitions and runs their lifecycle. It holds
// no battle state of its own; the caller stores the Instance Start returns
// and passes it back to every Advance.
type Engine struct {
	Catalog objective.Catalog
	Env     *objective.Env
	Log     *slog.Logger
}

// New creates an engine over the default catalog, drawing randomness from r
// and spawn cells from the default zone search.
func New(r objective.Rand, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		Catalog: objective.DefaultCatalog(),
		Env:     &objective.Env{Rand: r, Spawner: spawn.New(r), Log: log},
		Log:     log,
	}
}

// Outcome is the result of advancing an objective one turn.
type Outcome struct {
	Messages   []string
	Resolution types.Resolution
}

// Start clears overlays left by any previous objective and sets up a new
// one of type mt on w.
func (e *Engine) Start(mt objective.MissionType, w *types.World) (objective.SetupResult, error) {
	def, err := e.Catalog.Lookup(mt)
	if err != nil {
		return objective.SetupResult{}, err
	}

	cleared := 0
	for _, kind := range grid.OverlayKinds {
		cleared += w.Grid.RevertOverlay(kind)
	}

	res, err := def.Setup(w, e.Env)
	if err != nil {
		return objective.SetupResult{}, fmt.Errorf("setup %s: %w", mt, err)
	}
	e.Log.Debug("objective started", "mission", mt, "turn", w.Turn, "cleared_cells", cleared)
	return res, nil
}

// Advance runs one turn of the instance's objective: Process first, then the
// win check, then the fail latch. Victory wins a tie with failure.
func (e *Engine) Advance(w *types.World, inst objective.Instance) (Outcome, error) {
	if inst == nil {
		return Outcome{}, ErrNoInstance
	}
	def, err := e.Catalog.Lookup(inst.Type())
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Resolution: types.InProgress}
	if def.Process != nil {
		out.Messages = def.Process(w, inst)
	}

	switch {
	case def.Check(w, inst):
		out.Resolution = types.Victory
	case failed(inst):
		out.Resolution = types.Defeat
	}

	cur, req := inst.Progress()
	e.Log.Debug("objective advanced",
		"mission", inst.Type(), "turn", w.Turn,
		"progress", cur, "required", req,
		"messages", len(out.Messages), "resolution", out.Resolution)
	return out, nil
}

func failed(inst objective.Instance) bool {
	f, ok := inst.(objective.Failer)
	return ok && f.Failed()
}
