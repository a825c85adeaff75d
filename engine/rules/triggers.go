package rules

import (
	"log/slog"

	"github.com/meekantifun/naval-command-sub002/types"
)

// Trigger is a scenario trigger with its condition compiled. Once triggers
// latch after their first firing.
type Trigger struct {
	ID      string
	Once    bool
	Effects []types.Effect
	cond    *Program
	fired   bool
}

// Fired reports whether the trigger has fired at least once.
func (t *Trigger) Fired() bool { return t.fired }

// CompileTriggers compiles every trigger condition. The first error aborts.
func CompileTriggers(defs []types.TriggerDef) ([]*Trigger, error) {
	out := make([]*Trigger, 0, len(defs))
	for _, d := range defs {
		p, err := Compile(d.ID, d.When)
		if err != nil {
			return nil, err
		}
		out = append(out, &Trigger{ID: d.ID, Once: d.Once, Effects: d.Effects, cond: p})
	}
	return out, nil
}

// Fire evaluates triggers in definition order and returns those whose
// condition holds. A latched Once trigger is skipped. Evaluation errors are
// logged and treated as false.
func Fire(triggers []*Trigger, env Env, log *slog.Logger) []*Trigger {
	if log == nil {
		log = slog.Default()
	}
	var fired []*Trigger
	for _, t := range triggers {
		if t.Once && t.fired {
			continue
		}
		match, err := t.cond.Eval(env)
		if err != nil {
			log.Warn("trigger condition error", "trigger", t.ID, "error", err)
			continue
		}
		if !match {
			continue
		}
		t.fired = true
		log.Debug("trigger fired", "trigger", t.ID, "turn", env.Turn)
		fired = append(fired, t)
	}
	return fired
}
