package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/meekantifun/naval-command-sub002/engine/save"
	"github.com/meekantifun/naval-command-sub002/engine/state"
)

// ErrWrongBattle is returned when a save belongs to another scenario.
var ErrWrongBattle = errors.New("save belongs to a different battle")

// SaveData captures what Replay needs to rebuild this battle.
func (b *Battle) SaveData() save.SaveData {
	return save.SaveData{
		Version:     b.Defs.Battle.Version,
		Battle:      b.Defs.Battle.Title,
		Mission:     string(b.Mission()),
		Seed:        b.RNG.Seed(),
		Turn:        b.World.Turn,
		RNGPosition: b.RNG.Position(),
		CommandLog:  append([]string(nil), b.CommandLog...),
	}
}

// Save serializes the battle to JSON.
func (b *Battle) Save() ([]byte, error) {
	return save.Save(b.SaveData())
}

// Replay rebuilds a battle from save data by starting it from the saved seed
// and mission and re-issuing every logged order. A replay that ends on a
// different turn or RNG position than the save recorded is logged but still
// returned.
func Replay(defs *state.Defs, sd *save.SaveData, log *slog.Logger) (*Battle, error) {
	if log == nil {
		log = slog.Default()
	}
	if sd.Battle != defs.Battle.Title {
		return nil, fmt.Errorf("%w: %q, playing %q", ErrWrongBattle, sd.Battle, defs.Battle.Title)
	}
	b, err := NewBattle(defs, sd.Mission, sd.Seed, log)
	if err != nil {
		return nil, err
	}
	for _, order := range sd.CommandLog {
		b.Step(order)
	}
	if b.World.Turn != sd.Turn || b.RNG.Position() != sd.RNGPosition {
		log.Warn("replay diverged from save",
			"turn", b.World.Turn, "saved_turn", sd.Turn,
			"rng_position", b.RNG.Position(), "saved_rng_position", sd.RNGPosition)
	}
	return b, nil
}
