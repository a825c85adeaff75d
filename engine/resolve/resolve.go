// Package resolve maps ship names from parsed orders to ship IDs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/meekantifun/naval-command-sub002/engine/state"
	"github.com/meekantifun/naval-command-sub002/types"
)

// AmbiguityError indicates multiple ships matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no ship matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no ship called %q on the board", e.Name)
}

// Ship resolves a name to a ship among the players, the enemies and the
// objective-owned ships in owned. Sunk ships still resolve so orders
// against them can be refused with a useful message.
func Ship(w *types.World, owned []*types.Ship, name string) (*types.Ship, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return nil, &NotFoundError{Name: name}
	}

	all := candidates(w, owned)

	// 1. Exact ID match.
	for _, s := range all {
		if strings.ToLower(s.ID) == nameLower {
			return s, nil
		}
	}

	// 2. Name match among all ships.
	var matches []*types.Ship
	for _, s := range all {
		if matchesName(s, nameLower) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	}

	// Prefer afloat ships when a sunk namesake shares the name.
	var afloat []*types.Ship
	for _, s := range matches {
		if state.IsAlive(s) {
			afloat = append(afloat, s)
		}
	}
	if len(afloat) == 1 {
		return afloat[0], nil
	}

	ids := make([]string, 0, len(matches))
	for _, s := range matches {
		ids = append(ids, s.ID)
	}
	return nil, &AmbiguityError{Name: name, Candidates: ids}
}

// candidates lists players, enemies and owned ships in a stable order.
func candidates(w *types.World, owned []*types.Ship) []*types.Ship {
	out := state.Sorted(w.Players)
	out = append(out, state.Sorted(w.Enemies)...)
	return append(out, owned...)
}

// matchesName checks if a ship's name matches the query (case-insensitive).
// Supports exact match, word-based partial match, and underscore IDs.
func matchesName(s *types.Ship, nameLower string) bool {
	shipName := strings.ToLower(s.Name)
	if shipName == nameLower {
		return true
	}
	// Word-based partial match: "kestrel" matches "HMS Kestrel".
	for _, word := range strings.Fields(shipName) {
		if word == nameLower {
			return true
		}
	}
	// Underscore normalization: "iron duke" matches ship ID "iron_duke".
	return strings.ReplaceAll(nameLower, " ", "_") == strings.ToLower(s.ID)
}
