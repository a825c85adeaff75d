package state

import (
	"errors"
	"testing"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/types"
)

func testDefs() *Defs {
	return &Defs{
		Battle: types.BattleDef{Title: "Test Strait", Width: 40, Height: 30},
		Ships: []types.ShipDef{
			{ID: "p2", Side: types.FactionPlayer, Name: "Osprey", At: "K20", Health: 800},
			{ID: "p1", Side: types.FactionPlayer, Name: "Kestrel", At: "J20"},
			{ID: "e1", Side: types.FactionEnemy, Name: "Raider", Class: "Destroyer", At: "K5", Health: 600},
			{ID: "o1", Side: types.FactionEnemy, Name: "Rival", At: "L5", OPFOR: true},
		},
		Terrain: []types.TerrainDef{
			{Kind: grid.Island, At: "T15", Radius: 1},
			{Kind: grid.Reef, At: "C3"},
		},
	}
}

func TestNewWorld(t *testing.T) {
	w, err := NewWorld(testDefs())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if w.Grid.Width != 40 || w.Grid.Height != 30 {
		t.Fatalf("grid = %dx%d, want 40x30", w.Grid.Width, w.Grid.Height)
	}
	if len(w.Players) != 2 || len(w.Enemies) != 2 {
		t.Fatalf("players=%d enemies=%d", len(w.Players), len(w.Enemies))
	}
	if w.Players["p1"].Health != DefaultShipHealth {
		t.Errorf("default health = %d, want %d", w.Players["p1"].Health, DefaultShipHealth)
	}
	if !w.Enemies["o1"].OPFOR {
		t.Error("o1 should be OPFOR")
	}
	if n := w.Grid.Count(grid.Island); n != 5 {
		t.Errorf("island cells = %d, want 5", n)
	}
	center := w.Grid.Get(coord.MustParse("T15"))
	if center.Kind != grid.Island || center.OriginalKind != "" {
		t.Errorf("island center = %+v, want plain island", center)
	}
	arm := w.Grid.Get(coord.MustParse("T14"))
	if arm.Kind != grid.Island || arm.OriginalKind != "" {
		t.Errorf("island arm = %+v, want base terrain without overlay bookkeeping", arm)
	}
	if w.Grid.Get(coord.MustParse("C3")).Kind != grid.Reef {
		t.Error("reef missing")
	}
}

func TestNewWorld_DefaultSize(t *testing.T) {
	w, err := NewWorld(&Defs{})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if w.Grid.Width != grid.DefaultWidth || w.Grid.Height != grid.DefaultHeight {
		t.Fatalf("grid = %dx%d", w.Grid.Width, w.Grid.Height)
	}
}

func TestNewWorld_InvalidCoordinate(t *testing.T) {
	defs := testDefs()
	defs.Ships[0].At = "20K"
	_, err := NewWorld(defs)
	if !errors.Is(err, coord.ErrInvalidCoordinate) {
		t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
	}
}

func TestAliveQueries(t *testing.T) {
	w, _ := NewWorld(testDefs())
	w.Players["p2"].Alive = false

	players := AlivePlayers(w)
	if len(players) != 1 || players[0].ID != "p1" {
		t.Fatalf("AlivePlayers = %v", ids(players))
	}
	enemies := AliveEnemies(w)
	if len(enemies) != 2 || enemies[0].ID != "e1" || enemies[1].ID != "o1" {
		t.Fatalf("AliveEnemies = %v", ids(enemies))
	}

	w.Enemies["e1"].Health = 0
	if IsAlive(w.Enemies["e1"]) {
		t.Fatal("zero-health ship should not count as alive")
	}
}

func TestPlayersWithin(t *testing.T) {
	w, _ := NewWorld(testDefs())
	got := PlayersWithin(w, coord.MustParse("J20"), 1)
	if len(got) != 2 {
		t.Fatalf("PlayersWithin radius 1 = %v", ids(got))
	}
	got = PlayersWithin(w, coord.MustParse("J20"), 0.5)
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("PlayersWithin radius 0.5 = %v", ids(got))
	}
}

func TestNearestAlive(t *testing.T) {
	a := &types.Ship{ID: "a", Position: coord.C(5, 5), Alive: true, Health: 10}
	b := &types.Ship{ID: "b", Position: coord.C(5, 7), Alive: true, Health: 10}
	c := &types.Ship{ID: "c", Position: coord.C(5, 6), Alive: false}
	tie := &types.Ship{ID: "tie", Position: coord.C(5, 7), Alive: true, Health: 10}

	if got := NearestAlive([]*types.Ship{a, b, c}, coord.C(5, 6)); got != a {
		t.Fatalf("nearest = %v, want a (first of tie, dead c skipped)", got)
	}
	if got := NearestAlive([]*types.Ship{b, tie}, coord.C(5, 9)); got != b {
		t.Fatalf("tie should go to first encountered, got %v", got.ID)
	}
	if got := NearestAlive(nil, coord.C(0, 1)); got != nil {
		t.Fatal("empty input should return nil")
	}
	if got := NearestAlive([]*types.Ship{c}, coord.C(0, 1)); got != nil {
		t.Fatal("all-sunk input should return nil")
	}
}

func TestCentroid(t *testing.T) {
	ships := []*types.Ship{
		{Position: coord.C(0, 1)},
		{Position: coord.C(10, 11)},
	}
	if got := Centroid(ships, coord.C(99, 99)); got != coord.C(5, 6) {
		t.Fatalf("Centroid = %v, want F6", got)
	}
	if got := Centroid(nil, coord.C(3, 3)); got != coord.C(3, 3) {
		t.Fatalf("empty Centroid = %v, want fallback", got)
	}
}

func TestFindShipAndOccupied(t *testing.T) {
	w, _ := NewWorld(testDefs())
	if s, ok := FindShip(w, "e1"); !ok || s.Name != "Raider" {
		t.Fatalf("FindShip(e1) = %v, %v", s, ok)
	}
	if _, ok := FindShip(w, "ghost"); ok {
		t.Fatal("FindShip(ghost) should fail")
	}
	if !Occupied(w, coord.MustParse("K5")) {
		t.Fatal("K5 should be occupied")
	}
	w.Enemies["e1"].Alive = false
	if Occupied(w, coord.MustParse("K5")) {
		t.Fatal("wreck should not occupy K5")
	}
}

func ids(ships []*types.Ship) []string {
	out := make([]string, len(ships))
	for i, s := range ships {
		out[i] = s.ID
	}
	return out
}
