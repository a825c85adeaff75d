package grid

import (
	"reflect"
	"testing"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
)

func TestGet_DefaultsToOcean(t *testing.T) {
	g := New(10, 10)
	if got := g.Get(coord.C(3, 3)); got.Kind != Ocean {
		t.Fatalf("unset cell kind = %q, want ocean", got.Kind)
	}
	if got := g.Get(coord.C(50, 50)); got.Kind != Ocean {
		t.Fatalf("out-of-bounds cell kind = %q, want ocean", got.Kind)
	}
}

func TestSet_IgnoresOutOfBounds(t *testing.T) {
	g := New(5, 5)
	g.Set(coord.C(5, 1), Cell{Kind: Island})
	g.Set(coord.C(0, 0), Cell{Kind: Island})
	g.Set(coord.C(0, 6), Cell{Kind: Island})
	if n := g.Count(Island); n != 0 {
		t.Fatalf("expected no islands, got %d", n)
	}
	g.Set(coord.C(4, 5), Cell{Kind: Island})
	if n := g.Count(Island); n != 1 {
		t.Fatalf("expected 1 island, got %d", n)
	}
}

func TestCount_Ocean(t *testing.T) {
	g := New(4, 3)
	if n := g.Count(Ocean); n != 12 {
		t.Fatalf("fresh ocean count = %d, want 12", n)
	}
	g.SetKind(coord.C(1, 1), Reef)
	if n := g.Count(Ocean); n != 11 {
		t.Fatalf("ocean count after reef = %d, want 11", n)
	}
}

func TestFillRadius_Containment(t *testing.T) {
	g := New(DefaultWidth, DefaultHeight)
	g.SetKind(coord.C(20, 20), Island)
	center := coord.C(20, 21)
	const radius = 3.0

	before := snapshot(g)
	changed := g.FillRadius(center, radius, IsOcean, ResourceRadius)
	if changed == 0 {
		t.Fatal("expected cells to change")
	}

	g.Each(func(c coord.Coord, cell Cell) {
		if cell.Kind == ResourceRadius && coord.Distance(c, center) > radius {
			t.Errorf("cell %s painted outside radius", c)
		}
		if coord.Distance(c, center) > radius && cell != before[c] {
			t.Errorf("cell %s outside radius was mutated", c)
		}
	})
	if got := g.Get(coord.C(20, 20)); got.Kind != Island {
		t.Fatalf("island was overwritten: %+v", got)
	}
	if got := g.Get(center); got.Kind != ResourceRadius || got.OriginalKind != Ocean {
		t.Fatalf("center cell = %+v, want resource_radius over ocean", got)
	}
}

func TestFillRadius_ClipsToBounds(t *testing.T) {
	g := New(10, 10)
	changed := g.FillRadius(coord.C(0, 1), 2, IsOcean, SalvageRadius)
	want := 0
	for row := 1; row <= 3; row++ {
		for col := 0; col <= 2; col++ {
			if coord.Within(coord.C(0, 1), coord.C(col, row), 2) {
				want++
			}
		}
	}
	if changed != want {
		t.Fatalf("changed = %d, want %d", changed, want)
	}
	if g.Count(SalvageRadius) != want {
		t.Fatalf("painted = %d, want %d", g.Count(SalvageRadius), want)
	}
}

func TestFillRadius_OceanOrReef(t *testing.T) {
	g := New(20, 20)
	g.SetKind(coord.C(10, 10), Reef)
	g.SetKind(coord.C(11, 10), Island)
	g.FillRadius(coord.C(10, 10), 2, IsOceanOrReef, DestinationZone)

	if got := g.Get(coord.C(10, 10)); got.Kind != DestinationZone || got.OriginalKind != Reef {
		t.Fatalf("reef cell = %+v, want destination over reef", got)
	}
	if got := g.Get(coord.C(11, 10)); got.Kind != Island {
		t.Fatalf("island cell = %+v, want untouched", got)
	}
}

func TestRevertOverlay_RestoresAndIsIdempotent(t *testing.T) {
	g := New(30, 30)
	g.SetKind(coord.C(15, 15), Reef)
	g.FillRadius(coord.C(15, 15), 4, IsOceanOrReef, DestinationZone)

	first := g.RevertOverlay(DestinationZone)
	if first == 0 {
		t.Fatal("expected cells to revert")
	}
	once := snapshot(g)

	if n := g.RevertOverlay(DestinationZone); n != 0 {
		t.Fatalf("second revert changed %d cells", n)
	}
	if !reflect.DeepEqual(once, snapshot(g)) {
		t.Fatal("second revert changed grid state")
	}
	if got := g.Get(coord.C(15, 15)); got.Kind != Reef || got.OriginalKind != "" {
		t.Fatalf("reef not restored: %+v", got)
	}
	if got := g.Get(coord.C(16, 15)); got.Kind != Ocean {
		t.Fatalf("ocean not restored: %+v", got)
	}
}

func TestRevertOverlay_EmptyGrid(t *testing.T) {
	g := New(5, 5)
	if n := g.RevertOverlay(SalvageZone); n != 0 {
		t.Fatalf("expected no-op, reverted %d", n)
	}
}

func TestOverlay_KeepsBaseTerrain(t *testing.T) {
	g := New(5, 5)
	c := coord.C(2, 2)
	g.SetKind(c, Island)
	g.Overlay(c, Outpost)
	g.Overlay(c, SalvageZone)
	g.RevertOverlay(SalvageZone)
	if got := g.Get(c); got.Kind != Island {
		t.Fatalf("kind = %q, want island", got.Kind)
	}
}

func TestCrossHelpers(t *testing.T) {
	g := New(10, 10)
	center := coord.C(5, 5)
	if !g.CrossFits(center) {
		t.Fatal("cross should fit on open ocean")
	}
	if g.CrossFits(coord.C(0, 5)) {
		t.Fatal("cross should not fit on the map edge")
	}
	g.CarveCross(center)
	if n := g.Count(Island); n != 5 {
		t.Fatalf("island cells = %d, want 5", n)
	}
	got, ok := g.FindCrossCenter()
	if !ok || got != center {
		t.Fatalf("FindCrossCenter = %v, %v; want %v", got, ok, center)
	}
	if g.CrossFits(center) {
		t.Fatal("cross should not fit over existing island")
	}
	shore := g.ShoreCells()
	if len(shore) != 4 {
		t.Fatalf("shore cells = %d, want the 4 arms", len(shore))
	}
	ocean, ok := g.AdjacentOcean(coord.C(5, 4))
	if !ok || ocean != coord.C(5, 3) {
		t.Fatalf("AdjacentOcean(north arm) = %v, %v; want F3", ocean, ok)
	}
}

func TestNeighbors_Order(t *testing.T) {
	g := New(10, 10)
	got := g.Neighbors(coord.C(0, 1))
	want := []coord.Coord{coord.C(1, 1), coord.C(0, 2)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Neighbors(A1) = %v, want %v", got, want)
	}
}

func snapshot(g *Grid) map[coord.Coord]Cell {
	out := map[coord.Coord]Cell{}
	g.Each(func(c coord.Coord, cell Cell) {
		out[c] = cell
	})
	return out
}
