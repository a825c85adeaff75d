package grid

import "github.com/meekantifun/naval-command-sub002/engine/coord"

// orthogonal neighbour offsets in N, E, S, W order.
var orthogonal = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Neighbors returns the in-bounds orthogonal neighbours of c in N, E, S, W order.
func (g *Grid) Neighbors(c coord.Coord) []coord.Coord {
	out := make([]coord.Coord, 0, 4)
	for _, d := range orthogonal {
		n := coord.C(c.Col+d[0], c.Row+d[1])
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// CrossCells returns the five cells of a plus-shaped island centred on c:
// the centre followed by its N, E, S, W arms.
func CrossCells(center coord.Coord) []coord.Coord {
	cells := []coord.Coord{center}
	for _, d := range orthogonal {
		cells = append(cells, coord.C(center.Col+d[0], center.Row+d[1]))
	}
	return cells
}

// CrossFits reports whether a cross centred on c lies fully in bounds over
// open ocean.
func (g *Grid) CrossFits(center coord.Coord) bool {
	for _, c := range CrossCells(center) {
		if !g.InBounds(c) || g.Get(c).Kind != Ocean {
			return false
		}
	}
	return true
}

// CarveCross paints a five-cell island centred on c.
func (g *Grid) CarveCross(center coord.Coord) {
	for _, c := range CrossCells(center) {
		g.SetKind(c, Island)
	}
}

// FindCrossCenter returns the first island cell, in row-major order, whose
// four orthogonal neighbours are all island.
func (g *Grid) FindCrossCenter() (coord.Coord, bool) {
	for _, c := range g.Cells(Island) {
		n := g.Neighbors(c)
		if len(n) != 4 {
			continue
		}
		full := true
		for _, nc := range n {
			if g.Get(nc).Kind != Island {
				full = false
				break
			}
		}
		if full {
			return c, true
		}
	}
	return coord.Coord{}, false
}

// ShoreCells returns island cells that touch open ocean, in row-major order.
func (g *Grid) ShoreCells() []coord.Coord {
	var out []coord.Coord
	for _, c := range g.Cells(Island) {
		if _, ok := g.AdjacentOcean(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// AdjacentOcean returns the first ocean neighbour of c in N, E, S, W order.
func (g *Grid) AdjacentOcean(c coord.Coord) (coord.Coord, bool) {
	for _, n := range g.Neighbors(c) {
		if g.Get(n).Kind == Ocean {
			return n, true
		}
	}
	return coord.Coord{}, false
}
