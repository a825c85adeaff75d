// Package grid holds the battlefield terrain map: a rectangle of cells keyed
// by coordinate, with overlay bookkeeping so objective zones can be carved
// into the map and later reverted.
package grid

import (
	"math"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
)

// TerrainKind classifies a cell.
type TerrainKind string

const (
	Ocean  TerrainKind = "ocean"
	Island TerrainKind = "island"
	Reef   TerrainKind = "reef"
	Spawn  TerrainKind = "spawn"

	ResourceZone    TerrainKind = "resource_zone"
	ResourceRadius  TerrainKind = "resource_radius"
	Outpost         TerrainKind = "outpost"
	DestinationZone TerrainKind = "destination_zone"
	SalvageZone     TerrainKind = "salvage_zone"
	SalvageRadius   TerrainKind = "salvage_radius"
)

// OverlayKinds lists every kind an objective may paint over base terrain.
var OverlayKinds = []TerrainKind{
	ResourceZone, ResourceRadius, Outpost, DestinationZone, SalvageZone, SalvageRadius,
}

// Default battlefield dimensions.
const (
	DefaultWidth  = 75
	DefaultHeight = 75
)

// Cell is a single battlefield square. OriginalKind is empty unless the cell
// carries an overlay, in which case it records the terrain underneath.
type Cell struct {
	Kind         TerrainKind `json:"kind"`
	Occupant     string      `json:"occupant,omitempty"`
	OriginalKind TerrainKind `json:"original_kind,omitempty"`
}

// Grid is a Width x Height battlefield. Columns run 0..Width-1 and rows
// 1..Height. Unset cells read as ocean.
type Grid struct {
	Width  int
	Height int
	cells  map[coord.Coord]Cell
}

// New creates an all-ocean grid.
func New(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  map[coord.Coord]Cell{},
	}
}

// InBounds reports whether c lies inside the map rectangle.
func (g *Grid) InBounds(c coord.Coord) bool {
	return c.Col >= 0 && c.Col < g.Width && c.Row >= 1 && c.Row <= g.Height
}

// Center returns the middle cell of the map.
func (g *Grid) Center() coord.Coord {
	return coord.C(g.Width/2, (g.Height+1)/2)
}

// Get returns the cell at c. Absence is not an error: unset and
// out-of-bounds coordinates read as ocean.
func (g *Grid) Get(c coord.Coord) Cell {
	if cell, ok := g.cells[c]; ok {
		return cell
	}
	return Cell{Kind: Ocean}
}

// Set stores cell at c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c coord.Coord, cell Cell) {
	if !g.InBounds(c) {
		return
	}
	g.cells[c] = cell
}

// SetKind replaces the terrain kind at c, keeping any occupant tag and
// discarding overlay bookkeeping.
func (g *Grid) SetKind(c coord.Coord, kind TerrainKind) {
	cell := g.Get(c)
	cell.Kind = kind
	cell.OriginalKind = ""
	g.Set(c, cell)
}

// Overlay paints kind over the cell at c, remembering the current kind so
// RevertOverlay can restore it. Painting over an existing overlay keeps the
// base terrain recorded by the first one.
func (g *Grid) Overlay(c coord.Coord, kind TerrainKind) {
	if !g.InBounds(c) {
		return
	}
	cell := g.Get(c)
	if cell.OriginalKind == "" {
		cell.OriginalKind = cell.Kind
	}
	cell.Kind = kind
	g.Set(c, cell)
}

// FillRadius overlays newKind on every in-bounds cell within radius of
// center whose current cell satisfies match. It returns the number of cells
// changed.
func (g *Grid) FillRadius(center coord.Coord, radius float64, match func(Cell) bool, newKind TerrainKind) int {
	if radius < 0 {
		return 0
	}
	span := int(math.Ceil(radius))
	changed := 0
	for row := center.Row - span; row <= center.Row+span; row++ {
		for col := center.Col - span; col <= center.Col+span; col++ {
			c := coord.C(col, row)
			if !g.InBounds(c) || !coord.Within(center, c, radius) {
				continue
			}
			if match != nil && !match(g.Get(c)) {
				continue
			}
			g.Overlay(c, newKind)
			changed++
		}
	}
	return changed
}

// RevertOverlay restores every cell of the given kind to the terrain it
// covered. Cells painted without bookkeeping revert to ocean. Calling it on
// a grid with no matching cells is a no-op.
func (g *Grid) RevertOverlay(kind TerrainKind) int {
	reverted := 0
	for c, cell := range g.cells {
		if cell.Kind != kind {
			continue
		}
		cell.Kind = cell.OriginalKind
		if cell.Kind == "" {
			cell.Kind = Ocean
		}
		cell.OriginalKind = ""
		g.cells[c] = cell
		reverted++
	}
	return reverted
}

// Each calls fn for every in-bounds cell in row-major order.
func (g *Grid) Each(fn func(c coord.Coord, cell Cell)) {
	for row := 1; row <= g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := coord.C(col, row)
			fn(c, g.Get(c))
		}
	}
}

// Cells returns the coordinates of every cell of the given kind in
// row-major order.
func (g *Grid) Cells(kind TerrainKind) []coord.Coord {
	var out []coord.Coord
	g.Each(func(c coord.Coord, cell Cell) {
		if cell.Kind == kind {
			out = append(out, c)
		}
	})
	return out
}

// Count returns the number of cells of the given kind.
func (g *Grid) Count(kind TerrainKind) int {
	n := 0
	for _, cell := range g.cells {
		if cell.Kind == kind {
			n++
		}
	}
	if kind == Ocean {
		n += g.Width*g.Height - len(g.cells)
	}
	return n
}

// IsOcean matches open water.
func IsOcean(cell Cell) bool {
	return cell.Kind == Ocean
}

// IsOceanOrReef matches open water and reefs.
func IsOceanOrReef(cell Cell) bool {
	return cell.Kind == Ocean || cell.Kind == Reef
}
