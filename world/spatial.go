// Package world adapts a host entity world for the steering engine: spatial
// queries, per-entity kinematic accessors, and environment predicates.
package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/vec"
)

// Candidate holds a nearby entity with precomputed spatial data so callers
// do not re-fetch positions or recompute distances in hot paths.
type Candidate struct {
	E      ecs.Entity
	Pos    vec.V
	DistSq float64 // squared distance from query origin
}

// MaxQueryResults caps the number of entities returned by spatial queries.
// Density spikes must not cause unbounded per-tick work.
const MaxQueryResults = 128

// SpatialGrid provides coarse neighbor lookups using a cell-based 3D grid.
// The grid is rebuilt by the host each tick before steering runs.
type SpatialGrid struct {
	cellSize float64
	min      vec.V
	cols     int // x cells
	layers   int // y cells
	rows     int // z cells
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a grid covering the box [min, min+size].
func NewSpatialGrid(min, size vec.V, cellSize float64) *SpatialGrid {
	cols := int(size.X/cellSize) + 1
	layers := int(size.Y/cellSize) + 1
	rows := int(size.Z/cellSize) + 1

	cells := make([][]ecs.Entity, cols*layers*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		min:      min,
		cols:     cols,
		layers:   layers,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, p vec.V) {
	idx := g.cellIndex(p)
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryBoxInto appends entities within the axis-aligned box of the given
// half-extent around center to dst (up to MaxQueryResults) and returns the
// updated slice. Reuse dst across calls to avoid allocations. Entities whose
// position component has vanished since insertion are skipped.
//
// This is the coarse filter only: every returned candidate lies inside the
// box, but callers refine by exact distance and field of view.
func (g *SpatialGrid) QueryBoxInto(dst []Candidate, center vec.V, half float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Candidate {
	cellRadius := int(half/g.cellSize) + 1

	cx := g.axisCell(center.X-g.min.X, g.cols)
	cy := g.axisCell(center.Y-g.min.Y, g.layers)
	cz := g.axisCell(center.Z-g.min.Z, g.rows)

	for dx := -cellRadius; dx <= cellRadius; dx++ {
		x := cx + dx
		if x < 0 || x >= g.cols {
			continue
		}
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			y := cy + dy
			if y < 0 || y >= g.layers {
				continue
			}
			for dz := -cellRadius; dz <= cellRadius; dz++ {
				z := cz + dz
				if z < 0 || z >= g.rows {
					continue
				}
				idx := (z*g.layers+y)*g.cols + x

				for _, e := range g.cells[idx] {
					if e == exclude {
						continue
					}
					pos := posMap.Get(e)
					if pos == nil {
						// Vanished between insert and query: not found, not an error.
						continue
					}
					d := pos.Pos.Sub(center)
					if abs(d.X) > half || abs(d.Y) > half || abs(d.Z) > half {
						continue
					}
					dst = append(dst, Candidate{E: e, Pos: pos.Pos, DistSq: d.MagSq()})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// QueryRadiusInto is QueryBoxInto refined by exact Euclidean distance.
func (g *SpatialGrid) QueryRadiusInto(dst []Candidate, center vec.V, radius float64, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Candidate {
	box := g.QueryBoxInto(nil, center, radius, exclude, posMap)
	rSq := radius * radius
	for _, c := range box {
		if c.DistSq <= rSq {
			dst = append(dst, c)
		}
	}
	return dst
}

// cellIndex returns the flat index for a world position, clamped to bounds.
func (g *SpatialGrid) cellIndex(p vec.V) int {
	x := g.axisCell(p.X-g.min.X, g.cols)
	y := g.axisCell(p.Y-g.min.Y, g.layers)
	z := g.axisCell(p.Z-g.min.Z, g.rows)
	return (z*g.layers+y)*g.cols + x
}

func (g *SpatialGrid) axisCell(offset float64, n int) int {
	c := int(offset / g.cellSize)
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
