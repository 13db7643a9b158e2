// Package systems provides the spatial index, flocking math, and
// fungal network used by the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mycelia/components"
)

// Neighbor holds a nearby agent with precomputed spatial data.
// This avoids recomputing toroidal delta and distance in behavior code.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // Toroidal delta from query origin
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// SpatialGrid buckets agents into uniform cells for O(1)-amortized
// radius queries. It is rebuilt wholesale once per tick: Clear, then
// Insert every alive agent.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid covering the given world size.
// Cell size is fixed for the lifetime of the grid.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all agents from the grid, keeping cell capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an agent at the given position. Positions outside the
// world extent clamp to the nearest valid cell so drift never corrupts
// the index.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
}

// Count returns the total number of agents currently in the grid.
func (g *SpatialGrid) Count() int {
	n := 0
	for i := range g.cells {
		n += len(g.cells[i])
	}
	return n
}

// QueryRadiusInto appends agents within radius to dst (up to
// MaxQueryResults) and returns the updated slice. Reuse dst across
// calls to avoid allocations. Each Neighbor carries the precomputed
// toroidal delta and squared distance; candidates from the scanned
// cell block are filtered by exact distance before being appended.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)

	radiusSq := radius * radius

	// When the scan block would span the whole grid, walk each column
	// or row exactly once; the wrap would otherwise revisit cells and
	// return duplicates.
	minDC, maxDC := -cellRadius, cellRadius
	if 2*cellRadius+1 > g.cols {
		minDC, maxDC = 0, g.cols-1
	}
	minDR, maxDR := -cellRadius, cellRadius
	if 2*cellRadius+1 > g.rows {
		minDR, maxDR = 0, g.rows-1
	}

	for dc := minDC; dc <= maxDC; dc++ {
		for dr := minDR; dr <= maxDR; dr++ {
			// Toroidal wrap
			col := (centerCol + dc + g.cols) % g.cols
			row := (centerRow + dr + g.rows) % g.rows
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				if e == exclude {
					continue
				}

				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx, dy := ToroidalDelta(x, y, pos.X, pos.Y, g.width, g.height)
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// cellIndex returns the flat index for a world position, clamped to
// the valid cell range.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}

// ToroidalDelta returns the shortest path delta from (x1,y1) to (x2,y2)
// on a torus of size w x h.
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1

	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}

	return dx, dy
}
