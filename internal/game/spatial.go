package game

import "math"

// cellKey is an integer cell coordinate: position floor-divided by the cell size.
type cellKey struct {
	X, Y int
}

// SpatialGrid is a uniform hash grid for broad-phase queries. It is rebuilt
// every frame: Clear, then Insert each body once.
//
// Each item lives in the single cell holding its center, so the union over
// distinct cells never contains duplicates.
type SpatialGrid[T comparable] struct {
	cellSize float64
	cells    map[cellKey][]T
	index    map[T]cellKey
}

// NewSpatialGrid creates a grid with the given cell size.
func NewSpatialGrid[T comparable](cellSize float64) *SpatialGrid[T] {
	if !(cellSize > 0) {
		panic("game: spatial grid cell size must be positive")
	}
	return &SpatialGrid[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]T),
		index:    make(map[T]cellKey),
	}
}

// CellSize returns the edge length of one cell.
func (g *SpatialGrid[T]) CellSize() float64 { return g.cellSize }

// Len returns the number of items in the grid.
func (g *SpatialGrid[T]) Len() int { return len(g.index) }

// Clear empties the grid, keeping allocated cell capacity.
func (g *SpatialGrid[T]) Clear() {
	for k, items := range g.cells {
		clear(items)
		g.cells[k] = items[:0]
	}
	clear(g.index)
}

// Cell returns the cell coordinate containing p.
func (g *SpatialGrid[T]) Cell(p Vec2) (int, int) {
	return int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))
}

// Insert registers item in the cell containing pos. Inserting an item that is
// already present is a no-op.
func (g *SpatialGrid[T]) Insert(pos Vec2, item T) {
	if _, ok := g.index[item]; ok {
		return
	}
	cx, cy := g.Cell(pos)
	k := cellKey{cx, cy}
	g.cells[k] = append(g.cells[k], item)
	g.index[item] = k
}

// Nearby returns every item registered within ceil(radius/cellSize)+1 cells
// of the cell holding pos. The result is a superset of the items whose
// centers lie within radius of pos.
func (g *SpatialGrid[T]) Nearby(pos Vec2, radius float64) []T {
	return g.NearbyBuf(pos, radius, nil)
}

// NearbyBuf appends results to buf and returns the extended slice, avoiding per-call allocation
func (g *SpatialGrid[T]) NearbyBuf(pos Vec2, radius float64, buf []T) []T {
	if len(g.index) == 0 {
		return buf
	}
	span := int(math.Ceil(radius/g.cellSize)) + 1
	cx, cy := g.Cell(pos)
	for dy := -span; dy <= span; dy++ {
		for dx := -span; dx <= span; dx++ {
			if items, ok := g.cells[cellKey{cx + dx, cy + dy}]; ok {
				buf = append(buf, items...)
			}
		}
	}
	return buf
}
