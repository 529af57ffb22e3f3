package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid[int](100)
	grid.Insert(Vec2{150, 150}, 1)
	grid.Insert(Vec2{1150, 150}, 2)

	assert.Contains(t, grid.Nearby(Vec2{120, 130}, 10), 1)
	assert.NotContains(t, grid.Nearby(Vec2{120, 130}, 10), 2)
	assert.Equal(t, 2, grid.Len())
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid[int](50)
	for i := 0; i < 20; i++ {
		grid.Insert(Vec2{float64(i * 30), float64(i * 10)}, i)
	}
	grid.Clear()

	assert.Zero(t, grid.Len())
	assert.Empty(t, grid.Nearby(Vec2{300, 100}, 10000))
}

func TestSpatialGridInsertTwiceIsNoop(t *testing.T) {
	grid := NewSpatialGrid[int](100)
	grid.Insert(Vec2{10, 10}, 1)
	grid.Insert(Vec2{500, 500}, 1)

	assert.Equal(t, []int{1}, grid.Nearby(Vec2{10, 10}, 0))
	assert.Empty(t, grid.Nearby(Vec2{500, 500}, 0))
}

func TestSpatialGridNegativeCoordinates(t *testing.T) {
	grid := NewSpatialGrid[int](100)
	grid.Insert(Vec2{-10, -10}, 1)

	cx, cy := grid.Cell(Vec2{-10, -10})
	assert.Equal(t, -1, cx)
	assert.Equal(t, -1, cy)
	assert.Contains(t, grid.Nearby(Vec2{5, 5}, 20), 1)
}

func TestSpatialGridNoFalseNegatives(t *testing.T) {
	r := NewRand(99)
	grid := NewSpatialGrid[int](100)
	pts := make([]Vec2, 300)
	for i := range pts {
		pts[i] = Vec2{r.Range(-200, 1500), r.Range(-200, 900)}
		grid.Insert(pts[i], i)
	}

	for q := 0; q < 300; q++ {
		p := Vec2{r.Range(-200, 1500), r.Range(-200, 900)}
		radius := r.Range(0, 300)
		got := map[int]int{}
		for _, id := range grid.Nearby(p, radius) {
			got[id]++
		}
		for i, pt := range pts {
			if pt.Dist(p) <= radius {
				require.Contains(t, got, i, "query %v r=%v missed %v", p, radius, pt)
			}
		}
		for id, n := range got {
			require.Equal(t, 1, n, "item %d returned more than once", id)
		}
	}
}

func TestSpatialGridRejectsBadCellSize(t *testing.T) {
	assert.Panics(t, func() { NewSpatialGrid[int](0) })
	assert.Panics(t, func() { NewSpatialGrid[int](-5) })
}
