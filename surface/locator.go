package surface

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Locator answers point location queries over a Surface through its own spatial grid.
// The surface is only read, so any number of locators can share it.
type Locator struct {
	surface *Surface
	grid    *SpatialGrid
}

// NewLocator builds a grid with cells of cellSize over s. A size <= 0 reuses the grid the
// surface sized from its mean triangle footprint.
func NewLocator(s *Surface, cellSize float64) *Locator {
	if cellSize <= 0 || len(s.Triangles) == 0 {
		return &Locator{surface: s, grid: s.grid}
	}

	return &Locator{
		surface: s,
		grid:    fillGrid(NewSpatialGrid(cellSize, len(s.Triangles)*2), s.Triangles),
	}
}

// Locate returns the same triangle as Surface.FindTriangleContainingPoint.
func (l *Locator) Locate(point mgl64.Vec3) (int, bool) {
	return l.surface.locate(l.grid, point)
}
