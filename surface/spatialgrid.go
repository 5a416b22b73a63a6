package surface

import (
	"math"
	"sort"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordinates of a cell on the XZ plane
type CellKey struct {
	X, Z int
}

// Cell - Triangle indices whose bounds touch the cell
type Cell struct {
	triangleIndices []int
}

// SpatialGrid - Uniform hashed grid over the XZ plane used for point location.
// Several cells may hash to the same bucket; buckets are kept sorted so a scan
// meets triangles in ascending index order.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
	// XZ bounds of every inserted triangle, by triangle index
	bounds []geometry.AABB
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid - Creates an empty grid
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].triangleIndices = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// newGridFor sizes a grid from the mean triangle footprint and fills it.
func newGridFor(triangles []geometry.Triangle) *SpatialGrid {
	if len(triangles) == 0 {
		return nil
	}

	extent := 0.0
	for _, t := range triangles {
		box := t.AABB()
		extent += math.Max(box.Max.X()-box.Min.X(), box.Max.Z()-box.Min.Z())
	}
	extent /= float64(len(triangles))

	return fillGrid(NewSpatialGrid(extent, len(triangles)*2), triangles)
}

func fillGrid(grid *SpatialGrid, triangles []geometry.Triangle) *SpatialGrid {
	grid.bounds = make([]geometry.AABB, len(triangles))
	for i, t := range triangles {
		grid.bounds[i] = t.AABB()
		grid.Insert(i, grid.bounds[i])
	}
	grid.SortCells()

	return grid
}

// nextPowerOfTwo - Rounds up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Adds a triangle to every cell its bounds cover
func (sg *SpatialGrid) Insert(triangleIndex int, bounds geometry.AABB) {
	minCell := sg.worldToCell(bounds.Min)
	maxCell := sg.worldToCell(bounds.Max)

	// Covering more cells than there are buckets: every bucket gets it
	spanX := float64(maxCell.X) - float64(minCell.X) + 1
	spanZ := float64(maxCell.Z) - float64(minCell.Z) + 1
	if spanX <= 0 || spanZ <= 0 || spanX*spanZ >= float64(len(sg.cells)) {
		for i := range sg.cells {
			sg.cells[i].triangleIndices = append(sg.cells[i].triangleIndices, triangleIndex)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for z := minCell.Z; z <= maxCell.Z; z++ {
			cellIdx := sg.hashCell(CellKey{x, z})
			indices := sg.cells[cellIdx].triangleIndices

			// A triangle covering several cells of one bucket is stored once
			if n := len(indices); n > 0 && indices[n-1] == triangleIndex {
				continue
			}
			sg.cells[cellIdx].triangleIndices = append(indices, triangleIndex)
		}
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].triangleIndices) > 1 {
			indices := sg.cells[i].triangleIndices
			sort.Ints(indices)
			sg.cells[i].triangleIndices = compactSorted(indices)
		}
	}
}

// Candidates returns, in ascending order, every triangle that may contain point.
// The slice belongs to the grid.
func (sg *SpatialGrid) Candidates(point mgl64.Vec3) []int {
	return sg.cells[sg.hashCell(sg.worldToCell(point))].triangleIndices
}

// worldToCell - Converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hashes a cell to an index in the bucket array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

func compactSorted(values []int) []int {
	n := 0
	for i, v := range values {
		if i == 0 || v != values[n-1] {
			values[n] = v
			n++
		}
	}
	return values[:n]
}
