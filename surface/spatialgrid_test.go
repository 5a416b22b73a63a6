package surface

import (
	"sort"
	"testing"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -4}},
		{"fractional", mgl64.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0}, 0},
		{"simple", CellKey{1, 2}, 3},
		{"negative", CellKey{-1, -2}, 1},
		{"large", CellKey{100, 300}, 0},
		{"mixed", CellKey{3, -7}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			if result < 0 || result >= len(grid.cells) {
				t.Errorf("hashCell(%v) = %d, out of range [0, %d)", tt.key, result, len(grid.cells))
			}
			if result != tt.expected {
				t.Errorf("hashCell(%v) = %d, want %d", tt.key, result, tt.expected)
			}
		})
	}
}

func TestNewSpatialGrid(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
		numCells int
		wantSize float64
		wantLen  int
	}{
		{"power of two kept", 2, 16, 2, 16},
		{"rounded up", 0.5, 17, 0.5, 32},
		{"zero cells", 1, 0, 1, 1},
		{"zero cell size", 0, 8, 1, 8},
		{"negative cell size", -3, 8, 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewSpatialGrid(tt.cellSize, tt.numCells)
			if grid.cellSize != tt.wantSize {
				t.Errorf("cellSize = %v, want %v", grid.cellSize, tt.wantSize)
			}
			if len(grid.cells) != tt.wantLen || grid.cellMask != tt.wantLen-1 {
				t.Errorf("got %d cells / mask %d, want %d", len(grid.cells), grid.cellMask, tt.wantLen)
			}
		})
	}
}

func TestInsertTriangle(t *testing.T) {
	grid := NewSpatialGrid(1.0, 64)
	tri := geometry.NewTriangle(0, 1, 2, mgl64.Vec3{0.2, 0, 0.2}, mgl64.Vec3{2.5, 0, 0.2}, mgl64.Vec3{0.2, 0, 1.5})

	grid.Insert(7, tri.AABB())

	for x := 0; x <= 2; x++ {
		for z := 0; z <= 1; z++ {
			found := false
			for _, idx := range grid.cells[grid.hashCell(CellKey{x, z})].triangleIndices {
				if idx == 7 {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("triangle missing from cell (%d, %d)", x, z)
			}
		}
	}
}

func TestInsertLargeTriangle(t *testing.T) {
	grid := NewSpatialGrid(1.0, 4)
	tri := geometry.NewTriangle(0, 1, 2, mgl64.Vec3{-10, 0, -10}, mgl64.Vec3{10, 0, -10}, mgl64.Vec3{0, 0, 10})

	grid.Insert(0, tri.AABB())

	for i, cell := range grid.cells {
		if len(cell.triangleIndices) != 1 || cell.triangleIndices[0] != 0 {
			t.Errorf("bucket %d = %v, want [0]", i, cell.triangleIndices)
		}
	}
}

func TestSortCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	grid.cells[0].triangleIndices = append(grid.cells[0].triangleIndices, 5, 2, 8, 1, 9, 2, 3, 5)
	grid.SortCells()

	if !sort.IntsAreSorted(grid.cells[0].triangleIndices) {
		t.Error("cell indices should be sorted")
	}

	expected := []int{1, 2, 3, 5, 8, 9}
	if len(grid.cells[0].triangleIndices) != len(expected) {
		t.Fatalf("got %v, want %v", grid.cells[0].triangleIndices, expected)
	}
	for i, idx := range grid.cells[0].triangleIndices {
		if idx != expected[i] {
			t.Errorf("expected index %d at position %d, got %d", expected[i], i, idx)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	for _, tt := range []struct{ in, out int }{{-4, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {9, 16}, {1024, 1024}} {
		if got := nextPowerOfTwo(tt.in); got != tt.out {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.out)
		}
	}
}

func BenchmarkLocate(b *testing.B) {
	const size = 64

	vertices := make([]mgl64.Vec3, 0, (size+1)*(size+1))
	for z := 0; z <= size; z++ {
		for x := 0; x <= size; x++ {
			vertices = append(vertices, mgl64.Vec3{float64(x), 0, float64(z)})
		}
	}
	indices := make([]int, 0, size*size*6)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			v0 := z*(size+1) + x
			v1 := v0 + 1
			v2 := v0 + size + 1
			v3 := v2 + 1
			indices = append(indices, v0, v1, v2, v1, v3, v2)
		}
	}

	s, err := Build(vertices, indices)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Locate(mgl64.Vec3{float64(i%size) + 0.3, 0, float64((i/size)%size) + 0.6})
	}
}
