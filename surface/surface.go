// Package surface indexes an immutable navmesh: a vertex pool, its triangles and the
// triangle adjacency table.
//
// A Surface is built once and then only read. Every query is a pure function of the
// surface and its arguments, so a single Surface can be shared by any number of
// goroutines without locking.
//
// Adjacency is stored flattened: the neighbours of triangle i are
// Adjacency[AdjacencyOffsets[i] : AdjacencyOffsets[i]+AdjacencyCounts[i]].
package surface

import (
	"errors"
	"fmt"
	"sort"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// NoTriangle is the index reported when a spatial query finds nothing.
const NoTriangle = -1

var (
	ErrIndexOutOfRange     = errors.New("triangle index out of range")
	ErrInvalidIndex        = errors.New("vertex index out of range")
	ErrDegenerateInput     = errors.New("invalid surface input")
	ErrAsymmetricAdjacency = errors.New("adjacency is not symmetric")
	ErrNotAdjacent         = errors.New("adjacent triangles do not share an edge")
)

// Surface is a read-only navmesh: vertices, triangles and their flattened adjacency.
type Surface struct {
	Vertices  []mgl64.Vec3
	Triangles []geometry.Triangle

	AdjacencyOffsets []int
	AdjacencyCounts  []int
	Adjacency        []int

	grid *SpatialGrid
}

// Build creates a surface from a vertex pool and a flat list of triangle vertex indices
// (three per triangle). Adjacency is derived from the edges the triangles share.
func Build(vertices []mgl64.Vec3, indices []int) (*Surface, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices is not a multiple of 3: %w", len(indices), ErrDegenerateInput)
	}

	triangles := make([]geometry.Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		for _, idx := range [3]int{ia, ib, ic} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("triangle %d references vertex %d: %w", i/3, idx, ErrInvalidIndex)
			}
		}
		if ia == ib || ib == ic || ia == ic {
			return nil, fmt.Errorf("triangle %d repeats a vertex index: %w", i/3, ErrDegenerateInput)
		}
		triangles = append(triangles, geometry.NewTriangle(ia, ib, ic, vertices[ia], vertices[ib], vertices[ic]))
	}

	offsets, counts, adjacency := buildAdjacency(triangles)

	s := &Surface{
		Vertices:         vertices,
		Triangles:        triangles,
		AdjacencyOffsets: offsets,
		AdjacencyCounts:  counts,
		Adjacency:        adjacency,
	}
	s.grid = newGridFor(s.Triangles)

	return s, nil
}

// New wraps externally produced triangles and adjacency, checking the surface invariants.
func New(vertices []mgl64.Vec3, triangles []geometry.Triangle, offsets, counts, adjacency []int) (*Surface, error) {
	s := &Surface{
		Vertices:         vertices,
		Triangles:        triangles,
		AdjacencyOffsets: offsets,
		AdjacencyCounts:  counts,
		Adjacency:        adjacency,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.grid = newGridFor(s.Triangles)

	return s, nil
}

type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(a, b int) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// buildAdjacency links every pair of triangles sharing an edge.
// Neighbours are listed in ascending triangle order.
func buildAdjacency(triangles []geometry.Triangle) ([]int, []int, []int) {
	edges := make(map[edgeKey][]int, len(triangles)*3/2)
	for i, t := range triangles {
		idx := t.Indices()
		for e := 0; e < 3; e++ {
			key := makeEdgeKey(idx[e], idx[(e+1)%3])
			edges[key] = append(edges[key], i)
		}
	}

	neighbours := make([][]int, len(triangles))
	for i, t := range triangles {
		idx := t.Indices()
		for e := 0; e < 3; e++ {
			for _, other := range edges[makeEdgeKey(idx[e], idx[(e+1)%3])] {
				if other != i && !containsInt(neighbours[i], other) && sharedIndexCount(t, triangles[other]) == 2 {
					neighbours[i] = append(neighbours[i], other)
				}
			}
		}
		sort.Ints(neighbours[i])
	}

	offsets := make([]int, len(triangles))
	counts := make([]int, len(triangles))
	adjacency := make([]int, 0, len(triangles)*3)
	for i, n := range neighbours {
		offsets[i] = len(adjacency)
		counts[i] = len(n)
		adjacency = append(adjacency, n...)
	}

	return offsets, counts, adjacency
}

// Validate checks that indices are in range, adjacency is symmetric and every adjacent
// pair shares exactly two vertex indices.
func (s *Surface) Validate() error {
	n := len(s.Triangles)
	if len(s.AdjacencyOffsets) != n || len(s.AdjacencyCounts) != n {
		return fmt.Errorf("adjacency table sized %d/%d for %d triangles: %w",
			len(s.AdjacencyOffsets), len(s.AdjacencyCounts), n, ErrDegenerateInput)
	}

	for i, t := range s.Triangles {
		for _, idx := range t.Indices() {
			if idx < 0 || idx >= len(s.Vertices) {
				return fmt.Errorf("triangle %d references vertex %d: %w", i, idx, ErrInvalidIndex)
			}
		}

		offset, count := s.AdjacencyOffsets[i], s.AdjacencyCounts[i]
		if offset < 0 || count < 0 || offset+count > len(s.Adjacency) {
			return fmt.Errorf("triangle %d adjacency range [%d, %d) outside %d entries: %w",
				i, offset, offset+count, len(s.Adjacency), ErrDegenerateInput)
		}
	}

	for i := range s.Triangles {
		for _, j := range s.Neighbors(i) {
			if j < 0 || j >= n {
				return fmt.Errorf("triangle %d lists neighbour %d: %w", i, j, ErrIndexOutOfRange)
			}
			if !containsInt(s.Neighbors(j), i) {
				return fmt.Errorf("triangle %d lists %d but not the reverse: %w", i, j, ErrAsymmetricAdjacency)
			}
			if shared := sharedIndexCount(s.Triangles[i], s.Triangles[j]); shared != 2 {
				return fmt.Errorf("triangles %d and %d share %d vertices: %w", i, j, shared, ErrNotAdjacent)
			}
		}
	}

	return nil
}

// TriangleCount returns the number of triangles
func (s *Surface) TriangleCount() int {
	return len(s.Triangles)
}

// Neighbors returns the ids of the triangles sharing an edge with triangle i.
// The returned slice aliases the adjacency table and must not be modified.
func (s *Surface) Neighbors(i int) []int {
	if i < 0 || i >= len(s.AdjacencyOffsets) {
		return nil
	}
	offset := s.AdjacencyOffsets[i]
	return s.Adjacency[offset : offset+s.AdjacencyCounts[i]]
}

// IsAdjacent reports whether j is listed as a neighbour of i.
func (s *Surface) IsAdjacent(i, j int) bool {
	return containsInt(s.Neighbors(i), j)
}

// GetTriangleByIndex returns triangle i. It never clamps.
func (s *Surface) GetTriangleByIndex(i int) (geometry.Triangle, error) {
	if i < 0 || i >= len(s.Triangles) {
		return geometry.Triangle{}, fmt.Errorf("index %d, count %d: %w", i, len(s.Triangles), ErrIndexOutOfRange)
	}
	return s.Triangles[i], nil
}

// FindTriangleContainingPoint scans the triangles in ascending order and returns the first
// one containing point (XZ projection, boundary inclusive).
func (s *Surface) FindTriangleContainingPoint(point mgl64.Vec3) (int, bool) {
	for i, t := range s.Triangles {
		if geometry.IsPointInTriangle(point, t) {
			return i, true
		}
	}
	return NoTriangle, false
}

// Locate answers the same question as FindTriangleContainingPoint through the spatial grid,
// only testing the triangles whose bounds share the point's cell.
func (s *Surface) Locate(point mgl64.Vec3) (int, bool) {
	return s.locate(s.grid, point)
}

func (s *Surface) locate(grid *SpatialGrid, point mgl64.Vec3) (int, bool) {
	if grid == nil {
		return s.FindTriangleContainingPoint(point)
	}

	for _, i := range grid.Candidates(point) {
		if !grid.bounds[i].ContainsPoint2D(point) {
			continue
		}
		if geometry.IsPointInTriangle(point, s.Triangles[i]) {
			return i, true
		}
	}
	return NoTriangle, false
}

// FindClosestTriangle returns the triangle minimizing DistanceToTriangleSq.
// Ties keep the lowest index. It only fails on an empty surface.
func (s *Surface) FindClosestTriangle(point mgl64.Vec3) (int, bool) {
	best := NoTriangle
	bestDist := 0.0

	for i, t := range s.Triangles {
		d := geometry.DistanceToTriangleSq(point, t)
		if best == NoTriangle || d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best, best != NoTriangle
}

func sharedIndexCount(t1, t2 geometry.Triangle) int {
	shared := 0
	for _, a := range t1.Indices() {
		for _, b := range t2.Indices() {
			if a == b {
				shared++
				break
			}
		}
	}
	return shared
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
