// Package corridor turns a chain of adjacent triangles into the portal sequence the funnel
// consumes, and finds such chains on a surface.
package corridor

import (
	"errors"
	"fmt"

	"github.com/akmonengine/navfunnel/geometry"
	"github.com/akmonengine/navfunnel/surface"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoSharedEdge = errors.New("consecutive corridor triangles share no edge")
	ErrNoCorridor   = errors.New("no corridor between triangles")
)

// Portals clears dst and fills it with the portals crossed along path.
//
// Each portal is oriented relative to the triangle it leaves. The sequence is wrapped by a
// (start, start) and an (end, end) portal so the funnel apex begins on the agent. A path of
// one triangle has no portal at all: start sees end.
//
// Orientation is not checked; Validate is the debug-time check for a path.
func Portals(s *surface.Surface, path []int, start, end mgl64.Vec3, dst []geometry.Portal) ([]geometry.Portal, error) {
	dst = dst[:0]
	if len(path) < 2 {
		return dst, nil
	}

	dst = append(dst, geometry.Portal{Left: start, Right: start})
	for i := 0; i+1 < len(path); i++ {
		portal, ok := s.Portal(path[i], path[i+1])
		if !ok {
			return dst[:0], fmt.Errorf("triangles %d -> %d: %w", path[i], path[i+1], ErrNoSharedEdge)
		}
		dst = append(dst, portal)
	}

	return append(dst, geometry.Portal{Left: end, Right: end}), nil
}

// Validate checks that every id of path exists and that consecutive triangles are listed as
// neighbours and share exactly one edge.
func Validate(s *surface.Surface, path []int) error {
	for i, id := range path {
		t, err := s.GetTriangleByIndex(id)
		if err != nil {
			return fmt.Errorf("corridor step %d: %w", i, err)
		}
		if i == 0 {
			continue
		}

		prev := path[i-1]
		if !s.IsAdjacent(prev, id) {
			return fmt.Errorf("corridor step %d: %d is not a neighbour of %d: %w", i, id, prev, surface.ErrNotAdjacent)
		}
		if _, _, ok := surface.GetSharedPortalVertices(s.Triangles[prev], t); !ok {
			return fmt.Errorf("corridor step %d: %w", i, ErrNoSharedEdge)
		}
	}

	return nil
}
