package surface

import (
	"github.com/akmonengine/navfunnel/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// GetSharedPortalVertices returns the edge shared by t1 and t2, matched by vertex index.
//
// The endpoints are ordered so that SignedArea2D(t1.Centroid, p1, p2) > 0, which makes p1 the
// Left end of a geometry.Portal leaving t1. ok is false, with zero points, unless exactly two
// vertices are shared; identical triangles (three shared vertices) are rejected as well.
func GetSharedPortalVertices(t1, t2 geometry.Triangle) (p1, p2 mgl64.Vec3, ok bool) {
	indices1 := t1.Indices()
	points1 := t1.Points()
	indices2 := t2.Indices()

	var shared [3]mgl64.Vec3
	count := 0
	for i, a := range indices1 {
		for _, b := range indices2 {
			if a == b {
				shared[count] = points1[i]
				count++
				break
			}
		}
	}

	if count != 2 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	p1, p2 = shared[0], shared[1]
	if geometry.SignedArea2D(t1.Centroid, p1, p2) <= 0 {
		p1, p2 = p2, p1
	}

	return p1, p2, true
}

// Portal returns the oriented portal crossed when walking from triangle `from` to `to`.
func (s *Surface) Portal(from, to int) (geometry.Portal, bool) {
	if from < 0 || from >= len(s.Triangles) || to < 0 || to >= len(s.Triangles) {
		return geometry.Portal{}, false
	}

	left, right, ok := GetSharedPortalVertices(s.Triangles[from], s.Triangles[to])
	if !ok {
		return geometry.Portal{}, false
	}
	return geometry.Portal{Left: left, Right: right}, true
}
