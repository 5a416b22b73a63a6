// Package geometry holds the navmesh triangle type and the point/triangle predicates
// the funnel relies on.
//
// Every "2D" predicate works on the XZ projection: Y is the vertical axis and is ignored
// for containment and turn-direction tests. Distances used for ranking stay in 3D.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateArea is the projected area under which a triangle has no usable interior.
const degenerateArea = 1e-12

// Triangle is one navmesh face.
// Ia, Ib, Ic index the vertex pool of the owning surface; PointA, PointB, PointC are the
// matching world positions.
type Triangle struct {
	Ia, Ib, Ic             int
	PointA, PointB, PointC mgl64.Vec3
	Centroid               mgl64.Vec3
}

// Portal is the shared edge between two adjacent triangles.
// It is oriented so that SignedArea2D(c, Left, Right) > 0, c being the centroid of the
// triangle the corridor leaves; the funnel legs rely on that orientation.
type Portal struct {
	Left  mgl64.Vec3
	Right mgl64.Vec3
}

// NewTriangle creates a triangle and derives its centroid
func NewTriangle(ia, ib, ic int, a, b, c mgl64.Vec3) Triangle {
	return Triangle{
		Ia:       ia,
		Ib:       ib,
		Ic:       ic,
		PointA:   a,
		PointB:   b,
		PointC:   c,
		Centroid: a.Add(b).Add(c).Mul(1.0 / 3.0),
	}
}

// Indices returns the three vertex indices in declaration order.
func (t Triangle) Indices() [3]int {
	return [3]int{t.Ia, t.Ib, t.Ic}
}

// Points returns the three positions in declaration order.
func (t Triangle) Points() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.PointA, t.PointB, t.PointC}
}

// AABB returns the bounding box of the triangle
func (t Triangle) AABB() AABB {
	box := AABB{Min: t.PointA, Max: t.PointA}
	box = box.Extend(t.PointB)
	return box.Extend(t.PointC)
}

// IsDegenerate reports whether the projected triangle has (almost) no area.
func (t Triangle) IsDegenerate() bool {
	area := SignedArea2D(t.PointA, t.PointB, t.PointC)
	return math.IsNaN(area) || math.Abs(area) < degenerateArea
}

// IsPointInTriangle reports whether point, projected on the XZ plane, lies inside the
// triangle or on its boundary.
// Degenerate triangles contain nothing, and NaN coordinates are never inside.
func IsPointInTriangle(point mgl64.Vec3, t Triangle) bool {
	if t.IsDegenerate() {
		return false
	}

	d1 := SignedArea2D(t.PointA, t.PointB, point)
	d2 := SignedArea2D(t.PointB, t.PointC, point)
	d3 := SignedArea2D(t.PointC, t.PointA, point)
	if math.IsNaN(d1) || math.IsNaN(d2) || math.IsNaN(d3) {
		return false
	}

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

// ClosestPointOnTriangle returns the point of the triangle surface closest to p.
//
// The Voronoi regions of the vertices and edges are tested in turn (Ericson, "Real-Time
// Collision Detection", 5.1.5); a point in none of them projects inside the face.
// Degenerate triangles fall back to the closest point on their three edges.
func ClosestPointOnTriangle(p mgl64.Vec3, t Triangle) mgl64.Vec3 {
	a, b, c := t.PointA, t.PointB, t.PointC
	ab := b.Sub(a)
	ac := c.Sub(a)

	if ab.Cross(ac).LenSqr() < degenerateArea {
		return closestPointOnEdges(p, a, b, c)
	}

	// Vertex region A
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Vertex region B
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Edge region AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	// Vertex region C
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Edge region AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	// Edge region BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	// Face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

func closestPointOnEdges(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	best := closestPointOnSegment(p, a, b)
	bestDist := best.Sub(p).LenSqr()

	for _, edge := range [2][2]mgl64.Vec3{{b, c}, {c, a}} {
		q := closestPointOnSegment(p, edge[0], edge[1])
		if d := q.Sub(p).LenSqr(); d < bestDist {
			best = q
			bestDist = d
		}
	}

	return best
}

// DistanceToTriangleSq returns the squared distance from point to the triangle surface.
// It is zero when the point lies on the triangle.
func DistanceToTriangleSq(point mgl64.Vec3, t Triangle) float64 {
	return ClosestPointOnTriangle(point, t).Sub(point).LenSqr()
}
