package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// EqualEpsilon is the distance under which two points are considered identical.
// Both funnel legs compare against it, so it must stay a single constant.
const EqualEpsilon = 1e-3

const equalEpsilonSqr = EqualEpsilon * EqualEpsilon

// Equal reports whether a and b are closer than EqualEpsilon.
func Equal(a, b mgl64.Vec3) bool {
	return a.Sub(b).LenSqr() < equalEpsilonSqr
}

// SignedArea2D returns twice the signed area of the triangle (a, b, c) projected on the XZ plane.
//
// The result is positive when the vertices wind counter-clockwise seen from above (+Y) in a
// right-handed Y-up frame: c lies to the left of the ray a->b for an observer walking along it.
// Zero means the three points are collinear once projected.
func SignedArea2D(a, b, c mgl64.Vec3) float64 {
	abx := b.X() - a.X()
	abz := b.Z() - a.Z()
	acx := c.X() - a.X()
	acz := c.Z() - a.Z()
	return acx*abz - abx*acz
}

// closestPointOnSegment returns the closest point to p on the 3D segment [a, b].
func closestPointOnSegment(p, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lenSqr := ab.LenSqr()
	if lenSqr == 0 {
		return a
	}

	t := p.Sub(a).Dot(ab) / lenSqr
	t = mgl64.Clamp(t, 0, 1)
	return a.Add(ab.Mul(t))
}
