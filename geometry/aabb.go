package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint2D checks if a point is inside the AABB, ignoring the vertical axis
func (a AABB) ContainsPoint2D(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Extend grows the box so that it contains point.
func (a AABB) Extend(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}
