package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// parallelEpsilon is the smallest |D·N| for which a ray is not treated as
// parallel to the ring plane
const parallelEpsilon = 1e-6

// Ring is a flat annulus lying in an infinite plane through Center. Points
// belong to the band when their in-plane distance from Center is strictly
// between Inner and Outer.
type Ring struct {
	Center core.Vec3 // A point on the plane, the ring's center
	Normal core.Vec3 // Plane normal (normalized)
	Inner  float32   // Inner band radius (exclusive)
	Outer  float32   // Outer band radius (exclusive)
}

// NewRing creates a ring, normalizing the plane normal
func NewRing(center, normal core.Vec3, inner, outer float32) Ring {
	return Ring{
		Center: center,
		Normal: normal.Normalize(),
		Inner:  inner,
		Outer:  outer,
	}
}

// RingHit describes where a ray crossed the ring plane
type RingHit struct {
	T      float32   // Ray parameter
	Point  core.Vec3 // Hit point on the plane
	Radius float32   // In-plane distance from the ring center
}

// PlaneHit intersects the ray with the ring's plane. Only crossings with
// 0 < t < tMax are reported; the band is not checked.
func (r Ring) PlaneHit(ray core.Ray, tMax float32) (RingHit, bool) {
	denominator := ray.Direction.Dot(r.Normal)

	// Ray is parallel to the plane
	if math32.Abs(denominator) <= parallelEpsilon {
		return RingHit{}, false
	}

	t := r.Center.Subtract(ray.Origin).Dot(r.Normal) / denominator
	if t <= 0 || t >= tMax {
		return RingHit{}, false
	}

	point := ray.At(t)
	return RingHit{T: t, Point: point, Radius: r.PlanarDistance(point)}, true
}

// Hit intersects the ray with the plane and accepts the crossing only when
// it lands inside the band
func (r Ring) Hit(ray core.Ray, tMax float32) (RingHit, bool) {
	hit, ok := r.PlaneHit(ray, tMax)
	if !ok || !r.InBand(hit.Radius) {
		return RingHit{}, false
	}
	return hit, true
}

// PlanarDistance returns the distance from the ring center to the point
// after removing the component along the plane normal
func (r Ring) PlanarDistance(point core.Vec3) float32 {
	v := point.Subtract(r.Center)
	inPlane := v.Subtract(r.Normal.Multiply(v.Dot(r.Normal)))
	return inPlane.Length()
}

// InBand reports whether an in-plane distance falls strictly inside the
// annulus. Both boundaries are excluded.
func (r Ring) InBand(radius float32) bool {
	return radius > r.Inner && radius < r.Outer
}

// BandPosition maps an in-band distance to [0, 1] across the annulus
func (r Ring) BandPosition(radius float32) float32 {
	return (radius - r.Inner) / (r.Outer - r.Inner)
}
