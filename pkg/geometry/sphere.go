package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// MinHitDistance is the smallest ray parameter accepted as a hit. It keeps
// rays leaving a surface from hitting that same surface again.
const MinHitDistance = 0.001

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float32
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Intersect returns the nearest ray parameter beyond MinHitDistance where
// the ray meets the sphere
func (s Sphere) Intersect(ray core.Ray) (float32, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	t1 := (-b - sqrtD) / (2 * a)
	if t1 > MinHitDistance {
		return t1, true
	}
	t2 := (-b + sqrtD) / (2 * a)
	if t2 > MinHitDistance {
		return t2, true
	}
	return 0, false
}

// NormalAt returns the outward unit normal for a point on the sphere
func (s Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Contains reports whether a point lies strictly inside the sphere
func (s Sphere) Contains(point core.Vec3) bool {
	return point.Subtract(s.Center).LengthSquared() < s.Radius*s.Radius
}
