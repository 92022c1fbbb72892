package scene

import (
	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/geometry"
	"github.com/df07/go-solar-raytracer/pkg/material"
)

// Surface is a shaded sphere in the scene
type Surface struct {
	geometry.Sphere
	Kind    material.Kind
	IsLight bool    // Surface illuminates others with its emissive color
	Phase   float32 // Per-body rotation/phase value, informational
}

// NewSurface creates a new surface
func NewSurface(center core.Vec3, radius float32, kind material.Kind, isLight bool, phase float32) Surface {
	return Surface{
		Sphere:  geometry.NewSphere(center, radius),
		Kind:    kind,
		IsLight: isLight,
		Phase:   phase,
	}
}

// Shade runs the surface's procedural shader for a hit
func (s Surface) Shade(point, normal core.Vec3, time float32) material.ShadeResult {
	return material.Shade(s.Kind, material.ShadeInput{
		Point:  point,
		Normal: normal,
		Center: s.Center,
		Radius: s.Radius,
		Time:   time,
	})
}

// Emission returns the color a light surface casts on others. Lights are
// shaded at their own center, where the star glow peaks.
func (s Surface) Emission(time float32) core.Vec3 {
	return s.Shade(s.Center, core.NewVec3(0, 1, 0), time).Emissive
}
