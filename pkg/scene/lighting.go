package scene

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

const (
	sphereShininess = 40
	sphereSpecular  = 0.2
	ringShininess   = 8
	ringSpecular    = 0.25
	ringLightGain   = 1.8
)

// attenuation is the inverse-square-like falloff with distance to a light
func attenuation(distance float32) float32 {
	return 1 / (0.5 + 0.1*distance*distance)
}

// occluded reports whether any surface other than the light blocks the
// shadow ray before it reaches the light. A blocker exactly at the light's
// distance does not count.
func (s *Scene) occluded(shadow core.Ray, lightDistance float32, light int) bool {
	for i := range s.Surfaces {
		if i == light {
			continue
		}
		if t, ok := s.Surfaces[i].Intersect(shadow); ok && t < lightDistance {
			return true
		}
	}
	return false
}

// visibleLights calls fn for every light that reaches point unblocked,
// passing the light index, the unit direction to it and its distance
func (s *Scene) visibleLights(point, normal core.Vec3, bias float32, fn func(light int, dir core.Vec3, distance float32)) {
	origin := point.Add(normal.Multiply(bias))
	for i := range s.Surfaces {
		if !s.Surfaces[i].IsLight {
			continue
		}
		toLight := s.Surfaces[i].Center.Subtract(point)
		distance := toLight.Length()
		dir := toLight.Normalize()

		if s.occluded(core.NewRay(origin, dir), distance, i) {
			continue
		}
		fn(i, dir, distance)
	}
}

// litSphere combines a sphere hit's shading with ambient, Lambertian and
// Blinn specular light from every visible light
func (s *Scene) litSphere(hit Hit, time float32) core.Vec3 {
	view := s.CameraPosition.Subtract(hit.Point).Normalize()

	var lighting core.Vec3
	s.visibleLights(hit.Point, hit.Normal, sphereShadowBias, func(light int, dir core.Vec3, distance float32) {
		lambert := max(0, hit.Normal.Dot(dir))
		att := attenuation(distance)
		lighting = lighting.Add(s.Surfaces[light].Emission(time).Multiply(lambert * att))

		half := view.Add(dir).Normalize()
		spec := math32.Pow(max(0, hit.Normal.Dot(half)), sphereShininess) * sphereSpecular
		lighting = lighting.Add(core.Splat(spec * att))
	})

	color := hit.Diffuse.MultiplyVec(ambient.Add(lighting)).Add(hit.Emissive)
	return ToneMap(color)
}

// litRing lights the ring band. Its specular highlight always follows the
// star, independent of shadowing.
func (s *Scene) litRing(hit Hit, time float32) core.Vec3 {
	var lighting core.Vec3
	s.visibleLights(hit.Point, hit.Normal, ringShadowBias, func(light int, dir core.Vec3, distance float32) {
		lambert := max(0, hit.Normal.Dot(dir))
		lighting = lighting.Add(s.Surfaces[light].Emission(time).Multiply(lambert * attenuation(distance)))
	})

	color := hit.Diffuse.MultiplyVec(ringAmbient.Add(lighting.Multiply(ringLightGain)))

	view := s.CameraPosition.Subtract(hit.Point).Normalize()
	toStar := s.Surfaces[StarIndex].Center.Subtract(hit.Point).Normalize()
	half := view.Add(toStar).Normalize()
	spec := math32.Pow(max(0, hit.Normal.Dot(half)), ringShininess) * ringSpecular
	color = color.Add(core.Splat(spec))

	return ToneMap(color)
}
