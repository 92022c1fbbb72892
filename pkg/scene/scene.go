package scene

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/geometry"
	"github.com/df07/go-solar-raytracer/pkg/material"
)

// Fixed surface layout of the solar system scene
const (
	StarIndex     = 0
	RockyIndex    = 1
	MoonIndex     = 2
	GasGiantIndex = 3

	// RingIndex identifies a hit on the gas giant's ring plane
	RingIndex = -1
)

// Ring plane bounds, in gas giant radii
const (
	ringInner = 1.35
	ringOuter = 2.6
	ringBands = 40
)

var (
	ringNormal = core.NewVec3(0, 2, 0.26).Normalize()

	ringBase = core.NewVec3(0.86, 0.82, 0.72)
	ringDark = core.NewVec3(0.35, 0.32, 0.30)

	ringAmbient = core.Splat(0.12)
	ambient     = core.NewVec3(0.06, 0.06, 0.07)

	skyBottom = core.NewVec3(0.05, 0.05, 0.08)
	skyTop    = core.NewVec3(0.02, 0.03, 0.06)
)

// Offsets applied along the normal before casting shadow rays
const (
	sphereShadowBias = 0.001
	ringShadowBias   = 0.0005
)

// Scene contains all the elements needed for rendering a frame
type Scene struct {
	Width, Height  int       // Frame size in pixels, may change between frames
	CameraPosition core.Vec3 // Pinhole camera looking down +Z
	FOV            float32   // Vertical field of view in radians
	Surfaces       []Surface // Ordered bodies: star, rocky planet, moon, gas giant
}

// New creates the solar system scene: a light-emitting star, a rocky planet
// with a moon and a ringed gas giant
func New(width, height int) *Scene {
	surfaces := []Surface{
		NewSurface(core.NewVec3(0, 0, 0), 1.4, material.Star, true, 0.0),
		NewSurface(core.NewVec3(-3, 0, 1), 1.0, material.Rocky, false, 0.2),
		NewSurface(core.NewVec3(-2.2, 0, 1.6), 0.28, material.Moon, false, 0.9),
		NewSurface(core.NewVec3(3, 0.5, 1.5), 1.0, material.GasGiant, false, 1.0),
	}
	return NewWithSurfaces(width, height, surfaces)
}

// NewWithSurfaces creates a scene with the default camera and a custom
// surface list. The ring plane and orbits only apply when the list follows
// the four-body layout.
func NewWithSurfaces(width, height int, surfaces []Surface) *Scene {
	return &Scene{
		Width:          width,
		Height:         height,
		CameraPosition: core.NewVec3(0, 0, -9),
		FOV:            1.0,
		Surfaces:       surfaces,
	}
}

// Hit describes the closest surface or ring crossing along a ray
type Hit struct {
	T        float32
	Point    core.Vec3
	Normal   core.Vec3
	Surface  int     // Index into Surfaces, or RingIndex
	Radius   float32 // In-plane distance from the ring center for ring hits
	Diffuse  core.Vec3
	Emissive core.Vec3
}

// IsRing reports whether the hit is on the ring plane
func (h Hit) IsRing() bool {
	return h.Surface == RingIndex
}

// Ring returns the ring plane around the gas giant at its current position.
// It reports false when the scene has no gas giant slot.
func (s *Scene) Ring() (geometry.Ring, bool) {
	if len(s.Surfaces) <= GasGiantIndex {
		return geometry.Ring{}, false
	}
	giant := s.Surfaces[GasGiantIndex]
	return geometry.NewRing(giant.Center, ringNormal, giant.Radius*ringInner, giant.Radius*ringOuter), true
}

// Closest scans the surfaces for the nearest intersection. It returns
// +Inf and -1 when nothing is hit.
func (s *Scene) Closest(ray core.Ray) (float32, int) {
	nearest := math32.Inf(1)
	index := -1
	for i := range s.Surfaces {
		if t, ok := s.Surfaces[i].Intersect(ray); ok && t < nearest {
			nearest = t
			index = i
		}
	}
	return nearest, index
}

// Intersect finds what the ray sees first and shades it. A ring crossing
// strictly nearer than every sphere wins.
func (s *Scene) Intersect(ray core.Ray, time float32) (Hit, bool) {
	nearest, index := s.Closest(ray)

	if ring, ok := s.Ring(); ok {
		if rh, isHit := ring.Hit(ray, nearest); isHit {
			return Hit{
				T:       rh.T,
				Point:   rh.Point,
				Normal:  ring.Normal,
				Surface: RingIndex,
				Radius:  rh.Radius,
				Diffuse: ringColor(ring, rh.Radius),
			}, true
		}
	}

	if index < 0 {
		return Hit{}, false
	}

	surface := s.Surfaces[index]
	point := ray.At(nearest)
	normal := surface.NormalAt(point)
	shade := surface.Shade(point, normal, time)

	return Hit{
		T:        nearest,
		Point:    point,
		Normal:   normal,
		Surface:  index,
		Diffuse:  shade.Diffuse,
		Emissive: shade.Emissive,
	}, true
}

// Trace returns the tone-mapped color seen along a ray
func (s *Scene) Trace(ray core.Ray, time float32) core.Vec3 {
	hit, ok := s.Intersect(ray, time)
	if !ok {
		return SkyColor(ray.Direction)
	}
	return s.Shade(hit, time)
}

// Shade lights a hit returned by Intersect and tone-maps the result
func (s *Scene) Shade(hit Hit, time float32) core.Vec3 {
	if hit.IsRing() {
		return s.litRing(hit, time)
	}
	return s.litSphere(hit, time)
}

// SkyColor returns the background gradient for a ray direction
func SkyColor(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Y + 1)
	return skyBottom.Multiply(1 - t).Add(skyTop.Multiply(t))
}

// ToneMap applies the square-root gamma curve and clamps to [0,1]
func ToneMap(color core.Vec3) core.Vec3 {
	return color.Sqrt().Clamp(0, 1)
}

// ringColor is the banded base color of the ring at an in-plane distance
func ringColor(ring geometry.Ring, radius float32) core.Vec3 {
	bands := math32.Abs(math32.Sin(ring.BandPosition(radius) * ringBands))
	mask := 0.5 + 0.5*bands
	return ringBase.Multiply(0.6 + 0.8*mask).Add(ringDark.Multiply(0.25 * (1 - mask)))
}
