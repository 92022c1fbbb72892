package material

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/noise"
)

var (
	starEmission = core.NewVec3(1.0, 0.85, 0.5)
	starSurface  = core.NewVec3(1.0, 0.9, 0.6)

	rockBase = core.NewVec3(0.32, 0.24, 0.18)
	rockRim  = core.NewVec3(0.05, 0.05, 0.06)

	gasBase  = core.NewVec3(0.45, 0.55, 0.85)
	gasSwirl = core.NewVec3(0.05, 0.08, 0.12)
	gasRing  = core.NewVec3(0.85, 0.8, 0.7)

	moonBase = core.NewVec3(0.7, 0.7, 0.75)

	up = core.NewVec3(0, 1, 0)
)

// Ring band drawn on the gas giant's own surface, in body radii. These
// differ from the ring plane bounds in the scene and are kept separate.
const (
	surfaceRingInner = 1.4
	surfaceRingOuter = 2.4
	surfaceRingBands = 30
)

// shadeStar produces a radial glow with a flickering emissive core
func shadeStar(in ShadeInput) ShadeResult {
	r := in.Point.Subtract(in.Center).Length() / in.Radius
	glow := math32.Pow(max(0, 1-r), 1.5)

	t := in.Time * 0.8
	p := in.Point
	flicker := 0.8 + 0.4*noise.Noise3(core.NewVec3(p.X*3+t, p.Y*3, p.Z*3))

	return ShadeResult{
		Diffuse:  starSurface.Multiply(0.4 + 0.6*glow),
		Emissive: starEmission.Multiply(glow * flicker * 2.5),
	}
}

// shadeRocky layers slow fbm tint, latitude/longitude continent bands and
// darkened craters, then adds a faint rim term
func shadeRocky(in ShadeInput) ShadeResult {
	local := in.Local()
	lat := math32.Asin(local.Y)
	lon := math32.Atan2(local.Z, local.X)

	h := noise.FBM(local.Multiply(3).Add(core.NewVec3(in.Time*0.05, 0, 0)), 4) * 0.5
	base := rockBase.Add(core.NewVec3(h*0.15, h*0.1, h*0.05))

	band := math32.Pow(math32.Sin(lat*6+lon*2+in.Time*0.2)*0.5+0.5, 1.3)
	base = base.Multiply(0.7 + 0.6*band)

	var craterMask float32
	if craterNoise := noise.Noise3(local.Multiply(12)); craterNoise > 0.7 {
		craterMask = (craterNoise - 0.7) / 0.3
	}
	crater := base.Multiply(0.5)
	color := base.Multiply(1 - craterMask).Add(crater.Multiply(craterMask))

	rim := math32.Pow(1-math32.Abs(in.Normal.Dot(up)), 3) * 0.2

	return ShadeResult{Diffuse: color.Add(rockRim.Multiply(rim))}
}

// shadeGasGiant draws latitude bands with fbm swirls, plus a ring band
// wherever the planar distance from the spin axis lands in the annulus
func shadeGasGiant(in ShadeInput) ShadeResult {
	local := in.Local()

	band := 0.5 + 0.5*math32.Sin(local.Y*10+in.Time*0.5)
	color := gasBase.Multiply(0.6 + 0.8*band)

	swirl := noise.FBM(local.Multiply(6).Add(core.NewVec3(0, in.Time*0.3, 0)), 5) * 0.25
	color = color.Add(gasSwirl.Multiply(swirl))

	rp := in.Point.Subtract(in.Center)
	dist := math32.Sqrt(rp.X*rp.X + rp.Z*rp.Z)

	inner := in.Radius * surfaceRingInner
	outer := in.Radius * surfaceRingOuter
	var ring float32
	if dist > inner && dist < outer {
		ring = math32.Abs(math32.Sin((dist - inner) / (outer - inner) * surfaceRingBands))
	}

	return ShadeResult{Diffuse: color.Add(gasRing.Multiply(ring * 1.5))}
}

// shadeMoon is gray modulated by fbm
func shadeMoon(in ShadeInput) ShadeResult {
	n := noise.FBM(in.Local().Multiply(10), 4)
	return ShadeResult{Diffuse: moonBase.Multiply(0.6 + 0.6*n)}
}
