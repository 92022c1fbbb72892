package material

import (
	"fmt"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// ShadeInput is everything a procedural shader reads for one hit
type ShadeInput struct {
	Point  core.Vec3 // Hit point in world space
	Normal core.Vec3 // Unit surface normal at the hit
	Center core.Vec3 // Center of the shaded body
	Radius float32   // Radius of the shaded body
	Time   float32   // Animation time in seconds
}

// Local returns the unit offset of the hit point from the body center
func (in ShadeInput) Local() core.Vec3 {
	return in.Point.Subtract(in.Center).Normalize()
}

// ShadeResult holds the two colors a shader produces
type ShadeResult struct {
	Diffuse  core.Vec3 // Reflectance-like color, roughly [0,1] per channel
	Emissive core.Vec3 // Additive self-light, zero for non-emitters
}

// Shade dispatches to the procedural shader for the kind
func Shade(kind Kind, in ShadeInput) ShadeResult {
	switch kind {
	case Star:
		return shadeStar(in)
	case Rocky:
		return shadeRocky(in)
	case GasGiant:
		return shadeGasGiant(in)
	case Moon:
		return shadeMoon(in)
	default:
		panic(fmt.Sprintf("material: unknown surface kind %d", int(kind)))
	}
}
