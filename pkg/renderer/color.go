package renderer

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// PackRGB packs a color into a 0x00RRGGBB pixel. Channels are clamped to
// [0,1] and NaN becomes 0.
func PackRGB(c core.Vec3) uint32 {
	return channel(c.X)<<16 | channel(c.Y)<<8 | channel(c.Z)
}

// UnpackRGB splits a packed pixel into its 8-bit channels
func UnpackRGB(pixel uint32) (r, g, b uint8) {
	return uint8(pixel >> 16), uint8(pixel >> 8), uint8(pixel)
}

func channel(v float32) uint32 {
	if math32.IsNaN(v) {
		return 0
	}
	return uint32(min(max(v, 0), 1) * 255)
}
