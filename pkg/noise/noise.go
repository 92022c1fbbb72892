// Package noise provides deterministic cell noise and fractal sums of it
// for procedural surface shading.
package noise

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// Hash maps an integer seed to a pseudo-random value in [0, 1].
// The same seed always yields the same value.
func Hash(n uint32) float32 {
	n = (n ^ 61) + (n << 3)
	n ^= n >> 4
	n *= 0x27d4eb2d
	n ^= n >> 15
	return float32(n) / float32(math.MaxUint32)
}

// Noise3 returns cell noise for a point. Coordinates are scaled and
// truncated before hashing, so the value is constant inside a cell and
// jumps at cell boundaries.
func Noise3(p core.Vec3) float32 {
	xi := cell(p.X * 12.9898)
	yi := cell(p.Y * 78.233)
	zi := cell(p.Z * 37.719)
	n := uint32(xi)*73856093 ^ uint32(yi)*19349663 ^ uint32(zi)*83492791
	return Hash(n)
}

// cell truncates toward zero, saturating at the int32 range. NaN maps to 0.
func cell(v float32) int32 {
	switch {
	case math32.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

// FBM sums octaves of Noise3, doubling frequency and halving amplitude
// each octave starting from (1, 1). The result is not normalized; it grows
// towards 2 as octaves increases.
func FBM(p core.Vec3, octaves int) float32 {
	var sum float32
	amp := float32(1)
	freq := float32(1)
	for i := 0; i < octaves; i++ {
		sum += Noise3(p.Multiply(freq)) * amp
		freq *= 2
		amp *= 0.5
	}
	return sum
}
