package core

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		vector Vec3
	}{
		{"unit x", NewVec3(1, 0, 0)},
		{"axis scaled", NewVec3(0, -7, 0)},
		{"diagonal", NewVec3(3, 4, 12)},
		{"tiny", NewVec3(1e-3, 2e-3, -1e-3)},
		{"large", NewVec3(1e4, -3e4, 2e4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.vector.Normalize()

			const tolerance = 1e-5
			if math32.Abs(n.Length()-1) > tolerance {
				t.Errorf("Expected unit length, got %f for %v", n.Length(), n)
			}
			if n.Dot(tt.vector) <= 0 {
				t.Errorf("Normalized vector %v points away from %v", n, tt.vector)
			}
		})
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	zero := Vec3{}
	n := zero.Normalize()
	if n != zero {
		t.Errorf("Expected zero vector unchanged, got %v", n)
	}
	if !n.IsFinite() {
		t.Errorf("Normalize of zero produced non-finite %v", n)
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply scalar", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide scalar", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"divide vec", b.DivideVec(NewVec3(2, 5, 3)), NewVec3(2, -1, 2)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
		{"sqrt", NewVec3(4, 9, 0.25).Sqrt(), NewVec3(2, 3, 0.5)},
		{"lerp", NewVec3(0, 0, 0).Lerp(NewVec3(2, 4, 6), 0.5), NewVec3(1, 2, 3)},
		{"splat", Splat(0.5), NewVec3(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const tolerance = 1e-6
			if tt.got.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotAndLength(t *testing.T) {
	v := NewVec3(3, 4, 12)
	if got := v.Dot(v); got != 169 {
		t.Errorf("Expected dot 169, got %f", got)
	}
	if got := v.Length(); got != 13 {
		t.Errorf("Expected length 13, got %f", got)
	}
	if got := v.LengthSquared(); got != 169 {
		t.Errorf("Expected length squared 169, got %f", got)
	}
}

func TestVec3_DivideByZero(t *testing.T) {
	v := NewVec3(1, 0, -1).Divide(0)
	if !math32.IsInf(v.X, 1) || !math32.IsNaN(v.Y) || !math32.IsInf(v.Z, -1) {
		t.Errorf("Expected IEEE inf/NaN propagation, got %v", v)
	}
	if v.IsFinite() {
		t.Error("Expected IsFinite to report false")
	}
}

func TestRay_NewRayNormalizes(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, 10))
	if ray.Direction != NewVec3(0, 0, 1) {
		t.Errorf("Expected normalized direction, got %v", ray.Direction)
	}

	point := ray.At(2.5)
	if point != NewVec3(1, 2, 5.5) {
		t.Errorf("Expected point (1,2,5.5), got %v", point)
	}
}
