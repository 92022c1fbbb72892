package scene

import (
	"fmt"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// BodyInfo describes one surface of the scene at a point in time
type BodyInfo struct {
	Index   int        `json:"index"`
	Name    string     `json:"name"`   // Display name
	Kind    string     `json:"kind"`   // Shader kind
	Center  [3]float32 `json:"center"` // World position
	Radius  float32    `json:"radius"`
	IsLight bool       `json:"isLight"`
	Phase   float32    `json:"phase"`
}

// RingInfo describes the ring plane around the gas giant
type RingInfo struct {
	Center [3]float32 `json:"center"`
	Normal [3]float32 `json:"normal"`
	Inner  float32    `json:"inner"`
	Outer  float32    `json:"outer"`
}

// Info is the JSON description of a scene, served by /api/scene
type Info struct {
	Time   float32    `json:"time"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Camera [3]float32 `json:"camera"`
	FOV    float32    `json:"fov"`
	Bodies []BodyInfo `json:"bodies"`
	Ring   *RingInfo  `json:"ring,omitempty"`
}

var bodyNames = map[int]string{
	StarIndex:     "Star",
	RockyIndex:    "Rocky planet",
	MoonIndex:     "Moon",
	GasGiantIndex: "Gas giant",
}

// Describe reports where everything is at the scene's current animation
// state. Call Animate first to describe a particular time.
func (s *Scene) Describe(time float32) Info {
	info := Info{
		Time:   time,
		Width:  s.Width,
		Height: s.Height,
		Camera: toArray(s.CameraPosition),
		FOV:    s.FOV,
	}

	for i, surface := range s.Surfaces {
		name, ok := bodyNames[i]
		if !ok || len(s.Surfaces) < orbitalBodies {
			name = fmt.Sprintf("Body %d", i)
		}
		info.Bodies = append(info.Bodies, BodyInfo{
			Index:   i,
			Name:    name,
			Kind:    surface.Kind.String(),
			Center:  toArray(surface.Center),
			Radius:  surface.Radius,
			IsLight: surface.IsLight,
			Phase:   surface.Phase,
		})
	}

	if ring, ok := s.Ring(); ok {
		info.Ring = &RingInfo{
			Center: toArray(ring.Center),
			Normal: toArray(ring.Normal),
			Inner:  ring.Inner,
			Outer:  ring.Outer,
		}
	}
	return info
}

func toArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
