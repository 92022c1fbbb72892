package renderer

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// Camera maps pixel coordinates to primary rays for a pinhole looking down +Z
type Camera struct {
	origin        core.Vec3
	width, height int
	aspect        float32
	halfHeight    float32 // tan(fov/2)
}

// NewCamera creates a camera for the scene's current size and field of view
func NewCamera(s *scene.Scene) Camera {
	return Camera{
		origin:     s.CameraPosition,
		width:      s.Width,
		height:     s.Height,
		aspect:     float32(s.Width) / float32(s.Height),
		halfHeight: math32.Tan(s.FOV / 2),
	}
}

// GetRay returns the ray through the center of pixel (i, j), with j counting
// rows from the top of the frame
func (c Camera) GetRay(i, j int) core.Ray {
	px := (2*(float32(i)+0.5)/float32(c.width) - 1) * c.aspect * c.halfHeight
	py := (1 - 2*(float32(j)+0.5)/float32(c.height)) * c.halfHeight

	return core.NewRay(c.origin, core.NewVec3(px, py, 1))
}
