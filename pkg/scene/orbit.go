package scene

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-solar-raytracer/pkg/core"
)

// Orbit parameters for the default bodies
const (
	timeScale = 0.9

	rockyOrbitRadius = 3.0
	rockyOrbitRate   = 1.0

	moonOrbitX    = 1.4
	moonOrbitY    = 0.65
	moonOrbitZ    = 0.9
	moonRateXZ    = 2.2
	moonRateY     = 1.6
	giantRadius   = 6.0
	giantRate     = 0.4
	giantYOffset  = -0.6
	orbitalBodies = 4
)

// Animate moves the bodies to their positions at time. It must run before
// any ray is traced for the frame and never while a frame is rendering.
// Scenes with fewer than four surfaces are left unchanged.
func (s *Scene) Animate(time float32) {
	if len(s.Surfaces) < orbitalBodies {
		return
	}

	t := time * timeScale
	sun := s.Surfaces[StarIndex].Center

	// Rocky planet circles the star in the XZ plane
	s.Surfaces[RockyIndex].Center = core.NewVec3(
		sun.X+rockyOrbitRadius*math32.Cos(t*rockyOrbitRate),
		sun.Y,
		sun.Z+rockyOrbitRadius*math32.Sin(t*rockyOrbitRate),
	)

	// Moon follows the rocky planet's new position on a wobbling path
	rock := s.Surfaces[RockyIndex].Center
	s.Surfaces[MoonIndex].Center = core.NewVec3(
		rock.X+moonOrbitX*math32.Cos(t*moonRateXZ),
		rock.Y+moonOrbitY*math32.Sin(t*moonRateY),
		rock.Z+moonOrbitZ*math32.Sin(t*moonRateXZ),
	)

	// Gas giant orbits farther out and slower
	s.Surfaces[GasGiantIndex].Center = core.NewVec3(
		sun.X+giantRadius*math32.Cos(t*giantRate),
		sun.Y+giantYOffset,
		sun.Z+giantRadius*math32.Sin(t*giantRate),
	)
}
