package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/renderer"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit      bool                   `json:"hit"`
	Body     string                 `json:"body,omitempty"` // Surface index name or "ring"
	Kind     string                 `json:"kind,omitempty"`
	Point    [3]float32             `json:"point"`
	Normal   [3]float32             `json:"normal"`
	Distance float32                `json:"distance"`
	Color    string                 `json:"color"` // Final pixel color as #rrggbb
	Props    map[string]interface{} `json:"properties,omitempty"`
}

// hexColor formats a tone-mapped color the way the pixel buffer stores it
func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%06x", renderer.PackRGB(c))
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// inspectPixel casts the primary ray for pixel (x, y) after animating the
// scene to time t
func inspectPixel(sc *scene.Scene, x, y int, t float32) InspectResponse {
	sc.Animate(t)
	ray := renderer.NewCamera(sc).GetRay(x, y)

	hit, ok := sc.Intersect(ray, t)
	if !ok {
		return InspectResponse{
			Hit:   false,
			Color: hexColor(scene.SkyColor(ray.Direction)),
		}
	}

	response := InspectResponse{
		Hit:      true,
		Point:    vecArray(hit.Point),
		Normal:   vecArray(hit.Normal),
		Distance: hit.T,
		Color:    hexColor(sc.Shade(hit, t)),
		Props: map[string]interface{}{
			"diffuse": hexColor(hit.Diffuse.Clamp(0, 1)),
		},
	}

	if hit.IsRing() {
		response.Body = "ring"
		response.Kind = "ring"
		response.Props["planarDistance"] = hit.Radius
		return response
	}

	surface := sc.Surfaces[hit.Surface]
	response.Body = fmt.Sprintf("surface-%d", hit.Surface)
	response.Kind = surface.Kind.String()
	response.Props["center"] = vecArray(surface.Center)
	response.Props["radius"] = surface.Radius
	response.Props["isLight"] = surface.IsLight
	response.Props["phase"] = surface.Phase
	if surface.Kind.Emits() {
		response.Props["emissive"] = vecArray(hit.Emissive)
	}
	return response
}

// handleInspect reports what the primary ray of one pixel sees
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseFrameParams(c.QueryParams())
	if err != nil {
		return jsonError(c, err)
	}

	x, err := parseIntParam(c.QueryParams(), "x", -1, 0, req.Width-1)
	if err != nil {
		return jsonError(c, err)
	}
	y, err := parseIntParam(c.QueryParams(), "y", -1, 0, req.Height-1)
	if err != nil {
		return jsonError(c, err)
	}
	if x < 0 || y < 0 {
		return jsonError(c, fmt.Errorf("%w: x and y are required", ErrInvalidParam))
	}

	sc := scene.New(req.Width, req.Height)
	return c.JSON(http.StatusOK, inspectPixel(sc, x, y, float32(req.Time)))
}
