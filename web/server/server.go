package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"runtime"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-solar-raytracer/pkg/output"
	"github.com/df07/go-solar-raytracer/pkg/renderer"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// ErrInvalidParam marks a bad query parameter; handlers answer it with 400
var ErrInvalidParam = errors.New("invalid parameter")

// Frame size limits for web requests
const (
	minSize = 16
	maxSize = 2000
)

// Server handles web requests for the solar system raytracer
type Server struct {
	port     int
	echo     *echo.Echo
	renderer *renderer.Renderer
}

// NewServer creates a web server whose frames share one renderer with
// numWorkers row workers (0 = CPU count)
func NewServer(port, numWorkers int) *Server {
	s := &Server{
		port:     port,
		echo:     echo.New(),
		renderer: renderer.NewRenderer(numWorkers, nil),
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.Use(corsMiddleware)

	// Serve static files
	e.Static("/", "static")

	// API endpoints
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scene", s.handleScene)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/frame", s.handleFrame)
	e.GET("/api/inspect", s.handleInspect)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the shared renderer's workers
func (s *Server) Close() {
	s.renderer.Close()
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// HealthResponse reports server and host status
type HealthResponse struct {
	Status      string  `json:"status"`
	Workers     int     `json:"workers"`
	Goroutines  int     `json:"goroutines"`
	CPUCount    int     `json:"cpuCount"`
	MemoryTotal uint64  `json:"memoryTotal"`
	MemoryUsed  float64 `json:"memoryUsedPercent"`
}

// handleHealth provides a health check with host statistics. Host stats
// are best effort and left zero when unavailable.
func (s *Server) handleHealth(c echo.Context) error {
	response := HealthResponse{
		Status:     "ok",
		Workers:    s.renderer.Workers(),
		Goroutines: runtime.NumGoroutine(),
	}

	if count, err := cpu.Counts(true); err == nil {
		response.CPUCount = count
	} else {
		log.Printf("Health: cpu count unavailable: %v", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemoryTotal = vm.Total
		response.MemoryUsed = vm.UsedPercent
	} else {
		log.Printf("Health: memory stats unavailable: %v", err)
	}

	return c.JSON(http.StatusOK, response)
}

// FrameRequest holds the parameters shared by scene, frame and inspect
// requests
type FrameRequest struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Time   float64 `json:"time"`
}

// parseFrameParams parses width, height and t
func parseFrameParams(values url.Values) (FrameRequest, error) {
	var req FrameRequest
	var err error
	if req.Width, err = parseIntParam(values, "width", 640, minSize, maxSize); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", 400, minSize, maxSize); err != nil {
		return req, err
	}
	if req.Time, err = parseFloatParam(values, "t", 0, -1e6, 1e6); err != nil {
		return req, err
	}
	return req, nil
}

// handleScene describes the bodies at time t
func (s *Server) handleScene(c echo.Context) error {
	req, err := parseFrameParams(c.QueryParams())
	if err != nil {
		return jsonError(c, err)
	}

	sc := scene.New(req.Width, req.Height)
	sc.Animate(float32(req.Time))
	return c.JSON(http.StatusOK, sc.Describe(float32(req.Time)))
}

// handleFrame renders a single frame and returns the encoded image
func (s *Server) handleFrame(c echo.Context) error {
	req, err := parseFrameParams(c.QueryParams())
	if err != nil {
		return jsonError(c, err)
	}

	format := output.PNG
	if name := c.QueryParam("format"); name != "" {
		if format, err = output.ParseFormat(name); err != nil {
			return jsonError(c, fmt.Errorf("%w: %v", ErrInvalidParam, err))
		}
	}
	thumb, err := parseIntParam(c.QueryParams(), "thumb", 0, 0, maxSize)
	if err != nil {
		return jsonError(c, err)
	}

	img, _ := s.renderFrame(scene.New(req.Width, req.Height), float32(req.Time))

	var buf bytes.Buffer
	if err := output.Encode(&buf, output.Thumbnail(img, thumb), format); err != nil {
		return jsonError(c, err)
	}
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// renderFrame renders one frame of sc at time t through the shared renderer
func (s *Server) renderFrame(sc *scene.Scene, t float32) (*image.RGBA, renderer.Stats) {
	buf := make([]uint32, sc.Width*sc.Height)
	stats := s.renderer.Render(sc, buf, t)
	return renderer.ToImage(buf, sc.Width, sc.Height), stats
}

// jsonError writes err as a JSON body, 400 for bad parameters and 500
// otherwise
func jsonError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrInvalidParam) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w %s: %s", ErrInvalidParam, key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%w: %s must be between %d and %d, got: %d", ErrInvalidParam, key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %s: %s", ErrInvalidParam, key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%w: %s must be between %g and %g, got: %g", ErrInvalidParam, key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
