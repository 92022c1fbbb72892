package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Renderer rasterizes frames of a scene across a persistent worker pool.
// Frames are serialized: a frame's animation step never overlaps the
// previous frame's rows.
type Renderer struct {
	mu     sync.Mutex
	pool   *WorkerPool
	logger core.Logger // Optional, nil disables per-frame logging
	frames int
	closed bool
}

// NewRenderer starts a renderer with numWorkers row workers (0 = CPU count)
func NewRenderer(numWorkers int, logger core.Logger) *Renderer {
	pool := NewWorkerPool(numWorkers)
	pool.Start()

	return &Renderer{
		pool:   pool,
		logger: logger,
	}
}

// Workers returns the number of row workers
func (r *Renderer) Workers() int {
	return r.pool.GetNumWorkers()
}

// Render advances the scene to time t and writes Width*Height packed pixels
// into buf in row-major order. It panics if buf has the wrong length or the
// renderer was closed.
func (r *Renderer) Render(s *scene.Scene, buf []uint32, t float32) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		panic("renderer: Render called after Close")
	}
	// The frame size is fixed here; callers may resize s once Render returns
	width, height := s.Width, s.Height
	if len(buf) != width*height {
		panic(fmt.Sprintf("renderer: buffer holds %d pixels, %dx%d frame needs %d", len(buf), width, height, width*height))
	}

	start := time.Now()
	r.frames++
	stats := Stats{
		Frame:   r.frames,
		Time:    t,
		Width:   width,
		Height:  height,
		Workers: r.pool.GetNumWorkers(),
	}

	// Phase 1: move the bodies, single threaded
	s.Animate(t)

	// Phase 2: fan rows out to the workers, then wait for every row
	camera := NewCamera(s)
	go func() {
		for j := 0; j < height; j++ {
			r.pool.SubmitTask(RowTask{
				Scene:  s,
				Camera: camera,
				Buffer: buf,
				Width:  width,
				Row:    j,
				Time:   t,
			})
		}
	}()

	for j := 0; j < height; j++ {
		result, ok := r.pool.GetResult()
		if !ok {
			panic("renderer: worker pool closed unexpectedly")
		}
		stats.addRow(result)
	}
	stats.finish(time.Since(start))

	if r.logger != nil {
		r.logger.Printf("Rendered %s\n", stats)
	}
	return stats
}

// Close stops the workers. The renderer cannot be used afterwards.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.pool.Stop()
}

// Render draws one frame of s at time t into buf using a temporary pool
// sized to the CPU count
func Render(s *scene.Scene, buf []uint32, t float32) {
	r := NewRenderer(0, nil)
	defer r.Close()
	r.Render(s, buf, t)
}
