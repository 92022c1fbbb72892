package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/output"
	"github.com/df07/go-solar-raytracer/pkg/renderer"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// RenderRequest represents an animation stream request from the client
type RenderRequest struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Frames int     `json:"frames"` // Number of frames to stream
	FPS    float64 `json:"fps"`    // Pacing of the stream
	Start  float64 `json:"start"`  // Animation time of the first frame
	Step   float64 `json:"step"`   // Animation time between frames
	Thumb  int     `json:"thumb"`  // Longest edge of streamed images, 0 = full size
}

// FrameUpdate is a single streamed frame sent via SSE
type FrameUpdate struct {
	RenderID    string  `json:"renderId"`
	Frame       int     `json:"frame"` // 1-based
	TotalFrames int     `json:"totalFrames"`
	Time        float32 `json:"time"`
	ImageData   string  `json:"imageData"` // Base64 encoded PNG
	Stats       Stats   `json:"stats"`
	IsComplete  bool    `json:"isComplete"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

// Stats represents per-frame render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Workers          int     `json:"workers"`
	Coverage         float64 `json:"coverage"`
	AverageLuminance float64 `json:"averageLuminance"`
	RenderMs         float64 `json:"renderMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// parseRenderRequest parses stream parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	frame, err := parseFrameParams(values)
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{Width: frame.Width, Height: frame.Height}

	if req.Frames, err = parseIntParam(values, "frames", 60, 1, 10000); err != nil {
		return nil, err
	}
	if req.FPS, err = parseFloatParam(values, "fps", 30, 1, 120); err != nil {
		return nil, err
	}
	if req.Start, err = parseFloatParam(values, "start", 0, -1e6, 1e6); err != nil {
		return nil, err
	}
	if req.Step, err = parseFloatParam(values, "step", 1/req.FPS, -100, 100); err != nil {
		return nil, err
	}
	if req.Thumb, err = parseIntParam(values, "thumb", 0, 0, maxSize); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1280*720 && req.Frames > 300 {
		log.Printf("Render warning: long stream of large frames may fall behind %.0f fps", req.FPS)
	}
	return req, nil
}

// handleRender streams animation frames via SSE
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return nil
	}

	renderID := uuid.New().String()
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(renderID, consoleChan)

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	logger.Printf("Streaming %d frames at %dx%d, %.0f fps\n", req.Frames, req.Width, req.Height, req.FPS)
	if err := s.streamFrames(ctx, req, renderID, logger, sseEventChan); err != nil {
		if ctx.Err() == nil {
			logger.Printf("Render failed: %v\n", err)
			sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", err))
		}
		return nil
	}
	logger.Printf("Stream %s finished\n", renderID)

	sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
	return nil
}

// streamFrames renders each frame, sends it and waits for the next frame's
// slot. It stops early when the client disconnects.
func (s *Server) streamFrames(ctx context.Context, req *RenderRequest, renderID string, logger core.Logger, sseEventChan chan SSEEvent) error {
	sc := scene.New(req.Width, req.Height)
	interval := time.Duration(float64(time.Second) / req.FPS)
	startTime := time.Now()

	for i := 0; i < req.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		t := float32(req.Start + float64(i)*req.Step)
		img, stats := s.renderFrame(sc, t)
		logger.Printf("Frame %d/%d rendered: %s\n", i+1, req.Frames, stats)

		imageData, err := imageToBase64PNG(output.Thumbnail(img, req.Thumb))
		if err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}

		update := FrameUpdate{
			RenderID:    renderID,
			Frame:       i + 1,
			TotalFrames: req.Frames,
			Time:        t,
			ImageData:   imageData,
			Stats:       toWebStats(stats),
			IsComplete:  i == req.Frames-1,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		}
		data, err := json.Marshal(update)
		if err != nil {
			return fmt.Errorf("failed to marshal frame %d: %w", i, err)
		}
		if !sendEvent(ctx, sseEventChan, "progress", string(data)) {
			return ctx.Err()
		}

		if i == req.Frames-1 {
			break
		}
		next := startTime.Add(time.Duration(i+1) * interval)
		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func toWebStats(stats renderer.Stats) Stats {
	return Stats{
		Width:            stats.Width,
		Height:           stats.Height,
		Workers:          stats.Workers,
		Coverage:         stats.Coverage(),
		AverageLuminance: stats.AverageLuminance,
		RenderMs:         float64(stats.Duration.Microseconds()) / 1000,
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// sendEvent queues an event unless the client is gone. It reports whether
// the event was queued.
func sendEvent(ctx context.Context, sseEventChan chan SSEEvent, eventType, data string) bool {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
		return true
	case <-ctx.Done():
		return false
	}
}

// writeSSEEvents writes queued events until the channel closes or the
// client disconnects
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events, dropping
// them when the event queue is full
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
			return
		default:
		}
	}
}
