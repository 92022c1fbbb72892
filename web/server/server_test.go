package server

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/df07/go-solar-raytracer/pkg/scene"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(0, 2)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func TestParseIntParam(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected int
		wantErr  bool
	}{
		{"default", "", 640, false},
		{"valid", "100", 100, false},
		{"at min", "16", 16, false},
		{"below min", "15", 0, true},
		{"above max", "2001", 0, true},
		{"not a number", "wide", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{}
			if tc.value != "" {
				values.Set("width", tc.value)
			}
			got, err := parseIntParam(values, "width", 640, minSize, maxSize)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseIntParam(%q) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParam) {
				t.Errorf("Expected ErrInvalidParam, got %v", err)
			}
			if got != tc.expected {
				t.Errorf("parseIntParam(%q) = %d, want %d", tc.value, got, tc.expected)
			}
		})
	}
}

func TestParseRenderRequest_StepDefaultsToFrameInterval(t *testing.T) {
	values := url.Values{}
	values.Set("fps", "20")
	req, err := parseRenderRequest(values)
	if err != nil {
		t.Fatalf("parseRenderRequest failed: %v", err)
	}
	if req.Step != 0.05 {
		t.Errorf("Expected step 0.05, got %f", req.Step)
	}
	if req.Frames != 60 || req.Width != 640 || req.Height != 400 {
		t.Errorf("Unexpected defaults %+v", req)
	}

	values.Set("fps", "0")
	if _, err := parseRenderRequest(values); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("Expected ErrInvalidParam for fps=0, got %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/health")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if health.Status != "ok" || health.Workers != 2 {
		t.Errorf("Unexpected health %+v", health)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestHandleScene(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/scene?width=100&height=50&t=0")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var info scene.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(info.Bodies) != 4 || info.Ring == nil {
		t.Fatalf("Expected 4 bodies and a ring, got %+v", info)
	}
	if info.Width != 100 || info.Height != 50 {
		t.Errorf("Expected 100x50, got %dx%d", info.Width, info.Height)
	}
	if rocky := info.Bodies[scene.RockyIndex].Center; rocky[0] < 2.99 || rocky[0] > 3.01 {
		t.Errorf("Expected rocky planet at x=3 for t=0, got %v", rocky)
	}
}

func TestHandleScene_BadParam(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/scene?width=5")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleFrame(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		query       string
		contentType string
		format      string
		width       int
		height      int
	}{
		{"width=40&height=20", "image/png", "png", 40, 20},
		{"width=40&height=20&format=jpg", "image/jpeg", "jpeg", 40, 20},
		{"width=40&height=20&thumb=10", "image/png", "png", 10, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			resp := get(t, ts, "/api/frame?"+tc.query)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200, got %d", resp.StatusCode)
			}
			if resp.Header.Get("Content-Type") != tc.contentType {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tc.contentType)
			}
			cfg, format, err := image.DecodeConfig(resp.Body)
			if err != nil {
				t.Fatalf("Failed to decode image: %v", err)
			}
			if format != tc.format || cfg.Width != tc.width || cfg.Height != tc.height {
				t.Errorf("Got %s %dx%d, want %s %dx%d", format, cfg.Width, cfg.Height, tc.format, tc.width, tc.height)
			}
		})
	}

	resp := get(t, ts, "/api/frame?format=gif")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported format, got %d", resp.StatusCode)
	}
}

func TestHandleInspect(t *testing.T) {
	ts := newTestServer(t)

	// Center of an odd frame looks straight at the star
	resp := get(t, ts, "/api/inspect?width=65&height=65&x=32&y=32&t=0")
	defer resp.Body.Close()

	var result InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !result.Hit || result.Kind != "star" {
		t.Errorf("Expected star hit, got %+v", result)
	}
	if !strings.HasPrefix(result.Color, "#") || len(result.Color) != 7 {
		t.Errorf("Unexpected color %q", result.Color)
	}

	// Top-left corner only sees sky
	sky := get(t, ts, "/api/inspect?width=64&height=64&x=0&y=0&t=0")
	defer sky.Body.Close()
	var skyResult InspectResponse
	if err := json.NewDecoder(sky.Body).Decode(&skyResult); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if skyResult.Hit {
		t.Errorf("Expected sky, got %+v", skyResult)
	}

	bad := get(t, ts, "/api/inspect?width=64&height=64&x=64&y=0")
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-range pixel, got %d", bad.StatusCode)
	}
	missing := get(t, ts, "/api/inspect?width=64&height=64")
	missing.Body.Close()
	if missing.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 without coordinates, got %d", missing.StatusCode)
	}
}

type sseEvent struct {
	name string
	data string
}

func readEvents(t *testing.T, body io.Reader) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.name != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	return events
}

func TestHandleRender_StreamsFrames(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/render?width=32&height=16&frames=3&fps=120&start=1&step=0.5&thumb=8")
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	events := readEvents(t, resp.Body)

	var frames []FrameUpdate
	var completed bool
	var rendered int
	for _, event := range events {
		switch event.name {
		case "console":
			var msg ConsoleMessage
			if err := json.Unmarshal([]byte(event.data), &msg); err != nil {
				t.Fatalf("Bad console payload: %v", err)
			}
			if strings.Contains(msg.Message, "rendered: frame") {
				rendered++
			}
		case "progress":
			var update FrameUpdate
			if err := json.Unmarshal([]byte(event.data), &update); err != nil {
				t.Fatalf("Bad progress payload: %v", err)
			}
			frames = append(frames, update)
		case "complete":
			completed = true
		case "error":
			t.Fatalf("Unexpected error event: %s", event.data)
		}
	}

	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(frames))
	}
	if !completed {
		t.Error("Expected complete event")
	}
	if rendered != 3 {
		t.Errorf("Expected frame stats on the console for 3 frames, got %d", rendered)
	}
	if _, err := uuid.Parse(frames[0].RenderID); err != nil {
		t.Errorf("Render id %q is not a uuid: %v", frames[0].RenderID, err)
	}

	expectedTimes := []float32{1, 1.5, 2}
	for i, frame := range frames {
		if frame.Frame != i+1 || frame.TotalFrames != 3 {
			t.Errorf("Frame %d numbering: %+v", i, frame)
		}
		if frame.Time != expectedTimes[i] {
			t.Errorf("Frame %d time = %f, want %f", i, frame.Time, expectedTimes[i])
		}
		if frame.RenderID != frames[0].RenderID {
			t.Errorf("Frame %d has a different render id", i)
		}
		if frame.Stats.Width != 32 || frame.Stats.Height != 16 {
			t.Errorf("Frame %d stats %+v", i, frame.Stats)
		}

		data, err := base64.StdEncoding.DecodeString(frame.ImageData)
		if err != nil {
			t.Fatalf("Frame %d image not base64: %v", i, err)
		}
		cfg, _, err := image.DecodeConfig(strings.NewReader(string(data)))
		if err != nil {
			t.Fatalf("Frame %d image not decodable: %v", i, err)
		}
		if cfg.Width != 8 || cfg.Height != 4 {
			t.Errorf("Frame %d thumbnail %dx%d, want 8x4", i, cfg.Width, cfg.Height)
		}
	}
	if !frames[2].IsComplete || frames[0].IsComplete {
		t.Error("Only the last frame should be marked complete")
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/render?frames=0")
	defer resp.Body.Close()

	events := readEvents(t, resp.Body)
	if len(events) != 1 || events[0].name != "error" {
		t.Fatalf("Expected a single error event, got %+v", events)
	}
	if !strings.Contains(events[0].data, "frames") {
		t.Errorf("Expected error to mention frames, got %q", events[0].data)
	}
}
