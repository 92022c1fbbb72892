package renderer

import (
	"fmt"
	"time"
)

// Stats contains statistics about one rendered frame
type Stats struct {
	Frame            int           // Frames rendered by this renderer, 1-based
	Time             float32       // Animation time of the frame
	Width, Height    int           // Frame size in pixels
	Workers          int           // Number of row workers
	Hits             int           // Pixels that hit a body or the ring
	AverageLuminance float64       // Mean tone-mapped luminance
	Duration         time.Duration // Wall time for animation plus rasterization
}

// Pixels returns the number of pixels in the frame
func (s Stats) Pixels() int {
	return s.Width * s.Height
}

// Coverage returns the fraction of pixels that hit something
func (s Stats) Coverage() float64 {
	if s.Pixels() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Pixels())
}

func (s Stats) String() string {
	return fmt.Sprintf("frame %d t=%.3f %dx%d: %.1f%% coverage, luminance %.3f, %v",
		s.Frame, s.Time, s.Width, s.Height, s.Coverage()*100, s.AverageLuminance, s.Duration)
}

// addRow folds a worker's row result into the frame totals
func (s *Stats) addRow(result RowResult) {
	s.Hits += result.Hits
	s.AverageLuminance += result.LuminanceSum
}

// finish turns accumulated sums into averages
func (s *Stats) finish(elapsed time.Duration) {
	if n := s.Pixels(); n > 0 {
		s.AverageLuminance /= float64(n)
	}
	s.Duration = elapsed
}
