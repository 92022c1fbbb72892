package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-solar-raytracer/pkg/config"
	"github.com/df07/go-solar-raytracer/pkg/core"
	"github.com/df07/go-solar-raytracer/pkg/output"
	"github.com/df07/go-solar-raytracer/pkg/renderer"
	"github.com/df07/go-solar-raytracer/pkg/scene"
)

// options holds parsed command line settings
type options struct {
	frames  int
	start   float64
	step    float64
	outDir  string
	format  output.Format
	thumb   int
	upload  bool
	envFile string
	help    bool

	cfg config.Config
}

var errHelp = errors.New("help requested")

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, errHelp) {
		printHelp(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := renderer.NewDefaultLogger()
	if err := run(context.Background(), opts, logger, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Solar System Raytracer")
	fmt.Fprintln(w, "Usage: solar [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs, _ := newFlagSet(&options{}, io.Discard)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (also read from the -env file):")
	fmt.Fprintln(w, "  SOLAR_WIDTH, SOLAR_HEIGHT, SOLAR_WORKERS")
	fmt.Fprintln(w, "  S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT, S3_REGION, S3_BUCKET, S3_PREFIX")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Frames are saved as <out>/frame_0000.<format>")
}

// frameSize collects flags that override environment configuration
type frameSize struct {
	width, height, workers int
	format                 string
}

func newFlagSet(opts *options, errOut io.Writer) (*flag.FlagSet, *frameSize) {
	size := &frameSize{}
	fs := flag.NewFlagSet("solar", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.IntVar(&opts.frames, "frames", 1, "Number of frames to render")
	fs.Float64Var(&opts.start, "start", 0, "Animation time of the first frame")
	fs.Float64Var(&opts.step, "step", 1.0/30, "Animation time between frames")
	fs.IntVar(&size.width, "width", 0, "Frame width in pixels (overrides SOLAR_WIDTH)")
	fs.IntVar(&size.height, "height", 0, "Frame height in pixels (overrides SOLAR_HEIGHT)")
	fs.IntVar(&size.workers, "workers", -1, "Row workers, 0 = CPU count (overrides SOLAR_WORKERS)")
	fs.StringVar(&opts.outDir, "out", filepath.Join("output", "solar"), "Output directory")
	fs.StringVar(&size.format, "format", "png", "Image format: png, jpg or bmp")
	fs.IntVar(&opts.thumb, "thumb", 0, "Also save thumbnails with this longest edge (0 = off)")
	fs.BoolVar(&opts.upload, "upload", false, "Upload frames to the configured S3 bucket")
	fs.StringVar(&opts.envFile, "env", ".env", "Dotenv file with configuration")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs, size
}

// parseOptions parses flags and merges them over the environment configuration
func parseOptions(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs, size := newFlagSet(&opts, errOut)
	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if opts.help {
		return options{}, errHelp
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return options{}, err
	}
	if size.width > 0 {
		cfg.Render.Width = size.width
	}
	if size.height > 0 {
		cfg.Render.Height = size.height
	}
	if size.workers >= 0 {
		cfg.Render.Workers = size.workers
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	opts.cfg = cfg

	if opts.format, err = output.ParseFormat(size.format); err != nil {
		return options{}, err
	}
	if opts.frames < 1 {
		return options{}, fmt.Errorf("frames must be at least 1, got %d", opts.frames)
	}
	if opts.thumb < 0 {
		return options{}, fmt.Errorf("thumb must be zero or positive, got %d", opts.thumb)
	}
	return opts, nil
}

// run renders the requested frames and writes them out. A nil uploader is
// replaced by an S3 uploader when -upload is set.
func run(ctx context.Context, opts options, logger core.Logger, uploader output.Uploader) error {
	if opts.upload && uploader == nil {
		s3, err := output.NewS3Uploader(opts.cfg.Storage)
		if err != nil {
			return fmt.Errorf("cannot upload: %w", err)
		}
		uploader = s3
	}

	width, height := opts.cfg.Render.Width, opts.cfg.Render.Height
	s := scene.New(width, height)
	buf := make([]uint32, width*height)

	r := renderer.NewRenderer(opts.cfg.Render.Workers, logger)
	defer r.Close()

	logger.Printf("Rendering %d frame(s) at %dx%d with %d workers...\n", opts.frames, width, height, r.Workers())
	start := time.Now()

	for i := 0; i < opts.frames; i++ {
		t := float32(opts.start + float64(i)*opts.step)
		r.Render(s, buf, t)
		img := renderer.ToImage(buf, width, height)

		path, err := output.SaveFrame(opts.outDir, "frame", i, img, opts.format)
		if err != nil {
			return err
		}
		logger.Printf("Saved %s\n", path)

		if opts.thumb > 0 {
			thumb := output.Thumbnail(img, opts.thumb)
			if _, err := output.SaveFrame(opts.outDir, "thumb", i, thumb, opts.format); err != nil {
				return err
			}
		}

		if uploader != nil {
			name := output.FrameName("frame", i, opts.format)
			if err := output.UploadFrame(ctx, uploader, name, img, opts.format); err != nil {
				return err
			}
			logger.Printf("Uploaded %s\n", name)
		}
	}

	logger.Printf("Rendered %d frame(s) in %v\n", opts.frames, time.Since(start))
	return nil
}
