package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Render holds frame size and parallelism settings
type Render struct {
	Width   int // Frame width in pixels
	Height  int // Frame height in pixels
	Workers int // Row workers, 0 = CPU count
}

// Storage holds credentials for the S3-compatible frame bucket
type Storage struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string // Key prefix for uploaded frames
}

// Enabled reports whether enough is configured to upload frames
func (s Storage) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// Config is the combined harness configuration
type Config struct {
	Render  Render
	Storage Storage
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Render: Render{
			Width:   800,
			Height:  450,
			Workers: 0,
		},
		Storage: Storage{
			Region: "us-east-1",
			Prefix: "frames",
		},
	}
}

// Load reads an optional dotenv file, then the process environment.
// A missing envFile is not an error; an unreadable or malformed one is.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	var err error
	if cfg.Render.Width, err = envInt("SOLAR_WIDTH", cfg.Render.Width); err != nil {
		return Config{}, err
	}
	if cfg.Render.Height, err = envInt("SOLAR_HEIGHT", cfg.Render.Height); err != nil {
		return Config{}, err
	}
	if cfg.Render.Workers, err = envInt("SOLAR_WORKERS", cfg.Render.Workers); err != nil {
		return Config{}, err
	}

	cfg.Storage = Storage{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", cfg.Storage.Region),
		Bucket:    os.Getenv("S3_BUCKET"),
		Prefix:    getEnv("S3_PREFIX", cfg.Storage.Prefix),
	}

	return cfg, nil
}

// Validate checks the render settings
func (c Config) Validate() error {
	if c.Render.Width < 1 || c.Render.Width > 8192 {
		return fmt.Errorf("width must be between 1 and 8192, got %d", c.Render.Width)
	}
	if c.Render.Height < 1 || c.Render.Height > 8192 {
		return fmt.Errorf("height must be between 1 and 8192, got %d", c.Render.Height)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("workers must be zero or positive, got %d", c.Render.Workers)
	}
	return nil
}

// getEnv returns an environment variable with a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
