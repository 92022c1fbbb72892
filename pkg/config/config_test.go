package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"SOLAR_WIDTH", "SOLAR_HEIGHT", "SOLAR_WORKERS",
	"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_PREFIX",
}

// clearEnv unsets every key Load reads, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), cfg)
	}
	if cfg.Storage.Enabled() {
		t.Error("Storage should be disabled without credentials")
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Expected missing env file to be ignored, got %v", err)
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := `SOLAR_WIDTH=320
SOLAR_HEIGHT=180
SOLAR_WORKERS=3
S3_ACCESS_KEY=key
S3_SECRET_KEY=secret
S3_ENDPOINT=http://localhost:9000
S3_BUCKET=frames-bucket
S3_PREFIX=solar/run1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Render != (Render{Width: 320, Height: 180, Workers: 3}) {
		t.Errorf("Unexpected render config %+v", cfg.Render)
	}
	expected := Storage{
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		Bucket:    "frames-bucket",
		Prefix:    "solar/run1",
	}
	if cfg.Storage != expected {
		t.Errorf("Expected storage %+v, got %+v", expected, cfg.Storage)
	}
	if !cfg.Storage.Enabled() {
		t.Error("Storage should be enabled")
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLAR_WIDTH", "640")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SOLAR_WIDTH=100\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.Width != 640 {
		t.Errorf("Expected width 640 from the environment, got %d", cfg.Render.Width)
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOLAR_HEIGHT", "tall")

	_, err := Load("")
	if err == nil {
		t.Fatal("Expected error for non-numeric height")
	}
	if !strings.Contains(err.Error(), "SOLAR_HEIGHT") {
		t.Errorf("Expected error to name the variable, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		render  Render
		wantErr bool
	}{
		{"defaults", Default().Render, false},
		{"zero width", Render{Width: 0, Height: 10}, true},
		{"huge height", Render{Width: 10, Height: 10000}, true},
		{"negative workers", Render{Width: 10, Height: 10, Workers: -1}, true},
		{"single pixel", Render{Width: 1, Height: 1}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Config{Render: tc.render}.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate(%+v) error = %v, wantErr %v", tc.render, err, tc.wantErr)
			}
		})
	}
}
