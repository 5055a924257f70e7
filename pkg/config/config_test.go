package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"scene": "materials",
		"output": "out/materials.webp",
		"width": 320,
		"samples": 64,
		"max_depth": 12,
		"workers": 3,
		"seed": 7,
		"supersample": 2,
		"passes": 4
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	expected := Config{
		Scene:       "materials",
		Output:      "out/materials.webp",
		Width:       320,
		Samples:     64,
		MaxDepth:    12,
		Workers:     3,
		Seed:        7,
		Supersample: 2,
		Passes:      4,
	}
	if cfg != expected {
		t.Errorf("Load() = %+v, want %+v", cfg, expected)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := Load(writeConfig(t, `{"width": "wide"}`)); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestResolve_Defaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.Scene != "default" || cfg.ScenesDir != "scenes" || cfg.Format != "png" {
		t.Errorf("Path defaults = %+v", cfg)
	}
	if cfg.Workers != runtime.NumCPU() || cfg.Seed != DefaultSeed || cfg.Supersample != 1 || cfg.Passes != 1 {
		t.Errorf("Render defaults = %+v", cfg)
	}
	if cfg.Width != 0 || cfg.Samples != 0 || cfg.MaxDepth != 0 {
		t.Errorf("Camera fields should stay zero to keep scene values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	cfg := Config{Scene: "lights", Width: 100, Samples: 10, Seed: 5}
	cfg.Resolve(Flags{Scene: "two-spheres", Samples: 20, Passes: 3})

	if cfg.Scene != "two-spheres" || cfg.Samples != 20 || cfg.Passes != 3 {
		t.Errorf("Flags not applied: %+v", cfg)
	}
	if cfg.Width != 100 || cfg.Seed != 5 {
		t.Errorf("File values lost: %+v", cfg)
	}
}

func TestResolve_FormatFromOutput(t *testing.T) {
	cfg := Config{Output: "renders/shot.tga"}
	cfg.Resolve(Flags{})
	if cfg.Format != "tga" {
		t.Errorf("Format = %q, want tga from output extension", cfg.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"jpg output as jpeg", Config{Format: "jpeg", Output: "a.jpg", Supersample: 1, Passes: 1}, true},
		{"negative width", Config{Format: "png", Width: -1, Supersample: 1, Passes: 1}, false},
		{"zero passes", Config{Format: "png", Supersample: 1}, false},
		{"unknown format", Config{Format: "gif", Supersample: 1, Passes: 1}, false},
		{"mismatched output", Config{Format: "png", Output: "a.bmp", Supersample: 1, Passes: 1}, false},
		{"output without extension", Config{Format: "png", Output: "render", Supersample: 1, Passes: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSupersampled(t *testing.T) {
	camera := renderer.CameraConfig{ImageWidth: 200, AspectRatio: 2}

	same, target := Config{Supersample: 1}.Supersampled(camera)
	if same != camera || target != 0 {
		t.Errorf("Supersample 1 changed camera: %+v, target %d", same, target)
	}

	scaled, target := Config{Supersample: 3}.Supersampled(camera)
	if scaled.ImageWidth != 600 || target != 200 {
		t.Errorf("Supersample 3: width %d target %d, want 600 and 200", scaled.ImageWidth, target)
	}
	if scaled.AspectRatio != 2 {
		t.Errorf("Aspect ratio changed to %g", scaled.AspectRatio)
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	generated := Config{Format: "webp"}.OutputPath("default", now)
	if want := filepath.Join("output", "default", "render_20240309_140506.webp"); generated != want {
		t.Errorf("OutputPath = %q, want %q", generated, want)
	}

	explicit := Config{Output: "shots/a.png", Format: "png"}.OutputPath("default", now)
	if explicit != "shots/a.png" {
		t.Errorf("OutputPath = %q, want explicit output", explicit)
	}
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "render.example.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{})
	if err := cfg.Validate(); err != nil {
		t.Errorf("Example config invalid: %v", err)
	}
	if cfg.Scene != "glass-and-metal" || cfg.Passes != 5 {
		t.Errorf("Example config = %+v", cfg)
	}
}
