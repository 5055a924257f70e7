package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

func writeSceneFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := `{
  "name": "` + name + `",
  "camera": {"width": 8, "samples": 1, "max_depth": 3},
  "objects": [
    {"center": [0, 0, -1], "radius": 0.5, "material": {"type": "lambertian", "albedo": [0.5, 0.5, 0.5]}}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateScene(t *testing.T) {
	scenesDir := t.TempDir()
	scenePath := writeSceneFile(t, scenesDir, "single.json")

	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"two-spheres scene", "two-spheres", false},
		{"materials scene", "materials", false},
		{"lights scene", "lights", false},
		{"sphere-grid scene", "sphere-grid", false},

		// Scene files
		{"scene by name", "single", false},
		{"scene by path", scenePath, false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid scene path", filepath.Join(scenesDir, "nonexistent.json"), true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType, scenesDir, renderer.CameraConfig{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.CameraConfig.ImageWidth <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", s.CameraConfig.ImageWidth)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Scene should contain primitives")
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	s, err := createScene("two-spheres", "", renderer.CameraConfig{ImageWidth: 12, MaxDepth: 2})
	if err != nil {
		t.Fatalf("createScene: %v", err)
	}
	if s.CameraConfig.ImageWidth != 12 || s.CameraConfig.MaxDepth != 2 {
		t.Errorf("Overrides not applied: %+v", s.CameraConfig)
	}
}

func testConfig(t *testing.T, outputName string, flags config.Flags) config.Config {
	t.Helper()
	flags.Output = filepath.Join(t.TempDir(), outputName)
	var cfg config.Config
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		output string
		flags  config.Flags
	}{
		{"single pass ppm", "out.ppm", config.Flags{Scene: "two-spheres", Width: 8, Samples: 2, MaxDepth: 3, Workers: 2}},
		{"progressive png", "out.png", config.Flags{Scene: "materials", Width: 8, Samples: 3, MaxDepth: 3, Passes: 3}},
		{"supersampled bmp", "out.bmp", config.Flags{Scene: "two-spheres", Width: 8, Samples: 1, MaxDepth: 2, Supersample: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.output, tt.flags)

			path, err := run(context.Background(), cfg, core.NopLogger{})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if path != cfg.Output {
				t.Errorf("Output path = %q, want %q", path, cfg.Output)
			}

			frame, err := output.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if frame.Width != 8 {
				t.Errorf("Written image width = %d, want 8", frame.Width)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t, "out.png", config.Flags{Scene: "nonexistent"})
	if _, err := run(context.Background(), cfg, core.NopLogger{}); err == nil {
		t.Error("Expected error for unknown scene")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg = testConfig(t, "out.png", config.Flags{Scene: "two-spheres", Width: 8, Samples: 2, Passes: 2})
	if _, err := run(ctx, cfg, core.NopLogger{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Cancelled before the first pass: got %v, want context.Canceled", err)
	}
}
