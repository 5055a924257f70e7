package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// DefaultSeed is used when neither the config file nor the flags set a seed
const DefaultSeed = 42

// Config holds all configurable paths and render settings.
type Config struct {
	// Scene and output
	Scene     string `json:"scene"`      // Built-in scene name or path to a .json scene
	ScenesDir string `json:"scenes_dir"` // Directory searched for scene files
	Output    string `json:"output"`     // Output path; empty writes under output/<scene>/
	Format    string `json:"format"`     // Image format when Output is empty

	// Render settings. Zero keeps the scene's own value.
	Width       int   `json:"width"`
	Samples     int   `json:"samples"`
	MaxDepth    int   `json:"max_depth"`
	Workers     int   `json:"workers"`
	Seed        int64 `json:"seed"`
	Supersample int   `json:"supersample"` // Render at this multiple of Width, then downsample
	Passes      int   `json:"passes"`      // Progressive passes; 1 renders once
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene       string
	Output      string
	Format      string
	Width       int
	Samples     int
	MaxDepth    int
	Workers     int
	Seed        int64
	Supersample int
	Passes      int
}

// Resolve applies non-zero flags over the file settings, then fills any empty
// fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Samples > 0 {
		c.Samples = flags.Samples
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Passes > 0 {
		c.Passes = flags.Passes
	}

	// Defaults
	if c.Scene == "" {
		c.Scene = "default"
	}
	if c.ScenesDir == "" {
		c.ScenesDir = "scenes"
	}
	if c.Format == "" {
		c.Format = string(output.FormatPNG)
		if c.Output != "" {
			if f, err := output.FormatFromPath(c.Output); err == nil {
				c.Format = string(f)
			}
		}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Passes <= 0 {
		c.Passes = 1
	}
}

// Validate checks a resolved config
func (c Config) Validate() error {
	if c.Width < 0 || c.Samples < 0 || c.MaxDepth < 0 {
		return fmt.Errorf("%w: width, samples and max depth must not be negative", core.ErrInvalidConfig)
	}
	if c.Supersample < 1 || c.Passes < 1 {
		return fmt.Errorf("%w: supersample and passes must be at least 1", core.ErrInvalidConfig)
	}

	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	if c.Output != "" {
		pathFormat, err := output.FormatFromPath(c.Output)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
		}
		if pathFormat != format {
			return fmt.Errorf("%w: output %s does not match format %s", core.ErrInvalidConfig, c.Output, format)
		}
	}
	return nil
}

// CameraOverrides returns the camera fields the config replaces in a scene
func (c Config) CameraOverrides() renderer.CameraConfig {
	return renderer.CameraConfig{
		ImageWidth:      c.Width,
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
	}
}

// Supersampled scales the camera width by the supersample factor. It returns the
// camera to render with and the width the output should be reduced to, or 0 when
// no reduction is needed.
func (c Config) Supersampled(camera renderer.CameraConfig) (renderer.CameraConfig, int) {
	if c.Supersample <= 1 {
		return camera, 0
	}
	targetWidth := camera.ImageWidth
	camera.ImageWidth *= c.Supersample
	return camera, targetWidth
}

// OutputPath returns Output, or output/<scene>/render_<timestamp>.<ext> when unset
func (c Config) OutputPath(sceneName string, now time.Time) string {
	if c.Output != "" {
		return c.Output
	}
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		format = output.FormatPNG
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s%s", timestamp, format.Extension()))
}
