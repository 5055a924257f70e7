package renderer

import (
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// RenderConfig controls a single full-quality render
type RenderConfig struct {
	NumWorkers       int           // Number of parallel workers (0 = use CPU count)
	Seed             int64         // Row j draws from a stream seeded with Seed+j
	ProgressInterval time.Duration // Period of row progress logging (0 = off)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers:       0,
		Seed:             42,
		ProgressInterval: 2 * time.Second,
	}
}

// Render traces SamplesPerPixel samples for every pixel of camera's image, distributing
// rows over a worker pool. The returned frame is row-major with row 0 at the top.
// The result depends only on world, camera and config.Seed, never on the worker count.
func Render(world geometry.Hittable, camera *Camera, config RenderConfig, logger core.Logger) (*core.Frame, RenderStats, error) {
	pr, err := NewProgressiveRaytracer(world, camera, ProgressiveConfig{
		InitialSamples:   1,
		MaxPasses:        1,
		NumWorkers:       config.NumWorkers,
		Seed:             config.Seed,
		ProgressInterval: config.ProgressInterval,
	}, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	defer pr.Close()

	return pr.RenderPass(1)
}
