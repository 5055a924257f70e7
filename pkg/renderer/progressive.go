package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// ErrClosed is returned by RenderPass once the raytracer's workers have been stopped
var ErrClosed = errors.New("progressive raytracer closed")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering.
// The total sample count per pixel is the camera's SamplesPerPixel.
type ProgressiveConfig struct {
	InitialSamples   int           // Samples for first pass (1 recommended)
	MaxPasses        int           // Number of passes; the last one reaches SamplesPerPixel
	NumWorkers       int           // Number of parallel workers (0 = use CPU count)
	Seed             int64         // Base seed for the per-row random streams
	ProgressInterval time.Duration // Period of row progress logging within a pass (0 = off)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples:   1,
		MaxPasses:        1,
		NumWorkers:       0, // Auto-detect CPU count
		Seed:             42,
		ProgressInterval: 2 * time.Second,
	}
}

// Validate rejects pass settings that cannot make progress
func (c ProgressiveConfig) Validate() error {
	if c.MaxPasses < 1 {
		return fmt.Errorf("%w: passes must be at least 1, got %d", core.ErrInvalidConfig, c.MaxPasses)
	}
	if c.InitialSamples < 1 {
		return fmt.Errorf("%w: initial samples must be at least 1, got %d", core.ErrInvalidConfig, c.InitialSamples)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", core.ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes.
// Every pass adds samples to the same per-pixel accumulators, so the frame of
// pass N contains all samples of passes 1..N.
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array, indexed [row][column]
	raytracer     *Raytracer     // Shared by every worker
	workerPool    *WorkerPool    // Worker pool for parallel processing
	startOnce     sync.Once
	mu            sync.Mutex // Held for a whole pass and by Close
	closed        bool
	logger        core.Logger // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(world geometry.Hittable, camera *Camera, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if world == nil || camera == nil {
		return nil, fmt.Errorf("%w: world and camera are required", core.ErrInvalidConfig)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	width, height := camera.ImageWidth(), camera.ImageHeight()
	raytracer := NewRaytracer(world, camera)

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		pixelStats: newPixelStats(width, height),
		raytracer:  raytracer,
		workerPool: NewWorkerPool(raytracer, height, config.NumWorkers),
		logger:     logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	maxSamples := pr.raytracer.camera.config.SamplesPerPixel

	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return maxSamples
	}

	initial := min(pr.config.InitialSamples, maxSamples)

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return initial
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := maxSamples - initial
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return initial + (passNumber-1)*samplesPerPass
}

// rowSeed gives every (pass, row) pair its own stream
func (pr *ProgressiveRaytracer) rowSeed(passNumber, row int) int64 {
	return pr.config.Seed + int64(passNumber-1)*int64(pr.height) + int64(row)
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*core.Frame, RenderStats, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, ErrClosed)
	}

	pr.currentPass = passNumber
	startTime := time.Now()

	// Calculate target samples for this pass
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.startOnce.Do(pr.workerPool.Start)

	stopProgress := pr.reportProgress(passNumber, pr.workerPool.CompletedRows())

	// Submit all rows as tasks
	for row := 0; row < pr.height; row++ {
		pr.workerPool.SubmitTask(RowTask{
			Row:           row,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			Seed:          pr.rowSeed(passNumber, row),
			TaskID:        row,
			PixelStats:    pr.pixelStats[row],
		})
	}

	// Wait for every row, even after a failure, so no worker is still writing
	var firstErr error
	for i := 0; i < pr.height; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			stopProgress()
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	stopProgress()

	if firstErr != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, firstErr)
	}

	frame, stats := assembleFrame(pr.pixelStats, pr.width, pr.height, targetSamples)
	stats.Elapsed = time.Since(startTime)

	if err := frame.Validate(); err != nil {
		return nil, stats, fmt.Errorf("pass %d: %w", passNumber, err)
	}

	return frame, stats, nil
}

// reportProgress logs completed rows on a ticker until the returned stop func is called
func (pr *ProgressiveRaytracer) reportProgress(passNumber int, baseline int64) (stop func()) {
	if pr.config.ProgressInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(pr.config.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rows := pr.workerPool.CompletedRows() - baseline
				pr.logger.Printf("Pass %d: %d/%d rows (%.0f%%)\n",
					passNumber, rows, pr.height, 100*float64(rows)/float64(pr.height))
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Close stops the worker pool. Later calls to RenderPass return ErrClosed.
func (pr *ProgressiveRaytracer) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return
	}
	pr.closed = true
	pr.startOnce.Do(func() {}) // never start after close
	pr.workerPool.Stop()
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *core.Frame
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders every pass in a goroutine and delivers each frame on the
// returned channel. Cancellation is honored between passes; a pass in flight runs to
// completion. Both channels are closed when rendering ends, and the worker pool is stopped.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.Close()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check for cancellation before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			frame, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (actual: %.1f samples/pixel)\n",
				pass, stats.Elapsed, stats.AverageSamples)

			result := PassResult{
				PassNumber: pass,
				Frame:      frame,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
