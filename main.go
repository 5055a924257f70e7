package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to a JSON render config file")
	var flags config.Flags
	flag.StringVar(&flags.Scene, "scene", "", "Built-in scene name, scene name in the scenes directory, or path to a .json scene")
	flag.StringVar(&flags.Output, "output", "", "Output file; the extension picks the format")
	flag.StringVar(&flags.Format, "format", "", "Output format when -output is not set: "+formatList())
	flag.IntVar(&flags.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&flags.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&flags.MaxDepth, "depth", 0, "Maximum ray bounces (0 = scene default)")
	flag.IntVar(&flags.Workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	flag.Int64Var(&flags.Seed, "seed", 0, "Random seed (0 = default)")
	flag.IntVar(&flags.Supersample, "supersample", 0, "Render at this multiple of the width, then downsample")
	flag.IntVar(&flags.Passes, "passes", 0, "Progressive passes; the output is rewritten after each one")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fail(err)
		}
		cfg = loaded
	}
	cfg.Resolve(flags)

	// Show help if requested
	if *help {
		printHelp(cfg.ScenesDir)
		return
	}

	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	fmt.Println("Starting Weekend Raytracer...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := run(ctx, cfg, renderer.NewDefaultLogger()); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func formatList() string {
	names := make([]string, 0, len(output.Formats()))
	for _, f := range output.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func printHelp(scenesDir string) {
	fmt.Println("Weekend Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")

	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		fmt.Printf("  (could not list %s: %v)\n", scenesDir, err)
		scenes, _ = scene.ListAllScenes("")
	}
	for _, info := range scenes {
		switch info.Type {
		case "builtin":
			fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
		default:
			fmt.Printf("  %-12s - %s (%s)\n", info.Name, info.Description, info.FilePath)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
}

// createScene resolves name as a built-in scene, a scene file in scenesDir, or a path
// to a .json scene, applying the non-zero camera overrides
func createScene(name, scenesDir string, overrides renderer.CameraConfig) (*scene.Scene, error) {
	s, err := scene.CreateIn(scenesDir, name, overrides)
	if err != nil {
		return nil, fmt.Errorf("create scene: %w", err)
	}
	return s, nil
}

// run renders the configured scene and writes it out, returning the output path.
// With more than one pass the file is rewritten after every pass, so an interrupted
// render still leaves the last completed pass on disk.
func run(ctx context.Context, cfg config.Config, logger core.Logger) (string, error) {
	sceneObj, err := createScene(cfg.Scene, cfg.ScenesDir, cfg.CameraOverrides())
	if err != nil {
		return "", err
	}

	cameraConfig, targetWidth := cfg.Supersampled(sceneObj.CameraConfig)
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return "", fmt.Errorf("scene %s: %w", sceneObj.Name, err)
	}

	path := cfg.OutputPath(sceneObj.Name, time.Now())
	logger.Printf("Rendering %s: %dx%d, %d samples, depth %d, %d primitives\n",
		sceneObj.Name, camera.ImageWidth(), camera.ImageHeight(),
		cameraConfig.SamplesPerPixel, cameraConfig.MaxDepth, sceneObj.GetPrimitiveCount())

	if cfg.Passes <= 1 {
		frame, stats, err := renderer.Render(sceneObj.World, camera, renderer.RenderConfig{
			NumWorkers:       cfg.Workers,
			Seed:             cfg.Seed,
			ProgressInterval: 2 * time.Second,
		}, logger)
		if err != nil {
			return "", err
		}
		logger.Printf("Render completed in %v (%.1f samples/pixel)\n", stats.Elapsed, stats.AverageSamples)

		if err := output.WriteFile(path, frame, targetWidth); err != nil {
			return "", err
		}
		logger.Printf("Render saved as %s\n", path)
		return path, nil
	}

	pr, err := renderer.NewProgressiveRaytracer(sceneObj.World, camera, renderer.ProgressiveConfig{
		InitialSamples:   1,
		MaxPasses:        cfg.Passes,
		NumWorkers:       cfg.Workers,
		Seed:             cfg.Seed,
		ProgressInterval: 2 * time.Second,
	}, logger)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	passChan, errChan := pr.RenderProgressive(ctx)
	written := false
	for result := range passChan {
		if err := output.WriteFile(path, result.Frame, targetWidth); err != nil {
			cancel()
			for range passChan {
			}
			return "", err
		}
		written = true
		logger.Printf("Pass %d/%d saved as %s\n", result.PassNumber, cfg.Passes, path)
	}

	if err := <-errChan; err != nil {
		if written && errors.Is(err, context.Canceled) {
			logger.Printf("Rendering interrupted; %s holds the last completed pass\n", path)
			return path, nil
		}
		return "", err
	}
	return path, nil
}
