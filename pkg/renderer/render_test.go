package renderer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

func TestRender_TwoSpheresEndToEnd(t *testing.T) {
	camera := mustCamera(t, smallCameraConfig())

	frame, stats, err := Render(twoSpheres(), camera, RenderConfig{NumWorkers: 2, Seed: 42}, &testLogger{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if frame.Width != 4 || frame.Height != 3 || len(frame.Pixels) != 12 {
		t.Fatalf("Frame is %dx%d with %d pixels, want 4x3 with 12", frame.Width, frame.Height, len(frame.Pixels))
	}
	if err := frame.Validate(); err != nil {
		t.Errorf("Frame failed validation: %v", err)
	}

	// Albedos and sky are all within [0, 1], so every average is too
	for i, p := range frame.Pixels {
		for _, c := range []float64{p.X, p.Y, p.Z} {
			if c < 0 || c > 1 || math.IsNaN(c) {
				t.Fatalf("Pixel %d = %v has a channel outside [0, 1]", i, p)
			}
		}
	}

	if stats.TotalPixels != 12 || stats.TotalSamples != 48 {
		t.Errorf("Stats = %+v, want 12 pixels and 48 samples", stats)
	}
	if stats.MinSamples != 4 || stats.MaxSamplesUsed != 4 || stats.AverageSamples != 4 {
		t.Errorf("Every pixel should have exactly 4 samples, got %+v", stats)
	}
}

func TestRender_SkyOnlyTopRowIsBluer(t *testing.T) {
	camera := mustCamera(t, smallCameraConfig())

	frame, _, err := Render(geometry.NewHittableList(), camera, RenderConfig{Seed: 1}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Row 0 is the top of the image, where the gradient approaches (0.5, 0.7, 1)
	top, bottom := frame.At(0, 0), frame.At(0, frame.Height-1)
	if top.X >= bottom.X {
		t.Errorf("Top pixel %v should be bluer than bottom pixel %v", top, bottom)
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	camera := mustCamera(t, smallCameraConfig())

	reference, _, err := Render(twoSpheres(), camera, RenderConfig{NumWorkers: 1, Seed: 99}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, workers := range []int{2, 3, 8} {
		frame, _, err := Render(twoSpheres(), camera, RenderConfig{NumWorkers: workers, Seed: 99}, nil)
		if err != nil {
			t.Fatalf("Render with %d workers: %v", workers, err)
		}
		for i := range reference.Pixels {
			if frame.Pixels[i] != reference.Pixels[i] {
				t.Fatalf("%d workers: pixel %d = %v, want %v", workers, i, frame.Pixels[i], reference.Pixels[i])
			}
		}
	}
}

func TestRender_SeedChangesNoise(t *testing.T) {
	camera := mustCamera(t, smallCameraConfig())

	a, _, err := Render(twoSpheres(), camera, RenderConfig{Seed: 1}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, _, err := Render(twoSpheres(), camera, RenderConfig{Seed: 2}, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			return
		}
	}
	t.Error("Different seeds produced identical frames")
}

func TestRender_WorkerPanicAbortsRender(t *testing.T) {
	// A sphere without a material panics in the worker on the first hit
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	camera := mustCamera(t, smallCameraConfig())

	frame, _, err := Render(world, camera, RenderConfig{NumWorkers: 2}, nil)
	if err == nil {
		t.Fatal("Expected an error from a panicking worker")
	}
	if !strings.Contains(err.Error(), "panic") {
		t.Errorf("Error %q should mention the panic", err)
	}
	if frame != nil {
		t.Error("Expected no frame from an aborted render")
	}
}

func TestRender_NonFinitePixelIsReported(t *testing.T) {
	light := material.NewEmitter(core.NewVec3(1, 1, 1), math.Inf(1))
	world := geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 5, light))
	camera := mustCamera(t, smallCameraConfig())

	_, _, err := Render(world, camera, RenderConfig{}, nil)
	if !errors.Is(err, core.ErrNonFinitePixel) {
		t.Errorf("Render error = %v, want ErrNonFinitePixel", err)
	}
}

func TestRender_RejectsInvalidConfig(t *testing.T) {
	camera := mustCamera(t, smallCameraConfig())

	if _, _, err := Render(twoSpheres(), camera, RenderConfig{NumWorkers: -1}, nil); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Negative workers: error = %v, want ErrInvalidConfig", err)
	}
	if _, _, err := Render(nil, camera, RenderConfig{}, nil); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Nil world: error = %v, want ErrInvalidConfig", err)
	}
	if _, _, err := Render(twoSpheres(), nil, RenderConfig{}, nil); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Nil camera: error = %v, want ErrInvalidConfig", err)
	}
}
