package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// testLogger implements core.Logger for testing by discarding all output
type testLogger struct{}

// Ensure testLogger implements core.Logger
var _ core.Logger = (*testLogger)(nil)

func (tl *testLogger) Printf(format string, args ...interface{}) {
	// Discard log output during tests
}

// constSampler returns the same value for every dimension
type constSampler float64

func (c constSampler) Get1D() float64   { return float64(c) }
func (c constSampler) Get2D() core.Vec2 { return core.NewVec2(float64(c), float64(c)) }
func (c constSampler) Get3D() core.Vec3 { return core.NewVec3(float64(c), float64(c), float64(c)) }

// smallCameraConfig describes a 4x3 image looking down -Z from the origin
func smallCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     4.0 / 3.0,
		ImageWidth:      4,
		SamplesPerPixel: 4,
		MaxDepth:        5,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		FocusDistance:   1,
	}
}

func mustCamera(t *testing.T, config CameraConfig) *Camera {
	t.Helper()
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return camera
}

// twoSpheres is a diffuse sphere resting on a large diffuse ground sphere
func twoSpheres() *geometry.HittableList {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
	)
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}
