package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Description  string
	CameraConfig renderer.CameraConfig
	World        *geometry.HittableList // Objects in the scene
}

// New creates an empty scene with the given camera
func New(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		World:        geometry.NewHittableList(),
	}
}

// Add appends objects to the world
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

// AddSphere adds a sphere with the given material
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// AddSphereLight adds a spherical emitter to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddSphere(center, radius, material.NewEmitter(emission, 1))
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.PrimitiveCount()
}

// NewCamera derives the scene camera with any non-zero override fields applied
func (s *Scene) NewCamera(overrides ...renderer.CameraConfig) (*renderer.Camera, error) {
	config := s.CameraConfig
	for _, override := range overrides {
		config = renderer.MergeCameraConfig(config, override)
	}
	return renderer.NewCamera(config)
}
