package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ShapeSphere is the only shape kind a scene file may contain
const ShapeSphere = "sphere"

// Point is an [x, y, z] triple in a scene file
type Point [3]float64

// Vec3 returns the point as a core.Vec3
func (p Point) Vec3() core.Vec3 {
	return core.NewVec3(p[0], p[1], p[2])
}

func pointOf(v core.Vec3) *Point {
	return &Point{v.X, v.Y, v.Z}
}

// CameraFile is the camera block of a scene file. Omitted fields keep the defaults.
type CameraFile struct {
	AspectRatio   float64 `json:"aspect_ratio,omitempty"`
	Width         int     `json:"width,omitempty"`
	Samples       int     `json:"samples,omitempty"`
	MaxDepth      int     `json:"max_depth,omitempty"`
	VFov          float64 `json:"vfov,omitempty"`
	LookFrom      *Point  `json:"look_from,omitempty"`
	LookAt        *Point  `json:"look_at,omitempty"`
	Up            *Point  `json:"up,omitempty"`
	DefocusAngle  float64 `json:"defocus_angle,omitempty"`
	FocusDistance float64 `json:"focus_distance,omitempty"`
}

// ObjectFile describes one primitive of a scene file
type ObjectFile struct {
	Shape    string              `json:"shape"`
	Center   Point               `json:"center"`
	Radius   float64             `json:"radius"`
	Material material.Descriptor `json:"material"`
}

// File is the JSON form of a scene
type File struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Camera      CameraFile   `json:"camera"`
	Objects     []ObjectFile `json:"objects"`
}

// cameraConfig merges the camera block over the default camera. Points are
// copied whenever present so an explicit origin is kept.
func (c CameraFile) cameraConfig() renderer.CameraConfig {
	config := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), renderer.CameraConfig{
		AspectRatio:     c.AspectRatio,
		ImageWidth:      c.Width,
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
		VFov:            c.VFov,
		DefocusAngle:    c.DefocusAngle,
		FocusDistance:   c.FocusDistance,
	})
	if c.LookFrom != nil {
		config.LookFrom = c.LookFrom.Vec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.Vec3()
	}
	if c.Up != nil {
		config.Up = c.Up.Vec3()
	}
	return config
}

// build converts an object descriptor into a hittable
func (o ObjectFile) build() (geometry.Hittable, error) {
	shape := o.Shape
	if shape == "" {
		shape = ShapeSphere
	}
	if shape != ShapeSphere {
		return nil, fmt.Errorf("%w: unknown shape %q", core.ErrInvalidConfig, o.Shape)
	}

	mat, err := o.Material.Build()
	if err != nil {
		return nil, err
	}
	return geometry.NewValidSphere(o.Center.Vec3(), o.Radius, mat)
}

// Load reads a JSON scene description
func Load(r io.Reader) (*Scene, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: parse scene: %v", core.ErrInvalidConfig, err)
	}

	s := New(file.Name, file.Camera.cameraConfig())
	s.Description = file.Description

	for i, object := range file.Objects {
		hittable, err := object.build()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		s.Add(hittable)
	}

	if err := s.CameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	return s, nil
}

// LoadFile reads a JSON scene description from path. A scene without a name is
// named after the file.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Save writes s as a JSON scene description. Nested lists are flattened.
func Save(w io.Writer, s *Scene) error {
	c := s.CameraConfig
	file := File{
		Name:        s.Name,
		Description: s.Description,
		Camera: CameraFile{
			AspectRatio:   c.AspectRatio,
			Width:         c.ImageWidth,
			Samples:       c.SamplesPerPixel,
			MaxDepth:      c.MaxDepth,
			VFov:          c.VFov,
			LookFrom:      pointOf(c.LookFrom),
			LookAt:        pointOf(c.LookAt),
			Up:            pointOf(c.Up),
			DefocusAngle:  c.DefocusAngle,
			FocusDistance: c.FocusDistance,
		},
	}

	var walk func(list *geometry.HittableList)
	walk = func(list *geometry.HittableList) {
		for _, object := range list.Objects {
			switch obj := object.(type) {
			case *geometry.HittableList:
				walk(obj)
			case *geometry.Sphere:
				file.Objects = append(file.Objects, ObjectFile{
					Shape:    ShapeSphere,
					Center:   *pointOf(obj.Center),
					Radius:   obj.Radius,
					Material: material.Describe(obj.Material),
				})
			}
		}
	}
	walk(s.World)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
