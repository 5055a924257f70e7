package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig contains the logical camera parameters. A Camera derived from it
// never changes; to adjust the view, modify the config and call NewCamera again.
type CameraConfig struct {
	AspectRatio     float64   // Ratio of image width over height
	ImageWidth      int       // Rendered image width in pixels
	SamplesPerPixel int       // Number of random samples for each pixel
	MaxDepth        int       // Maximum number of ray bounces into the scene
	VFov            float64   // Vertical view angle in degrees
	LookFrom        core.Vec3 // Point camera is looking from
	LookAt          core.Vec3 // Point camera is looking at
	Up              core.Vec3 // Camera-relative "up" direction
	DefocusAngle    float64   // Variation angle of rays through each pixel, in degrees
	FocusDistance   float64   // Distance from LookFrom to the plane of perfect focus
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDistance:   10,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.ImageWidth != 0 {
		result.ImageWidth = override.ImageWidth
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.LookFrom != (core.Vec3{}) {
		result.LookFrom = override.LookFrom
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// ImageHeight returns max(1, round(ImageWidth / AspectRatio))
func (c CameraConfig) ImageHeight() int {
	return max(1, int(math.Round(float64(c.ImageWidth)/c.AspectRatio)))
}

// Validate rejects parameters that would produce a degenerate viewport or NaN rays
func (c CameraConfig) Validate() error {
	switch {
	case c.ImageWidth <= 0:
		return fmt.Errorf("%w: image width must be positive, got %d", core.ErrInvalidConfig, c.ImageWidth)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio must be positive and finite, got %g", core.ErrInvalidConfig, c.AspectRatio)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", core.ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth must be positive, got %d", core.ErrInvalidConfig, c.MaxDepth)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view must be in (0, 180) degrees, got %g", core.ErrInvalidConfig, c.VFov)
	case !(c.FocusDistance > 0) || math.IsInf(c.FocusDistance, 0):
		return fmt.Errorf("%w: focus distance must be positive and finite, got %g", core.ErrInvalidConfig, c.FocusDistance)
	case !(c.DefocusAngle >= 0 && c.DefocusAngle < 180):
		return fmt.Errorf("%w: defocus angle must be in [0, 180) degrees, got %g", core.ErrInvalidConfig, c.DefocusAngle)
	}

	for name, v := range map[string]core.Vec3{"look from": c.LookFrom, "look at": c.LookAt, "up": c.Up} {
		if !v.IsFinite() {
			return fmt.Errorf("%w: %s %v is not finite", core.ErrInvalidConfig, name, v)
		}
	}

	view := c.LookFrom.Subtract(c.LookAt)
	if view.NearZero() {
		return fmt.Errorf("%w: look from and look at are the same point %v", core.ErrDegenerateGeometry, c.LookFrom)
	}
	if c.Up.Cross(view).NearZero() {
		return fmt.Errorf("%w: up vector %v is zero or parallel to the view direction", core.ErrDegenerateGeometry, c.Up)
	}
	return nil
}

// Camera holds viewport geometry derived from a CameraConfig and generates rays
type Camera struct {
	config           CameraConfig
	imageHeight      int
	pixelSampleScale float64   // Color scale factor for a sum of pixel samples
	center           core.Vec3 // Camera center
	pixel00Loc       core.Vec3 // Location of pixel 0, 0
	pixelDeltaU      core.Vec3 // Offset to pixel to the right
	pixelDeltaV      core.Vec3 // Offset to pixel below
	u, v, w          core.Vec3 // Camera frame basis vectors
	defocusDiskU     core.Vec3 // Defocus disk horizontal radius
	defocusDiskV     core.Vec3 // Defocus disk vertical radius
}

// NewCamera validates config and derives the viewport from it
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	imageHeight := config.ImageHeight()
	center := config.LookFrom

	// Viewport dimensions
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(config.ImageWidth) / float64(imageHeight))

	// Orthonormal basis: w points backward, u right, v up
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.ImageWidth))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Divide(2)).
		Subtract(viewportV.Divide(2))
	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return &Camera{
		config:           config,
		imageHeight:      imageHeight,
		pixelSampleScale: 1.0 / float64(config.SamplesPerPixel),
		center:           center,
		pixel00Loc:       pixel00Loc,
		pixelDeltaU:      pixelDeltaU,
		pixelDeltaV:      pixelDeltaV,
		u:                u,
		v:                v,
		w:                w,
		defocusDiskU:     u.Multiply(defocusRadius),
		defocusDiskV:     v.Multiply(defocusRadius),
	}, nil
}

// Config returns the logical parameters the camera was derived from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// ImageWidth returns the rendered image width
func (c *Camera) ImageWidth() int {
	return c.config.ImageWidth
}

// ImageHeight returns the rendered image height
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// Basis returns the right, up and backward unit vectors of the camera frame
func (c *Camera) Basis() (u, v, w core.Vec3) {
	return c.u, c.v, c.w
}

// PixelCenter returns the viewport location of the center of pixel (i, j)
func (c *Camera) PixelCenter(i, j int) core.Vec3 {
	return c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
}

// GetRay constructs a camera ray originating from the defocus disk and directed at a
// randomly sampled point around pixel (i, j)
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampleSquare(sampler)
	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y))

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// sampleSquare returns a random point in the [-.5,-.5]-[+.5,+.5] unit square
func sampleSquare(sampler core.Sampler) core.Vec2 {
	s := sampler.Get2D()
	return core.NewVec2(s.X-0.5, s.Y-0.5)
}

// defocusDiskSample returns a random point in the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
