package renderer

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
)

// hitEpsilon is the lower bound of the ray interval, skipping self-intersections
// caused by floating-point error at the previous hit point
const hitEpsilon = 0.001

// Sky gradient endpoints
var (
	skyBottomColor = core.NewVec3(1.0, 1.0, 1.0)
	skyTopColor    = core.NewVec3(0.5, 0.7, 1.0)
)

// Raytracer estimates radiance along camera rays for a world
type Raytracer struct {
	world  geometry.Hittable
	camera *Camera
}

// NewRaytracer creates a new raytracer. The world and camera are shared read-only
// between goroutines.
func NewRaytracer(world geometry.Hittable, camera *Camera) *Raytracer {
	return &Raytracer{
		world:  world,
		camera: camera,
	}
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// BackgroundColor returns the sky color for a ray that escapes the scene,
// blending white at the horizon to blue overhead by the unit direction's Y
func BackgroundColor(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return skyBottomColor.Multiply(1.0 - a).Add(skyTopColor.Multiply(a))
}

// RayColor computes the radiance arriving along ray with depth bounces remaining
func (rt *Raytracer) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := rt.world.Hit(ray, core.NewInterval(hitEpsilon, math.Inf(1)))
	if !isHit {
		return BackgroundColor(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}
	if scatter.IsEmission() {
		return scatter.Attenuation
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(*scatter.Scattered, depth-1, sampler))
}

// SamplePixel traces one jittered camera ray through pixel (i, j)
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	ray := rt.camera.GetRay(i, j, sampler)
	return rt.RayColor(ray, rt.camera.config.MaxDepth, sampler)
}

// RenderPixel averages SamplesPerPixel samples of pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	var accum core.Vec3
	for range rt.camera.config.SamplesPerPixel {
		accum.AddAssign(rt.SamplePixel(i, j, sampler))
	}
	return accum.Multiply(rt.camera.pixelSampleScale)
}

// RenderRow brings every pixel of row j up to targetSamples samples.
// pixels must hold exactly one entry per image column.
func (rt *Raytracer) RenderRow(j int, pixels []PixelStats, targetSamples int, sampler core.Sampler) RenderStats {
	stats := newRenderStats(len(pixels), targetSamples)

	for i := range pixels {
		ps := &pixels[i]
		before := ps.SampleCount
		for ps.SampleCount < targetSamples {
			ps.AddSample(rt.SamplePixel(i, j, sampler))
		}
		stats.update(ps.SampleCount - before)
	}

	stats.finalize()
	return stats
}
