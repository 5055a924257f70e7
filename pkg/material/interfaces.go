package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Material decides how a ray continues after striking a surface.
// The set of materials is closed: Lambertian, Metal, Dielectric and Emitter.
type Material interface {
	// Scatter returns false when the ray is absorbed.
	// A result without a scattered ray is an emitter: its attenuation is emitted radiance.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Kind returns the descriptor name of the material
	Kind() Kind

	material()
}

// Kind names a material variant
type Kind string

const (
	KindLambertian Kind = "lambertian"
	KindMetal      Kind = "metal"
	KindDielectric Kind = "dielectric"
	KindEmitter    Kind = "emitter"
)

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Vec3 // Color attenuation, or emitted radiance when Scattered is nil
	Scattered   *core.Ray // Continuation ray; nil ends the path
}

// IsEmission returns true if the path terminates at a light source
func (s ScatterResult) IsEmission() bool {
	return s.Scattered == nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

func scattered(origin, direction core.Vec3) *core.Ray {
	r := core.NewRay(origin, direction)
	return &r
}
