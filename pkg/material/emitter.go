package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Emitter represents a light-emitting material
type Emitter struct {
	Color     core.Vec3 // Emitted light color
	Intensity float64   // Multiplier applied to Color
}

// NewEmitter creates a new emissive material
func NewEmitter(color core.Vec3, intensity float64) *Emitter {
	return &Emitter{Color: color, Intensity: intensity}
}

// Scatter ends the path and reports the emitted radiance as attenuation
func (e *Emitter) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{Attenuation: e.Emission()}, true
}

// Emission returns color scaled by intensity
func (e *Emitter) Emission() core.Vec3 {
	return e.Color.Multiply(e.Intensity)
}

func (e *Emitter) Kind() Kind { return KindEmitter }

func (e *Emitter) material() {}
