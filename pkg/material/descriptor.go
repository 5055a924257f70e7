package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Color is a linear RGB value that decodes from JSON as either [r, g, b]
// or a color name / "#rrggbb" hex string. Names and hex strings are display
// colors and are linearized with gamma 2 to match the output encoding.
type Color core.Vec3

// Vec3 returns the color as a core.Vec3
func (c Color) Vec3() core.Vec3 {
	return core.Vec3(c)
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		v, err := ParseColor(name)
		if err != nil {
			return err
		}
		*c = Color(v)
		return nil
	}

	var rgb []float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color: expected [r, g, b] or a name: %w", err)
	}
	if len(rgb) != 3 {
		return fmt.Errorf("color: expected 3 components, got %d", len(rgb))
	}
	*c = Color(core.NewVec3(rgb[0], rgb[1], rgb[2]))
	return nil
}

// MarshalJSON implements json.Marshaler
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.X, c.Y, c.Z})
}

// ParseColor resolves an SVG color name (e.g. "steelblue") or a "#rrggbb" string
// to a linear color.
func ParseColor(s string) (core.Vec3, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	var r, g, b uint8
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return core.Vec3{}, fmt.Errorf("color: malformed hex color %q", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("color: malformed hex color %q: %w", s, err)
		}
		r, g, b = uint8(v>>16), uint8(v>>8), uint8(v)
	} else {
		named, ok := colornames.Map[s]
		if !ok {
			return core.Vec3{}, fmt.Errorf("color: unknown color name %q", s)
		}
		r, g, b = named.R, named.G, named.B
	}

	linear := func(c uint8) float64 {
		f := float64(c) / 255.0
		return f * f
	}
	return core.NewVec3(linear(r), linear(g), linear(b)), nil
}

// Descriptor is the serialized form of a material
type Descriptor struct {
	Type            Kind     `json:"type"`
	Albedo          *Color   `json:"albedo,omitempty"`
	Color           *Color   `json:"color,omitempty"`
	Fuzz            float64  `json:"fuzz,omitempty"`
	RefractiveIndex float64  `json:"refractive_index,omitempty"`
	Intensity       *float64 `json:"intensity,omitempty"` // Absent means 1
}

// Build creates the material the descriptor names
func (d Descriptor) Build() (Material, error) {
	switch d.Type {
	case KindLambertian:
		if d.Albedo == nil {
			return nil, fmt.Errorf("%w: lambertian material needs an albedo", core.ErrInvalidConfig)
		}
		return NewLambertian(d.Albedo.Vec3()), nil
	case KindMetal:
		if d.Albedo == nil {
			return nil, fmt.Errorf("%w: metal material needs an albedo", core.ErrInvalidConfig)
		}
		return NewMetal(d.Albedo.Vec3(), d.Fuzz), nil
	case KindDielectric:
		if d.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("%w: dielectric refractive index must be positive, got %g", core.ErrInvalidConfig, d.RefractiveIndex)
		}
		return NewDielectric(d.RefractiveIndex), nil
	case KindEmitter:
		if d.Color == nil {
			return nil, fmt.Errorf("%w: emitter material needs a color", core.ErrInvalidConfig)
		}
		intensity := 1.0
		if d.Intensity != nil {
			intensity = *d.Intensity
		}
		return NewEmitter(d.Color.Vec3(), intensity), nil
	}
	return nil, fmt.Errorf("%w: unknown material type %q", core.ErrInvalidConfig, d.Type)
}

// Describe returns the descriptor for a material
func Describe(m Material) Descriptor {
	switch mat := m.(type) {
	case *Lambertian:
		albedo := Color(mat.Albedo)
		return Descriptor{Type: KindLambertian, Albedo: &albedo}
	case *Metal:
		albedo := Color(mat.Albedo)
		return Descriptor{Type: KindMetal, Albedo: &albedo, Fuzz: mat.Fuzzness}
	case *Dielectric:
		return Descriptor{Type: KindDielectric, RefractiveIndex: mat.RefractiveIndex}
	case *Emitter:
		c := Color(mat.Color)
		intensity := mat.Intensity
		return Descriptor{Type: KindEmitter, Color: &c, Intensity: &intensity}
	}
	panic(fmt.Sprintf("material: unhandled material %T", m))
}
