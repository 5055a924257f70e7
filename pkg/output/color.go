package output

import (
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// intensity keeps a channel strictly below 1 so scaling by 256 never reaches 256
var intensity = core.NewInterval(0.000, 0.999)

// linearToGamma applies gamma 2. Non-positive and NaN components map to 0.
func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// gammaToLinear inverts linearToGamma for an 8-bit channel, using the center of
// the channel's quantization bucket so ToRGBA maps the result back to b
func gammaToLinear(b uint8) float64 {
	g := (float64(b) + 0.5) / 256
	return g * g
}

func toByte(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(linearToGamma(linear)))
}

// ToRGBA converts a linear color to an opaque 8-bit display color.
// Values above 1 saturate at 255 and negative values become 0.
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
		A: 255,
	}
}

// FromColor converts a display color back to linear space. Alpha is ignored.
func FromColor(c color.Color) core.Vec3 {
	// RGBA returns uint32 in [0, 65535]
	r, g, b, _ := c.RGBA()
	return core.NewVec3(
		gammaToLinear(uint8(r>>8)),
		gammaToLinear(uint8(g>>8)),
		gammaToLinear(uint8(b>>8)),
	)
}
