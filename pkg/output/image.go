package output

import (
	"image"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ToImage converts a linear frame to an 8-bit display image with row 0 at the top
func ToImage(frame *core.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			img.SetRGBA(x, y, ToRGBA(frame.At(x, y)))
		}
	}
	return img
}

// FromImage converts a display image back to a linear frame
func FromImage(img image.Image) *core.Frame {
	bounds := img.Bounds()
	frame := core.NewFrame(bounds.Dx(), bounds.Dy())

	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			frame.Set(x, y, FromColor(img.At(x+bounds.Min.X, y+bounds.Min.Y)))
		}
	}
	return frame
}
