package output

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Downsample reduces img to width x height with CatmullRom filtering.
// Images already no larger than the target are returned unchanged.
func Downsample(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DownsampleToWidth reduces img to targetWidth, keeping its aspect ratio
func DownsampleToWidth(img image.Image, targetWidth int) image.Image {
	b := img.Bounds()
	if targetWidth <= 0 || b.Dx() <= targetWidth {
		return img
	}
	targetHeight := max(1, int(math.Round(float64(targetWidth)*float64(b.Dy())/float64(b.Dx()))))
	return Downsample(img, targetWidth, targetHeight)
}
