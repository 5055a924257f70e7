package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// WritePPM writes frame as a plain-text P3 PPM: a "P3\n<w> <h>\n255\n" header followed
// by one "R G B" line per pixel in row-major order
func WritePPM(w io.Writer, frame *core.Frame) error {
	return encodePPM(w, ToImage(frame))
}

func encodePPM(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	b := img.Bounds()

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("ppm: write header: %w", err)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("ppm: write pixel (%d, %d): %w", x, y, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("ppm: flush: %w", err)
	}
	return nil
}

// decodePPM reads a P3 PPM with a maximum value of 255. Comments are not supported.
func decodePPM(r io.Reader) (*image.RGBA, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("ppm: read header: %w", err)
	}
	if magic != "P3" {
		return nil, fmt.Errorf("ppm: unsupported magic %q", magic)
	}
	if width <= 0 || height <= 0 || maxVal != 255 {
		return nil, fmt.Errorf("ppm: unsupported header %dx%d max %d", width, height, maxVal)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var red, green, blue int
			if _, err := fmt.Fscan(br, &red, &green, &blue); err != nil {
				return nil, fmt.Errorf("ppm: read pixel (%d, %d): %w", x, y, err)
			}
			for _, v := range [3]int{red, green, blue} {
				if v < 0 || v > maxVal {
					return nil, fmt.Errorf("ppm: pixel (%d, %d) value %d out of range", x, y, v)
				}
			}
			img.SetRGBA(x, y, color.RGBA{R: uint8(red), G: uint8(green), B: uint8(blue), A: 255})
		}
	}
	return img, nil
}
