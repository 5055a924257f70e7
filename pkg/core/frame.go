package core

import "fmt"

// Frame is a row-major buffer of linear-space colors, one per pixel
type Frame struct {
	Width  int
	Height int
	Pixels []Vec3
}

// NewFrame allocates a black frame of the given size
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]Vec3, width*height),
	}
}

// Index returns the flat offset of pixel (x, y)
func (f *Frame) Index(x, y int) int {
	return y*f.Width + x
}

// At returns the color of pixel (x, y)
func (f *Frame) At(x, y int) Vec3 {
	return f.Pixels[f.Index(x, y)]
}

// Set stores the color of pixel (x, y)
func (f *Frame) Set(x, y int, c Vec3) {
	f.Pixels[f.Index(x, y)] = c
}

// Validate checks the buffer shape and that every pixel is finite
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, f.Width, f.Height)
	}
	if len(f.Pixels) != f.Width*f.Height {
		return fmt.Errorf("%w: frame has %d pixels, want %d", ErrInvalidConfig, len(f.Pixels), f.Width*f.Height)
	}
	for i, p := range f.Pixels {
		if !p.IsFinite() {
			return fmt.Errorf("%w: pixel (%d, %d) = %v", ErrNonFinitePixel, i%f.Width, i/f.Width, p)
		}
	}
	return nil
}
