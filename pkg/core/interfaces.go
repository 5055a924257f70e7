package core

import "errors"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards all output
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

var (
	// ErrInvalidConfig reports camera, render or scene parameters that cannot produce an image
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrDegenerateGeometry reports geometry with no usable extent or direction
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrNonFinitePixel reports a NaN or infinite channel in a rendered pixel
	ErrNonFinitePixel = errors.New("non-finite pixel value")
)
