package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// WriteFile encodes frame to path in the format named by its extension, creating
// parent directories as needed. A positive targetWidth smaller than the frame
// downsamples a supersampled render to that width first.
func WriteFile(path string, frame *core.Frame, targetWidth int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	img := DownsampleToWidth(ToImage(frame), targetWidth)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the image at path, choosing the decoder by extension, and converts
// it back to a linear frame
func ReadFile(path string) (*core.Frame, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}
