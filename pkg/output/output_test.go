package output

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white saturates below 256", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"overbright clamps", core.NewVec3(7, 100, math.Inf(1)), color.RGBA{255, 255, 255, 255}},
		{"negative and NaN are black", core.NewVec3(-1, math.NaN(), math.Inf(-1)), color.RGBA{0, 0, 0, 255}},
		{"quarter is gamma half", core.NewVec3(0.25, 0.25, 0.25), color.RGBA{128, 128, 128, 255}},
		{"sky gradient midpoint", core.NewVec3(0.75, 0.85, 1.0), color.RGBA{221, 236, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGBA(tt.input); got != tt.expected {
				t.Errorf("ToRGBA(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFromColor_InvertsToRGBA(t *testing.T) {
	for b := 0; b < 256; b++ {
		c := color.RGBA{uint8(b), uint8(b), uint8(b), 255}
		if got := ToRGBA(FromColor(c)); got != c {
			t.Fatalf("ToRGBA(FromColor(%v)) = %v", c, got)
		}
	}
}

func TestWritePPM(t *testing.T) {
	frame := core.NewFrame(2, 2)
	frame.Set(0, 0, core.NewVec3(1, 0, 0))
	frame.Set(1, 0, core.NewVec3(0, 1, 0))
	frame.Set(0, 1, core.NewVec3(0, 0, 1))
	frame.Set(1, 1, core.NewVec3(0.25, 0.25, 0.25))

	var buf bytes.Buffer
	if err := WritePPM(&buf, frame); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	expected := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"128 128 128\n"
	if buf.String() != expected {
		t.Errorf("WritePPM output:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestDecodePPM_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"binary magic", "P6\n1 1\n255\n0 0 0\n"},
		{"zero width", "P3\n0 1\n255\n"},
		{"wrong max value", "P3\n1 1\n15\n0 0 0\n"},
		{"truncated pixels", "P3\n2 1\n255\n0 0 0\n"},
		{"value out of range", "P3\n1 1\n255\n0 300 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), FormatPPM); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"tif", FormatTIFF, false},
		{".webp", FormatWebP, false},
		{"tga", FormatTGA, false},
		{"bmp", FormatBMP, false},
		{"ppm", FormatPPM, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("output/default/render_1.webp"); err != nil || f != FormatWebP {
		t.Errorf("FormatFromPath = %q, %v; want webp", f, err)
	}
	if _, err := FormatFromPath("output/render"); err == nil {
		t.Error("Expected error for a path without extension")
	}
}

// gradientFrame has a distinct color in every pixel
func gradientFrame(width, height int) *core.Frame {
	frame := core.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			frame.Set(x, y, core.NewVec3(
				float64(x)/float64(width),
				float64(y)/float64(height),
				0.5,
			))
		}
	}
	return frame
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	source := ToImage(gradientFrame(8, 5))

	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, source, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decoded, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 5 {
				t.Fatalf("Decoded size %v, want 8x5", decoded.Bounds())
			}

			// JPEG is lossy; everything else must match exactly
			tolerance := 0
			if format == FormatJPEG {
				tolerance = 24
			}
			assertImagesClose(t, source, decoded, tolerance)
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), Format("gif")); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	fill := color.RGBA{100, 150, 200, 255}
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			src.SetRGBA(x, y, fill)
		}
	}

	dst := DownsampleToWidth(src, 20)
	if dst.Bounds().Dx() != 20 || dst.Bounds().Dy() != 15 {
		t.Fatalf("Downsampled size %v, want 20x15", dst.Bounds())
	}

	// A flat image stays flat
	for y := 0; y < 15; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBAModel.Convert(dst.At(x, y)).(color.RGBA)
			if absDiff(c.R, fill.R) > 1 || absDiff(c.G, fill.G) > 1 || absDiff(c.B, fill.B) > 1 {
				t.Fatalf("Pixel (%d, %d) = %v, want about %v", x, y, c, fill)
			}
		}
	}

	if same := DownsampleToWidth(src, 40); same != image.Image(src) {
		t.Error("Expected the image unchanged when already at target width")
	}
	if same := DownsampleToWidth(src, 0); same != image.Image(src) {
		t.Error("Expected the image unchanged for a zero target width")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	frame := gradientFrame(6, 4)

	for _, ext := range []string{"png", "ppm", "webp", "tga", "bmp", "tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "nested", "render."+ext)
			if err := WriteFile(path, frame, 0); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			read, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			assertImagesClose(t, ToImage(frame), ToImage(read), 0)
		})
	}
}

func TestWriteFile_Supersampled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.png")
	if err := WriteFile(path, gradientFrame(16, 10), 8); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	read, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if read.Width != 8 || read.Height != 5 {
		t.Errorf("Written image is %dx%d, want 8x5", read.Width, read.Height)
	}
}

func TestWriteFile_Errors(t *testing.T) {
	dir := t.TempDir()
	frame := gradientFrame(2, 2)

	if err := WriteFile(filepath.Join(dir, "render.gif"), frame, 0); err == nil {
		t.Error("Expected error for unsupported extension")
	}
	if _, err := os.Stat(filepath.Join(dir, "render.gif")); !os.IsNotExist(err) {
		t.Error("No file should be created for an unsupported extension")
	}
	if _, err := ReadFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error reading a missing file")
	}
}

func assertImagesClose(t *testing.T, want, got image.Image, tolerance int) {
	t.Helper()
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := color.RGBAModel.Convert(want.At(x, y)).(color.RGBA)
			g := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			if absDiff(w.R, g.R) > tolerance || absDiff(w.G, g.G) > tolerance || absDiff(w.B, g.B) > tolerance {
				t.Fatalf("Pixel (%d, %d) = %v, want %v (tolerance %d)", x, y, g, w, tolerance)
			}
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
