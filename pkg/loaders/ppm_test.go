package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodePPM_ASCII(t *testing.T) {
	input := `P3
# a comment line
2 1 # trailing comment
255
255 0 0   0 128 255
`
	img, err := DecodePPM(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodePPM failed: %v", err)
	}

	rgba := img.(*image.RGBA)
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Pixel 0 = %v, want red", got)
	}
	if got := rgba.RGBAAt(1, 0); got != (color.RGBA{0, 128, 255, 255}) {
		t.Errorf("Pixel 1 = %v, want (0,128,255)", got)
	}
}

func TestDecodePPM_Binary(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected color.RGBA
	}{
		{"8 bit", append([]byte("P6\n1 1\n255\n"), 10, 20, 30), color.RGBA{10, 20, 30, 255}},
		{"16 bit", append([]byte("P6 1 1 65535\n"), 0xFF, 0xFF, 0x80, 0x00, 0x00, 0x00), color.RGBA{255, 127, 0, 255}},
		{"low max value", append([]byte("P6\n1 1\n15\n"), 15, 0, 5), color.RGBA{255, 0, 85, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodePPM(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("DecodePPM failed: %v", err)
			}
			if got := img.(*image.RGBA).RGBAAt(0, 0); got != tt.expected {
				t.Errorf("Pixel = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDecodePPM_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong magic", "P5\n1 1\n255\n\x00"},
		{"missing height", "P3\n1"},
		{"zero max value", "P3\n1 1\n0\n0 0 0\n"},
		{"truncated ascii", "P3\n2 1\n255\n1 2 3\n"},
		{"truncated binary", "P6\n2 1\n255\n\x01\x02"},
		{"bad number", "P3\n1 1\n255\n1 two 3\n"},
		{"zero width", "P3\n0 1\n255\n"},
		{"overflowing size", "P3\n3037000500 3037000500\n255\n1 2 3\n"},
		{"too many pixels", "P6\n50000 50000\n255\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePPM(strings.NewReader(tt.input)); !errors.Is(err, ErrInvalidPPM) {
				t.Errorf("Expected ErrInvalidPPM, got %v", err)
			}
		})
	}
}

func TestEncodePPM_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatalf("EncodePPM failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "P3\n4 3\n255\n") {
		t.Errorf("Unexpected header: %q", buf.String()[:12])
	}

	// Registered with the image package, so image.Decode recognizes it
	decoded, format, err := image.Decode(&buf)
	if err != nil {
		t.Fatalf("image.Decode failed: %v", err)
	}
	if format != "ppm" {
		t.Errorf("Format = %q, want ppm", format)
	}
	if !bytes.Equal(decoded.(*image.RGBA).Pix, img.Pix) {
		t.Error("Round trip changed pixel data")
	}
}

func TestLoadImage_OversizedPPM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.ppm")
	if err := os.WriteFile(path, []byte("P6\n50000 50000\n255\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); !errors.Is(err, ErrInvalidPPM) {
		t.Errorf("Expected ErrInvalidPPM, got %v", err)
	}
	if _, err := DecodePPMConfig(strings.NewReader("P3 3037000500 3037000500 255")); !errors.Is(err, ErrInvalidPPM) {
		t.Errorf("DecodePPMConfig: expected ErrInvalidPPM, got %v", err)
	}
}

func TestDecodePPMConfig(t *testing.T) {
	config, err := DecodePPMConfig(strings.NewReader("P6\n640 480\n255\n"))
	if err != nil {
		t.Fatalf("DecodePPMConfig failed: %v", err)
	}
	if config.Width != 640 || config.Height != 480 {
		t.Errorf("Got %dx%d, want 640x480", config.Width, config.Height)
	}
}

func TestReadPPM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.ppm")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255})
	if err := WritePPM(path, img); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	decoded, err := ReadPPM(path)
	if err != nil {
		t.Fatalf("ReadPPM failed: %v", err)
	}
	if got := decoded.At(1, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("Pixel (1,0) = %v", got)
	}

	if _, err := ReadPPM(filepath.Join(t.TempDir(), "missing.ppm")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
