package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"
)

// ErrInvalidPPM is returned for data that is not a P3 or P6 image
var ErrInvalidPPM = errors.New("invalid PPM")

// maxPPMPixels bounds the image size accepted from a header
const maxPPMPixels = 1 << 26

func init() {
	image.RegisterFormat("ppm", "P3", DecodePPM, DecodePPMConfig)
	image.RegisterFormat("ppm", "P6", DecodePPM, DecodePPMConfig)
}

type ppmHeader struct {
	magic  string
	width  int
	height int
	maxVal int
}

// ppmReader splits the header into whitespace-separated tokens, skipping
// comments that run from '#' to the end of the line
type ppmReader struct {
	r *bufio.Reader
}

func (p *ppmReader) token() (string, error) {
	var buf []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		switch {
		case b == '#' && len(buf) == 0:
			if _, err := p.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f':
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (p *ppmReader) integer(name string) (int, error) {
	tok, err := p.token()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrInvalidPPM, name, err)
	}
	value, err := strconv.Atoi(tok)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", ErrInvalidPPM, name, tok)
	}
	return value, nil
}

func (p *ppmReader) header() (ppmHeader, error) {
	var h ppmHeader
	magic, err := p.token()
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidPPM, err)
	}
	if magic != "P3" && magic != "P6" {
		return h, fmt.Errorf("%w: unsupported magic %q", ErrInvalidPPM, magic)
	}
	h.magic = magic

	if h.width, err = p.integer("width"); err != nil {
		return h, err
	}
	if h.height, err = p.integer("height"); err != nil {
		return h, err
	}
	if h.width == 0 || h.height == 0 || h.width > maxPPMPixels/h.height {
		return h, fmt.Errorf("%w: unsupported size %dx%d", ErrInvalidPPM, h.width, h.height)
	}
	if h.maxVal, err = p.integer("max value"); err != nil {
		return h, err
	}
	if h.maxVal == 0 || h.maxVal > 65535 {
		return h, fmt.Errorf("%w: max value %d out of range", ErrInvalidPPM, h.maxVal)
	}
	return h, nil
}

// DecodePPMConfig returns the dimensions of a PPM image without reading
// its pixels
func DecodePPMConfig(r io.Reader) (image.Config, error) {
	p := &ppmReader{r: bufio.NewReader(r)}
	h, err := p.header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodePPM reads an ASCII (P3) or binary (P6) PPM image. Samples are
// rescaled from the file's max value to 8 bits.
func DecodePPM(r io.Reader) (image.Image, error) {
	p := &ppmReader{r: bufio.NewReader(r)}
	h, err := p.header()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	scale := func(v int) uint8 {
		return uint8(min(v, h.maxVal) * 255 / h.maxVal)
	}

	var next func() (int, error)
	if h.magic == "P3" {
		next = func() (int, error) { return p.integer("sample") }
	} else {
		// The header ends with exactly one whitespace byte, already consumed
		wide := h.maxVal > 255
		next = func() (int, error) {
			hi, err := p.r.ReadByte()
			if err != nil {
				return 0, fmt.Errorf("%w: truncated pixel data", ErrInvalidPPM)
			}
			if !wide {
				return int(hi), nil
			}
			lo, err := p.r.ReadByte()
			if err != nil {
				return 0, fmt.Errorf("%w: truncated pixel data", ErrInvalidPPM)
			}
			return int(hi)<<8 | int(lo), nil
		}
	}

	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			var rgb [3]int
			for c := range rgb {
				if rgb[c], err = next(); err != nil {
					return nil, err
				}
			}
			img.SetRGBA(x, y, color.RGBA{R: scale(rgb[0]), G: scale(rgb[1]), B: scale(rgb[2]), A: 255})
		}
	}

	return img, nil
}

// EncodePPM writes an image as ASCII (P3) PPM with a max value of 255
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadPPM loads a PPM file
func ReadPPM(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, err := DecodePPM(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

// WritePPM saves an image as a P3 PPM file
func WritePPM(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := EncodePPM(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}
