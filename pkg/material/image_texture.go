package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DisplayGamma is the exponent used to convert display-encoded texels to
// linear values
const DisplayGamma = 2.2

// Texture provides a linear color for a point in texture space
type Texture interface {
	Evaluate(uv core.Vec2) core.Vec3
}

// ImageTexture provides color from a 2D image. Pixels hold display-encoded
// values in [0, 1] as they come out of the image file.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor
// filtering and returns the texel in linear space
func (t *ImageTexture) Evaluate(uv core.Vec2) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return core.NewVec3(1, 1, 1)
	}

	// Wrap UV coordinates to [0, 1)
	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	// V=0 is bottom, V=1 is top (image origin is top-left)
	x := int(u * float64(t.Width-1))
	y := int((1.0 - v) * float64(t.Height-1))

	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	texel := t.Pixels[y*t.Width+x]
	return core.NewVec3(
		math.Pow(max(0, texel.X), DisplayGamma),
		math.Pow(max(0, texel.Y), DisplayGamma),
		math.Pow(max(0, texel.Z), DisplayGamma),
	)
}
