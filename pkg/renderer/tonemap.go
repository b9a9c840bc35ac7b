package renderer

import (
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DisplayGamma is the gamma of the encoded output image
const DisplayGamma = 2.2

// ACES filmic curve fit
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

// ToneMap compresses linear radiance with the selected operator. Negative
// components are treated as zero.
func ToneMap(c core.Vec3, mode ToneMapping) core.Vec3 {
	c = c.MaxVec(core.Vec3{})
	switch mode {
	case ToneMappingReinhard:
		return core.NewVec3(c.X/(1+c.X), c.Y/(1+c.Y), c.Z/(1+c.Z))
	case ToneMappingFilmic:
		return core.NewVec3(aces(c.X), aces(c.Y), aces(c.Z))
	default:
		return c
	}
}

func aces(x float64) float64 {
	mapped := (x * (acesA*x + acesB)) / (x*(acesC*x+acesD) + acesE)
	return max(0, min(1, mapped))
}

// ToDisplay converts linear radiance to an 8-bit display color: exposure,
// tone mapping, gamma, then clamping
func ToDisplay(c core.Vec3, exposure float64, mode ToneMapping) color.RGBA {
	c = ToneMap(c.Multiply(exposure), mode)
	c = c.GammaCorrect(DisplayGamma).Multiply(255).Clamp(0, 255)

	return color.RGBA{
		R: uint8(c.X),
		G: uint8(c.Y),
		B: uint8(c.Z),
		A: 255,
	}
}
