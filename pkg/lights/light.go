package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

type LightType string

const (
	LightTypePoint LightType = "point"
	LightTypeDisk  LightType = "disk"
)

// Light is a point light, or a disk light when Radius is positive. A disk
// light always faces the point being shaded, so only its radius matters.
type Light struct {
	Position  core.Vec3
	Intensity core.Vec3 // Linear RGB
	Radius    float64
}

// NewPointLight creates a light without area
func NewPointLight(position, intensity core.Vec3) Light {
	return Light{Position: position, Intensity: intensity}
}

// NewDiskLight creates a light with a circular emitting area for soft shadows
func NewDiskLight(position, intensity core.Vec3, radius float64) Light {
	return Light{Position: position, Intensity: intensity, Radius: max(0, radius)}
}

// Type reports whether the light is a point or a disk
func (l Light) Type() LightType {
	if l.Radius > 0 {
		return LightTypeDisk
	}
	return LightTypePoint
}

// SamplePoint maps a point of the unit square onto the light's disk, oriented
// to face target. Point lights always return their position.
func (l Light) SamplePoint(target core.Vec3, sample core.Vec2) core.Vec3 {
	if l.Radius <= 0 {
		return l.Position
	}

	forward := target.Subtract(l.Position).Normalize()
	if forward == (core.Vec3{}) {
		return l.Position
	}

	right, up := core.OrthonormalBasis(forward)

	r := l.Radius * math.Sqrt(sample.X)
	theta := 2.0 * math.Pi * sample.Y

	return l.Position.
		Add(right.Multiply(r * math.Cos(theta))).
		Add(up.Multiply(r * math.Sin(theta)))
}
