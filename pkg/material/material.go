package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material describes a Blinn-Phong surface. Reflectivity and Transparency are
// applied by the integrator as two sequential blends over the locally lit
// color, so they do not need to sum to one.
type Material struct {
	Diffuse      core.Vec3 // Base color, linear RGB
	Specular     core.Vec3 // Highlight color, linear RGB
	Shininess    float64   // Blinn-Phong exponent
	Reflectivity float64   // [0,1] weight of the reflected ray
	Transparency float64   // [0,1] weight of the transmitted ray
	IOR          float64   // Index of refraction used for transmission
	Roughness    float64   // [0,1] spread of glossy reflections
	Texture      Texture   // Optional, modulates Diffuse
}

// Default material parameters used for shapes that do not set them
const (
	DefaultShininess = 32.0
	DefaultIOR       = 1.5
)

// NewMaterial creates a plain opaque material with the given diffuse color
func NewMaterial(diffuse core.Vec3) *Material {
	return &Material{
		Diffuse:   diffuse,
		Specular:  core.NewVec3(0.5, 0.5, 0.5),
		Shininess: DefaultShininess,
		IOR:       DefaultIOR,
	}
}

// NewMirror creates a reflective material. A roughness above zero gives
// glossy reflections when glossy sampling is enabled.
func NewMirror(diffuse core.Vec3, reflectivity, roughness float64) *Material {
	m := NewMaterial(diffuse)
	m.Specular = core.NewVec3(1, 1, 1)
	m.Shininess = 128
	m.Reflectivity = reflectivity
	m.Roughness = roughness
	return m
}

// NewGlass creates a transparent, lightly reflective material
func NewGlass(tint core.Vec3, transparency, ior float64) *Material {
	m := NewMaterial(tint)
	m.Specular = core.NewVec3(1, 1, 1)
	m.Shininess = 256
	m.Transparency = transparency
	m.Reflectivity = 0.1
	m.IOR = ior
	return m
}

// IsTransparent reports whether shadow rays pass through the surface
func (m *Material) IsTransparent() bool {
	return m.Transparency > 0
}

// DiffuseAt returns the diffuse color at the given texture coordinates
func (m *Material) DiffuseAt(uv core.Vec2) core.Vec3 {
	if m.Texture == nil {
		return m.Diffuse
	}
	return m.Diffuse.MultiplyVec(m.Texture.Evaluate(uv))
}

// Clamped returns a copy with the weights forced into their valid ranges
func (m Material) Clamped() *Material {
	m.Diffuse = m.Diffuse.MaxVec(core.Vec3{})
	m.Specular = m.Specular.MaxVec(core.Vec3{})
	m.Reflectivity = clamp01(m.Reflectivity)
	m.Transparency = clamp01(m.Transparency)
	m.Roughness = clamp01(m.Roughness)
	if m.Shininess < 0 {
		m.Shininess = 0
	}
	if m.IOR <= 0 {
		m.IOR = DefaultIOR
	}
	return &m
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
