package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewTextureTestScene creates a scene with each primitive kind carrying a
// checkerboard or UV debug texture, for checking texture coordinates
func NewTextureTestScene() *Scene {
	s := NewScene("textures")
	s.Camera = NewLookAtCamera(core.NewVec3(0, 2.5, 7), core.NewVec3(0, 0.8, 0), yUp, 40, 480, 270)

	s.AddLight(lights.NewPointLight(core.NewVec3(0, 6, 6), core.NewVec3(60, 60, 60)))
	s.AddLight(lights.NewDiskLight(core.NewVec3(-5, 5, 2), core.NewVec3(20, 20, 24), 1))

	textured := func(texture material.Texture) *material.Material {
		m := material.NewMaterial(core.NewVec3(1, 1, 1))
		m.Specular = core.NewVec3(0.2, 0.2, 0.2)
		m.Texture = texture
		return m
	}

	checker := material.NewCheckerboardTexture(64, 64, 8, core.NewVec3(0.95, 0.95, 0.95), core.NewVec3(0.1, 0.1, 0.1))
	redChecker := material.NewCheckerboardTexture(64, 64, 16, core.NewVec3(0.9, 0.2, 0.2), core.NewVec3(0.9, 0.9, 0.9))
	uvDebug := material.NewUVDebugTexture(64, 64)

	ground := textured(checker)
	ground.Reflectivity = 0.1
	s.Add(NewGroundQuad(core.NewVec3(0, 0, 0), 12, ground))

	s.Add(
		geometry.NewSphere(core.NewVec3(-2.4, 0.8, 0), 0.8, textured(uvDebug)),
		geometry.NewSphere(core.NewVec3(-0.6, 0.6, 1.4), 0.6, textured(redChecker)),
		geometry.NewBox(core.NewVec3(0.6, 0.7, 0), core.Splat(0.7), core.NewVec3(0, math.Pi/6, 0), textured(uvDebug)),
		geometry.NewQuad(core.NewVec3(1.8, 0.1, -1), core.NewVec3(1.4, 0, 0.4), core.NewVec3(0, 1.6, 0), textured(uvDebug)),
		geometry.NewTriangle(core.NewVec3(1.8, 0.1, 1), core.NewVec3(3.2, 0.1, 1.2), core.NewVec3(2.5, 1.6, 1), textured(redChecker)),
	)

	return s
}
