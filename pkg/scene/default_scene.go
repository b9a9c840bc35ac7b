package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var yUp = core.NewVec3(0, 1, 0)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene() *Scene {
	s := NewScene("default")
	s.Camera = NewLookAtCamera(core.NewVec3(0, 1.2, 4), core.NewVec3(0, 0.5, -1), yUp, 40, 400, 225)

	checker := material.NewCheckerboardTexture(256, 256, 32,
		core.NewVec3(0.9, 0.9, 0.9),
		core.NewVec3(0.3, 0.3, 0.3),
	)
	ground := material.NewMaterial(core.NewVec3(0.8, 0.8, 0.8))
	ground.Texture = checker
	ground.Specular = core.NewVec3(0.1, 0.1, 0.1)
	ground.Reflectivity = 0.1

	red := material.NewMaterial(core.NewVec3(0.65, 0.25, 0.2))
	mirror := material.NewMirror(core.NewVec3(0.8, 0.8, 0.8), 0.9, 0)
	gold := material.NewMirror(core.NewVec3(0.8, 0.6, 0.2), 0.6, 0.3)
	glass := material.NewGlass(core.NewVec3(0.95, 0.95, 1.0), 0.9, 1.5)
	blue := material.NewMaterial(core.NewVec3(0.1, 0.2, 0.5))

	s.Add(
		NewGroundQuad(core.NewVec3(0, 0, 0), 40, ground),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, red),
		geometry.NewSphere(core.NewVec3(-1.1, 0.5, -1), 0.5, mirror),
		geometry.NewSphere(core.NewVec3(1.1, 0.5, -1), 0.5, gold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, 0), 0.25, glass),
		geometry.NewBox(core.NewVec3(-0.6, 0.2, 0), core.Splat(0.2), core.NewVec3(0, math.Pi/5, 0), blue),
	)

	s.AddLight(lights.NewDiskLight(core.NewVec3(3, 5, 3), core.NewVec3(40, 38, 36), 0.8))
	s.AddLight(lights.NewPointLight(core.NewVec3(-4, 3, 2), core.NewVec3(8, 9, 10)))

	return s
}
