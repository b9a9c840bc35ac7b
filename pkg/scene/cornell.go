package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates the classic box, scaled to 5.55 units per side
func NewCornellScene() *Scene {
	const boxSize = 5.55
	half := boxSize / 2

	s := NewScene("cornell")
	s.Background = core.NewVec3(0, 0, 0)
	s.Camera = NewLookAtCamera(core.NewVec3(half, half, -8), core.NewVec3(half, half, 0), yUp, 40, 400, 400)

	white := material.NewMaterial(core.NewVec3(0.73, 0.73, 0.73))
	white.Specular = core.NewVec3(0.05, 0.05, 0.05)
	red := material.NewMaterial(core.NewVec3(0.65, 0.05, 0.05))
	red.Specular = white.Specular
	green := material.NewMaterial(core.NewVec3(0.12, 0.45, 0.15))
	green.Specular = white.Specular
	mirror := material.NewMirror(core.NewVec3(0.8, 0.8, 0.9), 0.85, 0)

	s.Add(
		// floor, ceiling, back wall
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
		// left and right walls
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
	)

	// Tall block at the back left, short block at the front right
	s.Add(
		geometry.NewBox(core.NewVec3(1.85, 1.65, 3.7), core.NewVec3(0.825, 1.65, 0.825), core.NewVec3(0, 15*math.Pi/180, 0), white),
		geometry.NewBox(core.NewVec3(3.7, 0.825, 1.7), core.Splat(0.825), core.NewVec3(0, -18*math.Pi/180, 0), white),
		geometry.NewSphere(core.NewVec3(3.7, 2.15, 1.7), 0.5, mirror),
	)

	s.AddLight(lights.NewDiskLight(core.NewVec3(half, boxSize-0.05, half), core.NewVec3(30, 30, 30), 0.6))

	return s
}
