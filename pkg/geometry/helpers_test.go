package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const testEpsilon = 1e-4

var testMaterial = material.NewMaterial(core.NewVec3(0.8, 0.8, 0.8))

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func hitShape(shape Shape, ray core.Ray) (HitRecord, bool) {
	hit := NewHitRecord()
	ok := shape.Hit(ray, testEpsilon, &hit)
	return hit, ok
}
