package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Transform places a canonical shape in the world: per-axis scale, then an
// Euler rotation (X, then Y, then Z), then a translation
type Transform struct {
	Translation core.Vec3
	Rotation    core.Vec3 // Radians
	Scale       core.Vec3
	toWorld     core.Mat3
	toLocal     core.Mat3
}

// NewTransform creates a transform and caches its rotation matrices
func NewTransform(translation, rotation, scale core.Vec3) Transform {
	r := core.RotationFromEuler(rotation)
	return Transform{
		Translation: translation,
		Rotation:    rotation,
		Scale:       scale,
		toWorld:     r,
		toLocal:     r.Transpose(),
	}
}

// Translate creates a transform with unit scale and no rotation
func Translate(translation core.Vec3) Transform {
	return NewTransform(translation, core.Vec3{}, core.NewVec3(1, 1, 1))
}

// Degenerate reports whether a scale component is too small to invert
func (t Transform) Degenerate() bool {
	return math.Abs(t.Scale.X) < core.DirectionEpsilon ||
		math.Abs(t.Scale.Y) < core.DirectionEpsilon ||
		math.Abs(t.Scale.Z) < core.DirectionEpsilon
}

// RayToLocal maps a world ray into canonical space. The ray parameter t is
// preserved, so distances found locally are valid in world space.
func (t Transform) RayToLocal(ray core.Ray) core.Ray {
	origin := t.toLocal.MultiplyVec(ray.Origin.Subtract(t.Translation)).DivideVec(t.Scale)
	direction := t.toLocal.MultiplyVec(ray.Direction).DivideVec(t.Scale)
	return core.NewRay(origin, direction)
}

// PointToWorld maps a canonical-space point into world space
func (t Transform) PointToWorld(p core.Vec3) core.Vec3 {
	return t.toWorld.MultiplyVec(p.MultiplyVec(t.Scale)).Add(t.Translation)
}

// NormalToWorld maps a canonical-space normal by the inverse transpose and
// renormalizes it
func (t Transform) NormalToWorld(n core.Vec3) core.Vec3 {
	return t.toWorld.MultiplyVec(n.DivideVec(t.Scale)).Normalize()
}

// UnitCubeBounds returns the world bounds of the canonical [-1,1]³ cube
func (t Transform) UnitCubeBounds() core.AABB {
	box := core.EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := core.NewVec3(
			float64(i&1)*2-1,
			float64(i>>1&1)*2-1,
			float64(i>>2&1)*2-1,
		)
		box = box.Expand(t.PointToWorld(corner))
	}
	return box
}
