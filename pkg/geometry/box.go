package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Box represents an oriented box. The transform scale holds the half
// extents, so a scale of (1,1,1) creates a 2x2x2 box.
type Box struct {
	Transform Transform
	Material  *material.Material
	bbox      core.AABB
}

// NewBox creates a new box with the given center, half extents, rotation, and material
// Rotation is in radians around X, Y, Z axes (applied in that order)
func NewBox(center, size, rotation core.Vec3, mat *material.Material) *Box {
	transform := NewTransform(center, rotation, size)
	return &Box{
		Transform: transform,
		Material:  mat,
		bbox:      transform.UnitCubeBounds(),
	}
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size core.Vec3, mat *material.Material) *Box {
	return NewBox(center, size, core.NewVec3(0, 0, 0), mat)
}

// Hit runs the slab test against the canonical [-1,1]³ cube
func (b *Box) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	if b.Transform.Degenerate() {
		return false
	}
	local := b.Transform.RayToLocal(ray)

	tEntry := math.Inf(-1)
	tExit := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := local.Origin.Axis(axis)
		d := local.Direction.Axis(axis)

		if math.Abs(d) < core.DirectionEpsilon {
			if o < -1 || o > 1 {
				return false
			}
			continue
		}

		t0 := (-1 - o) / d
		t1 := (1 - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tEntry = max(tEntry, t0)
		tExit = min(tExit, t1)
		if tExit < tEntry {
			return false
		}
	}

	t := tEntry
	if t <= tMin {
		t = tExit
	}
	if !hit.accepts(t, tMin) {
		return false
	}

	normal, uv := b.face(local.At(t))
	hit.commit(ray, t, b.Transform.NormalToWorld(normal), uv, b.Material, b)
	return true
}

// face picks the face closest to a canonical-space point, measured in scaled
// units, and returns its normal and texture coordinates
func (b *Box) face(p core.Vec3) (core.Vec3, core.Vec2) {
	axis := 0
	best := math.Inf(1)
	for i := 0; i < 3; i++ {
		h := math.Abs(b.Transform.Scale.Axis(i))
		dist := math.Abs(math.Abs(p.Axis(i))*h - h)
		if dist < best {
			best = dist
			axis = i
		}
	}

	sign := 1.0
	if p.Axis(axis) < 0 {
		sign = -1.0
	}

	toUV := func(x float64) float64 {
		return max(0, min(1, 0.5*(x+1)))
	}

	switch axis {
	case 0:
		return core.NewVec3(sign, 0, 0), core.NewVec2(toUV(p.Z), toUV(p.Y))
	case 1:
		return core.NewVec3(0, sign, 0), core.NewVec2(toUV(p.X), toUV(p.Z))
	default:
		return core.NewVec3(0, 0, sign), core.NewVec2(toUV(p.X), toUV(p.Y))
	}
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// Centroid returns the box's center
func (b *Box) Centroid() core.Vec3 {
	return b.Transform.Translation
}
