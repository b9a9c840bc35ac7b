package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Shape is the capability set every primitive provides
type Shape interface {
	// Hit updates hit and returns true only for an intersection with
	// tMin < t < hit.T
	Hit(ray core.Ray, tMin float64, hit *HitRecord) bool
	BoundingBox() core.AABB
	Centroid() core.Vec3
}

// Intersector finds the closest hit among a set of shapes
type Intersector interface {
	Hit(ray core.Ray, tMin float64, hit *HitRecord) bool
}

// HitRecord is the running closest-hit record of a single ray traversal.
// T only ever decreases while the record is passed between shapes.
type HitRecord struct {
	Hit      bool
	T        float64
	Point    core.Vec3
	Normal   core.Vec3
	UV       core.Vec2
	Material *material.Material
	Shape    Shape // The struck primitive; read-only
}

// NewHitRecord returns an empty record with T at +Inf
func NewHitRecord() HitRecord {
	return HitRecord{T: math.Inf(1)}
}

// accepts reports whether a candidate distance may replace the current hit
func (h *HitRecord) accepts(t, tMin float64) bool {
	return t > tMin && t < h.T
}

func (h *HitRecord) commit(ray core.Ray, t float64, normal core.Vec3, uv core.Vec2, mat *material.Material, shape Shape) {
	h.Hit = true
	h.T = t
	h.Point = ray.At(t)
	h.Normal = normal
	h.UV = uv
	h.Material = mat
	h.Shape = shape
}

// faceToward flips n so it points against the incoming direction
func faceToward(direction, n core.Vec3) core.Vec3 {
	if direction.Dot(n) > 0 {
		return n.Negate()
	}
	return n
}

// ShapeList intersects its shapes by a linear scan
type ShapeList []Shape

// Hit tests every shape in order
func (l ShapeList) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	hitAnything := false
	for _, shape := range l {
		if shape.Hit(ray, tMin, hit) {
			hitAnything = true
		}
	}
	return hitAnything
}

// BoundingBox returns the union of every shape's bounds
func (l ShapeList) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, shape := range l {
		box = box.Union(shape.BoundingBox())
	}
	return box
}
