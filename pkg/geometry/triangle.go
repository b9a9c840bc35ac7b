package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	Material   *material.Material
	patch      planarPatch
	bbox       core.AABB
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		patch:    newPlanarPatch(v0, v1.Subtract(v0), v2.Subtract(v0)),
		bbox:     core.NewAABBFromPoints(v0, v1, v2),
	}
}

// Hit tests if a ray intersects with the triangle. Points on an edge count
// as inside.
func (t *Triangle) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	dist, u, v, ok := t.patch.intersect(ray)
	if !ok || !hit.accepts(dist, tMin) {
		return false
	}
	if u < 0 || v < 0 || u+v > 1 {
		return false
	}

	hit.commit(ray, dist, faceToward(ray.Direction, t.patch.normal), core.NewVec2(u, v), t.Material, t)
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Centroid returns the mean of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Multiply(1.0 / 3.0)
}
