package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Quad represents a parallelogram patch defined by a corner and two edge
// vectors, parameterized as Corner + u*U + v*V with u, v in [0, 1]
type Quad struct {
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Material *material.Material
	patch    planarPatch
	bbox     core.AABB
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat *material.Material) *Quad {
	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: mat,
		patch:    newPlanarPatch(corner, u, v),
		bbox:     core.NewAABBFromPoints(corner, corner.Add(u), corner.Add(v), corner.Add(u).Add(v)),
	}
}

// NewQuadFromVertices creates a quad from its listed vertices. Only the
// first three are used: v0 is the corner and v1, v2 span the edges.
func NewQuadFromVertices(v0, v1, v2 core.Vec3, mat *material.Material) *Quad {
	return NewQuad(v0, v1.Subtract(v0), v2.Subtract(v0), mat)
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	t, u, v, ok := q.patch.intersect(ray)
	if !ok || !hit.accepts(t, tMin) {
		return false
	}
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return false
	}

	hit.commit(ray, t, faceToward(ray.Direction, q.patch.normal), core.NewVec2(u, v), q.Material, q)
	return true
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	return q.bbox
}

// Centroid returns the center of the parallelogram
func (q *Quad) Centroid() core.Vec3 {
	return q.Corner.Add(q.U.Multiply(0.5)).Add(q.V.Multiply(0.5))
}
