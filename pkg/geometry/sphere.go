package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere is a unit sphere placed by a transform. Non-uniform scale gives an
// ellipsoid.
type Sphere struct {
	Transform Transform
	Material  *material.Material
	bbox      core.AABB
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return NewEllipsoid(NewTransform(center, core.Vec3{}, core.Splat(radius)), mat)
}

// NewEllipsoid creates a sphere with an arbitrary transform
func NewEllipsoid(transform Transform, mat *material.Material) *Sphere {
	return &Sphere{
		Transform: transform,
		Material:  mat,
		bbox:      transform.UnitCubeBounds(),
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin float64, hit *HitRecord) bool {
	if s.Transform.Degenerate() {
		return false
	}
	local := s.Transform.RayToLocal(ray)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := local.Direction.LengthSquared()
	if a < core.DirectionEpsilon {
		return false
	}
	halfB := local.Origin.Dot(local.Direction)
	c := local.Origin.LengthSquared() - 1

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first
	root := (-halfB - sqrtD) / a
	if root <= tMin {
		root = (-halfB + sqrtD) / a
	}
	if !hit.accepts(root, tMin) {
		return false
	}

	localNormal := local.At(root).Normalize()
	hit.commit(ray, root, s.Transform.NormalToWorld(localNormal), sphereUV(localNormal), s.Material, s)
	return true
}

// sphereUV maps a canonical-space normal to spherical texture coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	u := (math.Atan2(n.X, n.Z) + math.Pi) / (2 * math.Pi)
	v := math.Acos(max(-1, min(1, n.Y))) / math.Pi
	return core.NewVec2(u, v)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

// Centroid returns the sphere's center
func (s *Sphere) Centroid() core.Vec3 {
	return s.Transform.Translation
}
