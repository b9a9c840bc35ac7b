package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// planarPatch holds the plane and the precomputed two-edge Gram system shared
// by quads and triangles
type planarPatch struct {
	origin   core.Vec3
	edge1    core.Vec3
	edge2    core.Vec3
	normal   core.Vec3
	d00      float64
	d01      float64
	d11      float64
	invDenom float64
	valid    bool
}

func newPlanarPatch(origin, edge1, edge2 core.Vec3) planarPatch {
	p := planarPatch{
		origin: origin,
		edge1:  edge1,
		edge2:  edge2,
		normal: edge1.Cross(edge2).Normalize(),
		d00:    edge1.Dot(edge1),
		d01:    edge1.Dot(edge2),
		d11:    edge2.Dot(edge2),
	}
	denom := p.d00*p.d11 - p.d01*p.d01
	if math.Abs(denom) > core.DirectionEpsilon && p.normal != (core.Vec3{}) {
		p.invDenom = 1.0 / denom
		p.valid = true
	}
	return p
}

// intersect solves the ray/plane equation and returns the distance and the
// edge coordinates (u, v) of the hit point
func (p *planarPatch) intersect(ray core.Ray) (t, u, v float64, ok bool) {
	if !p.valid {
		return 0, 0, 0, false
	}

	denominator := p.normal.Dot(ray.Direction)
	if math.Abs(denominator) < core.DirectionEpsilon {
		return 0, 0, 0, false
	}
	t = p.normal.Dot(p.origin.Subtract(ray.Origin)) / denominator

	w := ray.At(t).Subtract(p.origin)
	d20 := w.Dot(p.edge1)
	d21 := w.Dot(p.edge2)
	u = (p.d11*d20 - p.d01*d21) * p.invDenom
	v = (p.d00*d21 - p.d01*d20) * p.invDenom
	return t, u, v, true
}
