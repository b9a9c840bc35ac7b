package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestSphere_Hit_Exact(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hit, isHit := hitShape(sphere, ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-4) > 1e-12 {
		t.Errorf("Expected t=4, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("Expected point (0,0,-1), got %v", hit.Point)
	}
	if !vecNear(hit.Normal, core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("Expected normal (0,0,-1), got %v", hit.Normal)
	}
	if hit.Shape != sphere || hit.Material != testMaterial {
		t.Error("Hit record does not reference the sphere and its material")
	}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := hitShape(sphere, ray)
	if isHit || hit.Hit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
	if !math.IsInf(hit.T, 1) {
		t.Errorf("Miss must leave T at +Inf, got %f", hit.T)
	}
}

func TestSphere_Hit_FromInside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, isHit := hitShape(sphere, ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1) > 1e-12 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	// Sphere normals stay outward; the integrator detects exits from D·N
	if !vecNear(hit.Normal, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}

func TestSphere_Hit_SelfIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	// Leaving the surface along its normal
	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1))

	if hit, isHit := hitShape(sphere, ray); isHit {
		t.Errorf("Ray leaving the surface re-hit it at t=%g", hit.T)
	}
}

func TestSphere_Hit_RespectsClosest(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hit := NewHitRecord()
	hit.T = 3
	if sphere.Hit(ray, testEpsilon, &hit) {
		t.Error("Sphere committed a hit farther than the current closest")
	}
	if hit.T != 3 || hit.Hit {
		t.Errorf("Hit record was modified: %+v", hit)
	}
}

func TestSphere_Ellipsoid(t *testing.T) {
	transform := NewTransform(core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec3(2, 1, 1))
	ellipsoid := NewEllipsoid(transform, testMaterial)

	hit, isHit := hitShape(ellipsoid, core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0)))
	if !isHit || math.Abs(hit.T-3) > 1e-12 {
		t.Fatalf("Expected hit at t=3 along X, got %v %f", isHit, hit.T)
	}
	if !vecNear(hit.Normal, core.NewVec3(-1, 0, 0), 1e-12) {
		t.Errorf("Expected normal (-1,0,0), got %v", hit.Normal)
	}

	// Off-axis normals follow the inverse transpose: n ∝ (x/4, y, 0)
	x, y := math.Sqrt2, math.Sqrt(0.5)
	hit, isHit = hitShape(ellipsoid, core.NewRay(core.NewVec3(x, 5, 0), core.NewVec3(0, -1, 0)))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-(5-y)) > 1e-9 {
		t.Errorf("Expected t=%f, got %f", 5-y, hit.T)
	}
	expected := core.NewVec3(x/4, y, 0).Normalize()
	if !vecNear(hit.Normal, expected, 1e-9) {
		t.Errorf("Expected normal %v, got %v", expected, hit.Normal)
	}
}

func TestSphere_UVAndBounds(t *testing.T) {
	transform := NewTransform(core.NewVec3(1, -2, 3), core.NewVec3(0.4, 1.1, -0.7), core.NewVec3(1.5, 0.5, 2))
	sphere := NewEllipsoid(transform, testMaterial)
	bounds := sphere.BoundingBox()
	grown := core.NewAABB(bounds.Min.Subtract(core.Splat(1e-9)), bounds.Max.Add(core.Splat(1e-9)))

	random := rand.New(rand.NewSource(7))
	hits := 0
	for i := 0; i < 500; i++ {
		target := sphere.Centroid().Add(core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5))
		origin := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		hit, isHit := hitShape(sphere, core.NewRay(origin, target.Subtract(origin).Normalize()))
		if !isHit {
			continue
		}
		hits++
		if hit.UV.X < 0 || hit.UV.X > 1 || hit.UV.Y < 0 || hit.UV.Y > 1 {
			t.Fatalf("UV out of range: %v", hit.UV)
		}
		if !grown.Contains(hit.Point) {
			t.Fatalf("Hit point %v outside bounds %v", hit.Point, bounds)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal not unit length: %v", hit.Normal)
		}
	}
	if hits == 0 {
		t.Fatal("No rays hit the sphere")
	}
}

func TestSphere_DegenerateScale(t *testing.T) {
	sphere := NewEllipsoid(NewTransform(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 0, 1)), testMaterial)
	if _, isHit := hitShape(sphere, core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0))); isHit {
		t.Error("Zero-scale sphere should never be hit")
	}
}
