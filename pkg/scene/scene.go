package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// DefaultBackground is the radiance of rays that escape the scene
var DefaultBackground = core.NewVec3(0.3, 0.3, 0.3)

// Scene contains all the elements needed for rendering. Shapes and lights
// are filled in before Preprocess and not modified afterwards.
type Scene struct {
	Name       string
	Camera     CameraConfig
	Shapes     []geometry.Shape // Objects in the scene
	Lights     []lights.Light   // Lights in the scene
	Background core.Vec3
	BVH        *geometry.BVH // Acceleration structure for ray-object intersection
}

// NewScene creates an empty scene with the default background
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		Shapes:     make([]geometry.Shape, 0),
		Lights:     make([]lights.Light, 0),
		Background: DefaultBackground,
	}
}

// NewGroundQuad creates a large horizontal quad centered at the given point
// with normal pointing along +Y
func NewGroundQuad(center core.Vec3, size float64, mat *material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	return geometry.NewQuad(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), mat)
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// Preprocess validates the camera and builds the BVH
func (s *Scene) Preprocess() error {
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.BVH = geometry.NewBVH(s.Shapes)
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		if mesh, ok := shape.(*geometry.TriangleMesh); ok {
			count += mesh.GetTriangleCount()
			continue
		}
		count++
	}
	return count
}

// ShapeCount is the number of shapes of one kind
type ShapeCount struct {
	Kind  string
	Count int
}

// ShapeCounts groups the scene's shapes by kind, sorted by kind
func (s *Scene) ShapeCounts() []ShapeCount {
	counts := make(map[string]int)
	for _, shape := range s.Shapes {
		counts[ShapeKind(shape)]++
	}

	result := make([]ShapeCount, 0, len(counts))
	for kind, count := range counts {
		result = append(result, ShapeCount{Kind: kind, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})
	return result
}

// ShapeKind names a shape's primitive type
func ShapeKind(shape geometry.Shape) string {
	switch shape.(type) {
	case *geometry.Sphere:
		return "sphere"
	case *geometry.Box:
		return "box"
	case *geometry.Quad:
		return "plane"
	case *geometry.Triangle:
		return "triangle"
	case *geometry.TriangleMesh:
		return "mesh"
	default:
		return fmt.Sprintf("%T", shape)
	}
}

// Bounds returns the union of every shape's bounding box
func (s *Scene) Bounds() core.AABB {
	if s.BVH != nil {
		return s.BVH.BoundingBox()
	}
	return geometry.ShapeList(s.Shapes).BoundingBox()
}
