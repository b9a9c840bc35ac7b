package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry
func NewTriangleMeshScene() (*Scene, error) {
	s := NewScene("mesh")
	s.Camera = NewLookAtCamera(core.NewVec3(0, 2, 6), core.NewVec3(0, 1, 0), yUp, 45, 480, 270)
	s.Background = core.NewVec3(0.5, 0.6, 0.75)

	// Main overhead light and a cool fill
	s.AddLight(lights.NewDiskLight(core.NewVec3(2, 6, 3), core.NewVec3(60, 55, 50), 1.5))
	s.AddLight(lights.NewPointLight(core.NewVec3(-3, 4, 2), core.NewVec3(12, 14, 16)))

	ground := material.NewMaterial(core.NewVec3(0.7, 0.7, 0.7))
	ground.Reflectivity = 0.15
	ground.Roughness = 0.05
	s.Add(NewGroundQuad(core.NewVec3(0, 0, 0), 30, ground))

	red := material.NewMirror(core.NewVec3(0.8, 0.2, 0.2), 0.3, 0.1)
	blue := material.NewMaterial(core.NewVec3(0.2, 0.3, 0.8))
	gold := material.NewMirror(core.NewVec3(0.8, 0.6, 0.2), 0.6, 0)
	glass := material.NewGlass(core.NewVec3(0.9, 1.0, 0.95), 0.85, 1.5)

	meshes := []struct {
		vertices []core.Vec3
		faces    []int
		mat      *material.Material
		at       geometry.Transform
	}{
		{boxVertices, boxFaces, red, geometry.NewTransform(core.NewVec3(-2, 0.5, 0), core.NewVec3(0, math.Pi/6, 0), core.Splat(0.5))},
		{pyramidVertices, pyramidFaces, blue, geometry.NewTransform(core.NewVec3(0, 1, 0), core.NewVec3(0, math.Pi/4, 0), core.NewVec3(0.75, 1, 0.75))},
		{icosahedronVertices(), icosahedronFaces, gold, geometry.NewTransform(core.NewVec3(2, 0.8, 0), core.NewVec3(0, math.Pi/3, 0), core.Splat(0.8))},
		{pyramidVertices, pyramidFaces, glass, geometry.NewTransform(core.NewVec3(0.9, 0.3, 1.6), core.NewVec3(0, 0, math.Pi), core.Splat(0.3))},
	}

	for _, m := range meshes {
		transform := m.at
		mesh, err := geometry.NewTriangleMesh(m.vertices, m.faces, m.mat, &geometry.TriangleMeshOptions{Transform: &transform})
		if err != nil {
			return nil, err
		}
		s.Add(mesh)
	}

	return s, nil
}

// Unit meshes centered on the origin, spanning [-1,1] on each axis

var boxVertices = []core.Vec3{
	core.NewVec3(-1, -1, -1), // 0: left-bottom-back
	core.NewVec3(+1, -1, -1), // 1: right-bottom-back
	core.NewVec3(+1, +1, -1), // 2: right-top-back
	core.NewVec3(-1, +1, -1), // 3: left-top-back
	core.NewVec3(-1, -1, +1), // 4: left-bottom-front
	core.NewVec3(+1, -1, +1), // 5: right-bottom-front
	core.NewVec3(+1, +1, +1), // 6: right-top-front
	core.NewVec3(-1, +1, +1), // 7: left-top-front
}

var boxFaces = []int{
	0, 1, 2, 0, 2, 3, // back
	4, 6, 5, 4, 7, 6, // front
	0, 3, 7, 0, 7, 4, // left
	1, 5, 6, 1, 6, 2, // right
	0, 4, 5, 0, 5, 1, // bottom
	3, 2, 6, 3, 6, 7, // top
}

var pyramidVertices = []core.Vec3{
	core.NewVec3(-1, -1, -1),
	core.NewVec3(+1, -1, -1),
	core.NewVec3(+1, -1, +1),
	core.NewVec3(-1, -1, +1),
	core.NewVec3(0, +1, 0), // apex
}

var pyramidFaces = []int{
	0, 2, 1, 0, 3, 2, // base
	0, 1, 4,
	1, 2, 4,
	2, 3, 4,
	3, 0, 4,
}

// icosahedronVertices returns the 12 vertices of a unit-radius icosahedron
func icosahedronVertices() []core.Vec3 {
	phi := (1.0 + math.Sqrt(5)) / 2.0
	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0),
		core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi),
		core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1),
		core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = v.Normalize()
	}
	return vertices
}

var icosahedronFaces = []int{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}
