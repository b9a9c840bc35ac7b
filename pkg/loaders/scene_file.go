package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrNoCamera is returned for a scene file without a camera block
var ErrNoCamera = errors.New("scene has no camera")

// ErrSyntax is wrapped by every parse error of a scene file
var ErrSyntax = errors.New("scene syntax error")

// SceneFile is a scene read from disk together with the files it depends on
type SceneFile struct {
	Scene    *scene.Scene
	Path     string
	Textures []string // Absolute or scene-relative texture paths, in load order
	Meshes   []string // PLY files referenced by mesh blocks, in load order
}

// Files returns the scene file followed by every texture and mesh it loaded
func (f *SceneFile) Files() []string {
	files := append([]string{f.Path}, f.Textures...)
	return append(files, f.Meshes...)
}

// LoadScene reads a scene file
func LoadScene(filename string) (*scene.Scene, error) {
	file, err := LoadSceneFile(filename, nil)
	if err != nil {
		return nil, err
	}
	return file.Scene, nil
}

// LoadSceneFile reads a scene file, resolving texture and mesh paths
// relative to its directory. The logger may be nil.
func LoadSceneFile(filename string, logger core.Logger) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	p := &sceneParser{
		path:     filename,
		dir:      filepath.Dir(filename),
		logger:   logger,
		scene:    scene.NewScene(name),
		textures: make(map[string]*material.ImageTexture),
	}
	if err := p.parse(file); err != nil {
		return nil, err
	}

	return &SceneFile{Scene: p.scene, Path: filename, Textures: p.textureOrder, Meshes: p.meshes}, nil
}

// property is one "key value..." line inside a block
type property struct {
	key  string
	args []string
	line int
}

type block struct {
	kind  string
	line  int
	props []property
}

type sceneParser struct {
	path         string
	dir          string
	logger       core.Logger
	scene        *scene.Scene
	haveCamera   bool
	textures     map[string]*material.ImageTexture
	textureOrder []string
	meshes       []string
}

func (p *sceneParser) errorf(line int, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %w: %s", p.path, line, ErrSyntax, fmt.Sprintf(format, args...))
}

func (p *sceneParser) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var current *block
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		keyword := fields[0]
		switch {
		case strings.HasPrefix(keyword, "BEGIN_"):
			if current != nil {
				return p.errorf(lineNo, "%s inside BEGIN_%s from line %d", keyword, current.kind, current.line)
			}
			current = &block{kind: strings.TrimPrefix(keyword, "BEGIN_"), line: lineNo}

		case strings.HasPrefix(keyword, "END_"):
			if current == nil || strings.TrimPrefix(keyword, "END_") != current.kind {
				return p.errorf(lineNo, "unexpected %s", keyword)
			}
			if err := p.build(current); err != nil {
				return err
			}
			current = nil

		case current == nil:
			return p.errorf(lineNo, "unexpected %q outside a block", keyword)

		default:
			current.props = append(current.props, property{key: keyword, args: fields[1:], line: lineNo})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", p.path, err)
	}
	if current != nil {
		return p.errorf(current.line, "BEGIN_%s is never closed", current.kind)
	}
	if !p.haveCamera {
		return fmt.Errorf("%s: %w", p.path, ErrNoCamera)
	}
	return nil
}

func (p *sceneParser) build(b *block) error {
	switch b.kind {
	case "CAMERA":
		return p.buildCamera(b)
	case "LIGHT":
		return p.buildLight(b)
	case "SPHERE":
		return p.buildSphere(b)
	case "CUBE":
		return p.buildCube(b)
	case "PLANE":
		return p.buildPolygon(b, 4)
	case "TRIANGLE":
		return p.buildPolygon(b, 3)
	case "MESH":
		return p.buildMesh(b)
	case "BACKGROUND":
		return p.buildBackground(b)
	}
	return p.errorf(b.line, "unknown block BEGIN_%s", b.kind)
}

func (p *sceneParser) floats(prop property, n int) ([]float64, error) {
	if len(prop.args) != n {
		return nil, p.errorf(prop.line, "%s expects %d values, got %d", prop.key, n, len(prop.args))
	}
	values := make([]float64, n)
	for i, arg := range prop.args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, p.errorf(prop.line, "%s: bad number %q", prop.key, arg)
		}
		values[i] = v
	}
	return values, nil
}

func (p *sceneParser) float(prop property) (float64, error) {
	values, err := p.floats(prop, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

func (p *sceneParser) integer(prop property) (int, error) {
	v, err := p.float(prop)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (p *sceneParser) vec3(prop property) (core.Vec3, error) {
	values, err := p.floats(prop, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// color accepts either three components or a single grey value
func (p *sceneParser) color(prop property) (core.Vec3, error) {
	if len(prop.args) == 1 {
		v, err := p.float(prop)
		return core.Splat(v), err
	}
	return p.vec3(prop)
}

func (p *sceneParser) ints(prop property, n int) ([]int, error) {
	values, err := p.floats(prop, n)
	if err != nil {
		return nil, err
	}
	result := make([]int, n)
	for i, v := range values {
		result[i] = int(v)
	}
	return result, nil
}

func (p *sceneParser) buildCamera(b *block) error {
	if p.haveCamera {
		if p.logger != nil {
			p.logger.Warningf("%s:%d: ignoring additional camera", p.path, b.line)
		}
		return nil
	}

	camera := scene.CameraConfig{
		FocalLength:  50,
		SensorWidth:  36,
		SensorHeight: 24,
		ResolutionX:  640,
		ResolutionY:  480,
	}

	for _, prop := range b.props {
		var err error
		switch prop.key {
		case "CAMERA":
			camera.Name = strings.Join(prop.args, " ")
		case "location":
			camera.Location, err = p.vec3(prop)
		case "gaze":
			camera.Gaze, err = p.vec3(prop)
		case "up":
			camera.Up, err = p.vec3(prop)
		case "focal_length":
			camera.FocalLength, err = p.float(prop)
		case "sensor_size":
			var size []float64
			if size, err = p.floats(prop, 2); err == nil {
				camera.SensorWidth, camera.SensorHeight = size[0], size[1]
			}
		case "sensor_width":
			camera.SensorWidth, err = p.float(prop)
		case "sensor_height":
			camera.SensorHeight, err = p.float(prop)
		case "resolution":
			var res []int
			if res, err = p.ints(prop, 2); err == nil {
				camera.ResolutionX, camera.ResolutionY = res[0], res[1]
			}
		case "resolution_x":
			camera.ResolutionX, err = p.integer(prop)
		case "resolution_y":
			camera.ResolutionY, err = p.integer(prop)
		case "aperture":
			camera.Aperture, err = p.float(prop)
		case "focal_distance":
			camera.FocalDistance, err = p.float(prop)
		case "velocity":
			camera.Velocity, err = p.vec3(prop)
		default:
			err = p.errorf(prop.line, "unknown camera key %q", prop.key)
		}
		if err != nil {
			return err
		}
	}

	if err := camera.Validate(); err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, b.line, err)
	}
	p.scene.Camera = camera
	p.haveCamera = true
	return nil
}

func (p *sceneParser) buildLight(b *block) error {
	light := lights.Light{Intensity: core.Splat(1)}

	for _, prop := range b.props {
		var err error
		switch prop.key {
		case "LIGHT":
		case "location":
			light.Position, err = p.vec3(prop)
		case "intensity":
			light.Intensity, err = p.color(prop)
		case "radius":
			light.Radius, err = p.float(prop)
			light.Radius = max(0, light.Radius)
		default:
			err = p.errorf(prop.line, "unknown light key %q", prop.key)
		}
		if err != nil {
			return err
		}
	}

	light.Intensity = light.Intensity.MaxVec(core.Vec3{})
	p.scene.AddLight(light)
	return nil
}

// shapeProps collects the keys shared by all shape blocks
type shapeProps struct {
	translation core.Vec3
	rotation    core.Vec3
	scale       core.Vec3
	radius      float64
	vertices    []core.Vec3
	file        string // Mesh blocks only
	material    *material.Material
}

func (p *sceneParser) parseShape(b *block) (*shapeProps, error) {
	shape := &shapeProps{
		scale:    core.Splat(1),
		radius:   1,
		material: material.NewMaterial(core.NewVec3(0.8, 0.8, 0.8)),
	}

	for _, prop := range b.props {
		var err error
		switch prop.key {
		case b.kind:
			// Object name
		case "location", "translation":
			shape.translation, err = p.vec3(prop)
		case "rotation":
			shape.rotation, err = p.vec3(prop)
		case "scale":
			shape.scale, err = p.color(prop)
		case "radius":
			shape.radius, err = p.float(prop)
		case "file":
			if b.kind != "MESH" || len(prop.args) == 0 {
				err = p.errorf(prop.line, "unexpected file key in BEGIN_%s", b.kind)
			}
			shape.file = strings.Join(prop.args, " ")
		case "vertex":
			var v core.Vec3
			if v, err = p.vec3(prop); err == nil {
				shape.vertices = append(shape.vertices, v)
			}
		default:
			err = p.materialProperty(shape.material, prop)
		}
		if err != nil {
			return nil, err
		}
	}

	shape.material = shape.material.Clamped()
	return shape, nil
}

func (p *sceneParser) materialProperty(m *material.Material, prop property) error {
	var err error
	switch prop.key {
	case "diffuse":
		m.Diffuse, err = p.color(prop)
	case "specular":
		m.Specular, err = p.color(prop)
	case "shininess":
		m.Shininess, err = p.float(prop)
	case "reflectivity":
		m.Reflectivity, err = p.float(prop)
	case "transparency":
		m.Transparency, err = p.float(prop)
	case "ior":
		m.IOR, err = p.float(prop)
	case "roughness":
		m.Roughness, err = p.float(prop)
	case "texture":
		if len(prop.args) == 0 {
			return p.errorf(prop.line, "texture expects a path")
		}
		m.Texture, err = p.texture(strings.Join(prop.args, " "), prop.line)
	default:
		err = p.errorf(prop.line, "unknown key %q", prop.key)
	}
	return err
}

// texture loads an image once per path, relative to the scene file
func (p *sceneParser) texture(path string, line int) (*material.ImageTexture, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	if texture, ok := p.textures[path]; ok {
		return texture, nil
	}

	data, err := LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %w", p.path, line, err)
	}
	if p.logger != nil {
		p.logger.Debugf("Loaded texture %s (%dx%d)", path, data.Width, data.Height)
	}

	texture := data.Texture()
	p.textures[path] = texture
	p.textureOrder = append(p.textureOrder, path)
	return texture, nil
}

func (p *sceneParser) buildSphere(b *block) error {
	shape, err := p.parseShape(b)
	if err != nil {
		return err
	}
	transform := geometry.NewTransform(shape.translation, shape.rotation, shape.scale.Multiply(shape.radius))
	p.scene.Add(geometry.NewEllipsoid(transform, shape.material))
	return nil
}

func (p *sceneParser) buildCube(b *block) error {
	shape, err := p.parseShape(b)
	if err != nil {
		return err
	}
	p.scene.Add(geometry.NewBox(shape.translation, shape.scale, shape.rotation, shape.material))
	return nil
}

func (p *sceneParser) buildPolygon(b *block, vertices int) error {
	shape, err := p.parseShape(b)
	if err != nil {
		return err
	}
	if len(shape.vertices) != vertices {
		return p.errorf(b.line, "BEGIN_%s needs %d vertices, got %d", b.kind, vertices, len(shape.vertices))
	}

	v := shape.vertices
	if vertices == 3 {
		p.scene.Add(geometry.NewTriangle(v[0], v[1], v[2], shape.material))
	} else {
		p.scene.Add(geometry.NewQuadFromVertices(v[0], v[1], v[2], shape.material))
	}
	return nil
}

// buildMesh loads a PLY file relative to the scene file and places it with
// the block's transform
func (p *sceneParser) buildMesh(b *block) error {
	shape, err := p.parseShape(b)
	if err != nil {
		return err
	}
	if shape.file == "" {
		return p.errorf(b.line, "BEGIN_MESH needs a file")
	}

	path := shape.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	data, err := LoadPLY(path)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, b.line, err)
	}

	transform := geometry.NewTransform(shape.translation, shape.rotation, shape.scale)
	mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, shape.material, &geometry.TriangleMeshOptions{Transform: &transform})
	if err != nil {
		return fmt.Errorf("%s:%d: %w", p.path, b.line, err)
	}
	if p.logger != nil {
		p.logger.Debugf("Loaded mesh %s (%d vertices, %d triangles)", path, len(data.Vertices), mesh.GetTriangleCount())
	}

	p.scene.Add(mesh)
	p.meshes = append(p.meshes, path)
	return nil
}

func (p *sceneParser) buildBackground(b *block) error {
	for _, prop := range b.props {
		if prop.key != "color" {
			return p.errorf(prop.line, "unknown background key %q", prop.key)
		}
		background, err := p.color(prop)
		if err != nil {
			return err
		}
		p.scene.Background = background.MaxVec(core.Vec3{})
	}
	return nil
}
