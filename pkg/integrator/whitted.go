package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ambientFactor is the fraction of the diffuse color every hit receives
// regardless of lighting
const ambientFactor = 0.02

// minVisibility is the per-channel visibility below which a light is skipped
const minVisibility = 0.001

// roughnessThreshold is the roughness at or below which reflections are
// treated as perfect mirrors
const roughnessThreshold = 0.001

var fallbackMaterial = material.NewMaterial(core.NewVec3(0.5, 0.5, 0.5))

// Whitted is a recursive ray tracer with direct lighting, shadows,
// reflection and refraction
type Whitted struct {
	scene  *scene.Scene
	config Config
	world  geometry.Intersector
}

// NewWhitted creates an integrator for a preprocessed scene. When the scene
// has no BVH, or the config disables it, shapes are tested by linear scan.
func NewWhitted(s *scene.Scene, config Config) *Whitted {
	var world geometry.Intersector = geometry.ShapeList(s.Shapes)
	if config.UseBVH && s.BVH != nil {
		world = s.BVH
	}
	return &Whitted{scene: s, config: config, world: world}
}

// TraceRay returns the radiance along ray, or the scene background when it
// hits nothing
func (w *Whitted) TraceRay(ray core.Ray, depth int, tc *TraceContext) core.Vec3 {
	tc.countRay(depth)

	hit := geometry.NewHitRecord()
	if !w.world.Hit(ray, w.config.HitEpsilon, &hit) {
		return w.scene.Background
	}
	return w.Shade(ray, &hit, depth, tc)
}

// Shade computes the color at a hit: ambient plus Blinn-Phong direct
// lighting, then blended with the refracted and reflected rays
func (w *Whitted) Shade(ray core.Ray, hit *geometry.HitRecord, depth int, tc *TraceContext) core.Vec3 {
	mat := hit.Material
	if mat == nil {
		mat = fallbackMaterial
	}

	diffuse := mat.DiffuseAt(hit.UV)
	if w.config.NoShading {
		return diffuse
	}

	color := diffuse.Multiply(ambientFactor)
	color = color.Add(w.directLighting(ray, hit, mat, diffuse, tc))

	if mat.Transparency > 0 && depth < w.config.MaxDepth {
		transmitted := w.refraction(ray, hit, mat, depth, tc)
		color = color.Lerp(transmitted, mat.Transparency)
	}

	if mat.Reflectivity > 0 && depth < w.config.MaxDepth {
		if reflected, ok := w.reflection(ray, hit, mat, depth, tc); ok {
			color = color.Lerp(reflected, mat.Reflectivity)
		}
	}

	return color
}

func (w *Whitted) directLighting(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, diffuse core.Vec3, tc *TraceContext) core.Vec3 {
	var result core.Vec3
	normal := hit.Normal
	view := ray.Direction.Negate().Normalize()

	for _, light := range w.scene.Lights {
		visibility := w.visibility(hit, light, tc)
		if visibility.X <= minVisibility && visibility.Y <= minVisibility && visibility.Z <= minVisibility {
			continue
		}

		toLight := light.Position.Subtract(hit.Point)
		distance := toLight.Length()
		if distance < core.DirectionEpsilon {
			continue
		}
		lightDir := toLight.Multiply(1.0 / distance)
		attenuation := 1.0 / (1.0 + distance*distance)

		halfway := lightDir.Add(view).Normalize()
		diffuseTerm := math.Max(0, normal.Dot(lightDir))
		specularTerm := math.Pow(math.Max(0, normal.Dot(halfway)), mat.Shininess)

		contribution := diffuse.Multiply(diffuseTerm).
			Add(mat.Specular.Multiply(specularTerm)).
			MultiplyVec(light.Intensity).
			Multiply(attenuation).
			MultiplyVec(visibility)
		result = result.Add(contribution)
	}

	return result
}

// refract bends direction d through a surface with normal n. It returns the
// new direction, the normal on the side the ray continues on, and false on
// total internal reflection.
func refract(d, n core.Vec3, ior float64) (core.Vec3, core.Vec3, bool) {
	cosi := d.Dot(n)
	normal := n
	eta := 1.0 / ior
	if cosi < 0 {
		// Entering from outside
		cosi = -cosi
	} else {
		normal = n.Negate()
		eta = ior
	}

	k := 1.0 - eta*eta*(1.0-cosi*cosi)
	if k < 0 {
		return core.Vec3{}, normal, false
	}
	dir := d.Multiply(eta).Add(normal.Multiply(eta*cosi - math.Sqrt(k)))
	return dir.Normalize(), normal, true
}

// reflect mirrors d about n
func reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * d.Dot(n)))
}

func (w *Whitted) refraction(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, depth int, tc *TraceContext) core.Vec3 {
	d := ray.Direction.Normalize()
	dir, normal, ok := refract(d, hit.Normal, mat.IOR)
	if !ok {
		// Total internal reflection stays on the incoming side
		mirror := reflect(d, hit.Normal).Normalize()
		origin := hit.Point.Add(normal.Multiply(w.config.SecondaryBias))
		return w.TraceRay(core.NewRay(origin, mirror), depth+1, tc)
	}

	origin := hit.Point.Add(dir.Multiply(w.config.SecondaryBias))
	return w.TraceRay(core.NewRay(origin, dir), depth+1, tc)
}

// reflection traces the mirror direction, or averages stratified jittered
// directions around it for rough materials. It reports false when no glossy
// sample left the surface.
func (w *Whitted) reflection(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, depth int, tc *TraceContext) (core.Vec3, bool) {
	d := ray.Direction.Normalize()
	mirror := reflect(d, hit.Normal).Normalize()

	side := hit.Normal
	if mirror.Dot(side) < 0 {
		side = side.Negate()
	}
	origin := hit.Point.Add(side.Multiply(w.config.SecondaryBias))

	samples := w.config.GlossySamples
	if mat.Roughness <= roughnessThreshold || samples <= 1 {
		return w.TraceRay(core.NewRay(origin, mirror), depth+1, tc), true
	}

	if depth > 0 {
		samples = max(1, samples/2)
	}
	grid := core.GridSize(samples)
	spread := mat.Roughness * w.config.RoughnessScale

	var sum core.Vec3
	valid := 0
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			jitter := core.SampleOnUnitSphere(core.StratifiedSample(x, y, grid, tc.Sampler))
			dir := mirror.Add(jitter.Multiply(spread)).Normalize()
			if dir.Dot(side) < 0 {
				continue
			}
			sum = sum.Add(w.TraceRay(core.NewRay(origin, dir), depth+1, tc))
			valid++
		}
	}

	if valid == 0 {
		return core.Vec3{}, false
	}
	return sum.Multiply(1.0 / float64(valid)), true
}
