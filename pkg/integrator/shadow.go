package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// maxShadowPassThroughs bounds how many transparent surfaces one shadow ray
// may cross
const maxShadowPassThroughs = 10

// minThroughput is the throughput magnitude below which a shadow ray counts
// as blocked
const minThroughput = 0.01

// visibility returns the per-channel fraction of light reaching the hit
// point. Point lights and single-sample configs cast one ray at the light
// center; disk lights are sampled over a stratified grid.
func (w *Whitted) visibility(hit *geometry.HitRecord, light lights.Light, tc *TraceContext) core.Vec3 {
	if !w.config.Shadows {
		return core.Splat(1)
	}

	origin := hit.Point.Add(hit.Normal.Multiply(w.config.ShadowBias))

	if w.config.ShadowSamples <= 1 || light.Radius <= 0 {
		return w.transmittance(origin, light.Position, tc)
	}

	grid := core.GridSize(w.config.ShadowSamples)
	var sum core.Vec3
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			sample := core.StratifiedSample(x, y, grid, tc.Sampler)
			target := light.SamplePoint(hit.Point, sample)
			sum = sum.Add(w.transmittance(origin, target, tc))
		}
	}
	return sum.Multiply(1.0 / float64(grid*grid))
}

// transmittance follows a shadow ray from origin to target. Transparent
// surfaces tint the ray and let it continue; anything opaque blocks it.
func (w *Whitted) transmittance(origin, target core.Vec3, tc *TraceContext) core.Vec3 {
	throughput := core.Splat(1)

	for i := 0; i < maxShadowPassThroughs; i++ {
		toTarget := target.Subtract(origin)
		distance := toTarget.Length()
		if distance < core.DirectionEpsilon {
			break
		}
		dir := toTarget.Multiply(1.0 / distance)

		tc.countShadowRay()
		hit := geometry.NewHitRecord()
		hit.T = distance
		if !w.world.Hit(core.NewRay(origin, dir), w.config.HitEpsilon, &hit) {
			break
		}

		mat := hit.Material
		if mat == nil || !mat.IsTransparent() {
			return core.Vec3{}
		}

		throughput = throughput.MultiplyVec(mat.DiffuseAt(hit.UV).Multiply(mat.Transparency))
		if throughput.Length() < minThroughput {
			return core.Vec3{}
		}
		origin = hit.Point.Add(dir.Multiply(w.config.ShadowBias))
	}

	return throughput
}
