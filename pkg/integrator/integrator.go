package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Config holds the integrator settings derived from the render config
type Config struct {
	MaxDepth       int     // Maximum number of specular bounces
	UseBVH         bool    // Intersect through the scene BVH instead of a linear scan
	Shadows        bool    // Trace shadow rays; when false every light is fully visible
	ShadowSamples  int     // Samples per disk light; 1 gives hard shadows
	GlossySamples  int     // Samples per glossy reflection at depth 0
	RoughnessScale float64 // Multiplier on material roughness for glossy jitter
	NoShading      bool    // Return the textured diffuse color without lighting

	HitEpsilon    float64 // Minimum accepted hit distance
	ShadowBias    float64 // Offset along the normal for shadow ray origins
	SecondaryBias float64 // Offset for reflected and refracted ray origins
}

// DefaultConfig returns the integrator defaults
func DefaultConfig() Config {
	return Config{
		MaxDepth:       3,
		UseBVH:         true,
		Shadows:        true,
		ShadowSamples:  1,
		GlossySamples:  1,
		RoughnessScale: 1,
		HitEpsilon:     1e-4,
		ShadowBias:     1e-3,
		SecondaryBias:  1e-3,
	}
}

// TraceStats counts the rays traced by one worker. It is not safe for
// concurrent use; workers keep their own and merge them afterwards.
type TraceStats struct {
	CameraRays    int64
	SecondaryRays int64
	ShadowRays    int64
}

// Merge adds another set of counters to these
func (s *TraceStats) Merge(other TraceStats) {
	s.CameraRays += other.CameraRays
	s.SecondaryRays += other.SecondaryRays
	s.ShadowRays += other.ShadowRays
}

// Total returns the number of rays of all kinds
func (s TraceStats) Total() int64 {
	return s.CameraRays + s.SecondaryRays + s.ShadowRays
}

// TraceContext carries the per-worker state of a trace
type TraceContext struct {
	Sampler core.Sampler
	Stats   *TraceStats // Optional
}

// NewTraceContext creates a context with its own statistics
func NewTraceContext(sampler core.Sampler) *TraceContext {
	return &TraceContext{Sampler: sampler, Stats: &TraceStats{}}
}

func (tc *TraceContext) countRay(depth int) {
	if tc.Stats == nil {
		return
	}
	if depth == 0 {
		tc.Stats.CameraRays++
	} else {
		tc.Stats.SecondaryRays++
	}
}

func (tc *TraceContext) countShadowRay() {
	if tc.Stats != nil {
		tc.Stats.ShadowRays++
	}
}

// Integrator computes the radiance arriving along a ray
type Integrator interface {
	TraceRay(ray core.Ray, depth int, tc *TraceContext) core.Vec3
}

var _ Integrator = (*Whitted)(nil)
