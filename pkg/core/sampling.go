package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded from the
// given values, so independent streams can be derived from a render seed and
// an index
func NewSeededSampler(seed, stream int64) *RandomSampler {
	// Mix the stream index so that neighbouring streams do not start from
	// neighbouring seeds
	mixed := seed ^ (stream+1)*0x5851F42D4C957F2D
	return NewRandomSampler(rand.New(rand.NewSource(mixed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// GridSize returns the side length of the smallest square grid holding at
// least the requested number of samples. Counts below one yield a 1x1 grid.
func GridSize(samples int) int {
	if samples <= 1 {
		return 1
	}
	side := int(math.Sqrt(float64(samples)))
	if side*side < samples {
		side++
	}
	return side
}

// StratifiedSample returns a jittered point inside cell (x, y) of a
// gridSize x gridSize partition of the unit square
func StratifiedSample(x, y, gridSize int, sampler Sampler) Vec2 {
	cellSize := 1.0 / float64(gridSize)
	jitter := sampler.Get2D()
	return NewVec2(
		(float64(x)+jitter.X)*cellSize,
		(float64(y)+jitter.Y)*cellSize,
	)
}

// OrthonormalBasis returns two unit vectors that together with w form a
// right-handed orthonormal basis. w must be normalized.
func OrthonormalBasis(w Vec3) (u, v Vec3) {
	var a Vec3
	if math.Abs(w.X) > 0.1 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	u = a.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}

// SampleOnUnitSphere maps a point of the unit square to a uniformly
// distributed direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	theta := 2.0 * math.Pi * sample.X
	z := 1.0 - 2.0*sample.Y // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), z)
}

// SamplePointInUnitDisk maps a point of the unit square onto the unit disk
// using the polar mapping r = √s, θ = 2πt
func SamplePointInUnitDisk(sample Vec2) Vec2 {
	r := math.Sqrt(sample.X)
	theta := 2.0 * math.Pi * sample.Y
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}
