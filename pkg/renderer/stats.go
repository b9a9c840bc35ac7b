package renderer

import (
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int
	Height           int
	TotalPixels      int   // Total number of pixels rendered
	TotalSamples     int64 // Total number of camera samples kept
	SamplesPerPixel  int   // Samples per pixel after rounding up to a square grid
	DiscardedSamples int64 // Non-finite samples dropped from pixel averages
	Tiles            int
	Workers          int
	Rays             integrator.TraceStats
	AverageLuminance float64 // Mean display luminance of the final image
	Duration         time.Duration
}

// Merge adds the counters of a finished tile
func (s *RenderStats) Merge(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.TotalSamples += tile.Samples
	s.DiscardedSamples += tile.Discarded
	s.Rays.Merge(tile.Rays)
}

// RaysPerSecond returns the throughput over all ray kinds
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rays.Total()) / s.Duration.Seconds()
}

// TileStats contains the counters of a single rendered tile
type TileStats struct {
	Pixels    int
	Samples   int64
	Discarded int64
	Rays      integrator.TraceStats
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples kept
	Discarded   int       // Number of non-finite samples dropped
}

// AddSample adds a sample to the pixel, dropping NaN and infinite values
func (ps *PixelStats) AddSample(color core.Vec3) {
	if !color.IsFinite() {
		ps.Discarded++
		return
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean luminance of an
// image's 8-bit values scaled to [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R), float64(c.G), float64(c.B)).Multiply(1.0 / 255).Luminance()
		}
	}
	return total / float64(pixels)
}
