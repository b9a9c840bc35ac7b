package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// TileRenderer renders the pixels of individual tiles with an integrator.
// It holds no mutable state, so one instance serves every worker.
type TileRenderer struct {
	integrator integrator.Integrator
	camera     Camera
	samples    int // Samples per pixel as requested
	exposure   float64
	toneMap    ToneMapping
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(integratorInst integrator.Integrator, camera Camera, samplesPerPixel int, exposure float64, toneMap ToneMapping) *TileRenderer {
	return &TileRenderer{
		integrator: integratorInst,
		camera:     camera,
		samples:    samplesPerPixel,
		exposure:   exposure,
		toneMap:    toneMap,
	}
}

// RenderTile renders every pixel of the tile into img. Tiles never overlap,
// so concurrent calls on distinct tiles may share img.
func (tr *TileRenderer) RenderTile(tile *Tile, img *image.RGBA) TileStats {
	tc := integrator.NewTraceContext(tile.Sampler)
	stats := TileStats{}

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			pixel := tr.samplePixel(x, y, tc)
			img.SetRGBA(x, y, ToDisplay(pixel.GetColor(), tr.exposure, tr.toneMap))

			stats.Pixels++
			stats.Samples += int64(pixel.SampleCount)
			stats.Discarded += int64(pixel.Discarded)
		}
	}

	stats.Rays = *tc.Stats
	return stats
}

// samplePixel traces a stratified grid of camera rays through the pixel. A
// single sample goes through the pixel center.
func (tr *TileRenderer) samplePixel(x, y int, tc *integrator.TraceContext) PixelStats {
	var pixel PixelStats
	grid := core.GridSize(tr.samples)

	if grid == 1 {
		ray := tr.camera.GetRay(float64(x)+0.5, float64(y)+0.5, 0, 0, 1, tc.Sampler)
		pixel.AddSample(tr.integrator.TraceRay(ray, 0, tc))
		return pixel
	}

	for sy := 0; sy < grid; sy++ {
		for sx := 0; sx < grid; sx++ {
			offset := core.StratifiedSample(sx, sy, grid, tc.Sampler)
			ray := tr.camera.GetRay(float64(x)+offset.X, float64(y)+offset.Y, sx, sy, grid, tc.Sampler)
			pixel.AddSample(tr.integrator.TraceRay(ray, 0, tc))
		}
	}
	return pixel
}
