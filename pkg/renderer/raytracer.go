package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Raytracer renders a preprocessed scene into an image
type Raytracer struct {
	scene      *scene.Scene
	config     Config
	logger     core.Logger
	width      int
	height     int
	camera     Camera
	integrator integrator.Integrator
}

// NewRaytracer creates a raytracer for a scene. The scene BVH is built if
// Preprocess has not been called yet. A nil logger discards output.
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	toneMap, err := ParseToneMapping(string(config.ToneMapping))
	if err != nil {
		return nil, err
	}
	config.ToneMapping = toneMap

	if logger == nil {
		logger = nopLogger{}
	}

	if s.BVH == nil {
		start := time.Now()
		if err := s.Preprocess(); err != nil {
			return nil, err
		}
		stats := s.BVH.Stats()
		logger.Infof("Built BVH over %d shapes in %v (%d nodes, depth %d)", s.BVH.Len(), time.Since(start), stats.Nodes, stats.MaxDepth)
	}

	width, height := config.Width, config.Height
	if width == 0 {
		width = s.Camera.ResolutionX
	}
	if height == 0 {
		height = s.Camera.ResolutionY
	}

	camera, err := NewPinholeCamera(s.Camera, width, height)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}

	return &Raytracer{
		scene:      s,
		config:     config,
		logger:     logger,
		width:      width,
		height:     height,
		camera:     camera,
		integrator: integrator.NewWhitted(s, config.IntegratorConfig()),
	}, nil
}

// Render traces every pixel of the image. Output depends only on the scene
// and config, not on the number of workers. When ctx is cancelled the
// remaining tiles are skipped and ctx.Err() is returned.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	tiles := NewTileGrid(rt.width, rt.height, rt.config.TileSize, rt.config.Seed)

	tileRenderer := NewTileRenderer(rt.integrator, rt.camera, rt.config.SamplesPerPixel, rt.config.Exposure, rt.config.ToneMapping)
	pool := NewWorkerPool(tileRenderer, rt.config.Workers, len(tiles))

	grid := core.GridSize(rt.config.SamplesPerPixel)
	stats := RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: grid * grid,
		Tiles:           len(tiles),
		Workers:         pool.GetNumWorkers(),
	}

	rt.logger.Infof("Rendering %dx%d at %d samples/pixel: %d tiles on %d workers",
		rt.width, rt.height, stats.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	pool.Start(ctx)
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, Image: img, TaskID: taskID})
	}

	var renderErr error
	lastDecile := 0
	for completed := 1; completed <= len(tiles); completed++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)

		if decile := completed * 10 / len(tiles); decile > lastDecile {
			lastDecile = decile
			rt.logger.Infof("Progress: %d%% (%d/%d tiles)", decile*10, completed, len(tiles))
		}
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	if renderErr != nil {
		rt.logger.Warningf("Render stopped after %v: %v", stats.Duration, renderErr)
		return nil, stats, renderErr
	}

	stats.AverageLuminance = CalculateAverageLuminance(img)
	if stats.DiscardedSamples > 0 {
		rt.logger.Warningf("Discarded %d non-finite samples", stats.DiscardedSamples)
	}
	rt.logger.Noticef("Rendered %q in %v (%d rays)", rt.scene.Name, stats.Duration, stats.Rays.Total())
	return img, stats, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{})   {}
func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Noticef(string, ...interface{})  {}
func (nopLogger) Warningf(string, ...interface{}) {}
