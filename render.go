package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/watcher"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const watchDebounce = 200 * time.Millisecond

type renderOptions struct {
	configPath  string
	output      string
	watch       bool
	noBVH       bool
	noShadows   bool
	toneMapping string
	flags       renderer.Config
}

// configOverrides copies a flag's value into the config when the flag was set
// on the command line, so flags win over the config file.
var configOverrides = map[string]func(dst *renderer.Config, o *renderOptions){
	"width":           func(dst *renderer.Config, o *renderOptions) { dst.Width = o.flags.Width },
	"height":          func(dst *renderer.Config, o *renderOptions) { dst.Height = o.flags.Height },
	"max-depth":       func(dst *renderer.Config, o *renderOptions) { dst.MaxDepth = o.flags.MaxDepth },
	"spp":             func(dst *renderer.Config, o *renderOptions) { dst.SamplesPerPixel = o.flags.SamplesPerPixel },
	"no-bvh":          func(dst *renderer.Config, o *renderOptions) { dst.UseBVH = !o.noBVH },
	"no-shadows":      func(dst *renderer.Config, o *renderOptions) { dst.Shadows = !o.noShadows },
	"shadow-samples":  func(dst *renderer.Config, o *renderOptions) { dst.ShadowSamples = o.flags.ShadowSamples },
	"glossy-samples":  func(dst *renderer.Config, o *renderOptions) { dst.GlossySamples = o.flags.GlossySamples },
	"roughness-scale": func(dst *renderer.Config, o *renderOptions) { dst.RoughnessScale = o.flags.RoughnessScale },
	"exposure":        func(dst *renderer.Config, o *renderOptions) { dst.Exposure = o.flags.Exposure },
	"tone-mapping":    func(dst *renderer.Config, o *renderOptions) { dst.ToneMapping = renderer.ToneMapping(o.toneMapping) },
	"flat":            func(dst *renderer.Config, o *renderOptions) { dst.NoShading = o.flags.NoShading },
	"seed":            func(dst *renderer.Config, o *renderOptions) { dst.Seed = o.flags.Seed },
	"workers":         func(dst *renderer.Config, o *renderOptions) { dst.Workers = o.flags.Workers },
	"tile-size":       func(dst *renderer.Config, o *renderOptions) { dst.TileSize = o.flags.TileSize },
}

func newRenderCmd(logger core.Logger) *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a builtin scene or a scene file",
		Long: `Render a builtin scene (see "raytracer scenes") or a scene file to an image.
The output format follows the file extension: .png, .jpg, .bmp, .tif or .ppm.
Settings come from the defaults, then --config, then individual flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "default"
			if len(args) > 0 {
				name = args[0]
			}
			return o.run(cmd, name, logger)
		},
	}

	o.addFlags(cmd)
	return cmd
}

func (o *renderOptions) addFlags(cmd *cobra.Command) {
	defaults := renderer.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML render settings file")
	fs.StringVarP(&o.output, "out", "o", "", "output image (default output/<scene>/render_<timestamp>.png)")
	fs.BoolVarP(&o.watch, "watch", "w", false, "re-render when the scene file or config changes")

	fs.IntVar(&o.flags.Width, "width", defaults.Width, "image width (0 = camera resolution)")
	fs.IntVar(&o.flags.Height, "height", defaults.Height, "image height (0 = camera resolution)")
	fs.IntVar(&o.flags.MaxDepth, "max-depth", defaults.MaxDepth, "maximum reflection/refraction depth")
	fs.IntVar(&o.flags.SamplesPerPixel, "spp", defaults.SamplesPerPixel, "camera samples per pixel, rounded up to a square grid")
	fs.BoolVar(&o.noBVH, "no-bvh", !defaults.UseBVH, "test every shape instead of using the BVH")
	fs.BoolVar(&o.noShadows, "no-shadows", !defaults.Shadows, "disable shadow rays")
	fs.IntVar(&o.flags.ShadowSamples, "shadow-samples", defaults.ShadowSamples, "shadow rays per disk light")
	fs.IntVar(&o.flags.GlossySamples, "glossy-samples", defaults.GlossySamples, "reflection rays for rough materials")
	fs.Float64Var(&o.flags.RoughnessScale, "roughness-scale", defaults.RoughnessScale, "multiplier on material roughness")
	fs.Float64Var(&o.flags.Exposure, "exposure", defaults.Exposure, "linear exposure applied before tone mapping")
	fs.StringVar(&o.toneMapping, "tone-mapping", string(defaults.ToneMapping), "none, reinhard or filmic")
	fs.BoolVar(&o.flags.NoShading, "flat", defaults.NoShading, "output surface colours without lighting")
	fs.Int64Var(&o.flags.Seed, "seed", defaults.Seed, "random seed")
	fs.IntVar(&o.flags.Workers, "workers", defaults.Workers, "render goroutines (0 = CPU count)")
	fs.IntVar(&o.flags.TileSize, "tile-size", defaults.TileSize, "tile edge length in pixels")
}

// resolveConfig layers the config file and the explicitly set flags over the
// defaults
func (o *renderOptions) resolveConfig(cmd *cobra.Command) (renderer.Config, error) {
	config := renderer.DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = loaders.LoadRenderConfig(o.configPath); err != nil {
			return config, err
		}
	}

	for name, apply := range configOverrides {
		if cmd.Flags().Changed(name) {
			apply(&config, o)
		}
	}

	toneMapping, err := renderer.ParseToneMapping(string(config.ToneMapping))
	if err != nil {
		return config, err
	}
	config.ToneMapping = toneMapping
	return config, config.Validate()
}

func (o *renderOptions) run(cmd *cobra.Command, name string, logger core.Logger) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := o.render(ctx, cmd, name, logger)
	if err != nil || !o.watch {
		return err
	}

	if o.configPath != "" {
		files = append(files, o.configPath)
	}
	if len(files) == 0 {
		return errors.New("--watch needs a scene file or --config")
	}

	fw, err := watcher.NewFileWatcher(watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Watch(files...); err != nil {
		return err
	}

	logger.Noticef("Watching %d files, press Ctrl-C to stop", len(files))
	err = fw.Run(ctx, func(path string) {
		logger.Noticef("%s changed, re-rendering", path)
		newFiles, err := o.render(ctx, cmd, name, logger)
		if err != nil {
			logger.Warningf("Render failed: %v", err)
			return
		}
		// Pick up textures added since the last render
		if err := fw.Watch(newFiles...); err != nil {
			logger.Warningf("Failed to watch new files: %v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// render renders the scene once and returns the files it was built from
func (o *renderOptions) render(ctx context.Context, cmd *cobra.Command, name string, logger core.Logger) ([]string, error) {
	s, files, err := loadScene(name, logger)
	if err != nil {
		return nil, err
	}

	config, err := o.resolveConfig(cmd)
	if err != nil {
		return files, err
	}

	rt, err := renderer.NewRaytracer(s, config, logger)
	if err != nil {
		return files, err
	}

	img, stats, err := rt.Render(ctx)
	if err != nil {
		return files, fmt.Errorf("render cancelled: %w", err)
	}

	output := o.output
	if output == "" {
		output = defaultOutputPath(s.Name, time.Now())
	}
	if err := loaders.SaveImage(output, img); err != nil {
		return files, err
	}

	logger.Noticef("Render saved as %s", output)
	writeRenderStats(cmd.OutOrStdout(), stats)
	return files, nil
}

// loadScene resolves a builtin scene name or a scene file path
func loadScene(name string, logger core.Logger) (*scene.Scene, []string, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}

	s, err := scene.NewBuiltinScene(name)
	if err == nil {
		return s, nil, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) {
		return nil, nil, err
	}
	if _, statErr := os.Stat(name); statErr != nil {
		return nil, nil, fmt.Errorf("%w: not a builtin scene or a readable file", err)
	}

	file, err := loaders.LoadSceneFile(name, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("Loaded %s: %d shapes, %d lights", name, len(file.Scene.Shapes), len(file.Scene.Lights))
	return file.Scene, file.Files(), nil
}

func defaultOutputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}

func writeRenderStats(w io.Writer, stats renderer.RenderStats) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)},
		{"Samples/pixel", fmt.Sprintf("%d", stats.SamplesPerPixel)},
		{"Tiles", fmt.Sprintf("%d on %d workers", stats.Tiles, stats.Workers)},
		{"Camera rays", fmt.Sprintf("%d", stats.Rays.CameraRays)},
		{"Secondary rays", fmt.Sprintf("%d", stats.Rays.SecondaryRays)},
		{"Shadow rays", fmt.Sprintf("%d", stats.Rays.ShadowRays)},
		{"Mean luminance", fmt.Sprintf("%.3f", stats.AverageLuminance)},
		{"Discarded samples", fmt.Sprintf("%d", stats.DiscardedSamples)},
		{"Rays/second", fmt.Sprintf("%.0f", stats.RaysPerSecond())},
	})
	table.SetFooter([]string{"Render time", stats.Duration.Round(time.Millisecond).String()})

	table.Render()
}
