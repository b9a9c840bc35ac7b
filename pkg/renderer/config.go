package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// ErrInvalidConfig is returned by Validate for settings that cannot render
var ErrInvalidConfig = errors.New("invalid render config")

// ToneMapping selects the operator that maps linear radiance into [0,1]
type ToneMapping string

const (
	ToneMappingNone     ToneMapping = "none"
	ToneMappingReinhard ToneMapping = "reinhard"
	ToneMappingFilmic   ToneMapping = "filmic"
)

// ParseToneMapping accepts the operator names case-insensitively. "aces" is
// an alias for filmic and the empty string means none.
func ParseToneMapping(name string) (ToneMapping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return ToneMappingNone, nil
	case "reinhard":
		return ToneMappingReinhard, nil
	case "filmic", "aces":
		return ToneMappingFilmic, nil
	}
	return "", fmt.Errorf("%w: unknown tone mapping %q", ErrInvalidConfig, name)
}

// Tolerances are the distances used to keep secondary rays off the surface
// they start from
type Tolerances struct {
	Hit           float64 `yaml:"hit"`
	ShadowBias    float64 `yaml:"shadow_bias"`
	SecondaryBias float64 `yaml:"secondary_bias"`
}

// Config contains every render setting. Width and Height of zero use the
// scene camera's resolution.
type Config struct {
	Width           int         `yaml:"width"`
	Height          int         `yaml:"height"`
	MaxDepth        int         `yaml:"max_depth"`
	SamplesPerPixel int         `yaml:"samples_per_pixel"`
	UseBVH          bool        `yaml:"use_bvh"`
	Shadows         bool        `yaml:"shadows"`
	ShadowSamples   int         `yaml:"shadow_samples"`
	GlossySamples   int         `yaml:"glossy_samples"`
	RoughnessScale  float64     `yaml:"roughness_scale"`
	Exposure        float64     `yaml:"exposure"`
	ToneMapping     ToneMapping `yaml:"tone_mapping"`
	NoShading       bool        `yaml:"no_shading"`
	Seed            int64       `yaml:"seed"`
	Workers         int         `yaml:"workers"`   // 0 = use CPU count
	TileSize        int         `yaml:"tile_size"` // Edge length of square tiles in pixels
	Tolerances      Tolerances  `yaml:"tolerances"`
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	defaults := integrator.DefaultConfig()
	return Config{
		MaxDepth:        defaults.MaxDepth,
		SamplesPerPixel: 1,
		UseBVH:          defaults.UseBVH,
		Shadows:         defaults.Shadows,
		ShadowSamples:   defaults.ShadowSamples,
		GlossySamples:   defaults.GlossySamples,
		RoughnessScale:  defaults.RoughnessScale,
		Exposure:        1,
		ToneMapping:     ToneMappingNone,
		Seed:            1337,
		TileSize:        32,
		Tolerances: Tolerances{
			Hit:           defaults.HitEpsilon,
			ShadowBias:    defaults.ShadowBias,
			SecondaryBias: defaults.SecondaryBias,
		},
	}
}

// Validate reports the first setting that cannot be rendered
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: negative resolution %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: negative max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.SamplesPerPixel < 0 || c.ShadowSamples < 0 || c.GlossySamples < 0:
		return fmt.Errorf("%w: negative sample count", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	case c.Exposure <= 0:
		return fmt.Errorf("%w: exposure must be positive, got %g", ErrInvalidConfig, c.Exposure)
	case c.RoughnessScale < 0:
		return fmt.Errorf("%w: negative roughness scale %g", ErrInvalidConfig, c.RoughnessScale)
	case c.Tolerances.Hit < 0 || c.Tolerances.ShadowBias < 0 || c.Tolerances.SecondaryBias < 0:
		return fmt.Errorf("%w: negative tolerance", ErrInvalidConfig)
	}
	if _, err := ParseToneMapping(string(c.ToneMapping)); err != nil {
		return err
	}
	return nil
}

// IntegratorConfig extracts the settings the integrator needs
func (c Config) IntegratorConfig() integrator.Config {
	return integrator.Config{
		MaxDepth:       c.MaxDepth,
		UseBVH:         c.UseBVH,
		Shadows:        c.Shadows,
		ShadowSamples:  c.ShadowSamples,
		GlossySamples:  c.GlossySamples,
		RoughnessScale: c.RoughnessScale,
		NoShading:      c.NoShading,
		HitEpsilon:     c.Tolerances.Hit,
		ShadowBias:     c.Tolerances.ShadowBias,
		SecondaryBias:  c.Tolerances.SecondaryBias,
	}
}
