package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// LoadRenderConfig reads a YAML render config. Keys that are absent keep
// their default values; unknown keys are an error.
func LoadRenderConfig(filename string) (renderer.Config, error) {
	config := renderer.DefaultConfig()

	file, err := os.Open(filename)
	if err != nil {
		return config, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	toneMap, err := renderer.ParseToneMapping(string(config.ToneMapping))
	if err != nil {
		return config, fmt.Errorf("%s: %w", filename, err)
	}
	config.ToneMapping = toneMap

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}
