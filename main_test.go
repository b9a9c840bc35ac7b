package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/spf13/cobra"
)

const testSceneFile = `BEGIN_CAMERA
location 0 -5 1
gaze 0 1 0
resolution 16 12
END_CAMERA
BEGIN_LIGHT
location 0 -3 4
intensity 20
END_LIGHT
BEGIN_SPHERE
location 0 0 1
radius 1
END_SPHERE
`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "sphere.txt")
	if err := os.WriteFile(sceneFile, []byte(testSceneFile), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		sceneName string
		files     int
		wantErr   error
	}{
		{"default scene", "default", 0, nil},
		{"cornell scene", "cornell", 0, nil},
		{"mesh scene", "mesh", 0, nil},
		{"scene file", sceneFile, 1, nil},
		{"unknown scene", "nonexistent", 0, scene.ErrUnknownScene},
		{"missing file", filepath.Join(dir, "missing.txt"), 0, scene.ErrUnknownScene},
		{"empty scene name", "", 0, scene.ErrUnknownScene},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, files, err := loadScene(tt.sceneName, logger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadScene(%q) failed: %v", tt.sceneName, err)
			}
			if s == nil || len(s.Shapes) == 0 {
				t.Fatal("Expected a scene with shapes")
			}
			if len(files) != tt.files {
				t.Errorf("Expected %d watched files, got %v", tt.files, files)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	got := defaultOutputPath("cornell", now)
	want := filepath.Join("output", "cornell", "render_20240305_140709.png")
	if got != want {
		t.Errorf("defaultOutputPath = %s, want %s", got, want)
	}
}

func TestResolveConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "render.yaml")
	if err := os.WriteFile(configFile, []byte("width: 100\nheight: 50\nexposure: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, c renderer.Config)
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{},
			check: func(t *testing.T, c renderer.Config) {
				if c != renderer.DefaultConfig() {
					t.Errorf("Expected defaults, got %+v", c)
				}
			},
		},
		{
			name: "flags",
			args: []string{"--width", "64", "--no-bvh", "--no-shadows", "--tone-mapping", "ACES", "--flat"},
			check: func(t *testing.T, c renderer.Config) {
				if c.Width != 64 || c.UseBVH || c.Shadows || !c.NoShading {
					t.Errorf("Flags not applied: %+v", c)
				}
				if c.ToneMapping != renderer.ToneMappingFilmic {
					t.Errorf("ToneMapping = %q, want filmic", c.ToneMapping)
				}
			},
		},
		{
			name: "flags override config file",
			args: []string{"--config", configFile, "--width", "30"},
			check: func(t *testing.T, c renderer.Config) {
				if c.Width != 30 || c.Height != 50 || c.Exposure != 2 {
					t.Errorf("Expected file values with width override, got %+v", c)
				}
			},
		},
		{name: "invalid flag value", args: []string{"--tile-size", "0"}, wantErr: true},
		{name: "invalid tone mapping", args: []string{"--tone-mapping", "hable"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var config renderer.Config
			var resolveErr error

			o := &renderOptions{}
			cmd := &cobra.Command{
				Use: "resolve",
				RunE: func(c *cobra.Command, args []string) error {
					config, resolveErr = o.resolveConfig(c)
					return nil
				},
			}
			o.addFlags(cmd)
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}

			if tt.wantErr {
				if resolveErr == nil {
					t.Error("Expected an error")
				}
				return
			}
			if resolveErr != nil {
				t.Fatalf("resolveConfig failed: %v", resolveErr)
			}
			tt.check(t, config)
		})
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "renders", "default.ppm")

	output, err := executeCommand(t, "render", "--width", "24", "--height", "16", "--out", out, "default")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(output, "Camera rays") {
		t.Errorf("Expected a statistics table, got:\n%s", output)
	}

	img, err := loaders.LoadImage(out)
	if err != nil {
		t.Fatalf("Failed to read render: %v", err)
	}
	if img.Width != 24 || img.Height != 16 {
		t.Errorf("Render is %dx%d, want 24x16", img.Width, img.Height)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"render", "nonexistent"}},
		{"bad flag", []string{"render", "--spp", "-1", "default"}},
		{"too many args", []string{"render", "default", "cornell"}},
		{"unknown log level", []string{"scenes", "--log-level", "loud"}},
		{"watch builtin without config", []string{"render", "--watch", "--width", "8", "--height", "8", "--out", filepath.Join(t.TempDir(), "x.png"), "default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, tt.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestInfoAndScenesCommands(t *testing.T) {
	output, err := executeCommand(t, "info", "cornell")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"BVH nodes", "plane", "box", "sphere", "disk"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in info output:\n%s", want, output)
		}
	}

	output, err = executeCommand(t, "scenes")
	if err != nil {
		t.Fatalf("scenes failed: %v", err)
	}
	for _, info := range scene.ListBuiltinScenes() {
		if !strings.Contains(output, info.Name) {
			t.Errorf("Expected %q in scenes output:\n%s", info.Name, output)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	if _, err := executeCommand(t, "scenes", "--log-level", "warning"); err != nil {
		t.Fatalf("scenes --log-level warning failed: %v", err)
	}
	if _, err := executeCommand(t, "scenes", "--log-level", "WARN"); err != nil {
		t.Errorf("Level names should be case-insensitive: %v", err)
	}
	// Restore the default for the other tests
	if _, err := executeCommand(t, "scenes"); err != nil {
		t.Fatal(err)
	}
}
