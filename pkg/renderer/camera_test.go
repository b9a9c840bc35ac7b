package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func forwardCamera(t *testing.T, modify func(c *scene.CameraConfig)) *PinholeCamera {
	t.Helper()
	config := scene.NewLookAtCamera(core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), 90, 100, 100)
	if modify != nil {
		modify(&config)
	}
	camera, err := NewPinholeCamera(config, 100, 100)
	if err != nil {
		t.Fatalf("NewPinholeCamera failed: %v", err)
	}
	return camera
}

func TestPinholeCamera_Basis(t *testing.T) {
	camera := forwardCamera(t, nil)
	right, up := camera.right, camera.up

	if camera.forward.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-12 {
		t.Errorf("Forward = %v, want (0,0,-1)", camera.forward)
	}
	if right.Subtract(core.NewVec3(1, 0, 0)).Length() > 1e-12 {
		t.Errorf("Right = %v, want (1,0,0)", right)
	}
	if up.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Up = %v, want (0,1,0)", up)
	}
}

func TestPinholeCamera_GetRay(t *testing.T) {
	camera := forwardCamera(t, nil)
	sampler := core.NewSeededSampler(1, 0)
	diagonal := 1 / math.Sqrt2

	tests := []struct {
		name     string
		px, py   float64
		expected core.Vec3
	}{
		{"center", 50, 50, core.NewVec3(0, 0, -1)},
		{"top edge", 50, 0, core.NewVec3(0, diagonal, -diagonal)},
		{"bottom edge", 50, 100, core.NewVec3(0, -diagonal, -diagonal)},
		{"left edge", 0, 50, core.NewVec3(-diagonal, 0, -diagonal)},
		{"right edge", 100, 50, core.NewVec3(diagonal, 0, -diagonal)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.px, tt.py, 0, 0, 1, sampler)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Origin = %v, want the camera location", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Direction = %v, want %v", ray.Direction, tt.expected)
			}
		})
	}
}

func TestPinholeCamera_DepthOfField(t *testing.T) {
	const focalDistance = 3.0
	camera := forwardCamera(t, func(c *scene.CameraConfig) {
		c.Aperture = 0.5
		c.FocalDistance = focalDistance
	})
	sampler := core.NewSeededSampler(5, 0)

	moved := false
	const grid = 4
	for sy := 0; sy < grid; sy++ {
		for sx := 0; sx < grid; sx++ {
			ray := camera.GetRay(50, 50, sx, sy, grid, sampler)
			if ray.Origin.Length() > 0.25+1e-12 {
				t.Fatalf("Lens sample %v outside the aperture", ray.Origin)
			}
			if ray.Origin != (core.Vec3{}) {
				moved = true
			}

			// Every ray through the pixel center meets at the focus point
			t0 := (-focalDistance - ray.Origin.Z) / ray.Direction.Z
			focus := ray.At(t0)
			if math.Abs(focus.X) > 1e-9 || math.Abs(focus.Y) > 1e-9 {
				t.Errorf("Ray misses the focus point: %v", focus)
			}
		}
	}
	if !moved {
		t.Error("Expected lens samples away from the center")
	}
}

func TestPinholeCamera_MotionBlur(t *testing.T) {
	camera := forwardCamera(t, func(c *scene.CameraConfig) {
		c.Velocity = core.NewVec3(1, 0, 0)
	})
	sampler := core.NewSeededSampler(9, 0)

	const grid = 3
	for sy := 0; sy < grid; sy++ {
		for sx := 0; sx < grid; sx++ {
			ray := camera.GetRay(50, 50, sx, sy, grid, sampler)
			cell := float64(sy*grid + sx)
			if ray.Origin.X < cell/9 || ray.Origin.X >= (cell+1)/9 {
				t.Errorf("Cell %d shutter time %f outside its stratum", int(cell), ray.Origin.X)
			}
		}
	}
}

func TestNewPinholeCamera_Invalid(t *testing.T) {
	config := scene.NewLookAtCamera(core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), 60, 10, 10)

	if _, err := NewPinholeCamera(config, 0, 10); !errors.Is(err, scene.ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for zero width, got %v", err)
	}

	config.Up = core.NewVec3(0, 0, 1)
	if _, err := NewPinholeCamera(config, 10, 10); !errors.Is(err, scene.ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for gaze parallel to up, got %v", err)
	}
}
