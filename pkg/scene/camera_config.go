package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera description cannot produce rays
var ErrInvalidCamera = errors.New("invalid camera")

// WorldUp is the up direction used when a camera does not set one
var WorldUp = core.NewVec3(0, 0, 1)

// CameraConfig describes a physical pinhole camera. Lengths of the lens and
// sensor are in millimetres; everything else is in scene units.
type CameraConfig struct {
	Name          string
	Location      core.Vec3
	Gaze          core.Vec3 // Viewing direction, need not be normalized
	Up            core.Vec3 // Zero means WorldUp
	FocalLength   float64
	SensorWidth   float64
	SensorHeight  float64
	ResolutionX   int
	ResolutionY   int
	Aperture      float64   // Lens diameter; zero disables depth of field
	FocalDistance float64   // Distance to the plane in focus
	Velocity      core.Vec3 // Camera motion over one shutter interval
}

// NewLookAtCamera creates a camera at from looking toward to, with the sensor
// sized to give the requested vertical field of view at a 50mm focal length
func NewLookAtCamera(from, to, up core.Vec3, vfovDegrees float64, width, height int) CameraConfig {
	const focalLength = 50.0
	sensorHeight := 2 * focalLength * math.Tan(vfovDegrees*math.Pi/360)
	sensorWidth := sensorHeight
	if height > 0 {
		sensorWidth = sensorHeight * float64(width) / float64(height)
	}

	return CameraConfig{
		Location:     from,
		Gaze:         to.Subtract(from),
		Up:           up,
		FocalLength:  focalLength,
		SensorWidth:  sensorWidth,
		SensorHeight: sensorHeight,
		ResolutionX:  width,
		ResolutionY:  height,
	}
}

// UpVector returns the configured up direction or WorldUp
func (c CameraConfig) UpVector() core.Vec3 {
	if c.Up == (core.Vec3{}) {
		return WorldUp
	}
	return c.Up
}

// Validate reports whether the camera can generate rays
func (c CameraConfig) Validate() error {
	switch {
	case c.ResolutionX <= 0 || c.ResolutionY <= 0:
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidCamera, c.ResolutionX, c.ResolutionY)
	case c.FocalLength <= 0:
		return fmt.Errorf("%w: focal length %g", ErrInvalidCamera, c.FocalLength)
	case c.SensorWidth <= 0 || c.SensorHeight <= 0:
		return fmt.Errorf("%w: sensor %gx%g", ErrInvalidCamera, c.SensorWidth, c.SensorHeight)
	case c.Gaze.Length() < core.DirectionEpsilon:
		return fmt.Errorf("%w: zero gaze", ErrInvalidCamera)
	case c.Gaze.Normalize().Cross(c.UpVector().Normalize()).Length() < 1e-6:
		return fmt.Errorf("%w: gaze is parallel to up", ErrInvalidCamera)
	case c.Aperture < 0 || c.FocalDistance < 0:
		return fmt.Errorf("%w: negative aperture or focal distance", ErrInvalidCamera)
	}
	return nil
}
