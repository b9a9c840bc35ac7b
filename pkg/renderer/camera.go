package renderer

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera generates primary rays. (px, py) is a continuous position in pixel
// units with row 0 at the top; (sx, sy) is the sub-sample cell of a grid x
// grid pattern, used to stratify lens and shutter samples.
type Camera interface {
	GetRay(px, py float64, sx, sy, grid int, sampler core.Sampler) core.Ray
}

// PinholeCamera is a physical camera with a sensor behind a lens of the
// given focal length, with optional thin-lens depth of field and linear
// motion blur
type PinholeCamera struct {
	origin  core.Vec3
	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	focalLength  float64
	sensorWidth  float64
	sensorHeight float64
	width        float64
	height       float64

	lensRadius    float64
	focalDistance float64
	velocity      core.Vec3
}

// NewPinholeCamera creates a camera from its description, rendering at the
// given resolution
func NewPinholeCamera(config scene.CameraConfig, width, height int) (*PinholeCamera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", scene.ErrInvalidCamera, width, height)
	}

	forward := config.Gaze.Normalize()
	right := forward.Cross(config.UpVector()).Normalize()
	up := right.Cross(forward)

	return &PinholeCamera{
		origin:        config.Location,
		forward:       forward,
		right:         right,
		up:            up,
		focalLength:   config.FocalLength,
		sensorWidth:   config.SensorWidth,
		sensorHeight:  config.SensorHeight,
		width:         float64(width),
		height:        float64(height),
		lensRadius:    config.Aperture / 2,
		focalDistance: config.FocalDistance,
		velocity:      config.Velocity,
	}, nil
}

// GetRay returns the ray through a point on the sensor
func (c *PinholeCamera) GetRay(px, py float64, sx, sy, grid int, sampler core.Sampler) core.Ray {
	u := px/c.width - 0.5
	v := 0.5 - py/c.height

	direction := c.forward.Multiply(c.focalLength).
		Add(c.right.Multiply(u * c.sensorWidth)).
		Add(c.up.Multiply(v * c.sensorHeight)).
		Normalize()
	origin := c.origin

	if c.lensRadius > 0 && c.focalDistance > 0 {
		// Every lens point sees the same point on the plane of focus
		focus := origin.Add(direction.Multiply(c.focalDistance / direction.Dot(c.forward)))
		lens := core.SamplePointInUnitDisk(core.StratifiedSample(sx, sy, grid, sampler))
		origin = origin.
			Add(c.right.Multiply(lens.X * c.lensRadius)).
			Add(c.up.Multiply(lens.Y * c.lensRadius))
		direction = focus.Subtract(origin).Normalize()
	}

	if c.velocity != (core.Vec3{}) {
		cells := max(1, grid*grid)
		time := (float64(sy*grid+sx) + sampler.Get1D()) / float64(cells)
		origin = origin.Add(c.velocity.Multiply(time))
	}

	return core.NewRay(origin, direction)
}
