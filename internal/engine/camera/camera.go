// Package camera provides the fly camera that drives the terrain viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/terraroam/pkg/math"
)

// FlyCamera is a free-flying first-person camera over the terrain.
type FlyCamera struct {
	Position math.Vec3

	// Orientation
	Yaw   float32 // horizontal angle, radians; 0 looks down -Z
	Pitch float32 // vertical angle, radians; positive looks up

	// Constraints
	MinPitch float32
	MaxPitch float32

	// Sensitivity
	MoveSpeed       float32 // world units per second
	LookSensitivity float32
}

// New creates a fly camera with default settings.
func New() *FlyCamera {
	return &FlyCamera{
		Pitch:           -0.4,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		MoveSpeed:       120.0,
		LookSensitivity: 0.004,
	}
}

// Forward returns the camera's view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: -float32(gomath.Sin(float64(c.Yaw))) * cp,
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -float32(gomath.Cos(float64(c.Yaw))) * cp,
	}
}

// Right returns the camera's right direction on the XZ plane.
func (c *FlyCamera) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: -float32(gomath.Sin(float64(c.Yaw))),
	}
}

// HandleLook updates orientation from a mouse delta.
func (c *FlyCamera) HandleLook(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.LookSensitivity
	c.Pitch -= deltaY * c.LookSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleMovement moves the camera. forward, right and up are -1..1 axis
// inputs; dt is the frame time in seconds.
func (c *FlyCamera) HandleMovement(forward, right, up, dt float32) {
	step := c.MoveSpeed * dt

	dir := c.Forward().Scale(forward * step)
	dir = dir.Add(c.Right().Scale(right * step))
	dir.Y += up * step

	c.Position = c.Position.Add(dir)
}

// ViewMatrix returns the view matrix for the current pose.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	target := c.Position.Add(c.Forward())
	up := math.Vec3{Y: 1}
	return math.LookAt(c.Position, target, up)
}
