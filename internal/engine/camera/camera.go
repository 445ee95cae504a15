// Package camera provides the orbit camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FovY float32 // radians
	Near float32
	Far  float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        30.0,
		RotationX:       0.5,
		RotationY:       0.6,
		MinDistance:     1.0,
		MaxDistance:     1000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FovY:            gomath.Pi / 4,
		Near:            0.1,
		Far:             2000.0,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// Right returns the camera's right vector on the XZ plane.
func (c *OrbitCamera) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.RotationY))),
		Z: float32(-gomath.Sin(float64(c.RotationY))),
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centres the camera on a mesh bounding box and backs off far
// enough to see all of it.
func (c *OrbitCamera) FitToBounds(b voxel.Bounds) {
	c.Center = math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}

	extent := math.Vec3{
		X: b.Max[0] - b.Min[0],
		Y: b.Max[1] - b.Min[1],
		Z: b.Max[2] - b.Min[2],
	}
	radius := extent.Length() / 2

	// Distance at which a sphere of this radius fills the vertical FOV
	dist := radius / float32(gomath.Sin(float64(c.FovY)/2))
	if dist < c.MinDistance {
		dist = c.MinDistance
	}
	if dist > c.MaxDistance {
		dist = c.MaxDistance
	}
	c.Distance = dist
}
