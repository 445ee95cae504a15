package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

func TestPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 3, Y: -2, Z: 1}

	for _, yaw := range []float32{0, 1, 2.5, -1} {
		c.RotationY = yaw
		got := c.Position().Distance(c.Center)
		if gomath.Abs(float64(got-c.Distance)) > 1e-3 {
			t.Errorf("yaw %v: distance %v, want %v", yaw, got, c.Distance)
		}
	}
}

func TestPositionAxes(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 10
	c.RotationX = 0
	c.RotationY = 0

	if got := c.Position(); !got.ApproxEqual(math.Vec3{Z: 10}, 1e-5) {
		t.Errorf("expected camera on +Z, got %v", got)
	}

	// Camera on +Z looking at the origin: right is +X
	if got := c.Right(); !got.ApproxEqual(math.Right, 1e-5) {
		t.Errorf("expected right +X, got %v", got)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch %v, want max %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch %v, want min %v", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  func(*OrbitCamera) float32
	}{
		{"zoom in", 100, func(c *OrbitCamera) float32 { return c.MinDistance }},
		{"zoom out", -1e6, func(c *OrbitCamera) float32 { return c.MaxDistance }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.HandleZoom(tt.delta)
			if c.Distance != tt.want(c) {
				t.Errorf("distance %v, want %v", c.Distance, tt.want(c))
			}
		})
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(voxel.Bounds{Min: [3]float32{-4, 0, -4}, Max: [3]float32{4, 8, 4}})

	if !c.Center.ApproxEqual(math.Vec3{Y: 4}, 1e-6) {
		t.Errorf("center %v, want (0,4,0)", c.Center)
	}

	radius := float32(gomath.Sqrt(3*64)) / 2
	if c.Distance <= radius {
		t.Errorf("distance %v should exceed bounding radius %v", c.Distance, radius)
	}
}

func TestViewMatrixMapsCenterAhead(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 1, Y: 2, Z: 3}

	p := c.ViewMatrix().TransformPoint(c.Center.Array())
	// OpenGL view space looks down -Z
	if gomath.Abs(float64(p[0])) > 1e-4 || gomath.Abs(float64(p[1])) > 1e-4 {
		t.Errorf("center not on view axis: %v", p)
	}
	if gomath.Abs(float64(p[2]+c.Distance)) > 1e-3 {
		t.Errorf("center depth %v, want %v", p[2], -c.Distance)
	}
}
