package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}

	v := Vec3{1, 2, 3}
	if got := q.Rotate(v); got != v {
		t.Errorf("Identity rotation changed %v to %v", v, got)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Up, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

// The back face template (z = -0.5) must land on each cube side.
func TestQuatFromEulerFaceRotations(t *testing.T) {
	corner := Vec3{-0.5, -0.5, -0.5}

	tests := []struct {
		name    string
		x, y, z float32
		want    Vec3
	}{
		{"left", 0, 90, 0, Vec3{-0.5, -0.5, 0.5}},
		{"right", 0, -90, 0, Vec3{0.5, -0.5, -0.5}},
		{"down", -90, 0, 0, Vec3{-0.5, -0.5, 0.5}},
		{"up", 90, 0, 0, Vec3{-0.5, 0.5, -0.5}},
		{"back", 0, 0, 0, Vec3{-0.5, -0.5, -0.5}},
		{"forward", 0, 180, 0, Vec3{0.5, -0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromEuler(tt.x, tt.y, tt.z).Rotate(corner)
			if !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("Euler(%v,%v,%v) * %v = %v, want %v", tt.x, tt.y, tt.z, corner, got, tt.want)
			}
		})
	}
}

func TestQuatToMat4(t *testing.T) {
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}

	p := Vec3{0.3, -1.2, 2.5}
	for _, q := range []Quat{
		QuatFromEuler(0, 90, 0),
		QuatFromAxisAngle(Up, float32(math.Pi/3)),
		QuatFromAxisAngle(Right, float32(math.Pi/3)),
		QuatFromEuler(30, 45, 60),
	} {
		if got, want := transformVec3(q.ToMat4(), p), q.Rotate(p); !got.ApproxEqual(want, 1e-5) {
			t.Errorf("ToMat4 of %v transforms to %v, Rotate gives %v", q, got, want)
		}
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromEuler(30, 45, 60)
	p := Vec3{1, 2, 3}
	back := q.Conjugate().Rotate(q.Rotate(p))
	if !back.ApproxEqual(p, 1e-5) {
		t.Errorf("conjugate round trip = %v, want %v", back, p)
	}
}
