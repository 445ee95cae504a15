// Package lighting provides the directional light used to shade voxel meshes.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/voxelfx/pkg/math"
)

// Sun is a directional light.
type Sun struct {
	Direction math.Vec3 // Unit vector pointing towards the light
	Color     math.Vec3
	Ambient   float32 // Minimum brightness of faces turned away
}

// DefaultSun lights the scene from the upper front right.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(35, 55),
		Color:     math.One,
		Ambient:   0.35,
	}
}

// SunDirection converts longitude/latitude angles in degrees to a light
// direction. Longitude rotates around Y, latitude is elevation above the
// horizon. The result is normalized and points towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lonRad := float64(longitude) * gomath.Pi / 180.0
	latRad := float64(latitude) * gomath.Pi / 180.0

	return math.Vec3{
		X: float32(gomath.Cos(latRad) * gomath.Sin(lonRad)),
		Y: float32(gomath.Sin(latRad)),
		Z: float32(gomath.Cos(latRad) * gomath.Cos(lonRad)),
	}
}

// Intensity returns the lambert factor for a face normal, never below Ambient.
func (s Sun) Intensity(normal math.Vec3) float32 {
	d := normal.Dot(s.Direction)
	if d < 0 {
		d = 0
	}
	return s.Ambient + (1-s.Ambient)*d
}
