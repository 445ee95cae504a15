// Package particles turns voxel volumes into destructible particle arrays
// and drives them: velocity field modifiers, the capacity-bounded unit pool
// that feeds renderers, and the per-tick integrator.
package particles

import (
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// FlagGravity marks a particle as pulled down by the integrator.
const FlagGravity uint32 = 1 << 0

// Particle is one voxel in flight.
type Particle struct {
	Position math.Vec3
	Velocity math.Vec3
	Color    voxel.Color
	Flags    uint32
}

// HasGravity reports whether FlagGravity is set.
func (p *Particle) HasGravity() bool {
	return p.Flags&FlagGravity != 0
}

// FromVolume emits one particle per occupied cell, in the same traversal
// order and at the same centred, scaled position the mesh extractor uses.
// Particles start at rest with no flags set.
func FromVolume(v *voxel.Volume, palette voxel.Palette, scale float32) ([]Particle, error) {
	out := make([]Particle, 0, v.Count())
	err := v.ForEachSolid(func(x, y, z, value int) error {
		color, err := palette.Color(value)
		if err != nil {
			return err
		}
		out = append(out, Particle{
			Position: v.CellCenter(x, y, z).Scale(scale),
			Color:    color,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
