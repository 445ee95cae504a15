package particles

import (
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/pkg/math"
)

// DefaultMinDistance is the distance Explode clamps to when a particle sits
// on or next to the explosion centre.
const DefaultMinDistance = 1e-4

// Modifier rewrites particle velocities (and possibly positions) in place
// and returns the same slice.
type Modifier interface {
	Modify(ps []Particle) []Particle
}

// ModifierFunc adapts a function to Modifier.
type ModifierFunc func(ps []Particle) []Particle

// Modify calls f.
func (f ModifierFunc) Modify(ps []Particle) []Particle {
	return f(ps)
}

// Explode pushes every particle radially away from Center.
//
// With Uniform set each particle moves at Speed. Otherwise the speed falls
// off with the square of the distance: Speed / d². Distances below
// MinDistance (DefaultMinDistance when zero) are clamped, and a particle
// exactly on the centre is sent straight up. Every particle gains
// FlagGravity.
type Explode struct {
	Center      math.Vec3
	Speed       float32
	Uniform     bool
	MinDistance float32
}

// Modify applies the explosion.
func (e Explode) Modify(ps []Particle) []Particle {
	minDist := e.MinDistance
	if minDist <= 0 {
		minDist = DefaultMinDistance
	}

	degenerate := 0
	for i := range ps {
		offset := ps[i].Position.Sub(e.Center)
		dist := offset.Length()
		if dist < minDist {
			degenerate++
		}

		dir := math.Up
		if dist > 0 {
			dir = offset.Scale(1 / dist)
		}

		speed := e.Speed
		if !e.Uniform {
			if dist < minDist {
				dist = minDist
			}
			speed = e.Speed / (dist * dist)
		}

		ps[i].Velocity = dir.Scale(speed)
		ps[i].Flags |= FlagGravity
	}

	if degenerate > 0 {
		logger.Named("explode").Debug("particles at explosion centre",
			zap.Int("count", degenerate),
			zap.Float32("min_distance", minDist),
			zap.Bool("uniform", e.Uniform),
		)
	}
	return ps
}

// Slash splits particles along the plane through Center with unit Normal.
// Particles on the positive side (including the plane itself) are pushed
// Displacement along Normal and given velocity Normal*Speed; particles on
// the other side get the mirror image. Flags are left untouched.
type Slash struct {
	Center       math.Vec3
	Normal       math.Vec3
	Speed        float32
	Displacement float32
}

// Modify applies the cut.
func (s Slash) Modify(ps []Particle) []Particle {
	push := s.Normal.Scale(s.Displacement)
	vel := s.Normal.Scale(s.Speed)

	for i := range ps {
		if ps[i].Position.Sub(s.Center).Dot(s.Normal) >= 0 {
			ps[i].Position = ps[i].Position.Add(push)
			ps[i].Velocity = vel
		} else {
			ps[i].Position = ps[i].Position.Sub(push)
			ps[i].Velocity = vel.Negate()
		}
	}
	return ps
}

// Chain applies modifiers in order.
type Chain []Modifier

// Modify runs every modifier over ps.
func (c Chain) Modify(ps []Particle) []Particle {
	for _, m := range c {
		ps = m.Modify(ps)
	}
	return ps
}
