package particles

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/logger"
)

// UnitCapacity is the most particles one rendering unit holds. A unit's
// backing mesh is capped at 65535 vertices and a voxel particle costs 24.
const UnitCapacity = 65535 / 24

// Unit is a bounded-capacity rendering sink.
//
// SetParticles receives a transfer buffer and the number of live entries at
// its front. The buffer is reused for the next unit, so implementations must
// copy what they keep before returning. A count above UnitCapacity is a
// programming error and implementations panic on it.
type Unit interface {
	SetParticles(buf []Particle, count int)
	Destroy()
}

// UnitFactory creates a new rendering unit.
type UnitFactory func() (Unit, error)

// Pool spreads a particle array over as few units as capacity allows.
// Unit i always holds particles [i*UnitCapacity, i*UnitCapacity+n_i).
// Existing units are reused across calls; surplus units are destroyed.
type Pool struct {
	factory   UnitFactory
	units     []Unit
	particles []Particle
	buffer    []Particle
	log       *zap.Logger
}

// NewPool creates an empty pool that allocates units through factory.
func NewPool(factory UnitFactory) *Pool {
	return &Pool{
		factory: factory,
		buffer:  make([]Particle, UnitCapacity),
		log:     logger.Named("pool"),
	}
}

// UnitsFor returns how many units n particles need.
func UnitsFor(n int) int {
	return (n + UnitCapacity - 1) / UnitCapacity
}

// SetParticles makes ps the pool's particle state and pushes it to the units,
// growing or shrinking the unit list as needed. The pool keeps ps without
// copying; callers hand over ownership.
//
// If the factory fails, units created during this call are destroyed and the
// pool is left as it was.
func (p *Pool) SetParticles(ps []Particle) error {
	required := UnitsFor(len(ps))
	previous := len(p.units)

	if required > previous {
		created := make([]Unit, 0, required-previous)
		for i := previous; i < required; i++ {
			u, err := p.factory()
			if err != nil {
				for _, c := range created {
					c.Destroy()
				}
				return fmt.Errorf("creating particle unit %d: %w", i, err)
			}
			created = append(created, u)
		}
		p.units = append(p.units, created...)
		p.log.Debug("particle units grown",
			zap.Int("from", previous),
			zap.Int("to", required),
			zap.Int("particles", len(ps)),
		)
	}

	for i := 0; i < required; i++ {
		offset := i * UnitCapacity
		remaining := min(UnitCapacity, len(ps)-offset)
		copy(p.buffer, ps[offset:offset+remaining])
		p.units[i].SetParticles(p.buffer, remaining)
	}

	if required < previous {
		for i := required; i < previous; i++ {
			p.units[i].Destroy()
			p.units[i] = nil
		}
		p.units = p.units[:required]
		p.log.Debug("particle units released",
			zap.Int("from", previous),
			zap.Int("to", required),
			zap.Int("particles", len(ps)),
		)
	}

	p.particles = ps
	return nil
}

// Particles returns the current particle state. The slice is shared with the
// pool; modify it and pass it back through SetParticles.
func (p *Pool) Particles() []Particle {
	return p.particles
}

// Len returns the number of particles.
func (p *Pool) Len() int {
	return len(p.particles)
}

// UnitCount returns the number of live units.
func (p *Pool) UnitCount() int {
	return len(p.units)
}

// Units returns the live unit handles in slot order.
func (p *Pool) Units() []Unit {
	out := make([]Unit, len(p.units))
	copy(out, p.units)
	return out
}

// Close destroys every unit and drops the particle state.
func (p *Pool) Close() {
	for i, u := range p.units {
		u.Destroy()
		p.units[i] = nil
	}
	p.units = nil
	p.particles = nil
}
