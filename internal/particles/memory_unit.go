package particles

import "fmt"

// MemoryUnit is a headless Unit that keeps a copy of what it was given.
type MemoryUnit struct {
	ID          int
	Particles   []Particle
	Submissions int
	Destroyed   bool
}

// SetParticles copies the live part of buf.
func (u *MemoryUnit) SetParticles(buf []Particle, count int) {
	if count > UnitCapacity || count > len(buf) {
		panic(fmt.Sprintf("particles: unit %d given %d particles (capacity %d, buffer %d)",
			u.ID, count, UnitCapacity, len(buf)))
	}
	if u.Destroyed {
		panic(fmt.Sprintf("particles: unit %d used after Destroy", u.ID))
	}
	u.Particles = append(u.Particles[:0], buf[:count]...)
	u.Submissions++
}

// Destroy marks the unit dead and drops its particles.
func (u *MemoryUnit) Destroy() {
	u.Destroyed = true
	u.Particles = nil
}

// MemoryFactory hands out MemoryUnits and remembers every one it created.
type MemoryFactory struct {
	Created []*MemoryUnit
}

// New returns a fresh MemoryUnit. Its signature matches UnitFactory.
func (f *MemoryFactory) New() (Unit, error) {
	u := &MemoryUnit{ID: len(f.Created)}
	f.Created = append(f.Created, u)
	return u, nil
}

// Live returns how many created units have not been destroyed.
func (f *MemoryFactory) Live() int {
	n := 0
	for _, u := range f.Created {
		if !u.Destroyed {
			n++
		}
	}
	return n
}
