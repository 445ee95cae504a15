package particles

import (
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/Faultbox/voxelfx/pkg/math"
)

// DefaultGravity is the downward acceleration applied to flagged particles.
const DefaultGravity = 9.8

// DefaultParallelThreshold is the particle count below which Step runs on
// the calling goroutine.
const DefaultParallelThreshold = 4 * UnitCapacity

// IntegratorConfig configures an Integrator. Zero fields take defaults,
// except Gravity, which is used as given (0 disables it).
type IntegratorConfig struct {
	Gravity           float32
	Up                math.Vec3
	Workers           int
	ParallelThreshold int
}

// DefaultIntegratorConfig returns earth-like gravity along -Y.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		Gravity:           DefaultGravity,
		Up:                math.Up,
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Integrator advances particles by explicit Euler steps. Large arrays are
// split into disjoint ranges and integrated on a worker pool; the result is
// identical to a serial pass.
type Integrator struct {
	gravity   float32
	up        math.Vec3
	threshold int
	workers   int
	pool      pond.Pool
}

// NewIntegrator creates an integrator. Call Close to stop its workers.
func NewIntegrator(cfg IntegratorConfig) *Integrator {
	if cfg.Up == (math.Vec3{}) {
		cfg.Up = math.Up
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = DefaultParallelThreshold
	}

	in := &Integrator{
		gravity:   cfg.Gravity,
		up:        cfg.Up.Normalize(),
		threshold: cfg.ParallelThreshold,
		workers:   cfg.Workers,
	}
	if in.workers > 1 {
		in.pool = pond.NewPool(in.workers)
	}
	return in
}

// Step advances every particle by dt:
//
//	position += velocity * dt
//	velocity -= up * gravity * dt   (FlagGravity only)
func (in *Integrator) Step(ps []Particle, dt float32) {
	fall := in.up.Scale(in.gravity * dt)

	if in.pool == nil || len(ps) < in.threshold {
		integrate(ps, dt, fall)
		return
	}

	chunk := (len(ps) + in.workers - 1) / in.workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(ps); lo += chunk {
		hi := min(lo+chunk, len(ps))
		part := ps[lo:hi]
		wg.Add(1)
		in.pool.Submit(func() {
			defer wg.Done()
			integrate(part, dt, fall)
		})
	}
	wg.Wait()
}

// Close stops the worker pool.
func (in *Integrator) Close() {
	if in.pool != nil {
		in.pool.StopAndWait()
		in.pool = nil
	}
}

func integrate(ps []Particle, dt float32, fall math.Vec3) {
	for i := range ps {
		p := &ps[i]
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		if p.Flags&FlagGravity != 0 {
			p.Velocity = p.Velocity.Sub(fall)
		}
	}
}
