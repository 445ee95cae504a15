package particles

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// Effect owns one destructible voxel object: its particle array, the unit
// pool rendering it, and the integrator moving it. The host calls Tick on
// its own schedule. An Effect is not safe for concurrent use.
type Effect struct {
	pool       *Pool
	integrator *Integrator
	palette    voxel.Palette
	scale      float32
	source     *voxel.Volume
	log        *zap.Logger
}

// EffectConfig configures an Effect. A zero Integrator takes
// DefaultIntegratorConfig.
type EffectConfig struct {
	Palette    voxel.Palette
	Scale      float32
	Integrator IntegratorConfig
}

// NewEffect creates an effect rendering through units from factory.
func NewEffect(factory UnitFactory, cfg EffectConfig) *Effect {
	if cfg.Palette == nil {
		cfg.Palette = voxel.DefaultPalette()
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}
	if cfg.Integrator == (IntegratorConfig{}) {
		cfg.Integrator = DefaultIntegratorConfig()
	}
	return &Effect{
		pool:       NewPool(factory),
		integrator: NewIntegrator(cfg.Integrator),
		palette:    cfg.Palette,
		scale:      cfg.Scale,
		log:        logger.Named("effect"),
	}
}

// Build converts the volume to particles at rest and loads them into the pool.
func (e *Effect) Build(v *voxel.Volume) error {
	ps, err := e.Convert(v)
	if err != nil {
		return err
	}
	return e.Load(v, ps)
}

// Convert turns v into particles with the effect's palette and scale without
// touching the pool. It is safe to call from another goroutine.
func (e *Effect) Convert(v *voxel.Volume) ([]Particle, error) {
	ps, err := FromVolume(v, e.palette, e.scale)
	if err != nil {
		return nil, fmt.Errorf("converting %q to particles: %w", v.Name(), err)
	}
	return ps, nil
}

// Load submits particles previously converted from v and records v as the
// source for Reset.
func (e *Effect) Load(v *voxel.Volume, ps []Particle) error {
	if err := e.pool.SetParticles(ps); err != nil {
		return err
	}
	e.source = v
	e.log.Info("effect built",
		zap.String("volume", v.Name()),
		zap.Stringer("size", v.Size()),
		zap.Int("particles", len(ps)),
		zap.Int("units", e.pool.UnitCount()),
	)
	return nil
}

// Reset rebuilds the particles from the last built volume.
func (e *Effect) Reset() error {
	if e.source == nil {
		return nil
	}
	return e.Build(e.source)
}

// Apply runs modifiers over the whole particle array and resubmits it.
func (e *Effect) Apply(mods ...Modifier) error {
	ps := Chain(mods).Modify(e.pool.Particles())
	return e.pool.SetParticles(ps)
}

// Tick integrates one step of dt seconds and resubmits the result.
func (e *Effect) Tick(dt float32) error {
	ps := e.pool.Particles()
	e.integrator.Step(ps, dt)
	return e.pool.SetParticles(ps)
}

// Source returns the volume the particles were last built from.
func (e *Effect) Source() *voxel.Volume {
	return e.source
}

// Particles returns the live particle array.
func (e *Effect) Particles() []Particle {
	return e.pool.Particles()
}

// Pool returns the unit pool.
func (e *Effect) Pool() *Pool {
	return e.pool
}

// Close releases every unit and stops the integrator.
func (e *Effect) Close() {
	e.pool.Close()
	e.integrator.Close()
}
