// Package scene holds the viewer state that does not depend on a window:
// the current volume, its mesh, and the particle effect built from it.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/config"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/internal/particles"
	"github.com/Faultbox/voxelfx/pkg/formats"
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// maxStep is the longest integration step Update takes, in seconds.
const maxStep = 0.1

// Mode is what the scene currently shows.
type Mode int

const (
	ModeIntact    Mode = iota // the extracted mesh
	ModeShattered             // the particle effect
)

func (m Mode) String() string {
	if m == ModeShattered {
		return "shattered"
	}
	return "intact"
}

// MeshSink receives every newly extracted mesh.
type MeshSink interface {
	Upload(m *voxel.Mesh)
}

// Scene is the viewer state independent of any window: one volume, its
// mesh, and the particle effect built from it.
type Scene struct {
	cfg      *config.Config
	palette  voxel.Palette
	effect   *particles.Effect
	sink     MeshSink
	volume   *voxel.Volume
	mesh     *voxel.Mesh
	checksum uint64
	mode     Mode
	// orientation turns mesh and particles about the mesh centre.
	orientation math.Quat
	log         *zap.Logger
}

// New creates an empty scene whose particles render through factory.
func New(cfg *config.Config, factory particles.UnitFactory, sink MeshSink) (*Scene, error) {
	palette, err := cfg.VoxelPalette()
	if err != nil {
		return nil, err
	}
	effect := particles.NewEffect(factory, particles.EffectConfig{
		Palette:    palette,
		Scale:      cfg.Volume.Scale,
		Integrator: cfg.Integrator(),
	})
	return &Scene{
		cfg:         cfg,
		palette:     palette,
		effect:      effect,
		sink:        sink,
		orientation: math.QuatIdentity(),
		log:         logger.Named("scene"),
	}, nil
}

// SetVolume shows v. Mesh extraction and particle conversion run
// concurrently; both are skipped when v's content matches the current
// volume. The scene returns to ModeIntact either way.
func (s *Scene) SetVolume(v *voxel.Volume) error {
	sum := v.Checksum()
	if s.volume != nil && sum == s.checksum {
		s.log.Debug("volume unchanged, skipping rebuild", zap.String("volume", v.Name()))
		return s.Reset()
	}

	var (
		wg      sync.WaitGroup
		mesh    *voxel.Mesh
		ps      []particles.Particle
		meshErr error
		convErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		mesh, meshErr = voxel.BuildMesh(v, s.palette, s.cfg.Volume.Scale)
	}()
	go func() {
		defer wg.Done()
		ps, convErr = s.effect.Convert(v)
	}()
	wg.Wait()

	if err := errors.Join(meshErr, convErr); err != nil {
		s.log.Warn("volume rejected",
			zap.String("volume", v.Name()),
			zap.Bool("palette_miss", errors.Is(err, voxel.ErrPaletteIndex)),
			zap.Error(err),
		)
		if meshErr != nil {
			return fmt.Errorf("building mesh for %q: %w", v.Name(), meshErr)
		}
		return convErr
	}

	if err := s.effect.Load(v, ps); err != nil {
		return err
	}
	if s.sink != nil {
		s.sink.Upload(mesh)
	}

	s.volume = v
	s.mesh = mesh
	s.checksum = sum
	s.mode = ModeIntact
	s.orientation = math.QuatIdentity()

	s.log.Info("volume loaded",
		zap.String("volume", v.Name()),
		zap.Stringer("size", v.Size()),
		zap.Int("faces", mesh.FaceCount()),
		zap.Int("particles", len(ps)),
		zap.Uint64("checksum", sum),
	)
	return nil
}

// Explode blows the volume apart from its centre.
func (s *Scene) Explode() error {
	return s.apply(s.cfg.Explode(math.Vec3{}))
}

// Slash cuts the volume through its centre along the plane with the given
// world-space normal.
func (s *Scene) Slash(normal math.Vec3) error {
	local := s.orientation.Conjugate().Rotate(normal.Normalize())
	return s.apply(s.cfg.Slash(math.Vec3{}, local))
}

// Turn spins the volume about the vertical axis through its mesh centre.
// angle is in radians.
func (s *Scene) Turn(angle float32) {
	s.orientation = math.QuatFromAxisAngle(math.Up, angle).Mul(s.orientation).Normalize()
}

// Orientation returns the current volume rotation.
func (s *Scene) Orientation() math.Quat {
	return s.orientation
}

// ModelMatrix maps mesh and particle coordinates to world space.
func (s *Scene) ModelMatrix() math.Mat4 {
	c := s.pivot()
	return math.Translate(c.X, c.Y, c.Z).
		Mul(s.orientation.ToMat4()).
		Mul(math.Translate(-c.X, -c.Y, -c.Z))
}

func (s *Scene) pivot() math.Vec3 {
	if s.mesh == nil {
		return math.Vec3{}
	}
	b := s.mesh.Bounds
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

func (s *Scene) apply(m particles.Modifier) error {
	if s.volume == nil {
		return nil
	}
	if err := s.effect.Apply(m); err != nil {
		return err
	}
	if s.mode != ModeShattered {
		s.log.Debug("scene shattered", zap.Int("particles", len(s.effect.Particles())))
	}
	s.mode = ModeShattered
	return nil
}

// Reset restores the particles to the intact volume.
func (s *Scene) Reset() error {
	if err := s.effect.Reset(); err != nil {
		return err
	}
	s.mode = ModeIntact
	return nil
}

// Update advances the particles while shattered. dt is in seconds.
func (s *Scene) Update(dt float64) error {
	if s.mode != ModeShattered {
		return nil
	}
	if dt > maxStep {
		dt = maxStep
	}
	return s.effect.Tick(float32(dt))
}

// Mode returns what the scene shows.
func (s *Scene) Mode() Mode {
	return s.mode
}

// Mesh returns the mesh of the current volume.
func (s *Scene) Mesh() *voxel.Mesh {
	return s.mesh
}

// Volume returns the current volume.
func (s *Scene) Volume() *voxel.Volume {
	return s.volume
}

// Effect returns the particle effect.
func (s *Scene) Effect() *particles.Effect {
	return s.effect
}

// Close releases the particle units.
func (s *Scene) Close() {
	s.effect.Close()
}

// LoadVolume returns the configured model, or a layered demo sphere when no
// model path is set.
func LoadVolume(cfg *config.Config) (*voxel.Volume, error) {
	if cfg.Volume.ModelPath != "" {
		return formats.LoadVolume(cfg.Volume.ModelPath)
	}
	palette, err := cfg.VoxelPalette()
	if err != nil {
		return nil, err
	}
	return DemoVolume(cfg.Volume.DefaultSize, len(palette)), nil
}

// DemoVolume is a sphere of edge n whose horizontal layers cycle through
// the first colors palette entries.
func DemoVolume(n, colors int) *voxel.Volume {
	v := voxel.New(n, n, n, "demo")
	v.FillSphere(0)
	if colors <= 1 {
		return v
	}
	_ = v.ForEachSolid(func(x, y, z, _ int) error {
		return v.Place(x, y, z, y%colors)
	})
	return v
}
