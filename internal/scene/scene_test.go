package scene

import (
	"errors"
	gomath "math"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/voxelfx/internal/config"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/internal/particles"
	"github.com/Faultbox/voxelfx/pkg/formats"
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

type recordingSink struct {
	uploads []*voxel.Mesh
}

func (s *recordingSink) Upload(m *voxel.Mesh) {
	s.uploads = append(s.uploads, m)
}

func newTestScene(t *testing.T) (*Scene, *recordingSink, *particles.MemoryFactory) {
	t.Helper()
	cfg := config.Default()
	cfg.Physics.Workers = 1

	factory := &particles.MemoryFactory{}
	sink := &recordingSink{}
	s, err := New(cfg, factory.New, sink)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s, sink, factory
}

func TestSceneSetVolume(t *testing.T) {
	s, sink, factory := newTestScene(t)

	v := DemoVolume(8, 8)
	if err := s.SetVolume(v); err != nil {
		t.Fatalf("SetVolume failed: %v", err)
	}

	if len(sink.uploads) != 1 {
		t.Fatalf("expected 1 mesh upload, got %d", len(sink.uploads))
	}
	if s.Mesh().FaceCount() == 0 {
		t.Error("expected a non-empty mesh")
	}
	if got := len(s.Effect().Particles()); got != v.Count() {
		t.Errorf("expected %d particles, got %d", v.Count(), got)
	}
	if factory.Live() != particles.UnitsFor(v.Count()) {
		t.Errorf("expected %d units, got %d", particles.UnitsFor(v.Count()), factory.Live())
	}
	if s.Mode() != ModeIntact {
		t.Errorf("expected intact mode, got %s", s.Mode())
	}
}

func TestSceneSkipsUnchangedVolume(t *testing.T) {
	s, sink, _ := newTestScene(t)

	if err := s.SetVolume(DemoVolume(6, 4)); err != nil {
		t.Fatal(err)
	}
	if err := s.Explode(); err != nil {
		t.Fatal(err)
	}

	// Same content in a fresh volume: no rebuild, but back to intact
	if err := s.SetVolume(DemoVolume(6, 4)); err != nil {
		t.Fatal(err)
	}
	if len(sink.uploads) != 1 {
		t.Errorf("expected rebuild to be skipped, got %d uploads", len(sink.uploads))
	}
	if s.Mode() != ModeIntact {
		t.Errorf("expected intact mode after reload, got %s", s.Mode())
	}

	changed := DemoVolume(6, 4)
	_ = changed.Place(0, 0, 0, 3)
	if err := s.SetVolume(changed); err != nil {
		t.Fatal(err)
	}
	if len(sink.uploads) != 2 {
		t.Errorf("expected changed volume to rebuild, got %d uploads", len(sink.uploads))
	}
}

func TestSceneExplodeTickReset(t *testing.T) {
	s, _, _ := newTestScene(t)

	v := voxel.New(4, 4, 4, "block")
	v.Fill(1)
	if err := s.SetVolume(v); err != nil {
		t.Fatal(err)
	}

	// Updates while intact do nothing
	before := s.Effect().Particles()[0].Position
	if err := s.Update(0.05); err != nil {
		t.Fatal(err)
	}
	if s.Effect().Particles()[0].Position != before {
		t.Error("intact scene should not move particles")
	}

	if err := s.Explode(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != ModeShattered {
		t.Fatalf("expected shattered mode, got %s", s.Mode())
	}
	for i, p := range s.Effect().Particles() {
		if !p.HasGravity() {
			t.Fatalf("particle %d missing gravity flag", i)
		}
	}

	if err := s.Update(0.05); err != nil {
		t.Fatal(err)
	}
	if s.Effect().Particles()[0].Position == before {
		t.Error("shattered scene should move particles")
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != ModeIntact || s.Effect().Particles()[0].Position != before {
		t.Error("reset should restore intact particles")
	}
}

func TestSceneUpdateClampsStep(t *testing.T) {
	s, _, _ := newTestScene(t)

	v := voxel.New(1, 1, 1, "one")
	_ = v.Place(0, 0, 0, 0)
	if err := s.SetVolume(v); err != nil {
		t.Fatal(err)
	}
	if err := s.Slash(math.Up); err != nil {
		t.Fatal(err)
	}

	// Slash leaves gravity off: velocity is exactly the slash speed
	y0 := s.Effect().Particles()[0].Position.Y
	if err := s.Update(10); err != nil {
		t.Fatal(err)
	}
	dy := s.Effect().Particles()[0].Position.Y - y0
	want := float32(maxStep) * s.cfg.Effects.SlashSpeed
	if d := dy - want; d > 1e-5 || d < -1e-5 {
		t.Errorf("moved %v, want %v", dy, want)
	}
}

func TestSceneTurnKeepsMeshCentreFixed(t *testing.T) {
	s, _, _ := newTestScene(t)

	// Solid corner block so the mesh centre is away from the origin
	v := voxel.New(6, 6, 6, "corner")
	v.FillBox([3]int{0, 0, 0}, [3]int{1, 1, 1}, 0)
	if err := s.SetVolume(v); err != nil {
		t.Fatal(err)
	}
	c := s.pivot()
	if c.ApproxEqual(math.Vec3{}, 1e-3) {
		t.Fatalf("expected off-origin mesh centre, got %v", c)
	}

	s.Turn(gomath.Pi / 2)
	m := s.ModelMatrix()

	got := m.TransformPoint(c.Array())
	if !(math.Vec3{X: got[0], Y: got[1], Z: got[2]}).ApproxEqual(c, 1e-4) {
		t.Errorf("centre moved to %v, want %v", got, c)
	}

	// A quarter turn about +Y takes +X to -Z around the centre
	p := m.TransformPoint(c.Add(math.Right).Array())
	want := c.Add(math.Vec3{Z: -1})
	if !(math.Vec3{X: p[0], Y: p[1], Z: p[2]}).ApproxEqual(want, 1e-4) {
		t.Errorf("turned point = %v, want %v", p, want)
	}
}

func TestSceneSlashNormalFollowsTurn(t *testing.T) {
	s, _, _ := newTestScene(t)

	v := voxel.New(4, 4, 4, "block")
	v.Fill(1)
	if err := s.SetVolume(v); err != nil {
		t.Fatal(err)
	}
	s.Turn(gomath.Pi / 2)

	// World -Z is the volume's +X after the quarter turn
	if err := s.Slash(math.Vec3{Z: -1}); err != nil {
		t.Fatal(err)
	}
	speed := s.cfg.Effects.SlashSpeed
	for i, p := range s.Effect().Particles() {
		want := math.Vec3{X: speed}
		if p.Position.X < 0 {
			want = want.Negate()
		}
		if !p.Velocity.ApproxEqual(want, 1e-4) {
			t.Fatalf("particle %d at %v: velocity %v, want %v", i, p.Position, p.Velocity, want)
		}
	}
}

func TestSceneNewVolumeResetsOrientation(t *testing.T) {
	s, _, _ := newTestScene(t)

	if err := s.SetVolume(DemoVolume(4, 2)); err != nil {
		t.Fatal(err)
	}
	s.Turn(1)
	if s.Orientation() == math.QuatIdentity() {
		t.Fatal("Turn did not change orientation")
	}

	if err := s.SetVolume(DemoVolume(6, 2)); err != nil {
		t.Fatal(err)
	}
	if s.Orientation() != math.QuatIdentity() {
		t.Errorf("orientation = %v, want identity", s.Orientation())
	}
}

func TestSceneRejectsPaletteMiss(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	s, sink, _ := newTestScene(t)

	v := voxel.New(2, 2, 2, "bad")
	v.Fill(99)
	err := s.SetVolume(v)
	if !errors.Is(err, voxel.ErrPaletteIndex) {
		t.Fatalf("expected ErrPaletteIndex, got %v", err)
	}
	if s.Volume() != nil || len(sink.uploads) != 0 {
		t.Error("rejected volume must not be shown")
	}

	entries := logs.FilterMessage("volume rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["palette_miss"]; got != true {
		t.Errorf("palette_miss = %v, want true", got)
	}
}

func TestSceneActionsWithoutVolume(t *testing.T) {
	s, _, _ := newTestScene(t)

	if err := s.Explode(); err != nil {
		t.Errorf("Explode on empty scene: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Errorf("Reset on empty scene: %v", err)
	}
	if s.Mode() != ModeIntact {
		t.Errorf("expected intact mode, got %s", s.Mode())
	}
}

func TestLoadVolume(t *testing.T) {
	cfg := config.Default()
	cfg.Volume.DefaultSize = 5

	v, err := LoadVolume(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if v.Name() != "demo" || v.Size() != (voxel.Size{X: 5, Y: 5, Z: 5}) {
		t.Errorf("unexpected demo volume %q %s", v.Name(), v.Size())
	}

	path := filepath.Join(t.TempDir(), "box.vxz")
	box := voxel.New(2, 3, 4, "box")
	box.Fill(6)
	if err := formats.SaveVolume(path, box); err != nil {
		t.Fatal(err)
	}
	cfg.Volume.ModelPath = path
	v, err = LoadVolume(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if v.Checksum() != box.Checksum() {
		t.Error("loaded model differs from saved")
	}
}

func TestDemoVolumeLayers(t *testing.T) {
	v := DemoVolume(9, 3)
	_ = v.ForEachSolid(func(x, y, z, value int) error {
		if value != y%3 {
			t.Fatalf("cell (%d,%d,%d) = %d, want %d", x, y, z, value, y%3)
		}
		return nil
	})
	if v.Count() == 0 {
		t.Error("demo volume is empty")
	}
}
