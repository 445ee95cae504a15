package particles

import (
	"errors"
	"testing"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

func TestFromVolumeMatchesMeshCentres(t *testing.T) {
	v := voxel.New(3, 2, 2, "blocks")
	_ = v.Place(0, 0, 0, 0)
	_ = v.Place(2, 1, 0, 1)
	_ = v.Place(1, 0, 1, 2)

	ps, err := FromVolume(v, voxel.DefaultPalette(), 2)
	if err != nil {
		t.Fatalf("FromVolume failed: %v", err)
	}
	if len(ps) != 3 {
		t.Fatalf("expected 3 particles, got %d", len(ps))
	}

	// x-major traversal: (0,0,0), (1,0,1), (2,1,0)
	wantCells := [][3]int{{0, 0, 0}, {1, 0, 1}, {2, 1, 0}}
	wantColors := []int{0, 2, 1}
	pal := voxel.DefaultPalette()
	for i, c := range wantCells {
		want := v.CellCenter(c[0], c[1], c[2]).Scale(2)
		if ps[i].Position != want {
			t.Errorf("particle %d at %v, want %v", i, ps[i].Position, want)
		}
		if ps[i].Color != pal[wantColors[i]] {
			t.Errorf("particle %d color %v, want %v", i, ps[i].Color, pal[wantColors[i]])
		}
		if ps[i].Velocity.LengthSquared() != 0 {
			t.Errorf("particle %d should start at rest, velocity %v", i, ps[i].Velocity)
		}
		if ps[i].HasGravity() {
			t.Errorf("particle %d should start without gravity", i)
		}
	}
}

// Each particle sits at the centre of the cube the mesh extractor builds for
// the same cell.
func TestFromVolumeAgreesWithBuildMesh(t *testing.T) {
	v := voxel.New(4, 4, 4, "sparse")
	_ = v.Place(0, 3, 1, 4)

	mesh, err := voxel.BuildMesh(v, voxel.DefaultPalette(), 0.5)
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	ps, err := FromVolume(v, voxel.DefaultPalette(), 0.5)
	if err != nil {
		t.Fatalf("FromVolume failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		mid := (mesh.Bounds.Min[i] + mesh.Bounds.Max[i]) / 2
		got := [3]float32{ps[0].Position.X, ps[0].Position.Y, ps[0].Position.Z}[i]
		if d := mid - got; d > 1e-5 || d < -1e-5 {
			t.Errorf("axis %d: mesh centre %v, particle %v", i, mid, got)
		}
	}
}

func TestFromVolumePaletteMiss(t *testing.T) {
	v := voxel.New(1, 1, 1, "bad")
	_ = v.Place(0, 0, 0, 99)

	ps, err := FromVolume(v, voxel.DefaultPalette(), 1)
	if !errors.Is(err, voxel.ErrPaletteIndex) {
		t.Errorf("expected ErrPaletteIndex, got %v", err)
	}
	if ps != nil {
		t.Error("expected nil particles on error")
	}
}
