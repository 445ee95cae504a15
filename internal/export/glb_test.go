package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

func buildMesh(t *testing.T, v *voxel.Volume) *voxel.Mesh {
	t.Helper()
	mesh, err := voxel.BuildMesh(v, voxel.DefaultPalette(), 1)
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}
	return mesh
}

func TestEncodeGLB(t *testing.T) {
	v := voxel.New(1, 1, 1, "cube")
	_ = v.Place(0, 0, 0, 2)
	mesh := buildMesh(t, v)

	doc, err := EncodeGLB(mesh, "cube")
	if err != nil {
		t.Fatalf("EncodeGLB failed: %v", err)
	}

	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("expected one mesh with one primitive")
	}
	prim := doc.Meshes[0].Primitives[0]

	tests := []struct {
		attr string
		want uint32
	}{
		{gltf.POSITION, 24},
		{gltf.NORMAL, 24},
		{gltf.COLOR_0, 24},
	}
	for _, tt := range tests {
		idx, ok := prim.Attributes[tt.attr]
		if !ok {
			t.Errorf("missing attribute %s", tt.attr)
			continue
		}
		if got := doc.Accessors[idx].Count; got != tt.want {
			t.Errorf("%s count = %d, want %d", tt.attr, got, tt.want)
		}
	}
	if prim.Indices == nil {
		t.Fatal("missing indices")
	}
	if got := doc.Accessors[*prim.Indices].Count; got != 36 {
		t.Errorf("index count = %d, want 36", got)
	}
	if doc.Materials[0].AlphaMode != gltf.AlphaOpaque {
		t.Errorf("expected opaque material")
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("expected one scene node")
	}
}

func TestEncodeGLBEmpty(t *testing.T) {
	mesh := buildMesh(t, voxel.New(2, 2, 2, "empty"))
	if _, err := EncodeGLB(mesh, ""); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestMarshalGLB(t *testing.T) {
	v := voxel.New(2, 1, 1, "pair")
	v.Fill(0)
	mesh := buildMesh(t, v)

	data, err := MarshalGLB(mesh, "pair")
	if err != nil {
		t.Fatalf("MarshalGLB failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Fatalf("missing GLB magic")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		t.Fatalf("decoding GLB: %v", err)
	}
	if doc.Meshes[0].Name != "pair" {
		t.Errorf("mesh name = %q", doc.Meshes[0].Name)
	}
	pos := doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION]
	if got := doc.Accessors[pos].Count; got != uint32(mesh.VertexCount()) {
		t.Errorf("position count = %d, want %d", got, mesh.VertexCount())
	}
}

func TestWriteGLB(t *testing.T) {
	v := voxel.New(3, 3, 3, "ball")
	v.FillSphere(5)
	mesh := buildMesh(t, v)

	path := filepath.Join(t.TempDir(), "out", "ball.glb")
	if err := WriteGLB(mesh, "ball", path); err != nil {
		t.Fatalf("WriteGLB failed: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("gltf.Open failed: %v", err)
	}
	if doc.Asset.Generator != Generator {
		t.Errorf("generator = %q", doc.Asset.Generator)
	}
}
