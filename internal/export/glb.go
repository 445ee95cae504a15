// Package export writes meshes and particle state to interchange formats.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// ErrEmptyMesh is returned when a mesh has no faces to export.
var ErrEmptyMesh = errors.New("mesh has no faces")

// Generator is stored in the asset block of exported documents.
const Generator = "voxelfx"

// EncodeGLB builds a glTF document holding a single mesh primitive with
// POSITION, NORMAL, COLOR_0 and indices.
func EncodeGLB(mesh *voxel.Mesh, name string) (*gltf.Document, error) {
	if mesh.FaceCount() == 0 {
		return nil, ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh: %w", err)
	}

	colors := make([][4]float32, len(mesh.Colors))
	hasAlpha := false
	for i, c := range mesh.Colors {
		colors[i] = c
		if c[3] < 1 {
			hasAlpha = true
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator

	posAccessor := modeler.WritePosition(doc, mesh.Positions)
	normalAccessor := modeler.WriteNormal(doc, mesh.Normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, mesh.Indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}

	material := &gltf.Material{
		Name: "voxel",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}

	if name == "" {
		name = "VoxelMesh"
	}
	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return doc, nil
}

// MarshalGLB encodes a mesh as binary glTF.
func MarshalGLB(mesh *voxel.Mesh, name string) ([]byte, error) {
	doc, err := EncodeGLB(mesh, name)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding GLB: %w", err)
	}
	return out.Bytes(), nil
}

// WriteGLB writes a mesh to a .glb file, creating parent directories.
func WriteGLB(mesh *voxel.Mesh, name, path string) error {
	doc, err := EncodeGLB(mesh, name)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
