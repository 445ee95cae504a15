package voxel

import (
	"fmt"

	"github.com/Faultbox/voxelfx/pkg/math"
)

// Mesh holds the extracted surface of a volume ready for GPU upload.
// Positions, Normals and Colors are parallel per-vertex arrays; Indices
// holds three entries per triangle.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Colors    []Color
	Indices   []uint32
	Bounds    Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FaceCount returns the number of emitted cube faces (quads).
func (m *Mesh) FaceCount() int {
	return len(m.Positions) / verticesPerFace
}

// Validate checks that the per-vertex arrays agree in length and that every
// index refers to an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n || len(m.Colors) != n {
		return fmt.Errorf("mesh arrays disagree: %d positions, %d normals, %d colors",
			n, len(m.Normals), len(m.Colors))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

const verticesPerFace = 4

// face describes one side of a cube: the neighbor that hides it, its normal,
// and the rotation that carries the back-face template onto it.
type face struct {
	dx, dy, dz int
	normal     math.Vec3
	rotation   math.Quat
}

// Sides in order -X, +X, -Y, +Y, -Z, +Z.
var faces = [6]face{
	{-1, 0, 0, math.Left, math.QuatFromEuler(0, 90, 0)},
	{1, 0, 0, math.Right, math.QuatFromEuler(0, -90, 0)},
	{0, -1, 0, math.Down, math.QuatFromEuler(-90, 0, 0)},
	{0, 1, 0, math.Up, math.QuatFromEuler(90, 0, 0)},
	{0, 0, -1, math.Back, math.QuatFromEuler(0, 0, 0)},
	{0, 0, 1, math.Forward, math.QuatFromEuler(0, 180, 0)},
}

// quadTemplate is the back (-Z) face of a unit cube centred on the origin.
var quadTemplate = [verticesPerFace]math.Vec3{
	{X: -0.5, Y: -0.5, Z: -0.5},
	{X: -0.5, Y: 0.5, Z: -0.5},
	{X: 0.5, Y: 0.5, Z: -0.5},
	{X: 0.5, Y: -0.5, Z: -0.5},
}

// quadIndices splits a quad into two triangles.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// faceCorners holds quadTemplate rotated onto each side.
var faceCorners = func() (out [6][verticesPerFace]math.Vec3) {
	for side, f := range faces {
		for i, p := range quadTemplate {
			out[side][i] = f.rotation.Rotate(p)
		}
	}
	return out
}()

// BuildMesh extracts a face-culled mesh from the volume. Each occupied cell
// contributes one quad for every side whose neighbor is empty (cells outside
// the volume count as empty). Vertices are centred on the volume and
// multiplied by scale. Material indices missing from the palette fail the
// build with ErrPaletteIndex.
func BuildMesh(v *Volume, palette Palette, scale float32) (*Mesh, error) {
	mesh := &Mesh{
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
	}

	err := v.ForEachSolid(func(x, y, z, value int) error {
		color, err := palette.Color(value)
		if err != nil {
			return fmt.Errorf("cell (%d,%d,%d): %w", x, y, z, err)
		}
		center := v.CellCenter(x, y, z)

		for side, f := range faces {
			if v.IsSolid(x+f.dx, y+f.dy, z+f.dz) {
				continue
			}

			base := uint32(len(mesh.Positions))
			for _, t := range quadIndices {
				mesh.Indices = append(mesh.Indices, base+t)
			}

			normal := f.normal.Array()
			for _, corner := range faceCorners[side] {
				p := corner.Add(center).Scale(scale).Array()
				mesh.Positions = append(mesh.Positions, p)
				mesh.Normals = append(mesh.Normals, normal)
				mesh.Colors = append(mesh.Colors, color)
				updateBounds(&mesh.Bounds, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(mesh.Positions) == 0 {
		mesh.Bounds = Bounds{}
	}
	return mesh, nil
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
