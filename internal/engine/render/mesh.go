package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/engine/lighting"
	"github.com/Faultbox/voxelfx/internal/engine/shader"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// meshStride is the number of floats per interleaved vertex:
// position (3), normal (3), color (4).
const meshStride = 10

// InterleaveMesh packs a mesh into the vertex layout MeshRenderer uploads.
func InterleaveMesh(m *voxel.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*meshStride)
	for i := range m.Positions {
		p, n, c := m.Positions[i], m.Normals[i], m.Colors[i]
		out = append(out,
			p[0], p[1], p[2],
			n[0], n[1], n[2],
			c[0], c[1], c[2], c[3],
		)
	}
	return out
}

// MeshRenderer holds one uploaded voxel mesh.
type MeshRenderer struct {
	program    *shader.Program
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	log        *zap.Logger
}

// NewMeshRenderer compiles the mesh program and allocates GPU buffers.
func NewMeshRenderer() (*MeshRenderer, error) {
	program, err := shader.New(meshVertexShader, meshFragmentShader,
		"uViewProj", "uLightDir", "uLightColor", "uAmbient")
	if err != nil {
		return nil, err
	}

	r := &MeshRenderer{program: program, log: logger.Named("mesh-renderer")}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	stride := int32(meshStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return r, nil
}

// Upload replaces the GPU copy of the mesh.
func (r *MeshRenderer) Upload(m *voxel.Mesh) {
	r.indexCount = int32(len(m.Indices))
	if r.indexCount == 0 {
		return
	}

	vertices := InterleaveMesh(m)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	r.log.Debug("mesh uploaded",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
}

// Draw renders the uploaded mesh placed by model. model must not scale
// non-uniformly; normals go through its upper 3x3.
func (r *MeshRenderer) Draw(viewProj, model math.Mat4, sun lighting.Sun) {
	if r.indexCount == 0 {
		return
	}

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetMat4("uModel", model)
	r.program.SetVec3("uLightDir", sun.Direction)
	r.program.SetVec3("uLightColor", sun.Color)
	r.program.SetFloat("uAmbient", sun.Ambient)

	gl.BindVertexArray(r.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// Close releases GPU resources.
func (r *MeshRenderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	r.program.Delete()
}
