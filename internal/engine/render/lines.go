package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/voxelfx/internal/engine/shader"
	"github.com/Faultbox/voxelfx/pkg/math"
)

// LineRenderer draws a single-color line list, used for debug wireframes.
type LineRenderer struct {
	program     *shader.Program
	vao         uint32
	vbo         uint32
	vertexCount int32
	Color       math.Vec3
}

// NewLineRenderer compiles the line program and allocates its buffer.
func NewLineRenderer(color math.Vec3) (*LineRenderer, error) {
	program, err := shader.New(lineVertexShader, lineFragmentShader, "uViewProj", "uColor")
	if err != nil {
		return nil, err
	}

	r := &LineRenderer{program: program, Color: color}
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return r, nil
}

// Upload replaces the line vertices, three floats per vertex.
func (r *LineRenderer) Upload(vertices []float32) {
	r.vertexCount = int32(len(vertices) / 3)
	if r.vertexCount == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders the uploaded lines.
func (r *LineRenderer) Draw(viewProj, model math.Mat4) {
	if r.vertexCount == 0 {
		return
	}
	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetMat4("uModel", model)
	r.program.SetVec3("uColor", r.Color)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.LINES, 0, r.vertexCount)
	gl.BindVertexArray(0)
}

// Close releases GPU resources.
func (r *LineRenderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	r.program.Delete()
}
