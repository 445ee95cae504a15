package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/engine/shader"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/internal/particles"
	"github.com/Faultbox/voxelfx/pkg/math"
)

// Particles are uploaded as-is; the vertex layout reads fields out of the
// particle struct.
var (
	particleStride         = int32(unsafe.Sizeof(particles.Particle{}))
	particlePositionOffset = unsafe.Offsetof(particles.Particle{}.Position)
	particleColorOffset    = unsafe.Offsetof(particles.Particle{}.Color)
)

// ParticleRenderer creates GPU-backed particle units and draws them.
type ParticleRenderer struct {
	program   *shader.Program
	units     []*ParticleUnit
	pointSize float32
	log       *zap.Logger
}

// NewParticleRenderer compiles the particle program. pointSize is the point
// diameter in pixels at a distance of one world unit.
func NewParticleRenderer(pointSize float32) (*ParticleRenderer, error) {
	program, err := shader.New(particleVertexShader, particleFragmentShader,
		"uViewProj", "uPointSize")
	if err != nil {
		return nil, err
	}
	return &ParticleRenderer{
		program:   program,
		pointSize: pointSize,
		log:       logger.Named("particle-renderer"),
	}, nil
}

// NewUnit allocates a unit with a vertex buffer sized for
// particles.UnitCapacity particles. It satisfies particles.UnitFactory.
func (r *ParticleRenderer) NewUnit() (particles.Unit, error) {
	u := &ParticleUnit{owner: r}

	gl.GenVertexArrays(1, &u.vao)
	gl.GenBuffers(1, &u.vbo)
	if u.vao == 0 || u.vbo == 0 {
		u.release()
		return nil, fmt.Errorf("allocating particle unit buffers")
	}

	gl.BindVertexArray(u.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, u.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, particles.UnitCapacity*int(particleStride), nil, gl.DYNAMIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, particleStride, particlePositionOffset)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, particleStride, particleColorOffset)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	r.units = append(r.units, u)
	r.log.Debug("particle unit created", zap.Uint32("vbo", u.vbo), zap.Int("live", len(r.units)))
	return u, nil
}

// Draw renders every live unit placed by model.
func (r *ParticleRenderer) Draw(viewProj, model math.Mat4) {
	if len(r.units) == 0 {
		return
	}

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetMat4("uModel", model)
	r.program.SetFloat("uPointSize", r.pointSize)

	for _, u := range r.units {
		if u.count == 0 {
			continue
		}
		gl.BindVertexArray(u.vao)
		gl.DrawArrays(gl.POINTS, 0, u.count)
	}
	gl.BindVertexArray(0)
}

// LiveUnits returns the number of units not yet destroyed.
func (r *ParticleRenderer) LiveUnits() int {
	return len(r.units)
}

// Close destroys remaining units and the program.
func (r *ParticleRenderer) Close() {
	for len(r.units) > 0 {
		r.units[len(r.units)-1].Destroy()
	}
	r.program.Delete()
}

func (r *ParticleRenderer) remove(u *ParticleUnit) {
	for i, other := range r.units {
		if other == u {
			r.units = append(r.units[:i], r.units[i+1:]...)
			return
		}
	}
}

// ParticleUnit is one vertex buffer holding up to particles.UnitCapacity
// particles drawn as points.
type ParticleUnit struct {
	owner     *ParticleRenderer
	vao       uint32
	vbo       uint32
	count     int32
	destroyed bool
}

// SetParticles uploads the first count particles of buf.
// It panics if count exceeds particles.UnitCapacity.
func (u *ParticleUnit) SetParticles(buf []particles.Particle, count int) {
	if count > particles.UnitCapacity {
		panic(fmt.Sprintf("render: unit asked to hold %d particles, capacity is %d", count, particles.UnitCapacity))
	}
	if u.destroyed {
		panic("render: SetParticles on destroyed unit")
	}

	u.count = int32(count)
	if count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, u.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*int(particleStride), unsafe.Pointer(&buf[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Destroy frees the unit's GPU buffers.
func (u *ParticleUnit) Destroy() {
	if u.destroyed {
		return
	}
	u.destroyed = true
	u.release()
	u.owner.remove(u)
}

func (u *ParticleUnit) release() {
	if u.vbo != 0 {
		gl.DeleteBuffers(1, &u.vbo)
		u.vbo = 0
	}
	if u.vao != 0 {
		gl.DeleteVertexArrays(1, &u.vao)
		u.vao = 0
	}
	u.count = 0
}
