package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/Faultbox/voxelfx/internal/particles"
)

// ParticleRecord is one CSV row of particle state.
type ParticleRecord struct {
	Index   int     `csv:"index"`
	PosX    float32 `csv:"pos_x"`
	PosY    float32 `csv:"pos_y"`
	PosZ    float32 `csv:"pos_z"`
	VelX    float32 `csv:"vel_x"`
	VelY    float32 `csv:"vel_y"`
	VelZ    float32 `csv:"vel_z"`
	Color   string  `csv:"color"`
	Gravity bool    `csv:"gravity"`
}

// ParticleRecords converts particles to CSV rows.
func ParticleRecords(ps []particles.Particle) []*ParticleRecord {
	records := make([]*ParticleRecord, len(ps))
	for i := range ps {
		p := &ps[i]
		records[i] = &ParticleRecord{
			Index:   i,
			PosX:    p.Position.X,
			PosY:    p.Position.Y,
			PosZ:    p.Position.Z,
			VelX:    p.Velocity.X,
			VelY:    p.Velocity.Y,
			VelZ:    p.Velocity.Z,
			Color:   p.Color.Hex(),
			Gravity: p.HasGravity(),
		}
	}
	return records
}

// WriteParticlesCSV writes one row per particle with a header line.
func WriteParticlesCSV(w io.Writer, ps []particles.Particle) error {
	if err := gocsv.Marshal(ParticleRecords(ps), w); err != nil {
		return fmt.Errorf("writing particle csv: %w", err)
	}
	return nil
}
