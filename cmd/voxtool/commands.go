package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/config"
	"github.com/Faultbox/voxelfx/internal/export"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/internal/particles"
	"github.com/Faultbox/voxelfx/pkg/formats"
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// command runs one subcommand, writing its report to out.
type command func(cfg *config.Config, args []string, out io.Writer) error

var commands = map[string]command{
	"info":      cmdInfo,
	"gen":       cmdGen,
	"glb":       cmdGLB,
	"particles": cmdParticles,
	"convert":   cmdConvert,
}

var errUsage = errors.New("invalid arguments")

func usageError(usage string) error {
	return fmt.Errorf("%w\nUsage: voxtool %s", errUsage, usage)
}

func cmdInfo(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return usageError("info <model>")
	}

	v, err := formats.LoadVolume(args[0])
	if err != nil {
		return err
	}
	palette, err := cfg.VoxelPalette()
	if err != nil {
		return err
	}
	mesh, err := voxel.BuildMesh(v, palette, cfg.Volume.Scale)
	if err != nil {
		return err
	}

	solid := v.Count()
	fmt.Fprintf(out, "Volume:    %s\n", v.Name())
	fmt.Fprintf(out, "Size:      %s (%d cells)\n", v.Size(), v.Len())
	fmt.Fprintf(out, "Solid:     %d\n", solid)
	fmt.Fprintf(out, "Checksum:  %016x\n", v.Checksum())
	fmt.Fprintf(out, "Faces:     %d\n", mesh.FaceCount())
	fmt.Fprintf(out, "Vertices:  %d\n", mesh.VertexCount())
	fmt.Fprintf(out, "Triangles: %d\n", mesh.TriangleCount())
	fmt.Fprintf(out, "Units:     %d (capacity %d)\n", particles.UnitsFor(solid), particles.UnitCapacity)

	// Count by value
	counts := make(map[int]int)
	_ = v.ForEachSolid(func(_, _, _, value int) error {
		counts[value]++
		return nil
	})
	if len(counts) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Cells by value:")
		values := make([]int, 0, len(counts))
		for value := range counts {
			values = append(values, value)
		}
		sort.Ints(values)
		for _, value := range values {
			n := counts[value]
			label := "(not in palette)"
			if c, err := palette.Color(value); err == nil {
				label = c.Hex()
			}
			fmt.Fprintf(out, "  %-4d %-18s %d\n", value, label, n)
		}
	}
	return nil
}

func cmdGen(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	shape := fs.String("shape", "sphere", "Shape: box or sphere")
	size := fs.Int("size", cfg.Volume.DefaultSize, "Edge length in cells")
	value := fs.Int("value", 0, "Palette index of solid cells")
	layers := fs.Bool("layers", false, "Cycle palette colors per horizontal layer")
	name := fs.String("name", "", "Volume name (defaults to the shape)")
	if err := fs.Parse(args); err != nil {
		return usageError("gen [-shape box|sphere] [-size n] [-value v] [-layers] [-name s] <output>")
	}
	if fs.NArg() < 1 || *size < 0 {
		return usageError("gen [-shape box|sphere] [-size n] [-value v] [-layers] [-name s] <output>")
	}

	if *name == "" {
		*name = *shape
	}
	v := voxel.New(*size, *size, *size, *name)
	switch *shape {
	case "box":
		v.Fill(*value)
	case "sphere":
		v.FillSphere(*value)
	default:
		return fmt.Errorf("unknown shape %q", *shape)
	}

	if *layers {
		palette, err := cfg.VoxelPalette()
		if err != nil {
			return err
		}
		_ = v.ForEachSolid(func(x, y, z, _ int) error {
			return v.Place(x, y, z, y%len(palette))
		})
	}

	if err := formats.SaveVolume(fs.Arg(0), v); err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated: %s (%s, %d solid)\n", fs.Arg(0), v.Size(), v.Count())
	return nil
}

func cmdGLB(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("glb", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	scale := fs.Float64("scale", float64(cfg.Volume.Scale), "World size of one voxel")
	if err := fs.Parse(args); err != nil || fs.NArg() < 2 {
		return usageError("glb [-scale s] <model> <out.glb>")
	}

	v, err := formats.LoadVolume(fs.Arg(0))
	if err != nil {
		return err
	}
	palette, err := cfg.VoxelPalette()
	if err != nil {
		return err
	}
	mesh, err := voxel.BuildMesh(v, palette, float32(*scale))
	if err != nil {
		return err
	}
	if err := export.WriteGLB(mesh, v.Name(), fs.Arg(1)); err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported: %s (%d faces, %d triangles)\n", fs.Arg(1), mesh.FaceCount(), mesh.TriangleCount())
	return nil
}

func cmdParticles(cfg *config.Config, args []string, out io.Writer) error {
	const usage = "particles [-effect none|explode|slash] [-ticks n] [-dt s] [-o out.csv] <model>"

	fs := flag.NewFlagSet("particles", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	effectName := fs.String("effect", "explode", "Effect: none, explode or slash")
	ticks := fs.Int("ticks", 0, "Integration steps after the effect")
	dt := fs.Float64("dt", 1.0/60, "Seconds per step")
	output := fs.String("o", "", "CSV output file (default stdout)")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 || *ticks < 0 {
		return usageError(usage)
	}

	v, err := formats.LoadVolume(fs.Arg(0))
	if err != nil {
		return err
	}
	palette, err := cfg.VoxelPalette()
	if err != nil {
		return err
	}

	factory := &particles.MemoryFactory{}
	effect := particles.NewEffect(factory.New, particles.EffectConfig{
		Palette:    palette,
		Scale:      cfg.Volume.Scale,
		Integrator: cfg.Integrator(),
	})
	defer effect.Close()

	if err := effect.Build(v); err != nil {
		return err
	}

	switch *effectName {
	case "none":
	case "explode":
		err = effect.Apply(cfg.Explode(math.Vec3{}))
	case "slash":
		err = effect.Apply(cfg.Slash(math.Vec3{}, math.Right))
	default:
		return fmt.Errorf("unknown effect %q", *effectName)
	}
	if err != nil {
		return err
	}

	for i := 0; i < *ticks; i++ {
		if err := effect.Tick(float32(*dt)); err != nil {
			return err
		}
	}

	logger.Named("voxtool").Info("effect finished",
		zap.String("effect", *effectName),
		zap.Int("ticks", *ticks),
		zap.Int("particles", effect.Pool().Len()),
		zap.Int("units", effect.Pool().UnitCount()),
	)

	if *output == "" {
		return export.WriteParticlesCSV(out, effect.Particles())
	}

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := writeParticles(f, effect.Particles()); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(out, "Wrote %d particles to %s\n", effect.Pool().Len(), *output)
	return nil
}

// writeParticles writes ps as CSV and closes w, returning the close error.
func writeParticles(w io.WriteCloser, ps []particles.Particle) error {
	if err := export.WriteParticlesCSV(w, ps); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func cmdConvert(_ *config.Config, args []string, out io.Writer) error {
	if len(args) < 2 {
		return usageError("convert <input> <output>")
	}

	v, err := formats.LoadVolume(args[0])
	if err != nil {
		return err
	}
	if err := formats.SaveVolume(args[1], v); err != nil {
		return err
	}

	in, _ := os.Stat(args[0])
	res, _ := os.Stat(args[1])
	if in != nil && res != nil {
		fmt.Fprintf(out, "Converted: %s (%d bytes) -> %s (%d bytes)\n", args[0], in.Size(), args[1], res.Size())
	}
	return nil
}
