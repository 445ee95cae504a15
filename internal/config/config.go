// Package config handles viewer and tool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/voxelfx/internal/particles"
	"github.com/Faultbox/voxelfx/pkg/math"
	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Volume   VolumeConfig   `yaml:"volume"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Effects  EffectsConfig  `yaml:"effects"`
	Palette  []string       `yaml:"palette"` // Hex colors replacing the default table
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`

	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or bmp
}

// VolumeConfig selects the model shown at startup.
type VolumeConfig struct {
	DefaultSize int     `yaml:"default_size"` // Edge of the generated sphere when no model is given
	ModelPath   string  `yaml:"model_path"`   // .vxt or .vxz file
	Scale       float32 `yaml:"scale"`
}

// PhysicsConfig holds integrator settings.
type PhysicsConfig struct {
	Gravity            float32 `yaml:"gravity"`
	Workers            int     `yaml:"workers"` // 0 means GOMAXPROCS
	ParallelThreshold  int     `yaml:"parallel_threshold"`
	MinExplodeDistance float32 `yaml:"min_explode_distance"`
}

// EffectsConfig holds the parameters of the explode and slash actions.
type EffectsConfig struct {
	ExplodeSpeed      float32 `yaml:"explode_speed"`
	ExplodeUniform    bool    `yaml:"explode_uniform"`
	SlashSpeed        float32 `yaml:"slash_speed"`
	SlashDisplacement float32 `yaml:"slash_displacement"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,

			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Volume: VolumeConfig{
			DefaultSize: 16,
			Scale:       1,
		},
		Physics: PhysicsConfig{
			Gravity:            particles.DefaultGravity,
			ParallelThreshold:  particles.DefaultParallelThreshold,
			MinExplodeDistance: particles.DefaultMinDistance,
		},
		Effects: EffectsConfig{
			ExplodeSpeed:      8,
			ExplodeUniform:    true,
			SlashSpeed:        2,
			SlashDisplacement: 0.25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// VoxelPalette returns the configured palette, or the default table when
// none is set.
func (c *Config) VoxelPalette() (voxel.Palette, error) {
	if len(c.Palette) == 0 {
		return voxel.DefaultPalette(), nil
	}
	p, err := voxel.ParsePalette(c.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return p, nil
}

// Integrator returns the integrator settings. Gravity always points along -Y.
func (c *Config) Integrator() particles.IntegratorConfig {
	ic := particles.DefaultIntegratorConfig()
	ic.Gravity = c.Physics.Gravity
	if c.Physics.Workers > 0 {
		ic.Workers = c.Physics.Workers
	}
	if c.Physics.ParallelThreshold > 0 {
		ic.ParallelThreshold = c.Physics.ParallelThreshold
	}
	return ic
}

// Explode returns the explode action centred at center.
func (c *Config) Explode(center math.Vec3) particles.Explode {
	return particles.Explode{
		Center:      center,
		Speed:       c.Effects.ExplodeSpeed,
		Uniform:     c.Effects.ExplodeUniform,
		MinDistance: c.Physics.MinExplodeDistance,
	}
}

// Slash returns the slash action through center with the given plane normal.
func (c *Config) Slash(center, normal math.Vec3) particles.Slash {
	return particles.Slash{
		Center:       center,
		Normal:       normal,
		Speed:        c.Effects.SlashSpeed,
		Displacement: c.Effects.SlashDisplacement,
	}
}
