package voxel

import (
	"fmt"
	"strconv"
)

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// Palette maps material indices to colors.
type Palette []Color

// DefaultPalette returns the built-in eight color table.
func DefaultPalette() Palette {
	return Palette{
		{1, 0, 0, 1},                    // red
		{0, 1, 0, 1},                    // green
		{0, 0, 1, 1},                    // blue
		{1, 0.92156863, 0.015686275, 1}, // yellow
		{0, 1, 1, 1},                    // cyan
		{1, 0, 1, 1},                    // magenta
		{0, 0, 0, 1},                    // black
		{1, 1, 1, 1},                    // white
	}
}

// Color returns the color of a material index.
func (p Palette) Color(index int) (Color, error) {
	if index < 0 || index >= len(p) {
		return Color{}, fmt.Errorf("%w: %d (palette has %d colors)", ErrPaletteIndex, index, len(p))
	}
	return p[index], nil
}

// ParsePalette builds a palette from "#RRGGBB" or "#RRGGBBAA" strings.
func ParsePalette(hex []string) (Palette, error) {
	p := make(Palette, 0, len(hex))
	for i, h := range hex {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(hex string) (Color, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid hex color length %q", hex)
	}

	var c Color
	c[3] = 1
	for i := 0; i < len(h)/2; i++ {
		n, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		c[i] = float32(n) / 255
	}
	return c, nil
}

// Hex formats the color as "#RRGGBBAA".
func (c Color) Hex() string {
	b := func(f float32) uint8 {
		if f <= 0 {
			return 0
		}
		if f >= 1 {
			return 255
		}
		return uint8(f*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]), b(c[3]))
}
