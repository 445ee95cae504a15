// Package voxel provides a dense 3D grid of material indices and the
// face-culled mesh extraction built on top of it.
package voxel

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Faultbox/voxelfx/pkg/math"
)

// Air is the material index of an empty cell. Every other value indexes a Palette.
const Air = -1

// Volume errors.
var (
	ErrOutOfBounds  = errors.New("voxel coordinate out of bounds")
	ErrDataLength   = errors.New("voxel data length does not match dimensions")
	ErrInvalidSize  = errors.New("invalid voxel volume dimensions")
	ErrPaletteIndex = errors.New("material index outside palette")
)

// Size holds volume dimensions in cells.
type Size struct {
	X, Y, Z int
}

// Cells returns X*Y*Z.
func (s Size) Cells() int {
	return s.X * s.Y * s.Z
}

// CellCount returns x*y*z, rejecting negative dimensions and products that
// overflow int.
func CellCount(x, y, z int) (int, error) {
	if x < 0 || y < 0 || z < 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrInvalidSize, x, y, z)
	}
	if y != 0 && x > maxInt/y {
		return 0, fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidSize, x, y, z)
	}
	xy := x * y
	if z != 0 && xy > maxInt/z {
		return 0, fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidSize, x, y, z)
	}
	return xy * z, nil
}

const maxInt = int(^uint(0) >> 1)

// String returns the size as "XxYxZ".
func (s Size) String() string {
	return fmt.Sprintf("%dx%dx%d", s.X, s.Y, s.Z)
}

// Volume is a dense grid of material indices. Cells are stored with x
// varying fastest: index = x + y*X + z*X*Y.
type Volume struct {
	size  Size
	name  string
	cells []int
}

// New creates a volume of the given dimensions with every cell set to Air.
// Negative or overflowing dimensions are a programming error and panic.
func New(x, y, z int, name string) *Volume {
	n, err := CellCount(x, y, z)
	if err != nil {
		panic("voxel: " + err.Error())
	}
	v := &Volume{
		size:  Size{x, y, z},
		name:  name,
		cells: make([]int, n),
	}
	v.Fill(Air)
	return v
}

// NewFromData creates a volume from a cell array laid out in linear index
// order. The data is copied; len(data) must equal x*y*z.
func NewFromData(x, y, z int, name string, data []int) (*Volume, error) {
	n, err := CellCount(x, y, z)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrDataLength, len(data), n)
	}
	cells := make([]int, len(data))
	copy(cells, data)
	return &Volume{
		size:  Size{x, y, z},
		name:  name,
		cells: cells,
	}, nil
}

// Size returns the volume dimensions.
func (v *Volume) Size() Size {
	return v.size
}

// Name returns the volume label.
func (v *Volume) Name() string {
	return v.name
}

// Len returns the number of cells.
func (v *Volume) Len() int {
	return len(v.cells)
}

// InBounds reports whether (x, y, z) lies inside the volume.
func (v *Volume) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.size.X && y < v.size.Y && z < v.size.Z
}

// Index returns the linear index of an in-bounds coordinate.
func (v *Volume) Index(x, y, z int) int {
	return x + y*v.size.X + z*v.size.X*v.size.Y
}

// Get returns the cell value, or Air for coordinates outside the volume.
func (v *Volume) Get(x, y, z int) int {
	if !v.InBounds(x, y, z) {
		return Air
	}
	return v.cells[v.Index(x, y, z)]
}

// IsSolid reports whether the cell holds a material. Out of bounds is empty.
func (v *Volume) IsSolid(x, y, z int) bool {
	return v.Get(x, y, z) != Air
}

// Place writes value at (x, y, z). Out-of-bounds writes leave the volume
// untouched and return ErrOutOfBounds.
func (v *Volume) Place(x, y, z, value int) error {
	if !v.InBounds(x, y, z) {
		return fmt.Errorf("%w: placed %d at (%d,%d,%d), size %s", ErrOutOfBounds, value, x, y, z, v.size)
	}
	v.cells[v.Index(x, y, z)] = value
	return nil
}

// Fill sets every cell to value.
func (v *Volume) Fill(value int) {
	for i := range v.cells {
		v.cells[i] = value
	}
}

// Snapshot returns a copy of all cells in linear index order.
func (v *Volume) Snapshot() []int {
	out := make([]int, len(v.cells))
	copy(out, v.cells)
	return out
}

// Count returns the number of occupied cells.
func (v *Volume) Count() int {
	n := 0
	for _, c := range v.cells {
		if c != Air {
			n++
		}
	}
	return n
}

// Checksum fingerprints the name, dimensions and cell contents.
func (v *Volume) Checksum() uint64 {
	buf := make([]byte, 0, 12+4*len(v.cells))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(v.size.X))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(v.size.Y))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(v.size.Z))
	for _, c := range v.cells {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(c)))
	}

	d := xxhash.New()
	_, _ = d.WriteString(v.name)
	_, _ = d.Write(buf)
	return d.Sum64()
}

// ForEachSolid visits every occupied cell with x in the outer loop, then y,
// then z. Mesh extraction and particle conversion share this order. A
// non-nil error from fn stops the walk and is returned.
func (v *Volume) ForEachSolid(fn func(x, y, z, value int) error) error {
	for x := 0; x < v.size.X; x++ {
		for y := 0; y < v.size.Y; y++ {
			for z := 0; z < v.size.Z; z++ {
				value := v.cells[v.Index(x, y, z)]
				if value == Air {
					continue
				}
				if err := fn(x, y, z, value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CellCenter returns the centre of cell (x, y, z) relative to the volume
// centre, in cell units (unscaled).
func (v *Volume) CellCenter(x, y, z int) math.Vec3 {
	return math.Vec3{
		X: float32(x) + 0.5 - float32(v.size.X)/2,
		Y: float32(y) + 0.5 - float32(v.size.Y)/2,
		Z: float32(z) + 0.5 - float32(v.size.Z)/2,
	}
}
