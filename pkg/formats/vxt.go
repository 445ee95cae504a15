// Package formats provides encoders and decoders for voxel volume files.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// VXT is a three line text format:
//
//	name
//	x,y,z
//	v0,v1,...,vN
//
// Cell values follow the volume's linear index order (x fastest).

// VXT format errors.
var (
	ErrVXTLineCount  = errors.New("VXT data must have exactly 3 lines")
	ErrVXTSize       = errors.New("VXT size line must be x,y,z")
	ErrVXTDataLength = errors.New("VXT cell count does not match size")
	ErrVXTNumber     = errors.New("VXT field is not an integer")
	ErrVXTName       = errors.New("VXT name must be a single line")
)

// EncodeVXT serializes a volume to VXT.
func EncodeVXT(v *voxel.Volume) ([]byte, error) {
	if strings.ContainsAny(v.Name(), "\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrVXTName, v.Name())
	}

	size := v.Size()
	var buf bytes.Buffer
	buf.Grow(len(v.Name()) + 16 + 3*v.Len())

	buf.WriteString(v.Name())
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "%d,%d,%d", size.X, size.Y, size.Z)
	buf.WriteByte('\n')

	var num []byte
	for i, c := range v.Snapshot() {
		if i > 0 {
			buf.WriteByte(',')
		}
		num = strconv.AppendInt(num[:0], int64(c), 10)
		buf.Write(num)
	}
	return buf.Bytes(), nil
}

// DecodeVXT parses VXT data. A single trailing newline and CRLF line endings
// are accepted. Any structural problem returns a nil volume.
func DecodeVXT(data []byte) (*voxel.Volume, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) == 4 && lines[3] == "" {
		lines = lines[:3]
	}
	if len(lines) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrVXTLineCount, len(lines))
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	name := lines[0]

	sizes := strings.Split(lines[1], ",")
	if len(sizes) != 3 {
		return nil, fmt.Errorf("%w: got %d fields", ErrVXTSize, len(sizes))
	}
	var dims [3]int
	for i, s := range sizes {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: size %q", ErrVXTNumber, s)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", ErrVXTSize, n)
		}
		dims[i] = n
	}

	cells, err := voxel.CellCount(dims[0], dims[1], dims[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVXTSize, err)
	}
	var fields []string
	if lines[2] != "" {
		fields = strings.Split(lines[2], ",")
	}
	if len(fields) != cells {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrVXTDataLength, len(fields), cells)
	}

	values := make([]int, cells)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d %q", ErrVXTNumber, i, f)
		}
		values[i] = n
	}

	return voxel.NewFromData(dims[0], dims[1], dims[2], name, values)
}
