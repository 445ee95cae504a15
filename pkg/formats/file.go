package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// ErrUnknownExtension is returned for paths that are neither .vxt nor .vxz.
var ErrUnknownExtension = errors.New("unknown voxel file extension")

// Format identifies a voxel file encoding.
type Format int

// Supported formats.
const (
	FormatVXT Format = iota
	FormatVXZ
)

// String returns the file extension without the dot.
func (f Format) String() string {
	switch f {
	case FormatVXT:
		return "vxt"
	case FormatVXZ:
		return "vxz"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vxt":
		return FormatVXT, nil
	case ".vxz":
		return FormatVXZ, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownExtension, path)
	}
}

// Encode serializes v in the given format.
func Encode(v *voxel.Volume, f Format) ([]byte, error) {
	switch f {
	case FormatVXT:
		return EncodeVXT(v)
	case FormatVXZ:
		return EncodeVXZ(v)
	default:
		return nil, fmt.Errorf("unsupported format %s", f)
	}
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (*voxel.Volume, error) {
	switch f {
	case FormatVXT:
		return DecodeVXT(data)
	case FormatVXZ:
		return DecodeVXZ(data)
	default:
		return nil, fmt.Errorf("unsupported format %s", f)
	}
}

// LoadVolume reads a .vxt or .vxz file.
func LoadVolume(path string) (*voxel.Volume, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return v, nil
}

// SaveVolume writes v to path, choosing the format from the extension.
func SaveVolume(path string, v *voxel.Volume) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(v, f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
