package formats

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/voxelfx/pkg/voxel"
)

// VXZ is VXT compressed with zstd behind a 4 byte magic.
const vxzMagic = "VXZ1"

// maxVXZDecoded caps the decompressed VXT size.
var maxVXZDecoded uint64 = 256 << 20

// VXZ format errors.
var (
	ErrInvalidVXZMagic = errors.New("invalid VXZ magic: expected 'VXZ1'")
	ErrTruncatedVXZ    = errors.New("truncated VXZ data")
)

// EncodeVXZ serializes a volume to zstd-compressed VXT.
func EncodeVXZ(v *voxel.Volume) ([]byte, error) {
	raw, err := EncodeVXT(v)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	out := make([]byte, 0, len(vxzMagic)+len(raw)/4)
	out = append(out, vxzMagic...)
	return enc.EncodeAll(raw, out), nil
}

// DecodeVXZ parses zstd-compressed VXT.
func DecodeVXZ(data []byte) (*voxel.Volume, error) {
	if len(data) < len(vxzMagic) {
		return nil, ErrTruncatedVXZ
	}
	if !bytes.Equal(data[:len(vxzMagic)], []byte(vxzMagic)) {
		return nil, ErrInvalidVXZMagic
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxVXZDecoded))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[len(vxzMagic):], nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing VXZ: %w", err)
	}
	return DecodeVXT(raw)
}
