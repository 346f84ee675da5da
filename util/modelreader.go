package util

import (
	"encoding/binary"
	"io"
	"math"

	xgberrors "github.com/lucagiovagnoli/xgboost-predictor-go/pkg/errors"
)

// ModelReader decodes fixed-width little-endian values from a forward-only
// byte stream. It never rewinds and keeps no buffer beyond an 8-byte scratch
// slot, so it can read straight from a file or network stream.
type ModelReader struct {
	r   io.Reader
	buf [8]byte
}

// NewModelReader creates a ModelReader over r.
func NewModelReader(r io.Reader) *ModelReader {
	return &ModelReader{r: r}
}

func (m *ModelReader) fill(n int) error {
	if _, err := io.ReadFull(m.r, m.buf[:n]); err != nil {
		return xgberrors.NewModelFormatError("read", "truncated stream", err)
	}
	return nil
}

// ReadInt reads one little-endian int32.
func (m *ModelReader) ReadInt() (int32, error) {
	if err := m.fill(4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(m.buf[:4])), nil
}

// ReadLong reads one little-endian int64.
func (m *ModelReader) ReadLong() (int64, error) {
	if err := m.fill(8); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(m.buf[:8])), nil
}

// ReadFloat reads one little-endian IEEE-754 float32.
func (m *ModelReader) ReadFloat() (float32, error) {
	if err := m.fill(4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(m.buf[:4])), nil
}

// ReadIntArray reads n little-endian int32 values.
func (m *ModelReader) ReadIntArray(n int) ([]int32, error) {
	values := make([]int32, n)
	for i := range values {
		v, err := m.ReadInt()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Skip discards exactly nBytes from the stream.
func (m *ModelReader) Skip(nBytes int64) error {
	if nBytes <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, m.r, nBytes); err != nil {
		return xgberrors.NewModelFormatError("skip", "truncated stream", err)
	}
	return nil
}
