// Package vecio implements the vector save/load format spec §6 assigns to
// the engine's surrounding model file: a vector is written as its
// dimension followed by that many floating-point values in the platform's
// native endianness and width. There is no header or versioning at this
// level — that belongs to whatever format wraps it (package checkpoint).
package vecio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vecforge/vecforge/engine"
)

// SaveVector writes v's dimension followed by its values, native-endian.
func SaveVector(w io.Writer, v *engine.Vector) error {
	if err := binary.Write(w, binary.NativeEndian, int64(v.Len())); err != nil {
		return fmt.Errorf("vecio: write dimension: %w", err)
	}
	if err := binary.Write(w, binary.NativeEndian, v.Data()); err != nil {
		return fmt.Errorf("vecio: write values: %w", err)
	}
	return nil
}

// LoadVector reads a dimension followed by that many native-endian values
// and returns the reconstructed vector.
func LoadVector(r io.Reader) (*engine.Vector, error) {
	var n int64
	if err := binary.Read(r, binary.NativeEndian, &n); err != nil {
		return nil, fmt.Errorf("vecio: read dimension: %w", err)
	}
	data := make([]float64, n)
	if err := binary.Read(r, binary.NativeEndian, data); err != nil {
		return nil, fmt.Errorf("vecio: read values: %w", err)
	}
	return engine.NewVectorFromData(data), nil
}

// SaveMatrix writes a matrix as its row and column counts followed by each
// row's values in turn, native-endian, with no per-row dimension prefix.
// Not part of spec §6 itself (that only specifies the vector primitive);
// package checkpoint does not call it and keeps its own per-row layout.
func SaveMatrix(w io.Writer, m *engine.Matrix) error {
	if err := binary.Write(w, binary.NativeEndian, int64(m.Rows())); err != nil {
		return fmt.Errorf("vecio: write rows: %w", err)
	}
	if err := binary.Write(w, binary.NativeEndian, int64(m.Cols())); err != nil {
		return fmt.Errorf("vecio: write cols: %w", err)
	}
	for r := 0; r < m.Rows(); r++ {
		if err := binary.Write(w, binary.NativeEndian, m.Row(r)); err != nil {
			return fmt.Errorf("vecio: write row %d: %w", r, err)
		}
	}
	return nil
}

// LoadMatrix reads the format SaveMatrix writes.
func LoadMatrix(r io.Reader) (*engine.Matrix, error) {
	var rows, cols int64
	if err := binary.Read(r, binary.NativeEndian, &rows); err != nil {
		return nil, fmt.Errorf("vecio: read rows: %w", err)
	}
	if err := binary.Read(r, binary.NativeEndian, &cols); err != nil {
		return nil, fmt.Errorf("vecio: read cols: %w", err)
	}
	data := make([]float64, rows*cols)
	if err := binary.Read(r, binary.NativeEndian, data); err != nil {
		return nil, fmt.Errorf("vecio: read data: %w", err)
	}
	return engine.NewMatrixFromData(int(rows), int(cols), data), nil
}
