package engine

import "gonum.org/v1/gonum/floats"

// Matrix is a two-dimensional, row-major, contiguous array of floats. Its
// shape is fixed after construction and it is shared, mutably, across every
// worker engine bound to the same model (spec §3, §5) — concurrent writers
// race on it by design; see package driver.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix allocates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewMatrixFromData wraps an existing row-major slice without copying.
// Used by checkpoint when restoring a matrix row by row.
func NewMatrixFromData(rows, cols int, data []float64) *Matrix {
	assert(len(data) == rows*cols, "NewMatrixFromData: data length mismatch")
	return &Matrix{rows: rows, cols: cols, data: data}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns element (r, c).
func (m *Matrix) At(r, c int) float64 {
	assert(r >= 0 && r < m.rows && c >= 0 && c < m.cols, "matrix index out of range")
	return m.data[r*m.cols+c]
}

// Set assigns element (r, c).
func (m *Matrix) Set(r, c int, x float64) {
	assert(r >= 0 && r < m.rows && c >= 0 && c < m.cols, "matrix index out of range")
	m.data[r*m.cols+c] = x
}

// row returns the backing slice for row r, with no copy. Internal use only
// (vector.go, and the in-place row ops below) — callers outside this
// package get At/Set/DotRow/AddRow/Row.
func (m *Matrix) row(r int) []float64 {
	assert(r >= 0 && r < m.rows, "matrix row out of range")
	return m.data[r*m.cols : (r+1)*m.cols]
}

// Row returns a read-only view of row r, for serialization (vecio/checkpoint).
func (m *Matrix) Row(r int) []float64 { return m.row(r) }

// DotRow computes <M[r], v>.
func (m *Matrix) DotRow(v *Vector, r int) float64 {
	return floats.Dot(m.row(r), v.Data())
}

// AddRow computes M[r] += alpha*v in place.
func (m *Matrix) AddRow(v *Vector, r int, alpha float64) {
	floats.AddScaled(m.row(r), alpha, v.Data())
}
