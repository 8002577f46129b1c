package engine

import (
	"gonum.org/v1/gonum/floats"
)

// Vector is a dense, contiguous vector of floats. Its length is fixed after
// construction (spec §3). Boundary checks on At/Set are debug-level only;
// release paths may omit them, so callers must not pass out-of-range
// indices (spec §4.1).
type Vector struct {
	data []float64
}

// NewVector allocates a zero-filled vector of length n.
func NewVector(n int) *Vector {
	return &Vector{data: make([]float64, n)}
}

// NewVectorFromData wraps an existing slice without copying. Used by vecio
// to materialize a vector loaded from disk.
func NewVectorFromData(data []float64) *Vector {
	return &Vector{data: data}
}

// Len returns the vector's fixed dimension.
func (v *Vector) Len() int { return len(v.data) }

// At returns the i-th element.
func (v *Vector) At(i int) float64 {
	assert(i >= 0 && i < len(v.data), "vector index out of range")
	return v.data[i]
}

// Set assigns the i-th element.
func (v *Vector) Set(i int, x float64) {
	assert(i >= 0 && i < len(v.data), "vector index out of range")
	v.data[i] = x
}

// Data exposes the underlying slice for serialization (vecio) and for
// passing to gonum routines. Callers outside this package and vecio should
// treat it as read-only.
func (v *Vector) Data() []float64 { return v.data }

// Zero resets every element to 0.
func (v *Vector) Zero() {
	for i := range v.data {
		v.data[i] = 0
	}
}

// MulScalar scales the vector in place: v *= a.
func (v *Vector) MulScalar(a float64) {
	floats.Scale(a, v.data)
}

// AddRow adds a row of m into v in place: v += M[r].
func (v *Vector) AddRow(m *Matrix, r int) {
	floats.Add(v.data, m.row(r))
}

// AddRowScaled adds an alpha-scaled row of m into v in place: v += alpha*M[r].
func (v *Vector) AddRowScaled(m *Matrix, r int, alpha float64) {
	floats.AddScaled(v.data, alpha, m.row(r))
}

// MatMul computes v = m*u, where dim(v) == rows(m) and dim(u) == cols(m).
func (v *Vector) MatMul(m *Matrix, u *Vector) {
	assert(v.Len() == m.Rows(), "MatMul: output dimension mismatch")
	assert(u.Len() == m.Cols(), "MatMul: input dimension mismatch")
	for r := 0; r < m.Rows(); r++ {
		v.data[r] = floats.Dot(m.row(r), u.data)
	}
}

// AddScaled adds an alpha-scaled vector into v in place: v += alpha*u.
func (v *Vector) AddScaled(alpha float64, u *Vector) {
	floats.AddScaled(v.data, alpha, u.data)
}

// Dot returns the inner product of v and u.
func (v *Vector) Dot(u *Vector) float64 {
	return floats.Dot(v.data, u.data)
}

// L1Norm returns the sum of absolute values of v's elements.
func (v *Vector) L1Norm() float64 {
	return floats.Norm(v.data, 1)
}

// Argmax returns the index of the largest element, ties broken by the
// lowest index.
func (v *Vector) Argmax() int {
	best := 0
	for i := 1; i < len(v.data); i++ {
		if v.data[i] > v.data[best] {
			best = i
		}
	}
	return best
}
