package engine

import (
	"math"
	"math/rand"
)

// DefaultNegativeTableSize is the model constant used when
// Args.NegativeTableSize is left at 0.
const DefaultNegativeTableSize = 10_000_000

// NegativeTable is a unigram^(1/2)-weighted reservoir of class indices,
// built once and read-only thereafter (spec §3, §4.4).
type NegativeTable struct {
	table []int32
}

// BuildNegativeTable computes z = sum(sqrt(count_i)), pushes class i into
// the table floor(sqrt(count_i) * size / z) times, then shuffles once with
// rng.
func BuildNegativeTable(counts []int64, size int, rng *rand.Rand) *NegativeTable {
	assert(len(counts) > 0, "BuildNegativeTable: empty counts")
	assert(size > 0, "BuildNegativeTable: non-positive size")

	z := 0.0
	for _, c := range counts {
		z += math.Sqrt(float64(c))
	}

	table := make([]int32, 0, size)
	for i, c := range counts {
		n := int(math.Sqrt(float64(c)) * float64(size) / z)
		for j := 0; j < n; j++ {
			table = append(table, int32(i))
		}
	}
	if len(table) == 0 {
		// Degenerate inputs (e.g. a single class) still need a table to draw from.
		table = append(table, 0)
	}
	rng.Shuffle(len(table), func(i, j int) { table[i], table[j] = table[j], table[i] })
	return &NegativeTable{table: table}
}

// Len returns the number of entries in the table.
func (nt *NegativeTable) Len() int { return len(nt.table) }
