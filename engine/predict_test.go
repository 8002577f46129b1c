package engine

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictSoftmaxReturnsTopK(t *testing.T) {
	wi := NewMatrix(2, 2)
	wi.Set(0, 0, 1)
	wi.Set(1, 0, 1)

	wo := NewMatrix(4, 2)
	wo.Set(0, 0, 5) // strongly favored class
	wo.Set(1, 0, 0)
	wo.Set(2, 0, -5)
	wo.Set(3, 0, 2)

	attn := NewMatrix(2, 1)
	bias := NewVector(1)
	e := New(wi, wo, attn, bias, Args{Loss: LossSoftmax}, 1)

	results := e.Predict([]int32{0, 1}, 2)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(0), results[0].Class)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

// Spec §8 scenario 4: hierarchical softmax top-k matches a brute-force
// enumeration over all leaves.
func TestPredictHierarchicalSoftmaxMatchesBruteForce(t *testing.T) {
	counts := []int64{10, 5, 3, 1}
	wi := NewMatrix(2, 2)
	wi.Set(0, 0, 1)
	wi.Set(1, 0, 2)

	wo := NewMatrix(len(counts)-1, 2)
	for r := 0; r < wo.Rows(); r++ {
		wo.Set(r, 0, float64(r)-1)
		wo.Set(r, 1, float64(r))
	}

	attn := NewMatrix(2, 1)
	bias := NewVector(1)
	e := New(wi, wo, attn, bias, Args{Loss: LossHierarchicalSoftmax}, 1)
	e.SetTargetCounts(counts)

	results := e.Predict([]int32{0, 1}, 2)

	var brute []Candidate
	for c := 0; c < len(counts); c++ {
		path := e.tree.Path(c)
		code := e.tree.Code(c)
		score := 0.0
		for i, node := range path {
			f := e.tables.Sigmoid(wo.DotRow(e.hidden, int(node)))
			if code[i] == 1 {
				score += e.tables.Log(f)
			} else {
				score += e.tables.Log(1.0 - f)
			}
		}
		brute = append(brute, Candidate{Score: score, Class: int32(c)})
	}
	sort.Slice(brute, func(i, j int) bool { return brute[i].Score > brute[j].Score })

	assert.Len(t, results, 2)
	assert.ElementsMatch(t, []int32{brute[0].Class, brute[1].Class}, []int32{results[0].Class, results[1].Class})
}
