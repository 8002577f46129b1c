package engine

import "container/heap"

// Candidate is one top-k prediction result: a class and its cumulative
// log-probability score.
type Candidate struct {
	Score float64
	Class int32
}

// candidateHeap orders the smallest score at index 0, so Pop removes the
// worst candidate currently held — the same shape as the teacher's
// EventQueue (container/heap ordered by timestamp), here ordered by score
// instead so Predict can maintain a bounded top-k reservoir.
type candidateHeap []Candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(Candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// pushBounded inserts c if the heap has room, or if c beats the current
// worst kept candidate, evicting that worst candidate to make room.
func pushBounded(h *candidateHeap, k int, c Candidate) {
	if h.Len() < k {
		heap.Push(h, c)
		return
	}
	if c.Score > (*h)[0].Score {
		heap.Pop(h)
		heap.Push(h, c)
	}
}

// Predict computes the hidden vector for input and returns up to k
// (class, score) candidates sorted by descending score (spec §4.9). For
// LossHierarchicalSoftmax it does a depth-first, pruned traversal of the
// Huffman tree; otherwise it runs the full softmax over every output class.
// Ties are broken arbitrarily by heap ordering, per spec §4.9.
func (e *EngineState) Predict(input []int32, k int) []Candidate {
	computeHidden(e.wi, input, e.hidden)

	h := &candidateHeap{}
	heap.Init(h)

	if e.args.Loss == LossHierarchicalSoftmax {
		assert(e.tree != nil, "Predict: SetTargetCounts not called")
		e.dfsPredict(e.tree.Root(), 0.0, k, h)
	} else {
		e.output.MatMul(e.wo, e.hidden)
		stableSoftmax(e.output.Data())
		for i := 0; i < e.wo.Rows(); i++ {
			pushBounded(h, k, Candidate{Score: e.tables.Log(e.output.At(i)), Class: int32(i)})
		}
	}

	result := make([]Candidate, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Candidate)
	}
	return result
}

// dfsPredict descends the Huffman tree from node, tracking cumulative
// log-probability score. A subtree is pruned once the heap is full and
// score can no longer beat its worst kept candidate (spec §4.9 step 2).
func (e *EngineState) dfsPredict(node int, score float64, k int, h *candidateHeap) {
	if h.Len() >= k && score < (*h)[0].Score {
		return
	}
	if e.tree.IsLeaf(node) {
		pushBounded(h, k, Candidate{Score: score, Class: e.tree.LeafClass(node)})
		return
	}
	f := e.tables.Sigmoid(e.wo.DotRow(e.hidden, e.tree.InternalIndex(node)))
	e.dfsPredict(e.tree.Left(node), score+e.tables.Log(1.0-f), k, h)
	e.dfsPredict(e.tree.Right(node), score+e.tables.Log(f), k, h)
}
