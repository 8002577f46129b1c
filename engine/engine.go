package engine

import "math/rand"

// EngineState owns one worker's scratch space and view onto the shared
// parameter matrices (spec §3's EngineState row). The matrices themselves
// (wi, wo, attn, bias) are shared references written by every worker
// engine bound to the same model without synchronization — see package
// driver and spec §5.
type EngineState struct {
	wi, wo, attn *Matrix
	bias         *Vector

	args   Args
	tables *Tables
	tree   *HuffmanTree
	negT   *NegativeTable

	hidden *Vector // dim
	output *Vector // osz
	grad   *Vector // dim

	softmaxattn     []float64
	scratchFiltered []ContextItem

	rng    *rand.Rand
	negpos int

	lossSum   float64
	nexamples int64
}

// New constructs an EngineState bound to the shared parameter matrices,
// per-thread Args, and a per-thread RNG seed (spec §6's "new(wi, wo, attn,
// bias, args, seed)"). hidden/grad are sized to dim = wi.Cols(); output is
// sized to osz = wo.Rows().
func New(wi, wo, attn *Matrix, bias *Vector, args Args, seed int64) *EngineState {
	dim := wi.Cols()
	osz := wo.Rows()
	return &EngineState{
		wi: wi, wo: wo, attn: attn, bias: bias,
		args:   args,
		tables: defaultTables,
		hidden: NewVector(dim),
		output: NewVector(osz),
		grad:   NewVector(dim),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SetTargetCounts is a one-shot call that must precede any Update*/Predict
// call whose loss mode needs it: it builds the Huffman tree for
// LossHierarchicalSoftmax or the negative-sampling table for
// LossNegativeSampling (spec §4.3, §4.4, §6). A no-op for LossSoftmax.
func (e *EngineState) SetTargetCounts(counts []int64) {
	switch e.args.Loss {
	case LossHierarchicalSoftmax:
		e.tree = BuildHuffmanTree(counts)
	case LossNegativeSampling:
		size := e.args.NegativeTableSize
		if size == 0 {
			size = DefaultNegativeTableSize
		}
		e.negT = BuildNegativeTable(counts, size, e.rng)
	}
}

// ShareTargetCounts lets every worker in a Hogwild pool reuse the Huffman
// tree / negative table a single SetTargetCounts call already built,
// instead of reconstructing (and, for the negative table, re-shuffling
// differently) per worker — both structures are immutable and read-only
// once built (spec §3), so sharing them is safe.
func (e *EngineState) ShareTargetCounts(from *EngineState) {
	e.tree = from.tree
	e.negT = from.negT
}

// getNegative advances this engine's own cursor into the shared negative
// table modulo its length, rejecting draws equal to target (spec §4.4).
// The cursor is per-engine state, never shared.
func (e *EngineState) getNegative(target int32) int32 {
	assert(e.negT != nil, "getNegative: SetTargetCounts not called")
	for {
		e.negpos = (e.negpos + 1) % e.negT.Len()
		cand := e.negT.table[e.negpos]
		if cand != target {
			return cand
		}
	}
}

// ensureAttnScratch returns e.softmaxattn resized to exactly n, reusing
// its backing array when it already has enough capacity.
func (e *EngineState) ensureAttnScratch(n int) []float64 {
	if cap(e.softmaxattn) < n {
		e.softmaxattn = make([]float64, n)
	} else {
		e.softmaxattn = e.softmaxattn[:n]
	}
	return e.softmaxattn
}

// GetLoss returns the running average loss: loss_sum / nexamples
// (spec §6). Returns 0 before the first example.
func (e *EngineState) GetLoss() float64 {
	if e.nexamples == 0 {
		return 0
	}
	return e.lossSum / float64(e.nexamples)
}

// NExamples returns the number of examples folded into GetLoss so far.
func (e *EngineState) NExamples() int64 { return e.nexamples }
