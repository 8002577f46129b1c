package engine

import "math"

// ContextItem pairs a context feature with its position relative to the
// target, the unit of input for the attention forward paths (spec §4.5,
// GLOSSARY "Attention (context view)"/"Attention (feature view)").
type ContextItem struct {
	Feature  int32
	Position int32
}

// computeHidden sets hidden = (1/|input|) * sum(wi[idx] for idx in input).
// Undefined (spec §4.5) when input is empty; callers must guard, which
// Update/UpdateAttn/UpdateAttn2 do.
func computeHidden(wi *Matrix, input []int32, hidden *Vector) {
	assert(len(input) > 0, "computeHidden: empty input")
	hidden.Zero()
	for _, idx := range input {
		hidden.AddRow(wi, int(idx))
	}
	hidden.MulScalar(1.0 / float64(len(input)))
}

// positionIndex maps a signed relative position to a non-negative column
// in attn_/bias_. window is the maximum absolute relative position the
// model was configured with (Args.Window); attn_/bias_ have 2*window+1
// columns. This offset is an implementation decision spec.md leaves open,
// since the spec writes "bias_[position_i]" as if position already were an
// index.
func positionIndex(pos int32, window int) int {
	idx := int(pos) + window
	assert(idx >= 0 && idx < 2*window+1, "positionIndex: position outside configured window")
	return idx
}

// stableSoftmax normalizes a in place: subtract max, clamp operands < -50
// to exp-zero, normalize by the sum (spec §4.5's numerically-stable
// softmax, reused by computeAttnHidden/computeAttnHidden2 and by the full
// softmax loss in loss.go).
func stableSoftmax(a []float64) {
	max := a[0]
	for _, x := range a[1:] {
		if x > max {
			max = x
		}
	}
	sum := 0.0
	for i, x := range a {
		shifted := x - max
		if shifted < -50 {
			a[i] = 0
		} else {
			a[i] = math.Exp(shifted)
			sum += a[i]
		}
	}
	for i := range a {
		a[i] /= sum
	}
}

// computeAttnHidden implements the context view of attention (spec §4.5):
// logits are indexed by (context feature, relative position). alpha must
// be pre-sized to len(input); it receives the softmax weights.
func computeAttnHidden(wi, attn *Matrix, bias *Vector, window int, input []ContextItem, hidden *Vector, alpha []float64) {
	assert(len(input) > 0, "computeAttnHidden: empty input")
	assert(len(alpha) == len(input), "computeAttnHidden: alpha size mismatch")

	for i, item := range input {
		pos := positionIndex(item.Position, window)
		alpha[i] = attn.At(int(item.Feature), pos) + bias.At(pos)
	}
	stableSoftmax(alpha)

	hidden.Zero()
	for i, item := range input {
		hidden.AddRowScaled(wi, int(item.Feature), alpha[i])
	}
}

// computeAttnHidden2 implements the feature view of attention (spec §4.5):
// logits are indexed by (output target, relative position) instead of by
// the context feature.
func computeAttnHidden2(wi, attn *Matrix, bias *Vector, window int, input []ContextItem, target int32, hidden *Vector, alpha []float64) {
	assert(len(input) > 0, "computeAttnHidden2: empty input")
	assert(len(alpha) == len(input), "computeAttnHidden2: alpha size mismatch")

	for i, item := range input {
		pos := positionIndex(item.Position, window)
		alpha[i] = attn.At(int(target), pos) + bias.At(pos)
	}
	stableSoftmax(alpha)

	hidden.Zero()
	for i, item := range input {
		hidden.AddRowScaled(wi, int(item.Feature), alpha[i])
	}
}
