package engine

// LossType selects one of the closed set of three output objectives
// (spec §9: "Polymorphism over loss" — a tagged variant dispatched at the
// call site, not virtual calls, to keep the inner loop branch-predictable).
type LossType int

const (
	LossNegativeSampling LossType = iota
	LossHierarchicalSoftmax
	LossSoftmax
)

// ModelType selects whether the per-example gradient is averaged over the
// input size before being scattered back into wi_ (spec §3).
type ModelType int

const (
	// ModelSupervised divides the per-example gradient by |input| before
	// scattering it into wi_ rows.
	ModelSupervised ModelType = iota
	// ModelUnsupervised scatters the raw gradient unchanged.
	ModelUnsupervised
)

// Args carries the configuration options spec §3 recognizes.
type Args struct {
	Loss LossType
	Model ModelType

	// Neg is the number of negative samples per positive (LossNegativeSampling only).
	Neg int

	// Window is the maximum absolute relative position attention inputs
	// may carry; attn_/bias_ have 2*Window+1 columns (see positionIndex
	// in forward.go).
	Window int

	// NegativeTableSize overrides DefaultNegativeTableSize when non-zero.
	NegativeTableSize int
}
