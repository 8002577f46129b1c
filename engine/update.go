package engine

// Update runs one bag-of-features SGD step (spec §4.7): computes the mean
// hidden vector over input, runs the configured loss kernel against
// target, and scatters the resulting gradient back into every input row
// of wi_ (divided by |input| first when Args.Model is ModelSupervised).
// A no-op when input is empty.
func (e *EngineState) Update(input []int32, target int32, lr float64) {
	if len(input) == 0 {
		return
	}
	computeHidden(e.wi, input, e.hidden)
	e.recordLoss(e.dispatchLoss(target, lr))

	if e.args.Model == ModelSupervised {
		e.grad.MulScalar(1.0 / float64(len(input)))
	}
	for _, idx := range input {
		e.wi.AddRow(e.grad, int(idx), 1.0)
	}
}

// UpdateAttn runs one context-view attention SGD step (spec §4.7): pairs
// whose feature equals target are filtered out first (updating attention
// weights toward the true label using the true label itself as a context
// feature would leak it), then the attention-weighted hidden vector, loss,
// and attention-gradient backprop proceed as in Update.
func (e *EngineState) UpdateAttn(input []ContextItem, target int32, lr float64) {
	if len(input) == 0 {
		return
	}
	filtered := filterFeatureEquals(e.scratchFiltered[:0], input, target)
	if len(filtered) == 0 {
		return
	}
	e.scratchFiltered = filtered

	alpha := e.ensureAttnScratch(len(filtered))
	computeAttnHidden(e.wi, e.attn, e.bias, e.args.Window, filtered, e.hidden, alpha)
	e.recordLoss(e.dispatchLoss(target, lr))
	e.attnGradient(filtered, alpha, func(item ContextItem) int32 { return item.Feature })
}

// UpdateAttn2 is UpdateAttn's feature-view counterpart: computeAttnHidden2
// instead of computeAttnHidden, and attn_ is indexed by target rather than
// by context feature during the gradient backprop.
func (e *EngineState) UpdateAttn2(input []ContextItem, target int32, lr float64) {
	if len(input) == 0 {
		return
	}
	filtered := filterFeatureEquals(e.scratchFiltered[:0], input, target)
	if len(filtered) == 0 {
		return
	}
	e.scratchFiltered = filtered

	alpha := e.ensureAttnScratch(len(filtered))
	computeAttnHidden2(e.wi, e.attn, e.bias, e.args.Window, filtered, target, e.hidden, alpha)
	e.recordLoss(e.dispatchLoss(target, lr))
	e.attnGradient(filtered, alpha, func(ContextItem) int32 { return target })
}

func filterFeatureEquals(dst []ContextItem, input []ContextItem, target int32) []ContextItem {
	for _, item := range input {
		if item.Feature != target {
			dst = append(dst, item)
		}
	}
	return dst
}

func (e *EngineState) recordLoss(loss float64) {
	e.lossSum += loss
	e.nexamples++
}
