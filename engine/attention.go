package engine

// attnGradient backpropagates the attention-weighted hidden state into
// wi_, attn_, and bias_ (spec §4.8). alpha is the softmax weights produced
// by computeAttnHidden/computeAttnHidden2; g is the hidden-space gradient
// left in e.grad by the loss kernel. index(item) picks attn_'s row: the
// context feature for the context view (UpdateAttn), the shared target
// for the feature view (UpdateAttn2).
//
// Per spec §9 (open question), this deliberately omits the (1-alpha_i)
// factor a full softmax Jacobian would include — reproduced as specified,
// not "fixed". It also scales the wi_ row update by alpha_i*|input|
// rather than alpha_i alone, compensating for an averaging step the
// attention path never performs elsewhere; this is preserved verbatim for
// parity rather than corrected.
func (e *EngineState) attnGradient(input []ContextItem, alpha []float64, index func(ContextItem) int32) {
	n := len(input)
	gDotHidden := e.grad.Dot(e.hidden)

	for i, item := range input {
		wiDotGrad := e.wi.DotRow(e.grad, int(item.Feature))
		gAttn := alpha[i] * (wiDotGrad - gDotHidden)

		e.wi.AddRow(e.grad, int(item.Feature), alpha[i]*float64(n))

		row := index(item)
		pos := positionIndex(item.Position, e.args.Window)
		e.attn.Set(int(row), pos, e.attn.At(int(row), pos)+gAttn)
		e.bias.Set(pos, e.bias.At(pos)+gAttn)
	}
}
