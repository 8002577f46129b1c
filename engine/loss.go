package engine

// binaryLogistic runs one logistic-regression step against output row t of
// wo_ for label y (spec §4.6). It accumulates the hidden-space gradient
// into e.grad BEFORE mutating wo_[t], since the gradient update reads the
// pre-update row.
func (e *EngineState) binaryLogistic(t int32, y bool, lr float64) float64 {
	score := e.tables.Sigmoid(e.wo.DotRow(e.hidden, int(t)))

	label := 0.0
	if y {
		label = 1.0
	}
	alpha := lr * (label - score)

	e.grad.AddRowScaled(e.wo, int(t), alpha)
	e.wo.AddRow(e.hidden, int(t), alpha)

	if y {
		return -e.tables.Log(score)
	}
	return -e.tables.Log(1.0 - score)
}

// negativeSampling runs binary logistic once with y=1 on target, then
// Args.Neg times with y=0 on fresh negatives distinct from target
// (spec §4.6).
func (e *EngineState) negativeSampling(target int32, lr float64) float64 {
	e.grad.Zero()
	loss := e.binaryLogistic(target, true, lr)
	for i := 0; i < e.args.Neg; i++ {
		neg := e.getNegative(target)
		loss += e.binaryLogistic(neg, false, lr)
	}
	return loss
}

// hierarchicalSoftmax runs binary logistic at each internal node on
// target's root path, in leaf-to-root order (spec §4.6).
func (e *EngineState) hierarchicalSoftmax(target int32, lr float64) float64 {
	assert(e.tree != nil, "hierarchicalSoftmax: SetTargetCounts not called")
	e.grad.Zero()
	path := e.tree.Path(int(target))
	code := e.tree.Code(int(target))
	loss := 0.0
	for i, node := range path {
		loss += e.binaryLogistic(node, code[i] == 1, lr)
	}
	return loss
}

// softmax runs the full-vocabulary softmax loss (spec §4.6): output =
// wo_*hidden, stable-normalized in place, then every class i contributes
// grad += alpha_i*wo_[i] and wo_[i] += alpha_i*hidden with
// alpha_i = lr*([i==target] - output[i]).
func (e *EngineState) softmax(target int32, lr float64) float64 {
	e.grad.Zero()
	e.output.MatMul(e.wo, e.hidden)
	stableSoftmax(e.output.Data())

	for i := 0; i < e.wo.Rows(); i++ {
		label := 0.0
		if int32(i) == target {
			label = 1.0
		}
		alpha := lr * (label - e.output.At(i))
		e.grad.AddRowScaled(e.wo, i, alpha)
		e.wo.AddRow(e.hidden, i, alpha)
	}
	return -e.tables.Log(e.output.At(int(target)))
}

// dispatchLoss runs the configured loss kernel. A closed three-way switch
// per spec §9, not an interface — see package doc.
func (e *EngineState) dispatchLoss(target int32, lr float64) float64 {
	switch e.args.Loss {
	case LossNegativeSampling:
		return e.negativeSampling(target, lr)
	case LossHierarchicalSoftmax:
		return e.hierarchicalSoftmax(target, lr)
	case LossSoftmax:
		return e.softmax(target, lr)
	default:
		panic("engine: unknown loss type")
	}
}
