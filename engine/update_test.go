package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Spec §8 scenario 6: UpdateAttn with input=[(t,0)] and target=t must
// early-return without touching any parameter.
func TestUpdateAttnEarlyReturnsWhenAllFeaturesEqualTarget(t *testing.T) {
	wi := NewMatrix(4, 2)
	wo := NewMatrix(4, 2)
	attn := NewMatrix(4, 3)
	bias := NewVector(3)
	e := New(wi, wo, attn, bias, Args{Loss: LossSoftmax, Window: 1}, 1)

	wiBefore := append([]float64(nil), wi.Row(3)...)
	woBefore := append([]float64(nil), wo.Row(3)...)
	attnBefore := append([]float64(nil), attn.Row(3)...)
	biasBefore := append([]float64(nil), bias.Data()...)

	e.UpdateAttn([]ContextItem{{Feature: 3, Position: 0}}, 3, 0.1)

	assert.Equal(t, wiBefore, wi.Row(3))
	assert.Equal(t, woBefore, wo.Row(3))
	assert.Equal(t, attnBefore, attn.Row(3))
	assert.Equal(t, biasBefore, bias.Data())
	assert.Equal(t, int64(0), e.NExamples())
}

func TestUpdateAttnRunsWhenFeaturesDifferFromTarget(t *testing.T) {
	wi := NewMatrix(4, 2)
	wo := NewMatrix(4, 2)
	attn := NewMatrix(4, 3)
	bias := NewVector(3)
	e := New(wi, wo, attn, bias, Args{Loss: LossSoftmax, Window: 1}, 1)

	e.UpdateAttn([]ContextItem{{Feature: 0, Position: -1}, {Feature: 1, Position: 1}}, 3, 0.1)

	assert.Equal(t, int64(1), e.NExamples())
}

func TestUpdateAttn2RunsAndRecordsLoss(t *testing.T) {
	wi := NewMatrix(4, 2)
	wo := NewMatrix(4, 2)
	attn := NewMatrix(4, 1)
	bias := NewVector(1)
	e := New(wi, wo, attn, bias, Args{Loss: LossSoftmax, Window: 0}, 1)

	e.UpdateAttn2([]ContextItem{{Feature: 0, Position: 0}, {Feature: 1, Position: 0}}, 3, 0.1)

	assert.Equal(t, int64(1), e.NExamples())
}
