// Package corpus reads pre-tokenized training examples out of sharded
// Parquet files. Each row is one (context, target) pair; the feature and
// context-position columns use Parquet's LIST convention the way
// guiperry-HASHER's 2_DATA_ENCODER schema tags its embedding column.
package corpus

import "github.com/vecforge/vecforge/engine"

// TrainingRecord is one row of a training shard: the bag-of-features input
// used by Update, the target class, and - when the engine runs in
// attention mode - the positional context pairs UpdateAttn/UpdateAttn2
// need instead of the plain input slice.
type TrainingRecord struct {
	InputFeatures    []int32 `parquet:"name=input_features, type=LIST, valuetype=INT32"`
	Target           int32   `parquet:"name=target, type=INT32"`
	ContextFeatures  []int32 `parquet:"name=context_features, type=LIST, valuetype=INT32"`
	ContextPositions []int32 `parquet:"name=context_positions, type=LIST, valuetype=INT32"`
}

// ContextItems pairs ContextFeatures with ContextPositions into the
// engine's []ContextItem shape. Malformed shards (mismatched lengths)
// yield fewer items rather than panicking; the caller decides whether a
// short record is fatal.
func (r *TrainingRecord) ContextItems() []engine.ContextItem {
	n := len(r.ContextFeatures)
	if len(r.ContextPositions) < n {
		n = len(r.ContextPositions)
	}
	items := make([]engine.ContextItem, n)
	for i := 0; i < n; i++ {
		items[i] = engine.ContextItem{Feature: r.ContextFeatures[i], Position: r.ContextPositions[i]}
	}
	return items
}
