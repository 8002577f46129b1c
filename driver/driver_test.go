package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/engine"
)

func writeFixture(t *testing.T, path string, n int) {
	t.Helper()
	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(corpus.TrainingRecord), 1)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		rec := corpus.TrainingRecord{
			InputFeatures: []int32{int32(i % 3), int32((i + 1) % 3)},
			Target:        int32(i % 4),
		}
		require.NoError(t, pw.Write(rec))
	}
	require.NoError(t, pw.WriteStop())
}

func TestRunConsumesAllShardRecordsAcrossEpochs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.parquet")
	writeFixture(t, path, 20)

	const workers = 2
	var shards []*corpus.ShardReader
	for w := 0; w < workers; w++ {
		r, err := corpus.NewShardReader(path, w, workers)
		require.NoError(t, err)
		defer r.Close()
		shards = append(shards, r)
	}

	wi := engine.NewMatrix(3, 4)
	wo := engine.NewMatrix(4, 4)
	attn := engine.NewMatrix(3, 1)
	bias := engine.NewVector(1)

	cfg := Config{Workers: workers, Epochs: 3, InitialLR: 0.05, Seed: 7}
	args := engine.Args{Loss: engine.LossNegativeSampling, Model: engine.ModelUnsupervised, Neg: 2, NegativeTableSize: 1000}
	counts := []int64{5, 3, 1, 1}

	report, err := Run(context.Background(), cfg, args, counts, shards, wi, wo, attn, bias)
	require.NoError(t, err)
	assert.Equal(t, int64(20*3), report.Examples)
	assert.GreaterOrEqual(t, report.MeanLoss, 0.0)
}

func TestRunRejectsWorkerShardMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.parquet")
	writeFixture(t, path, 4)

	r, err := corpus.NewShardReader(path, 0, 1)
	require.NoError(t, err)
	defer r.Close()

	wi := engine.NewMatrix(3, 2)
	wo := engine.NewMatrix(4, 2)
	attn := engine.NewMatrix(3, 1)
	bias := engine.NewVector(1)

	cfg := Config{Workers: 2, Epochs: 1, InitialLR: 0.05}
	args := engine.Args{Loss: engine.LossSoftmax}
	_, err = Run(context.Background(), cfg, args, nil, []*corpus.ShardReader{r}, wi, wo, attn, bias)
	assert.Error(t, err)
}

func TestSeedForIsDeterministicAndDistinctPerWorker(t *testing.T) {
	a := SeedFor(42, 0)
	b := SeedFor(42, 1)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, SeedFor(42, 0))
}
