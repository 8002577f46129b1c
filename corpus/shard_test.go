package corpus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

func writeFixture(t *testing.T, path string, records []TrainingRecord) {
	t.Helper()
	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(TrainingRecord), 1)
	require.NoError(t, err)
	for i := range records {
		require.NoError(t, pw.Write(records[i]))
	}
	require.NoError(t, pw.WriteStop())
}

func TestShardReaderReadsOnlyItsOwnRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard.parquet")
	var records []TrainingRecord
	for i := int32(0); i < 10; i++ {
		records = append(records, TrainingRecord{
			InputFeatures:    []int32{i, i + 1},
			Target:           i,
			ContextFeatures:  []int32{i},
			ContextPositions: []int32{0},
		})
	}
	writeFixture(t, path, records)

	var gotShard0, gotShard1 []int32
	for shard := 0; shard < 2; shard++ {
		r, err := NewShardReader(path, shard, 2)
		require.NoError(t, err)
		for {
			rec, ok, err := r.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			if shard == 0 {
				gotShard0 = append(gotShard0, rec.Target)
			} else {
				gotShard1 = append(gotShard1, rec.Target)
			}
		}
		require.NoError(t, r.Close())
	}

	assert.Equal(t, []int32{0, 2, 4, 6, 8}, gotShard0)
	assert.Equal(t, []int32{1, 3, 5, 7, 9}, gotShard1)
}

func TestShardReaderResetReplaysFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard.parquet")
	writeFixture(t, path, []TrainingRecord{
		{InputFeatures: []int32{1}, Target: 0},
		{InputFeatures: []int32{2}, Target: 1},
	})

	r, err := NewShardReader(path, 0, 1)
	require.NoError(t, err)
	defer r.Close()

	var first []int32
	for {
		rec, ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		first = append(first, rec.Target)
	}
	require.NoError(t, r.Reset())

	var second []int32
	for {
		rec, ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		second = append(second, rec.Target)
	}

	assert.Equal(t, first, second)
}

func TestShardReaderRejectsInvalidShardArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shard.parquet")
	writeFixture(t, path, []TrainingRecord{{InputFeatures: []int32{1}, Target: 1}})

	_, err := NewShardReader(path, 0, 0)
	assert.Error(t, err)

	_, err = NewShardReader(path, 5, 2)
	assert.Error(t, err)
}

func TestContextItemsTruncatesToShorterSlice(t *testing.T) {
	r := &TrainingRecord{
		ContextFeatures:  []int32{1, 2, 3},
		ContextPositions: []int32{-1, 0},
	}
	items := r.ContextItems()
	require.Len(t, items, 2)
	assert.Equal(t, int32(1), items[0].Feature)
	assert.Equal(t, int32(-1), items[0].Position)
}
