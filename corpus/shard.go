package corpus

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

// shardParallelism is the goroutine count parquet-go's reader uses
// internally to decode column chunks; the corpus reader itself is
// single-goroutine per shard, so this only bounds decode fan-out.
const shardParallelism = 4

// ShardReader streams TrainingRecords out of one Parquet file, skipping
// rows that don't belong to this worker's shard. Splitting by row index
// modulo the shard count - rather than splitting the file list itself -
// lets a single large Parquet file still be divided across every worker,
// which matches how 3_DATA_TRAINER's ingestion cursor advances row by row
// rather than file by file.
type ShardReader struct {
	path      string
	fr        *local.LocalFileReader
	pr        *reader.ParquetReader
	shard     int
	numShards int
	cursor    int64
	numRows   int64
}

// NewShardReader opens path and positions the reader to serve every row
// whose index modulo numShards equals shard.
func NewShardReader(path string, shard, numShards int) (*ShardReader, error) {
	if numShards <= 0 {
		return nil, fmt.Errorf("corpus: numShards must be positive, got %d", numShards)
	}
	if shard < 0 || shard >= numShards {
		return nil, fmt.Errorf("corpus: shard %d out of range [0,%d)", shard, numShards)
	}

	fr, pr, err := openParquet(path)
	if err != nil {
		return nil, err
	}

	return &ShardReader{
		path:      path,
		fr:        fr,
		pr:        pr,
		shard:     shard,
		numShards: numShards,
		numRows:   pr.GetNumRows(),
	}, nil
}

func openParquet(path string) (*local.LocalFileReader, *reader.ParquetReader, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	pr, err := reader.NewParquetReader(fr, new(TrainingRecord), shardParallelism)
	if err != nil {
		fr.Close()
		return nil, nil, fmt.Errorf("corpus: open parquet reader for %s: %w", path, err)
	}
	return fr, pr, nil
}

// Reset rewinds the shard to its first row, so a multi-epoch training run
// can replay the same shard. parquet-go's reader only reads forward, so
// rewinding means reopening the file rather than seeking.
func (s *ShardReader) Reset() error {
	s.pr.ReadStop()
	if err := s.fr.Close(); err != nil {
		return fmt.Errorf("corpus: close %s for reset: %w", s.path, err)
	}
	fr, pr, err := openParquet(s.path)
	if err != nil {
		return err
	}
	s.fr = fr
	s.pr = pr
	s.cursor = 0
	return nil
}

// Close releases the underlying file handle.
func (s *ShardReader) Close() error {
	s.pr.ReadStop()
	return s.fr.Close()
}

// Next returns the next record belonging to this shard, advancing past
// rows owned by other shards. The second return is false once the file is
// exhausted.
func (s *ShardReader) Next() (*TrainingRecord, bool, error) {
	for s.cursor < s.numRows {
		rows := make([]TrainingRecord, 1)
		if err := s.pr.Read(&rows); err != nil {
			return nil, false, fmt.Errorf("corpus: read row %d: %w", s.cursor, err)
		}
		idx := s.cursor
		s.cursor++
		if idx%int64(s.numShards) != int64(s.shard) {
			continue
		}
		return &rows[0], true, nil
	}
	return nil, false, nil
}
