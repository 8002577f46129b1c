package corpus

import "fmt"

// CountTargets scans every record in path once and tallies how often each
// class appears as a target, the unigram counts BuildHuffmanTree and
// BuildNegativeTable both need. osz bounds the returned slice; a target
// outside [0, osz) is a corrupt shard and fails the scan rather than
// silently growing the table.
func CountTargets(path string, osz int) ([]int64, error) {
	r, err := NewShardReader(path, 0, 1)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	counts := make([]int64, osz)
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("corpus: count targets in %s: %w", path, err)
		}
		if !ok {
			break
		}
		if rec.Target < 0 || int(rec.Target) >= osz {
			return nil, fmt.Errorf("corpus: target %d out of range [0,%d) in %s", rec.Target, osz, path)
		}
		counts[rec.Target]++
	}
	return counts, nil
}
