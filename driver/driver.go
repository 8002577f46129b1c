// Package driver runs Hogwild-style concurrent SGD training over sharded
// corpus data. It owns worker lifecycle, learning-rate decay, progress
// reporting, and per-worker RNG isolation; the engine package itself stays
// single-threaded and unaware that other goroutines are touching the same
// matrices concurrently.
package driver

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/engine"
)

// Config controls one training run.
type Config struct {
	Workers   int
	Epochs    int
	InitialLR float64
	Seed      int64
	Log       *logrus.Logger
}

// Report summarizes a completed run: total examples consumed and the mean
// per-example loss across all workers, matching engine.GetLoss's
// accumulate-then-average contract but pooled over the whole fleet.
type Report struct {
	Examples int64
	MeanLoss float64
}

// subsystemSeed derives a worker's RNG seed from the run seed the same way
// the teacher's PartitionedRNG isolates subsystems: master seed XOR the
// FNV-1a hash of the subsystem name, here "worker_<n>".
func subsystemSeed(master int64, worker int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "worker_%d", worker)
	return master ^ int64(h.Sum64())
}

// Run fans Config.Workers goroutines out over shards, each driving its own
// engine.EngineState against the shared wi/wo/attn/bias matrices with no
// locking (Hogwild!). All workers share one Huffman tree / negative table,
// built once by worker 0 and handed to the rest via ShareTargetCounts so
// every worker samples from the identical structure.
func Run(ctx context.Context, cfg Config, args engine.Args, counts []int64, shards []*corpus.ShardReader, wi, wo, attn *engine.Matrix, bias *engine.Vector) (*Report, error) {
	if len(shards) == 0 {
		return nil, fmt.Errorf("driver: no shards to train on")
	}
	if cfg.Workers != len(shards) {
		return nil, fmt.Errorf("driver: Workers (%d) must equal len(shards) (%d); shards are pre-partitioned one per worker", cfg.Workers, len(shards))
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	engines := make([]*engine.EngineState, len(shards))
	for i := range shards {
		engines[i] = engine.New(wi, wo, attn, bias, args, subsystemSeed(cfg.Seed, i))
	}
	if len(counts) > 0 {
		engines[0].SetTargetCounts(counts)
		for i := 1; i < len(engines); i++ {
			engines[i].ShareTargetCounts(engines[0])
		}
	}

	var examples int64

	progress := mpb.New(mpb.WithWidth(64))
	totalShards := int64(len(shards))
	bar := progress.AddBar(totalShards*int64(cfg.Epochs),
		mpb.PrependDecorators(
			decor.Name("training: "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		decay := 1.0 - float64(epoch)/float64(cfg.Epochs)
		lr := cfg.InitialLR * decay
		if lr < cfg.InitialLR*1e-4 {
			lr = cfg.InitialLR * 1e-4
		}

		if epoch > 0 {
			for _, shard := range shards {
				if err := shard.Reset(); err != nil {
					return nil, fmt.Errorf("driver: rewind shard for epoch %d: %w", epoch, err)
				}
			}
		}

		var wg sync.WaitGroup
		for i, shard := range shards {
			wg.Add(1)
			go func(i int, shard *corpus.ShardReader) {
				defer wg.Done()
				defer bar.Increment()

				e := engines[i]
				for {
					select {
					case <-ctx.Done():
						return
					default:
					}
					rec, ok, err := shard.Next()
					if err != nil {
						log.WithError(err).WithField("worker", i).Error("driver: shard read failed")
						return
					}
					if !ok {
						return
					}

					if items := rec.ContextItems(); len(items) > 0 {
						e.UpdateAttn(items, rec.Target, lr)
					} else {
						e.Update(rec.InputFeatures, rec.Target, lr)
					}
					atomic.AddInt64(&examples, 1)
				}
			}(i, shard)
		}
		wg.Wait()
		log.WithFields(logrus.Fields{"epoch": epoch, "lr": lr}).Info("driver: epoch complete")
	}
	progress.Wait()

	var totalLoss float64
	for _, e := range engines {
		totalLoss += e.GetLoss() * float64(e.NExamples())
	}

	report := &Report{Examples: atomic.LoadInt64(&examples)}
	if report.Examples > 0 {
		report.MeanLoss = totalLoss / float64(report.Examples)
	}
	return report, nil
}

// SeedFor exposes subsystemSeed's derivation for callers that want to
// reproduce a specific worker's RNG outside of Run (e.g. tests asserting
// determinism).
func SeedFor(master int64, worker int) int64 {
	return subsystemSeed(master, worker)
}
