package cmd

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vecforge/vecforge/checkpoint"
	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/driver"
	"github.com/vecforge/vecforge/engine"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model from a sharded Parquet corpus",
	RunE: func(cmd *cobra.Command, cliArgs []string) error {
		setupLogging()

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		return runTrain(cfg)
	},
}

func runTrain(cfg *Config) error {
	args, err := cfg.EngineArgs()
	if err != nil {
		return err
	}
	if cfg.Model.Dim <= 0 || cfg.Model.OSZ <= 0 {
		return fmt.Errorf("cmd: model.dim and model.osz must be positive")
	}
	isz := cfg.Model.ISZ
	if isz == 0 {
		isz = cfg.Model.OSZ
	}
	if cfg.Data.Workers <= 0 {
		return fmt.Errorf("cmd: data.workers must be positive")
	}

	logrus.WithFields(logrus.Fields{
		"dim": cfg.Model.Dim, "isz": isz, "osz": cfg.Model.OSZ, "workers": cfg.Data.Workers,
	}).Info("cmd: initializing model")

	wi := engine.NewMatrix(isz, cfg.Model.Dim)
	attnCols := 1
	if cfg.Model.Attention {
		attnCols = 2*cfg.Model.Window + 1
	}
	attn := engine.NewMatrix(isz, attnCols)
	bias := engine.NewVector(attnCols)

	// wi_ and attn_ start small-uniform in [-1/dim, 1/dim); wo_ and bias_ start at zero.
	rng := rand.New(rand.NewSource(cfg.Training.Seed))
	bound := 1.0 / float64(cfg.Model.Dim)
	for _, m := range []*engine.Matrix{wi, attn} {
		for r := 0; r < m.Rows(); r++ {
			for c := 0; c < m.Cols(); c++ {
				m.Set(r, c, (2*rng.Float64()-1)*bound)
			}
		}
	}

	var wo *engine.Matrix
	if args.Loss == engine.LossHierarchicalSoftmax {
		wo = engine.NewMatrix(cfg.Model.OSZ-1, cfg.Model.Dim)
	} else {
		wo = engine.NewMatrix(cfg.Model.OSZ, cfg.Model.Dim)
	}

	var counts []int64
	if args.Loss != engine.LossSoftmax {
		logrus.Info("cmd: scanning corpus for target class counts")
		counts, err = corpus.CountTargets(cfg.Data.Path, cfg.Model.OSZ)
		if err != nil {
			return fmt.Errorf("cmd: count targets: %w", err)
		}
	}

	shards := make([]*corpus.ShardReader, cfg.Data.Workers)
	for w := 0; w < cfg.Data.Workers; w++ {
		r, err := corpus.NewShardReader(cfg.Data.Path, w, cfg.Data.Workers)
		if err != nil {
			return fmt.Errorf("cmd: open shard %d: %w", w, err)
		}
		shards[w] = r
	}
	defer func() {
		for _, s := range shards {
			s.Close()
		}
	}()

	driverCfg := driver.Config{
		Workers:   cfg.Data.Workers,
		Epochs:    cfg.Training.Epochs,
		InitialLR: cfg.Training.InitialLR,
		Seed:      cfg.Training.Seed,
		Log:       logrus.StandardLogger(),
	}

	report, err := driver.Run(context.Background(), driverCfg, args, counts, shards, wi, wo, attn, bias)
	if err != nil {
		return fmt.Errorf("cmd: training run: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"examples": report.Examples, "mean_loss": report.MeanLoss,
	}).Info("cmd: training complete")

	if cfg.Checkpoint.Path != "" {
		store, err := checkpoint.Open(cfg.Checkpoint.Path)
		if err != nil {
			return fmt.Errorf("cmd: open checkpoint: %w", err)
		}
		defer store.Close()
		if err := store.Save(report.Examples, wi, wo, attn, bias); err != nil {
			return fmt.Errorf("cmd: save checkpoint: %w", err)
		}
		logrus.WithField("path", cfg.Checkpoint.Path).Info("cmd: checkpoint saved")
	}

	return nil
}
