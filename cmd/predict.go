package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vecforge/vecforge/checkpoint"
	"github.com/vecforge/vecforge/corpus"
	"github.com/vecforge/vecforge/engine"
)

var (
	predictInput string
	predictTopK  int
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the top-k classes for a comma-separated feature list",
	RunE: func(cmd *cobra.Command, cliArgs []string) error {
		setupLogging()

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		input, err := parseFeatureList(predictInput)
		if err != nil {
			return err
		}
		return runPredict(cfg, input)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictInput, "input", "", "Comma-separated input feature ids")
	predictCmd.Flags().IntVar(&predictTopK, "k", 5, "Number of predictions to return")
	predictCmd.MarkFlagRequired("input")
}

func parseFeatureList(s string) ([]int32, error) {
	fields := strings.Split(s, ",")
	out := make([]int32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cmd: invalid feature id %q: %w", f, err)
		}
		out = append(out, int32(n))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("cmd: --input must name at least one feature id")
	}
	return out, nil
}

func runPredict(cfg *Config, input []int32) error {
	args, err := cfg.EngineArgs()
	if err != nil {
		return err
	}
	if cfg.Checkpoint.Path == "" {
		return fmt.Errorf("cmd: checkpoint.path is required for predict")
	}

	store, err := checkpoint.Open(cfg.Checkpoint.Path)
	if err != nil {
		return fmt.Errorf("cmd: open checkpoint: %w", err)
	}
	defer store.Close()

	wi, wo, attn, bias, step, err := store.Load()
	if err != nil {
		return fmt.Errorf("cmd: load checkpoint: %w", err)
	}
	logrus.WithField("step", step).Info("cmd: checkpoint loaded")

	e := engine.New(wi, wo, attn, bias, args, cfg.Training.Seed)

	if args.Loss == engine.LossHierarchicalSoftmax {
		counts, err := corpus.CountTargets(cfg.Data.Path, cfg.Model.OSZ)
		if err != nil {
			return fmt.Errorf("cmd: rebuild class counts for hierarchical softmax: %w", err)
		}
		e.SetTargetCounts(counts)
	}

	results := e.Predict(input, predictTopK)
	for rank, c := range results {
		fmt.Printf("%d. class=%d score=%.6f\n", rank+1, c.Class, c.Score)
	}
	return nil
}
