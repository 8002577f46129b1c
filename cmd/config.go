package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vecforge/vecforge/engine"
)

// Config is the full run configuration, loaded with strict field checking
// so a typo'd key fails fast instead of silently keeping a default (the
// teacher's defaults.yaml convention).
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Training   TrainingConfig   `yaml:"training"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// DataConfig points at the corpus and how it's sharded across workers.
type DataConfig struct {
	Path    string `yaml:"path"`
	Workers int    `yaml:"workers"`
}

// ModelConfig mirrors engine.Args as plain strings/ints so the YAML layer
// doesn't need engine to know about serialization.
type ModelConfig struct {
	Dim               int    `yaml:"dim"`
	ISZ               int    `yaml:"isz"`
	OSZ               int    `yaml:"osz"`
	Loss              string `yaml:"loss"`
	Supervised        bool   `yaml:"supervised"`
	Negatives         int    `yaml:"negatives"`
	Window            int    `yaml:"window"`
	NegativeTableSize int    `yaml:"negative_table_size"`
	Attention         bool   `yaml:"attention"`
}

// TrainingConfig controls the driver run.
type TrainingConfig struct {
	Epochs    int     `yaml:"epochs"`
	InitialLR float64 `yaml:"initial_lr"`
	Seed      int64   `yaml:"seed"`
}

// CheckpointConfig points at the bbolt checkpoint database. Path can be
// overridden by VECFORGE_CHECKPOINT_PATH in a .env file, the way
// 2_DATA_ENCODER overrides its endpoint from the environment rather than
// the YAML file, for secrets or machine-local paths that shouldn't be
// committed alongside the run config.
type CheckpointConfig struct {
	Path string `yaml:"path"`
}

// LoadConfig reads .env (if present) then the strict-parsed YAML config at
// path, applying any environment overrides afterward.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("cmd: no .env file found, continuing with process environment")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: read config %s: %w", path, err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cmd: parse config %s: %w", path, err)
	}

	if override := os.Getenv("VECFORGE_CHECKPOINT_PATH"); override != "" {
		cfg.Checkpoint.Path = override
	}

	return &cfg, nil
}

// EngineArgs translates the YAML-facing ModelConfig into engine.Args.
func (c *Config) EngineArgs() (engine.Args, error) {
	args := engine.Args{
		Neg:               c.Model.Negatives,
		Window:            c.Model.Window,
		NegativeTableSize: c.Model.NegativeTableSize,
	}
	if c.Model.Supervised {
		args.Model = engine.ModelSupervised
	} else {
		args.Model = engine.ModelUnsupervised
	}
	switch c.Model.Loss {
	case "negative_sampling", "":
		args.Loss = engine.LossNegativeSampling
	case "hierarchical_softmax":
		args.Loss = engine.LossHierarchicalSoftmax
	case "softmax":
		args.Loss = engine.LossSoftmax
	default:
		return engine.Args{}, fmt.Errorf("cmd: unknown loss %q", c.Model.Loss)
	}
	return args, nil
}
