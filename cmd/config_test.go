package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecforge/vecforge/engine"
)

const sampleConfig = `
data:
  path: /tmp/corpus.parquet
  workers: 4
model:
  dim: 100
  isz: 5000
  osz: 5000
  loss: hierarchical_softmax
  window: 5
  attention: true
training:
  epochs: 5
  initial_lr: 0.05
  seed: 1
checkpoint:
  path: /tmp/model.db
`

func TestLoadConfigParsesStrictYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Data.Workers)
	assert.Equal(t, 100, cfg.Model.Dim)
	assert.Equal(t, "hierarchical_softmax", cfg.Model.Loss)

	args, err := cfg.EngineArgs()
	require.NoError(t, err)
	assert.Equal(t, engine.LossHierarchicalSoftmax, args.Loss)
	assert.Equal(t, 5, args.Window)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  bogus_field: true\n"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEngineArgsRejectsUnknownLoss(t *testing.T) {
	cfg := &Config{Model: ModelConfig{Loss: "bogus"}}
	_, err := cfg.EngineArgs()
	assert.Error(t, err)
}

func TestParseFeatureListParsesCommaSeparatedIDs(t *testing.T) {
	got, err := parseFeatureList(" 1, 2,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, got)

	_, err = parseFeatureList("")
	assert.Error(t, err)

	_, err = parseFeatureList("x")
	assert.Error(t, err)
}
