package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecforge/vecforge/engine"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "model.db"))
	require.NoError(t, err)
	defer s.Close()

	wi := engine.NewMatrixFromData(2, 3, []float64{1, 2, 3, 4, 5, 6})
	wo := engine.NewMatrixFromData(2, 3, []float64{7, 8, 9, 10, 11, 12})
	attn := engine.NewMatrixFromData(2, 1, []float64{0.5, -0.5})
	bias := engine.NewVectorFromData([]float64{1.25, -1.25})

	require.NoError(t, s.Save(42, wi, wo, attn, bias))

	gotWi, gotWo, gotAttn, gotBias, step, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), step)
	for r := 0; r < wi.Rows(); r++ {
		assert.Equal(t, wi.Row(r), gotWi.Row(r))
		assert.Equal(t, wo.Row(r), gotWo.Row(r))
		assert.Equal(t, attn.Row(r), gotAttn.Row(r))
	}
	assert.Equal(t, bias.Data(), gotBias.Data())
}

func TestLoadWithoutSaveFails(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "empty.db"))
	require.NoError(t, err)
	defer s.Close()

	_, _, _, _, _, err = s.Load()
	assert.Error(t, err)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "model.db"))
	require.NoError(t, err)
	defer s.Close()

	wi := engine.NewMatrixFromData(1, 2, []float64{1, 2})
	wo := engine.NewMatrixFromData(1, 2, []float64{3, 4})
	attn := engine.NewMatrixFromData(1, 1, []float64{0})
	bias := engine.NewVectorFromData([]float64{0})
	require.NoError(t, s.Save(1, wi, wo, attn, bias))

	wi2 := engine.NewMatrixFromData(1, 2, []float64{9, 9})
	require.NoError(t, s.Save(2, wi2, wo, attn, bias))

	gotWi, _, _, _, step, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(2), step)
	assert.Equal(t, []float64{9, 9}, gotWi.Row(0))
}
