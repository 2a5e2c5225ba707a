package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/loader"
)

func TestIntGrid(t *testing.T) {
	assert.Equal(t, []int{10, 133, 255, 378, 500}, intGrid(10, 500, 5))
	assert.Equal(t, []int{1, 2, 4, 5, 6}, intGrid(1, 6, 5))
	// A cramped range deduplicates after rounding.
	assert.Equal(t, []int{1, 2}, intGrid(1, 2, 5))
}

func TestLinspaceHitsBounds(t *testing.T) {
	got := linspace(-10, -1, 5)
	require.Len(t, got, 5)
	assert.Equal(t, -10.0, got[0])
	assert.Equal(t, -1.0, got[4])
}

func TestGBMGridIsFullProduct(t *testing.T) {
	cfg := &config.Config{
		GBMVarsMin: 1, GBMVarsMax: 2,
		GBMTreesMin: 10, GBMTreesMax: 20,
		GBMRateLogMin: -2, GBMRateLogMax: -1,
		GBMLevels: 2,
	}
	grid := GBMGrid(cfg)
	assert.Len(t, grid, 8)
	assert.Equal(t, 1, grid[0].Vars)
	assert.Equal(t, 10, grid[0].Trees)
	assert.InDelta(t, 0.01, grid[0].Rate, 1e-12)
	assert.Equal(t, 2, grid[7].Vars)
	assert.Equal(t, 20, grid[7].Trees)
	assert.InDelta(t, 0.1, grid[7].Rate, 1e-12)
}

func TestFingerprintTracksInputs(t *testing.T) {
	X, y := blobs(5, 2, 1)
	base := KNNFingerprint(X, y, []int{1, 3}, "accuracy", 7)

	assert.NotEqual(t, base, KNNFingerprint(X, y, []int{1, 3}, "accuracy", 8), "seed change")
	assert.NotEqual(t, base, KNNFingerprint(X, y, []int{1, 5}, "accuracy", 7), "grid change")
	assert.NotEqual(t, base, KNNFingerprint(X, y, []int{1, 3}, "roc_auc", 7), "metric change")

	X2, y2 := blobs(5, 2, 2)
	assert.NotEqual(t, base, KNNFingerprint(X2, y2, []int{1, 3}, "accuracy", 7), "data change")

	assert.Equal(t, base, KNNFingerprint(X, y, []int{1, 3}, "accuracy", 7), "deterministic")
}

func TestSearchKNNPicksBestCandidate(t *testing.T) {
	X, y := blobs(15, 2, 6)
	res := SearchKNN(X, y, 3, []int{1, 3, 5}, "accuracy", 11)

	require.Len(t, res.Candidates, 3)
	for _, c := range res.Candidates {
		assert.LessOrEqual(t, c.Score, res.Best.Score)
	}
	assert.Equal(t, "accuracy", res.Metric)
	// Separable blobs classify essentially perfectly at any small k.
	assert.GreaterOrEqual(t, res.Best.Score, 0.95)
}

func TestSearchIsDeterministic(t *testing.T) {
	X, y := blobs(10, 2, 6)
	a := SearchKNN(X, y, 3, []int{1, 3}, "roc_auc", 11)
	b := SearchKNN(X, y, 3, []int{1, 3}, "roc_auc", 11)
	assert.Equal(t, a, b)
}

func TestSearchCacheRoundTrip(t *testing.T) {
	X, y := blobs(10, 2, 6)
	res := SearchKNN(X, y, 3, []int{1, 3}, "accuracy", 11)

	path := filepath.Join(t.TempDir(), "knn_search.json")
	require.NoError(t, SaveSearch(path, res))

	got, err := LoadSearch(path, res.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestLoadSearchMissingFile(t *testing.T) {
	_, err := LoadSearch(filepath.Join(t.TempDir(), "nope.json"), 1)
	assert.ErrorIs(t, err, loader.ErrSourceUnavailable)
}

func TestLoadSearchStaleFingerprint(t *testing.T) {
	X, y := blobs(10, 2, 6)
	res := SearchKNN(X, y, 3, []int{1, 3}, "accuracy", 11)

	path := filepath.Join(t.TempDir(), "knn_search.json")
	require.NoError(t, SaveSearch(path, res))

	_, err := LoadSearch(path, res.Fingerprint+1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, loader.ErrSourceUnavailable,
		"a stale cache is present but unusable, not missing")
}
