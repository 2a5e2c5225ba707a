package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs builds three well-separated clusters, n rows per class, dims columns.
func blobs(n, dims int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	centers := []float64{0, 6, 12}
	var X [][]float64
	var y []int
	for c, center := range centers {
		for i := 0; i < n; i++ {
			row := make([]float64, dims)
			for j := range row {
				row[j] = center + rng.NormFloat64()*0.5
			}
			X = append(X, row)
			y = append(y, c)
		}
	}
	return X, y
}

func TestKNNClassifiesSeparableBlobs(t *testing.T) {
	X, y := blobs(20, 2, 1)
	m := &KNN{K: 3}
	m.Fit(X, y, 3)

	proba := probaAll(m, X)
	assert.InDelta(t, 1.0, Accuracy(y, proba), 1e-12)
}

func TestKNNProbaIsVoteShare(t *testing.T) {
	X := [][]float64{{0}, {0.1}, {10}}
	y := []int{0, 0, 1}
	m := &KNN{K: 3}
	m.Fit(X, y, 2)

	p := m.Proba([]float64{0})
	require.Len(t, p, 2)
	assert.InDelta(t, 2.0/3.0, p[0], 1e-12)
	assert.InDelta(t, 1.0/3.0, p[1], 1e-12)

	sum := p[0] + p[1]
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestKNNClampsKToTrainingSize(t *testing.T) {
	X := [][]float64{{0}, {1}}
	y := []int{0, 1}
	m := &KNN{K: 500}
	m.Fit(X, y, 2)

	p := m.Proba([]float64{0})
	assert.InDelta(t, 0.5, p[0], 1e-12)
	assert.InDelta(t, 0.5, p[1], 1e-12)
}
