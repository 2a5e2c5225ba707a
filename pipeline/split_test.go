package pipeline

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classCounts(y []int, idx []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func labelBlock(counts ...int) []int {
	var y []int
	for c, n := range counts {
		for i := 0; i < n; i++ {
			y = append(y, c)
		}
	}
	return y
}

func TestStratifiedSplitPreservesClassShares(t *testing.T) {
	y := labelBlock(40, 30, 20)
	rng := rand.New(rand.NewSource(42))

	sp := StratifiedSplit(y, 3, 0.8, rng)

	assert.Equal(t, []int{32, 24, 16}, classCounts(y, sp.Train, 3))
	assert.Equal(t, []int{8, 6, 4}, classCounts(y, sp.Test, 3))

	// Every row lands exactly once.
	all := append(append([]int{}, sp.Train...), sp.Test...)
	sort.Ints(all)
	require.Len(t, all, len(y))
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestStratifiedSplitIsSeeded(t *testing.T) {
	y := labelBlock(20, 20, 20)
	a := StratifiedSplit(y, 3, 0.8, rand.New(rand.NewSource(3)))
	b := StratifiedSplit(y, 3, 0.8, rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)
}

func TestStratifiedKFoldCoversEveryRowOnce(t *testing.T) {
	y := labelBlock(25, 15, 10)
	rng := rand.New(rand.NewSource(9))

	folds := StratifiedKFold(y, 3, 5, rng)
	require.Len(t, folds, 5)

	var all []int
	for _, fold := range folds {
		all = append(all, fold...)
	}
	sort.Ints(all)
	require.Len(t, all, len(y))
	for i, v := range all {
		assert.Equal(t, i, v)
	}

	// Class spread differs by at most one row across folds.
	for c := 0; c < 3; c++ {
		min, max := len(y), 0
		for _, fold := range folds {
			n := classCounts(y, fold, 3)[c]
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		assert.LessOrEqual(t, max-min, 1)
	}
}

func TestFoldSplit(t *testing.T) {
	folds := [][]int{{0, 1}, {2, 3}, {4, 5}}
	sp := foldSplit(folds, 1)
	assert.Equal(t, []int{2, 3}, sp.Test)
	assert.ElementsMatch(t, []int{0, 1, 4, 5}, sp.Train)
}

func TestGather(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}}
	y := []int{0, 1, 2}
	gx, gy := gather(X, y, []int{2, 0})
	assert.Equal(t, [][]float64{{2}, {0}}, gx)
	assert.Equal(t, []int{2, 0}, gy)
}
