package pipeline

import (
	"math"
	"math/rand"
)

// GBM is a softmax multiclass gradient-boosted ensemble of regression trees.
// Vars is the number of predictor columns each tree may split on, Trees the
// ensemble size, Rate the shrinkage applied to every tree's contribution.
type GBM struct {
	Vars     int
	Trees    int
	Rate     float64
	MaxDepth int
	MinLeaf  int

	rng     *rand.Rand
	classes int
	// ensemble[m][c] is tree m's learner for class c.
	ensemble [][]*regTree
}

// NewGBM builds an ensemble with the usual shallow-tree defaults.
func NewGBM(vars, trees int, rate float64, rng *rand.Rand) *GBM {
	return &GBM{Vars: vars, Trees: trees, Rate: rate, MaxDepth: 3, MinLeaf: 5, rng: rng}
}

// Fit boosts Trees rounds. Each round fits one tree per class on the
// softmax residuals, with a fresh feature subsample per tree, and rescales
// leaf values by the standard multiclass step size.
func (m *GBM) Fit(X [][]float64, y []int, numClasses int) {
	m.classes = numClasses
	m.ensemble = make([][]*regTree, 0, m.Trees)

	n := len(X)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	f := make([][]float64, n) // raw scores per row, per class
	for i := range f {
		f[i] = make([]float64, numClasses)
	}
	residual := make([]float64, n)
	k := float64(numClasses)

	for round := 0; round < m.Trees; round++ {
		trees := make([]*regTree, numClasses)
		for c := 0; c < numClasses; c++ {
			for i := range X {
				p := softmax(f[i])[c]
				target := 0.0
				if y[i] == c {
					target = 1
				}
				residual[i] = target - p
			}

			features := sampleFeatures(len(X[0]), m.Vars, m.rng)
			tree := fitTree(X, residual, features, m.MaxDepth, m.MinLeaf)

			// Leaf value: ((K-1)/K) * sum(r) / sum(|r|(1-|r|)).
			for leaf, rows := range tree.leaves(X, idx) {
				num, den := 0.0, 0.0
				for _, i := range rows {
					r := residual[i]
					num += r
					den += math.Abs(r) * (1 - math.Abs(r))
				}
				if den < 1e-12 {
					leaf.value = 0
				} else {
					leaf.value = (k - 1) / k * num / den
				}
			}

			for i := range X {
				f[i][c] += m.Rate * tree.predict(X[i])
			}
			trees[c] = tree
		}
		m.ensemble = append(m.ensemble, trees)
	}
}

// Proba returns softmax class probabilities for one row.
func (m *GBM) Proba(x []float64) []float64 {
	scores := make([]float64, m.classes)
	for _, trees := range m.ensemble {
		for c, tree := range trees {
			scores[c] += m.Rate * tree.predict(x)
		}
	}
	return softmax(scores)
}

// softmax is computed in shifted log space for stability.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
