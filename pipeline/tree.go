package pipeline

import (
	"math/rand"
	"sort"
)

// regTree is a depth-limited least-squares regression tree used as the weak
// learner inside the boosted ensemble. Each tree considers only a random
// subset of predictor columns.
type regTree struct {
	feature int
	cutoff  float64
	value   float64
	left    *regTree
	right   *regTree
}

func (t *regTree) isLeaf() bool { return t.left == nil }

// fitTree grows a tree on (X, target) restricted to the given feature
// columns.
func fitTree(X [][]float64, target []float64, features []int, maxDepth, minLeaf int) *regTree {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return growTree(X, target, idx, features, maxDepth, minLeaf)
}

func growTree(X [][]float64, target []float64, idx, features []int, depth, minLeaf int) *regTree {
	node := &regTree{value: meanAt(target, idx)}
	if depth == 0 || len(idx) < 2*minLeaf {
		return node
	}

	bestGain := 0.0
	bestFeature, bestCut := -1, 0.0
	baseSSE := sseAt(target, idx, node.value)

	for _, f := range features {
		vals := make([]float64, len(idx))
		for n, i := range idx {
			vals[n] = X[i][f]
		}
		sort.Float64s(vals)
		for n := minLeaf; n <= len(vals)-minLeaf; n++ {
			if vals[n] == vals[n-1] {
				continue
			}
			cut := (vals[n] + vals[n-1]) / 2
			gain := baseSSE - splitSSE(X, target, idx, f, cut)
			if gain > bestGain {
				bestGain, bestFeature, bestCut = gain, f, cut
			}
		}
	}
	if bestFeature < 0 {
		return node
	}

	var li, ri []int
	for _, i := range idx {
		if X[i][bestFeature] < bestCut {
			li = append(li, i)
		} else {
			ri = append(ri, i)
		}
	}
	if len(li) < minLeaf || len(ri) < minLeaf {
		return node
	}
	node.feature = bestFeature
	node.cutoff = bestCut
	node.left = growTree(X, target, li, features, depth-1, minLeaf)
	node.right = growTree(X, target, ri, features, depth-1, minLeaf)
	return node
}

func (t *regTree) predict(x []float64) float64 {
	for !t.isLeaf() {
		if x[t.feature] < t.cutoff {
			t = t.left
		} else {
			t = t.right
		}
	}
	return t.value
}

// leaves walks rows into their leaves, grouping row indexes by leaf. Used to
// recompute leaf values with the multiclass boosting step size.
func (t *regTree) leaves(X [][]float64, idx []int) map[*regTree][]int {
	out := map[*regTree][]int{}
	for _, i := range idx {
		node := t
		for !node.isLeaf() {
			if X[i][node.feature] < node.cutoff {
				node = node.left
			} else {
				node = node.right
			}
		}
		out[node] = append(out[node], i)
	}
	return out
}

func meanAt(v []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	s := 0.0
	for _, i := range idx {
		s += v[i]
	}
	return s / float64(len(idx))
}

func sseAt(v []float64, idx []int, mean float64) float64 {
	s := 0.0
	for _, i := range idx {
		d := v[i] - mean
		s += d * d
	}
	return s
}

func splitSSE(X [][]float64, target []float64, idx []int, f int, cut float64) float64 {
	var li, ri []int
	for _, i := range idx {
		if X[i][f] < cut {
			li = append(li, i)
		} else {
			ri = append(ri, i)
		}
	}
	return sseAt(target, li, meanAt(target, li)) + sseAt(target, ri, meanAt(target, ri))
}

// sampleFeatures draws n distinct column indexes, clamped to the column
// count.
func sampleFeatures(numCols, n int, rng *rand.Rand) []int {
	if n > numCols {
		n = numCols
	}
	perm := rng.Perm(numCols)
	features := perm[:n]
	sort.Ints(features)
	return features
}
