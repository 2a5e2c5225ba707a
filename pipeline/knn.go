package pipeline

import "sort"

// KNN is a brute-force nearest-neighbor classifier over standardized
// predictors. Probabilities are neighbor vote shares.
type KNN struct {
	K int

	x       [][]float64
	y       []int
	classes int
}

// Fit memorizes the training fold.
func (m *KNN) Fit(X [][]float64, y []int, numClasses int) {
	m.x = X
	m.y = y
	m.classes = numClasses
}

// Proba returns the class vote shares among the K nearest training rows.
// K is clamped to the training size.
func (m *KNN) Proba(x []float64) []float64 {
	k := m.K
	if k > len(m.x) {
		k = len(m.x)
	}

	type neighbor struct {
		dist float64
		y    int
	}
	nbs := make([]neighbor, len(m.x))
	for i, row := range m.x {
		nbs[i] = neighbor{dist: sqDist(x, row), y: m.y[i]}
	}
	sort.Slice(nbs, func(a, b int) bool { return nbs[a].dist < nbs[b].dist })

	votes := make([]float64, m.classes)
	for _, nb := range nbs[:k] {
		votes[nb.y]++
	}
	for c := range votes {
		votes[c] /= float64(k)
	}
	return votes
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
