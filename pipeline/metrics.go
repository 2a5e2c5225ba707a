package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Accuracy is the share of rows whose highest-probability class matches the
// truth.
func Accuracy(y []int, proba [][]float64) float64 {
	if len(y) == 0 {
		return 0
	}
	correct := 0
	for i, p := range proba {
		if argmax(p) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

// MacroAUC averages one-vs-rest ROC-AUC over the classes. A class with no
// positives or no negatives in y has no defined curve and is left out of the
// average.
func MacroAUC(y []int, proba [][]float64, numClasses int) float64 {
	total, counted := 0.0, 0
	for c := 0; c < numClasses; c++ {
		auc, ok := binaryAUC(y, proba, c)
		if ok {
			total += auc
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// binaryAUC computes one-vs-rest AUC for class c via gonum's ROC curve and
// trapezoidal integration.
func binaryAUC(y []int, proba [][]float64, c int) (float64, bool) {
	n := len(y)
	scores := make([]float64, n)
	classes := make([]bool, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return proba[order[a]][c] < proba[order[b]][c] })

	pos := 0
	for k, i := range order {
		scores[k] = proba[i][c]
		classes[k] = y[i] == c
		if classes[k] {
			pos++
		}
	}
	if pos == 0 || pos == n {
		return 0, false
	}
	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), true
}

func argmax(p []float64) int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}
