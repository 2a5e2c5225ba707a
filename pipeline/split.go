package pipeline

import "math/rand"

// Split holds row indices for one train/evaluation partition.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows into train/test with the given train
// fraction, preserving the class distribution. Shuffling is seeded by the
// caller's rng so the split is reproducible.
func StratifiedSplit(y []int, numClasses int, trainFrac float64, rng *rand.Rand) Split {
	var sp Split
	for c := 0; c < numClasses; c++ {
		var idx []int
		for i, cls := range y {
			if cls == c {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		cut := int(float64(len(idx)) * trainFrac)
		sp.Train = append(sp.Train, idx[:cut]...)
		sp.Test = append(sp.Test, idx[cut:]...)
	}
	rng.Shuffle(len(sp.Train), func(i, j int) { sp.Train[i], sp.Train[j] = sp.Train[j], sp.Train[i] })
	rng.Shuffle(len(sp.Test), func(i, j int) { sp.Test[i], sp.Test[j] = sp.Test[j], sp.Test[i] })
	return sp
}

// StratifiedKFold assigns rows to k folds, keeping each class spread evenly
// across folds. The result holds, per fold, the validation indices; the
// training indices of fold f are every other fold's rows.
func StratifiedKFold(y []int, numClasses, k int, rng *rand.Rand) [][]int {
	folds := make([][]int, k)
	for c := 0; c < numClasses; c++ {
		var idx []int
		for i, cls := range y {
			if cls == c {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for n, i := range idx {
			folds[n%k] = append(folds[n%k], i)
		}
	}
	return folds
}

// foldSplit returns the train/validation index split for fold f.
func foldSplit(folds [][]int, f int) Split {
	var sp Split
	for i, fold := range folds {
		if i == f {
			sp.Test = append(sp.Test, fold...)
		} else {
			sp.Train = append(sp.Train, fold...)
		}
	}
	return sp
}

// gather selects the given rows of X and y.
func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	gx := make([][]float64, len(idx))
	gy := make([]int, len(idx))
	for n, i := range idx {
		gx[n] = X[i]
		gy[n] = y[i]
	}
	return gx, gy
}
