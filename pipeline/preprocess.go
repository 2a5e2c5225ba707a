// Package pipeline fits and compares two 3-class outcome classifiers over
// the assembled feature table: a nearest-neighbor model and a gradient
// boosted tree ensemble, each tuned by stratified cross-validated grid
// search.
package pipeline

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Scaler centers and scales each column with statistics learned from the
// training fold. The learned parameters are reused verbatim on evaluation
// folds; refitting there would invalidate the metrics.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// Fit learns per-column mean and standard deviation.
func (s *Scaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	nCols := len(X[0])
	s.Mean = make([]float64, nCols)
	s.Scale = make([]float64, nCols)
	col := make([]float64, len(X))
	for j := 0; j < nCols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if sd == 0 {
			sd = 1 // constant column: centering is all that can be done
		}
		s.Scale[j] = sd
	}
}

// Transform applies the learned parameters, returning a new matrix.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = r
	}
	return out
}

// Encoder dummy-encodes nominal predictor columns, learning the level set
// from the training fold. Numeric columns pass through unchanged. The
// selected match predictors are all numeric, so today this is an identity
// stage, but the pipeline stays generic.
type Encoder struct {
	Nominal []int
	levels  [][]float64
}

// Fit records the distinct values of each nominal column, in first-seen
// order on the training fold.
func (e *Encoder) Fit(X [][]float64) {
	e.levels = make([][]float64, len(e.Nominal))
	for k, j := range e.Nominal {
		seen := map[float64]bool{}
		for i := range X {
			v := X[i][j]
			if !seen[v] {
				seen[v] = true
				e.levels[k] = append(e.levels[k], v)
			}
		}
	}
}

// Transform replaces each nominal column with its indicator columns. A level
// unseen during Fit encodes as all zeros.
func (e *Encoder) Transform(X [][]float64) [][]float64 {
	if len(e.Nominal) == 0 {
		return X
	}
	nominal := map[int]int{}
	for k, j := range e.Nominal {
		nominal[j] = k
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		var r []float64
		for j, v := range row {
			k, ok := nominal[j]
			if !ok {
				r = append(r, v)
				continue
			}
			for _, level := range e.levels[k] {
				if v == level {
					r = append(r, 1)
				} else {
					r = append(r, 0)
				}
			}
		}
		out[i] = r
	}
	return out
}

// Upsample resamples minority classes with replacement until every class
// matches the majority count. Training folds only: evaluation folds keep
// their original class distribution.
func Upsample(X [][]float64, y []int, numClasses int, rng *rand.Rand) ([][]float64, []int) {
	byClass := make([][]int, numClasses)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	max := 0
	for _, idx := range byClass {
		if len(idx) > max {
			max = len(idx)
		}
	}

	outX := make([][]float64, 0, max*numClasses)
	outY := make([]int, 0, max*numClasses)
	for c, idx := range byClass {
		if len(idx) == 0 {
			continue
		}
		for _, i := range idx {
			outX = append(outX, X[i])
			outY = append(outY, c)
		}
		for n := len(idx); n < max; n++ {
			i := idx[rng.Intn(len(idx))]
			outX = append(outX, X[i])
			outY = append(outY, c)
		}
	}
	return outX, outY
}

// Preprocessor is the shared stage stack: rebalance, encode, normalize.
// FitTransform runs on the training fold; Transform applies the learned
// encoding and scaling to evaluation folds without resampling them.
type Preprocessor struct {
	Nominal []int
	enc     Encoder
	scaler  Scaler
}

// FitTransform upsamples the training fold, learns the encoding and scaling
// on it, and returns the transformed fold.
func (p *Preprocessor) FitTransform(X [][]float64, y []int, numClasses int, rng *rand.Rand) ([][]float64, []int) {
	Xb, yb := Upsample(X, y, numClasses, rng)
	p.enc = Encoder{Nominal: p.Nominal}
	p.enc.Fit(Xb)
	Xe := p.enc.Transform(Xb)
	p.scaler.Fit(Xe)
	return p.scaler.Transform(Xe), yb
}

// Transform applies the training-fold encoding and scaling only.
func (p *Preprocessor) Transform(X [][]float64) [][]float64 {
	return p.scaler.Transform(p.enc.Transform(X))
}

// Params returns the fitted scaling parameters.
func (p *Preprocessor) Params() (mean, scale []float64) {
	return p.scaler.Mean, p.scaler.Scale
}
