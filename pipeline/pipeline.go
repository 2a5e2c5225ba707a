package pipeline

import (
	"fmt"
	"math/rand"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/features"
)

// ModelPredictors is the fixed 5-column subset both classifiers see.
var ModelPredictors = []string{"goals", "shots", "shotsOnTarget", "deep", "corners"}

// MetricRow is one line of the comparison report.
type MetricRow struct {
	Model    string
	Metric   string
	Estimate float64
}

// Report is the pipeline output: metric rows plus the family judged better
// on the training partition.
type Report struct {
	Rows   []MetricRow
	Winner string
	KNN    SearchResult
	GBM    SearchResult
}

// Run executes the full modeling pass: stratified 80/20 split, grid search
// (or cache read) per family, refit of each winning configuration on the
// whole training partition, metrics on train for both families and on the
// held-out test partition for the better one.
func Run(cfg *config.Config, ft *features.FeatureTable) (*Report, error) {
	X, err := selectPredictors(ft)
	if err != nil {
		return nil, err
	}
	y := ft.Y
	numClasses := len(features.ClassNames)

	rng := rand.New(rand.NewSource(cfg.Seed))
	sp := StratifiedSplit(y, numClasses, 0.8, rng)
	trX, trY := gather(X, y, sp.Train)
	teX, teY := gather(X, y, sp.Test)
	zap.L().Info("split", zap.Int("train", len(trY)), zap.Int("test", len(teY)))

	knnSearch, err := knnSearchOrCache(cfg, trX, trY, numClasses)
	if err != nil {
		return nil, err
	}
	gbmSearch, err := gbmSearchOrCache(cfg, trX, trY, numClasses)
	if err != nil {
		return nil, err
	}

	// Refit each best configuration on the entire training partition.
	preRNG := rand.New(rand.NewSource(cfg.Seed))
	var knnPre Preprocessor
	knnTrX, knnTrY := knnPre.FitTransform(trX, trY, numClasses, preRNG)
	knn := &KNN{K: int(knnSearch.Best.Params["k"])}
	knn.Fit(knnTrX, knnTrY, numClasses)

	var gbmPre Preprocessor
	gbmTrX, gbmTrY := gbmPre.FitTransform(trX, trY, numClasses, preRNG)
	gbm := NewGBM(
		int(gbmSearch.Best.Params["vars"]),
		int(gbmSearch.Best.Params["trees"]),
		gbmSearch.Best.Params["rate"],
		preRNG,
	)
	gbm.Fit(gbmTrX, gbmTrY, numClasses)

	// Training-partition metrics for both families, on the original
	// (unresampled) training rows.
	knnProba := probaAll(knn, knnPre.Transform(trX))
	gbmProba := probaAll(gbm, gbmPre.Transform(trX))
	knnAcc, knnAUC := Accuracy(trY, knnProba), MacroAUC(trY, knnProba, numClasses)
	gbmAcc, gbmAUC := Accuracy(trY, gbmProba), MacroAUC(trY, gbmProba, numClasses)

	rep := &Report{KNN: knnSearch, GBM: gbmSearch}
	rep.Rows = append(rep.Rows,
		MetricRow{"knn", "cv_" + knnSearch.Metric, knnSearch.Best.Score},
		MetricRow{"knn", "train_accuracy", knnAcc},
		MetricRow{"knn", "train_roc_auc", knnAUC},
		MetricRow{"gbm", "cv_" + gbmSearch.Metric, gbmSearch.Best.Score},
		MetricRow{"gbm", "train_accuracy", gbmAcc},
		MetricRow{"gbm", "train_roc_auc", gbmAUC},
	)

	// The family ahead on training ROC-AUC (accuracy breaking ties) earns
	// the held-out evaluation.
	rep.Winner = "gbm"
	if knnAUC > gbmAUC || (knnAUC == gbmAUC && knnAcc > gbmAcc) {
		rep.Winner = "knn"
	}

	var testProba [][]float64
	if rep.Winner == "knn" {
		testProba = probaAll(knn, knnPre.Transform(teX))
	} else {
		testProba = probaAll(gbm, gbmPre.Transform(teX))
	}
	rep.Rows = append(rep.Rows,
		MetricRow{rep.Winner, "test_accuracy", Accuracy(teY, testProba)},
		MetricRow{rep.Winner, "test_roc_auc", MacroAUC(teY, testProba, numClasses)},
	)
	return rep, nil
}

func knnSearchOrCache(cfg *config.Config, trX [][]float64, trY []int, numClasses int) (SearchResult, error) {
	ks := KNNGrid(cfg)
	want := KNNFingerprint(trX, trY, ks, cfg.KNNMetric, cfg.Seed)
	if cfg.SkipSearch {
		return LoadSearch(cfg.KNNCachePath, want)
	}
	res := SearchKNN(trX, trY, numClasses, ks, cfg.KNNMetric, cfg.Seed)
	if err := SaveSearch(cfg.KNNCachePath, res); err != nil {
		zap.L().Warn("knn search cache not written", zap.Error(err))
	}
	return res, nil
}

func gbmSearchOrCache(cfg *config.Config, trX [][]float64, trY []int, numClasses int) (SearchResult, error) {
	grid := GBMGrid(cfg)
	want := GBMFingerprint(trX, trY, grid, cfg.Seed)
	if cfg.SkipSearch {
		return LoadSearch(cfg.GBMCachePath, want)
	}
	res := SearchGBM(trX, trY, numClasses, grid, cfg.Seed)
	if err := SaveSearch(cfg.GBMCachePath, res); err != nil {
		zap.L().Warn("gbm search cache not written", zap.Error(err))
	}
	return res, nil
}

// selectPredictors projects the feature table down to the model's 5 columns.
func selectPredictors(ft *features.FeatureTable) ([][]float64, error) {
	idx := make([]int, len(ModelPredictors))
	for i, name := range ModelPredictors {
		idx[i] = -1
		for j, p := range ft.Predictors {
			if p == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: model predictor %s missing from feature table",
				features.ErrSchemaMismatch, name)
		}
	}
	X := make([][]float64, len(ft.X))
	for r, row := range ft.X {
		x := make([]float64, len(idx))
		for i, j := range idx {
			x[i] = row[j]
		}
		X[r] = x
	}
	return X, nil
}

// Render formats the comparison table.
func (r *Report) Render() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "model\tmetric\testimate")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", row.Model, row.Metric, row.Estimate)
	}
	w.Flush()
	return b.String()
}
