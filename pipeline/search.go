package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/loader"
)

// Classifier is the estimator contract shared by both model families.
type Classifier interface {
	Fit(X [][]float64, y []int, numClasses int)
	Proba(x []float64) []float64
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64 `json:"params"`
	Score  float64            `json:"score"`
}

// SearchResult is the outcome of one cross-validated grid search. It is a
// deterministic function of (training data, grid, seed): the fingerprint
// binds a cached result to those inputs and a mismatch invalidates it.
type SearchResult struct {
	Fingerprint uint64      `json:"fingerprint"`
	Metric      string      `json:"metric"`
	Candidates  []Candidate `json:"candidates"`
	Best        Candidate   `json:"best"`
}

const cvFolds = 5

// crossValidate scores one candidate builder by stratified k-fold CV.
// Preprocessing is refit inside every fold: upsampling and scaling see only
// that fold's training rows.
func crossValidate(X [][]float64, y []int, numClasses int, build func(*rand.Rand) Classifier, metric string, seed int64) float64 {
	rng := rand.New(rand.NewSource(seed))
	folds := StratifiedKFold(y, numClasses, cvFolds, rng)

	total := 0.0
	for f := range folds {
		sp := foldSplit(folds, f)
		trX, trY := gather(X, y, sp.Train)
		vaX, vaY := gather(X, y, sp.Test)

		var pre Preprocessor
		trXt, trYt := pre.FitTransform(trX, trY, numClasses, rng)
		vaXt := pre.Transform(vaX)

		model := build(rng)
		model.Fit(trXt, trYt, numClasses)
		proba := probaAll(model, vaXt)

		switch metric {
		case "roc_auc":
			total += MacroAUC(vaY, proba, numClasses)
		default:
			total += Accuracy(vaY, proba)
		}
	}
	return total / float64(len(folds))
}

func probaAll(m Classifier, X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = m.Proba(x)
	}
	return out
}

// KNNGrid returns the neighbor counts: a regular grid of cfg.KNNLevels
// values between the configured bounds, deduplicated after rounding.
func KNNGrid(cfg *config.Config) []int {
	return intGrid(cfg.KNNGridMin, cfg.KNNGridMax, cfg.KNNLevels)
}

// GBMConfig is one boosted-ensemble grid point.
type GBMConfig struct {
	Vars  int
	Trees int
	Rate  float64
}

// GBMGrid returns the Cartesian product of the three boosting grids:
// feature-subsample count, tree count, and log-scaled learning rate.
func GBMGrid(cfg *config.Config) []GBMConfig {
	vars := intGrid(cfg.GBMVarsMin, cfg.GBMVarsMax, cfg.GBMLevels)
	trees := intGrid(cfg.GBMTreesMin, cfg.GBMTreesMax, cfg.GBMLevels)
	rates := make([]float64, cfg.GBMLevels)
	for i, e := range linspace(cfg.GBMRateLogMin, cfg.GBMRateLogMax, cfg.GBMLevels) {
		rates[i] = math.Pow(10, e)
	}

	var grid []GBMConfig
	for _, v := range vars {
		for _, t := range trees {
			for _, r := range rates {
				grid = append(grid, GBMConfig{Vars: v, Trees: t, Rate: r})
			}
		}
	}
	return grid
}

// KNNFingerprint binds a neighbor-count search to its inputs.
func KNNFingerprint(X [][]float64, y []int, ks []int, metric string, seed int64) uint64 {
	h := fnv.New64a()
	hashData(h, X, y)
	hashInt64(h, seed)
	for _, k := range ks {
		hashInt64(h, int64(k))
	}
	h.Write([]byte(metric))
	return h.Sum64()
}

// GBMFingerprint binds a boosting search to its inputs.
func GBMFingerprint(X [][]float64, y []int, grid []GBMConfig, seed int64) uint64 {
	h := fnv.New64a()
	hashData(h, X, y)
	hashInt64(h, seed)
	for _, g := range grid {
		hashInt64(h, int64(g.Vars))
		hashInt64(h, int64(g.Trees))
		hashFloat(h, g.Rate)
	}
	return h.Sum64()
}

// SearchKNN grid-searches the neighbor count, selecting by the configured
// metric (mean CV accuracy by default, ROC-AUC as the documented alternate).
func SearchKNN(X [][]float64, y []int, numClasses int, ks []int, metric string, seed int64) SearchResult {
	res := SearchResult{Metric: metric}
	res.Fingerprint = KNNFingerprint(X, y, ks, metric, seed)

	for _, k := range ks {
		k := k
		score := crossValidate(X, y, numClasses, func(*rand.Rand) Classifier {
			return &KNN{K: k}
		}, metric, seed)
		cand := Candidate{Params: map[string]float64{"k": float64(k)}, Score: score}
		res.Candidates = append(res.Candidates, cand)
		if cand.Score > res.Best.Score || res.Best.Params == nil {
			res.Best = cand
		}
		zap.L().Debug("knn candidate", zap.Int("k", k), zap.Float64("score", score))
	}
	return res
}

// SearchGBM grid-searches the boosted ensemble jointly over its three
// hyperparameters, selecting by mean CV ROC-AUC.
func SearchGBM(X [][]float64, y []int, numClasses int, grid []GBMConfig, seed int64) SearchResult {
	res := SearchResult{Metric: "roc_auc"}
	res.Fingerprint = GBMFingerprint(X, y, grid, seed)

	for _, g := range grid {
		g := g
		score := crossValidate(X, y, numClasses, func(rng *rand.Rand) Classifier {
			return NewGBM(g.Vars, g.Trees, g.Rate, rng)
		}, "roc_auc", seed)
		cand := Candidate{
			Params: map[string]float64{"vars": float64(g.Vars), "trees": float64(g.Trees), "rate": g.Rate},
			Score:  score,
		}
		res.Candidates = append(res.Candidates, cand)
		if cand.Score > res.Best.Score || res.Best.Params == nil {
			res.Best = cand
		}
		zap.L().Debug("gbm candidate",
			zap.Int("vars", g.Vars), zap.Int("trees", g.Trees),
			zap.Float64("rate", g.Rate), zap.Float64("score", score))
	}
	return res
}

// SaveSearch writes a search result to its cache file.
func SaveSearch(path string, res SearchResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSearch reads a cached search result and verifies its fingerprint
// against the current (data, grid, seed). A missing file means the search
// has to be re-run; a fingerprint mismatch means the cache is stale.
func LoadSearch(path string, want uint64) (SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: search cache %s: %v", loader.ErrSourceUnavailable, path, err)
	}
	var res SearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return SearchResult{}, fmt.Errorf("search cache %s: %w", path, err)
	}
	if res.Fingerprint != want {
		return SearchResult{}, fmt.Errorf("search cache %s is stale: fingerprint %d, want %d",
			path, res.Fingerprint, want)
	}
	return res, nil
}

// --- hashing and grid helpers ---

func hashData(h hash.Hash, X [][]float64, y []int) {
	for i, row := range X {
		for _, v := range row {
			hashFloat(h, v)
		}
		hashInt64(h, int64(y[i]))
	}
}

func hashInt64(h hash.Hash, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func hashFloat(h hash.Hash, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	h.Write(buf[:])
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func intGrid(lo, hi, n int) []int {
	var out []int
	for _, v := range linspace(float64(lo), float64(hi), n) {
		r := int(math.Round(v))
		if len(out) == 0 || r != out[len(out)-1] {
			out = append(out, r)
		}
	}
	return out
}
