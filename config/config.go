// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env file
// values.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RelationNames lists the seven relations, in load order.
var RelationNames = []string{
	"appearances", "games", "leagues", "players", "shots", "teams", "teamstats",
}

// Config holds all application configuration.
type Config struct {
	// Directory holding the seven CSV extracts, plus the file name per
	// relation.
	CSVDir        string
	RelationFiles map[string]string

	// Single-file SQLite database path.
	DBPath string

	// Modeling
	Seed        int64
	KNNMetric   string // "accuracy" (default) or "roc_auc"
	KNNGridMin  int
	KNNGridMax  int
	KNNLevels   int
	GBMVarsMin  int
	GBMVarsMax  int
	GBMTreesMin int
	GBMTreesMax int
	// Learning rate grid is log-scaled: 10^GBMRateLogMin .. 10^GBMRateLogMax.
	GBMRateLogMin float64
	GBMRateLogMax float64
	GBMLevels     int

	// Grid-search result caches.
	KNNCachePath string
	GBMCachePath string
	// SkipSearch reads cached search results instead of recomputing.
	SkipSearch bool

	Debug bool
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("CSV_DIR", "data")
	v.SetDefault("DB_PATH", "footstats.db")
	v.SetDefault("SEED", 3007)
	v.SetDefault("KNN_METRIC", "accuracy")
	v.SetDefault("KNN_GRID_MIN", 10)
	v.SetDefault("KNN_GRID_MAX", 500)
	v.SetDefault("KNN_LEVELS", 5)
	v.SetDefault("GBM_VARS_MIN", 1)
	v.SetDefault("GBM_VARS_MAX", 6)
	v.SetDefault("GBM_TREES_MIN", 200)
	v.SetDefault("GBM_TREES_MAX", 600)
	v.SetDefault("GBM_RATE_LOG_MIN", -10.0)
	v.SetDefault("GBM_RATE_LOG_MAX", -1.0)
	v.SetDefault("GBM_LEVELS", 5)
	v.SetDefault("KNN_CACHE_PATH", "knn_search.json")
	v.SetDefault("GBM_CACHE_PATH", "gbm_search.json")
	v.SetDefault("SKIP_SEARCH", false)
	v.SetDefault("DEBUG", false)

	for _, name := range RelationNames {
		v.SetDefault("CSV_FILE_"+name, name+".csv")
	}

	files := make(map[string]string, len(RelationNames))
	for _, name := range RelationNames {
		files[name] = v.GetString("CSV_FILE_" + name)
	}

	cfg := &Config{
		CSVDir:        v.GetString("CSV_DIR"),
		RelationFiles: files,
		DBPath:        v.GetString("DB_PATH"),
		Seed:          v.GetInt64("SEED"),
		KNNMetric:     v.GetString("KNN_METRIC"),
		KNNGridMin:    v.GetInt("KNN_GRID_MIN"),
		KNNGridMax:    v.GetInt("KNN_GRID_MAX"),
		KNNLevels:     v.GetInt("KNN_LEVELS"),
		GBMVarsMin:    v.GetInt("GBM_VARS_MIN"),
		GBMVarsMax:    v.GetInt("GBM_VARS_MAX"),
		GBMTreesMin:   v.GetInt("GBM_TREES_MIN"),
		GBMTreesMax:   v.GetInt("GBM_TREES_MAX"),
		GBMRateLogMin: v.GetFloat64("GBM_RATE_LOG_MIN"),
		GBMRateLogMax: v.GetFloat64("GBM_RATE_LOG_MAX"),
		GBMLevels:     v.GetInt("GBM_LEVELS"),
		KNNCachePath:  v.GetString("KNN_CACHE_PATH"),
		GBMCachePath:  v.GetString("GBM_CACHE_PATH"),
		SkipSearch:    v.GetBool("SKIP_SEARCH"),
		Debug:         v.GetBool("DEBUG"),
	}

	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.KNNMetric != "accuracy" && c.KNNMetric != "roc_auc" {
		return fmt.Errorf("config: KNN_METRIC must be accuracy or roc_auc, got %q", c.KNNMetric)
	}
	if c.KNNLevels < 2 || c.GBMLevels < 2 {
		return errors.New("config: KNN_LEVELS and GBM_LEVELS must be at least 2")
	}
	if c.KNNGridMin < 1 || c.KNNGridMax < c.KNNGridMin {
		return errors.New("config: KNN grid bounds must satisfy 1 <= min <= max")
	}
	if c.GBMVarsMin < 1 || c.GBMVarsMax < c.GBMVarsMin {
		return errors.New("config: GBM vars bounds must satisfy 1 <= min <= max")
	}
	if c.GBMTreesMin < 1 || c.GBMTreesMax < c.GBMTreesMin {
		return errors.New("config: GBM trees bounds must satisfy 1 <= min <= max")
	}
	if c.GBMRateLogMax < c.GBMRateLogMin {
		return errors.New("config: GBM rate log bounds must satisfy min <= max")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env, OK if the file doesn't exist.
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}
