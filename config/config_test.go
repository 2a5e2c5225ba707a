package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		KNNMetric:     "accuracy",
		KNNGridMin:    10,
		KNNGridMax:    500,
		KNNLevels:     5,
		GBMVarsMin:    1,
		GBMVarsMax:    6,
		GBMTreesMin:   200,
		GBMTreesMax:   600,
		GBMRateLogMin: -10,
		GBMRateLogMax: -1,
		GBMLevels:     5,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().validate())

	alt := validConfig()
	alt.KNNMetric = "roc_auc"
	assert.NoError(t, alt.validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown metric", func(c *Config) { c.KNNMetric = "f1" }},
		{"single-level grid", func(c *Config) { c.KNNLevels = 1 }},
		{"knn min below one", func(c *Config) { c.KNNGridMin = 0 }},
		{"knn inverted bounds", func(c *Config) { c.KNNGridMin, c.KNNGridMax = 500, 10 }},
		{"vars inverted bounds", func(c *Config) { c.GBMVarsMin, c.GBMVarsMax = 6, 1 }},
		{"trees below one", func(c *Config) { c.GBMTreesMin = 0 }},
		{"trees inverted bounds", func(c *Config) { c.GBMTreesMin, c.GBMTreesMax = 600, 200 }},
		{"rate log inverted bounds", func(c *Config) { c.GBMRateLogMin, c.GBMRateLogMax = -1, -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
