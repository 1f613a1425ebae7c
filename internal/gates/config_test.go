package gates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrun/riskgate/internal/domain"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.05, cfg.MaxDrawdown)
	assert.Equal(t, 0.95, cfg.VaRConfidence)
	assert.Equal(t, 5*time.Minute, cfg.StaleAfter.Std())
	assert.Equal(t, domain.ModeLive, cfg.Mode)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskgate.yaml")
	yaml := `
max_drawdown: 0.08
max_var: 0.10
stale_after: 90s
mode: backtest
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.08, cfg.MaxDrawdown)
	assert.Equal(t, 0.10, cfg.MaxVaR)
	assert.Equal(t, 90*time.Second, cfg.StaleAfter.Std())
	assert.Equal(t, domain.ModeBacktest, cfg.Mode)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.95, cfg.VaRConfidence)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale_after: soon\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestConfigValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"var confidence zero", func(c *Config) { c.VaRConfidence = 0 }},
		{"var confidence one", func(c *Config) { c.VaRConfidence = 1 }},
		{"negative drawdown", func(c *Config) { c.MaxDrawdown = -0.05 }},
		{"correlation threshold above one", func(c *Config) { c.CorrelationThreshold = 1.5 }},
		{"zero correlated assets", func(c *Config) { c.MaxCorrelatedAssets = 0 }},
		{"max var at one", func(c *Config) { c.MaxVaR = 1 }},
		{"zero leverage", func(c *Config) { c.MaxLeverage = 0 }},
		{"position fraction above one", func(c *Config) { c.MaxPositionFraction = 1.1 }},
		{"zero min confidence", func(c *Config) { c.MinConfidence = 0 }},
		{"zero stale after", func(c *Config) { c.StaleAfter = 0 }},
		{"unknown mode", func(c *Config) { c.Mode = "paper" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewRiskGatekeeper_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxVaR = -1

	_, err := NewRiskGatekeeper(cfg, nil, nil, nil)
	assert.Error(t, err)
}
