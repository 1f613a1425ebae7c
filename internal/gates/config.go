package gates

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantrun/riskgate/internal/domain"
)

// Duration is a time.Duration that unmarshals from YAML strings like "5m"
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders Go duration syntax
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config contains the gatekeeper's fixed thresholds. Set once at
// construction, immutable thereafter; Validate rejects malformed values so
// configuration errors abort startup instead of surfacing per trade.
type Config struct {
	MaxDrawdown          float64           `yaml:"max_drawdown"`           // deny at PnL <= -MaxDrawdown
	CorrelationThreshold float64           `yaml:"correlation_threshold"`  // |r| for a "high" pair
	MaxCorrelatedAssets  int               `yaml:"max_correlated_assets"`  // legacy class-count ceiling
	MaxVaR               float64           `yaml:"max_var"`                // combined VaR fraction ceiling
	VaRConfidence        float64           `yaml:"var_confidence"`         // (0,1), typically 0.95
	MaxLeverage          float64           `yaml:"max_leverage"`           // default leverage ceiling
	MaxPositionFraction  float64           `yaml:"max_position_fraction"`  // largest single position ceiling
	MaxVolatility        float64           `yaml:"max_volatility"`         // volatility/confidence heuristic
	MinConfidence        float64           `yaml:"min_confidence"`         // volatility/confidence heuristic
	StaleAfter           Duration          `yaml:"stale_after"`            // market data age limit (live mode)
	FreshnessTimeframe   string            `yaml:"freshness_timeframe"`    // passed to the freshness validator
	Mode                 domain.ReplayMode `yaml:"mode"`                   // live or backtest
}

// DefaultConfig returns production thresholds
func DefaultConfig() *Config {
	return &Config{
		MaxDrawdown:          0.05,
		CorrelationThreshold: 0.7,
		MaxCorrelatedAssets:  2,
		MaxVaR:               0.05,
		VaRConfidence:        0.95,
		MaxLeverage:          5.0,
		MaxPositionFraction:  0.25,
		MaxVolatility:        0.05,
		MinConfidence:        0.80,
		StaleAfter:           Duration(5 * time.Minute),
		FreshnessTimeframe:   "1h",
		Mode:                 domain.ModeLive,
	}
}

// LoadConfig reads gatekeeper thresholds from a YAML file and validates them
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gatekeeper config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gatekeeper config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gatekeeper config: %w", err)
	}
	return cfg, nil
}

// Validate rejects threshold values that would make the pipeline nonsensical
func (c *Config) Validate() error {
	if c.VaRConfidence <= 0 || c.VaRConfidence >= 1 {
		return fmt.Errorf("var_confidence %.4f must be in (0,1)", c.VaRConfidence)
	}
	if c.MaxDrawdown <= 0 || c.MaxDrawdown >= 1 {
		return fmt.Errorf("max_drawdown %.4f must be in (0,1)", c.MaxDrawdown)
	}
	if c.CorrelationThreshold <= 0 || c.CorrelationThreshold > 1 {
		return fmt.Errorf("correlation_threshold %.4f must be in (0,1]", c.CorrelationThreshold)
	}
	if c.MaxCorrelatedAssets < 1 {
		return fmt.Errorf("max_correlated_assets %d must be >= 1", c.MaxCorrelatedAssets)
	}
	if c.MaxVaR <= 0 || c.MaxVaR >= 1 {
		return fmt.Errorf("max_var %.4f must be in (0,1)", c.MaxVaR)
	}
	if c.MaxLeverage <= 0 {
		return fmt.Errorf("max_leverage %.2f must be > 0", c.MaxLeverage)
	}
	if c.MaxPositionFraction <= 0 || c.MaxPositionFraction > 1 {
		return fmt.Errorf("max_position_fraction %.4f must be in (0,1]", c.MaxPositionFraction)
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %.4f must be in (0,1]", c.MinConfidence)
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("stale_after %s must be positive", c.StaleAfter.Std())
	}
	if c.Mode != domain.ModeLive && c.Mode != domain.ModeBacktest {
		return fmt.Errorf("mode %q must be live or backtest", c.Mode)
	}
	return nil
}
