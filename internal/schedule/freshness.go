package schedule

import (
	"fmt"
	"time"

	"github.com/quantrun/riskgate/internal/domain"
	"github.com/quantrun/riskgate/internal/gates"
)

// AgeValidator judges data freshness by wall-clock age with per-class
// limits. Crypto feeds update continuously and go stale fast; session
// markets tolerate longer gaps.
type AgeValidator struct {
	limits map[domain.AssetClass]time.Duration
	now    func() time.Time
}

// NewAgeValidator returns a validator with production age limits
func NewAgeValidator() *AgeValidator {
	return &AgeValidator{
		limits: map[domain.AssetClass]time.Duration{
			domain.AssetCrypto:    5 * time.Minute,
			domain.AssetEquity:    20 * time.Minute,
			domain.AssetForex:     10 * time.Minute,
			domain.AssetCommodity: 30 * time.Minute,
		},
		now: time.Now,
	}
}

// Validate reports whether a data timestamp is still actionable
func (v *AgeValidator) Validate(ts time.Time, class domain.AssetClass, timeframe string) gates.FreshnessResult {
	limit, ok := v.limits[class]
	if !ok {
		limit = 5 * time.Minute
	}

	age := v.now().Sub(ts)
	res := gates.FreshnessResult{
		IsFresh:    age <= limit,
		AgeMinutes: age.Minutes(),
	}
	if !res.IsFresh {
		res.Message = fmt.Sprintf("%s data is %.1f minutes old (limit %.0f for %s timeframe)",
			class, res.AgeMinutes, limit.Minutes(), timeframe)
	}
	return res
}
