package risk

import (
	"fmt"
	"math"
	"sort"
)

// MinSamples is the hard floor for a historical VaR estimate. Below it the
// empirical percentile is too unstable to act on, so the calculator reports
// insufficient data instead of a number.
const MinSamples = 30

// Calculator produces historical (non-parametric) VaR estimates. The
// confidence level is fixed at construction and validated once; per-trade
// calls can never see a malformed level.
type Calculator struct {
	confidence float64
}

// NewCalculator validates the confidence level and returns a calculator.
// Typical levels are 0.95 and 0.99.
func NewCalculator(confidence float64) (*Calculator, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("invalid VaR confidence %.4f: must be in (0,1)", confidence)
	}
	return &Calculator{confidence: confidence}, nil
}

// Confidence returns the configured confidence level
func (c *Calculator) Confidence() float64 {
	return c.confidence
}

// Historical computes empirical VaR from a return series. Returns are sorted
// ascending (worst losses first) and the loss at rank round(n*(1-confidence))
// is reported as a positive fraction. ok is false when fewer than MinSamples
// returns are available; callers must treat that as "no signal", not zero risk.
func (c *Calculator) Historical(returns []float64) (float64, bool) {
	if len(returns) < MinSamples {
		return 0, false
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	rank := int(math.Round(float64(len(sorted)) * (1.0 - c.confidence)))
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	if rank < 0 {
		rank = 0
	}

	return math.Abs(sorted[rank]), true
}

// Returns converts a price sequence into fractional period returns.
// A series of n prices yields n-1 returns; fewer than two prices yield nil.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			// A zero price is bad upstream data; skip the undefined return
			// rather than dividing by zero.
			continue
		}
		out = append(out, (prices[i]-prev)/prev)
	}
	return out
}
