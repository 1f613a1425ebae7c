package domain

import (
	"time"

	"github.com/quantrun/riskgate/internal/correlation"
	"github.com/quantrun/riskgate/internal/risk"
)

// Holding is a current position with its classification
type Holding struct {
	AssetClass AssetClass `json:"asset_class"`
	Quantity   float64    `json:"quantity"`
	Price      float64    `json:"price"`
}

// Overrides carries optional per-context threshold overrides. Nil fields
// fall back to gatekeeper defaults.
type Overrides struct {
	MaxLeverage         *float64 `json:"max_leverage,omitempty"`
	MaxPositionFraction *float64 `json:"max_position_fraction,omitempty"`
}

// PortfolioContext is the caller-assembled snapshot the gatekeeper validates
// against. VaR and correlation reports are precomputed by the caller; when
// absent, checks that need them fail safe or fall back to legacy rules.
type PortfolioContext struct {
	Holdings            map[string]Holding           `json:"holdings"`
	RecentPnL           float64                      `json:"recent_pnl"` // realized fraction, negative = loss
	VaR                 *risk.CombinedVaRResult      `json:"var,omitempty"`
	Correlations        *correlation.DualVenueReport `json:"correlations,omitempty"`
	Leverage            float64                      `json:"leverage"`
	LargestPositionFrac float64                      `json:"largest_position_frac"`
	DecisionTime        time.Time                    `json:"decision_time"`
	MarketTime          time.Time                    `json:"market_time"`
	Overrides           Overrides                    `json:"overrides"`
}

// HoldingsInClass counts holdings sharing an asset class. Used by the legacy
// concentration rule when no correlation report is available.
func (c *PortfolioContext) HoldingsInClass(class AssetClass) int {
	n := 0
	for _, h := range c.Holdings {
		if h.AssetClass == class {
			n++
		}
	}
	return n
}
