package gates

import (
	"time"

	"github.com/quantrun/riskgate/internal/domain"
)

// ScheduleStatus is the market-schedule collaborator's answer for one asset
type ScheduleStatus struct {
	IsOpen             bool   `json:"is_open"`
	Session            string `json:"session,omitempty"`
	NearWeeklyBoundary bool   `json:"near_weekly_boundary"`
	Warning            string `json:"warning,omitempty"`
}

// MarketSchedule answers whether an instrument's market is currently open.
// StatusAt exists for backtest replay, where "now" is the historical
// evaluation instant.
type MarketSchedule interface {
	Status(asset string, class domain.AssetClass) ScheduleStatus
	StatusAt(asset string, class domain.AssetClass, at time.Time) ScheduleStatus
}

// FreshnessResult is the data-freshness collaborator's verdict on a timestamp
type FreshnessResult struct {
	IsFresh    bool    `json:"is_fresh"`
	AgeMinutes float64 `json:"age_minutes"`
	Message    string  `json:"message,omitempty"`
}

// FreshnessValidator decides whether market data of a given age is still
// actionable for an asset class and timeframe.
type FreshnessValidator interface {
	Validate(ts time.Time, class domain.AssetClass, timeframe string) FreshnessResult
}

// MetricsSink receives one increment per terminal validation outcome plus
// the pipeline duration. Implementations must be safe for concurrent use;
// the gatekeeper itself holds no state.
type MetricsSink interface {
	IncDenial(code domain.ReasonCode)
	IncApproval()
	ObserveValidation(d time.Duration)
}

// NopSink discards all metrics. Useful for tests and offline diagnostics.
type NopSink struct{}

func (NopSink) IncDenial(domain.ReasonCode)     {}
func (NopSink) IncApproval()                    {}
func (NopSink) ObserveValidation(time.Duration) {}
