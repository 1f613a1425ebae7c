package domain

import "time"

// ReasonCode tags a verdict for metrics. One code per pipeline check plus
// one for approvals.
type ReasonCode string

const (
	ReasonApproved         ReasonCode = "approved"
	ReasonMarketClosed     ReasonCode = "market_closed"
	ReasonStaleData        ReasonCode = "stale_data"
	ReasonScheduleClosed   ReasonCode = "schedule_closed"
	ReasonDataFreshness    ReasonCode = "data_freshness"
	ReasonMaxDrawdown      ReasonCode = "max_drawdown"
	ReasonCorrelation      ReasonCode = "correlation_concentration"
	ReasonVaRExceeded      ReasonCode = "var_exceeded"
	ReasonMissingRiskData  ReasonCode = "missing_risk_data"
	ReasonLeverage         ReasonCode = "leverage"
	ReasonConcentration    ReasonCode = "position_concentration"
	ReasonVolatility       ReasonCode = "volatility_confidence"
)

// Verdict is the single deterministic outcome of trade validation
type Verdict struct {
	Allowed      bool       `json:"allowed"`
	Reason       string     `json:"reason"`
	Code         ReasonCode `json:"code"`
	EvaluationID string     `json:"evaluation_id"`
	Timestamp    time.Time  `json:"timestamp"`
}
