package gates

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quantrun/riskgate/internal/domain"
)

// Check records one pipeline step's evaluation for the audit trail
type Check struct {
	Code        domain.ReasonCode `json:"code"`
	Passed      bool              `json:"passed"`
	Advisory    bool              `json:"advisory"` // advisory checks warn, never deny
	Value       interface{}       `json:"value,omitempty"`
	Threshold   interface{}       `json:"threshold,omitempty"`
	Description string            `json:"description"`
}

// checkFunc is one ordered pipeline step. It may return an error only for
// conditions that must abort evaluation outright (corrupted timestamps in
// backtest mode); every expected business condition is a failed Check.
type checkFunc func(g *RiskGatekeeper, d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error)

// RiskGatekeeper runs the ordered validation pipeline. It is a pure function
// of its inputs plus configuration: no memory between calls, safe for
// concurrent use, side effects limited to the metrics sink and logging.
type RiskGatekeeper struct {
	config    *Config
	schedule  MarketSchedule
	freshness FreshnessValidator
	metrics   MetricsSink
	pipeline  []checkFunc
}

// NewRiskGatekeeper validates the configuration and wires the collaborators.
// A nil sink falls back to NopSink.
func NewRiskGatekeeper(cfg *Config, schedule MarketSchedule, freshness FreshnessValidator, metrics MetricsSink) (*RiskGatekeeper, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NopSink{}
	}

	g := &RiskGatekeeper{
		config:    cfg,
		schedule:  schedule,
		freshness: freshness,
		metrics:   metrics,
	}
	// Order matters: later checks assume earlier ones already vetted the
	// decision's temporal validity.
	g.pipeline = []checkFunc{
		(*RiskGatekeeper).checkTemporal,
		(*RiskGatekeeper).checkSchedule,
		(*RiskGatekeeper).checkFreshness,
		(*RiskGatekeeper).checkDrawdown,
		(*RiskGatekeeper).checkCorrelation,
		(*RiskGatekeeper).checkVaR,
		(*RiskGatekeeper).checkCrossVenue,
		(*RiskGatekeeper).checkExposure,
		(*RiskGatekeeper).checkVolatility,
	}
	return g, nil
}

// Config returns the immutable configuration
func (g *RiskGatekeeper) Config() Config {
	return *g.config
}

// ValidateTrade runs the decision through the ordered pipeline and returns
// the first denial, or an approval when every check passes. Identical inputs
// always produce identical verdicts. The only error path is a corrupted
// timestamp in backtest mode, which must surface immediately rather than
// silently skewing an offline evaluation.
func (g *RiskGatekeeper) ValidateTrade(decision domain.TradeDecision, ctx *domain.PortfolioContext) (domain.Verdict, error) {
	started := time.Now()
	defer func() { g.metrics.ObserveValidation(time.Since(started)) }()

	// Normalize once at the entry point so the checks never re-interpret
	// the ambiguous upstream confidence scale.
	decision.Confidence = domain.NormalizeConfidence(decision.Confidence)

	verdict := domain.Verdict{
		EvaluationID: uuid.NewString(),
		Timestamp:    time.Now().UTC(),
	}

	// Malformed context fails safe: deny rather than crash deep in a check.
	if ctx == nil {
		verdict.Reason = "insufficient risk data to approve: no portfolio context"
		verdict.Code = domain.ReasonMissingRiskData
		g.metrics.IncDenial(verdict.Code)
		return verdict, nil
	}

	for _, check := range g.pipeline {
		result, err := check(g, &decision, ctx)
		if err != nil {
			return domain.Verdict{}, fmt.Errorf("trade validation aborted: %w", err)
		}
		if result == nil || result.Passed {
			continue
		}
		if result.Advisory {
			log.Warn().
				Str("asset", decision.Asset).
				Str("venue", decision.Venue).
				Str("check", string(result.Code)).
				Msg(result.Description)
			continue
		}

		verdict.Allowed = false
		verdict.Reason = result.Description
		verdict.Code = result.Code
		g.metrics.IncDenial(result.Code)
		log.Info().
			Str("asset", decision.Asset).
			Str("venue", decision.Venue).
			Str("check", string(result.Code)).
			Str("evaluation_id", verdict.EvaluationID).
			Msg("trade denied")
		return verdict, nil
	}

	verdict.Allowed = true
	verdict.Code = domain.ReasonApproved
	verdict.Reason = fmt.Sprintf("%s %s on %s approved: all risk checks passed",
		decision.Action, decision.Asset, decision.Venue)
	g.metrics.IncApproval()
	return verdict, nil
}
