package gates

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quantrun/riskgate/internal/domain"
)

// ErrTimestampParse marks a corrupted market-data timestamp. In backtest
// mode it aborts the evaluation: a replay over corrupted history must fail
// loudly, never silently fall back.
var ErrTimestampParse = errors.New("unparseable market data timestamp")

func pass(code domain.ReasonCode, desc string) *Check {
	return &Check{Code: code, Passed: true, Description: desc}
}

// checkTemporal enforces market-open and data-staleness rules. Staleness is
// not enforced in backtest mode, where historical replays contain
// legitimate gaps at the evaluation boundary, but a malformed timestamp in
// backtest mode is a hard error. In live mode a malformed timestamp degrades
// to the latest known live market status with a warning.
func (g *RiskGatekeeper) checkTemporal(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if !d.AssetClass.Is247() && !d.Market.IsOpen {
		return &Check{
			Code:        domain.ReasonMarketClosed,
			Value:       d.Market.Session,
			Description: fmt.Sprintf("market closed for %s (%s)", d.Asset, d.AssetClass),
		}, nil
	}

	if d.Market.DataTimestamp == "" {
		return pass(domain.ReasonStaleData, "no data timestamp attached"), nil
	}

	ts, err := time.Parse(time.RFC3339, d.Market.DataTimestamp)
	if err != nil {
		if g.config.Mode == domain.ModeBacktest {
			return nil, fmt.Errorf("%w: %q for %s", ErrTimestampParse, d.Market.DataTimestamp, d.Asset)
		}
		log.Warn().
			Str("asset", d.Asset).
			Str("timestamp", d.Market.DataTimestamp).
			Msg("unparseable data timestamp, degrading to live market status")
		return pass(domain.ReasonStaleData, "timestamp unparseable, using live market status"), nil
	}

	if g.config.Mode == domain.ModeBacktest {
		return pass(domain.ReasonStaleData, "staleness not enforced in backtest"), nil
	}

	age := time.Since(ts)
	if age > g.config.StaleAfter.Std() {
		return &Check{
			Code:      domain.ReasonStaleData,
			Value:     age.String(),
			Threshold: g.config.StaleAfter.Std().String(),
			Description: fmt.Sprintf("market data for %s is %s old (limit %s)",
				d.Asset, age.Round(time.Second), g.config.StaleAfter.Std()),
		}, nil
	}
	return pass(domain.ReasonStaleData, "market data fresh"), nil
}

// checkSchedule consults the market-schedule collaborator for non-crypto
// assets. A closed market denies; a weekly close/reopen boundary only warns.
func (g *RiskGatekeeper) checkSchedule(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if g.schedule == nil || d.AssetClass.Is247() {
		return nil, nil
	}

	var status ScheduleStatus
	if g.config.Mode == domain.ModeBacktest && !ctx.DecisionTime.IsZero() {
		status = g.schedule.StatusAt(d.Asset, d.AssetClass, ctx.DecisionTime)
	} else {
		status = g.schedule.Status(d.Asset, d.AssetClass)
	}

	if !status.IsOpen {
		return &Check{
			Code:        domain.ReasonScheduleClosed,
			Value:       status.Session,
			Description: fmt.Sprintf("%s market closed per schedule (session %q)", d.Asset, status.Session),
		}, nil
	}
	if status.NearWeeklyBoundary {
		return &Check{
			Code:        domain.ReasonScheduleClosed,
			Advisory:    true,
			Description: fmt.Sprintf("%s trading near weekly session boundary: %s", d.Asset, status.Warning),
		}, nil
	}
	return pass(domain.ReasonScheduleClosed, "schedule open"), nil
}

// checkFreshness defers to the data-freshness collaborator. Denials are
// suppressed in backtest mode, where historical data is stale by definition.
func (g *RiskGatekeeper) checkFreshness(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if g.freshness == nil || ctx.MarketTime.IsZero() {
		return nil, nil
	}

	res := g.freshness.Validate(ctx.MarketTime, d.AssetClass, g.config.FreshnessTimeframe)
	if res.IsFresh || g.config.Mode == domain.ModeBacktest {
		return pass(domain.ReasonDataFreshness, "data freshness ok"), nil
	}
	return &Check{
		Code:        domain.ReasonDataFreshness,
		Value:       res.AgeMinutes,
		Description: fmt.Sprintf("market data failed freshness validation: %s", res.Message),
	}, nil
}

// checkDrawdown halts trading after the recent realized loss breaches the
// configured drawdown fraction.
func (g *RiskGatekeeper) checkDrawdown(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if ctx.RecentPnL <= -g.config.MaxDrawdown {
		return &Check{
			Code:      domain.ReasonMaxDrawdown,
			Value:     ctx.RecentPnL,
			Threshold: -g.config.MaxDrawdown,
			Description: fmt.Sprintf("recent PnL %.2f%% breaches max drawdown %.2f%%",
				ctx.RecentPnL*100, g.config.MaxDrawdown*100),
		}, nil
	}
	return pass(domain.ReasonMaxDrawdown, "drawdown within limits"), nil
}

// checkCorrelation denies on the venue's concentration warning when a
// correlation report is present, otherwise falls back to the legacy rule of
// counting holdings in the decision's asset class.
func (g *RiskGatekeeper) checkCorrelation(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if ctx.Correlations != nil {
		if report := ctx.Correlations.PlatformFor(d.Venue); report != nil {
			if report.ConcentrationWarning != "" {
				return &Check{
					Code:        domain.ReasonCorrelation,
					Value:       report.MaxCorrelation,
					Threshold:   g.config.CorrelationThreshold,
					Description: fmt.Sprintf("correlation concentration on %s: %s", d.Venue, report.ConcentrationWarning),
				}, nil
			}
			return pass(domain.ReasonCorrelation, "no correlation concentration"), nil
		}
	}

	// Legacy rule: same-class position count as a crude correlation proxy.
	count := ctx.HoldingsInClass(d.AssetClass)
	if count >= g.config.MaxCorrelatedAssets {
		return &Check{
			Code:      domain.ReasonCorrelation,
			Value:     count,
			Threshold: g.config.MaxCorrelatedAssets,
			Description: fmt.Sprintf("already holding %d %s positions (limit %d)",
				count, d.AssetClass, g.config.MaxCorrelatedAssets),
		}, nil
	}
	return pass(domain.ReasonCorrelation, "class concentration within limits"), nil
}

// checkVaR denies when the combined VaR fraction exceeds the ceiling. A
// missing VaR result over a non-empty portfolio fails safe: without risk
// data the trade cannot be approved.
func (g *RiskGatekeeper) checkVaR(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if ctx.VaR == nil {
		if len(ctx.Holdings) > 0 {
			return &Check{
				Code:        domain.ReasonMissingRiskData,
				Description: "insufficient risk data to approve: no VaR result for a non-empty portfolio",
			}, nil
		}
		return pass(domain.ReasonVaRExceeded, "empty portfolio, VaR not required"), nil
	}

	if ctx.VaR.CombinedVaR > g.config.MaxVaR {
		return &Check{
			Code:      domain.ReasonVaRExceeded,
			Value:     ctx.VaR.CombinedVaR,
			Threshold: g.config.MaxVaR,
			Description: fmt.Sprintf("combined VaR %.2f%% exceeds limit %.2f%% ($%.2f at %.0f%% confidence)",
				ctx.VaR.CombinedVaR*100, g.config.MaxVaR*100,
				ctx.VaR.CombinedVaRUSD, g.config.VaRConfidence*100),
		}, nil
	}
	return pass(domain.ReasonVaRExceeded, "combined VaR within limits"), nil
}

// checkCrossVenue surfaces systemic correlation between isolated venues.
// Always advisory: the venues share no collateral, so this can never block.
func (g *RiskGatekeeper) checkCrossVenue(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if ctx.Correlations == nil || ctx.Correlations.CrossVenue.Warning == "" {
		return nil, nil
	}
	return &Check{
		Code:        domain.ReasonCorrelation,
		Advisory:    true,
		Value:       ctx.Correlations.CrossVenue.MaxCorrelation,
		Description: ctx.Correlations.CrossVenue.Warning,
	}, nil
}

// checkExposure enforces the leverage and single-position concentration
// ceilings, honoring per-context overrides.
func (g *RiskGatekeeper) checkExposure(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	maxLeverage := g.config.MaxLeverage
	if ctx.Overrides.MaxLeverage != nil {
		maxLeverage = *ctx.Overrides.MaxLeverage
	}
	if ctx.Leverage > maxLeverage {
		return &Check{
			Code:      domain.ReasonLeverage,
			Value:     ctx.Leverage,
			Threshold: maxLeverage,
			Description: fmt.Sprintf("leverage %.2fx exceeds ceiling %.2fx",
				ctx.Leverage, maxLeverage),
		}, nil
	}

	maxPosition := g.config.MaxPositionFraction
	if ctx.Overrides.MaxPositionFraction != nil {
		maxPosition = *ctx.Overrides.MaxPositionFraction
	}
	if ctx.LargestPositionFrac > maxPosition {
		return &Check{
			Code:      domain.ReasonConcentration,
			Value:     ctx.LargestPositionFrac,
			Threshold: maxPosition,
			Description: fmt.Sprintf("largest position %.1f%% exceeds ceiling %.1f%%",
				ctx.LargestPositionFrac*100, maxPosition*100),
		}, nil
	}
	return pass(domain.ReasonLeverage, "exposure within limits"), nil
}

// checkVolatility denies low-conviction trades into volatile instruments:
// volatility above the limit combined with confidence below the floor.
func (g *RiskGatekeeper) checkVolatility(d *domain.TradeDecision, ctx *domain.PortfolioContext) (*Check, error) {
	if d.Volatility > g.config.MaxVolatility && d.Confidence < g.config.MinConfidence {
		return &Check{
			Code:      domain.ReasonVolatility,
			Value:     fmt.Sprintf("volatility=%.3f confidence=%.2f", d.Volatility, d.Confidence),
			Threshold: fmt.Sprintf("volatility<=%.3f or confidence>=%.2f", g.config.MaxVolatility, g.config.MinConfidence),
			Description: fmt.Sprintf("volatility %.1f%% with confidence %.0f%% below floor %.0f%%",
				d.Volatility*100, d.Confidence*100, g.config.MinConfidence*100),
		}, nil
	}
	return pass(domain.ReasonVolatility, "volatility/confidence acceptable"), nil
}
