package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// venueConcentrationLimit is the advisory ceiling on a single venue's share
// of combined portfolio value.
const venueConcentrationLimit = 0.80

// VenueInput bundles one venue's holdings and price histories for VaR
type VenueInput struct {
	Venue    string               `json:"venue"`
	Holdings map[string]Position  `json:"holdings"`
	History  map[string][]float64 `json:"history"`
}

// Portfolio estimates historical VaR for one venue. Each asset's daily
// return is weighted by its current notional share of the value covered by
// available history, the weighted returns are summed per day, and the
// empirical percentile is taken on the aggregate series.
//
// Known limitation: current weights are applied across the whole lookback
// window, so the estimate is accurate only if composition was roughly
// constant over that window.
func (c *Calculator) Portfolio(holdings map[string]Position, history map[string][]float64) VaRResult {
	result := VaRResult{Confidence: c.confidence}

	if len(holdings) == 0 {
		result.Quality = QualityNoHoldings
		return result
	}

	totalValue := 0.0
	for _, pos := range holdings {
		totalValue += pos.Value()
	}
	result.PortfolioValue = totalValue
	if totalValue <= 0 {
		result.Quality = QualityZeroValue
		return result
	}

	// Per-asset return series for every held asset that has usable history.
	assetReturns := make(map[string][]float64)
	coveredValue := 0.0
	var missing []string
	for asset, pos := range holdings {
		rets := Returns(history[asset])
		if len(rets) == 0 {
			missing = append(missing, asset)
			continue
		}
		assetReturns[asset] = rets
		coveredValue += pos.Value()
	}
	sort.Strings(missing)
	result.MissingAssets = missing
	result.CoveredValue = coveredValue

	if len(assetReturns) == 0 {
		result.Quality = QualityNoPriceHistory
		return result
	}

	// Align all series to the shortest common length so every aggregated day
	// has a return from every covered asset.
	minLen := -1
	for _, rets := range assetReturns {
		if minLen == -1 || len(rets) < minLen {
			minLen = len(rets)
		}
	}
	result.SampleSize = minLen

	if minLen < MinSamples {
		result.Quality = QualityInsufficientCommonHistory
		return result
	}

	portfolioReturns := make([]float64, minLen)
	for asset, rets := range assetReturns {
		weight := holdings[asset].Value() / coveredValue
		// Use the most recent window of each series.
		offset := len(rets) - minLen
		for i := 0; i < minLen; i++ {
			portfolioReturns[i] += weight * rets[offset+i]
		}
	}

	varFraction, ok := c.Historical(portfolioReturns)
	if !ok {
		result.Quality = QualityInsufficientCommonHistory
		return result
	}

	result.VaR = varFraction
	result.VaRUSD = varFraction * coveredValue

	switch {
	case len(missing) == 0:
		result.Quality = QualityGood
	case coveredValue >= totalValue/2:
		result.Quality = QualityIncomplete
	default:
		result.Quality = QualityMissingPriceHistory
	}

	return result
}

// DualVenue computes VaR independently per venue and combines by exact
// arithmetic sum of the currency VaR. The venues are financially isolated
// (no shared margin), so no correlation adjustment is applied: the sum is a
// conservative upper bound on joint loss.
func (c *Calculator) DualVenue(venueA, venueB VenueInput) CombinedVaRResult {
	combined := CombinedVaRResult{
		VenueConcentration: make(map[string]float64),
		Timestamp:          time.Now().UTC(),
	}

	for _, input := range []VenueInput{venueA, venueB} {
		res := c.Portfolio(input.Holdings, input.History)
		combined.Venues = append(combined.Venues, VenueVaR{Venue: input.Venue, Result: res})
		combined.CombinedVaRUSD += res.VaRUSD
		combined.TotalValue += res.PortfolioValue
	}

	if combined.TotalValue > 0 {
		combined.CombinedVaR = combined.CombinedVaRUSD / combined.TotalValue
		for _, v := range combined.Venues {
			share := v.Result.PortfolioValue / combined.TotalValue
			combined.VenueConcentration[v.Venue] = share
			if share > venueConcentrationLimit {
				combined.ConcentrationWarning = warnVenueConcentration(v.Venue, share)
			}
		}
	}

	if combined.ConcentrationWarning != "" {
		log.Warn().
			Str("warning", combined.ConcentrationWarning).
			Float64("total_value", combined.TotalValue).
			Msg("venue concentration above advisory limit")
	}

	return combined
}

func warnVenueConcentration(venue string, share float64) string {
	return fmt.Sprintf("venue %s holds %.1f%% of combined portfolio value (limit %.0f%%)",
		venue, share*100, venueConcentrationLimit*100)
}
