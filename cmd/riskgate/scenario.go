package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quantrun/riskgate/internal/correlation"
	"github.com/quantrun/riskgate/internal/domain"
	"github.com/quantrun/riskgate/internal/risk"
)

// ScenarioVenue is one venue's snapshot inside a scenario fixture
type ScenarioVenue struct {
	Venue    string                       `json:"venue"`
	Holdings map[string]risk.Position     `json:"holdings"`
	Classes  map[string]domain.AssetClass `json:"classes"`
	History  map[string][]float64         `json:"history"`
}

func (v ScenarioVenue) input() risk.VenueInput {
	return risk.VenueInput{Venue: v.Venue, Holdings: v.Holdings, History: v.History}
}

func (v ScenarioVenue) assets() []string {
	assets := make([]string, 0, len(v.Holdings))
	for asset := range v.Holdings {
		assets = append(assets, asset)
	}
	return assets
}

// Scenario is the one-shot evaluation fixture consumed by the CLI. It
// mirrors what the production trading loop would assemble per decision.
type Scenario struct {
	Decision            domain.TradeDecision `json:"decision"`
	VenueA              ScenarioVenue        `json:"venue_a"`
	VenueB              ScenarioVenue        `json:"venue_b"`
	RecentPnL           float64              `json:"recent_pnl"`
	Leverage            float64              `json:"leverage"`
	LargestPositionFrac float64              `json:"largest_position_frac"`
	Overrides           domain.Overrides     `json:"overrides"`
}

// LoadScenario reads and decodes a scenario fixture
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return &s, nil
}

// BuildContext assembles the portfolio context the way the production
// caller would: VaR and correlation reports are computed up front and
// attached, so the gatekeeper itself stays pure.
func (s *Scenario) BuildContext(calc *risk.Calculator, an *correlation.Analyzer) *domain.PortfolioContext {
	combined := calc.DualVenue(s.VenueA.input(), s.VenueB.input())
	reports := an.AnalyzeDualVenue(
		s.VenueA.assets(), s.VenueA.History, s.VenueA.Venue,
		s.VenueB.assets(), s.VenueB.History, s.VenueB.Venue,
	)

	holdings := make(map[string]domain.Holding)
	for _, venue := range []ScenarioVenue{s.VenueA, s.VenueB} {
		for asset, pos := range venue.Holdings {
			class := venue.Classes[asset]
			if class == "" {
				class = domain.AssetCrypto
			}
			holdings[asset] = domain.Holding{
				AssetClass: class,
				Quantity:   pos.Quantity,
				Price:      pos.Price,
			}
		}
	}

	return &domain.PortfolioContext{
		Holdings:            holdings,
		RecentPnL:           s.RecentPnL,
		VaR:                 &combined,
		Correlations:        reports,
		Leverage:            s.Leverage,
		LargestPositionFrac: s.LargestPositionFrac,
		DecisionTime:        s.Decision.Timestamp,
		MarketTime:          s.Decision.Timestamp,
		Overrides:           s.Overrides,
	}
}
