package risk

import "time"

// DataQuality tags how much of the portfolio a VaR estimate actually covers
type DataQuality string

const (
	QualityGood                      DataQuality = "good"
	QualityIncomplete                DataQuality = "incomplete"
	QualityNoHoldings                DataQuality = "no_holdings"
	QualityZeroValue                 DataQuality = "zero_value"
	QualityNoPriceHistory            DataQuality = "no_price_history"
	QualityInsufficientCommonHistory DataQuality = "insufficient_common_history"
	QualityMissingPriceHistory       DataQuality = "missing_price_history"
)

// Position is a current holding priced at the evaluation instant
type Position struct {
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Value returns the current notional of the position
func (p Position) Value() float64 {
	return p.Quantity * p.Price
}

// VaRResult is a historical VaR estimate for one venue's portfolio
type VaRResult struct {
	VaR            float64     `json:"var"`             // loss fraction, always >= 0
	VaRUSD         float64     `json:"var_usd"`         // loss in currency units
	PortfolioValue float64     `json:"portfolio_value"` // total notional of the venue
	CoveredValue   float64     `json:"covered_value"`   // notional actually backed by history
	Confidence     float64     `json:"confidence"`
	Quality        DataQuality `json:"quality"`
	SampleSize     int         `json:"sample_size"`
	MissingAssets  []string    `json:"missing_assets,omitempty"`
}

// VenueVaR pairs a venue identifier with its VaR estimate
type VenueVaR struct {
	Venue  string    `json:"venue"`
	Result VaRResult `json:"result"`
}

// CombinedVaRResult aggregates per-venue VaR across financially isolated
// venues. CombinedVaRUSD is the exact arithmetic sum of the per-venue
// currency VaR, a conservative upper bound that ignores any diversification
// benefit between venues.
type CombinedVaRResult struct {
	Venues               []VenueVaR         `json:"venues"`
	CombinedVaR          float64            `json:"combined_var"`     // fraction of total value
	CombinedVaRUSD       float64            `json:"combined_var_usd"` // sum of venue VaRUSD
	TotalValue           float64            `json:"total_value"`
	VenueConcentration   map[string]float64 `json:"venue_concentration"` // venue -> share of total value
	ConcentrationWarning string             `json:"concentration_warning,omitempty"`
	Timestamp            time.Time          `json:"timestamp"`
}
