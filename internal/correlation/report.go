package correlation

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
)

// PlatformReport describes concentration risk within a single venue.
// The report is advisory: blocking is decided by the gatekeeper.
type PlatformReport struct {
	Venue                string  `json:"venue"`
	Matrix               Matrix  `json:"-"`
	HighPairs            []Pair  `json:"high_pairs,omitempty"`
	MaxCorrelation       float64 `json:"max_correlation"` // max |r| observed in the matrix
	ConcentrationWarning string  `json:"concentration_warning,omitempty"`
	HoldingCount         int     `json:"holding_count"`
}

// CrossVenueReport describes systemic co-movement between two financially
// isolated venues. Isolation (no shared collateral or margin) is what makes
// this advisory only: a correlated drawdown cannot cascade through margin
// calls across the boundary, so the report warns but never blocks.
type CrossVenueReport struct {
	Pairs          []Pair  `json:"pairs,omitempty"`
	MaxCorrelation float64 `json:"max_correlation"`
	Warning        string  `json:"warning,omitempty"`
}

// DualVenueReport aggregates both platform reports and the cross-venue view
type DualVenueReport struct {
	VenueA     *PlatformReport  `json:"venue_a"`
	VenueB     *PlatformReport  `json:"venue_b"`
	CrossVenue CrossVenueReport `json:"cross_venue"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// PlatformFor returns the platform report matching the venue, if present
func (r *DualVenueReport) PlatformFor(venue string) *PlatformReport {
	if r.VenueA != nil && r.VenueA.Venue == venue {
		return r.VenueA
	}
	if r.VenueB != nil && r.VenueB.Venue == venue {
		return r.VenueB
	}
	return nil
}

// AnalyzePlatform restricts the correlation matrix to the venue's holdings
// and raises a concentration warning when more than maxCorrelatedAssets
// distinct assets participate in at least one pair at or above the pair
// threshold.
func (an *Analyzer) AnalyzePlatform(holdings []string, priceHistory map[string][]float64, venue string) *PlatformReport {
	held := make(map[string][]float64, len(holdings))
	for _, asset := range holdings {
		if prices, ok := priceHistory[asset]; ok {
			held[asset] = prices
		}
	}

	m := an.BuildMatrix(held)
	pairs := an.HighlyCorrelatedPairs(m, an.pairThreshold)

	report := &PlatformReport{
		Venue:        venue,
		Matrix:       m,
		HighPairs:    pairs,
		HoldingCount: len(holdings),
	}

	for key, r := range m.values {
		if key[0] < key[1] && math.Abs(r) > report.MaxCorrelation {
			report.MaxCorrelation = math.Abs(r)
		}
	}

	correlated := make(map[string]struct{})
	for _, p := range pairs {
		correlated[p.AssetA] = struct{}{}
		correlated[p.AssetB] = struct{}{}
	}
	if len(correlated) > an.maxCorrelatedAssets {
		report.ConcentrationWarning = fmt.Sprintf(
			"%d assets on %s move together at |r| >= %.2f (limit %d)",
			len(correlated), venue, an.pairThreshold, an.maxCorrelatedAssets)
	}

	return report
}

// AnalyzeCrossVenue correlates every asset on venue A against every asset on
// venue B. Any pair above the cross-venue threshold, typically shared
// currency or index exposure, produces a warning but never a block.
func (an *Analyzer) AnalyzeCrossVenue(historyA, historyB map[string][]float64) CrossVenueReport {
	assetsA := sortedKeys(historyA)
	assetsB := sortedKeys(historyB)

	report := CrossVenueReport{}
	for _, a := range assetsA {
		retsA := returns(historyA[a])
		for _, b := range assetsB {
			ra, rb := alignTail(retsA, returns(historyB[b]))
			r, ok := Pearson(ra, rb)
			if !ok {
				continue
			}
			report.Pairs = append(report.Pairs, Pair{AssetA: a, AssetB: b, Correlation: r})
			if math.Abs(r) > report.MaxCorrelation {
				report.MaxCorrelation = math.Abs(r)
			}
		}
	}

	if report.MaxCorrelation > an.crossVenueThreshold {
		report.Warning = fmt.Sprintf(
			"cross-venue correlation %.2f exceeds %.2f: systemic exposure spans isolated venues",
			report.MaxCorrelation, an.crossVenueThreshold)
	}

	return report
}

// AnalyzeDualVenue orchestrates both per-venue analyses plus the cross-venue
// comparison and flattens all warnings into a single advisory list.
func (an *Analyzer) AnalyzeDualVenue(
	holdingsA []string, historyA map[string][]float64, venueA string,
	holdingsB []string, historyB map[string][]float64, venueB string,
) *DualVenueReport {
	report := &DualVenueReport{
		VenueA:     an.AnalyzePlatform(holdingsA, historyA, venueA),
		VenueB:     an.AnalyzePlatform(holdingsB, historyB, venueB),
		CrossVenue: an.AnalyzeCrossVenue(historyA, historyB),
	}

	for _, w := range []string{
		report.VenueA.ConcentrationWarning,
		report.VenueB.ConcentrationWarning,
		report.CrossVenue.Warning,
	} {
		if w != "" {
			report.Warnings = append(report.Warnings, w)
		}
	}

	if len(report.Warnings) > 0 {
		log.Warn().
			Strs("warnings", report.Warnings).
			Str("venue_a", venueA).
			Str("venue_b", venueB).
			Msg("correlation analysis raised advisories")
	}

	return report
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
