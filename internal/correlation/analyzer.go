package correlation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MinSamples is the hard floor for a pairwise correlation estimate. Pairs
// with fewer aligned return samples are omitted from the matrix entirely,
// absent rather than zero-filled.
const MinSamples = 10

// Default thresholds for concentration analysis
const (
	DefaultPairThreshold       = 0.7
	DefaultCrossVenueThreshold = 0.5
	DefaultMaxCorrelatedAssets = 2
)

// Analyzer quantifies co-movement risk within and across venues
type Analyzer struct {
	pairThreshold       float64
	crossVenueThreshold float64
	maxCorrelatedAssets int
}

// NewAnalyzer returns an analyzer with production thresholds
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		pairThreshold:       DefaultPairThreshold,
		crossVenueThreshold: DefaultCrossVenueThreshold,
		maxCorrelatedAssets: DefaultMaxCorrelatedAssets,
	}
}

// Pearson computes the correlation coefficient between two aligned return
// series. ok is false when the series are misaligned, shorter than
// MinSamples, or either side has zero variance: the analyzer never divides
// by zero and never fabricates a value. Results are clamped to [-1,1] to
// absorb floating point drift.
func Pearson(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) < MinSamples {
		return 0, false
	}
	if stat.StdDev(a, nil) == 0 || stat.StdDev(b, nil) == 0 {
		return 0, false
	}

	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	if r > 1.0 {
		r = 1.0
	} else if r < -1.0 {
		r = -1.0
	}
	return r, true
}

// returns converts a price sequence into fractional period returns
func returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, (prices[i]-prev)/prev)
	}
	return out
}

// alignTail truncates both series to their common minimum length, keeping
// the most recent window of each.
func alignTail(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}

// Matrix maps unordered asset pairs to correlation coefficients. Both key
// orderings are stored so symmetric lookup is O(1).
type Matrix struct {
	values map[[2]string]float64
}

// NewMatrix returns an empty correlation matrix
func NewMatrix() Matrix {
	return Matrix{values: make(map[[2]string]float64)}
}

func (m Matrix) set(a, b string, r float64) {
	m.values[[2]string{a, b}] = r
	m.values[[2]string{b, a}] = r
}

// Get returns the correlation for a pair in either key order
func (m Matrix) Get(a, b string) (float64, bool) {
	r, ok := m.values[[2]string{a, b}]
	return r, ok
}

// Len returns the number of distinct pairs present
func (m Matrix) Len() int {
	return len(m.values) / 2
}

// Pair is one entry of a high-correlation listing
type Pair struct {
	AssetA      string  `json:"asset_a"`
	AssetB      string  `json:"asset_b"`
	Correlation float64 `json:"correlation"`
}

// BuildMatrix derives return series per asset and computes pairwise
// correlations over the common aligned window. Pairs with insufficient data
// are omitted.
func (an *Analyzer) BuildMatrix(priceHistory map[string][]float64) Matrix {
	assets := make([]string, 0, len(priceHistory))
	assetReturns := make(map[string][]float64, len(priceHistory))
	for asset, prices := range priceHistory {
		assets = append(assets, asset)
		assetReturns[asset] = returns(prices)
	}
	sort.Strings(assets)

	m := NewMatrix()
	for i := 0; i < len(assets); i++ {
		for j := i + 1; j < len(assets); j++ {
			ra, rb := alignTail(assetReturns[assets[i]], assetReturns[assets[j]])
			if r, ok := Pearson(ra, rb); ok {
				m.set(assets[i], assets[j], r)
			}
		}
	}
	return m
}

// HighlyCorrelatedPairs selects pairs at or above the threshold by absolute
// value, deduplicates symmetric entries, and sorts by descending |r| with a
// lexical tiebreak for determinism.
func (an *Analyzer) HighlyCorrelatedPairs(m Matrix, threshold float64) []Pair {
	var pairs []Pair
	for key, r := range m.values {
		if key[0] >= key[1] {
			continue // symmetric duplicate
		}
		if math.Abs(r) >= threshold {
			pairs = append(pairs, Pair{AssetA: key[0], AssetB: key[1], Correlation: r})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].Correlation), math.Abs(pairs[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		if pairs[i].AssetA != pairs[j].AssetA {
			return pairs[i].AssetA < pairs[j].AssetA
		}
		return pairs[i].AssetB < pairs[j].AssetB
	})
	return pairs
}
