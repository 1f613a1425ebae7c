package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pricesFromReturns builds a price series that realizes the given returns.
func pricesFromReturns(start float64, rets []float64) []float64 {
	prices := make([]float64, 0, len(rets)+1)
	prices = append(prices, start)
	for _, r := range rets {
		prices = append(prices, prices[len(prices)-1]*(1+r))
	}
	return prices
}

// repeat tiles the pattern until n returns are produced.
func repeat(pattern []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	a := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)

	r, ok := Pearson(a, a)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	// Scaling preserves perfect correlation.
	b := make([]float64, len(a))
	for i := range a {
		b[i] = 2 * a[i]
	}
	r, ok = Pearson(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestPearson_PerfectAntiCorrelation(t *testing.T) {
	a := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	b := make([]float64, len(a))
	for i := range a {
		b[i] = -a[i]
	}

	r, ok := Pearson(a, b)
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-9)
}

func TestPearson_InsufficientSamples(t *testing.T) {
	a := repeat([]float64{0.01, -0.01}, 8)
	_, ok := Pearson(a, a)
	assert.False(t, ok, "8 samples are under the 10-sample floor")
}

func TestPearson_MisalignedSeries(t *testing.T) {
	a := repeat([]float64{0.01, -0.01}, 12)
	b := repeat([]float64{0.01, -0.01}, 14)
	_, ok := Pearson(a, b)
	assert.False(t, ok)
}

func TestPearson_ZeroVariance(t *testing.T) {
	flat := repeat([]float64{0.01}, 12)
	varying := repeat([]float64{0.01, -0.01}, 12)
	_, ok := Pearson(flat, varying)
	assert.False(t, ok, "constant series has no defined correlation")
}

func TestPearson_BoundsAlwaysHold(t *testing.T) {
	a := repeat([]float64{0.013, -0.007, 0.021, -0.002, 0.005}, 20)
	b := repeat([]float64{-0.004, 0.011, -0.016, 0.009, 0.001}, 20)

	r, ok := Pearson(a, b)
	require.True(t, ok)
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestAlignTail(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 20, 30}

	ta, tb := alignTail(a, b)
	assert.Equal(t, []float64{3, 4, 5}, ta, "keeps the most recent window")
	assert.Equal(t, []float64{10, 20, 30}, tb)
}

func TestBuildMatrix_SymmetricLookup(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	history := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
	}

	m := NewAnalyzer().BuildMatrix(history)
	require.Equal(t, 1, m.Len())

	ab, ok := m.Get("BTC", "ETH")
	require.True(t, ok)
	ba, ok := m.Get("ETH", "BTC")
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.InDelta(t, 1.0, ab, 1e-9)
}

func TestBuildMatrix_OmitsInsufficientPairs(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005}, 12)
	history := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
		"NEW": pricesFromReturns(10, pattern[:5]), // 5 returns, under the floor
	}

	m := NewAnalyzer().BuildMatrix(history)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get("BTC", "NEW")
	assert.False(t, ok, "short pair is absent, not zero")
}

func TestBuildMatrix_OmitsZeroVariancePairs(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005}, 12)
	history := map[string][]float64{
		"BTC":  pricesFromReturns(60000, pattern),
		"USDX": pricesFromReturns(1, repeat([]float64{0}, 24)), // pegged, flat
	}

	m := NewAnalyzer().BuildMatrix(history)
	assert.Equal(t, 0, m.Len())
}

func TestHighlyCorrelatedPairs_SortedAndDeduplicated(t *testing.T) {
	up := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	down := make([]float64, len(up))
	for i := range up {
		down[i] = -up[i]
	}
	history := map[string][]float64{
		"AAA": pricesFromReturns(100, up),
		"BBB": pricesFromReturns(200, up),
		"CCC": pricesFromReturns(300, down),
	}

	an := NewAnalyzer()
	pairs := an.HighlyCorrelatedPairs(an.BuildMatrix(history), 0.7)

	// Three distinct pairs, each appearing once despite the symmetric matrix
	// storage, tied at |r|=1 and therefore in lexical order.
	require.Len(t, pairs, 3)
	assert.Equal(t, "AAA", pairs[0].AssetA)
	assert.Equal(t, "BBB", pairs[0].AssetB)
	assert.Equal(t, "AAA", pairs[1].AssetA)
	assert.Equal(t, "CCC", pairs[1].AssetB)
	assert.Equal(t, "BBB", pairs[2].AssetA)
	assert.Equal(t, "CCC", pairs[2].AssetB)

	assert.InDelta(t, -1.0, pairs[1].Correlation, 1e-9, "anti-correlation counts by absolute value")
}

func TestAnalyzePlatform_ConcentrationWarning(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	history := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
		"SOL": pricesFromReturns(150, pattern),
	}

	report := NewAnalyzer().AnalyzePlatform([]string{"BTC", "ETH", "SOL"}, history, "alpha")

	assert.Equal(t, "alpha", report.Venue)
	assert.Equal(t, 3, report.HoldingCount)
	assert.Len(t, report.HighPairs, 3)
	assert.InDelta(t, 1.0, report.MaxCorrelation, 1e-9)
	require.NotEmpty(t, report.ConcentrationWarning)
	assert.Contains(t, report.ConcentrationWarning, "3 assets")
	assert.Contains(t, report.ConcentrationWarning, "alpha")
}

func TestAnalyzePlatform_TwoCorrelatedAssetsWithinLimit(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	history := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
	}

	report := NewAnalyzer().AnalyzePlatform([]string{"BTC", "ETH"}, history, "alpha")
	assert.Len(t, report.HighPairs, 1)
	assert.Empty(t, report.ConcentrationWarning, "two correlated assets are at the limit, not over it")
}

func TestAnalyzePlatform_RestrictsToHoldings(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	history := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
		"SOL": pricesFromReturns(150, pattern),
	}

	// SOL has history but is not held, so it contributes no pairs.
	report := NewAnalyzer().AnalyzePlatform([]string{"BTC", "ETH"}, history, "alpha")
	assert.Equal(t, 1, report.Matrix.Len())
	assert.Empty(t, report.ConcentrationWarning)
}

func TestAnalyzeCrossVenue_Warning(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	historyA := map[string][]float64{"BTC": pricesFromReturns(60000, pattern)}
	historyB := map[string][]float64{"SOL": pricesFromReturns(150, pattern)}

	report := NewAnalyzer().AnalyzeCrossVenue(historyA, historyB)

	require.Len(t, report.Pairs, 1)
	assert.InDelta(t, 1.0, report.MaxCorrelation, 1e-9)
	assert.Contains(t, report.Warning, "cross-venue correlation")
}

func TestAnalyzeCrossVenue_UncorrelatedNoWarning(t *testing.T) {
	// Orthogonal alternation patterns: sample correlation is exactly zero.
	retsA := repeat([]float64{0.01, -0.01}, 12)
	retsB := repeat([]float64{0.01, 0.01, -0.01, -0.01}, 12)

	report := NewAnalyzer().AnalyzeCrossVenue(
		map[string][]float64{"BTC": pricesFromReturns(60000, retsA)},
		map[string][]float64{"XAU": pricesFromReturns(2400, retsB)},
	)

	require.Len(t, report.Pairs, 1)
	assert.Less(t, report.MaxCorrelation, 0.5)
	assert.Empty(t, report.Warning)
}

func TestAnalyzeDualVenue_FlattensWarnings(t *testing.T) {
	pattern := repeat([]float64{0.01, -0.005, 0.02, -0.01}, 12)
	historyA := map[string][]float64{
		"BTC": pricesFromReturns(60000, pattern),
		"ETH": pricesFromReturns(2900, pattern),
		"SOL": pricesFromReturns(150, pattern),
	}
	historyB := map[string][]float64{"AVAX": pricesFromReturns(30, pattern)}

	report := NewAnalyzer().AnalyzeDualVenue(
		[]string{"BTC", "ETH", "SOL"}, historyA, "alpha",
		[]string{"AVAX"}, historyB, "beta",
	)

	require.NotNil(t, report.VenueA)
	require.NotNil(t, report.VenueB)
	assert.NotEmpty(t, report.VenueA.ConcentrationWarning)
	assert.Empty(t, report.VenueB.ConcentrationWarning)
	assert.NotEmpty(t, report.CrossVenue.Warning)

	// Alpha's concentration plus the cross-venue advisory.
	assert.Len(t, report.Warnings, 2)

	assert.Same(t, report.VenueA, report.PlatformFor("alpha"))
	assert.Same(t, report.VenueB, report.PlatformFor("beta"))
	assert.Nil(t, report.PlatformFor("gamma"))
}
