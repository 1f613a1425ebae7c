package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantrun/riskgate/internal/domain"
)

func TestStatusAt_CryptoAlwaysOpen(t *testing.T) {
	s := NewStatic()

	// Saturday 03:00 UTC, deep in every other market's weekend.
	at := time.Date(2026, 8, 22, 3, 0, 0, 0, time.UTC)
	status := s.StatusAt("BTC", domain.AssetCrypto, at)

	assert.True(t, status.IsOpen)
	assert.Equal(t, "24/7", status.Session)
}

func TestStatusAt_EquitySession(t *testing.T) {
	s := NewStatic()

	cases := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"mid-session Tuesday", time.Date(2026, 8, 18, 15, 0, 0, 0, time.UTC), true},
		{"before open", time.Date(2026, 8, 18, 13, 0, 0, 0, time.UTC), false},
		{"at the close", time.Date(2026, 8, 18, 20, 0, 0, 0, time.UTC), false},
		{"Saturday", time.Date(2026, 8, 22, 15, 0, 0, 0, time.UTC), false},
		{"Sunday", time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := s.StatusAt("AAPL", domain.AssetEquity, tc.at)
			assert.Equal(t, tc.open, status.IsOpen)
		})
	}
}

func TestStatusAt_FridayCloseBoundary(t *testing.T) {
	s := NewStatic()

	// Friday 19:30 UTC, inside the final hour of the cash session.
	at := time.Date(2026, 8, 21, 19, 30, 0, 0, time.UTC)
	status := s.StatusAt("AAPL", domain.AssetEquity, at)

	assert.True(t, status.IsOpen)
	assert.True(t, status.NearWeeklyBoundary)
	assert.Contains(t, status.Warning, "weekly close")

	// Same day two hours earlier: open, no boundary warning.
	status = s.StatusAt("AAPL", domain.AssetEquity, at.Add(-2*time.Hour))
	assert.True(t, status.IsOpen)
	assert.False(t, status.NearWeeklyBoundary)
}

func TestStatusAt_ForexWeek(t *testing.T) {
	s := NewStatic()

	cases := []struct {
		name     string
		at       time.Time
		open     bool
		boundary bool
	}{
		{"Wednesday overnight", time.Date(2026, 8, 19, 2, 0, 0, 0, time.UTC), true, false},
		{"Friday before close", time.Date(2026, 8, 21, 21, 30, 0, 0, time.UTC), true, true},
		{"Friday after close", time.Date(2026, 8, 21, 22, 30, 0, 0, time.UTC), false, false},
		{"Saturday", time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), false, false},
		{"Sunday before reopen", time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC), false, false},
		{"Sunday after reopen", time.Date(2026, 8, 23, 22, 30, 0, 0, time.UTC), true, true},
		{"Monday morning", time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := s.StatusAt("EURUSD", domain.AssetForex, tc.at)
			assert.Equal(t, tc.open, status.IsOpen)
			assert.Equal(t, tc.boundary, status.NearWeeklyBoundary)
		})
	}
}

func TestAgeValidator_PerClassLimits(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	v := NewAgeValidator()
	v.now = func() time.Time { return now }

	// 8 minutes old: stale for crypto, fresh for equity.
	ts := now.Add(-8 * time.Minute)

	res := v.Validate(ts, domain.AssetCrypto, "1h")
	assert.False(t, res.IsFresh)
	assert.InDelta(t, 8.0, res.AgeMinutes, 1e-9)
	assert.Contains(t, res.Message, "crypto")

	res = v.Validate(ts, domain.AssetEquity, "1h")
	assert.True(t, res.IsFresh)
	assert.Empty(t, res.Message)
}

func TestAgeValidator_UnknownClassDefaults(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	v := NewAgeValidator()
	v.now = func() time.Time { return now }

	res := v.Validate(now.Add(-6*time.Minute), domain.AssetClass("bond"), "1h")
	assert.False(t, res.IsFresh, "unknown classes get the strict 5 minute default")
}
